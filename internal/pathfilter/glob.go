package pathfilter

import (
	"sort"
	"strings"
	"sync"
	"unicode/utf8"

	"github.com/gobwas/glob"
)

// compiled caches glob.Glob values by their source pattern. Pattern sets
// are fixed per run and reused for every candidate path.
var compiled sync.Map

// never is the glob of a pattern holding a class that admits no character.
type never struct{}

func (never) Match(string) bool { return false }

// fnmatch reports whether name matches pattern using fnmatch rules.
func fnmatch(name, pattern string) bool {
	return compile(pattern).Match(name)
}

func compile(pattern string) glob.Glob {
	if g, ok := compiled.Load(pattern); ok {
		return g.(glob.Glob)
	}

	var g glob.Glob = never{}
	if translated, ok := toGobwas(pattern); ok {
		var err error
		if g, err = glob.Compile(translated); err != nil {
			g = glob.MustCompile(glob.QuoteMeta(pattern))
		}
	}
	actual, _ := compiled.LoadOrStore(pattern, g)
	return actual.(glob.Glob)
}

// toGobwas rewrites an fnmatch pattern into gobwas syntax. Braces and
// backslashes have no special meaning in fnmatch, so they are escaped.
// An unclosed "[" is literal. Character classes are rewritten as
// alternations of single ranges, the only class form gobwas reads
// without ambiguity. ok is false when a class can match nothing.
// No separators are passed to glob.Compile, which lets "*" match "/".
func toGobwas(pattern string) (string, bool) {
	p := []rune(pattern)
	var b strings.Builder
	b.Grow(len(pattern))

	for i := 0; i < len(p); i++ {
		switch c := p[i]; c {
		case '*', '?':
			b.WriteRune(c)
		case '[':
			end := classEnd(p, i)
			if end < 0 {
				b.WriteString(`\[`)
				continue
			}
			class, ok := translateClass(p[i+1 : end])
			if !ok {
				return "", false
			}
			b.WriteString(class)
			i = end
		case '\\', '{', '}', ',':
			b.WriteByte('\\')
			b.WriteRune(c)
		default:
			b.WriteRune(c)
		}
	}
	return b.String(), true
}

// classEnd returns the index of the "]" closing the class opened at
// start, or -1 when it is never closed. A "]" right after the opening
// "[" or "[!" is part of the class.
func classEnd(p []rune, start int) int {
	j := start + 1
	if j < len(p) && p[j] == '!' {
		j++
	}
	if j < len(p) && p[j] == ']' {
		j++
	}
	for j < len(p) && p[j] != ']' {
		j++
	}
	if j >= len(p) {
		return -1
	}
	return j
}

type runeRange struct{ lo, hi rune }

// translateClass converts the body of an fnmatch class. "-" is literal
// at either end, reversed ranges match nothing, and a leading "!"
// negates the class.
func translateClass(body []rune) (string, bool) {
	negate := len(body) > 0 && body[0] == '!'
	if negate {
		body = body[1:]
	}

	var ranges []runeRange
	for k := 0; k < len(body); {
		if k+2 < len(body) && body[k+1] == '-' {
			if body[k] <= body[k+2] {
				ranges = append(ranges, runeRange{body[k], body[k+2]})
			}
			k += 3
			continue
		}
		ranges = append(ranges, runeRange{body[k], body[k]})
		k++
	}
	if negate {
		ranges = complement(ranges)
	}

	var terms []string
	for _, r := range ranges {
		terms = appendTerms(terms, r)
	}
	switch len(terms) {
	case 0:
		return "", false
	case 1:
		return terms[0], true
	}
	return "{" + strings.Join(terms, ",") + "}", true
}

// complement returns the runes outside ranges. Rune 0 is excluded: the
// gobwas lexer reads it as end of input and paths never hold it.
func complement(ranges []runeRange) []runeRange {
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].lo < ranges[j].lo })

	var out []runeRange
	next := rune(1)
	for _, r := range ranges {
		if r.lo > next {
			out = append(out, runeRange{next, r.lo - 1})
		}
		if r.hi+1 > next {
			next = r.hi + 1
		}
	}
	if next <= utf8.MaxRune {
		out = append(out, runeRange{next, utf8.MaxRune})
	}
	return out
}

// appendTerms renders r as gobwas terms: an escaped literal or a
// "[lo-hi]" range. Surrogate endpoints are moved inward since they
// cannot be encoded, and "!" never opens a range because gobwas would
// read it as negation.
func appendTerms(terms []string, r runeRange) []string {
	if r.lo >= 0xD800 && r.lo <= 0xDFFF {
		r.lo = 0xE000
	}
	if r.hi >= 0xD800 && r.hi <= 0xDFFF {
		r.hi = 0xD7FF
	}
	if r.lo > r.hi {
		return terms
	}
	if r.lo == '!' {
		terms = append(terms, `\!`)
		if r.lo++; r.lo > r.hi {
			return terms
		}
	}
	if r.lo == r.hi {
		return append(terms, `\`+string(r.lo))
	}
	return append(terms, "["+string(r.lo)+"-"+string(r.hi)+"]")
}
