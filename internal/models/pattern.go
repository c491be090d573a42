package models

import "strings"

// Pattern is a single exclusion rule taken from a .gitignore line.
// The flags are derived from the raw syntax once and never change.
type Pattern struct {
	// Raw is the trimmed line as it appeared in the .gitignore file.
	Raw string
	// AnchoredToRoot is set when the line starts with "/".
	AnchoredToRoot bool
	// DirectoryOnly is set when the line ends with "/".
	DirectoryOnly bool
}

// ParsePattern derives a Pattern from a trimmed .gitignore line.
func ParsePattern(line string) Pattern {
	return Pattern{
		Raw:            line,
		AnchoredToRoot: strings.HasPrefix(line, "/"),
		DirectoryOnly:  strings.HasSuffix(line, "/"),
	}
}

// Anchored returns the glob used for root-anchored matching:
// the raw line without its leading separator.
func (p Pattern) Anchored() string {
	return strings.TrimPrefix(p.Raw, "/")
}

// Directory returns the glob used for directory-segment matching:
// the raw line without its trailing separator.
func (p Pattern) Directory() string {
	return strings.TrimSuffix(p.Raw, "/")
}

// PatternSet is the union of all patterns found in an upload batch,
// kept in discovery order.
type PatternSet []Pattern

// Raw returns the raw lines of every pattern in the set.
func (ps PatternSet) Raw() []string {
	out := make([]string, len(ps))
	for i, p := range ps {
		out[i] = p.Raw
	}
	return out
}
