package pipeline

import (
	"errors"
	"fmt"
	"io"
	"unicode/utf8"

	"github.com/spf13/afero"
)

// prefixSize bounds the binary sniff: 1024 runes of at most 4 bytes.
const prefixSize = 4096

// Skip causes reported for ineligible files.
var (
	ErrTooLarge   = errors.New("exceeds size limit")
	ErrBinary     = errors.New("not valid UTF-8 text")
	ErrUnreadable = errors.New("unreadable")
)

// loadEligible returns the text of the file at path, or an error wrapping
// one of the skip causes when the file must not be explained.
func loadEligible(fs afero.Fs, path string, maxSize int64) (string, error) {
	info, err := fs.Stat(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	if info.Size() > maxSize {
		return "", fmt.Errorf("%w: %d bytes", ErrTooLarge, info.Size())
	}

	f, err := fs.Open(path)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	defer f.Close()

	prefix := make([]byte, prefixSize)
	n, err := io.ReadFull(f, prefix)
	if err != nil && !errors.Is(err, io.ErrUnexpectedEOF) && !errors.Is(err, io.EOF) {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	prefix = prefix[:n]
	if !looksLikeText(prefix, n == prefixSize) {
		return "", ErrBinary
	}

	rest, err := io.ReadAll(f)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUnreadable, err)
	}
	content := append(prefix, rest...)
	if !utf8.Valid(content) {
		return "", ErrBinary
	}
	return string(content), nil
}

// looksLikeText reports whether prefix decodes as UTF-8. When the prefix
// was cut at the read boundary an incomplete trailing rune is tolerated.
func looksLikeText(prefix []byte, truncated bool) bool {
	if truncated {
		prefix = trimPartialRune(prefix)
	}
	return utf8.Valid(prefix)
}

// trimPartialRune drops an incomplete multi-byte sequence at the end of b.
func trimPartialRune(b []byte) []byte {
	for i := 1; i <= utf8.UTFMax-1 && i <= len(b); i++ {
		c := b[len(b)-i]
		if utf8.RuneStart(c) {
			if !utf8.FullRune(b[len(b)-i:]) {
				return b[:len(b)-i]
			}
			return b
		}
	}
	return b
}
