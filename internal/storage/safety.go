package storage

import (
	"fmt"
	"path/filepath"
	"strings"
)

// SafeJoin joins root and the slash-separated relative path rel and
// verifies the result stays inside root.
func SafeJoin(root, rel string) (string, error) {
	if rel == "" {
		return "", fmt.Errorf("empty path")
	}
	if strings.HasPrefix(rel, "/") || filepath.IsAbs(rel) {
		return "", fmt.Errorf("absolute paths are not allowed: %q", rel)
	}

	cleanRoot := filepath.Clean(root)
	joined := filepath.Join(cleanRoot, filepath.FromSlash(rel))

	r, err := filepath.Rel(cleanRoot, joined)
	if err != nil {
		return "", err
	}
	r = filepath.ToSlash(r)
	if r == "." || r == ".." || strings.HasPrefix(r, "../") {
		return "", fmt.Errorf("path escapes the working area: %q", rel)
	}
	return joined, nil
}
