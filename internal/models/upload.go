package models

import "strings"

// UploadFile is one (path, content) pair of an uploaded directory tree.
// Path is the browser-supplied relative path and may use either separator.
type UploadFile struct {
	Path    string
	Content []byte
}

// NormalizedPath returns Path with every backslash converted to a forward slash.
func (f UploadFile) NormalizedPath() string {
	return NormalizePath(f.Path)
}

// Basename returns the final path segment of the normalized path.
func (f UploadFile) Basename() string {
	p := f.NormalizedPath()
	if idx := strings.LastIndex(p, "/"); idx != -1 {
		return p[idx+1:]
	}
	return p
}

// NormalizePath converts Windows separators to forward slashes.
// No other cleaning happens; callers that need traversal protection
// use storage.SafeJoin.
func NormalizePath(p string) string {
	return strings.ReplaceAll(p, `\`, "/")
}
