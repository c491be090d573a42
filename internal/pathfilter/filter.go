package pathfilter

import (
	"strings"

	"github.com/harrison/explainer/internal/models"
)

// selfReference is the path suffix of the tool's own entry point.
const selfReference = "explainer/app.py"

// ShouldInclude reports whether candidate is part of the project.
// It returns false when the path is a self-reference or when any
// pattern in the set matches.
func ShouldInclude(candidate string, patterns models.PatternSet) bool {
	path := models.NormalizePath(candidate)
	if IsSelfReference(path) {
		return false
	}
	for _, p := range patterns {
		if Matches(path, p) {
			return false
		}
	}
	return true
}

// IsSelfReference reports whether path points at the tool's own source.
// Both separator conventions are accepted.
func IsSelfReference(path string) bool {
	return strings.HasSuffix(models.NormalizePath(path), selfReference)
}

// Matches reports whether a single pattern excludes path. path must
// already be normalized to forward slashes.
func Matches(path string, p models.Pattern) bool {
	segments := strings.Split(path, "/")

	if p.AnchoredToRoot {
		if fnmatch(path, p.Anchored()) {
			return true
		}
	} else {
		if fnmatch(path, p.Raw) {
			return true
		}
		for _, seg := range segments {
			if fnmatch(seg, p.Raw) {
				return true
			}
		}
	}

	if p.DirectoryOnly {
		// Directory rules also exclude everything nested below a match.
		dir := strings.TrimPrefix(p.Directory(), "/")
		for _, seg := range segments[:len(segments)-1] {
			if fnmatch(seg, dir) {
				return true
			}
		}
	}

	return false
}

// Filter returns the uploads that pass ShouldInclude, preserving order.
func Filter(files []models.UploadFile, patterns models.PatternSet) []models.UploadFile {
	kept := make([]models.UploadFile, 0, len(files))
	for _, f := range files {
		if ShouldInclude(f.Path, patterns) {
			kept = append(kept, f)
		}
	}
	return kept
}
