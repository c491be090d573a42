package pathfilter

import (
	"strings"

	"github.com/harrison/explainer/internal/models"
)

// GitignoreName is the file name whose contents feed the pattern set.
const GitignoreName = ".gitignore"

// ParseGitignore turns .gitignore text into patterns. Lines are trimmed;
// blank lines and lines whose first non-space character is "#" are dropped.
func ParseGitignore(content string) models.PatternSet {
	var patterns models.PatternSet
	for _, line := range strings.Split(content, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		patterns = append(patterns, models.ParsePattern(line))
	}
	return patterns
}

// PatternsFromUploads builds the pattern set for a whole batch from
// every upload whose final segment is exactly ".gitignore". Patterns
// from several files are concatenated in upload order.
func PatternsFromUploads(files []models.UploadFile) models.PatternSet {
	var patterns models.PatternSet
	for _, f := range files {
		if f.Basename() != GitignoreName {
			continue
		}
		patterns = append(patterns, ParseGitignore(string(f.Content))...)
	}
	return patterns
}
