package display

import (
	"fmt"
	"io"
	"sort"
	"strings"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related files (optional)
	Suggestion string   // Action to take (optional)
}

// Display shows a formatted warning in yellow
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("\x1b[33m")
	b.WriteString("⚠️  Warning: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected file:\n")
		} else {
			b.WriteString("Affected files:\n")
		}

		for i, file := range w.Files {
			b.WriteString(fmt.Sprintf("      %d. %s\n", i+1, file))
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	b.WriteString("\x1b[0m")

	fmt.Fprint(out, b.String())
}

// WarnCollisions creates one warning per output document written by more
// than one file, ordered by document name.
func WarnCollisions(collisions map[string][]string) []Warning {
	names := make([]string, 0, len(collisions))
	for name := range collisions {
		names = append(names, name)
	}
	sort.Strings(names)

	warnings := make([]Warning, 0, len(names))
	for _, name := range names {
		files := collisions[name]
		warnings = append(warnings, Warning{
			Title:      "Output Name Collision",
			Message:    fmt.Sprintf("%d files share the output document %s; only %s was kept", len(files), name, files[len(files)-1]),
			Files:      files,
			Suggestion: "Rename the files or explain the folders separately",
		})
	}
	return warnings
}

// WarnRunErrors creates a warning for files that were skipped or dropped.
func WarnRunErrors(title string, files []string) Warning {
	return Warning{
		Title: title,
		Files: files,
	}
}
