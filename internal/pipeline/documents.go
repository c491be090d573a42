package pipeline

import (
	"path"
	"strings"
)

// OverviewName is the file name of the aggregated overview document.
const OverviewName = "project_overview.md"

// FailurePrefix starts the placeholder written when generation fails.
const FailurePrefix = "Failed to generate explanation: "

// BuildPrompt assembles the generator prompt for one file from the
// rendered project structure and the file's content.
func BuildPrompt(structure, relPath, content string) string {
	var b strings.Builder
	b.WriteString("# Project Structure\n\n```\n")
	b.WriteString(structure)
	b.WriteString("```\n\n# File Contents\n\n")
	b.WriteString("## " + relPath + "\n\n```\n" + content + "\n```\n\n")
	b.WriteString("Please explain the file " + relPath + " line by line, detailing its purpose and functionality.")
	return b.String()
}

// DocumentName returns the output document name for a file: its
// basename plus ".md". Files sharing a basename share a document.
func DocumentName(relPath string) string {
	return path.Base(relPath) + ".md"
}

// Document renders the per-file explanation document.
func Document(relPath, explanation string) string {
	return "# Explanation for " + relPath + "\n\n" + explanation
}

// OverviewHeader renders the overview up to its first file entry.
func OverviewHeader(structure string) string {
	return "# Project Overview\n\n## Structure\n\n```\n" + structure + "```\n\n## Files\n\n"
}

// OverviewEntry renders one linked file entry of the overview.
func OverviewEntry(relPath, documentName, summary string) string {
	return "### [" + relPath + "](" + documentName + ")\n\n" + summary + "\n\n"
}

// ExtractSummary returns the first line of explanation that is not blank
// and does not start with "#". When every line is blank or a heading the
// first line is returned verbatim. Lines are split on "\n" only.
func ExtractSummary(explanation string) string {
	lines := strings.Split(explanation, "\n")
	for _, line := range lines {
		if strings.TrimSpace(line) != "" && !strings.HasPrefix(line, "#") {
			return line
		}
	}
	return lines[0]
}
