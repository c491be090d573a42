package tree

import (
	"strings"

	"github.com/harrison/explainer/internal/models"
)

// Outline markers for folders and files.
const (
	FolderMarker = "📁"
	FileMarker   = "📄"
)

// Flatten returns every file node depth-first in tree order. Folders are
// not yielded. This order drives the explanation pipeline.
func Flatten(nodes []*models.TreeNode) []*models.TreeNode {
	var files []*models.TreeNode
	for _, n := range nodes {
		switch {
		case n.IsFile():
			files = append(files, n)
		case n.IsFolder():
			files = append(files, Flatten(n.Children)...)
		}
	}
	return files
}

// Render produces the indented outline of nodes starting at level:
// two spaces per level, one entry per line, children right after their
// parent.
func Render(nodes []*models.TreeNode, level int) string {
	var b strings.Builder
	render(&b, nodes, level)
	return b.String()
}

func render(b *strings.Builder, nodes []*models.TreeNode, level int) {
	indent := strings.Repeat("  ", level)
	for _, n := range nodes {
		if n.IsFolder() {
			b.WriteString(indent + FolderMarker + " " + n.Name + "/\n")
			render(b, n.Children, level+1)
			continue
		}
		b.WriteString(indent + FileMarker + " " + n.Name + "\n")
	}
}

// Count returns the number of files and folders in the tree.
func Count(nodes []*models.TreeNode) (files, folders int) {
	for _, n := range nodes {
		if n.IsFolder() {
			folders++
			f, d := Count(n.Children)
			files += f
			folders += d
			continue
		}
		files++
	}
	return files, folders
}
