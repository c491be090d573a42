package models

// NodeKind distinguishes files from folders in the tree model.
type NodeKind string

const (
	NodeFile   NodeKind = "file"
	NodeFolder NodeKind = "folder"
)

// TreeNode is one entry of the in-memory folder structure.
//
// RelativePath always uses "/" and is relative to the upload root.
// SizeBytes is only meaningful for files, Children only for folders.
// Children keep directory enumeration order and are never sorted.
type TreeNode struct {
	Kind         NodeKind    `json:"type"`
	Name         string      `json:"name"`
	RelativePath string      `json:"path"`
	SizeBytes    int64       `json:"size,omitempty"`
	Children     []*TreeNode `json:"children,omitempty"`
}

// IsFile reports whether the node is a file.
func (n *TreeNode) IsFile() bool {
	return n != nil && n.Kind == NodeFile
}

// IsFolder reports whether the node is a folder.
func (n *TreeNode) IsFolder() bool {
	return n != nil && n.Kind == NodeFolder
}
