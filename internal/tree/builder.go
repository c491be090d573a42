// Package tree builds the in-memory folder structure of an upload root
// and renders it into the outline used by every prompt and the overview.
package tree

import (
	"fmt"
	"os"
	"path"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/harrison/explainer/internal/models"
)

// ScanResult holds the built tree together with non-fatal errors hit
// while walking it (unreadable subdirectories, dangling links, cycles).
type ScanResult struct {
	Nodes  []*models.TreeNode
	Errors []error
}

// Scan returns the immediate children of root with every folder's
// subtree materialised eagerly, walking depth-first. Within a directory,
// files come first and folders after them, each group in directory
// enumeration order. Nothing is filtered: the tree mirrors exactly what
// exists under root.
func Scan(fs afero.Fs, root string) (*ScanResult, error) {
	info, err := fs.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to access directory: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("path is not a directory: %s", root)
	}

	s := &scanner{fs: fs, result: &ScanResult{}}
	ancestors := map[string]bool{s.canonical(root): true}

	nodes, err := s.children(root, "", ancestors)
	if err != nil {
		return nil, fmt.Errorf("failed to read directory %s: %w", root, err)
	}
	s.result.Nodes = nodes
	return s.result, nil
}

type scanner struct {
	fs     afero.Fs
	result *ScanResult
}

func (s *scanner) children(dir, rel string, ancestors map[string]bool) ([]*models.TreeNode, error) {
	entries, err := readDir(s.fs, dir)
	if err != nil {
		return nil, err
	}

	var files, folders []*models.TreeNode
	for _, entry := range entries {
		full := filepath.Join(dir, entry.Name())
		childRel := path.Join(rel, entry.Name())

		info := entry
		if entry.Mode()&os.ModeSymlink != 0 {
			target, err := s.fs.Stat(full)
			if err != nil {
				s.result.Errors = append(s.result.Errors, fmt.Errorf("dangling link %s: %w", childRel, err))
				continue
			}
			info = target
		}

		if !info.IsDir() {
			files = append(files, &models.TreeNode{
				Kind:         models.NodeFile,
				Name:         entry.Name(),
				RelativePath: childRel,
				SizeBytes:    info.Size(),
			})
			continue
		}

		id := s.canonical(full)
		if ancestors[id] {
			s.result.Errors = append(s.result.Errors, fmt.Errorf("directory cycle at %s", childRel))
			continue
		}

		ancestors[id] = true
		kids, err := s.children(full, childRel, ancestors)
		delete(ancestors, id)
		if err != nil {
			s.result.Errors = append(s.result.Errors, fmt.Errorf("error accessing %s: %w", childRel, err))
		}

		folders = append(folders, &models.TreeNode{
			Kind:         models.NodeFolder,
			Name:         entry.Name(),
			RelativePath: childRel,
			Children:     kids,
		})
	}

	return append(files, folders...), nil
}

// canonical returns the identity used for cycle detection. On the OS
// filesystem symlinks are resolved; other filesystems have none.
func (s *scanner) canonical(dir string) string {
	if _, ok := s.fs.(*afero.OsFs); ok {
		if resolved, err := filepath.EvalSymlinks(dir); err == nil {
			return resolved
		}
	}
	return filepath.Clean(dir)
}

// readDir lists dir without sorting so the tree keeps enumeration order.
func readDir(fs afero.Fs, dir string) ([]os.FileInfo, error) {
	f, err := fs.Open(dir)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return f.Readdir(-1)
}
