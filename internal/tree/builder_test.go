package tree

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/explainer/internal/models"
)

func memTree(t *testing.T, files map[string]string) afero.Fs {
	t.Helper()
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/root", 0755))
	for p, content := range files {
		full := filepath.Join("/root", p)
		require.NoError(t, fs.MkdirAll(filepath.Dir(full), 0755))
		require.NoError(t, afero.WriteFile(fs, full, []byte(content), 0644))
	}
	return fs
}

func paths(nodes []*models.TreeNode) []string {
	out := make([]string, 0, len(nodes))
	for _, n := range nodes {
		out = append(out, n.RelativePath)
	}
	return out
}

// scanNodes returns only the nodes of a scan.
func scanNodes(fs afero.Fs, root string) ([]*models.TreeNode, error) {
	res, err := Scan(fs, root)
	if err != nil {
		return nil, err
	}
	return res.Nodes, nil
}

func TestScan_StructureAndPaths(t *testing.T) {
	fs := memTree(t, map[string]string{
		"proj/README.md":       "# readme",
		"proj/src/main.go":     "package main",
		"proj/src/util/str.go": "package util",
		"top.txt":              "hello",
	})

	nodes, err := scanNodes(fs, "/root")
	require.NoError(t, err)

	require.Len(t, nodes, 2)
	assert.Equal(t, models.NodeFile, nodes[0].Kind, "files are listed before folders")
	assert.Equal(t, "top.txt", nodes[0].RelativePath)
	assert.Equal(t, int64(5), nodes[0].SizeBytes)

	proj := nodes[1]
	assert.Equal(t, models.NodeFolder, proj.Kind)
	assert.Equal(t, "proj", proj.RelativePath)
	assert.Equal(t, []string{"proj/README.md", "proj/src"}, paths(proj.Children))

	src := proj.Children[1]
	assert.Equal(t, []string{"proj/src/main.go", "proj/src/util"}, paths(src.Children))
	assert.Equal(t, []string{"proj/src/util/str.go"}, paths(src.Children[1].Children))
}

func TestScan_ChildPathsArePrefixedByParent(t *testing.T) {
	fs := memTree(t, map[string]string{
		"a/b/c/d.txt": "x",
		"a/b/e.txt":   "x",
		"a/f.txt":     "x",
	})

	nodes, err := scanNodes(fs, "/root")
	require.NoError(t, err)

	seen := map[string]bool{}
	var walk func(parent string, nodes []*models.TreeNode)
	walk = func(parent string, nodes []*models.TreeNode) {
		for _, n := range nodes {
			assert.False(t, seen[n.RelativePath], "duplicate path %s", n.RelativePath)
			seen[n.RelativePath] = true
			if parent != "" {
				assert.Equal(t, parent+"/"+n.Name, n.RelativePath)
			}
			walk(n.RelativePath, n.Children)
		}
	}
	walk("", nodes)
}

func TestScan_IsIdempotent(t *testing.T) {
	fs := memTree(t, map[string]string{
		"p/x.go":   "1",
		"p/y/z.go": "2",
		"q.txt":    "3",
	})

	first, err := scanNodes(fs, "/root")
	require.NoError(t, err)
	second, err := scanNodes(fs, "/root")
	require.NoError(t, err)

	assert.Equal(t, first, second)
}

func TestScan_EmptyRoot(t *testing.T) {
	fs := afero.NewMemMapFs()
	require.NoError(t, fs.MkdirAll("/root", 0755))

	nodes, err := scanNodes(fs, "/root")
	require.NoError(t, err)
	assert.Empty(t, nodes)
}

func TestScan_RootErrors(t *testing.T) {
	fs := memTree(t, map[string]string{"file.txt": "x"})

	_, err := scanNodes(fs, "/missing")
	assert.Error(t, err)

	_, err = scanNodes(fs, "/root/file.txt")
	assert.ErrorContains(t, err, "not a directory")
}

func TestScan_SymlinkCycleIsSkipped(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(root, "a", "b"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(root, "a", "b", "f.txt"), []byte("x"), 0644))
	if err := os.Symlink(filepath.Join(root, "a"), filepath.Join(root, "a", "b", "loop")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}

	res, err := Scan(afero.NewOsFs(), root)
	require.NoError(t, err)

	assert.Equal(t, []string{"a/b/f.txt"}, paths(Flatten(res.Nodes)))
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), "cycle")
}

func TestScan_SymlinkedFileIsListed(t *testing.T) {
	root := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(root, "real.txt"), []byte("hello"), 0644))
	if err := os.Symlink(filepath.Join(root, "real.txt"), filepath.Join(root, "link.txt")); err != nil {
		t.Skipf("symlinks not supported: %v", err)
	}
	require.NoError(t, os.Symlink(filepath.Join(root, "missing"), filepath.Join(root, "dangling")))

	res, err := Scan(afero.NewOsFs(), root)
	require.NoError(t, err)

	assert.ElementsMatch(t, []string{"real.txt", "link.txt"}, paths(res.Nodes))
	for _, n := range res.Nodes {
		assert.Equal(t, int64(5), n.SizeBytes)
	}
	require.Len(t, res.Errors, 1)
	assert.Contains(t, res.Errors[0].Error(), "dangling")
}
