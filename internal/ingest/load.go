package ingest

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/afero"

	"github.com/harrison/explainer/internal/models"
)

// LoadDirectory reads every regular file under dir into an upload batch.
// Paths are relative to the parent of dir so the top folder name is kept,
// the same shape a browser folder upload produces. Directories listed in
// exclude, such as the explainer's own work and log areas, are skipped
// along with everything below them.
func LoadDirectory(fs afero.Fs, dir string, exclude ...string) ([]models.UploadFile, error) {
	dir = filepath.Clean(dir)
	skip := make(map[string]bool, len(exclude))
	for _, e := range exclude {
		if e != "" {
			skip[absPath(e)] = true
		}
	}

	info, err := fs.Stat(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to read %s: %w", dir, err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", dir)
	}

	base := filepath.Dir(dir)
	var files []models.UploadFile
	err = afero.Walk(fs, dir, func(path string, info os.FileInfo, err error) error {
		if err != nil {
			return err
		}
		if info.IsDir() && skip[absPath(path)] {
			return filepath.SkipDir
		}
		if !info.Mode().IsRegular() {
			return nil
		}
		rel, err := filepath.Rel(base, path)
		if err != nil {
			return err
		}
		content, err := afero.ReadFile(fs, path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, models.UploadFile{Path: filepath.ToSlash(rel), Content: content})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return files, nil
}

func absPath(p string) string {
	if abs, err := filepath.Abs(p); err == nil {
		return abs
	}
	return filepath.Clean(p)
}
