// Package storage manages the scoped working area of a run: an uploads
// area holding the accepted project files and an output area holding the
// generated documents. Both are fully reset before each run.
package storage

import (
	"fmt"
	"path/filepath"
	"sync"

	"github.com/spf13/afero"

	"github.com/harrison/explainer/internal/filelock"
)

// Area names within a workspace.
const (
	AreaUploads = "uploads"
	AreaOutput  = "output"
)

const lockFileName = ".explainer.lock"

// Workspace is a working area rooted at Root on FS.
type Workspace struct {
	FS   afero.Fs
	Root string

	mu   sync.Mutex // guards in-memory filesystems, which cannot be flocked
	lock *filelock.FileLock
}

// New returns a workspace rooted at root. A nil fs selects the OS filesystem.
func New(fs afero.Fs, root string) *Workspace {
	if fs == nil {
		fs = afero.NewOsFs()
	}
	return &Workspace{FS: fs, Root: filepath.Clean(root)}
}

// Path returns the absolute location of an area.
func (w *Workspace) Path(area string) string {
	return filepath.Join(w.Root, area)
}

// Lock claims the workspace for a single run. The returned function
// releases it. On the OS filesystem a flock on Root guards the area
// across processes; otherwise a process-local mutex is used.
func (w *Workspace) Lock() (func(), error) {
	if _, ok := w.FS.(*afero.OsFs); !ok {
		if !w.mu.TryLock() {
			return nil, filelock.ErrRunInProgress
		}
		return w.mu.Unlock, nil
	}

	lock := filelock.NewFileLock(filepath.Join(w.Root, lockFileName))
	if err := lock.TryLock(); err != nil {
		return nil, err
	}
	return func() { lock.Unlock() }, nil
}

// Reset destroys and recreates an area. It fails unless the area is
// empty afterwards, so no file of a previous run can leak into the next.
func (w *Workspace) Reset(area string) error {
	dir := w.Path(area)
	if err := w.FS.RemoveAll(dir); err != nil {
		return fmt.Errorf("failed to clear %s: %w", dir, err)
	}
	if err := w.FS.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to recreate %s: %w", dir, err)
	}

	entries, err := afero.ReadDir(w.FS, dir)
	if err != nil {
		return fmt.Errorf("failed to verify %s: %w", dir, err)
	}
	if len(entries) > 0 {
		return fmt.Errorf("area %s still holds %d stale entries after reset", dir, len(entries))
	}
	return nil
}

// Save writes content under area at the slash-separated path rel,
// creating intermediate directories. Failures come back as *StorageError.
func (w *Workspace) Save(area, rel string, content []byte) error {
	target, err := SafeJoin(w.Path(area), rel)
	if err != nil {
		return &StorageError{Area: area, Path: rel, Err: err}
	}
	if err := w.FS.MkdirAll(filepath.Dir(target), 0755); err != nil {
		return &StorageError{Area: area, Path: rel, Err: err}
	}
	if err := afero.WriteFile(w.FS, target, content, 0644); err != nil {
		return &StorageError{Area: area, Path: rel, Err: err}
	}
	return nil
}

// WriteDocument atomically writes a generated document named name into
// area and returns its full path.
func (w *Workspace) WriteDocument(area, name string, content []byte) (string, error) {
	target, err := SafeJoin(w.Path(area), name)
	if err != nil {
		return "", &StorageError{Area: area, Path: name, Err: err}
	}
	if err := filelock.AtomicWrite(w.FS, target, content); err != nil {
		return "", &StorageError{Area: area, Path: name, Err: err}
	}
	return target, nil
}

// Open opens a file stored under area for reading.
func (w *Workspace) Open(area, rel string) (afero.File, error) {
	target, err := SafeJoin(w.Path(area), rel)
	if err != nil {
		return nil, err
	}
	return w.FS.Open(target)
}

// ReadFile returns the contents of a file stored under area.
func (w *Workspace) ReadFile(area, rel string) ([]byte, error) {
	target, err := SafeJoin(w.Path(area), rel)
	if err != nil {
		return nil, err
	}
	return afero.ReadFile(w.FS, target)
}
