package storage

import "fmt"

// StorageError reports a failed write of a single file. It is recovered
// locally by callers: the file is dropped and the run continues.
type StorageError struct {
	Area string
	Path string
	Err  error
}

func (e *StorageError) Error() string {
	return fmt.Sprintf("storage %s: %s: %v", e.Area, e.Path, e.Err)
}

func (e *StorageError) Unwrap() error {
	return e.Err
}
