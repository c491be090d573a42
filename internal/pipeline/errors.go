package pipeline

import "fmt"

// FatalIOError reports that the overview document could not be
// persisted. It is the only failure that fails an otherwise finished run.
type FatalIOError struct {
	Path string
	Err  error
}

func (e *FatalIOError) Error() string {
	return fmt.Sprintf("failed to write overview %s: %v", e.Path, e.Err)
}

func (e *FatalIOError) Unwrap() error {
	return e.Err
}
