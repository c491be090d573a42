package models

import "time"

// File processing outcomes reported to loggers.
const (
	FileExplained = "EXPLAINED"
	FileDegraded  = "DEGRADED" // generator failed, placeholder written
	FileSkipped   = "SKIPPED"
	FileDropped   = "DROPPED" // output document could not be written
)

// ExplanationRecord is the transient state for one eligible file while
// the pipeline visits it. It is discarded once its document is written
// and its entry folded into the overview.
type ExplanationRecord struct {
	RelativePath   string
	PromptText     string
	Explanation    string
	Failure        string // non-empty when the generator failed
	OutputDocument string // "<basename>.md"
}

// Degraded reports whether the explanation is a failure placeholder.
func (r *ExplanationRecord) Degraded() bool {
	return r.Failure != ""
}

// FileResult reports the outcome of one file in a run.
type FileResult struct {
	RelativePath string
	Status       string // one of the File* constants
	Detail       string // failure reason or skip cause
	Duration     time.Duration
}
