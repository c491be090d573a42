package models

import (
	"time"

	"github.com/google/uuid"
)

// RunContext carries everything one explanation run needs. It replaces
// process-wide session state: one value per run, handed explicitly to
// the pipeline and never mutated once ingestion has built it.
type RunContext struct {
	ID         string
	UploadRoot string
	OutputRoot string
	Patterns   PatternSet
	// Accepted lists the normalized upload paths that survived filtering
	// and were placed in storage.
	Accepted  []string
	Tree      []*TreeNode
	CreatedAt time.Time
}

// NewRunContext creates a RunContext with a fresh identifier.
func NewRunContext(uploadRoot, outputRoot string) *RunContext {
	return &RunContext{
		ID:         uuid.NewString(),
		UploadRoot: uploadRoot,
		OutputRoot: outputRoot,
		CreatedAt:  time.Now(),
	}
}

// RunResult summarises a finished explanation run.
type RunResult struct {
	RunID        string
	OverviewPath string
	// Documents are the output document names in the order they were written.
	Documents     []string
	Processed     int // files that received an output document
	Skipped       int // binary, oversized or unreadable files
	Failed        int // files whose generator call failed (placeholder written)
	StorageErrors int // files dropped because their document could not be written
	// Collisions maps an output basename to every relative path that wrote it
	// when more than one file shares a basename. Last write wins.
	Collisions map[string][]string
	Duration   time.Duration
}
