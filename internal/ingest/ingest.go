// Package ingest turns an upload batch into a RunContext: it filters the
// batch, resets the workspace, stores the accepted files and builds the
// tree model from what actually landed on disk.
package ingest

import (
	"context"
	"fmt"

	"github.com/hashicorp/go-multierror"

	"github.com/harrison/explainer/internal/logger"
	"github.com/harrison/explainer/internal/models"
	"github.com/harrison/explainer/internal/pathfilter"
	"github.com/harrison/explainer/internal/storage"
	"github.com/harrison/explainer/internal/tree"
)

// Ingester places upload batches into a workspace.
type Ingester struct {
	workspace *storage.Workspace
	logger    logger.Logger
}

// New creates an Ingester. A nil logger discards output.
func New(ws *storage.Workspace, log logger.Logger) *Ingester {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	return &Ingester{workspace: ws, logger: log}
}

// Result is a RunContext plus the per-file placement errors that were
// recovered while storing it.
type Result struct {
	Run *models.RunContext
	// StorageErrors holds every *storage.StorageError and tree scan error;
	// nil when everything was placed.
	StorageErrors *multierror.Error
}

// Ingest filters files, resets the workspace and stores the accepted
// files. Batches with nothing to store are rejected with *IngestionError
// before the workspace is modified.
func (i *Ingester) Ingest(ctx context.Context, files []models.UploadFile) (*Result, error) {
	candidates := make([]models.UploadFile, 0, len(files))
	for _, f := range files {
		p := f.NormalizedPath()
		if p == "" {
			continue
		}
		if pathfilter.IsSelfReference(p) {
			i.logger.LogDebug(fmt.Sprintf("dropping self-reference %s", p))
			continue
		}
		candidates = append(candidates, models.UploadFile{Path: p, Content: f.Content})
	}
	if len(candidates) == 0 {
		return nil, &IngestionError{Message: MsgNoValidFiles, Dropped: len(files)}
	}

	patterns := pathfilter.PatternsFromUploads(candidates)
	accepted := pathfilter.Filter(candidates, patterns)
	i.logger.LogDebug(fmt.Sprintf("%d patterns, %d of %d uploads accepted", len(patterns), len(accepted), len(candidates)))
	if len(accepted) == 0 {
		return nil, &IngestionError{Message: MsgNoValidFiles, Dropped: len(files)}
	}

	if err := ctx.Err(); err != nil {
		return nil, err
	}

	unlock, err := i.workspace.Lock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock workspace: %w", err)
	}
	defer unlock()

	for _, area := range []string{storage.AreaUploads, storage.AreaOutput} {
		if err := i.workspace.Reset(area); err != nil {
			return nil, fmt.Errorf("failed to reset workspace: %w", err)
		}
	}

	rc := models.NewRunContext(i.workspace.Path(storage.AreaUploads), i.workspace.Path(storage.AreaOutput))
	rc.Patterns = patterns

	var errs *multierror.Error
	for _, f := range accepted {
		if err := i.workspace.Save(storage.AreaUploads, f.Path, f.Content); err != nil {
			i.logger.LogWarn(fmt.Sprintf("could not save %s: %v", f.Path, err))
			errs = multierror.Append(errs, err)
			continue
		}
		rc.Accepted = append(rc.Accepted, f.Path)
	}

	scan, err := tree.Scan(i.workspace.FS, rc.UploadRoot)
	if err != nil {
		return nil, fmt.Errorf("failed to build folder structure: %w", err)
	}
	for _, scanErr := range scan.Errors {
		i.logger.LogWarn(scanErr.Error())
		errs = multierror.Append(errs, scanErr)
	}
	rc.Tree = scan.Nodes

	return &Result{Run: rc, StorageErrors: errs}, nil
}
