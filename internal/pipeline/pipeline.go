// Package pipeline drives the per-file explanation run: it decides which
// files are eligible, prompts the generator for each one in tree order,
// writes one document per file and aggregates them into the overview.
package pipeline

import (
	"context"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/explainer/internal/config"
	"github.com/harrison/explainer/internal/generator"
	"github.com/harrison/explainer/internal/logger"
	"github.com/harrison/explainer/internal/models"
	"github.com/harrison/explainer/internal/storage"
	"github.com/harrison/explainer/internal/tree"
)

// Progress receives one call per file of the tree: Step before an
// eligible file is generated, Skip when a file is not eligible.
type Progress interface {
	Step(relPath string)
	Skip(relPath, reason string)
}

// Options tune a Pipeline.
type Options struct {
	// Concurrency is the number of generator calls in flight. Values
	// below 2 run strictly sequentially.
	Concurrency int
	// MaxFileSize is the largest file in bytes that is still explained.
	MaxFileSize int64
	// Progress is optional.
	Progress Progress
}

// Pipeline explains the files of a RunContext.
type Pipeline struct {
	workspace *storage.Workspace
	generator generator.Generator
	logger    logger.Logger
	opts      Options
}

// New creates a Pipeline. A nil logger discards output.
func New(ws *storage.Workspace, gen generator.Generator, log logger.Logger, opts Options) *Pipeline {
	if log == nil {
		log = logger.NewNoOpLogger()
	}
	if opts.MaxFileSize <= 0 {
		opts.MaxFileSize = config.DefaultMaxFileSize
	}
	if opts.Concurrency < 1 {
		opts.Concurrency = 1
	}
	return &Pipeline{workspace: ws, generator: gen, logger: log, opts: opts}
}

// job is one file of the tree moving through the run.
type job struct {
	path    string // absolute location in the upload area
	record  models.ExplanationRecord
	skip    error // non-nil when the file is not eligible
	elapsed time.Duration
}

// Run explains every eligible file of rc and writes the overview. Per-file
// generation and write failures are recorded in the result; only a
// cancelled context or an unwritable overview fails the run.
func (p *Pipeline) Run(ctx context.Context, rc *models.RunContext) (*models.RunResult, error) {
	start := time.Now()

	unlock, err := p.workspace.Lock()
	if err != nil {
		return nil, fmt.Errorf("failed to lock workspace: %w", err)
	}
	defer unlock()

	p.logger.LogRunStart(rc)

	structure := tree.Render(rc.Tree, 0)
	result := &models.RunResult{RunID: rc.ID}

	jobs := p.jobs(rc)
	if err := p.generate(ctx, structure, jobs); err != nil {
		return nil, err
	}

	var overview strings.Builder
	overview.WriteString(OverviewHeader(structure))
	writers := map[string][]string{}

	for _, j := range jobs {
		rec := &j.record
		if j.skip != nil {
			result.Skipped++
			p.logger.LogFileResult(models.FileResult{RelativePath: rec.RelativePath, Status: models.FileSkipped, Detail: j.skip.Error()})
			continue
		}

		if _, err := p.workspace.WriteDocument(storage.AreaOutput, rec.OutputDocument, []byte(Document(rec.RelativePath, rec.Explanation))); err != nil {
			result.StorageErrors++
			p.logger.LogFileResult(models.FileResult{RelativePath: rec.RelativePath, Status: models.FileDropped, Detail: err.Error(), Duration: j.elapsed})
			continue
		}
		status := models.FileExplained
		if rec.Degraded() {
			status = models.FileDegraded
			result.Failed++
		}
		result.Processed++
		result.Documents = append(result.Documents, rec.OutputDocument)
		writers[rec.OutputDocument] = append(writers[rec.OutputDocument], rec.RelativePath)

		overview.WriteString(OverviewEntry(rec.RelativePath, rec.OutputDocument, ExtractSummary(rec.Explanation)))
		p.logger.LogFileResult(models.FileResult{RelativePath: rec.RelativePath, Status: status, Detail: rec.Failure, Duration: j.elapsed})
	}

	for name, paths := range writers {
		if len(paths) < 2 {
			continue
		}
		if result.Collisions == nil {
			result.Collisions = map[string][]string{}
		}
		result.Collisions[name] = paths
		p.logger.LogWarn(fmt.Sprintf("%s was written by %d files, keeping %s: %s", name, len(paths), paths[len(paths)-1], strings.Join(paths, ", ")))
	}

	overviewPath, err := p.workspace.WriteDocument(storage.AreaOutput, OverviewName, []byte(overview.String()))
	if err != nil {
		p.logger.LogError(err.Error())
		return nil, &FatalIOError{Path: filepath.Join(rc.OutputRoot, OverviewName), Err: err}
	}
	result.OverviewPath = overviewPath
	result.Duration = time.Since(start)

	p.logger.LogSummary(*result)
	return result, nil
}

// jobs lists every file of the tree in Flatten order.
func (p *Pipeline) jobs(rc *models.RunContext) []*job {
	files := tree.Flatten(rc.Tree)
	jobs := make([]*job, 0, len(files))
	for _, file := range files {
		jobs = append(jobs, &job{
			path: filepath.Join(rc.UploadRoot, filepath.FromSlash(file.RelativePath)),
			record: models.ExplanationRecord{
				RelativePath:   file.RelativePath,
				OutputDocument: DocumentName(file.RelativePath),
			},
		})
	}
	return jobs
}

// generate fills in every job's explanation. With a concurrency of one
// the files are handled in order on the calling goroutine; otherwise at
// most Concurrency files are in flight. Results stay attached to their
// job, so the caller sees them in tree order either way.
func (p *Pipeline) generate(ctx context.Context, structure string, jobs []*job) error {
	if p.opts.Concurrency <= 1 {
		for _, j := range jobs {
			if err := p.explain(ctx, structure, j); err != nil {
				return err
			}
		}
		return nil
	}

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(p.opts.Concurrency)
	for _, j := range jobs {
		j := j
		g.Go(func() error {
			return p.explain(gctx, structure, j)
		})
	}
	return g.Wait()
}

// explain checks eligibility and runs the generator for one job. A
// generator failure becomes a placeholder explanation; only cancellation
// of ctx is returned.
func (p *Pipeline) explain(ctx context.Context, structure string, j *job) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	content, err := loadEligible(p.workspace.FS, j.path, p.opts.MaxFileSize)
	if err != nil {
		j.skip = err
		if p.opts.Progress != nil {
			p.opts.Progress.Skip(j.record.RelativePath, err.Error())
		}
		return nil
	}
	if p.opts.Progress != nil {
		p.opts.Progress.Step(j.record.RelativePath)
	}

	j.record.PromptText = BuildPrompt(structure, j.record.RelativePath, content)
	started := time.Now()
	text, err := p.generator.Generate(ctx, j.record.PromptText)
	j.elapsed = time.Since(started)
	j.record.PromptText = ""

	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return ctxErr
		}
		j.record.Failure = generator.Reason(err)
		j.record.Explanation = FailurePrefix + j.record.Failure
		p.logger.LogDebug(fmt.Sprintf("generation failed for %s: %v", j.record.RelativePath, err))
		return nil
	}
	j.record.Explanation = text
	return nil
}
