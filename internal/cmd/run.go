package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/harrison/explainer/internal/display"
	"github.com/harrison/explainer/internal/ingest"
	"github.com/harrison/explainer/internal/pipeline"
	"github.com/harrison/explainer/internal/storage"
	"github.com/harrison/explainer/internal/tree"
)

// NewRunCommand creates the run command
func NewRunCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "run <project-directory>",
		Short: "Explain every file of a project folder",
		Long: `Explain every file of a project folder.

The folder is copied into the work directory's uploads area, filtered by
any .gitignore files it contains, and each eligible file is sent to the
configured generator. One Markdown document per file and a
project_overview.md are written to the output area.

Configuration is loaded from .explainer/config.yaml under EXPLAINER_HOME
(or the current directory) if present. CLI flags override configuration
file settings.

Examples:
  explainer run ./myproject
  explainer run ./myproject --concurrency 4
  explainer run ./myproject --provider claude
  explainer run ./myproject --timeout 90s --log-level debug`,
		Args: cobra.ExactArgs(1),
		RunE: runCommand,
	}

	addConfigFlags(cmd)
	return cmd
}

// runCommand implements the run command logic
func runCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	osFs := afero.NewOsFs()
	files, err := ingest.LoadDirectory(osFs, args[0], cfg.WorkDir, cfg.LogDir)
	if err != nil {
		return err
	}

	gen, err := newGenerator(cfg.Generator)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	ws := storage.New(osFs, cfg.WorkDir)
	ingested, err := ingest.New(ws, log).Ingest(ctx, files)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if ingested.StorageErrors != nil {
		failed := make([]string, 0, len(ingested.StorageErrors.Errors))
		for _, e := range ingested.StorageErrors.Errors {
			failed = append(failed, e.Error())
		}
		display.WarnRunErrors("Files Not Stored", failed).Display(out)
	}

	fileCount, _ := tree.Count(ingested.Run.Tree)
	progress := display.NewProgressIndicator(out, fileCount)
	progress.Start()

	p := pipeline.New(ws, gen, log, pipeline.Options{
		Concurrency: cfg.Concurrency,
		MaxFileSize: cfg.MaxFileSize,
		Progress:    progress,
	})
	result, err := p.Run(ctx, ingested.Run)
	if err != nil {
		return err
	}

	for _, w := range display.WarnCollisions(result.Collisions) {
		w.Display(out)
	}
	progress.Complete(result.OverviewPath)

	if result.Failed > 0 || result.StorageErrors > 0 {
		fmt.Fprintf(out, "%d files could not be explained, %d documents could not be written\n", result.Failed, result.StorageErrors)
	}
	return nil
}
