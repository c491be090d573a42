package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/afero"
	"github.com/spf13/cobra"

	"github.com/harrison/explainer/internal/pipeline"
	"github.com/harrison/explainer/internal/server"
	"github.com/harrison/explainer/internal/storage"
)

// NewServeCommand creates the serve command
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the upload and explanation web interface",
		Long: `Serve the explainer over HTTP.

Routes:
  GET  /                      upload form
  POST /upload                upload a folder (multipart field "folder")
  GET  /structure             folder structure of the current upload
  POST /generate_explanation  explain the current upload
  GET  /output/<document>     download a generated document
  GET  /view/<document>       view a generated document as HTML`,
		Args: cobra.NoArgs,
		RunE: serveCommand,
	}

	addConfigFlags(cmd)
	cmd.Flags().String("addr", "", "Listen address (default: 127.0.0.1:5000)")
	return cmd
}

func serveCommand(cmd *cobra.Command, args []string) error {
	cfg, err := loadConfig(cmd)
	if err != nil {
		return err
	}

	log, closeLog, err := newLogger(cfg, cmd.ErrOrStderr())
	if err != nil {
		return err
	}
	defer closeLog()

	gen, err := newGenerator(cfg.Generator)
	if err != nil {
		return fmt.Errorf("failed to create generator: %w", err)
	}

	srv := server.NewServer(storage.New(afero.NewOsFs(), cfg.WorkDir), gen,
		server.WithAddr(cfg.Server.Addr),
		server.WithLogger(log),
		server.WithPipelineOptions(pipeline.Options{
			Concurrency: cfg.Concurrency,
			MaxFileSize: cfg.MaxFileSize,
		}),
	)

	ln, err := srv.Listen()
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()
	return srv.Run(ctx, ln)
}
