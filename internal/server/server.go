// Package server exposes the explainer over HTTP: upload a folder,
// inspect its structure, generate explanations and fetch the documents.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"

	"golang.org/x/sync/errgroup"

	"github.com/harrison/explainer/internal/generator"
	"github.com/harrison/explainer/internal/ingest"
	"github.com/harrison/explainer/internal/pipeline"
	"github.com/harrison/explainer/internal/server/controllers"
	"github.com/harrison/explainer/internal/server/middleware"
	"github.com/harrison/explainer/internal/server/router"
	"github.com/harrison/explainer/internal/storage"
)

// Server serves one workspace. Uploads replace the active run; generate
// explains the active run.
type Server struct {
	*router.Router
	config *Config

	Session *controllers.Session
}

// NewServer returns a new Server instance.
func NewServer(ws *storage.Workspace, gen generator.Generator, opts ...Option) *Server {
	cfg := NewConfig(opts...)
	session := &controllers.Session{}

	rootRouter := router.New()
	rootRouter.Use(middleware.Logger(cfg.logger))
	rootRouter.Use(middleware.Recover(cfg.logger))
	rootRouter.Register(
		&controllers.IndexController{},
		&controllers.UploadController{
			Ingester: ingest.New(ws, cfg.logger),
			Session:  session,
			Logger:   cfg.logger,
		},
		&controllers.StructureController{Session: session},
		&controllers.GenerateController{
			Pipeline: pipeline.New(ws, gen, cfg.logger, cfg.pipeline),
			Session:  session,
		},
		&controllers.OutputController{Workspace: ws},
	)

	return &Server{
		Router:  rootRouter,
		config:  cfg,
		Session: session,
	}
}

// Listen starts listening on the configured address.
func (server *Server) Listen() (net.Listener, error) {
	ln, err := net.Listen("tcp", server.config.addr)
	if err != nil {
		return nil, fmt.Errorf("failed to listen on %s: %w", server.config.addr, err)
	}
	server.Server.Addr = ln.Addr().String()

	server.config.logger.LogInfo(fmt.Sprintf("Explainer server is listening on %s", server.URL()))
	return ln, nil
}

// Run serves on ln until ctx is cancelled, then shuts down gracefully.
func (server *Server) Run(ctx context.Context, ln net.Listener) error {
	errGroup, ctx := errgroup.WithContext(ctx)
	errGroup.Go(func() error {
		<-ctx.Done()
		server.config.logger.LogInfo("Shutting down explainer server...")

		ctx, cancel := context.WithTimeout(context.Background(), server.config.shutdownTimeout)
		defer cancel()

		if err := server.Shutdown(ctx); err != nil {
			return fmt.Errorf("failed to shut down server: %w", err)
		}
		return nil
	})

	if err := server.Server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("error starting explainer server: %w", err)
	}
	defer server.config.logger.LogInfo("Explainer server stopped")

	return errGroup.Wait()
}
