package server

import (
	"time"

	"github.com/harrison/explainer/internal/logger"
	"github.com/harrison/explainer/internal/pipeline"
)

const (
	defaultAddr            = "127.0.0.1:5000"
	defaultShutdownTimeout = 30 * time.Second
)

// Option applies a setting to Config.
type Option func(Config) Config

// WithAddr sets the listen address.
func WithAddr(addr string) Option {
	return func(cfg Config) Config {
		if addr != "" {
			cfg.addr = addr
		}
		return cfg
	}
}

// WithLogger sets the logger used by middleware and controllers.
func WithLogger(log logger.Logger) Option {
	return func(cfg Config) Config {
		if log != nil {
			cfg.logger = log
		}
		return cfg
	}
}

// WithPipelineOptions sets the options of the pipeline run on generate.
func WithPipelineOptions(opts pipeline.Options) Option {
	return func(cfg Config) Config {
		cfg.pipeline = opts
		return cfg
	}
}

// WithShutdownTimeout bounds graceful shutdown.
func WithShutdownTimeout(d time.Duration) Option {
	return func(cfg Config) Config {
		cfg.shutdownTimeout = d
		return cfg
	}
}

// Config is the server configuration.
type Config struct {
	addr            string
	logger          logger.Logger
	pipeline        pipeline.Options
	shutdownTimeout time.Duration
}

// NewConfig returns a new Config instance.
func NewConfig(opts ...Option) *Config {
	cfg := Config{
		addr:            defaultAddr,
		logger:          logger.NewNoOpLogger(),
		shutdownTimeout: defaultShutdownTimeout,
	}

	for _, opt := range opts {
		cfg = opt(cfg)
	}

	return &cfg
}
