package cmd

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/harrison/explainer/internal/config"
	"github.com/harrison/explainer/internal/generator"
	"github.com/harrison/explainer/internal/logger"
)

// newGenerator is replaced in tests.
var newGenerator = generator.New

// addConfigFlags registers the flags shared by commands that generate.
func addConfigFlags(cmd *cobra.Command) {
	cmd.Flags().String("config", "", "Path to config file (default: .explainer/config.yaml)")
	cmd.Flags().String("log-level", "", "Log level: trace, debug, info, warn, error")
	cmd.Flags().String("log-dir", "", "Directory for log files")
	cmd.Flags().String("work-dir", "", "Directory holding the uploads and output areas")
	cmd.Flags().Int("concurrency", 0, "Number of files explained at once")
	cmd.Flags().Duration("timeout", 0, "Per-file generation timeout (e.g., 90s, 2m)")
	cmd.Flags().String("provider", "", "Generator provider: openai or claude")
	cmd.Flags().String("model", "", "Model used by the generator")
}

// loadConfig resolves configuration for cmd: defaults, environment,
// config file, then explicitly set flags. Relative work and log
// directories are anchored at the explainer home.
func loadConfig(cmd *cobra.Command) (*config.Config, error) {
	home, err := config.GetExplainerHome()
	if err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	var cfg *config.Config
	if configPath != "" {
		cfg, err = config.LoadConfig(configPath)
	} else {
		cfg, err = config.LoadConfigFromDir(home)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load config: %w", err)
	}

	cfg.MergeWithFlags(flagOverrides(cmd))
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	cfg.ResolvePaths(home)
	return cfg, nil
}

// flagOverrides collects the flags the user actually set.
func flagOverrides(cmd *cobra.Command) config.Flags {
	var f config.Flags
	changed := cmd.Flags().Changed

	stringFlag := func(name string) *string {
		if cmd.Flags().Lookup(name) == nil || !changed(name) {
			return nil
		}
		v, _ := cmd.Flags().GetString(name)
		return &v
	}
	f.LogLevel = stringFlag("log-level")
	f.LogDir = stringFlag("log-dir")
	f.WorkDir = stringFlag("work-dir")
	f.Provider = stringFlag("provider")
	f.Model = stringFlag("model")
	f.Addr = stringFlag("addr")

	if changed("concurrency") {
		v, _ := cmd.Flags().GetInt("concurrency")
		f.Concurrency = &v
	}
	if changed("timeout") {
		v, _ := cmd.Flags().GetDuration("timeout")
		f.Timeout = &v
	}
	return f
}

// newLogger builds the console logger, plus a file logger when a log
// directory is configured. The returned function closes the file log.
func newLogger(cfg *config.Config, out io.Writer) (logger.Logger, func(), error) {
	console := logger.NewConsoleLogger(out, cfg.LogLevel)
	if cfg.LogDir == "" {
		return console, func() {}, nil
	}

	fileLogger, err := logger.NewFileLoggerWithDirAndLevel(cfg.LogDir, cfg.LogLevel)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file logger: %w", err)
	}
	return logger.NewMultiLogger(console, fileLogger), func() { _ = fileLogger.Close() }, nil
}
