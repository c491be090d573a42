package config

import (
	"fmt"
	"os"
	"path/filepath"
	"time"

	"gopkg.in/yaml.v3"
)

// Supported generator providers.
const (
	ProviderOpenAI = "openai"
	ProviderClaude = "claude"
)

// DefaultMaxFileSize is the largest file, in bytes, that is still explained.
const DefaultMaxFileSize int64 = 1000000

// GeneratorConfig configures the text-generation backend.
type GeneratorConfig struct {
	// Provider selects the backend: openai or claude
	Provider string `yaml:"provider"`

	// Model is the model identifier passed to the provider
	Model string `yaml:"model"`

	// APIKey authenticates against the openai provider
	APIKey string `yaml:"api_key"`

	// BaseURL overrides the openai endpoint (OpenRouter and other compatible APIs)
	BaseURL string `yaml:"base_url"`

	// Timeout bounds a single generation call (0 = no timeout)
	Timeout time.Duration `yaml:"timeout"`

	// RequestsPerMinute paces generation calls (0 = unlimited)
	RequestsPerMinute int `yaml:"requests_per_minute"`

	// ClaudePath is the claude CLI binary used by the claude provider
	ClaudePath string `yaml:"claude_path"`
}

// ServerConfig configures the HTTP transport.
type ServerConfig struct {
	// Addr is the listen address
	Addr string `yaml:"addr"`
}

// Config represents explainer configuration options
type Config struct {
	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs are written (empty disables file logs)
	LogDir string `yaml:"log_dir"`

	// WorkDir holds the uploads and output areas, reset on every run
	WorkDir string `yaml:"work_dir"`

	// Concurrency is the number of generation calls in flight (1 = sequential)
	Concurrency int `yaml:"concurrency"`

	// MaxFileSize is the largest file in bytes that still gets an explanation
	MaxFileSize int64 `yaml:"max_file_size"`

	Generator GeneratorConfig `yaml:"generator"`
	Server    ServerConfig    `yaml:"server"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	return &Config{
		LogLevel:    "info",
		LogDir:      ".explainer/logs",
		WorkDir:     ".explainer/work",
		Concurrency: 1,
		MaxFileSize: DefaultMaxFileSize,
		Generator: GeneratorConfig{
			Provider:   ProviderOpenAI,
			Model:      "gpt-4o-mini",
			Timeout:    2 * time.Minute,
			ClaudePath: "claude",
		},
		Server: ServerConfig{
			Addr: "127.0.0.1:5000",
		},
	}
}

// LoadConfig loads configuration from the specified file path.
// Values are layered: defaults, then environment, then the file.
// If the file doesn't exist, returns the first two layers without error.
// If the file exists but is malformed, returns an error.
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.ApplyEnv(os.Getenv)

	if _, err := os.Stat(path); os.IsNotExist(err) {
		return cfg, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	// Durations are read as strings so "90s" and "2m" parse
	type yamlGenerator struct {
		Provider          string `yaml:"provider"`
		Model             string `yaml:"model"`
		APIKey            string `yaml:"api_key"`
		BaseURL           string `yaml:"base_url"`
		Timeout           string `yaml:"timeout"`
		RequestsPerMinute int    `yaml:"requests_per_minute"`
		ClaudePath        string `yaml:"claude_path"`
	}
	type yamlConfig struct {
		LogLevel    string        `yaml:"log_level"`
		LogDir      *string       `yaml:"log_dir"`
		WorkDir     string        `yaml:"work_dir"`
		Concurrency int           `yaml:"concurrency"`
		MaxFileSize int64         `yaml:"max_file_size"`
		Generator   yamlGenerator `yaml:"generator"`
		Server      ServerConfig  `yaml:"server"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	// Apply non-zero values from file (merging with defaults)
	if yamlCfg.LogLevel != "" {
		cfg.LogLevel = yamlCfg.LogLevel
	}
	// log_dir may be set to "" explicitly to disable file logs
	if yamlCfg.LogDir != nil {
		cfg.LogDir = *yamlCfg.LogDir
	}
	if yamlCfg.WorkDir != "" {
		cfg.WorkDir = yamlCfg.WorkDir
	}
	if yamlCfg.Concurrency != 0 {
		cfg.Concurrency = yamlCfg.Concurrency
	}
	if yamlCfg.MaxFileSize != 0 {
		cfg.MaxFileSize = yamlCfg.MaxFileSize
	}

	gen := yamlCfg.Generator
	if gen.Provider != "" {
		cfg.Generator.Provider = gen.Provider
	}
	if gen.Model != "" {
		cfg.Generator.Model = gen.Model
	}
	if gen.APIKey != "" {
		cfg.Generator.APIKey = gen.APIKey
	}
	if gen.BaseURL != "" {
		cfg.Generator.BaseURL = gen.BaseURL
	}
	if gen.Timeout != "" {
		timeout, err := time.ParseDuration(gen.Timeout)
		if err != nil {
			return nil, fmt.Errorf("invalid generator timeout format %q: %w", gen.Timeout, err)
		}
		cfg.Generator.Timeout = timeout
	}
	if gen.RequestsPerMinute != 0 {
		cfg.Generator.RequestsPerMinute = gen.RequestsPerMinute
	}
	if gen.ClaudePath != "" {
		cfg.Generator.ClaudePath = gen.ClaudePath
	}
	if yamlCfg.Server.Addr != "" {
		cfg.Server.Addr = yamlCfg.Server.Addr
	}

	return cfg, nil
}

// LoadConfigFromDir loads configuration from .explainer/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, ".explainer", "config.yaml"))
}

// ApplyEnv fills generator settings from the environment. OPENAI_API_KEY,
// OPENAI_MODEL and OPENAI_BASE_URL are honoured when set.
func (c *Config) ApplyEnv(getenv func(string) string) {
	if v := getenv("OPENAI_API_KEY"); v != "" {
		c.Generator.APIKey = v
	}
	if v := getenv("OPENAI_MODEL"); v != "" {
		c.Generator.Model = v
	}
	if v := getenv("OPENAI_BASE_URL"); v != "" {
		c.Generator.BaseURL = v
	}
}

// Flags carries CLI overrides. Nil fields leave the configuration untouched.
type Flags struct {
	LogLevel    *string
	LogDir      *string
	WorkDir     *string
	Concurrency *int
	Timeout     *time.Duration
	Provider    *string
	Model       *string
	Addr        *string
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(f Flags) {
	if f.LogLevel != nil {
		c.LogLevel = *f.LogLevel
	}
	if f.LogDir != nil {
		c.LogDir = *f.LogDir
	}
	if f.WorkDir != nil {
		c.WorkDir = *f.WorkDir
	}
	if f.Concurrency != nil {
		c.Concurrency = *f.Concurrency
	}
	if f.Timeout != nil {
		c.Generator.Timeout = *f.Timeout
	}
	if f.Provider != nil {
		c.Generator.Provider = *f.Provider
	}
	if f.Model != nil {
		c.Generator.Model = *f.Model
	}
	if f.Addr != nil {
		c.Server.Addr = *f.Addr
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	if c.WorkDir == "" {
		return fmt.Errorf("work_dir cannot be empty")
	}
	if c.Concurrency < 1 {
		return fmt.Errorf("concurrency must be >= 1, got %d", c.Concurrency)
	}
	if c.MaxFileSize <= 0 {
		return fmt.Errorf("max_file_size must be > 0, got %d", c.MaxFileSize)
	}

	switch c.Generator.Provider {
	case ProviderOpenAI:
		if c.Generator.Model == "" {
			return fmt.Errorf("generator.model is required for provider %q", ProviderOpenAI)
		}
	case ProviderClaude:
	default:
		return fmt.Errorf("invalid generator.provider %q, must be one of: %s, %s", c.Generator.Provider, ProviderOpenAI, ProviderClaude)
	}
	if c.Generator.Timeout < 0 {
		return fmt.Errorf("generator.timeout must be >= 0, got %v", c.Generator.Timeout)
	}
	if c.Generator.RequestsPerMinute < 0 {
		return fmt.Errorf("generator.requests_per_minute must be >= 0, got %d", c.Generator.RequestsPerMinute)
	}

	return nil
}
