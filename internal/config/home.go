package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeEnv names the environment variable that relocates the explainer home.
const HomeEnv = "EXPLAINER_HOME"

// GetExplainerHome returns the base directory that holds .explainer/
// Priority order:
//  1. EXPLAINER_HOME environment variable (if set)
//  2. Current working directory (fallback)
func GetExplainerHome() (string, error) {
	if home := os.Getenv(HomeEnv); home != "" {
		return filepath.Abs(home)
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return cwd, nil
}

// ResolvePaths anchors relative WorkDir and LogDir at base.
// Absolute paths and an empty LogDir are left untouched.
func (c *Config) ResolvePaths(base string) {
	if c.WorkDir != "" && !filepath.IsAbs(c.WorkDir) {
		c.WorkDir = filepath.Join(base, c.WorkDir)
	}
	if c.LogDir != "" && !filepath.IsAbs(c.LogDir) {
		c.LogDir = filepath.Join(base, c.LogDir)
	}
}
