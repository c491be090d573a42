package generator

import (
	"fmt"

	"github.com/harrison/explainer/internal/config"
)

// New builds the Generator selected by cfg, bounded by cfg.Timeout.
func New(cfg config.GeneratorConfig) (Generator, error) {
	var g Generator
	switch cfg.Provider {
	case ProviderOpenAI, "":
		openaiGen, err := NewOpenAI(OpenAIOptions{
			APIKey:            cfg.APIKey,
			Model:             cfg.Model,
			BaseURL:           cfg.BaseURL,
			RequestsPerMinute: cfg.RequestsPerMinute,
		})
		if err != nil {
			return nil, err
		}
		g = openaiGen
	case ProviderClaude:
		g = NewClaude(cfg.ClaudePath, cfg.Model)
	default:
		return nil, fmt.Errorf("unknown generator provider %q", cfg.Provider)
	}
	return WithTimeout(g, cfg.Timeout), nil
}
