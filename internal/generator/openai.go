package generator

import (
	"context"
	"fmt"
	"time"

	"github.com/hashicorp/go-cleanhttp"
	openai "github.com/sashabaranov/go-openai"
	"golang.org/x/time/rate"
)

// ProviderOpenAI names the OpenAI-compatible chat completion backend.
const ProviderOpenAI = "openai"

// OpenAIOptions configures an OpenAIGenerator.
type OpenAIOptions struct {
	APIKey string
	Model  string
	// BaseURL overrides the API endpoint for OpenAI-compatible providers
	// such as OpenRouter. Empty keeps the default.
	BaseURL string
	// RequestsPerMinute paces calls. Zero disables pacing.
	RequestsPerMinute int
}

// OpenAIGenerator calls an OpenAI-compatible chat completion API.
type OpenAIGenerator struct {
	api     *openai.Client
	model   string
	limiter *rate.Limiter
}

// NewOpenAI creates an OpenAIGenerator.
func NewOpenAI(opts OpenAIOptions) (*OpenAIGenerator, error) {
	if opts.APIKey == "" {
		return nil, fmt.Errorf("openai generator: api key is required")
	}
	if opts.Model == "" {
		return nil, fmt.Errorf("openai generator: model is required")
	}

	cfg := openai.DefaultConfig(opts.APIKey)
	if opts.BaseURL != "" {
		cfg.BaseURL = opts.BaseURL
	}
	cfg.HTTPClient = cleanhttp.DefaultPooledClient()

	g := &OpenAIGenerator{
		api:   openai.NewClientWithConfig(cfg),
		model: opts.Model,
	}
	if opts.RequestsPerMinute > 0 {
		g.limiter = rate.NewLimiter(rate.Every(time.Minute/time.Duration(opts.RequestsPerMinute)), 1)
	}
	return g, nil
}

// Generate sends prompt as a single user message and returns the first
// choice's content.
func (g *OpenAIGenerator) Generate(ctx context.Context, prompt string) (string, error) {
	if g.limiter != nil {
		if err := g.limiter.Wait(ctx); err != nil {
			return "", NewFailure(ProviderOpenAI, err)
		}
	}

	resp, err := g.api.CreateChatCompletion(ctx, openai.ChatCompletionRequest{
		Model: g.model,
		Messages: []openai.ChatCompletionMessage{
			{Role: openai.ChatMessageRoleUser, Content: prompt},
		},
	})
	if err != nil {
		return "", NewFailure(ProviderOpenAI, err)
	}
	if len(resp.Choices) == 0 {
		return "", NewFailure(ProviderOpenAI, ErrEmptyResponse)
	}

	text, err := nonEmpty(resp.Choices[0].Message.Content)
	if err != nil {
		return "", NewFailure(ProviderOpenAI, err)
	}
	return text, nil
}
