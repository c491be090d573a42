package generator

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/explainer/internal/config"
)

func TestReason(t *testing.T) {
	assert.Equal(t, "", Reason(nil))
	assert.Equal(t, "boom", Reason(errors.New("boom")))
	assert.Equal(t, "No content in API response", Reason(NewFailure(ProviderOpenAI, ErrEmptyResponse)))

	wrapped := fmt.Errorf("file a.py: %w", NewFailure(ProviderClaude, errors.New("rate limited")))
	assert.Equal(t, "rate limited", Reason(wrapped))
}

func TestFailureError(t *testing.T) {
	f := NewFailure(ProviderOpenAI, ErrEmptyResponse)
	assert.Equal(t, "openai: No content in API response", f.Error())
	assert.ErrorIs(t, f, ErrEmptyResponse)

	bare := &Failure{Reason: "timed out"}
	assert.Equal(t, "timed out", bare.Error())
}

func TestWithTimeout(t *testing.T) {
	slow := Func(func(ctx context.Context, prompt string) (string, error) {
		<-ctx.Done()
		return "", ctx.Err()
	})

	t.Run("deadline becomes a failure", func(t *testing.T) {
		g := WithTimeout(slow, 20*time.Millisecond)
		_, err := g.Generate(context.Background(), "x")
		require.Error(t, err)
		assert.Equal(t, "generation timed out after 20ms", Reason(err))
	})

	t.Run("parent cancellation passes through", func(t *testing.T) {
		g := WithTimeout(slow, time.Minute)
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		_, err := g.Generate(ctx, "x")
		require.Error(t, err)
		assert.ErrorIs(t, err, context.Canceled)
		var f *Failure
		assert.False(t, errors.As(err, &f))
	})

	t.Run("fast calls are untouched", func(t *testing.T) {
		fast := Func(func(ctx context.Context, prompt string) (string, error) {
			return "echo: " + prompt, nil
		})
		g := WithTimeout(fast, time.Second)
		text, err := g.Generate(context.Background(), "hi")
		require.NoError(t, err)
		assert.Equal(t, "echo: hi", text)
	})

	t.Run("zero duration returns the generator itself", func(t *testing.T) {
		g := NewClaude("", "")
		assert.Same(t, g, WithTimeout(g, 0))
	})
}

func TestNew(t *testing.T) {
	t.Run("openai requires a key", func(t *testing.T) {
		_, err := New(config.GeneratorConfig{Provider: config.ProviderOpenAI, Model: "gpt-4o-mini"})
		require.Error(t, err)
		assert.Contains(t, err.Error(), "api key is required")
	})

	t.Run("openai", func(t *testing.T) {
		g, err := New(config.GeneratorConfig{Provider: config.ProviderOpenAI, Model: "gpt-4o-mini", APIKey: "sk-test"})
		require.NoError(t, err)
		assert.IsType(t, &OpenAIGenerator{}, g)
	})

	t.Run("claude", func(t *testing.T) {
		g, err := New(config.GeneratorConfig{Provider: config.ProviderClaude, ClaudePath: "/opt/claude"})
		require.NoError(t, err)
		claude, ok := g.(*ClaudeGenerator)
		require.True(t, ok)
		assert.Equal(t, "/opt/claude", claude.ClaudePath)
	})

	t.Run("timeout wraps", func(t *testing.T) {
		g, err := New(config.GeneratorConfig{Provider: config.ProviderClaude, Timeout: time.Second})
		require.NoError(t, err)
		assert.IsType(t, Func(nil), g)
	})

	t.Run("unknown provider", func(t *testing.T) {
		_, err := New(config.GeneratorConfig{Provider: "bard"})
		require.Error(t, err)
	})
}
