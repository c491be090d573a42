// Package generator provides the text-generation collaborators used by
// the explanation pipeline. A Generator is stateless: given a prompt it
// returns generated text or fails.
package generator

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

// ErrEmptyResponse is returned when the service answers without content.
var ErrEmptyResponse = errors.New("No content in API response")

// Generator turns a prompt into generated text.
type Generator interface {
	Generate(ctx context.Context, prompt string) (string, error)
}

// Func adapts a plain function to the Generator interface.
type Func func(ctx context.Context, prompt string) (string, error)

// Generate calls f.
func (f Func) Generate(ctx context.Context, prompt string) (string, error) {
	return f(ctx, prompt)
}

// Failure describes a failed generation call. Every cause (empty
// response, transport error, provider rejection, timeout) collapses into
// a single descriptive Reason.
type Failure struct {
	Provider string
	Reason   string
	Err      error
}

func (f *Failure) Error() string {
	if f.Provider == "" {
		return f.Reason
	}
	return fmt.Sprintf("%s: %s", f.Provider, f.Reason)
}

func (f *Failure) Unwrap() error {
	return f.Err
}

// NewFailure wraps err as a Failure for provider.
func NewFailure(provider string, err error) *Failure {
	return &Failure{Provider: provider, Reason: err.Error(), Err: err}
}

// Reason extracts the human-readable failure reason from err.
func Reason(err error) string {
	if err == nil {
		return ""
	}
	var f *Failure
	if errors.As(err, &f) {
		return f.Reason
	}
	return err.Error()
}

// nonEmpty converts a blank answer into ErrEmptyResponse.
func nonEmpty(text string) (string, error) {
	if strings.TrimSpace(text) == "" {
		return "", ErrEmptyResponse
	}
	return text, nil
}
