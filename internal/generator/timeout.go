package generator

import (
	"context"
	"errors"
	"fmt"
	"time"
)

// WithTimeout bounds every call to g by d. An expired deadline is
// reported as a Failure so the caller can degrade that one file instead
// of stalling the batch. A non-positive d returns g unchanged.
func WithTimeout(g Generator, d time.Duration) Generator {
	if d <= 0 {
		return g
	}
	return Func(func(ctx context.Context, prompt string) (string, error) {
		callCtx, cancel := context.WithTimeout(ctx, d)
		defer cancel()

		text, err := g.Generate(callCtx, prompt)
		if err != nil && errors.Is(callCtx.Err(), context.DeadlineExceeded) && ctx.Err() == nil {
			return "", &Failure{
				Reason: fmt.Sprintf("generation timed out after %s", d),
				Err:    err,
			}
		}
		return text, err
	})
}
