// Package middleware holds the echo middleware used by the HTTP transport.
package middleware

import (
	"fmt"
	"runtime/debug"

	"github.com/labstack/echo/v4"

	"github.com/harrison/explainer/internal/logger"
)

// Recover turns a panicking handler into an error response and logs the stack.
func Recover(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) (er error) {
			defer func() {
				if r := recover(); r != nil {
					err, ok := r.(error)
					if !ok {
						err = fmt.Errorf("%v", r)
					}
					log.LogError(fmt.Sprintf("panic serving %s %s: %v", ctx.Request().Method, ctx.Request().URL.Path, err))
					log.LogDebug(string(debug.Stack()))
					er = err
				}
			}()

			return next(ctx)
		}
	}
}
