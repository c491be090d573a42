package middleware

import (
	"fmt"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/harrison/explainer/internal/logger"
)

// Logger logs every request at DEBUG with its status and latency.
func Logger(log logger.Logger) echo.MiddlewareFunc {
	return func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(ctx echo.Context) error {
			start := time.Now()
			err := next(ctx)
			if err != nil {
				ctx.Error(err)
			}

			req := ctx.Request()
			log.LogDebug(fmt.Sprintf("%s %s %d %s", req.Method, req.URL.Path, ctx.Response().Status, time.Since(start).Round(time.Millisecond)))
			return nil
		}
	}
}
