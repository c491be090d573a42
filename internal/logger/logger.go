// Package logger provides logging implementations for explainer runs.
//
// Loggers receive free-form leveled messages plus structured run events
// (run start, per-file outcome, summary). Implementations are thread-safe
// so the pipeline may report from concurrent workers.
package logger

import (
	"fmt"
	"strings"
	"time"

	"github.com/harrison/explainer/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// Logger is the logging surface used by ingestion, the pipeline and the server.
type Logger interface {
	LogTrace(message string)
	LogDebug(message string)
	LogInfo(message string)
	LogWarn(message string)
	LogError(message string)
	LogRunStart(rc *models.RunContext)
	LogFileResult(result models.FileResult)
	LogSummary(result models.RunResult)
}

// normalizeLogLevel converts a log level string to lowercase and validates it.
// Returns "info" as default for empty or invalid levels.
func normalizeLogLevel(level string) string {
	normalized := strings.ToLower(strings.TrimSpace(level))

	switch normalized {
	case "trace", "debug", "info", "warn", "error":
		return normalized
	}
	return "info"
}

// logLevelToInt converts a log level string to its numeric value.
func logLevelToInt(level string) int {
	switch level {
	case "trace":
		return levelTrace
	case "debug":
		return levelDebug
	case "info":
		return levelInfo
	case "warn":
		return levelWarn
	case "error":
		return levelError
	default:
		return levelInfo
	}
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "850ms", "5.2s", "1m30s"
func formatDuration(d time.Duration) string {
	switch {
	case d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	case d < time.Minute:
		return fmt.Sprintf("%.1fs", d.Seconds())
	default:
		return d.Round(time.Second).String()
	}
}

// fileResultLevel maps a file outcome to the level it is logged at.
func fileResultLevel(status string) string {
	switch status {
	case models.FileDegraded, models.FileDropped:
		return "warn"
	case models.FileSkipped:
		return "debug"
	default:
		return "info"
	}
}

// formatFileResult renders a file outcome without timestamp or colour.
func formatFileResult(result models.FileResult) string {
	msg := fmt.Sprintf("%s %s", result.Status, result.RelativePath)
	if result.Duration > 0 {
		msg += fmt.Sprintf(" (%s)", formatDuration(result.Duration))
	}
	if result.Detail != "" {
		msg += ": " + result.Detail
	}
	return msg
}

// MultiLogger fans every call out to a fixed set of loggers.
type MultiLogger struct {
	loggers []Logger
}

// NewMultiLogger returns a MultiLogger. Nil entries are dropped.
func NewMultiLogger(loggers ...Logger) *MultiLogger {
	ml := &MultiLogger{}
	for _, l := range loggers {
		if l != nil {
			ml.loggers = append(ml.loggers, l)
		}
	}
	return ml
}

func (ml *MultiLogger) LogTrace(message string) {
	for _, l := range ml.loggers {
		l.LogTrace(message)
	}
}

func (ml *MultiLogger) LogDebug(message string) {
	for _, l := range ml.loggers {
		l.LogDebug(message)
	}
}

func (ml *MultiLogger) LogInfo(message string) {
	for _, l := range ml.loggers {
		l.LogInfo(message)
	}
}

func (ml *MultiLogger) LogWarn(message string) {
	for _, l := range ml.loggers {
		l.LogWarn(message)
	}
}

func (ml *MultiLogger) LogError(message string) {
	for _, l := range ml.loggers {
		l.LogError(message)
	}
}

// LogRunStart forwards to all loggers
func (ml *MultiLogger) LogRunStart(rc *models.RunContext) {
	for _, l := range ml.loggers {
		l.LogRunStart(rc)
	}
}

// LogFileResult forwards to all loggers
func (ml *MultiLogger) LogFileResult(result models.FileResult) {
	for _, l := range ml.loggers {
		l.LogFileResult(result)
	}
}

// LogSummary forwards to all loggers
func (ml *MultiLogger) LogSummary(result models.RunResult) {
	for _, l := range ml.loggers {
		l.LogSummary(result)
	}
}

// NoOpLogger discards everything. Used in tests and by callers that
// don't care about progress.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(message string)                {}
func (n *NoOpLogger) LogDebug(message string)                {}
func (n *NoOpLogger) LogInfo(message string)                 {}
func (n *NoOpLogger) LogWarn(message string)                 {}
func (n *NoOpLogger) LogError(message string)                {}
func (n *NoOpLogger) LogRunStart(rc *models.RunContext)      {}
func (n *NoOpLogger) LogFileResult(result models.FileResult) {}
func (n *NoOpLogger) LogSummary(result models.RunResult)     {}
