package logger

import (
	"fmt"
	"io"
	"os"
	"sort"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"

	"github.com/harrison/explainer/internal/models"
)

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
}

// NewConsoleLogger creates a ConsoleLogger that writes to the provided io.Writer.
// If writer is nil, messages are silently discarded.
// Valid levels: trace, debug, info, warn, error (case-insensitive).
// If logLevel is empty or invalid, defaults to "info".
func NewConsoleLogger(writer io.Writer, logLevel string) *ConsoleLogger {
	return &ConsoleLogger{
		writer:      writer,
		logLevel:    normalizeLogLevel(logLevel),
		colorOutput: isTerminal(writer),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}
	if w != os.Stdout && w != os.Stderr {
		return false
	}
	f := w.(*os.File)
	if !isatty.IsTerminal(f.Fd()) && !isatty.IsCygwinTerminal(f.Fd()) {
		return false
	}
	// color.NoColor honours NO_COLOR
	return !color.NoColor
}

// shouldLog returns true if messageLevel >= configured logLevel.
func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
// Format: "[HH:MM:SS] [TRACE] <message>"
func (cl *ConsoleLogger) LogTrace(message string) {
	cl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (cl *ConsoleLogger) LogDebug(message string) {
	cl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (cl *ConsoleLogger) LogInfo(message string) {
	cl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (cl *ConsoleLogger) LogWarn(message string) {
	cl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (cl *ConsoleLogger) LogError(message string) {
	cl.logWithLevel("ERROR", message)
}

func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	var formatted string
	if cl.colorOutput {
		formatted = cl.formatWithColor(ts, level, message)
	} else {
		formatted = fmt.Sprintf("[%s] [%s] %s\n", ts, level, message)
	}

	cl.writer.Write([]byte(formatted))
}

// formatWithColor formats a log message with ANSI color codes.
func (cl *ConsoleLogger) formatWithColor(ts, level, message string) string {
	var coloredLevel string

	switch strings.ToUpper(level) {
	case "TRACE":
		coloredLevel = color.New(color.FgHiBlack).Sprint(level)
	case "DEBUG":
		coloredLevel = color.New(color.FgCyan).Sprint(level)
	case "INFO":
		coloredLevel = color.New(color.FgBlue).Sprint(level)
	case "WARN":
		coloredLevel = color.New(color.FgYellow).Sprint(level)
	case "ERROR":
		coloredLevel = color.New(color.FgRed).Sprint(level)
	default:
		coloredLevel = level
	}

	return fmt.Sprintf("[%s] [%s] %s\n", ts, coloredLevel, message)
}

// LogRunStart logs the start of a run at INFO level.
// Format: "[HH:MM:SS] Starting run <id>: <n> files accepted"
func (cl *ConsoleLogger) LogRunStart(rc *models.RunContext) {
	if cl.writer == nil || rc == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	id := rc.ID
	if cl.colorOutput {
		id = color.New(color.Bold).Sprint(id)
	}
	fmt.Fprintf(cl.writer, "[%s] Starting run %s: %d files accepted\n", timestamp(), id, len(rc.Accepted))
}

// LogFileResult logs one file outcome. Degraded and dropped files are
// logged at WARN, skipped files at DEBUG, everything else at INFO.
func (cl *ConsoleLogger) LogFileResult(result models.FileResult) {
	level := fileResultLevel(result.Status)
	if cl.writer == nil || !cl.shouldLog(level) {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	msg := formatFileResult(result)
	if cl.colorOutput {
		switch result.Status {
		case models.FileExplained:
			msg = color.New(color.FgGreen).Sprint(msg)
		case models.FileDegraded, models.FileDropped:
			msg = color.New(color.FgYellow).Sprint(msg)
		case models.FileSkipped:
			msg = color.New(color.FgHiBlack).Sprint(msg)
		}
	}
	fmt.Fprintf(cl.writer, "[%s] %s\n", timestamp(), msg)
}

// LogSummary logs the run summary with final statistics at INFO level.
func (cl *ConsoleLogger) LogSummary(result models.RunResult) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	cl.mutex.Lock()
	defer cl.mutex.Unlock()

	ts := timestamp()
	header := "=== Run Summary ==="
	failed := fmt.Sprintf("Failed: %d", result.Failed)
	if cl.colorOutput {
		header = color.New(color.Bold).Sprint(header)
		if result.Failed > 0 {
			failed = color.New(color.FgRed).Sprint(failed)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", ts, header)
	fmt.Fprintf(&b, "[%s] Processed: %d\n", ts, result.Processed)
	fmt.Fprintf(&b, "[%s] Skipped: %d\n", ts, result.Skipped)
	fmt.Fprintf(&b, "[%s] %s\n", ts, failed)
	if result.StorageErrors > 0 {
		fmt.Fprintf(&b, "[%s] Storage errors: %d\n", ts, result.StorageErrors)
	}
	if len(result.Collisions) > 0 {
		fmt.Fprintf(&b, "[%s] Basename collisions: %s\n", ts, strings.Join(collisionNames(result.Collisions), ", "))
	}
	fmt.Fprintf(&b, "[%s] Duration: %s\n", ts, formatDuration(result.Duration))
	if result.OverviewPath != "" {
		fmt.Fprintf(&b, "[%s] Overview: %s\n", ts, result.OverviewPath)
	}

	cl.writer.Write([]byte(b.String()))
}

// collisionNames returns the colliding document names in sorted order.
func collisionNames(collisions map[string][]string) []string {
	names := make([]string, 0, len(collisions))
	for name := range collisions {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
