// Package logger provides logging implementations for eezsync runs.
//
// Loggers report stage starts, per-stage results and the run summary, plus
// leveled free-form messages. Implementations are thread-safe and write to a
// console writer or a per-run log file; MultiLogger fans out to several.
package logger

import (
	"fmt"
	"io"
	"os"
	"strings"
	"sync"
	"time"

	"github.com/fatih/color"

	"github.com/harrison/eezsync/internal/models"
)

// Log level constants for filtering
const (
	levelTrace int = 0
	levelDebug int = 1
	levelInfo  int = 2
	levelWarn  int = 3
	levelError int = 4
)

// ConsoleLogger logs run progress to a writer with timestamps and thread safety.
// All output is prefixed with [HH:MM:SS] timestamps.
// Color output is automatically enabled for terminal output (os.Stdout/os.Stderr).
type ConsoleLogger struct {
	writer      io.Writer
	logLevel    string
	mutex       sync.Mutex
	colorOutput bool
	scheme      *colorScheme
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
		scheme:      newColorScheme(),
	}
}

// isTerminal checks if the writer is a terminal that supports colors.
func isTerminal(w io.Writer) bool {
	if w == nil {
		return false
	}

	if w == os.Stdout || w == os.Stderr {
		// false when NO_COLOR is set or stdout is not a TTY
		return !color.NoColor
	}

	return false
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

func (cl *ConsoleLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(cl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
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

// logWithLevel formats "[HH:MM:SS] [LEVEL] message" if filtering allows it.
func (cl *ConsoleLogger) logWithLevel(level string, message string) {
	if cl.writer == nil || !cl.shouldLog(strings.ToLower(level)) {
		return
	}

	label := level
	if cl.colorOutput {
		label = cl.scheme.level(level).Sprint(level)
	}
	cl.write(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), label, message))
}

func (cl *ConsoleLogger) write(s string) {
	cl.mutex.Lock()
	defer cl.mutex.Unlock()
	cl.writer.Write([]byte(s))
}

// LogStageStart logs the start of a stage at INFO level. The bar counts
// completed stages: "[HH:MM:SS] [==        ] 1/4 (25%) fix-headers"
func (cl *ConsoleLogger) LogStageStart(stage string, index, total int) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	pb := NewProgressBar(total, 10, cl.colorOutput)
	pb.Update(index - 1)

	name := stage
	if cl.colorOutput {
		name = color.New(color.Bold).Sprint(stage)
	}
	cl.write(fmt.Sprintf("[%s] %s %s\n", timestamp(), pb.Render(), name))
}

// LogStageResult logs the stage outcome and counts at INFO level.
// Format: "[HH:MM:SS] fix-actions: OK (processed 3, created 2, skipped 1) 0s"
// Warnings follow at WARN level and the error at ERROR level.
func (cl *ConsoleLogger) LogStageResult(result models.StageResult) {
	if cl.writer == nil {
		return
	}

	if cl.shouldLog("info") {
		status := result.Status
		if cl.colorOutput {
			status = cl.scheme.status(result.Status).Sprint(result.Status)
		}
		cl.write(fmt.Sprintf("[%s] %s: %s (%s) %s\n",
			timestamp(), result.Stage, status, result.Counts(), formatDuration(result.Duration)))
	}

	for _, w := range result.Warnings {
		cl.LogWarn(fmt.Sprintf("%s: %s", result.Stage, w))
	}
	if result.Error != nil {
		cl.LogError(fmt.Sprintf("%s: %v", result.Stage, result.Error))
	}
}

// LogSummary logs the run summary at INFO level.
func (cl *ConsoleLogger) LogSummary(summary models.RunSummary) {
	if cl.writer == nil || !cl.shouldLog("info") {
		return
	}

	ts := timestamp()
	breakdown := summary.StatusBreakdown()
	processed, created, skipped := summary.Totals()

	header := "=== Run Summary ==="
	failed := fmt.Sprintf("Failed: %d", breakdown[models.StatusFailed])
	if cl.colorOutput {
		header = color.New(color.Bold).Sprint(header)
		if breakdown[models.StatusFailed] > 0 {
			failed = cl.scheme.fail.Sprint(failed)
		}
	}

	var b strings.Builder
	fmt.Fprintf(&b, "[%s] %s\n", ts, header)
	fmt.Fprintf(&b, "[%s] Stages: %d (ok %d, warning %d, skipped %d)\n", ts, len(summary.Stages),
		breakdown[models.StatusOK], breakdown[models.StatusWarning], breakdown[models.StatusSkipped])
	fmt.Fprintf(&b, "[%s] %s\n", ts, failed)
	fmt.Fprintf(&b, "[%s] Files/names: processed %d, created %d, skipped %d\n", ts, processed, created, skipped)
	fmt.Fprintf(&b, "[%s] Duration: %s\n", ts, formatDuration(summary.Duration))
	if summary.Aborted {
		fmt.Fprintf(&b, "[%s] Run aborted after a failed backup\n", ts)
	}
	for _, st := range summary.FailedStages() {
		fmt.Fprintf(&b, "[%s]   - %s: %v\n", ts, st.Stage, st.Error)
	}

	cl.write(b.String())
}

// timestamp returns the current time formatted as "15:04:05" (HH:MM:SS).
func timestamp() string {
	return time.Now().Format("15:04:05")
}

// formatDuration converts a time.Duration to a human-readable string.
// Examples: "5s", "1m30s", "2h15m"
func formatDuration(d time.Duration) string {
	switch {
	case d >= time.Hour:
		hours := d / time.Hour
		remainder := d % time.Hour
		if remainder == 0 {
			return fmt.Sprintf("%dh", hours)
		}
		minutes := remainder / time.Minute
		remainder = remainder % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dh%dm", hours, minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dh%dm%ds", hours, minutes, seconds)
	case d >= time.Minute:
		minutes := d / time.Minute
		remainder := d % time.Minute
		if remainder == 0 {
			return fmt.Sprintf("%dm", minutes)
		}
		seconds := remainder / time.Second
		return fmt.Sprintf("%dm%ds", minutes, seconds)
	case d > 0 && d < time.Second:
		return fmt.Sprintf("%dms", d.Milliseconds())
	default:
		return fmt.Sprintf("%ds", int64(d.Seconds()))
	}
}

// NoOpLogger discards all log messages.
type NoOpLogger struct{}

// NewNoOpLogger creates a NoOpLogger instance.
func NewNoOpLogger() *NoOpLogger {
	return &NoOpLogger{}
}

func (n *NoOpLogger) LogTrace(string) {}
func (n *NoOpLogger) LogDebug(string) {}
func (n *NoOpLogger) LogInfo(string) {}
func (n *NoOpLogger) LogWarn(string) {}
func (n *NoOpLogger) LogError(string) {}
func (n *NoOpLogger) LogStageStart(string, int, int) {}
func (n *NoOpLogger) LogStageResult(models.StageResult) {}
func (n *NoOpLogger) LogSummary(models.RunSummary) {}
