package logger

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"time"

	"github.com/harrison/eezsync/internal/models"
)

// FileLogger logs run events to timestamped per-run files in the log
// directory and maintains a latest.log symlink pointing to the most recent run.
// It is thread-safe and supports log level filtering.
type FileLogger struct {
	logDir   string
	runLog   *os.File
	runFile  string
	logLevel string
	mu       sync.Mutex
}

// NewFileLogger creates the log directory if needed, opens
// run-YYYYMMDD-HHMMSS.log, points latest.log at it and writes a header
// naming the run ID.
func NewFileLogger(logDir, logLevel, runID string) (*FileLogger, error) {
	if err := os.MkdirAll(logDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create log directory: %w", err)
	}

	now := time.Now()
	runFile := filepath.Join(logDir, fmt.Sprintf("run-%s.log", now.Format("20060102-150405")))

	file, err := os.OpenFile(runFile, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0644)
	if err != nil {
		return nil, fmt.Errorf("failed to create run log file: %w", err)
	}

	symlinkPath := filepath.Join(logDir, "latest.log")
	if _, err := os.Lstat(symlinkPath); err == nil {
		if err := os.Remove(symlinkPath); err != nil {
			file.Close()
			return nil, fmt.Errorf("failed to remove old symlink: %w", err)
		}
	}
	if err := os.Symlink(filepath.Base(runFile), symlinkPath); err != nil {
		file.Close()
		return nil, fmt.Errorf("failed to create symlink: %w", err)
	}

	fl := &FileLogger{
		logDir:   logDir,
		runLog:   file,
		runFile:  runFile,
		logLevel: normalizeLogLevel(logLevel),
	}

	fl.writeRunLog("=== eezsync Run Log ===\n")
	fl.writeRunLog(fmt.Sprintf("Run ID: %s\n", runID))
	fl.writeRunLog(fmt.Sprintf("Started at: %s\n\n", now.Format(time.RFC3339)))

	return fl, nil
}

// Path returns the run log file path.
func (fl *FileLogger) Path() string {
	return fl.runFile
}

func (fl *FileLogger) shouldLog(messageLevel string) bool {
	return logLevelToInt(messageLevel) >= logLevelToInt(fl.logLevel)
}

// LogTrace logs a trace-level message (most verbose).
func (fl *FileLogger) LogTrace(message string) {
	fl.logWithLevel("TRACE", message)
}

// LogDebug logs a debug-level message.
func (fl *FileLogger) LogDebug(message string) {
	fl.logWithLevel("DEBUG", message)
}

// LogInfo logs an info-level message.
func (fl *FileLogger) LogInfo(message string) {
	fl.logWithLevel("INFO", message)
}

// LogWarn logs a warning-level message.
func (fl *FileLogger) LogWarn(message string) {
	fl.logWithLevel("WARN", message)
}

// LogError logs an error-level message.
func (fl *FileLogger) LogError(message string) {
	fl.logWithLevel("ERROR", message)
}

func (fl *FileLogger) logWithLevel(level string, message string) {
	if !fl.shouldLog(strings.ToLower(level)) {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] [%s] %s\n", timestamp(), level, message))
}

// LogStageStart logs the start of a stage at INFO level.
func (fl *FileLogger) LogStageStart(stage string, index, total int) {
	if !fl.shouldLog("info") {
		return
	}
	fl.writeRunLog(fmt.Sprintf("[%s] Starting stage %d/%d: %s\n", timestamp(), index, total, stage))
}

// LogStageResult logs the stage outcome, warnings and error.
func (fl *FileLogger) LogStageResult(result models.StageResult) {
	if fl.shouldLog("info") {
		fl.writeRunLog(fmt.Sprintf("[%s] %s: %s (%s) duration %.1fs\n",
			timestamp(), result.Stage, result.Status, result.Counts(), result.Duration.Seconds()))
	}
	for _, w := range result.Warnings {
		fl.LogWarn(fmt.Sprintf("%s: %s", result.Stage, w))
	}
	if result.Error != nil {
		fl.LogError(fmt.Sprintf("%s: %v", result.Stage, result.Error))
	}
}

// LogSummary logs the run summary with final statistics at INFO level.
func (fl *FileLogger) LogSummary(summary models.RunSummary) {
	if !fl.shouldLog("info") {
		return
	}

	breakdown := summary.StatusBreakdown()
	processed, created, skipped := summary.Totals()

	status := "SUCCESS"
	if breakdown[models.StatusFailed] > 0 {
		status = "FAILED"
	}

	var b strings.Builder
	b.WriteString("\n=== Run Summary ===\n")
	fmt.Fprintf(&b, "Run ID: %s\n", summary.RunID)
	fmt.Fprintf(&b, "Stages: %d\n", len(summary.Stages))
	fmt.Fprintf(&b, "OK: %d\n", breakdown[models.StatusOK])
	fmt.Fprintf(&b, "Warnings: %d\n", breakdown[models.StatusWarning])
	fmt.Fprintf(&b, "Failed: %d\n", breakdown[models.StatusFailed])
	fmt.Fprintf(&b, "Skipped: %d\n", breakdown[models.StatusSkipped])
	fmt.Fprintf(&b, "Processed: %d, created: %d, skipped: %d\n", processed, created, skipped)
	fmt.Fprintf(&b, "Duration: %.1fs\n", summary.Duration.Seconds())
	if summary.Aborted {
		b.WriteString("Aborted: yes\n")
	}
	fmt.Fprintf(&b, "Status: %s\n", status)

	fl.writeRunLog(b.String())
}

// Close flushes and closes the run log file.
func (fl *FileLogger) Close() error {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		if err := fl.runLog.Sync(); err != nil {
			return fmt.Errorf("failed to sync run log: %w", err)
		}
		if err := fl.runLog.Close(); err != nil {
			return fmt.Errorf("failed to close run log: %w", err)
		}
		fl.runLog = nil
	}

	return nil
}

// writeRunLog is a thread-safe helper to write to the run log file.
func (fl *FileLogger) writeRunLog(message string) {
	fl.mu.Lock()
	defer fl.mu.Unlock()

	if fl.runLog != nil {
		fl.runLog.WriteString(message)
	}
}
