package logger

import (
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/harrison/eezsync/internal/models"
)

func TestNewFileLogger(t *testing.T) {
	logDir := filepath.Join(t.TempDir(), "logs")

	fl, err := NewFileLogger(logDir, "info", "run-123")
	require.NoError(t, err)
	defer fl.Close()

	assert.Regexp(t, `run-\d{8}-\d{6}\.log$`, fl.Path())

	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(fl.Path()), target)

	require.NoError(t, fl.Close())
	data, err := os.ReadFile(fl.Path())
	require.NoError(t, err)
	assert.Contains(t, string(data), "=== eezsync Run Log ===")
	assert.Contains(t, string(data), "Run ID: run-123")
}

func TestFileLoggerReplacesLatestSymlink(t *testing.T) {
	logDir := t.TempDir()
	require.NoError(t, os.WriteFile(filepath.Join(logDir, "old.log"), nil, 0644))
	require.NoError(t, os.Symlink("old.log", filepath.Join(logDir, "latest.log")))

	fl, err := NewFileLogger(logDir, "info", "x")
	require.NoError(t, err)
	defer fl.Close()

	target, err := os.Readlink(filepath.Join(logDir, "latest.log"))
	require.NoError(t, err)
	assert.Equal(t, filepath.Base(fl.Path()), target)
}

func TestFileLoggerStagesAndSummary(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "info", "abc")
	require.NoError(t, err)

	fl.LogDebug("Found function: action_hidden")
	fl.LogStageStart("fix-actions", 1, 2)
	fl.LogStageResult(models.StageResult{
		Stage:     "fix-actions",
		Status:    models.StatusWarning,
		Processed: 2,
		Created:   2,
		Warnings:  []string{"template missing"},
	})
	fl.LogStageResult(models.StageResult{
		Stage:  "fix-flow",
		Status: models.StatusFailed,
		Error:  errors.New("permission denied"),
	})
	fl.LogSummary(models.RunSummary{
		RunID: "abc",
		Stages: []models.StageResult{
			{Stage: "fix-actions", Status: models.StatusWarning, Processed: 2, Created: 2},
			{Stage: "fix-flow", Status: models.StatusFailed},
		},
	})
	require.NoError(t, fl.Close())

	data, err := os.ReadFile(fl.Path())
	require.NoError(t, err)
	out := string(data)

	assert.NotContains(t, out, "action_hidden")
	assert.Contains(t, out, "Starting stage 1/2: fix-actions")
	assert.Contains(t, out, "fix-actions: WARNING (processed 2, created 2, skipped 0)")
	assert.Contains(t, out, "[WARN] fix-actions: template missing")
	assert.Contains(t, out, "[ERROR] fix-flow: permission denied")
	assert.Contains(t, out, "=== Run Summary ===")
	assert.Contains(t, out, "Status: FAILED")
	assert.Equal(t, 1, strings.Count(out, "Run ID: abc\nStages"))
}

func TestFileLoggerCloseIsIdempotent(t *testing.T) {
	fl, err := NewFileLogger(t.TempDir(), "info", "x")
	require.NoError(t, err)

	require.NoError(t, fl.Close())
	require.NoError(t, fl.Close())

	// writes after close are dropped
	fl.LogInfo("late")
}

func TestFileLoggerBadDirectory(t *testing.T) {
	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))

	_, err := NewFileLogger(filepath.Join(file, "logs"), "info", "x")
	assert.Error(t, err)
}
