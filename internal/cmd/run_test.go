package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const actionsHeader = `#include <lvgl/lvgl.h>

extern void action_play(lv_event_t * e);
extern void action_pause(lv_event_t * e);
`

func TestImportMissingConfigDeclined(t *testing.T) {
	env := newTestEnv(t)

	out, err := execute(t, "n\n", "--config", env.configPath)
	require.NoError(t, err)
	assert.Contains(t, out, "No configuration created")

	_, statErr := os.Stat(env.configPath)
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportMissingConfigAccepted(t *testing.T) {
	env := newTestEnv(t)

	// Default dirs do not exist in the temp cwd, so only a dry run of a
	// template stage is attempted.
	out, err := execute(t, "y\n", "--config", env.configPath, "-m", "fix-flow", "--dry-run")
	require.NoError(t, err)
	assert.Contains(t, out, "Created default configuration")
	assert.True(t, env.loadConfig(t).Exists)
}

func TestImportFixActions(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t)
	writeFile(t, filepath.Join(env.projectDir, "actions.h"), actionsHeader)

	out, err := execute(t, "", "--config", env.configPath, "-m", "reconcile-actions", "--verbose")
	require.NoError(t, err)
	assert.Contains(t, out, "fix-actions")
	assert.Contains(t, out, "Adding extern function: action_play")

	data, err := os.ReadFile(filepath.Join(env.projectDir, "actions.c"))
	require.NoError(t, err)
	assert.Equal(t, 1, strings.Count(string(data), "void action_play("))
	assert.Equal(t, 1, strings.Count(string(data), "void action_pause("))

	logs, err := filepath.Glob(filepath.Join(env.home, "logs", "run-*.log"))
	require.NoError(t, err)
	assert.NotEmpty(t, logs)

	out, err = execute(t, "", "--config", env.configPath, "history")
	require.NoError(t, err)
	assert.Contains(t, out, "fix-actions")
	assert.Contains(t, out, "SUCCEEDED")
}

func TestImportMissingDeclarationsFails(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t)
	require.NoError(t, os.MkdirAll(env.projectDir, 0755))

	_, err := execute(t, "", "--config", env.configPath, "-m", "fix-actions")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "fix-actions")

	_, statErr := os.Stat(filepath.Join(env.projectDir, "actions.c"))
	assert.True(t, os.IsNotExist(statErr))
}

func TestImportSelectedModes(t *testing.T) {
	env := newTestEnv(t)
	cfg := env.writeConfig(t)
	cfg.SelectedModes = []string{"copy-ui", "fix-headers"}
	require.NoError(t, cfg.Save(env.configPath))

	writeFile(t, filepath.Join(env.sourceDir, "ui.h"), "#include \"lvgl/lvgl.h\"\n")

	_, err := execute(t, "", "--config", env.configPath)
	require.NoError(t, err)

	data, err := os.ReadFile(filepath.Join(env.projectDir, "ui.h"))
	require.NoError(t, err)
	assert.Equal(t, "#include \"lvgl.h\"\n", string(data))
}

func TestImportDeleteBackupDeclined(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t)
	writeFile(t, filepath.Join(env.backupDir, "ui.c"), "x")

	_, err := execute(t, "no\n", "--config", env.configPath, "-m", "delete-backup")
	require.NoError(t, err)
	assert.DirExists(t, env.backupDir)

	_, err = execute(t, "", "--config", env.configPath, "-m", "delete-backup", "--yes")
	require.NoError(t, err)
	assert.NoDirExists(t, env.backupDir)
}

func TestDirectoryFlags(t *testing.T) {
	t.Run("show source directory", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig(t)

		out, err := execute(t, "", "--config", env.configPath, "-d")
		require.NoError(t, err)
		assert.Contains(t, out, "Source directory: "+env.sourceDir)
	})

	t.Run("set source directory as separate argument", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig(t)
		newSource := filepath.Join(env.root, "other", "ui")
		writeFile(t, filepath.Join(newSource, "ui.h"), "")

		out, err := execute(t, "", "--config", env.configPath, "-d", newSource)
		require.NoError(t, err)
		assert.Contains(t, out, "Source directory set to")
		assert.NotContains(t, out, "WARNING")
		assert.Equal(t, newSource, env.loadConfig(t).SourceDir)
	})

	t.Run("source directory without ui.h warns", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig(t)
		newSource := filepath.Join(env.root, "empty")
		require.NoError(t, os.MkdirAll(newSource, 0755))

		out, err := execute(t, "", "--config", env.configPath, "--directory="+newSource)
		require.NoError(t, err)
		assert.Contains(t, out, "ui.h")
		assert.Equal(t, newSource, env.loadConfig(t).SourceDir)
	})

	t.Run("missing source directory is rejected", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig(t)

		_, err := execute(t, "", "--config", env.configPath, "-d", filepath.Join(env.root, "nope"))
		require.Error(t, err)
		assert.Equal(t, env.sourceDir, env.loadConfig(t).SourceDir)
	})

	t.Run("backup directory is created", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig(t)
		newBackup := filepath.Join(env.root, "bk")

		out, err := execute(t, "", "--config", env.configPath, "-b", newBackup)
		require.NoError(t, err)
		assert.Contains(t, out, "Created backup directory")
		assert.DirExists(t, newBackup)
		assert.Equal(t, newBackup, env.loadConfig(t).BackupDir)
	})

	t.Run("stray argument", func(t *testing.T) {
		env := newTestEnv(t)
		env.writeConfig(t)

		_, err := execute(t, "", "--config", env.configPath, "extra")
		assert.Error(t, err)
	})
}
