package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))
	return path
}

func TestDefaultConfig(t *testing.T) {
	t.Setenv("EEZSYNC_HOME", "")
	cfg := DefaultConfig()

	assert.Equal(t, DefaultSourceDir, cfg.SourceDir)
	assert.Equal(t, DefaultBackupDir, cfg.BackupDir)
	assert.Equal(t, DefaultProjectDir, cfg.ProjectDir)
	assert.Equal(t, []string{"all"}, cfg.SelectedModes)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, filepath.Join(".eezsync", "logs"), cfg.LogDir)
	assert.Equal(t, "lvgl/lvgl.h", cfg.Headers.Find)
	assert.Equal(t, "lvgl.h", cfg.Headers.Replace)
	assert.Equal(t, "actions.h", cfg.Actions.Header)
	assert.Equal(t, "actions.c", cfg.Actions.Source)
	assert.True(t, cfg.History.Enabled)
	assert.Equal(t, filepath.Join(".eezsync", "history.db"), cfg.History.DBPath)
	assert.NoError(t, cfg.Validate())
}

func TestDefaultConfigUsesHomeOverride(t *testing.T) {
	home := t.TempDir()
	t.Setenv("EEZSYNC_HOME", home)

	cfg := DefaultConfig()
	assert.Equal(t, filepath.Join(home, "logs"), cfg.LogDir)
	assert.Equal(t, filepath.Join(home, "history.db"), cfg.History.DBPath)
}

func TestLoadConfigMissingFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "absent.yaml")

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.False(t, cfg.Exists)
	assert.Equal(t, path, cfg.Path)
	assert.Equal(t, DefaultSourceDir, cfg.SourceDir)
}

func TestLoadConfigMergesWithDefaults(t *testing.T) {
	path := writeConfig(t, `
source_dir: /work/eez/src/ui
selected_modes: [copy-ui, fix-actions]
log_level: DEBUG
headers:
  replace: ""
  include: ["screens/**"]
history:
  enabled: false
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)
	assert.True(t, cfg.Exists)

	assert.Equal(t, "/work/eez/src/ui", cfg.SourceDir)
	assert.Equal(t, []string{"copy-ui", "fix-actions"}, cfg.SelectedModes)
	assert.Equal(t, "debug", cfg.LogLevel)
	assert.Equal(t, "", cfg.Headers.Replace)
	assert.Equal(t, []string{"screens/**"}, cfg.Headers.Include)
	assert.False(t, cfg.History.Enabled)

	// untouched keys keep defaults
	assert.Equal(t, DefaultBackupDir, cfg.BackupDir)
	assert.Equal(t, "lvgl/lvgl.h", cfg.Headers.Find)
	assert.Equal(t, []string{".h", ".c", ".cpp", ".hpp"}, cfg.Headers.Extensions)
	assert.Equal(t, "actions.h", cfg.Actions.Header)
}

func TestLoadConfigMalformed(t *testing.T) {
	path := writeConfig(t, "source_dir: [unterminated\n")

	_, err := LoadConfig(path)
	assert.Error(t, err)
}

func TestLoadConfigFromDir(t *testing.T) {
	dir := t.TempDir()
	require.NoError(t, os.MkdirAll(filepath.Join(dir, ".eezsync"), 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".eezsync", "config.yaml"), []byte("backup_dir: ./bk\n"), 0644))

	cfg, err := LoadConfigFromDir(dir)
	require.NoError(t, err)
	assert.Equal(t, "./bk", cfg.BackupDir)
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), ".eezsync", "config.yaml")

	cfg := DefaultConfig()
	cfg.SourceDir = "/tmp/eez/ui"
	cfg.SelectedModes = []string{"backup-ui", "copy-ui"}
	cfg.History.Enabled = false
	require.NoError(t, cfg.Save(path))
	assert.True(t, cfg.Exists)

	loaded, err := LoadConfig(path)
	require.NoError(t, err)
	assert.Equal(t, "/tmp/eez/ui", loaded.SourceDir)
	assert.Equal(t, []string{"backup-ui", "copy-ui"}, loaded.SelectedModes)
	assert.False(t, loaded.History.Enabled)

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.NotContains(t, string(data), "exists")
}

func TestMergeWithFlags(t *testing.T) {
	cfg := DefaultConfig()
	logDir := "/var/log/eezsync"
	level := "debug"

	cfg.MergeWithFlags(nil, nil, &logDir, &level)
	assert.Equal(t, DefaultSourceDir, cfg.SourceDir)
	assert.Equal(t, logDir, cfg.LogDir)
	assert.Equal(t, level, cfg.LogLevel)

	src := "/src"
	cfg.MergeWithFlags(&src, nil, nil, nil)
	assert.Equal(t, src, cfg.SourceDir)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{name: "defaults", mutate: func(*Config) {}},
		{name: "bad log level", mutate: func(c *Config) { c.LogLevel = "loud" }, wantErr: "log_level"},
		{name: "empty source", mutate: func(c *Config) { c.SourceDir = " " }, wantErr: "source_dir"},
		{name: "empty find", mutate: func(c *Config) { c.Headers.Find = "" }, wantErr: "headers.find"},
		{name: "empty actions source", mutate: func(c *Config) { c.Actions.Source = "" }, wantErr: "actions.source"},
		{name: "backup equals project", mutate: func(c *Config) { c.BackupDir = "./components/ui/" }, wantErr: "must differ"},
		{name: "history without db", mutate: func(c *Config) { c.History.DBPath = "" }, wantErr: "history.db_path"},
		{name: "disabled history without db", mutate: func(c *Config) {
			c.History.Enabled = false
			c.History.DBPath = ""
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			err := cfg.Validate()
			if tt.wantErr == "" {
				assert.NoError(t, err)
				return
			}
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestCheckSourceDir(t *testing.T) {
	dir := t.TempDir()

	has, err := CheckSourceDir(dir)
	require.NoError(t, err)
	assert.False(t, has)

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ui.h"), []byte("#pragma once\n"), 0644))
	has, err = CheckSourceDir(dir)
	require.NoError(t, err)
	assert.True(t, has)

	_, err = CheckSourceDir(filepath.Join(dir, "ui.h"))
	assert.ErrorIs(t, err, ErrNotDirectory)

	_, err = CheckSourceDir(filepath.Join(dir, "missing"))
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEnsureBackupDir(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "backup", "ui")

	created, err := EnsureBackupDir(dir)
	require.NoError(t, err)
	assert.True(t, created)

	created, err = EnsureBackupDir(dir)
	require.NoError(t, err)
	assert.False(t, created)

	file := filepath.Join(t.TempDir(), "file")
	require.NoError(t, os.WriteFile(file, nil, 0644))
	_, err = EnsureBackupDir(file)
	assert.ErrorIs(t, err, ErrNotDirectory)
}
