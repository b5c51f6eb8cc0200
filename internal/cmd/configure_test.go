package cmd

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfigCommandInteractive(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t)
	writeFile(t, filepath.Join(env.sourceDir, "ui.h"), "")
	newBackup := filepath.Join(env.root, "saved")

	input := strings.Join([]string{
		filepath.Join(env.root, "missing"), // rejected, asked again
		"",                                 // keep current source dir
		newBackup,
		"4 x", // rejected
		"4, 7",
	}, "\n") + "\n"

	out, err := execute(t, input, "--config", env.configPath, "config")
	require.NoError(t, err)
	assert.Contains(t, out, "invalid source directory")
	assert.Contains(t, out, "[0] all")
	assert.Contains(t, out, "Configuration saved")

	cfg := env.loadConfig(t)
	assert.Equal(t, env.sourceDir, cfg.SourceDir)
	assert.Equal(t, newBackup, cfg.BackupDir)
	assert.Equal(t, []string{"copy-ui", "fix-actions"}, cfg.SelectedModes)
	assert.DirExists(t, newBackup)
}

func TestConfigCommandInputClosed(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t)
	before, err := os.ReadFile(env.configPath)
	require.NoError(t, err)

	_, err = execute(t, "", "--config", env.configPath, "config")
	assert.ErrorIs(t, err, errInputClosed)

	after, err := os.ReadFile(env.configPath)
	require.NoError(t, err)
	assert.Equal(t, string(before), string(after))
}

func TestParseModeSelection(t *testing.T) {
	menu := modeMenu()

	tests := []struct {
		name    string
		answer  string
		want    []string
		wantErr bool
	}{
		{name: "zero selects all", answer: "0", want: []string{"all"}},
		{name: "zero wins over others", answer: "1 0 2", want: []string{"all"}},
		{name: "commas and spaces", answer: "1,5  7", want: []string{"backup-ui", "fix-headers", "fix-actions"}},
		{name: "duplicates dropped", answer: "7 7", want: []string{"fix-actions"}},
		{name: "out of range", answer: "42", wantErr: true},
		{name: "not a number", answer: "copy", wantErr: true},
		{name: "only separators", answer: " , ", wantErr: true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseModeSelection(menu, tt.answer)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestModeMenuExcludesConfig(t *testing.T) {
	menu := modeMenu()
	assert.NotContains(t, menu.Items, "config")
	assert.Equal(t, "backup-ui", menu.Items[0])
}
