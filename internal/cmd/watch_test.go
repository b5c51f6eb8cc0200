package cmd

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestWatchRequiresProjectDir(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t)

	_, err := execute(t, "", "--config", env.configPath, "watch")
	assert.Error(t, err)
}

func TestWatchHasDebounceFlag(t *testing.T) {
	cmd := NewWatchCommand()
	flag := cmd.Flags().Lookup("debounce")
	if assert.NotNil(t, flag) {
		assert.Equal(t, "100ms", flag.DefValue)
	}
}

func TestHistoryWithoutDatabase(t *testing.T) {
	env := newTestEnv(t)
	env.writeConfig(t)

	out, err := execute(t, "", "--config", env.configPath, "history", "--limit", "5")
	assert.NoError(t, err)
	assert.Contains(t, out, "No runs recorded yet")
}
