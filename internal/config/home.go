package config

import (
	"fmt"
	"os"
	"path/filepath"
)

// HomeDirName is the per-project state directory holding config, logs,
// history and the run lock.
const HomeDirName = ".eezsync"

// GetHome returns the eezsync home directory.
// Priority order:
//  1. EEZSYNC_HOME environment variable (if set)
//  2. .eezsync below the given project root
//  3. .eezsync below the current working directory
//
// The directory is not created.
func GetHome(projectRoot string) (string, error) {
	if home := os.Getenv("EEZSYNC_HOME"); home != "" {
		return home, nil
	}

	if projectRoot != "" {
		return filepath.Join(projectRoot, HomeDirName), nil
	}

	cwd, err := os.Getwd()
	if err != nil {
		return "", fmt.Errorf("get working directory: %w", err)
	}
	return filepath.Join(cwd, HomeDirName), nil
}

// homeOrRelative is the home used for default paths. Without EEZSYNC_HOME the
// defaults stay relative so a saved config remains portable.
func homeOrRelative() string {
	if home := os.Getenv("EEZSYNC_HOME"); home != "" {
		return home
	}
	return HomeDirName
}

// ConfigPath returns the config file path inside home.
func ConfigPath(home string) string {
	return filepath.Join(home, "config.yaml")
}

// RunLockPath returns the run lock path inside home.
func RunLockPath(home string) string {
	return filepath.Join(home, "run.lock")
}
