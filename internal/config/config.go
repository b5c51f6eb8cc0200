package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/harrison/eezsync/internal/filelock"
)

// Defaults taken from a freshly generated EEZ Studio project layout.
const (
	DefaultSourceDir   = "./example/eez-project/project_name/src/ui"
	DefaultBackupDir   = "./backup/ui"
	DefaultProjectDir  = "./components/ui"
	DefaultTemplateDir = "./backup/templates"
)

// ErrNotDirectory is returned when a configured source directory is not a directory.
var ErrNotDirectory = errors.New("not a directory")

// HeadersConfig controls the include rewrite performed by fix-headers.
type HeadersConfig struct {
	// Find is the literal include path to replace
	Find string `yaml:"find"`

	// Replace is the text substituted for Find
	Replace string `yaml:"replace"`

	// Extensions limits which files are patched
	Extensions []string `yaml:"extensions"`

	// Include holds optional doublestar globs relative to project_dir
	Include []string `yaml:"include"`
}

// ActionsConfig names the action declaration header and definition source.
type ActionsConfig struct {
	Header string `yaml:"header"`
	Source string `yaml:"source"`
}

// HistoryConfig represents run history configuration
type HistoryConfig struct {
	// Enabled records each stage of each run to the history database
	Enabled bool `yaml:"enabled"`

	// DBPath is the path to the sqlite history database
	DBPath string `yaml:"db_path"`
}

// Config represents eezsync configuration options
type Config struct {
	// SourceDir is the EEZ Studio generated UI directory
	SourceDir string `yaml:"source_dir"`

	// BackupDir receives backups of the project UI directory
	BackupDir string `yaml:"backup_dir"`

	// ProjectDir is the UI directory inside the firmware project
	ProjectDir string `yaml:"project_dir"`

	// TemplateDir holds CMakeLists.txt, eez-flow.h and the actions.c template
	TemplateDir string `yaml:"template_dir"`

	// SelectedModes run when no mode is given on the command line
	SelectedModes []string `yaml:"selected_modes"`

	// LogLevel sets the logging verbosity (trace, debug, info, warn, error)
	LogLevel string `yaml:"log_level"`

	// LogDir is the directory where run logs will be written
	LogDir string `yaml:"log_dir"`

	Headers HeadersConfig `yaml:"headers"`
	Actions ActionsConfig `yaml:"actions"`
	History HistoryConfig `yaml:"history"`

	// Path is the file the config was loaded from
	Path string `yaml:"-"`

	// Exists reports whether Path was present when loaded
	Exists bool `yaml:"-"`
}

// DefaultConfig returns a Config with sensible default values
func DefaultConfig() *Config {
	home := homeOrRelative()
	return &Config{
		SourceDir:     DefaultSourceDir,
		BackupDir:     DefaultBackupDir,
		ProjectDir:    DefaultProjectDir,
		TemplateDir:   DefaultTemplateDir,
		SelectedModes: []string{"all"},
		LogLevel:      "info",
		LogDir:        filepath.Join(home, "logs"),
		Headers: HeadersConfig{
			Find:       "lvgl/lvgl.h",
			Replace:    "lvgl.h",
			Extensions: []string{".h", ".c", ".cpp", ".hpp"},
			Include:    []string{},
		},
		Actions: ActionsConfig{
			Header: "actions.h",
			Source: "actions.c",
		},
		History: HistoryConfig{
			Enabled: true,
			DBPath:  filepath.Join(home, "history.db"),
		},
	}
}

// LoadConfig loads configuration from the specified file path
// If the file doesn't exist, returns default configuration with Exists false
// If the file exists but is malformed, returns an error
func LoadConfig(path string) (*Config, error) {
	cfg := DefaultConfig()
	cfg.Path = path

	data, err := os.ReadFile(path)
	if errors.Is(err, os.ErrNotExist) {
		return cfg, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}
	cfg.Exists = true

	// Pointer fields distinguish "absent" from "explicitly empty"
	type yamlConfig struct {
		SourceDir     string   `yaml:"source_dir"`
		BackupDir     string   `yaml:"backup_dir"`
		ProjectDir    string   `yaml:"project_dir"`
		TemplateDir   string   `yaml:"template_dir"`
		SelectedModes []string `yaml:"selected_modes"`
		LogLevel      string   `yaml:"log_level"`
		LogDir        string   `yaml:"log_dir"`
		Headers       struct {
			Find       string    `yaml:"find"`
			Replace    *string   `yaml:"replace"`
			Extensions []string  `yaml:"extensions"`
			Include    *[]string `yaml:"include"`
		} `yaml:"headers"`
		Actions ActionsConfig `yaml:"actions"`
		History struct {
			Enabled *bool  `yaml:"enabled"`
			DBPath  string `yaml:"db_path"`
		} `yaml:"history"`
	}

	var yamlCfg yamlConfig
	if err := yaml.Unmarshal(data, &yamlCfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	// Apply non-zero values from file (merging with defaults)
	setString(&cfg.SourceDir, yamlCfg.SourceDir)
	setString(&cfg.BackupDir, yamlCfg.BackupDir)
	setString(&cfg.ProjectDir, yamlCfg.ProjectDir)
	setString(&cfg.TemplateDir, yamlCfg.TemplateDir)
	setString(&cfg.LogLevel, strings.ToLower(yamlCfg.LogLevel))
	setString(&cfg.LogDir, yamlCfg.LogDir)
	if len(yamlCfg.SelectedModes) > 0 {
		cfg.SelectedModes = yamlCfg.SelectedModes
	}

	setString(&cfg.Headers.Find, yamlCfg.Headers.Find)
	if yamlCfg.Headers.Replace != nil {
		cfg.Headers.Replace = *yamlCfg.Headers.Replace
	}
	if len(yamlCfg.Headers.Extensions) > 0 {
		cfg.Headers.Extensions = yamlCfg.Headers.Extensions
	}
	if yamlCfg.Headers.Include != nil {
		cfg.Headers.Include = *yamlCfg.Headers.Include
	}

	setString(&cfg.Actions.Header, yamlCfg.Actions.Header)
	setString(&cfg.Actions.Source, yamlCfg.Actions.Source)

	if yamlCfg.History.Enabled != nil {
		cfg.History.Enabled = *yamlCfg.History.Enabled
	}
	setString(&cfg.History.DBPath, yamlCfg.History.DBPath)

	return cfg, nil
}

func setString(dst *string, v string) {
	if v != "" {
		*dst = v
	}
}

// LoadConfigFromDir loads configuration from .eezsync/config.yaml in the specified directory
// If the directory or file doesn't exist, returns default configuration without error
func LoadConfigFromDir(dir string) (*Config, error) {
	return LoadConfig(filepath.Join(dir, HomeDirName, "config.yaml"))
}

// MergeWithFlags merges CLI flags into the configuration
// Non-nil flag values override configuration values
func (c *Config) MergeWithFlags(sourceDir, backupDir, logDir, logLevel *string) {
	if sourceDir != nil {
		c.SourceDir = *sourceDir
	}
	if backupDir != nil {
		c.BackupDir = *backupDir
	}
	if logDir != nil {
		c.LogDir = *logDir
	}
	if logLevel != nil {
		c.LogLevel = *logLevel
	}
}

// Validate validates the configuration values
// Returns an error if any values are invalid
func (c *Config) Validate() error {
	validLevels := map[string]bool{
		"trace": true,
		"debug": true,
		"info":  true,
		"warn":  true,
		"error": true,
	}
	if !validLevels[c.LogLevel] {
		return fmt.Errorf("invalid log_level %q, must be one of: trace, debug, info, warn, error", c.LogLevel)
	}

	required := []struct {
		key, value string
	}{
		{"source_dir", c.SourceDir},
		{"backup_dir", c.BackupDir},
		{"project_dir", c.ProjectDir},
		{"template_dir", c.TemplateDir},
		{"headers.find", c.Headers.Find},
		{"actions.header", c.Actions.Header},
		{"actions.source", c.Actions.Source},
	}
	for _, r := range required {
		if strings.TrimSpace(r.value) == "" {
			return fmt.Errorf("%s cannot be empty", r.key)
		}
	}

	if filepath.Clean(c.BackupDir) == filepath.Clean(c.ProjectDir) {
		return fmt.Errorf("backup_dir and project_dir must differ, both are %q", c.BackupDir)
	}

	if c.History.Enabled && c.History.DBPath == "" {
		return fmt.Errorf("history.db_path cannot be empty when history is enabled")
	}

	return nil
}

// Save writes the configuration as YAML under a file lock.
func (c *Config) Save(path string) error {
	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to encode config: %w", err)
	}
	if err := filelock.LockAndWrite(path, data); err != nil {
		return fmt.Errorf("failed to save config: %w", err)
	}
	c.Path = path
	c.Exists = true
	return nil
}

// CheckSourceDir verifies that dir is a directory. hasUIHeader reports
// whether it contains the generated ui.h; its absence is only a warning.
func CheckSourceDir(dir string) (hasUIHeader bool, err error) {
	info, err := os.Stat(dir)
	if err != nil {
		return false, fmt.Errorf("source directory %s: %w", dir, err)
	}
	if !info.IsDir() {
		return false, fmt.Errorf("source directory %s: %w", dir, ErrNotDirectory)
	}

	if info, err := os.Stat(filepath.Join(dir, "ui.h")); err == nil && info.Mode().IsRegular() {
		return true, nil
	}
	return false, nil
}

// EnsureBackupDir creates the backup directory if it does not exist.
// created reports whether a directory was made.
func EnsureBackupDir(dir string) (created bool, err error) {
	info, err := os.Stat(dir)
	if err == nil {
		if !info.IsDir() {
			return false, fmt.Errorf("backup directory %s: %w", dir, ErrNotDirectory)
		}
		return false, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return false, fmt.Errorf("backup directory %s: %w", dir, err)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return false, fmt.Errorf("create backup directory %s: %w", dir, err)
	}
	return true, nil
}
