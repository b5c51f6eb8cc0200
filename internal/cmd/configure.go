package cmd

import (
	"errors"
	"fmt"
	"strconv"
	"strings"

	"github.com/spf13/cobra"

	"github.com/harrison/eezsync/internal/config"
	"github.com/harrison/eezsync/internal/display"
	"github.com/harrison/eezsync/internal/modes"
)

// NewConfigCommand creates the 'eezsync config' command
func NewConfigCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Interactively set directories and default modes",
		Long: `Prompt for the EEZ Studio source directory, the backup directory and the
modes to run by default, then save them to the config file.

Press Enter to keep the value shown in brackets.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}
			return runInteractiveConfig(cmd, s)
		},
	}
}

// modeMenu lists the modes that can be stored in selected_modes.
func modeMenu() display.Menu {
	menu := display.Menu{Title: "Modes", ZeroItem: string(modes.All)}
	for _, m := range modes.Available() {
		if m != modes.Config {
			menu.Items = append(menu.Items, string(m))
		}
	}
	return menu
}

// runInteractiveConfig asks for each setting until a valid answer is given
// and saves the result.
func runInteractiveConfig(cmd *cobra.Command, s *session) error {
	out := cmd.OutOrStdout()
	cfg := s.cfg

	for {
		answer, err := s.prompt.Ask(fmt.Sprintf("Source directory [%s]: ", cfg.SourceDir))
		if err != nil {
			return err
		}
		dir := answer
		if dir == "" {
			dir = cfg.SourceDir
		}
		hasHeader, err := config.CheckSourceDir(dir)
		if err != nil {
			display.Warning{Title: "invalid source directory", Message: err.Error()}.Display(out)
			continue
		}
		if !hasHeader {
			display.WarnMissingUIHeader(dir).Display(out)
		}
		cfg.SourceDir = dir
		break
	}

	for {
		answer, err := s.prompt.Ask(fmt.Sprintf("Backup directory [%s]: ", cfg.BackupDir))
		if err != nil {
			return err
		}
		dir := answer
		if dir == "" {
			dir = cfg.BackupDir
		}
		created, err := config.EnsureBackupDir(dir)
		if err != nil {
			display.Warning{Title: "invalid backup directory", Message: err.Error()}.Display(out)
			continue
		}
		if created {
			display.Success(out, "Created backup directory %s", dir)
		}
		cfg.BackupDir = dir
		break
	}

	menu := modeMenu()
	menu.Display(out)
	for {
		answer, err := s.prompt.Ask(fmt.Sprintf("Select modes by number, separated by spaces or commas [%s]: ",
			strings.Join(cfg.SelectedModes, ", ")))
		if err != nil {
			return err
		}
		if answer == "" {
			break
		}
		selected, err := parseModeSelection(menu, answer)
		if err != nil {
			display.Warning{Title: err.Error()}.Display(out)
			continue
		}
		cfg.SelectedModes = selected
		break
	}

	if err := cfg.Save(s.configPath); err != nil {
		return err
	}
	display.Success(out, "Configuration saved to %s", s.configPath)
	return nil
}

// parseModeSelection maps menu numbers to mode names. 0 selects all and
// replaces any other choice.
func parseModeSelection(menu display.Menu, answer string) ([]string, error) {
	fields := strings.FieldsFunc(answer, func(r rune) bool { return r == ',' || r == ' ' || r == '\t' })
	if len(fields) == 0 {
		return nil, errors.New("no modes selected")
	}

	var selected []string
	seen := make(map[string]bool)
	for _, f := range fields {
		n, err := strconv.Atoi(f)
		if err != nil {
			return nil, fmt.Errorf("%q is not a number", f)
		}
		name, ok := menu.Choice(n)
		if !ok {
			return nil, fmt.Errorf("%d is not a listed mode", n)
		}
		if name == string(modes.All) {
			return []string{name}, nil
		}
		if !seen[name] {
			seen[name] = true
			selected = append(selected, name)
		}
	}
	return selected, nil
}
