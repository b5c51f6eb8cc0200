package cmd

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"strings"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/harrison/eezsync/internal/config"
	"github.com/harrison/eezsync/internal/display"
	"github.com/harrison/eezsync/internal/history"
	"github.com/harrison/eezsync/internal/logger"
	"github.com/harrison/eezsync/internal/modes"
)

// showValue is what -d and -b receive when given without a path.
const showValue = "-"

func addImportFlags(cmd *cobra.Command) {
	names := make([]string, 0, len(modes.Available())+1)
	for _, m := range modes.Available() {
		names = append(names, string(m))
	}
	names = append(names, string(modes.All))

	cmd.Flags().StringP("mode", "m", "", "Mode to run: "+strings.Join(names, ", "))
	cmd.Flags().StringP("directory", "d", "", "Print the source directory, or validate and save the given one")
	cmd.Flags().StringP("backup-directory", "b", "", "Print the backup directory, or create and save the given one")
	cmd.Flags().Bool("dry-run", false, "Report what would change without writing files")

	cmd.Flags().Lookup("directory").NoOptDefVal = showValue
	cmd.Flags().Lookup("backup-directory").NoOptDefVal = showValue

	_ = cmd.RegisterFlagCompletionFunc("mode", func(*cobra.Command, []string, string) ([]string, cobra.ShellCompDirective) {
		return names, cobra.ShellCompDirectiveNoFileComp
	})
}

// session is the state shared by every command of one invocation.
type session struct {
	home       string
	configPath string
	cfg        *config.Config
	prompt     *prompter
	confirm    modes.Confirmer
}

func newSession(cmd *cobra.Command) (*session, error) {
	home, err := config.GetHome("")
	if err != nil {
		return nil, err
	}

	configPath, _ := cmd.Flags().GetString("config")
	if configPath == "" {
		configPath = config.ConfigPath(home)
	}

	cfg, err := config.LoadConfig(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to load config from %s: %w", configPath, err)
	}

	s := &session{
		home:       home,
		configPath: configPath,
		cfg:        cfg,
		prompt:     newPrompter(cmd.InOrStdin(), cmd.OutOrStdout()),
	}
	s.confirm = s.prompt
	if yes, _ := cmd.Flags().GetBool("yes"); yes {
		s.confirm = modes.AlwaysConfirm
	}
	return s, nil
}

// applyFlags merges --log-dir and --verbose into the config and validates it.
func (s *session) applyFlags(cmd *cobra.Command) error {
	var logDirPtr, levelPtr *string
	if cmd.Flags().Changed("log-dir") {
		logDir, _ := cmd.Flags().GetString("log-dir")
		logDirPtr = &logDir
	}
	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		level := "debug"
		levelPtr = &level
	}
	s.cfg.MergeWithFlags(nil, nil, logDirPtr, levelPtr)

	if err := s.cfg.Validate(); err != nil {
		return fmt.Errorf("invalid configuration: %w", err)
	}
	return nil
}

// ensureConfig offers to create a default config when none exists.
// It reports false when the user declined.
func (s *session) ensureConfig(cmd *cobra.Command) (bool, error) {
	if s.cfg.Exists {
		return true, nil
	}

	ok, err := s.confirm.Confirm(cmd.Context(),
		fmt.Sprintf("No configuration found at %s. Create it with default values?", s.configPath))
	if err != nil {
		return false, err
	}
	if !ok {
		fmt.Fprintln(cmd.OutOrStdout(), "No configuration created. Run 'eezsync config' to set one up.")
		return false, nil
	}

	if err := s.cfg.Save(s.configPath); err != nil {
		return false, err
	}
	display.Success(cmd.OutOrStdout(), "Created default configuration at %s", s.configPath)
	return true, nil
}

// runLogger builds the console + file logger for one run. The returned
// close function flushes the file log.
func (s *session) runLogger(cmd *cobra.Command, runID string) (logger.RunLogger, func(), error) {
	console := logger.NewConsoleLogger(cmd.OutOrStdout(), s.cfg.LogLevel)

	fileLog, err := logger.NewFileLogger(s.cfg.LogDir, s.cfg.LogLevel, runID)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to create file logger: %w", err)
	}

	return logger.NewMultiLogger(console, fileLog), func() { fileLog.Close() }, nil
}

// openHistory opens the run history store. A store that cannot be opened
// is reported and the run continues without history.
func (s *session) openHistory(log logger.RunLogger) *history.Store {
	if !s.cfg.History.Enabled {
		return nil
	}
	store, err := history.NewStore(s.cfg.History.DBPath)
	if err != nil {
		log.LogWarn(fmt.Sprintf("run history disabled: %v", err))
		return nil
	}
	return store
}

// dispatch runs stages with logging, history and the run lock wired in.
func (s *session) dispatch(ctx context.Context, cmd *cobra.Command, stages []modes.Mode, dryRun bool) error {
	runID := modes.NewRunID()

	log, closeLog, err := s.runLogger(cmd, runID)
	if err != nil {
		return err
	}
	defer closeLog()

	settings := modes.SettingsFromConfig(s.cfg)
	settings.DryRun = dryRun

	opts := []modes.Option{
		modes.WithLogger(log),
		modes.WithConfirmer(s.confirm),
		modes.WithRunID(runID),
		modes.WithRunLock(config.RunLockPath(s.home)),
	}
	if store := s.openHistory(log); store != nil {
		defer store.Close()
		opts = append(opts, modes.WithRecorder(store))
	}

	_, err = modes.NewDispatcher(settings, opts...).Run(ctx, stages)
	return err
}

func signalContext(cmd *cobra.Command) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
}

// runImport implements the root command.
func runImport(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}

	if handled, err := s.directoryFlags(cmd, args); handled || err != nil {
		return err
	}
	if len(args) > 0 {
		return fmt.Errorf("unexpected argument %q", args[0])
	}

	if ok, err := s.ensureConfig(cmd); !ok || err != nil {
		return err
	}
	if err := s.applyFlags(cmd); err != nil {
		return err
	}

	mode, _ := cmd.Flags().GetString("mode")
	plan, err := modes.Resolve(mode, s.cfg)
	if err != nil {
		return err
	}

	if plan.Configure {
		if err := runInteractiveConfig(cmd, s); err != nil {
			return err
		}
	}
	if len(plan.Stages) == 0 {
		return nil
	}

	ctx, stop := signalContext(cmd)
	defer stop()

	dryRun, _ := cmd.Flags().GetBool("dry-run")
	return s.dispatch(ctx, cmd, plan.Stages, dryRun)
}

// directoryFlags handles -d and -b. Without a value they print the current
// setting. With a value they validate it, save the config and exit. A path
// given as "-d path" arrives as a positional argument and is accepted too.
func (s *session) directoryFlags(cmd *cobra.Command, args []string) (bool, error) {
	source, _ := cmd.Flags().GetString("directory")
	backup, _ := cmd.Flags().GetString("backup-directory")
	sourceSet := cmd.Flags().Changed("directory")
	backupSet := cmd.Flags().Changed("backup-directory")

	if !sourceSet && !backupSet {
		return false, nil
	}

	if len(args) == 1 {
		switch {
		case sourceSet && source == showValue && !(backupSet && backup == showValue):
			source = args[0]
		case backupSet && backup == showValue && !(sourceSet && source == showValue):
			backup = args[0]
		default:
			return true, fmt.Errorf("unexpected argument %q", args[0])
		}
	}

	out := cmd.OutOrStdout()
	changed := false

	if sourceSet {
		if source == showValue {
			fmt.Fprintf(out, "Source directory: %s\n", s.cfg.SourceDir)
		} else {
			hasHeader, err := config.CheckSourceDir(source)
			if err != nil {
				return true, fmt.Errorf("invalid source directory: %w", err)
			}
			if !hasHeader {
				display.WarnMissingUIHeader(source).Display(cmd.ErrOrStderr())
			}
			s.cfg.SourceDir = source
			changed = true
		}
	}

	if backupSet {
		if backup == showValue {
			fmt.Fprintf(out, "Backup directory: %s\n", s.cfg.BackupDir)
		} else {
			created, err := config.EnsureBackupDir(backup)
			if err != nil {
				return true, fmt.Errorf("invalid backup directory: %w", err)
			}
			if created {
				display.Success(out, "Created backup directory %s", backup)
			}
			s.cfg.BackupDir = backup
			changed = true
		}
	}

	if !changed {
		return true, nil
	}
	if err := s.cfg.Save(s.configPath); err != nil {
		return true, err
	}
	if source != showValue && sourceSet {
		display.Success(out, "Source directory set to %s", s.cfg.SourceDir)
	}
	if backup != showValue && backupSet {
		display.Success(out, "Backup directory set to %s", s.cfg.BackupDir)
	}
	return true, nil
}
