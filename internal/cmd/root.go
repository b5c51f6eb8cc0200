package cmd

import (
	"github.com/spf13/cobra"
)

// Version is injected at build time via -ldflags
var Version = "dev"

// NewRootCommand creates and returns the root cobra command for eezsync.
// Running it without a subcommand performs an import.
func NewRootCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "eezsync",
		Short: "Import EEZ Studio UI sources into an ESP-IDF project",
		Long: `eezsync copies the UI sources generated by EEZ Studio into an ESP-IDF
component, rewrites the LVGL include paths, seeds CMakeLists.txt and
eez-flow.h from templates, and appends a stub to actions.c for every
action declared in actions.h that has no implementation yet.

Without --mode the modes listed under selected_modes in the config run.

Modes:
  config          interactive configuration
  backup-ui       copy project_dir to backup_dir
  restore-ui      copy backup_dir back to project_dir
  delete-backup   remove backup_dir (asks first)
  copy-ui         copy source_dir to project_dir (alias: mirror)
  fix-headers     rewrite headers.find to headers.replace (alias: patch-headers)
  fix-cmake       create CMakeLists.txt from the template if missing
  fix-actions     add missing action stubs to actions.c (alias: reconcile-actions)
  fix-flow        create eez-flow.h from the template if missing
  all             backup-ui, copy-ui, fix-headers, fix-cmake, fix-actions, fix-flow

Examples:
  eezsync                         # run selected_modes (default: all)
  eezsync -m fix-actions          # only reconcile actions.c
  eezsync -d                      # print the source directory
  eezsync -d ./eez/src/ui         # validate and save a new source directory
  eezsync -b ./backup/ui          # create and save a backup directory
  eezsync --dry-run --verbose     # show what would change`,
		Version: Version,
		Args:    cobra.MaximumNArgs(1),
		RunE:    runImport,
		// Silence usage on errors to avoid duplicate help text
		SilenceUsage: true,
	}

	cmd.PersistentFlags().String("config", "", "Path to config file (default: .eezsync/config.yaml)")
	cmd.PersistentFlags().BoolP("yes", "y", false, "Answer yes to every confirmation prompt")
	cmd.PersistentFlags().BoolP("verbose", "v", false, "Log per-file and per-function detail")
	cmd.PersistentFlags().String("log-dir", "", "Directory for run log files")

	addImportFlags(cmd)

	cmd.AddCommand(NewConfigCommand())
	cmd.AddCommand(NewHistoryCommand())
	cmd.AddCommand(NewWatchCommand())

	return cmd
}
