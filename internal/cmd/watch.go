package cmd

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/spf13/cobra"

	"github.com/harrison/eezsync/internal/modes"
	"github.com/harrison/eezsync/internal/watch"
)

// NewWatchCommand creates the 'eezsync watch' command
func NewWatchCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "watch",
		Short: "Re-run fix-actions whenever actions.h changes",
		Long: `Watch the project's actions.h and add stubs to actions.c for new actions
each time EEZ Studio regenerates the header. Stop with Ctrl+C.`,
		Args: cobra.NoArgs,
		RunE: runWatch,
	}
	cmd.Flags().Duration("debounce", watch.DefaultDebounceDelay, "Delay before reacting to a burst of changes")
	return cmd
}

func runWatch(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	if ok, err := s.ensureConfig(cmd); !ok || err != nil {
		return err
	}
	if err := s.applyFlags(cmd); err != nil {
		return err
	}

	header := filepath.Join(s.cfg.ProjectDir, s.cfg.Actions.Header)
	debounce, _ := cmd.Flags().GetDuration("debounce")

	w, err := watch.New([]string{header}, watch.Options{
		Debounce: debounce,
		OnError: func(err error) {
			fmt.Fprintf(cmd.ErrOrStderr(), "watch: %v\n", err)
		},
	})
	if err != nil {
		return err
	}
	defer w.Close()

	ctx, stop := signalContext(cmd)
	defer stop()

	stages := []modes.Mode{modes.FixActions}
	reconcile := func(ctx context.Context, path string) error {
		// A failed pass is reported and the next change is awaited.
		if err := s.dispatch(ctx, cmd, stages, false); err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "Error: %v\n", err)
		}
		return nil
	}

	if err := reconcile(ctx, header); err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "Watching %s (Ctrl+C to stop)\n", header)

	err = w.Run(ctx, reconcile)
	if errors.Is(err, context.Canceled) {
		return nil
	}
	return err
}
