package cmd

import (
	"errors"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/fatih/color"
	"github.com/spf13/cobra"

	"github.com/harrison/eezsync/internal/history"
	"github.com/harrison/eezsync/internal/models"
)

// NewHistoryCommand creates the 'eezsync history' command
func NewHistoryCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recent runs and their stage results",
		Args:  cobra.NoArgs,
		RunE:  runHistory,
	}
	cmd.Flags().IntP("limit", "n", 10, "Number of runs to show")
	return cmd
}

func runHistory(cmd *cobra.Command, args []string) error {
	s, err := newSession(cmd)
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	limit, _ := cmd.Flags().GetInt("limit")

	dbPath := s.cfg.History.DBPath
	if _, err := os.Stat(dbPath); errors.Is(err, os.ErrNotExist) {
		fmt.Fprintln(out, "No runs recorded yet.")
		fmt.Fprintf(out, "Database path: %s\n", dbPath)
		return nil
	}

	store, err := history.NewStore(dbPath)
	if err != nil {
		return fmt.Errorf("open history store: %w", err)
	}
	defer store.Close()

	runs, err := store.Recent(cmd.Context(), limit)
	if err != nil {
		return fmt.Errorf("load history: %w", err)
	}
	if len(runs) == 0 {
		fmt.Fprintln(out, "No runs recorded yet.")
		return nil
	}

	printHistory(out, runs)
	return nil
}

func printHistory(w io.Writer, runs []*history.Run) {
	cyan := color.New(color.FgCyan, color.Bold)

	cyan.Fprintf(w, "\n=== Recent Runs ===\n\n")
	for _, run := range runs {
		fmt.Fprintf(w, "%s  %s  ", run.StartedAt.Local().Format("2006-01-02 15:04:05"), shortID(run.ID))
		statusColor(run.Status).Fprintf(w, "%-9s", run.Status)
		fmt.Fprintf(w, "  %s  %s\n", run.Duration.Round(time.Millisecond), strings.Join(run.Modes, ","))

		for _, st := range run.Stages {
			fmt.Fprintf(w, "    %-14s ", st.Stage)
			statusColor(st.Status).Fprintf(w, "%-8s", st.Status)
			fmt.Fprintf(w, " processed %d, created %d, skipped %d", st.Processed, st.Created, st.Skipped)
			if st.ErrorMessage != "" {
				fmt.Fprintf(w, "  (%s)", st.ErrorMessage)
			}
			fmt.Fprintln(w)
		}
		fmt.Fprintln(w)
	}
}

func statusColor(status string) *color.Color {
	switch status {
	case models.StatusOK, history.RunSucceeded:
		return color.New(color.FgGreen)
	case models.StatusWarning, models.StatusSkipped, history.RunRunning:
		return color.New(color.FgYellow)
	default:
		return color.New(color.FgRed)
	}
}

func shortID(id string) string {
	if len(id) > 8 {
		return id[:8]
	}
	return id
}
