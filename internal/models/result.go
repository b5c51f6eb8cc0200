package models

import (
	"fmt"
	"time"
)

// Stage status constants
const (
	StatusOK      = "OK"      // Stage completed
	StatusWarning = "WARNING" // Stage completed with a non-fatal warning
	StatusFailed  = "FAILED"  // Stage failed
	StatusSkipped = "SKIPPED" // Stage not run (aborted run or declined prompt)
)

// StageResult represents the result of executing a single stage
type StageResult struct {
	Stage     string        // Mode name, e.g. "fix-actions"
	Status    string        // One of the Status constants
	Processed int           // Files or names examined
	Created   int           // Files written or stubs appended
	Skipped   int           // Items already in place
	Warnings  []string      // Non-fatal conditions
	Error     error         // Error if the stage failed
	Duration  time.Duration // Time taken to execute
}

// Failed reports whether the stage failed.
func (r StageResult) Failed() bool {
	return r.Status == StatusFailed
}

// Counts formats the processed/created/skipped summary line.
func (r StageResult) Counts() string {
	return fmt.Sprintf("processed %d, created %d, skipped %d", r.Processed, r.Created, r.Skipped)
}

// RunSummary represents the aggregate result of one invocation
type RunSummary struct {
	RunID    string        // Unique ID shared by log file and history rows
	Started  time.Time     // When the run began
	Duration time.Duration // Total execution time
	Stages   []StageResult // Results in execution order
	Aborted  bool          // A fatal stage stopped the run early
}

// StatusBreakdown counts stages by status.
func (s *RunSummary) StatusBreakdown() map[string]int {
	breakdown := map[string]int{
		StatusOK:      0,
		StatusWarning: 0,
		StatusFailed:  0,
		StatusSkipped: 0,
	}
	for _, st := range s.Stages {
		breakdown[st.Status]++
	}
	return breakdown
}

// FailedStages returns the failed stage results.
func (s *RunSummary) FailedStages() []StageResult {
	var failed []StageResult
	for _, st := range s.Stages {
		if st.Failed() {
			failed = append(failed, st)
		}
	}
	return failed
}

// Totals sums the counters across all stages.
func (s *RunSummary) Totals() (processed, created, skipped int) {
	for _, st := range s.Stages {
		processed += st.Processed
		created += st.Created
		skipped += st.Skipped
	}
	return processed, created, skipped
}
