// Package modes resolves the requested import modes into an ordered list of
// stages and runs them against the project tree.
package modes

import (
	"errors"
	"fmt"
	"strings"

	"github.com/harrison/eezsync/internal/config"
)

// ErrUnknownMode is returned for a mode name that is neither a mode nor an alias.
var ErrUnknownMode = errors.New("unknown mode")

// Mode names one step of an import.
type Mode string

const (
	Config       Mode = "config"
	BackupUI     Mode = "backup-ui"
	RestoreUI    Mode = "restore-ui"
	DeleteBackup Mode = "delete-backup"
	CopyUI       Mode = "copy-ui"
	FixHeaders   Mode = "fix-headers"
	FixCMake     Mode = "fix-cmake"
	FixActions   Mode = "fix-actions"
	FixFlow      Mode = "fix-flow"
	All          Mode = "all"
)

// allStages is what "all" expands to. restore-ui and delete-backup are
// never implied.
var allStages = []Mode{BackupUI, CopyUI, FixHeaders, FixCMake, FixActions, FixFlow}

var aliases = map[string]Mode{
	"mirror":            CopyUI,
	"patch-headers":     FixHeaders,
	"reconcile-actions": FixActions,
}

// Available lists every selectable mode except "all", in menu order.
func Available() []Mode {
	return []Mode{Config, BackupUI, RestoreUI, DeleteBackup, CopyUI, FixHeaders, FixCMake, FixActions, FixFlow}
}

// AllStages returns the stages "all" expands to.
func AllStages() []Mode {
	return append([]Mode(nil), allStages...)
}

// Parse maps a mode name or alias to its Mode. Matching ignores case and
// surrounding whitespace.
func Parse(name string) (Mode, error) {
	n := strings.ToLower(strings.TrimSpace(name))
	if m, ok := aliases[n]; ok {
		return m, nil
	}
	m := Mode(n)
	if m == All {
		return All, nil
	}
	for _, known := range Available() {
		if m == known {
			return m, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownMode, name)
}

// Plan is a resolved invocation.
type Plan struct {
	// Configure requests the interactive configuration before any stage.
	Configure bool
	// Stages run in order; each appears once.
	Stages []Mode
}

// Names returns the stage names.
func (p Plan) Names() []string {
	names := make([]string, len(p.Stages))
	for i, m := range p.Stages {
		names[i] = string(m)
	}
	return names
}

// Resolve turns the requested mode, or the configured selected_modes when
// requested is empty, into a Plan. "all" expands in place, duplicates are
// dropped keeping the first occurrence, and unknown names are errors.
func Resolve(requested string, cfg *config.Config) (Plan, error) {
	var names []string
	switch {
	case strings.TrimSpace(requested) != "":
		names = []string{requested}
	case cfg != nil && len(cfg.SelectedModes) > 0:
		names = cfg.SelectedModes
	default:
		names = []string{string(All)}
	}

	var plan Plan
	seen := make(map[Mode]bool)
	add := func(m Mode) {
		if !seen[m] {
			seen[m] = true
			plan.Stages = append(plan.Stages, m)
		}
	}

	for _, name := range names {
		m, err := Parse(name)
		if err != nil {
			return Plan{}, err
		}
		switch m {
		case Config:
			plan.Configure = true
		case All:
			for _, s := range allStages {
				add(s)
			}
		default:
			add(m)
		}
	}
	return plan, nil
}
