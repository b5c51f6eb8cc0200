package logger

import (
	"github.com/fatih/color"

	"github.com/harrison/eezsync/internal/models"
)

// colorScheme defines consistent colors for levels and stage statuses.
type colorScheme struct {
	success *color.Color
	fail    *color.Color
	warn    *color.Color
	label   *color.Color
	muted   *color.Color
}

func newColorScheme() *colorScheme {
	return &colorScheme{
		success: color.New(color.FgGreen),
		fail:    color.New(color.FgRed),
		warn:    color.New(color.FgYellow),
		label:   color.New(color.FgBlue),
		muted:   color.New(color.FgHiBlack),
	}
}

// level returns the color for a log level label.
func (s *colorScheme) level(level string) *color.Color {
	switch level {
	case "TRACE":
		return s.muted
	case "DEBUG":
		return color.New(color.FgCyan)
	case "WARN":
		return s.warn
	case "ERROR":
		return s.fail
	default:
		return s.label
	}
}

// status returns the color for a stage status.
func (s *colorScheme) status(status string) *color.Color {
	switch status {
	case models.StatusOK:
		return s.success
	case models.StatusWarning:
		return s.warn
	case models.StatusFailed:
		return s.fail
	default:
		return s.muted
	}
}
