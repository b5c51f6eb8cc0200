// Package display renders user-facing terminal output that is not part of
// the run log: warnings, numbered option menus for the interactive config
// command, and success confirmations.
//
// Color is applied only when the writer is a terminal (checked with
// go-isatty) and NO_COLOR is unset, so output captured by tests or piped to
// a file stays plain:
//
//	display.Warning{
//	    Title:      "ui.h not found",
//	    Message:    "The directory does not look like EEZ Studio output",
//	    Files:      []string{"./src/ui"},
//	    Suggestion: "Check the project's build output path",
//	}.Display(os.Stderr)
//
//	display.Menu{Title: "Available modes", Items: names, ZeroItem: "all"}.Display(os.Stdout)
package display
