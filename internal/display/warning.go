package display

import (
	"fmt"
	"io"
	"strings"

	"github.com/fatih/color"
)

// Warning represents a user-facing warning message
type Warning struct {
	Title      string   // Main warning title
	Message    string   // Detailed explanation (optional)
	Files      []string // Related paths (optional)
	Suggestion string   // Action to take (optional)
}

// Display writes the warning, in yellow on a terminal.
func (w Warning) Display(out io.Writer) {
	var b strings.Builder

	b.WriteString("WARNING: ")
	b.WriteString(w.Title)
	b.WriteString("\n")

	if w.Message != "" {
		b.WriteString("    ")
		b.WriteString(w.Message)
		b.WriteString("\n")
	}

	if len(w.Files) > 0 {
		b.WriteString("    ")
		if len(w.Files) == 1 {
			b.WriteString("Affected path:\n")
		} else {
			b.WriteString("Affected paths:\n")
		}
		for i, file := range w.Files {
			fmt.Fprintf(&b, "      %d. %s\n", i+1, file)
		}
	}

	if w.Suggestion != "" {
		b.WriteString("    Suggestion:\n")
		b.WriteString("    ")
		b.WriteString(w.Suggestion)
		b.WriteString("\n")
	}

	fmt.Fprint(out, paint(out, color.New(color.FgYellow), b.String()))
}

// WarnMissingUIHeader builds the warning shown when a source directory has
// no generated ui.h.
func WarnMissingUIHeader(dir string) Warning {
	return Warning{
		Title:      "source directory does not contain a 'ui.h' file",
		Files:      []string{dir},
		Suggestion: "Point the source directory at the EEZ Studio 'src/ui' output",
	}
}

// Success writes a green check line.
func Success(out io.Writer, format string, args ...interface{}) {
	mark := paint(out, color.New(color.FgGreen), "✓")
	fmt.Fprintf(out, "%s %s\n", mark, fmt.Sprintf(format, args...))
}
