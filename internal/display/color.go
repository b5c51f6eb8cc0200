package display

import (
	"io"
	"os"

	"github.com/fatih/color"
	"github.com/mattn/go-isatty"
)

// ColorEnabled reports whether w is a color-capable terminal.
func ColorEnabled(w io.Writer) bool {
	if color.NoColor {
		return false
	}
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

// paint returns c.Sprint when w supports color, else the plain text.
func paint(w io.Writer, c *color.Color, s string) string {
	if !ColorEnabled(w) {
		return s
	}
	c.EnableColor()
	return c.Sprint(s)
}
