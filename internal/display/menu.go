package display

import (
	"fmt"
	"io"

	"github.com/fatih/color"
)

// Menu is a numbered list of choices. ZeroItem, when set, is listed as
// option 0 and Items are numbered from 1.
type Menu struct {
	Title    string
	ZeroItem string
	Items    []string
}

// Display writes the menu.
func (m Menu) Display(out io.Writer) {
	if m.Title != "" {
		fmt.Fprintln(out, paint(out, color.New(color.FgCyan, color.Bold), m.Title+":"))
	}
	if m.ZeroItem != "" {
		fmt.Fprintf(out, "  [0] %s\n", m.ZeroItem)
	}
	for i, item := range m.Items {
		fmt.Fprintf(out, "  [%d] %s\n", i+1, item)
	}
}

// Choice maps a 1-based menu number to its item. 0 maps to ZeroItem.
func (m Menu) Choice(n int) (string, bool) {
	if n == 0 && m.ZeroItem != "" {
		return m.ZeroItem, true
	}
	if n < 1 || n > len(m.Items) {
		return "", false
	}
	return m.Items[n-1], true
}
