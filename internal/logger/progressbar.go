package logger

import (
	"fmt"
	"strings"

	"github.com/fatih/color"
)

// ProgressBar shows how many of a run's stages have finished, e.g.
// "[=====     ] 3/6 (50%)".
type ProgressBar struct {
	done  int
	total int
	width int
	color bool
}

// NewProgressBar returns a bar of width cells for total stages. A width
// below one falls back to 10.
func NewProgressBar(total, width int, enableColor bool) *ProgressBar {
	if width < 1 {
		width = 10
	}
	return &ProgressBar{total: total, width: width, color: enableColor}
}

// Update records the number of finished stages.
func (pb *ProgressBar) Update(done int) {
	pb.done = done
}

// Percentage is the finished share clamped to 0..100. An empty run is 0%.
func (pb *ProgressBar) Percentage() int {
	if pb.total <= 0 {
		return 0
	}
	p := pb.done * 100 / pb.total
	switch {
	case p < 0:
		return 0
	case p > 100:
		return 100
	}
	return p
}

// Render draws the bar. With color enabled an unfinished run is cyan and a
// finished one green.
func (pb *ProgressBar) Render() string {
	p := pb.Percentage()
	cells := p * pb.width / 100
	text := fmt.Sprintf("[%-*s] %d/%d (%d%%)", pb.width, strings.Repeat("=", cells), pb.done, pb.total, p)

	switch {
	case !pb.color:
		return text
	case p == 100:
		return color.New(color.FgGreen).Sprint(text)
	default:
		return color.New(color.FgCyan).Sprint(text)
	}
}
