package cmd

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
)

// errInputClosed is returned when stdin ends while a value is required.
var errInputClosed = errors.New("input closed")

// prompter reads answers line by line from the command's stdin. A single
// prompter is shared per invocation so buffered input is not lost between
// questions.
type prompter struct {
	in  *bufio.Reader
	out io.Writer
}

func newPrompter(in io.Reader, out io.Writer) *prompter {
	return &prompter{in: bufio.NewReader(in), out: out}
}

// Ask prints question and returns the trimmed answer. io.EOF with no
// pending text yields errInputClosed.
func (p *prompter) Ask(question string) (string, error) {
	fmt.Fprint(p.out, question)
	line, err := p.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimSpace(line), nil
		}
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(p.out)
			return "", errInputClosed
		}
		return "", fmt.Errorf("read answer: %w", err)
	}
	return strings.TrimSpace(line), nil
}

// Confirm implements modes.Confirmer. Only "y" and "yes" approve; closed
// input declines.
func (p *prompter) Confirm(ctx context.Context, prompt string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}
	answer, err := p.Ask(prompt + " [y/N]: ")
	if errors.Is(err, errInputClosed) {
		return false, nil
	}
	if err != nil {
		return false, err
	}
	switch strings.ToLower(answer) {
	case "y", "yes":
		return true, nil
	default:
		return false, nil
	}
}
