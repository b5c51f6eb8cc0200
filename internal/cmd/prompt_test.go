package cmd

import (
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestPrompterConfirm(t *testing.T) {
	tests := []struct {
		input string
		want  bool
	}{
		{"y\n", true},
		{"YES\n", true},
		{"  yes  \n", true},
		{"n\n", false},
		{"\n", false},
		{"sure\n", false},
		{"y", true},
		{"", false},
	}
	for _, tt := range tests {
		t.Run(strings.TrimSpace(tt.input), func(t *testing.T) {
			out := new(bytes.Buffer)
			p := newPrompter(strings.NewReader(tt.input), out)

			got, err := p.Confirm(context.Background(), "Delete?")
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			assert.Contains(t, out.String(), "Delete? [y/N]: ")
		})
	}
}

func TestPrompterSharesBufferedInput(t *testing.T) {
	p := newPrompter(strings.NewReader("first\nsecond\n"), new(bytes.Buffer))

	a, err := p.Ask("1: ")
	require.NoError(t, err)
	b, err := p.Ask("2: ")
	require.NoError(t, err)

	assert.Equal(t, "first", a)
	assert.Equal(t, "second", b)

	_, err = p.Ask("3: ")
	assert.ErrorIs(t, err, errInputClosed)
}

func TestPrompterConfirmCanceled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	p := newPrompter(strings.NewReader("y\n"), new(bytes.Buffer))
	_, err := p.Confirm(ctx, "Delete?")
	assert.ErrorIs(t, err, context.Canceled)
}
