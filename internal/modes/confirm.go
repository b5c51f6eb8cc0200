package modes

import "context"

// Confirmer decides whether a destructive or state-creating step may proceed.
type Confirmer interface {
	Confirm(ctx context.Context, prompt string) (bool, error)
}

// ConfirmFunc adapts a function to Confirmer.
type ConfirmFunc func(ctx context.Context, prompt string) (bool, error)

// Confirm calls f.
func (f ConfirmFunc) Confirm(ctx context.Context, prompt string) (bool, error) {
	return f(ctx, prompt)
}

// AlwaysConfirm approves every prompt.
var AlwaysConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return true, nil })

// NeverConfirm declines every prompt.
var NeverConfirm Confirmer = ConfirmFunc(func(context.Context, string) (bool, error) { return false, nil })
