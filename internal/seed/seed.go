// Package seed creates project files from templates when they are missing.
package seed

import (
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/harrison/eezsync/internal/filelock"
)

// ErrTemplateUnavailable is returned when the target is missing and the
// template to seed it from does not exist either.
var ErrTemplateUnavailable = errors.New("template unavailable")

// Outcome describes what EnsureFromTemplate did.
type Outcome int

const (
	// Existing means the target was already present and left untouched.
	Existing Outcome = iota
	// Seeded means the target was created as a copy of the template.
	Seeded
)

// String returns a short label for the outcome.
func (o Outcome) String() string {
	switch o {
	case Existing:
		return "existing"
	case Seeded:
		return "seeded"
	default:
		return "unknown"
	}
}

// TemplateError reports a missing or unreadable template.
type TemplateError struct {
	Template string
	Target   string
	Err      error
}

// Error implements the error interface.
func (e *TemplateError) Error() string {
	return fmt.Sprintf("cannot seed %s from template %s: %v", e.Target, e.Template, e.Err)
}

// Unwrap returns the underlying error.
func (e *TemplateError) Unwrap() error {
	return e.Err
}

// Is matches ErrTemplateUnavailable when the template does not exist.
func (e *TemplateError) Is(target error) bool {
	return target == ErrTemplateUnavailable && errors.Is(e.Err, fs.ErrNotExist)
}

// EnsureFromTemplate copies template to target if target does not exist.
// An existing target is never modified. The copy keeps the template's bytes
// and permission bits.
func EnsureFromTemplate(target, template string) (Outcome, error) {
	if _, err := os.Stat(target); err == nil {
		return Existing, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Existing, fmt.Errorf("stat %s: %w", target, err)
	}

	if template == "" {
		return Existing, &TemplateError{Template: template, Target: target, Err: fs.ErrNotExist}
	}

	if err := CopyFile(template, target); err != nil {
		var pathErr *fs.PathError
		if errors.As(err, &pathErr) && pathErr.Path == template {
			return Existing, &TemplateError{Template: template, Target: target, Err: err}
		}
		return Existing, err
	}

	return Seeded, nil
}

// Check reports what EnsureFromTemplate would do without touching the
// filesystem: Existing, Seeded, or a *TemplateError for a missing template.
func Check(target, template string) (Outcome, error) {
	if _, err := os.Stat(target); err == nil {
		return Existing, nil
	} else if !errors.Is(err, fs.ErrNotExist) {
		return Existing, fmt.Errorf("stat %s: %w", target, err)
	}

	if template == "" {
		return Existing, &TemplateError{Template: template, Target: target, Err: fs.ErrNotExist}
	}
	if _, err := os.Stat(template); err != nil {
		return Existing, &TemplateError{Template: template, Target: target, Err: err}
	}
	return Seeded, nil
}

// CopyFile copies src to dst byte for byte, creating dst's parent directory.
// dst is replaced in one rename, so a failed copy never leaves an empty or
// partial dst behind. A new dst gets src's permission bits. Errors reading src
// are returned unwrapped so callers can inspect the *fs.PathError.
func CopyFile(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}
	data, err := os.ReadFile(src)
	if err != nil {
		return err
	}

	if err := filelock.AtomicWrite(dst, data, info.Mode().Perm()); err != nil {
		return fmt.Errorf("copy %s to %s: %w", src, dst, err)
	}
	return nil
}
