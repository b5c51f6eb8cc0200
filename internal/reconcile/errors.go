package reconcile

import (
	"errors"
	"fmt"
	"strings"
)

var (
	// ErrSourceUnavailable means the declarations source could not be read.
	// The pass is aborted before anything is written.
	ErrSourceUnavailable = errors.New("declarations source unavailable")

	// ErrSinkSeedUnavailable means the sink did not exist and no template
	// was available to seed it. It is reported as a warning in Result, the
	// pass continues from an empty sink.
	ErrSinkSeedUnavailable = errors.New("sink template unavailable")

	// ErrSinkUnbalanced means the sink has an unclosed brace or block
	// comment. It is reported as a warning in Result; definitions are
	// matched at any depth so stubs already appended are still found.
	ErrSinkUnbalanced = errors.New("sink has unbalanced braces or comments")

	// ErrSinkWriteFailed means creating or appending to the sink failed.
	ErrSinkWriteFailed = errors.New("sink write failed")
)

// SourceError reports an unreadable declarations source.
type SourceError struct {
	Path string
	Err  error
}

// Error implements the error interface.
func (e *SourceError) Error() string {
	return fmt.Sprintf("%s: %s: %v", ErrSourceUnavailable, e.Path, e.Err)
}

// Unwrap returns the underlying I/O error.
func (e *SourceError) Unwrap() error {
	return e.Err
}

// Is matches ErrSourceUnavailable.
func (e *SourceError) Is(target error) bool {
	return target == ErrSourceUnavailable
}

// SinkWriteError reports a failed write to the sink. Appended lists the
// stubs that reached the file before the failure; they are picked up as
// implemented on the next pass. Missing lists the stubs still to be written.
type SinkWriteError struct {
	Path     string
	Appended []string
	Missing  []string
	Err      error
}

// Error implements the error interface.
func (e *SinkWriteError) Error() string {
	var sb strings.Builder
	sb.WriteString(fmt.Sprintf("%s: %s: %v", ErrSinkWriteFailed, e.Path, e.Err))
	if len(e.Appended) > 0 {
		sb.WriteString(fmt.Sprintf(" (appended: %s)", strings.Join(e.Appended, ", ")))
	}
	if len(e.Missing) > 0 {
		sb.WriteString(fmt.Sprintf(" (still missing: %s)", strings.Join(e.Missing, ", ")))
	}
	return sb.String()
}

// Unwrap returns the underlying I/O error.
func (e *SinkWriteError) Unwrap() error {
	return e.Err
}

// Is matches ErrSinkWriteFailed.
func (e *SinkWriteError) Is(target error) bool {
	return target == ErrSinkWriteFailed
}

// IsSourceUnavailable checks if the error is or wraps a SourceError.
func IsSourceUnavailable(err error) bool {
	return errors.Is(err, ErrSourceUnavailable)
}
