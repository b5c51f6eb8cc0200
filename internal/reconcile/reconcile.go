// Package reconcile appends stub implementations for declared actions that
// have no definition yet.
//
// A reconciliation pass reads the declarations source (actions.h), scans the
// definitions sink (actions.c) and appends one stub per declared name the
// sink does not define, in declaration order. Existing sink content is never
// rewritten, and every appended stub is recognized as a definition on the next
// pass, so running the pass again appends nothing.
package reconcile

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"os"

	"github.com/harrison/eezsync/internal/decl"
	"github.com/harrison/eezsync/internal/seed"
)

// Options configures a reconciliation pass.
type Options struct {
	// TemplatePath seeds the sink when it does not exist yet. Optional.
	TemplatePath string

	// DryRun computes the result without creating or appending to the sink.
	// A missing sink is evaluated as if it had been seeded from the template.
	DryRun bool
}

// Result describes one reconciliation pass.
type Result struct {
	SinkPath string

	// Declared holds each declared name once, in order of first appearance.
	Declared []string
	// Created holds the names a stub was appended for, in append order.
	Created []string
	// Skipped holds the declared names the sink already defined.
	Skipped []string

	// Seeded is set when the sink was created from the template.
	Seeded bool
	// TemplateMissing is set when the sink was created empty because no
	// template was available.
	TemplateMissing bool
	// Unbalanced is set when the sink has an unclosed brace or block comment.
	// Definitions were then matched at any depth.
	Unbalanced bool
}

// Warning returns the non-fatal conditions of the pass, or nil.
func (r *Result) Warning() error {
	var warnings []error
	if r.TemplateMissing {
		warnings = append(warnings, fmt.Errorf("%w: %s created empty", ErrSinkSeedUnavailable, r.SinkPath))
	}
	if r.Unbalanced {
		warnings = append(warnings, fmt.Errorf("%w: %s", ErrSinkUnbalanced, r.SinkPath))
	}
	return errors.Join(warnings...)
}

// ReconcileFile reads the declarations source at declPath and reconciles it
// into sinkPath. A missing or unreadable source yields a *SourceError and
// leaves the sink untouched.
func ReconcileFile(declPath, sinkPath string, opts Options) (*Result, error) {
	decls, err := decl.ExtractFile(declPath)
	if err != nil {
		return nil, &SourceError{Path: declPath, Err: err}
	}
	return reconcile(decls, sinkPath, opts)
}

// Reconcile appends a stub to sinkPath for every function declared in
// declarationsText that the sink does not define.
//
// The sink is seeded first (from opts.TemplatePath, or empty) and scanned
// afterwards, so names the template already implements are skipped.
func Reconcile(declarationsText, sinkPath string, opts Options) (*Result, error) {
	return reconcile(decl.Extract(declarationsText), sinkPath, opts)
}

func reconcile(decls []decl.Declaration, sinkPath string, opts Options) (*Result, error) {
	result := &Result{SinkPath: sinkPath}

	sinkText, err := prepareSink(sinkPath, opts, result)
	if err != nil {
		return result, err
	}

	implemented := decl.ImplementedNames(sinkText)
	result.Unbalanced = !decl.Balanced(sinkText)

	var pending []decl.Declaration
	seen := make(map[string]bool, len(decls))
	for _, d := range decls {
		if seen[d.Name] {
			continue
		}
		seen[d.Name] = true
		result.Declared = append(result.Declared, d.Name)

		if _, ok := implemented[d.Name]; ok {
			result.Skipped = append(result.Skipped, d.Name)
			continue
		}
		pending = append(pending, d)
	}

	if opts.DryRun {
		for _, d := range pending {
			result.Created = append(result.Created, d.Name)
		}
		return result, nil
	}

	return result, appendStubs(sinkPath, pending, result)
}

// prepareSink makes sure the sink exists and returns its current content.
func prepareSink(sinkPath string, opts Options, result *Result) (string, error) {
	data, err := os.ReadFile(sinkPath)
	if err == nil {
		return string(data), nil
	}
	if !errors.Is(err, fs.ErrNotExist) {
		return "", &SinkWriteError{Path: sinkPath, Err: err}
	}

	if opts.DryRun {
		if opts.TemplatePath != "" {
			if tmpl, err := os.ReadFile(opts.TemplatePath); err == nil {
				result.Seeded = true
				return string(tmpl), nil
			}
		}
		result.TemplateMissing = true
		return "", nil
	}

	if opts.TemplatePath != "" {
		_, err := seed.EnsureFromTemplate(sinkPath, opts.TemplatePath)
		switch {
		case err == nil:
			result.Seeded = true
		case errors.Is(err, seed.ErrTemplateUnavailable):
			result.TemplateMissing = true
		default:
			return "", &SinkWriteError{Path: sinkPath, Err: err}
		}
	} else {
		result.TemplateMissing = true
	}

	if result.TemplateMissing {
		f, err := os.OpenFile(sinkPath, os.O_CREATE|os.O_WRONLY, 0644)
		if err != nil {
			return "", &SinkWriteError{Path: sinkPath, Err: err}
		}
		if err := f.Close(); err != nil {
			return "", &SinkWriteError{Path: sinkPath, Err: err}
		}
	}

	// Scan what is on disk now, not what was there before seeding.
	data, err = os.ReadFile(sinkPath)
	if err != nil {
		return "", &SinkWriteError{Path: sinkPath, Err: err}
	}
	return string(data), nil
}

// appendStubs writes one stub per pending declaration to the end of the sink.
// Stubs written before a failure stay in the file and in result.Created.
func appendStubs(sinkPath string, pending []decl.Declaration, result *Result) error {
	if len(pending) == 0 {
		return nil
	}

	f, err := os.OpenFile(sinkPath, os.O_APPEND|os.O_WRONLY, 0)
	if err != nil {
		return &SinkWriteError{Path: sinkPath, Missing: declNames(pending), Err: err}
	}

	if err := writeStubs(f, sinkPath, pending, result); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return &SinkWriteError{Path: sinkPath, Appended: append([]string(nil), result.Created...), Err: err}
	}

	return nil
}

// writeStubs renders pending to w in order. On a failed write the error
// splits the names into those already written and those still missing.
func writeStubs(w io.Writer, sinkPath string, pending []decl.Declaration, result *Result) error {
	for i, d := range pending {
		if _, err := io.WriteString(w, RenderStub(d)); err != nil {
			return &SinkWriteError{
				Path:     sinkPath,
				Appended: append([]string(nil), result.Created...),
				Missing:  declNames(pending[i:]),
				Err:      err,
			}
		}
		result.Created = append(result.Created, d.Name)
	}
	return nil
}

func declNames(decls []decl.Declaration) []string {
	names := make([]string, 0, len(decls))
	for _, d := range decls {
		names = append(names, d.Name)
	}
	return names
}
