// Package patch rewrites include paths across the generated UI sources.
package patch

import (
	"bytes"
	"errors"
	"fmt"
	"os"

	"github.com/harrison/eezsync/internal/filelock"
	"github.com/harrison/eezsync/internal/fileutil"
)

// ErrEmptyFind is returned when the search text is empty.
var ErrEmptyFind = errors.New("find text must not be empty")

// DefaultExtensions are the C/C++ source and header suffixes patched when
// Options.Extensions is empty.
var DefaultExtensions = []string{".h", ".c", ".cpp", ".hpp"}

// Options narrows the set of candidate files.
type Options struct {
	Extensions  []string
	Include     []string
	ExcludeDirs []string
	DryRun      bool
}

// Result summarizes a patch pass. Changed holds paths relative to the root.
type Result struct {
	FilesScanned int
	FilesChanged int
	Changed      []string
}

// PatchAll replaces every literal occurrence of find with replace in each
// candidate file below root. Files without a match are left untouched.
func PatchAll(root, find, replace string, opts Options) (*Result, error) {
	if find == "" {
		return nil, ErrEmptyFind
	}

	exts := opts.Extensions
	if len(exts) == 0 {
		exts = DefaultExtensions
	}

	scan, err := fileutil.ScanDirectory(root, fileutil.ScanOptions{
		Include:     opts.Include,
		Extensions:  exts,
		Recursive:   true,
		ExcludeDirs: opts.ExcludeDirs,
	})
	if err != nil {
		return nil, fmt.Errorf("scan %s: %w", root, err)
	}
	if len(scan.Errors) > 0 {
		return nil, fmt.Errorf("scan %s: %w", root, errors.Join(scan.Errors...))
	}

	result := &Result{Changed: make([]string, 0)}
	old, repl := []byte(find), []byte(replace)

	for i, path := range scan.Files {
		result.FilesScanned++

		data, err := os.ReadFile(path)
		if err != nil {
			return result, fmt.Errorf("read %s: %w", path, err)
		}
		if !bytes.Contains(data, old) {
			continue
		}

		if !opts.DryRun {
			if err := filelock.AtomicWrite(path, bytes.ReplaceAll(data, old, repl), 0644); err != nil {
				return result, fmt.Errorf("write %s: %w", path, err)
			}
		}
		result.FilesChanged++
		result.Changed = append(result.Changed, scan.Rel[i])
	}

	return result, nil
}
