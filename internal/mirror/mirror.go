// Package mirror copies directory trees.
//
// Mirror is used for every tree copy the importer makes: backing up the
// project UI directory, restoring it, and importing freshly generated EEZ
// Studio output into the project.
package mirror

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/harrison/eezsync/internal/seed"
)

// ErrMirrorIOFailed means a file could not be copied. Files copied before
// the failure stay at the destination.
var ErrMirrorIOFailed = errors.New("mirror failed")

// MirrorError reports the file that failed and how many were copied before.
type MirrorError struct {
	Path        string
	FilesCopied int
	Err         error
}

// Error implements the error interface.
func (e *MirrorError) Error() string {
	return fmt.Sprintf("%s at %s after %d file(s): %v", ErrMirrorIOFailed, e.Path, e.FilesCopied, e.Err)
}

// Unwrap returns the underlying error.
func (e *MirrorError) Unwrap() error {
	return e.Err
}

// Is matches ErrMirrorIOFailed.
func (e *MirrorError) Is(target error) bool {
	return target == ErrMirrorIOFailed
}

// Options configures a mirror.
type Options struct {
	// DryRun lists the files that would be copied without writing anything.
	DryRun bool
}

// Result describes a completed mirror.
type Result struct {
	FilesCopied int
	// Files holds the copied paths relative to the source root, in walk order.
	Files []string
}

// Mirror copies every regular file under srcRoot to the same relative path
// under dstRoot, overwriting existing files. dstRoot and any intermediate
// directories are created. File modes and modification times are preserved.
// Files at the destination with no counterpart in the source are left alone.
//
// The context is checked between files.
func Mirror(ctx context.Context, srcRoot, dstRoot string, opts Options) (*Result, error) {
	result := &Result{}

	info, err := os.Stat(srcRoot)
	if err != nil {
		return result, &MirrorError{Path: srcRoot, Err: err}
	}
	if !info.IsDir() {
		return result, &MirrorError{Path: srcRoot, Err: fmt.Errorf("not a directory")}
	}

	if !opts.DryRun {
		if err := os.MkdirAll(dstRoot, 0755); err != nil {
			return result, &MirrorError{Path: dstRoot, Err: err}
		}
	}

	walkErr := filepath.WalkDir(srcRoot, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return &MirrorError{Path: path, FilesCopied: result.FilesCopied, Err: err}
		}
		if err := ctx.Err(); err != nil {
			return &MirrorError{Path: path, FilesCopied: result.FilesCopied, Err: err}
		}

		rel, err := filepath.Rel(srcRoot, path)
		if err != nil {
			return &MirrorError{Path: path, FilesCopied: result.FilesCopied, Err: err}
		}

		if d.IsDir() {
			// Don't descend into the destination when it lives inside the source.
			if rel != "." && sameDir(path, dstRoot) {
				return filepath.SkipDir
			}
			return nil
		}

		if d.Type()&fs.ModeSymlink != 0 {
			target, err := os.Stat(path)
			if err != nil {
				return &MirrorError{Path: path, FilesCopied: result.FilesCopied, Err: err}
			}
			// Directory links are not followed.
			if target.IsDir() {
				return nil
			}
		} else if !d.Type().IsRegular() {
			// Sockets, devices and pipes have no content to copy.
			return nil
		}

		if !opts.DryRun {
			if err := copyPreserving(path, filepath.Join(dstRoot, rel)); err != nil {
				return &MirrorError{Path: path, FilesCopied: result.FilesCopied, Err: err}
			}
		}

		result.FilesCopied++
		result.Files = append(result.Files, rel)
		return nil
	})

	if walkErr != nil {
		return result, walkErr
	}

	return result, nil
}

// copyPreserving copies src to dst and carries over the modification time,
// the way `cp -p` does for content and timestamps.
func copyPreserving(src, dst string) error {
	info, err := os.Stat(src)
	if err != nil {
		return err
	}

	if err := seed.CopyFile(src, dst); err != nil {
		return err
	}

	// CopyFile keeps an existing dst's mode; a mirror takes the source's.
	if err := os.Chmod(dst, info.Mode().Perm()); err != nil {
		return err
	}

	return os.Chtimes(dst, info.ModTime(), info.ModTime())
}

func sameDir(a, b string) bool {
	absA, errA := filepath.Abs(a)
	absB, errB := filepath.Abs(b)
	if errA != nil || errB != nil {
		return false
	}
	return absA == absB
}
