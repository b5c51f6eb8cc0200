// Package filelock serializes eezsync runs and writes files without ever
// exposing a half-written file to EEZ Studio or the ESP-IDF build.
package filelock

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"

	"github.com/gofrs/flock"
)

// ErrLocked is returned by AcquireRunLock when another process holds the lock.
var ErrLocked = errors.New("lock held by another process")

// FileLock is an advisory lock on a lock file.
type FileLock struct {
	fl   *flock.Flock
	path string
}

// NewFileLock returns an unlocked FileLock for path. The file is created on
// the first lock attempt.
func NewFileLock(path string) *FileLock {
	return &FileLock{fl: flock.New(path), path: path}
}

// Path returns the lock file path.
func (l *FileLock) Path() string {
	return l.path
}

// Lock blocks until the lock is held.
func (l *FileLock) Lock() error {
	if err := l.fl.Lock(); err != nil {
		return fmt.Errorf("lock %s: %w", l.path, err)
	}
	return nil
}

// TryLock takes the lock if it is free and reports whether it did.
func (l *FileLock) TryLock() (bool, error) {
	ok, err := l.fl.TryLock()
	if err != nil {
		return false, fmt.Errorf("try lock %s: %w", l.path, err)
	}
	return ok, nil
}

// Unlock releases the lock.
func (l *FileLock) Unlock() error {
	if err := l.fl.Unlock(); err != nil {
		return fmt.Errorf("unlock %s: %w", l.path, err)
	}
	return nil
}

// AcquireRunLock takes the per-project run lock without waiting. The parent
// directory is created if needed. If another eezsync process holds the lock
// the returned error wraps ErrLocked.
func AcquireRunLock(path string) (*FileLock, error) {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return nil, fmt.Errorf("create run lock directory: %w", err)
	}

	l := NewFileLock(path)
	switch ok, err := l.TryLock(); {
	case err != nil:
		return nil, err
	case !ok:
		return nil, fmt.Errorf("%s: %w", path, ErrLocked)
	}
	return l, nil
}

// AtomicWrite replaces path with data by writing a sibling temp file and
// renaming it over path. An existing file keeps its permission bits; a new
// file gets perm. On error path is left as it was and the temp file is removed.
func AtomicWrite(path string, data []byte, perm fs.FileMode) (err error) {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("create %s: %w", dir, err)
	}
	if info, statErr := os.Stat(path); statErr == nil {
		perm = info.Mode().Perm()
	}

	tmp, err := os.CreateTemp(dir, "."+filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file for %s: %w", path, err)
	}
	renamed := false
	defer func() {
		if !renamed {
			tmp.Close()
			os.Remove(tmp.Name())
		}
	}()

	if _, err := tmp.Write(data); err != nil {
		return fmt.Errorf("write %s: %w", tmp.Name(), err)
	}
	if err := tmp.Sync(); err != nil {
		return fmt.Errorf("sync %s: %w", tmp.Name(), err)
	}
	if err := tmp.Chmod(perm); err != nil {
		return fmt.Errorf("chmod %s: %w", tmp.Name(), err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close %s: %w", tmp.Name(), err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("replace %s: %w", path, err)
	}
	renamed = true
	return nil
}

// LockAndWrite writes path atomically while holding path+".lock", so two
// processes saving the same config cannot interleave.
func LockAndWrite(path string, data []byte) error {
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return fmt.Errorf("create %s: %w", filepath.Dir(path), err)
	}

	l := NewFileLock(path + ".lock")
	if err := l.Lock(); err != nil {
		return err
	}
	defer l.Unlock()

	return AtomicWrite(path, data, 0644)
}
