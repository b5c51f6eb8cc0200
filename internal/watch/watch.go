// Package watch re-runs work when watched files change on disk.
package watch

import (
	"context"
	"fmt"
	"path/filepath"
	"sort"
	"sync"
	"time"

	"github.com/fsnotify/fsnotify"
)

// DefaultDebounceDelay coalesces the burst of events an editor save produces.
const DefaultDebounceDelay = 100 * time.Millisecond

// Handler is called once per changed file after the debounce delay.
// Returning an error stops the watcher.
type Handler func(ctx context.Context, path string) error

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	// OnError receives fsnotify errors; nil drops them.
	OnError func(error)
}

// Watcher watches individual files by watching their parent directories,
// so files replaced through rename-on-save keep being observed.
type Watcher struct {
	watcher   *fsnotify.Watcher
	files     map[string]struct{}
	opts      Options
	closeOnce sync.Once
}

// New watches the given files. Each parent directory must exist.
func New(paths []string, opts Options) (*Watcher, error) {
	if len(paths) == 0 {
		return nil, fmt.Errorf("no files to watch")
	}
	if opts.Debounce <= 0 {
		opts.Debounce = DefaultDebounceDelay
	}

	fw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}

	w := &Watcher{
		watcher: fw,
		files:   make(map[string]struct{}),
		opts:    opts,
	}

	dirs := make(map[string]struct{})
	for _, p := range paths {
		abs, err := filepath.Abs(p)
		if err != nil {
			fw.Close()
			return nil, fmt.Errorf("resolve %s: %w", p, err)
		}
		w.files[abs] = struct{}{}
		dirs[filepath.Dir(abs)] = struct{}{}
	}
	for dir := range dirs {
		if err := fw.Add(dir); err != nil {
			fw.Close()
			return nil, fmt.Errorf("watch %s: %w", dir, err)
		}
	}

	return w, nil
}

// Files returns the watched file paths, sorted.
func (w *Watcher) Files() []string {
	files := make([]string, 0, len(w.files))
	for f := range w.files {
		files = append(files, f)
	}
	sort.Strings(files)
	return files
}

// Close stops the watcher. It is safe to call more than once.
func (w *Watcher) Close() error {
	var err error
	w.closeOnce.Do(func() { err = w.watcher.Close() })
	return err
}

// Run delivers debounced changes to handle until ctx is done, the handler
// fails, or the watcher is closed. Handlers run on the calling goroutine,
// one at a time. Run closes the watcher before returning.
func (w *Watcher) Run(ctx context.Context, handle Handler) error {
	defer w.Close()

	var timer *time.Timer
	var fire <-chan time.Time
	pending := make(map[string]struct{})

	for {
		select {
		case <-ctx.Done():
			if timer != nil {
				timer.Stop()
			}
			return ctx.Err()

		case event, ok := <-w.watcher.Events:
			if !ok {
				return nil
			}
			if !w.relevant(event) {
				continue
			}
			pending[filepath.Clean(event.Name)] = struct{}{}
			if timer != nil {
				timer.Stop()
			}
			timer = time.NewTimer(w.opts.Debounce)
			fire = timer.C

		case err, ok := <-w.watcher.Errors:
			if !ok {
				return nil
			}
			if w.opts.OnError != nil {
				w.opts.OnError(err)
			}

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			pending = make(map[string]struct{})

			for _, p := range paths {
				if err := handle(ctx, p); err != nil {
					return err
				}
			}
		}
	}
}

// relevant reports whether event creates or writes one of the watched files.
func (w *Watcher) relevant(event fsnotify.Event) bool {
	if !event.Has(fsnotify.Create) && !event.Has(fsnotify.Write) {
		return false
	}
	abs, err := filepath.Abs(event.Name)
	if err != nil {
		return false
	}
	_, ok := w.files[abs]
	return ok
}
