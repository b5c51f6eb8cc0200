package watch

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/goleak"
)

func TestMain(m *testing.M) {
	goleak.VerifyTestMain(m)
}

const testDebounce = 50 * time.Millisecond

func startWatcher(t *testing.T, paths []string, handle Handler) (context.CancelFunc, <-chan error) {
	t.Helper()
	w, err := New(paths, Options{Debounce: testDebounce})
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	finished := make(chan struct{})
	go func() {
		done <- w.Run(ctx, handle)
		close(finished)
	}()
	t.Cleanup(func() {
		cancel()
		<-finished
	})
	return cancel, done
}

func TestWatcherCoalescesWrites(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "actions.h")
	require.NoError(t, os.WriteFile(header, []byte("extern void action_a();\n"), 0644))

	calls := make(chan string, 10)
	cancel, done := startWatcher(t, []string{header}, func(ctx context.Context, path string) error {
		calls <- path
		return nil
	})

	for i := 0; i < 3; i++ {
		require.NoError(t, os.WriteFile(header, []byte("extern void action_b();\n"), 0644))
	}

	select {
	case got := <-calls:
		assert.Equal(t, header, got)
	case <-time.After(3 * time.Second):
		t.Fatal("handler not called")
	}

	// burst within the debounce window yields a single call
	select {
	case extra := <-calls:
		t.Fatalf("unexpected second call for %s", extra)
	case <-time.After(4 * testDebounce):
	}

	cancel()
	assert.ErrorIs(t, <-done, context.Canceled)
}

func TestWatcherIgnoresOtherFiles(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "actions.h")
	require.NoError(t, os.WriteFile(header, nil, 0644))

	var calls atomic.Int32
	startWatcher(t, []string{header}, func(ctx context.Context, path string) error {
		calls.Add(1)
		return nil
	})

	require.NoError(t, os.WriteFile(filepath.Join(dir, "ui.h"), []byte("x"), 0644))
	time.Sleep(6 * testDebounce)
	assert.Equal(t, int32(0), calls.Load())
}

func TestWatcherSeesRenameOnSave(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "actions.h")
	require.NoError(t, os.WriteFile(header, nil, 0644))

	calls := make(chan string, 10)
	startWatcher(t, []string{header}, func(ctx context.Context, path string) error {
		calls <- path
		return nil
	})

	tmp := filepath.Join(dir, ".actions.h.swp")
	require.NoError(t, os.WriteFile(tmp, []byte("extern void action_c();\n"), 0644))
	require.NoError(t, os.Rename(tmp, header))

	select {
	case got := <-calls:
		assert.Equal(t, header, got)
	case <-time.After(3 * time.Second):
		t.Fatal("handler not called after rename")
	}
}

func TestWatcherHandlerErrorStopsRun(t *testing.T) {
	dir := t.TempDir()
	header := filepath.Join(dir, "actions.h")
	require.NoError(t, os.WriteFile(header, nil, 0644))

	boom := errors.New("boom")
	_, done := startWatcher(t, []string{header}, func(ctx context.Context, path string) error {
		return boom
	})

	require.NoError(t, os.WriteFile(header, []byte("x"), 0644))

	select {
	case err := <-done:
		assert.ErrorIs(t, err, boom)
	case <-time.After(3 * time.Second):
		t.Fatal("Run did not return")
	}
}

func TestNewErrors(t *testing.T) {
	_, err := New(nil, Options{})
	assert.Error(t, err)

	_, err = New([]string{filepath.Join(t.TempDir(), "missing", "actions.h")}, Options{})
	assert.Error(t, err)
}

func TestFilesAndClose(t *testing.T) {
	dir := t.TempDir()
	w, err := New([]string{filepath.Join(dir, "b.h"), filepath.Join(dir, "a.h")}, Options{})
	require.NoError(t, err)

	assert.Equal(t, []string{filepath.Join(dir, "a.h"), filepath.Join(dir, "b.h")}, w.Files())
	assert.NoError(t, w.Close())
	assert.NoError(t, w.Close())
}
