package watch

import (
	"context"
	"io"
	"log/slog"
	"os"
	"path/filepath"
	"sync/atomic"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

// waitForRun keeps touching path until onChange fires or the deadline passes.
// Touching repeatedly covers the window before watches are registered.
func waitForRun(t *testing.T, runs <-chan struct{}, path string) {
	t.Helper()
	deadline := time.After(5 * time.Second)
	tick := time.NewTicker(50 * time.Millisecond)
	defer tick.Stop()
	for {
		select {
		case <-runs:
			return
		case <-tick.C:
			require.NoError(t, os.WriteFile(path, []byte(time.Now().String()), 0o644))
		case <-deadline:
			t.Fatalf("no run triggered by changes to %s", path)
		}
	}
}

func startWatcher(t *testing.T, root string, opts ...Option) (<-chan struct{}, *atomic.Int32) {
	t.Helper()
	runs := make(chan struct{}, 16)
	var count atomic.Int32
	opts = append(opts, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	w, err := New(root, 20*time.Millisecond, func(context.Context) error {
		count.Add(1)
		select {
		case runs <- struct{}{}:
		default:
		}
		return nil
	}, opts...)
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()
	t.Cleanup(func() {
		cancel()
		require.NoError(t, <-errCh)
	})
	return runs, &count
}

func TestWatcher_TriggersOnWrite(t *testing.T) {
	root := t.TempDir()
	runs, count := startWatcher(t, root)

	waitForRun(t, runs, filepath.Join(root, "index.html"))
	require.GreaterOrEqual(t, count.Load(), int32(1))
}

func TestWatcher_WatchesNewDirectories(t *testing.T) {
	root := t.TempDir()
	runs, _ := startWatcher(t, root)

	waitForRun(t, runs, filepath.Join(root, "first.html"))

	sub := filepath.Join(root, "blog", "post")
	require.NoError(t, os.MkdirAll(sub, 0o755))
	// drain runs caused by directory creation
	time.Sleep(100 * time.Millisecond)
	for len(runs) > 0 {
		<-runs
	}
	waitForRun(t, runs, filepath.Join(sub, "index.html"))
}

func TestWatcher_IgnoredPathsDoNotTrigger(t *testing.T) {
	root := t.TempDir()
	out := filepath.Join(root, "out")
	require.NoError(t, os.MkdirAll(out, 0o755))

	runs, count := startWatcher(t, root, WithIgnore(func(p string) bool {
		return p == out || filepath.Dir(p) == out
	}))
	waitForRun(t, runs, filepath.Join(root, "a.html"))
	time.Sleep(100 * time.Millisecond)
	for len(runs) > 0 {
		<-runs
	}
	before := count.Load()

	require.NoError(t, os.WriteFile(filepath.Join(out, "b.html"), []byte("x"), 0o644))
	require.NoError(t, os.WriteFile(filepath.Join(root, ".sitefilter-123"), []byte("x"), 0o644))
	time.Sleep(200 * time.Millisecond)
	require.Equal(t, before, count.Load())
}

func TestWatcher_RunStopsLoopWhenEventsClose(t *testing.T) {
	root := t.TempDir()
	runs := make(chan struct{}, 16)
	var count atomic.Int32
	w, err := New(root, 10*time.Millisecond, func(context.Context) error {
		count.Add(1)
		select {
		case runs <- struct{}{}:
		default:
		}
		return nil
	}, WithLogger(slog.New(slog.NewTextHandler(io.Discard, nil))))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	errCh := make(chan error, 1)
	go func() { errCh <- w.Run(ctx) }()

	waitForRun(t, runs, filepath.Join(root, "index.html"))
	require.NoError(t, w.watcher.Close())

	select {
	case err := <-errCh:
		require.NoError(t, err)
	case <-time.After(2 * time.Second):
		t.Fatal("Run did not return after the event stream closed")
	}

	// the debounce loop has exited, so a pending trigger is never served
	before := count.Load()
	select {
	case w.trigger <- struct{}{}:
	default:
	}
	time.Sleep(100 * time.Millisecond)
	require.Equal(t, before, count.Load())
}
