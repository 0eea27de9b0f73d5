package watcher_test

import (
	"context"
	"errors"
	"log/slog"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/absmach/gridfl/pkg/fl"
	"github.com/absmach/gridfl/pkg/watcher"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const timeout = 5 * time.Second

func start(t *testing.T, root string) watcher.Watcher {
	t.Helper()

	w, err := watcher.New(root, slog.New(slog.DiscardHandler))
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() {
		done <- w.Run(ctx)
	}()
	t.Cleanup(func() {
		cancel()
		assert.NoError(t, <-done)
		assert.NoError(t, w.Close())
	})

	return w
}

func next(t *testing.T, w watcher.Watcher) string {
	t.Helper()

	select {
	case path := <-w.Events():
		return path
	case <-time.After(timeout):
		require.FailNow(t, "no event received")

		return ""
	}
}

func TestWatcherReportsCreatedFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := start(t, root)

	path := filepath.Join(root, "validator_weights_round_1.json")
	require.NoError(t, os.WriteFile(path, []byte("[]"), 0o644))
	assert.Equal(t, path, next(t, w))
}

func TestWatcherFollowsNewDirectories(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := start(t, root)

	path := filepath.Join(root, "participant_3", "weights_round_0.json")
	require.NoError(t, fl.WriteFileAtomic(path, []byte("[]")))
	assert.Equal(t, path, next(t, w))

	second := filepath.Join(root, "participant_3", "weights_round_1.json")
	require.NoError(t, fl.WriteFileAtomic(second, []byte("[]")))
	assert.Equal(t, second, next(t, w))
}

func TestWatcherIgnoresHiddenFiles(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	w := start(t, root)

	require.NoError(t, os.WriteFile(filepath.Join(root, ".weights_round_0.json.tmp"), []byte("[["), 0o644))
	visible := filepath.Join(root, "weights_round_0.json")
	require.NoError(t, os.WriteFile(visible, []byte("[]"), 0o644))

	assert.Equal(t, visible, next(t, w))
}

func TestWatcherDeliversAtomicPublishesComplete(t *testing.T) {
	t.Parallel()

	root := t.TempDir()
	dir := filepath.Join(root, "participant_1")
	require.NoError(t, os.MkdirAll(dir, 0o755))
	w := start(t, root)

	data := make([]byte, 1<<20)
	for i := range data {
		data[i] = '7'
	}
	path := filepath.Join(dir, "weights_round_0.json")
	require.NoError(t, fl.WriteFileAtomic(path, data))

	assert.Equal(t, path, next(t, w))
	got, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Len(t, got, len(data))

	select {
	case extra := <-w.Events():
		assert.Failf(t, "path delivered twice", "%s", extra)
	case <-time.After(200 * time.Millisecond):
	}
}

func TestNewWatcherCreatesRoot(t *testing.T) {
	t.Parallel()

	root := filepath.Join(t.TempDir(), "participants")
	w, err := watcher.New(root, slog.New(slog.DiscardHandler))
	require.NoError(t, err)
	defer w.Close()

	assert.DirExists(t, root)

	_, err = watcher.New("", slog.New(slog.DiscardHandler))
	assert.Error(t, err)
}

func TestDrain(t *testing.T) {
	t.Parallel()

	events := make(chan string, 3)
	events <- "a"
	events <- "b"
	events <- "c"
	close(events)

	var got []string
	err := watcher.Drain(context.Background(), events, func(_ context.Context, path string) error {
		got = append(got, path)

		return nil
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b", "c"}, got)
}

func TestDrainStopsOnHandlerError(t *testing.T) {
	t.Parallel()

	events := make(chan string, 3)
	events <- "a"
	events <- "b"
	events <- "c"
	close(events)

	errFatal := errors.New("fatal")
	var got []string
	err := watcher.Drain(context.Background(), events, func(_ context.Context, path string) error {
		got = append(got, path)
		if path == "b" {
			return errFatal
		}

		return nil
	})
	assert.ErrorIs(t, err, errFatal)
	assert.Equal(t, []string{"a", "b"}, got)
}

func TestDrainStopsOnCancel(t *testing.T) {
	t.Parallel()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	err := watcher.Drain(ctx, make(chan string), func(context.Context, string) error {
		return errors.New("unexpected call")
	})
	assert.NoError(t, err)
}
