package watcher

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"github.com/fsnotify/fsnotify"
)

const queueSize = 1024

var errEmptyRoot = errors.New("empty watch root")

// Handler is invoked for every created file, one call at a time.
type Handler func(ctx context.Context, path string) error

// Watcher reports files created anywhere under a root directory. Hidden
// files are never reported, so writers can publish atomically by renaming
// a dot-prefixed temporary file.
type Watcher interface {
	// Events is the single queue of created file paths. It is closed when
	// Run returns.
	Events() <-chan string
	// Run forwards filesystem notifications to Events until ctx is done or
	// Close is called.
	Run(ctx context.Context) error
	Close() error
}

type watcher struct {
	root   string
	fsw    *fsnotify.Watcher
	events chan string
	logger *slog.Logger

	mu   sync.Mutex
	seen map[string]struct{}
}

// New watches root and every directory below it. root is created if it does
// not exist.
func New(root string, logger *slog.Logger) (Watcher, error) {
	if root == "" {
		return nil, errEmptyRoot
	}
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create watch root: %w", err)
	}

	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}

	w := &watcher{
		root:   root,
		fsw:    fsw,
		events: make(chan string, queueSize),
		logger: logger,
		seen:   make(map[string]struct{}),
	}
	if err := w.addTree(context.Background(), root, false); err != nil {
		fsw.Close()

		return nil, err
	}

	return w, nil
}

func (w *watcher) Events() <-chan string {
	return w.events
}

func (w *watcher) Run(ctx context.Context) error {
	defer close(w.events)

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if err := w.handle(ctx, ev); err != nil {
				return err
			}
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("Filesystem watcher error", slog.Any("error", err))
		}
	}
}

func (w *watcher) Close() error {
	return w.fsw.Close()
}

func (w *watcher) handle(ctx context.Context, ev fsnotify.Event) error {
	if !ev.Has(fsnotify.Create) || hidden(ev.Name) {
		return nil
	}

	info, err := os.Stat(ev.Name)
	if err != nil {
		// Removed again before we got to it.
		return nil
	}
	if info.IsDir() {
		// Files may land in a new directory before it is watched.
		return w.addTree(ctx, ev.Name, true)
	}

	w.enqueue(ctx, ev.Name)

	return nil
}

// addTree watches dir and its subdirectories. When emit is set, regular
// files already present are queued.
func (w *watcher) addTree(ctx context.Context, dir string, emit bool) error {
	return filepath.WalkDir(dir, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path != dir && hidden(path) {
			if d.IsDir() {
				return filepath.SkipDir
			}

			return nil
		}
		if d.IsDir() {
			if err := w.fsw.Add(path); err != nil {
				return fmt.Errorf("failed to watch %s: %w", path, err)
			}

			return nil
		}
		if emit && d.Type().IsRegular() {
			w.enqueue(ctx, path)
		}

		return nil
	})
}

func (w *watcher) enqueue(ctx context.Context, path string) {
	w.mu.Lock()
	if _, ok := w.seen[path]; ok {
		w.mu.Unlock()

		return
	}
	w.seen[path] = struct{}{}
	w.mu.Unlock()

	select {
	case w.events <- path:
	case <-ctx.Done():
	}
}

func hidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// Drain hands queued paths to handler in arrival order until events is
// closed, ctx is done or handler fails. A handler error is returned as is.
//
// Each path is delivered once, when it is created. Producers must publish
// atomically (write a dot-prefixed temp file, then rename it into place, as
// fl.WriteFileAtomic does); a file filled in after creation may be read
// incomplete and is not delivered again.
func Drain(ctx context.Context, events <-chan string, handler Handler) error {
	for {
		select {
		case <-ctx.Done():
			return nil
		case path, ok := <-events:
			if !ok {
				return nil
			}
			if err := handler(ctx, path); err != nil {
				return err
			}
		}
	}
}
