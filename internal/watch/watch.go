// Package watch re-checks source files as they change on disk.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"log/slog"
	"os"
	"path/filepath"
	"sort"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/dusk-indust/epitastyle/internal/discover"
	"github.com/dusk-indust/epitastyle/internal/syntax"
)

// DefaultDebounce is how long a burst of events is collected before the
// batch is handed over.
const DefaultDebounce = 100 * time.Millisecond

// Options configures a Watcher.
type Options struct {
	Debounce time.Duration
	Exclude  []string
	Logger   *slog.Logger
}

// Watcher collects writes to supported files under a set of roots and
// reports them in debounced, sorted batches.
type Watcher struct {
	fsw      *fsnotify.Watcher
	debounce time.Duration
	exclude  []string
	logger   *slog.Logger

	dirs  map[string]bool // directories watched for every file in them
	files map[string]bool // file roots, watched through their parent
}

// New creates a Watcher over roots. Directories are watched recursively,
// skipping hidden ones; files are watched through their parent directory.
func New(roots []string, opts Options) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create watcher: %w", err)
	}
	w := &Watcher{
		fsw:      fsw,
		debounce: opts.Debounce,
		exclude:  opts.Exclude,
		logger:   opts.Logger,
		dirs:     make(map[string]bool),
		files:    make(map[string]bool),
	}
	if w.debounce <= 0 {
		w.debounce = DefaultDebounce
	}
	if w.logger == nil {
		w.logger = slog.Default()
	}
	w.logger = w.logger.With("component", "watch")

	for _, root := range roots {
		if err := w.add(root); err != nil {
			_ = fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

// add registers root with the underlying watcher.
func (w *Watcher) add(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("watch %s: %w", root, err)
	}
	if !info.IsDir() {
		w.files[filepath.Clean(root)] = true
		return w.fsw.Add(filepath.Dir(root))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && len(d.Name()) > 0 && d.Name()[0] == '.' {
			return filepath.SkipDir
		}
		w.dirs[filepath.Clean(path)] = true
		return w.fsw.Add(path)
	})
}

// Close releases the underlying watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// relevant reports whether an event names a file worth re-checking. A
// directory watched only for a file root reports that file alone.
func (w *Watcher) relevant(ev fsnotify.Event) bool {
	if ev.Op&(fsnotify.Write|fsnotify.Create) == 0 {
		return false
	}
	if !syntax.Supported(ev.Name) {
		return false
	}
	name := filepath.Clean(ev.Name)
	if !w.files[name] && !w.dirs[filepath.Dir(name)] {
		return false
	}
	skip, err := discover.Excluded(w.exclude, ev.Name)
	if err != nil {
		w.logger.Warn("exclude check failed", "path", ev.Name, "err", err)
		return false
	}
	return !skip
}

// Run blocks until ctx is done, calling onChange with each batch of
// changed files. onChange runs on the Run goroutine, so events that
// arrive while it works are batched for the next call.
func (w *Watcher) Run(ctx context.Context, onChange func(ctx context.Context, paths []string)) error {
	pending := make(map[string]bool)
	timer := time.NewTimer(w.debounce)
	timer.Stop()

	for {
		select {
		case <-ctx.Done():
			timer.Stop()
			return nil

		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if ev.Op&fsnotify.Create != 0 {
				if info, err := os.Stat(ev.Name); err == nil && info.IsDir() {
					if err := w.add(ev.Name); err != nil {
						w.logger.Warn("failed to watch new directory", "path", ev.Name, "err", err)
					}
					continue
				}
			}
			if !w.relevant(ev) {
				continue
			}
			pending[filepath.Clean(ev.Name)] = true
			timer.Reset(w.debounce)

		case <-timer.C:
			if len(pending) == 0 {
				continue
			}
			batch := make([]string, 0, len(pending))
			for p := range pending {
				batch = append(batch, p)
			}
			sort.Strings(batch)
			clear(pending)
			w.logger.Debug("change detected", "files", len(batch))
			onChange(ctx, batch)

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			w.logger.Warn("watcher error", "err", err)
		}
	}
}
