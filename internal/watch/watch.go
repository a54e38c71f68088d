// Package watch reports batches of configuration file changes, debounced so
// that an editor's save sequence triggers a single reload.
package watch

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/specialistvlad/buildcheck/internal/ctxlog"
)

// DefaultDelay is the quiet period after the last event before a batch is
// delivered.
const DefaultDelay = 200 * time.Millisecond

// Filter decides whether a changed path is relevant.
type Filter func(path string) bool

// HCLFilter accepts configuration files.
func HCLFilter(path string) bool {
	return strings.EqualFold(filepath.Ext(path), ".hcl")
}

// ChangeHandler receives the sorted, de-duplicated paths of one batch.
type ChangeHandler func(ctx context.Context, paths []string)

// Watcher watches directory trees for changes.
type Watcher struct {
	fsw    *fsnotify.Watcher
	delay  time.Duration
	filter Filter
}

// New creates a watcher. A non-positive delay uses DefaultDelay; a nil
// filter accepts every path.
func New(delay time.Duration, filter Filter) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed to create file watcher: %w", err)
	}
	if delay <= 0 {
		delay = DefaultDelay
	}
	if filter == nil {
		filter = func(string) bool { return true }
	}
	return &Watcher{fsw: fsw, delay: delay, filter: filter}, nil
}

// AddRecursive watches root and every non-hidden directory below it. A file
// path watches its parent directory.
func (w *Watcher) AddRecursive(root string) error {
	info, err := os.Stat(root)
	if err != nil {
		return fmt.Errorf("error accessing path %s: %w", root, err)
	}
	if !info.IsDir() {
		return w.fsw.Add(filepath.Dir(filepath.Clean(root)))
	}
	return filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if !d.IsDir() {
			return nil
		}
		if path != root && isHidden(path) {
			return filepath.SkipDir
		}
		if err := w.fsw.Add(path); err != nil {
			return fmt.Errorf("failed to watch %s: %w", path, err)
		}
		return nil
	})
}

// isHidden reports whether the last element of path starts with a dot, as
// with .git or .gradle.
func isHidden(path string) bool {
	return strings.HasPrefix(filepath.Base(path), ".")
}

// WatchList returns the directories currently watched.
func (w *Watcher) WatchList() []string {
	list := w.fsw.WatchList()
	sort.Strings(list)
	return list
}

// Close stops the watcher.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

// Run delivers change batches to handle until ctx is done or the watcher
// is closed. Handlers run on the calling goroutine, so batches never overlap.
func (w *Watcher) Run(ctx context.Context, handle ChangeHandler) error {
	logger := ctxlog.FromContext(ctx)
	pending := make(map[string]struct{})
	var timer *time.Timer
	var fire <-chan time.Time
	defer func() {
		if timer != nil {
			timer.Stop()
		}
	}()

	for {
		select {
		case <-ctx.Done():
			return nil

		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if event.Has(fsnotify.Create) && !isHidden(event.Name) {
				if info, err := os.Stat(event.Name); err == nil && info.IsDir() {
					if err := w.AddRecursive(event.Name); err != nil {
						logger.Warn("Failed to watch new directory.", "dir", event.Name, "error", err)
					}
				}
			}
			if !w.filter(event.Name) {
				continue
			}
			logger.Debug("File change detected.", "path", event.Name, "op", event.Op.String())
			pending[event.Name] = struct{}{}
			if timer == nil {
				timer = time.NewTimer(w.delay)
			} else {
				if !timer.Stop() {
					select {
					case <-timer.C:
					default:
					}
				}
				timer.Reset(w.delay)
			}
			fire = timer.C

		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			logger.Warn("File watcher error.", "error", err)

		case <-fire:
			fire = nil
			paths := make([]string, 0, len(pending))
			for p := range pending {
				paths = append(paths, p)
			}
			sort.Strings(paths)
			clear(pending)
			handle(ctx, paths)
		}
	}
}
