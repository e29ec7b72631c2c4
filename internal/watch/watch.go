// Package watch rebuilds the derived feeds whenever the post index changes
// on disk, for example after a hand edit or a deploy that ships only the
// index.
package watch

import (
	"context"
	"fmt"
	"log/slog"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"

	"github.com/astroaura/astroblog/internal/feed"
)

// DefaultDebounce coalesces the burst of events a single atomic write makes.
const DefaultDebounce = 500 * time.Millisecond

// Rebuilder is implemented by *feed.Synchronizer. Resync must not rewrite
// the index, or the watcher would trigger itself.
type Rebuilder interface {
	Resync() (*feed.Result, error)
}

// Watcher observes the blog directory rather than the index file, since the
// index is replaced by rename and a file watch would be lost.
type Watcher struct {
	dir      string
	debounce time.Duration
	rebuild  Rebuilder
	fsw      *fsnotify.Watcher
}

func New(dir string, debounce time.Duration, r Rebuilder) (*Watcher, error) {
	if debounce <= 0 {
		debounce = DefaultDebounce
	}
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("create watcher: %w", err)
	}
	if err := fsw.Add(dir); err != nil {
		fsw.Close()
		return nil, fmt.Errorf("watch %s: %w", dir, err)
	}
	return &Watcher{dir: dir, debounce: debounce, rebuild: r, fsw: fsw}, nil
}

// Run blocks until ctx is cancelled. Rebuild failures are logged, never fatal.
func (w *Watcher) Run(ctx context.Context) error {
	defer w.fsw.Close()
	slog.Info("watching index", "dir", w.dir, "debounce", w.debounce)

	timer := time.NewTimer(w.debounce)
	if !timer.Stop() {
		<-timer.C
	}
	defer timer.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case ev, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			if !relevant(ev) {
				continue
			}
			slog.Debug("index event", "op", ev.Op.String())
			timer.Reset(w.debounce)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			slog.Warn("watcher error", "error", err)
		case <-timer.C:
			res, err := w.rebuild.Resync()
			if err != nil {
				slog.Error("resync after index change failed", "error", err)
				continue
			}
			slog.Info("feeds rebuilt after index change", "updated", len(res.Updated), "skipped", len(res.Skipped))
		}
	}
}

// Close stops watching without waiting for Run.
func (w *Watcher) Close() error {
	return w.fsw.Close()
}

func relevant(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != feed.IndexFile {
		return false
	}
	return ev.Has(fsnotify.Create) || ev.Has(fsnotify.Write) || ev.Has(fsnotify.Rename)
}
