package watcher

import (
	"context"
	"fmt"
	"path/filepath"
	"slices"
	"time"

	"github.com/fsnotify/fsnotify"
	"go.trai.ch/ancestry/internal/core/domain"
	"go.trai.ch/ancestry/internal/core/ports"
	"go.trai.ch/zerr"
)

var _ ports.Watcher = (*Watcher)(nil)

// relevantOps are the events that can change a file's content.
const relevantOps = fsnotify.Write | fsnotify.Create | fsnotify.Remove | fsnotify.Rename

// Watcher implements ports.Watcher using fsnotify. Directories are watched
// non-recursively.
type Watcher struct {
	window time.Duration
	logger ports.Logger
}

// NewWatcher creates a watcher that reports batches after window of quiet.
func NewWatcher(window time.Duration, logger ports.Logger) *Watcher {
	return &Watcher{window: window, logger: logger}
}

// Watch starts watching dirs and returns the channel of changed path batches.
func (w *Watcher) Watch(ctx context.Context, dirs []string) (<-chan []string, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, zerr.Wrap(domain.ErrWatchFailed, err.Error())
	}

	cleaned := make([]string, 0, len(dirs))
	for _, dir := range dirs {
		cleaned = append(cleaned, filepath.Clean(dir))
	}
	slices.Sort(cleaned)
	for _, dir := range slices.Compact(cleaned) {
		if err := fsw.Add(dir); err != nil {
			_ = fsw.Close()
			return nil, zerr.With(zerr.Wrap(domain.ErrWatchFailed, err.Error()), "dir", dir)
		}
	}

	out := make(chan []string)
	go w.loop(ctx, fsw, out)
	return out, nil
}

func (w *Watcher) loop(ctx context.Context, fsw *fsnotify.Watcher, out chan<- []string) {
	defer close(out)
	defer func() { _ = fsw.Close() }()

	d := NewDebouncer(w.window)
	defer d.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case event, ok := <-fsw.Events:
			if !ok {
				return
			}
			if event.Op&relevantOps != 0 {
				d.Add(filepath.Clean(event.Name))
			}
		case err, ok := <-fsw.Errors:
			if !ok {
				return
			}
			w.logger.Warn(fmt.Sprintf("watcher: %v", err))
		case <-d.C():
			select {
			case out <- d.Drain():
			case <-ctx.Done():
				return
			}
		}
	}
}
