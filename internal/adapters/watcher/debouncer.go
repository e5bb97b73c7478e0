// Package watcher reports changes to job input files.
package watcher

import (
	"maps"
	"slices"
	"time"
)

// DefaultDebounceWindow is how long the input files must stay quiet before a batch is reported.
const DefaultDebounceWindow = 200 * time.Millisecond

// Debouncer coalesces rapid file events into one batch of paths.
// It is driven by a single goroutine and is not safe for concurrent use.
type Debouncer struct {
	window  time.Duration
	pending map[string]struct{}
	timer   *time.Timer
}

// NewDebouncer creates a debouncer with the given quiet window.
func NewDebouncer(window time.Duration) *Debouncer {
	return &Debouncer{
		window:  window,
		pending: make(map[string]struct{}),
	}
}

// Add records a changed path and restarts the quiet window.
func (d *Debouncer) Add(path string) {
	d.pending[path] = struct{}{}
	if d.timer == nil {
		d.timer = time.NewTimer(d.window)
		return
	}
	d.timer.Reset(d.window)
}

// C fires once the window has passed since the last Add.
// It is nil while nothing is pending.
func (d *Debouncer) C() <-chan time.Time {
	if d.timer == nil || len(d.pending) == 0 {
		return nil
	}
	return d.timer.C
}

// Drain returns the pending paths in sorted order and clears them.
func (d *Debouncer) Drain() []string {
	paths := slices.Sorted(maps.Keys(d.pending))
	clear(d.pending)
	return paths
}

// Stop releases the timer.
func (d *Debouncer) Stop() {
	if d.timer != nil {
		d.timer.Stop()
	}
}
