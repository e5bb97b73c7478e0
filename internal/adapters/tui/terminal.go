package tui

import (
	"bytes"
	"sync"

	"github.com/vito/midterm"
)

// Terminal holds the output of one job in a virtual terminal and shows a
// scrollable window of it.
type Terminal struct {
	mu     sync.Mutex
	vt     *midterm.Terminal
	width  int
	height int
	offset int
}

// NewTerminal creates an empty terminal one row high.
func NewTerminal() *Terminal {
	return &Terminal{vt: midterm.NewAutoResizingTerminal(), height: 1}
}

// Write appends job output. A window showing the last row keeps following it.
func (t *Terminal) Write(p []byte) (int, error) {
	t.mu.Lock()
	defer t.mu.Unlock()

	following := t.offset >= t.lastOffset()
	n, err := t.vt.Write(p)
	if following {
		t.offset = t.lastOffset()
	}
	return n, err
}

// Resize sets the window size. Sizes below one are raised to one.
func (t *Terminal) Resize(width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()

	following := t.offset >= t.lastOffset()
	t.width = max(width, 1)
	t.height = max(height, 1)
	t.vt.ResizeX(t.width)
	if following {
		t.offset = t.lastOffset()
	}
	t.offset = min(t.offset, t.lastOffset())
}

// Scroll moves the window by delta rows, staying within the output.
func (t *Terminal) Scroll(delta int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offset = min(max(t.offset+delta, 0), t.lastOffset())
}

// ScrollToEnd moves the window to the last rows.
func (t *Terminal) ScrollToEnd() {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.offset = t.lastOffset()
}

// Size returns the window size.
func (t *Terminal) Size() (width, height int) {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.width, t.height
}

// Offset returns the first row shown.
func (t *Terminal) Offset() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.offset
}

// Rows returns the number of rows written so far.
func (t *Terminal) Rows() int {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.vt.UsedHeight()
}

// View renders the rows inside the window.
func (t *Terminal) View() string {
	t.mu.Lock()
	defer t.mu.Unlock()

	var buf bytes.Buffer
	end := min(t.offset+t.height, t.vt.UsedHeight())
	for row := t.offset; row < end; row++ {
		if row > t.offset {
			buf.WriteByte('\n')
		}
		_ = t.vt.RenderLine(&buf, row)
	}
	return buf.String()
}

// lastOffset is the offset that shows the last rows.
// Must be called with t.mu held.
func (t *Terminal) lastOffset() int {
	return max(t.vt.UsedHeight()-t.height, 0)
}
