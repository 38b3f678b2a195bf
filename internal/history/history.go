// Package history keeps the console's submitted input lines, most recent first.
package history

import "sync"

// DefaultSize is the default number of retained lines.
const DefaultSize = 50

// History is a deduplicated, capped list of input lines.
type History struct {
	mu    sync.Mutex
	lines []string
	size  int
}

// New creates a history holding at most size lines. Non-positive sizes use DefaultSize.
func New(size int) *History {
	if size <= 0 {
		size = DefaultSize
	}
	return &History{size: size}
}

// Add moves line to the front, removing any earlier occurrence.
func (h *History) Add(line string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	lines := make([]string, 0, len(h.lines)+1)
	lines = append(lines, line)
	for _, l := range h.lines {
		if l != line {
			lines = append(lines, l)
		}
	}
	if len(lines) > h.size {
		lines = lines[:h.size]
	}
	h.lines = lines
}

// Lines returns a copy, most recent first.
func (h *History) Lines() []string {
	h.mu.Lock()
	defer h.mu.Unlock()
	out := make([]string, len(h.lines))
	copy(out, h.lines)
	return out
}

// Len returns the number of retained lines.
func (h *History) Len() int {
	h.mu.Lock()
	defer h.mu.Unlock()
	return len(h.lines)
}

// Size returns the capacity.
func (h *History) Size() int {
	return h.size
}

// Cursor walks the history with up/down keys. Index -1 is the live input line.
type Cursor struct {
	history *History
	index   int
}

// NewCursor creates a cursor positioned on the live input.
func NewCursor(h *History) *Cursor {
	return &Cursor{history: h, index: -1}
}

// Up moves to the next older line. ok is false when there is nothing older.
func (c *Cursor) Up() (line string, ok bool) {
	lines := c.history.Lines()
	if c.index+1 >= len(lines) {
		return "", false
	}
	c.index++
	return lines[c.index], true
}

// Down moves to the next newer line, returning "" once back on the live input.
// ok is false when the cursor is already on the live input.
func (c *Cursor) Down() (line string, ok bool) {
	if c.index < 0 {
		return "", false
	}
	c.index--
	if c.index < 0 {
		return "", true
	}
	lines := c.history.Lines()
	if c.index >= len(lines) {
		c.index = len(lines) - 1
	}
	if c.index < 0 {
		return "", true
	}
	return lines[c.index], true
}

// Reset returns the cursor to the live input. Editing the input resets it.
func (c *Cursor) Reset() {
	c.index = -1
}

// Index returns the current position, -1 for the live input.
func (c *Cursor) Index() int {
	return c.index
}
