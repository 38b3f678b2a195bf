// Package shell is the line-oriented devcon surface: a readline prompt that
// submits lines to the console and prints entries as they arrive.
package shell

import (
	"sync"

	"devconsole/internal/output"
	"devconsole/pkg/consoletypes"
)

// Tail prints entries it has not seen yet from successive log snapshots.
type Tail struct {
	mu      sync.Mutex
	printer *output.Printer
	lastID  string
}

// NewTail creates a tail writing through printer.
func NewTail(printer *output.Printer) *Tail {
	return &Tail{printer: printer}
}

// Update is a consoletypes.Listener. The last printed entry is looked up in
// the snapshot and everything after it is printed. If it has been evicted,
// the whole snapshot is new; if the snapshot is empty the log was cleared.
func (t *Tail) Update(entries []consoletypes.LogEntry) {
	t.mu.Lock()
	defer t.mu.Unlock()

	if len(entries) == 0 {
		if t.lastID != "" {
			t.printer.Println("(log cleared)")
		}
		t.lastID = ""
		return
	}

	start := 0
	if t.lastID != "" {
		for i := len(entries) - 1; i >= 0; i-- {
			if entries[i].ID == t.lastID {
				start = i + 1
				break
			}
		}
	}

	t.printer.Entries(entries[start:])
	t.lastID = entries[len(entries)-1].ID
}
