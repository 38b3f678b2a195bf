// Package logtools adds log.copy and log.diff, commands that work on entries
// already in the console's log store.
package logtools

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/sergi/go-diff/diffmatchpatch"

	"devconsole/internal/logger"
	"devconsole/pkg/consoletypes"
)

// ClipboardVariable receives copied text when the clipboard is unavailable.
const ClipboardVariable = "_clipboard"

// Clipboard receives copied text.
type Clipboard interface {
	Write(text string) error
}

// SystemClipboard is the operating system clipboard.
type SystemClipboard struct{}

// Extension holds the clipboard used by log.copy.
type Extension struct {
	console   consoletypes.Console
	clipboard Clipboard
}

// Option configures an Extension.
type Option func(*Extension)

// WithClipboard replaces the system clipboard.
func WithClipboard(c Clipboard) Option {
	return func(e *Extension) { e.clipboard = c }
}

// Activate registers the log.* commands.
func Activate(console consoletypes.Console, opts ...Option) *Extension {
	e := &Extension{console: console, clipboard: SystemClipboard{}}
	for _, opt := range opts {
		opt(e)
	}

	console.RegisterCommand(consoletypes.Command{
		Name:        "log.copy",
		Description: "Copy an entry's data to the clipboard (usage: /log.copy [n], 1 = newest)",
		Handler:     e.copyCommand,
	})
	console.RegisterCommand(consoletypes.Command{
		Name:        "log.diff",
		Description: "Line diff of two entries' data (usage: /log.diff <a> <b>, 1 = newest)",
		Handler:     e.diffCommand,
	})
	return e
}

// EntryText is what log.copy and log.diff operate on: the entry's formatted
// data without trace, or its message when it carries no data.
func EntryText(entry consoletypes.LogEntry) string {
	if entry.Data.Kind() == consoletypes.PayloadNone {
		return entry.Message
	}
	return entry.Data.Format(true)
}

// pick returns the entry at position (1 = newest) in logs.
func pick(logs []consoletypes.LogEntry, arg string) (consoletypes.LogEntry, int, bool) {
	n, err := strconv.Atoi(arg)
	if err != nil || n < 1 || n > len(logs) {
		return consoletypes.LogEntry{}, n, false
	}
	return logs[len(logs)-n], n, true
}

func (e *Extension) copyCommand(_ context.Context, args []string) error {
	position := "1"
	if len(args) > 0 {
		position = args[0]
	}

	logs := e.console.Logs()
	if len(logs) == 0 {
		e.console.Dev("No logs to copy")
		return nil
	}
	entry, _, ok := pick(logs, position)
	if !ok {
		e.console.Dev(fmt.Sprintf("No log entry at position %s (1-%d)", position, len(logs)))
		return nil
	}

	text := EntryText(entry)
	if err := e.clipboard.Write(text); err != nil {
		logger.Debug("Clipboard write failed", "error", err)
		e.console.SetVariable(ClipboardVariable, consoletypes.StringValue(text))
		e.console.Warn("Failed to copy to clipboard: " + err.Error())
		e.console.Dev(fmt.Sprintf("Stored %d characters in %s variable", len(text), ClipboardVariable))
		return nil
	}
	e.console.Dev(fmt.Sprintf("Copied %d characters to clipboard", len(text)))
	return nil
}

func (e *Extension) diffCommand(_ context.Context, args []string) error {
	if len(args) != 2 {
		e.console.Dev("Usage: /log.diff <a> <b>")
		return nil
	}

	logs := e.console.Logs()
	a, na, okA := pick(logs, args[0])
	b, nb, okB := pick(logs, args[1])
	if !okA || !okB {
		e.console.Dev(fmt.Sprintf("Positions must be between 1 and %d", len(logs)))
		return nil
	}

	diff, changed := LineDiff(EntryText(a), EntryText(b))
	if !changed {
		e.console.Dev(fmt.Sprintf("Entries %d and %d are identical", na, nb))
		return nil
	}
	e.console.Dev(fmt.Sprintf("Diff of entries %d and %d", na, nb), diff)
	return nil
}

// LineDiff compares two texts line by line. Removed lines are prefixed with
// "- ", added lines with "+ " and unchanged lines with two spaces.
func LineDiff(from, to string) (string, bool) {
	dmp := diffmatchpatch.New()
	a, b, lines := dmp.DiffLinesToChars(from, to)
	diffs := dmp.DiffCharsToLines(dmp.DiffMain(a, b, false), lines)

	var out strings.Builder
	changed := false
	for _, d := range diffs {
		prefix := "  "
		switch d.Type {
		case diffmatchpatch.DiffDelete:
			prefix = "- "
			changed = true
		case diffmatchpatch.DiffInsert:
			prefix = "+ "
			changed = true
		}
		for _, line := range strings.SplitAfter(d.Text, "\n") {
			if line == "" {
				continue
			}
			out.WriteString(prefix)
			out.WriteString(strings.TrimSuffix(line, "\n"))
			out.WriteString("\n")
		}
	}
	return strings.TrimSuffix(out.String(), "\n"), changed
}
