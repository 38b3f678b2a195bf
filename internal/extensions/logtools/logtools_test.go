package logtools

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconsole/internal/console"
	"devconsole/internal/logstore"
	"devconsole/internal/testutils"
	"devconsole/pkg/consoletypes"
)

type fakeClipboard struct {
	written []string
	err     error
}

func (f *fakeClipboard) Write(text string) error {
	if f.err != nil {
		return f.err
	}
	f.written = append(f.written, text)
	return nil
}

func newTestConsole() *console.Console {
	return console.New(
		console.WithStoreOptions(
			logstore.WithIDGenerator(testutils.NewIDSequence().Next),
			logstore.WithClock(testutils.NewClock().Now),
		),
		console.WithConfig(consoletypes.WithConsoleOutput(false)),
	)
}

func lastMessage(t *testing.T, c *console.Console) string {
	t.Helper()
	logs := c.Logs()
	require.NotEmpty(t, logs)
	return logs[len(logs)-1].Message
}

func TestLogCopy(t *testing.T) {
	clip := &fakeClipboard{}
	c := newTestConsole()
	Activate(c, WithClipboard(clip))

	c.Submit(context.Background(), "/log.copy")
	assert.Equal(t, "No logs to copy", lastMessage(t, c))

	c.Clear()
	c.Info("plain message")
	c.Error("boom", errors.New("kaput"))

	c.Submit(context.Background(), "/log.copy")
	require.Len(t, clip.written, 1)
	assert.JSONEq(t, `{"name":"Error","message":"kaput"}`, clip.written[0])
	assert.Equal(t, fmt.Sprintf("Copied %d characters to clipboard", len(clip.written[0])), lastMessage(t, c))

	// The confirmation above is now the newest entry.
	c.Submit(context.Background(), "/log.copy 3")
	require.Len(t, clip.written, 2)
	assert.Equal(t, "plain message", clip.written[1])

	c.Submit(context.Background(), "/log.copy 99")
	assert.Contains(t, lastMessage(t, c), "No log entry at position 99")

	c.Submit(context.Background(), "/log.copy x")
	assert.Contains(t, lastMessage(t, c), "No log entry at position x")
}

func TestLogCopy_FallsBackToVariable(t *testing.T) {
	clip := &fakeClipboard{err: errors.New("no display")}
	c := newTestConsole()
	Activate(c, WithClipboard(clip))

	c.Info("keep me")
	c.Submit(context.Background(), "/log.copy")

	v, ok := c.Variable(ClipboardVariable)
	require.True(t, ok)
	assert.Equal(t, "keep me", v.String())

	logs := c.Logs()
	require.Len(t, logs, 3)
	assert.Equal(t, consoletypes.LevelWarn, logs[1].Level)
	assert.Equal(t, "Failed to copy to clipboard: no display", logs[1].Message)
	assert.Equal(t, "Stored 7 characters in _clipboard variable", logs[2].Message)
}

func TestLogDiff(t *testing.T) {
	c := newTestConsole()
	Activate(c, WithClipboard(&fakeClipboard{}))

	c.Info("first", map[string]any{"a": 1, "b": 2})
	c.Info("second", map[string]any{"a": 1, "b": 3})

	c.Submit(context.Background(), "/log.diff 2 1")
	logs := c.Logs()
	last := logs[len(logs)-1]
	assert.Equal(t, "Diff of entries 2 and 1", last.Message)
	text, ok := last.Data.Text()
	require.True(t, ok)
	assert.Equal(t, "  {\n    \"a\": 1,\n-   \"b\": 2\n+   \"b\": 3\n  }", text)

	c.Submit(context.Background(), "/log.diff 1 1")
	assert.Equal(t, "Entries 1 and 1 are identical", lastMessage(t, c))

	c.Submit(context.Background(), "/log.diff 1")
	assert.Equal(t, "Usage: /log.diff <a> <b>", lastMessage(t, c))

	c.Submit(context.Background(), "/log.diff 1 50")
	assert.Contains(t, lastMessage(t, c), "Positions must be between 1 and")
}

func TestLineDiff(t *testing.T) {
	diff, changed := LineDiff("a\nb\nc\n", "a\nc\nd\n")
	assert.True(t, changed)
	assert.Equal(t, "  a\n- b\n  c\n+ d", diff)

	_, changed = LineDiff("same", "same")
	assert.False(t, changed)
}

func TestEntryText(t *testing.T) {
	assert.Equal(t, "msg", EntryText(consoletypes.LogEntry{Message: "msg"}))
	assert.Equal(t, "data", EntryText(consoletypes.LogEntry{Message: "msg", Data: consoletypes.Text("data")}))
}
