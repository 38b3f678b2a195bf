package tui

import (
	"context"
	"io"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconsole/internal/console"
	"devconsole/internal/logstore"
	"devconsole/internal/output"
	"devconsole/internal/testutils"
	"devconsole/pkg/consoletypes"
)

func newTestModel(t *testing.T) (Model, *console.Console) {
	t.Helper()
	c := console.New(
		console.WithStoreOptions(
			logstore.WithIDGenerator(testutils.NewIDSequence().Next),
			logstore.WithClock(testutils.NewClock().Now),
		),
		console.WithConfig(consoletypes.WithConsoleOutput(false)),
	)
	m := New(context.Background(), c, output.WithWriter(io.Discard), output.TestMode())
	t.Cleanup(m.Close)
	return m, c
}

func press(t *testing.T, m Model, keys ...tea.KeyMsg) Model {
	t.Helper()
	for _, k := range keys {
		next, _ := m.Update(k)
		var ok bool
		m, ok = next.(Model)
		require.True(t, ok)
	}
	return m
}

func typed(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func key(k tea.KeyType) tea.KeyMsg {
	return tea.KeyMsg{Type: k}
}

func messages(entries []consoletypes.LogEntry) []string {
	out := make([]string, len(entries))
	for i, e := range entries {
		out[i] = e.Message
	}
	return out
}

func TestModel_EnterSubmitsLine(t *testing.T) {
	m, c := newTestModel(t)

	m = press(t, m, typed("/var set name world"), key(tea.KeyEnter))

	assert.Equal(t, "", m.Input())
	assert.Contains(t, messages(m.Visible()), `Variable set: name = "world"`)
	assert.Equal(t, []string{"/var set name world"}, c.History().Lines())
}

func TestModel_BlankEnterIsIgnored(t *testing.T) {
	m, c := newTestModel(t)

	m = press(t, m, typed("   "), key(tea.KeyEnter))

	assert.Empty(t, m.Visible())
	assert.Zero(t, c.History().Len())
}

func TestModel_TabOpensAndAcceptsSuggestions(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, typed("/he"), key(tea.KeyTab))
	items, selected := m.Suggestions()
	assert.Equal(t, []string{"/help"}, items)
	assert.Equal(t, 0, selected)

	m = press(t, m, key(tea.KeyTab))
	assert.Equal(t, "/help ", m.Input())
	items, _ = m.Suggestions()
	assert.Empty(t, items)
}

func TestModel_ArrowsMoveThroughSuggestions(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, typed("/e"), key(tea.KeyTab))
	items, selected := m.Suggestions()
	require.Equal(t, []string{"/export", "/clear", "/help"}, items)
	assert.Equal(t, 0, selected)

	m = press(t, m, key(tea.KeyDown), key(tea.KeyDown))
	_, selected = m.Suggestions()
	assert.Equal(t, 2, selected)

	m = press(t, m, key(tea.KeyUp))
	_, selected = m.Suggestions()
	assert.Equal(t, 1, selected)

	m = press(t, m, key(tea.KeyEnter))
	assert.Equal(t, "/clear ", m.Input())
}

func TestModel_TypingRefreshesOpenSuggestions(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, typed("/e"), key(tea.KeyTab), typed("x"))
	items, _ := m.Suggestions()
	assert.Equal(t, []string{"/export"}, items)
}

func TestModel_EscDismissesSuggestions(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m, typed("/he"), key(tea.KeyTab), key(tea.KeyEsc))
	items, _ := m.Suggestions()
	assert.Empty(t, items)
	assert.Equal(t, "/he", m.Input())
}

func TestModel_HistoryNavigation(t *testing.T) {
	m, _ := newTestModel(t)

	m = press(t, m,
		typed("/var set a 1"), key(tea.KeyEnter),
		typed("/var set b 2"), key(tea.KeyEnter),
	)

	m = press(t, m, key(tea.KeyUp))
	assert.Equal(t, "/var set b 2", m.Input())
	m = press(t, m, key(tea.KeyUp))
	assert.Equal(t, "/var set a 1", m.Input())
	m = press(t, m, key(tea.KeyDown))
	assert.Equal(t, "/var set b 2", m.Input())
	m = press(t, m, key(tea.KeyDown))
	assert.Equal(t, "", m.Input())
}

func TestModel_CtrlLCyclesLevelFilter(t *testing.T) {
	m, c := newTestModel(t)
	c.Debug("d")
	c.Info("i")
	m.entries = c.Logs()

	m = press(t, m, key(tea.KeyCtrlL))
	assert.Equal(t, consoletypes.LevelDebug, m.Filter().Level)
	assert.Equal(t, []string{"d"}, messages(m.Visible()))

	m = press(t, m, key(tea.KeyCtrlL))
	assert.Equal(t, consoletypes.LevelInfo, m.Filter().Level)

	for range len(consoletypes.Levels) - 1 {
		m = press(t, m, key(tea.KeyCtrlL))
	}
	assert.Equal(t, consoletypes.Level(""), m.Filter().Level)
}

func TestModel_ReceivesBackgroundEntries(t *testing.T) {
	m, c := newTestModel(t)
	c.Info("from elsewhere")

	for range 2 {
		if assert.ObjectsAreEqual([]string{"from elsewhere"}, messages(m.Visible())) {
			break
		}
		next, _ := m.Update(m.feed.wait()())
		m = next.(Model)
	}
	assert.Equal(t, []string{"from elsewhere"}, messages(m.Visible()))
}

func TestModel_CtrlCQuits(t *testing.T) {
	m, _ := newTestModel(t)

	_, cmd := m.Update(key(tea.KeyCtrlC))
	require.NotNil(t, cmd)
	assert.Equal(t, tea.Quit(), cmd())
}

func TestModel_View(t *testing.T) {
	m, c := newTestModel(t)
	c.Warn("careful")

	next, _ := m.Update(tea.WindowSizeMsg{Width: 100, Height: 20})
	m = next.(Model)
	m = press(t, m, key(tea.KeyCtrlL), key(tea.KeyCtrlL), key(tea.KeyCtrlL))
	m.entries = c.Logs()
	m.refresh()

	view := m.View()
	assert.Contains(t, view, "devcon")
	assert.Contains(t, view, "level: warn")
	assert.Contains(t, view, "WARN  careful")
	assert.Contains(t, view, "ctrl+c quit")
}
