// Package tui is the full-screen bubbletea surface of the console.
package tui

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"

	"devconsole/internal/autocomplete"
	"devconsole/internal/console"
	"devconsole/internal/history"
	"devconsole/internal/logger"
	"devconsole/internal/logstore"
	"devconsole/internal/output"
	"devconsole/pkg/consoletypes"
)

// logsMsg carries a store snapshot into the update loop.
type logsMsg struct {
	entries []consoletypes.LogEntry
}

// feed bridges store notifications into bubbletea. Only the newest snapshot
// is kept; older undelivered ones are dropped.
type feed struct {
	ch          chan []consoletypes.LogEntry
	unsubscribe func()
}

func newFeed() *feed {
	return &feed{ch: make(chan []consoletypes.LogEntry, 1)}
}

func (f *feed) push(entries []consoletypes.LogEntry) {
	for {
		select {
		case f.ch <- entries:
			return
		default:
		}
		select {
		case <-f.ch:
		default:
		}
	}
}

func (f *feed) wait() tea.Cmd {
	return func() tea.Msg {
		entries, ok := <-f.ch
		if !ok {
			return nil
		}
		return logsMsg{entries: entries}
	}
}

// Model is the root bubbletea model.
type Model struct {
	console *console.Console
	feed    *feed
	ctx     context.Context

	// State
	entries []consoletypes.LogEntry
	filter  logstore.Filter
	session *autocomplete.Session
	cursor  *history.Cursor

	// UI
	input       textinput.Model
	viewport    viewport.Model
	printer     *output.Printer
	printerOpts []output.Option
	width       int
	height      int
}

// New creates a model bound to c. Printer options control how entries are
// rendered in the log pane.
func New(ctx context.Context, c *console.Console, printerOpts ...output.Option) Model {
	in := textinput.New()
	in.Prompt = "> "
	in.Placeholder = "/help"
	in.CharLimit = 1024
	in.Focus()

	m := Model{
		console:     c,
		feed:        newFeed(),
		ctx:         ctx,
		entries:     c.Logs(),
		session:     autocomplete.NewSession(c.CompletionSnapshot),
		cursor:      history.NewCursor(c.History()),
		input:       in,
		viewport:    viewport.New(80, 20),
		printerOpts: printerOpts,
	}
	m.printer = output.NewPrinter(printerOpts...)
	m.feed.unsubscribe = c.Subscribe(m.feed.push)
	m.refresh()
	return m
}

// Close detaches the model from the console.
func (m Model) Close() {
	if m.feed.unsubscribe != nil {
		m.feed.unsubscribe()
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	return tea.Batch(textinput.Blink, m.feed.wait())
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.resize(msg.Width, msg.Height)
		return m, nil

	case logsMsg:
		m.entries = msg.entries
		m.refresh()
		return m, m.feed.wait()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "ctrl+c":
		return m, tea.Quit

	case "esc":
		m.session.Dismiss()
		return m, nil

	case "ctrl+l":
		m.filter = m.filter.NextLevel()
		m.refresh()
		return m, nil

	case "tab":
		if !m.session.Active() {
			m.session.Update(m.input.Value())
			return m, nil
		}
		m.accept()
		return m, nil

	case "up":
		if m.session.Active() {
			m.session.Prev()
			return m, nil
		}
		if line, ok := m.cursor.Up(); ok {
			m.setInput(line)
		}
		return m, nil

	case "down":
		if m.session.Active() {
			m.session.Next()
			return m, nil
		}
		if line, ok := m.cursor.Down(); ok {
			m.setInput(line)
		}
		return m, nil

	case "pgup", "pgdown":
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		return m, cmd

	case "enter":
		if m.session.Active() {
			m.accept()
			return m, nil
		}
		m.submit()
		return m, nil
	}

	before := m.input.Value()
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	if m.input.Value() != before {
		m.cursor.Reset()
		if m.session.Active() {
			m.session.Update(m.input.Value())
		}
	}
	return m, cmd
}

func (m *Model) accept() {
	if line, ok := m.session.Accept(m.input.Value()); ok {
		m.setInput(line)
	}
}

func (m *Model) setInput(line string) {
	m.input.SetValue(line)
	m.input.CursorEnd()
}

func (m *Model) submit() {
	line := m.input.Value()
	if strings.TrimSpace(line) == "" {
		return
	}
	outcome := m.console.Submit(m.ctx, line)
	logger.Debug("TUI submitted line", "state", outcome.State.String(), "command", outcome.Command)

	m.input.Reset()
	m.cursor.Reset()
	m.session.Dismiss()
	m.entries = m.console.Logs()
	m.refresh()
}

func (m *Model) resize(width, height int) {
	m.width, m.height = width, height
	m.viewport.Width = width
	m.viewport.Height = max(height-headerHeight-footerHeight, 1)
	m.input.Width = max(width-len(m.input.Prompt)-1, 1)

	opts := append(append([]output.Option{}, m.printerOpts...), output.WithWidth(width))
	m.printer = output.NewPrinter(opts...)
	m.refresh()
}

// refresh re-renders the visible entries and keeps the view pinned to the
// bottom when it already was.
func (m *Model) refresh() {
	atBottom := m.viewport.AtBottom()
	visible := m.filter.Apply(m.entries)

	rendered := make([]string, 0, len(visible))
	for _, e := range visible {
		rendered = append(rendered, m.printer.Render(e))
	}
	m.viewport.SetContent(strings.Join(rendered, "\n"))
	if atBottom {
		m.viewport.GotoBottom()
	}
}

// Visible returns the entries that pass the current filter.
func (m Model) Visible() []consoletypes.LogEntry {
	return m.filter.Apply(m.entries)
}

// Filter returns the active level filter.
func (m Model) Filter() logstore.Filter {
	return m.filter
}

// Input returns the current contents of the input line.
func (m Model) Input() string {
	return m.input.Value()
}

// Suggestions returns the visible suggestions and the highlighted index.
func (m Model) Suggestions() ([]string, int) {
	return m.session.Items(), m.session.Index()
}

// Run starts the full-screen program and blocks until the user quits.
func Run(ctx context.Context, c *console.Console, printerOpts ...output.Option) error {
	m := New(ctx, c, printerOpts...)
	defer m.Close()

	p := tea.NewProgram(m, tea.WithAltScreen(), tea.WithContext(ctx))
	_, err := p.Run()
	if err != nil && ctx.Err() != nil {
		return nil
	}
	return err
}
