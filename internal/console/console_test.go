package console

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"devconsole/internal/logstore"
	"devconsole/internal/testutils"
	"devconsole/pkg/consoletypes"
)

type fakeExporter struct {
	formats []string
	counts  []int
	err     error
}

func (f *fakeExporter) Export(_ context.Context, entries []consoletypes.LogEntry, format string) (string, error) {
	f.formats = append(f.formats, format)
	f.counts = append(f.counts, len(entries))
	if f.err != nil {
		return "", f.err
	}
	return "/tmp/logs.json", nil
}

type fakeEvaluator struct {
	results map[string]any
	seen    []string
}

func (f *fakeEvaluator) Evaluate(_ context.Context, expr string) (any, error) {
	f.seen = append(f.seen, expr)
	if expr == "explode" {
		panic("evaluator bug")
	}
	if v, ok := f.results[expr]; ok {
		return v, nil
	}
	return nil, errors.New("undefined: " + expr)
}

func newTestConsole(opts ...Option) *Console {
	base := []Option{
		WithStoreOptions(
			logstore.WithIDGenerator(testutils.NewIDSequence().Next),
			logstore.WithClock(testutils.NewClock().Now),
		),
		WithConfig(consoletypes.WithConsoleOutput(false)),
		WithExporter(&fakeExporter{}),
	}
	return New(append(base, opts...)...)
}

func submit(c *Console, line string) Outcome {
	return c.Submit(context.Background(), line)
}

func lastEntry(t *testing.T, c *Console) consoletypes.LogEntry {
	t.Helper()
	logs := c.Logs()
	require.NotEmpty(t, logs)
	return logs[len(logs)-1]
}

func TestSubmit_VarSetThenGetKeepsNumber(t *testing.T) {
	c := newTestConsole()

	out := submit(c, "/var set x 42")
	assert.Equal(t, StateExecuting, out.State)
	assert.NoError(t, out.Err)
	assert.Equal(t, "Variable set: x = 42", lastEntry(t, c).Message)

	submit(c, "/var get x")
	assert.Equal(t, "x = 42", lastEntry(t, c).Message)

	v, ok := c.Variable("x")
	require.True(t, ok)
	assert.Equal(t, consoletypes.ValueNumber, v.Kind())
}

func TestSubmit_VarSetJoinsValueAndFallsBackToString(t *testing.T) {
	c := newTestConsole()

	submit(c, "/var set greeting hello big world")
	v, _ := c.Variable("greeting")
	assert.Equal(t, consoletypes.ValueString, v.Kind())
	assert.Equal(t, "hello big world", v.String())
	assert.Equal(t, `Variable set: greeting = "hello big world"`, lastEntry(t, c).Message)

	submit(c, "/var set on true")
	v, _ = c.Variable("on")
	assert.Equal(t, consoletypes.ValueBool, v.Kind())
}

func TestSubmit_VarSubcommands(t *testing.T) {
	c := newTestConsole()

	submit(c, "/var")
	assert.Equal(t, "No variables defined", lastEntry(t, c).Message)

	c.SetVariable("b", consoletypes.StringValue("two"))
	c.SetVariable("a", consoletypes.NumberValue(1))
	submit(c, "/var list")
	entry := lastEntry(t, c)
	assert.Equal(t, "Variables", entry.Message)
	text, _ := entry.Data.Text()
	assert.Equal(t, "=== Variables (2) ===\na = 1\nb = \"two\"", text)

	submit(c, "/var get missing")
	assert.Equal(t, "Variable 'missing' is not defined", lastEntry(t, c).Message)

	submit(c, "/var delete a")
	assert.Equal(t, "Variable 'a' deleted", lastEntry(t, c).Message)
	submit(c, "/var delete a")
	assert.Equal(t, "Variable 'a' not found", lastEntry(t, c).Message)

	for _, line := range []string{"/var set x", "/var get", "/var bogus", "/var list extra"} {
		submit(c, line)
		assert.Equal(t, varUsage, lastEntry(t, c).Message, line)
	}
}

func TestSubmit_VarSetRejectsUnresolvableName(t *testing.T) {
	c := newTestConsole()

	out := submit(c, "/var set a}b 1")
	assert.Error(t, out.Err)
	assert.Empty(t, c.Variables())
}

func TestSubmit_UnknownCommand(t *testing.T) {
	c := newTestConsole()

	out := submit(c, "/nonexistent")

	assert.Equal(t, StateRejected, out.State)
	var unknown *UnknownCommandError
	require.ErrorAs(t, out.Err, &unknown)
	assert.Equal(t, "nonexistent", unknown.Name)

	logs := c.Logs()
	require.Len(t, logs, 1)
	assert.Equal(t, consoletypes.LevelDev, logs[0].Level)
	assert.Equal(t, "Unknown command: /nonexistent. Type /help for available commands.", logs[0].Message)
}

func TestSubmit_InvalidInput(t *testing.T) {
	c := newTestConsole()

	for _, line := range []string{"hello", "", "   ", "clear now"} {
		out := submit(c, line)
		assert.Equal(t, StateRejected, out.State, line)
		assert.ErrorIs(t, out.Err, ErrInvalidSyntax, line)
		assert.Equal(t, "Invalid input. Use / for commands or > for expressions.", lastEntry(t, c).Message)
	}
}

func TestSubmit_QuickClear(t *testing.T) {
	for _, keyword := range []string{"clear", "cls", "  cls  "} {
		t.Run(keyword, func(t *testing.T) {
			c := newTestConsole()
			c.Info("one")
			c.Info("two")

			out := submit(c, keyword)
			assert.Equal(t, StateCleared, out.State)
			assert.Empty(t, c.Logs())
		})
	}
}

func TestSubmit_ClearBuiltinCannotBeReplaced(t *testing.T) {
	c := newTestConsole()
	called := false
	ok := c.RegisterCommand(consoletypes.Command{
		Name:    "clear",
		Handler: func(context.Context, []string) error { called = true; return nil },
	})
	assert.False(t, ok)

	c.Info("entry")
	submit(c, "/CLEAR")

	assert.False(t, called)
	assert.Empty(t, c.Logs())
}

func TestSubmit_UnresolvedVariablesBlockExecution(t *testing.T) {
	c := newTestConsole()
	called := false
	c.RegisterCommand(consoletypes.Command{
		Name:    "echo",
		Handler: func(context.Context, []string) error { called = true; return nil },
	})

	out := submit(c, "/echo ${a} ${b}")

	assert.False(t, called)
	assert.Equal(t, StateRejected, out.State)
	var unresolved *UnresolvedVariableError
	require.ErrorAs(t, out.Err, &unresolved)
	assert.Equal(t, []string{"a", "b"}, unresolved.Names)
	assert.Equal(t, "Unresolved variables: ${a}, ${b}", lastEntry(t, c).Message)
}

func TestSubmit_RegisteredCommandReceivesResolvedArguments(t *testing.T) {
	c := newTestConsole()
	c.SetVariable("greeting", consoletypes.StringValue("hello"))
	c.SetVariable("n", consoletypes.NumberValue(3))

	var got []string
	c.RegisterCommand(consoletypes.Command{
		Name: "Echo",
		Handler: func(_ context.Context, args []string) error {
			got = args
			return nil
		},
	})

	out := submit(c, `/ECHO "${greeting} world" count=${n} 'x y'`)

	assert.Equal(t, StateExecuting, out.State)
	assert.Equal(t, "echo", out.Command)
	assert.NoError(t, out.Err)
	assert.Equal(t, []string{"hello world", "count=3", "x y"}, got)
	assert.Equal(t, []string{`/ECHO "${greeting} world" count=${n} 'x y'`}, c.History().Lines())
}

func TestSubmit_HandlerFailureBoundary(t *testing.T) {
	c := newTestConsole()
	c.RegisterCommand(consoletypes.Command{
		Name:    "fail",
		Handler: func(context.Context, []string) error { return errors.New("backend down") },
	})
	c.RegisterCommand(consoletypes.Command{
		Name:    "crash",
		Handler: func(context.Context, []string) error { panic("nil map") },
	})
	c.RegisterCommand(consoletypes.Command{Name: "empty"})

	out := submit(c, "/fail")
	var handlerErr *HandlerError
	require.ErrorAs(t, out.Err, &handlerErr)
	assert.Equal(t, "fail", handlerErr.Command)
	entry := lastEntry(t, c)
	assert.Equal(t, consoletypes.LevelError, entry.Level)
	assert.Equal(t, "Error executing command /fail:", entry.Message)
	failure, ok := entry.Data.Failure()
	require.True(t, ok)
	assert.Equal(t, "backend down", failure.Message)

	out = submit(c, "/crash")
	require.ErrorAs(t, out.Err, &handlerErr)
	var panicErr *PanicError
	require.ErrorAs(t, out.Err, &panicErr)
	assert.Equal(t, "nil map", panicErr.Value)
	failure, _ = lastEntry(t, c).Data.Failure()
	assert.Equal(t, "PanicError", failure.Name)
	assert.NotEmpty(t, failure.Trace)

	out = submit(c, "/empty")
	assert.Error(t, out.Err)

	// The console keeps working.
	submit(c, "/var set ok 1")
	assert.Equal(t, "Variable set: ok = 1", lastEntry(t, c).Message)
}

func TestSubmit_Expressions(t *testing.T) {
	eval := &fakeEvaluator{results: map[string]any{"6 * 7": 42, "name": "devconsole"}}
	c := newTestConsole(WithEvaluator(eval))

	out := submit(c, "> 6 * 7")
	assert.Equal(t, StateEvaluated, out.State)
	assert.NoError(t, out.Err)
	entry := lastEntry(t, c)
	assert.Equal(t, "> 6 * 7", entry.Message)
	assert.Equal(t, consoletypes.LevelDev, entry.Level)
	value, ok := entry.Data.Value()
	require.True(t, ok)
	assert.Equal(t, 42, value)

	submit(c, ">name")
	text, _ := lastEntry(t, c).Data.Text()
	assert.Equal(t, "devconsole", text)

	out = submit(c, "> nope")
	var exprErr *ExpressionError
	require.ErrorAs(t, out.Err, &exprErr)
	assert.Equal(t, "nope", exprErr.Expr)
	assert.Equal(t, consoletypes.PayloadFailure, lastEntry(t, c).Data.Kind())

	out = submit(c, "> explode")
	require.ErrorAs(t, out.Err, &exprErr)

	// Placeholders are not resolved on the expression path.
	submit(c, "> ${missing}")
	assert.Equal(t, "${missing}", eval.seen[len(eval.seen)-1])
	assert.Equal(t, "> ${missing}", lastEntry(t, c).Message)

	submit(c, ">")
	assert.Equal(t, "Usage: > <expression>", lastEntry(t, c).Message)
}

func TestSubmit_ExpressionsDisabledByDefault(t *testing.T) {
	c := newTestConsole()

	out := submit(c, "> 1 + 1")

	assert.ErrorIs(t, out.Err, ErrEvaluationDisabled)
	failure, ok := lastEntry(t, c).Data.Failure()
	require.True(t, ok)
	assert.Equal(t, "expression evaluation is disabled", failure.Message)
}

func TestSubmit_Export(t *testing.T) {
	exporter := &fakeExporter{}
	c := newTestConsole(WithExporter(exporter))
	c.Info("a")
	c.Info("b")

	submit(c, "/export")
	submit(c, "/export yaml")

	assert.Equal(t, []string{"", "yaml"}, exporter.formats)
	assert.Equal(t, []int{2, 3}, exporter.counts)
	entry := lastEntry(t, c)
	assert.Equal(t, "Exported 3 logs to file", entry.Message)
	path, _ := entry.Data.Text()
	assert.Equal(t, "/tmp/logs.json", path)

	exporter.err = errors.New("disk full")
	out := submit(c, "/export")
	assert.EqualError(t, out.Err, "disk full")
	assert.Equal(t, consoletypes.LevelError, lastEntry(t, c).Level)
}

func TestSubmit_Help(t *testing.T) {
	c := newTestConsole()
	noop := func(context.Context, []string) error { return nil }
	c.RegisterCommand(consoletypes.Command{Name: "http.get", Description: "GET request", Handler: noop})
	c.RegisterCommand(consoletypes.Command{Name: "http.post", Handler: noop})
	c.RegisterCommand(consoletypes.Command{Name: "ping", Description: "Ping", Handler: noop})

	submit(c, "/help")
	entry := lastEntry(t, c)
	assert.Equal(t, "DevConsole Help", entry.Message)

	value, ok := entry.Data.Value()
	require.True(t, ok)
	doc, ok := value.(HelpDocument)
	require.True(t, ok)

	var titles []string
	for _, s := range doc.Sections {
		titles = append(titles, s.Title)
	}
	assert.Equal(t, []string{
		"Core Commands", "Variable Commands", "Expression Evaluation",
		"Http Extension", "Ping Extension", "Tips",
	}, titles)

	httpSection, ok := doc.Section("Http Extension")
	require.True(t, ok)
	assert.Equal(t, []HelpItem{
		{"/http.get", "GET request"},
		{"/http.post", "No description"},
	}, httpSection.Items)

	b, err := json.Marshal(doc)
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(string(b), `{"Core Commands":{"/clear":`))
	var decoded map[string]map[string]string
	require.NoError(t, json.Unmarshal(b, &decoded))
	assert.Equal(t, "Ping", decoded["Ping Extension"]["/ping"])

	md := doc.Markdown()
	assert.Contains(t, md, "## Http Extension")
	assert.Contains(t, md, "| `/http.get` | GET request |")
}

func TestSubmit_HistoryDeduplicates(t *testing.T) {
	c := newTestConsole()

	submit(c, "/var set a 1")
	submit(c, "/help")
	submit(c, "/var set a 1")
	submit(c, "   ")

	assert.Equal(t, []string{"/var set a 1", "/help"}, c.History().Lines())
}

func TestSubmit_BareMarker(t *testing.T) {
	c := newTestConsole()

	out := submit(c, "/")

	assert.Equal(t, StateRejected, out.State)
	assert.Equal(t, "Unknown command: /. Type /help for available commands.", lastEntry(t, c).Message)
}

func TestConsole_EmitHelpers(t *testing.T) {
	c := newTestConsole()

	c.Debug("no data")
	c.Info("text", "hello")
	c.Warn("structured", map[string]int{"a": 1})
	c.Error("failure", errors.New("bad"))
	c.Dev("many", 1, "two")

	logs := c.Logs()
	require.Len(t, logs, 5)
	assert.Equal(t, consoletypes.PayloadNone, logs[0].Data.Kind())
	assert.Equal(t, consoletypes.PayloadText, logs[1].Data.Kind())
	assert.Equal(t, consoletypes.PayloadStructured, logs[2].Data.Kind())
	assert.Equal(t, consoletypes.PayloadFailure, logs[3].Data.Kind())
	many, _ := logs[4].Data.Value()
	assert.Equal(t, []any{1, "two"}, many)

	assert.Equal(t, "00000001-0000-4000-8000-000000000001", logs[0].ID)
	assert.Equal(t, testutils.BaseTime, logs[0].Timestamp)
}

func TestConsole_SubscribeSeesDispatchResults(t *testing.T) {
	c := newTestConsole()

	var mu sync.Mutex
	var sizes []int
	unsubscribe := c.Subscribe(func(entries []consoletypes.LogEntry) {
		mu.Lock()
		defer mu.Unlock()
		sizes = append(sizes, len(entries))
	})
	defer unsubscribe()

	submit(c, "/nonexistent")
	submit(c, "cls")

	assert.Equal(t, []int{0, 1, 0}, sizes)
}

func TestConsole_ConfigureCapacity(t *testing.T) {
	c := newTestConsole(WithConfig(consoletypes.WithMaxLogs(2)))
	for _, m := range []string{"a", "b", "c"} {
		c.Info(m)
	}

	logs := c.Logs()
	require.Len(t, logs, 2)
	assert.Equal(t, "b", logs[0].Message)
	assert.Equal(t, 2, c.Config().MaxLogs)
}

func TestConsole_CompletionSnapshot(t *testing.T) {
	c := newTestConsole()
	c.RegisterCommand(consoletypes.Command{Name: "cloud.sync", Handler: func(context.Context, []string) error { return nil }})
	c.SetVariable("token", consoletypes.StringValue("t"))

	snap := c.CompletionSnapshot()
	assert.Equal(t, []string{"clear", "export", "help", "var", "cloud.sync"}, snap.Commands)
	assert.Equal(t, []string{"token"}, snap.Variables)
}

func TestConsole_CommandAccessors(t *testing.T) {
	c := newTestConsole()
	c.RegisterCommand(consoletypes.Command{Name: "Temp", Handler: func(context.Context, []string) error { return nil }})

	_, ok := c.Command("TEMP")
	assert.True(t, ok)
	assert.Len(t, c.Commands(), 1)
	assert.True(t, c.UnregisterCommand("temp"))
	assert.False(t, c.UnregisterCommand("help"))

	res := c.ResolveVariables("${nothing}")
	assert.Equal(t, []string{"nothing"}, res.Unresolved)
	assert.False(t, c.DeleteVariable("nothing"))
}

func TestState_String(t *testing.T) {
	assert.Equal(t, "Idle", StateIdle.String())
	assert.Equal(t, "Rejected", StateRejected.String())
	assert.Equal(t, "Unknown", State(99).String())
}
