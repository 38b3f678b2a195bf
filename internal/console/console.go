// Package console is the developer console engine: it owns the log store,
// variables, command registry and history, and dispatches submitted lines.
package console

import (
	"devconsole/internal/autocomplete"
	"devconsole/internal/commands"
	"devconsole/internal/export"
	"devconsole/internal/history"
	"devconsole/internal/logstore"
	"devconsole/internal/variables"
	"devconsole/pkg/consoletypes"
)

// Console is the live console. Create it once with New and share it.
type Console struct {
	store     *logstore.Store
	vars      *variables.Store
	registry  *commands.Registry
	history   *history.History
	evaluator consoletypes.Evaluator
	exporter  Exporter
}

var _ consoletypes.Console = (*Console)(nil)

type settings struct {
	storeOpts   []logstore.Option
	evaluator   consoletypes.Evaluator
	exporter    Exporter
	historySize int
}

// Option configures a Console at construction.
type Option func(*settings)

// WithEvaluator enables the ">" expression path.
func WithEvaluator(e consoletypes.Evaluator) Option {
	return func(s *settings) { s.evaluator = e }
}

// WithExporter replaces the file exporter used by /export.
func WithExporter(e Exporter) Option {
	return func(s *settings) { s.exporter = e }
}

// WithStoreOptions passes options through to the log store.
func WithStoreOptions(opts ...logstore.Option) Option {
	return func(s *settings) { s.storeOpts = append(s.storeOpts, opts...) }
}

// WithConfig sets the initial log store configuration.
func WithConfig(opts ...consoletypes.ConfigOption) Option {
	return WithStoreOptions(logstore.WithConfig(opts...))
}

// WithHistorySize caps the input history.
func WithHistorySize(n int) Option {
	return func(s *settings) { s.historySize = n }
}

// New creates a console with an empty store, no variables and no commands.
func New(opts ...Option) *Console {
	s := settings{historySize: history.DefaultSize}
	for _, opt := range opts {
		opt(&s)
	}
	if s.exporter == nil {
		s.exporter = export.NewFileExporter(".", export.FormatJSON)
	}

	storeOpts := append([]logstore.Option{
		logstore.WithSourceLocator(logstore.CallerLocator("devconsole/internal/console.")),
	}, s.storeOpts...)

	return &Console{
		store:     logstore.New(storeOpts...),
		vars:      variables.NewStore(),
		registry:  commands.NewRegistry(),
		history:   history.New(s.historySize),
		evaluator: s.evaluator,
		exporter:  s.exporter,
	}
}

// Configure applies a partial configuration update.
func (c *Console) Configure(opts ...consoletypes.ConfigOption) {
	c.store.Configure(opts...)
}

// Config returns the current configuration.
func (c *Console) Config() consoletypes.Config {
	return c.store.Config()
}

// Emit records an entry.
func (c *Console) Emit(level consoletypes.Level, message string, data consoletypes.Payload) consoletypes.LogEntry {
	return c.store.Emit(level, message, data)
}

// Debug logs at debug level.
func (c *Console) Debug(message string, data ...any) { c.emitAny(consoletypes.LevelDebug, message, data) }

// Info logs at info level.
func (c *Console) Info(message string, data ...any) { c.emitAny(consoletypes.LevelInfo, message, data) }

// Warn logs at warn level.
func (c *Console) Warn(message string, data ...any) { c.emitAny(consoletypes.LevelWarn, message, data) }

// Error logs at error level.
func (c *Console) Error(message string, data ...any) { c.emitAny(consoletypes.LevelError, message, data) }

// Dev logs at dev level, the channel the console answers on.
func (c *Console) Dev(message string, data ...any) { c.emitAny(consoletypes.LevelDev, message, data) }

func (c *Console) emitAny(level consoletypes.Level, message string, data []any) {
	c.store.Emit(level, message, payloadOf(data))
}

// payloadOf classifies variadic data: nothing, one value, or a list.
func payloadOf(data []any) consoletypes.Payload {
	switch len(data) {
	case 0:
		return consoletypes.Payload{}
	case 1:
		return consoletypes.PayloadOf(data[0])
	default:
		return consoletypes.Structured(data)
	}
}

// Logs returns a copy of the retained entries.
func (c *Console) Logs() []consoletypes.LogEntry {
	return c.store.All()
}

// Clear empties the log store.
func (c *Console) Clear() {
	c.store.Clear()
}

// Subscribe registers a snapshot listener; see logstore.Store.Subscribe.
func (c *Console) Subscribe(listener consoletypes.Listener) func() {
	return c.store.Subscribe(listener)
}

// RegisterCommand adds a command unless its name is reserved.
func (c *Console) RegisterCommand(cmd consoletypes.Command) bool {
	return c.registry.Register(cmd)
}

// UnregisterCommand removes a registered command.
func (c *Console) UnregisterCommand(name string) bool {
	return c.registry.Unregister(name)
}

// Command looks a registered command up case-insensitively.
func (c *Console) Command(name string) (consoletypes.Command, bool) {
	return c.registry.Get(name)
}

// Commands returns a copy of the registry.
func (c *Console) Commands() map[string]consoletypes.Command {
	return c.registry.List()
}

// SetVariable binds name to value.
func (c *Console) SetVariable(name string, value consoletypes.Value) {
	c.vars.Set(name, value)
}

// Variable returns the value bound to name.
func (c *Console) Variable(name string) (consoletypes.Value, bool) {
	return c.vars.Get(name)
}

// DeleteVariable removes a binding.
func (c *Console) DeleteVariable(name string) bool {
	return c.vars.Delete(name)
}

// Variables returns a copy of every binding.
func (c *Console) Variables() consoletypes.Variables {
	return c.vars.List()
}

// ResolveVariables substitutes ${name} placeholders in text.
func (c *Console) ResolveVariables(text string) consoletypes.Resolution {
	return c.vars.Resolve(text)
}

// History returns submitted lines, most recent first.
func (c *Console) History() *history.History {
	return c.history
}

// CompletionSnapshot returns the names autocomplete draws from.
func (c *Console) CompletionSnapshot() autocomplete.Snapshot {
	return autocomplete.Snapshot{
		Commands:  append(append([]string{}, commands.BuiltinNames...), c.registry.Names()...),
		Variables: c.vars.Names(),
	}
}
