package consoletypes

import "context"

// DefaultMaxLogs is the default log store capacity.
const DefaultMaxLogs = 1000

// Config holds the log store settings.
type Config struct {
	MaxLogs              int  `json:"maxLogs"`
	EnableConsoleOutput  bool `json:"enableConsoleOutput"`
	EnableSourceTracking bool `json:"enableSourceTracking"`
}

// DefaultConfig returns the settings a fresh console starts with.
func DefaultConfig() Config {
	return Config{
		MaxLogs:              DefaultMaxLogs,
		EnableConsoleOutput:  true,
		EnableSourceTracking: true,
	}
}

// ConfigOption applies a partial configuration update.
type ConfigOption func(*Config)

// WithMaxLogs sets the store capacity. Non-positive values are ignored.
func WithMaxLogs(n int) ConfigOption {
	return func(c *Config) {
		if n > 0 {
			c.MaxLogs = n
		}
	}
}

// WithConsoleOutput toggles mirroring entries to the platform sink.
func WithConsoleOutput(enabled bool) ConfigOption {
	return func(c *Config) {
		c.EnableConsoleOutput = enabled
	}
}

// WithSourceTracking toggles call-site capture on emission.
func WithSourceTracking(enabled bool) ConfigOption {
	return func(c *Config) {
		c.EnableSourceTracking = enabled
	}
}

// Listener receives the full log snapshot after every change.
type Listener func(entries []LogEntry)

// Console is the contract shared by the live console and its disabled variant.
type Console interface {
	Configure(opts ...ConfigOption)
	Config() Config

	Emit(level Level, message string, data Payload) LogEntry
	Debug(message string, data ...any)
	Info(message string, data ...any)
	Warn(message string, data ...any)
	Error(message string, data ...any)
	Dev(message string, data ...any)

	Logs() []LogEntry
	Clear()
	Subscribe(listener Listener) (unsubscribe func())

	RegisterCommand(cmd Command) bool
	UnregisterCommand(name string) bool
	Command(name string) (Command, bool)
	Commands() map[string]Command

	SetVariable(name string, value Value)
	Variable(name string) (Value, bool)
	DeleteVariable(name string) bool
	Variables() Variables
	ResolveVariables(text string) Resolution
}

// Evaluator is the free-form expression capability behind the ">" prefix.
// It executes operator-supplied code and must only be wired for trusted operators.
type Evaluator interface {
	Evaluate(ctx context.Context, expr string) (any, error)
}
