package console

import "devconsole/pkg/consoletypes"

// Disabled satisfies the console contract without storing anything. It is
// what NewDefault returns in builds tagged nodevconsole.
type Disabled struct{}

var _ consoletypes.Console = Disabled{}

func (Disabled) Configure(...consoletypes.ConfigOption) {}

// Config reports a zero capacity with mirroring and tracking off.
func (Disabled) Config() consoletypes.Config { return consoletypes.Config{} }

func (Disabled) Emit(consoletypes.Level, string, consoletypes.Payload) consoletypes.LogEntry {
	return consoletypes.LogEntry{}
}

func (Disabled) Debug(string, ...any) {}
func (Disabled) Info(string, ...any)  {}
func (Disabled) Warn(string, ...any)  {}
func (Disabled) Error(string, ...any) {}
func (Disabled) Dev(string, ...any)   {}

func (Disabled) Logs() []consoletypes.LogEntry { return nil }
func (Disabled) Clear()                        {}

// Subscribe never calls listener.
func (Disabled) Subscribe(consoletypes.Listener) func() { return func() {} }

func (Disabled) RegisterCommand(consoletypes.Command) bool { return false }
func (Disabled) UnregisterCommand(string) bool             { return false }
func (Disabled) Command(string) (consoletypes.Command, bool) {
	return consoletypes.Command{}, false
}
func (Disabled) Commands() map[string]consoletypes.Command {
	return map[string]consoletypes.Command{}
}

func (Disabled) SetVariable(string, consoletypes.Value) {}
func (Disabled) Variable(string) (consoletypes.Value, bool) {
	return consoletypes.Value{}, false
}
func (Disabled) DeleteVariable(string) bool { return false }
func (Disabled) Variables() consoletypes.Variables {
	return consoletypes.Variables{}
}

// ResolveVariables returns text unchanged with nothing unresolved.
func (Disabled) ResolveVariables(text string) consoletypes.Resolution {
	return consoletypes.Resolution{Resolved: text}
}
