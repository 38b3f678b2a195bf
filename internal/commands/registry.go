// Package commands provides the console's command registry.
// Names are case-insensitive; the built-in names are reserved and can never be
// registered or unregistered.
package commands

import (
	"sort"
	"strings"
	"sync"

	"devconsole/internal/logger"
	"devconsole/pkg/consoletypes"
)

// BuiltinNames are the names the dispatcher handles itself.
var BuiltinNames = []string{"clear", "export", "help", "var"}

// IsBuiltin reports whether name (in any case) is reserved.
func IsBuiltin(name string) bool {
	n := normalize(name)
	for _, b := range BuiltinNames {
		if n == b {
			return true
		}
	}
	return false
}

// Registry manages command registration and lookup.
// It is safe for concurrent use.
type Registry struct {
	mu       sync.RWMutex
	commands map[string]consoletypes.Command
}

// NewRegistry creates an empty registry.
func NewRegistry() *Registry {
	return &Registry{
		commands: make(map[string]consoletypes.Command),
	}
}

// Register adds or replaces a command. It returns false without changing
// anything when the name is empty or reserved.
func (r *Registry) Register(cmd consoletypes.Command) bool {
	name := normalize(cmd.Name)
	if name == "" {
		logger.Warn("Cannot register command with an empty name")
		return false
	}
	if IsBuiltin(name) {
		logger.Warn("Cannot register command: name is reserved for built-in command", "command", cmd.Name)
		return false
	}

	r.mu.Lock()
	_, replaced := r.commands[name]
	r.commands[name] = cmd
	r.mu.Unlock()

	logger.Debug("Command registered", "command", name, "replaced", replaced)
	return true
}

// Unregister removes a command. It returns false for built-ins and for names
// that were not registered.
func (r *Registry) Unregister(name string) bool {
	if IsBuiltin(name) {
		logger.Warn("Cannot unregister built-in command", "command", name)
		return false
	}

	key := normalize(name)
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.commands[key]; !ok {
		return false
	}
	delete(r.commands, key)
	return true
}

// Get looks a command up case-insensitively.
func (r *Registry) Get(name string) (consoletypes.Command, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	cmd, ok := r.commands[normalize(name)]
	return cmd, ok
}

// List returns a copy of the registry keyed by normalized name.
func (r *Registry) List() map[string]consoletypes.Command {
	r.mu.RLock()
	defer r.mu.RUnlock()
	out := make(map[string]consoletypes.Command, len(r.commands))
	for k, v := range r.commands {
		out[k] = v
	}
	return out
}

// Names returns the registered names, sorted.
func (r *Registry) Names() []string {
	r.mu.RLock()
	names := make([]string, 0, len(r.commands))
	for k := range r.commands {
		names = append(names, k)
	}
	r.mu.RUnlock()

	sort.Strings(names)
	return names
}

// Namespace returns the dot-separated prefix of a command name, or "" when
// the name has none. Help output groups commands by it.
func Namespace(name string) string {
	prefix, _, found := strings.Cut(name, ".")
	if !found {
		return ""
	}
	return prefix
}

func normalize(name string) string {
	return strings.ToLower(strings.TrimSpace(name))
}
