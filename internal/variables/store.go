// Package variables provides the console's variable store and the ${name}
// placeholder resolver.
package variables

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"

	"devconsole/internal/logger"
	"devconsole/pkg/consoletypes"
)

// Store maps case-sensitive names to scalar values.
type Store struct {
	mu   sync.RWMutex
	vars map[string]consoletypes.Value
}

// NewStore creates an empty store.
func NewStore() *Store {
	return &Store{vars: make(map[string]consoletypes.Value)}
}

// Set creates or overwrites a binding.
func (s *Store) Set(name string, value consoletypes.Value) {
	s.mu.Lock()
	s.vars[name] = value
	s.mu.Unlock()

	logger.VariableOperation("set", name, value.String())
}

// Get returns the value bound to name.
func (s *Store) Get(name string) (consoletypes.Value, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	v, ok := s.vars[name]
	return v, ok
}

// Delete removes a binding and reports whether one existed.
func (s *Store) Delete(name string) bool {
	s.mu.Lock()
	_, ok := s.vars[name]
	delete(s.vars, name)
	s.mu.Unlock()

	if ok {
		logger.VariableOperation("delete", name, "")
	}
	return ok
}

// List returns a copy of every binding.
func (s *Store) List() consoletypes.Variables {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make(consoletypes.Variables, len(s.vars))
	for k, v := range s.vars {
		out[k] = v
	}
	return out
}

// Names returns the bound names in lexicographic order.
func (s *Store) Names() []string {
	s.mu.RLock()
	names := make([]string, 0, len(s.vars))
	for k := range s.vars {
		names = append(names, k)
	}
	s.mu.RUnlock()

	sort.Strings(names)
	return names
}

// ParseLiteral interprets raw as a JSON number, boolean or string literal.
// Anything else, including objects, arrays and null, is kept as the raw text.
func ParseLiteral(raw string) consoletypes.Value {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err != nil {
		return consoletypes.StringValue(raw)
	}
	switch v := decoded.(type) {
	case float64:
		return consoletypes.NumberValue(v)
	case bool:
		return consoletypes.BoolValue(v)
	case string:
		return consoletypes.StringValue(v)
	default:
		return consoletypes.StringValue(raw)
	}
}

// ValidateName rejects names that no placeholder could ever reference.
func ValidateName(name string) error {
	if name == "" {
		return fmt.Errorf("variable name cannot be empty")
	}
	if strings.ContainsRune(name, '}') {
		return fmt.Errorf("variable name %q cannot contain '}'", name)
	}
	return nil
}
