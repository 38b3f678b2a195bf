// Package consoletypes defines the shared data model for the developer console.
// This file contains the command contract extensions must satisfy and the
// result types of variable resolution.
package consoletypes

import "context"

// HandlerFunc runs a registered command with its argument vector.
// Handlers that start background work must report completion through log
// emission; the dispatcher does not wait for them.
type HandlerFunc func(ctx context.Context, args []string) error

// Command binds a name to a handler. Names are case-insensitive and may use a
// dot-separated prefix ("http.get") that help output groups by.
type Command struct {
	Name        string
	Description string
	Handler     HandlerFunc
}

// Variables is a name to value mapping returned by listings.
type Variables map[string]Value

// Resolution is the result of substituting ${name} placeholders in a line.
type Resolution struct {
	Resolved   string
	Unresolved []string
}

// OK reports whether every placeholder had a binding.
func (r Resolution) OK() bool {
	return len(r.Unresolved) == 0
}
