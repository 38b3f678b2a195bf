// Package autocomplete ranks command and variable completions for raw console
// input. It works on the unresolved text the operator is typing.
package autocomplete

import (
	"sort"
	"strings"

	"devconsole/internal/parser"
)

// Mode is the kind of completion the input calls for.
type Mode int

const (
	// ModeNone means autocomplete is inactive.
	ModeNone Mode = iota
	// ModeCommand completes the command name after the marker.
	ModeCommand
	// ModeVariable completes the name inside an open ${ placeholder.
	ModeVariable
)

func (m Mode) String() string {
	switch m {
	case ModeCommand:
		return "command"
	case ModeVariable:
		return "variable"
	default:
		return "none"
	}
}

// Snapshot is the console state completions are drawn from.
type Snapshot struct {
	// Commands holds built-in and registered command names, without the marker.
	Commands []string
	// Variables holds the defined variable names.
	Variables []string
}

// Suggestions is a ranked completion list for one input.
type Suggestions struct {
	Mode    Mode
	Partial string
	Items   []string
}

// Active reports whether there is anything to offer.
func (s Suggestions) Active() bool {
	return s.Mode != ModeNone && len(s.Items) > 0
}

// Suggest picks the completion mode for input and ranks the candidates.
// Variable mode wins when the last "${" comes after the last "}".
func Suggest(input string, snap Snapshot) Suggestions {
	if open := openPlaceholder(input); open >= 0 {
		partial := input[open+2:]
		return Suggestions{
			Mode:    ModeVariable,
			Partial: partial,
			Items:   rank(snap.Variables, partial),
		}
	}

	if strings.HasPrefix(input, parser.CommandMarker) {
		partial := strings.TrimPrefix(input, parser.CommandMarker)
		ranked := rank(snap.Commands, partial)
		items := make([]string, len(ranked))
		for i, name := range ranked {
			items[i] = parser.CommandMarker + name
		}
		return Suggestions{Mode: ModeCommand, Partial: partial, Items: items}
	}

	return Suggestions{}
}

// Apply replaces the relevant part of input with choice. Commands replace the
// whole input and gain a trailing space; variables replace the open
// placeholder and keep the text before it.
func Apply(input string, mode Mode, choice string) string {
	switch mode {
	case ModeCommand:
		return choice + " "
	case ModeVariable:
		open := strings.LastIndex(input, "${")
		if open < 0 {
			return input
		}
		return input[:open] + "${" + choice + "}"
	default:
		return input
	}
}

// openPlaceholder returns the index of an unclosed "${" or -1.
func openPlaceholder(input string) int {
	open := strings.LastIndex(input, "${")
	if open >= 0 && open > strings.LastIndex(input, "}") {
		return open
	}
	return -1
}

// rank keeps the names containing partial (case-insensitively), putting names
// that start with it first. Each group is sorted.
func rank(names []string, partial string) []string {
	search := strings.ToLower(partial)

	sorted := dedupe(names)
	sort.Strings(sorted)

	var starts, contains []string
	for _, name := range sorted {
		lower := strings.ToLower(name)
		switch {
		case strings.HasPrefix(lower, search):
			starts = append(starts, name)
		case strings.Contains(lower, search):
			contains = append(contains, name)
		}
	}
	return append(starts, contains...)
}

func dedupe(names []string) []string {
	seen := make(map[string]struct{}, len(names))
	out := make([]string, 0, len(names))
	for _, n := range names {
		if _, ok := seen[n]; ok {
			continue
		}
		seen[n] = struct{}{}
		out = append(out, n)
	}
	return out
}
