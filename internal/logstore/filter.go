package logstore

import (
	"strings"

	"devconsole/pkg/consoletypes"
)

// Filter selects entries by level and free text. The zero value matches everything.
type Filter struct {
	// Level restricts entries to one level; empty means all levels.
	Level consoletypes.Level
	// Text is matched case-insensitively against message, level, data and source file.
	Text string
}

// Active reports whether the filter excludes anything.
func (f Filter) Active() bool {
	return f.Level != "" || f.Text != ""
}

// Match reports whether entry passes the filter.
func (f Filter) Match(entry consoletypes.LogEntry) bool {
	if f.Level != "" && entry.Level != f.Level {
		return false
	}
	if f.Text == "" {
		return true
	}

	needle := strings.ToLower(f.Text)
	if strings.Contains(strings.ToLower(entry.Message), needle) ||
		strings.Contains(entry.Level.String(), needle) ||
		strings.Contains(strings.ToLower(entry.Data.Format(false)), needle) {
		return true
	}
	return entry.Source != nil && strings.Contains(strings.ToLower(entry.Source.File), needle)
}

// Apply returns the entries that pass the filter, preserving order.
func (f Filter) Apply(entries []consoletypes.LogEntry) []consoletypes.LogEntry {
	if !f.Active() {
		return entries
	}
	out := make([]consoletypes.LogEntry, 0, len(entries))
	for _, e := range entries {
		if f.Match(e) {
			out = append(out, e)
		}
	}
	return out
}

// NextLevel cycles all → debug → info → warn → error → dev → all.
func (f Filter) NextLevel() Filter {
	if f.Level == "" {
		f.Level = consoletypes.Levels[0]
		return f
	}
	for i, l := range consoletypes.Levels {
		if l == f.Level {
			if i+1 < len(consoletypes.Levels) {
				f.Level = consoletypes.Levels[i+1]
			} else {
				f.Level = ""
			}
			return f
		}
	}
	f.Level = ""
	return f
}
