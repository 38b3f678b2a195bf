// Package consoletypes defines the shared data model for the developer console.
// This file contains log entry types: levels, source locators and the entry record itself.
package consoletypes

import (
	"fmt"
	"strings"
	"time"
)

// Level is the severity tag attached to every log entry.
type Level string

const (
	// LevelDebug is for verbose diagnostic output.
	LevelDebug Level = "debug"
	// LevelInfo is for general informational output.
	LevelInfo Level = "info"
	// LevelWarn is for recoverable problems.
	LevelWarn Level = "warn"
	// LevelError is for failures.
	LevelError Level = "error"
	// LevelDev is the channel used by the console itself to answer the operator.
	LevelDev Level = "dev"
)

// Levels lists every level in display order.
var Levels = []Level{LevelDebug, LevelInfo, LevelWarn, LevelError, LevelDev}

// LevelColors maps each level to its display colour.
var LevelColors = map[Level]string{
	LevelDebug: "#AAAAAA",
	LevelInfo:  "#0080FF",
	LevelWarn:  "#FFA500",
	LevelError: "#FF0000",
	LevelDev:   "#be34ff",
}

// String returns the lowercase level name.
func (l Level) String() string {
	return string(l)
}

// Valid reports whether l is one of the known levels.
func (l Level) Valid() bool {
	for _, known := range Levels {
		if l == known {
			return true
		}
	}
	return false
}

// ParseLevel converts a level name into a Level.
func ParseLevel(name string) (Level, error) {
	level := Level(strings.ToLower(strings.TrimSpace(name)))
	if !level.Valid() {
		return "", fmt.Errorf("unknown log level %q", name)
	}
	return level, nil
}

// Source locates the call site that produced a log entry.
// Column is zero when the host cannot report it.
type Source struct {
	File   string `json:"file" yaml:"file"`
	Line   int    `json:"line" yaml:"line"`
	Column int    `json:"column" yaml:"column"`
}

// String renders the locator as file:line:column.
func (s Source) String() string {
	return fmt.Sprintf("%s:%d:%d", s.File, s.Line, s.Column)
}

// LogEntry is an immutable record in the log store.
// Entries are only created by the store; callers receive copies.
type LogEntry struct {
	ID        string
	Timestamp time.Time
	Level     Level
	Message   string
	Data      Payload
	Source    *Source
}

// HasData reports whether the entry carries a payload.
func (e LogEntry) HasData() bool {
	return e.Data.Kind() != PayloadNone
}
