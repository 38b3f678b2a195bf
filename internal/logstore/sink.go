package logstore

import (
	"os"
	"strings"

	"devconsole/internal/logger"
	"devconsole/pkg/consoletypes"
)

// Sink is the platform console entries are mirrored to when console output is
// enabled. *log.Logger from charmbracelet/log satisfies it.
type Sink interface {
	Error(msg interface{}, keyvals ...interface{})
	Warn(msg interface{}, keyvals ...interface{})
	Print(msg interface{}, keyvals ...interface{})
}

// DefaultSink mirrors to stderr through a styled component logger.
func DefaultSink() Sink {
	return logger.NewStyledLogger(os.Stderr, "devconsole")
}

// mirrorEntry picks the error, warn or default channel by level.
func mirrorEntry(sink Sink, entry consoletypes.LogEntry) {
	if sink == nil {
		return
	}

	msg := "[" + strings.ToUpper(entry.Level.String()) + "] " + entry.Message
	var keyvals []interface{}
	if entry.HasData() {
		keyvals = append(keyvals, "data", entry.Data.Format(false))
	}

	switch entry.Level {
	case consoletypes.LevelError:
		sink.Error(msg, keyvals...)
	case consoletypes.LevelWarn:
		sink.Warn(msg, keyvals...)
	default:
		sink.Print(msg, keyvals...)
	}
}
