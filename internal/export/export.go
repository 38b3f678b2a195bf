// Package export writes log snapshots to files. The document carries the
// export time, the entry count, and each entry without its id.
package export

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	"devconsole/internal/logger"
	"devconsole/pkg/consoletypes"
)

// Supported formats.
const (
	FormatJSON = "json"
	FormatYAML = "yaml"
)

// Entry is the exported form of a log entry.
type Entry struct {
	Timestamp string               `json:"timestamp" yaml:"timestamp"`
	Level     consoletypes.Level   `json:"level" yaml:"level"`
	Message   string               `json:"message" yaml:"message"`
	Data      consoletypes.Payload `json:"data" yaml:"data"`
	Source    *consoletypes.Source `json:"source,omitempty" yaml:"source,omitempty"`
}

// EntryOf converts a log entry into its exported form.
func EntryOf(e consoletypes.LogEntry) Entry {
	return Entry{
		Timestamp: ISOTime(e.Timestamp),
		Level:     e.Level,
		Message:   e.Message,
		Data:      e.Data,
		Source:    e.Source,
	}
}

// Document is the exported snapshot.
type Document struct {
	ExportDate string  `json:"exportDate" yaml:"exportDate"`
	TotalLogs  int     `json:"totalLogs" yaml:"totalLogs"`
	Logs       []Entry `json:"logs" yaml:"logs"`
}

// NewDocument builds a document from entries, stamped with at.
func NewDocument(entries []consoletypes.LogEntry, at time.Time) Document {
	logs := make([]Entry, len(entries))
	for i, e := range entries {
		logs[i] = EntryOf(e)
	}
	return Document{
		ExportDate: ISOTime(at),
		TotalLogs:  len(entries),
		Logs:       logs,
	}
}

// ParseFormat normalizes a format name. Empty means JSON.
func ParseFormat(name string) (string, error) {
	switch strings.ToLower(strings.TrimSpace(name)) {
	case "", FormatJSON:
		return FormatJSON, nil
	case FormatYAML, "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("unsupported export format %q (use json or yaml)", name)
	}
}

// Encode serializes doc: JSON with two-space indentation, or YAML.
func Encode(doc Document, format string) ([]byte, error) {
	format, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}

	if format == FormatYAML {
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(doc); err != nil {
			return nil, fmt.Errorf("failed to encode yaml export: %w", err)
		}
		if err := enc.Close(); err != nil {
			return nil, fmt.Errorf("failed to encode yaml export: %w", err)
		}
		return buf.Bytes(), nil
	}

	b, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("failed to encode json export: %w", err)
	}
	return b, nil
}

// FileName returns logs-<ISO timestamp with ':' and '.' replaced by '-'>.<ext>.
func FileName(at time.Time, format string) string {
	return StampedName("logs", at, format)
}

// StampedName returns <prefix>-<filename-safe ISO timestamp>.<ext>.
func StampedName(prefix string, at time.Time, ext string) string {
	stamp := strings.NewReplacer(":", "-", ".", "-").Replace(ISOTime(at))
	return prefix + "-" + stamp + "." + ext
}

// FileExporter writes documents into a directory.
type FileExporter struct {
	Dir           string
	DefaultFormat string
	Now           func() time.Time
}

// NewFileExporter creates an exporter writing to dir.
func NewFileExporter(dir, defaultFormat string) *FileExporter {
	return &FileExporter{Dir: dir, DefaultFormat: defaultFormat, Now: time.Now}
}

// Export writes entries in format (or the default format) and returns the file path.
func (f *FileExporter) Export(ctx context.Context, entries []consoletypes.LogEntry, format string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	if format == "" {
		format = f.DefaultFormat
	}
	format, err := ParseFormat(format)
	if err != nil {
		return "", err
	}

	now := time.Now
	if f.Now != nil {
		now = f.Now
	}
	at := now()

	data, err := Encode(NewDocument(entries, at), format)
	if err != nil {
		return "", err
	}

	dir := f.Dir
	if dir == "" {
		dir = "."
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", fmt.Errorf("failed to create export directory: %w", err)
	}

	path := filepath.Join(dir, FileName(at, format))
	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write export file: %w", err)
	}

	logger.Debug("Logs exported", "path", path, "count", len(entries), "format", format)
	return path, nil
}

// isoTime renders t like JavaScript's toISOString: UTC with milliseconds.
func ISOTime(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
