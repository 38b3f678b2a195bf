// Package storage adds storage.* and cookies.* commands for inspecting
// key/value stores and the HTTP cookie jar from the console.
package storage

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"sync"

	"github.com/joho/godotenv"

	"devconsole/internal/logger"
)

// Area is a string key/value store.
type Area interface {
	Get(key string) (string, bool, error)
	Set(key, value string) error
	All() (map[string]string, error)
	Clear() error
}

// MemoryArea is an Area that lives as long as the process.
type MemoryArea struct {
	mu    sync.RWMutex
	items map[string]string
}

// NewMemoryArea creates an empty in-memory area.
func NewMemoryArea() *MemoryArea {
	return &MemoryArea{items: map[string]string{}}
}

func (m *MemoryArea) Get(key string) (string, bool, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	v, ok := m.items[key]
	return v, ok, nil
}

func (m *MemoryArea) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items[key] = value
	return nil
}

func (m *MemoryArea) All() (map[string]string, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make(map[string]string, len(m.items))
	for k, v := range m.items {
		out[k] = v
	}
	return out, nil
}

func (m *MemoryArea) Clear() error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.items = map[string]string{}
	return nil
}

var fileKeyPattern = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.]*$`)

// ErrInvalidKey is returned when a key cannot be stored in a FileArea.
var ErrInvalidKey = errors.New("invalid storage key")

// FileArea is an Area persisted as a dotenv file. Every call reads the file
// so edits made outside the console are picked up.
type FileArea struct {
	mu   sync.Mutex
	path string
}

// NewFileArea creates an area backed by path. The file is created on first write.
func NewFileArea(path string) *FileArea {
	return &FileArea{path: path}
}

// Path returns the backing file.
func (f *FileArea) Path() string {
	return f.path
}

func (f *FileArea) Get(key string) (string, bool, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.read()
	if err != nil {
		return "", false, err
	}
	v, ok := items[key]
	return v, ok, nil
}

func (f *FileArea) Set(key, value string) error {
	if !fileKeyPattern.MatchString(key) {
		return fmt.Errorf("%w %q: use letters, digits, '_' or '.'", ErrInvalidKey, key)
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	items, err := f.read()
	if err != nil {
		return err
	}
	items[key] = value
	return f.write(items)
}

func (f *FileArea) All() (map[string]string, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.read()
}

func (f *FileArea) Clear() error {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.write(map[string]string{})
}

func (f *FileArea) read() (map[string]string, error) {
	items, err := godotenv.Read(f.path)
	if errors.Is(err, os.ErrNotExist) {
		return map[string]string{}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read storage file %s: %w", f.path, err)
	}
	return items, nil
}

func (f *FileArea) write(items map[string]string) error {
	if dir := filepath.Dir(f.path); dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create storage directory: %w", err)
		}
	}
	if err := godotenv.Write(items, f.path); err != nil {
		return fmt.Errorf("failed to write storage file %s: %w", f.path, err)
	}
	logger.Debug("Storage file written", "path", f.path, "keys", len(items))
	return nil
}

// sortedKeys returns the keys of items in order.
func sortedKeys(items map[string]string) []string {
	keys := make([]string, 0, len(items))
	for k := range items {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
