package storage

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"devconsole/internal/export"
	"devconsole/internal/extensions/httpext"
	"devconsole/internal/logger"
	"devconsole/pkg/consoletypes"
)

const (
	localName   = "localStorage"
	sessionName = "sessionStorage"
)

// CookieJar is the part of the HTTP cookie jar the cookies.* commands use.
type CookieJar interface {
	List() []httpext.Cookie
	ClearDomain(domain string) int
}

// Extension holds the two storage areas and an optional cookie jar.
type Extension struct {
	console consoletypes.Console
	local   Area
	session Area
	cookies CookieJar
	dir     string
	now     func() time.Time
}

// Option configures an Extension.
type Option func(*Extension)

// WithLocal replaces the persistent area.
func WithLocal(area Area) Option {
	return func(e *Extension) { e.local = area }
}

// WithLocalFile persists the "ls" area in a dotenv file.
func WithLocalFile(path string) Option {
	return func(e *Extension) { e.local = NewFileArea(path) }
}

// WithCookies exposes a cookie jar through cookies.list and cookies.clear.
func WithCookies(jar CookieJar) Option {
	return func(e *Extension) { e.cookies = jar }
}

// WithExportDir sets where storage.export writes.
func WithExportDir(dir string) Option {
	return func(e *Extension) { e.dir = dir }
}

// WithClock overrides the export timestamp source.
func WithClock(now func() time.Time) Option {
	return func(e *Extension) { e.now = now }
}

// New creates the extension. Without options both areas live in memory and
// there are no cookies.
func New(console consoletypes.Console, opts ...Option) *Extension {
	e := &Extension{
		console: console,
		local:   NewMemoryArea(),
		session: NewMemoryArea(),
		dir:     ".",
		now:     time.Now,
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Activate creates the extension and registers its commands.
func Activate(console consoletypes.Console, opts ...Option) *Extension {
	e := New(console, opts...)
	e.Register()
	return e
}

// Register adds the storage.* and cookies.* commands.
func (e *Extension) Register() {
	commands := []consoletypes.Command{
		{Name: "storage.ls", Description: "List/get localStorage items", Handler: e.areaCommand(localName, e.local)},
		{Name: "storage.ss", Description: "List/get sessionStorage items", Handler: e.areaCommand(sessionName, e.session)},
		{Name: "storage.set", Description: "Set storage value (usage: /storage.set <ls|ss> <key> <value>)", Handler: e.setCommand},
		{Name: "storage.clear", Description: "Clear storage (usage: /storage.clear <ls|ss|all>)", Handler: e.clearCommand},
		{Name: "storage.export", Description: "Export all storage as JSON", Handler: e.exportCommand},
		{Name: "cookies.list", Description: "Show all cookies", Handler: e.listCookies},
		{Name: "cookies.clear", Description: "Clear cookies (usage: /cookies.clear [domain])", Handler: e.clearCookies},
	}
	for _, cmd := range commands {
		e.console.RegisterCommand(cmd)
	}
	logger.Debug("Storage extension registered", "commands", len(commands))
}

// ParseValue decodes a stored string as JSON, falling back to the string itself.
func ParseValue(raw string) any {
	var v any
	if err := json.Unmarshal([]byte(raw), &v); err != nil {
		return raw
	}
	return v
}

func parsedItems(area Area) (map[string]any, error) {
	raw, err := area.All()
	if err != nil {
		return nil, err
	}
	items := make(map[string]any, len(raw))
	for _, k := range sortedKeys(raw) {
		items[k] = ParseValue(raw[k])
	}
	return items, nil
}

func (e *Extension) areaCommand(name string, area Area) consoletypes.HandlerFunc {
	return func(_ context.Context, args []string) error {
		if len(args) > 0 {
			key := args[0]
			value, ok, err := area.Get(key)
			if err != nil {
				return err
			}
			if !ok {
				e.console.Dev(fmt.Sprintf("%s['%s'] is not defined", name, key))
				return nil
			}
			e.console.Dev(fmt.Sprintf("%s['%s']", name, key), ParseValue(value))
			return nil
		}

		items, err := parsedItems(area)
		if err != nil {
			return err
		}
		if len(items) == 0 {
			e.console.Dev(name + " is empty")
			return nil
		}
		e.console.Dev(fmt.Sprintf("%s (%d items)", name, len(items)), items)
		return nil
	}
}

func (e *Extension) setCommand(_ context.Context, args []string) error {
	if len(args) < 3 {
		e.console.Dev("Usage: /storage.set <ls|ss> <key> <value>")
		return nil
	}

	kind, key := args[0], args[1]
	value := strings.Join(args[2:], " ")

	var name string
	var area Area
	switch kind {
	case "ls":
		name, area = localName, e.local
	case "ss":
		name, area = sessionName, e.session
	default:
		e.console.Dev(`Storage type must be "ls" (localStorage) or "ss" (sessionStorage)`)
		return nil
	}

	if err := area.Set(key, value); err != nil {
		e.console.Error("Failed to set storage value", err)
		return nil
	}
	e.console.Dev(fmt.Sprintf("Set %s['%s'] = %s", name, key, value))
	return nil
}

func (e *Extension) clearCommand(_ context.Context, args []string) error {
	kind := "all"
	if len(args) > 0 {
		kind = args[0]
	}

	switch kind {
	case "ls":
		if err := e.local.Clear(); err != nil {
			return err
		}
		e.console.Dev("Cleared localStorage")
	case "ss":
		if err := e.session.Clear(); err != nil {
			return err
		}
		e.console.Dev("Cleared sessionStorage")
	case "all":
		if err := e.local.Clear(); err != nil {
			return err
		}
		if err := e.session.Clear(); err != nil {
			return err
		}
		e.console.Dev("Cleared all storage (localStorage and sessionStorage)")
	default:
		e.console.Dev("Usage: /storage.clear <ls|ss|all>")
	}
	return nil
}

// Snapshot is the document written by storage.export.
type Snapshot struct {
	ExportDate string       `json:"exportDate"`
	Data       SnapshotData `json:"data"`
}

// SnapshotData groups the exported stores.
type SnapshotData struct {
	LocalStorage   map[string]any   `json:"localStorage"`
	SessionStorage map[string]any   `json:"sessionStorage"`
	Cookies        []httpext.Cookie `json:"cookies"`
}

// Snapshot collects every store at the current time.
func (e *Extension) Snapshot() (Snapshot, error) {
	return e.snapshot(e.now())
}

func (e *Extension) snapshot(at time.Time) (Snapshot, error) {
	local, err := parsedItems(e.local)
	if err != nil {
		return Snapshot{}, err
	}
	session, err := parsedItems(e.session)
	if err != nil {
		return Snapshot{}, err
	}
	cookies := []httpext.Cookie{}
	if e.cookies != nil {
		cookies = append(cookies, e.cookies.List()...)
	}
	return Snapshot{
		ExportDate: export.ISOTime(at),
		Data: SnapshotData{
			LocalStorage:   local,
			SessionStorage: session,
			Cookies:        cookies,
		},
	}, nil
}

func (e *Extension) exportCommand(ctx context.Context, _ []string) error {
	if err := ctx.Err(); err != nil {
		return err
	}
	at := e.now()
	snap, err := e.snapshot(at)
	if err != nil {
		return err
	}
	b, err := json.MarshalIndent(snap, "", "  ")
	if err != nil {
		return fmt.Errorf("failed to encode storage export: %w", err)
	}

	if err := os.MkdirAll(e.dir, 0755); err != nil {
		return fmt.Errorf("failed to create export directory: %w", err)
	}
	path := filepath.Join(e.dir, export.StampedName("storage-export", at, "json"))
	if err := os.WriteFile(path, b, 0644); err != nil {
		return fmt.Errorf("failed to write storage export: %w", err)
	}

	logger.Debug("Storage exported", "path", path)
	e.console.Dev("Exported all storage data to file", path)
	return nil
}

func (e *Extension) listCookies(_ context.Context, _ []string) error {
	var cookies []httpext.Cookie
	if e.cookies != nil {
		cookies = e.cookies.List()
	}
	if len(cookies) == 0 {
		e.console.Dev("No cookies found")
		return nil
	}
	e.console.Dev(fmt.Sprintf("Cookies (%d)", len(cookies)), cookies)
	return nil
}

func (e *Extension) clearCookies(_ context.Context, args []string) error {
	var domain string
	if len(args) > 0 {
		domain = args[0]
	}

	cleared := 0
	remaining := 0
	if e.cookies != nil {
		cleared = e.cookies.ClearDomain(domain)
		remaining = len(e.cookies.List())
	}

	if domain != "" {
		e.console.Dev(fmt.Sprintf("Cleared %d cookies for domain: %s", cleared, domain))
	} else {
		e.console.Dev(fmt.Sprintf("Cleared %d cookies", cleared))
	}
	if remaining > 0 {
		e.console.Dev(fmt.Sprintf("Note: %d cookies could not be cleared (may be HttpOnly or from different domain)", remaining))
	}
	return nil
}
