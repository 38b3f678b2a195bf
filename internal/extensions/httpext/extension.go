package httpext

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
	"sync"
	"time"

	"devconsole/internal/logger"
	"devconsole/pkg/consoletypes"
)

const requestFlags = `[-u] [-H "Key: Value"] [-j {...}] [key=value...]`

const headersUsage = "Usage: /http.headers [show|clear|set <key> <value>]"

// Extension holds the HTTP commands' state: user headers, cookies and
// requests still in flight.
type Extension struct {
	console consoletypes.Console
	client  *Client
	jar     *Jar

	mu          sync.Mutex
	userHeaders map[string]string

	inflight sync.WaitGroup
}

// Option configures an Extension.
type Option func(*extensionOptions)

type extensionOptions struct {
	timeout time.Duration
	jar     *Jar
}

// WithTimeout sets the per-request timeout.
func WithTimeout(d time.Duration) Option {
	return func(o *extensionOptions) { o.timeout = d }
}

// WithJar shares a cookie jar with other extensions.
func WithJar(jar *Jar) Option {
	return func(o *extensionOptions) { o.jar = jar }
}

// New creates the extension without registering anything.
func New(console consoletypes.Console, opts ...Option) *Extension {
	o := extensionOptions{timeout: DefaultTimeout}
	for _, opt := range opts {
		opt(&o)
	}
	if o.jar == nil {
		o.jar = NewJar()
	}
	return &Extension{
		console:     console,
		client:      NewClient(o.timeout, o.jar),
		jar:         o.jar,
		userHeaders: map[string]string{},
	}
}

// Activate creates the extension and registers its commands.
func Activate(console consoletypes.Console, opts ...Option) *Extension {
	e := New(console, opts...)
	e.Register()
	return e
}

// Register adds the http.* commands to the console.
func (e *Extension) Register() {
	for _, method := range []string{http.MethodGet, http.MethodPost, http.MethodPut, http.MethodDelete} {
		name := "http." + strings.ToLower(method)
		usage := fmt.Sprintf("/%s <url> %s", name, requestFlags)
		e.console.RegisterCommand(consoletypes.Command{
			Name:        name,
			Description: fmt.Sprintf("Make a %s request (usage: %s)", method, usage),
			Handler:     e.methodHandler(method, usage),
		})
	}

	requestUsage := "/http.request <method> <url> " + requestFlags
	e.console.RegisterCommand(consoletypes.Command{
		Name:        "http.request",
		Description: fmt.Sprintf("Make a custom HTTP request (usage: %s)", requestUsage),
		Handler: func(ctx context.Context, args []string) error {
			if len(args) < 2 {
				e.console.Dev("Usage: " + requestUsage)
				return nil
			}
			return e.send(ctx, strings.ToUpper(args[0]), args[1:], "URL is required")
		},
	})

	e.console.RegisterCommand(consoletypes.Command{
		Name:        "http.headers",
		Description: "Manage user headers (usage: /http.headers [show|clear|set <key> <value>])",
		Handler:     e.headersCommand,
	})

	logger.Debug("HTTP extension registered")
}

// Jar returns the cookie jar used for requests.
func (e *Extension) Jar() *Jar {
	return e.jar
}

// Wait blocks until every started request has been reported.
func (e *Extension) Wait() {
	e.inflight.Wait()
}

// Close waits for in-flight requests and releases idle connections.
func (e *Extension) Close() {
	e.Wait()
	e.client.CloseIdleConnections()
}

// UserHeaders returns a copy of the stored user headers.
func (e *Extension) UserHeaders() map[string]string {
	e.mu.Lock()
	defer e.mu.Unlock()
	out := make(map[string]string, len(e.userHeaders))
	for k, v := range e.userHeaders {
		out[k] = v
	}
	return out
}

// SetUserHeaders replaces the stored user headers.
func (e *Extension) SetUserHeaders(headers map[string]string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	e.userHeaders = make(map[string]string, len(headers))
	for k, v := range headers {
		e.userHeaders[k] = v
	}
}

// ClearUserHeaders drops every stored user header.
func (e *Extension) ClearUserHeaders() {
	e.SetUserHeaders(nil)
	e.console.Dev("User headers cleared")
}

func (e *Extension) methodHandler(method, usage string) consoletypes.HandlerFunc {
	return func(ctx context.Context, args []string) error {
		return e.send(ctx, method, args, "Usage: "+usage)
	}
}

// send parses args and starts the request in the background. missingURL is
// reported when no URL was given.
func (e *Extension) send(ctx context.Context, method string, args []string, missingURL string) error {
	parsed, err := ParseArgs(args)
	if err != nil {
		if errors.Is(err, ErrInvalidJSON) {
			e.console.Dev("Invalid JSON provided with -j flag", err)
		}
		return err
	}

	opts, ok := BuildRequestOptions(method, parsed, e.UserHeaders())
	if !ok {
		e.console.Dev(missingURL)
		return nil
	}

	// The request outlives the dispatch call; it keeps the caller's values
	// but not its cancellation.
	reqCtx := context.WithoutCancel(ctx)
	e.inflight.Add(1)
	go func() {
		defer e.inflight.Done()
		e.execute(reqCtx, opts)
	}()
	return nil
}

func (e *Extension) execute(ctx context.Context, opts RequestOptions) {
	fullURL := opts.FullURL()
	e.console.Dev(fmt.Sprintf("HTTP %s %s", opts.Method, fullURL), map[string]any{
		"request": map[string]any{
			"method":  opts.Method,
			"url":     fullURL,
			"headers": RequestHeaders(opts),
			"body":    opts.Body,
		},
	})

	resp, err := e.client.Do(ctx, opts)
	if err != nil {
		logger.Debug("HTTP request failed", "method", opts.Method, "url", fullURL, "error", err)
		e.console.Dev("HTTP Request Failed", err)
		return
	}

	e.console.Dev(fmt.Sprintf("HTTP Response [%d]", resp.Status), resp)
}

func (e *Extension) headersCommand(_ context.Context, args []string) error {
	switch {
	case len(args) == 0 || args[0] == "show":
		e.console.Dev("Current user headers", e.UserHeaders())
	case args[0] == "clear":
		e.ClearUserHeaders()
	case args[0] == "set" && len(args) >= 3:
		key := args[1]
		value := strings.Join(args[2:], " ")
		e.mu.Lock()
		e.userHeaders[key] = value
		e.mu.Unlock()
		e.console.Dev("Header set: "+key, value)
	default:
		e.console.Dev(headersUsage)
	}
	return nil
}
