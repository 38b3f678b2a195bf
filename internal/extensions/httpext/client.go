package httpext

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"devconsole/internal/logger"
)

// DefaultTimeout bounds a single request.
const DefaultTimeout = 30 * time.Second

// Response is the decoded result of a request.
type Response struct {
	Status     int               `json:"status"`
	StatusText string            `json:"statusText"`
	Headers    map[string]string `json:"headers"`
	Data       any               `json:"data"`
}

// Client sends RequestOptions over HTTP.
type Client struct {
	http    *http.Client
	timeout time.Duration
}

// NewClient creates a client. A nil jar disables cookies; a non-positive
// timeout uses DefaultTimeout.
func NewClient(timeout time.Duration, jar http.CookieJar) *Client {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		http: &http.Client{
			Timeout:   timeout,
			Transport: &tracingTransport{base: http.DefaultTransport.(*http.Transport).Clone()},
			Jar:       jar,
		},
		timeout: timeout,
	}
}

// RequestHeaders is the header set actually sent: the JSON content type
// overridden by the request's own headers.
func RequestHeaders(opts RequestOptions) map[string]string {
	headers := map[string]string{"Content-Type": "application/json"}
	for k, v := range opts.Headers {
		headers[k] = v
	}
	return headers
}

// Do sends the request and decodes the body. JSON responses are decoded into
// Go values; anything else is returned as text.
func (c *Client) Do(ctx context.Context, opts RequestOptions) (*Response, error) {
	var body io.Reader
	if opts.SendsBody() {
		b, err := json.Marshal(opts.Body)
		if err != nil {
			return nil, fmt.Errorf("failed to encode request body: %w", err)
		}
		body = bytes.NewReader(b)
	}

	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	req, err := http.NewRequestWithContext(ctx, opts.Method, opts.FullURL(), body)
	if err != nil {
		return nil, fmt.Errorf("failed to create HTTP request: %w", err)
	}
	for k, v := range RequestHeaders(opts) {
		req.Header.Set(k, v)
	}

	resp, err := c.http.Do(req)
	if err != nil {
		return nil, fmt.Errorf("failed to execute HTTP request: %w", err)
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response body: %w", err)
	}

	headers := make(map[string]string, len(resp.Header))
	for k, values := range resp.Header {
		headers[strings.ToLower(k)] = strings.Join(values, ", ")
	}

	var data any = string(raw)
	if strings.Contains(resp.Header.Get("Content-Type"), "application/json") {
		if err := json.Unmarshal(raw, &data); err != nil {
			return nil, fmt.Errorf("failed to decode JSON response: %w", err)
		}
	}

	return &Response{
		Status:     resp.StatusCode,
		StatusText: http.StatusText(resp.StatusCode),
		Headers:    headers,
		Data:       data,
	}, nil
}

// CloseIdleConnections releases pooled connections.
func (c *Client) CloseIdleConnections() {
	c.http.CloseIdleConnections()
}

// tracingTransport reports each round trip to the diagnostic logger.
type tracingTransport struct {
	base http.RoundTripper
}

func (t *tracingTransport) RoundTrip(req *http.Request) (*http.Response, error) {
	start := time.Now()
	resp, err := t.base.RoundTrip(req)
	elapsed := time.Since(start)

	if err != nil {
		logger.Debug("HTTP round trip failed", "method", req.Method, "url", req.URL.String(), "elapsed", elapsed, "error", err)
		return resp, err
	}
	logger.Debug("HTTP round trip", "method", req.Method, "url", req.URL.String(), "status", resp.StatusCode, "elapsed", elapsed)
	return resp, nil
}

func (t *tracingTransport) CloseIdleConnections() {
	if closer, ok := t.base.(interface{ CloseIdleConnections() }); ok {
		closer.CloseIdleConnections()
	}
}
