package httpext

import (
	"net/http"
	"net/url"
	"strings"
)

// RequestOptions describes a request before it is sent.
type RequestOptions struct {
	Method  string            `json:"method"`
	URL     string            `json:"url"`
	Headers map[string]string `json:"headers"`
	Body    any               `json:"body,omitempty"`
	Query   map[string]string `json:"query,omitempty"`
}

// BuildRequestOptions turns parsed arguments into request options. ok is false
// when no URL was given.
//
// GET sends params as the query string; its JSON body, if any, is recorded
// but never sent. Other methods send the JSON body when -j was given and the
// params otherwise. With -u the user headers are merged under the command's
// own headers.
func BuildRequestOptions(method string, parsed ParsedArgs, userHeaders map[string]string) (RequestOptions, bool) {
	if parsed.URL == "" {
		return RequestOptions{}, false
	}

	headers := map[string]string{}
	if parsed.Flags[FlagUserHeaders] {
		for k, v := range userHeaders {
			headers[k] = v
		}
	}
	for k, v := range parsed.Headers {
		headers[k] = v
	}

	opts := RequestOptions{
		Method:  method,
		URL:     parsed.URL,
		Headers: headers,
	}

	if method == http.MethodGet {
		opts.Query = parsed.Params
		if parsed.HasJSONBody() && parsed.JSONBody != nil {
			opts.Body = parsed.JSONBody
		}
		return opts, true
	}

	if parsed.HasJSONBody() {
		opts.Body = parsed.JSONBody
	} else {
		opts.Body = parsed.Params
	}
	return opts, true
}

// FullURL appends the query to the URL, keeping any query it already has.
// Keys are encoded in sorted order.
func (o RequestOptions) FullURL() string {
	if len(o.Query) == 0 {
		return o.URL
	}
	values := url.Values{}
	for k, v := range o.Query {
		values.Set(k, v)
	}
	sep := "?"
	if strings.Contains(o.URL, "?") {
		sep = "&"
	}
	return o.URL + sep + values.Encode()
}

// SendsBody reports whether the body goes on the wire.
func (o RequestOptions) SendsBody() bool {
	return o.Method != http.MethodGet && o.Body != nil
}
