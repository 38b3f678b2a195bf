// Package httpext adds http.* commands that issue HTTP requests and report
// the exchange through console log entries.
package httpext

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// Flag names recorded by ParseArgs.
const (
	FlagJSON        = "json"
	FlagUserHeaders = "user-headers"
)

// ErrInvalidJSON is returned when the -j argument is not valid JSON.
var ErrInvalidJSON = errors.New("invalid JSON format")

// ParsedArgs is the result of ParseArgs.
type ParsedArgs struct {
	URL      string
	Params   map[string]string
	Headers  map[string]string
	Flags    map[string]bool
	JSONBody any
}

func newParsedArgs() ParsedArgs {
	return ParsedArgs{
		Params:  map[string]string{},
		Headers: map[string]string{},
		Flags:   map[string]bool{},
	}
}

// HasJSONBody reports whether -j supplied a body.
func (p ParsedArgs) HasJSONBody() bool {
	return p.Flags[FlagJSON]
}

// ParseArgs reads request arguments. For each argument, the first matching
// rule applies:
//
//  1. the first argument not starting with '-' is the URL
//  2. -j/--json <json> sets the JSON body
//  3. -H/--header "Key: Value" adds a header
//  4. -u/--user-headers merges the stored user headers
//  5. key=value adds a param, unless a JSON body was already given
//  6. -key value adds a param
//
// Anything else is ignored. Repeating a flag overwrites the earlier value.
func ParseArgs(args []string) (ParsedArgs, error) {
	result := newParsedArgs()

	for i := 0; i < len(args); i++ {
		arg := args[i]
		hasNext := i+1 < len(args)

		switch {
		case !strings.HasPrefix(arg, "-") && result.URL == "":
			result.URL = arg
		case (arg == "-j" || arg == "--json") && hasNext:
			i++
			result.Flags[FlagJSON] = true
			var body any
			if err := json.Unmarshal([]byte(args[i]), &body); err != nil {
				return result, fmt.Errorf("%w: %v", ErrInvalidJSON, err)
			}
			result.JSONBody = body
		case (arg == "-H" || arg == "--header") && hasNext:
			i++
			key, value, ok := strings.Cut(args[i], ":")
			if ok && key != "" {
				result.Headers[strings.TrimSpace(key)] = strings.TrimSpace(value)
			}
		case arg == "-u" || arg == "--user-headers":
			result.Flags[FlagUserHeaders] = true
		case strings.Contains(arg, "=") && !strings.HasPrefix(arg, "-") && arg != result.URL && !result.Flags[FlagJSON]:
			key, value, _ := strings.Cut(arg, "=")
			result.Params[key] = value
		case strings.HasPrefix(arg, "-") && hasNext && !isKnownFlag(arg):
			i++
			result.Params[strings.TrimPrefix(arg, "-")] = args[i]
		}
	}

	return result, nil
}

func isKnownFlag(arg string) bool {
	switch arg {
	case "-H", "--header", "-u", "--user-headers", "-j", "--json":
		return true
	}
	return false
}
