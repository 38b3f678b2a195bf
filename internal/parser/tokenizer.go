// Package parser turns resolved console input into an argument vector.
package parser

import (
	"strings"
	"unicode"
)

// CommandMarker prefixes every console command.
const CommandMarker = "/"

// Tokenize splits line on whitespace outside quotes.
//
// A single or double quote opens a span that the same quote closes; the
// delimiters are dropped and everything between them, spaces included, is
// kept. Inside a span the other quote character is literal. A backslash
// directly before a quote makes that quote literal and is itself dropped; a
// doubled backslash is kept as-is and does not escape what follows. An
// unterminated span is flushed as the final token.
func Tokenize(line string) []string {
	var (
		parts   []string
		current strings.Builder
		quote   rune
	)

	runes := []rune(line)
	for i := 0; i < len(runes); i++ {
		c := runes[i]

		switch {
		case c == '\\' && i+1 < len(runes) && isQuote(runes[i+1]):
			current.WriteRune(runes[i+1])
			i++
		case c == '\\' && i+1 < len(runes) && runes[i+1] == '\\':
			current.WriteString(`\\`)
			i++
		case isQuote(c) && quote == 0:
			quote = c
		case c == quote:
			quote = 0
		case quote == 0 && unicode.IsSpace(c):
			if current.Len() > 0 {
				parts = append(parts, current.String())
				current.Reset()
			}
		default:
			current.WriteRune(c)
		}
	}

	if current.Len() > 0 {
		parts = append(parts, current.String())
	}
	return parts
}

// SplitCommand strips the command marker from a resolved line and returns the
// lowercased command name and its arguments. name is empty for a bare marker.
func SplitCommand(line string) (name string, args []string) {
	body := strings.TrimPrefix(strings.TrimSpace(line), CommandMarker)
	parts := Tokenize(body)
	if len(parts) == 0 {
		return "", nil
	}
	return strings.ToLower(parts[0]), parts[1:]
}

func isQuote(c rune) bool {
	return c == '"' || c == '\''
}
