package variables

import (
	"regexp"
	"strings"

	"devconsole/internal/logger"
	"devconsole/pkg/consoletypes"
)

var placeholderPattern = regexp.MustCompile(`\$\{([^}]+)\}`)

// Lookup returns the value bound to a name.
type Lookup func(name string) (consoletypes.Value, bool)

// Resolve substitutes every ${name} placeholder in text, scanning left to right.
// Bound placeholders are replaced by the value's canonical text. Unbound ones
// stay in place and their names are reported in order of occurrence.
func Resolve(text string, lookup Lookup) consoletypes.Resolution {
	if !strings.Contains(text, "${") {
		return consoletypes.Resolution{Resolved: text}
	}

	var (
		b          strings.Builder
		unresolved []string
		last       int
	)
	for _, m := range placeholderPattern.FindAllStringSubmatchIndex(text, -1) {
		b.WriteString(text[last:m[0]])
		name := text[m[2]:m[3]]
		if v, ok := lookup(name); ok {
			b.WriteString(v.String())
		} else {
			b.WriteString(text[m[0]:m[1]])
			unresolved = append(unresolved, name)
		}
		last = m[1]
	}
	b.WriteString(text[last:])

	res := consoletypes.Resolution{Resolved: b.String(), Unresolved: unresolved}
	logger.Resolution(text, res.Resolved, unresolved)
	return res
}

// Resolve substitutes placeholders using the store's bindings.
func (s *Store) Resolve(text string) consoletypes.Resolution {
	return Resolve(text, s.Get)
}
