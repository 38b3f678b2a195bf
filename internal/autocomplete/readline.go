package autocomplete

import "strings"

// ReadlineCompleter adapts the engine to readline's AutoCompleter interface.
// Readline only completes by appending to the typed word, so contains-only
// matches and matches differing in case are not offered here.
type ReadlineCompleter struct {
	Snapshot func() Snapshot
}

// Do returns completion suffixes for the text before pos and the length of
// the word they extend.
func (r *ReadlineCompleter) Do(line []rune, pos int) (newLine [][]rune, length int) {
	if pos > len(line) {
		pos = len(line)
	}
	input := string(line[:pos])

	s := Suggest(input, r.Snapshot())
	if !s.Active() {
		return nil, 0
	}

	var word, closer string
	switch s.Mode {
	case ModeCommand:
		word, closer = input, " "
	case ModeVariable:
		word, closer = s.Partial, "}"
	}

	for _, item := range s.Items {
		if strings.HasPrefix(item, word) {
			newLine = append(newLine, []rune(strings.TrimPrefix(item, word)+closer))
		}
	}
	return newLine, len([]rune(word))
}
