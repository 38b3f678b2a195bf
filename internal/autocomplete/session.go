package autocomplete

// Session holds the interactive state of the suggestion list: what is shown,
// which item is highlighted, and whether it is visible.
type Session struct {
	snapshot func() Snapshot
	current  Suggestions
	index    int
}

// NewSession creates a session that reads console state through snapshot.
func NewSession(snapshot func() Snapshot) *Session {
	return &Session{snapshot: snapshot}
}

// Update recomputes suggestions for the edited input and highlights the first.
func (s *Session) Update(input string) {
	s.current = Suggest(input, s.snapshot())
	s.index = 0
	if !s.current.Active() {
		s.current = Suggestions{}
	}
}

// Active reports whether suggestions are visible.
func (s *Session) Active() bool {
	return s.current.Active()
}

// Mode returns the mode of the visible suggestions.
func (s *Session) Mode() Mode {
	return s.current.Mode
}

// Items returns the visible suggestions.
func (s *Session) Items() []string {
	return s.current.Items
}

// Index returns the highlighted position.
func (s *Session) Index() int {
	return s.index
}

// Selected returns the highlighted suggestion.
func (s *Session) Selected() (string, bool) {
	if !s.Active() {
		return "", false
	}
	return s.current.Items[s.index], true
}

// Next highlights the following item, wrapping to the first.
func (s *Session) Next() {
	if n := len(s.current.Items); n > 0 {
		s.index = (s.index + 1) % n
	}
}

// Prev highlights the preceding item, wrapping to the last.
func (s *Session) Prev() {
	if n := len(s.current.Items); n > 0 {
		s.index = (s.index - 1 + n) % n
	}
}

// Accept applies the highlighted suggestion to input and hides the list.
// ok is false when nothing was visible.
func (s *Session) Accept(input string) (string, bool) {
	choice, ok := s.Selected()
	if !ok {
		return input, false
	}
	out := Apply(input, s.current.Mode, choice)
	s.Dismiss()
	return out, true
}

// Dismiss hides the suggestions.
func (s *Session) Dismiss() {
	s.current = Suggestions{}
	s.index = 0
}
