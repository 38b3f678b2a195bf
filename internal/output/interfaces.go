// Package output renders console log entries for terminal surfaces.
package output

// Mode selects how entries are written.
type Mode int

const (
	// ModeAuto styles output when the writer is a colour-capable terminal.
	ModeAuto Mode = iota

	// ModeStyled forces level colours and markdown rendering.
	ModeStyled

	// ModePlain writes uncoloured text.
	ModePlain

	// ModeJSON writes one JSON object per entry.
	ModeJSON
)

// String returns the mode name.
func (m Mode) String() string {
	switch m {
	case ModeStyled:
		return "styled"
	case ModePlain:
		return "plain"
	case ModeJSON:
		return "json"
	default:
		return "auto"
	}
}

// ParseMode converts a mode name, defaulting to ModeAuto.
func ParseMode(name string) Mode {
	switch name {
	case "styled":
		return ModeStyled
	case "plain":
		return ModePlain
	case "json":
		return ModeJSON
	default:
		return ModeAuto
	}
}

// Markdowner is implemented by payload values that have a markdown form,
// such as the help document.
type Markdowner interface {
	Markdown() string
}
