package output

import (
	"strings"

	"github.com/charmbracelet/glamour"
)

// newMarkdownRenderer tries the auto style first and falls back to the dark
// style. It returns nil when glamour cannot be initialised.
func newMarkdownRenderer(wrap int) *glamour.TermRenderer {
	if wrap <= 0 {
		wrap = 80
	}

	r, err := glamour.NewTermRenderer(
		glamour.WithAutoStyle(),
		glamour.WithWordWrap(wrap),
		glamour.WithEnvironmentConfig(),
	)
	if err == nil {
		return r
	}

	r, err = glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(wrap),
	)
	if err != nil {
		return nil
	}
	return r
}

// renderMarkdown renders md, returning it unchanged if rendering fails.
func renderMarkdown(r *glamour.TermRenderer, md string) string {
	if r == nil {
		return md
	}
	rendered, err := r.Render(md)
	if err != nil || strings.TrimSpace(rendered) == "" {
		return md
	}
	return strings.Trim(rendered, "\n")
}
