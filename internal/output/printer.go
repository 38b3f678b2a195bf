package output

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"strings"
	"sync"

	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/muesli/termenv"

	"devconsole/internal/export"
	"devconsole/pkg/consoletypes"
)

// TimeFormat is the timestamp layout of entry headers.
const TimeFormat = "15:04:05.000"

// Printer writes log entries to a terminal or any other writer.
type Printer struct {
	writer     io.Writer
	mode       Mode
	width      int
	showSource bool

	styled   bool
	levels   map[consoletypes.Level]lipgloss.Style
	dim      lipgloss.Style
	markdown *glamour.TermRenderer

	mu sync.Mutex
}

// NewPrinter creates a printer. By default it writes to os.Stdout and picks
// styled or plain output from the terminal's colour profile.
func NewPrinter(options ...Option) *Printer {
	p := &Printer{
		writer:     os.Stdout,
		mode:       ModeAuto,
		showSource: true,
	}
	for _, opt := range options {
		opt(p)
	}

	profile := DetectProfile(p.writer)
	p.styled = p.mode == ModeStyled || (p.mode == ModeAuto && profile != termenv.Ascii)
	if p.styled {
		renderer := lipgloss.NewRenderer(p.writer)
		if p.mode == ModeStyled && profile == termenv.Ascii {
			profile = termenv.TrueColor
		}
		renderer.SetColorProfile(profile)
		p.levels = levelStyles(renderer)
		p.dim = renderer.NewStyle().Faint(true)
		p.markdown = newMarkdownRenderer(p.width)
	}
	return p
}

// DetectProfile reports the colour profile of w. Writers that are not
// terminals get termenv.Ascii.
func DetectProfile(w io.Writer) termenv.Profile {
	f, ok := w.(*os.File)
	if !ok {
		return termenv.Ascii
	}
	return termenv.NewOutput(f).EnvColorProfile()
}

func levelStyles(r *lipgloss.Renderer) map[consoletypes.Level]lipgloss.Style {
	styles := make(map[consoletypes.Level]lipgloss.Style, len(consoletypes.Levels))
	for _, level := range consoletypes.Levels {
		styles[level] = r.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color(consoletypes.LevelColors[level]))
	}
	return styles
}

// Styled reports whether colours are applied.
func (p *Printer) Styled() bool {
	return p.styled
}

// Entry writes one entry.
func (p *Printer) Entry(entry consoletypes.LogEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	_, _ = fmt.Fprintln(p.writer, p.render(entry))
}

// Entries writes entries in order.
func (p *Printer) Entries(entries []consoletypes.LogEntry) {
	for _, e := range entries {
		p.Entry(e)
	}
}

// Println writes a line outside of any entry, such as a prompt notice.
func (p *Printer) Println(text string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.mode == ModeJSON {
		return
	}
	_, _ = fmt.Fprintln(p.writer, text)
}

// Render returns the text Entry would write, without the trailing newline.
func (p *Printer) Render(entry consoletypes.LogEntry) string {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.render(entry)
}

func (p *Printer) render(entry consoletypes.LogEntry) string {
	if p.mode == ModeJSON {
		b, err := json.Marshal(export.EntryOf(entry))
		if err != nil {
			return fmt.Sprintf(`{"level":%q,"message":%q}`, entry.Level, entry.Message)
		}
		return string(b)
	}

	header := p.header(entry)
	body := p.body(entry)
	if body == "" {
		return header
	}
	return header + "\n" + indent(body, "  ")
}

func (p *Printer) header(entry consoletypes.LogEntry) string {
	stamp := entry.Timestamp.Format(TimeFormat)
	level := fmt.Sprintf("%-5s", strings.ToUpper(entry.Level.String()))
	source := ""
	if p.showSource && entry.Source != nil {
		source = " (" + entry.Source.String() + ")"
	}

	var line string
	if p.styled {
		line = p.dim.Render(stamp) + " " + p.levels[entry.Level].Render(level) + " " + entry.Message + p.dim.Render(source)
	} else {
		line = stamp + " " + level + " " + entry.Message + source
	}

	if p.width > 0 {
		line = ansi.Truncate(line, p.width, "…")
	}
	return line
}

func (p *Printer) body(entry consoletypes.LogEntry) string {
	if value, ok := entry.Data.Value(); ok {
		if md, ok := value.(Markdowner); ok {
			if p.styled {
				return renderMarkdown(p.markdown, md.Markdown())
			}
			return md.Markdown()
		}
	}
	return entry.Data.Format(false)
}

func indent(text, prefix string) string {
	lines := strings.Split(text, "\n")
	for i, l := range lines {
		if l != "" {
			lines[i] = prefix + l
		}
	}
	return strings.Join(lines, "\n")
}
