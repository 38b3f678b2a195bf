package shell

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// commandPainter colours the leading "/name" or ">" marker of the line being edited.
type commandPainter struct {
	command lipgloss.Style
	expr    lipgloss.Style
}

func newCommandPainter(r *lipgloss.Renderer) *commandPainter {
	return &commandPainter{
		command: r.NewStyle().Foreground(lipgloss.Color("#be34ff")).Bold(true),
		expr:    r.NewStyle().Foreground(lipgloss.Color("#0080FF")).Bold(true),
	}
}

// Paint implements readline.Painter.
func (p *commandPainter) Paint(line []rune, _ int) []rune {
	input := string(line)
	switch {
	case strings.HasPrefix(input, "/"):
		name, rest, _ := strings.Cut(input, " ")
		if strings.Contains(input, " ") {
			rest = " " + rest
		}
		return []rune(p.command.Render(name) + rest)
	case strings.HasPrefix(input, ">"):
		return []rune(p.expr.Render(">") + input[1:])
	default:
		return line
	}
}
