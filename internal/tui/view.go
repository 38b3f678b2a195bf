package tui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const (
	headerHeight = 1
	footerHeight = 3
)

var (
	titleStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205"))

	selectedStyle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")).
			Background(lipgloss.Color("57"))

	dimStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	helpStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

// View implements tea.Model.
func (m Model) View() string {
	return lipgloss.JoinVertical(lipgloss.Left,
		m.renderHeader(),
		m.viewport.View(),
		m.renderSuggestions(),
		m.input.View(),
		m.renderHelp(),
	)
}

func (m Model) renderHeader() string {
	level := "all"
	if m.filter.Level != "" {
		level = m.filter.Level.String()
	}
	counts := fmt.Sprintf("%d/%d entries", len(m.Visible()), len(m.entries))
	return titleStyle.Render("devcon") + " " + dimStyle.Render("level: "+level+" · "+counts)
}

func (m Model) renderSuggestions() string {
	items, selected := m.Suggestions()
	if len(items) == 0 {
		return ""
	}
	parts := make([]string, len(items))
	for i, item := range items {
		if i == selected {
			parts[i] = selectedStyle.Render(item)
		} else {
			parts[i] = dimStyle.Render(item)
		}
	}
	return strings.Join(parts, " ")
}

func (m Model) renderHelp() string {
	return helpStyle.Render("tab complete · ↑/↓ history · ctrl+l level · esc dismiss · ctrl+c quit")
}
