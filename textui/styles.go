package textui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title    lipgloss.Style
	selected lipgloss.Style
	entry    lipgloss.Style
	info     lipgloss.Style
	message  lipgloss.Style
	err      lipgloss.Style
	busy     lipgloss.Style
	help     lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(4)),
		selected: lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(0)).Background(lipgloss.ANSIColor(6)),
		entry:    lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(7)),
		info:     lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(6)),
		message:  lipgloss.NewStyle().Foreground(lipgloss.ANSIColor(2)),
		err:      lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(7)).Background(lipgloss.ANSIColor(1)),
		busy:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.ANSIColor(3)),
		help:     lipgloss.NewStyle().Faint(true),
	}
}
