package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	panel     lipgloss.Style
	status    lipgloss.Style
	prompt    lipgloss.Style
	input     lipgloss.Style
	notice    lipgloss.Style
	warning   lipgloss.Style
	help      lipgloss.Style
	finalText lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		title: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("205")).
			MarginBottom(1),
		panel: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(lipgloss.Color("63")).
			Padding(1, 2),
		status: lipgloss.NewStyle().
			Foreground(lipgloss.Color("245")),
		prompt: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("86")),
		input: lipgloss.NewStyle().
			Foreground(lipgloss.Color("255")),
		notice: lipgloss.NewStyle().
			Foreground(lipgloss.Color("214")),
		warning: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("196")),
		help: lipgloss.NewStyle().
			Foreground(lipgloss.Color("241")),
		finalText: lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("229")),
	}
}
