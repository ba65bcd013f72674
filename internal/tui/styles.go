package tui

import "github.com/charmbracelet/lipgloss"

type styles struct {
	title     lipgloss.Style
	subtle    lipgloss.Style
	assistant lipgloss.Style
	user      lipgloss.Style
	notice    lipgloss.Style
	selected  lipgloss.Style
	label     lipgloss.Style
	alert     lipgloss.Style
	success   lipgloss.Style
	panel     lipgloss.Style
	help      lipgloss.Style
}

func newStyles() styles {
	return styles{
		title:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("36")),
		subtle:    lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		assistant: lipgloss.NewStyle().Foreground(lipgloss.Color("42")),
		user:      lipgloss.NewStyle().Foreground(lipgloss.Color("39")),
		notice:    lipgloss.NewStyle().Foreground(lipgloss.Color("214")),
		selected:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("51")),
		label:     lipgloss.NewStyle().Foreground(lipgloss.Color("245")),
		alert:     lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("196")),
		success:   lipgloss.NewStyle().Foreground(lipgloss.Color("40")),
		panel:     lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).Padding(0, 1),
		help:      lipgloss.NewStyle().Foreground(lipgloss.Color("240")).Italic(true),
	}
}
