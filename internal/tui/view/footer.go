package view

import (
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
)

// FooterViewState holds the strings needed to render the footer section.
type FooterViewState struct {
	Width       int
	StatusLine  string
	HelpLine    string
	StatusStyle lipgloss.Style
	HelpStyle   lipgloss.Style
}

// RenderFooter renders the status and help lines, each cut to the footer width.
func RenderFooter(state FooterViewState) string {
	if state.Width <= 0 {
		return ""
	}
	status := ansi.Truncate(state.StatusLine, state.Width, "…")
	help := ansi.Truncate(state.HelpLine, state.Width, "…")
	return state.StatusStyle.Render(status) + "\n" + state.HelpStyle.Render(help)
}
