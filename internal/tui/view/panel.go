package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

// PanelStyles holds the styles of the output panel.
type PanelStyles struct {
	Box         lipgloss.Style
	Title       lipgloss.Style
	Text        lipgloss.Style
	Placeholder lipgloss.Style
}

// PanelViewState is the content of the output panel.
type PanelViewState struct {
	Title       string
	Text        string
	Placeholder string
	Width       int // outer width including the border
	MaxLines    int // content lines, 0 for no limit
}

// PanelLines wraps text to width, keeping explicit line breaks.
func PanelLines(text string, width int) []string {
	if text == "" {
		return nil
	}
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		lines = append(lines, WrapTextToWidths(line, width, width)...)
	}
	return lines
}

// RenderPanel renders the read-only output panel.
func RenderPanel(state PanelViewState, styles PanelStyles) string {
	frameW, _ := styles.Box.GetFrameSize()
	inner := max(1, state.Width-frameW)

	lines := PanelLines(state.Text, inner)
	style := styles.Text
	if len(lines) == 0 {
		lines = []string{state.Placeholder}
		style = styles.Placeholder
	}
	if state.MaxLines > 0 {
		lines = ClampLines(lines, state.MaxLines, inner)
	}

	body := make([]string, 0, len(lines)+1)
	body = append(body, styles.Title.Render(PadCell(state.Title, inner)))
	for _, line := range lines {
		body = append(body, style.Render(PadCell(line, inner)))
	}
	return styles.Box.Width(inner + styles.Box.GetHorizontalPadding()).Render(strings.Join(body, "\n"))
}
