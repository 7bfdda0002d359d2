package tui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/javiermolinar/akima/internal/tui/theme"
	"github.com/javiermolinar/akima/internal/tui/view"
)

// Styles holds all lipgloss styles for the TUI, derived from a theme.
type Styles struct {
	palette *theme.Palette

	Title lipgloss.Style
	Muted lipgloss.Style

	Grid  view.GridStyles
	Panel view.PanelStyles

	// Prompt box
	Prompt        lipgloss.Style
	PromptBox     lipgloss.Style
	PromptBoxBusy lipgloss.Style

	// Footer
	Status      lipgloss.Style
	StatusError lipgloss.Style
	Help        lipgloss.Style

	// Help overlay
	HelpBox lipgloss.Style
	HelpKey lipgloss.Style
}

// NewStyles creates a new Styles instance from a theme.
func NewStyles(t *theme.Theme) *Styles {
	p := theme.NewPalette(t)
	s := &Styles{palette: p}

	s.Title = lipgloss.NewStyle().
		Bold(true).
		Foreground(p.Accent)

	s.Muted = lipgloss.NewStyle().
		Foreground(p.FgMuted)

	cell := lipgloss.NewStyle().Foreground(p.Fg)
	s.Grid = view.GridStyles{
		Border:       lipgloss.NewStyle().Foreground(p.FgMuted),
		Header:       lipgloss.NewStyle().Bold(true).Foreground(p.Fg),
		HeaderToday:  lipgloss.NewStyle().Bold(true).Foreground(p.Today),
		HeaderAllDay: lipgloss.NewStyle().Bold(true).Foreground(p.TextOnSelected).Background(p.SelectedBg),
		Time:         lipgloss.NewStyle().Foreground(p.Accent),
		Empty:        cell.Foreground(p.FgMuted),
		Selected: cell.
			Background(p.SelectedBg).
			Foreground(p.TextOnSelected).
			Bold(true),
		Armed: cell.
			Background(p.ArmedBg).
			Foreground(p.TextOnWarning).
			Bold(true),
		Cursor: cell.
			Background(p.BgSelection).
			Foreground(p.Accent).
			Bold(true),
		SelectedCursor: cell.
			Background(p.SelectedCursorBg).
			Foreground(p.TextOnSelected).
			Bold(true),
	}

	s.Panel = view.PanelStyles{
		Box: lipgloss.NewStyle().
			Border(lipgloss.RoundedBorder()).
			BorderForeground(p.Panel.Border),
		Title:       lipgloss.NewStyle().Bold(true).Foreground(p.Panel.Border),
		Text:        lipgloss.NewStyle().Foreground(p.Panel.Text),
		Placeholder: lipgloss.NewStyle().Italic(true).Foreground(p.Panel.Muted),
	}

	s.Prompt = lipgloss.NewStyle().Foreground(p.Fg)
	s.PromptBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Padding(0, 1)
	s.PromptBoxBusy = s.PromptBox.
		BorderForeground(p.FgMuted).
		Foreground(p.FgMuted)

	s.Status = lipgloss.NewStyle().Foreground(p.Selected)
	s.StatusError = lipgloss.NewStyle().Foreground(p.Warning).Bold(true)
	s.Help = lipgloss.NewStyle().Foreground(p.FgMuted)

	s.HelpBox = lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(p.Accent).
		Background(p.BgHighlight).
		Foreground(p.Fg).
		Padding(1, 2)
	s.HelpKey = lipgloss.NewStyle().Bold(true).Foreground(p.Accent).Background(p.BgHighlight)

	return s
}
