// Package theme provides color themes for the TUI.
package theme

import (
	"embed"
	"fmt"
	"slices"
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/pelletier/go-toml/v2"
)

//go:embed embedded/*.toml
var embeddedThemes embed.FS

// DefaultName is the theme used when none is configured or the configured one is unknown.
const DefaultName = "mocha"

// Theme holds all colors for a TUI theme.
type Theme struct {
	Name        string `toml:"name"`
	Bg          string `toml:"bg"`           // Base background
	BgHighlight string `toml:"bg_highlight"` // Header row, hover
	BgSelection string `toml:"bg_selection"` // Keyboard cursor
	Fg          string `toml:"fg"`
	FgMuted     string `toml:"fg_muted"` // Time column, hints
	Accent      string `toml:"accent"`   // Title, borders
	Selected    string `toml:"selected"` // Selected slots
	Today       string `toml:"today"`    // Today's column header
	Warning     string `toml:"warning"`  // Armed long-press anchor, errors

	// Output panel (falls back to base colors)
	PanelBorder string `toml:"panel_border"`
	PanelText   string `toml:"panel_text"`
	PanelMuted  string `toml:"panel_muted"`
}

// Color returns a lipgloss.Color for the given hex string.
func Color(hex string) lipgloss.Color {
	return lipgloss.Color(hex)
}

// Load loads a theme by name from embedded files.
// Unknown names fall back to the default theme.
func Load(name string) (*Theme, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" {
		name = DefaultName
	}

	data, err := embeddedThemes.ReadFile("embedded/" + name + ".toml")
	if err != nil {
		if name != DefaultName {
			return Load(DefaultName)
		}
		return nil, fmt.Errorf("loading theme %q: %w", name, err)
	}

	var t Theme
	if err := toml.Unmarshal(data, &t); err != nil {
		return nil, fmt.Errorf("parsing theme %q: %w", name, err)
	}
	t.applyDefaults()

	return &t, nil
}

func (t *Theme) applyDefaults() {
	t.PanelBorder = coalesce(t.PanelBorder, t.Accent)
	t.PanelText = coalesce(t.PanelText, t.Fg)
	t.PanelMuted = coalesce(t.PanelMuted, t.FgMuted)
}

func coalesce(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}

// Available returns a list of available theme names.
func Available() []string {
	return []string{"mocha", "macchiato", "frappe", "latte", "light"}
}

// IsAvailable reports whether a theme name is available.
func IsAvailable(name string) bool {
	return slices.Contains(Available(), strings.ToLower(name))
}
