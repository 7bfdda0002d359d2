package theme

import (
	"math"
	"strconv"

	"github.com/charmbracelet/lipgloss"
)

// Palette holds precomputed colors derived from a Theme.
type Palette struct {
	Bg          lipgloss.Color
	BgHighlight lipgloss.Color
	BgSelection lipgloss.Color
	Fg          lipgloss.Color
	FgMuted     lipgloss.Color
	Accent      lipgloss.Color
	Selected    lipgloss.Color
	Today       lipgloss.Color
	Warning     lipgloss.Color

	// Cell backgrounds
	SelectedBg       lipgloss.Color
	SelectedCursorBg lipgloss.Color
	ArmedBg          lipgloss.Color

	TextOnSelected lipgloss.Color
	TextOnAccent   lipgloss.Color
	TextOnWarning  lipgloss.Color

	Panel PanelColors
}

// PanelColors holds output panel colors.
type PanelColors struct {
	Border lipgloss.AdaptiveColor
	Text   lipgloss.AdaptiveColor
	Muted  lipgloss.AdaptiveColor
}

// NewPalette derives a Palette from the provided Theme.
func NewPalette(t *Theme) *Palette {
	if t == nil {
		t, _ = Load(DefaultName)
	}

	light := isLightTheme(t.Bg)
	selectedBg := cellBg(t.Selected, t.Bg, light)
	armedBg := cellBg(t.Warning, t.Bg, light)

	return &Palette{
		Bg:          lipgloss.Color(t.Bg),
		BgHighlight: lipgloss.Color(t.BgHighlight),
		BgSelection: lipgloss.Color(t.BgSelection),
		Fg:          lipgloss.Color(t.Fg),
		FgMuted:     lipgloss.Color(t.FgMuted),
		Accent:      lipgloss.Color(t.Accent),
		Selected:    lipgloss.Color(t.Selected),
		Today:       lipgloss.Color(t.Today),
		Warning:     lipgloss.Color(t.Warning),

		SelectedBg:       lipgloss.Color(selectedBg),
		SelectedCursorBg: lipgloss.Color(shift(selectedBg, light)),
		ArmedBg:          lipgloss.Color(armedBg),

		TextOnSelected: lipgloss.Color(chooseTextColor(selectedBg, t.Fg, t.Bg)),
		TextOnAccent:   lipgloss.Color(chooseTextColor(t.Accent, t.Fg, t.Bg)),
		TextOnWarning:  lipgloss.Color(chooseTextColor(armedBg, t.Fg, t.Bg)),

		Panel: PanelColors{
			Border: adaptiveColor(coalesce(t.PanelBorder, t.Accent)),
			Text:   adaptiveColor(coalesce(t.PanelText, t.Fg)),
			Muted:  adaptiveColor(coalesce(t.PanelMuted, t.FgMuted)),
		},
	}
}

func isLightTheme(bg string) bool {
	return relativeLuminance(bg) > 0.55
}

// cellBg tones accent down so cell text stays readable on it.
func cellBg(accent, bg string, light bool) string {
	if light {
		return blend(accent, bg, 0.6)
	}
	return blend(accent, bg, 0.45)
}

// shift nudges a color toward the contrasting end, used for the cursor on a selected cell.
func shift(hex string, light bool) string {
	if light {
		return blend(hex, "#000000", 0.15)
	}
	return blend(hex, "#ffffff", 0.25)
}

type rgb struct{ r, g, b float64 }

func parseRGB(hex string) (rgb, bool) {
	if len(hex) != 7 || hex[0] != '#' {
		return rgb{}, false
	}
	v, err := strconv.ParseUint(hex[1:], 16, 32)
	if err != nil {
		return rgb{}, false
	}
	return rgb{
		r: float64(v >> 16 & 0xff),
		g: float64(v >> 8 & 0xff),
		b: float64(v & 0xff),
	}, true
}

func (c rgb) hex() string {
	clamp := func(f float64) int {
		return int(math.Max(0, math.Min(255, math.Round(f))))
	}
	const digits = "0123456789abcdef"
	out := []byte{'#', 0, 0, 0, 0, 0, 0}
	for i, v := range []int{clamp(c.r), clamp(c.g), clamp(c.b)} {
		out[1+2*i] = digits[v>>4]
		out[2+2*i] = digits[v&0xf]
	}
	return string(out)
}

// blend mixes ratio of b into a.
func blend(a, b string, ratio float64) string {
	ca, okA := parseRGB(a)
	cb, okB := parseRGB(b)
	if !okA || !okB {
		return a
	}
	ratio = math.Max(0, math.Min(1, ratio))
	mix := func(x, y float64) float64 { return x*(1-ratio) + y*ratio }
	return rgb{r: mix(ca.r, cb.r), g: mix(ca.g, cb.g), b: mix(ca.b, cb.b)}.hex()
}

func adaptiveColor(hex string) lipgloss.AdaptiveColor {
	return lipgloss.AdaptiveColor{Dark: hex, Light: hex}
}

// chooseTextColor picks whichever of a and b contrasts more with bg.
func chooseTextColor(bg, a, b string) string {
	if contrastRatio(bg, a) >= contrastRatio(bg, b) {
		return a
	}
	return b
}

func contrastRatio(a, b string) float64 {
	l1 := relativeLuminance(a)
	l2 := relativeLuminance(b)
	if l1 < l2 {
		l1, l2 = l2, l1
	}
	return (l1 + 0.05) / (l2 + 0.05)
}

func relativeLuminance(hex string) float64 {
	c, ok := parseRGB(hex)
	if !ok {
		return 0
	}
	return 0.2126*srgbToLinear(c.r) + 0.7152*srgbToLinear(c.g) + 0.0722*srgbToLinear(c.b)
}

func srgbToLinear(c float64) float64 {
	v := c / 255.0
	if v <= 0.04045 {
		return v / 12.92
	}
	return math.Pow((v+0.055)/1.055, 2.4)
}
