package view

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"
	"github.com/muesli/termenv"
)

func TestNewGeometry_DayWidthClamped(t *testing.T) {
	tests := []struct {
		name  string
		width int
		want  int
	}{
		{name: "narrow terminal", width: 40, want: MinDayWidth},
		{name: "fits", width: 80, want: 9},
		{name: "wide terminal", width: 300, want: MaxDayWidth},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			geo := NewGeometry(tt.width, 0, 7, 12)
			if geo.DayWidth != tt.want {
				t.Errorf("DayWidth = %d, want %d", geo.DayWidth, tt.want)
			}
		})
	}
}

func TestGeometry_HitTest(t *testing.T) {
	geo := NewGeometry(120, 2, 7, 12)

	tests := []struct {
		name string
		x, y int
		want Hit
	}{
		{name: "first cell", x: geo.DayX(0), y: geo.RowY(0), want: Hit{Kind: HitCell, Day: 0, Row: 0}},
		{name: "last column of a cell", x: geo.DayX(2) + geo.DayWidth - 1, y: geo.RowY(3), want: Hit{Kind: HitCell, Day: 2, Row: 3}},
		{name: "last cell", x: geo.DayX(6), y: geo.RowY(11), want: Hit{Kind: HitCell, Day: 6, Row: 11}},
		{name: "header", x: geo.DayX(4) + 1, y: geo.HeaderY(), want: Hit{Kind: HitHeader, Day: 4}},
		{name: "time column", x: 1, y: geo.RowY(0), want: Hit{}},
		{name: "column separator", x: geo.DayX(1) - 1, y: geo.RowY(0), want: Hit{}},
		{name: "top border", x: geo.DayX(0), y: geo.Top, want: Hit{}},
		{name: "header separator", x: geo.DayX(0), y: geo.HeaderY() + 1, want: Hit{}},
		{name: "below last row", x: geo.DayX(0), y: geo.RowY(12), want: Hit{}},
		{name: "right of grid", x: geo.DayX(7), y: geo.RowY(0), want: Hit{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := geo.HitTest(tt.x, tt.y); got != tt.want {
				t.Errorf("HitTest(%d, %d) = %+v, want %+v", tt.x, tt.y, got, tt.want)
			}
		})
	}
}

func TestRenderGrid_MatchesGeometry(t *testing.T) {
	lipgloss.SetColorProfile(termenv.Ascii)

	data := GridData{
		Headers:  []string{"1/1(月)", "1/2(火)"},
		TodayCol: 0,
		AllDay:   []bool{false, true},
		Hours:    []int{9, 10, 11},
		Cells: [][]CellState{
			{CellSelected, CellSelected},
			{CellEmpty, CellSelected},
			{CellArmed, CellSelected},
		},
		CursorRow:  1,
		CursorCol:  0,
		ShowCursor: true,
	}
	geo := NewGeometry(40, 0, 2, len(data.Hours))

	out := RenderGrid(data, geo, GridStyles{})
	lines := strings.Split(out, "\n")
	if len(lines) != geo.Height() {
		t.Fatalf("rendered %d lines, want %d:\n%s", len(lines), geo.Height(), out)
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w != geo.Width() {
			t.Errorf("line %d width = %d, want %d: %q", i, w, geo.Width(), line)
		}
	}

	cellAt := func(row, day int) string {
		line := lines[geo.RowY(row)-geo.Top]
		return strings.TrimSpace(cut(line, geo.DayX(day), geo.DayWidth))
	}

	if got := cellAt(0, 0); got != "*" {
		t.Errorf("cell(0,0) = %q, want *", got)
	}
	if got := cellAt(1, 0); got != "[ ]" {
		t.Errorf("cursor cell = %q, want [ ]", got)
	}
	if got := cellAt(2, 0); got != "+" {
		t.Errorf("armed cell = %q, want +", got)
	}
	if got := strings.TrimSpace(cut(lines[geo.HeaderY()-geo.Top], geo.DayX(1), geo.DayWidth)); got != "1/2(火)" {
		t.Errorf("header = %q, want 1/2(火)", got)
	}
	if !strings.Contains(lines[geo.RowY(0)-geo.Top], " 9:00") {
		t.Errorf("time label missing: %q", lines[geo.RowY(0)-geo.Top])
	}
}

// cut returns width cells of s starting at cell x.
func cut(s string, x, width int) string {
	var b strings.Builder
	pos := 0
	for _, r := range s {
		w := runewidth.RuneWidth(r)
		if pos >= x && pos+w <= x+width {
			b.WriteRune(r)
		}
		pos += w
	}
	return b.String()
}

func TestPadCell(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "ab", width: 4, want: "ab  "},
		{in: "月", width: 4, want: "月  "},
		{in: "abcdef", width: 3, want: "abc"},
		{in: "x", width: 0, want: ""},
	}

	for _, tt := range tests {
		if got := PadCell(tt.in, tt.width); got != tt.want {
			t.Errorf("PadCell(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}

func TestCenterCell(t *testing.T) {
	tests := []struct {
		in    string
		width int
		want  string
	}{
		{in: "*", width: 5, want: "  *  "},
		{in: "1/2(火)", width: 9, want: " 1/2(火) "},
		{in: "[ ]", width: 4, want: "[ ] "},
	}

	for _, tt := range tests {
		if got := CenterCell(tt.in, tt.width); got != tt.want {
			t.Errorf("CenterCell(%q, %d) = %q, want %q", tt.in, tt.width, got, tt.want)
		}
	}
}
