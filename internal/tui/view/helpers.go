package view

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/mattn/go-runewidth"
)

// PadCell left-aligns s in exactly width terminal cells, truncating when needed.
func PadCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, "")
	return runewidth.FillRight(s, width)
}

// CenterCell centers s in exactly width terminal cells, truncating when needed.
func CenterCell(s string, width int) string {
	if width <= 0 {
		return ""
	}
	s = runewidth.Truncate(s, width, "")
	gap := width - runewidth.StringWidth(s)
	left := gap / 2
	return strings.Repeat(" ", left) + s + strings.Repeat(" ", gap-left)
}

// PadLines pads every line of content to width and the block to height.
func PadLines(content string, width, height int) string {
	lines := strings.Split(content, "\n")
	for len(lines) < height {
		lines = append(lines, "")
	}
	for i, line := range lines {
		if w := lipgloss.Width(line); w < width {
			lines[i] = line + strings.Repeat(" ", width-w)
		}
	}
	return strings.Join(lines, "\n")
}

// RenderOverlay centers box over base, cutting the covered part of each base line.
func RenderOverlay(base, box string, width, height int) string {
	boxLines := strings.Split(box, "\n")
	boxW := 0
	for _, line := range boxLines {
		boxW = max(boxW, lipgloss.Width(line))
	}
	if boxW == 0 || width <= 0 || height <= 0 {
		return base
	}
	boxW = min(boxW, width)

	top := max(0, (height-len(boxLines))/2)
	left := max(0, (width-boxW)/2)

	baseLines := strings.Split(PadLines(base, width, height), "\n")
	for i, line := range boxLines {
		row := top + i
		if row >= len(baseLines) {
			break
		}
		if lipgloss.Width(line) > boxW {
			line = ansi.Cut(line, 0, boxW)
		}
		baseLine := baseLines[row]
		baseLines[row] = ansi.Cut(baseLine, 0, left) + line + ansi.ResetStyle + ansi.Cut(baseLine, left+boxW, width)
	}
	return strings.Join(baseLines, "\n")
}
