// Package view provides rendering helpers for the TUI.
package view

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

// Grid sizing.
const (
	TimeWidth       = 6
	MinDayWidth     = 9
	MaxDayWidth     = 12
	gridFrameHeight = 4 // top border, header, header separator, bottom border
)

// CellState is what a grid cell shows.
type CellState int

const (
	CellEmpty CellState = iota
	CellSelected
	CellArmed
)

// GridStyles holds the styles used to paint the grid.
type GridStyles struct {
	Border         lipgloss.Style
	Header         lipgloss.Style
	HeaderToday    lipgloss.Style
	HeaderAllDay   lipgloss.Style
	Time           lipgloss.Style
	Empty          lipgloss.Style
	Selected       lipgloss.Style
	Armed          lipgloss.Style
	Cursor         lipgloss.Style
	SelectedCursor lipgloss.Style
}

// GridData is the content of the slot grid.
type GridData struct {
	Headers    []string      // one label per day
	TodayCol   int           // day index of today, -1 if not shown
	AllDay     []bool        // per day
	Hours      []int         // one row per hour
	Cells      [][]CellState // [row][day]
	CursorRow  int
	CursorCol  int
	ShowCursor bool
}

// HitKind identifies what a screen position maps to.
type HitKind int

const (
	HitNone HitKind = iota
	HitHeader
	HitCell
)

// Hit is the result of a hit test.
type Hit struct {
	Kind HitKind
	Day  int
	Row  int
}

// Geometry describes where the grid sits on screen.
type Geometry struct {
	Top      int
	Days     int
	Rows     int
	DayWidth int
}

// NewGeometry fits days columns into width, placing the grid's top border at line top.
func NewGeometry(width, top, days, rows int) Geometry {
	dayW := MaxDayWidth
	if days > 0 {
		dayW = (width-TimeWidth-2)/days - 1
	}
	dayW = max(MinDayWidth, min(MaxDayWidth, dayW))
	return Geometry{Top: top, Days: days, Rows: rows, DayWidth: dayW}
}

// Width returns the rendered grid width including borders.
func (g Geometry) Width() int {
	return TimeWidth + g.Days*(g.DayWidth+1) + 2
}

// Height returns the rendered grid height including borders.
func (g Geometry) Height() int {
	return g.Rows + gridFrameHeight
}

// HeaderY returns the screen line of the header row.
func (g Geometry) HeaderY() int {
	return g.Top + 1
}

// RowY returns the screen line of hour row r.
func (g Geometry) RowY(r int) int {
	return g.Top + 3 + r
}

// DayX returns the first screen column of day d.
func (g Geometry) DayX(d int) int {
	return TimeWidth + 2 + d*(g.DayWidth+1)
}

// HitTest maps a screen position to a header or cell. Borders and the time column miss.
func (g Geometry) HitTest(x, y int) Hit {
	day, ok := g.dayAt(x)
	if !ok {
		return Hit{}
	}
	if y == g.HeaderY() {
		return Hit{Kind: HitHeader, Day: day}
	}
	row := y - g.RowY(0)
	if row < 0 || row >= g.Rows {
		return Hit{}
	}
	return Hit{Kind: HitCell, Day: day, Row: row}
}

func (g Geometry) dayAt(x int) (int, bool) {
	off := x - g.DayX(0)
	if off < 0 {
		return 0, false
	}
	day := off / (g.DayWidth + 1)
	if day >= g.Days || off%(g.DayWidth+1) == g.DayWidth {
		return 0, false
	}
	return day, true
}

// RenderGrid renders the slot grid with a lipgloss table.
func RenderGrid(data GridData, geo Geometry, styles GridStyles) string {
	headers := make([]string, 0, len(data.Headers)+1)
	headers = append(headers, PadCell("", TimeWidth))
	for _, h := range data.Headers {
		headers = append(headers, CenterCell(h, geo.DayWidth))
	}

	rows := make([][]string, len(data.Hours))
	for r, hour := range data.Hours {
		row := make([]string, 0, len(data.Headers)+1)
		row = append(row, PadCell(fmt.Sprintf("%2d:00", hour), TimeWidth))
		for d := range data.Headers {
			row = append(row, CenterCell(cellText(data.cell(r, d), data.cursorAt(r, d)), geo.DayWidth))
		}
		rows[r] = row
	}

	t := table.New().
		Headers(headers...).
		Border(lipgloss.RoundedBorder()).
		BorderTop(true).
		BorderBottom(true).
		BorderLeft(true).
		BorderRight(true).
		BorderHeader(true).
		BorderColumn(true).
		BorderRow(false).
		BorderStyle(styles.Border).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == table.HeaderRow {
				return headerStyle(data, styles, col-1)
			}
			if col == 0 {
				return styles.Time
			}
			return cellStyle(data, styles, row, col-1)
		})

	return t.Render()
}

func (d GridData) cell(r, c int) CellState {
	if r < 0 || r >= len(d.Cells) || c < 0 || c >= len(d.Cells[r]) {
		return CellEmpty
	}
	return d.Cells[r][c]
}

func (d GridData) cursorAt(r, c int) bool {
	return d.ShowCursor && d.CursorRow == r && d.CursorCol == c
}

func cellText(state CellState, cursor bool) string {
	var mark string
	switch state {
	case CellSelected:
		mark = "*"
	case CellArmed:
		mark = "+"
	}
	if cursor {
		if mark == "" {
			mark = " "
		}
		return "[" + mark + "]"
	}
	return mark
}

func headerStyle(data GridData, styles GridStyles, day int) lipgloss.Style {
	switch {
	case day < 0:
		return styles.Header
	case day < len(data.AllDay) && data.AllDay[day]:
		return styles.HeaderAllDay
	case day == data.TodayCol:
		return styles.HeaderToday
	default:
		return styles.Header
	}
}

func cellStyle(data GridData, styles GridStyles, r, c int) lipgloss.Style {
	state := data.cell(r, c)
	cursor := data.cursorAt(r, c)
	switch {
	case state == CellArmed:
		return styles.Armed
	case cursor && state == CellSelected:
		return styles.SelectedCursor
	case cursor:
		return styles.Cursor
	case state == CellSelected:
		return styles.Selected
	default:
		return styles.Empty
	}
}
