package tui

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"

	"github.com/javiermolinar/akima/internal/gesture"
	"github.com/javiermolinar/akima/internal/tui/view"
)

const helpLine = "←↓↑→ move · space toggle · a all-day · K/J extend · t template · [ ] { } window · y copy · r rephrase · ? help · q quit"

var helpEntries = [][2]string{
	{"←↓↑→ / hjkl", "move the cursor"},
	{"space / enter", "toggle the hour under the cursor"},
	{"a", "toggle the whole day"},
	{"K / shift+↑", "select from the window start to the cursor"},
	{"J / shift+↓", "select from the cursor to the window end"},
	{"X", "clear every selection"},
	{"t / 1 2 3", "cycle or pick the template"},
	{"[ ]", "move the start hour"},
	{"{ }", "move the end hour"},
	{"y / c", "copy the output"},
	{"r", "rephrase the output with the LLM"},
	{"esc", "cancel a gesture or restore the template output"},
	{"mouse", "click or drag to paint, click a date to toggle the day"},
	{"shift / ctrl+click", "select to the window start / end"},
	{"hold, then ↑ ↓", "extend from the held hour"},
	{"q / ctrl+c", "quit"},
}

type screenLayout struct {
	grid       view.Geometry
	panelWidth int
	side       bool
}

// layout places the grid at the top left, with the output panel beside it when it fits.
func (m Model) layout() screenLayout {
	days := len(m.days)
	rows := m.store.Window().Hours()

	side := view.NewGeometry(m.width-minPanelWidth-panelGap, gridTop, days, rows)
	if side.Width()+panelGap+minPanelWidth <= m.width {
		return screenLayout{grid: side, panelWidth: m.width - side.Width() - panelGap, side: true}
	}
	geo := view.NewGeometry(m.width, gridTop, days, rows)
	return screenLayout{grid: geo, panelWidth: max(minPanelWidth, min(m.width, geo.Width()))}
}

// View renders the TUI.
func (m Model) View() string {
	l := m.layout()

	grid := view.RenderGrid(m.gridData(), l.grid, m.styles.Grid)
	panel := view.RenderPanel(view.PanelViewState{
		Title:       m.panelTitle(),
		Text:        m.Output(),
		Placeholder: emptyOutputHint,
		Width:       l.panelWidth,
		MaxLines:    m.panelLines(l),
	}, m.styles.Panel)

	var body string
	if l.side {
		body = lipgloss.JoinHorizontal(lipgloss.Top, grid, strings.Repeat(" ", panelGap), panel)
	} else {
		body = grid + "\n" + panel
	}

	parts := []string{m.renderTitle(), body}
	if m.mode == ModePrompt {
		parts = append(parts, m.renderPrompt(l.panelWidth))
	}
	parts = append(parts, view.RenderFooter(view.FooterViewState{
		Width:       max(1, m.width),
		StatusLine:  m.statusLine(),
		HelpLine:    helpLine,
		StatusStyle: m.statusStyle(),
		HelpStyle:   m.styles.Help,
	}))

	out := strings.Join(parts, "\n")
	if m.mode == ModeHelp {
		out = view.RenderOverlay(out, m.renderHelp(), m.width, m.height)
	}
	return out
}

func (m Model) renderTitle() string {
	title := m.styles.Title.Render("akima") + "  " +
		m.styles.Muted.Render(fmt.Sprintf("%s  ·  %s", m.store.Window(), m.template.Label()))
	if m.loading {
		title += m.styles.Muted.Render("  loading…")
	}
	if m.width > 0 {
		title = ansi.Truncate(title, m.width, "…")
	}
	return title
}

func (m Model) panelTitle() string {
	if m.rephrased != "" && m.rephrasedFrom == m.renderedText() {
		return "出力 · " + m.template.Label() + " · rephrased"
	}
	return "出力 · " + m.template.Label()
}

// panelLines limits the panel so the stacked layout keeps the footer on screen.
func (m Model) panelLines(l screenLayout) int {
	if l.side || m.height <= 0 {
		return panelMaxLines
	}
	free := m.height - gridTop - l.grid.Height() - footerHeight - 3
	if m.mode == ModePrompt {
		free -= promptMaxLines + 2
	}
	return max(1, min(panelMaxLines, free))
}

func (m Model) gridData() view.GridData {
	w := m.store.Window()
	hours := make([]int, 0, w.Hours())
	for h := w.StartHour; h < w.EndHour; h++ {
		hours = append(hours, h)
	}

	armed, isArmed := m.machine.Armed()
	data := view.GridData{
		Headers:    make([]string, len(m.days)),
		TodayCol:   -1,
		AllDay:     make([]bool, len(m.days)),
		Hours:      hours,
		Cells:      make([][]view.CellState, len(hours)),
		CursorRow:  m.cursor.Row,
		CursorCol:  m.cursor.Day,
		ShowCursor: m.mode == ModeNormal && !m.loading,
	}
	for d, day := range m.days {
		data.Headers[d] = day.Display
		data.AllDay[d] = m.store.IsAllDay(day.Date)
		if day.IsToday {
			data.TodayCol = d
		}
	}
	for r, h := range hours {
		row := make([]view.CellState, len(m.days))
		for d, day := range m.days {
			switch {
			case isArmed && armed == (gesture.Cell{Date: day.Date, Hour: h}):
				row[d] = view.CellArmed
			case m.store.IsSelected(day.Date, h):
				row[d] = view.CellSelected
			}
		}
		data.Cells[r] = row
	}
	return data
}

func (m Model) renderPrompt(width int) string {
	style := m.styles.PromptBox
	frameW, _ := style.GetFrameSize()
	lines := view.PromptLines("rephrase", m.prompt.Value(), "_", max(1, width-frameW))
	return view.RenderPrompt(width, style, view.ClampLines(lines, promptMaxLines, width-frameW))
}

func (m Model) statusLine() string {
	if m.statusMsg != "" && time.Now().Before(m.statusTime) {
		return m.statusMsg
	}
	if m.rephrasing {
		return "Rephrasing..."
	}
	return m.selectionSummary()
}

func (m Model) statusStyle() lipgloss.Style {
	if m.statusErr && m.statusMsg != "" {
		return m.styles.StatusError
	}
	return m.styles.Status
}

func (m Model) selectionSummary() string {
	days, hours := 0, 0
	for _, d := range m.days {
		n := len(m.store.VisibleHours(d.Date))
		if n > 0 {
			days++
			hours += n
		}
	}
	if days == 0 {
		return "No slots selected"
	}
	return fmt.Sprintf("%d hours across %d days", hours, days)
}

func (m Model) renderHelp() string {
	keyW := 0
	for _, e := range helpEntries {
		keyW = max(keyW, lipgloss.Width(e[0]))
	}
	lines := make([]string, 0, len(helpEntries)+2)
	lines = append(lines, m.styles.HelpKey.Render("Keys"), "")
	for _, e := range helpEntries {
		lines = append(lines, m.styles.HelpKey.Render(view.PadCell(e[0], keyW))+"  "+e[1])
	}
	return m.styles.HelpBox.Render(strings.Join(lines, "\n"))
}
