package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/akima/internal/gesture"
	"github.com/javiermolinar/akima/internal/tui/commands"
	"github.com/javiermolinar/akima/internal/tui/view"
)

// handleMouseMsg maps mouse events on the grid to gestures.
func (m Model) handleMouseMsg(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	if m.mode != ModeNormal || m.loading {
		return m, nil
	}

	hit := m.layout().grid.HitTest(msg.X, msg.Y)
	LogMouse(msg, hitString(hit))

	var cmd tea.Cmd
	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m, nil
		}
		switch hit.Kind {
		case view.HitHeader:
			m.machine.Cancel()
			m.machine.HeaderClick(m.days[hit.Day].Date)
		case view.HitCell:
			m.cursor = Position{Day: hit.Day, Row: hit.Row}
			mods := gesture.Modifiers{Shift: msg.Shift, Ctrl: msg.Ctrl, Alt: msg.Alt}
			cmd = commands.GestureTimers(m.machine.PointerDown(m.cellAt(hit.Day, hit.Row), mods))
		}

	case tea.MouseActionMotion:
		if hit.Kind == view.HitCell && m.machine.State() == gesture.StateDragging {
			m.cursor = Position{Day: hit.Day, Row: hit.Row}
			m.machine.PointerEnter(m.cellAt(hit.Day, hit.Row))
		}

	case tea.MouseActionRelease:
		cmd = commands.GestureTimers(m.machine.PointerUp())
	}

	return m.afterInput(cmd)
}

func hitString(hit view.Hit) string {
	switch hit.Kind {
	case view.HitHeader:
		return fmt.Sprintf("header %d", hit.Day)
	case view.HitCell:
		return fmt.Sprintf("cell %d/%d", hit.Day, hit.Row)
	default:
		return "none"
	}
}
