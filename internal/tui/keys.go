package tui

import (
	"errors"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/akima/internal/gesture"
	"github.com/javiermolinar/akima/internal/render"
	"github.com/javiermolinar/akima/internal/slot"
	"github.com/javiermolinar/akima/internal/tui/commands"
)

// handleKeyMsg handles keyboard input.
func (m Model) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	LogKeyPress(msg, m.mode)

	if msg.String() == "ctrl+c" {
		return m.quit()
	}

	switch m.mode {
	case ModePrompt:
		return m.handlePromptKeys(msg)
	case ModeHelp:
		m.mode = ModeNormal
		return m, nil
	default:
		return m.handleNormalKeys(msg)
	}
}

// handleNormalKeys handles keys on the grid.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// An armed long-press owns the arrow keys; any other key disarms it and is handled as usual.
	if m.machine.State() == gesture.StateArmed {
		if m.machine.Key(gestureKey(msg)) {
			return m.afterInput(nil)
		}
	}

	switch msg.String() {
	case "q":
		return m.quit()
	case "?":
		m.mode = ModeHelp
		return m, nil
	case "esc":
		m.machine.Cancel()
		if m.rephrased != "" {
			m.rephrased = ""
			m.rephrasedFrom = ""
			return m, m.setStatus("Restored template output", statusDuration)
		}
		return m, nil

	// Navigation
	case "h", "left":
		m.cursor.Day--
	case "l", "right":
		m.cursor.Day++
	case "k", "up":
		m.cursor.Row--
	case "j", "down":
		m.cursor.Row++
	case "g", "home":
		m.cursor.Row = 0
	case "G", "end":
		m.cursor.Row = m.store.Window().Hours() - 1
	}
	m.clampCursor()

	if m.loading {
		return m, nil
	}

	switch msg.String() {
	// Selection
	case " ", "enter":
		m.machine.Tap(m.cursorCell())
	case "a":
		m.machine.HeaderClick(m.cursorCell().Date)
	case "K", "shift+up":
		m.machine.ExtendUp(m.cursorCell())
	case "J", "shift+down":
		m.machine.ExtendDown(m.cursorCell())
	case "X":
		m.machine.Cancel()
		m.store.Reset()
		m.rephrased = ""
		return m.afterInput(m.setStatus("Cleared all selections", statusDuration))

	// Output
	case "t", "tab":
		return m.setTemplate(m.template.Next())
	case "1", "2", "3":
		return m.setTemplate(render.Templates()[msg.String()[0]-'1'])
	case "y", "c":
		return m, commands.CopyToClipboard(m.Output())
	case "r":
		if m.renderedText() == "" {
			return m, m.setStatus("Nothing to rephrase", statusDuration)
		}
		if m.rephrasing {
			return m, nil
		}
		m.mode = ModePrompt
		m.prompt.SetValue("")
		m.prompt.Focus()
		return m, textinput.Blink

	// Window
	case "[":
		return m.shiftWindow(-1, 0)
	case "]":
		return m.shiftWindow(1, 0)
	case "{":
		return m.shiftWindow(0, -1)
	case "}":
		return m.shiftWindow(0, 1)
	}

	return m.afterInput(nil)
}

// handlePromptKeys handles keys while typing a rephrase instruction.
func (m Model) handlePromptKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.mode = ModeNormal
		m.prompt.Blur()
		return m, nil
	case "enter":
		instruction := strings.TrimSpace(m.prompt.Value())
		m.mode = ModeNormal
		m.prompt.Blur()
		m.rephrasing = true
		text := m.renderedText()
		return m, tea.Batch(
			m.setStatus("Rephrasing...", rephraseStatusDuration),
			commands.Rephrase(m.config, text, instruction, m.labels()),
		)
	}

	var cmd tea.Cmd
	m.prompt, cmd = m.prompt.Update(msg)
	return m, cmd
}

func (m Model) setTemplate(t render.Template) (tea.Model, tea.Cmd) {
	if t == m.template {
		return m, nil
	}
	m.template = t
	return m, tea.Batch(
		m.savePreferences(),
		m.setStatus("Template: "+t.Label(), statusDuration),
	)
}

func (m Model) shiftWindow(startDelta, endDelta int) (tea.Model, tea.Cmd) {
	w := m.store.Window()
	if err := m.store.SetWindow(w.StartHour+startDelta, w.EndHour+endDelta); err != nil {
		if errors.Is(err, slot.ErrInvalidWindow) {
			return m, m.setStatus("Window must keep 0 ≤ start < end ≤ 24", statusDuration)
		}
		return m, m.setError(err)
	}
	m.machine.Cancel()
	m.clampCursor()
	return m.afterInput(tea.Batch(
		m.savePreferences(),
		m.setStatus("Window: "+m.store.Window().String(), statusDuration),
	))
}

func (m Model) quit() (tea.Model, tea.Cmd) {
	m.machine.Cancel()
	if !m.canSave() {
		return m, tea.Quit
	}
	if m.saving {
		m.quitting = true
		return m, nil
	}
	if m.store.Version() != m.savedVersion {
		m.quitting = true
		m.saving = true
		return m, m.saveSelection()
	}
	return m, tea.Quit
}

func gestureKey(msg tea.KeyMsg) gesture.Key {
	switch msg.Type {
	case tea.KeyUp:
		return gesture.KeyArrowUp
	case tea.KeyDown:
		return gesture.KeyArrowDown
	default:
		return gesture.KeyOther
	}
}

func (m *Model) clampCursor() {
	m.cursor.Day = max(0, min(len(m.days)-1, m.cursor.Day))
	m.cursor.Row = max(0, min(m.store.Window().Hours()-1, m.cursor.Row))
}

func (m Model) cursorCell() gesture.Cell {
	return m.cellAt(m.cursor.Day, m.cursor.Row)
}

func (m Model) cellAt(day, row int) gesture.Cell {
	return gesture.Cell{Date: m.days[day].Date, Hour: m.store.Window().StartHour + row}
}
