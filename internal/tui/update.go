package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/akima/internal/llm"
	"github.com/javiermolinar/akima/internal/render"
	"github.com/javiermolinar/akima/internal/tui/commands"
)

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyMsg(msg)

	case tea.MouseMsg:
		return m.handleMouseMsg(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.prompt.Width = max(10, m.width-20)
		return m, nil

	case commands.GestureTimerMsg:
		m.machine.Fire(msg.Token)
		return m, nil

	case commands.SessionLoadedMsg:
		m.applySession(msg)
		if msg.Pruned > 0 {
			return m, m.setStatus(fmt.Sprintf("Removed %d past slots", msg.Pruned), statusDuration)
		}
		return m, nil

	case commands.SessionFailedMsg:
		m.loading = false
		m.loadFailed = true
		LogError("load", msg.Err)
		return m, m.setError(fmt.Errorf("%w (changes will not be saved)", msg.Err))

	case commands.SaveTickMsg:
		if msg.Version != m.store.Version() || msg.Version == m.savedVersion || !m.canSave() {
			return m, nil
		}
		if m.saving {
			// The in-flight write re-checks the version when it settles.
			return m, nil
		}
		m.saving = true
		return m, m.saveSelection()

	case commands.SelectionSavedMsg:
		m.saving = false
		m.savedVersion = msg.Version
		LogPersist("selection", msg.Version)
		return m.afterSave()

	case commands.SelectionSaveFailedMsg:
		m.saving = false
		LogError("save", msg.Err)
		cmd := m.setError(msg.Err)
		if m.quitting {
			return m, tea.Batch(cmd, tea.Quit)
		}
		return m, cmd

	case commands.PreferencesSavedMsg:
		LogPersist("preferences", m.store.Version())
		return m, nil

	case commands.CopiedMsg:
		return m, m.setStatus("Copied!", copiedFeedback)

	case commands.RephrasedMsg:
		m.rephrasing = false
		if msg.Source != m.renderedText() {
			// The selection changed while the model was answering.
			return m, m.setStatus("Selection changed, rephrase discarded", statusDuration)
		}
		m.rephrased = msg.Text
		m.rephrasedFrom = msg.Source
		status := "Rephrased (esc to restore)"
		if len(msg.Notes) > 0 {
			status += ": " + strings.Join(msg.Notes, "; ")
		}
		return m, m.setStatus(status, statusDuration)

	case commands.ErrMsg:
		m.rephrasing = false
		LogError("command", msg.Err)
		return m, m.setError(msg.Err)

	case commands.StatusMsgCmd:
		return m, m.setStatus(msg.Msg, statusDuration)

	case commands.ClearStatusMsg:
		if !time.Now().Before(m.statusTime) {
			m.statusMsg = ""
			m.statusErr = false
		}
		return m, nil
	}

	// Cursor blink and other component messages.
	if m.mode == ModePrompt {
		var cmd tea.Cmd
		m.prompt, cmd = m.prompt.Update(msg)
		return m, cmd
	}

	return m, nil
}

func (m *Model) applySession(msg commands.SessionLoadedMsg) {
	if msg.Prefs != nil {
		if tpl, err := render.ParseTemplate(msg.Prefs.Template); err == nil {
			m.template = tpl
		}
		w := msg.Prefs.Window()
		_ = m.store.SetWindow(w.StartHour, w.EndHour)
	}
	m.store.Load(msg.Slots)
	m.savedVersion = m.store.Version()
	m.loading = false
	m.clampCursor()
	LogStore("load", m.store)
}

// canSave reports whether writes are safe: a session was read and nothing failed to load.
func (m Model) canSave() bool {
	return m.repo != nil && !m.loading && !m.loadFailed
}

// afterInput schedules a save when the selection changed.
func (m Model) afterInput(cmd tea.Cmd) (tea.Model, tea.Cmd) {
	version := m.store.Version()
	if version == m.savedVersion || !m.canSave() {
		return m, cmd
	}
	LogStore("mutate", m.store)
	return m, tea.Batch(cmd, commands.SaveAfter(saveDelay, version))
}

// afterSave starts the next write when edits arrived during the last one,
// and finishes a pending quit once everything is written.
func (m Model) afterSave() (tea.Model, tea.Cmd) {
	if m.store.Version() != m.savedVersion {
		m.saving = true
		return m, m.saveSelection()
	}
	if m.quitting {
		return m, tea.Quit
	}
	return m, nil
}

func (m Model) saveSelection() tea.Cmd {
	first, last := m.weekRange()
	return commands.SaveSelection(m.repo, first, last, m.store.Snapshot().Slots, m.store.Version())
}

func (m Model) savePreferences() tea.Cmd {
	if !m.canSave() {
		return nil
	}
	return commands.SavePreferences(m.repo, m.preferences())
}

func (m *Model) setStatus(msg string, d time.Duration) tea.Cmd {
	m.statusMsg = msg
	m.statusErr = false
	m.statusTime = time.Now().Add(d)
	return commands.ClearStatusAfter(d)
}

func (m *Model) setError(err error) tea.Cmd {
	msg := fmt.Sprintf("Error: %v", err)
	switch {
	case errors.Is(err, commands.ErrNothingToCopy):
		msg = "Nothing to copy"
	case errors.Is(err, llm.ErrLabelsDropped):
		msg = "Rephrase dropped some dates, kept the original text"
	}
	m.statusMsg = msg
	m.statusErr = true
	m.statusTime = time.Now().Add(errorDuration)
	return commands.ClearStatusAfter(errorDuration)
}
