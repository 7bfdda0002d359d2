// Package commands provides TUI command constructors and message types.
package commands

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/atotto/clipboard"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/javiermolinar/akima/internal/config"
	"github.com/javiermolinar/akima/internal/dateutil"
	"github.com/javiermolinar/akima/internal/gesture"
	"github.com/javiermolinar/akima/internal/llm"
	"github.com/javiermolinar/akima/internal/slot"
)

const (
	storageTimeout  = 5 * time.Second
	rephraseTimeout = 90 * time.Second
)

// ErrNothingToCopy is returned when the output is empty.
var ErrNothingToCopy = errors.New("nothing to copy")

// SessionLoadedMsg is sent when preferences and saved selections are loaded.
type SessionLoadedMsg struct {
	Prefs  *slot.Preferences // nil when nothing was saved yet
	Slots  slot.SlotSet
	Pruned int64
}

// SessionFailedMsg is sent when the saved session could not be read.
type SessionFailedMsg struct {
	Err error
}

// SelectionSavedMsg is sent when the selection has been written.
type SelectionSavedMsg struct {
	Version uint64
}

// SelectionSaveFailedMsg is sent when writing the selection failed.
type SelectionSaveFailedMsg struct {
	Version uint64
	Err     error
}

// PreferencesSavedMsg is sent when preferences have been written.
type PreferencesSavedMsg struct{}

// SaveTickMsg asks the model to persist the selection if it is still at Version.
type SaveTickMsg struct {
	Version uint64
}

// GestureTimerMsg delivers an elapsed gesture timer.
type GestureTimerMsg struct {
	Token gesture.Token
	Kind  gesture.TimerKind
}

// CopiedMsg is sent after the output was copied to the clipboard.
type CopiedMsg struct {
	Chars int
}

// RephrasedMsg carries the LLM rewrite of the output.
type RephrasedMsg struct {
	Source string // text that was rephrased
	Text   string
	Notes  []string
}

// ErrMsg is sent when an error occurs.
type ErrMsg struct {
	Err error
}

// StatusMsgCmd is sent for temporary status messages.
type StatusMsgCmd struct {
	Msg string
}

// ClearStatusMsg is sent to clear the status message.
type ClearStatusMsg struct{}

// LoadSession prunes selections before the first date, then loads preferences and the
// selections between first and last.
func LoadSession(repo slot.Repository, first, last dateutil.Date) tea.Cmd {
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		pruned, err := repo.DeleteSlotsBefore(ctx, first)
		if err != nil {
			return SessionFailedMsg{Err: fmt.Errorf("pruning old slots: %w", err)}
		}

		prefs, err := repo.LoadPreferences(ctx)
		if err != nil {
			return SessionFailedMsg{Err: fmt.Errorf("loading preferences: %w", err)}
		}

		slots, err := repo.ListSlots(ctx, first, last)
		if err != nil {
			return SessionFailedMsg{Err: fmt.Errorf("loading slots: %w", err)}
		}

		return SessionLoadedMsg{Prefs: prefs, Slots: slots, Pruned: pruned}
	}
}

// SaveSelection replaces the stored selections between first and last with set.
func SaveSelection(repo slot.Repository, first, last dateutil.Date, set slot.SlotSet, version uint64) tea.Cmd {
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		if err := repo.ReplaceSlots(ctx, first, last, set); err != nil {
			return SelectionSaveFailedMsg{Version: version, Err: fmt.Errorf("saving selection: %w", err)}
		}
		return SelectionSavedMsg{Version: version}
	}
}

// SavePreferences stores the template and window preference.
func SavePreferences(repo slot.Repository, prefs slot.Preferences) tea.Cmd {
	if repo == nil {
		return nil
	}
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), storageTimeout)
		defer cancel()

		if err := repo.SavePreferences(ctx, prefs); err != nil {
			return ErrMsg{Err: fmt.Errorf("saving preferences: %w", err)}
		}
		return PreferencesSavedMsg{}
	}
}

// SaveAfter schedules a SaveTickMsg for version.
func SaveAfter(delay time.Duration, version uint64) tea.Cmd {
	return tea.Tick(delay, func(time.Time) tea.Msg {
		return SaveTickMsg{Version: version}
	})
}

// GestureTimers turns timer requests into ticks.
func GestureTimers(reqs []gesture.TimerRequest) tea.Cmd {
	if len(reqs) == 0 {
		return nil
	}
	cmds := make([]tea.Cmd, 0, len(reqs))
	for _, req := range reqs {
		req := req
		cmds = append(cmds, tea.Tick(req.Delay, func(time.Time) tea.Msg {
			return GestureTimerMsg{Token: req.Token, Kind: req.Kind}
		}))
	}
	return tea.Batch(cmds...)
}

// CopyToClipboard writes text to the system clipboard.
func CopyToClipboard(text string) tea.Cmd {
	return copyWith(clipboard.WriteAll, text)
}

func copyWith(write func(string) error, text string) tea.Cmd {
	return func() tea.Msg {
		if text == "" {
			return ErrMsg{Err: ErrNothingToCopy}
		}
		if err := write(text); err != nil {
			return ErrMsg{Err: fmt.Errorf("copying to clipboard: %w", err)}
		}
		return CopiedMsg{Chars: len([]rune(text))}
	}
}

// Rephrase creates an LLM client from cfg and rewrites text following instruction.
func Rephrase(cfg *config.Config, text, instruction string, labels []string) tea.Cmd {
	return func() tea.Msg {
		client, err := llm.NewClient(cfg.LLM.Provider, cfg.LLM.Model, cfg.LLM.BaseURL)
		if err != nil {
			return ErrMsg{Err: fmt.Errorf("creating LLM client: %w", err)}
		}
		return rephrase(client, text, instruction, labels)
	}
}

// RephraseWith rewrites text with an existing client.
func RephraseWith(client llm.Client, text, instruction string, labels []string) tea.Cmd {
	return func() tea.Msg {
		return rephrase(client, text, instruction, labels)
	}
}

func rephrase(client llm.Client, text, instruction string, labels []string) tea.Msg {
	ctx, cancel := context.WithTimeout(context.Background(), rephraseTimeout)
	defer cancel()

	resp, err := llm.NewRephraser(client).Rephrase(ctx, llm.RephraseRequest{
		Text:        text,
		Instruction: instruction,
		Labels:      labels,
	})
	if err != nil {
		return ErrMsg{Err: err}
	}
	return RephrasedMsg{Source: text, Text: resp.Text, Notes: resp.Notes}
}

// ClearStatusAfter schedules a ClearStatusMsg.
func ClearStatusAfter(d time.Duration) tea.Cmd {
	return tea.Tick(d, func(time.Time) tea.Msg {
		return ClearStatusMsg{}
	})
}
