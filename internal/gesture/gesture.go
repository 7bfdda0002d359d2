// Package gesture interprets pointer and keyboard input into selection changes.
//
// The Machine is single-threaded. Timers are not started by the machine itself:
// operations that need one return a TimerRequest, and the caller reports the elapsed
// timer back through Fire with the request's token. Only the most recently requested
// token is live, so a timer from a superseded gesture is ignored when it fires.
package gesture

import (
	"time"

	"github.com/javiermolinar/akima/internal/dateutil"
	"github.com/javiermolinar/akima/internal/slot"
)

const (
	// LongPressDelay is how long the pointer must stay down on a cell to arm range extension.
	LongPressDelay = 500 * time.Millisecond
	// ArmGrace is how long the armed state survives a pointer release.
	ArmGrace = 300 * time.Millisecond
)

// State is the gesture state.
type State int

const (
	StateIdle State = iota
	StateDragging
	StateArmed
)

func (s State) String() string {
	switch s {
	case StateDragging:
		return "dragging"
	case StateArmed:
		return "armed"
	default:
		return "idle"
	}
}

// Mode is the paint mode of a drag stroke, fixed when the stroke starts.
type Mode int

const (
	ModeSelect Mode = iota
	ModeDeselect
)

func (m Mode) String() string {
	if m == ModeDeselect {
		return "deselect"
	}
	return "select"
}

// Cell is one (date, hour) grid position.
type Cell struct {
	Date dateutil.Date
	Hour int
}

// Modifiers holds the modifier keys held during a pointer press.
// Alt stands in for Cmd, which terminals do not report.
type Modifiers struct {
	Shift bool
	Ctrl  bool
	Alt   bool
}

// Key is a keyboard key relevant to an armed gesture.
type Key int

const (
	KeyOther Key = iota
	KeyArrowUp
	KeyArrowDown
)

// Token identifies a requested timer.
type Token uint64

// TimerKind tells what a timer is for.
type TimerKind int

const (
	TimerLongPress TimerKind = iota
	TimerArmGrace
)

// TimerRequest asks the caller to call Fire(Token) after Delay.
type TimerRequest struct {
	Token Token
	Kind  TimerKind
	Delay time.Duration
}

// Transition describes a state change, reported to the observer.
type Transition struct {
	From   State
	To     State
	Reason string
	Cell   Cell
}

// Selection is the subset of slot.Store the machine drives.
type Selection interface {
	Window() slot.Window
	IsSelected(date dateutil.Date, hour int) bool
	SetHour(date dateutil.Date, hour int, selected bool) error
	SelectRange(date dateutil.Date, from, to int) error
	ToggleAllDay(date dateutil.Date)
}

// Option configures a Machine.
type Option func(*Machine)

// WithDates restricts gestures to the given dates. Cells on other dates are ignored.
func WithDates(dates []dateutil.Date) Option {
	return func(m *Machine) {
		m.SetDates(dates)
	}
}

// WithObserver registers a callback for state transitions.
func WithObserver(fn func(Transition)) Option {
	return func(m *Machine) {
		m.observer = fn
	}
}

// Machine is the interaction state machine.
type Machine struct {
	sel      Selection
	dates    map[dateutil.Date]bool
	observer func(Transition)

	state   State
	mode    Mode
	held    bool
	origin  Cell
	current Cell

	pending     Token
	pendingKind TimerKind
	lastToken   Token
}

// New creates a Machine driving sel.
func New(sel Selection, opts ...Option) *Machine {
	m := &Machine{sel: sel}
	for _, opt := range opts {
		opt(m)
	}
	return m
}

// SetDates replaces the set of dates gestures may target. Nil allows any valid date.
func (m *Machine) SetDates(dates []dateutil.Date) {
	if dates == nil {
		m.dates = nil
		return
	}
	m.dates = make(map[dateutil.Date]bool, len(dates))
	for _, d := range dates {
		m.dates[d] = true
	}
}

// State returns the current gesture state.
func (m *Machine) State() State {
	return m.state
}

// Mode returns the paint mode of the active drag stroke.
func (m *Machine) Mode() Mode {
	return m.mode
}

// Armed returns the anchor cell while a long-press is armed.
func (m *Machine) Armed() (Cell, bool) {
	if m.state != StateArmed {
		return Cell{}, false
	}
	return m.origin, true
}

// Pending returns the live timer token, or 0 if none.
func (m *Machine) Pending() Token {
	return m.pending
}

// PointerDown handles a primary-button press on cell.
func (m *Machine) PointerDown(cell Cell, mods Modifiers) []TimerRequest {
	if !m.validCell(cell) {
		return nil
	}
	m.cancelTimer()
	if m.state != StateIdle {
		m.transition(StateIdle, "superseded", cell)
	}

	w := m.sel.Window()
	switch {
	case mods.Shift:
		_ = m.sel.SelectRange(cell.Date, w.StartHour, cell.Hour)
		return nil
	case mods.Ctrl || mods.Alt:
		_ = m.sel.SelectRange(cell.Date, cell.Hour, w.LastHour())
		return nil
	}

	m.mode = ModeSelect
	if m.sel.IsSelected(cell.Date, cell.Hour) {
		m.mode = ModeDeselect
	}
	m.held = true
	m.origin = cell
	m.current = cell
	m.paint(cell)
	m.transition(StateDragging, "press", cell)

	return []TimerRequest{m.schedule(TimerLongPress, LongPressDelay)}
}

// PointerEnter handles the pointer moving onto cell while the button may be down.
func (m *Machine) PointerEnter(cell Cell) {
	if m.state != StateDragging || !m.validCell(cell) || cell == m.current {
		return
	}
	if m.pending != 0 && m.pendingKind == TimerLongPress {
		m.cancelTimer()
	}
	m.current = cell
	m.paint(cell)
}

// PointerUp handles a primary-button release anywhere.
func (m *Machine) PointerUp() []TimerRequest {
	switch m.state {
	case StateDragging:
		m.cancelTimer()
		m.held = false
		m.transition(StateIdle, "release", m.current)
		return nil
	case StateArmed:
		if !m.held {
			return nil
		}
		m.held = false
		return []TimerRequest{m.schedule(TimerArmGrace, ArmGrace)}
	default:
		m.held = false
		return nil
	}
}

// Fire reports that the timer identified by token elapsed.
func (m *Machine) Fire(token Token) {
	if token == 0 || token != m.pending {
		return
	}
	kind := m.pendingKind
	m.pending = 0

	switch kind {
	case TimerLongPress:
		if m.state == StateDragging && m.held && m.current == m.origin {
			m.transition(StateArmed, "long-press", m.origin)
		}
	case TimerArmGrace:
		if m.state == StateArmed && !m.held {
			m.transition(StateIdle, "grace expired", m.origin)
		}
	}
}

// Key handles a key press. It returns true when the key was consumed by an armed gesture.
func (m *Machine) Key(k Key) bool {
	if m.state != StateArmed {
		return false
	}
	anchor := m.origin
	m.cancelTimer()
	m.transition(StateIdle, "key", anchor)

	w := m.sel.Window()
	if !w.Contains(anchor.Hour) {
		return k != KeyOther
	}
	switch k {
	case KeyArrowUp:
		_ = m.sel.SelectRange(anchor.Date, w.StartHour, anchor.Hour)
		return true
	case KeyArrowDown:
		_ = m.sel.SelectRange(anchor.Date, anchor.Hour, w.LastHour())
		return true
	default:
		return false
	}
}

// HeaderClick toggles the whole day of date.
func (m *Machine) HeaderClick(date dateutil.Date) {
	if !m.validDate(date) {
		return
	}
	m.sel.ToggleAllDay(date)
}

// Tap flips a single cell without starting a gesture. Used for keyboard selection.
func (m *Machine) Tap(cell Cell) {
	if !m.validCell(cell) {
		return
	}
	_ = m.sel.SetHour(cell.Date, cell.Hour, !m.sel.IsSelected(cell.Date, cell.Hour))
}

// ExtendUp selects from the window start to cell, like a shift-press.
func (m *Machine) ExtendUp(cell Cell) {
	m.PointerDown(cell, Modifiers{Shift: true})
}

// ExtendDown selects from cell to the window end, like a ctrl-press.
func (m *Machine) ExtendDown(cell Cell) {
	m.PointerDown(cell, Modifiers{Ctrl: true})
}

// Cancel abandons any gesture and pending timer.
func (m *Machine) Cancel() {
	m.cancelTimer()
	m.held = false
	if m.state != StateIdle {
		m.transition(StateIdle, "cancel", m.current)
	}
}

func (m *Machine) paint(cell Cell) {
	_ = m.sel.SetHour(cell.Date, cell.Hour, m.mode == ModeSelect)
}

func (m *Machine) schedule(kind TimerKind, delay time.Duration) TimerRequest {
	m.lastToken++
	m.pending = m.lastToken
	m.pendingKind = kind
	return TimerRequest{Token: m.pending, Kind: kind, Delay: delay}
}

func (m *Machine) cancelTimer() {
	m.pending = 0
}

func (m *Machine) transition(to State, reason string, cell Cell) {
	from := m.state
	m.state = to
	if m.observer != nil && from != to {
		m.observer(Transition{From: from, To: to, Reason: reason, Cell: cell})
	}
}

func (m *Machine) validDate(date dateutil.Date) bool {
	if m.dates != nil {
		return m.dates[date]
	}
	return date.Valid()
}

func (m *Machine) validCell(cell Cell) bool {
	return m.validDate(cell.Date) && m.sel.Window().Contains(cell.Hour)
}
