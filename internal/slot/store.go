package slot

import (
	"errors"
	"fmt"
	"slices"

	"github.com/javiermolinar/akima/internal/dateutil"
)

// Store errors.
var (
	ErrInvalidHour   = errors.New("hour outside the configured window")
	ErrInvalidWindow = errors.New("window start must be before end within 0-24")
	ErrInvalidRange  = errors.New("range start must not be after range end")
	ErrInvalidDate   = errors.New("invalid calendar date")
)

// SlotSet maps a date to its selected hours, unique and ascending.
// A date is present only while it has at least one hour.
type SlotSet map[dateutil.Date][]int

// Dates returns the dates in ascending order.
func (s SlotSet) Dates() []dateutil.Date {
	dates := make([]dateutil.Date, 0, len(s))
	for d := range s {
		dates = append(dates, d)
	}
	slices.Sort(dates)
	return dates
}

// Clone returns a deep copy.
func (s SlotSet) Clone() SlotSet {
	out := make(SlotSet, len(s))
	for d, hours := range s {
		out[d] = slices.Clone(hours)
	}
	return out
}

// Count returns the total number of selected slots.
func (s SlotSet) Count() int {
	n := 0
	for _, hours := range s {
		n += len(hours)
	}
	return n
}

// Snapshot is a consistent, detached view of the store used for rendering.
type Snapshot struct {
	Window Window
	Slots  SlotSet
}

// VisibleHours returns the hours of date that fall inside the snapshot window.
func (s Snapshot) VisibleHours(date dateutil.Date) []int {
	return visible(s.Slots[date], s.Window)
}

// IsAllDay reports whether date covers the whole snapshot window.
func (s Snapshot) IsAllDay(date dateutil.Date) bool {
	return coversWindow(s.Slots[date], s.Window)
}

// Store owns the slot selection. Hours outside a later-shrunk window are kept
// but ignored by IsAllDay, VisibleHours and rendering until the window widens again.
type Store struct {
	window  Window
	slots   SlotSet
	version uint64
}

// NewStore creates an empty store bounded by w. An invalid window falls back to the default.
func NewStore(w Window) *Store {
	if w.Validate() != nil {
		w = DefaultWindow()
	}
	return &Store{window: w, slots: make(SlotSet)}
}

// Window returns the current window.
func (s *Store) Window() Window {
	return s.window
}

// Version increases on every applied mutation.
func (s *Store) Version() uint64 {
	return s.version
}

// SetWindow replaces the window. Existing selections are left untouched.
func (s *Store) SetWindow(start, end int) error {
	w, err := NewWindow(start, end)
	if err != nil {
		return err
	}
	if w != s.window {
		s.window = w
		s.version++
	}
	return nil
}

// ToggleHour flips hour on date.
func (s *Store) ToggleHour(date dateutil.Date, hour int) error {
	if err := s.checkCell(date, hour); err != nil {
		return err
	}
	s.set(date, hour, !s.IsSelected(date, hour))
	return nil
}

// SetHour forces hour on date to the given selection state.
func (s *Store) SetHour(date dateutil.Date, hour int, selected bool) error {
	if err := s.checkCell(date, hour); err != nil {
		return err
	}
	if s.IsSelected(date, hour) != selected {
		s.set(date, hour, selected)
	}
	return nil
}

// SelectRange adds every hour in [from, to] to date.
// Clamping to the window is the caller's responsibility; hours outside 0-23 are rejected.
func (s *Store) SelectRange(date dateutil.Date, from, to int) error {
	if !date.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if from > to {
		return fmt.Errorf("%w: %d > %d", ErrInvalidRange, from, to)
	}
	if !validHour(from) || !validHour(to) {
		return fmt.Errorf("%w: %s %d-%d", ErrInvalidHour, date, from, to)
	}
	hours := slices.Clone(s.slots[date])
	for h := from; h <= to; h++ {
		hours = append(hours, h)
	}
	slices.Sort(hours)
	hours = slices.Compact(hours)
	if !slices.Equal(hours, s.slots[date]) {
		s.slots[date] = hours
		s.version++
	}
	return nil
}

// IsSelected reports whether hour is selected on date, regardless of the window.
func (s *Store) IsSelected(date dateutil.Date, hour int) bool {
	_, found := slices.BinarySearch(s.slots[date], hour)
	return found
}

// IsAllDay reports whether date covers every hour of the current window.
func (s *Store) IsAllDay(date dateutil.Date) bool {
	return coversWindow(s.slots[date], s.window)
}

// ToggleAllDay clears date when it is all-day, otherwise selects the full window.
func (s *Store) ToggleAllDay(date dateutil.Date) {
	if !date.Valid() {
		return
	}
	if s.IsAllDay(date) {
		delete(s.slots, date)
		s.version++
		return
	}
	_ = s.SelectRange(date, s.window.StartHour, s.window.LastHour())
}

// Reset clears every selection.
func (s *Store) Reset() {
	if len(s.slots) == 0 {
		return
	}
	s.slots = make(SlotSet)
	s.version++
}

// Hours returns a copy of the hours stored for date, including hidden ones.
func (s *Store) Hours(date dateutil.Date) []int {
	return slices.Clone(s.slots[date])
}

// VisibleHours returns the hours of date inside the current window.
func (s *Store) VisibleHours(date dateutil.Date) []int {
	return visible(s.slots[date], s.window)
}

// Empty reports whether nothing is selected.
func (s *Store) Empty() bool {
	return len(s.slots) == 0
}

// Snapshot returns a deep copy of the current state.
func (s *Store) Snapshot() Snapshot {
	return Snapshot{Window: s.window, Slots: s.slots.Clone()}
}

// Load replaces the selection with set. Hours outside 0-23 and malformed dates are dropped.
func (s *Store) Load(set SlotSet) {
	s.slots = make(SlotSet, len(set))
	for d, hours := range set {
		if !d.Valid() {
			continue
		}
		clean := make([]int, 0, len(hours))
		for _, h := range hours {
			if validHour(h) {
				clean = append(clean, h)
			}
		}
		slices.Sort(clean)
		clean = slices.Compact(clean)
		if len(clean) > 0 {
			s.slots[d] = clean
		}
	}
	s.version++
}

func validHour(h int) bool {
	return h >= 0 && h < 24
}

func (s *Store) checkCell(date dateutil.Date, hour int) error {
	if !date.Valid() {
		return fmt.Errorf("%w: %q", ErrInvalidDate, date)
	}
	if !s.window.Contains(hour) {
		return fmt.Errorf("%w: %s %d (window %s)", ErrInvalidHour, date, hour, s.window)
	}
	return nil
}

func (s *Store) set(date dateutil.Date, hour int, selected bool) {
	hours := s.slots[date]
	i, found := slices.BinarySearch(hours, hour)
	switch {
	case selected && !found:
		s.slots[date] = slices.Insert(slices.Clone(hours), i, hour)
	case !selected && found:
		hours = slices.Delete(slices.Clone(hours), i, i+1)
		if len(hours) == 0 {
			delete(s.slots, date)
		} else {
			s.slots[date] = hours
		}
	default:
		return
	}
	s.version++
}

func visible(hours []int, w Window) []int {
	out := make([]int, 0, len(hours))
	for _, h := range hours {
		if w.Contains(h) {
			out = append(out, h)
		}
	}
	return out
}

func coversWindow(hours []int, w Window) bool {
	for h := w.StartHour; h < w.EndHour; h++ {
		if _, found := slices.BinarySearch(hours, h); !found {
			return false
		}
	}
	return true
}
