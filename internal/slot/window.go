package slot

import "fmt"

// Default window bounds used when no valid window is configured.
const (
	DefaultStartHour = 9
	DefaultEndHour   = 21
)

// Window bounds the selectable hours to [StartHour, EndHour).
type Window struct {
	StartHour int
	EndHour   int
}

// DefaultWindow returns the 9:00-21:00 window.
func DefaultWindow() Window {
	return Window{StartHour: DefaultStartHour, EndHour: DefaultEndHour}
}

// NewWindow validates and returns a window.
func NewWindow(start, end int) (Window, error) {
	w := Window{StartHour: start, EndHour: end}
	if err := w.Validate(); err != nil {
		return Window{}, err
	}
	return w, nil
}

// WindowOrDefault returns the window for start/end, or the default window when invalid.
func WindowOrDefault(start, end int) Window {
	w, err := NewWindow(start, end)
	if err != nil {
		return DefaultWindow()
	}
	return w
}

// Validate checks 0 <= StartHour < EndHour <= 24.
func (w Window) Validate() error {
	if w.StartHour < 0 || w.EndHour > 24 || w.StartHour >= w.EndHour {
		return fmt.Errorf("%w: %d-%d", ErrInvalidWindow, w.StartHour, w.EndHour)
	}
	return nil
}

// Contains reports whether hour lies inside the window.
func (w Window) Contains(hour int) bool {
	return hour >= w.StartHour && hour < w.EndHour
}

// Hours returns the number of hours in the window.
func (w Window) Hours() int {
	return w.EndHour - w.StartHour
}

// LastHour returns the last selectable hour (EndHour-1).
func (w Window) LastHour() int {
	return w.EndHour - 1
}

// String formats the window as "9:00-21:00".
func (w Window) String() string {
	return fmt.Sprintf("%d:00-%d:00", w.StartHour, w.EndHour)
}
