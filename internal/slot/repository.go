package slot

import (
	"context"

	"github.com/javiermolinar/akima/internal/dateutil"
)

// Preferences is the persisted output and window choice.
type Preferences struct {
	Template  string
	StartHour int
	EndHour   int
}

// Window returns the preferred window, or the default window when the stored one is invalid.
func (p Preferences) Window() Window {
	return WindowOrDefault(p.StartHour, p.EndHour)
}

// Repository defines the storage interface for preferences and selections.
type Repository interface {
	// LoadPreferences returns the saved preferences, or nil if none were saved.
	LoadPreferences(ctx context.Context) (*Preferences, error)

	// SavePreferences stores the preferences, replacing any previous value.
	SavePreferences(ctx context.Context, prefs Preferences) error

	// ListSlots returns the selections between from and to (inclusive).
	ListSlots(ctx context.Context, from, to dateutil.Date) (SlotSet, error)

	// ReplaceSlots atomically replaces the selections between from and to (inclusive) with set.
	// Entries of set outside the range are ignored.
	ReplaceSlots(ctx context.Context, from, to dateutil.Date, set SlotSet) error

	// DeleteSlotsBefore removes selections dated before date. Returns the number of removed slots.
	DeleteSlotsBefore(ctx context.Context, date dateutil.Date) (int64, error)

	// ClearSlots removes every saved selection. Returns the number of removed slots.
	ClearSlots(ctx context.Context) (int64, error)

	// Close releases any resources held by the repository.
	Close() error
}
