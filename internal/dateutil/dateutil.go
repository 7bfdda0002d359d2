// Package dateutil provides calendar date parsing, formatting, and the rolling week window.
package dateutil

import (
	"errors"
	"strconv"
	"strings"
	"time"
)

// Validation errors.
var (
	ErrInvalidDateFormat = errors.New("date must be in YYYY-MM-DD format")
	ErrDateInPast        = errors.New("date is in the past")
)

// DaysInWindow is the number of days shown in the rolling window.
const DaysInWindow = 7

const layout = "2006-01-02"

// weekdayNames are the single-character Japanese weekday labels, indexed by time.Weekday.
var weekdayNames = [7]string{"日", "月", "火", "水", "木", "金", "土"}

// weekdayMap maps weekday names to time.Weekday values.
var weekdayMap = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

// Date is a naive calendar date in YYYY-MM-DD form.
// Lexicographic order of valid dates equals chronological order.
type Date string

// Day is one column of the rolling window.
type Day struct {
	Date    Date
	Display string // e.g. "1/1(月)"
	IsToday bool
}

// ParseDate validates s as a YYYY-MM-DD date.
func ParseDate(s string) (Date, error) {
	t, err := time.Parse(layout, strings.TrimSpace(s))
	if err != nil {
		return "", ErrInvalidDateFormat
	}
	return FromTime(t), nil
}

// FromTime returns the calendar date of t in t's location.
func FromTime(t time.Time) Date {
	return Date(t.Format(layout))
}

// Time returns midnight UTC of the date. Only the calendar fields are meaningful.
func (d Date) Time() (time.Time, error) {
	t, err := time.Parse(layout, string(d))
	if err != nil {
		return time.Time{}, ErrInvalidDateFormat
	}
	return t, nil
}

// Valid reports whether d is a well-formed date.
func (d Date) Valid() bool {
	_, err := d.Time()
	return err == nil
}

// AddDays returns the date n days after d.
func (d Date) AddDays(n int) Date {
	t, err := d.Time()
	if err != nil {
		return d
	}
	return FromTime(t.AddDate(0, 0, n))
}

// Before reports whether d is strictly before other.
func (d Date) Before(other Date) bool {
	return d < other
}

// Display formats the date as "M/D(曜)". Invalid dates are returned unchanged.
func (d Date) Display() string {
	t, err := d.Time()
	if err != nil {
		return string(d)
	}
	return strconv.Itoa(int(t.Month())) + "/" + strconv.Itoa(t.Day()) + "(" + weekdayNames[t.Weekday()] + ")"
}

// String implements fmt.Stringer.
func (d Date) String() string {
	return string(d)
}

// Week returns DaysInWindow consecutive days starting at today's local date.
func Week(today time.Time) []Day {
	start := TruncateToDay(today)
	days := make([]Day, 0, DaysInWindow)
	for i := 0; i < DaysInWindow; i++ {
		d := FromTime(start.AddDate(0, 0, i))
		days = append(days, Day{
			Date:    d,
			Display: d.Display(),
			IsToday: i == 0,
		})
	}
	return days
}

// TruncateToDay returns t with time set to midnight.
func TruncateToDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// ParseRelativeDate parses a date string that can be:
//   - Empty string or "today": returns relativeTo date
//   - Absolute date: "2025-01-15" (YYYY-MM-DD)
//   - Keywords: "tomorrow"
//   - Weekday names: "monday" through "sunday" (next occurrence, always future)
//   - Next prefixed: "next-monday" through "next-sunday", "next-week"
//
// All inputs are case-insensitive.
// Returns ErrDateInPast if the resulting date is before relativeTo (truncated to day).
// Returns ErrInvalidDateFormat for unrecognized input.
func ParseRelativeDate(s string, relativeTo time.Time) (Date, error) {
	today := TruncateToDay(relativeTo)
	input := strings.ToLower(strings.TrimSpace(s))

	switch input {
	case "", "today":
		return FromTime(today), nil
	case "tomorrow":
		return FromTime(today.AddDate(0, 0, 1)), nil
	case "next-week":
		return FromTime(today.AddDate(0, 0, 7)), nil
	}

	if strings.HasPrefix(input, "next-") {
		weekdayName := strings.TrimPrefix(input, "next-")
		if targetDay, ok := weekdayMap[weekdayName]; ok {
			return FromTime(nextWeekday(today, targetDay)), nil
		}
		return "", ErrInvalidDateFormat
	}

	if targetDay, ok := weekdayMap[input]; ok {
		return FromTime(nextWeekday(today, targetDay)), nil
	}

	d, err := ParseDate(input)
	if err != nil {
		return "", err
	}
	if d.Before(FromTime(today)) {
		return "", ErrDateInPast
	}
	return d, nil
}

// nextWeekday returns the next occurrence of the given weekday after today.
// If today is the target weekday, returns one week from today.
func nextWeekday(today time.Time, target time.Weekday) time.Time {
	daysUntil := int(target) - int(today.Weekday())
	if daysUntil <= 0 {
		daysUntil += 7
	}
	return today.AddDate(0, 0, daysUntil)
}
