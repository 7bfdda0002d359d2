package dateutil

import (
	"errors"
	"testing"
	"time"
)

func TestParseDate(t *testing.T) {
	t.Run("valid date", func(t *testing.T) {
		got, err := ParseDate("2025-01-15")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "2025-01-15" {
			t.Errorf("got %v, want 2025-01-15", got)
		}
	})

	t.Run("surrounding whitespace", func(t *testing.T) {
		got, err := ParseDate(" 2025-01-15 ")
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if got != "2025-01-15" {
			t.Errorf("got %v, want 2025-01-15", got)
		}
	})

	t.Run("invalid format", func(t *testing.T) {
		_, err := ParseDate("01-15-2025")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})

	t.Run("impossible day", func(t *testing.T) {
		_, err := ParseDate("2025-02-30")
		if !errors.Is(err, ErrInvalidDateFormat) {
			t.Errorf("got error %v, want %v", err, ErrInvalidDateFormat)
		}
	})
}

func TestDateDisplay(t *testing.T) {
	tests := []struct {
		date Date
		want string
	}{
		{"2024-01-01", "1/1(月)"},
		{"2024-12-31", "12/31(火)"},
		{"2025-03-09", "3/9(日)"},
		{"2025-03-15", "3/15(土)"},
		{"not-a-date", "not-a-date"},
	}

	for _, tt := range tests {
		t.Run(string(tt.date), func(t *testing.T) {
			if got := tt.date.Display(); got != tt.want {
				t.Errorf("Display() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestDateAddDays(t *testing.T) {
	if got := Date("2024-12-30").AddDays(3); got != "2025-01-02" {
		t.Errorf("AddDays across year = %v, want 2025-01-02", got)
	}
	if got := Date("2024-03-01").AddDays(-1); got != "2024-02-29" {
		t.Errorf("AddDays leap day = %v, want 2024-02-29", got)
	}
	if got := Date("bad").AddDays(1); got != "bad" {
		t.Errorf("AddDays on invalid date = %v, want unchanged", got)
	}
}

func TestWeek(t *testing.T) {
	now := time.Date(2024, 12, 29, 18, 45, 0, 0, time.Local)
	days := Week(now)

	if len(days) != DaysInWindow {
		t.Fatalf("got %d days, want %d", len(days), DaysInWindow)
	}

	want := []Date{
		"2024-12-29", "2024-12-30", "2024-12-31",
		"2025-01-01", "2025-01-02", "2025-01-03", "2025-01-04",
	}
	for i, d := range days {
		if d.Date != want[i] {
			t.Errorf("day %d: got %v, want %v", i, d.Date, want[i])
		}
		if d.IsToday != (i == 0) {
			t.Errorf("day %d: IsToday = %v", i, d.IsToday)
		}
		if d.Display != d.Date.Display() {
			t.Errorf("day %d: Display = %q, want %q", i, d.Display, d.Date.Display())
		}
		if i > 0 && !days[i-1].Date.Before(d.Date) {
			t.Errorf("day %d is not after day %d", i, i-1)
		}
	}
}

func TestTruncateToDay(t *testing.T) {
	input := time.Date(2025, 1, 15, 14, 30, 45, 123456789, time.UTC)
	got := TruncateToDay(input)
	want := time.Date(2025, 1, 15, 0, 0, 0, 0, time.UTC)
	if !got.Equal(want) {
		t.Errorf("got %v, want %v", got, want)
	}
}

func TestParseRelativeDate(t *testing.T) {
	// Reference date: Friday, January 10, 2025
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)
	monday := time.Date(2025, 1, 13, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		input      string
		relativeTo time.Time
		want       Date
	}{
		{name: "empty returns today", input: "", relativeTo: friday, want: "2025-01-10"},
		{name: "today keyword", input: "today", relativeTo: friday, want: "2025-01-10"},
		{name: "TODAY uppercase", input: "TODAY", relativeTo: friday, want: "2025-01-10"},
		{name: "tomorrow from friday", input: "tomorrow", relativeTo: friday, want: "2025-01-11"},
		{name: "saturday from friday", input: "saturday", relativeTo: friday, want: "2025-01-11"},
		{name: "monday from friday", input: "monday", relativeTo: friday, want: "2025-01-13"},
		{name: "friday from friday returns next friday", input: "friday", relativeTo: friday, want: "2025-01-17"},
		{name: "monday from monday returns next monday", input: "monday", relativeTo: monday, want: "2025-01-20"},
		{name: "next-monday from friday", input: "next-monday", relativeTo: friday, want: "2025-01-13"},
		{name: "next-week from friday", input: "next-week", relativeTo: friday, want: "2025-01-17"},
		{name: "absolute date today", input: "2025-01-10", relativeTo: friday, want: "2025-01-10"},
		{name: "absolute date future", input: "2030-12-31", relativeTo: friday, want: "2030-12-31"},
		{name: "input with whitespace", input: "  monday  ", relativeTo: friday, want: "2025-01-13"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseRelativeDate(tt.input, tt.relativeTo)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("got %v, want %v", got, tt.want)
			}
		})
	}
}

func TestParseRelativeDate_Errors(t *testing.T) {
	friday := time.Date(2025, 1, 10, 14, 30, 0, 0, time.UTC)

	tests := []struct {
		name    string
		input   string
		wantErr error
	}{
		{name: "past absolute date", input: "2025-01-09", wantErr: ErrDateInPast},
		{name: "invalid format US style", input: "01-10-2025", wantErr: ErrInvalidDateFormat},
		{name: "typo weekday", input: "mondya", wantErr: ErrInvalidDateFormat},
		{name: "typo next-weekday", input: "next-mondya", wantErr: ErrInvalidDateFormat},
		{name: "invalid keyword", input: "yesterday", wantErr: ErrInvalidDateFormat},
		{name: "next- without weekday", input: "next-", wantErr: ErrInvalidDateFormat},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := ParseRelativeDate(tt.input, friday)
			if err == nil {
				t.Fatal("expected error, got nil")
			}
			if !errors.Is(err, tt.wantErr) {
				t.Errorf("got error %v, want %v", err, tt.wantErr)
			}
		})
	}
}
