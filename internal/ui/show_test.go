package ui

import (
	"errors"
	"strings"
	"testing"

	"github.com/javiermolinar/akima/internal/dateutil"
	"github.com/javiermolinar/akima/internal/slot"
)

func TestFormatWeekGrid(t *testing.T) {
	noColor(t)

	days := dateutil.Week(testNow)
	snap := slot.Snapshot{
		Window: slot.Window{StartHour: 9, EndHour: 12},
		Slots: slot.SlotSet{
			"2024-01-01": {10},
			"2024-01-02": {9, 10, 11},
			"2024-01-03": {20},
		},
	}

	lines := FormatWeekGrid(days, snap)
	if len(lines) != 4 {
		t.Fatalf("got %d lines, want header + 3 hours:\n%s", len(lines), strings.Join(lines, "\n"))
	}

	if !strings.Contains(lines[0], "1/1(月)") || !strings.Contains(lines[0], "1/7(日)") {
		t.Errorf("header = %q, want every day label", lines[0])
	}
	if !strings.Contains(lines[0], "1/2(火)*") {
		t.Errorf("header = %q, want whole-day mark on 1/2", lines[0])
	}
	if strings.Contains(lines[0], "1/3(水)*") {
		t.Errorf("header = %q, hidden hours must not count", lines[0])
	}

	tests := []struct {
		line int
		hour string
		want int
	}{
		{line: 1, hour: " 9:00", want: 1},
		{line: 2, hour: "10:00", want: 2},
		{line: 3, hour: "11:00", want: 1},
	}
	for _, tt := range tests {
		line := lines[tt.line]
		if !strings.HasPrefix(line, tt.hour) {
			t.Errorf("line %d = %q, want prefix %q", tt.line, line, tt.hour)
		}
		if got := strings.Count(line, "■"); got != tt.want {
			t.Errorf("line %d has %d selected marks, want %d", tt.line, got, tt.want)
		}
	}
}

func TestShowCmd(t *testing.T) {
	noColor(t)
	app, repo := newTestApp(t)

	err := repo.ReplaceSlots(t.Context(), "2024-01-01", "2024-01-07", slot.SlotSet{
		"2024-01-01": {9, 10},
	})
	if err != nil {
		t.Fatalf("ReplaceSlots failed: %v", err)
	}

	out, _, err := run(t, app, "show", "--no-color")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	for _, want := range []string{"1/1(月)〜1/7(日)", "[シンプル]", "1/1(月) 9:00〜11:00"} {
		if !strings.Contains(out, want) {
			t.Errorf("output missing %q:\n%s", want, out)
		}
	}
}

func TestShowCmd_UsesSavedPreferences(t *testing.T) {
	noColor(t)
	app, repo := newTestApp(t)

	ctx := t.Context()
	if err := repo.SavePreferences(ctx, slot.Preferences{Template: "polite", StartHour: 10, EndHour: 12}); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}
	err := repo.ReplaceSlots(ctx, "2024-01-01", "2024-01-07", slot.SlotSet{
		"2024-01-01": {9, 10, 11},
	})
	if err != nil {
		t.Fatalf("ReplaceSlots failed: %v", err)
	}

	out, _, err := run(t, app, "show", "--text")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	want := "下記の日程でご都合いかがでしょうか？\n\n- 1/1(月) 終日\n\nご確認よろしくお願いいたします。\n"
	if out != want {
		t.Errorf("output = %q, want %q", out, want)
	}
}

func TestShowCmd_Empty(t *testing.T) {
	noColor(t)
	app, _ := newTestApp(t)

	out, _, err := run(t, app, "show")
	if err != nil {
		t.Fatalf("show failed: %v", err)
	}
	if !strings.Contains(out, "No slots selected.") {
		t.Errorf("output = %q, want empty notice", out)
	}
}

func TestShowCmd_TextOnlyEmpty(t *testing.T) {
	app, _ := newTestApp(t)

	_, _, err := run(t, app, "show", "--text")
	if !errors.Is(err, ErrNothingSelected) {
		t.Errorf("error = %v, want %v", err, ErrNothingSelected)
	}
}
