package ui

import (
	"strings"
	"testing"

	"github.com/javiermolinar/akima/internal/slot"
)

func TestResetCmd(t *testing.T) {
	app, repo := newTestApp(t)
	ctx := t.Context()

	err := repo.ReplaceSlots(ctx, "2024-01-01", "2024-01-07", slot.SlotSet{
		"2024-01-01": {9, 10},
		"2024-01-03": {14},
	})
	if err != nil {
		t.Fatalf("ReplaceSlots failed: %v", err)
	}
	if err := repo.SavePreferences(ctx, slot.Preferences{Template: "business", StartHour: 8, EndHour: 12}); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	out, _, err := run(t, app, "reset", "--yes")
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if !strings.Contains(out, "Cleared 3 saved slots") {
		t.Errorf("output = %q", out)
	}

	set, err := repo.ListSlots(ctx, "2024-01-01", "2024-01-07")
	if err != nil {
		t.Fatalf("ListSlots failed: %v", err)
	}
	if len(set) != 0 {
		t.Errorf("slots after reset = %v, want none", set)
	}

	prefs, err := repo.LoadPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	if prefs == nil || prefs.Template != "business" {
		t.Errorf("preferences = %+v, want untouched without --prefs", prefs)
	}
}

func TestResetCmd_Prefs(t *testing.T) {
	app, repo := newTestApp(t)
	ctx := t.Context()

	if err := repo.SavePreferences(ctx, slot.Preferences{Template: "business", StartHour: 8, EndHour: 12}); err != nil {
		t.Fatalf("SavePreferences failed: %v", err)
	}

	out, _, err := run(t, app, "reset", "-y", "--prefs")
	if err != nil {
		t.Fatalf("reset failed: %v", err)
	}
	if !strings.Contains(out, "Cleared 0 saved slots") || !strings.Contains(out, "Preferences reset") {
		t.Errorf("output = %q", out)
	}

	prefs, err := repo.LoadPreferences(ctx)
	if err != nil {
		t.Fatalf("LoadPreferences failed: %v", err)
	}
	want := slot.Preferences{Template: "simple", StartHour: 9, EndHour: 21}
	if prefs == nil || *prefs != want {
		t.Errorf("preferences = %+v, want %+v", prefs, want)
	}
}
