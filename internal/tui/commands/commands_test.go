package commands

import (
	"context"
	"encoding/json"
	"errors"
	"testing"

	"github.com/javiermolinar/akima/internal/dateutil"
	"github.com/javiermolinar/akima/internal/llm"
	"github.com/javiermolinar/akima/internal/slot"
)

type fakeRepo struct {
	prefs     *slot.Preferences
	slots     slot.SlotSet
	listErr   error
	saveErr   error
	pruned    int64
	prunedAt  dateutil.Date
	replaced  slot.SlotSet
	savedPref *slot.Preferences
}

func (f *fakeRepo) LoadPreferences(ctx context.Context) (*slot.Preferences, error) {
	return f.prefs, nil
}

func (f *fakeRepo) SavePreferences(ctx context.Context, prefs slot.Preferences) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.savedPref = &prefs
	return nil
}

func (f *fakeRepo) ListSlots(ctx context.Context, from, to dateutil.Date) (slot.SlotSet, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.slots, nil
}

func (f *fakeRepo) ReplaceSlots(ctx context.Context, from, to dateutil.Date, set slot.SlotSet) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.replaced = set
	return nil
}

func (f *fakeRepo) DeleteSlotsBefore(ctx context.Context, date dateutil.Date) (int64, error) {
	f.prunedAt = date
	return f.pruned, nil
}

func (f *fakeRepo) ClearSlots(ctx context.Context) (int64, error) {
	return 0, nil
}

func (f *fakeRepo) Close() error {
	return nil
}

func TestLoadSession(t *testing.T) {
	repo := &fakeRepo{
		prefs:  &slot.Preferences{Template: "polite", StartHour: 8, EndHour: 18},
		slots:  slot.SlotSet{"2024-01-02": {9, 10}},
		pruned: 3,
	}

	msg := LoadSession(repo, "2024-01-01", "2024-01-07")()
	loaded, ok := msg.(SessionLoadedMsg)
	if !ok {
		t.Fatalf("msg = %T, want SessionLoadedMsg", msg)
	}
	if repo.prunedAt != "2024-01-01" {
		t.Errorf("pruned before %q, want 2024-01-01", repo.prunedAt)
	}
	if loaded.Pruned != 3 {
		t.Errorf("Pruned = %d, want 3", loaded.Pruned)
	}
	if loaded.Prefs == nil || loaded.Prefs.Template != "polite" {
		t.Errorf("Prefs = %+v", loaded.Prefs)
	}
	if len(loaded.Slots["2024-01-02"]) != 2 {
		t.Errorf("Slots = %v", loaded.Slots)
	}
}

func TestLoadSession_Error(t *testing.T) {
	boom := errors.New("boom")
	msg := LoadSession(&fakeRepo{listErr: boom}, "2024-01-01", "2024-01-07")()
	failed, ok := msg.(SessionFailedMsg)
	if !ok {
		t.Fatalf("msg = %T, want SessionFailedMsg", msg)
	}
	if !errors.Is(failed.Err, boom) {
		t.Errorf("Err = %v, want wrapped boom", failed.Err)
	}
}

func TestNilRepoCommands(t *testing.T) {
	if LoadSession(nil, "2024-01-01", "2024-01-07") != nil {
		t.Error("LoadSession(nil) should be nil")
	}
	if SaveSelection(nil, "2024-01-01", "2024-01-07", nil, 1) != nil {
		t.Error("SaveSelection(nil) should be nil")
	}
	if SavePreferences(nil, slot.Preferences{}) != nil {
		t.Error("SavePreferences(nil) should be nil")
	}
}

func TestSaveSelection(t *testing.T) {
	repo := &fakeRepo{}
	set := slot.SlotSet{"2024-01-03": {14}}

	msg := SaveSelection(repo, "2024-01-01", "2024-01-07", set, 42)()
	saved, ok := msg.(SelectionSavedMsg)
	if !ok {
		t.Fatalf("msg = %T, want SelectionSavedMsg", msg)
	}
	if saved.Version != 42 {
		t.Errorf("Version = %d, want 42", saved.Version)
	}
	if len(repo.replaced["2024-01-03"]) != 1 {
		t.Errorf("replaced = %v", repo.replaced)
	}
}

func TestSaveSelection_Error(t *testing.T) {
	boom := errors.New("disk full")
	msg := SaveSelection(&fakeRepo{saveErr: boom}, "2024-01-01", "2024-01-07", slot.SlotSet{}, 7)()
	failed, ok := msg.(SelectionSaveFailedMsg)
	if !ok {
		t.Fatalf("msg = %T, want SelectionSaveFailedMsg", msg)
	}
	if failed.Version != 7 || !errors.Is(failed.Err, boom) {
		t.Errorf("msg = %+v, want version 7 wrapping %v", failed, boom)
	}
}

func TestSavePreferences(t *testing.T) {
	repo := &fakeRepo{}
	msg := SavePreferences(repo, slot.Preferences{Template: "business", StartHour: 10, EndHour: 19})()
	if _, ok := msg.(PreferencesSavedMsg); !ok {
		t.Fatalf("msg = %T, want PreferencesSavedMsg", msg)
	}
	if repo.savedPref == nil || repo.savedPref.Template != "business" {
		t.Fatalf("saved = %+v", repo.savedPref)
	}

	repo.saveErr = errors.New("locked")
	if _, ok := SavePreferences(repo, slot.Preferences{})().(ErrMsg); !ok {
		t.Fatal("expected ErrMsg on failure")
	}
}

func TestCopy(t *testing.T) {
	var written string
	write := func(s string) error {
		written = s
		return nil
	}

	msg := copyWith(write, "1/1(月) 終日")()
	copied, ok := msg.(CopiedMsg)
	if !ok {
		t.Fatalf("msg = %T, want CopiedMsg", msg)
	}
	if copied.Chars != 9 || written != "1/1(月) 終日" {
		t.Errorf("copied %d chars, wrote %q", copied.Chars, written)
	}

	msg = copyWith(write, "")()
	if errMsg, ok := msg.(ErrMsg); !ok || !errors.Is(errMsg.Err, ErrNothingToCopy) {
		t.Errorf("empty copy = %#v, want ErrNothingToCopy", msg)
	}

	failing := func(string) error { return errors.New("no clipboard") }
	if _, ok := copyWith(failing, "x")().(ErrMsg); !ok {
		t.Error("expected ErrMsg when the clipboard fails")
	}
}

func TestGestureTimers_Empty(t *testing.T) {
	if GestureTimers(nil) != nil {
		t.Fatal("expected nil command for no requests")
	}
}

type fakeClient struct {
	reply string
}

func (f fakeClient) Chat(ctx context.Context, messages []llm.Message) (string, error) {
	return f.reply, nil
}

func (f fakeClient) ChatJSON(ctx context.Context, messages []llm.Message, result any) error {
	return json.Unmarshal([]byte(f.reply), result)
}

func TestRephraseWith(t *testing.T) {
	client := fakeClient{reply: `{"text": "How about 1/1(月) 9:00〜10:00?", "notes": ["casual"]}`}

	msg := RephraseWith(client, "1/1(月) 9:00〜10:00", "casual", []string{"1/1(月)"})()
	got, ok := msg.(RephrasedMsg)
	if !ok {
		t.Fatalf("msg = %T (%v), want RephrasedMsg", msg, msg)
	}
	if got.Source != "1/1(月) 9:00〜10:00" {
		t.Errorf("Source = %q", got.Source)
	}
	if got.Text != "How about 1/1(月) 9:00〜10:00?" {
		t.Errorf("Text = %q", got.Text)
	}
}

func TestRephraseWith_Empty(t *testing.T) {
	msg := RephraseWith(fakeClient{}, "", "casual", nil)()
	errMsg, ok := msg.(ErrMsg)
	if !ok || !errors.Is(errMsg.Err, llm.ErrEmptyText) {
		t.Fatalf("msg = %#v, want ErrEmptyText", msg)
	}
}
