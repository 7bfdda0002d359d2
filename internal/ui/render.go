package ui

import (
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/atotto/clipboard"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/akima/internal/dateutil"
	"github.com/javiermolinar/akima/internal/llm"
	"github.com/javiermolinar/akima/internal/render"
	"github.com/javiermolinar/akima/internal/slot"
)

// ErrInvalidSelection is returned for a malformed --select value.
var ErrInvalidSelection = errors.New("selection must look like DATE:9-11,14")

// ErrNothingSelected is returned when render has no hours to print.
var ErrNothingSelected = errors.New("nothing selected")

const rephraseTimeout = 90 * time.Second

// writeClipboard is swapped in tests.
var writeClipboard = clipboard.WriteAll

// selection is one parsed --select value.
type selection struct {
	Date  dateutil.Date
	Hours []int // nil means the whole window
}

func (a *App) renderCmd() *cobra.Command {
	var (
		templateName string
		selects      []string
		allDays      []string
		startHour    int
		endHour      int
		saved        bool
		copyOut      bool
		instruction  string
	)

	cmd := &cobra.Command{
		Use:   "render",
		Short: "Print availability text without opening the grid",
		Long: `Render availability text from hours given on the command line.

Dates accept YYYY-MM-DD, today, tomorrow, weekday names and next-<weekday>.
Hours are a comma-separated list of hours and inclusive ranges.

Examples:
  akima render --select tomorrow:9-11,14
  akima render --select 2025-01-15:13-17 --all-day friday --template polite
  akima render --saved --copy
  akima render --select monday:10 --rephrase "more casual"`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			tpl := a.config.TemplateValue()
			if templateName != "" {
				t, err := render.ParseTemplate(templateName)
				if err != nil {
					return err
				}
				tpl = t
			}

			w := a.config.WindowValue()
			if cmd.Flags().Changed("start") {
				w.StartHour = startHour
			}
			if cmd.Flags().Changed("end") {
				w.EndHour = endHour
			}
			w, err := slot.NewWindow(w.StartHour, w.EndHour)
			if err != nil {
				return err
			}
			store := slot.NewStore(w)

			now := a.now()
			if saved {
				set, err := a.loadWeek(cmd.Context(), now)
				if err != nil {
					return err
				}
				store.Load(set)
			}

			for _, raw := range selects {
				sel, err := parseSelection(raw, now)
				if err != nil {
					return err
				}
				if err := applySelection(store, sel); err != nil {
					return fmt.Errorf("selecting %s: %w", raw, err)
				}
			}
			for _, raw := range allDays {
				date, err := parseDateArg(raw, now)
				if err != nil {
					return err
				}
				if err := applySelection(store, selection{Date: date}); err != nil {
					return fmt.Errorf("selecting %s: %w", raw, err)
				}
			}

			snap := store.Snapshot()
			text := render.Render(snap, tpl)
			if text == "" {
				return ErrNothingSelected
			}

			if instruction != "" {
				text, err = a.rephrase(cmd.Context(), text, instruction, snapshotLabels(snap))
				if err != nil {
					return err
				}
			}

			fmt.Fprintln(cmd.OutOrStdout(), text)

			if copyOut {
				if err := writeClipboard(text); err != nil {
					return fmt.Errorf("copying to clipboard: %w", err)
				}
				fmt.Fprintln(cmd.ErrOrStderr(), formatMuted(fmt.Sprintf("Copied %d characters", len([]rune(text)))))
			}
			return nil
		},
	}

	cmd.Flags().StringVarP(&templateName, "template", "t", "", "Output template (simple, polite, business)")
	cmd.Flags().StringArrayVarP(&selects, "select", "s", nil, "Hours to select as DATE:HOURS (repeatable)")
	cmd.Flags().StringArrayVarP(&allDays, "all-day", "a", nil, "Select a whole day (repeatable)")
	cmd.Flags().IntVar(&startHour, "start", 0, "First hour of the window")
	cmd.Flags().IntVar(&endHour, "end", 0, "End of the window (exclusive)")
	cmd.Flags().BoolVar(&saved, "saved", false, "Start from the selection saved by the grid")
	cmd.Flags().BoolVarP(&copyOut, "copy", "c", false, "Copy the text to the clipboard")
	cmd.Flags().StringVar(&instruction, "rephrase", "", "Rewrite the text with the configured LLM")

	return cmd
}

// loadWeek returns the saved selection for the week starting at now.
func (a *App) loadWeek(ctx context.Context, now time.Time) (slot.SlotSet, error) {
	if err := a.ensureRepo(); err != nil {
		return nil, err
	}
	if ctx == nil {
		ctx = context.Background()
	}
	days := dateutil.Week(now)
	set, err := a.repo.ListSlots(ctx, days[0].Date, days[len(days)-1].Date)
	if err != nil {
		return nil, fmt.Errorf("loading selection: %w", err)
	}
	return set, nil
}

func (a *App) rephrase(ctx context.Context, text, instruction string, labels []string) (string, error) {
	client, err := llm.NewClient(a.config.LLM.Provider, a.config.LLM.Model, a.config.LLM.BaseURL)
	if err != nil {
		return "", fmt.Errorf("creating LLM client: %w", err)
	}
	if ctx == nil {
		ctx = context.Background()
	}
	ctx, cancel := context.WithTimeout(ctx, rephraseTimeout)
	defer cancel()

	resp, err := llm.NewRephraser(client).Rephrase(ctx, llm.RephraseRequest{
		Text:        text,
		Instruction: instruction,
		Labels:      labels,
	})
	if err != nil {
		return "", err
	}
	return resp.Text, nil
}

// parseSelection parses "DATE:HOURS" where HOURS is "all" or a list like "9-11,14".
func parseSelection(s string, now time.Time) (selection, error) {
	rawDate, rawHours, ok := strings.Cut(strings.TrimSpace(s), ":")
	if !ok || strings.TrimSpace(rawHours) == "" {
		return selection{}, fmt.Errorf("%q: %w", s, ErrInvalidSelection)
	}
	date, err := parseDateArg(rawDate, now)
	if err != nil {
		return selection{}, err
	}

	rawHours = strings.TrimSpace(rawHours)
	if rawHours == "all" || rawHours == render.AllDayMarker {
		return selection{Date: date}, nil
	}

	var hours []int
	for _, part := range strings.Split(rawHours, ",") {
		part = strings.TrimSpace(part)
		from, to, isRange := strings.Cut(part, "-")
		start, err := strconv.Atoi(strings.TrimSpace(from))
		if err != nil {
			return selection{}, fmt.Errorf("%q: %w", s, ErrInvalidSelection)
		}
		end := start
		if isRange {
			end, err = strconv.Atoi(strings.TrimSpace(to))
			if err != nil || end < start {
				return selection{}, fmt.Errorf("%q: %w", s, ErrInvalidSelection)
			}
		}
		if start < 0 || end > 23 {
			return selection{}, fmt.Errorf("%q: hours must be 0-23: %w", s, ErrInvalidSelection)
		}
		for h := start; h <= end; h++ {
			hours = append(hours, h)
		}
	}
	return selection{Date: date, Hours: hours}, nil
}

// parseDateArg accepts an absolute date or a relative keyword.
func parseDateArg(s string, now time.Time) (dateutil.Date, error) {
	if d, err := dateutil.ParseDate(s); err == nil {
		return d, nil
	}
	d, err := dateutil.ParseRelativeDate(s, now)
	if err != nil {
		return "", fmt.Errorf("%q: %w", s, err)
	}
	return d, nil
}

func applySelection(store *slot.Store, sel selection) error {
	if sel.Hours == nil {
		w := store.Window()
		return store.SelectRange(sel.Date, w.StartHour, w.LastHour())
	}
	for _, h := range sel.Hours {
		if err := store.SetHour(sel.Date, h, true); err != nil {
			return err
		}
	}
	return nil
}

// snapshotLabels returns the display label of every date with visible hours.
func snapshotLabels(snap slot.Snapshot) []string {
	var labels []string
	for _, d := range snap.Slots.Dates() {
		if len(snap.VisibleHours(d)) > 0 {
			labels = append(labels, d.Display())
		}
	}
	return labels
}
