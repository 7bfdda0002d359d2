package ui

import (
	"context"
	"fmt"
	"slices"
	"strings"

	"github.com/mattn/go-runewidth"
	"github.com/spf13/cobra"

	"github.com/javiermolinar/akima/internal/dateutil"
	"github.com/javiermolinar/akima/internal/render"
	"github.com/javiermolinar/akima/internal/slot"
)

const (
	showTimeWidth = 6
	showDayWidth  = 10
)

func (a *App) showCmd() *cobra.Command {
	var (
		noColor  bool
		textOnly bool
	)

	cmd := &cobra.Command{
		Use:   "show",
		Short: "Show the saved selection for the coming week",
		Long: `Show the hours saved by the grid for the next seven days,
followed by the availability text they render to.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if noColor {
				DisableColor()
			}
			if err := a.ensureRepo(); err != nil {
				return err
			}

			ctx := cmd.Context()
			if ctx == nil {
				ctx = context.Background()
			}
			tpl, w, err := a.preferences(ctx)
			if err != nil {
				return err
			}

			now := a.now()
			set, err := a.loadWeek(ctx, now)
			if err != nil {
				return err
			}
			store := slot.NewStore(w)
			store.Load(set)
			snap := store.Snapshot()

			out := cmd.OutOrStdout()
			text := render.Render(snap, tpl)
			if textOnly {
				if text == "" {
					return ErrNothingSelected
				}
				fmt.Fprintln(out, text)
				return nil
			}

			days := dateutil.Week(now)
			fmt.Fprintln(out, formatHeader(fmt.Sprintf("%s〜%s", days[0].Display, days[len(days)-1].Display)))
			if termWidth() >= gridWidth(len(days)) {
				fmt.Fprintln(out)
				for _, line := range FormatWeekGrid(days, snap) {
					fmt.Fprintln(out, line)
				}
			}
			fmt.Fprintln(out)
			if text == "" {
				fmt.Fprintln(out, formatMuted("No slots selected."))
				return nil
			}
			fmt.Fprintln(out, formatMuted(fmt.Sprintf("[%s]", tpl.Label())))
			fmt.Fprintln(out, text)
			return nil
		},
	}

	cmd.Flags().BoolVar(&noColor, "no-color", false, "Disable colored output")
	cmd.Flags().BoolVar(&textOnly, "text", false, "Print only the rendered text")

	return cmd
}

// preferences returns the saved template and window, falling back to config.
func (a *App) preferences(ctx context.Context) (render.Template, slot.Window, error) {
	tpl := a.config.TemplateValue()
	w := a.config.WindowValue()

	prefs, err := a.repo.LoadPreferences(ctx)
	if err != nil {
		return tpl, w, fmt.Errorf("loading preferences: %w", err)
	}
	if prefs == nil {
		return tpl, w, nil
	}
	if t, err := render.ParseTemplate(prefs.Template); err == nil {
		tpl = t
	}
	return tpl, prefs.Window(), nil
}

func gridWidth(days int) int {
	return showTimeWidth + days*showDayWidth
}

// FormatWeekGrid renders the visible window of snap as a compact hour grid.
// Selected hours show as "■", free ones as "·"; whole-day dates get a "*" header mark.
func FormatWeekGrid(days []dateutil.Day, snap slot.Snapshot) []string {
	var header strings.Builder
	header.WriteString(strings.Repeat(" ", showTimeWidth))
	for _, d := range days {
		label := d.Display
		if snap.IsAllDay(d.Date) {
			label += "*"
		}
		cell := runewidth.FillRight(label, showDayWidth)
		if d.IsToday {
			cell = formatToday(cell)
		} else {
			cell = formatHeader(cell)
		}
		header.WriteString(cell)
	}

	lines := []string{strings.TrimRight(header.String(), " ")}
	w := snap.Window
	for hour := w.StartHour; hour < w.EndHour; hour++ {
		var line strings.Builder
		fmt.Fprintf(&line, "%2d:00 ", hour)
		for _, d := range days {
			mark := formatMuted("·")
			if slices.Contains(snap.VisibleHours(d.Date), hour) {
				mark = formatSelected("■")
			}
			line.WriteString(" " + mark + strings.Repeat(" ", showDayWidth-2))
		}
		lines = append(lines, strings.TrimRight(line.String(), " "))
	}
	return lines
}
