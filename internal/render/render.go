// Package render turns a slot selection into availability text.
package render

import (
	"errors"
	"fmt"
	"strings"

	"github.com/javiermolinar/akima/internal/slot"
)

// ErrUnknownTemplate is returned when a template name is not recognized.
var ErrUnknownTemplate = errors.New("unknown template")

// AllDayMarker replaces the hour ranges of a date that covers the whole window.
const AllDayMarker = "終日"

// Template selects the output phrasing.
type Template int

const (
	TemplateSimple Template = iota
	TemplatePolite
	TemplateBusiness
)

var templateNames = [...]string{"simple", "polite", "business"}

var templateLabels = [...]string{"シンプル", "丁寧", "ビジネス"}

// Templates returns every template in cycle order.
func Templates() []Template {
	return []Template{TemplateSimple, TemplatePolite, TemplateBusiness}
}

// ParseTemplate parses a template name, case-insensitively.
func ParseTemplate(s string) (Template, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range templateNames {
		if n == name {
			return Template(i), nil
		}
	}
	return TemplateSimple, fmt.Errorf("%w: %q (want one of %s)", ErrUnknownTemplate, s, strings.Join(templateNames[:], ", "))
}

// String returns the template's config name.
func (t Template) String() string {
	if t < 0 || int(t) >= len(templateNames) {
		return fmt.Sprintf("Template(%d)", int(t))
	}
	return templateNames[t]
}

// Label returns the display label shown in the TUI.
func (t Template) Label() string {
	if t < 0 || int(t) >= len(templateLabels) {
		return t.String()
	}
	return templateLabels[t]
}

// Next returns the following template, wrapping around.
func (t Template) Next() Template {
	return Template((int(t) + 1) % len(templateNames))
}

type phrasing struct {
	prefix string
	sep    string
	header string
	footer string
}

var phrasings = map[Template]phrasing{
	TemplateSimple: {
		sep: ", ",
	},
	TemplatePolite: {
		prefix: "- ",
		sep:    " / ",
		header: "下記の日程でご都合いかがでしょうか？",
		footer: "ご確認よろしくお願いいたします。",
	},
	TemplateBusiness: {
		prefix: "  ",
		sep:    " / ",
		header: "お世話になっております。\n打ち合わせの件、下記日程でお伺いできます。",
		footer: "ご都合のよろしい日時をお知らせいただけますと幸いです。\n何卒よろしくお願いいたします。",
	},
}

// Render formats the visible selection of snap with template t.
// It returns "" when no date has a visible hour.
func Render(snap slot.Snapshot, t Template) string {
	p, ok := phrasings[t]
	if !ok {
		p = phrasings[TemplateSimple]
	}

	lines := Lines(snap, p.prefix, p.sep)
	if len(lines) == 0 {
		return ""
	}

	body := strings.Join(lines, "\n")
	if p.header == "" && p.footer == "" {
		return body
	}
	return p.header + "\n\n" + body + "\n\n" + p.footer
}

// Lines returns one formatted line per date with visible hours, ascending by date.
func Lines(snap slot.Snapshot, prefix, sep string) []string {
	var lines []string
	for _, date := range snap.Slots.Dates() {
		hours := snap.VisibleHours(date)
		if len(hours) == 0 {
			continue
		}

		var times string
		if snap.IsAllDay(date) {
			times = AllDayMarker
		} else {
			ranges := slot.Merge(hours)
			parts := make([]string, len(ranges))
			for i, r := range ranges {
				parts[i] = r.String()
			}
			times = strings.Join(parts, sep)
		}
		lines = append(lines, prefix+date.Display()+" "+times)
	}
	return lines
}
