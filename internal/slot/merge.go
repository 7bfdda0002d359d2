// Package slot holds the availability selection model: hour ranges, the time window,
// and the Store that owns which (date, hour) slots are selected.
package slot

import (
	"fmt"
	"slices"
)

// Range is a half-open hour interval [Start, End).
type Range struct {
	Start int
	End   int
}

// Len returns the number of hours covered by the range.
func (r Range) Len() int {
	return r.End - r.Start
}

// String formats the range as "9:00〜12:00".
func (r Range) String() string {
	return fmt.Sprintf("%d:00〜%d:00", r.Start, r.End)
}

// Merge collapses hours into the minimal ascending list of contiguous ranges.
// Input order and duplicates are irrelevant. An empty input yields nil.
func Merge(hours []int) []Range {
	if len(hours) == 0 {
		return nil
	}

	sorted := slices.Clone(hours)
	slices.Sort(sorted)
	sorted = slices.Compact(sorted)

	ranges := make([]Range, 0, 2)
	start, end := sorted[0], sorted[0]
	for _, h := range sorted[1:] {
		if h == end+1 {
			end = h
			continue
		}
		ranges = append(ranges, Range{Start: start, End: end + 1})
		start, end = h, h
	}
	return append(ranges, Range{Start: start, End: end + 1})
}
