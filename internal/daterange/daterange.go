// Package daterange is the single home for calendar-range math used by
// appointment filtering and revenue aggregation. Weeks start on Monday.
// All day-granularity comparisons use UTC.
package daterange

import "time"

type Key string

const (
	All        Key = "all"
	Today      Key = "today"
	Tomorrow   Key = "tomorrow"
	ThisWeek   Key = "this-week"
	ThisMonth  Key = "this-month"
	Last3Month Key = "last-3-months"
	ThisYear   Key = "this-year"
)

// Range is a half-open interval [Start, End).
type Range struct {
	Start time.Time
	End   time.Time
}

func (r Range) Contains(t time.Time) bool {
	t = t.UTC()
	return !t.Before(r.Start) && t.Before(r.End)
}

// Resolve maps a filter key to a concrete range anchored at now.
// Returns ok=false for All and unrecognised keys, meaning "no restriction".
func Resolve(key Key, now time.Time) (Range, bool) {
	now = now.UTC()
	day := StartOfDay(now)

	switch key {
	case Today:
		return Range{Start: day, End: day.AddDate(0, 0, 1)}, true
	case Tomorrow:
		start := day.AddDate(0, 0, 1)
		return Range{Start: start, End: start.AddDate(0, 0, 1)}, true
	case ThisWeek:
		start := StartOfWeek(now)
		return Range{Start: start, End: start.AddDate(0, 0, 7)}, true
	case ThisMonth:
		start := StartOfMonth(now)
		return Range{Start: start, End: start.AddDate(0, 1, 0)}, true
	case Last3Month:
		return Range{Start: day.AddDate(0, -3, 0), End: day.AddDate(0, 0, 1)}, true
	case ThisYear:
		start := StartOfYear(now)
		return Range{Start: start, End: start.AddDate(1, 0, 0)}, true
	default:
		return Range{}, false
	}
}

func StartOfDay(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// StartOfWeek returns midnight of the Monday of t's week.
func StartOfWeek(t time.Time) time.Time {
	day := StartOfDay(t)
	offset := (int(day.Weekday()) + 6) % 7 // Monday=0 .. Sunday=6
	return day.AddDate(0, 0, -offset)
}

func StartOfMonth(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
}

func StartOfYear(t time.Time) time.Time {
	t = t.UTC()
	return time.Date(t.Year(), 1, 1, 0, 0, 0, 0, time.UTC)
}

// SameDay reports whether a and b fall on the same UTC calendar day.
func SameDay(a, b time.Time) bool {
	a, b = a.UTC(), b.UTC()
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// MonthLabel formats t as the month-year bucket label used by
// revenue grouping, e.g. "Jul 2023".
func MonthLabel(t time.Time) string {
	return t.UTC().Format("Jan 2006")
}
