// Package dateutil normalizes calendar dates to their canonical
// YYYY-MM-DD form. All attendance and leave bookkeeping operates on
// whole days in UTC; wall-clock time never enters the ledger.
package dateutil

import "time"

const Layout = "2006-01-02"

// Normalize truncates t to midnight UTC.
func Normalize(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// Today returns the current calendar day, normalized.
func Today() time.Time {
	return Normalize(time.Now().UTC())
}

// Parse reads a canonical YYYY-MM-DD string.
func Parse(v string) (time.Time, error) {
	t, err := time.Parse(Layout, v)
	if err != nil {
		return time.Time{}, err
	}
	return Normalize(t), nil
}

// Format writes the canonical YYYY-MM-DD form.
func Format(t time.Time) string {
	return t.Format(Layout)
}

// WeekdayName returns the English weekday name ("Monday", ...).
func WeekdayName(t time.Time) string {
	return t.Weekday().String()
}

// MonthBounds returns the first and last day of t's calendar month.
func MonthBounds(t time.Time) (first, last time.Time) {
	first = time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// DaysInclusive counts the days in [start, end], both ends included.
// Callers must pass start <= end.
func DaysInclusive(start, end time.Time) int {
	return int(Normalize(end).Sub(Normalize(start)).Hours()/24) + 1
}

// EachDay lists every day in [start, end] inclusive, in order.
func EachDay(start, end time.Time) []time.Time {
	start, end = Normalize(start), Normalize(end)
	if end.Before(start) {
		return nil
	}
	days := make([]time.Time, 0, DaysInclusive(start, end))
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		days = append(days, d)
	}
	return days
}

// Covers reports whether date falls within [start, end] inclusive.
func Covers(start, end, date time.Time) bool {
	date = Normalize(date)
	return !date.Before(Normalize(start)) && !date.After(Normalize(end))
}
