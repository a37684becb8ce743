package domain

import (
	"fmt"
	"time"
)

// DateLayout is the calendar-date format used throughout: ledger keys,
// CLI flags, and the committer-date search qualifier all share it.
const DateLayout = "2006-01-02"

// ParseDate validates a YYYY-MM-DD string and normalizes it to UTC midnight.
func ParseDate(s string) (time.Time, error) {
	t, err := time.Parse(DateLayout, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid date %q (want YYYY-MM-DD): %w", s, err)
	}
	return t.UTC(), nil
}

// DateRange returns the inclusive sequence of dates from "from" through "to"
// as YYYY-MM-DD strings. An empty slice is returned when from is after to.
func DateRange(from, to time.Time) []string {
	var dates []string
	for d := from; !d.After(to); d = d.AddDate(0, 0, 1) {
		dates = append(dates, d.Format(DateLayout))
	}
	return dates
}

// LastCompleteDays returns the n most recent complete UTC days relative to
// now, oldest first. "Complete" excludes the current day, so the newest
// entry is always yesterday.
func LastCompleteDays(n int, now time.Time) []string {
	yesterday := now.UTC().Truncate(24 * time.Hour).AddDate(0, 0, -1)
	return DateRange(yesterday.AddDate(0, 0, -(n-1)), yesterday)
}
