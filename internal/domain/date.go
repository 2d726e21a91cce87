package domain

import "time"

// DateLayout is the wire format for ledger dates. All core operations are
// date-granular; times of day are never significant.
const DateLayout = "2006-01-02"

// Day truncates t to UTC midnight.
func Day(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
}

// NextDay returns the day after d.
func NextDay(d time.Time) time.Time {
	return Day(d).AddDate(0, 0, 1)
}

// PrevDay returns the day before d.
func PrevDay(d time.Time) time.Time {
	return Day(d).AddDate(0, 0, -1)
}

// MonthBounds returns the first and last calendar day of the given month.
func MonthBounds(year int, month time.Month) (first, last time.Time) {
	first = time.Date(year, month, 1, 0, 0, 0, 0, time.UTC)
	last = first.AddDate(0, 1, -1)
	return first, last
}

// LastDayOfMonth returns the number of days in the month containing d.
func LastDayOfMonth(d time.Time) int {
	return time.Date(d.Year(), d.Month()+1, 0, 0, 0, 0, 0, time.UTC).Day()
}

// SameDay reports whether a and b fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	return Day(a).Equal(Day(b))
}
