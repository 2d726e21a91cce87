package domain

import (
	"time"

	"github.com/shopspring/decimal"
)

// Frequency is a recurring event's repetition rule.
type Frequency string

const (
	FrequencyDaily   Frequency = "daily"
	FrequencyWeekly  Frequency = "weekly"
	FrequencyMonthly Frequency = "monthly"
	// FrequencyCustom repeats only on the event's explicit date list.
	FrequencyCustom Frequency = "custom"
)

// Valid reports whether f is a known frequency.
func (f Frequency) Valid() bool {
	switch f {
	case FrequencyDaily, FrequencyWeekly, FrequencyMonthly, FrequencyCustom:
		return true
	}
	return false
}

// Direction is the cash-flow direction of a recurring event.
type Direction string

const (
	DirectionInflow  Direction = "inflow"
	DirectionOutflow Direction = "outflow"
)

// Valid reports whether d is a known direction.
func (d Direction) Valid() bool {
	return d == DirectionInflow || d == DirectionOutflow
}

// RecurringEvent is a forecast template that expands into schedule row
// inflow/outflow values on matching dates. CRUD on the template never
// rewrites already-generated rows; a subsequent expansion pass does.
type RecurringEvent struct {
	ID          string
	UserID      string
	Description string
	Direction   Direction
	Amount      decimal.Decimal
	StartDate   time.Time
	// EndDate zero means open-ended.
	EndDate   time.Time
	Frequency Frequency
	// Interval is the repetition step in frequency units; minimum 1.
	Interval int
	// Weekdays restricts weekly events; empty means the start date's weekday.
	Weekdays []time.Weekday
	// MonthDay is the target day for monthly events; 0 means the start
	// date's day. Days past the end of a short month clamp to its last day.
	MonthDay int
	// Dates is the explicit list for custom frequency.
	Dates     []time.Time
	Active    bool
	CreatedAt time.Time
	UpdatedAt time.Time
}

// MatchDates enumerates the event's occurrence dates within [from, to],
// both inclusive. The rule is pure: it depends only on the template.
func (e *RecurringEvent) MatchDates(from, to time.Time) []time.Time {
	from, to = Day(from), Day(to)

	if from.Before(Day(e.StartDate)) {
		from = Day(e.StartDate)
	}
	if !e.EndDate.IsZero() && to.After(Day(e.EndDate)) {
		to = Day(e.EndDate)
	}
	if to.Before(from) {
		return nil
	}

	if e.Frequency == FrequencyCustom {
		var out []time.Time
		for _, d := range e.Dates {
			d = Day(d)
			if !d.Before(from) && !d.After(to) {
				out = append(out, d)
			}
		}
		return out
	}

	var out []time.Time
	for d := from; !d.After(to); d = NextDay(d) {
		if e.matches(d) {
			out = append(out, d)
		}
	}
	return out
}

func (e *RecurringEvent) matches(d time.Time) bool {
	start := Day(e.StartDate)
	interval := e.Interval
	if interval < 1 {
		interval = 1
	}

	switch e.Frequency {
	case FrequencyDaily:
		days := int(d.Sub(start).Hours() / 24)
		return days%interval == 0

	case FrequencyWeekly:
		if !e.weekdayMatches(d) {
			return false
		}
		weeks := int(d.Sub(start).Hours()/24) / 7
		return weeks%interval == 0

	case FrequencyMonthly:
		months := (d.Year()-start.Year())*12 + int(d.Month()) - int(start.Month())
		if months%interval != 0 {
			return false
		}
		target := e.MonthDay
		if target == 0 {
			target = start.Day()
		}
		// Day-of-month past a short month's length clamps to its last day.
		if last := LastDayOfMonth(d); target > last {
			target = last
		}
		return d.Day() == target
	}

	return false
}

func (e *RecurringEvent) weekdayMatches(d time.Time) bool {
	if len(e.Weekdays) == 0 {
		return d.Weekday() == Day(e.StartDate).Weekday()
	}
	for _, wd := range e.Weekdays {
		if d.Weekday() == wd {
			return true
		}
	}
	return false
}
