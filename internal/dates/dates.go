// Package dates provides immutable calendar-day values and arithmetic.
//
// All scorecard date handling operates on whole calendar days in the local
// calendar: a Day carries no time-of-day and no timezone offset, so shifting
// a Day can never produce the off-by-one errors that come from converting
// wall-clock dates through UTC instants.
package dates

import (
	"fmt"
	"time"
)

// Day is a single calendar date. The zero value is not a valid date; use
// New or Parse. Day is comparable and safe to use as a map key.
type Day struct {
	year  int
	month time.Month
	day   int
}

// New returns the Day for the given calendar components, normalizing
// out-of-range values the way time.Date does (e.g. month 13 rolls over).
func New(year int, month time.Month, day int) Day {
	y, m, d := time.Date(year, month, day, 0, 0, 0, 0, time.UTC).Date()
	return Day{year: y, month: m, day: d}
}

// FromTime returns the calendar day of t in t's own location.
func FromTime(t time.Time) Day {
	y, m, d := t.Date()
	return Day{year: y, month: m, day: d}
}

// Parse parses an ISO YYYY-MM-DD string.
func Parse(s string) (Day, error) {
	t, err := time.Parse("2006-01-02", s)
	if err != nil {
		return Day{}, fmt.Errorf("parse date %q: %w", s, err)
	}
	return FromTime(t), nil
}

// MustParse is Parse for trusted literals; it panics on error.
func MustParse(s string) Day {
	d, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return d
}

// IsZero reports whether d is the zero Day.
func (d Day) IsZero() bool {
	return d == Day{}
}

// Year returns the calendar year.
func (d Day) Year() int { return d.year }

// Month returns the calendar month.
func (d Day) Month() time.Month { return d.month }

// DayOfMonth returns the day of the month.
func (d Day) DayOfMonth() int { return d.day }

// Weekday returns the day of the week.
func (d Day) Weekday() time.Weekday {
	return d.asTime().Weekday()
}

// String formats the day as ISO YYYY-MM-DD.
func (d Day) String() string {
	return fmt.Sprintf("%04d-%02d-%02d", d.year, int(d.month), d.day)
}

// AddDays returns the day n calendar days after d (before, if n < 0).
func (d Day) AddDays(n int) Day {
	return New(d.year, d.month, d.day+n)
}

// AddMonths returns the day n calendar months after d, clamping is not
// performed: Jan 31 + 1 month normalizes to Mar 2/3 per time.Date rules.
// Bucket starts are always day 1, so normalization never applies there.
func (d Day) AddMonths(n int) Day {
	return New(d.year, d.month+time.Month(n), d.day)
}

// Before reports whether d is strictly earlier than other.
func (d Day) Before(other Day) bool {
	if d.year != other.year {
		return d.year < other.year
	}
	if d.month != other.month {
		return d.month < other.month
	}
	return d.day < other.day
}

// After reports whether d is strictly later than other.
func (d Day) After(other Day) bool {
	return other.Before(d)
}

// DaysBetween returns the number of calendar days from d to other
// (negative if other is earlier).
func (d Day) DaysBetween(other Day) int {
	return int(other.asTime().Sub(d.asTime()) / (24 * time.Hour))
}

// WeekStart returns the Monday of the week containing d.
func (d Day) WeekStart() Day {
	offset := (int(d.Weekday()) + 6) % 7
	return d.AddDays(-offset)
}

// MonthStart returns the first day of the month containing d.
func (d Day) MonthStart() Day {
	return New(d.year, d.month, 1)
}

// QuarterStart returns the first day of the calendar quarter containing d.
func (d Day) QuarterStart() Day {
	qm := time.Month(((int(d.month)-1)/3)*3 + 1)
	return New(d.year, qm, 1)
}

// Quarter returns the calendar quarter number, 1 through 4.
func (d Day) Quarter() int {
	return (int(d.month)-1)/3 + 1
}

func (d Day) asTime() time.Time {
	return time.Date(d.year, d.month, d.day, 0, 0, 0, 0, time.UTC)
}

// Min returns the earlier of a and b.
func Min(a, b Day) Day {
	if b.Before(a) {
		return b
	}
	return a
}

// Max returns the later of a and b.
func Max(a, b Day) Day {
	if b.After(a) {
		return b
	}
	return a
}
