package scorecard

import (
	"fmt"
	"strings"

	"scorebook/internal/dates"
)

// Bucket is one display period: a canonical start date and a label.
// Weekly buckets start on Monday and span Mon-Sun; monthly buckets start on
// the first of the month; quarterly buckets on the first month of a quarter.
type Bucket struct {
	Start dates.Day
	Label string
}

// End returns the last calendar day the bucket covers.
func (b Bucket) End(period PeriodType) dates.Day {
	switch period {
	case PeriodMonthly:
		return b.Start.AddMonths(1).AddDays(-1)
	case PeriodQuarterly:
		return b.Start.AddMonths(3).AddDays(-1)
	default:
		return b.Start.AddDays(6)
	}
}

// Quarter-to-date lists are capped at roughly half a year of weekly buckets
// so historical imports cannot blow up the display.
const maxQuarterToDateBuckets = 26

// BucketRequest describes a bucket-list computation.
type BucketRequest struct {
	Today  dates.Day
	Period PeriodType

	// ShowHistorical widens the quarter-to-date window backward to
	// Earliest when Earliest predates the current quarter.
	ShowHistorical bool
	Earliest       dates.Day
}

// QuarterToDateBuckets returns every fully completed period from the start
// of the current calendar quarter (widened to the earliest observed date
// when requested) up to, and never including, the period containing Today.
// The result is chronological ascending and capped at the most recent 26
// entries.
func QuarterToDateBuckets(req BucketRequest) []Bucket {
	from := req.Today.QuarterStart()
	if req.ShowHistorical && !req.Earliest.IsZero() && req.Earliest.Before(from) {
		from = req.Earliest
	}

	var buckets []Bucket
	start := periodStart(from, req.Period)
	last := lastCompletedStart(req.Today, req.Period)
	for !start.After(last) {
		buckets = append(buckets, Bucket{Start: start, Label: bucketLabel(start, req.Period)})
		start = nextPeriod(start, req.Period)
	}

	if len(buckets) > maxQuarterToDateBuckets {
		buckets = buckets[len(buckets)-maxQuarterToDateBuckets:]
	}
	return buckets
}

// TrailingBuckets returns exactly count trailing periods ending at the last
// fully completed period before today. It is derived from the calendar
// alone and is the compact "meeting" display mode.
func TrailingBuckets(today dates.Day, period PeriodType, count int) []Bucket {
	if count <= 0 {
		return nil
	}
	buckets := make([]Bucket, count)
	start := lastCompletedStart(today, period)
	for i := count - 1; i >= 0; i-- {
		buckets[i] = Bucket{Start: start, Label: bucketLabel(start, period)}
		start = previousPeriod(start, period)
	}
	return buckets
}

// Reversed returns a copy of buckets in right-to-left display order.
func Reversed(buckets []Bucket) []Bucket {
	out := make([]Bucket, len(buckets))
	for i, b := range buckets {
		out[len(buckets)-1-i] = b
	}
	return out
}

func periodStart(d dates.Day, period PeriodType) dates.Day {
	switch period {
	case PeriodMonthly:
		return d.MonthStart()
	case PeriodQuarterly:
		return d.QuarterStart()
	default:
		return d.WeekStart()
	}
}

func nextPeriod(start dates.Day, period PeriodType) dates.Day {
	switch period {
	case PeriodMonthly:
		return start.AddMonths(1)
	case PeriodQuarterly:
		return start.AddMonths(3)
	default:
		return start.AddDays(7)
	}
}

func previousPeriod(start dates.Day, period PeriodType) dates.Day {
	switch period {
	case PeriodMonthly:
		return start.AddMonths(-1)
	case PeriodQuarterly:
		return start.AddMonths(-3)
	default:
		return start.AddDays(-7)
	}
}

// lastCompletedStart returns the start of the most recent period that has
// fully elapsed before today. The period containing today is never eligible.
func lastCompletedStart(today dates.Day, period PeriodType) dates.Day {
	return previousPeriod(periodStart(today, period), period)
}

func bucketLabel(start dates.Day, period PeriodType) string {
	switch period {
	case PeriodMonthly:
		return fmt.Sprintf("%s %02d", strings.ToUpper(start.Month().String()[:3]), start.Year()%100)
	case PeriodQuarterly:
		return fmt.Sprintf("Q%d %02d", start.Quarter(), start.Year()%100)
	default:
		return weekLabel(start)
	}
}

// weekLabel renders "Oct 20 - 26" when the week stays in one month and
// "Oct 27 - Nov 2" when it crosses into the next.
func weekLabel(start dates.Day) string {
	end := start.AddDays(6)
	if start.Month() == end.Month() {
		return fmt.Sprintf("%s %d - %d", start.Month().String()[:3], start.DayOfMonth(), end.DayOfMonth())
	}
	return fmt.Sprintf("%s %d - %s %d", start.Month().String()[:3], start.DayOfMonth(), end.Month().String()[:3], end.DayOfMonth())
}
