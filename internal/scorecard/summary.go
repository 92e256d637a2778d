package scorecard

import (
	"scorebook/internal/dates"
)

// Window is an inclusive date range.
type Window struct {
	From dates.Day
	To   dates.Day
}

// Contains reports whether day falls inside the window.
func (w Window) Contains(day dates.Day) bool {
	return !day.Before(w.From) && !day.After(w.To)
}

// SummaryWindow resolves the organization's time-period preference into a
// concrete date range anchored at today.
func SummaryWindow(pref TimePeriod, today dates.Day) Window {
	switch pref {
	case CurrentQuarter:
		start := today.QuarterStart()
		end := start.AddMonths(3).AddDays(-1)
		return Window{From: start, To: dates.Min(today, end)}
	case LastFourWeeks:
		return Window{From: today.AddDays(-4 * 7), To: today}
	default:
		return Window{From: today.AddDays(-13 * 7), To: today}
	}
}

// Summarize computes the metric's single rolling-window scalar per its
// summary type. An empty window yields nil, never zero; the distinction
// matters because a dashboard renders nil as "-" and zero as a real value.
func Summarize(metric Metric, idx *ScoreIndex, window Window) *float64 {
	values := idx.ValuesInWindow(metric.ID, window.From, window.To)

	switch metric.SummaryType {
	case SummaryQuarterlyTotal:
		var sum float64
		found := false
		for _, dv := range values {
			if dv.Obs.Value == nil {
				continue
			}
			sum += *dv.Obs.Value
			found = true
		}
		if !found {
			return nil
		}
		return Float(sum)

	case SummaryLatestValue:
		// values are chronological; take the last one carrying a value.
		for i := len(values) - 1; i >= 0; i-- {
			if values[i].Obs.Value != nil {
				return Float(*values[i].Obs.Value)
			}
		}
		return nil

	default:
		var sum float64
		count := 0
		for _, dv := range values {
			if dv.Obs.Value == nil {
				continue
			}
			sum += *dv.Obs.Value
			count++
		}
		if count == 0 {
			return nil
		}
		return Float(sum / float64(count))
	}
}
