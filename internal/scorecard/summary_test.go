package scorecard

import (
	"testing"

	"scorebook/internal/dates"
)

func TestSummaryWindowResolution(t *testing.T) {
	today := dates.MustParse("2025-11-12")

	w := SummaryWindow(ThirteenWeekRolling, today)
	if got, want := w.From.String(), "2025-08-13"; got != want {
		t.Errorf("13-week window from = %s, want %s", got, want)
	}
	if w.To != today {
		t.Errorf("13-week window to = %s, want today", w.To)
	}

	w = SummaryWindow(CurrentQuarter, today)
	if got, want := w.From.String(), "2025-10-01"; got != want {
		t.Errorf("quarter window from = %s, want %s", got, want)
	}
	if w.To != today {
		t.Errorf("quarter window to = %s, want today (quarter still running)", w.To)
	}

	w = SummaryWindow(LastFourWeeks, today)
	if got, want := w.From.String(), "2025-10-15"; got != want {
		t.Errorf("4-week window from = %s, want %s", got, want)
	}
}

func TestSummaryWindowClampsToQuarterEnd(t *testing.T) {
	// The window never runs past the end of the current quarter.
	today := dates.MustParse("2025-11-12")
	w := SummaryWindow(CurrentQuarter, today)
	end := today.QuarterStart().AddMonths(3).AddDays(-1)
	if w.To.After(end) {
		t.Fatalf("window to = %s exceeds quarter end %s", w.To, end)
	}
}

func TestInvalidPreferenceFallsBackTo13Week(t *testing.T) {
	if got := ParseTimePeriod("fortnightly"); got != ThirteenWeekRolling {
		t.Fatalf("fallback preference = %q, want 13_week_rolling", got)
	}
}

func summaryIndex() *ScoreIndex {
	idx := NewScoreIndex()
	idx.Set("m1", dates.MustParse("2025-10-20"), Observation{Value: Float(10)})
	idx.Set("m1", dates.MustParse("2025-10-27"), Observation{Value: Float(20)})
	idx.Set("m1", dates.MustParse("2025-11-03"), Observation{Value: Float(30)})
	idx.Set("m1", dates.MustParse("2025-11-05"), Observation{}) // note only, no value
	return idx
}

func TestSummarizeAverageSkipsNullValues(t *testing.T) {
	metric := Metric{ID: "m1", SummaryType: SummaryWeeklyAvg}
	window := Window{From: dates.MustParse("2025-10-01"), To: dates.MustParse("2025-11-30")}
	got := Summarize(metric, summaryIndex(), window)
	if got == nil || *got != 20 {
		t.Fatalf("average = %v, want 20", got)
	}
}

func TestSummarizeTotal(t *testing.T) {
	metric := Metric{ID: "m1", SummaryType: SummaryQuarterlyTotal}
	window := Window{From: dates.MustParse("2025-10-01"), To: dates.MustParse("2025-11-30")}
	got := Summarize(metric, summaryIndex(), window)
	if got == nil || *got != 60 {
		t.Fatalf("total = %v, want 60", got)
	}
}

func TestSummarizeLatestValueSkipsTrailingNull(t *testing.T) {
	metric := Metric{ID: "m1", SummaryType: SummaryLatestValue}
	window := Window{From: dates.MustParse("2025-10-01"), To: dates.MustParse("2025-11-30")}
	got := Summarize(metric, summaryIndex(), window)
	if got == nil || *got != 30 {
		t.Fatalf("latest = %v, want 30 (null-valued entry on 11-05 skipped)", got)
	}
}

func TestSummarizeEmptyWindowIsNil(t *testing.T) {
	metric := Metric{ID: "m1", SummaryType: SummaryWeeklyAvg, Goal: Float(10)}
	window := Window{From: dates.MustParse("2024-01-01"), To: dates.MustParse("2024-02-01")}
	got := Summarize(metric, summaryIndex(), window)
	if got != nil {
		t.Fatalf("empty window summary = %v, want nil", *got)
	}
	if IsGoalMet(got, metric.Goal, metric.CompareOp) {
		t.Fatal("nil summary reported goal met")
	}
}
