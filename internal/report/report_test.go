package report

import (
	"strings"
	"testing"

	"scorebook/internal/dates"
	"scorebook/internal/scorecard"
)

func testView(t *testing.T, revenue float64) *scorecard.ViewModel {
	t.Helper()
	snap := &scorecard.Snapshot{
		Metrics: []scorecard.Metric{{
			ID:        "rev",
			Name:      "Weekly Revenue",
			Type:      scorecard.PeriodWeekly,
			ValueType: scorecard.ValueCurrency,
			Goal:      scorecard.Float(100),
			CompareOp: scorecard.CompareGreaterEqual,
		}},
		Observations: map[string]map[dates.Day]scorecard.Observation{
			"rev": {dates.MustParse("2025-10-13"): {Value: scorecard.Float(revenue)}},
		},
		Today:      dates.MustParse("2025-10-22"),
		PeriodType: scorecard.PeriodWeekly,
		TimePeriod: scorecard.ThirteenWeekRolling,
	}
	vm, err := scorecard.BuildView(snap, scorecard.ViewOptions{})
	if err != nil {
		t.Fatal(err)
	}
	return vm
}

func TestRenderIsDeterministic(t *testing.T) {
	a := Render(testView(t, 120))
	b := Render(testView(t, 120))
	if a != b {
		t.Fatal("two renderings of equal views differ")
	}
	if !strings.Contains(a, "Weekly Revenue 2025-10-13 value=$120 met=true") {
		t.Fatalf("rendering missing cell line:\n%s", a)
	}
	if !strings.Contains(a, "summary value=$120 met=true") {
		t.Fatalf("rendering missing summary line:\n%s", a)
	}
}

func TestCompareEqualViewsIsEmpty(t *testing.T) {
	diff, err := Compare(testView(t, 120), testView(t, 120), "a", "b")
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(diff) != "" {
		t.Fatalf("equal views produced a diff:\n%s", diff)
	}
}

func TestCompareFlagsDivergence(t *testing.T) {
	diff, err := Compare(testView(t, 120), testView(t, 80), "before", "after")
	if err != nil {
		t.Fatal(err)
	}
	if diff == "" {
		t.Fatal("diverging views produced no diff")
	}
	if !strings.Contains(diff, "-Weekly Revenue 2025-10-13 value=$120 met=true") {
		t.Fatalf("diff missing removed line:\n%s", diff)
	}
	if !strings.Contains(diff, "+Weekly Revenue 2025-10-13 value=$80 met=false") {
		t.Fatalf("diff missing added line:\n%s", diff)
	}
}
