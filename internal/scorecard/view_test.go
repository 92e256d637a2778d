package scorecard

import (
	"testing"

	"scorebook/internal/dates"
)

func buildTestSnapshot() *Snapshot {
	return &Snapshot{
		Metrics: []Metric{
			{
				ID:          "rev",
				Name:        "Weekly Revenue",
				Type:        PeriodWeekly,
				ValueType:   ValueCurrency,
				Goal:        Float(100),
				CompareOp:   CompareGreaterEqual,
				SummaryType: SummaryWeeklyAvg,
			},
			{
				ID:        "churn",
				Name:      "Monthly Churn",
				Type:      PeriodMonthly,
				ValueType: ValuePercentage,
				Goal:      Float(5),
				CompareOp: CompareLessEqual,
			},
		},
		Observations: map[string]map[dates.Day]Observation{
			"rev": {
				dates.MustParse("2025-10-06"): {Value: Float(120)},
				dates.MustParse("2025-10-13"): {Value: Float(80), Note: "slow week"},
			},
		},
		CustomGoals: map[string]map[dates.Day]CustomGoal{
			"rev": {
				dates.MustParse("2025-10-13"): {Goal: Float(75)},
			},
		},
		Today:      dates.MustParse("2025-10-22"),
		PeriodType: PeriodWeekly,
		TimePeriod: ThirteenWeekRolling,
	}
}

func TestBuildViewStandardMode(t *testing.T) {
	vm, err := BuildView(buildTestSnapshot(), ViewOptions{})
	if err != nil {
		t.Fatal(err)
	}

	// Only the weekly metric appears in a weekly view.
	if len(vm.Metrics) != 1 || vm.Metrics[0].ID != "rev" {
		t.Fatalf("view metrics = %+v, want the weekly metric only", vm.Metrics)
	}
	if got, want := len(vm.Buckets), 3; got != want {
		t.Fatalf("got %d buckets, want %d", got, want)
	}

	cells := vm.Cells["rev"]
	oct6 := cells["2025-10-06"]
	if oct6.Value == nil || *oct6.Value != 120 {
		t.Fatalf("Oct 6 value = %v, want 120", oct6.Value)
	}
	if !oct6.GoalMet || oct6.IsCustomGoal {
		t.Fatalf("Oct 6 cell = %+v, want met against the default goal", oct6)
	}

	// 80 misses the default goal of 100 but meets the 75 override, and the
	// override must not leak into other buckets or the summary.
	oct13 := cells["2025-10-13"]
	if !oct13.IsCustomGoal {
		t.Fatal("Oct 13 cell does not carry the custom goal")
	}
	if !oct13.GoalMet {
		t.Fatal("Oct 13 value 80 should meet the custom goal 75")
	}
	if oct13.Note != "slow week" {
		t.Fatalf("Oct 13 note = %q, want %q", oct13.Note, "slow week")
	}

	summary := vm.Summaries["rev"]
	if summary.Value == nil || *summary.Value != 100 {
		t.Fatalf("summary = %v, want 100 (mean of 120 and 80)", summary.Value)
	}
	if !summary.GoalMet {
		t.Fatal("summary 100 should meet the default goal 100")
	}
}

func TestBuildViewEmptyCellsAreNotZero(t *testing.T) {
	vm, err := BuildView(buildTestSnapshot(), ViewOptions{})
	if err != nil {
		t.Fatal(err)
	}
	empty := vm.Cells["rev"]["2025-09-29"]
	if empty.Value != nil {
		t.Fatalf("empty cell value = %v, want nil", *empty.Value)
	}
	if empty.GoalMet {
		t.Fatal("empty cell reported goal met")
	}
}

func TestBuildViewMeetingModeLatestWins(t *testing.T) {
	snap := buildTestSnapshot()
	// Two raw observations inside the displayed week starting Oct 13.
	snap.Observations["rev"][dates.MustParse("2025-10-15")] = Observation{Value: Float(95)}

	vm, err := BuildView(snap, ViewOptions{Mode: ModeMeeting, MeetingPeriods: 4})
	if err != nil {
		t.Fatal(err)
	}
	if got := len(vm.Buckets); got != 4 {
		t.Fatalf("got %d buckets, want 4", got)
	}
	cell := vm.Cells["rev"]["2025-10-13"]
	if cell.Value == nil || *cell.Value != 95 {
		t.Fatalf("meeting cell = %v, want 95 (latest observation in the week)", cell.Value)
	}
}

func TestBuildViewReversedBucketOrder(t *testing.T) {
	vm, err := BuildView(buildTestSnapshot(), ViewOptions{Reversed: true})
	if err != nil {
		t.Fatal(err)
	}
	for i := 1; i < len(vm.Buckets); i++ {
		if vm.Buckets[i].Start.After(vm.Buckets[i-1].Start) {
			t.Fatalf("buckets not in descending order: %s before %s", vm.Buckets[i-1].Start, vm.Buckets[i].Start)
		}
	}
	// Cells stay keyed by start date regardless of display order.
	if _, ok := vm.Cells["rev"]["2025-10-06"]; !ok {
		t.Fatal("cell lookup broken under reversed ordering")
	}
}

func TestBuildViewTrend(t *testing.T) {
	vm, err := BuildView(buildTestSnapshot(), ViewOptions{})
	if err != nil {
		t.Fatal(err)
	}
	tr := vm.Trends["rev"]
	// 120 -> 80 is a 33% drop; revenue wants increases, so it is unfavorable.
	if tr.Direction != TrendDown {
		t.Fatalf("trend direction = %s, want down", tr.Direction)
	}
	if tr.Favorable {
		t.Fatal("downward revenue trend reported favorable")
	}
}

func TestBuildViewRejectsInvalidSnapshot(t *testing.T) {
	if _, err := BuildView(nil, ViewOptions{}); err == nil {
		t.Fatal("nil snapshot accepted")
	}

	snap := buildTestSnapshot()
	snap.Observations["ghost"] = map[dates.Day]Observation{
		dates.MustParse("2025-10-06"): {Value: Float(1)},
	}
	_, err := BuildView(snap, ViewOptions{})
	if err == nil {
		t.Fatal("snapshot with unknown metric reference accepted")
	}
	if _, ok := err.(ValidationErrors); !ok {
		t.Fatalf("error type = %T, want ValidationErrors", err)
	}
}
