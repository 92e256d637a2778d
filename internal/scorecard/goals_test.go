package scorecard

import (
	"testing"

	"scorebook/internal/dates"
)

func testMetric() Metric {
	return Metric{
		ID:        "m1",
		Name:      "Weekly Revenue",
		Type:      PeriodWeekly,
		ValueType: ValueCurrency,
		Goal:      Float(100),
		CompareOp: CompareGreaterEqual,
	}
}

func snapshotWithOverride(metricID string, day dates.Day, goal CustomGoal) *Snapshot {
	return &Snapshot{
		CustomGoals: map[string]map[dates.Day]CustomGoal{
			metricID: {day: goal},
		},
	}
}

func TestResolveDefaultGoal(t *testing.T) {
	resolver := NewGoalResolver(&Snapshot{})
	eff := resolver.Resolve(testMetric(), dates.MustParse("2025-10-20"))
	if eff.IsCustom {
		t.Fatal("no override present but IsCustom is true")
	}
	if eff.Goal == nil || *eff.Goal != 100 {
		t.Fatalf("goal = %v, want 100", eff.Goal)
	}
	if eff.CompareOp != CompareGreaterEqual {
		t.Fatalf("op = %q, want greater_equal", eff.CompareOp)
	}
}

func TestResolveCustomGoalAppliesToItsBucketOnly(t *testing.T) {
	bucket := dates.MustParse("2025-10-20")
	resolver := NewGoalResolver(snapshotWithOverride("m1", bucket, CustomGoal{Goal: Float(50)}))
	metric := testMetric()

	eff := resolver.Resolve(metric, bucket)
	if !eff.IsCustom || eff.Goal == nil || *eff.Goal != 50 {
		t.Fatalf("override bucket: goal = %v custom = %v, want 50/true", eff.Goal, eff.IsCustom)
	}

	for _, neighbor := range []dates.Day{bucket.AddDays(-7), bucket.AddDays(7)} {
		eff := resolver.Resolve(metric, neighbor)
		if eff.IsCustom {
			t.Fatalf("override leaked into bucket %s", neighbor)
		}
		if eff.Goal == nil || *eff.Goal != 100 {
			t.Fatalf("neighbor bucket goal = %v, want default 100", eff.Goal)
		}
	}
}

func TestResolveClearedOverrideFallsBackToDefault(t *testing.T) {
	bucket := dates.MustParse("2025-10-20")
	resolver := NewGoalResolver(snapshotWithOverride("m1", bucket, CustomGoal{Notes: "cleared"}))

	eff := resolver.Resolve(testMetric(), bucket)
	if eff.IsCustom {
		t.Fatal("all-null override should be equivalent to no override")
	}
	if eff.Goal == nil || *eff.Goal != 100 {
		t.Fatalf("goal = %v, want default 100", eff.Goal)
	}
}

func TestResolveRangeGoalRequiresBothBounds(t *testing.T) {
	bucket := dates.MustParse("2025-10-20")

	both := NewGoalResolver(snapshotWithOverride("m1", bucket, CustomGoal{Min: Float(10), Max: Float(20)}))
	eff := both.Resolve(testMetric(), bucket)
	if !eff.IsCustom || eff.Min == nil || eff.Max == nil {
		t.Fatalf("range override not applied: %+v", eff)
	}
	if !eff.Met(Float(15)) {
		t.Fatal("value inside range not met")
	}
	if eff.Met(Float(25)) {
		t.Fatal("value above range reported met")
	}

	// A single-sided bound is unsupported and must not partially apply.
	oneSided := NewGoalResolver(snapshotWithOverride("m1", bucket, CustomGoal{Min: Float(10)}))
	eff = oneSided.Resolve(testMetric(), bucket)
	if eff.IsCustom {
		t.Fatal("single-sided range treated as a custom goal")
	}
	if eff.Goal == nil || *eff.Goal != 100 {
		t.Fatalf("goal = %v, want default 100", eff.Goal)
	}
}

func TestEffectiveGoalHasTarget(t *testing.T) {
	if (EffectiveGoal{}).HasTarget() {
		t.Fatal("empty goal reports a target")
	}
	if !(EffectiveGoal{Goal: Float(1)}).HasTarget() {
		t.Fatal("scalar goal reports no target")
	}
	if (EffectiveGoal{Min: Float(1)}).HasTarget() {
		t.Fatal("half a range reports a target")
	}
	if !(EffectiveGoal{Min: Float(1), Max: Float(2)}).HasTarget() {
		t.Fatal("complete range reports no target")
	}
}
