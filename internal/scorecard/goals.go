package scorecard

import (
	"scorebook/internal/dates"
)

// EffectiveGoal is the goal a bucket cell is evaluated against after
// applying any custom per-bucket override.
type EffectiveGoal struct {
	Goal      *float64
	Min       *float64
	Max       *float64
	CompareOp CompareOp
	IsCustom  bool
}

// HasTarget reports whether there is anything to evaluate against: either a
// scalar goal or a complete min/max range. A range with only one bound is
// not evaluable and counts as no target.
func (g EffectiveGoal) HasTarget() bool {
	if g.Min != nil && g.Max != nil {
		return true
	}
	return g.Goal != nil
}

// GoalResolver resolves the effective goal for (metric, bucket) pairs from
// the snapshot's custom goal overrides.
type GoalResolver struct {
	overrides map[string]map[dates.Day]CustomGoal
}

// NewGoalResolver builds a resolver over the snapshot's custom goals.
func NewGoalResolver(snap *Snapshot) *GoalResolver {
	return &GoalResolver{overrides: snap.CustomGoals}
}

// Resolve returns the goal to evaluate the metric against for the bucket
// starting at bucketStart. A custom override supersedes the metric's default
// goal for that bucket only; an override with every numeric field cleared is
// treated as absent. The comparison operator always comes from the metric
// definition.
func (r *GoalResolver) Resolve(metric Metric, bucketStart dates.Day) EffectiveGoal {
	eff := EffectiveGoal{
		Goal:      metric.Goal,
		CompareOp: metric.CompareOp,
	}

	if r == nil {
		return eff
	}
	override, ok := r.overrides[metric.ID][bucketStart]
	if !ok || override.IsEmpty() {
		return eff
	}

	eff.IsCustom = true
	if override.Min != nil && override.Max != nil {
		eff.Min = override.Min
		eff.Max = override.Max
		eff.Goal = nil
		return eff
	}
	// A single-sided range is unsupported: fall through to the scalar goal
	// if the override carries one, otherwise keep the metric default.
	if override.Goal != nil {
		eff.Goal = override.Goal
	} else {
		eff.IsCustom = false
	}
	return eff
}
