package scorecard

import "math"

// equalityEpsilon absorbs floating-point noise when comparing a value to an
// "equal" goal.
const equalityEpsilon = 0.01

// IsGoalMet reports whether value satisfies goal under op. A missing value
// or missing goal is never "met"; the caller renders those as indeterminate
// rather than as a false negative.
func IsGoalMet(value, goal *float64, op CompareOp) bool {
	if value == nil || goal == nil {
		return false
	}
	v, g := *value, *goal
	switch op {
	case CompareGreater:
		return v > g
	case CompareLess:
		return v < g
	case CompareLessEqual:
		return v <= g
	case CompareEqual:
		return math.Abs(v-g) < equalityEpsilon
	default:
		return v >= g
	}
}

// Met evaluates value against the effective goal, using range semantics
// when both bounds are present and scalar comparison otherwise.
func (g EffectiveGoal) Met(value *float64) bool {
	if value == nil {
		return false
	}
	if g.Min != nil && g.Max != nil {
		return *value >= *g.Min && *value <= *g.Max
	}
	return IsGoalMet(value, g.Goal, g.CompareOp)
}

// TrendDirection is the movement of a metric across consecutive buckets.
type TrendDirection string

const (
	TrendUp     TrendDirection = "up"
	TrendDown   TrendDirection = "down"
	TrendStable TrendDirection = "stable"
)

// Changes under this percentage register as stable rather than noise.
const trendStabilityThresholdPct = 5.0

// Trend describes the change between two consecutive bucket values.
type Trend struct {
	Direction    TrendDirection
	MagnitudePct float64
	// Favorable is true when the movement is good for this metric: an
	// increase under greater/greater_equal, a decrease under
	// less/less_equal.
	Favorable bool
}

// ComputeTrend compares the previous and current bucket values. With fewer
// than two recorded values the trend is stable at zero magnitude.
func ComputeTrend(previous, current *float64, op CompareOp) Trend {
	if previous == nil || current == nil {
		return Trend{Direction: TrendStable}
	}
	prev, curr := *previous, *current

	var magnitude float64
	switch {
	case prev > 0:
		magnitude = math.Abs(curr-prev) / prev * 100
	case curr != prev:
		magnitude = 100
	}

	trend := Trend{Direction: TrendStable, MagnitudePct: magnitude}
	if magnitude >= trendStabilityThresholdPct {
		if curr > prev {
			trend.Direction = TrendUp
		} else {
			trend.Direction = TrendDown
		}
	}

	switch trend.Direction {
	case TrendUp:
		trend.Favorable = op != CompareLess && op != CompareLessEqual
	case TrendDown:
		trend.Favorable = op == CompareLess || op == CompareLessEqual
	}
	return trend
}
