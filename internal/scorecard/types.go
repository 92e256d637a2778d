// Package scorecard computes the time-bucketed, goal-annotated view of a
// business scorecard: bucket generation, sparse score lookup, per-bucket
// goal resolution, goal-met evaluation, and rolling-window summaries.
//
// The package is a pure computation over an in-memory Snapshot. It performs
// no I/O and holds no state across calls; callers load a Snapshot (from the
// local store or a snapshot file), hand it to BuildView, and render the
// returned ViewModel.
package scorecard

import (
	"scorebook/internal/dates"
)

// PeriodType is the cadence a metric is tracked at.
type PeriodType string

const (
	PeriodWeekly    PeriodType = "weekly"
	PeriodMonthly   PeriodType = "monthly"
	PeriodQuarterly PeriodType = "quarterly"
)

// ParsePeriodType normalizes a period type string, defaulting to weekly.
func ParsePeriodType(s string) PeriodType {
	switch PeriodType(s) {
	case PeriodWeekly, PeriodMonthly, PeriodQuarterly:
		return PeriodType(s)
	}
	return PeriodWeekly
}

// ValueType controls how metric values are rendered.
type ValueType string

const (
	ValueNumber     ValueType = "number"
	ValueCurrency   ValueType = "currency"
	ValuePercentage ValueType = "percentage"
)

// ParseValueType normalizes a value type string, defaulting to number.
func ParseValueType(s string) ValueType {
	switch ValueType(s) {
	case ValueNumber, ValueCurrency, ValuePercentage:
		return ValueType(s)
	}
	return ValueNumber
}

// CompareOp decides whether an observed value meets a goal.
type CompareOp string

const (
	CompareGreater      CompareOp = "greater"
	CompareGreaterEqual CompareOp = "greater_equal"
	CompareLess         CompareOp = "less"
	CompareLessEqual    CompareOp = "less_equal"
	CompareEqual        CompareOp = "equal"
)

// ParseCompareOp normalizes a comparison operator. Unknown values fall back
// to greater_equal rather than failing the computation.
func ParseCompareOp(s string) CompareOp {
	switch s {
	case string(CompareGreater), ">":
		return CompareGreater
	case string(CompareGreaterEqual), ">=", "":
		return CompareGreaterEqual
	case string(CompareLess), "<":
		return CompareLess
	case string(CompareLessEqual), "<=":
		return CompareLessEqual
	case string(CompareEqual), "=":
		return CompareEqual
	}
	return CompareGreaterEqual
}

// SummaryType selects the rolling-window summary strategy for a metric.
type SummaryType string

const (
	SummaryWeeklyAvg      SummaryType = "weekly_avg"
	SummaryMonthlyAvg     SummaryType = "monthly_avg"
	SummaryQuarterlyAvg   SummaryType = "quarterly_avg"
	SummaryQuarterlyTotal SummaryType = "quarterly_total"
	SummaryLatestValue    SummaryType = "latest_value"
)

// ParseSummaryType normalizes a summary type string, defaulting to weekly_avg.
func ParseSummaryType(s string) SummaryType {
	switch SummaryType(s) {
	case SummaryWeeklyAvg, SummaryMonthlyAvg, SummaryQuarterlyAvg,
		SummaryQuarterlyTotal, SummaryLatestValue:
		return SummaryType(s)
	}
	return SummaryWeeklyAvg
}

// TimePeriod is the organization's rolling-window preference for summaries.
type TimePeriod string

const (
	ThirteenWeekRolling TimePeriod = "13_week_rolling"
	CurrentQuarter      TimePeriod = "current_quarter"
	LastFourWeeks       TimePeriod = "last_4_weeks"
)

// ParseTimePeriod normalizes a time period preference, defaulting to
// 13_week_rolling.
func ParseTimePeriod(s string) TimePeriod {
	switch TimePeriod(s) {
	case ThirteenWeekRolling, CurrentQuarter, LastFourWeeks:
		return TimePeriod(s)
	}
	return ThirteenWeekRolling
}

// Metric is a tracked measurable. Metrics are owned by the persistence
// layer; the engine treats them as read-only input.
type Metric struct {
	ID          string
	Name        string
	Type        PeriodType
	ValueType   ValueType
	Goal        *float64
	CompareOp   CompareOp
	SummaryType SummaryType
	OwnerID     string
	Archived    bool
}

// Observation is a single recorded value for a metric on an exact calendar
// date. A nil Value means "no data", which is distinct from a recorded zero.
type Observation struct {
	Value *float64
	Note  string
}

// CustomGoal overrides a metric's default goal for a single bucket. An
// override with all numeric fields nil is equivalent to no override.
type CustomGoal struct {
	Goal  *float64
	Min   *float64
	Max   *float64
	Notes string
}

// IsEmpty reports whether the override carries no numeric target at all.
func (g CustomGoal) IsEmpty() bool {
	return g.Goal == nil && g.Min == nil && g.Max == nil
}

// Snapshot is the immutable input the engine computes over: metric
// definitions, sparse date-keyed observations, and per-bucket goal
// overrides, along with the reference date and display preferences.
type Snapshot struct {
	Metrics      []Metric
	Observations map[string]map[dates.Day]Observation
	CustomGoals  map[string]map[dates.Day]CustomGoal

	Today          dates.Day
	PeriodType     PeriodType
	TimePeriod     TimePeriod
	ShowHistorical bool
}

// EarliestObservation returns the earliest observation date across all
// metrics in the snapshot, or a zero Day if there are none.
func (s *Snapshot) EarliestObservation() dates.Day {
	var earliest dates.Day
	for _, byDate := range s.Observations {
		for day := range byDate {
			if earliest.IsZero() || day.Before(earliest) {
				earliest = day
			}
		}
	}
	return earliest
}

// Float is a convenience for building optional numeric values.
func Float(v float64) *float64 {
	return &v
}
