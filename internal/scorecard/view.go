package scorecard

import (
	"fmt"
)

// ViewMode selects which bucket-generation rule the view uses.
type ViewMode int

const (
	// ModeStandard shows quarter-to-date buckets with exact-date cell
	// lookup, optionally widened back to imported historical data.
	ModeStandard ViewMode = iota
	// ModeMeeting shows a fixed count of trailing periods with
	// latest-observation-wins aggregation inside each bucket.
	ModeMeeting
)

// DefaultMeetingPeriods is the trailing-period count for the compact view.
const DefaultMeetingPeriods = 10

// ViewOptions tune the computed view.
type ViewOptions struct {
	Mode           ViewMode
	MeetingPeriods int
	// Reversed orders buckets right-to-left for display.
	Reversed bool
}

// Cell is one (metric, bucket) entry of the rendered table.
type Cell struct {
	Value        *float64
	Note         string
	GoalMet      bool
	HasGoal      bool
	IsCustomGoal bool
}

// Summary is a metric's rolling-window scalar and its evaluation against
// the metric's default goal.
type Summary struct {
	Value   *float64
	GoalMet bool
}

// ViewModel is the renderable output of a scorecard computation. It is
// recomputed from a snapshot on every request and holds no authoritative
// state.
type ViewModel struct {
	Buckets   []Bucket
	Cells     map[string]map[string]Cell
	Summaries map[string]Summary
	Trends    map[string]Trend
	Window    Window
	Metrics   []Metric
}

// BuildView wires bucket generation, score lookup, goal resolution,
// evaluation, and summaries into the full scorecard view-model. The
// snapshot is treated as immutable; concurrent recomputations must each
// operate on their own snapshot.
func BuildView(snap *Snapshot, opts ViewOptions) (*ViewModel, error) {
	if snap == nil {
		return nil, fmt.Errorf("snapshot is required")
	}
	if snap.Today.IsZero() {
		return nil, fmt.Errorf("snapshot reference date is required")
	}
	if errs := ValidateSnapshot(snap); len(errs) > 0 {
		return nil, errs
	}

	period := snap.PeriodType
	mode := BucketExact
	var buckets []Bucket
	if opts.Mode == ModeMeeting {
		count := opts.MeetingPeriods
		if count <= 0 {
			count = DefaultMeetingPeriods
		}
		buckets = TrailingBuckets(snap.Today, period, count)
		mode = BucketLatestInRange
	} else {
		buckets = QuarterToDateBuckets(BucketRequest{
			Today:          snap.Today,
			Period:         period,
			ShowHistorical: snap.ShowHistorical,
			Earliest:       snap.EarliestObservation(),
		})
	}

	idx := IndexSnapshot(snap)
	resolver := NewGoalResolver(snap)
	window := SummaryWindow(snap.TimePeriod, snap.Today)

	vm := &ViewModel{
		Buckets:   buckets,
		Cells:     make(map[string]map[string]Cell),
		Summaries: make(map[string]Summary),
		Trends:    make(map[string]Trend),
		Window:    window,
	}

	for _, metric := range snap.Metrics {
		if metric.Archived || metric.Type != period {
			continue
		}
		vm.Metrics = append(vm.Metrics, metric)

		cells := make(map[string]Cell, len(buckets))
		var prev, curr *float64
		for _, bucket := range buckets {
			obs, found := idx.BucketValue(metric.ID, bucket.Start, bucket.End(period), mode)
			goal := resolver.Resolve(metric, bucket.Start)
			cell := Cell{
				HasGoal:      goal.HasTarget(),
				IsCustomGoal: goal.IsCustom,
			}
			if found {
				cell.Value = obs.Value
				cell.Note = obs.Note
			}
			cell.GoalMet = cell.HasGoal && goal.Met(cell.Value)
			cells[bucket.Start.String()] = cell

			if cell.Value != nil {
				prev, curr = curr, cell.Value
			}
		}
		vm.Cells[metric.ID] = cells
		vm.Trends[metric.ID] = ComputeTrend(prev, curr, metric.CompareOp)

		// Rolling-window summaries always evaluate against the metric's
		// default goal; per-bucket overrides apply to cells only.
		value := Summarize(metric, idx, window)
		vm.Summaries[metric.ID] = Summary{
			Value:   value,
			GoalMet: IsGoalMet(value, metric.Goal, metric.CompareOp),
		}
	}

	if opts.Reversed {
		vm.Buckets = Reversed(vm.Buckets)
	}
	return vm, nil
}
