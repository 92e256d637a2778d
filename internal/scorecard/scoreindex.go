package scorecard

import (
	"sort"

	"scorebook/internal/dates"
)

// ScoreIndex is a sparse mapping from (metric id, exact date) to an
// observation. At most one observation exists per metric per date; the
// persistence layer upserts on that key before the index is built.
type ScoreIndex struct {
	scores map[string]map[dates.Day]Observation
}

// NewScoreIndex returns an empty index.
func NewScoreIndex() *ScoreIndex {
	return &ScoreIndex{scores: make(map[string]map[dates.Day]Observation)}
}

// IndexSnapshot builds a ScoreIndex over the snapshot's observations.
func IndexSnapshot(snap *Snapshot) *ScoreIndex {
	idx := NewScoreIndex()
	for metricID, byDate := range snap.Observations {
		for day, obs := range byDate {
			idx.Set(metricID, day, obs)
		}
	}
	return idx
}

// Set records the observation for (metricID, day), replacing any existing
// entry for that exact date.
func (idx *ScoreIndex) Set(metricID string, day dates.Day, obs Observation) {
	byDate, ok := idx.scores[metricID]
	if !ok {
		byDate = make(map[dates.Day]Observation)
		idx.scores[metricID] = byDate
	}
	byDate[day] = obs
}

// Get returns the observation recorded on exactly day, if any.
func (idx *ScoreIndex) Get(metricID string, day dates.Day) (Observation, bool) {
	obs, ok := idx.scores[metricID][day]
	return obs, ok
}

// DatedValue pairs an observation with the date it was recorded on.
type DatedValue struct {
	Date dates.Day
	Obs  Observation
}

// ValuesInWindow returns all observations for the metric with
// from <= date <= to, in chronological order.
func (idx *ScoreIndex) ValuesInWindow(metricID string, from, to dates.Day) []DatedValue {
	var out []DatedValue
	for day, obs := range idx.scores[metricID] {
		if day.Before(from) || day.After(to) {
			continue
		}
		out = append(out, DatedValue{Date: day, Obs: obs})
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].Date.Before(out[j].Date)
	})
	return out
}

// BucketValueMode selects how a bucket's representative value is chosen.
type BucketValueMode int

const (
	// BucketExact uses only the observation recorded exactly on the
	// bucket's start date.
	BucketExact BucketValueMode = iota
	// BucketLatestInRange uses the most recently dated observation within
	// the bucket span. This is the compact/meeting rule: after a bulk
	// historical import several raw dates can land in one displayed week,
	// and the dashboard shows the most current state, not a sum or average.
	BucketLatestInRange
)

// BucketValue returns the representative observation for a bucket spanning
// [start, end]. The boolean reports whether any observation was found;
// an observation with a nil Value still counts as found (its note may
// matter even when the value was cleared).
func (idx *ScoreIndex) BucketValue(metricID string, start, end dates.Day, mode BucketValueMode) (Observation, bool) {
	if mode == BucketExact {
		return idx.Get(metricID, start)
	}

	var (
		best    Observation
		bestDay dates.Day
		found   bool
	)
	for day, obs := range idx.scores[metricID] {
		if day.Before(start) || day.After(end) {
			continue
		}
		if !found || day.After(bestDay) {
			best, bestDay, found = obs, day, true
		}
	}
	return best, found
}
