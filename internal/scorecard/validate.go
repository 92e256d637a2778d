package scorecard

import (
	"fmt"
	"strings"
)

// ValidationError captures a single data-integrity issue in a snapshot.
type ValidationError struct {
	MetricID string
	Field    string
	Message  string
}

func (e ValidationError) Error() string {
	switch {
	case e.MetricID == "":
		return fmt.Sprintf("%s: %s", e.Field, e.Message)
	case e.Field == "":
		return fmt.Sprintf("metric %s: %s", e.MetricID, e.Message)
	default:
		return fmt.Sprintf("metric %s: %s: %s", e.MetricID, e.Field, e.Message)
	}
}

// ValidationErrors aggregates every problem found in a snapshot so the
// caller sees the full picture at once. Silent drops are never acceptable
// here: a quietly discarded observation skews every average built on it.
type ValidationErrors []ValidationError

func (errs ValidationErrors) Error() string {
	parts := make([]string, 0, len(errs))
	for _, e := range errs {
		parts = append(parts, e.Error())
	}
	return strings.Join(parts, "\n")
}

// ValidateSnapshot checks referential integrity of a loaded snapshot:
// duplicate metric ids, observations or goal overrides pointing at unknown
// metrics, and inverted custom goal ranges. Malformed date strings are
// caught earlier, at the snapshot decoding boundary.
func ValidateSnapshot(snap *Snapshot) ValidationErrors {
	var errs ValidationErrors

	known := make(map[string]struct{}, len(snap.Metrics))
	for _, m := range snap.Metrics {
		if strings.TrimSpace(m.ID) == "" {
			errs = append(errs, ValidationError{Field: "metrics", Message: fmt.Sprintf("metric %q has an empty id", m.Name)})
			continue
		}
		if _, dup := known[m.ID]; dup {
			errs = append(errs, ValidationError{MetricID: m.ID, Field: "id", Message: "duplicate metric id"})
			continue
		}
		known[m.ID] = struct{}{}
	}

	for metricID := range snap.Observations {
		if _, ok := known[metricID]; !ok {
			errs = append(errs, ValidationError{MetricID: metricID, Field: "observations", Message: "observations reference an unknown metric"})
		}
	}

	for metricID, byDate := range snap.CustomGoals {
		if _, ok := known[metricID]; !ok {
			errs = append(errs, ValidationError{MetricID: metricID, Field: "custom_goals", Message: "custom goals reference an unknown metric"})
			continue
		}
		for day, goal := range byDate {
			if goal.Min != nil && goal.Max != nil && *goal.Min > *goal.Max {
				errs = append(errs, ValidationError{
					MetricID: metricID,
					Field:    "custom_goals[" + day.String() + "]",
					Message:  fmt.Sprintf("min %v exceeds max %v", *goal.Min, *goal.Max),
				})
			}
		}
	}

	return errs
}
