// Package snapshot reads and writes the JSON snapshot the scorecard engine
// computes over. All shape normalization happens here: by the time a
// Snapshot reaches the engine, every score is a tagged value/note record and
// every date key has been parsed, so the core never duck-types a field.
package snapshot

import (
	"bytes"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"

	"scorebook/internal/dates"
	"scorebook/internal/scorecard"
)

const SchemaVersion = 1

// File is the on-disk snapshot shape.
type File struct {
	SchemaVersion int    `json:"schema_version"`
	Today         string `json:"today"`
	PeriodType    string `json:"period_type"`
	TimePeriod    string `json:"time_period_preference"`
	ShowHistory   bool   `json:"show_historical,omitempty"`

	Metrics      []MetricRecord                         `json:"metrics"`
	Observations map[string]map[string]json.RawMessage  `json:"observations,omitempty"`
	CustomGoals  map[string]map[string]CustomGoalRecord `json:"custom_goals,omitempty"`
}

// MetricRecord is a metric definition as stored in the snapshot.
type MetricRecord struct {
	ID          string   `json:"id"`
	Name        string   `json:"name"`
	Type        string   `json:"type"`
	ValueType   string   `json:"value_type"`
	Goal        *float64 `json:"goal,omitempty"`
	CompareOp   string   `json:"comparison_operator,omitempty"`
	SummaryType string   `json:"summary_type,omitempty"`
	OwnerID     string   `json:"owner_id,omitempty"`
	Archived    bool     `json:"archived,omitempty"`
}

// CustomGoalRecord is a per-bucket goal override as stored in the snapshot.
type CustomGoalRecord struct {
	Goal  *float64 `json:"goal,omitempty"`
	Min   *float64 `json:"min,omitempty"`
	Max   *float64 `json:"max,omitempty"`
	Notes string   `json:"notes,omitempty"`
}

// scoreRecord is the object form of a stored score. Older exports store a
// bare number instead; Decode accepts both.
type scoreRecord struct {
	Value *float64 `json:"value"`
	Note  string   `json:"note"`
}

// Load reads and decodes a snapshot file into the engine's input form.
func Load(path string) (*scorecard.Snapshot, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read snapshot: %w", err)
	}
	return Decode(data)
}

// Decode parses snapshot JSON, normalizes score shapes, and validates
// every date key. Malformed dates are reported, never dropped: a silently
// discarded observation would skew every average computed from the file.
func Decode(data []byte) (*scorecard.Snapshot, error) {
	var file File
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&file); err != nil {
		return nil, fmt.Errorf("decode snapshot: %w", err)
	}
	if file.SchemaVersion != SchemaVersion {
		return nil, fmt.Errorf("unsupported snapshot schema_version %d", file.SchemaVersion)
	}

	today, err := dates.Parse(file.Today)
	if err != nil {
		return nil, fmt.Errorf("snapshot today: %w", err)
	}

	snap := &scorecard.Snapshot{
		Metrics:        make([]scorecard.Metric, 0, len(file.Metrics)),
		Observations:   make(map[string]map[dates.Day]scorecard.Observation),
		CustomGoals:    make(map[string]map[dates.Day]scorecard.CustomGoal),
		Today:          today,
		PeriodType:     scorecard.ParsePeriodType(file.PeriodType),
		TimePeriod:     scorecard.ParseTimePeriod(file.TimePeriod),
		ShowHistorical: file.ShowHistory,
	}

	for _, rec := range file.Metrics {
		snap.Metrics = append(snap.Metrics, scorecard.Metric{
			ID:          rec.ID,
			Name:        rec.Name,
			Type:        scorecard.ParsePeriodType(rec.Type),
			ValueType:   scorecard.ParseValueType(rec.ValueType),
			Goal:        rec.Goal,
			CompareOp:   scorecard.ParseCompareOp(rec.CompareOp),
			SummaryType: scorecard.ParseSummaryType(rec.SummaryType),
			OwnerID:     rec.OwnerID,
			Archived:    rec.Archived,
		})
	}

	var errs scorecard.ValidationErrors

	for metricID, byDate := range file.Observations {
		out := make(map[dates.Day]scorecard.Observation, len(byDate))
		for dateStr, raw := range byDate {
			day, err := dates.Parse(dateStr)
			if err != nil {
				errs = append(errs, scorecard.ValidationError{
					MetricID: metricID,
					Field:    "observations",
					Message:  fmt.Sprintf("unparseable date %q", dateStr),
				})
				continue
			}
			obs, err := decodeScore(raw)
			if err != nil {
				errs = append(errs, scorecard.ValidationError{
					MetricID: metricID,
					Field:    "observations[" + dateStr + "]",
					Message:  err.Error(),
				})
				continue
			}
			out[day] = obs
		}
		snap.Observations[metricID] = out
	}

	for metricID, byDate := range file.CustomGoals {
		out := make(map[dates.Day]scorecard.CustomGoal, len(byDate))
		for dateStr, rec := range byDate {
			day, err := dates.Parse(dateStr)
			if err != nil {
				errs = append(errs, scorecard.ValidationError{
					MetricID: metricID,
					Field:    "custom_goals",
					Message:  fmt.Sprintf("unparseable date %q", dateStr),
				})
				continue
			}
			out[day] = scorecard.CustomGoal{
				Goal:  rec.Goal,
				Min:   rec.Min,
				Max:   rec.Max,
				Notes: rec.Notes,
			}
		}
		snap.CustomGoals[metricID] = out
	}

	if len(errs) > 0 {
		return nil, errs
	}
	if vErrs := scorecard.ValidateSnapshot(snap); len(vErrs) > 0 {
		return nil, vErrs
	}
	return snap, nil
}

// decodeScore accepts either a bare number, null, or a {value, note} object.
func decodeScore(raw json.RawMessage) (scorecard.Observation, error) {
	trimmed := bytes.TrimSpace(raw)
	if len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null")) {
		return scorecard.Observation{}, nil
	}
	if trimmed[0] == '{' {
		var rec scoreRecord
		if err := json.Unmarshal(trimmed, &rec); err != nil {
			return scorecard.Observation{}, fmt.Errorf("malformed score object: %v", err)
		}
		return scorecard.Observation{Value: rec.Value, Note: rec.Note}, nil
	}
	var v float64
	if err := json.Unmarshal(trimmed, &v); err != nil {
		return scorecard.Observation{}, fmt.Errorf("malformed score value: %v", err)
	}
	return scorecard.Observation{Value: &v}, nil
}

// Write marshals the snapshot and writes it atomically via a temp file.
func Write(path string, snap *scorecard.Snapshot) error {
	if path == "" {
		return fmt.Errorf("snapshot path is required")
	}
	if snap == nil {
		return fmt.Errorf("snapshot is required")
	}

	file := Encode(snap)
	data, err := json.MarshalIndent(file, "", "  ")
	if err != nil {
		return fmt.Errorf("marshal snapshot: %w", err)
	}
	data = append(data, '\n')

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("ensure snapshot dir: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), filepath.Base(path)+".tmp-*")
	if err != nil {
		return fmt.Errorf("create temp file: %w", err)
	}
	tmpName := tmp.Name()
	defer func() {
		_ = os.Remove(tmpName)
	}()
	if _, err := tmp.Write(data); err != nil {
		_ = tmp.Close()
		return fmt.Errorf("write temp snapshot: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("close temp snapshot: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

// Encode converts an engine snapshot back to its on-disk shape. Scores are
// always written in object form; the bare-number form is read-only legacy.
func Encode(snap *scorecard.Snapshot) File {
	file := File{
		SchemaVersion: SchemaVersion,
		Today:         snap.Today.String(),
		PeriodType:    string(snap.PeriodType),
		TimePeriod:    string(snap.TimePeriod),
		ShowHistory:   snap.ShowHistorical,
	}

	for _, m := range snap.Metrics {
		file.Metrics = append(file.Metrics, MetricRecord{
			ID:          m.ID,
			Name:        m.Name,
			Type:        string(m.Type),
			ValueType:   string(m.ValueType),
			Goal:        m.Goal,
			CompareOp:   string(m.CompareOp),
			SummaryType: string(m.SummaryType),
			OwnerID:     m.OwnerID,
			Archived:    m.Archived,
		})
	}

	if len(snap.Observations) > 0 {
		file.Observations = make(map[string]map[string]json.RawMessage)
		for metricID, byDate := range snap.Observations {
			out := make(map[string]json.RawMessage, len(byDate))
			for day, obs := range byDate {
				data, err := json.Marshal(scoreRecord{Value: obs.Value, Note: obs.Note})
				if err != nil {
					continue
				}
				out[day.String()] = data
			}
			file.Observations[metricID] = out
		}
	}

	if len(snap.CustomGoals) > 0 {
		file.CustomGoals = make(map[string]map[string]CustomGoalRecord)
		for metricID, byDate := range snap.CustomGoals {
			out := make(map[string]CustomGoalRecord, len(byDate))
			for day, goal := range byDate {
				out[day.String()] = CustomGoalRecord{
					Goal:  goal.Goal,
					Min:   goal.Min,
					Max:   goal.Max,
					Notes: goal.Notes,
				}
			}
			file.CustomGoals[metricID] = out
		}
	}

	return file
}
