// Package store persists scorecard metrics, scores, and custom goals in a
// local SQLite database. Scores are keyed (metric_id, date) and upserted,
// so at most one observation exists per metric per day; the engine's
// snapshot is assembled from this store on every recomputation.
package store

import (
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"time"

	"github.com/google/uuid"
	_ "modernc.org/sqlite"

	"scorebook/internal/dates"
	"scorebook/internal/scorecard"
)

// Store manages scorecard state in SQLite.
type Store struct {
	DBPath string
	db     *sql.DB
}

// Open opens or creates the scorecard database.
func Open(path string) (*Store, error) {
	absPath, err := filepath.Abs(path)
	if err != nil {
		return nil, fmt.Errorf("resolve scorecard db path: %w", err)
	}
	if err := os.MkdirAll(filepath.Dir(absPath), 0o755); err != nil {
		return nil, fmt.Errorf("ensure scorecard db dir: %w", err)
	}

	db, err := sql.Open("sqlite", absPath)
	if err != nil {
		return nil, fmt.Errorf("open scorecard db: %w", err)
	}

	s := &Store{DBPath: absPath, db: db}
	if err := s.ensureSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

// Close closes the database connection.
func (s *Store) Close() error {
	if s.db != nil {
		return s.db.Close()
	}
	return nil
}

func (s *Store) ensureSchema() error {
	schema := `
CREATE TABLE IF NOT EXISTS metrics (
	id TEXT PRIMARY KEY,
	name TEXT NOT NULL,
	type TEXT NOT NULL,
	value_type TEXT NOT NULL,
	goal REAL,
	comparison_operator TEXT NOT NULL,
	summary_type TEXT NOT NULL,
	owner_id TEXT,
	archived INTEGER NOT NULL DEFAULT 0,
	created_at TEXT NOT NULL
);

CREATE TABLE IF NOT EXISTS scores (
	metric_id TEXT NOT NULL,
	date TEXT NOT NULL,
	value REAL,
	note TEXT,
	updated_at TEXT NOT NULL,
	PRIMARY KEY (metric_id, date)
);

CREATE INDEX IF NOT EXISTS idx_scores_metric_date ON scores(metric_id, date);

CREATE TABLE IF NOT EXISTS custom_goals (
	metric_id TEXT NOT NULL,
	bucket_start TEXT NOT NULL,
	goal REAL,
	min REAL,
	max REAL,
	notes TEXT,
	PRIMARY KEY (metric_id, bucket_start)
);
`
	if _, err := s.db.Exec(schema); err != nil {
		return fmt.Errorf("create scorecard schema: %w", err)
	}
	return nil
}

// AddMetric inserts a metric definition, assigning a fresh id when the
// metric has none, and returns the stored metric.
func (s *Store) AddMetric(m scorecard.Metric) (scorecard.Metric, error) {
	if m.Name == "" {
		return scorecard.Metric{}, fmt.Errorf("metric name is required")
	}
	if m.ID == "" {
		m.ID = uuid.NewString()
	}
	m.Type = scorecard.ParsePeriodType(string(m.Type))
	m.ValueType = scorecard.ParseValueType(string(m.ValueType))
	m.CompareOp = scorecard.ParseCompareOp(string(m.CompareOp))
	m.SummaryType = scorecard.ParseSummaryType(string(m.SummaryType))

	_, err := s.db.Exec(`
		INSERT INTO metrics (id, name, type, value_type, goal, comparison_operator, summary_type, owner_id, archived, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)
	`, m.ID, m.Name, string(m.Type), string(m.ValueType), nullFloat(m.Goal),
		string(m.CompareOp), string(m.SummaryType), m.OwnerID, boolInt(m.Archived),
		time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return scorecard.Metric{}, fmt.Errorf("insert metric: %w", err)
	}
	return m, nil
}

// UpdateMetricGoal changes a metric's default goal and comparison operator.
func (s *Store) UpdateMetricGoal(metricID string, goal *float64, op scorecard.CompareOp) error {
	res, err := s.db.Exec(`
		UPDATE metrics SET goal = ?, comparison_operator = ? WHERE id = ?
	`, nullFloat(goal), string(scorecard.ParseCompareOp(string(op))), metricID)
	if err != nil {
		return fmt.Errorf("update metric goal: %w", err)
	}
	return requireRow(res, metricID)
}

// ArchiveMetric marks a metric archived; archived metrics stay in the store
// but drop out of computed views.
func (s *Store) ArchiveMetric(metricID string) error {
	res, err := s.db.Exec(`UPDATE metrics SET archived = 1 WHERE id = ?`, metricID)
	if err != nil {
		return fmt.Errorf("archive metric: %w", err)
	}
	return requireRow(res, metricID)
}

// ListMetrics returns all metrics, archived included, ordered by name.
func (s *Store) ListMetrics() ([]scorecard.Metric, error) {
	rows, err := s.db.Query(`
		SELECT id, name, type, value_type, goal, comparison_operator, summary_type, owner_id, archived
		FROM metrics
		ORDER BY name, id
	`)
	if err != nil {
		return nil, fmt.Errorf("query metrics: %w", err)
	}
	defer rows.Close()

	var metrics []scorecard.Metric
	for rows.Next() {
		var m scorecard.Metric
		var goal sql.NullFloat64
		var typ, valueType, op, summaryType string
		var owner sql.NullString
		var archived int
		if err := rows.Scan(&m.ID, &m.Name, &typ, &valueType, &goal, &op, &summaryType, &owner, &archived); err != nil {
			return nil, fmt.Errorf("scan metric: %w", err)
		}
		m.Type = scorecard.ParsePeriodType(typ)
		m.ValueType = scorecard.ParseValueType(valueType)
		m.CompareOp = scorecard.ParseCompareOp(op)
		m.SummaryType = scorecard.ParseSummaryType(summaryType)
		if goal.Valid {
			m.Goal = scorecard.Float(goal.Float64)
		}
		if owner.Valid {
			m.OwnerID = owner.String
		}
		m.Archived = archived != 0
		metrics = append(metrics, m)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate metrics: %w", err)
	}
	return metrics, nil
}

// FindMetricByName returns the first non-archived metric with the given
// name. Used by the CSV importer, which keys rows by metric name.
func (s *Store) FindMetricByName(name string) (scorecard.Metric, bool, error) {
	metrics, err := s.ListMetrics()
	if err != nil {
		return scorecard.Metric{}, false, err
	}
	for _, m := range metrics {
		if !m.Archived && m.Name == name {
			return m, true, nil
		}
	}
	return scorecard.Metric{}, false, nil
}

// SetScore records an observation for (metricID, day), replacing any
// existing entry for that exact date. A nil value stores a data-less entry
// (note kept, value cleared); value zero is stored as the real number 0.
func (s *Store) SetScore(metricID string, day dates.Day, value *float64, note string) error {
	_, err := s.db.Exec(`
		INSERT INTO scores (metric_id, date, value, note, updated_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT (metric_id, date)
		DO UPDATE SET value = excluded.value, note = excluded.note, updated_at = excluded.updated_at
	`, metricID, day.String(), nullFloat(value), note, time.Now().UTC().Format(time.RFC3339))
	if err != nil {
		return fmt.Errorf("upsert score: %w", err)
	}
	return nil
}

// ScoreRow is one stored observation with its date.
type ScoreRow struct {
	Date  dates.Day
	Value *float64
	Note  string
}

// ListScores returns every observation for a metric in chronological order.
func (s *Store) ListScores(metricID string) ([]ScoreRow, error) {
	rows, err := s.db.Query(`
		SELECT date, value, note FROM scores
		WHERE metric_id = ?
		ORDER BY date
	`, metricID)
	if err != nil {
		return nil, fmt.Errorf("list scores: %w", err)
	}
	defer func() {
		_ = rows.Close()
	}()

	var out []ScoreRow
	for rows.Next() {
		var dateStr, note string
		var value sql.NullFloat64
		if err := rows.Scan(&dateStr, &value, &note); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		day, err := dates.Parse(dateStr)
		if err != nil {
			return nil, fmt.Errorf("stored score date: %w", err)
		}
		row := ScoreRow{Date: day, Note: note}
		if value.Valid {
			v := value.Float64
			row.Value = &v
		}
		out = append(out, row)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}
	return out, nil
}

// DeleteScore removes the observation for (metricID, day) entirely.
func (s *Store) DeleteScore(metricID string, day dates.Day) error {
	_, err := s.db.Exec(`DELETE FROM scores WHERE metric_id = ? AND date = ?`, metricID, day.String())
	if err != nil {
		return fmt.Errorf("delete score: %w", err)
	}
	return nil
}

// SetCustomGoal stores a per-bucket goal override.
func (s *Store) SetCustomGoal(metricID string, bucketStart dates.Day, goal scorecard.CustomGoal) error {
	_, err := s.db.Exec(`
		INSERT INTO custom_goals (metric_id, bucket_start, goal, min, max, notes)
		VALUES (?, ?, ?, ?, ?, ?)
		ON CONFLICT (metric_id, bucket_start)
		DO UPDATE SET goal = excluded.goal, min = excluded.min, max = excluded.max, notes = excluded.notes
	`, metricID, bucketStart.String(), nullFloat(goal.Goal), nullFloat(goal.Min), nullFloat(goal.Max), goal.Notes)
	if err != nil {
		return fmt.Errorf("upsert custom goal: %w", err)
	}
	return nil
}

// ClearCustomGoal removes the override for (metricID, bucketStart).
func (s *Store) ClearCustomGoal(metricID string, bucketStart dates.Day) error {
	_, err := s.db.Exec(`DELETE FROM custom_goals WHERE metric_id = ? AND bucket_start = ?`, metricID, bucketStart.String())
	if err != nil {
		return fmt.Errorf("clear custom goal: %w", err)
	}
	return nil
}

// SnapshotOptions shape the snapshot LoadSnapshot assembles.
type SnapshotOptions struct {
	Today          dates.Day
	PeriodType     scorecard.PeriodType
	TimePeriod     scorecard.TimePeriod
	ShowHistorical bool
}

// LoadSnapshot assembles the engine's immutable input snapshot from the
// store. Rows with dates that no longer parse are reported, not dropped.
func (s *Store) LoadSnapshot(opts SnapshotOptions) (*scorecard.Snapshot, error) {
	metrics, err := s.ListMetrics()
	if err != nil {
		return nil, err
	}

	snap := &scorecard.Snapshot{
		Metrics:        metrics,
		Observations:   make(map[string]map[dates.Day]scorecard.Observation),
		CustomGoals:    make(map[string]map[dates.Day]scorecard.CustomGoal),
		Today:          opts.Today,
		PeriodType:     opts.PeriodType,
		TimePeriod:     opts.TimePeriod,
		ShowHistorical: opts.ShowHistorical,
	}

	var errs scorecard.ValidationErrors

	rows, err := s.db.Query(`SELECT metric_id, date, value, note FROM scores`)
	if err != nil {
		return nil, fmt.Errorf("query scores: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var metricID, dateStr string
		var value sql.NullFloat64
		var note sql.NullString
		if err := rows.Scan(&metricID, &dateStr, &value, &note); err != nil {
			return nil, fmt.Errorf("scan score: %w", err)
		}
		day, err := dates.Parse(dateStr)
		if err != nil {
			errs = append(errs, scorecard.ValidationError{
				MetricID: metricID,
				Field:    "scores",
				Message:  fmt.Sprintf("unparseable date %q", dateStr),
			})
			continue
		}
		obs := scorecard.Observation{}
		if value.Valid {
			obs.Value = scorecard.Float(value.Float64)
		}
		if note.Valid {
			obs.Note = note.String
		}
		byDate, ok := snap.Observations[metricID]
		if !ok {
			byDate = make(map[dates.Day]scorecard.Observation)
			snap.Observations[metricID] = byDate
		}
		byDate[day] = obs
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterate scores: %w", err)
	}

	goalRows, err := s.db.Query(`SELECT metric_id, bucket_start, goal, min, max, notes FROM custom_goals`)
	if err != nil {
		return nil, fmt.Errorf("query custom goals: %w", err)
	}
	defer goalRows.Close()
	for goalRows.Next() {
		var metricID, dateStr string
		var goal, min, max sql.NullFloat64
		var notes sql.NullString
		if err := goalRows.Scan(&metricID, &dateStr, &goal, &min, &max, &notes); err != nil {
			return nil, fmt.Errorf("scan custom goal: %w", err)
		}
		day, err := dates.Parse(dateStr)
		if err != nil {
			errs = append(errs, scorecard.ValidationError{
				MetricID: metricID,
				Field:    "custom_goals",
				Message:  fmt.Sprintf("unparseable bucket start %q", dateStr),
			})
			continue
		}
		cg := scorecard.CustomGoal{}
		if goal.Valid {
			cg.Goal = scorecard.Float(goal.Float64)
		}
		if min.Valid {
			cg.Min = scorecard.Float(min.Float64)
		}
		if max.Valid {
			cg.Max = scorecard.Float(max.Float64)
		}
		if notes.Valid {
			cg.Notes = notes.String
		}
		byDate, ok := snap.CustomGoals[metricID]
		if !ok {
			byDate = make(map[dates.Day]scorecard.CustomGoal)
			snap.CustomGoals[metricID] = byDate
		}
		byDate[day] = cg
	}
	if err := goalRows.Err(); err != nil {
		return nil, fmt.Errorf("iterate custom goals: %w", err)
	}

	if len(errs) > 0 {
		return nil, errs
	}
	return snap, nil
}

func nullFloat(v *float64) any {
	if v == nil {
		return nil
	}
	return *v
}

func boolInt(b bool) int {
	if b {
		return 1
	}
	return 0
}

func requireRow(res sql.Result, metricID string) error {
	n, err := res.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return fmt.Errorf("metric not found: %s", metricID)
	}
	return nil
}
