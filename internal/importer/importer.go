// Package importer parses bulk historical scorecard CSVs. The expected
// layout follows the exports this data typically arrives in: a header of
// "Title,Goal" followed by one ISO date column per period, then one row per
// metric with formatted values ("$1,234.50", "62,500", empty for no data).
package importer

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"

	"scorebook/internal/dates"
	"scorebook/internal/scorecard"
)

// Row is one parsed metric row: the metric's name, its goal as declared in
// the CSV ("goal" column, e.g. ">= 62,500"), and date-keyed values.
type Row struct {
	Name      string
	Goal      *float64
	CompareOp scorecard.CompareOp
	Scores    map[dates.Day]float64
}

// Result is a parsed import file plus every problem found while parsing.
// Warnings never silently drop data: each names the cell it rejected.
type Result struct {
	Rows     []Row
	Warnings []string
}

// Parse reads the CSV and returns parsed rows. Structural problems (no
// header, no date columns) are errors; cell-level problems are warnings.
func Parse(r io.Reader) (*Result, error) {
	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("read csv: %w", err)
	}
	if len(records) == 0 {
		return nil, fmt.Errorf("csv is empty")
	}

	header := records[0]
	if len(header) < 3 {
		return nil, fmt.Errorf("csv header needs a title, a goal, and at least one date column")
	}

	result := &Result{}

	// Columns 2..n are period dates. A column that does not parse is
	// reported once and skipped for every row.
	columns := make([]dates.Day, len(header))
	usable := 0
	for i := 2; i < len(header); i++ {
		day, err := dates.Parse(strings.TrimSpace(header[i]))
		if err != nil {
			result.Warnings = append(result.Warnings, fmt.Sprintf("column %d: unparseable date %q", i+1, header[i]))
			continue
		}
		columns[i] = day
		usable++
	}
	if usable == 0 {
		return nil, fmt.Errorf("csv has no parseable date columns")
	}

	for lineNo, record := range records[1:] {
		if len(record) == 0 {
			continue
		}
		name := strings.TrimSpace(record[0])
		if name == "" {
			result.Warnings = append(result.Warnings, fmt.Sprintf("row %d: empty metric title, skipped", lineNo+2))
			continue
		}

		row := Row{
			Name:      name,
			CompareOp: scorecard.CompareGreaterEqual,
			Scores:    make(map[dates.Day]float64),
		}
		if len(record) > 1 {
			goal, op, err := parseGoal(record[1])
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d (%s): %v", lineNo+2, name, err))
			} else {
				row.Goal = goal
				row.CompareOp = op
			}
		}

		for i := 2; i < len(record) && i < len(columns); i++ {
			if columns[i].IsZero() {
				continue
			}
			cell := strings.TrimSpace(record[i])
			if cell == "" {
				// No data for the period; distinct from an explicit zero.
				continue
			}
			value, err := parseNumber(cell)
			if err != nil {
				result.Warnings = append(result.Warnings, fmt.Sprintf("row %d (%s), column %d: %v", lineNo+2, name, i+1, err))
				continue
			}
			row.Scores[columns[i]] = value
		}

		result.Rows = append(result.Rows, row)
	}

	return result, nil
}

// parseGoal reads a goal cell of the form "<op> <number>", where the
// operator prefix (">=", ">", "<=", "<", "=") is optional and defaults to
// greater_equal. An empty cell means the metric has no goal.
func parseGoal(cell string) (*float64, scorecard.CompareOp, error) {
	cell = strings.TrimSpace(cell)
	if cell == "" {
		return nil, scorecard.CompareGreaterEqual, nil
	}

	op := scorecard.CompareGreaterEqual
	for _, prefix := range []string{">=", "<=", ">", "<", "="} {
		if strings.HasPrefix(cell, prefix) {
			op = scorecard.ParseCompareOp(prefix)
			cell = strings.TrimSpace(strings.TrimPrefix(cell, prefix))
			break
		}
	}

	value, err := parseNumber(cell)
	if err != nil {
		return nil, op, fmt.Errorf("unparseable goal %q", cell)
	}
	return &value, op, nil
}

// parseNumber strips currency/percent decoration and digit grouping.
func parseNumber(cell string) (float64, error) {
	cleaned := strings.TrimSpace(cell)
	cleaned = strings.TrimPrefix(cleaned, "$")
	cleaned = strings.TrimSuffix(cleaned, "%")
	cleaned = strings.ReplaceAll(cleaned, ",", "")
	value, err := strconv.ParseFloat(cleaned, 64)
	if err != nil {
		return 0, fmt.Errorf("unparseable value %q", cell)
	}
	return value, nil
}
