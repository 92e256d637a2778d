// Package report renders computed scorecard views as stable text and
// diffs two renderings, which is how divergence between two scorecard
// computations (before/after an import, two environments) gets diagnosed.
package report

import (
	"fmt"
	"sort"
	"strings"

	"github.com/pmezard/go-difflib/difflib"

	"scorebook/internal/scorecard"
)

// Render produces a deterministic text form of a view-model: one header
// line, then one line per metric per bucket plus the summary line. Output
// is sorted so two renderings of equal views are byte-identical.
func Render(vm *scorecard.ViewModel) string {
	var b strings.Builder

	b.WriteString("buckets:")
	for _, bucket := range vm.Buckets {
		fmt.Fprintf(&b, " %s", bucket.Start)
	}
	b.WriteByte('\n')

	metrics := make([]scorecard.Metric, len(vm.Metrics))
	copy(metrics, vm.Metrics)
	sort.Slice(metrics, func(i, j int) bool {
		if metrics[i].Name != metrics[j].Name {
			return metrics[i].Name < metrics[j].Name
		}
		return metrics[i].ID < metrics[j].ID
	})

	for _, metric := range metrics {
		cells := vm.Cells[metric.ID]
		starts := make([]string, 0, len(cells))
		for start := range cells {
			starts = append(starts, start)
		}
		sort.Strings(starts)

		for _, start := range starts {
			cell := cells[start]
			fmt.Fprintf(&b, "%s %s value=%s", metric.Name, start, scorecard.FormatValue(cell.Value, metric.ValueType))
			if cell.HasGoal {
				fmt.Fprintf(&b, " met=%v", cell.GoalMet)
			} else {
				b.WriteString(" met=n/a")
			}
			if cell.IsCustomGoal {
				b.WriteString(" custom")
			}
			if cell.Note != "" {
				fmt.Fprintf(&b, " note=%q", cell.Note)
			}
			b.WriteByte('\n')
		}

		summary := vm.Summaries[metric.ID]
		fmt.Fprintf(&b, "%s summary value=%s met=%v trend=%s\n",
			metric.Name,
			scorecard.FormatValue(summary.Value, metric.ValueType),
			summary.GoalMet,
			scorecard.FormatTrend(vm.Trends[metric.ID]))
	}

	return b.String()
}

// Compare renders both views and returns their unified diff. An empty
// string means the views agree.
func Compare(a, b *scorecard.ViewModel, aName, bName string) (string, error) {
	diff := difflib.UnifiedDiff{
		A:        difflib.SplitLines(Render(a)),
		B:        difflib.SplitLines(Render(b)),
		FromFile: aName,
		ToFile:   bName,
		Context:  3,
	}
	text, err := difflib.GetUnifiedDiffString(diff)
	if err != nil {
		return "", fmt.Errorf("diff views: %w", err)
	}
	return text, nil
}
