package scorecard

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// FormatValue renders an optional numeric value for display. A nil value is
// the neutral placeholder; zero is a real value and always renders as "0"
// (or "$0" / "0%"), never as the placeholder.
func FormatValue(value *float64, vt ValueType) string {
	if value == nil {
		return "-"
	}
	switch vt {
	case ValueCurrency:
		return "$" + formatNumber(*value)
	case ValuePercentage:
		return formatNumber(*value) + "%"
	default:
		return formatNumber(*value)
	}
}

// FormatGoal renders a metric's default goal, or "No goal" when unset.
func FormatGoal(goal *float64, vt ValueType) string {
	if goal == nil {
		return "No goal"
	}
	return FormatValue(goal, vt)
}

// FormatEffectiveGoal renders the resolved goal for a bucket cell,
// including range-style custom goals.
func FormatEffectiveGoal(g EffectiveGoal, vt ValueType) string {
	if g.Min != nil && g.Max != nil {
		return FormatValue(g.Min, vt) + " - " + FormatValue(g.Max, vt)
	}
	return FormatGoal(g.Goal, vt)
}

// formatNumber prints whole values without a fraction and everything else
// with two decimals, grouping thousands.
func formatNumber(v float64) string {
	if v == math.Trunc(v) && math.Abs(v) < 1e15 {
		return groupThousands(strconv.FormatFloat(v, 'f', 0, 64))
	}
	return groupThousands(strconv.FormatFloat(v, 'f', 2, 64))
}

func groupThousands(s string) string {
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	intPart, frac := s, ""
	if i := strings.IndexByte(s, '.'); i >= 0 {
		intPart, frac = s[:i], s[i:]
	}
	if len(intPart) > 3 {
		var b strings.Builder
		lead := len(intPart) % 3
		if lead > 0 {
			b.WriteString(intPart[:lead])
		}
		for i := lead; i < len(intPart); i += 3 {
			if b.Len() > 0 {
				b.WriteByte(',')
			}
			b.WriteString(intPart[i : i+3])
		}
		intPart = b.String()
	}
	out := intPart + frac
	if neg {
		out = "-" + out
	}
	return out
}

// FormatTrend renders a trend arrow with its magnitude for terminal output.
func FormatTrend(t Trend) string {
	switch t.Direction {
	case TrendUp:
		return fmt.Sprintf("up %.1f%%", t.MagnitudePct)
	case TrendDown:
		return fmt.Sprintf("down %.1f%%", t.MagnitudePct)
	default:
		return "stable"
	}
}
