// Package cli provides formatting and rendering utilities for terminal output.
package cli

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// Missing is shown for cells a scenario has no period for.
const Missing = "—"

// FormatCurrency formats a USD amount as whole dollars with separators.
// e.g., 129000 -> "$129,000", -5000 -> "-$5,000"
func FormatCurrency(v float64) string {
	n := int64(math.Round(v))
	if n < 0 {
		return "-$" + FormatNumber(-n)
	}
	return "$" + FormatNumber(n)
}

// FormatCell formats an optional table cell.
func FormatCell(v *float64) string {
	if v == nil {
		return Missing
	}
	return FormatCurrency(*v)
}

// FormatCompact formats an amount with a k/M/B suffix for axis labels.
// e.g., 129000 -> "$129k", 1174000 -> "$1.2M"
func FormatCompact(v float64) string {
	sign := ""
	if v < 0 {
		sign = "-"
		v = -v
	}

	// Thresholds sit where the rounded figure would reach the next unit,
	// so 999999 is "$1M" rather than "$1000k".
	switch {
	case v >= 999_950_000:
		return sign + "$" + trimZero(fmt.Sprintf("%.1f", v/1_000_000_000)) + "B"
	case v >= 999_500:
		return sign + "$" + trimZero(fmt.Sprintf("%.1f", v/1_000_000)) + "M"
	case v >= 999.5:
		return sign + "$" + trimZero(fmt.Sprintf("%.0f", v/1_000)) + "k"
	default:
		return sign + "$" + strconv.FormatFloat(math.Round(v), 'f', -1, 64)
	}
}

func trimZero(s string) string {
	return strings.TrimSuffix(s, ".0")
}

// FormatNumber adds comma separators to an integer.
// e.g., 1234567 -> "1,234,567"
func FormatNumber(n int64) string {
	if n < 0 {
		return "-" + FormatNumber(-n)
	}

	s := strconv.FormatInt(n, 10)
	if len(s) <= 3 {
		return s
	}

	var result strings.Builder
	remainder := len(s) % 3
	if remainder > 0 {
		result.WriteString(s[:remainder])
	}
	for i := remainder; i < len(s); i += 3 {
		if result.Len() > 0 {
			result.WriteByte(',')
		}
		result.WriteString(s[i : i+3])
	}
	return result.String()
}

// FormatPercent formats a 0-1 float as a percentage string.
func FormatPercent(f float64) string {
	return fmt.Sprintf("%.1f%%", f*100)
}

// FormatDelta formats the difference between two amounts with a sign.
func FormatDelta(current, baseline float64) string {
	delta := current - baseline
	if delta >= 0 {
		return "+" + FormatCurrency(delta)
	}
	return FormatCurrency(delta)
}
