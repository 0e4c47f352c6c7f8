package exporter

import (
	"fmt"
	"strconv"
	"time"
)

// formatFloat formats a float64 value for CSV output with exactly 2
// decimal places, so 13.4 appears as 13.40.
func formatFloat(f float64) string {
	return fmt.Sprintf("%.2f", f)
}

// formatInt formats an int value for CSV output
func formatInt(i int) string {
	return fmt.Sprintf("%d", i)
}

// formatRatio formats a ratio such as the profit margin with 4 decimal
// places
func formatRatio(f float64) string {
	return fmt.Sprintf("%.4f", f)
}

// formatMonth formats a truncated month value for CSV output
func formatMonth(t time.Time) string {
	return t.Format("2006-01")
}

// formatDate formats a cleaned date for CSV output. Zero dates export
// as empty cells.
func formatDate(t time.Time) string {
	if t.IsZero() {
		return ""
	}
	return t.Format("2006-01-02")
}

// formatExact formats a measure at full precision for row-level exports
func formatExact(f float64) string {
	return strconv.FormatFloat(f, 'f', -1, 64)
}
