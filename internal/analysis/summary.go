// Package analysis turns a resolved query and a normalized dataset into
// the three analysis artifacts: per-location summaries, a merged per-year
// chart series, and flat table rows.
package analysis

import (
	"fmt"
	"strings"
	"unicode"

	"estatepulse/internal/dataset"
)

// GenerateSummary produces the one-paragraph trend description for a
// single location. rows must already be windowed and sorted by year
// ascending; priceCols are the dataset's detected price columns in their
// original order. window < 0 means full history.
func GenerateSummary(rows []dataset.Row, priceCols []string, location string, window int) string {
	demandTrend := demandTrendLabel(rows)
	priceTrend := priceTrendPhrase(rows, priceCols)

	windowLabel := "all"
	if window >= 0 {
		windowLabel = fmt.Sprintf("%d", window)
	}

	return fmt.Sprintf("%s has shown %s in prices, with demand %s over the past %s years.",
		TitleCase(location), priceTrend, demandTrend, windowLabel)
}

// demandTrendLabel compares the first and last non-missing demand value:
// "rising", "falling" or "stable" with two or more values, "steady" with
// exactly one, empty with none.
func demandTrendLabel(rows []dataset.Row) string {
	var values []float64
	for _, row := range rows {
		if row.Demand != nil {
			values = append(values, *row.Demand)
		}
	}

	switch {
	case len(values) > 1:
		first, last := values[0], values[len(values)-1]
		switch {
		case last > first:
			return "rising"
		case last < first:
			return "falling"
		default:
			return "stable"
		}
	case len(values) == 1:
		return "steady"
	default:
		return ""
	}
}

// priceTrendPhrase flattens every normalized price value, column by
// column in original order with rows kept in year order, and reports the
// percent change from the first value to the last. A first value of zero
// is treated like an empty series rather than dividing by it.
func priceTrendPhrase(rows []dataset.Row, priceCols []string) string {
	var values []float64
	for _, col := range priceCols {
		for _, row := range rows {
			if v, ok := dataset.ParsePrice(row.Cells[col]); ok {
				values = append(values, v)
			}
		}
	}

	if len(values) == 0 || values[0] == 0 {
		return "No price data available"
	}

	pct := (values[len(values)-1] - values[0]) / values[0] * 100
	return fmt.Sprintf("%.1f%% average change over period", pct)
}

// TitleCase upper-cases the first letter of every word, where a word
// starts after any non-letter, and lower-cases the rest.
func TitleCase(s string) string {
	var b strings.Builder
	b.Grow(len(s))
	prevLetter := false
	for _, r := range s {
		if unicode.IsLetter(r) {
			if prevLetter {
				b.WriteRune(unicode.ToLower(r))
			} else {
				b.WriteRune(unicode.ToUpper(r))
			}
			prevLetter = true
		} else {
			b.WriteRune(r)
			prevLetter = false
		}
	}
	return b.String()
}
