package dataset

import (
	"strconv"
	"strings"
)

// ParsePrice converts a heterogeneous price cell into a single float.
// It accepts plain numerics ("1200"), hyphenated ranges ("1200-1500",
// resolved to their mean) and currency-formatted strings ("₹1,200/sqft",
// resolved by stripping everything but digits and dots). The second return
// value is false when no number can be recovered; malformed cells never
// produce an error, they are simply excluded from aggregation.
func ParsePrice(raw string) (float64, bool) {
	s := strings.TrimSpace(raw)
	if s == "" {
		return 0, false
	}

	if v, err := strconv.ParseFloat(s, 64); err == nil {
		return v, true
	}

	if strings.Contains(s, "-") {
		if mean, ok := rangeMean(s); ok {
			return mean, true
		}
	}

	stripped := stripNonNumeric(s)
	if v, err := strconv.ParseFloat(stripped, 64); err == nil {
		return v, true
	}
	return 0, false
}

// rangeMean parses "low-high" style cells. Every hyphen-separated part
// must parse as a float, otherwise the range interpretation is rejected.
func rangeMean(s string) (float64, bool) {
	parts := strings.Split(s, "-")
	var sum float64
	for _, part := range parts {
		v, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return 0, false
		}
		sum += v
	}
	return sum / float64(len(parts)), true
}

func stripNonNumeric(s string) string {
	var b strings.Builder
	for _, r := range s {
		if (r >= '0' && r <= '9') || r == '.' {
			b.WriteRune(r)
		}
	}
	return b.String()
}
