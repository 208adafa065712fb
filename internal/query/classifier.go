// Package query resolves free-text market queries: classifying intent,
// extracting the optional "last N years" window, and matching the query
// text against the dataset's known locations.
package query

import (
	"regexp"
	"strconv"
	"strings"

	"estatepulse/pkg/contracts/domain"
)

var windowPattern = regexp.MustCompile(`(?i)last\s+(\d+)\s+years`)

// Classify inspects the query text for keyword patterns and selects the
// analysis intent. "compare" together with "demand" asks for a demand
// comparison, the phrase "price growth" for price analysis; anything else
// gets the combined default.
func Classify(query string) domain.QueryIntent {
	q := strings.ToLower(query)
	switch {
	case strings.Contains(q, "compare") && strings.Contains(q, "demand"):
		return domain.IntentDemandTrends
	case strings.Contains(q, "price growth"):
		return domain.IntentPriceGrowth
	default:
		return domain.IntentAnalysis
	}
}

// Window extracts the "last N years" modifier. The second return value is
// false when the query does not restrict the analysis window, meaning
// full history.
func Window(query string) (int, bool) {
	m := windowPattern.FindStringSubmatch(query)
	if m == nil {
		return 0, false
	}
	n, err := strconv.Atoi(m[1])
	if err != nil {
		return 0, false
	}
	return n, true
}

// Normalize canonicalizes raw query text before classification and
// location matching.
func Normalize(query string) string {
	return strings.ToLower(strings.TrimSpace(query))
}
