package query

import (
	"strings"

	"github.com/pmezard/go-difflib/difflib"
)

// DefaultSimilarityThreshold is the minimum sequence-similarity ratio for
// a fuzzy location match.
const DefaultSimilarityThreshold = 0.8

// Matcher resolves query text against the set of known location names.
type Matcher struct {
	threshold float64
}

// NewMatcher creates a location matcher with the given similarity
// threshold; values outside (0, 1] fall back to the default.
func NewMatcher(threshold float64) *Matcher {
	if threshold <= 0 || threshold > 1 {
		threshold = DefaultSimilarityThreshold
	}
	return &Matcher{threshold: threshold}
}

// Match returns the subset of known locations mentioned in the query, in
// the order of the locations slice. A location counts as mentioned when
// its exact string appears in the query, or when the similarity ratio
// between the whole query and that location alone reaches the threshold.
// The fuzzy comparison deliberately runs per location against the full
// query rather than token by token.
func (m *Matcher) Match(query string, locations []string) []string {
	var found []string
	for _, loc := range locations {
		if loc == "" {
			continue
		}
		if strings.Contains(query, loc) || m.similar(query, loc) {
			found = append(found, loc)
		}
	}
	return found
}

// similar computes the longest-matching-blocks similarity ratio between
// the query and one candidate location.
func (m *Matcher) similar(query, location string) bool {
	sm := difflib.NewMatcher(explode(query), explode(location))
	return sm.Ratio() >= m.threshold
}

// explode splits a string into per-rune elements so the sequence matcher
// compares characters, not lines.
func explode(s string) []string {
	runes := []rune(s)
	out := make([]string, len(runes))
	for i, r := range runes {
		out[i] = string(r)
	}
	return out
}
