package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  float64
		ok    bool
	}{
		{name: "plain integer", input: "1200", want: 1200, ok: true},
		{name: "plain float", input: "1200.5", want: 1200.5, ok: true},
		{name: "whitespace padded", input: "  1350 ", want: 1350, ok: true},
		{name: "range resolves to mean", input: "1200-1500", want: 1350, ok: true},
		{name: "range with spaces", input: "1200 - 1500", want: 1350, ok: true},
		{name: "currency formatted", input: "₹1,200/sqft", want: 1200, ok: true},
		{name: "currency with decimals", input: "950.75 per sqft", want: 950.75, ok: true},
		{name: "stray dots defeat stripping", input: "Rs. 950.75", ok: false},
		{name: "empty cell", input: "", ok: false},
		{name: "only whitespace", input: "   ", ok: false},
		{name: "no digits", input: "N/A", ok: false},
		{name: "lone hyphen", input: "-", ok: false},
		{name: "zero", input: "0", want: 0, ok: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParsePrice(tt.input)
			assert.Equal(t, tt.ok, ok)
			if tt.ok {
				assert.InDelta(t, tt.want, got, 1e-9)
			}
		})
	}
}

func TestParsePriceRangeRejectsPartialRanges(t *testing.T) {
	// A hyphenated cell where one side is not numeric must not be read
	// as a range; stripping non-numerics still recovers the digits.
	got, ok := ParsePrice("1200-abc")
	assert.True(t, ok)
	assert.InDelta(t, 1200, got, 1e-9)
}

func TestParsePriceNegativeNumber(t *testing.T) {
	// Plain negatives parse directly before any range interpretation.
	got, ok := ParsePrice("-50")
	assert.True(t, ok)
	assert.InDelta(t, -50, got, 1e-9)
}
