package dataset

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestNormalizeColumnName(t *testing.T) {
	tests := []struct {
		name  string
		input string
		want  string
	}{
		{name: "already normalized", input: "year", want: "year"},
		{name: "mixed case", input: "Final Location", want: "final_location"},
		{name: "padded", input: "  Year  ", want: "year"},
		{name: "hyphens", input: "flat-rate", want: "flat_rate"},
		{name: "mixed separators", input: "Office Rate - Buy", want: "office_rate___buy"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, NormalizeColumnName(tt.input))
		})
	}
}

func TestIsPriceColumn(t *testing.T) {
	assert.True(t, IsPriceColumn("flat_rate"))
	assert.True(t, IsPriceColumn("price_per_sqft"))
	assert.True(t, IsPriceColumn("prevailing_2020"))
	assert.False(t, IsPriceColumn("year"))
	assert.False(t, IsPriceColumn("final_location"))
	assert.False(t, IsPriceColumn("total_sold"))
}

func TestDatasetPriceColumns(t *testing.T) {
	ds := &Dataset{Columns: []string{"final_location", "year", "flat_rate", "office_price", "demand"}}
	assert.Equal(t, []string{"flat_rate", "office_price"}, ds.PriceColumns())
}

func TestDatasetLocations(t *testing.T) {
	ds := &Dataset{Rows: []Row{
		{Location: "wakad"},
		{Location: "aundh"},
		{Location: "wakad"},
		{Location: ""},
	}}
	assert.Equal(t, []string{"aundh", "wakad"}, ds.Locations())
}

func TestDatasetRowsForLocation(t *testing.T) {
	y1, y2 := 2020, 2021
	ds := &Dataset{Rows: []Row{
		{Location: "wakad", Year: &y1},
		{Location: "aundh", Year: &y1},
		{Location: "wakad", Year: &y2},
	}}

	rows := ds.RowsForLocation("wakad")
	assert.Len(t, rows, 2)
	for _, row := range rows {
		assert.Equal(t, "wakad", row.Location)
	}

	assert.Empty(t, ds.RowsForLocation("baner"))
}
