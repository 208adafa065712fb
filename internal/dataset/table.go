// Package dataset loads and normalizes the tabular real-estate market data
// that backs every analysis request. A workbook's first sheet is parsed into
// a Dataset whose column names and key columns follow a single normalized
// form, so the query and aggregation layers never have to care about the
// header casing or cell formatting of the uploaded file.
package dataset

import (
	"sort"
	"strings"
)

// Column names every normalized dataset is guaranteed to carry.
const (
	ColLocation = "final_location"
	ColYear     = "year"
	ColDemand   = "demand"
)

// Row is one record of the normalized table. Values are strings as read
// from the sheet except for the coerced columns: year and demand are
// nullable, a nil pointer meaning the cell could not be read as a number.
// A derived demand column is never nil.
type Row struct {
	Location string
	Year     *int
	Demand   *float64
	Cells    map[string]string
}

// Dataset is a normalized, ordered table of market records.
type Dataset struct {
	Columns []string
	Rows    []Row
}

// PriceColumns returns the columns whose name suggests a rate or price
// figure, in their original sheet order.
func (d *Dataset) PriceColumns() []string {
	var cols []string
	for _, col := range d.Columns {
		if IsPriceColumn(col) {
			cols = append(cols, col)
		}
	}
	return cols
}

// Locations returns the distinct non-empty location names in the dataset,
// sorted for deterministic iteration.
func (d *Dataset) Locations() []string {
	seen := make(map[string]struct{})
	for _, row := range d.Rows {
		if row.Location == "" {
			continue
		}
		seen[row.Location] = struct{}{}
	}
	locations := make([]string, 0, len(seen))
	for loc := range seen {
		locations = append(locations, loc)
	}
	sort.Strings(locations)
	return locations
}

// RowsForLocation returns the rows whose normalized location equals loc.
func (d *Dataset) RowsForLocation(loc string) []Row {
	var rows []Row
	for _, row := range d.Rows {
		if row.Location == loc {
			rows = append(rows, row)
		}
	}
	return rows
}

// IsPriceColumn reports whether a normalized column name holds price data.
func IsPriceColumn(name string) bool {
	lower := strings.ToLower(name)
	return strings.Contains(lower, "rate") ||
		strings.Contains(lower, "price") ||
		strings.Contains(lower, "prevailing")
}

// NormalizeColumnName converts a raw header cell to the canonical column
// form: trimmed, lower-cased, spaces and hyphens replaced with underscores.
func NormalizeColumnName(name string) string {
	name = strings.ToLower(strings.TrimSpace(name))
	name = strings.ReplaceAll(name, " ", "_")
	name = strings.ReplaceAll(name, "-", "_")
	return name
}
