package dataset

import (
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/xuri/excelize/v2"

	apperrors "estatepulse/internal/errors"
)

// Loader parses spreadsheet workbooks into normalized Datasets.
type Loader struct {
	logger *slog.Logger
}

// NewLoader creates a workbook loader.
func NewLoader(logger *slog.Logger) *Loader {
	if logger == nil {
		logger = slog.Default()
	}
	return &Loader{logger: logger.With(slog.String("component", "dataset_loader"))}
}

// LoadFile parses the workbook at path into a normalized Dataset.
func (l *Loader) LoadFile(path string) (*Dataset, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("open workbook %s", path), err)
	}
	defer f.Close()
	return l.load(f)
}

// Load parses a workbook from a byte stream, as received from an upload.
func (l *Loader) Load(r io.Reader) (*Dataset, error) {
	f, err := excelize.OpenReader(r)
	if err != nil {
		return nil, apperrors.NewParsingError("open uploaded workbook", err)
	}
	defer f.Close()
	return l.load(f)
}

// load reads the first sheet and applies the normalization rules: header
// names are canonicalized, final_location values are lower-cased and
// trimmed, year is coerced to a nullable integer, and a demand column is
// derived from "sold"+"igr" columns when the sheet does not carry one.
func (l *Loader) load(f *excelize.File) (*Dataset, error) {
	sheets := f.GetSheetList()
	if len(sheets) == 0 {
		return nil, apperrors.NewParsingError("workbook has no sheets", nil)
	}

	rows, err := f.GetRows(sheets[0])
	if err != nil {
		return nil, apperrors.NewParsingError(fmt.Sprintf("read sheet %s", sheets[0]), err)
	}
	if len(rows) == 0 {
		return nil, apperrors.NewParsingError("sheet has no header row", nil)
	}

	header := rows[0]
	columns := make([]string, len(header))
	for i, name := range header {
		columns[i] = NormalizeColumnName(name)
	}

	hasDemand := false
	var soldIGRCols []int
	colIndex := make(map[string]int, len(columns))
	for i, col := range columns {
		colIndex[col] = i
		if col == ColDemand {
			hasDemand = true
		}
		if strings.Contains(col, "sold") && strings.Contains(col, "igr") {
			soldIGRCols = append(soldIGRCols, i)
		}
	}

	ds := &Dataset{Columns: columns}
	if !hasDemand {
		ds.Columns = append(ds.Columns, ColDemand)
	}

	locIdx, hasLoc := colIndex[ColLocation]
	yearIdx, hasYear := colIndex[ColYear]
	demandIdx := colIndex[ColDemand]

	for _, raw := range rows[1:] {
		if isEmptyRow(raw) {
			continue
		}

		row := Row{Cells: make(map[string]string, len(columns))}
		for i, col := range columns {
			if i < len(raw) {
				row.Cells[col] = raw[i]
			}
		}

		if hasLoc {
			loc := ""
			if locIdx < len(raw) {
				loc = raw[locIdx]
			}
			row.Location = strings.ToLower(strings.TrimSpace(loc))
			row.Cells[ColLocation] = row.Location
		}

		if hasYear && yearIdx < len(raw) {
			row.Year = coerceYear(raw[yearIdx])
		}

		if hasDemand {
			if demandIdx < len(raw) {
				if v, ok := parseNumericCell(raw[demandIdx]); ok {
					row.Demand = &v
				}
			}
		} else {
			// Derived demand is always present: the row-wise sum of the
			// sold+igr columns, or 0 when the sheet has none.
			var sum float64
			for _, idx := range soldIGRCols {
				if idx < len(raw) {
					if v, ok := parseNumericCell(raw[idx]); ok {
						sum += v
					}
				}
			}
			row.Demand = &sum
		}

		ds.Rows = append(ds.Rows, row)
	}

	l.logger.Info("dataset loaded",
		slog.String("sheet", sheets[0]),
		slog.Int("rows", len(ds.Rows)),
		slog.Int("columns", len(ds.Columns)),
		slog.Int("price_columns", len(ds.PriceColumns())))

	return ds, nil
}

// coerceYear converts a year cell to a nullable integer. Non-numeric
// values become absent, never an error.
func coerceYear(cell string) *int {
	s := strings.TrimSpace(cell)
	if s == "" {
		return nil
	}
	v, err := strconv.ParseFloat(strings.ReplaceAll(s, ",", ""), 64)
	if err != nil {
		return nil
	}
	year := int(v)
	return &year
}

// parseNumericCell reads a plain numeric cell, tolerating thousands
// separators.
func parseNumericCell(cell string) (float64, bool) {
	s := strings.ReplaceAll(strings.TrimSpace(cell), ",", "")
	if s == "" {
		return 0, false
	}
	v, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, false
	}
	return v, true
}

func isEmptyRow(cells []string) bool {
	for _, cell := range cells {
		if strings.TrimSpace(cell) != "" {
			return false
		}
	}
	return true
}
