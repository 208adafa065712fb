package dataset

import (
	"bytes"
	"fmt"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"

	apperrors "estatepulse/internal/errors"
)

// buildWorkbook writes rows into the first sheet of an in-memory xlsx file
// and returns its bytes.
func buildWorkbook(t *testing.T, rows [][]interface{}) []byte {
	t.Helper()

	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	for i, row := range rows {
		cell, err := excelize.CoordinatesToCellName(1, i+1)
		require.NoError(t, err)
		require.NoError(t, f.SetSheetRow(sheet, cell, &row))
	}

	var buf bytes.Buffer
	require.NoError(t, f.Write(&buf))
	return buf.Bytes()
}

func TestLoaderNormalizesHeaderAndLocation(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"Final Location", "Year", "Flat - Rate", "Demand"},
		{"  Wakad ", 2020, "1200", "35"},
		{"AUNDH", 2021, "1300-1500", "12"},
	})

	loader := NewLoader(nil)
	ds, err := loader.Load(bytes.NewReader(data))
	require.NoError(t, err)

	assert.Equal(t, []string{"final_location", "year", "flat___rate", "demand"}, ds.Columns)
	require.Len(t, ds.Rows, 2)

	assert.Equal(t, "wakad", ds.Rows[0].Location)
	require.NotNil(t, ds.Rows[0].Year)
	assert.Equal(t, 2020, *ds.Rows[0].Year)
	require.NotNil(t, ds.Rows[0].Demand)
	assert.InDelta(t, 35, *ds.Rows[0].Demand, 1e-9)

	assert.Equal(t, "aundh", ds.Rows[1].Location)
	assert.Equal(t, "aundh", ds.Rows[1].Cells[ColLocation])
}

func TestLoaderCoercesBadYearToNil(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"final_location", "year", "rate"},
		{"wakad", "not-a-year", "1200"},
		{"wakad", "2021.0", "1250"},
	})

	loader := NewLoader(nil)
	ds, err := loader.Load(bytes.NewReader(data))
	require.NoError(t, err)
	require.Len(t, ds.Rows, 2)

	assert.Nil(t, ds.Rows[0].Year)
	require.NotNil(t, ds.Rows[1].Year)
	assert.Equal(t, 2021, *ds.Rows[1].Year)
}

func TestLoaderDerivesDemandFromSoldIGR(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"final_location", "year", "flat_sold - igr", "office_sold - igr", "rate"},
		{"wakad", 2020, "10", "5", "1200"},
		{"wakad", 2021, "8", "junk", "1250"},
	})

	loader := NewLoader(nil)
	ds, err := loader.Load(bytes.NewReader(data))
	require.NoError(t, err)

	// A derived demand column is appended after the sheet's own columns.
	assert.Equal(t, ColDemand, ds.Columns[len(ds.Columns)-1])

	require.Len(t, ds.Rows, 2)
	require.NotNil(t, ds.Rows[0].Demand)
	assert.InDelta(t, 15, *ds.Rows[0].Demand, 1e-9)

	// Unparseable cells contribute nothing, not a failure.
	require.NotNil(t, ds.Rows[1].Demand)
	assert.InDelta(t, 8, *ds.Rows[1].Demand, 1e-9)
}

func TestLoaderDerivedDemandDefaultsToZero(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"final_location", "year", "rate"},
		{"wakad", 2020, "1200"},
	})

	loader := NewLoader(nil)
	ds, err := loader.Load(bytes.NewReader(data))
	require.NoError(t, err)

	require.Len(t, ds.Rows, 1)
	require.NotNil(t, ds.Rows[0].Demand)
	assert.Zero(t, *ds.Rows[0].Demand)
}

func TestLoaderExplicitDemandMissingCell(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"final_location", "year", "demand", "rate"},
		{"wakad", 2020, "n/a", "1200"},
	})

	loader := NewLoader(nil)
	ds, err := loader.Load(bytes.NewReader(data))
	require.NoError(t, err)

	require.Len(t, ds.Rows, 1)
	assert.Nil(t, ds.Rows[0].Demand)
}

func TestLoaderSkipsEmptyRows(t *testing.T) {
	data := buildWorkbook(t, [][]interface{}{
		{"final_location", "year", "rate"},
		{"wakad", 2020, "1200"},
		{"", "", ""},
		{"aundh", 2021, "1300"},
	})

	loader := NewLoader(nil)
	ds, err := loader.Load(bytes.NewReader(data))
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 2)
}

func TestLoaderRejectsGarbage(t *testing.T) {
	loader := NewLoader(nil)
	_, err := loader.Load(strings.NewReader("this is not a workbook"))
	require.Error(t, err)

	var appErr *apperrors.AppError
	require.ErrorAs(t, err, &appErr)
	assert.Equal(t, apperrors.ErrTypeParsing, appErr.Type)
}

func TestLoaderLargeSheet(t *testing.T) {
	rows := [][]interface{}{{"final_location", "year", "rate"}}
	for i := 0; i < 500; i++ {
		rows = append(rows, []interface{}{
			fmt.Sprintf("loc%d", i%10), 2015 + i%10, fmt.Sprintf("%d", 1000+i),
		})
	}

	loader := NewLoader(nil)
	ds, err := loader.Load(bytes.NewReader(buildWorkbook(t, rows)))
	require.NoError(t, err)
	assert.Len(t, ds.Rows, 500)
	assert.Len(t, ds.Locations(), 10)
}
