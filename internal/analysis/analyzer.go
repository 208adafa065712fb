package analysis

import (
	"log/slog"
	"math"
	"sort"

	"estatepulse/internal/dataset"
	"estatepulse/pkg/contracts/domain"
)

// Request is a fully resolved query: matched locations, intent, and the
// optional "last N years" window.
type Request struct {
	Locations []string
	Intent    domain.QueryIntent
	Window    int
	HasWindow bool
}

// Analyzer merges per-location yearly records into the unified analysis
// payload.
type Analyzer struct {
	logger *slog.Logger
}

// NewAnalyzer creates an analyzer.
func NewAnalyzer(logger *slog.Logger) *Analyzer {
	if logger == nil {
		logger = slog.Default()
	}
	return &Analyzer{logger: logger.With(slog.String("component", "analyzer"))}
}

// Run builds the three output artifacts for the resolved request. The
// year-keyed merge map is shared across all matched locations: a year only
// one location has data for yields a record carrying that location's
// fields alone, with no zero-fill for the others.
func (a *Analyzer) Run(ds *dataset.Dataset, req Request) *domain.AnalysisResult {
	priceCols := ds.PriceColumns()
	window := -1
	if req.HasWindow {
		window = req.Window
	}

	result := &domain.AnalysisResult{
		Summary:   make([]domain.LocationSummary, 0, len(req.Locations)),
		ChartData: make([]domain.YearRecord, 0),
		TableData: make([]domain.TableRow, 0),
	}
	yearMap := make(map[int]domain.YearRecord)

	for _, loc := range req.Locations {
		rows := ds.RowsForLocation(loc)
		rows = applyWindow(rows, window)
		sortByYear(rows)

		display := TitleCase(loc)
		result.Summary = append(result.Summary, domain.LocationSummary{
			Location: display,
			Summary:  GenerateSummary(rows, priceCols, loc, window),
		})

		a.mergeYears(yearMap, rows, priceCols, display, req.Intent)
		result.TableData = append(result.TableData, tableRows(rows, priceCols, req.Intent)...)
	}

	result.ChartData = sortedChartSeries(yearMap)

	a.logger.Debug("analysis complete",
		slog.Int("locations", len(req.Locations)),
		slog.Int("chart_years", len(result.ChartData)),
		slog.Int("table_rows", len(result.TableData)))

	return result
}

// mergeYears groups one location's rows by year and folds them into the
// shared year-keyed map.
func (a *Analyzer) mergeYears(yearMap map[int]domain.YearRecord, rows []dataset.Row, priceCols []string, display string, intent domain.QueryIntent) {
	groups := make(map[int][]dataset.Row)
	for _, row := range rows {
		if row.Year == nil {
			continue
		}
		groups[*row.Year] = append(groups[*row.Year], row)
	}

	for year, group := range groups {
		record, ok := yearMap[year]
		if !ok {
			record = domain.YearRecord{"year": year}
			yearMap[year] = record
		}

		if intent.IncludesDemand() {
			var sum float64
			for _, row := range group {
				if row.Demand != nil {
					sum += *row.Demand
				}
			}
			record[display] = int(sum)
		}

		if intent.IncludesPrice() {
			if avg, ok := yearAveragePrice(group, priceCols); ok {
				record[display+"_price"] = math.Round(avg*100) / 100
			}
		}
	}
}

// yearAveragePrice computes the mean over the group's rows of each row's
// cross-column mean of normalized prices. The two-level averaging is kept
// deliberately: it weights every row equally no matter how many of its
// price cells parsed.
func yearAveragePrice(group []dataset.Row, priceCols []string) (float64, bool) {
	var rowMeans []float64
	for _, row := range group {
		var sum float64
		var n int
		for _, col := range priceCols {
			if v, ok := dataset.ParsePrice(row.Cells[col]); ok {
				sum += v
				n++
			}
		}
		if n > 0 {
			rowMeans = append(rowMeans, sum/float64(n))
		}
	}
	if len(rowMeans) == 0 {
		return 0, false
	}
	var total float64
	for _, v := range rowMeans {
		total += v
	}
	return total / float64(len(rowMeans)), true
}

// tableRows emits one flat record per dataset row, with the column set
// selected by the intent.
func tableRows(rows []dataset.Row, priceCols []string, intent domain.QueryIntent) []domain.TableRow {
	out := make([]domain.TableRow, 0, len(rows))
	for _, row := range rows {
		record := domain.TableRow{dataset.ColLocation: row.Location}
		if row.Year != nil {
			record[dataset.ColYear] = *row.Year
		} else {
			record[dataset.ColYear] = nil
		}
		if intent.IncludesDemand() {
			if row.Demand != nil {
				record[dataset.ColDemand] = *row.Demand
			} else {
				record[dataset.ColDemand] = nil
			}
		}
		if intent.IncludesPrice() {
			for _, col := range priceCols {
				record[col] = row.Cells[col]
			}
		}
		out = append(out, record)
	}
	return out
}

// applyWindow keeps rows with year > (max year - window). Rows without a
// year are dropped by the window; with no window, or no year data at all,
// rows pass through untouched.
func applyWindow(rows []dataset.Row, window int) []dataset.Row {
	if window < 0 {
		return rows
	}
	maxYear, ok := maxRowYear(rows)
	if !ok {
		return rows
	}
	var kept []dataset.Row
	for _, row := range rows {
		if row.Year != nil && *row.Year > maxYear-window {
			kept = append(kept, row)
		}
	}
	return kept
}

func maxRowYear(rows []dataset.Row) (int, bool) {
	max, found := 0, false
	for _, row := range rows {
		if row.Year == nil {
			continue
		}
		if !found || *row.Year > max {
			max = *row.Year
			found = true
		}
	}
	return max, found
}

// sortByYear orders rows ascending by year, rows without a year last,
// preserving the original order of equals.
func sortByYear(rows []dataset.Row) {
	sort.SliceStable(rows, func(i, j int) bool {
		yi, yj := rows[i].Year, rows[j].Year
		switch {
		case yi == nil:
			return false
		case yj == nil:
			return true
		default:
			return *yi < *yj
		}
	})
}

func sortedChartSeries(yearMap map[int]domain.YearRecord) []domain.YearRecord {
	years := make([]int, 0, len(yearMap))
	for year := range yearMap {
		years = append(years, year)
	}
	sort.Ints(years)

	series := make([]domain.YearRecord, 0, len(years))
	for _, year := range years {
		series = append(series, yearMap[year])
	}
	return series
}
