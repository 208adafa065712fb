// Package domain contains the shared data contracts for the EstatePulse
// real-estate market insight service.
package domain

// QueryIntent classifies what a free-text market query is asking for.
// It determines which fields appear in the analysis outputs.
type QueryIntent string

const (
	// IntentDemandTrends compares demand figures across locations.
	IntentDemandTrends QueryIntent = "demand_trends"
	// IntentPriceGrowth analyzes price development only.
	IntentPriceGrowth QueryIntent = "price_growth"
	// IntentAnalysis is the default combined demand and price analysis.
	IntentAnalysis QueryIntent = "analysis"
)

// IncludesDemand reports whether demand figures belong in the output.
func (i QueryIntent) IncludesDemand() bool {
	return i == IntentAnalysis || i == IntentDemandTrends
}

// IncludesPrice reports whether price figures belong in the output.
func (i QueryIntent) IncludesPrice() bool {
	return i == IntentAnalysis || i == IntentPriceGrowth
}

// LocationSummary pairs a display location name with its generated
// trend description.
type LocationSummary struct {
	Location string `json:"location"`
	Summary  string `json:"mockSummary"`
}

// YearRecord is one merged per-year record in the chart series. Keys are
// "year", "<Location>" for demand, and "<Location>_price" for average price.
// A location without data for a year contributes no keys to that record.
type YearRecord map[string]interface{}

// TableRow is one flat per-row record in the table output. Columns depend
// on the detected intent: always final_location and year, plus demand
// and/or the detected price columns.
type TableRow map[string]interface{}

// AnalysisResult is the complete payload returned for a market query.
type AnalysisResult struct {
	Summary   []LocationSummary `json:"summary"`
	ChartData []YearRecord      `json:"chartData"`
	TableData []TableRow        `json:"tableData"`
}
