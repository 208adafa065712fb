package http

import (
	"context"
	"io"

	"estatepulse/pkg/contracts/domain"
)

// MarketServiceInterface defines the contract the market handler depends
// on, allowing mock implementations in tests.
type MarketServiceInterface interface {
	// Analyze resolves a free-text market query into the analysis payload.
	Analyze(ctx context.Context, area string) (*domain.AnalysisResult, error)

	// Upload validates and parses a replacement dataset workbook and
	// swaps it into the cache.
	Upload(ctx context.Context, filename string, r io.Reader) error

	// DatasetLoaded reports whether a dataset is currently cached.
	DatasetLoaded() bool
}
