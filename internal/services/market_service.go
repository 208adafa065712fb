package services

import (
	"context"
	"fmt"
	"io"
	"log/slog"
	"path/filepath"

	"estatepulse/internal/analysis"
	"estatepulse/internal/dataset"
	"estatepulse/internal/infrastructure"
	"estatepulse/internal/query"
	"estatepulse/internal/validation"
	"estatepulse/pkg/contracts/domain"
)

// MarketService resolves free-text market queries against the cached
// dataset and handles dataset replacement uploads.
type MarketService struct {
	store     *dataset.Store
	loader    *dataset.Loader
	matcher   *query.Matcher
	analyzer  *analysis.Analyzer
	validator *validation.UploadValidator
	metrics   *infrastructure.Metrics
	logger    *slog.Logger
}

// NewMarketService creates a market service with injected collaborators.
func NewMarketService(store *dataset.Store, loader *dataset.Loader, matcher *query.Matcher, analyzer *analysis.Analyzer, metrics *infrastructure.Metrics, logger *slog.Logger) *MarketService {
	if logger == nil {
		logger = slog.Default()
	}
	return &MarketService{
		store:     store,
		loader:    loader,
		matcher:   matcher,
		analyzer:  analyzer,
		validator: validation.NewUploadValidator(logger),
		metrics:   metrics,
		logger:    logger.With(slog.String("component", "market_service")),
	}
}

// Analyze resolves the query end to end: normalization, intent and window
// classification, location matching, and aggregation. The sentinel errors
// ErrEmptyQuery, ErrNoDataset and ErrNoLocationMatch report the three
// failure conditions; everything else is a successful payload.
func (s *MarketService) Analyze(ctx context.Context, area string) (*domain.AnalysisResult, error) {
	q := query.Normalize(area)
	if q == "" {
		return nil, ErrEmptyQuery
	}

	ds := s.store.Get()
	if ds == nil {
		s.logger.ErrorContext(ctx, "analyze requested with no dataset cached")
		return nil, ErrNoDataset
	}

	intent := query.Classify(q)
	window, hasWindow := query.Window(q)

	matched := s.matcher.Match(q, ds.Locations())
	if len(matched) == 0 {
		s.logger.WarnContext(ctx, "no location matched",
			slog.String("query", q))
		return nil, fmt.Errorf("%w: %q", ErrNoLocationMatch, q)
	}

	s.logger.InfoContext(ctx, "query resolved",
		slog.String("query", q),
		slog.String("intent", string(intent)),
		slog.Int("window_years", window),
		slog.Bool("windowed", hasWindow),
		slog.Any("locations", matched))

	result := s.analyzer.Run(ds, analysis.Request{
		Locations: matched,
		Intent:    intent,
		Window:    window,
		HasWindow: hasWindow,
	})

	if s.metrics != nil {
		s.metrics.AnalyzeQueries.WithLabelValues(string(intent)).Inc()
	}

	return result, nil
}

// Upload validates and parses a replacement dataset workbook, then swaps
// it into the cache. A parse failure leaves the previously cached table
// untouched.
func (s *MarketService) Upload(ctx context.Context, filename string, r io.Reader) error {
	if filename == "" || r == nil {
		return ErrMissingFile
	}
	if err := s.validator.ValidateFilename(filename); err != nil {
		return fmt.Errorf("%w: %s", ErrInvalidFileType, filepath.Ext(filename))
	}
	body, err := s.validator.ValidateContent(r)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidFileType, err)
	}

	table, err := s.loader.Load(body)
	if err != nil {
		s.logger.ErrorContext(ctx, "failed to parse uploaded dataset",
			slog.String("filename", filename),
			slog.String("error", err.Error()))
		if s.metrics != nil {
			s.metrics.UploadFailures.Inc()
		}
		return err
	}

	s.store.Replace(table)

	s.logger.InfoContext(ctx, "dataset uploaded",
		slog.String("filename", filename),
		slog.Int("rows", len(table.Rows)))

	if s.metrics != nil {
		s.metrics.Uploads.Inc()
	}
	return nil
}

// DatasetLoaded reports whether an analysis can currently be served
// without triggering a default-file load. Used by readiness checks.
func (s *MarketService) DatasetLoaded() bool {
	return s.store.Loaded()
}
