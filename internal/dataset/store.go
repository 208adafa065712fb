package dataset

import (
	"log/slog"
	"os"
	"sync"
)

// Store owns the single process-wide cached dataset. Analyze requests read
// through Get, uploads replace the table with Replace; both go through one
// RWMutex so a replacement is atomic from a reader's perspective and the
// memoized default-file load can never be observed alongside a newer
// uploaded table.
type Store struct {
	mu     sync.RWMutex
	table  *Dataset
	tried  bool
	loader *Loader
	path   string
	logger *slog.Logger
}

// NewStore creates a dataset store. path is the optional default workbook
// loaded lazily on first Get; an empty or missing path means the cache
// starts empty and only an upload can populate it.
func NewStore(loader *Loader, path string, logger *slog.Logger) *Store {
	if logger == nil {
		logger = slog.Default()
	}
	return &Store{
		loader: loader,
		path:   path,
		logger: logger.With(slog.String("component", "dataset_store")),
	}
}

// Get returns the cached dataset, loading the default workbook on first
// use. It returns nil when no dataset is available; the load is attempted
// at most once between replacements.
func (s *Store) Get() *Dataset {
	s.mu.RLock()
	if s.table != nil || s.tried {
		table := s.table
		s.mu.RUnlock()
		return table
	}
	s.mu.RUnlock()

	s.mu.Lock()
	defer s.mu.Unlock()
	if s.table != nil || s.tried {
		return s.table
	}
	s.tried = true

	if s.path == "" {
		return nil
	}
	if _, err := os.Stat(s.path); err != nil {
		s.logger.Warn("default dataset not found",
			slog.String("path", s.path))
		return nil
	}

	table, err := s.loader.LoadFile(s.path)
	if err != nil {
		s.logger.Error("failed to load default dataset",
			slog.String("path", s.path),
			slog.String("error", err.Error()))
		return nil
	}
	s.table = table
	return s.table
}

// Replace swaps in a newly uploaded dataset. The swap also invalidates the
// memoized default load so subsequent Gets see the new table only.
func (s *Store) Replace(table *Dataset) {
	s.mu.Lock()
	s.table = table
	s.tried = true
	s.mu.Unlock()

	s.logger.Info("dataset replaced",
		slog.Int("rows", len(table.Rows)),
		slog.Int("columns", len(table.Columns)))
}

// Invalidate drops the cached table and re-arms the default-file load.
func (s *Store) Invalidate() {
	s.mu.Lock()
	s.table = nil
	s.tried = false
	s.mu.Unlock()
}

// Loaded reports whether a dataset is currently cached without triggering
// a default-file load. Used by readiness checks.
func (s *Store) Loaded() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.table != nil
}
