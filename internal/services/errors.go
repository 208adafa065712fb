package services

import "errors"

// Market service errors
var (
	// Analyze errors
	ErrEmptyQuery      = errors.New("empty query")
	ErrNoDataset       = errors.New("no dataset available")
	ErrNoLocationMatch = errors.New("no matching location found")

	// Upload errors
	ErrMissingFile     = errors.New("no file provided")
	ErrInvalidFileType = errors.New("invalid file type")

	// General errors
	ErrServiceUnavailable = errors.New("service temporarily unavailable")
)
