package services

import (
	"context"
	"log/slog"
	"runtime"
	"time"

	"estatepulse/pkg/contracts"
)

// DatasetChecker reports whether a dataset is available for analysis.
type DatasetChecker interface {
	DatasetLoaded() bool
}

// HealthService provides health check functionality
type HealthService struct {
	version   string
	buildTime string
	datasets  DatasetChecker
	startTime time.Time
	logger    *slog.Logger
}

// HealthStatus represents the health status response
type HealthStatus struct {
	Status    string                 `json:"status"`
	Timestamp time.Time              `json:"timestamp"`
	Version   string                 `json:"version"`
	Runtime   map[string]interface{} `json:"runtime,omitempty"`
	Services  map[string]interface{} `json:"services,omitempty"`
}

// NewHealthService creates a new health service with injected dependencies
func NewHealthService(datasets DatasetChecker, logger *slog.Logger) *HealthService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HealthService{
		version:   contracts.Version,
		buildTime: contracts.BuildTime,
		datasets:  datasets,
		startTime: time.Now(),
		logger:    logger.With(slog.String("component", "health_service")),
	}
}

// Check returns the overall health status of the application
func (s *HealthService) Check(ctx context.Context) HealthStatus {
	datasetStatus := "empty"
	if s.datasets != nil && s.datasets.DatasetLoaded() {
		datasetStatus = "loaded"
	}

	return HealthStatus{
		Status:    "healthy",
		Timestamp: time.Now(),
		Version:   s.version,
		Runtime: map[string]interface{}{
			"go_version":     runtime.Version(),
			"os":             runtime.GOOS,
			"arch":           runtime.GOARCH,
			"goroutines":     runtime.NumGoroutine(),
			"uptime_seconds": time.Since(s.startTime).Seconds(),
		},
		Services: map[string]interface{}{
			"dataset": datasetStatus,
		},
	}
}

// Ready reports whether the service can answer analyze requests right
// now. The process is still "live" without a dataset; it is just not
// ready to analyze.
func (s *HealthService) Ready(ctx context.Context) bool {
	return s.datasets != nil && s.datasets.DatasetLoaded()
}

// Version returns the detailed build version information
func (s *HealthService) Version(ctx context.Context) contracts.VersionInfo {
	return contracts.GetVersionInfo()
}
