package infrastructure

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the application's Prometheus instruments.
type Metrics struct {
	registry *prometheus.Registry

	// AnalyzeQueries counts analysis requests by resolved intent.
	AnalyzeQueries *prometheus.CounterVec
	// Uploads counts successful dataset uploads.
	Uploads prometheus.Counter
	// UploadFailures counts uploads rejected at parse time.
	UploadFailures prometheus.Counter
	// RequestDuration observes HTTP request latency by route and status.
	RequestDuration *prometheus.HistogramVec
}

// NewMetrics creates and registers the application instruments on a
// dedicated registry, so tests can create isolated instances.
func NewMetrics() *Metrics {
	registry := prometheus.NewRegistry()
	factory := promauto.With(registry)

	return &Metrics{
		registry: registry,
		AnalyzeQueries: factory.NewCounterVec(prometheus.CounterOpts{
			Namespace: "estatepulse",
			Name:      "analyze_queries_total",
			Help:      "Number of analysis queries served, by resolved intent.",
		}, []string{"intent"}),
		Uploads: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "estatepulse",
			Name:      "dataset_uploads_total",
			Help:      "Number of successful dataset uploads.",
		}),
		UploadFailures: factory.NewCounter(prometheus.CounterOpts{
			Namespace: "estatepulse",
			Name:      "dataset_upload_failures_total",
			Help:      "Number of dataset uploads rejected at parse time.",
		}),
		RequestDuration: factory.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "estatepulse",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request latency by route and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "status"}),
	}
}

// Handler returns the HTTP handler serving this registry's metrics.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
