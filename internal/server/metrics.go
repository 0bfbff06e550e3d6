package server

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/MeKo-Tech/fukuro/internal/pipeline"
)

var (
	// HTTP request metrics
	httpRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fukuro_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "endpoint", "status"},
	)

	httpRequestDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fukuro_http_request_duration_seconds",
			Help:    "HTTP request duration in seconds",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "endpoint"},
	)

	// Analysis metrics
	analysisRequestsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fukuro_analysis_requests_total",
			Help: "Total number of analysis requests",
		},
		[]string{"type", "status"}, // type: file, geometry, batch, websocket
	)

	analysisDuration = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fukuro_analysis_duration_seconds",
			Help:    "Design-file analysis duration in seconds",
			Buckets: []float64{.01, .025, .05, .1, .25, .5, 1, 2.5, 5, 10},
		},
		[]string{"type"},
	)

	analysisConfidence = promauto.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "fukuro_analysis_confidence",
			Help:    "Overall confidence score of analysis results",
			Buckets: []float64{0, 10, 20, 30, 40, 50, 60, 70, 80, 90, 100},
		},
		[]string{"type"},
	)

	analysisFlagsTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fukuro_analysis_flags_total",
			Help: "Validation flags raised by analysis results",
		},
		[]string{"flag_type", "field"},
	)

	// Rate limiting metrics
	rateLimitHits = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fukuro_rate_limit_hits_total",
			Help: "Total number of rate limit hits",
		},
		[]string{"type"},
	)

	// File upload metrics
	uploadSizeBytes = promauto.NewHistogram(
		prometheus.HistogramOpts{
			Name:    "fukuro_upload_size_bytes",
			Help:    "Size of uploaded design files in bytes",
			Buckets: []float64{1024, 10 * 1024, 100 * 1024, 1024 * 1024, 10 * 1024 * 1024, 50 * 1024 * 1024, 100 * 1024 * 1024},
		},
	)

	// WebSocket metrics
	websocketConnections = promauto.NewGauge(
		prometheus.GaugeOpts{
			Name: "fukuro_websocket_active_connections",
			Help: "Number of active WebSocket connections",
		},
	)

	websocketMessagesTotal = promauto.NewCounterVec(
		prometheus.CounterOpts{
			Name: "fukuro_websocket_messages_total",
			Help: "Total number of WebSocket messages",
		},
		[]string{"direction"}, // direction: sent, received
	)
)

// observeReport records per-report metrics shared by all entry points.
func observeReport(kind string, report *pipeline.Report) {
	if report == nil {
		return
	}
	analysisConfidence.WithLabelValues(kind).Observe(report.Confidence.Overall)
	for _, f := range report.Confidence.Flags {
		analysisFlagsTotal.WithLabelValues(string(f.Type), f.Field).Inc()
	}
}
