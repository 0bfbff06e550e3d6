// Package server exposes the analysis pipeline over HTTP and WebSocket.
package server

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
	"github.com/MeKo-Tech/fukuro/internal/pipeline"
)

// pipelineInterface defines the methods needed by the server from a pipeline.
type pipelineInterface interface {
	Analyze(page geometry.Page) (*pipeline.Report, error)
	AnalyzePages(pages []geometry.Page, cfg pipeline.ParallelConfig) ([]*pipeline.Report, error)
}

// Server holds the HTTP server state and dependencies.
type Server struct {
	pipeline    pipelineInterface
	corsOrigin  string
	maxUploadMB int64
	timeoutSec  int
	rateLimiter *RateLimiter
}

// Config holds server configuration.
type Config struct {
	Host           string
	Port           int
	CORSOrigin     string
	MaxUploadMB    int64
	TimeoutSec     int
	PipelineConfig pipeline.Config

	// Rate limiting, all zero values disable the corresponding limit.
	RequestsPerMinute int
	RequestsPerHour   int
	MaxRequestsPerDay int
	MaxDataPerDay     int64
}

// HealthResponse is the /health payload.
type HealthResponse struct {
	Status  string `json:"status"`
	Version string `json:"version,omitempty"`
	Time    string `json:"time"`
}

// AnalyzeResponse wraps a single analysis result.
type AnalyzeResponse struct {
	Success bool             `json:"success"`
	Report  *pipeline.Report `json:"report,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// NewServer creates a new analysis server instance.
func NewServer(config Config) (*Server, error) {
	pl, err := pipeline.NewBuilder().
		WithConfig(config.PipelineConfig).
		Build()
	if err != nil {
		return nil, err
	}

	var limiter *RateLimiter
	if config.RequestsPerMinute > 0 || config.RequestsPerHour > 0 ||
		config.MaxRequestsPerDay > 0 || config.MaxDataPerDay > 0 {
		limiter = NewRateLimiter(config.RequestsPerMinute, config.RequestsPerHour,
			config.MaxRequestsPerDay, config.MaxDataPerDay)
	}

	return &Server{
		pipeline:    pl,
		corsOrigin:  config.CORSOrigin,
		maxUploadMB: config.MaxUploadMB,
		timeoutSec:  config.TimeoutSec,
		rateLimiter: limiter,
	}, nil
}

// SetupRoutes configures the HTTP routes.
func (s *Server) SetupRoutes(mux *http.ServeMux) {
	mux.HandleFunc("/health", s.corsMiddleware(s.healthHandler))
	mux.HandleFunc("/analyze", s.corsMiddleware(s.rateLimitMiddleware(s.analyzeHandler)))
	mux.HandleFunc("/analyze/geometry", s.corsMiddleware(s.rateLimitMiddleware(s.analyzeGeometryHandler)))
	mux.HandleFunc("/analyze/batch", s.corsMiddleware(s.rateLimitMiddleware(s.analyzeBatchHandler)))
	mux.HandleFunc("/ws", s.analyzeWebSocketHandler)
	mux.Handle("/metrics", promhttp.Handler())
}
