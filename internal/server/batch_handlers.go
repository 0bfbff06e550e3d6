package server

import (
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"time"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
	"github.com/MeKo-Tech/fukuro/internal/pipeline"
)

// BatchAnalyzeRequest represents a batch analysis request of pre-extracted
// page geometries.
type BatchAnalyzeRequest struct {
	Pages []BatchPageRequest `json:"pages"`
}

// BatchPageRequest is a single named page in a batch request.
type BatchPageRequest struct {
	Name string        `json:"name"`
	Page geometry.Page `json:"page"`
}

// BatchAnalyzeResponse represents the response for batch analysis.
type BatchAnalyzeResponse struct {
	Success bool                   `json:"success"`
	Results []BatchAnalyzeResult   `json:"results,omitempty"`
	Error   string                 `json:"error,omitempty"`
	Summary BatchProcessingSummary `json:"summary"`
}

// BatchAnalyzeResult represents a single result in batch processing.
type BatchAnalyzeResult struct {
	Name    string           `json:"name"`
	Success bool             `json:"success"`
	Report  *pipeline.Report `json:"report,omitempty"`
	Error   string           `json:"error,omitempty"`
}

// BatchProcessingSummary provides summary statistics for batch processing.
type BatchProcessingSummary struct {
	TotalItems    int     `json:"total_items"`
	Successful    int     `json:"successful"`
	Failed        int     `json:"failed"`
	TotalDuration float64 `json:"total_duration_seconds"`
	AvgItemTime   float64 `json:"avg_item_time_seconds"`
}

// analyzeBatchHandler processes batch analysis requests.
func (s *Server) analyzeBatchHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	var req BatchAnalyzeRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Failed to parse JSON request: %v", err), http.StatusBadRequest)
		return
	}

	if len(req.Pages) == 0 {
		s.writeErrorResponse(w, "No pages provided in batch request", http.StatusBadRequest)
		return
	}
	if s.pipeline == nil {
		s.writeErrorResponse(w, "Analysis pipeline not initialized", http.StatusServiceUnavailable)
		return
	}

	pages := make([]geometry.Page, len(req.Pages))
	for i, p := range req.Pages {
		pages[i] = p.Page
	}

	errorsByIndex := make(map[int]string)
	start := time.Now()
	reports, err := s.pipeline.AnalyzePages(pages, pipeline.ParallelConfig{
		ErrorHandler: func(index int, err error) {
			errorsByIndex[index] = err.Error()
		},
	})
	duration := time.Since(start)

	if err != nil {
		analysisRequestsTotal.WithLabelValues("batch", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Batch analysis failed: %v", err), http.StatusInternalServerError)
		return
	}

	results := make([]BatchAnalyzeResult, len(reports))
	successful := 0
	for i, report := range reports {
		res := BatchAnalyzeResult{Name: req.Pages[i].Name}
		if report != nil {
			res.Success = true
			res.Report = report
			successful++
			observeReport("batch", report)
		} else {
			res.Error = errorsByIndex[i]
		}
		results[i] = res
	}

	analysisRequestsTotal.WithLabelValues("batch", "success").Inc()
	analysisDuration.WithLabelValues("batch").Observe(duration.Seconds())

	avg := 0.0
	if successful > 0 {
		avg = duration.Seconds() / float64(successful)
	}

	response := BatchAnalyzeResponse{
		Success: true,
		Results: results,
		Summary: BatchProcessingSummary{
			TotalItems:    len(req.Pages),
			Successful:    successful,
			Failed:        len(req.Pages) - successful,
			TotalDuration: duration.Seconds(),
			AvgItemTime:   avg,
		},
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding batch response: %v\n", err)
	}
}
