package server

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/MeKo-Tech/fukuro/internal/aifile"
	"github.com/MeKo-Tech/fukuro/internal/geometry"
	"github.com/MeKo-Tech/fukuro/internal/mempool"
	"github.com/MeKo-Tech/fukuro/internal/version"
)

const formatText = "text"

// healthHandler returns server health status.
func (s *Server) healthHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	response := HealthResponse{
		Status:  "healthy",
		Version: version.Version,
		Time:    time.Now().UTC().Format(time.RFC3339),
	}

	w.Header().Set("Content-Type", "application/json")
	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error encoding health response: %v\n", err)
	}
}

// analyzeHandler accepts a multipart design-file upload and returns the
// extracted specification with its confidence score.
func (s *Server) analyzeHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	if err := r.ParseMultipartForm(s.maxUploadMB * 1024 * 1024); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "too large") {
			s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		} else {
			s.writeErrorResponse(w, "Failed to parse form data", http.StatusBadRequest)
		}
		return
	}

	file, header, err := r.FormFile("file")
	if err != nil {
		s.writeErrorResponse(w, "No design file provided", http.StatusBadRequest)
		return
	}
	defer func() { _ = file.Close() }()

	if header.Size > s.maxUploadMB*1024*1024 {
		s.writeErrorResponse(w, "File too large", http.StatusRequestEntityTooLarge)
		return
	}
	uploadSizeBytes.Observe(float64(header.Size))

	buf := mempool.GetBytes(int(header.Size))
	defer mempool.PutBytes(buf)
	if _, err := io.ReadFull(file, buf); err != nil {
		s.writeErrorResponse(w, "Failed to read file data", http.StatusInternalServerError)
		return
	}

	if res := aifile.ValidateBuffer(buf, header.Filename, aifile.Options{MaxSize: s.maxUploadMB * 1024 * 1024}); !res.Valid {
		s.writeErrorResponse(w, "Invalid design file: "+res.Errors[0], http.StatusBadRequest)
		return
	}

	// The PDF loaders work on paths, so spool the upload to a temp file.
	tmp, err := os.CreateTemp("", "fukuro-upload-*"+filepath.Ext(header.Filename))
	if err != nil {
		s.writeErrorResponse(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	defer func() { _ = os.Remove(tmp.Name()) }()
	if _, err := tmp.Write(buf); err != nil {
		_ = tmp.Close()
		s.writeErrorResponse(w, "Failed to store upload", http.StatusInternalServerError)
		return
	}
	_ = tmp.Close()

	page, err := aifile.LoadPage(tmp.Name())
	if err != nil {
		analysisRequestsTotal.WithLabelValues("file", "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Failed to load design file: %v", err), http.StatusBadRequest)
		return
	}

	s.runAnalysis(w, r, *page, "file")
}

// analyzeGeometryHandler accepts a JSON page geometry body directly,
// bypassing PDF parsing. This is the path used by upstream vector
// extractors that already hold path and text data.
func (s *Server) analyzeGeometryHandler(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	r.Body = http.MaxBytesReader(w, r.Body, s.maxUploadMB*1024*1024)

	var page geometry.Page
	if err := json.NewDecoder(r.Body).Decode(&page); err != nil {
		s.writeErrorResponse(w, fmt.Sprintf("Invalid geometry payload: %v", err), http.StatusBadRequest)
		return
	}

	s.runAnalysis(w, r, page, "geometry")
}

// runAnalysis executes the pipeline on a page and writes the response in
// the requested format.
func (s *Server) runAnalysis(w http.ResponseWriter, r *http.Request, page geometry.Page, kind string) {
	if s.pipeline == nil {
		s.writeErrorResponse(w, "Analysis pipeline not initialized", http.StatusServiceUnavailable)
		return
	}

	start := time.Now()
	report, err := s.pipeline.Analyze(page)
	duration := time.Since(start)

	if err != nil {
		analysisRequestsTotal.WithLabelValues(kind, "error").Inc()
		s.writeErrorResponse(w, fmt.Sprintf("Analysis failed: %v", err), http.StatusUnprocessableEntity)
		return
	}

	analysisRequestsTotal.WithLabelValues(kind, "success").Inc()
	analysisDuration.WithLabelValues(kind).Observe(duration.Seconds())
	observeReport(kind, report)

	format := r.FormValue("format")
	if format == "" {
		format = r.URL.Query().Get("format")
	}

	switch format {
	case formatText:
		w.Header().Set("Content-Type", "text/plain; charset=utf-8")
		_, _ = w.Write([]byte(report.Summary()))
	case "yaml":
		out, err := report.ToYAML()
		if err != nil {
			s.writeErrorResponse(w, fmt.Sprintf("Formatting failed: %v", err), http.StatusInternalServerError)
			return
		}
		w.Header().Set("Content-Type", "application/yaml")
		_, _ = w.Write(out)
	default: // json
		w.Header().Set("Content-Type", "application/json")
		resp := AnalyzeResponse{Success: true, Report: report}
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			fmt.Fprintf(os.Stderr, "Error encoding analysis response: %v\n", err)
		}
	}
}

// writeErrorResponse writes a JSON error response.
func (s *Server) writeErrorResponse(w http.ResponseWriter, message string, statusCode int) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	response := AnalyzeResponse{
		Success: false,
		Error:   message,
	}

	if err := json.NewEncoder(w).Encode(response); err != nil {
		fmt.Fprintf(os.Stderr, "Error writing error response: %v\n", err)
	}
}
