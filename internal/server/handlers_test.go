package server

import (
	"bytes"
	"encoding/json"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MeKo-Tech/fukuro/internal/pipeline"
)

func newTestServer(t *testing.T) *Server {
	t.Helper()
	srv, err := NewServer(Config{
		CORSOrigin:     "*",
		MaxUploadMB:    10,
		TimeoutSec:     5,
		PipelineConfig: pipeline.DefaultConfig(),
	})
	require.NoError(t, err)
	return srv
}

const geometryBody = `{
  "paths": [
    {"d": "M0 0 L283.46 0 L283.46 425.2 L0 425.2 Z", "stroke": "#ff0000",
     "box": {"x": 0, "y": 0, "width": 283.46, "height": 425.2}}
  ],
  "texts": [{"content": "スタンドパウチ W100×H150", "position": {"x": 10, "y": 20}}]
}`

func TestHealthHandler(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	srv.healthHandler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "healthy", resp.Status)
	assert.NotEmpty(t, resp.Time)
}

func TestHealthHandler_MethodNotAllowed(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/health", nil)
	w := httptest.NewRecorder()
	srv.healthHandler(w, req)

	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestAnalyzeGeometryHandler(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/analyze/geometry", strings.NewReader(geometryBody))
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	srv.analyzeGeometryHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.NotNil(t, resp.Report)
	assert.Equal(t, "stand_pouch", string(resp.Report.Specs.Dimensions.EnvelopeType))
	assert.InDelta(t, 100.0, resp.Report.Specs.Dimensions.Width, 0.01)
}

func TestAnalyzeGeometryHandler_TextFormat(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/analyze/geometry?format=text", strings.NewReader(geometryBody))
	w := httptest.NewRecorder()
	srv.analyzeGeometryHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Header().Get("Content-Type"), "text/plain")
	assert.Contains(t, w.Body.String(), "stand_pouch")
}

func TestAnalyzeGeometryHandler_InvalidJSON(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/analyze/geometry", strings.NewReader("{broken"))
	w := httptest.NewRecorder()
	srv.analyzeGeometryHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)

	var resp AnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.False(t, resp.Success)
	assert.NotEmpty(t, resp.Error)
}

func TestAnalyzeGeometryHandler_NoOutline(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/analyze/geometry",
		strings.NewReader(`{"paths":[],"texts":[]}`))
	w := httptest.NewRecorder()
	srv.analyzeGeometryHandler(w, req)

	assert.Equal(t, http.StatusUnprocessableEntity, w.Code)
}

func TestAnalyzeHandler_RejectsInvalidUpload(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	part, err := mw.CreateFormFile("file", "design.ai")
	require.NoError(t, err)
	_, err = part.Write([]byte("not a design file at all"))
	require.NoError(t, err)
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.analyzeHandler(w, req)

	// An unparseable PDF fails at load, not validation (the header check
	// only warns), so the request is rejected as a bad design file.
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeHandler_NoFile(t *testing.T) {
	srv := newTestServer(t)

	var body bytes.Buffer
	mw := multipart.NewWriter(&body)
	require.NoError(t, mw.WriteField("other", "value"))
	require.NoError(t, mw.Close())

	req := httptest.NewRequest(http.MethodPost, "/analyze", &body)
	req.Header.Set("Content-Type", mw.FormDataContentType())
	w := httptest.NewRecorder()
	srv.analyzeHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestAnalyzeBatchHandler(t *testing.T) {
	srv := newTestServer(t)

	reqBody := `{"pages": [
		{"name": "good", "page": ` + geometryBody + `},
		{"name": "empty", "page": {"paths": [], "texts": []}}
	]}`

	req := httptest.NewRequest(http.MethodPost, "/analyze/batch", strings.NewReader(reqBody))
	w := httptest.NewRecorder()
	srv.analyzeBatchHandler(w, req)

	require.Equal(t, http.StatusOK, w.Code)

	var resp BatchAnalyzeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.True(t, resp.Success)
	require.Len(t, resp.Results, 2)

	assert.Equal(t, "good", resp.Results[0].Name)
	assert.True(t, resp.Results[0].Success)
	require.NotNil(t, resp.Results[0].Report)

	assert.Equal(t, "empty", resp.Results[1].Name)
	assert.False(t, resp.Results[1].Success)
	assert.NotEmpty(t, resp.Results[1].Error)

	assert.Equal(t, 2, resp.Summary.TotalItems)
	assert.Equal(t, 1, resp.Summary.Successful)
	assert.Equal(t, 1, resp.Summary.Failed)
}

func TestAnalyzeBatchHandler_EmptyRequest(t *testing.T) {
	srv := newTestServer(t)

	req := httptest.NewRequest(http.MethodPost, "/analyze/batch", strings.NewReader(`{"pages": []}`))
	w := httptest.NewRecorder()
	srv.analyzeBatchHandler(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestSetupRoutes(t *testing.T) {
	srv := newTestServer(t)
	mux := http.NewServeMux()
	srv.SetupRoutes(mux)

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)

	req = httptest.NewRequest(http.MethodGet, "/metrics", nil)
	w = httptest.NewRecorder()
	mux.ServeHTTP(w, req)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_")
}
