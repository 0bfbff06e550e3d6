package server

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCORSMiddleware(t *testing.T) {
	srv := newTestServer(t)

	handler := srv.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
	assert.Contains(t, w.Header().Get("Access-Control-Allow-Methods"), "POST")
	assert.Equal(t, "86400", w.Header().Get("Access-Control-Max-Age"))
}

func TestCORSMiddleware_Preflight(t *testing.T) {
	srv := newTestServer(t)

	called := false
	handler := srv.corsMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodOptions, "/analyze", nil)
	w := httptest.NewRecorder()
	handler(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.False(t, called, "preflight must not reach the handler")
}

func TestRateLimitMiddleware_Disabled(t *testing.T) {
	srv := newTestServer(t) // no limits configured, limiter is nil

	called := false
	handler := srv.rateLimitMiddleware(func(w http.ResponseWriter, r *http.Request) {
		called = true
	})

	req := httptest.NewRequest(http.MethodPost, "/analyze", nil)
	w := httptest.NewRecorder()
	handler(w, req)
	assert.True(t, called)
}

func TestRateLimitMiddleware_Enforced(t *testing.T) {
	srv := newTestServer(t)
	srv.rateLimiter = NewRateLimiter(1, 0, 0, 0)

	handler := srv.rateLimitMiddleware(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodPost, "/analyze", strings.NewReader("x"))
	req.RemoteAddr = "10.0.0.1:1234"
	w := httptest.NewRecorder()
	handler(w, req)
	require.Equal(t, http.StatusOK, w.Code)

	w = httptest.NewRecorder()
	handler(w, req)
	assert.Equal(t, http.StatusTooManyRequests, w.Code)
	assert.Equal(t, "minute", w.Header().Get("X-RateLimit-Type"))
	assert.NotEmpty(t, w.Header().Get("Retry-After"))
	assert.Contains(t, w.Body.String(), "rate_limit_exceeded")
}

func TestGetClientIP(t *testing.T) {
	tests := []struct {
		name       string
		remoteAddr string
		headers    map[string]string
		want       string
	}{
		{"remote addr", "192.168.1.10:5000", nil, "192.168.1.10"},
		{"x-forwarded-for single", "10.0.0.1:80",
			map[string]string{"X-Forwarded-For": "203.0.113.5"}, "203.0.113.5"},
		{"x-forwarded-for chain", "10.0.0.1:80",
			map[string]string{"X-Forwarded-For": "203.0.113.5, 70.41.3.18"}, "203.0.113.5"},
		{"x-real-ip", "10.0.0.1:80",
			map[string]string{"X-Real-IP": "198.51.100.7"}, "198.51.100.7"},
		{"forwarded-for wins over real-ip", "10.0.0.1:80",
			map[string]string{"X-Forwarded-For": "203.0.113.5", "X-Real-IP": "198.51.100.7"}, "203.0.113.5"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			req := httptest.NewRequest(http.MethodGet, "/", nil)
			req.RemoteAddr = tt.remoteAddr
			for k, v := range tt.headers {
				req.Header.Set(k, v)
			}
			assert.Equal(t, tt.want, getClientIP(req))
		})
	}
}
