package server

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"strconv"
	"time"

	"github.com/gorilla/websocket"

	"github.com/MeKo-Tech/fukuro/internal/geometry"
	"github.com/MeKo-Tech/fukuro/internal/pipeline"
)

// WebSocket upgrader with reasonable defaults.
var upgrader = websocket.Upgrader{
	ReadBufferSize:  1024,
	WriteBufferSize: 1024,
	CheckOrigin: func(r *http.Request) bool {
		// Allow connections from any origin in development
		// In production, you should check against allowed origins
		return true
	},
}

// WebSocketAnalyzeRequest represents an analysis request via WebSocket.
// A single page request carries Page; a batch request carries Pages.
type WebSocketAnalyzeRequest struct {
	Type  string             `json:"type"` // "page" or "batch"
	Page  *geometry.Page     `json:"page,omitempty"`
	Pages []BatchPageRequest `json:"pages,omitempty"`
}

// WebSocketConnWriter is an interface for writing WebSocket messages.
type WebSocketConnWriter interface {
	WriteMessage(messageType int, data []byte) error
}

// WebSocketAnalyzeResponse represents an analysis response via WebSocket.
type WebSocketAnalyzeResponse struct {
	Type      string      `json:"type"`
	Status    string      `json:"status"` // "processing", "completed", "error"
	Progress  float64     `json:"progress,omitempty"`
	Result    interface{} `json:"result,omitempty"`
	Error     string      `json:"error,omitempty"`
	ErrorType string      `json:"error_type,omitempty"`
	RequestID string      `json:"request_id,omitempty"`
}

// analyzeWebSocketHandler handles WebSocket connections for streaming
// analysis with progress updates.
func (s *Server) analyzeWebSocketHandler(w http.ResponseWriter, r *http.Request) {
	conn, err := upgrader.Upgrade(w, r, nil)
	if err != nil {
		slog.Error("Failed to upgrade connection to WebSocket", "error", err)
		return
	}
	defer func() {
		_ = conn.Close()
	}()

	websocketConnections.Inc()
	defer websocketConnections.Dec()

	slog.Info("WebSocket connection established", "remote_addr", r.RemoteAddr)

	s.handleWebSocketConnection(conn)
}

// handleWebSocketConnection processes messages from a WebSocket connection.
func (s *Server) handleWebSocketConnection(conn *websocket.Conn) {
	// Set read deadline to prevent hanging connections
	_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
	conn.SetPongHandler(func(string) error {
		_ = conn.SetReadDeadline(time.Now().Add(60 * time.Second))
		return nil
	})

	// Send ping messages to keep connection alive
	go func() {
		ticker := time.NewTicker(30 * time.Second)
		defer ticker.Stop()
		for range ticker.C {
			if err := conn.WriteControl(websocket.PingMessage, []byte{}, time.Now().Add(10*time.Second)); err != nil {
				return
			}
		}
	}()

	for {
		messageType, data, err := conn.ReadMessage()
		if err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseAbnormalClosure) {
				slog.Error("WebSocket error", "error", err)
			}
			break
		}

		websocketMessagesTotal.WithLabelValues("received").Inc()

		if messageType == websocket.TextMessage {
			s.handleWebSocketMessage(conn, data)
		}
	}
}

// handleWebSocketMessage processes a WebSocket message.
func (s *Server) handleWebSocketMessage(conn *websocket.Conn, data []byte) {
	var req WebSocketAnalyzeRequest
	if err := json.Unmarshal(data, &req); err != nil {
		s.sendWebSocketError(conn, "invalid_request", fmt.Sprintf("Failed to parse request: %v", err))
		return
	}

	requestID := strconv.FormatInt(time.Now().UnixNano(), 10)

	s.sendWebSocketResponse(conn, WebSocketAnalyzeResponse{
		Type:      "analyze_response",
		Status:    "processing",
		Progress:  0.0,
		RequestID: requestID,
	})

	switch req.Type {
	case "page":
		s.processWebSocketPage(conn, req, requestID)
	case "batch":
		s.processWebSocketBatch(conn, req, requestID)
	default:
		s.sendWebSocketError(conn, "invalid_request", "Unsupported request type: "+req.Type)
	}
}

// processWebSocketPage analyzes a single page geometry via WebSocket.
func (s *Server) processWebSocketPage(conn *websocket.Conn, req WebSocketAnalyzeRequest, requestID string) {
	if req.Page == nil {
		s.sendWebSocketError(conn, "invalid_request", "No page geometry provided")
		return
	}

	start := time.Now()
	report, err := s.pipeline.Analyze(*req.Page)
	duration := time.Since(start)

	if err != nil {
		analysisRequestsTotal.WithLabelValues("websocket", "error").Inc()
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Analysis failed: %v", err))
		return
	}

	analysisRequestsTotal.WithLabelValues("websocket", "success").Inc()
	analysisDuration.WithLabelValues("websocket").Observe(duration.Seconds())
	observeReport("websocket", report)

	s.sendWebSocketResponse(conn, WebSocketAnalyzeResponse{
		Type:      "analyze_response",
		Status:    "completed",
		Progress:  1.0,
		Result:    report,
		RequestID: requestID,
	})
}

// wsProgress streams per-page progress updates back to the client.
type wsProgress struct {
	server    *Server
	conn      *websocket.Conn
	requestID string
	total     int
}

func (p *wsProgress) OnStart(total int) { p.total = total }

func (p *wsProgress) OnProgress(completed int) {
	p.server.sendWebSocketResponse(p.conn, WebSocketAnalyzeResponse{
		Type:      "analyze_response",
		Status:    "processing",
		Progress:  float64(completed) / float64(p.total),
		RequestID: p.requestID,
	})
}

func (p *wsProgress) OnComplete() {}

// processWebSocketBatch analyzes multiple pages, streaming progress.
func (s *Server) processWebSocketBatch(conn *websocket.Conn, req WebSocketAnalyzeRequest, requestID string) {
	if len(req.Pages) == 0 {
		s.sendWebSocketError(conn, "invalid_request", "No pages provided")
		return
	}

	pages := make([]geometry.Page, len(req.Pages))
	for i, p := range req.Pages {
		pages[i] = p.Page
	}

	errorsByIndex := make(map[int]string)
	start := time.Now()
	reports, err := s.pipeline.AnalyzePages(pages, pipeline.ParallelConfig{
		// Single worker keeps progress messages ordered on the shared conn.
		MaxWorkers: 1,
		Progress:   &wsProgress{server: s, conn: conn, requestID: requestID},
		ErrorHandler: func(index int, err error) {
			errorsByIndex[index] = err.Error()
		},
	})
	duration := time.Since(start)

	if err != nil {
		analysisRequestsTotal.WithLabelValues("websocket", "error").Inc()
		s.sendWebSocketError(conn, "processing_error", fmt.Sprintf("Batch analysis failed: %v", err))
		return
	}

	results := make([]BatchAnalyzeResult, len(reports))
	for i, report := range reports {
		res := BatchAnalyzeResult{Name: req.Pages[i].Name}
		if report != nil {
			res.Success = true
			res.Report = report
			observeReport("websocket", report)
		} else {
			res.Error = errorsByIndex[i]
		}
		results[i] = res
	}

	analysisRequestsTotal.WithLabelValues("websocket", "success").Inc()
	analysisDuration.WithLabelValues("websocket").Observe(duration.Seconds())

	s.sendWebSocketResponse(conn, WebSocketAnalyzeResponse{
		Type:      "analyze_response",
		Status:    "completed",
		Progress:  1.0,
		Result:    results,
		RequestID: requestID,
	})
}

// sendWebSocketResponse sends a response message over WebSocket.
func (s *Server) sendWebSocketResponse(conn WebSocketConnWriter, response WebSocketAnalyzeResponse) {
	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}

// sendWebSocketError sends an error message over WebSocket.
func (s *Server) sendWebSocketError(conn WebSocketConnWriter, errorType, message string) {
	response := WebSocketAnalyzeResponse{
		Type:      "error",
		Status:    "error",
		Error:     message,
		ErrorType: errorType,
	}

	data, err := json.Marshal(response)
	if err != nil {
		slog.Error("Failed to marshal WebSocket error response", "error", err)
		return
	}

	if err := conn.WriteMessage(websocket.TextMessage, data); err != nil {
		slog.Error("Failed to send WebSocket error message", "error", err)
		return
	}

	websocketMessagesTotal.WithLabelValues("sent").Inc()
}
