package server

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gorilla/websocket"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func dialTestWebSocket(t *testing.T) (*websocket.Conn, func()) {
	t.Helper()

	srv := newTestServer(t)
	mux := http.NewServeMux()
	srv.SetupRoutes(mux)
	ts := httptest.NewServer(mux)

	wsURL := "ws" + strings.TrimPrefix(ts.URL, "http") + "/ws"
	conn, _, err := websocket.DefaultDialer.Dial(wsURL, nil)
	require.NoError(t, err)

	return conn, func() {
		_ = conn.Close()
		ts.Close()
	}
}

func readResponse(t *testing.T, conn *websocket.Conn) WebSocketAnalyzeResponse {
	t.Helper()
	require.NoError(t, conn.SetReadDeadline(time.Now().Add(5*time.Second)))
	var resp WebSocketAnalyzeResponse
	require.NoError(t, conn.ReadJSON(&resp))
	return resp
}

func TestWebSocket_AnalyzePage(t *testing.T) {
	conn, cleanup := dialTestWebSocket(t)
	defer cleanup()

	req := `{"type": "page", "page": ` + geometryBody + `}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(req)))

	first := readResponse(t, conn)
	assert.Equal(t, "processing", first.Status)
	assert.NotEmpty(t, first.RequestID)

	final := readResponse(t, conn)
	assert.Equal(t, "completed", final.Status)
	assert.InDelta(t, 1.0, final.Progress, 1e-9)
	assert.Equal(t, first.RequestID, final.RequestID)
	require.NotNil(t, final.Result)

	// Round-trip the result to check the report payload survived.
	raw, err := json.Marshal(final.Result)
	require.NoError(t, err)
	assert.Contains(t, string(raw), "stand_pouch")
}

func TestWebSocket_AnalyzeBatchStreamsProgress(t *testing.T) {
	conn, cleanup := dialTestWebSocket(t)
	defer cleanup()

	req := `{"type": "batch", "pages": [
		{"name": "one", "page": ` + geometryBody + `},
		{"name": "two", "page": ` + geometryBody + `}
	]}`
	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(req)))

	var statuses []string
	var lastProgress float64
	for {
		resp := readResponse(t, conn)
		statuses = append(statuses, resp.Status)
		assert.GreaterOrEqual(t, resp.Progress, lastProgress)
		lastProgress = resp.Progress
		if resp.Status == "completed" {
			require.NotNil(t, resp.Result)
			break
		}
		require.Equal(t, "processing", resp.Status)
	}

	// Initial ack, one update per page, then completion.
	assert.GreaterOrEqual(t, len(statuses), 4)
}

func TestWebSocket_InvalidRequest(t *testing.T) {
	conn, cleanup := dialTestWebSocket(t)
	defer cleanup()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte("{broken")))

	resp := readResponse(t, conn)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "invalid_request", resp.ErrorType)
}

func TestWebSocket_UnsupportedType(t *testing.T) {
	conn, cleanup := dialTestWebSocket(t)
	defer cleanup()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type": "unknown"}`)))

	first := readResponse(t, conn)
	assert.Equal(t, "processing", first.Status)

	resp := readResponse(t, conn)
	assert.Equal(t, "error", resp.Status)
	assert.Contains(t, resp.Error, "Unsupported request type")
}

func TestWebSocket_MissingPage(t *testing.T) {
	conn, cleanup := dialTestWebSocket(t)
	defer cleanup()

	require.NoError(t, conn.WriteMessage(websocket.TextMessage, []byte(`{"type": "page"}`)))

	first := readResponse(t, conn)
	assert.Equal(t, "processing", first.Status)

	resp := readResponse(t, conn)
	assert.Equal(t, "error", resp.Status)
	assert.Equal(t, "invalid_request", resp.ErrorType)
}
