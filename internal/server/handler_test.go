package server

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type stubResponder struct {
	reply string
	err   error
	got   string
}

func (s *stubResponder) Respond(ctx context.Context, text string) (string, error) {
	s.got = text
	return s.reply, s.err
}

var fixedNow = time.Date(2025, 10, 16, 14, 32, 15, 0, time.UTC)

func setupRouter(responder Responder, opts ...HandlerOption) *gin.Engine {
	gin.SetMode(gin.TestMode)
	router := gin.New()
	opts = append([]HandlerOption{WithClock(func() time.Time { return fixedNow })}, opts...)
	NewHandler(responder, nil, opts...).RegisterRoutes(router)
	return router
}

func postMessage(router http.Handler, path string, body any) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		_ = json.NewEncoder(&buf).Encode(b)
	}
	req := httptest.NewRequest(http.MethodPost, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	router.ServeHTTP(w, req)
	return w
}

func TestHandleHealth(t *testing.T) {
	router := setupRouter(&stubResponder{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))

	require.Equal(t, http.StatusOK, w.Code)
	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "healthy", body["status"])
	assert.Equal(t, ServiceName, body["service"])
	assert.Equal(t, "2025-10-16T14:32:15Z", body["timestamp"])
}

func TestHandleMessage_Success(t *testing.T) {
	responder := &stubResponder{reply: "**Dashboards**\nuse `api`"}
	router := setupRouter(responder)

	w := postMessage(router, "/api/mcp/messages", map[string]string{"role": "user", "content": "  show dashboards  "})

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "show dashboards", responder.got)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "assistant", body["role"])
	assert.Equal(t, responder.reply, body["content"])
	assert.Equal(t, "<strong>Dashboards</strong><br>use <code>api</code>", body["html"])
	assert.Equal(t, "2025-10-16T14:32:15Z", body["created_at"])
}

func TestHandleMessage_HTMLIsEscaped(t *testing.T) {
	responder := &stubResponder{reply: "<script>x</script> **b** & `<i>`"}
	router := setupRouter(responder)

	w := postMessage(router, "/api/mcp/messages", map[string]string{"role": "user", "content": "hi"})
	require.Equal(t, http.StatusOK, w.Code)

	var body map[string]string
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, responder.reply, body["content"])
	assert.Equal(t, "&lt;script&gt;x&lt;/script&gt; <strong>b</strong> &amp; <code>&lt;i&gt;</code>", body["html"])
	assert.NotContains(t, body["html"], "<script>")
}

func TestHandleMessage_BadRequests(t *testing.T) {
	tests := []struct {
		name string
		body any
	}{
		{"malformed json", "{role:"},
		{"assistant role", map[string]string{"role": "assistant", "content": "hi"}},
		{"missing role", map[string]string{"content": "hi"}},
		{"blank content", map[string]string{"role": "user", "content": "   "}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			responder := &stubResponder{reply: "never"}
			router := setupRouter(responder)

			w := postMessage(router, "/api/mcp/messages", tt.body)

			assert.Equal(t, http.StatusBadRequest, w.Code)
			assert.Contains(t, w.Body.String(), "error")
			assert.Empty(t, responder.got, "responder must not be called")
		})
	}
}

func TestHandleMessage_ResponderError(t *testing.T) {
	router := setupRouter(&stubResponder{err: errors.New("backend down")})

	w := postMessage(router, "/api/mcp/messages", map[string]string{"role": "user", "content": "hi"})

	assert.Equal(t, http.StatusBadGateway, w.Code)
	assert.Contains(t, w.Body.String(), "backend down")
}

func TestHandleSSE(t *testing.T) {
	router := setupRouter(&stubResponder{}, WithKeepAlive(10*time.Millisecond))

	ctx, cancel := context.WithTimeout(context.Background(), 60*time.Millisecond)
	defer cancel()
	req := httptest.NewRequest(http.MethodGet, "/api/mcp/sse", nil).WithContext(ctx)
	w := httptest.NewRecorder()

	router.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.True(t, strings.HasPrefix(w.Header().Get("Content-Type"), "text/event-stream"))
	assert.Equal(t, "no-cache", w.Header().Get("Cache-Control"))
	assert.Equal(t, "no", w.Header().Get("X-Accel-Buffering"))

	body := w.Body.String()
	assert.Contains(t, body, "event:endpoint")
	assert.Contains(t, body, "/api/mcp/messages")
	assert.Contains(t, body, "event:ping")
	assert.True(t, w.Flushed)
}

func TestCustomPrefix(t *testing.T) {
	tests := []struct {
		prefix string
		path   string
	}{
		{"/mcp", "/mcp/messages"},
		{"mcp/", "/mcp/messages"},
		{"", "/messages"},
		{"/", "/messages"},
	}

	for _, tt := range tests {
		t.Run(tt.prefix, func(t *testing.T) {
			router := setupRouter(&stubResponder{reply: "ok"}, WithPrefix(tt.prefix))
			w := postMessage(router, tt.path, map[string]string{"role": "user", "content": "hi"})
			assert.Equal(t, http.StatusOK, w.Code)
		})
	}
}

func TestUnknownRoute(t *testing.T) {
	router := setupRouter(&stubResponder{})

	w := httptest.NewRecorder()
	router.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/api/mcp/tools", nil))

	assert.Equal(t, http.StatusNotFound, w.Code)
}
