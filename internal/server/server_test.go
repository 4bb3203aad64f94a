package server

import (
	"context"
	"encoding/json"
	"net"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zaptest/observer"

	"github.com/diogo/mcpchat/internal/config"
)

func TestServer_LogsRequests(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.InfoLevel)

	srv := New(config.ServerConfig{Prefix: "/api/mcp"}, &stubResponder{reply: "ok"}, zap.New(core))

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/healthz", nil))
	require.Equal(t, http.StatusOK, w.Code)

	entries := logs.FilterMessage("request").All()
	require.Len(t, entries, 1)
	fields := entries[0].ContextMap()
	assert.Equal(t, "/healthz", fields["path"])
	assert.EqualValues(t, http.StatusOK, fields["status"])
}

func TestServer_RecoversPanics(t *testing.T) {
	gin.SetMode(gin.TestMode)
	core, logs := observer.New(zap.ErrorLevel)

	srv := New(config.ServerConfig{}, &stubResponder{}, zap.New(core))
	srv.Router().GET("/boom", func(c *gin.Context) { panic("boom") })

	w := httptest.NewRecorder()
	srv.Router().ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/boom", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, 1, logs.FilterMessage("handler panicked").Len())
}

func TestServer_ServeAndShutdown(t *testing.T) {
	gin.SetMode(gin.TestMode)
	srv := New(config.ServerConfig{Prefix: "/api/mcp"}, &stubResponder{reply: "pong"}, nil,
		WithKeepAlive(10*time.Millisecond))

	listener, err := net.Listen("tcp", "127.0.0.1:0")
	require.NoError(t, err)
	base := "http://" + listener.Addr().String()

	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, listener) }()

	resp, err := http.Post(base+"/api/mcp/messages", "application/json",
		strings.NewReader(`{"role":"user","content":"ping"}`))
	require.NoError(t, err)
	var body map[string]string
	require.NoError(t, json.NewDecoder(resp.Body).Decode(&body))
	resp.Body.Close()
	assert.Equal(t, "pong", body["content"])

	// An open event stream must not hold up shutdown.
	sse, err := http.Get(base + "/api/mcp/sse")
	require.NoError(t, err)
	defer sse.Body.Close()
	assert.Equal(t, http.StatusOK, sse.StatusCode)

	cancel()
	select {
	case err := <-done:
		assert.NoError(t, err)
	case <-time.After(5 * time.Second):
		t.Fatal("server did not shut down")
	}
}

func TestServer_RunBadAddr(t *testing.T) {
	srv := New(config.ServerConfig{Addr: "256.0.0.1:bad"}, &stubResponder{}, nil)
	assert.Error(t, srv.Run(context.Background()))
}
