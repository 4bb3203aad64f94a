// Package server implements the demo MCP backend served by `mcpchat serve`.
package server

import (
	"context"
	"html"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/diogo/mcpchat/internal/models"
	"github.com/diogo/mcpchat/internal/render"
)

// DefaultPrefix is the route group the MCP endpoints live under
const DefaultPrefix = "/api/mcp"

// ServiceName is reported by the health endpoint
const ServiceName = "mcpchat-demo"

// Responder produces the assistant reply for a message
type Responder interface {
	Respond(ctx context.Context, text string) (string, error)
}

// Handler serves the SSE and messages endpoints
type Handler struct {
	responder Responder
	logger    *zap.Logger
	prefix    string
	keepAlive time.Duration
	now       func() time.Time
}

// HandlerOption configures a Handler
type HandlerOption func(*Handler)

// WithPrefix sets the route group for the MCP endpoints
func WithPrefix(prefix string) HandlerOption {
	return func(h *Handler) {
		h.prefix = normalizePrefix(prefix)
	}
}

// WithKeepAlive sets the spacing of SSE ping events
func WithKeepAlive(d time.Duration) HandlerOption {
	return func(h *Handler) {
		if d > 0 {
			h.keepAlive = d
		}
	}
}

// WithClock overrides the time source for reply timestamps
func WithClock(now func() time.Time) HandlerOption {
	return func(h *Handler) {
		if now != nil {
			h.now = now
		}
	}
}

// NewHandler creates a handler that answers with responder
func NewHandler(responder Responder, logger *zap.Logger, opts ...HandlerOption) *Handler {
	if logger == nil {
		logger = zap.NewNop()
	}
	h := &Handler{
		responder: responder,
		logger:    logger,
		prefix:    DefaultPrefix,
		keepAlive: 15 * time.Second,
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(h)
	}
	return h
}

func normalizePrefix(prefix string) string {
	prefix = strings.TrimSpace(prefix)
	if prefix == "" || prefix == "/" {
		return ""
	}
	return "/" + strings.Trim(prefix, "/")
}

// Prefix returns the route group of the MCP endpoints
func (h *Handler) Prefix() string {
	return h.prefix
}

// RegisterRoutes mounts the handler on router
func (h *Handler) RegisterRoutes(router gin.IRouter) {
	router.GET("/healthz", h.handleHealth)

	mcpGroup := router.Group(h.prefix)
	mcpGroup.GET(models.PathSSE, h.handleSSE)
	mcpGroup.POST(models.PathMessages, h.handleMessage)
}

type messagePayload struct {
	Role    string `json:"role"`
	Content string `json:"content"`
}

func (h *Handler) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "healthy",
		"service":   ServiceName,
		"timestamp": h.now().UTC().Format(time.RFC3339),
	})
}

// handleSSE announces the messages endpoint and then keeps the stream
// open with ping events until the client goes away.
func (h *Handler) handleSSE(c *gin.Context) {
	c.Header("Cache-Control", "no-cache")
	c.Header("Connection", "keep-alive")
	c.Header("X-Accel-Buffering", "no")

	ctx := c.Request.Context()

	c.SSEvent("endpoint", h.prefix+models.PathMessages)
	c.Writer.Flush()

	ticker := time.NewTicker(h.keepAlive)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case t := <-ticker.C:
			c.SSEvent("ping", t.UTC().Format(time.RFC3339))
			c.Writer.Flush()
		}
	}
}

func (h *Handler) handleMessage(c *gin.Context) {
	var payload messagePayload
	if err := c.ShouldBindJSON(&payload); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request payload", "detail": err.Error()})
		return
	}

	if strings.ToLower(strings.TrimSpace(payload.Role)) != string(models.RoleUser) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "role must be user"})
		return
	}

	content := strings.TrimSpace(payload.Content)
	if content == "" {
		c.JSON(http.StatusBadRequest, gin.H{"error": "content is required"})
		return
	}

	reply, err := h.responder.Respond(c.Request.Context(), content)
	if err != nil {
		h.logger.Warn("reply failed", zap.Error(err))
		c.JSON(http.StatusBadGateway, gin.H{"error": "reply failed", "detail": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"role":       models.RoleAssistant,
		"content":    reply,
		"html":       render.Markup(html.EscapeString(reply)),
		"created_at": h.now().UTC().Format(time.RFC3339),
	})
}
