package server

import (
	"context"
	"errors"
	"net"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/diogo/mcpchat/internal/config"
)

// Server runs the demo backend
type Server struct {
	cfg     config.ServerConfig
	handler *Handler
	router  *gin.Engine
	logger  *zap.Logger
}

// New builds the gin router for the demo backend
func New(cfg config.ServerConfig, responder Responder, logger *zap.Logger, opts ...HandlerOption) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if gin.Mode() == gin.DebugMode {
		gin.SetMode(gin.ReleaseMode)
	}

	opts = append([]HandlerOption{WithPrefix(cfg.Prefix)}, opts...)
	handler := NewHandler(responder, logger, opts...)

	router := gin.New()
	router.Use(RequestLogger(logger), Recovery(logger))
	handler.RegisterRoutes(router)

	return &Server{cfg: cfg, handler: handler, router: router, logger: logger}
}

// Router returns the HTTP handler
func (s *Server) Router() *gin.Engine {
	return s.router
}

// Handler returns the MCP endpoint handler
func (s *Server) Handler() *Handler {
	return s.handler
}

// Run listens on the configured address until ctx is cancelled, then
// shuts down gracefully. Open SSE streams are closed on shutdown.
func (s *Server) Run(ctx context.Context) error {
	listener, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return err
	}
	return s.Serve(ctx, listener)
}

// Serve is Run on an existing listener
func (s *Server) Serve(ctx context.Context, listener net.Listener) error {
	baseCtx, cancelBase := context.WithCancel(context.Background())
	defer cancelBase()

	httpServer := &http.Server{
		Handler:     s.router,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
		BaseContext: func(net.Listener) context.Context { return baseCtx },
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening",
			zap.String("addr", listener.Addr().String()),
			zap.String("prefix", s.handler.Prefix()),
		)
		errCh <- httpServer.Serve(listener)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	cancelBase()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		s.logger.Warn("graceful shutdown failed", zap.Error(err))
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	s.logger.Info("server stopped cleanly")
	return nil
}
