package http

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"

	"github.com/nodeboard/flowsync/internal/bridge"
	"github.com/nodeboard/flowsync/internal/graph"
)

// Server is the local inspection and editing surface. The rendering layer
// reads the graph snapshot and writes structural edits through it; it never
// touches the store directly.
type Server struct {
	router *gin.Engine
	server *http.Server
	store  *graph.Store
	bridge *bridge.Bridge
	logger *zap.Logger
}

// Config holds HTTP server configuration
type Config struct {
	Port   int
	Store  *graph.Store
	Bridge *bridge.Bridge
	Logger *zap.Logger
}

// NewServer creates a new HTTP server
func NewServer(cfg *Config) *Server {
	gin.SetMode(gin.ReleaseMode)

	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(requestLogger(cfg.Logger))

	s := &Server{
		router: router,
		store:  cfg.Store,
		bridge: cfg.Bridge,
		logger: cfg.Logger,
	}

	s.setupRoutes()

	s.server = &http.Server{
		Addr:    fmt.Sprintf(":%d", cfg.Port),
		Handler: router,
	}

	return s
}

// setupRoutes configures API routes
func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)

	// Metrics
	s.router.GET("/metrics", gin.WrapH(promhttp.Handler()))

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		v1.GET("/workflow", s.handleGetWorkflow)
		v1.GET("/workflow/selection", s.handleGetSelection)
		v1.POST("/workflow/nodes", s.handleCreateNode)
		v1.PATCH("/workflow/nodes/:ref", s.handlePatchNode)
		v1.DELETE("/workflow/nodes/:ref", s.handleDeleteNode)
		v1.POST("/workflow/edges", s.handleCreateEdge)
		v1.POST("/workflow/save", s.handleSave)
		v1.POST("/workflow/execute", s.handleExecute)
	}
}

// Start starts the HTTP server
func (s *Server) Start() error {
	s.logger.Info("starting HTTP server", zap.String("addr", s.server.Addr))

	if err := s.server.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("failed to start HTTP server: %w", err)
	}

	return nil
}

// Shutdown gracefully shuts down the server
func (s *Server) Shutdown(ctx context.Context) error {
	s.logger.Info("shutting down HTTP server")

	if err := s.server.Shutdown(ctx); err != nil {
		return fmt.Errorf("failed to shutdown HTTP server: %w", err)
	}

	s.logger.Info("HTTP server shut down complete")
	return nil
}

// requestLogger is a middleware for request logging
func requestLogger(logger *zap.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		start := time.Now()
		path := c.Request.URL.Path
		query := c.Request.URL.RawQuery

		c.Next()

		duration := time.Since(start)

		logger.Info("HTTP request",
			zap.String("method", c.Request.Method),
			zap.String("path", path),
			zap.String("query", query),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", duration),
			zap.String("client_ip", c.ClientIP()))
	}
}
