// Package api provides the HTTP API server for Cartograph.
// It uses Echo framework to serve REST endpoints and WebSocket
// connections for the published cluster model.
package api

import (
	"context"
	"fmt"
	"log"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"golang.org/x/time/rate"

	"github.com/cartograph-io/cartograph/internal/collector"
	"github.com/cartograph-io/cartograph/internal/config"
	"github.com/cartograph-io/cartograph/internal/validation"
	"github.com/cartograph-io/cartograph/internal/version"
)

// Server represents the Cartograph API server.
type Server struct {
	echo      *echo.Echo
	builder   *collector.Builder
	validator *validation.Validator
	config    *config.Config
	wsHub     *Hub // WebSocket hub for real-time updates
}

// debugLog logs a message only if debug mode is enabled in config
func (s *Server) debugLog(format string, args ...interface{}) {
	if s.config.Server.Debug {
		log.Printf(format, args...)
	}
}

// New creates a new API server instance.
func New(cfg *config.Config, builder *collector.Builder) *Server {
	e := echo.New()

	// Configure Echo
	e.HideBanner = true
	e.HidePort = true
	e.Debug = cfg.Server.Debug

	// Set custom error handler
	e.HTTPErrorHandler = HTTPErrorHandler

	// Create WebSocket hub
	hub := NewHub()

	// Create server instance
	server := &Server{
		echo:      e,
		builder:   builder,
		validator: validation.New(),
		config:    cfg,
		wsHub:     hub,
	}

	// Start WebSocket hub in background
	go hub.Run()

	// Setup middleware
	server.setupMiddleware()

	// Setup routes
	server.setupRoutes()

	return server
}

// setupMiddleware configures Echo middleware.
func (s *Server) setupMiddleware() {
	// Logger middleware
	s.echo.Use(middleware.LoggerWithConfig(middleware.LoggerConfig{
		Format: "[${time_rfc3339}] ${status} ${method} ${uri} (${latency_human})\n",
	}))

	// Recover middleware
	s.echo.Use(middleware.Recover())

	// CORS middleware
	if len(s.config.Security.AllowedOrigins) > 0 {
		s.echo.Use(middleware.CORSWithConfig(middleware.CORSConfig{
			AllowOrigins: s.config.Security.AllowedOrigins,
			AllowMethods: []string{http.MethodGet, http.MethodPost},
			AllowHeaders: []string{echo.HeaderOrigin, echo.HeaderContentType, echo.HeaderAccept, echo.HeaderAuthorization},
		}))
	}

	// Request ID middleware
	s.echo.Use(middleware.RequestID())

	// Rate limiting
	if s.config.Security.RateLimit > 0 {
		s.echo.Use(middleware.RateLimiter(middleware.NewRateLimiterMemoryStore(
			rate.Limit(s.config.Security.RateLimit),
		)))
	}
}

// setupRoutes configures API routes.
func (s *Server) setupRoutes() {
	// Health check
	s.echo.GET("/health", s.healthCheck)
	s.echo.GET("/", s.healthCheck)

	// API v1 group
	v1 := s.echo.Group("/api/v1")

	// Model routes
	modelRoutes := v1.Group("/model")
	modelRoutes.GET("", s.getModelSummary)
	modelRoutes.GET("/full", s.getModel)
	modelRoutes.POST("/rebuild", s.rebuildModel)
	modelRoutes.GET("/hosts", s.listHosts)
	modelRoutes.GET("/hosts/:id", s.getHost)
	modelRoutes.GET("/hosts/:id/instances", s.getHostInstances)
	modelRoutes.GET("/instances", s.listInstances)
	modelRoutes.GET("/instances/:id", s.getInstance)

	// Scope routes
	scopeRoutes := v1.Group("/scope")
	scopeRoutes.GET("", s.getScope)
	scopeRoutes.POST("/validate", s.validateScope)

	// WebSocket routes
	ws := v1.Group("/ws")
	ws.GET("/model", s.HandleWebSocket)
	ws.GET("/stats", s.GetWebSocketStats)
}

// Start starts the HTTP server.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)

	fmt.Printf("Starting Cartograph API Server\n")
	fmt.Printf("   Address: http://%s\n", addr)
	fmt.Printf("   Inventory: %s\n", s.config.Compute.URL)
	fmt.Printf("   Debug: %v\n", s.config.Server.Debug)
	fmt.Println()

	// Configure server timeouts
	s.echo.Server.ReadTimeout = s.config.Server.ReadTimeout
	s.echo.Server.WriteTimeout = s.config.Server.WriteTimeout

	return s.echo.Start(addr)
}

// Shutdown gracefully shuts down the server.
func (s *Server) Shutdown(ctx context.Context) error {
	fmt.Println("\nShutting down Cartograph API Server...")

	if err := s.echo.Shutdown(ctx); err != nil {
		return fmt.Errorf("error shutting down server: %w", err)
	}

	fmt.Println("Server shutdown complete")
	return nil
}

// healthCheck handles health check requests.
func (s *Server) healthCheck(c echo.Context) error {
	status := map[string]interface{}{
		"status":  "healthy",
		"service": "cartograph",
		"version": version.Version,
	}

	if m := s.builder.Current(); m != nil {
		status["model"] = map[string]interface{}{
			"build_id":  m.BuildID(),
			"built_at":  m.BuiltAt(),
			"hosts":     m.HostCount(),
			"instances": m.InstanceCount(),
			"stale":     s.builder.Stale(),
		}
	} else {
		status["model"] = "not built yet"
	}

	return c.JSON(http.StatusOK, status)
}

// BroadcastModelEvent broadcasts a model event to all WebSocket clients
func (s *Server) BroadcastModelEvent(eventType ModelEventType, data interface{}) {
	s.debugLog("broadcasting %s event to %d clients", eventType, s.wsHub.ClientCount())
	event := ModelEvent{
		Type: eventType,
		Data: data,
	}
	if err := s.wsHub.BroadcastEvent(event); err != nil {
		log.Printf("ERROR: Failed to broadcast event: %v", err)
	}
}

// ServeHTTP allows Server to implement http.Handler for testing
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.echo.ServeHTTP(w, r)
}
