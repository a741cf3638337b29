package api

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/hashicorp/go-hclog"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/mariasu11/netlog/pkg/parser"
)

// Server represents the netlog API server
type Server struct {
	host       string
	port       int
	router     *chi.Mux
	logger     hclog.Logger
	factory    *parser.Factory
	registry   *parser.Registry
	httpServer *http.Server
}

// NewServer creates a new API server
func NewServer(host string, port int, factory *parser.Factory, registry *parser.Registry, logger hclog.Logger) *Server {
	r := chi.NewRouter()

	// Create the server
	server := &Server{
		host:     host,
		port:     port,
		router:   r,
		logger:   logger,
		factory:  factory,
		registry: registry,
	}

	// Set up middleware
	server.setupMiddleware()

	// Set up routes
	server.setupRoutes()

	return server
}

// setupMiddleware configures the middleware stack
func (s *Server) setupMiddleware() {
	// Standard middleware
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(LoggerMiddleware(s.logger))
	s.router.Use(middleware.Recoverer)
	s.router.Use(middleware.Timeout(60 * time.Second))

	// Custom middleware
	s.router.Use(MetricsMiddleware)
}

// setupRoutes configures the API routes
func (s *Server) setupRoutes() {
	// Create handlers
	handlers := NewHandlers(s.factory, s.registry, s.logger)

	// API v1 routes
	s.router.Route("/api/v1", func(r chi.Router) {
		// Parse routes
		r.Route("/parse", func(r chi.Router) {
			r.Post("/", handlers.ParseMessage)
			r.Post("/batch", handlers.ParseBatch)
		})

		// Parser inventory routes
		r.Get("/parsers", handlers.ListParsers)

		// Script routes
		r.Post("/scripts/validate", handlers.ValidateScript)

		// Health routes
		r.Get("/health", handlers.HealthCheck)
	})

	// Prometheus metrics endpoint
	s.router.Handle("/metrics", promhttp.Handler())

	// Documentation
	s.router.Get("/", handlers.GetDocs)
}

// Router returns the configured HTTP handler, mainly for tests
func (s *Server) Router() http.Handler {
	return s.router
}

// Start begins the HTTP server
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.host, s.port)
	s.logger.Info("Starting netlog API server", "address", addr)

	s.httpServer = &http.Server{
		Addr:    addr,
		Handler: s.router,
	}

	return s.httpServer.ListenAndServe()
}

// Stop gracefully shuts down the server
func (s *Server) Stop(ctx context.Context) error {
	if s.httpServer != nil {
		s.logger.Info("Shutting down API server")
		return s.httpServer.Shutdown(ctx)
	}
	return nil
}
