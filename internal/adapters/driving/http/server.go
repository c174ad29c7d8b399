package http

import (
	"context"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/docqa-labs/docqa-core/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	version    string

	// Services
	authService   driving.AuthService
	fileService   driving.FileService
	ingestService driving.IngestionService
	queryService  driving.QueryService

	// Infrastructure
	db          Pinger // PostgreSQL health check
	redisClient Pinger // Redis health check (optional)
}

// Config holds server configuration
type Config struct {
	Host    string
	Port    int
	Version string
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:    "0.0.0.0",
		Port:    8080,
		Version: "dev",
	}
}

// NewServer creates a new HTTP server
func NewServer(
	cfg Config,
	authService driving.AuthService,
	fileService driving.FileService,
	ingestService driving.IngestionService,
	queryService driving.QueryService,
	db Pinger,
	redisClient Pinger, // can be nil
) *Server {
	s := &Server{
		router:        http.NewServeMux(),
		version:       cfg.Version,
		authService:   authService,
		fileService:   fileService,
		ingestService: ingestService,
		queryService:  queryService,
		db:            db,
		redisClient:   redisClient,
	}

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      TracingMiddleware(s.router),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 120 * time.Second, // query generation can be slow
		IdleTimeout:  60 * time.Second,
	}

	s.setupRoutes()
	return s
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes() {
	authMiddleware := NewAuthMiddleware(s.authService)

	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Auth endpoints (public)
	s.router.HandleFunc("POST /api/v1/auth/register", s.handleRegister)
	s.router.HandleFunc("POST /api/v1/auth/login", s.handleLogin)
	s.router.Handle("POST /api/v1/auth/logout",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleLogout)))

	// File endpoints (authenticated, owner-scoped)
	s.router.Handle("POST /api/v1/files/{owner}",
		authMiddleware.Authenticate(
			authMiddleware.RequireOwner(http.HandlerFunc(s.handleUploadFile))))
	s.router.Handle("GET /api/v1/files/{owner}",
		authMiddleware.Authenticate(
			authMiddleware.RequireOwner(http.HandlerFunc(s.handleListFiles))))
	s.router.Handle("GET /api/v1/files/{owner}/{fileID}",
		authMiddleware.Authenticate(
			authMiddleware.RequireOwner(http.HandlerFunc(s.handleGetFile))))
	s.router.Handle("POST /api/v1/files/{owner}/{fileID}/parse",
		authMiddleware.Authenticate(
			authMiddleware.RequireOwner(http.HandlerFunc(s.handleParseFile))))

	// Query endpoint (authenticated, owner-scoped)
	s.router.Handle("POST /api/v1/query/{owner}/{fileID}",
		authMiddleware.Authenticate(
			authMiddleware.RequireOwner(http.HandlerFunc(s.handleQuery))))
}

// Start starts the HTTP server with graceful shutdown
func (s *Server) Start() error {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	go func() {
		log.Printf("Starting server on %s", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("Server error: %v", err)
		}
	}()

	<-stop
	log.Println("Shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	log.Println("Server stopped")
	return nil
}

// Handler exposes the routing tree for tests.
func (s *Server) Handler() http.Handler {
	return s.router
}
