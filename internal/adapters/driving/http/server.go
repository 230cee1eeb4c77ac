// Package http exposes the operational API: read access to the mirror,
// sync status, and a manual sync trigger.
package http

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/custodia-labs/stockmirror/internal/core/ports/driven"
	"github.com/custodia-labs/stockmirror/internal/core/ports/driving"
)

// Pinger is a simple health check interface
type Pinger interface {
	Ping(ctx context.Context) error
}

// Server represents the HTTP server
type Server struct {
	httpServer *http.Server
	router     *http.ServeMux
	handler    http.Handler
	version    string

	// How long the manual trigger waits for an immediate refusal before
	// reporting the run as started.
	triggerWait time.Duration

	mirror     driving.MirrorReader
	syncRunner driving.SyncRunner
	auth       driven.AuthAdapter

	db     Pinger
	logger *slog.Logger
}

// Config holds server configuration
type Config struct {
	Host        string
	Port        int
	Version     string
	TriggerWait time.Duration
}

// DefaultConfig returns sensible defaults
func DefaultConfig() Config {
	return Config{
		Host:        "0.0.0.0",
		Port:        8080,
		Version:     "dev",
		TriggerWait: 1 * time.Second,
	}
}

// NewServer creates a new HTTP server. auth may be nil, in which case the
// API is served without authentication (local development only).
func NewServer(
	cfg Config,
	mirror driving.MirrorReader,
	syncRunner driving.SyncRunner,
	auth driven.AuthAdapter,
	db Pinger,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	if cfg.TriggerWait <= 0 {
		cfg.TriggerWait = 1 * time.Second
	}
	s := &Server{
		router:      http.NewServeMux(),
		version:     cfg.Version,
		triggerWait: cfg.TriggerWait,
		mirror:      mirror,
		syncRunner:  syncRunner,
		auth:        auth,
		db:          db,
		logger:      logger,
	}

	s.setupRoutes(NewAuthMiddleware(s.auth))
	logging := NewLoggingMiddleware(s.logger)
	recovery := NewRecoveryMiddleware(s.logger)
	s.handler = recovery.Handler(logging.Handler(s.router))

	s.httpServer = &http.Server{
		Addr:         fmt.Sprintf("%s:%d", cfg.Host, cfg.Port),
		Handler:      s.handler,
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 30 * time.Second,
		IdleTimeout:  60 * time.Second,
	}

	return s
}

// Handler returns the full middleware-wrapped route tree.
func (s *Server) Handler() http.Handler {
	return s.handler
}

// setupRoutes configures all HTTP routes
func (s *Server) setupRoutes(authMiddleware *AuthMiddleware) {
	// Health endpoints (no auth)
	s.router.HandleFunc("GET /health", s.handleHealth)
	s.router.HandleFunc("GET /ready", s.handleReady)
	s.router.HandleFunc("GET /version", s.handleVersion)

	// Mirror read endpoints
	s.router.Handle("GET /api/v1/items",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleListItems)))
	s.router.Handle("GET /api/v1/items/{id}",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleGetItem)))

	// Sync endpoints
	s.router.Handle("GET /api/v1/sync/status",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleSyncStatus)))
	s.router.Handle("POST /api/v1/sync/run",
		authMiddleware.Authenticate(http.HandlerFunc(s.handleTriggerSync)))
}

// Start starts the HTTP server and blocks until the context is cancelled,
// then shuts down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("starting http server", "addr", s.httpServer.Addr)
		if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down http server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := s.httpServer.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}
	return nil
}

// Stop stops the server
func (s *Server) Stop(ctx context.Context) error {
	return s.httpServer.Shutdown(ctx)
}
