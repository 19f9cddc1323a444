// Package server exposes the transfer engine over a local HTTP API, with
// server-sent events for progress streaming and device notifications.
package server

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/Kadajett/musicManager/internal/config"
	"github.com/Kadajett/musicManager/internal/store"
	"github.com/Kadajett/musicManager/internal/transfer"
)

// Server represents the HTTP API server.
type Server struct {
	engine     *transfer.Engine
	store      *store.Store
	config     *config.Config
	logger     *slog.Logger
	httpServer *http.Server
}

// NewServer creates a new Server instance.
func NewServer(
	eng *transfer.Engine,
	st *store.Store,
	cfg *config.Config,
	logger *slog.Logger,
) *Server {
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{
		engine: eng,
		store:  st,
		config: cfg,
		logger: logger,
	}
}

// Start starts the HTTP server on the given listen address.
func (s *Server) Start(listenAddr string) error {
	mux := s.setupRoutes()

	// WriteTimeout stays unset: transfer progress and device watch streams
	// hold their connections open for the duration of the operation.
	s.httpServer = &http.Server{
		Addr:        listenAddr,
		Handler:     mux,
		ReadTimeout: 15 * time.Second,
		IdleTimeout: 60 * time.Second,
	}

	s.logger.Info("starting HTTP server", "addr", listenAddr)
	if err := s.httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
		return fmt.Errorf("server error: %w", err)
	}
	return nil
}

// Shutdown gracefully shuts down the HTTP server.
func (s *Server) Shutdown(ctx context.Context) error {
	if s.httpServer == nil {
		return nil
	}
	s.logger.Info("shutting down HTTP server")
	return s.httpServer.Shutdown(ctx)
}

// setupRoutes registers all HTTP routes on a new ServeMux.
// Uses Go 1.22+ enhanced routing with method prefixes and path variables.
func (s *Server) setupRoutes() *http.ServeMux {
	mux := http.NewServeMux()

	// Transfer routes
	mux.HandleFunc("POST /api/checksum", s.handleAPIChecksum)
	mux.HandleFunc("POST /api/verify", s.handleAPIVerify)
	mux.HandleFunc("POST /api/transfer", s.handleAPITransfer)

	// History routes
	mux.HandleFunc("GET /api/transfers", s.handleAPITransfers)
	mux.HandleFunc("GET /api/transfers/{id}/files", s.handleAPITransferFiles)

	// Device and browsing routes
	mux.HandleFunc("GET /api/devices", s.handleAPIDevices)
	mux.HandleFunc("GET /api/devices/watch", s.handleAPIDevicesWatch)
	mux.HandleFunc("GET /api/browse", s.handleAPIBrowse)

	return mux
}
