// Package server provides the HTTP API for the triage engine.
package server

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"

	"github.com/forensica/triage/internal/config"
	"github.com/forensica/triage/internal/keyword"
	"github.com/forensica/triage/internal/storage"
)

// Server is the HTTP server for the triage API.
type Server struct {
	storage storage.Storage
	index   *keyword.BleveIndex
	config  *config.Config
	logger  *zap.Logger
	metrics *Metrics
	server  *http.Server
}

// NewServer creates a server with the given dependencies.
func NewServer(
	store storage.Storage,
	index *keyword.BleveIndex,
	cfg *config.Config,
	logger *zap.Logger,
) *Server {
	return &Server{
		storage: store,
		index:   index,
		config:  cfg,
		logger:  logger,
		metrics: NewMetrics(),
	}
}

// Router builds the chi router with all API routes.
func (s *Server) Router() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.Logger)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(60 * time.Second))
	r.Use(middleware.Compress(5))

	r.Post("/api/v1/analyze", s.handleAnalyze)
	r.Post("/api/v1/batches", s.handleCreateBatch)
	r.Get("/api/v1/batches", s.handleListBatches)
	r.Get("/api/v1/batches/{id}", s.handleGetBatch)
	r.Delete("/api/v1/batches/{id}", s.handleDeleteBatch)
	r.Get("/api/v1/batches/{id}/report", s.handleBatchReport)
	r.Get("/api/v1/batches/{id}/graph", s.handleBatchGraph)
	r.Post("/api/v1/batches/{id}/search", s.handleBatchSearch)
	r.Get("/health", s.handleHealth)
	r.Method(http.MethodGet, "/metrics", s.metrics.Handler())

	return r
}

// Start starts the HTTP server and blocks until it stops.
func (s *Server) Start() error {
	addr := fmt.Sprintf("%s:%d", s.config.Server.Host, s.config.Server.Port)
	s.server = &http.Server{
		Addr:    addr,
		Handler: s.Router(),
	}
	s.logger.Info("Starting server", zap.String("addr", addr))
	return s.server.ListenAndServe()
}

// Stop gracefully shuts down the server.
func (s *Server) Stop(ctx context.Context) error {
	if s.server != nil {
		return s.server.Shutdown(ctx)
	}
	return nil
}
