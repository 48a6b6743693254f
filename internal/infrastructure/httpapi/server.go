// Package httpapi serves reaction queries over HTTP.
package httpapi

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"time"

	appservices "github.com/reglet-dev/phasehull/internal/application/services"
	"github.com/reglet-dev/phasehull/internal/domain/repositories"
	"github.com/reglet-dev/phasehull/internal/domain/services"
	"github.com/reglet-dev/phasehull/internal/infrastructure/system"
	"github.com/reglet-dev/phasehull/internal/infrastructure/validation"
)

// shutdownTimeout bounds graceful shutdown.
const shutdownTimeout = 10 * time.Second

// Dependencies are the collaborators the API serves.
type Dependencies struct {
	Reactions *appservices.ReactionProductsUseCase
	Batch     *appservices.BatchReactionsUseCase
	Grid      *services.CandidateGrid
	Results   repositories.ReactionResultRepository
	Validator *validation.SchemaValidator
	Logger    *slog.Logger
	Estimator string
	Version   string

	// MaxConcurrent limits parallel queries per batch request
	MaxConcurrent int
}

// Server is the HTTP API.
type Server struct {
	deps   Dependencies
	config system.ServerConfig
	logger *slog.Logger
}

// NewServer creates a server.
func NewServer(cfg system.ServerConfig, deps Dependencies) *Server {
	logger := deps.Logger
	if logger == nil {
		logger = slog.Default()
	}
	return &Server{deps: deps, config: cfg, logger: logger}
}

// Handler returns the routed handler with middleware applied.
func (s *Server) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("POST /predict_reaction", s.handlePredict)
	mux.HandleFunc("POST /batch", s.handleBatch)
	mux.HandleFunc("GET /reactions", s.handleListReactions)
	mux.HandleFunc("GET /reactions/{id}", s.handleGetReaction)
	mux.HandleFunc("DELETE /reactions/{id}", s.handleDeleteReaction)
	mux.HandleFunc("GET /grid", s.handleGrid)
	mux.HandleFunc("GET /healthz", s.handleHealth)

	var h http.Handler = mux
	h = withTimeout(h, s.config.RequestTimeout)
	h = withCORS(h, s.config.AllowedOrigins)
	h = withLogging(h, s.logger)
	return h
}

// Run listens on the configured address until ctx is canceled, then shuts
// down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.config.Addr)
	if err != nil {
		return fmt.Errorf("failed to listen on %s: %w", s.config.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is canceled.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	server := &http.Server{
		Handler:           s.Handler(),
		ReadTimeout:       s.config.ReadTimeout,
		ReadHeaderTimeout: s.config.ReadTimeout,
		WriteTimeout:      s.config.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errChan := make(chan error, 1)
	go func() {
		s.logger.Info("api listening", "addr", ln.Addr().String(), "estimator", s.deps.Estimator)
		if err := server.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errChan <- err
		}
		close(errChan)
	}()

	select {
	case err := <-errChan:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("api shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown failed: %w", err)
	}
	return nil
}
