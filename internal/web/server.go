// Package web implements the HTTP REST adapter for the pattern catalog.
//
// The adapter is a pure translation layer: decode the route, call the
// catalog, encode JSON back out. Every request re-reads the filesystem.
package web

import (
	"context"
	"fmt"
	"net/http"
	"time"

	"patternbook/internal/catalog"
	"patternbook/internal/config"
	"patternbook/internal/logging"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
)

// Server serves the pattern catalog over HTTP.
type Server struct {
	config  *config.Config
	logger  *logging.AppLogger
	catalog *catalog.Catalog
	http    *http.Server
}

// NewServer creates an HTTP server instance over the configured patterns
// directory.
func NewServer(cfg *config.Config, logger *logging.AppLogger) (*Server, error) {
	cat, err := catalog.New(cfg.PatternsDir, logger)
	if err != nil {
		return nil, fmt.Errorf("failed to open pattern catalog: %w", err)
	}

	s := &Server{
		config:  cfg,
		logger:  logger,
		catalog: cat,
	}

	s.http = &http.Server{
		Addr:         cfg.HTTPAddr,
		Handler:      s.Routes(),
		ReadTimeout:  10 * time.Second,
		WriteTimeout: 30 * time.Second,
	}

	return s, nil
}

// Routes builds the chi router for the REST surface.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", s.handleHealth)

	r.Route("/patterns", func(r chi.Router) {
		r.Get("/", s.handleListPatterns)
		r.Get("/search", s.handleSearchPatterns)
		r.Get("/category/{category}", s.handleListCategory)
		r.Get("/{category}/{name}", s.handleGetPattern)
	})

	return r
}

// Start listens on the configured address until ctx is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context) error {
	errCh := make(chan error, 1)

	go func() {
		s.logger.Info("HTTP server listening", "addr", s.config.HTTPAddr, "patternsDir", s.catalog.Root())
		if err := s.http.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return fmt.Errorf("HTTP server failed: %w", err)
	case <-ctx.Done():
	}

	s.logger.Info("Shutting down HTTP server")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if err := s.http.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("HTTP server shutdown failed: %w", err)
	}
	return nil
}
