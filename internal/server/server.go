// Package server exposes song recommendations over HTTP.
//
// Routes:
//
//	GET /health                          liveness probe
//	GET /recommend?mood=4&q=blue+skies   ranked songs for a mood and keywords
//
// Responses are JSON. Errors use {"error": "..."} with status 400 for bad
// input and 500 otherwise.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/chriscorrea/lyricmood/internal/mood"
	"github.com/chriscorrea/lyricmood/internal/query"
)

// DefaultAddr is the default listen address.
const DefaultAddr = ":8080"

// maxResults caps the n parameter.
const maxResults = 100

// Recommender ranks songs for a mood bucket and free-text keywords.
type Recommender interface {
	Recommend(b mood.Bucket, text string, n int) ([]query.Recommendation, error)
}

// Config holds server configuration.
type Config struct {
	Addr    string
	Results int // default number of recommendations when n is absent
}

// Server is the HTTP server for recommendations.
type Server struct {
	router  chi.Router
	server  *http.Server
	engine  Recommender
	results int
}

// New creates a server answering queries with engine.
func New(cfg Config, engine Recommender) *Server {
	if cfg.Addr == "" {
		cfg.Addr = DefaultAddr
	}
	if cfg.Results <= 0 {
		cfg.Results = 10
	}

	s := &Server{
		router:  chi.NewRouter(),
		engine:  engine,
		results: cfg.Results,
	}
	s.setupMiddleware()
	s.setupRoutes()

	s.server = &http.Server{
		Addr:         cfg.Addr,
		Handler:      s.router,
		ReadTimeout:  15 * time.Second,
		WriteTimeout: 15 * time.Second,
		IdleTimeout:  60 * time.Second,
	}
	return s
}

// Handler returns the root handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) setupMiddleware() {
	s.router.Use(middleware.RequestID)
	s.router.Use(middleware.RealIP)
	s.router.Use(middleware.Logger)
	s.router.Use(middleware.Recoverer)
}

func (s *Server) setupRoutes() {
	s.router.Get("/health", s.health)
	s.router.Get("/recommend", s.recommend)
}

// Run serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	errCh := make(chan error, 1)
	go func() {
		slog.Debug("Starting server", "addr", s.server.Addr)
		if err := s.server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
		close(errCh)
	}()

	select {
	case err, ok := <-errCh:
		if ok {
			return fmt.Errorf("server failed: %w", err)
		}
		return nil
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("server shutdown failed: %w", err)
	}

	slog.Debug("Server stopped")
	return nil
}
