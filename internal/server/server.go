// Package server exposes the diagram pipeline over HTTP.
//
// Diagrams are generated by POSTing an inventory to /api/v1/diagrams and are
// then retrievable by id as JSON, SVG, DOT, or a drawing package. Generated
// diagrams are held in memory; restarting the server forgets them.
package server

import (
	"context"
	"errors"
	"net/http"
	"sync"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/archetype-cli/archetype/pkg/buildinfo"
	"github.com/archetype-cli/archetype/pkg/diagram"
	"github.com/archetype-cli/archetype/pkg/pipeline"
)

// requestTimeout bounds a single request including package export.
const requestTimeout = 60 * time.Second

// Server holds the pipeline runner and the in-memory diagram store.
type Server struct {
	runner *pipeline.Runner
	logger *log.Logger

	mu       sync.RWMutex
	diagrams map[string]*diagram.Diagram
}

// New creates a server around the given runner.
func New(runner *pipeline.Runner, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}
	return &Server{
		runner:   runner,
		logger:   logger,
		diagrams: make(map[string]*diagram.Diagram),
	}
}

// Routes builds the HTTP router.
func (s *Server) Routes() http.Handler {
	r := chi.NewRouter()

	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(requestTimeout))

	r.Get("/healthz", s.handleHealth)

	r.Route("/api/v1/diagrams", func(r chi.Router) {
		r.Post("/", s.handleGenerate)
		r.Route("/{id}", func(r chi.Router) {
			r.Get("/", s.handleGetJSON)
			r.Get("/svg", s.handleGetSVG)
			r.Get("/dot", s.handleGetDOT)
			r.Get("/package", s.handleGetPackage)
		})
	})

	return r
}

// Start runs the HTTP server until the context is cancelled, then shuts
// down gracefully.
func (s *Server) Start(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.Routes(),
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("server listening", "addr", addr, "version", buildinfo.Version)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			errCh <- err
		}
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()
	s.logger.Info("server shutting down")
	return srv.Shutdown(shutdownCtx)
}

// store saves a diagram for later retrieval.
func (s *Server) store(d *diagram.Diagram) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.diagrams[d.ID] = d
}

// lookup returns the stored diagram with the given id, or nil.
func (s *Server) lookup(id string) *diagram.Diagram {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.diagrams[id]
}
