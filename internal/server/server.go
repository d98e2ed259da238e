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
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/roach88/featureql/internal/features"
)

// DefaultShutdownTimeout bounds graceful shutdown in ListenAndServe.
const DefaultShutdownTimeout = 10 * time.Second

// Server routes HTTP requests to a features.Service.
type Server struct {
	svc     *features.Service
	ids     features.RequestIDGenerator
	metrics http.Handler
	router  chi.Router
}

// Option configures a Server.
type Option func(*Server)

// WithMetricsHandler serves h at /metrics instead of the default
// Prometheus registry.
func WithMetricsHandler(h http.Handler) Option {
	return func(s *Server) {
		s.metrics = h
	}
}

// WithRequestIDGenerator sets the generator for the X-Request-Id header.
func WithRequestIDGenerator(g features.RequestIDGenerator) Option {
	return func(s *Server) {
		s.ids = g
	}
}

// New creates a Server for svc.
func New(svc *features.Service, opts ...Option) *Server {
	s := &Server{
		svc:     svc,
		ids:     features.UUIDv7Generator{},
		metrics: promhttp.Handler(),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.Recoverer)
	r.Use(s.requestID)
	r.Use(accessLog)

	r.Route("/collections", func(r chi.Router) {
		r.Get("/", s.listCollections)
		r.Get("/{collectionId}", s.getCollection)
		r.Get("/{collectionId}/items", s.listItems)
	})
	r.Method(http.MethodGet, "/metrics", s.metrics)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, r, errNotFoundRoute(r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:        "METHOD_NOT_ALLOWED",
			Description: fmt.Sprintf("%s not allowed on %s", r.Method, r.URL.Path),
		})
	})
	return r
}

// ServeHTTP implements http.Handler.
func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.router.ServeHTTP(w, r)
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		slog.Info("http server listening", "addr", addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("http server: %w", err)
	case <-ctx.Done():
	}

	slog.Info("http server shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), DefaultShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("http server shutdown: %w", err)
	}
	return nil
}
