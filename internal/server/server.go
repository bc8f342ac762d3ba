// Package server exposes a task.Repository over HTTP using the wire format
// consumed by internal/remote.
package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog"

	"github.com/colonyops/dailyflow/internal/core/logging"
	"github.com/colonyops/dailyflow/internal/core/task"
)

const shutdownTimeout = 10 * time.Second

// Server routes task API requests to a repository.
type Server struct {
	repo   task.Repository
	secret []byte
	log    zerolog.Logger
	router *mux.Router
}

// Option configures a Server.
type Option func(*Server)

// WithJWTSecret requires every /api request to carry a bearer token signed
// with secret. An empty secret leaves the API open.
func WithJWTSecret(secret string) Option {
	return func(s *Server) {
		if secret != "" {
			s.secret = []byte(secret)
		}
	}
}

// WithLogger replaces the component logger.
func WithLogger(l zerolog.Logger) Option {
	return func(s *Server) { s.log = l }
}

// New builds a server over repo.
func New(repo task.Repository, opts ...Option) *Server {
	s := &Server{
		repo: repo,
		log:  logging.Component("server"),
	}
	for _, opt := range opts {
		opt(s)
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() *mux.Router {
	r := mux.NewRouter()
	r.Use(s.requestID, s.accessLog)

	r.HandleFunc("/healthz", s.handleHealth).Methods(http.MethodGet)

	api := r.PathPrefix("/api").Subrouter()
	if s.secret != nil {
		api.Use(s.authenticate)
	}

	api.HandleFunc("/tasks", s.handleList).Methods(http.MethodGet)
	api.HandleFunc("/tasks", s.handleCreate).Methods(http.MethodPost)
	api.HandleFunc("/tasks/bulk-update", s.handleBulkUpdate).Methods(http.MethodPost)
	api.HandleFunc("/tasks/bulk-delete", s.handleBulkDelete).Methods(http.MethodPost)
	api.HandleFunc("/tasks/{id:[0-9]+}", s.handleGet).Methods(http.MethodGet)
	api.HandleFunc("/tasks/{id:[0-9]+}", s.handleUpdate).Methods(http.MethodPatch)
	api.HandleFunc("/tasks/{id:[0-9]+}", s.handleDelete).Methods(http.MethodDelete)
	api.HandleFunc("/tasks/{id:[0-9]+}/toggle", s.handleToggle).Methods(http.MethodPost)

	return r
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler {
	return s.router
}

// ListenAndServe serves on addr until ctx is cancelled, then shuts down
// gracefully.
func (s *Server) ListenAndServe(ctx context.Context, addr string) error {
	srv := &http.Server{
		Addr:              addr,
		Handler:           s.router,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errCh := make(chan error, 1)
	go func() {
		s.log.Info().Str("addr", addr).Bool("auth", s.secret != nil).Msg("listening")
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return fmt.Errorf("serve: %w", err)
	case <-ctx.Done():
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	s.log.Info().Msg("shutting down")
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	return nil
}
