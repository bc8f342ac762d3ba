// Package profiler serves the net/http/pprof handlers on a loopback port
// while the TUI runs.
package profiler

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"net/http/pprof"
	"time"

	"github.com/gorilla/mux"
	"github.com/rs/zerolog/log"
)

// Server is a pprof endpoint bound to 127.0.0.1.
type Server struct {
	httpServer *http.Server
	listener   net.Listener
	port       int
}

// New builds a profiler for 127.0.0.1:port. Port 0 picks a free port.
func New(port int) *Server {
	return &Server{
		httpServer: &http.Server{
			Handler:           Handler(),
			ReadHeaderTimeout: 5 * time.Second,
		},
		port: port,
	}
}

// Handler routes /debug/pprof/* to the runtime profilers and redirects the
// root to the index.
func Handler() http.Handler {
	r := mux.NewRouter()
	r.Handle("/", http.RedirectHandler("/debug/pprof/", http.StatusFound))

	pp := r.PathPrefix("/debug/pprof").Subrouter()
	pp.HandleFunc("/cmdline", pprof.Cmdline)
	pp.HandleFunc("/profile", pprof.Profile)
	pp.HandleFunc("/symbol", pprof.Symbol)
	pp.HandleFunc("/trace", pprof.Trace)
	// Index also serves the named profiles (heap, goroutine, ...).
	pp.PathPrefix("/").HandlerFunc(pprof.Index)

	return r
}

// Start binds the port and serves in the background. Bind errors are
// returned; later serve errors are logged.
func (s *Server) Start(ctx context.Context) error {
	var lc net.ListenConfig
	listener, err := lc.Listen(ctx, "tcp", fmt.Sprintf("127.0.0.1:%d", s.port))
	if err != nil {
		return fmt.Errorf("listen: %w", err)
	}
	s.listener = listener

	log.Info().Str("addr", listener.Addr().String()).Msg("starting profiler server")

	go func() {
		if err := s.httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Error().Err(err).Msg("profiler server stopped")
		}
	}()
	return nil
}

// Addr returns the bound address, or "" before Start.
func (s *Server) Addr() string {
	if s.listener == nil {
		return ""
	}
	return s.listener.Addr().String()
}

// URL returns the index page address, or "" before Start.
func (s *Server) URL() string {
	if s.listener == nil {
		return ""
	}
	return "http://" + s.Addr() + "/debug/pprof/"
}

// Shutdown stops the server, waiting for in-flight profiles up to ctx.
func (s *Server) Shutdown(ctx context.Context) error {
	log.Info().Msg("shutting down profiler server")
	return s.httpServer.Shutdown(ctx)
}
