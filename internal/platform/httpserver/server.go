// Package httpserver wraps http.Server with the timeouts the service runs
// with everywhere, so main does not repeat them.
package httpserver

import (
	"context"
	"net/http"
	"time"
)

// Server wraps http.Server with sane defaults.
type Server struct {
	srv *http.Server
}

// New creates a server for the given address and handler.
func New(addr string, handler http.Handler) *Server {
	return &Server{
		srv: &http.Server{
			Addr:              addr,
			Handler:           handler,
			ReadHeaderTimeout: 10 * time.Second,
			ReadTimeout:       30 * time.Second,
			WriteTimeout:      30 * time.Second,
			IdleTimeout:       120 * time.Second,
		},
	}
}

// ListenAndServe starts serving. Blocks until the server stops.
func (s *Server) ListenAndServe() error {
	return s.srv.ListenAndServe()
}

// Shutdown gracefully drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	return s.srv.Shutdown(ctx)
}
