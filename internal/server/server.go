// Package server exposes task generation and export over HTTP.
package server

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/abhisek/clil/internal/config"
	"github.com/abhisek/clil/internal/export"
	"github.com/abhisek/clil/internal/logger"
	"github.com/abhisek/clil/internal/taskgen"
)

// Deps are the collaborators the handlers need.
type Deps struct {
	Generator taskgen.Generator
	Renderer  *export.Renderer
	Log       *logger.Logger
}

// Server wraps the gin router in an http.Server.
type Server struct {
	cfg    config.ServerConfig
	log    *logger.Logger
	server *http.Server
}

// New wires routes and middleware. It does not start listening.
func New(cfg config.ServerConfig, deps Deps) *Server {
	log := deps.Log
	if log == nil {
		log = logger.Nop()
	}
	h := &handlers{gen: deps.Generator, renderer: deps.Renderer, log: log}

	return &Server{
		cfg: cfg,
		log: log,
		server: &http.Server{
			Addr:              cfg.Addr,
			Handler:           newRouter(cfg.AllowedOrigin, h),
			ReadHeaderTimeout: 10 * time.Second,
		},
	}
}

// Handler returns the routed handler, for tests and embedding.
func (s *Server) Handler() http.Handler {
	return s.server.Handler
}

// Run listens on the configured address and serves until ctx is done,
// then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen on %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve serves on ln until ctx is done. In-flight requests get up to the
// configured shutdown timeout to finish.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	errCh := make(chan error, 1)
	go func() {
		s.log.Info("listening", "addr", ln.Addr().String())
		errCh <- s.server.Serve(ln)
	}()

	select {
	case err := <-errCh:
		if errors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.log.Info("shutting down", "timeout", s.cfg.ShutdownTimeout.String())
	timeout := s.cfg.ShutdownTimeout
	if timeout <= 0 {
		timeout = 10 * time.Second
	}
	shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
	defer cancel()

	if err := s.server.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}
