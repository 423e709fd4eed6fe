// Package server serves the browser page of jsontree and its JSON API.
//
// The page is a single embedded HTML document. Everything it shows comes
// from a [workspace.Workspace]: the page posts user actions to /api/* and
// redraws from the returned state and from /api/graph.svg.
package server

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"golang.org/x/sync/errgroup"

	"github.com/matzehuels/jsontree/pkg/workspace"
)

// Config holds configuration for the server.
type Config struct {
	Workspace         *workspace.Workspace
	Logger            *log.Logger
	Addr              string
	ReadHeaderTimeout time.Duration
	ShutdownTimeout   time.Duration
}

// Server is the browser UI server.
type Server struct {
	ws     *workspace.Workspace
	logger *log.Logger
	cfg    Config
}

// New creates a server. Zero timeouts get defaults.
func New(cfg Config) *Server {
	if cfg.Logger == nil {
		cfg.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if cfg.Workspace == nil {
		cfg.Workspace = workspace.New(nil, workspace.Options{Logger: cfg.Logger})
	}
	if cfg.ReadHeaderTimeout == 0 {
		cfg.ReadHeaderTimeout = 10 * time.Second
	}
	if cfg.ShutdownTimeout == 0 {
		cfg.ShutdownTimeout = 5 * time.Second
	}
	return &Server{ws: cfg.Workspace, logger: cfg.Logger, cfg: cfg}
}

// Handler returns the router with all middleware and routes.
func (s *Server) Handler() http.Handler {
	r := chi.NewMux()
	r.Use(
		middleware.RequestID,
		requestLogger(s.logger),
		middleware.Recoverer,
		middleware.Compress(5),
	)

	r.Get("/", s.handleIndex)
	r.Route("/api", func(r chi.Router) {
		r.Get("/version", s.handleVersion)
		r.Get("/state", s.handleState)
		r.Post("/generate", s.handleGenerate)
		r.Post("/search", s.handleSearch)
		r.Post("/clear", s.handleClear)
		r.Post("/theme", s.handleTheme)
		r.Post("/copy", s.handleCopy)
		r.Get("/graph.svg", s.handleSVG)
		r.Get("/export.{format}", s.handleExport)
	})
	return r
}

// Serve listens on the configured address and blocks until ctx is
// cancelled, then shuts down gracefully.
func (s *Server) Serve(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.ServeListener(ctx, ln)
}

// ServeListener is Serve on an existing listener, which it closes.
func (s *Server) ServeListener(ctx context.Context, ln net.Listener) error {
	s.logger.Info("serving", "url", "http://"+ln.Addr().String())

	eg, egctx := errgroup.WithContext(ctx)
	srv := &http.Server{
		Handler: s.Handler(),
		BaseContext: func(_ net.Listener) context.Context {
			return egctx
		},
		ReadHeaderTimeout: s.cfg.ReadHeaderTimeout,
	}

	// Start HTTP server
	eg.Go(func() error {
		if err := srv.Serve(ln); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	})

	// Graceful shutdown
	eg.Go(func() error {
		<-egctx.Done()
		shutdownCtx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
		defer cancel()

		s.logger.Debug("shutting down server")
		return srv.Shutdown(shutdownCtx)
	})

	return eg.Wait()
}
