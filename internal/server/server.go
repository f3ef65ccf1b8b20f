// Package server exposes the layout pipeline over HTTP.
//
// Routes:
//
//	GET  /healthz                 liveness probe
//	POST /v1/layout               lay out the posted document, respond with the layout
//	POST /v1/render?format=svg    lay out and render in one format
//	POST /v1/layouts              lay out and persist, respond with {"id": ...}
//	GET  /v1/layouts/{id}         fetch a persisted layout
//	GET  /v1/layouts/{id}/svg     render a persisted layout as SVG
//
// Request bodies are input documents in JSON, or YAML when the Content-Type
// says so. Errors are JSON objects with "code" and "message" fields.
package server

import (
	"context"
	"errors"
	"io"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/procmap/pkg/config"
	"github.com/matzehuels/procmap/pkg/layout"
	"github.com/matzehuels/procmap/pkg/pipeline"
	"github.com/matzehuels/procmap/pkg/store"
)

// shutdownTimeout bounds how long in-flight requests may take once the
// server is asked to stop.
const shutdownTimeout = 10 * time.Second

// defaultSweepInterval is how often expired layouts are removed from the
// store while serving.
const defaultSweepInterval = 10 * time.Minute

// Options configures a Server.
type Options struct {
	Runner *pipeline.Runner
	Store  store.Store
	Logger *log.Logger

	// Config holds the listen address, body limit and timeouts.
	Config config.ServerConfig

	// Defaults applied to every request before query parameters.
	Rect    layout.Rect
	Colors  layout.Palette
	Markers layout.Palette

	// StoreTTL is how long persisted layouts live. Zero keeps them forever.
	StoreTTL time.Duration

	// SweepInterval is how often expired layouts are removed. Zero means
	// every 10 minutes, a negative value disables sweeping.
	SweepInterval time.Duration
}

// Server is the HTTP API. It is safe for concurrent use; every request
// lays out with its own engine.
type Server struct {
	runner *pipeline.Runner
	store  store.Store
	logger *log.Logger
	cfg    config.ServerConfig
	opts   Options
	now    func() time.Time
}

// New creates a server. A nil runner gets a runner without cache, a nil
// store an in-memory store.
func New(opts Options) *Server {
	if opts.Logger == nil {
		opts.Logger = log.NewWithOptions(io.Discard, log.Options{})
	}
	if opts.Runner == nil {
		opts.Runner = pipeline.NewRunner(nil, nil, opts.Logger)
	}
	if opts.Store == nil {
		opts.Store = store.NewMemoryStore()
	}
	defaults := config.Default().Server
	if opts.Config.Addr == "" {
		opts.Config.Addr = defaults.Addr
	}
	if opts.Config.MaxBodyBytes <= 0 {
		opts.Config.MaxBodyBytes = defaults.MaxBodyBytes
	}
	if opts.SweepInterval == 0 {
		opts.SweepInterval = defaultSweepInterval
	}
	return &Server{
		runner: opts.Runner,
		store:  opts.Store,
		logger: opts.Logger,
		cfg:    opts.Config,
		opts:   opts,
		now:    time.Now,
	}
}

// Handler returns the routed HTTP handler.
func (s *Server) Handler() http.Handler {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.Recoverer)

	s.route(r, http.MethodGet, "/healthz", s.handleHealth)
	s.route(r, http.MethodPost, "/v1/layout", s.handleLayout)
	s.route(r, http.MethodPost, "/v1/render", s.handleRender)
	s.route(r, http.MethodPost, "/v1/layouts", s.handleSave)
	s.route(r, http.MethodGet, "/v1/layouts/{id}", s.handleGet)
	s.route(r, http.MethodGet, "/v1/layouts/{id}/svg", s.handleGetSVG)

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, s.logger, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	r.MethodNotAllowed(func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, http.StatusMethodNotAllowed, errorBody{
			Code:    "METHOD_NOT_ALLOWED",
			Message: r.Method + " not allowed on " + r.URL.Path,
		})
	})
	return r
}

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully.
func (s *Server) ListenAndServe(ctx context.Context) error {
	srv := &http.Server{
		Addr:         s.cfg.Addr,
		Handler:      s.Handler(),
		ReadTimeout:  s.cfg.ReadTimeout.Duration,
		WriteTimeout: s.cfg.WriteTimeout.Duration,
	}

	sweepCtx, stopSweep := context.WithCancel(ctx)
	defer stopSweep()
	if s.opts.SweepInterval > 0 {
		go s.sweep(sweepCtx, s.opts.SweepInterval)
	}

	errCh := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", s.cfg.Addr)
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return err
	}
	if err := <-errCh; err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// sweep removes expired layouts every interval until ctx ends.
func (s *Server) sweep(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			if err := s.store.Cleanup(ctx); err != nil && ctx.Err() == nil {
				s.logger.Warn("sweep expired layouts", "err", err)
			}
		}
	}
}
