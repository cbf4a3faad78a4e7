// Package server exposes the chart pipeline over HTTP.
//
// Routes:
//
//	POST /api/v1/chart                full chart (body: pipeline.Options)
//	POST /api/v1/chart/aspects        aspect graph (?format=svg|png|dot)
//	POST /api/v1/chart/{section}      one of divisional, dasha, yogas, strengths, panchanga
//	POST /api/v1/jobs                 compute a full chart asynchronously
//	GET  /api/v1/jobs/{id}            poll a job
//	GET  /health                      liveness
//	GET  /metrics                     Prometheus metrics
//
// Errors are returned as {"code": ..., "message": ...} with a status derived
// from the error kind.
package server

import (
	"context"
	stderrors "errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/charmbracelet/log"
	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/matzehuels/jyotish/pkg/jobs"
	"github.com/matzehuels/jyotish/pkg/observability"
	"github.com/matzehuels/jyotish/pkg/pipeline"
)

// DefaultAddr is the listen address used when Config.Addr is empty.
const DefaultAddr = ":8080"

// Config configures the HTTP server.
type Config struct {
	Addr            string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// MaxBodyBytes caps request bodies.
	MaxBodyBytes int64
}

func (c *Config) setDefaults() {
	if c.Addr == "" {
		c.Addr = DefaultAddr
	}
	if c.ReadTimeout == 0 {
		c.ReadTimeout = 15 * time.Second
	}
	if c.WriteTimeout == 0 {
		c.WriteTimeout = 60 * time.Second
	}
	if c.ShutdownTimeout == 0 {
		c.ShutdownTimeout = 10 * time.Second
	}
	if c.MaxBodyBytes == 0 {
		c.MaxBodyBytes = 1 << 20
	}
}

// Server serves the chart API.
type Server struct {
	cfg     Config
	runner  *pipeline.Runner
	queue   *jobs.Queue
	metrics *observability.Metrics
	logger  *log.Logger
	router  chi.Router
}

// New wires the routes. A nil queue gets an in-memory one; a nil metrics
// disables /metrics.
func New(cfg Config, runner *pipeline.Runner, queue *jobs.Queue, metrics *observability.Metrics, logger *log.Logger) *Server {
	cfg.setDefaults()
	if logger == nil {
		logger = runner.Logger
	}
	if queue == nil {
		queue = jobs.NewQueue(nil, logger)
	}
	s := &Server{
		cfg:     cfg,
		runner:  runner,
		queue:   queue,
		metrics: metrics,
		logger:  logger,
	}
	s.router = s.routes()
	return s
}

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()

	r.Use(requestID)
	r.Use(chimiddleware.RealIP)
	r.Use(s.recoverer)
	r.Use(s.logRequests)

	r.Get("/health", s.handleHealth)
	if s.metrics != nil {
		r.Method(http.MethodGet, "/metrics", s.metrics.Handler())
	}

	r.Route("/api/v1", func(r chi.Router) {
		r.Use(s.limitBody)

		r.Route("/chart", func(r chi.Router) {
			r.Post("/", s.handleChart)
			r.Post("/aspects", s.handleAspects)
			r.Post("/{section}", s.handleSection)
		})
		r.Route("/jobs", func(r chi.Router) {
			r.Post("/", s.handleSubmitJob)
			r.Get("/{id}", s.handleGetJob)
		})
	})

	r.NotFound(func(w http.ResponseWriter, r *http.Request) {
		writeError(w, s.logger, notFound("no route for %s %s", r.Method, r.URL.Path))
	})
	return r
}

// Handler returns the root handler.
func (s *Server) Handler() http.Handler { return s.router }

// ListenAndServe serves until ctx is cancelled, then shuts down gracefully
// and waits for running jobs.
func (s *Server) ListenAndServe(ctx context.Context) error {
	ln, err := net.Listen("tcp", s.cfg.Addr)
	if err != nil {
		return fmt.Errorf("listen %s: %w", s.cfg.Addr, err)
	}
	return s.Serve(ctx, ln)
}

// Serve is ListenAndServe on an existing listener.
func (s *Server) Serve(ctx context.Context, ln net.Listener) error {
	srv := &http.Server{
		Handler:           s.router,
		ReadHeaderTimeout: s.cfg.ReadTimeout,
		ReadTimeout:       s.cfg.ReadTimeout,
		WriteTimeout:      s.cfg.WriteTimeout,
		BaseContext:       func(net.Listener) context.Context { return ctx },
	}

	errc := make(chan error, 1)
	go func() {
		s.logger.Info("listening", "addr", ln.Addr().String())
		errc <- srv.Serve(ln)
	}()

	select {
	case err := <-errc:
		if stderrors.Is(err, http.ErrServerClosed) {
			return nil
		}
		return err
	case <-ctx.Done():
	}

	s.logger.Info("shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.WithoutCancel(ctx), s.cfg.ShutdownTimeout)
	defer cancel()
	if err := srv.Shutdown(shutdownCtx); err != nil {
		return fmt.Errorf("shutdown: %w", err)
	}
	s.queue.Drain()
	return nil
}
