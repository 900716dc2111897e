// Package server exposes the auditor over HTTP: POST a batch of URLs,
// get the traced chains and summary back as JSON.
package server

import (
	"context"
	"net/http"
	"time"

	"golang.org/x/sync/semaphore"
)

// Config holds the server knobs. Zero values fall back to defaults.
type Config struct {
	Addr string

	// RatePerMinute is the per-client budget for /audit requests.
	RatePerMinute int

	// MaxConcurrent caps simultaneous audit runs; extra requests get
	// 503 instead of queueing behind someone else's batch.
	MaxConcurrent int64

	// MaxBatch caps the number of URLs per request.
	MaxBatch int

	// MaxWorkers and MaxTimeout clamp what a request may ask for.
	MaxWorkers int
	MaxTimeout time.Duration
}

func (c *Config) applyDefaults() {
	if c.Addr == "" {
		c.Addr = ":8080"
	}
	if c.RatePerMinute <= 0 {
		c.RatePerMinute = 30
	}
	if c.MaxConcurrent <= 0 {
		c.MaxConcurrent = 4
	}
	if c.MaxBatch <= 0 {
		c.MaxBatch = 500
	}
	if c.MaxWorkers <= 0 {
		c.MaxWorkers = 50
	}
	if c.MaxTimeout <= 0 {
		c.MaxTimeout = 30 * time.Second
	}
}

// Server wires the handlers, limits, and the underlying http.Server.
type Server struct {
	cfg     Config
	httpSrv *http.Server
	limiter *ipLimiter
	runs    *semaphore.Weighted
}

// New builds a ready-to-listen server.
func New(cfg Config) *Server {
	cfg.applyDefaults()
	s := &Server{
		cfg:     cfg,
		limiter: newIPLimiter(cfg.RatePerMinute),
		runs:    semaphore.NewWeighted(cfg.MaxConcurrent),
	}

	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/audit", enableCORS(logRequests(s.handleAudit)))

	s.httpSrv = &http.Server{
		Addr:              cfg.Addr,
		Handler:           mux,
		ReadHeaderTimeout: 5 * time.Second,
		ReadTimeout:       10 * time.Second,
		// Audits of large batches against slow origins take a while.
		WriteTimeout: 180 * time.Second,
	}
	return s
}

// Handler exposes the routed handler, mainly for tests.
func (s *Server) Handler() http.Handler { return s.httpSrv.Handler }

// ListenAndServe blocks serving requests until Shutdown.
func (s *Server) ListenAndServe() error { return s.httpSrv.ListenAndServe() }

// Shutdown drains in-flight requests.
func (s *Server) Shutdown(ctx context.Context) error {
	s.limiter.stop()
	return s.httpSrv.Shutdown(ctx)
}
