// Package runner dispatches a batch of URLs across a bounded pool of
// tracing workers. One misbehaving URL never takes the batch down.
package runner

import (
	"context"
	"log/slog"
	"sync"

	"golang.org/x/time/rate"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/trace"
)

// Progress is invoked after each completed trace. done counts finished
// URLs, total is the batch size. Implementations must be safe for
// concurrent use by multiple workers.
type Progress func(done, total int, res model.Result)

// Config holds settings for the runner.
type Config struct {
	Workers    int
	RateLimit  int // requests per second across the pool, 0 = unlimited
	OnProgress Progress
}

// Runner coordinates concurrent traces.
type Runner struct {
	cfg    Config
	tracer *trace.Tracer
}

// New creates a new Runner.
func New(cfg Config, tracer *trace.Tracer) *Runner {
	return &Runner{cfg: cfg, tracer: tracer}
}

// Run traces every target and returns results in input order:
// out[i] always belongs to targets[i]. Every slot is populated even
// when a worker panics or the context is cancelled mid-batch.
func (r *Runner) Run(ctx context.Context, targets []string) []model.Result {
	out := make([]model.Result, len(targets))
	if len(targets) == 0 {
		return out
	}

	workers := r.cfg.Workers
	if workers <= 0 {
		workers = 1
	}
	if workers > len(targets) {
		workers = len(targets)
	}

	var limiter *rate.Limiter
	if r.cfg.RateLimit > 0 {
		limiter = rate.NewLimiter(rate.Limit(r.cfg.RateLimit), 1)
	}

	type job struct {
		idx    int
		target string
	}

	jobs := make(chan job)
	mu := &sync.Mutex{}
	done := 0
	wg := sync.WaitGroup{}
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for jb := range jobs {
				if limiter != nil {
					if err := limiter.Wait(ctx); err != nil {
						return
					}
				}
				res := r.traceOne(ctx, jb.target)
				mu.Lock()
				out[jb.idx] = res
				done++
				if r.cfg.OnProgress != nil {
					r.cfg.OnProgress(done, len(targets), res)
				}
				mu.Unlock()
			}
		}()
	}

	go func() {
		defer close(jobs)
		for i, t := range targets {
			select {
			case jobs <- job{idx: i, target: t}:
			case <-ctx.Done():
				return
			}
		}
	}()

	wg.Wait()

	// Slots skipped by cancellation still get a terminal chain.
	for i := range out {
		if out[i].Chain == nil {
			out[i] = model.ErrorResult(targets[i])
		}
	}
	return out
}

// traceOne shields the pool from a panicking trace.
func (r *Runner) traceOne(ctx context.Context, target string) (res model.Result) {
	defer func() {
		if rec := recover(); rec != nil {
			slog.Error("trace panicked", "url", target, "panic", rec)
			res = model.ErrorResult(target)
		}
	}()
	return r.tracer.Trace(ctx, target)
}
