// Package trace walks redirect chains one observed hop at a time.
// The client never follows redirects itself; every hop is probed,
// recorded, and only then does the tracer decide where to go next.
package trace

import (
	"context"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
)

// Tracer performs manual redirect tracing.
type Tracer struct {
	resolver Resolver
	opts     model.Options
}

// New creates a Tracer probing through the given client.
func New(client *http.Client, opts model.Options) *Tracer {
	return &Tracer{resolver: &httpResolver{client: client, opts: opts}, opts: opts}
}

// NewWithResolver creates a Tracer with a custom resolver.
func NewWithResolver(r Resolver, opts model.Options) *Tracer {
	return &Tracer{resolver: r, opts: opts}
}

// Trace follows the chain starting from target until it completes,
// loops, fails, or hits the hop ceiling. The returned chain is never
// empty: even a URL that cannot be requested yields one error hop.
func (t *Tracer) Trace(ctx context.Context, target string) model.Result {
	res := model.Result{URL: target, StartedAt: time.Now()}
	maxHops := t.opts.MaxHops
	if maxHops <= 0 {
		maxHops = model.DefaultMaxHops
	}

	current := target
	arrival := ""
	visited := make(map[string]struct{}, 8)
	for {
		if len(res.Chain) >= maxHops {
			res.Termination = model.TerminationTruncated
			slog.Debug("chain truncated", "url", target, "max_hops", maxHops)
			break
		}
		if _, seen := visited[current]; seen {
			// Revisit detected before any request is sent.
			res.Chain = append(res.Chain, model.LoopHop(current))
			res.Termination = model.TerminationLoop
			break
		}
		visited[current] = struct{}{}

		probe, err := t.resolver.Resolve(ctx, current)
		if err != nil {
			slog.Debug("probe failed", "url", current, "error", err)
			res.Chain = append(res.Chain, model.ErrorHop(current))
			res.Termination = model.TerminationError
			break
		}

		// The starting hop has no arrival mechanism; later hops carry
		// the mechanism of the redirect that led to them.
		hop := probe.Hop
		hop.Via = arrival
		res.Chain = append(res.Chain, hop)

		if probe.Next == "" {
			res.Termination = model.TerminationComplete
			break
		}
		current, arrival = probe.Next, probe.NextVia
	}

	res.DurationMs = time.Since(res.StartedAt).Milliseconds()
	return res
}
