package runner_test

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"sync/atomic"
	"testing"
	"time"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/runner"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/trace"
)

// countingResolver answers every URL with a 200 hop and tracks how
// many probes are in flight at once.
type countingResolver struct {
	delay    time.Duration
	inFlight atomic.Int64
	peak     atomic.Int64
	total    atomic.Int64
}

func (c *countingResolver) Resolve(_ context.Context, rawURL string) (trace.Probe, error) {
	cur := c.inFlight.Add(1)
	defer c.inFlight.Add(-1)
	for {
		old := c.peak.Load()
		if cur <= old || c.peak.CompareAndSwap(old, cur) {
			break
		}
	}
	c.total.Add(1)
	if c.delay > 0 {
		time.Sleep(c.delay)
	}
	if strings.Contains(rawURL, "fail") {
		return trace.Probe{}, errors.New("synthetic failure")
	}
	if strings.Contains(rawURL, "panic") {
		panic("resolver exploded")
	}
	hop := model.Hop{URL: rawURL, Status: 200, StatusText: "OK", Server: "Unknown"}
	return trace.Probe{Hop: hop}, nil
}

func newRunner(cfg runner.Config, r trace.Resolver) *runner.Runner {
	return runner.New(cfg, trace.NewWithResolver(r, model.Defaults()))
}

func TestRunPreservesOrder(t *testing.T) {
	t.Parallel()
	targets := make([]string, 50)
	for i := range targets {
		targets[i] = fmt.Sprintf("https://site%02d.test/", i)
	}

	r := newRunner(runner.Config{Workers: 8}, &countingResolver{})
	out := r.Run(context.Background(), targets)

	if len(out) != len(targets) {
		t.Fatalf("got %d results for %d targets", len(out), len(targets))
	}
	for i, res := range out {
		if res.URL != targets[i] {
			t.Errorf("out[%d].URL = %q, want %q", i, res.URL, targets[i])
		}
		if len(res.Chain) == 0 {
			t.Errorf("out[%d] has empty chain", i)
		}
	}
}

func TestRunBoundsConcurrency(t *testing.T) {
	t.Parallel()
	const workers = 4
	targets := make([]string, 40)
	for i := range targets {
		targets[i] = fmt.Sprintf("https://site%02d.test/", i)
	}

	resolver := &countingResolver{delay: 10 * time.Millisecond}
	r := newRunner(runner.Config{Workers: workers}, resolver)
	r.Run(context.Background(), targets)

	if peak := resolver.peak.Load(); peak > workers {
		t.Errorf("observed %d concurrent probes, worker bound is %d", peak, workers)
	}
	if total := resolver.total.Load(); total != int64(len(targets)) {
		t.Errorf("resolved %d probes, want %d", total, len(targets))
	}
}

func TestRunIsolatesFailures(t *testing.T) {
	t.Parallel()
	targets := []string{
		"https://ok-1.test/",
		"https://fail.test/",
		"https://ok-2.test/",
	}
	r := newRunner(runner.Config{Workers: 2}, &countingResolver{})
	out := r.Run(context.Background(), targets)

	if out[0].Termination != model.TerminationComplete {
		t.Errorf("out[0] = %v, want complete", out[0].Termination)
	}
	if out[1].Termination != model.TerminationError {
		t.Errorf("out[1] = %v, want error", out[1].Termination)
	}
	if len(out[1].Chain) != 1 || out[1].Chain[0].Status != model.StatusError {
		t.Errorf("failed target chain = %+v, want single error hop", out[1].Chain)
	}
	if out[2].Termination != model.TerminationComplete {
		t.Errorf("out[2] = %v, want complete", out[2].Termination)
	}
}

func TestRunSurvivesPanic(t *testing.T) {
	t.Parallel()
	targets := []string{
		"https://ok-1.test/",
		"https://panic.test/",
		"https://ok-2.test/",
	}
	r := newRunner(runner.Config{Workers: 2}, &countingResolver{})
	out := r.Run(context.Background(), targets)

	if out[1].Termination != model.TerminationError || len(out[1].Chain) != 1 {
		t.Errorf("panicking target = %+v, want synthesized error result", out[1])
	}
	for _, i := range []int{0, 2} {
		if out[i].Termination != model.TerminationComplete {
			t.Errorf("out[%d] = %v, want complete despite sibling panic", i, out[i].Termination)
		}
	}
}

func TestRunProgressCallback(t *testing.T) {
	t.Parallel()
	targets := []string{"https://a.test/", "https://b.test/", "https://c.test/"}

	var mu sync.Mutex
	var dones []int
	total := 0
	cfg := runner.Config{
		Workers: 3,
		OnProgress: func(done, tot int, _ model.Result) {
			mu.Lock()
			dones = append(dones, done)
			total = tot
			mu.Unlock()
		},
	}
	r := newRunner(cfg, &countingResolver{})
	r.Run(context.Background(), targets)

	if len(dones) != len(targets) {
		t.Fatalf("progress fired %d times, want %d", len(dones), len(targets))
	}
	if total != len(targets) {
		t.Errorf("total = %d, want %d", total, len(targets))
	}
	seen := map[int]bool{}
	for _, d := range dones {
		seen[d] = true
	}
	for want := 1; want <= len(targets); want++ {
		if !seen[want] {
			t.Errorf("missing progress tick %d in %v", want, dones)
		}
	}
}

func TestRunEmptyBatch(t *testing.T) {
	t.Parallel()
	r := newRunner(runner.Config{Workers: 4}, &countingResolver{})
	out := r.Run(context.Background(), nil)
	if len(out) != 0 {
		t.Fatalf("expected no results, got %d", len(out))
	}
}

func TestRunCancelledContextStillFillsSlots(t *testing.T) {
	t.Parallel()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	targets := []string{"https://a.test/", "https://b.test/"}
	r := newRunner(runner.Config{Workers: 1, RateLimit: 1}, &countingResolver{})
	out := r.Run(ctx, targets)

	for i, res := range out {
		if len(res.Chain) == 0 {
			t.Errorf("out[%d] left empty after cancellation", i)
		}
	}
}

func TestRunRateLimitSpacing(t *testing.T) {
	t.Parallel()
	targets := []string{"https://a.test/", "https://b.test/", "https://c.test/", "https://d.test/"}

	resolver := &countingResolver{}
	r := newRunner(runner.Config{Workers: 4, RateLimit: 50}, resolver)
	start := time.Now()
	r.Run(context.Background(), targets)
	elapsed := time.Since(start)

	// 4 probes at 50 rps need at least ~60ms of spacing.
	if elapsed < 50*time.Millisecond {
		t.Errorf("batch finished in %s, rate limit not applied", elapsed)
	}
	if total := resolver.total.Load(); total != int64(len(targets)) {
		t.Errorf("resolved %d probes, want %d", total, len(targets))
	}
}
