package server

import (
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"time"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/httpclient"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/input"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/report"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/runner"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/trace"
)

const maxRequestBody = 1 << 20

type auditRequest struct {
	URLs    []string      `json:"urls"`
	Exclude []string      `json:"exclude,omitempty"`
	Options *auditOptions `json:"options,omitempty"`
}

// auditOptions mirrors model.Options with request-friendly types.
// BrowserHeaders is a pointer so an omitted field keeps the default.
type auditOptions struct {
	BrowserHeaders *bool `json:"browser_headers,omitempty"`
	Insecure       bool  `json:"insecure,omitempty"`
	UseHead        bool  `json:"use_head,omitempty"`
	FollowHTML     bool  `json:"follow_html,omitempty"`
	TimeoutSeconds int   `json:"timeout_seconds,omitempty"`
	Workers        int   `json:"workers,omitempty"`
	MaxHops        int   `json:"max_hops,omitempty"`
	RateLimit      int   `json:"rate_limit,omitempty"`
	Retries        int   `json:"retries,omitempty"`
}

type auditResponse struct {
	Stats   report.Stats        `json:"stats"`
	Summary []report.SummaryRow `json:"summary"`
	Results []model.Result      `json:"results"`
	// Advisories are keyed by input URL; inputs are deduplicated
	// before dispatch so keys are unique.
	Advisories map[string][]report.Advisory `json:"advisories,omitempty"`
	Duration   string                       `json:"duration"`
}

type errorResponse struct {
	Error string `json:"error"`
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) handleAudit(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, errorResponse{Error: "method not allowed"})
		return
	}
	if !s.limiter.allow(clientIP(r)) {
		writeJSON(w, http.StatusTooManyRequests, errorResponse{Error: "rate limit exceeded"})
		return
	}

	var req auditRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxRequestBody))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "invalid request: " + err.Error()})
		return
	}

	urls, err := input.Normalize(req.URLs, req.Exclude)
	if err != nil {
		status := http.StatusBadRequest
		if errors.Is(err, input.ErrNoURLs) {
			status = http.StatusUnprocessableEntity
		}
		writeJSON(w, status, errorResponse{Error: err.Error()})
		return
	}
	if len(urls) > s.cfg.MaxBatch {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: "batch too large"})
		return
	}

	opts, err := s.toOptions(req.Options)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	if !s.runs.TryAcquire(1) {
		writeJSON(w, http.StatusServiceUnavailable, errorResponse{Error: "too many concurrent audits"})
		return
	}
	defer s.runs.Release(1)

	client, err := httpclient.FromOptions(opts)
	if err != nil {
		writeJSON(w, http.StatusBadRequest, errorResponse{Error: err.Error()})
		return
	}

	start := time.Now()
	run := runner.New(runner.Config{Workers: opts.Workers, RateLimit: opts.RateLimit}, trace.New(client, opts))
	results := run.Run(r.Context(), urls)

	slog.Info("audit finished",
		"urls", len(urls),
		"workers", opts.Workers,
		"duration", time.Since(start).Round(time.Millisecond).String(),
	)

	advisories := make(map[string][]report.Advisory)
	for _, res := range results {
		if advs := report.Advisories(res); len(advs) > 0 {
			advisories[res.URL] = advs
		}
	}

	writeJSON(w, http.StatusOK, auditResponse{
		Stats:      report.BuildStats(results),
		Summary:    report.Summarize(results),
		Results:    results,
		Advisories: advisories,
		Duration:   time.Since(start).Round(time.Millisecond).String(),
	})
}

// toOptions merges request options over the defaults and clamps them
// to the server's ceilings.
func (s *Server) toOptions(in *auditOptions) (model.Options, error) {
	opts := model.Defaults()
	if in != nil {
		if in.BrowserHeaders != nil {
			opts.BrowserHeaders = *in.BrowserHeaders
		}
		opts.Insecure = in.Insecure
		opts.UseHead = in.UseHead
		opts.FollowHTML = in.FollowHTML
		if in.TimeoutSeconds > 0 {
			opts.Timeout = time.Duration(in.TimeoutSeconds) * time.Second
		}
		if in.Workers > 0 {
			opts.Workers = in.Workers
		}
		if in.MaxHops > 0 {
			opts.MaxHops = in.MaxHops
		}
		opts.RateLimit = in.RateLimit
		opts.Retries = in.Retries
	}
	if opts.Workers > s.cfg.MaxWorkers {
		opts.Workers = s.cfg.MaxWorkers
	}
	if opts.Timeout > s.cfg.MaxTimeout {
		opts.Timeout = s.cfg.MaxTimeout
	}
	if err := opts.Validate(); err != nil {
		return model.Options{}, err
	}
	return opts, nil
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Error("write response", "error", err)
	}
}
