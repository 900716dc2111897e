package server

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
)

func newTestServer(t *testing.T, cfg Config) *httptest.Server {
	t.Helper()
	s := New(cfg)
	ts := httptest.NewServer(s.Handler())
	t.Cleanup(ts.Close)
	t.Cleanup(func() { s.limiter.stop() })
	return ts
}

func newTargetServer(t *testing.T) *httptest.Server {
	t.Helper()
	mux := http.NewServeMux()
	mux.HandleFunc("/302", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/final", http.StatusFound)
	})
	mux.HandleFunc("/final", func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Server", "nginx")
		w.WriteHeader(http.StatusOK)
	})
	mux.HandleFunc("/slow", func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(250 * time.Millisecond)
		w.WriteHeader(http.StatusOK)
	})
	ts := httptest.NewServer(mux)
	t.Cleanup(ts.Close)
	return ts
}

func postAudit(t *testing.T, api string, body string) *http.Response {
	t.Helper()
	resp, err := http.Post(api+"/audit", "application/json", strings.NewReader(body))
	if err != nil {
		t.Fatalf("post audit: %v", err)
	}
	return resp
}

func TestHealthz(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/healthz")
	if err != nil {
		t.Fatalf("get healthz: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var body map[string]string
	if err := json.NewDecoder(resp.Body).Decode(&body); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if body["status"] != "ok" {
		t.Errorf("body = %v", body)
	}
}

func TestAuditHappyPath(t *testing.T) {
	target := newTargetServer(t)
	ts := newTestServer(t, Config{})

	reqBody := fmt.Sprintf(`{"urls":[%q],"options":{"timeout_seconds":5,"workers":2}}`, target.URL+"/302")
	resp := postAudit(t, ts.URL, reqBody)
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	var out auditResponse
	if err := json.NewDecoder(resp.Body).Decode(&out); err != nil {
		t.Fatalf("decode: %v", err)
	}
	if out.Stats.Total != 1 || out.Stats.OK != 1 {
		t.Errorf("stats = %+v", out.Stats)
	}
	if len(out.Results) != 1 {
		t.Fatalf("results = %d", len(out.Results))
	}
	res := out.Results[0]
	if len(res.Chain) != 2 || res.Chain[0].Status != 302 || res.Chain[1].Status != 200 {
		t.Errorf("chain = %+v", res.Chain)
	}
	if res.Termination != model.TerminationComplete {
		t.Errorf("termination = %v", res.Termination)
	}
	if len(out.Summary) != 1 || out.Summary[0].FinalURL != target.URL+"/final" {
		t.Errorf("summary = %+v", out.Summary)
	}
	// The target is a loopback address, so every hop is flagged.
	if advs := out.Advisories[target.URL+"/302"]; len(advs) == 0 {
		t.Error("expected internal-host advisories for a loopback target")
	}
}

func TestAuditRejectsBadInput(t *testing.T) {
	ts := newTestServer(t, Config{})

	tests := []struct {
		name string
		body string
		want int
	}{
		{"malformed json", `{"urls": [`, http.StatusBadRequest},
		{"unknown field", `{"addresses":["https://a.test/"]}`, http.StatusBadRequest},
		{"invalid url", `{"urls":["ftp://files.test/"]}`, http.StatusBadRequest},
		{"empty batch", `{"urls":[]}`, http.StatusUnprocessableEntity},
		{"bad options", `{"urls":["https://a.test/"],"options":{"retries":-1}}`, http.StatusBadRequest},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			resp := postAudit(t, ts.URL, tt.body)
			defer resp.Body.Close()
			if resp.StatusCode != tt.want {
				t.Errorf("status = %d, want %d", resp.StatusCode, tt.want)
			}
		})
	}
}

func TestAuditMethodNotAllowed(t *testing.T) {
	ts := newTestServer(t, Config{})
	resp, err := http.Get(ts.URL + "/audit")
	if err != nil {
		t.Fatalf("get audit: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Fatalf("status = %d", resp.StatusCode)
	}
}

func TestAuditRateLimit(t *testing.T) {
	ts := newTestServer(t, Config{RatePerMinute: 2})

	for i := 0; i < 2; i++ {
		resp := postAudit(t, ts.URL, `{"urls":[]}`)
		resp.Body.Close()
		if resp.StatusCode == http.StatusTooManyRequests {
			t.Fatalf("request %d rate limited too early", i+1)
		}
	}
	resp := postAudit(t, ts.URL, `{"urls":[]}`)
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusTooManyRequests {
		t.Fatalf("status = %d, want 429", resp.StatusCode)
	}
}

func TestAuditConcurrencyCeiling(t *testing.T) {
	target := newTargetServer(t)
	ts := newTestServer(t, Config{MaxConcurrent: 1, RatePerMinute: 100})

	firstDone := make(chan int, 1)
	go func() {
		resp := postAudit(t, ts.URL, fmt.Sprintf(`{"urls":[%q]}`, target.URL+"/slow"))
		defer resp.Body.Close()
		firstDone <- resp.StatusCode
	}()

	time.Sleep(100 * time.Millisecond)
	resp := postAudit(t, ts.URL, fmt.Sprintf(`{"urls":[%q]}`, target.URL+"/final"))
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusServiceUnavailable {
		t.Errorf("second audit status = %d, want 503", resp.StatusCode)
	}
	if got := <-firstDone; got != http.StatusOK {
		t.Errorf("first audit status = %d, want 200", got)
	}
}

func TestCORSPreflight(t *testing.T) {
	ts := newTestServer(t, Config{})
	req, err := http.NewRequest(http.MethodOptions, ts.URL+"/audit", nil)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		t.Fatalf("preflight: %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusNoContent {
		t.Fatalf("status = %d", resp.StatusCode)
	}
	if got := resp.Header.Get("Access-Control-Allow-Origin"); got != "*" {
		t.Errorf("allow-origin = %q", got)
	}
}

func TestToOptionsClamping(t *testing.T) {
	s := New(Config{MaxWorkers: 10, MaxTimeout: 5 * time.Second})
	defer s.limiter.stop()

	browser := false
	opts, err := s.toOptions(&auditOptions{
		BrowserHeaders: &browser,
		Workers:        200,
		TimeoutSeconds: 600,
		MaxHops:        7,
	})
	if err != nil {
		t.Fatalf("toOptions: %v", err)
	}
	if opts.Workers != 10 {
		t.Errorf("workers = %d, want clamped to 10", opts.Workers)
	}
	if opts.Timeout != 5*time.Second {
		t.Errorf("timeout = %s, want clamped to 5s", opts.Timeout)
	}
	if opts.BrowserHeaders {
		t.Error("browser headers should be disabled when requested")
	}
	if opts.MaxHops != 7 {
		t.Errorf("max hops = %d", opts.MaxHops)
	}

	defaults, err := s.toOptions(nil)
	if err != nil {
		t.Fatalf("toOptions(nil): %v", err)
	}
	if !defaults.BrowserHeaders || defaults.Workers != model.DefaultWorkers {
		t.Errorf("defaults = %+v", defaults)
	}
}
