package trace

import (
	"context"
	"net/http"
	"net/url"
	"time"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/fingerprint"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/htmlscan"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
)

// Resolver issues exactly one unredirected probe for a URL and
// interprets the outcome.
type Resolver interface {
	Resolve(ctx context.Context, rawURL string) (Probe, error)
}

// Probe is the interpreted outcome of a single probe. Next is the
// absolute URL the response points at, or empty when the response
// terminates the chain. NextVia records the redirect mechanism for
// the hop that Next will become.
type Probe struct {
	Hop     model.Hop
	Next    string
	NextVia string
}

type httpResolver struct {
	client *http.Client
	opts   model.Options
}

func (r *httpResolver) Resolve(ctx context.Context, rawURL string) (Probe, error) {
	method := http.MethodGet
	if r.opts.UseHead {
		method = http.MethodHead
	}

	start := time.Now()
	resp, err := r.do(ctx, method, rawURL)
	if err != nil {
		return Probe{}, err
	}
	defer resp.Body.Close()

	status := model.Status(resp.StatusCode)
	hop := model.Hop{
		URL:        rawURL,
		Status:     status,
		StatusText: status.Label(),
		Server:     fingerprint.Identify(resp.Header),
		TimeMs:     time.Since(start).Milliseconds(),
	}

	base := resp.Request.URL
	if status.IsRedirect() {
		next, ok := nextFromLocation(base, resp.Header.Get("Location"))
		if !ok {
			// A redirect with no usable destination ends the chain.
			return Probe{Hop: hop}, nil
		}
		return Probe{Hop: hop, Next: next, NextVia: model.ViaLocation}, nil
	}

	if r.opts.FollowHTML && method == http.MethodGet && htmlscan.IsHTML(resp.Header.Get("Content-Type")) {
		if next, via, ok := htmlscan.ReadAndDetect(resp.Body, base); ok {
			return Probe{Hop: hop, Next: next.String(), NextVia: via}, nil
		}
	}
	return Probe{Hop: hop}, nil
}

// do sends the probe. Origins that reject HEAD get one GET retry so a
// HEAD-mode run still observes the hop.
func (r *httpResolver) do(ctx context.Context, method, rawURL string) (*http.Response, error) {
	req, err := http.NewRequestWithContext(ctx, method, rawURL, nil)
	if err != nil {
		return nil, err
	}
	resp, err := r.client.Do(req)
	if err != nil {
		return nil, err
	}
	if method == http.MethodHead && resp.StatusCode == http.StatusMethodNotAllowed {
		_ = resp.Body.Close()
		req, err = http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
		if err != nil {
			return nil, err
		}
		return r.client.Do(req)
	}
	return resp, nil
}

// nextFromLocation resolves a Location value against the hop that
// issued it. Relative values are the common case on legacy sites.
func nextFromLocation(base *url.URL, location string) (string, bool) {
	if location == "" {
		return "", false
	}
	ref, err := url.Parse(location)
	if err != nil {
		return "", false
	}
	if base == nil {
		if !ref.IsAbs() {
			return "", false
		}
		return ref.String(), true
	}
	return base.ResolveReference(ref).String(), true
}
