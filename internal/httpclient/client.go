// Package httpclient builds the http.Client every probe goes through:
// redirects are never followed automatically, identity headers are
// injected on each attempt, and transport failures are retried with
// backoff. HTTP statuses are audit data and are never retried.
package httpclient

import (
	"crypto/tls"
	"net"
	"net/http"
	"net/url"
	"time"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
)

const toolUserAgent = "redirect-auditor/1.4"

// Config holds settings for the HTTP client.
type Config struct {
	Timeout  time.Duration
	Proxy    func(*http.Request) (*url.URL, error)
	Headers  http.Header
	Insecure bool
	Retries  int
}

// BrowserHeaders is the desktop-browser identity sent when the caller
// wants origins to answer as they would a real visitor.
func BrowserHeaders() http.Header {
	return http.Header{
		"User-Agent":      {"Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/91.0.4472.124 Safari/537.36"},
		"Accept":          {"text/html,application/xhtml+xml,application/xml;q=0.9,image/webp,*/*;q=0.8"},
		"Accept-Language": {"en-US,en;q=0.5"},
		"Cache-Control":   {"no-cache"},
		"Pragma":          {"no-cache"},
	}
}

// PlainHeaders identifies the tool honestly.
func PlainHeaders() http.Header {
	return http.Header{"User-Agent": {toolUserAgent}}
}

// identityRoundTripper wraps a base RoundTripper to inject headers and
// retry transport failures.
type identityRoundTripper struct {
	base    http.RoundTripper
	headers http.Header
	retries int
}

func (t *identityRoundTripper) RoundTrip(req *http.Request) (*http.Response, error) {
	if t.base == nil {
		t.base = http.DefaultTransport
	}

	for attempt := 0; ; attempt++ {
		// Clone the request to avoid mutations across retries
		r := req.Clone(req.Context())
		if req.Body != nil {
			if req.GetBody != nil {
				if body, berr := req.GetBody(); berr == nil {
					r.Body = body
				}
			} else {
				r.Body = req.Body
			}
		}

		for k, vs := range t.headers {
			r.Header.Del(k)
			for _, v := range vs {
				r.Header.Add(k, v)
			}
		}

		resp, err := t.base.RoundTrip(r)
		if err == nil {
			return resp, nil
		}
		if attempt >= t.retries {
			return nil, err
		}
		select {
		case <-req.Context().Done():
			return nil, req.Context().Err()
		case <-time.After(time.Duration(100*(1<<attempt)) * time.Millisecond):
		}
	}
}

// New returns a configured HTTP client with manual redirect handling.
func New(cfg Config) *http.Client {
	transport := &http.Transport{
		Proxy:           cfg.Proxy,
		TLSClientConfig: &tls.Config{InsecureSkipVerify: cfg.Insecure},
		DialContext: (&net.Dialer{
			Timeout:   cfg.Timeout,
			KeepAlive: 30 * time.Second,
		}).DialContext,
		ForceAttemptHTTP2: true,
	}

	return &http.Client{
		Transport: &identityRoundTripper{
			base:    transport,
			headers: cfg.Headers,
			retries: cfg.Retries,
		},
		Timeout: cfg.Timeout,
		CheckRedirect: func(req *http.Request, via []*http.Request) error {
			// every hop must be observed, never chased
			return http.ErrUseLastResponse
		},
	}
}

// FromOptions maps trace options onto a ready client.
func FromOptions(o model.Options) (*http.Client, error) {
	cfg := Config{
		Timeout:  o.Timeout,
		Insecure: o.Insecure,
		Retries:  o.Retries,
		Headers:  PlainHeaders(),
	}
	if o.BrowserHeaders {
		cfg.Headers = BrowserHeaders()
	}
	if o.Proxy != "" {
		proxyURL, err := url.Parse(o.Proxy)
		if err != nil {
			return nil, err
		}
		cfg.Proxy = http.ProxyURL(proxyURL)
	}
	return New(cfg), nil
}
