package model

import (
	"fmt"
	"time"
)

// Default knobs for a trace run.
const (
	DefaultTimeout = 10 * time.Second
	DefaultWorkers = 20
	DefaultMaxHops = 30
)

// Options controls how URLs are probed and how a batch is dispatched.
// The zero value is not usable; start from Defaults.
type Options struct {
	// BrowserHeaders sends a desktop browser identity instead of the
	// tool's own User-Agent. Some edges answer 403 to anything else.
	BrowserHeaders bool `json:"browser_headers"`

	// Insecure disables TLS certificate verification.
	Insecure bool `json:"insecure"`

	// UseHead probes with HEAD instead of GET, falling back to GET
	// when the origin rejects the method.
	UseHead bool `json:"use_head"`

	// FollowHTML additionally follows meta-refresh and trivial
	// JavaScript redirects found in HTML bodies of 200 responses.
	FollowHTML bool `json:"follow_html"`

	// Timeout bounds each individual request.
	Timeout time.Duration `json:"timeout"`

	// Workers is the number of URLs traced concurrently.
	Workers int `json:"workers"`

	// MaxHops caps the chain length of a single trace.
	MaxHops int `json:"max_hops"`

	// RateLimit caps outgoing requests per second across all
	// workers. Zero means unlimited.
	RateLimit int `json:"rate_limit"`

	// Retries is how many times a failed request is re-sent before
	// the hop is recorded as a connection error. Only transport
	// failures are retried; any HTTP status is a final answer.
	Retries int `json:"retries"`

	// Proxy is an optional proxy URL applied to every request.
	Proxy string `json:"proxy,omitempty"`
}

// Defaults returns the options used when the caller specifies nothing.
func Defaults() Options {
	return Options{
		BrowserHeaders: true,
		Timeout:        DefaultTimeout,
		Workers:        DefaultWorkers,
		MaxHops:        DefaultMaxHops,
	}
}

// Validate rejects values the runner cannot honor.
func (o Options) Validate() error {
	if o.Timeout <= 0 {
		return fmt.Errorf("timeout must be greater than zero (got %s)", o.Timeout)
	}
	if o.Workers <= 0 {
		return fmt.Errorf("workers must be greater than zero (got %d)", o.Workers)
	}
	if o.MaxHops <= 0 {
		return fmt.Errorf("max hops must be greater than zero (got %d)", o.MaxHops)
	}
	if o.RateLimit < 0 {
		return fmt.Errorf("rate limit cannot be negative (got %d)", o.RateLimit)
	}
	if o.Retries < 0 {
		return fmt.Errorf("retries cannot be negative (got %d)", o.Retries)
	}
	return nil
}
