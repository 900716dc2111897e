package model

import (
	"encoding/json"
	"fmt"
	"time"
)

// ServerNotAvailable is the server field of synthetic hops, which were
// never answered by a real server.
const ServerNotAvailable = "N/A"

// Mechanisms by which the tracer arrived at a hop.
const (
	ViaLocation    = "http-location"
	ViaMetaRefresh = "meta-refresh"
	ViaJavaScript  = "js"
)

// Hop is one observed step of a redirect chain.
type Hop struct {
	URL        string `json:"url"`
	Status     Status `json:"status"`
	StatusText string `json:"status_text"`
	Server     string `json:"server"`
	Via        string `json:"via,omitempty"`
	TimeMs     int64  `json:"time_ms,omitempty"`
}

// LoopHop builds the synthetic hop appended when a URL is revisited.
func LoopHop(rawURL string) Hop {
	return Hop{
		URL:        rawURL,
		Status:     StatusLoop,
		StatusText: StatusLoop.Label(),
		Server:     ServerNotAvailable,
	}
}

// ErrorHop builds the synthetic hop appended when a request fails.
func ErrorHop(rawURL string) Hop {
	return Hop{
		URL:        rawURL,
		Status:     StatusError,
		StatusText: StatusError.Label(),
		Server:     ServerNotAvailable,
	}
}

// Chain is the ordered list of hops for one traced URL. A chain built
// by the tracer is never empty.
type Chain []Hop

// Final returns the last hop of the chain.
func (c Chain) Final() Hop {
	if len(c) == 0 {
		return Hop{}
	}
	return c[len(c)-1]
}

// Termination says why a trace stopped.
type Termination int

const (
	// TerminationComplete means the final hop was a non-redirect
	// response, or a redirect without a usable Location.
	TerminationComplete Termination = iota
	// TerminationLoop means a URL was about to be visited twice.
	TerminationLoop
	// TerminationError means a request failed before a response.
	TerminationError
	// TerminationTruncated means the hop ceiling was reached while
	// redirects were still being issued.
	TerminationTruncated
)

var terminationNames = map[Termination]string{
	TerminationComplete:  "complete",
	TerminationLoop:      "loop",
	TerminationError:     "error",
	TerminationTruncated: "truncated",
}

func (t Termination) String() string {
	if n, ok := terminationNames[t]; ok {
		return n
	}
	return fmt.Sprintf("termination(%d)", int(t))
}

// MarshalJSON encodes the termination as its lowercase name.
func (t Termination) MarshalJSON() ([]byte, error) {
	return json.Marshal(t.String())
}

// UnmarshalJSON decodes a lowercase termination name.
func (t *Termination) UnmarshalJSON(data []byte) error {
	var name string
	if err := json.Unmarshal(data, &name); err != nil {
		return err
	}
	for k, v := range terminationNames {
		if v == name {
			*t = k
			return nil
		}
	}
	return fmt.Errorf("termination: unknown name %q", name)
}

// Result is the full outcome of tracing a single input URL.
type Result struct {
	URL         string      `json:"url"`
	Chain       Chain       `json:"chain"`
	Termination Termination `json:"termination"`
	StartedAt   time.Time   `json:"started_at"`
	DurationMs  int64       `json:"duration_ms"`
}

// ErrorResult synthesizes the result for a URL that could not be
// traced at all, for example because its worker panicked. The chain
// still carries a single hop so downstream reports stay uniform.
func ErrorResult(rawURL string) Result {
	return Result{
		URL:         rawURL,
		Chain:       Chain{ErrorHop(rawURL)},
		Termination: TerminationError,
		StartedAt:   time.Now(),
	}
}
