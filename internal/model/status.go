package model

import (
	"encoding/json"
	"fmt"
	"strconv"
)

// Status is either a real HTTP status code or one of the sentinel
// outcomes a trace can end with when no response was obtained.
type Status int

// Sentinel statuses. Negative values never collide with HTTP codes.
const (
	// StatusLoop marks the hop that revisited an already-seen URL.
	StatusLoop Status = -1
	// StatusError marks a hop whose request failed at the transport
	// layer (DNS, TLS, timeout, connection refused).
	StatusError Status = -2
)

var statusLabels = map[Status]string{
	StatusLoop:  "Redirect Loop",
	StatusError: "Connection Error",
	200:         "OK",
	301:         "Moved Permanently",
	302:         "Found",
	303:         "See Other",
	307:         "Temporary Redirect",
	308:         "Permanent Redirect",
	400:         "Bad Request",
	401:         "Unauthorized",
	403:         "Forbidden",
	404:         "Not Found",
	500:         "Internal Server Error",
}

// IsHTTP reports whether the status came from an actual response.
func (s Status) IsHTTP() bool { return s > 0 }

// IsRedirect reports whether the status is one of the redirect codes
// the tracer follows. 304 carries no Location and is excluded.
func (s Status) IsRedirect() bool {
	switch s {
	case 301, 302, 303, 307, 308:
		return true
	}
	return false
}

// Label returns the human-readable description for the status.
func (s Status) Label() string {
	if l, ok := statusLabels[s]; ok {
		return l
	}
	return "Unknown"
}

// String renders HTTP codes as numbers and sentinels as short tags,
// matching how they appear in reports.
func (s Status) String() string {
	switch s {
	case StatusLoop:
		return "Loop"
	case StatusError:
		return "Error"
	}
	return strconv.Itoa(int(s))
}

// MarshalJSON encodes HTTP codes as JSON numbers and sentinel
// statuses as quoted tags so consumers can tell them apart.
func (s Status) MarshalJSON() ([]byte, error) {
	if s.IsHTTP() {
		return []byte(strconv.Itoa(int(s))), nil
	}
	return json.Marshal(s.String())
}

// UnmarshalJSON accepts either encoding produced by MarshalJSON.
func (s *Status) UnmarshalJSON(data []byte) error {
	if n, err := strconv.Atoi(string(data)); err == nil {
		*s = Status(n)
		return nil
	}
	var tag string
	if err := json.Unmarshal(data, &tag); err != nil {
		return fmt.Errorf("status: cannot decode %s", data)
	}
	switch tag {
	case "Loop":
		*s = StatusLoop
	case "Error":
		*s = StatusError
	default:
		return fmt.Errorf("status: unknown tag %q", tag)
	}
	return nil
}
