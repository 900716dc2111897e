// Package fingerprint derives a short serving-infrastructure label
// from response headers, for the report's Server column.
package fingerprint

import (
	"fmt"
	"net/http"
	"strings"
)

// Unknown is returned when no header reveals the serving stack.
const Unknown = "Unknown"

// Akamai often strips Server but leaks other markers, in header names
// as well as values.
var akamaiMarkers = []string{
	"akamaighost",
	"akamaitechnologies.com",
	"x-akamai-transformed",
}

// Headers that identify the serving stack, most specific first.
var identityHeaders = []string{
	"Server",
	"X-Powered-By",
	"Via",
	"CF-RAY",
	"X-CDN",
}

// Identify labels the responding infrastructure. Akamai markers win
// over everything else; after that the first identity header present
// is reported as "Name: value".
func Identify(h http.Header) string {
	if matchesAkamai(h) {
		return "Akamai"
	}
	for _, name := range identityHeaders {
		if v := h.Get(name); v != "" {
			return fmt.Sprintf("%s: %s", name, v)
		}
	}
	return Unknown
}

func matchesAkamai(h http.Header) bool {
	var b strings.Builder
	for name, values := range h {
		b.WriteString(strings.ToLower(name))
		b.WriteString(": ")
		b.WriteString(strings.ToLower(strings.Join(values, ", ")))
		b.WriteString(" | ")
	}
	combined := b.String()
	for _, marker := range akamaiMarkers {
		if strings.Contains(combined, marker) {
			return true
		}
	}
	return false
}
