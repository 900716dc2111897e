package report

import (
	"bufio"
	"encoding/json"
	"io"
	"sync"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
)

// JSONLWriter writes one Record per line as JSON.
type JSONLWriter struct {
	w   *bufio.Writer
	enc *json.Encoder
	mu  sync.Mutex
}

// NewJSONLWriter wraps an io.Writer with buffering.
func NewJSONLWriter(w io.Writer) *JSONLWriter {
	bw := bufio.NewWriter(w)
	enc := json.NewEncoder(bw)
	// For stable lines without extra escapes.
	enc.SetEscapeHTML(false)
	return &JSONLWriter{w: bw, enc: enc}
}

// Write writes a single result as a JSON line.
func (j *JSONLWriter) Write(res model.Result) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.enc.Encode(BuildRecord(res))
}

// Flush flushes the underlying buffer.
func (j *JSONLWriter) Flush() error {
	j.mu.Lock()
	defer j.mu.Unlock()
	return j.w.Flush()
}

// WriteJSONL writes every result to w, one JSON line each.
func WriteJSONL(w io.Writer, results []model.Result) error {
	jw := NewJSONLWriter(w)
	for _, res := range results {
		if err := jw.Write(res); err != nil {
			return err
		}
	}
	return jw.Flush()
}
