// Package report projects trace results into the shapes the outputs
// need: spreadsheet rows, JSONL records, HTML views, and counters.
package report

import (
	"time"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
)

// SummaryRow is one line of the executive summary: where a URL ended
// up and how long it took to get there.
type SummaryRow struct {
	OriginalURL string       `json:"original_url"`
	FinalURL    string       `json:"final_url"`
	FinalStatus model.Status `json:"final_status"`
	Server      string       `json:"server"`
	ChainLength int          `json:"chain_length"`
}

// DetailRow is one line of the detailed tracking sheet: a single hop
// of a single URL. Step is 1-based for the spreadsheet audience.
type DetailRow struct {
	OriginalURL string       `json:"original_url"`
	Step        int          `json:"step"`
	HopURL      string       `json:"hop_url"`
	Status      model.Status `json:"status"`
	StatusText  string       `json:"status_text"`
	Server      string       `json:"server"`
}

// Stats are the dashboard counters over a whole run.
type Stats struct {
	Total     int `json:"total"`
	OK        int `json:"ok"`
	NotFound  int `json:"not_found"`
	Failed    int `json:"failed"`
	Truncated int `json:"truncated"`
}

// Record is one line in the JSONL report.
type Record struct {
	Timestamp     string            `json:"timestamp"`
	InputURL      string            `json:"input_url"`
	FinalURL      string            `json:"final_url"`
	FinalStatus   model.Status      `json:"final_status"`
	Termination   model.Termination `json:"termination"`
	RedirectChain []string          `json:"redirect_chain"`
	ChainLength   int               `json:"chain_length"`
	DurationMs    int64             `json:"duration_ms"`
	Advisories    []Advisory        `json:"advisories,omitempty"`
}

// ResultView is used by the HTML template with pre-computed fields.
type ResultView struct {
	Index       int
	StartedAt   time.Time
	InputURL    string
	FinalURL    string
	FinalStatus model.Status
	StatusText  string
	Termination model.Termination
	DurationMs  int64
	Chain       []model.Hop
	Advisories  []Advisory
}

// Summarize builds the executive summary, one row per input URL.
func Summarize(results []model.Result) []SummaryRow {
	rows := make([]SummaryRow, 0, len(results))
	for _, res := range results {
		final := res.Chain.Final()
		rows = append(rows, SummaryRow{
			OriginalURL: res.URL,
			FinalURL:    final.URL,
			FinalStatus: final.Status,
			Server:      final.Server,
			ChainLength: len(res.Chain),
		})
	}
	return rows
}

// Detail flattens every hop of every result into tracking rows.
func Detail(results []model.Result) []DetailRow {
	var rows []DetailRow
	for _, res := range results {
		for i, hop := range res.Chain {
			rows = append(rows, DetailRow{
				OriginalURL: res.URL,
				Step:        i + 1,
				HopURL:      hop.URL,
				Status:      hop.Status,
				StatusText:  hop.StatusText,
				Server:      hop.Server,
			})
		}
	}
	return rows
}

// BuildStats derives the dashboard counters from the results.
func BuildStats(results []model.Result) Stats {
	st := Stats{Total: len(results)}
	for _, res := range results {
		switch res.Termination {
		case model.TerminationLoop, model.TerminationError:
			st.Failed++
			continue
		case model.TerminationTruncated:
			st.Truncated++
			continue
		}
		switch res.Chain.Final().Status {
		case 200:
			st.OK++
		case 404:
			st.NotFound++
		}
	}
	return st
}

// BuildRecord converts a result into a Record for JSONL output.
func BuildRecord(res model.Result) Record {
	final := res.Chain.Final()
	chain := make([]string, len(res.Chain))
	for i, hop := range res.Chain {
		chain[i] = hop.URL
	}
	return Record{
		Timestamp:     res.StartedAt.UTC().Format(time.RFC3339),
		InputURL:      res.URL,
		FinalURL:      final.URL,
		FinalStatus:   final.Status,
		Termination:   res.Termination,
		RedirectChain: chain,
		ChainLength:   len(res.Chain),
		DurationMs:    res.DurationMs,
		Advisories:    Advisories(res),
	}
}

// BuildResultView converts a result into a ResultView for HTML
// rendering.
func BuildResultView(idx int, res model.Result) ResultView {
	final := res.Chain.Final()
	return ResultView{
		Index:       idx + 1,
		StartedAt:   res.StartedAt,
		InputURL:    res.URL,
		FinalURL:    final.URL,
		FinalStatus: final.Status,
		StatusText:  final.StatusText,
		Termination: res.Termination,
		DurationMs:  res.DurationMs,
		Chain:       append([]model.Hop(nil), res.Chain...),
		Advisories:  Advisories(res),
	}
}
