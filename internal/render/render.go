// Package render prints trace results to the console with
// color-coded statuses.
package render

import (
	"fmt"
	"io"

	"github.com/fatih/color"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/report"
)

var (
	green  = color.New(color.FgGreen)
	yellow = color.New(color.FgYellow)
	red    = color.New(color.FgRed)
	gray   = color.New(color.FgHiBlack)
	bold   = color.New(color.Bold)
)

func colorFor(s model.Status) *color.Color {
	switch {
	case !s.IsHTTP():
		return red
	case s == 200:
		return green
	case s >= 300 && s < 400:
		return yellow
	case s >= 400:
		return red
	}
	return gray
}

// Status returns a colorized "302 Found" style string.
func Status(s model.Status) string {
	return colorFor(s).Sprintf("%s %s", s, s.Label())
}

// Chain prints every hop of a result, one line per hop.
func Chain(w io.Writer, idx, total int, res model.Result) {
	fmt.Fprintf(w, "\n[%d/%d] %s\n", idx, total, bold.Sprint(res.URL))
	for i, hop := range res.Chain {
		line := fmt.Sprintf("  %d. %s  %s", i+1, Status(hop.Status), hop.URL)
		if hop.Server != "" && hop.Server != model.ServerNotAvailable {
			line += gray.Sprintf("  [%s]", hop.Server)
		}
		if hop.TimeMs > 0 {
			line += gray.Sprintf("  %dms", hop.TimeMs)
		}
		fmt.Fprintln(w, line)
	}
	switch res.Termination {
	case model.TerminationLoop:
		red.Fprintln(w, "  ! redirect loop detected")
	case model.TerminationError:
		red.Fprintln(w, "  ! connection failed")
	case model.TerminationTruncated:
		yellow.Fprintln(w, "  ! chain truncated at hop ceiling")
	}
}

// Summary prints a one-line digest of a result.
func Summary(w io.Writer, idx, total int, res model.Result) {
	final := res.Chain.Final()
	fmt.Fprintf(w, "[%d/%d] %s -> %s | %s | hops=%d | %dms\n",
		idx, total, res.URL, final.URL, Status(final.Status), len(res.Chain), res.DurationMs)
}

// Stats prints the run counters.
func Stats(w io.Writer, st report.Stats) {
	fmt.Fprintln(w)
	bold.Fprintln(w, "Run summary")
	fmt.Fprintf(w, "  Total URLs      %d\n", st.Total)
	fmt.Fprintf(w, "  Reached 200 OK  %s\n", green.Sprintf("%d", st.OK))
	fmt.Fprintf(w, "  Not Found (404) %s\n", red.Sprintf("%d", st.NotFound))
	fmt.Fprintf(w, "  Loops / Errors  %s\n", red.Sprintf("%d", st.Failed))
	if st.Truncated > 0 {
		fmt.Fprintf(w, "  Truncated       %s\n", yellow.Sprintf("%d", st.Truncated))
	}
}

// Advisories prints any advisories recorded for a result.
func Advisories(w io.Writer, advs []report.Advisory) {
	for _, adv := range advs {
		yellow.Fprintf(w, "  ~ %s at hop %d: %s\n", adv.Type, adv.AtHop, adv.Detail)
	}
}
