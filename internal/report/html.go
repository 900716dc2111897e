package report

import (
	"html/template"
	"io"
	"sort"
	"time"
)

// Param represents a rendered run parameter.
type Param struct {
	Key   string
	Value string
}

// PageData provides the full context for the HTML report.
type PageData struct {
	Title         string
	GeneratedAt   time.Time
	Params        map[string]string
	OrderedParams []Param
	Stats         Stats
	Results       []ResultView
}

var htmlTemplate = template.Must(template.New("report").Funcs(template.FuncMap{
	"formatTime": func(t time.Time) string { return t.UTC().Format(time.RFC3339) },
	"inc":        func(i int) int { return i + 1 },
	"statusClass": func(v ResultView) string {
		switch {
		case !v.FinalStatus.IsHTTP():
			return "failed"
		case v.FinalStatus == 200:
			return "ok"
		case v.FinalStatus >= 300 && v.FinalStatus < 400:
			return "redirect"
		default:
			return "broken"
		}
	},
}).Parse(`<!doctype html>
<html lang="en">
<head>
<meta charset="utf-8">
<meta name="viewport" content="width=device-width, initial-scale=1">
<title>{{.Title}}</title>
<style>
:root { color-scheme: light dark; }
body { font-family: system-ui, -apple-system, Segoe UI, Roboto, sans-serif; margin: 24px; background:#fafafa; color:#111; }
header { margin-bottom: 24px; }
h1 { font-size: 26px; margin: 0 0 8px; }
.section { border:1px solid #e5e7eb; border-radius:16px; padding:16px 20px; margin-bottom:18px; background:#fff; }
h2 { font-size:20px; margin:0 0 12px; }
dt { font-weight:600; }
dd { margin:0 0 8px 0; }
.cards { display:grid; gap:12px; grid-template-columns: repeat(auto-fit,minmax(160px,1fr)); }
.card { padding:12px; border-radius:12px; border:1px solid #cbd5f5; background:linear-gradient(180deg,#eef2ff,#fff); }
.card .count { font-size:24px; font-weight:700; display:block; }
.meta { color:#6b7280; font-size:12px; }
.table { width:100%; border-collapse:collapse; font-size:14px; }
.table th, .table td { border-bottom:1px solid #e5e7eb; padding:6px 8px; text-align:left; }
.table th { background:#f9fafb; }
.url { font-family: ui-monospace, SFMono-Regular, Menlo, Consolas, monospace; font-size:13px; }
.badge { display:inline-block; padding:2px 8px; border-radius:999px; font-size:12px; margin-left:6px; background:#e5e7eb; }
.badge.ok { background:#e2efda; }
.badge.redirect { background:#fff2cc; }
.badge.broken { background:#fce4d6; }
.badge.failed { background:#fecaca; }
.advisory { color:#b45309; font-size:13px; }
.footer { text-align:center; font-size:12px; color:#6b7280; margin-top:24px; }
@media (prefers-color-scheme: dark) {
        body { background:#0f172a; color:#e2e8f0; }
        .section { background:#1e293b; border-color:#334155; }
        .card { background:linear-gradient(180deg,#312e81,#1e293b); border-color:#4338ca; color:#e0e7ff; }
        .meta { color:#94a3b8; }
        .table th { background:#1e293b; }
        .badge { background:#475569; color:#e2e8f0; }
}
</style>
</head>
<body>
<header>
  <h1>{{.Title}}</h1>
  <p class="meta">Generated at {{formatTime .GeneratedAt}}</p>
</header>
<section id="summary" class="section">
  <h2>Summary</h2>
  <div class="cards">
    <div class="card"><span class="count">{{.Stats.Total}}</span>Total URLs</div>
    <div class="card"><span class="count">{{.Stats.OK}}</span>Reached 200 OK</div>
    <div class="card"><span class="count">{{.Stats.NotFound}}</span>Not Found (404)</div>
    <div class="card"><span class="count">{{.Stats.Failed}}</span>Loops / Errors</div>
    <div class="card"><span class="count">{{.Stats.Truncated}}</span>Truncated</div>
  </div>
</section>
{{if .OrderedParams}}
<section id="parameters" class="section">
  <h2>Parameters</h2>
  <dl>
  {{- range .OrderedParams }}
    <dt>{{.Key}}</dt>
    <dd><span class="url">{{.Value}}</span></dd>
  {{- end }}
  </dl>
</section>
{{end}}
<section id="chains" class="section">
  <h2>Redirect Chains</h2>
  {{range .Results}}
    <details open>
      <summary><span class="url">{{.InputURL}}</span> → <span class="url">{{.FinalURL}}</span>
        <span class="badge {{statusClass .}}">{{.FinalStatus}} {{.StatusText}}</span>
        <span class="meta">{{len .Chain}} hops • {{.Termination}} • {{.DurationMs}}ms</span>
      </summary>
      <table class="table">
        <thead>
          <tr><th>Step</th><th>URL</th><th>Status</th><th>Description</th><th>Server</th><th>Time (ms)</th></tr>
        </thead>
        <tbody>
        {{range $i, $hop := .Chain}}
          <tr>
            <td>{{inc $i}}</td>
            <td class="url">{{$hop.URL}}</td>
            <td>{{$hop.Status}}</td>
            <td>{{$hop.StatusText}}</td>
            <td>{{$hop.Server}}</td>
            <td>{{$hop.TimeMs}}</td>
          </tr>
        {{end}}
        </tbody>
      </table>
      {{if .Advisories}}
      <ul>
        {{range .Advisories}}
        <li class="advisory">{{.Type}} at hop {{.AtHop}}: {{.Detail}}</li>
        {{end}}
      </ul>
      {{end}}
    </details>
  {{end}}
</section>
<footer class="footer">
  Report generated at {{formatTime .GeneratedAt}}
</footer>
</body>
</html>
`))

// RenderHTML renders the HTML report using the provided data.
func RenderHTML(w io.Writer, data PageData) error {
	if data.Params != nil {
		keys := make([]string, 0, len(data.Params))
		for k := range data.Params {
			keys = append(keys, k)
		}
		sort.Strings(keys)
		ordered := make([]Param, 0, len(keys))
		for _, k := range keys {
			ordered = append(ordered, Param{Key: k, Value: data.Params[k]})
		}
		data.OrderedParams = ordered
	}
	return htmlTemplate.Execute(w, data)
}
