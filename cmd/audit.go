package cmd

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/spf13/cobra"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/banner"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/httpclient"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/input"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/render"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/report"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/runner"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/storage"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/trace"
)

type auditFlags struct {
	file       string
	exclude    []string
	browser    bool
	insecure   bool
	useHead    bool
	followHTML bool
	timeout    time.Duration
	workers    int
	maxHops    int
	rateLimit  int
	retries    int
	proxy      string

	excelOut string
	jsonlOut string
	htmlOut  string

	summary  bool
	silent   bool
	noBanner bool

	s3Endpoint string
	s3Bucket   string
	s3Prefix   string
	s3UseSSL   bool
}

var audit auditFlags

var auditCmd = &cobra.Command{
	Use:   "audit [url ...]",
	Short: "Trace redirect chains for URLs from arguments or a file",
	Example: `  redirect-auditor audit https://example.com
  redirect-auditor audit -f urls.xlsx -o report.xlsx
  redirect-auditor audit -f urls.txt --exclude b2b- --summary`,
	RunE: runAudit,
}

func init() {
	f := auditCmd.Flags()
	f.StringVarP(&audit.file, "file", "f", "", "input file with URLs (.xlsx workbook or text, one per line)")
	f.StringSliceVar(&audit.exclude, "exclude", nil, "skip URLs containing any of these substrings")
	f.BoolVar(&audit.browser, "browser", true, "send a desktop browser identity")
	f.BoolVar(&audit.insecure, "insecure", false, "skip TLS verification")
	f.BoolVar(&audit.useHead, "head", false, "probe with HEAD, falling back to GET when rejected")
	f.BoolVar(&audit.followHTML, "follow-html", false, "also follow meta-refresh and JS redirects in HTML bodies")
	f.DurationVar(&audit.timeout, "timeout", model.DefaultTimeout, "per-request timeout")
	f.IntVarP(&audit.workers, "workers", "t", model.DefaultWorkers, "concurrent URLs")
	f.IntVar(&audit.maxHops, "max-hops", model.DefaultMaxHops, "hop ceiling per URL")
	f.IntVar(&audit.rateLimit, "rate-limit", 0, "global requests per second (0 = unlimited)")
	f.IntVar(&audit.retries, "retries", 0, "retries for failed requests (never for HTTP statuses)")
	f.StringVar(&audit.proxy, "proxy", "", "HTTP(S) proxy URL")

	f.StringVarP(&audit.excelOut, "out", "o", "", "write the two-sheet workbook report to this path")
	f.StringVar(&audit.jsonlOut, "jsonl", "", "write a JSONL report to this path")
	f.StringVar(&audit.htmlOut, "html", "", "write an HTML report to this path")

	f.BoolVar(&audit.summary, "summary", false, "one line per URL instead of full chains")
	f.BoolVar(&audit.silent, "silent", false, "suppress console output")
	f.BoolVar(&audit.noBanner, "no-banner", false, "skip the startup banner")

	f.StringVar(&audit.s3Endpoint, "s3-endpoint", "", "S3-compatible endpoint for report upload")
	f.StringVar(&audit.s3Bucket, "s3-bucket", "", "bucket for report upload")
	f.StringVar(&audit.s3Prefix, "s3-prefix", "redirect-audits", "object key prefix")
	f.BoolVar(&audit.s3UseSSL, "s3-ssl", true, "use TLS for the S3 endpoint")

	rootCmd.AddCommand(auditCmd)
}

func runAudit(cmd *cobra.Command, args []string) error {
	raw := append([]string(nil), args...)
	if audit.file != "" {
		fromFile, err := input.FromFile(audit.file)
		if err != nil {
			return err
		}
		raw = append(raw, fromFile...)
	}
	if len(raw) == 0 {
		return errors.New("no URLs given: pass them as arguments or with -f")
	}

	urls, err := input.Normalize(raw, audit.exclude)
	if err != nil {
		return err
	}
	if skipped := len(raw) - len(urls); skipped > 0 {
		slog.Info("input reduced", "given", len(raw), "audited", len(urls), "skipped", skipped)
	}

	opts := model.Options{
		BrowserHeaders: audit.browser,
		Insecure:       audit.insecure,
		UseHead:        audit.useHead,
		FollowHTML:     audit.followHTML,
		Timeout:        audit.timeout,
		Workers:        audit.workers,
		MaxHops:        audit.maxHops,
		RateLimit:      audit.rateLimit,
		Retries:        audit.retries,
		Proxy:          audit.proxy,
	}
	if err := opts.Validate(); err != nil {
		return err
	}

	if !audit.silent && !audit.noBanner {
		banner.PrintBanner(version)
	}

	client, err := httpclient.FromOptions(opts)
	if err != nil {
		return fmt.Errorf("invalid proxy URL: %w", err)
	}

	var progress runner.Progress
	if !audit.silent && audit.summary {
		progress = func(done, total int, res model.Result) {
			render.Summary(os.Stdout, done, total, res)
		}
	}

	run := runner.New(runner.Config{
		Workers:    opts.Workers,
		RateLimit:  opts.RateLimit,
		OnProgress: progress,
	}, trace.New(client, opts))

	started := time.Now()
	results := run.Run(cmd.Context(), urls)
	slog.Info("audit finished", "urls", len(urls), "duration", time.Since(started).Round(time.Millisecond).String())

	if !audit.silent {
		if !audit.summary {
			for i, res := range results {
				render.Chain(os.Stdout, i+1, len(results), res)
				render.Advisories(os.Stdout, report.Advisories(res))
			}
		}
		render.Stats(os.Stdout, report.BuildStats(results))
	}

	return writeReports(cmd.Context(), urls, results)
}

func writeReports(ctx context.Context, urls []string, results []model.Result) error {
	if audit.excelOut != "" {
		if err := report.SaveWorkbook(audit.excelOut, results); err != nil {
			return err
		}
		slog.Info("report written", "path", audit.excelOut)
	}
	if audit.jsonlOut != "" {
		if err := writeFile(audit.jsonlOut, func(f *os.File) error {
			return report.WriteJSONL(f, results)
		}); err != nil {
			return fmt.Errorf("write JSONL: %w", err)
		}
		slog.Info("report written", "path", audit.jsonlOut)
	}
	if audit.htmlOut != "" {
		page := report.PageData{
			Title:       "Redirect Audit Report",
			GeneratedAt: time.Now().UTC(),
			Params:      auditParams(len(urls)),
			Stats:       report.BuildStats(results),
			Results:     buildViews(results),
		}
		if err := writeFile(audit.htmlOut, func(f *os.File) error {
			return report.RenderHTML(f, page)
		}); err != nil {
			return fmt.Errorf("write HTML: %w", err)
		}
		slog.Info("report written", "path", audit.htmlOut)
	}
	if audit.s3Bucket != "" {
		if err := uploadWorkbook(ctx, results); err != nil {
			return err
		}
	}
	return nil
}

func buildViews(results []model.Result) []report.ResultView {
	views := make([]report.ResultView, len(results))
	for i, res := range results {
		views[i] = report.BuildResultView(i, res)
	}
	return views
}

func uploadWorkbook(ctx context.Context, results []model.Result) error {
	store, err := storage.New(storage.Config{
		Endpoint:  audit.s3Endpoint,
		AccessKey: os.Getenv("AUDITOR_S3_ACCESS_KEY"),
		SecretKey: os.Getenv("AUDITOR_S3_SECRET_KEY"),
		Bucket:    audit.s3Bucket,
		Prefix:    audit.s3Prefix,
		UseSSL:    audit.s3UseSSL,
	})
	if err != nil {
		return err
	}

	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, results); err != nil {
		return err
	}
	name := "report-" + time.Now().UTC().Format("20060102-150405") + ".xlsx"
	const xlsxContentType = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	if err := store.Upload(ctx, name, xlsxContentType, buf.Bytes()); err != nil {
		return err
	}
	slog.Info("report uploaded", "bucket", audit.s3Bucket, "object", name)
	return nil
}

func writeFile(path string, write func(*os.File) error) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return write(f)
}

func auditParams(targetCount int) map[string]string {
	params := map[string]string{
		"workers":    strconv.Itoa(audit.workers),
		"timeout":    audit.timeout.String(),
		"max_hops":   strconv.Itoa(audit.maxHops),
		"rate_limit": strconv.Itoa(audit.rateLimit),
		"retries":    strconv.Itoa(audit.retries),
		"browser":    strconv.FormatBool(audit.browser),
		"insecure":   strconv.FormatBool(audit.insecure),
		"head":       strconv.FormatBool(audit.useHead),
		"urls":       strconv.Itoa(targetCount),
	}
	if audit.file != "" {
		params["file"] = audit.file
	}
	if audit.proxy != "" {
		params["proxy"] = audit.proxy
	}
	return params
}
