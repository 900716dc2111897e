// Package input loads and normalizes the URLs a run will audit.
// Sources are plain text (one URL per line) and spreadsheet workbooks
// carrying an "Original URL" column.
package input

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/xuri/excelize/v2"
)

// WorkbookColumn is the header of the column URLs are read from.
const WorkbookColumn = "Original URL"

// ErrNoURLs is returned when a source yields nothing to audit.
var ErrNoURLs = errors.New("no urls to audit")

// FromFile loads URLs from path, dispatching on the extension:
// .xlsx is read as a workbook, anything else as text lines.
func FromFile(path string) ([]string, error) {
	if strings.EqualFold(filepath.Ext(path), ".xlsx") {
		return FromWorkbook(path)
	}
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open url list %q: %w", path, err)
	}
	defer f.Close()
	return FromReader(f)
}

// FromReader reads one URL per line, skipping blanks and # comments.
func FromReader(r io.Reader) ([]string, error) {
	scanner := bufio.NewScanner(r)
	buf := make([]byte, 0, 64*1024)
	scanner.Buffer(buf, 1024*1024)
	var urls []string
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		urls = append(urls, line)
	}
	if err := scanner.Err(); err != nil {
		return nil, fmt.Errorf("url list read error: %w", err)
	}
	return urls, nil
}

// FromWorkbook reads the WorkbookColumn column of the first sheet.
func FromWorkbook(path string) ([]string, error) {
	f, err := excelize.OpenFile(path)
	if err != nil {
		return nil, fmt.Errorf("open workbook %q: %w", path, err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	rows, err := f.GetRows(sheet)
	if err != nil {
		return nil, fmt.Errorf("read sheet %q: %w", sheet, err)
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("workbook %q: sheet %q is empty", path, sheet)
	}

	col := -1
	for i, cell := range rows[0] {
		if strings.EqualFold(strings.TrimSpace(cell), WorkbookColumn) {
			col = i
			break
		}
	}
	if col < 0 {
		return nil, fmt.Errorf("workbook %q must contain a column named %q", path, WorkbookColumn)
	}

	var urls []string
	for _, row := range rows[1:] {
		if col >= len(row) {
			continue
		}
		if cell := strings.TrimSpace(row[col]); cell != "" {
			urls = append(urls, cell)
		}
	}
	return urls, nil
}

// Normalize prepares raw URLs for dispatch: trims whitespace, applies
// the exclusion list, defaults missing schemes to https, validates,
// and de-duplicates while preserving first-seen order. Any URL that
// survives exclusion but fails validation rejects the whole batch, so
// bad input is caught before a single request is sent.
func Normalize(raw []string, exclude []string) ([]string, error) {
	seen := make(map[string]struct{}, len(raw))
	var urls []string
	for _, entry := range raw {
		entry = strings.TrimSpace(entry)
		if entry == "" {
			continue
		}
		normalized, err := normalizeOne(entry)
		if err != nil {
			return nil, err
		}
		if excluded(normalized, exclude) {
			continue
		}
		if _, dup := seen[normalized]; dup {
			continue
		}
		seen[normalized] = struct{}{}
		urls = append(urls, normalized)
	}
	if len(urls) == 0 {
		return nil, ErrNoURLs
	}
	return urls, nil
}

func normalizeOne(entry string) (string, error) {
	if !strings.Contains(entry, "://") {
		entry = "https://" + entry
	}
	u, err := url.Parse(entry)
	if err != nil {
		return "", fmt.Errorf("invalid url %q: %w", entry, err)
	}
	if u.Scheme != "http" && u.Scheme != "https" {
		return "", fmt.Errorf("invalid url %q: unsupported scheme %q", entry, u.Scheme)
	}
	if u.Host == "" {
		return "", fmt.Errorf("invalid url %q: missing host", entry)
	}
	return u.String(), nil
}

func excluded(normalized string, exclude []string) bool {
	lower := strings.ToLower(normalized)
	for _, pattern := range exclude {
		pattern = strings.ToLower(strings.TrimSpace(pattern))
		if pattern != "" && strings.Contains(lower, pattern) {
			return true
		}
	}
	return false
}
