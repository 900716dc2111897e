package report

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/xuri/excelize/v2"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
)

// Sheet names of the exported workbook.
const (
	SummarySheet = "Executive Summary"
	DetailSheet  = "Detailed Tracking"
)

var (
	summaryHeader = []interface{}{"Original URL", "Final URL", "Final Status Code", "Server", "Chain Length"}
	detailHeader  = []interface{}{"Original URL", "Step", "Hop URL", "Status Code", "Status Description", "Server"}
)

// Row fills by status class, dark header with white text.
const (
	headerFill   = "36454F"
	okFill       = "E2EFDA"
	redirectFill = "FFF2CC"
	brokenFill   = "FCE4D6"
	columnWidth  = 25
)

type workbookStyles struct {
	header   int
	ok       int
	redirect int
	broken   int
}

// WriteWorkbook renders the two-sheet report to w.
func WriteWorkbook(w io.Writer, results []model.Result) error {
	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName(f.GetSheetName(0), SummarySheet); err != nil {
		return fmt.Errorf("rename summary sheet: %w", err)
	}
	if _, err := f.NewSheet(DetailSheet); err != nil {
		return fmt.Errorf("create detail sheet: %w", err)
	}

	styles, err := newWorkbookStyles(f)
	if err != nil {
		return err
	}
	if err := writeSummarySheet(f, styles, Summarize(results)); err != nil {
		return err
	}
	if err := writeDetailSheet(f, styles, Detail(results)); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write workbook: %w", err)
	}
	return nil
}

// SaveWorkbook renders the report to a file, creating parent
// directories as needed.
func SaveWorkbook(path string, results []model.Result) error {
	if dir := filepath.Dir(path); dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return fmt.Errorf("create report directory: %w", err)
		}
	}
	out, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create report file: %w", err)
	}
	defer out.Close()
	return WriteWorkbook(out, results)
}

func newWorkbookStyles(f *excelize.File) (workbookStyles, error) {
	var st workbookStyles
	var err error

	st.header, err = f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{headerFill}},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return st, fmt.Errorf("header style: %w", err)
	}
	for _, s := range []struct {
		dst  *int
		fill string
	}{
		{&st.ok, okFill},
		{&st.redirect, redirectFill},
		{&st.broken, brokenFill},
	} {
		*s.dst, err = f.NewStyle(&excelize.Style{
			Fill: excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{s.fill}},
		})
		if err != nil {
			return st, fmt.Errorf("fill style: %w", err)
		}
	}
	return st, nil
}

func writeSummarySheet(f *excelize.File, styles workbookStyles, rows []SummaryRow) error {
	if err := writeHeader(f, SummarySheet, styles.header, summaryHeader); err != nil {
		return err
	}
	for i, row := range rows {
		cells := []interface{}{row.OriginalURL, row.FinalURL, statusCell(row.FinalStatus), row.Server, row.ChainLength}
		if err := writeRow(f, SummarySheet, i+2, cells, styles.fillFor(row.FinalStatus)); err != nil {
			return err
		}
	}
	return f.SetColWidth(SummarySheet, "A", "E", columnWidth)
}

func writeDetailSheet(f *excelize.File, styles workbookStyles, rows []DetailRow) error {
	if err := writeHeader(f, DetailSheet, styles.header, detailHeader); err != nil {
		return err
	}
	for i, row := range rows {
		cells := []interface{}{row.OriginalURL, row.Step, row.HopURL, statusCell(row.Status), row.StatusText, row.Server}
		if err := writeRow(f, DetailSheet, i+2, cells, styles.fillFor(row.Status)); err != nil {
			return err
		}
	}
	return f.SetColWidth(DetailSheet, "A", "F", columnWidth)
}

func writeHeader(f *excelize.File, sheet string, style int, header []interface{}) error {
	if err := f.SetSheetRow(sheet, "A1", &header); err != nil {
		return fmt.Errorf("write %s header: %w", sheet, err)
	}
	last, err := excelize.CoordinatesToCellName(len(header), 1)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, "A1", last, style)
}

func writeRow(f *excelize.File, sheet string, rowNum int, cells []interface{}, style int) error {
	start, err := excelize.CoordinatesToCellName(1, rowNum)
	if err != nil {
		return err
	}
	if err := f.SetSheetRow(sheet, start, &cells); err != nil {
		return fmt.Errorf("write %s row %d: %w", sheet, rowNum, err)
	}
	if style == 0 {
		return nil
	}
	end, err := excelize.CoordinatesToCellName(len(cells), rowNum)
	if err != nil {
		return err
	}
	return f.SetCellStyle(sheet, start, end, style)
}

// fillFor picks the row fill for a status: green for 200, yellow for
// 3xx, red for 4xx/5xx. Sentinel rows stay unfilled.
func (st workbookStyles) fillFor(s model.Status) int {
	switch {
	case s == 200:
		return st.ok
	case s >= 300 && s < 400:
		return st.redirect
	case s >= 400 && s < 600:
		return st.broken
	}
	return 0
}

// statusCell keeps HTTP codes numeric in the spreadsheet while
// sentinel statuses stay readable text.
func statusCell(s model.Status) interface{} {
	if s.IsHTTP() {
		return int(s)
	}
	return s.String()
}
