package report_test

import (
	"bytes"
	"testing"

	"github.com/xuri/excelize/v2"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/model"
	"github.com/MeetChauhan03/Redirection-status-checker/internal/report"
)

func TestWriteWorkbook(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	err := report.WriteWorkbook(&buf, []model.Result{completeResult(), loopResult()})
	if err != nil {
		t.Fatalf("WriteWorkbook error: %v", err)
	}

	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheets := f.GetSheetList()
	if len(sheets) != 2 || sheets[0] != report.SummarySheet || sheets[1] != report.DetailSheet {
		t.Fatalf("sheets = %v", sheets)
	}

	summary, err := f.GetRows(report.SummarySheet)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if len(summary) != 3 {
		t.Fatalf("summary rows = %d, want header plus 2", len(summary))
	}
	wantHeader := []string{"Original URL", "Final URL", "Final Status Code", "Server", "Chain Length"}
	for i, col := range wantHeader {
		if summary[0][i] != col {
			t.Errorf("summary header[%d] = %q, want %q", i, summary[0][i], col)
		}
	}
	if summary[1][0] != "https://example.com/start" || summary[1][1] != "https://cdn.example.net/end" {
		t.Errorf("summary row 1 = %v", summary[1])
	}
	if summary[1][2] != "200" || summary[1][3] != "Akamai" || summary[1][4] != "2" {
		t.Errorf("summary row 1 fields = %v", summary[1])
	}
	if summary[2][2] != "Loop" || summary[2][3] != model.ServerNotAvailable {
		t.Errorf("loop summary row = %v", summary[2])
	}

	detail, err := f.GetRows(report.DetailSheet)
	if err != nil {
		t.Fatalf("read detail: %v", err)
	}
	if len(detail) != 5 {
		t.Fatalf("detail rows = %d, want header plus 4", len(detail))
	}
	wantDetailHeader := []string{"Original URL", "Step", "Hop URL", "Status Code", "Status Description", "Server"}
	for i, col := range wantDetailHeader {
		if detail[0][i] != col {
			t.Errorf("detail header[%d] = %q, want %q", i, detail[0][i], col)
		}
	}
	if detail[1][1] != "1" || detail[1][3] != "301" || detail[1][4] != "Moved Permanently" {
		t.Errorf("detail row 1 = %v", detail[1])
	}
	if detail[4][3] != "Loop" || detail[4][4] != "Redirect Loop" {
		t.Errorf("loop detail row = %v", detail[4])
	}

	width, err := f.GetColWidth(report.SummarySheet, "A")
	if err != nil {
		t.Fatalf("col width: %v", err)
	}
	if width < 24 || width > 26 {
		t.Errorf("column width = %v, want about 25", width)
	}
}

func TestWriteWorkbookEmptyRun(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := report.WriteWorkbook(&buf, nil); err != nil {
		t.Fatalf("WriteWorkbook error: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()
	rows, err := f.GetRows(report.SummarySheet)
	if err != nil {
		t.Fatalf("read summary: %v", err)
	}
	if len(rows) != 1 {
		t.Fatalf("expected header only, got %d rows", len(rows))
	}
}

func TestWriteSampleWorkbook(t *testing.T) {
	t.Parallel()
	var buf bytes.Buffer
	if err := report.WriteSampleWorkbook(&buf); err != nil {
		t.Fatalf("WriteSampleWorkbook error: %v", err)
	}
	f, err := excelize.OpenReader(&buf)
	if err != nil {
		t.Fatalf("reopen workbook: %v", err)
	}
	defer f.Close()

	sheet := f.GetSheetName(0)
	a1, err := f.GetCellValue(sheet, "A1")
	if err != nil {
		t.Fatal(err)
	}
	if a1 != "Original URL" {
		t.Errorf("A1 = %q, want the input column header", a1)
	}
	a2, _ := f.GetCellValue(sheet, "A2")
	a3, _ := f.GetCellValue(sheet, "A3")
	if a2 != "https://example.com" || a3 != "https://google.com" {
		t.Errorf("sample rows = %q, %q", a2, a3)
	}
}
