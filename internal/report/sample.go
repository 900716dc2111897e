package report

import (
	"encoding/csv"
	"fmt"
	"io"

	"github.com/xuri/excelize/v2"

	"github.com/MeetChauhan03/Redirection-status-checker/internal/input"
)

var sampleURLs = []string{
	"https://example.com",
	"https://google.com",
}

// WriteSampleCSV emits a minimal input template users can fill in.
func WriteSampleCSV(w io.Writer) error {
	cw := csv.NewWriter(w)
	if err := cw.Write([]string{input.WorkbookColumn}); err != nil {
		return err
	}
	for _, u := range sampleURLs {
		if err := cw.Write([]string{u}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// WriteSampleWorkbook emits the same template as a workbook.
func WriteSampleWorkbook(w io.Writer) error {
	f := excelize.NewFile()
	defer f.Close()

	sheet := f.GetSheetName(0)
	if err := f.SetCellValue(sheet, "A1", input.WorkbookColumn); err != nil {
		return err
	}
	for i, u := range sampleURLs {
		cell, err := excelize.CoordinatesToCellName(1, i+2)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, u); err != nil {
			return err
		}
	}
	if err := f.SetColWidth(sheet, "A", "A", columnWidth); err != nil {
		return err
	}
	if err := f.Write(w); err != nil {
		return fmt.Errorf("write sample workbook: %w", err)
	}
	return nil
}
