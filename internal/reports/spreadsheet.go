package reports

import (
	"fmt"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"

	"github.com/vladimiradmaev/glucose-diary/internal/domain"
	"github.com/vladimiradmaev/glucose-diary/internal/stats"
)

// SheetName is the name of the only worksheet in a spreadsheet report
const SheetName = "آزمایش‌های قند خون"

// SummaryKey marks the summary row in the id column
const SummaryKey = "آمار"

// SpreadsheetColumns are the header cells, in column order
var SpreadsheetColumns = []string{
	"شناسه",
	"تاریخ شمسی",
	"ساعت آزمایش",
	"قند خون (mg/dL)",
	"نوع آزمایش",
	"علائم",
	"یادداشت",
	"تاریخ ثبت",
}

// column indexes, zero based
const (
	colID = iota
	colJalaliDate
	colTestTime
	colGlucose
	colFasting
	colSymptoms
	colNotes
	colCreatedAt
)

const (
	createdAtLayout = "2006-01-02 15:04"
	maxColumnWidth  = 40
	headerColor     = "2E86AB"
	summaryColor    = "FFEAA7"
)

// SummaryText folds count, min and max into the summary row's text cell
func SummaryText(s stats.Statistics) string {
	return fmt.Sprintf("تعداد: %d | حداقل: %d | حداکثر: %d", s.Count, s.Min, s.Max)
}

// Spreadsheet renders tests as an XLSX workbook with one row per test in input
// order followed by a summary row.
func (r *Renderer) Spreadsheet(tests []domain.GlucoseTest) Artifact {
	return r.guard("spreadsheet", len(tests), func() ([]byte, error) {
		return r.buildWorkbook(tests)
	})
}

func (r *Renderer) buildWorkbook(tests []domain.GlucoseTest) ([]byte, error) {
	rows := make([][]any, 0, len(tests)+2)

	header := make([]any, len(SpreadsheetColumns))
	for i, name := range SpreadsheetColumns {
		header[i] = name
	}
	rows = append(rows, header)

	for _, t := range tests {
		rows = append(rows, []any{
			colID:         t.ID,
			colJalaliDate: r.displayDate(t),
			colTestTime:   t.TestTime,
			colGlucose:    t.Glucose,
			colFasting:    t.FastingLabel(),
			colSymptoms:   t.Symptoms,
			colNotes:      t.Notes,
			colCreatedAt:  t.CreatedAt.In(r.conv.Location()).Format(createdAtLayout),
		})
	}

	s := stats.Aggregate(tests)
	summary := make([]any, len(SpreadsheetColumns))
	for i := range summary {
		summary[i] = ""
	}
	summary[colID] = SummaryKey
	summary[colGlucose] = s.Mean
	summary[colSymptoms] = SummaryText(s)
	rows = append(rows, summary)

	f := excelize.NewFile()
	defer f.Close()

	if err := f.SetSheetName("Sheet1", SheetName); err != nil {
		return nil, err
	}

	widths := make([]int, len(SpreadsheetColumns))
	for i, row := range rows {
		for j, value := range row {
			cell, err := excelize.CoordinatesToCellName(j+1, i+1)
			if err != nil {
				return nil, err
			}
			if err := f.SetCellValue(SheetName, cell, value); err != nil {
				return nil, err
			}
			widths[j] = max(widths[j], utf8.RuneCountInString(fmt.Sprint(value)))
		}
	}

	if err := styleRow(f, 1, &excelize.Style{
		Font:      &excelize.Font{Family: "Arial", Bold: true, Size: 12, Color: "FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{headerColor}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center", WrapText: true},
	}); err != nil {
		return nil, err
	}
	if err := styleRow(f, len(rows), &excelize.Style{
		Font: &excelize.Font{Bold: true},
		Fill: excelize.Fill{Type: "pattern", Color: []string{summaryColor}, Pattern: 1},
	}); err != nil {
		return nil, err
	}

	for j, w := range widths {
		name, err := excelize.ColumnNumberToName(j + 1)
		if err != nil {
			return nil, err
		}
		if err := f.SetColWidth(SheetName, name, name, float64(min(w+4, maxColumnWidth))); err != nil {
			return nil, err
		}
	}

	rtl := true
	if err := f.SetSheetView(SheetName, 0, &excelize.ViewOptions{RightToLeft: &rtl}); err != nil {
		return nil, err
	}

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func styleRow(f *excelize.File, row int, style *excelize.Style) error {
	id, err := f.NewStyle(style)
	if err != nil {
		return err
	}
	first, err := excelize.CoordinatesToCellName(1, row)
	if err != nil {
		return err
	}
	last, err := excelize.CoordinatesToCellName(len(SpreadsheetColumns), row)
	if err != nil {
		return err
	}
	return f.SetCellStyle(SheetName, first, last, id)
}
