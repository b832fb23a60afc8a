package usecase

import (
	"bytes"
	"context"
	"encoding/csv"
	"fmt"
	"strings"
	"time"

	"asperro-contact-backend/internal/domain"

	"github.com/xuri/excelize/v2"
)

var exportColumns = []string{"RECEIVED", "OUTCOME", "NAME", "EMAIL", "PHONE", "MESSAGE", "REQUEST ID"}

type submissionExportUsecase struct {
	lister domain.SubmissionLister
	now    func() time.Time
}

func NewSubmissionExportUsecase(lister domain.SubmissionLister) domain.SubmissionExportUsecase {
	return &submissionExportUsecase{lister: lister, now: time.Now}
}

func (u *submissionExportUsecase) Export(ctx context.Context, format string, limit int) ([]byte, string, error) {
	if limit <= 0 {
		limit = 500
	}

	submissions, err := u.lister.ListRecent(ctx, limit)
	if err != nil {
		return nil, "", fmt.Errorf("failed to list submissions: %w", err)
	}

	switch format {
	case "xlsx", "":
		return u.exportExcel(submissions)
	case "csv":
		return u.exportCSV(submissions)
	default:
		return nil, "", fmt.Errorf("unsupported export format: %s", format)
	}
}

func submissionRow(s domain.ArchivedSubmission) []string {
	return []string{
		s.CreatedAt.UTC().Format(time.RFC3339),
		string(s.Outcome),
		s.Name,
		s.Email,
		s.Phone,
		s.Message,
		s.RequestID,
	}
}

func (u *submissionExportUsecase) exportExcel(submissions []domain.ArchivedSubmission) ([]byte, string, error) {
	f := excelize.NewFile()
	defer f.Close()

	sheetName := "Submissions"
	if err := f.SetSheetName("Sheet1", sheetName); err != nil {
		return nil, "", fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "#FFFFFF"},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"#111111"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create header style: %w", err)
	}
	// Spam rows are greyed out so real enquiries stand out
	spamStyle, err := f.NewStyle(&excelize.Style{Font: &excelize.Font{Color: "#999999"}})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create spam style: %w", err)
	}
	wrapStyle, err := f.NewStyle(&excelize.Style{Alignment: &excelize.Alignment{WrapText: true, Vertical: "top"}})
	if err != nil {
		return nil, "", fmt.Errorf("failed to create row style: %w", err)
	}

	if err := writeSheetRow(f, sheetName, 1, exportColumns, headerStyle); err != nil {
		return nil, "", err
	}
	for rowIdx, s := range submissions {
		style := wrapStyle
		if s.Outcome == domain.OutcomeSpam {
			style = spamStyle
		}
		if err := writeSheetRow(f, sheetName, rowIdx+2, submissionRow(s), style); err != nil {
			return nil, "", err
		}
	}

	widths := []float64{22, 10, 24, 30, 18, 60, 38}
	for i, w := range widths {
		colName, _ := excelize.ColumnNumberToName(i + 1)
		if err := f.SetColWidth(sheetName, colName, colName, w); err != nil {
			return nil, "", fmt.Errorf("failed to size column %s: %w", colName, err)
		}
	}
	if err := f.SetPanes(sheetName, &excelize.Panes{Freeze: true, YSplit: 1, TopLeftCell: "A2", ActivePane: "bottomLeft"}); err != nil {
		return nil, "", fmt.Errorf("failed to freeze header: %w", err)
	}

	var buf bytes.Buffer
	if err := f.Write(&buf); err != nil {
		return nil, "", fmt.Errorf("failed to write Excel file: %w", err)
	}

	return buf.Bytes(), u.filename("xlsx"), nil
}

// writeSheetRow stores values as strings, so formulas in user input stay inert
func writeSheetRow(f *excelize.File, sheet string, row int, values []string, style int) error {
	for colIdx, value := range values {
		cell, err := excelize.CoordinatesToCellName(colIdx+1, row)
		if err != nil {
			return err
		}
		if err := f.SetCellValue(sheet, cell, value); err != nil {
			return fmt.Errorf("failed to write cell %s: %w", cell, err)
		}
	}
	first, _ := excelize.CoordinatesToCellName(1, row)
	last, _ := excelize.CoordinatesToCellName(len(values), row)
	if err := f.SetCellStyle(sheet, first, last, style); err != nil {
		return fmt.Errorf("failed to style row %d: %w", row, err)
	}
	return nil
}

func (u *submissionExportUsecase) exportCSV(submissions []domain.ArchivedSubmission) ([]byte, string, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(exportColumns); err != nil {
		return nil, "", err
	}
	for _, s := range submissions {
		row := submissionRow(s)
		for i := range row {
			row[i] = csvSafe(row[i])
		}
		if err := w.Write(row); err != nil {
			return nil, "", err
		}
	}
	w.Flush()
	if err := w.Error(); err != nil {
		return nil, "", fmt.Errorf("failed to write CSV file: %w", err)
	}

	return buf.Bytes(), u.filename("csv"), nil
}

// csvSafe quotes cells that a spreadsheet would otherwise evaluate as a formula
func csvSafe(v string) string {
	if v != "" && strings.ContainsRune("=+-@\t\r", rune(v[0])) {
		return "'" + v
	}
	return v
}

func (u *submissionExportUsecase) filename(ext string) string {
	return fmt.Sprintf("contact_submissions_%s.%s", u.now().Format("20060102_150405"), ext)
}
