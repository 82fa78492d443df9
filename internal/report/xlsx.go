package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/xuri/excelize/v2"

	"geoaddr/internal/domain"
)

const sheetName = "Geocoded"

// Format is a report file format.
type Format string

const (
	FormatCSV  Format = "csv"
	FormatXLSX Format = "xlsx"
)

// ParseFormat maps a query value to a Format. Empty means CSV.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "csv":
		return FormatCSV, nil
	case "xlsx", "excel":
		return FormatXLSX, nil
	default:
		return "", fmt.Errorf("%w: unsupported report format %q", domain.ErrInvalidInput, s)
	}
}

// ContentType returns the MIME type of the format.
func (f Format) ContentType() string {
	if f == FormatXLSX {
		return "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	}
	return "text/csv; charset=utf-8"
}

// Write renders results in format f to out.
func Write(out io.Writer, f Format, results []*domain.GeoResult) error {
	if f == FormatXLSX {
		return WriteXLSX(out, results)
	}
	return WriteCSV(out, results)
}

// WriteXLSX writes a single-sheet workbook with a styled header row.
// Coordinates and confidence are stored as numbers.
func WriteXLSX(out io.Writer, results []*domain.GeoResult) error {
	f := excelize.NewFile()
	defer func() { _ = f.Close() }()

	if err := f.SetSheetName(f.GetSheetName(0), sheetName); err != nil {
		return fmt.Errorf("failed to name sheet: %w", err)
	}

	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Size: 11},
		Fill:      excelize.Fill{Type: "pattern", Color: []string{"#4472C4"}, Pattern: 1},
		Alignment: &excelize.Alignment{Horizontal: "center", Vertical: "center"},
	})
	if err != nil {
		return fmt.Errorf("failed to create header style: %w", err)
	}

	for i, header := range columns {
		cell, _ := excelize.CoordinatesToCellName(i+1, 1)
		if err := f.SetCellValue(sheetName, cell, header); err != nil {
			return fmt.Errorf("failed to write header: %w", err)
		}
	}
	lastHeader, _ := excelize.CoordinatesToCellName(len(columns), 1)
	if err := f.SetCellStyle(sheetName, "A1", lastHeader, headerStyle); err != nil {
		return fmt.Errorf("failed to style header: %w", err)
	}

	for i, r := range results {
		cell, _ := excelize.CoordinatesToCellName(1, i+2)
		if err := f.SetSheetRow(sheetName, cell, xlsxRow(r)); err != nil {
			return fmt.Errorf("failed to write row %d: %w", i+1, err)
		}
	}

	first, _ := excelize.ColumnNumberToName(1)
	last, _ := excelize.ColumnNumberToName(len(columns))
	_ = f.SetColWidth(sheetName, first, last, 18)
	_ = f.SetColWidth(sheetName, "A", "A", 60)

	if _, err := f.WriteTo(out); err != nil {
		return fmt.Errorf("failed to write workbook: %w", err)
	}
	return nil
}

func xlsxRow(r *domain.GeoResult) *[]interface{} {
	strRow := resultToRow(r)
	row := make([]interface{}, len(strRow))
	for i, v := range strRow {
		row[i] = v
	}
	if r.Parsed != nil {
		row[10] = r.Parsed.Confidence
	}
	if r.Latitude != nil {
		row[11] = *r.Latitude
	}
	if r.Longitude != nil {
		row[12] = *r.Longitude
	}
	return &row
}
