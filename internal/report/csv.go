// Package report renders geocoding results as CSV or XLSX files.
package report

import (
	"encoding/csv"
	"fmt"
	"io"
	"path"
	"regexp"
	"strconv"
	"strings"
	"time"

	"github.com/google/uuid"

	"geoaddr/internal/domain"
)

// UTF-8 BOM bytes for Excel compatibility on Windows.
var BOM = []byte{0xEF, 0xBB, 0xBF}

// columns defines the header row shared by CSV and XLSX reports.
var columns = []string{
	"Original Text",
	"Language",
	"Method",
	"Street Type",
	"Street Name",
	"Building",
	"Apartment",
	"City",
	"Postal Code",
	"Raw Text",
	"Confidence",
	"Latitude",
	"Longitude",
	"Display Name",
	"Query Used",
	"Geocoded",
	"Error",
}

// Columns returns a copy of the report header row.
func Columns() []string {
	return append([]string(nil), columns...)
}

// Writer wraps csv.Writer for exporting results as CSV.
type Writer struct {
	csv *csv.Writer
}

// NewWriter creates a Writer that writes CSV to w.
func NewWriter(w io.Writer) *Writer {
	return &Writer{csv: csv.NewWriter(w)}
}

// WriteHeader writes the header row.
func (w *Writer) WriteHeader() error {
	return w.csv.Write(columns)
}

// WriteResults converts results to rows and writes them.
func (w *Writer) WriteResults(results []*domain.GeoResult) error {
	for _, r := range results {
		if err := w.csv.Write(resultToRow(r)); err != nil {
			return err
		}
	}
	return nil
}

// Flush flushes the underlying csv.Writer buffer.
func (w *Writer) Flush() {
	w.csv.Flush()
}

// Error returns any error from the underlying csv.Writer.
func (w *Writer) Error() error {
	return w.csv.Error()
}

// WriteCSV writes a complete CSV report, BOM included, to out.
func WriteCSV(out io.Writer, results []*domain.GeoResult) error {
	if _, err := out.Write(BOM); err != nil {
		return fmt.Errorf("writing BOM: %w", err)
	}
	w := NewWriter(out)
	if err := w.WriteHeader(); err != nil {
		return fmt.Errorf("writing header: %w", err)
	}
	if err := w.WriteResults(results); err != nil {
		return fmt.Errorf("writing rows: %w", err)
	}
	w.Flush()
	return w.Error()
}

// resultToRow converts a single result to a row. Address columns stay empty
// when nothing was extracted, coordinate columns when geocoding failed.
func resultToRow(r *domain.GeoResult) []string {
	row := make([]string, len(columns))

	row[0] = r.OriginalText
	row[1] = string(r.Language)
	row[2] = r.Method
	row[15] = formatBool(r.Geocoded)
	row[16] = r.ErrorMessage()

	if p := r.Parsed; p != nil {
		row[3] = p.StreetType
		row[4] = p.StreetName
		row[5] = p.Building
		row[6] = p.Apartment
		row[7] = p.City
		row[8] = p.PostalCode
		row[9] = p.RawText
		row[10] = strconv.FormatFloat(p.Confidence, 'f', 2, 64)
	}

	row[11] = formatCoord(r.Latitude)
	row[12] = formatCoord(r.Longitude)
	row[13] = deref(r.DisplayName)
	row[14] = deref(r.QueryUsed)

	return row
}

func formatCoord(v *float64) string {
	if v == nil {
		return ""
	}
	return strconv.FormatFloat(*v, 'f', 6, 64)
}

func formatBool(v bool) string {
	if v {
		return "Yes"
	}
	return "No"
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}

// nonAlphanumeric matches characters that are not alphanumeric, hyphen, or underscore.
var nonAlphanumeric = regexp.MustCompile(`[^a-zA-Z0-9_-]+`)

// multiUnderscore matches consecutive underscores.
var multiUnderscore = regexp.MustCompile(`_{2,}`)

// SanitizeFilename cleans a report name for use in Content-Disposition.
// Replaces non-alphanumeric chars (except - _) with _, collapses consecutive
// underscores, and truncates to 100 chars.
func SanitizeFilename(name string) string {
	s := nonAlphanumeric.ReplaceAllString(name, "_")
	s = multiUnderscore.ReplaceAllString(s, "_")
	s = strings.Trim(s, "_")
	if len(s) > 100 {
		s = s[:100]
	}
	if s == "" {
		s = "geocoded"
	}
	return s
}

// BuildFilename returns a sanitized filename for Content-Disposition header.
// Format: {sanitized_name}_{YYYY-MM-DD}.{ext}
func BuildFilename(name string, format Format) string {
	sanitized := SanitizeFilename(name)
	date := time.Now().Format("2006-01-02")
	return fmt.Sprintf("%s_%s.%s", sanitized, date, format)
}

// ObjectKey returns a unique storage key for a report file name:
// reports/{YYYY/MM/DD}/{uuid}-{filename}.
func ObjectKey(filename string) string {
	return path.Join("reports", time.Now().UTC().Format("2006/01/02"), uuid.NewString()+"-"+filename)
}
