// Package export serializes extracted charts as JSON, CSV, or XLSX downloads.
package export

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/spherical/chart-extractor/internal/domain"
)

// Format is a download format
type Format string

const (
	FormatXLSX Format = "xlsx"
	FormatCSV  Format = "csv"
	FormatJSON Format = "json"
)

// DefaultFilename is the base name used when none survives sanitizing
const DefaultFilename = "chart_data"

// Media types of the produced downloads
const (
	MediaTypeXLSX = "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet"
	MediaTypeCSV  = "text/csv"
	MediaTypeJSON = "application/json"
)

// Result is a ready-to-send download
type Result struct {
	Data      []byte
	MediaType string
	Filename  string // sanitized base name plus extension
}

type writer func(charts []domain.Chart) ([]byte, error)

var writers = map[Format]struct {
	mediaType string
	write     writer
}{
	FormatXLSX: {MediaTypeXLSX, writeXLSX},
	FormatCSV:  {MediaTypeCSV, writeCSV},
	FormatJSON: {MediaTypeJSON, writeJSON},
}

var unsafeFilenameChars = regexp.MustCompile(`[^\w\-]`)

// Export serializes charts in the requested format. The format is matched
// case-insensitively; an empty chart list or an unknown format is a
// validation error.
func Export(charts []domain.Chart, format, filename string) (*Result, error) {
	if len(charts) == 0 {
		return nil, domain.ValidationError("No charts provided for export.", nil)
	}

	f, err := ParseFormat(format)
	if err != nil {
		return nil, err
	}
	w := writers[f]

	data, err := w.write(charts)
	if err != nil {
		return nil, domain.IOError(fmt.Sprintf("failed to write %s export", f), err)
	}

	return &Result{
		Data:      data,
		MediaType: w.mediaType,
		Filename:  SanitizeFilename(filename) + "." + string(f),
	}, nil
}

// ParseFormat matches a format name case-insensitively
func ParseFormat(format string) (Format, error) {
	f := Format(strings.ToLower(format))
	if _, ok := writers[f]; !ok {
		return "", domain.ValidationError(fmt.Sprintf("Unknown format '%s'. Use xlsx, csv, or json.", f), nil)
	}
	return f, nil
}

// SanitizeFilename replaces every character other than ASCII letters, digits,
// underscore and hyphen with an underscore
func SanitizeFilename(name string) string {
	name = unsafeFilenameChars.ReplaceAllString(name, "_")
	if name == "" {
		return DefaultFilename
	}
	return name
}

// chartTitle falls back to a 1-based positional name
func chartTitle(c domain.Chart, index int) string {
	if c.Title != "" {
		return c.Title
	}
	return fmt.Sprintf("Chart %d", index+1)
}

func chartType(c domain.Chart) string {
	if c.Type != "" {
		return c.Type
	}
	return "unknown"
}

// headerRow is shared by CSV and XLSX
func headerRow(c domain.Chart) []string {
	if c.IsMultiSeries() {
		return append([]string{"Category"}, c.SeriesNames()...)
	}
	if c.Unit != "" {
		return []string{"Category", fmt.Sprintf("Value (%s)", c.Unit)}
	}
	return []string{"Category", "Value"}
}

// dataRows lays out one row of scalars per data point, matching headerRow.
// Missing values come back as null scalars.
func dataRows(c domain.Chart) [][]domain.Scalar {
	rows := make([][]domain.Scalar, 0, len(c.Data))
	series := c.SeriesNames()
	for _, p := range c.Data {
		if c.IsMultiSeries() {
			row := make([]domain.Scalar, 0, len(series)+1)
			row = append(row, p.Label)
			for _, s := range series {
				row = append(row, p.SeriesValue(s))
			}
			rows = append(rows, row)
			continue
		}
		rows = append(rows, []domain.Scalar{p.Label, p.Value})
	}
	return rows
}
