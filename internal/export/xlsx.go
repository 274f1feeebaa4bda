package export

import (
	"strings"
	"unicode/utf8"

	"github.com/xuri/excelize/v2"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/spherical/chart-extractor/internal/domain"
)

const (
	headerRowNum = 5
	minColWidth  = 8
	maxColWidth  = 60
	colPadding   = 3
)

var titleCaser = cases.Title(language.Und)

// writeXLSX builds one worksheet per chart: a Chart/Type/Unit block in rows
// 1-3, a blank row, a styled header in row 5, then one row per data point.
func writeXLSX(charts []domain.Chart) ([]byte, error) {
	f := excelize.NewFile()
	defer f.Close()

	metaStyle, err := f.NewStyle(&excelize.Style{
		Font: &excelize.Font{Bold: true, Color: "374151", Size: 9},
	})
	if err != nil {
		return nil, err
	}
	headerStyle, err := f.NewStyle(&excelize.Style{
		Font:      &excelize.Font{Bold: true, Color: "FFFFFF", Size: 10},
		Fill:      excelize.Fill{Type: "pattern", Pattern: 1, Color: []string{"1E3A5F"}},
		Alignment: &excelize.Alignment{Horizontal: "center"},
	})
	if err != nil {
		return nil, err
	}

	namer := newSheetNamer()
	defaultSheet := f.GetSheetName(0)

	for i, c := range charts {
		title := chartTitle(c, i)
		sheet := namer.next(title)

		if i == 0 {
			if err := f.SetSheetName(defaultSheet, sheet); err != nil {
				return nil, err
			}
		} else if _, err := f.NewSheet(sheet); err != nil {
			return nil, err
		}

		sw := &sheetWriter{f: f, sheet: sheet}

		sw.row(1, []any{"Chart", title})
		sw.row(2, []any{"Type", titleCaser.String(strings.ReplaceAll(chartType(c), "_", " "))})
		sw.row(3, []any{"Unit", c.Unit})
		sw.style("A1", "A3", metaStyle)

		header := headerRow(c)
		values := make([]any, len(header))
		for j, h := range header {
			values[j] = h
		}
		sw.row(headerRowNum, values)
		lastCol, _ := excelize.ColumnNumberToName(len(header))
		sw.style("A5", lastCol+"5", headerStyle)

		for j, row := range dataRows(c) {
			cells := make([]any, len(row))
			for k, v := range row {
				cells[k] = cellValue(v)
			}
			sw.row(headerRowNum+1+j, cells)
		}

		sw.fitColumns()
		if sw.err != nil {
			return nil, sw.err
		}
	}

	f.SetActiveSheet(0)

	buf, err := f.WriteToBuffer()
	if err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

// cellValue writes numbers as numbers and everything else as text.
// Null scalars leave the cell empty.
func cellValue(v domain.Scalar) any {
	if v.IsNull() {
		return nil
	}
	if f, ok := v.Float(); ok {
		return f
	}
	return v.String()
}

// sheetWriter records the first error and the widest rendered value per column
type sheetWriter struct {
	f      *excelize.File
	sheet  string
	widths []int
	err    error
}

func (w *sheetWriter) row(num int, values []any) {
	if w.err != nil {
		return
	}
	for col, v := range values {
		if v == nil {
			continue
		}
		cell, err := excelize.CoordinatesToCellName(col+1, num)
		if err != nil {
			w.err = err
			return
		}
		if err := w.f.SetCellValue(w.sheet, cell, v); err != nil {
			w.err = err
			return
		}
		w.track(col, v)
	}
}

func (w *sheetWriter) style(from, to string, styleID int) {
	if w.err != nil {
		return
	}
	w.err = w.f.SetCellStyle(w.sheet, from, to, styleID)
}

func (w *sheetWriter) track(col int, v any) {
	for len(w.widths) <= col {
		w.widths = append(w.widths, 0)
	}
	var text string
	switch t := v.(type) {
	case string:
		text = t
	case float64:
		text = domain.NumberScalar(t).String()
	}
	if n := utf8.RuneCountInString(text); n > w.widths[col] {
		w.widths[col] = n
	}
}

// fitColumns sizes each column to its widest value plus padding, within
// [minColWidth, maxColWidth]
func (w *sheetWriter) fitColumns() {
	for col, width := range w.widths {
		if w.err != nil {
			return
		}
		name, err := excelize.ColumnNumberToName(col + 1)
		if err != nil {
			w.err = err
			return
		}
		width = min(max(width+colPadding, minColWidth), maxColWidth)
		w.err = w.f.SetColWidth(w.sheet, name, name, float64(width))
	}
}
