package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"github.com/spherical/chart-extractor/internal/domain"
)

// utf8BOM lets spreadsheet tools detect the encoding
const utf8BOM = "\ufeff"

// writeCSV emits one block per chart, blocks separated by a blank row:
// a metadata row, a blank row, the header row, then the data rows.
func writeCSV(charts []domain.Chart) ([]byte, error) {
	var buf bytes.Buffer
	buf.WriteString(utf8BOM)

	w := csv.NewWriter(&buf)
	w.UseCRLF = true

	for i, c := range charts {
		if i > 0 {
			if err := w.Write([]string{}); err != nil {
				return nil, err
			}
		}

		records := [][]string{
			{
				fmt.Sprintf("Chart: %s", chartTitle(c, i)),
				fmt.Sprintf("Type: %s", chartType(c)),
				fmt.Sprintf("Unit: %s", c.Unit),
			},
			{},
			headerRow(c),
		}
		for _, row := range dataRows(c) {
			record := make([]string, len(row))
			for j, v := range row {
				record[j] = v.String()
			}
			records = append(records, record)
		}

		for _, record := range records {
			if err := w.Write(record); err != nil {
				return nil, err
			}
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}
