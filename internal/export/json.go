package export

import (
	"bytes"
	"encoding/json"

	"github.com/spherical/chart-extractor/internal/domain"
)

// writeJSON pretty-prints the charts array. Each chart echoes the object it
// was decoded from, so field order and unknown keys survive.
func writeJSON(charts []domain.Chart) ([]byte, error) {
	var buf bytes.Buffer
	enc := json.NewEncoder(&buf)
	enc.SetEscapeHTML(false)
	enc.SetIndent("", "  ")
	if err := enc.Encode(charts); err != nil {
		return nil, err
	}
	return bytes.TrimSuffix(buf.Bytes(), []byte("\n")), nil
}
