package extract

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sampleDoc = `{
  "has_charts": true,
  "confidence": 0.92,
  "charts": [
    {"id": 1, "type": "bar", "title": "Sales", "unit": "$", "data": [{"label": "Jan", "value": 100}]}
  ]
}`

func marshal(t *testing.T, v any) string {
	t.Helper()
	b, err := json.Marshal(v)
	require.NoError(t, err)
	return string(b)
}

func TestParseResponse_Direct(t *testing.T) {
	doc, strategy := ParseResponse("  " + sampleDoc + "\n")
	assert.Equal(t, StrategyDirect, strategy)
	assert.True(t, doc.HasCharts)
	assert.InDelta(t, 0.92, doc.Confidence, 1e-9)
	require.Len(t, doc.Charts, 1)
	assert.Equal(t, "Sales", doc.Charts[0].Title)
	assert.JSONEq(t, sampleDoc, marshal(t, doc))
}

func TestParseResponse_Fenced(t *testing.T) {
	tests := map[string]string{
		"json tag":   "```json\n" + sampleDoc + "\n```",
		"no tag":     "```\n" + sampleDoc + "\n```",
		"tight":      "```json" + sampleDoc + "```",
		"surrounded": "\n\n```json\n" + sampleDoc + "\n```  \n",
	}
	for name, reply := range tests {
		t.Run(name, func(t *testing.T) {
			doc, strategy := ParseResponse(reply)
			assert.Equal(t, StrategyFenced, strategy)
			assert.JSONEq(t, sampleDoc, marshal(t, doc))
		})
	}
}

func TestParseResponse_Salvaged(t *testing.T) {
	reply := "Here is the data I found on the page:\n" + sampleDoc + "\nLet me know if you need more."

	doc, strategy := ParseResponse(reply)
	assert.Equal(t, StrategySalvaged, strategy)
	assert.JSONEq(t, sampleDoc, marshal(t, doc))
}

func TestParseResponse_FencedWithProse(t *testing.T) {
	reply := "```json\nSure! " + sampleDoc + "\n```"

	doc, strategy := ParseResponse(reply)
	assert.Equal(t, StrategySalvaged, strategy)
	assert.True(t, doc.HasCharts)
}

func TestParseResponse_Fallback(t *testing.T) {
	for _, reply := range []string{
		"",
		"I could not find any charts in this image.",
		"{not json at all}",
		"[1, 2, 3]",
		"null",
		"Result: { broken",
	} {
		doc, strategy := ParseResponse(reply)
		assert.Equal(t, StrategyFallback, strategy, reply)
		assert.JSONEq(t, `{"has_charts": false, "confidence": 0.0, "charts": []}`, marshal(t, doc), reply)
	}
}

func TestParseResponse_UntrustedSchemaKept(t *testing.T) {
	reply := `{"has_charts": "yes", "confidence": "high", "charts": [{"id": "a", "extra": true, "data": "none"}], "notes": "x"}`

	doc, strategy := ParseResponse(reply)
	assert.Equal(t, StrategyDirect, strategy)
	assert.JSONEq(t, reply, marshal(t, doc))
	require.Len(t, doc.Charts, 1)
	assert.Equal(t, "a", doc.Charts[0].ID.String())
	assert.Empty(t, doc.Charts[0].Data)
}
