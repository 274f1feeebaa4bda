package extract

import (
	"encoding/json"
	"regexp"
	"strings"

	"github.com/spherical/chart-extractor/internal/domain"
)

// Strategy names the parse attempt that produced a document
type Strategy string

const (
	StrategyDirect   Strategy = "direct"
	StrategyFenced   Strategy = "fenced"
	StrategySalvaged Strategy = "salvaged"
	StrategyFallback Strategy = "fallback"
)

var (
	leadingFence  = regexp.MustCompile("^```(?:json)?\\s*")
	trailingFence = regexp.MustCompile("\\s*```$")
	objectSpan    = regexp.MustCompile(`(?s)\{.*\}`)
)

type attempt struct {
	strategy Strategy
	parse    func(text string) (*domain.ChartDocument, bool)
}

// attempts run in order; the first success wins
var attempts = []attempt{
	{StrategyDirect, parseObject},
	{StrategyFenced, func(text string) (*domain.ChartDocument, bool) {
		stripped := stripFence(text)
		if stripped == text {
			return nil, false
		}
		return parseObject(stripped)
	}},
	{StrategySalvaged, func(text string) (*domain.ChartDocument, bool) {
		span := objectSpan.FindString(stripFence(text))
		if span == "" {
			return nil, false
		}
		return parseObject(span)
	}},
}

// ParseResponse turns model reply text into a chart document. It never fails:
// text that holds no JSON object yields the empty no-charts document.
func ParseResponse(text string) (*domain.ChartDocument, Strategy) {
	text = strings.TrimSpace(text)
	for _, a := range attempts {
		if doc, ok := a.parse(text); ok {
			return doc, a.strategy
		}
	}
	return domain.EmptyChartDocument(), StrategyFallback
}

// stripFence removes one leading and one trailing markdown code fence
func stripFence(text string) string {
	text = leadingFence.ReplaceAllString(text, "")
	return trailingFence.ReplaceAllString(text, "")
}

func parseObject(text string) (*domain.ChartDocument, bool) {
	if text == "" {
		return nil, false
	}
	var doc domain.ChartDocument
	if err := json.Unmarshal([]byte(text), &doc); err != nil {
		return nil, false
	}
	return &doc, true
}
