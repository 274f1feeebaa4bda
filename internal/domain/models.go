package domain

import "encoding/json"

// Default media type used for normalized images and placeholders
const DefaultMediaType = "image/jpeg"

// ChartType values the extraction prompt asks the model to use
const (
	ChartTypeBar                  = "bar"
	ChartTypeHorizontalBar        = "horizontal_bar"
	ChartTypeStackedBar           = "stacked_bar"
	ChartTypeStackedHorizontalBar = "stacked_horizontal_bar"
	ChartTypeGroupedBar           = "grouped_bar"
	ChartTypePie                  = "pie"
	ChartTypeDonut                = "donut"
	ChartTypeLine                 = "line"
	ChartTypeArea                 = "area"
	ChartTypeScatter              = "scatter"
)

// ChartTypes lists every recognized chart type in prompt order
var ChartTypes = []string{
	ChartTypeBar,
	ChartTypeHorizontalBar,
	ChartTypeStackedBar,
	ChartTypeStackedHorizontalBar,
	ChartTypeGroupedBar,
	ChartTypePie,
	ChartTypeDonut,
	ChartTypeLine,
	ChartTypeArea,
	ChartTypeScatter,
}

// EncodedImage is the output of the image normalizer
type EncodedImage struct {
	Data      string // base64, standard alphabet
	MediaType string
	Width     int
	Height    int
}

// PageImage represents a single rasterized page or slide
type PageImage struct {
	Page        int    `json:"page"`
	Data        string `json:"data"`
	MediaType   string `json:"media_type"`
	Placeholder bool   `json:"placeholder,omitempty"`
}

// NewPlaceholderPage creates the entry emitted for a slide without pictures
func NewPlaceholderPage(page int) PageImage {
	return PageImage{
		Page:        page,
		Data:        "",
		MediaType:   DefaultMediaType,
		Placeholder: true,
	}
}

// UploadResult is the response for an uploaded document
type UploadResult struct {
	Filename   string      `json:"filename"`
	TotalPages int         `json:"total_pages"`
	Images     []PageImage `json:"images"`
}

// ChartDocument is the extraction result for one page.
// When it was parsed from model output, Raw holds the exact object and is
// what gets serialized back out.
type ChartDocument struct {
	HasCharts  bool    `json:"has_charts"`
	Confidence float64 `json:"confidence"`
	Charts     []Chart `json:"charts"`

	Raw json.RawMessage `json:"-"`
}

// EmptyChartDocument is the fallback for unusable model output
func EmptyChartDocument() *ChartDocument {
	return &ChartDocument{
		HasCharts:  false,
		Confidence: 0.0,
		Charts:     []Chart{},
	}
}

// MarshalJSON echoes the parsed object verbatim when available
func (d ChartDocument) MarshalJSON() ([]byte, error) {
	if len(d.Raw) > 0 {
		return d.Raw, nil
	}
	type plain ChartDocument
	charts := d.Charts
	if charts == nil {
		charts = []Chart{}
	}
	p := plain(d)
	p.Charts = charts
	return json.Marshal(p)
}

// UnmarshalJSON keeps the raw object and decodes the known fields leniently
func (d *ChartDocument) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	if fields == nil {
		return ValidationError("chart document must be a JSON object", nil)
	}

	*d = ChartDocument{Raw: append(json.RawMessage(nil), data...)}
	_ = json.Unmarshal(fields["has_charts"], &d.HasCharts)
	_ = json.Unmarshal(fields["confidence"], &d.Confidence)

	var charts []json.RawMessage
	if err := json.Unmarshal(fields["charts"], &charts); err == nil {
		for _, raw := range charts {
			var c Chart
			if err := json.Unmarshal(raw, &c); err == nil {
				d.Charts = append(d.Charts, c)
			}
		}
	}
	return nil
}
