package domain

import (
	"bytes"
	"encoding/json"
	"strconv"
)

// Scalar is a leaf JSON value from model output. Models are not consistent
// about quoting numbers or labels, so the raw token is kept and interpreted
// on demand.
type Scalar struct {
	raw json.RawMessage
}

// StringScalar builds a Scalar holding a JSON string
func StringScalar(s string) Scalar {
	b, _ := json.Marshal(s)
	return Scalar{raw: b}
}

// NumberScalar builds a Scalar holding a JSON number
func NumberScalar(f float64) Scalar {
	return Scalar{raw: json.RawMessage(strconv.FormatFloat(f, 'f', -1, 64))}
}

// IsNull reports whether the value is absent or JSON null
func (s Scalar) IsNull() bool {
	t := bytes.TrimSpace(s.raw)
	return len(t) == 0 || bytes.Equal(t, []byte("null"))
}

// String renders the value as a spreadsheet cell would show it.
// Strings are unquoted, numbers keep their source formatting, null is blank.
func (s Scalar) String() string {
	if s.IsNull() {
		return ""
	}
	t := bytes.TrimSpace(s.raw)
	if t[0] == '"' {
		var str string
		if err := json.Unmarshal(t, &str); err == nil {
			return str
		}
	}
	return string(t)
}

// Float returns the numeric value if the scalar is a JSON number
func (s Scalar) Float() (float64, bool) {
	if s.IsNull() {
		return 0, false
	}
	t := bytes.TrimSpace(s.raw)
	if t[0] == '"' || t[0] == '{' || t[0] == '[' || t[0] == 't' || t[0] == 'f' {
		return 0, false
	}
	f, err := strconv.ParseFloat(string(t), 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

func (s Scalar) MarshalJSON() ([]byte, error) {
	if len(s.raw) == 0 {
		return []byte("null"), nil
	}
	return s.raw, nil
}

func (s *Scalar) UnmarshalJSON(data []byte) error {
	s.raw = append(json.RawMessage(nil), data...)
	return nil
}

// Chart is one chart found on a page.
// Raw holds the object exactly as received so JSON export can echo it.
type Chart struct {
	ID     Scalar      `json:"id"`
	Type   string      `json:"type"`
	Title  string      `json:"title,omitempty"`
	Unit   string      `json:"unit,omitempty"`
	Series []Scalar    `json:"series,omitempty"`
	Data   []DataPoint `json:"data"`

	Raw json.RawMessage `json:"-"`
}

// SeriesNames returns the series legend as strings
func (c Chart) SeriesNames() []string {
	names := make([]string, 0, len(c.Series))
	for _, s := range c.Series {
		names = append(names, s.String())
	}
	return names
}

// IsMultiSeries reports whether data points are expected to carry per-series values
func (c Chart) IsMultiSeries() bool {
	return len(c.Series) > 0
}

func (c Chart) MarshalJSON() ([]byte, error) {
	if len(c.Raw) > 0 {
		return c.Raw, nil
	}
	type plain Chart
	p := plain(c)
	if p.Data == nil {
		p.Data = []DataPoint{}
	}
	return json.Marshal(p)
}

// UnmarshalJSON requires an object but tolerates wrong or missing fields;
// a field that does not decode is left at its zero value.
func (c *Chart) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return ValidationError("chart must be a JSON object", err)
	}
	if fields == nil {
		return ValidationError("chart must be a JSON object", nil)
	}

	*c = Chart{Raw: append(json.RawMessage(nil), data...)}
	if v, ok := fields["id"]; ok {
		c.ID = Scalar{raw: v}
	}
	c.Type = textField(fields["type"])
	c.Title = textField(fields["title"])
	c.Unit = textField(fields["unit"])
	_ = json.Unmarshal(fields["series"], &c.Series)

	var points []json.RawMessage
	if err := json.Unmarshal(fields["data"], &points); err == nil {
		for _, raw := range points {
			var p DataPoint
			if err := json.Unmarshal(raw, &p); err == nil {
				c.Data = append(c.Data, p)
			}
		}
	}
	return nil
}

// DataPoint is either {label, value} or {label, values}
type DataPoint struct {
	Label  Scalar            `json:"label"`
	Value  Scalar            `json:"value,omitempty"`
	Values map[string]Scalar `json:"values,omitempty"`
}

func (p *DataPoint) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}
	*p = DataPoint{}
	if v, ok := fields["label"]; ok {
		p.Label = Scalar{raw: v}
	}
	if v, ok := fields["value"]; ok {
		p.Value = Scalar{raw: v}
	}
	_ = json.Unmarshal(fields["values"], &p.Values)
	return nil
}

// SeriesValue looks up one series; a missing key yields a null scalar
func (p DataPoint) SeriesValue(name string) Scalar {
	if p.Values == nil {
		return Scalar{}
	}
	return p.Values[name]
}

// textField decodes a string-ish field, accepting bare numbers and null
func textField(raw json.RawMessage) string {
	if raw == nil {
		return ""
	}
	return Scalar{raw: raw}.String()
}
