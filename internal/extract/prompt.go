package extract

// Prompt is sent alongside every page image. It asks for a single JSON object
// describing every chart on the page.
const Prompt = `Analyze this image and extract every chart or graph you can find.

For EACH chart:
1. Identify chart type: bar, horizontal_bar, stacked_bar, stacked_horizontal_bar,
   grouped_bar, pie, donut, line, area, scatter
2. Extract the title (if visible)
3. Extract ALL data points with exact labels and numeric values
4. Identify legend / series names for multi-series charts
5. Note the unit (%, $, count, etc.) if shown

Return ONLY a valid JSON object. No markdown, no explanation:

{
  "has_charts": true,
  "confidence": 0.95,
  "charts": [
    {
      "id": 1,
      "type": "stacked_horizontal_bar",
      "title": "Survey Results 2024",
      "unit": "%",
      "series": ["Strongly Agree", "Agree", "Neutral", "Disagree", "Strongly Disagree"],
      "data": [
        {
          "label": "I feel valued at work",
          "values": {
            "Strongly Agree": 32,
            "Agree": 41,
            "Neutral": 15,
            "Disagree": 8,
            "Strongly Disagree": 4
          }
        }
      ]
    }
  ]
}

For single-series charts use "value" (number), not "values":
  "data": [{"label": "January", "value": 42.5}]

For pie / donut charts use "value" per slice.

If no charts are found:
{"has_charts": false, "confidence": 1.0, "charts": []}

Return ONLY the JSON object.`
