package dashboard

import "encoding/json"

const vegaLiteSchema = "https://vega.github.io/schema/vega-lite/v5.json"

// singleDateColor distinguishes the per-minute chart from the per-date one.
const singleDateColor = "orange"

// ChartSpec builds the Vega-Lite specification of the view's chart.
// It returns nil when the view shows the no-data notice instead.
func (v View) ChartSpec() map[string]any {
	if !v.HasChart() {
		return nil
	}

	if v.Mode == ModeSingleDate {
		values := make([]map[string]any, 0, len(v.Bars))
		for _, b := range v.Bars {
			values = append(values, map[string]any{"time": b.Label, "boarding": b.Boarding})
		}
		return map[string]any{
			"$schema": vegaLiteSchema,
			"title":   v.Title,
			"width":   "container",
			"data":    map[string]any{"values": values},
			"mark":    map[string]any{"type": "bar", "color": singleDateColor},
			"encoding": map[string]any{
				"x": map[string]any{
					"field": "time",
					"type":  "ordinal",
					"title": "Hour",
					"sort":  "ascending",
				},
				"y": map[string]any{
					"field": "boarding",
					"type":  "quantitative",
					"title": "Number of Passengers",
				},
				"tooltip": []map[string]any{
					{"field": "time", "type": "ordinal"},
					{"field": "boarding", "type": "quantitative"},
				},
			},
		}
	}

	values := make([]map[string]any, 0, len(v.Bars))
	for _, b := range v.Bars {
		values = append(values, map[string]any{"date": b.Label, "boarding": b.Boarding})
	}
	return map[string]any{
		"$schema": vegaLiteSchema,
		"title":   v.Title,
		"width":   "container",
		"data":    map[string]any{"values": values},
		"mark":    map[string]any{"type": "bar"},
		"encoding": map[string]any{
			"x": map[string]any{
				"field":    "date",
				"type":     "temporal",
				"timeUnit": "utcyearmonthdate",
				"title":    "Date",
				"axis":     map[string]any{"format": "%Y-%m-%d"},
			},
			"y": map[string]any{
				"field": "boarding",
				"type":  "quantitative",
				"title": "Number of Passengers",
			},
			"tooltip": []map[string]any{
				{"field": "date", "type": "temporal", "timeUnit": "utcyearmonthdate", "format": "%Y-%m-%d"},
				{"field": "boarding", "type": "quantitative"},
			},
		},
	}
}

// ChartJSON encodes ChartSpec. It returns "" when there is no chart.
func (v View) ChartJSON() (string, error) {
	spec := v.ChartSpec()
	if spec == nil {
		return "", nil
	}
	b, err := json.Marshal(spec)
	if err != nil {
		return "", err
	}
	return string(b), nil
}
