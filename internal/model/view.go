package model

import "encoding/json"

// Point is a single chart coordinate.
type Point struct {
	Label string  `json:"label"`
	Value float64 `json:"value"`
}

// Series is one scenario's line on the chart.
type Series struct {
	ScenarioName string  `json:"scenarioName"`
	Periods      []Point `json:"periods"`
}

// Values returns the series amounts in order.
func (s Series) Values() []float64 {
	out := make([]float64, len(s.Periods))
	for i, p := range s.Periods {
		out[i] = p.Value
	}
	return out
}

// Column is one scenario's column in the pivot table. A nil cell means
// the scenario has no period with that row's label.
type Column struct {
	ScenarioName string     `json:"scenarioName"`
	Values       []*float64 `json:"values"`
}

// Table is the period-by-scenario pivot.
type Table struct {
	RowLabels []string `json:"rowLabels"`
	Columns   []Column `json:"columns"`
}

// Cell returns the value at (row, col) and whether it is present.
func (t Table) Cell(row, col int) (float64, bool) {
	if col < 0 || col >= len(t.Columns) {
		return 0, false
	}
	vals := t.Columns[col].Values
	if row < 0 || row >= len(vals) || vals[row] == nil {
		return 0, false
	}
	return *vals[row], true
}

// View is everything a presentation layer needs for one selection + mode.
type View struct {
	Mode   ViewMode `json:"mode"`
	Series []Series `json:"series"`
	Table  Table    `json:"table"`
}

// Empty reports the "no scenario selected" state.
func (v View) Empty() bool {
	return len(v.Series) == 0
}

// MarshalJSON adds the derived "empty" flag.
func (v View) MarshalJSON() ([]byte, error) {
	type plain View
	return json.Marshal(struct {
		plain
		Empty bool `json:"empty"`
	}{plain(v), v.Empty()})
}

// ScenarioTotal summarizes one scenario for cards and listings.
// Payments counts non-zero periods; FirstLabel is the earliest of them.
type ScenarioTotal struct {
	Name       string  `json:"name"`
	Net        float64 `json:"net"`
	Peak       float64 `json:"peak"`
	PeakLabel  string  `json:"peakLabel"`
	Payments   int     `json:"payments"`
	FirstLabel string  `json:"firstLabel,omitempty"`
}
