// Package pipeline turns the scenario dataset into chart series and pivot
// tables, and resolves where the dataset is loaded from.
package pipeline

import (
	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/model"

	"github.com/samber/lo"
	"gonum.org/v1/gonum/floats"
)

// Cumulative returns the inclusive running sum of series in order.
// The input is left untouched.
func Cumulative(series []float64) []float64 {
	out := make([]float64, len(series))
	if len(series) == 0 {
		return out
	}
	return floats.CumSum(out, series)
}

// Resolve returns the selected scenarios in dataset order. Names the
// dataset does not know are dropped.
func Resolve(sel model.Selection, ds *dataset.Dataset) []model.Scenario {
	if len(sel) == 0 || ds == nil {
		return []model.Scenario{}
	}
	return lo.Filter(ds.Scenarios(), func(s model.Scenario, _ int) bool {
		return sel.Contains(s.Name)
	})
}

// applyMode returns the scenario's values for the given mode, keyed by
// period label.
func applyMode(s model.Scenario, mode model.ViewMode) []model.Point {
	values := s.Values()
	if mode == model.ModeCumulative {
		values = Cumulative(values)
	}
	points := make([]model.Point, len(s.Periods))
	for i, p := range s.Periods {
		points[i] = model.Point{Label: p.Label, Value: values[i]}
	}
	return points
}

// Series builds one chart series per scenario, in the order given.
func Series(scenarios []model.Scenario, mode model.ViewMode) []model.Series {
	out := make([]model.Series, len(scenarios))
	for i, s := range scenarios {
		out[i] = model.Series{ScenarioName: s.Name, Periods: applyMode(s, mode)}
	}
	return out
}

// Pivot lays scenarios out as columns against the shared timeline. Cells
// are matched by period label; a label a scenario lacks yields a nil cell.
func Pivot(timeline []string, scenarios []model.Scenario, mode model.ViewMode) model.Table {
	t := model.Table{
		RowLabels: append([]string{}, timeline...),
		Columns:   make([]model.Column, len(scenarios)),
	}
	for c, s := range scenarios {
		byLabel := make(map[string]float64, len(s.Periods))
		for _, p := range applyMode(s, mode) {
			if _, seen := byLabel[p.Label]; !seen {
				byLabel[p.Label] = p.Value
			}
		}
		col := model.Column{ScenarioName: s.Name, Values: make([]*float64, len(timeline))}
		for r, label := range timeline {
			if v, ok := byLabel[label]; ok {
				col.Values[r] = &v
			}
		}
		t.Columns[c] = col
	}
	return t
}

// BuildView resolves the selection and produces both output shapes.
// An empty or fully unknown selection yields an empty view whose table
// still carries every timeline row.
func BuildView(ds *dataset.Dataset, sel model.Selection, mode model.ViewMode) model.View {
	resolved := Resolve(sel, ds)
	var timeline []string
	if ds != nil {
		timeline = ds.Timeline()
	}
	return model.View{
		Mode:   mode,
		Series: Series(resolved, mode),
		Table:  Pivot(timeline, resolved, mode),
	}
}

// Totals summarizes each scenario's raw amounts.
func Totals(scenarios []model.Scenario) []model.ScenarioTotal {
	return lo.Map(scenarios, func(s model.Scenario, _ int) model.ScenarioTotal {
		st := model.ScenarioTotal{Name: s.Name}
		for _, p := range s.Periods {
			st.Net += p.Value
			if p.Value != 0 {
				st.Payments++
				if st.FirstLabel == "" {
					st.FirstLabel = p.Label
				}
			}
			if p.Value > st.Peak || st.PeakLabel == "" {
				st.Peak = p.Value
				st.PeakLabel = p.Label
			}
		}
		return st
	})
}
