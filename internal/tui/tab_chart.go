package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/tui/components"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	xAxisCaption = "Timeline (CY / Quarter)"
	yAxisCaption = "Amount (USD)"
	minChartRows = 8
)

type chartState struct {
	bars bool // per-scenario bar charts instead of the shared line chart
}

func (a App) renderChartTab(cw, contentH int) string {
	if a.view.Empty() {
		return a.renderEmptyState(cw)
	}

	cards := a.renderTotalCards(cw)
	remaining := contentH - lipgloss.Height(cards)

	var body string
	if a.chart.bars {
		body = a.renderBarCharts(cw, remaining)
	} else {
		body = a.renderLineChart(cw, remaining)
	}
	return cards + "\n" + body
}

// renderTotalCards shows one metric card per selected scenario.
func (a App) renderTotalCards(cw int) string {
	metrics := make([]components.Metric, len(a.totals))
	for i, tot := range a.totals {
		detail := fmt.Sprintf("%d payments", tot.Payments)
		if tot.Payments > 0 {
			detail += fmt.Sprintf(" · peak %s %s", cli.FormatCompact(tot.Peak), tot.PeakLabel)
		}
		metrics[i] = components.Metric{
			Label:  tot.Name,
			Value:  cli.FormatCurrency(tot.Net),
			Detail: detail,
			Color:  a.seriesColor(tot.Name),
		}
	}
	return components.MetricCardRow(metrics, cw)
}

func (a App) chartSeries() []components.ChartSeries {
	series := make([]components.ChartSeries, len(a.view.Series))
	for i, s := range a.view.Series {
		series[i] = components.ChartSeries{
			Name:   s.ScenarioName,
			Values: s.Values(),
			Color:  a.seriesColor(s.ScenarioName),
		}
	}
	return series
}

func (a App) renderLineChart(cw, availH int) string {
	t := theme.Active
	series := a.chartSeries()

	// card border (2) + title + y caption + x caption + legend
	chrome := 2 + 3 + len(series)
	chartH := max(availH-chrome, minChartRows)
	innerW := components.CardInnerWidth(cw)

	captionStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	var b strings.Builder
	b.WriteString(captionStyle.Render(yAxisCaption))
	b.WriteString("\n")
	b.WriteString(components.LineChart(series, a.view.Table.RowLabels, innerW, chartH, lipgloss.NoColor{}))
	b.WriteString("\n")
	b.WriteString(lipgloss.PlaceHorizontal(innerW, lipgloss.Center, captionStyle.Render(xAxisCaption)))
	b.WriteString("\n")
	b.WriteString(components.ChartLegend(series, lipgloss.NoColor{}))

	return components.ContentCard(a.mode.Label()+" Over Time", b.String(), cw)
}

// renderBarCharts draws one small bar chart per selected scenario, two per row.
func (a App) renderBarCharts(cw, availH int) string {
	series := a.chartSeries()
	perRow := min(2, len(series))
	rows := (len(series) + perRow - 1) / perRow

	// each card: border (2) + title + axis + x labels
	cardH := max(availH/rows-5, 3)

	var out []string
	for start := 0; start < len(series); start += perRow {
		end := min(start+perRow, len(series))
		widths := components.LayoutRow(cw, end-start)
		var cards []string
		for i, s := range series[start:end] {
			w := widths[i]
			chart := components.BarChart(s.Values, a.view.Table.RowLabels, s.Color, components.CardInnerWidth(w), cardH)
			cards = append(cards, components.ContentCard(truncStr(s.Name, components.CardInnerWidth(w)), chart, w))
		}
		out = append(out, components.CardRow(cards))
	}
	return strings.Join(out, "\n")
}
