package components

import (
	"strings"
	"testing"

	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var quarters = []string{"CY2026 Q1", "CY2026 Q2", "CY2026 Q3", "CY2026 Q4"}

func TestLineChartDimensions(t *testing.T) {
	series := []ChartSeries{
		{Name: "a", Values: []float64{129000, 129000, 258000, 258000}, Color: lipgloss.Color("#3AA99F")},
		{Name: "b", Values: []float64{100000, 379000, 379000, 508000}, Color: lipgloss.Color("#DA702C")},
	}

	out := LineChart(series, quarters, 60, 14, lipgloss.NoColor{})
	lines := strings.Split(out, "\n")
	require.Len(t, lines, 14, "plot rows + axis + labels")

	plain := ansi.Strip(out)
	assert.Contains(t, plain, "●")
	assert.Contains(t, plain, "CY2026 Q1")
	assert.Contains(t, plain, "0")
	for _, l := range lines {
		assert.LessOrEqual(t, lipgloss.Width(l), 60)
	}
}

func TestLineChartEmpty(t *testing.T) {
	assert.Empty(t, LineChart(nil, quarters, 60, 10, lipgloss.NoColor{}))
	assert.Empty(t, LineChart([]ChartSeries{{Name: "a"}}, nil, 60, 10, lipgloss.NoColor{}))
}

func TestLineChartNegativeValues(t *testing.T) {
	out := ansi.Strip(LineChart([]ChartSeries{
		{Name: "refund", Values: []float64{-50000, 20000, 0, 10000}, Color: lipgloss.Color("1")},
	}, quarters, 50, 10, lipgloss.NoColor{}))
	assert.Contains(t, out, "-$")
}

func TestChartTickStep(t *testing.T) {
	assert.Equal(t, 1.0, chartTickStep(0))
	assert.Equal(t, 100000.0, chartTickStep(500000))
	assert.Equal(t, 200000.0, chartTickStep(1174000))
}

func TestFormatChartLabel(t *testing.T) {
	assert.Equal(t, "0", formatChartLabel(0))
	assert.Equal(t, "$200k", formatChartLabel(200000))
	assert.Equal(t, "$1.2M", formatChartLabel(1200000))
	assert.Equal(t, "$1M", formatChartLabel(1000000))
	assert.Equal(t, "-$50k", formatChartLabel(-50000))
}

func TestChartLegend(t *testing.T) {
	out := ansi.Strip(ChartLegend([]ChartSeries{{Name: "a"}, {Name: "b"}}, lipgloss.NoColor{}))
	assert.Equal(t, "● a\n● b", out)
}
