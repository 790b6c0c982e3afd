package cmd

import (
	"fmt"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/tui/components"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

var (
	flagChartWidth  int
	flagChartHeight int
)

var chartCmd = &cobra.Command{
	Use:   "chart",
	Short: "Plot the selected scenarios as a terminal line chart",
	RunE:  runChart,
}

func init() {
	chartCmd.Flags().IntVar(&flagChartWidth, "width", 100, "Chart width in columns")
	chartCmd.Flags().IntVar(&flagChartHeight, "height", 20, "Chart height in rows")
	rootCmd.AddCommand(chartCmd)
}

func runChart(_ *cobra.Command, _ []string) error {
	res, view, err := buildView()
	if err != nil {
		return err
	}
	if flagChartWidth < 40 || flagChartHeight < 6 {
		return fmt.Errorf("chart needs at least 40x6, got %dx%d", flagChartWidth, flagChartHeight)
	}
	theme.SetActive(appCfg.Appearance.Theme)

	fmt.Println()
	fmt.Println(cli.RenderTitle(view.Mode.Label() + " Over Time"))
	fmt.Println()

	if view.Empty() {
		fmt.Println(cli.RenderWarning("Please select at least one scenario."))
		fmt.Println()
		return nil
	}

	series := make([]components.ChartSeries, len(view.Series))
	for i, s := range view.Series {
		series[i] = components.ChartSeries{
			Name:   s.ScenarioName,
			Values: s.Values(),
			Color:  theme.Active.SeriesColor(res.Dataset.Position(s.ScenarioName)),
		}
	}

	bg := lipgloss.NoColor{}
	fmt.Println(cli.RenderMuted("  Amount (" + currencyOf(res.Dataset.Meta().Currency) + ")"))
	fmt.Println(components.LineChart(series, view.Table.RowLabels, flagChartWidth, flagChartHeight, bg))
	fmt.Println(lipgloss.PlaceHorizontal(flagChartWidth, lipgloss.Center, cli.RenderMuted("Timeline (CY / Quarter)")))
	fmt.Println()
	fmt.Println(components.ChartLegend(series, bg))
	fmt.Println()
	return nil
}

func currencyOf(c string) string {
	if c == "" {
		return "USD"
	}
	return c
}
