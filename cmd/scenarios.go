package cmd

import (
	"fmt"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/model"
	"github.com/theirongolddev/cashflow/internal/pipeline"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var scenariosCmd = &cobra.Command{
	Use:   "scenarios",
	Short: "List scenarios with their index, net total and payment profile",
	RunE:  runScenarios,
}

func init() {
	rootCmd.AddCommand(scenariosCmd)
}

func runScenarios(_ *cobra.Command, _ []string) error {
	res, err := loadData()
	if err != nil {
		return err
	}
	ds := res.Dataset
	scenarios := ds.Scenarios()
	totals := pipeline.Totals(scenarios)

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("SCENARIOS  %s", ds.Meta().Title)))
	fmt.Println()

	maxNet := lo.MaxBy(totals, func(a, b model.ScenarioTotal) bool { return a.Net > b.Net }).Net

	rows := make([][]string, len(totals))
	for i, tot := range totals {
		share := ""
		if maxNet > 0 {
			share = cli.FormatPercent(tot.Net/maxNet) + " " + cli.RenderHorizontalBar(tot.Net, maxNet, 12)
		}
		delta := cli.Missing
		if i > 0 {
			delta = cli.FormatDelta(tot.Net, totals[0].Net)
		}
		peak := cli.Missing
		if tot.Payments > 0 {
			peak = fmt.Sprintf("%s (%s)", cli.FormatCurrency(tot.Peak), tot.PeakLabel)
		}
		rows[i] = []string{
			fmt.Sprintf("%d", i+1),
			tot.Name,
			cli.FormatCurrency(tot.Net),
			delta,
			share,
			cli.FormatNumber(int64(tot.Payments)),
			peak,
			cli.RenderSparkline(scenarios[i].Values()),
		}
	}

	fmt.Print(cli.RenderTable(cli.Table{
		Headers: []string{"#", "Scenario", "Net", "vs #1", "Of Max", "Payments", "Peak", "Profile"},
		Rows:    rows,
	}))
	fmt.Println(cli.RenderMuted(fmt.Sprintf("  %d periods, %s to %s · loaded from %s",
		len(ds.Timeline()), ds.Timeline()[0], ds.Timeline()[len(ds.Timeline())-1], res.Origin)))
	fmt.Println(cli.RenderMuted("  Select with --scenario NAME or --scenario INDEX"))
	fmt.Println()
	return nil
}
