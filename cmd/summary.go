package cmd

import (
	"fmt"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/model"

	"github.com/samber/lo"
	"github.com/spf13/cobra"
)

var summaryCmd = &cobra.Command{
	Use:   "summary",
	Short: "Period-by-scenario cash flow table (default command)",
	RunE:  runSummary,
}

func init() {
	rootCmd.AddCommand(summaryCmd)
}

func runSummary(_ *cobra.Command, _ []string) error {
	res, view, err := buildView()
	if err != nil {
		return err
	}
	meta := res.Dataset.Meta()

	fmt.Println()
	fmt.Println(cli.RenderTitle(fmt.Sprintf("%s  ·  %s", meta.Title, view.Mode.Label())))
	fmt.Println()

	if view.Empty() {
		fmt.Println(cli.RenderWarning("Please select at least one scenario."))
		fmt.Println()
		return nil
	}

	fmt.Print(cli.RenderTable(pivotTable(view)))

	if meta.Source != "" {
		fmt.Println(cli.RenderMuted(fmt.Sprintf("  Source: %s (%s)", meta.Source, meta.Currency)))
	}
	return nil
}

// pivotTable lays the view out as the CLI table: one row per period, one
// column per scenario, and a net-total footer in raw mode.
func pivotTable(view model.View) cli.Table {
	tbl := view.Table

	headers := make([]string, 0, len(tbl.Columns)+1)
	headers = append(headers, "Period")
	for _, col := range tbl.Columns {
		headers = append(headers, col.ScenarioName)
	}

	rows := make([][]string, 0, len(tbl.RowLabels)+2)
	for r, label := range tbl.RowLabels {
		row := make([]string, 0, len(tbl.Columns)+1)
		row = append(row, label)
		for _, col := range tbl.Columns {
			row = append(row, cli.FormatCell(col.Values[r]))
		}
		rows = append(rows, row)
	}

	if view.Mode == model.ModeRaw {
		net := []string{"Net"}
		for _, s := range view.Series {
			net = append(net, cli.FormatCurrency(lo.Sum(s.Values())))
		}
		rows = append(rows, []string{"---"}, net)
	}

	return cli.Table{Headers: headers, Rows: rows}
}
