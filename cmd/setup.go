package cmd

import (
	"bufio"
	"fmt"
	"os"
	"strings"

	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/model"
	"github.com/theirongolddev/cashflow/internal/pipeline"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/spf13/cobra"
)

var setupCmd = &cobra.Command{
	Use:   "setup",
	Short: "First-time setup wizard",
	RunE:  runSetup,
}

func init() {
	rootCmd.AddCommand(setupCmd)
}

func runSetup(_ *cobra.Command, _ []string) error {
	reader := bufio.NewReader(os.Stdin)
	cfg := appCfg

	res, err := loadData()
	if err != nil {
		return err
	}
	ds := res.Dataset

	fmt.Println()
	fmt.Println("  Welcome to cashflow!")
	fmt.Println()
	fmt.Printf("  %s: %d scenarios over %d periods (%s)\n\n",
		ds.Meta().Title, ds.Len(), len(ds.Timeline()), res.Origin)

	// 1. Default view
	fmt.Println("  1. Default view")
	fmt.Println("     (1) Quarterly Cash Flow [default]")
	fmt.Println("     (2) Cumulative Cash Flow")
	fmt.Print("     > ")
	choice := readLine(reader)
	switch choice {
	case "2":
		cfg.General.DefaultMode = model.ModeCumulative.String()
	default:
		cfg.General.DefaultMode = model.ModeRaw.String()
	}
	fmt.Println()

	// 2. Default scenarios
	fmt.Println("  2. Scenarios shown by default")
	for i, name := range ds.Names() {
		fmt.Printf("     (%d) %s\n", i+1, name)
	}
	fmt.Println("     Numbers separated by spaces, or Enter for all")
	fmt.Print("     > ")
	picks := strings.Fields(readLine(reader))
	if len(picks) == 0 {
		cfg.General.DefaultScenarios = nil
	} else {
		sel, unknown := pipeline.ParseSelection(picks, ds)
		for _, u := range unknown {
			fmt.Printf("     ignoring %q\n", u)
		}
		cfg.General.DefaultScenarios = sel
	}
	fmt.Println()

	// 3. Theme
	fmt.Println("  3. Color theme")
	names := theme.Names()
	for i, name := range names {
		suffix := ""
		if i == 0 {
			suffix = " [default]"
		}
		fmt.Printf("     (%d) %s%s\n", i+1, name, suffix)
	}
	fmt.Print("     > ")
	themeChoice := readLine(reader)
	cfg.Appearance.Theme = names[0]
	for i, name := range names {
		if themeChoice == fmt.Sprint(i+1) || themeChoice == name {
			cfg.Appearance.Theme = name
		}
	}

	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}

	fmt.Println()
	fmt.Printf("  Saved to %s\n", config.ConfigPath())
	fmt.Println("  Run `cashflow setup` anytime to reconfigure.")
	fmt.Println()

	return nil
}

func readLine(r *bufio.Reader) string {
	line, _ := r.ReadString('\n')
	return strings.TrimSpace(line)
}
