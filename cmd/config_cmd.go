// Package cmd implements the cashflow CLI commands.
package cmd

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashflow/internal/config"

	"github.com/spf13/cobra"
)

var configCmd = &cobra.Command{
	Use:   "config",
	Short: "Show current configuration",
	RunE:  runConfig,
}

func init() {
	rootCmd.AddCommand(configCmd)
}

func runConfig(_ *cobra.Command, _ []string) error {
	cfg := appCfg

	fmt.Printf("  Config file: %s\n", config.ConfigPath())
	if config.Exists() {
		fmt.Println("  Status: loaded")
	} else {
		fmt.Println("  Status: using defaults (no config file)")
	}
	fmt.Println()

	fmt.Println("  [General]")
	fmt.Printf("    Default mode:      %s\n", cfg.General.DefaultMode)
	if len(cfg.General.DefaultScenarios) > 0 {
		fmt.Printf("    Default scenarios: %s\n", strings.Join(cfg.General.DefaultScenarios, " | "))
	} else {
		fmt.Println("    Default scenarios: all")
	}
	fmt.Printf("    Dataset file:      %s\n", orNone(cfg.General.DatasetFile))
	fmt.Printf("    Dataset store:     %s\n", orNone(cfg.General.DatasetDB))
	fmt.Printf("    Active source:     %s\n", datasetSource().Origin())
	fmt.Println()

	fmt.Println("  [Appearance]")
	fmt.Printf("    Theme: %s\n", cfg.Appearance.Theme)
	fmt.Println()

	fmt.Println("  [Server]")
	fmt.Printf("    Address:         %s\n", cfg.Server.Addr)
	fmt.Printf("    Reload interval: %s\n", orNone(cfg.Server.ReloadInterval))
	fmt.Printf("    Events buffer:   %d\n", cfg.Server.EventsBuffer)
	fmt.Println()

	fmt.Println("  [Log]")
	fmt.Printf("    Level: %s\n", cfg.Log.Level)
	fmt.Printf("    JSON:  %v\n", cfg.Log.JSON)
	fmt.Println()

	fmt.Println("  Run `cashflow setup` to reconfigure.")
	return nil
}

func orNone(s string) string {
	if s == "" {
		return "(none)"
	}
	return s
}
