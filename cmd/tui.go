package cmd

import (
	"fmt"

	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/tui"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/muesli/termenv"
	"github.com/spf13/cobra"
)

var tuiCmd = &cobra.Command{
	Use:   "tui",
	Short: "Launch the interactive dashboard",
	RunE:  runTUI,
}

func init() {
	rootCmd.AddCommand(tuiCmd)
}

func runTUI(_ *cobra.Command, _ []string) error {
	theme.SetActive(appCfg.Appearance.Theme)

	// Force TrueColor so every background style produces ANSI codes.
	lipgloss.SetColorProfile(termenv.TrueColor)

	mode, err := viewMode()
	if err != nil {
		return err
	}

	// --scenario and the configured default both accept names or 1-based
	// indices, so resolve them against the dataset before the dashboard
	// starts. Unknown entries are warned about and dropped.
	var initial []string
	if len(flagScenarios) > 0 || len(appCfg.General.DefaultScenarios) > 0 {
		res, err := loadData()
		if err != nil {
			return err
		}
		initial = selection(res.Dataset)
	}

	interval, err := appCfg.Server.ReloadEvery()
	if err != nil {
		return err
	}

	app := tui.NewApp(tui.Options{
		Source:         datasetSource(),
		Selection:      initial,
		Mode:           mode,
		ReloadInterval: interval,
		NeedSetup:      !config.Exists(),
	})
	p := tea.NewProgram(app, tea.WithAltScreen())

	if _, err := p.Run(); err != nil {
		return fmt.Errorf("TUI error: %w", err)
	}
	return nil
}
