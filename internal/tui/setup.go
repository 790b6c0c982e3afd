package tui

import (
	"errors"
	"fmt"

	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/model"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/huh"
	"github.com/samber/lo"
)

// setupValues receives the first-run form answers.
type setupValues struct {
	mode      string
	scenarios []string
	theme     string
}

func newSetupValues(ds *dataset.Dataset, mode model.ViewMode) *setupValues {
	return &setupValues{
		mode:      mode.String(),
		scenarios: ds.Names(),
		theme:     theme.Active.Name,
	}
}

func newSetupForm(ds *dataset.Dataset, vals *setupValues) *huh.Form {
	meta := ds.Meta()

	modeOpts := lo.Map(model.Modes, func(m model.ViewMode, _ int) huh.Option[string] {
		return huh.NewOption(m.Label(), m.String())
	})
	scenarioOpts := lo.Map(ds.Names(), func(name string, i int) huh.Option[string] {
		return huh.NewOption(fmt.Sprintf("%d. %s", i+1, name), name).Selected(true)
	})

	return huh.NewForm(
		huh.NewGroup(
			huh.NewNote().
				Title("Welcome to cashflow").
				Description(fmt.Sprintf("%s\n%d scenarios over %d periods. Settings are saved to %s.",
					meta.Title, ds.Len(), len(ds.Timeline()), config.ConfigPath())),
			huh.NewSelect[string]().
				Title("Default view").
				Options(modeOpts...).
				Value(&vals.mode),
			huh.NewMultiSelect[string]().
				Title("Scenarios shown at startup").
				Options(scenarioOpts...).
				Validate(func(sel []string) error {
					if len(sel) == 0 {
						return errors.New("pick at least one scenario")
					}
					return nil
				}).
				Value(&vals.scenarios),
			huh.NewSelect[string]().
				Title("Color theme").
				Options(huh.NewOptions(theme.Names()...)...).
				Value(&vals.theme),
		),
	).WithShowHelp(true)
}

// saveSetupConfig applies the form answers to the running app and writes
// them to the config file.
func (a *App) saveSetupConfig() error {
	cfg := loadConfigOrDefault()

	if mode, err := model.ParseViewMode(a.setupVals.mode); err == nil {
		cfg.General.DefaultMode = mode.String()
		a.mode = mode
	}

	if len(a.setupVals.scenarios) == a.ds.Len() {
		cfg.General.DefaultScenarios = nil
	} else {
		cfg.General.DefaultScenarios = a.setupVals.scenarios
	}
	chosen := model.NewSelection(a.setupVals.scenarios...)
	for _, name := range a.ds.Names() {
		a.selected[name] = chosen.Contains(name)
	}

	if theme.Known(a.setupVals.theme) {
		cfg.Appearance.Theme = a.setupVals.theme
		theme.SetActive(a.setupVals.theme)
	}

	a.recompute()
	if err := config.Save(cfg); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	return nil
}
