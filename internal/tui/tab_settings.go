package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/model"
	"github.com/theirongolddev/cashflow/internal/tui/components"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

const (
	settingsFieldTheme = iota
	settingsFieldMode
	settingsFieldScenarios
	settingsFieldCount // sentinel
)

// settingsState tracks the settings tab state.
type settingsState struct {
	cursor  int
	saved   bool  // flash "saved" after a successful write
	saveErr error // non-nil if the last save failed
}

// settingsApply acts on the field under the cursor and persists the result:
// the theme cycles, the default mode flips, and the default scenarios are
// set to the current selection.
func (a *App) settingsApply() {
	cfg := loadConfigOrDefault()

	switch a.settings.cursor {
	case settingsFieldTheme:
		cfg.Appearance.Theme = nextTheme(cfg.Appearance.Theme)
		theme.SetActive(cfg.Appearance.Theme)
		a.spinner.Style = a.spinner.Style.Foreground(theme.Active.Accent)
		a.syncTable()
	case settingsFieldMode:
		mode, err := cfg.Mode()
		if err != nil {
			mode = model.ModeRaw
		}
		cfg.General.DefaultMode = mode.Toggle().String()
	case settingsFieldScenarios:
		names := a.selectionNames()
		if len(names) == a.ds.Len() {
			names = nil // all, and stays all when scenarios are added
		}
		cfg.General.DefaultScenarios = names
	}

	a.settings.saveErr = config.Save(cfg)
	a.settings.saved = a.settings.saveErr == nil
}

func nextTheme(current string) string {
	names := theme.Names()
	for i, n := range names {
		if n == current {
			return names[(i+1)%len(names)]
		}
	}
	return names[0]
}

func (a App) renderSettingsTab(cw int) string {
	t := theme.Active
	cfg := loadConfigOrDefault()

	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	valueStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	selectedStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.SurfaceBright).Bold(true)
	selectedLabelStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.SurfaceBright).Bold(true)
	greenStyle := lipgloss.NewStyle().Foreground(t.GreenBright).Background(t.Surface)
	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.SurfaceBright)

	defaultScenarios := "all"
	if n := len(cfg.General.DefaultScenarios); n > 0 {
		defaultScenarios = fmt.Sprintf("%d selected", n)
	}
	modeLabel := cfg.General.DefaultMode
	if m, err := cfg.Mode(); err == nil {
		modeLabel = m.Label()
	}

	fields := []struct{ label, value string }{
		{"Theme", cfg.Appearance.Theme},
		{"Default View", modeLabel},
		{"Default Scenarios", defaultScenarios},
	}

	innerW := components.CardInnerWidth(cw)
	var form strings.Builder
	for i, f := range fields {
		if i == a.settings.cursor {
			marker := markerStyle.Render("▸ ")
			label := selectedLabelStyle.Render(fmt.Sprintf("%-20s ", f.label+":"))
			value := selectedStyle.Render(f.value)
			form.WriteString(marker + label + value)
			if pad := innerW - lipgloss.Width(marker) - lipgloss.Width(label) - lipgloss.Width(value); pad > 0 {
				form.WriteString(lipgloss.NewStyle().Background(t.SurfaceBright).Render(strings.Repeat(" ", pad)))
			}
		} else {
			form.WriteString(lipgloss.NewStyle().Background(t.Surface).Render("  "))
			form.WriteString(labelStyle.Render(fmt.Sprintf("%-20s ", f.label+":")))
			form.WriteString(valueStyle.Render(f.value))
		}
		form.WriteString("\n")
	}

	if a.settings.saveErr != nil {
		warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)
		form.WriteString("\n")
		form.WriteString(warnStyle.Render(fmt.Sprintf("Save failed: %s", a.settings.saveErr)))
	} else if a.settings.saved {
		form.WriteString("\n")
		form.WriteString(greenStyle.Render("Saved!"))
	}
	form.WriteString("\n")
	form.WriteString(labelStyle.Render("[j/k] navigate  [Enter] change  (Default Scenarios saves the current selection)"))

	meta := a.ds.Meta()
	info := []struct{ label, value string }{
		{"Dataset:", meta.Title},
		{"Source note:", meta.Source},
		{"Currency:", meta.Currency},
		{"Loaded from:", a.origin},
		{"Fingerprint:", a.ds.Fingerprint()},
		{"Periods:", fmt.Sprintf("%d (%s to %s)", len(a.view.Table.RowLabels), first(a.ds.Timeline()), last(a.ds.Timeline()))},
		{"Load time:", a.loadTime.String()},
		{"Config file:", config.ConfigPath()},
	}
	var infoBody strings.Builder
	for i, row := range info {
		infoBody.WriteString(labelStyle.Render(fmt.Sprintf("%-14s", row.label)))
		infoBody.WriteString(valueStyle.Render(truncStr(row.value, innerW-14)))
		if i < len(info)-1 {
			infoBody.WriteString("\n")
		}
	}

	return components.ContentCard("Settings", form.String(), cw) + "\n" +
		components.ContentCard("Dataset", infoBody.String(), cw)
}

func first(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[0]
}

func last(s []string) string {
	if len(s) == 0 {
		return ""
	}
	return s[len(s)-1]
}
