package tui

import (
	"fmt"
	"strings"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/pipeline"
	"github.com/theirongolddev/cashflow/internal/tui/components"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

type scenariosState struct {
	cursor int
}

// renderScenariosTab draws the selection checklist. Each row shows the
// scenario's net total as a share of the largest one plus a sparkline of
// its quarterly payments.
func (a App) renderScenariosTab(cw int) string {
	t := theme.Active

	scenarios := a.ds.Scenarios()
	totals := pipeline.Totals(scenarios)

	maxNet := 0.0
	for _, tot := range totals {
		maxNet = max(maxNet, tot.Net)
	}

	innerW := components.CardInnerWidth(cw)
	sparkW := len(a.ds.Timeline())
	// marker, checkbox, three gaps and the 12-column amount
	avail := innerW - (2 + 4 + 3 + 12) - sparkW
	labelW := max(avail*3/5, 12)
	barW := max(avail-labelW, 6)

	markerStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface)
	onStyle := lipgloss.NewStyle().Foreground(t.Green).Background(t.Surface).Bold(true)
	offStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	space := lipgloss.NewStyle().Background(t.Surface)

	var body strings.Builder
	for i, tot := range totals {
		marker := space.Render("  ")
		if i == a.scen.cursor {
			marker = markerStyle.Render("▸ ")
		}
		check := offStyle.Render("[ ] ")
		if a.selected[tot.Name] {
			check = onStyle.Render("[x] ")
		}

		color := a.seriesColor(tot.Name)
		label := fmt.Sprintf("%d. %s", i+1, tot.Name)

		body.WriteString(marker)
		body.WriteString(check)
		body.WriteString(components.ShareBar(label, fmt.Sprintf("%12s", cli.FormatCurrency(tot.Net)), tot.Net, maxNet, color, labelW, barW))
		body.WriteString(space.Render(" "))
		body.WriteString(components.Sparkline(scenarios[i].Values(), color))
		body.WriteString("\n")
	}

	hintStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	body.WriteString("\n")
	body.WriteString(hintStyle.Render(fmt.Sprintf("%d of %d selected", len(a.selectionNames()), len(totals))))
	body.WriteString("\n")
	body.WriteString(hintStyle.Render("[j/k] move  [space] toggle  [a] all/none  [1-9] toggle N"))

	return components.ContentCard("Scenarios", body.String(), cw)
}
