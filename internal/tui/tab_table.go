package tui

import (
	"fmt"

	"github.com/theirongolddev/cashflow/internal/cli"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/bubbles/viewport"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"
)

type tableState struct {
	vp viewport.Model
}

func newTableState() tableState {
	return tableState{vp: viewport.New(0, 0)}
}

// syncTable resizes the viewport to the content zone and re-renders the
// pivot into it. The scroll offset survives as far as the new content allows.
func (a *App) syncTable() {
	if a.width == 0 || a.ds == nil {
		return
	}
	a.table.vp.Width = a.contentWidth()
	a.table.vp.Height = max(a.contentHeight()-1, 1)

	offset := a.table.vp.YOffset
	a.table.vp.SetContent(a.renderPivot(a.contentWidth()))
	a.table.vp.SetYOffset(offset)
}

// renderPivot renders the period-by-scenario grid with currency cells.
func (a App) renderPivot(cw int) string {
	t := theme.Active
	tbl := a.view.Table

	headers := make([]string, 0, len(tbl.Columns)+1)
	headers = append(headers, "Period")
	for _, col := range tbl.Columns {
		headers = append(headers, col.ScenarioName)
	}

	rows := make([][]string, len(tbl.RowLabels))
	for r, label := range tbl.RowLabels {
		row := make([]string, 0, len(tbl.Columns)+1)
		row = append(row, label)
		for _, col := range tbl.Columns {
			row = append(row, cli.FormatCell(col.Values[r]))
		}
		rows[r] = row
	}

	headerStyle := lipgloss.NewStyle().Foreground(t.Accent).Bold(true).Padding(0, 1)
	labelStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Padding(0, 1)
	cellStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Padding(0, 1).Align(lipgloss.Right)

	grid := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(t.Border)).
		Headers(headers...).
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			switch {
			case row == table.HeaderRow:
				return headerStyle
			case col == 0:
				return labelStyle
			default:
				return cellStyle
			}
		})
	if lipgloss.Width(grid.String()) > cw {
		grid = grid.Width(cw)
	}
	return grid.String()
}

func (a App) renderTableTab(cw int) string {
	if a.view.Empty() {
		return a.renderEmptyState(cw)
	}

	t := theme.Active
	titleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Bold(true)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	title := titleStyle.Render(a.mode.Label()) +
		dimStyle.Render(fmt.Sprintf(" · %d periods · %d scenarios · %3.0f%%",
			len(a.view.Table.RowLabels), len(a.view.Table.Columns), a.table.vp.ScrollPercent()*100))

	return lipgloss.PlaceHorizontal(cw, lipgloss.Left, title) + "\n" + a.table.vp.View()
}
