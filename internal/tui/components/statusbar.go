package components

import (
	"fmt"

	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/lipgloss"
)

// RenderStatusBar renders the bottom status bar. mode and selected describe
// the current view; origin names the dataset source.
func RenderStatusBar(width int, mode string, selected, total int, origin string) string {
	t := theme.Active

	style := lipgloss.NewStyle().
		Foreground(t.TextMuted).
		Width(width)

	left := " [m]ode  [?]help  [q]uit"
	right := fmt.Sprintf("%s · %d/%d scenarios", mode, selected, total)
	if origin != "" {
		right += " · " + origin
	}
	right += " "

	padding := width - lipgloss.Width(left) - lipgloss.Width(right)
	if padding < 1 {
		padding = 1
	}

	bar := left + fmt.Sprintf("%*s", padding, "") + right
	return style.Render(bar)
}
