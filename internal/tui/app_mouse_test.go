package tui

import (
	"testing"

	tea "github.com/charmbracelet/bubbletea"
)

func TestTabAtXMatchesTabWidths(t *testing.T) {
	for active := 0; active < 4; active++ {
		a := App{activeTab: active}
		pos := 1 // leading space

		for i := 0; i < 4; i++ {
			w := tabWidthForTest(i, active)
			x := pos + w/2 // midpoint inside this tab
			if got := a.tabAtX(x); got != i {
				t.Fatalf("active=%d x=%d -> tab=%d, want %d", active, x, got, i)
			}
			pos += w + 2 // separator
		}
		if got := a.tabAtX(0); got != -1 {
			t.Fatalf("active=%d x=0 -> tab=%d, want -1", active, got)
		}
	}
}

func tabWidthForTest(tabIdx, activeIdx int) int {
	nameWidths := []int{
		len("Chart"),
		len("Table"),
		len("Scenarios"),
		len("Settings"),
	}

	w := nameWidths[tabIdx]
	if tabIdx != activeIdx {
		if tabIdx == 3 {
			w += 3 // inactive Settings appends "[x]"
		} else {
			w += 2 // brackets around the shortcut letter
		}
	}
	return w
}

func TestClickOnTabBarSwitchesTab(t *testing.T) {
	a := loadedApp(t)

	x := 1 + tabWidthForTest(0, 0) + 2 + 1 // inside "Table"
	m, _ := a.Update(tea.MouseMsg{X: x, Y: 0, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.(App).activeTab; got != tabTable {
		t.Fatalf("activeTab = %d, want %d", got, tabTable)
	}

	// Clicks below the tab bar are ignored.
	m, _ = m.Update(tea.MouseMsg{X: 2, Y: 5, Button: tea.MouseButtonLeft, Action: tea.MouseActionPress})
	if got := m.(App).activeTab; got != tabTable {
		t.Fatalf("activeTab = %d after content click, want %d", got, tabTable)
	}
}
