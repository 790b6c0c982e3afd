package tui

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/model"
	"github.com/theirongolddev/cashflow/internal/pipeline"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/x/ansi"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const (
	low    = "35% Rigado Replacement, 1500 Annual Demand"
	noRisk = "75% Rigado Replacement, 1500 Annual Demand, No Risk buy"
	high   = "75% Rigado Replacement, 1750 Annual Demand"
)

// loadedApp returns an app that has received its dataset and a window size.
func loadedApp(t *testing.T, opts ...func(*Options)) App {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	theme.SetActive("flexoki-dark")

	o := Options{Mode: model.ModeRaw}
	for _, fn := range opts {
		fn(&o)
	}
	res, err := pipeline.Load(o.Source)
	require.NoError(t, err)

	var m tea.Model = NewApp(o)
	m, _ = m.Update(tea.WindowSizeMsg{Width: 120, Height: 40})
	m, _ = m.Update(DataLoadedMsg{Result: res})
	return m.(App)
}

func press(t *testing.T, m tea.Model, keys ...string) App {
	t.Helper()
	for _, k := range keys {
		var msg tea.KeyMsg
		switch k {
		case "space":
			msg = tea.KeyMsg{Type: tea.KeySpace, Runes: []rune{' '}}
		case "left":
			msg = tea.KeyMsg{Type: tea.KeyLeft}
		case "right":
			msg = tea.KeyMsg{Type: tea.KeyRight}
		default:
			msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(k)}
		}
		m, _ = m.Update(msg)
	}
	return m.(App)
}

func TestDefaultSelectionIsEveryScenario(t *testing.T) {
	a := loadedApp(t)
	assert.Equal(t, []string{low, noRisk, high}, a.selectionNames())
	assert.Len(t, a.view.Series, 3)
	assert.Len(t, a.totals, 3)
}

func TestInitialSelectionDropsUnknownNames(t *testing.T) {
	a := loadedApp(t, func(o *Options) { o.Selection = []string{high, "nope"} })
	assert.Equal(t, []string{high}, a.selectionNames())
}

func TestInitialSelectionAcceptsIndices(t *testing.T) {
	a := loadedApp(t, func(o *Options) { o.Selection = []string{"3", "1"} })
	assert.Equal(t, []string{low, high}, a.selectionNames())

	a = loadedApp(t, func(o *Options) { o.Selection = []string{"7"} })
	assert.Empty(t, a.selectionNames(), "an out-of-range index selects nothing")
}

func TestModeToggle(t *testing.T) {
	a := press(t, loadedApp(t), "m")
	require.Equal(t, model.ModeCumulative, a.mode)
	assert.Equal(t, 258000.0, a.view.Series[0].Periods[10].Value)

	a = press(t, a, "m")
	assert.Equal(t, model.ModeRaw, a.mode)
	assert.Equal(t, 129000.0, a.view.Series[0].Periods[10].Value)
}

func TestNumberKeysToggleScenarios(t *testing.T) {
	a := press(t, loadedApp(t), "2", "3")
	assert.Equal(t, []string{low}, a.selectionNames())

	a = press(t, a, "1")
	assert.True(t, a.view.Empty())
	assert.Len(t, a.view.Table.RowLabels, 20, "period rows stay when nothing is selected")

	// Out-of-range index is ignored.
	a = press(t, a, "9")
	assert.Empty(t, a.selectionNames())
}

func TestEmptySelectionShowsGuidance(t *testing.T) {
	a := press(t, loadedApp(t), "1", "2", "3")
	out := ansi.Strip(a.View())
	assert.Contains(t, out, emptySelectionMsg)

	a = press(t, a, "t")
	require.Equal(t, tabTable, a.activeTab)
	assert.Contains(t, ansi.Strip(a.View()), emptySelectionMsg)
}

func TestScenariosTabChecklist(t *testing.T) {
	a := press(t, loadedApp(t), "s")
	require.Equal(t, tabScenarios, a.activeTab)

	a = press(t, a, "j", "space")
	assert.Equal(t, 1, a.scen.cursor)
	assert.Equal(t, []string{low, high}, a.selectionNames())

	a = press(t, a, "a")
	assert.Len(t, a.selectionNames(), 3, "a selects all when some are missing")
	a = press(t, a, "a")
	assert.Empty(t, a.selectionNames(), "a clears when all are selected")

	a = press(t, a, "j", "j", "j")
	assert.Equal(t, 2, a.scen.cursor, "cursor stops at the last scenario")

	out := ansi.Strip(a.View())
	assert.Contains(t, out, "1. 35% Rigado")
	assert.Contains(t, out, "$710,000")
	assert.Contains(t, out, "0 of 3 selected")
}

func TestTabNavigation(t *testing.T) {
	a := loadedApp(t)
	a = press(t, a, "left")
	assert.Equal(t, tabSettings, a.activeTab)
	a = press(t, a, "right", "right")
	assert.Equal(t, tabTable, a.activeTab)
	a = press(t, a, "x")
	assert.Equal(t, tabSettings, a.activeTab)
	a = press(t, a, "c")
	assert.Equal(t, tabChart, a.activeTab)
}

func TestChartTabRendersTitleAndLegend(t *testing.T) {
	a := loadedApp(t)
	out := ansi.Strip(a.View())
	assert.Contains(t, out, "Quarterly Cash Flow Over Time")
	assert.Contains(t, out, xAxisCaption)
	assert.Contains(t, out, yAxisCaption)
	assert.Contains(t, out, "$1,174,000")

	a = press(t, a, "m")
	assert.Contains(t, ansi.Strip(a.View()), "Cumulative Cash Flow Over Time")
}

func TestTableTabShowsPivot(t *testing.T) {
	a := press(t, loadedApp(t, func(o *Options) { o.Selection = []string{low} }), "m", "t")
	out := ansi.Strip(a.View())
	assert.Contains(t, out, "Period")
	assert.Contains(t, out, "CY2024 Q1")
	assert.Contains(t, out, "$258,000")
}

func TestHelpOverlay(t *testing.T) {
	a := press(t, loadedApp(t), "?")
	require.True(t, a.showHelp)
	assert.Contains(t, ansi.Strip(a.View()), "Keyboard Shortcuts")

	a = press(t, a, "m")
	assert.False(t, a.showHelp)
	assert.Equal(t, model.ModeRaw, a.mode, "the dismissing key is swallowed")
}

func TestSettingsSavesDefaults(t *testing.T) {
	a := press(t, loadedApp(t), "2", "x")
	require.Equal(t, tabSettings, a.activeTab)

	a = press(t, a, "j", "space", "j", "space")
	require.NoError(t, a.settings.saveErr)
	assert.True(t, a.settings.saved)

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "cumulative", cfg.General.DefaultMode)
	assert.Equal(t, []string{low, high}, cfg.General.DefaultScenarios)
}

func TestReloadKeepsSelectionByName(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plan.toml")
	require.NoError(t, os.WriteFile(path, []byte(`
timeline = ["Q1", "Q2"]
[[scenario]]
name = "a"
values = [1, 2]
[[scenario]]
name = "b"
values = [3, 4]
`), 0o600))

	src := pipeline.Source{FilePath: path}
	a := loadedApp(t, func(o *Options) { o.Source = src })
	a = press(t, a, "1")
	require.Equal(t, []string{"b"}, a.selectionNames())

	require.NoError(t, os.WriteFile(path, []byte(`
timeline = ["Q1", "Q2"]
[[scenario]]
name = "c"
values = [0, 1]
[[scenario]]
name = "b"
values = [3, 5]
`), 0o600))
	res, err := pipeline.Load(src)
	require.NoError(t, err)

	m, _ := a.Update(DataLoadedMsg{Result: res})
	a = m.(App)
	assert.Equal(t, []string{"b"}, a.selectionNames())
	assert.Equal(t, 8.0, a.totals[0].Net)

	m, _ = a.Update(DataLoadedMsg{Err: errors.New("boom")})
	a = m.(App)
	assert.Error(t, a.staleErr)
	assert.Equal(t, []string{"c", "b"}, a.ds.Names(), "failed reload keeps the last good dataset")
	assert.Contains(t, ansi.Strip(a.View()), "reload failed")
}

func TestInitialLoadError(t *testing.T) {
	var m tea.Model = NewApp(Options{})
	m, _ = m.Update(tea.WindowSizeMsg{Width: 100, Height: 30})
	m, _ = m.Update(DataLoadedMsg{Err: errors.New("reading dataset: no such file")})
	out := ansi.Strip(m.View())
	assert.Contains(t, out, "Could not load the dataset")
	assert.Contains(t, out, "no such file")
}

func TestNarrowTerminal(t *testing.T) {
	a := loadedApp(t)
	m, _ := a.Update(tea.WindowSizeMsg{Width: 60, Height: 20})
	assert.Contains(t, m.View(), "Terminal too narrow")
}
