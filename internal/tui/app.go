// Package tui provides the interactive Bubble Tea dashboard for cashflow.
package tui

import (
	"fmt"
	"strconv"
	"strings"
	"time"

	"github.com/theirongolddev/cashflow/internal/config"
	"github.com/theirongolddev/cashflow/internal/dataset"
	"github.com/theirongolddev/cashflow/internal/model"
	"github.com/theirongolddev/cashflow/internal/pipeline"
	"github.com/theirongolddev/cashflow/internal/tui/components"
	"github.com/theirongolddev/cashflow/internal/tui/theme"

	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"
)

// DataLoadedMsg is sent when a dataset load or reload finishes.
type DataLoadedMsg struct {
	Result *pipeline.LoadResult
	Err    error
	Took   time.Duration
}

type reloadTickMsg struct{}

// Options configures a new App.
type Options struct {
	Source pipeline.Source
	// Selection names the scenarios shown at startup, by name or 1-based
	// index. Nil selects all of them; an empty non-nil slice starts with
	// nothing selected.
	Selection      []string
	Mode           model.ViewMode
	ReloadInterval time.Duration // zero disables auto-reload
	NeedSetup      bool
}

// App is the root Bubble Tea model.
type App struct {
	// Data
	source   pipeline.Source
	ds       *dataset.Dataset
	origin   string
	modTime  time.Time
	loaded   bool
	loadTime time.Duration
	loadErr  error // initial load failure
	staleErr error // last reload failure; the previous dataset stays on screen

	// Selection and the view derived from it
	selected map[string]bool
	pending  []string
	mode     model.ViewMode
	view     model.View
	totals   []model.ScenarioTotal

	// Auto-reload
	reloadInterval time.Duration
	reloading      bool

	// UI state
	width     int
	height    int
	activeTab int
	showHelp  bool

	// Per-tab state
	chart    chartState
	table    tableState
	scen     scenariosState
	settings settingsState

	// First-run setup (huh form). setupVals is a pointer because the form
	// binds into it and App is passed by value.
	setupForm *huh.Form
	setupVals *setupValues
	needSetup bool

	spinner spinner.Model
}

const (
	minTerminalWidth = 80
	maxContentWidth  = 180

	headerLines      = 2 // tab bar + info row
	statusLines      = 1
	minContentHeight = 5
)

const (
	tabChart = iota
	tabTable
	tabScenarios
	tabSettings
)

// emptySelectionMsg is shown instead of a chart or table when nothing is selected.
const emptySelectionMsg = "Please select at least one scenario."

// loadConfigOrDefault loads config, returning defaults on error so the TUI
// can always start.
func loadConfigOrDefault() config.Config {
	cfg, err := config.Load()
	if err != nil {
		return config.DefaultConfig()
	}
	return cfg
}

// NewApp creates a new TUI app model.
func NewApp(opts Options) App {
	sp := spinner.New()
	sp.Spinner = spinner.Dot
	sp.Style = lipgloss.NewStyle().Foreground(theme.Active.Accent).Background(theme.Active.Surface)

	interval := opts.ReloadInterval
	if interval > 0 && interval < time.Second {
		interval = time.Second
	}

	return App{
		source:         opts.Source,
		pending:        opts.Selection,
		mode:           opts.Mode,
		reloadInterval: interval,
		needSetup:      opts.NeedSetup,
		selected:       map[string]bool{},
		spinner:        sp,
		table:          newTableState(),
	}
}

// Init implements tea.Model.
func (a App) Init() tea.Cmd {
	cmds := []tea.Cmd{
		tea.EnableMouseCellMotion,
		loadDataCmd(a.source),
		a.spinner.Tick,
	}
	if a.autoReload() {
		cmds = append(cmds, reloadTickCmd(a.reloadInterval))
	}
	return tea.Batch(cmds...)
}

func (a App) autoReload() bool {
	return a.reloadInterval > 0 && a.source.Watchable()
}

// applyLoad installs a freshly loaded dataset, carrying the selection over
// by scenario name.
func (a *App) applyLoad(res *pipeline.LoadResult) {
	first := a.ds == nil
	a.modTime = res.ModTime
	a.origin = res.Origin
	if !first && a.ds.Fingerprint() == res.Dataset.Fingerprint() {
		return
	}
	a.ds = res.Dataset

	next := make(map[string]bool, a.ds.Len())
	switch {
	case first && a.pending == nil:
		for _, name := range a.ds.Names() {
			next[name] = true
		}
	case first:
		sel, _ := pipeline.ParseSelection(a.pending, a.ds)
		for _, name := range sel {
			next[name] = true
		}
	default:
		for _, name := range a.ds.Names() {
			if a.selected[name] {
				next[name] = true
			}
		}
	}
	a.selected = next
	a.pending = nil
	a.recompute()
}

// selectionNames returns the selected scenario names in dataset order.
func (a App) selectionNames() []string {
	if a.ds == nil {
		return nil
	}
	var names []string
	for _, name := range a.ds.Names() {
		if a.selected[name] {
			names = append(names, name)
		}
	}
	return names
}

func (a *App) recompute() {
	if a.ds == nil {
		return
	}
	sel := model.NewSelection(a.selectionNames()...)
	a.view = pipeline.BuildView(a.ds, sel, a.mode)
	a.totals = pipeline.Totals(pipeline.Resolve(sel, a.ds))

	if a.scen.cursor >= a.ds.Len() {
		a.scen.cursor = a.ds.Len() - 1
	}
	if a.scen.cursor < 0 {
		a.scen.cursor = 0
	}
	a.syncTable()
}

// toggleScenario flips the i-th scenario (0-based, dataset order).
func (a *App) toggleScenario(i int) {
	if a.ds == nil || i < 0 || i >= a.ds.Len() {
		return
	}
	name := a.ds.Names()[i]
	a.selected[name] = !a.selected[name]
	a.recompute()
}

// toggleAll selects every scenario, or clears the selection when all are
// already selected.
func (a *App) toggleAll() {
	if a.ds == nil {
		return
	}
	all := len(a.selectionNames()) == a.ds.Len()
	for _, name := range a.ds.Names() {
		a.selected[name] = !all
	}
	a.recompute()
}

// seriesColor keeps a scenario's color stable regardless of what else is selected.
func (a App) seriesColor(name string) lipgloss.Color {
	pos := 0
	if a.ds != nil {
		pos = max(a.ds.Position(name), 0)
	}
	return theme.Active.SeriesColor(pos)
}

// Update implements tea.Model.
func (a App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		if a.setupForm != nil {
			a.setupForm = a.setupForm.WithWidth(msg.Width).WithHeight(msg.Height)
		}
		a.syncTable()
		return a, nil

	case tea.MouseMsg:
		if !a.loaded || a.ds == nil || a.showHelp || (a.needSetup && a.setupForm != nil) {
			return a, nil
		}
		return a.updateMouse(msg)

	case tea.KeyMsg:
		return a.updateKey(msg)

	case DataLoadedMsg:
		a.reloading = false
		a.loadTime = msg.Took
		if msg.Err != nil {
			if a.ds == nil {
				a.loadErr = msg.Err
				a.loaded = true
			} else {
				a.staleErr = msg.Err
			}
			return a, nil
		}
		a.loaded = true
		a.loadErr = nil
		a.staleErr = nil
		a.applyLoad(msg.Result)

		if a.needSetup && a.setupForm == nil {
			a.setupVals = newSetupValues(a.ds, a.mode)
			a.setupForm = newSetupForm(a.ds, a.setupVals)
			if a.width > 0 {
				a.setupForm = a.setupForm.WithWidth(a.width).WithHeight(a.height)
			}
			return a, a.setupForm.Init()
		}
		return a, nil

	case spinner.TickMsg:
		if !a.loaded {
			var cmd tea.Cmd
			a.spinner, cmd = a.spinner.Update(msg)
			return a, cmd
		}
		return a, nil

	case reloadTickMsg:
		cmds := []tea.Cmd{reloadTickCmd(a.reloadInterval)}
		if a.loaded && a.ds != nil && !a.reloading && a.source.Changed(a.modTime) {
			a.reloading = true
			cmds = append(cmds, loadDataCmd(a.source))
		}
		return a, tea.Batch(cmds...)
	}

	// Forward unhandled messages to the setup form (cursor blinks, etc.)
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	return a, nil
}

func (a App) updateKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return a, tea.Quit
	}

	if !a.loaded || a.ds == nil {
		if key == "q" || key == "esc" {
			return a, tea.Quit
		}
		return a, nil
	}

	// First-run setup wizard intercepts all keys
	if a.needSetup && a.setupForm != nil {
		return a.updateSetupForm(msg)
	}

	if key == "?" {
		a.showHelp = !a.showHelp
		return a, nil
	}
	if a.showHelp {
		a.showHelp = false
		return a, nil
	}

	switch a.activeTab {
	case tabChart:
		if key == "b" {
			a.chart.bars = !a.chart.bars
			return a, nil
		}
	case tabTable:
		switch key {
		case "j", "k", "up", "down", "pgup", "pgdown", "ctrl+u", "ctrl+d":
			var cmd tea.Cmd
			a.table.vp, cmd = a.table.vp.Update(msg)
			return a, cmd
		case "g", "home":
			a.table.vp.GotoTop()
			return a, nil
		case "G", "end":
			a.table.vp.GotoBottom()
			return a, nil
		}
	case tabScenarios:
		switch key {
		case "j", "down":
			if a.scen.cursor < a.ds.Len()-1 {
				a.scen.cursor++
			}
			return a, nil
		case "k", "up":
			if a.scen.cursor > 0 {
				a.scen.cursor--
			}
			return a, nil
		case " ", "enter":
			a.toggleScenario(a.scen.cursor)
			return a, nil
		case "a":
			a.toggleAll()
			return a, nil
		}
	case tabSettings:
		switch key {
		case "j", "down":
			if a.settings.cursor < settingsFieldCount-1 {
				a.settings.cursor++
			}
			return a, nil
		case "k", "up":
			if a.settings.cursor > 0 {
				a.settings.cursor--
			}
			return a, nil
		case " ", "enter":
			a.settingsApply()
			return a, nil
		}
	}

	switch key {
	case "q":
		return a, tea.Quit
	case "m":
		a.mode = a.mode.Toggle()
		a.recompute()
		return a, nil
	case "r":
		if !a.reloading {
			a.reloading = true
			return a, loadDataCmd(a.source)
		}
		return a, nil
	case "left", "shift+tab":
		a.activeTab = (a.activeTab - 1 + len(components.Tabs)) % len(components.Tabs)
		return a, nil
	case "right", "tab":
		a.activeTab = (a.activeTab + 1) % len(components.Tabs)
		return a, nil
	}

	if n, err := strconv.Atoi(key); err == nil && n >= 1 && n <= 9 {
		a.toggleScenario(n - 1)
		return a, nil
	}

	if len(key) == 1 {
		if idx := components.TabIdxByKey(rune(key[0])); idx >= 0 {
			a.activeTab = idx
		}
	}
	return a, nil
}

func (a App) updateMouse(msg tea.MouseMsg) (tea.Model, tea.Cmd) {
	switch msg.Button {
	case tea.MouseButtonWheelUp, tea.MouseButtonWheelDown:
		switch a.activeTab {
		case tabTable:
			var cmd tea.Cmd
			a.table.vp, cmd = a.table.vp.Update(msg)
			return a, cmd
		case tabScenarios:
			if msg.Button == tea.MouseButtonWheelUp && a.scen.cursor > 0 {
				a.scen.cursor--
			}
			if msg.Button == tea.MouseButtonWheelDown && a.scen.cursor < a.ds.Len()-1 {
				a.scen.cursor++
			}
		}
		return a, nil

	case tea.MouseButtonLeft:
		if msg.Action != tea.MouseActionPress {
			return a, nil
		}
		if msg.Y == 0 {
			if tab := a.tabAtX(msg.X); tab >= 0 {
				a.activeTab = tab
			}
		}
		return a, nil
	}
	return a, nil
}

func (a App) updateSetupForm(msg tea.Msg) (tea.Model, tea.Cmd) {
	form, cmd := a.setupForm.Update(msg)
	if f, ok := form.(*huh.Form); ok {
		a.setupForm = f
	}

	switch a.setupForm.State {
	case huh.StateCompleted:
		a.settings.saveErr = a.saveSetupConfig()
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	case huh.StateAborted:
		a.needSetup = false
		a.setupForm = nil
		return a, nil
	}

	return a, cmd
}

func (a App) contentWidth() int {
	return min(a.width, maxContentWidth)
}

func (a App) contentHeight() int {
	return max(a.height-headerLines-statusLines, minContentHeight)
}

// View implements tea.Model.
func (a App) View() string {
	if a.width == 0 {
		return ""
	}

	if a.width < minTerminalWidth {
		return a.viewTooNarrow()
	}

	if !a.loaded {
		return a.viewLoading()
	}

	if a.ds == nil {
		return a.viewLoadError()
	}

	if a.needSetup && a.setupForm != nil {
		return a.setupForm.View()
	}

	if a.showHelp {
		return a.viewHelp()
	}

	return a.viewMain()
}

func (a App) viewTooNarrow() string {
	h := max(a.height, 5)
	msg := fmt.Sprintf(
		"\n  Terminal too narrow (%d cols)\n\n  cashflow needs at least %d columns.\n",
		a.width,
		minTerminalWidth,
	)
	return padHeight(truncateHeight(msg, h), h)
}

func (a App) viewLoading() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(2, 4)
	logoStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	subtitleStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)

	var b strings.Builder
	b.WriteString(logoStyle.Render("◈ cashflow"))
	b.WriteString(subtitleStyle.Render(" · Scenario Cash Flow"))
	b.WriteString("\n\n")
	b.WriteString(a.spinner.View())
	b.WriteString(subtitleStyle.Render(" Loading " + a.source.Origin() + " dataset..."))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewLoadError() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.Red).
		Background(t.Surface).
		Padding(1, 3).
		Width(min(a.width-4, 90))
	titleStyle := lipgloss.NewStyle().Foreground(t.Red).Background(t.Surface).Bold(true)
	bodyStyle := lipgloss.NewStyle().Foreground(t.TextPrimary).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	body := titleStyle.Render("Could not load the dataset") + "\n\n" +
		bodyStyle.Render(a.loadErr.Error()) + "\n\n" +
		dimStyle.Render("Press q to quit")

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(body),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewHelp() string {
	t := theme.Active

	cardStyle := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(t.BorderAccent).
		Background(t.Surface).
		Padding(1, 3)
	titleStyle := lipgloss.NewStyle().Foreground(t.AccentBright).Background(t.Surface).Bold(true)
	sectionStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	keyStyle := lipgloss.NewStyle().Foreground(t.Cyan).Background(t.Surface).Bold(true)
	descStyle := lipgloss.NewStyle().Foreground(t.TextMuted).Background(t.Surface)
	dimStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)

	type binding struct{ key, desc string }
	sections := []struct {
		title    string
		bindings []binding
	}{
		{"Navigation", []binding{
			{"c t s x", "Jump to tab"},
			{"← →", "Previous / Next tab"},
			{"j k", "Move cursor / scroll table"},
			{"g G", "Table top / bottom"},
		}},
		{"View", []binding{
			{"m", "Toggle quarterly / cumulative"},
			{"1-9", "Toggle scenario N"},
			{"space", "Toggle scenario under cursor"},
			{"a", "Select all / none"},
			{"b", "Line chart / per-scenario bars"},
		}},
		{"Actions", []binding{
			{"r", "Reload dataset"},
			{"?", "Toggle help"},
			{"q", "Quit"},
		}},
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("◈ Keyboard Shortcuts"))
	b.WriteString("\n")
	for _, sec := range sections {
		b.WriteString("\n")
		b.WriteString(sectionStyle.Render(sec.title))
		b.WriteString("\n")
		for _, bind := range sec.bindings {
			fmt.Fprintf(&b, "  %s  %s\n",
				keyStyle.Render(fmt.Sprintf("%-10s", bind.key)),
				descStyle.Render(bind.desc))
		}
	}
	b.WriteString("\n")
	b.WriteString(dimStyle.Render("Press any key to close"))

	return lipgloss.Place(a.width, a.height, lipgloss.Center, lipgloss.Center, cardStyle.Render(b.String()),
		lipgloss.WithWhitespaceBackground(t.Background))
}

func (a App) viewMain() string {
	t := theme.Active
	w := a.width
	cw := a.contentWidth()
	h := a.height

	// 1. Header: tab bar + info row (dataset title, mode pill, reload state)
	pillStyle := lipgloss.NewStyle().Foreground(t.TextDim).Background(t.Surface)
	accentStyle := lipgloss.NewStyle().Foreground(t.Accent).Background(t.Surface).Bold(true)
	warnStyle := lipgloss.NewStyle().Foreground(t.Orange).Background(t.Surface)

	info := pillStyle.Render(" ") + accentStyle.Render(a.ds.Meta().Title) +
		pillStyle.Render(" │ ") + accentStyle.Render(a.mode.Label())
	switch {
	case a.reloading:
		info += pillStyle.Render(" │ reloading…")
	case a.staleErr != nil:
		info += warnStyle.Render(" │ reload failed, showing last good dataset")
	}
	infoRow := lipgloss.NewStyle().Background(t.Surface).Width(w).Render(info)

	tabRow := lipgloss.NewStyle().Background(t.Surface).Width(w).Render(components.RenderTabBar(a.activeTab, w))
	header := tabRow + "\n" + infoRow

	// 2. Status bar
	statusBar := components.RenderStatusBar(w, a.mode.String(), len(a.view.Series), a.ds.Len(), a.origin)

	// 3. Content zone
	contentH := a.contentHeight()

	var content string
	switch a.activeTab {
	case tabChart:
		content = a.renderChartTab(cw, contentH)
	case tabTable:
		content = a.renderTableTab(cw)
	case tabScenarios:
		content = a.renderScenariosTab(cw)
	case tabSettings:
		content = a.renderSettingsTab(cw)
	}

	content = padHeight(truncateHeight(content, contentH), contentH)
	content = fillLinesWithBackground(content, cw, t.Background)
	content = lipgloss.Place(w, contentH, lipgloss.Center, lipgloss.Top, content,
		lipgloss.WithWhitespaceBackground(t.Background))

	output := lipgloss.JoinVertical(lipgloss.Left, header, content, statusBar)

	return lipgloss.Place(w, h, lipgloss.Left, lipgloss.Top, output,
		lipgloss.WithWhitespaceBackground(t.Background))
}

// renderEmptyState is the guidance card shown when no scenario is selected.
func (a App) renderEmptyState(cw int) string {
	t := theme.Active
	msgStyle := lipgloss.NewStyle().Foreground(t.Yellow).Bold(true)
	hintStyle := lipgloss.NewStyle().Foreground(t.TextDim)

	body := msgStyle.Render(emptySelectionMsg) + "\n\n" +
		hintStyle.Render("Press 1-9 to toggle a scenario, or s to open the scenario list.")
	return components.ContentCard("", body, cw)
}

// ─── Commands ───────────────────────────────────────────────────

// loadDataCmd loads the dataset from src in the background.
func loadDataCmd(src pipeline.Source) tea.Cmd {
	return func() tea.Msg {
		start := time.Now()
		res, err := pipeline.Load(src)
		return DataLoadedMsg{Result: res, Err: err, Took: time.Since(start)}
	}
}

func reloadTickCmd(every time.Duration) tea.Cmd {
	return tea.Tick(every, func(time.Time) tea.Msg {
		return reloadTickMsg{}
	})
}

// ─── Helpers ────────────────────────────────────────────────────

func truncStr(s string, limit int) string {
	if limit <= 0 {
		return ""
	}
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit-1]) + "…"
}

func truncateHeight(s string, limit int) string {
	lines := strings.Split(s, "\n")
	if len(lines) <= limit {
		return s
	}
	return strings.Join(lines[:limit], "\n")
}

func padHeight(s string, h int) string {
	lines := strings.Split(s, "\n")
	if len(lines) >= h {
		return s
	}
	return s + strings.Repeat("\n", h-len(lines))
}

// fillLinesWithBackground pads each line to width w with background color.
func fillLinesWithBackground(s string, w int, bg lipgloss.Color) string {
	lines := strings.Split(s, "\n")

	var result strings.Builder
	for i, line := range lines {
		result.WriteString(lipgloss.PlaceHorizontal(w, lipgloss.Left, line,
			lipgloss.WithWhitespaceBackground(bg)))
		if i < len(lines)-1 {
			result.WriteString("\n")
		}
	}
	return result.String()
}

// ─── Mouse Support ──────────────────────────────────────────────

// tabAtX returns the tab index at the given X coordinate, or -1 if none.
// Hitboxes follow RenderTabBar: one leading space, then tabs joined by
// TabSeparator.
func (a App) tabAtX(x int) int {
	pos := 1
	for i := range components.Tabs {
		tabW := components.TabWidth(i, i == a.activeTab)
		if x >= pos && x < pos+tabW {
			return i
		}
		pos += tabW + len(components.TabSeparator)
	}
	return -1
}
