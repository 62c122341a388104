// internal/tui/app.go
//
// This is the terminal UI for the till. It uses bubbletea, which follows The
// Elm Architecture:
//
// 1. Model: the App below, which wraps the in-memory till
// 2. Update: turns key presses and ticks into till operations
// 3. View: renders the active tab, the open dialog and the log panel
//
// The device timers never live in the UI. A one-second tick only asks for a
// redraw; elapsed time is always derived from the instants the till stores.

package tui

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/glamour"
	"github.com/charmbracelet/lipgloss"
	"go.uber.org/zap"

	"github.com/kingrea/bakar/internal/billing"
	"github.com/kingrea/bakar/internal/config"
	"github.com/kingrea/bakar/internal/money"
	"github.com/kingrea/bakar/internal/till"
)

// tab selects which screen is rendered.
type tab int

const (
	tabDevices tab = iota
	tabCafe
	tabInventory
	tabWithdrawals
	tabSettings
	tabCount
)

var tabNames = [tabCount]string{"Devices", "Café", "Inventory", "Withdrawals", "Settings"}

const (
	defaultTick  = time.Second
	logPanelRows = 6
)

type tickMsg time.Time

// configReloadedMsg carries a config that changed on disk.
type configReloadedMsg struct {
	cfg *config.Config
}

// ConfigReloaded wraps a reloaded config for Program.Send.
func ConfigReloaded(cfg *config.Config) tea.Msg {
	return configReloadedMsg{cfg: cfg}
}

// ReportRenderer turns report markdown into terminal text.
type ReportRenderer func(markdown string, width int) (string, error)

// AppOption customizes App construction for tests and alternate runtimes.
type AppOption func(*App)

// WithLogger routes UI diagnostics to the process logger.
func WithLogger(logger *zap.Logger) AppOption {
	return func(a *App) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithTick overrides the redraw interval.
func WithTick(d time.Duration) AppOption {
	return func(a *App) {
		if d > 0 {
			a.tick = d
		}
	}
}

// WithRatePresets sets the hourly prices used to prefill devices.
func WithRatePresets(rates map[billing.Usage]money.Amount) AppOption {
	return func(a *App) { a.rates = rates }
}

// WithReportRenderer replaces the glamour renderer used by the settings tab.
func WithReportRenderer(r ReportRenderer) AppOption {
	return func(a *App) {
		if r != nil {
			a.renderReport = r
		}
	}
}

// App is the main application model. In bubbletea, this holds ALL your state.
type App struct {
	till   *till.Till
	logger *zap.Logger
	tick   time.Duration
	rates  map[billing.Usage]money.Amount

	activeTab tab
	cursor    [tabCount]int
	dialog    *form
	items     list.Model

	renderReport ReportRenderer
	reportView   string

	statusMsg string
	statusErr bool

	width  int
	height int
}

// NewApp creates the UI over a till.
func NewApp(t *till.Till, opts ...AppOption) *App {
	items := list.New(nil, list.NewDefaultDelegate(), 60, 16)
	items.Title = "Price list"
	items.SetShowStatusBar(false)
	items.SetShowHelp(false)

	app := &App{
		till:         t,
		logger:       zap.NewNop(),
		tick:         defaultTick,
		items:        items,
		renderReport: glamourReport,
		statusMsg:    "Ready · keys 1–5 switch tabs · q quits",
	}
	for _, opt := range opts {
		if opt != nil {
			opt(app)
		}
	}
	app.refreshItems()
	return app
}

// FromConfig applies the display settings of a config.
func FromConfig(cfg *config.Config) AppOption {
	return func(a *App) {
		a.tick = cfg.TickInterval()
		a.rates = cfg.RatePresets()
	}
}

func glamourReport(markdown string, width int) (string, error) {
	r, err := glamour.NewTermRenderer(
		glamour.WithStylePath("dark"),
		glamour.WithWordWrap(max(40, width)),
	)
	if err != nil {
		return "", err
	}
	return r.Render(markdown)
}

// Init is called once when the program starts.
func (a *App) Init() tea.Cmd {
	return a.scheduleTick()
}

func (a *App) scheduleTick() tea.Cmd {
	return tea.Tick(a.tick, func(t time.Time) tea.Msg { return tickMsg(t) })
}

// Update is called when a message is received.
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {

	case tea.WindowSizeMsg:
		a.width = msg.Width
		a.height = msg.Height
		a.items.SetSize(max(20, msg.Width-6), max(6, msg.Height-16))
		return a, nil

	case tickMsg:
		return a, a.scheduleTick()

	case configReloadedMsg:
		a.applyConfig(msg.cfg)
		return a, nil

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return a, tea.Quit
		}
		if a.dialog != nil {
			return a, a.updateDialog(msg)
		}
		if a.activeTab == tabInventory && a.items.FilterState() == list.Filtering {
			var cmd tea.Cmd
			a.items, cmd = a.items.Update(msg)
			return a, cmd
		}
		key := msg.String()
		switch key {
		case "q":
			return a, tea.Quit
		case "1", "2", "3", "4", "5":
			a.switchTab(tab(key[0] - '1'))
			return a, nil
		case "up", "k":
			if a.activeTab != tabInventory {
				a.moveCursor(-1)
				return a, nil
			}
		case "down", "j":
			if a.activeTab != tabInventory {
				a.moveCursor(1)
				return a, nil
			}
		}
		if handled, cmd := a.handleTabKey(key); handled {
			return a, cmd
		}
		if a.activeTab == tabInventory {
			var cmd tea.Cmd
			a.items, cmd = a.items.Update(msg)
			return a, cmd
		}
	}
	return a, nil
}

func (a *App) handleTabKey(key string) (bool, tea.Cmd) {
	switch a.activeTab {
	case tabDevices:
		return a.devicesKey(key)
	case tabCafe:
		return a.cafeKey(key)
	case tabInventory:
		return a.inventoryKey(key)
	case tabWithdrawals:
		return a.withdrawalsKey(key)
	case tabSettings:
		return a.settingsKey(key)
	}
	return false, nil
}

func (a *App) switchTab(t tab) {
	if t < 0 || t >= tabCount {
		return
	}
	a.activeTab = t
	if t == tabSettings {
		a.refreshReport()
	}
	if t == tabInventory {
		a.refreshItems()
	}
}

func (a *App) moveCursor(delta int) {
	n := a.rowCount(a.activeTab)
	if n == 0 {
		a.cursor[a.activeTab] = 0
		return
	}
	c := a.cursor[a.activeTab] + delta
	if c < 0 {
		c = 0
	}
	if c >= n {
		c = n - 1
	}
	a.cursor[a.activeTab] = c
}

func (a *App) rowCount(t tab) int {
	switch t {
	case tabDevices:
		return len(a.till.Devices())
	case tabCafe:
		return len(a.till.OpenInvoices())
	case tabWithdrawals:
		return len(a.till.Withdrawals())
	}
	return 0
}

// selected clamps and returns the cursor of a tab.
func (a *App) selected(t tab) int {
	n := a.rowCount(t)
	if a.cursor[t] >= n {
		a.cursor[t] = max(0, n-1)
	}
	return a.cursor[t]
}

func (a *App) openDialog(f *form) tea.Cmd {
	a.dialog = f
	return nil
}

func (a *App) updateDialog(msg tea.KeyMsg) tea.Cmd {
	outcome, cmd := a.dialog.update(msg)
	switch outcome {
	case formCancelled:
		a.dialog = nil
		a.setStatus("Cancelled")
		return nil
	case formSubmitted:
		f := a.dialog
		status, next, err := f.onSubmit(f.values())
		if err != nil {
			f.err = err.Error()
			a.setError(err)
			return nil
		}
		a.dialog = next
		if status != "" {
			a.setStatus(status)
		}
		a.afterChange()
		return nil
	}
	return cmd
}

// afterChange refreshes cached views once state has moved.
func (a *App) afterChange() {
	a.refreshItems()
	if a.activeTab == tabSettings {
		a.refreshReport()
	}
}

// guarded opens the passcode dialog and runs next with the verified code.
func (a *App) guarded(title string, next func(code string) (string, *form, error)) tea.Cmd {
	f := newForm("🔒 "+title, func(v formValues) (string, *form, error) {
		code := v.get(0)
		if err := a.till.Verify(code); err != nil {
			return "", nil, err
		}
		return next(code)
	}).masked("Passcode")
	return a.openDialog(f)
}

func (a *App) setStatus(format string, args ...any) {
	a.statusMsg = fmt.Sprintf(format, args...)
	a.statusErr = false
}

func (a *App) setError(err error) {
	a.statusMsg = err.Error()
	a.statusErr = true
	a.logger.Debug("action rejected", zap.Error(err), zap.String("tab", tabNames[a.activeTab]))
}

func (a *App) applyConfig(cfg *config.Config) {
	if cfg == nil {
		return
	}
	a.till.SetCafeName(cfg.Project.CafeName)
	if f, err := cfg.Formatter(); err == nil {
		a.till.SetFormatter(f)
	} else {
		a.logger.Warn("currency not applied", zap.Error(err))
	}
	a.rates = cfg.RatePresets()
	a.tick = cfg.TickInterval()
	a.setStatus("Config reloaded")
	a.logger.Info("config applied", zap.String("cafe", cfg.Project.CafeName))
	a.afterChange()
}

func (a *App) money(v money.Amount) string { return a.till.Formatter().Format(v) }

func parseAmount(label, text string) (money.Amount, error) {
	v, err := money.Parse(text)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", label, err)
	}
	return v, nil
}

var errNothingSelected = errors.New("nothing selected")

// View renders the whole screen.
func (a *App) View() string {
	width := a.width
	if width <= 0 {
		width = 100
	}
	var content string
	switch a.activeTab {
	case tabDevices:
		content = a.renderDevices(width - 4)
	case tabCafe:
		content = a.renderCafe(width - 4)
	case tabInventory:
		content = a.renderInventory()
	case tabWithdrawals:
		content = a.renderWithdrawals(width - 4)
	case tabSettings:
		content = a.renderSettings(width - 4)
	}
	if a.dialog != nil {
		content = lipgloss.JoinVertical(lipgloss.Left, content, "", a.dialog.view(width-4))
	}
	sections := []string{a.renderHeader(), a.renderTabs(), panelStyle.Width(max(20, width-2)).Render(content)}
	if logPanel := a.renderLogPanel(); logPanel != "" {
		sections = append(sections, logPanel)
	}
	style := hintStyle
	if a.statusErr {
		style = errorStyle
	}
	sections = append(sections, style.Render(a.statusMsg))
	return strings.Join(sections, "\n")
}

func (a *App) renderHeader() string {
	now := a.till.Now()
	running := a.till.RunningCount()
	right := mutedStyle.Render(fmt.Sprintf("%s · %d running", now.Format("Mon 02 Jan 15:04:05"), running))
	return headerStyle.Render("⬡ "+a.till.Settings().CafeName) + "  " + right
}

func (a *App) renderTabs() string {
	parts := make([]string, 0, tabCount)
	for i, name := range tabNames {
		label := fmt.Sprintf("%d %s", i+1, name)
		if tab(i) == a.activeTab {
			parts = append(parts, activeTabStyle.Render(label))
		} else {
			parts = append(parts, tabStyle.Render(label))
		}
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, parts...)
}

func (a *App) renderLogPanel() string {
	lb := a.till.Journal()
	if lb == nil {
		return ""
	}
	lines, total := lb.Tail(logPanelRows)
	if len(lines) == 0 {
		return ""
	}
	fileName := filepath.Base(lb.Path())
	if fileName == "." || fileName == "" {
		fileName = "journal"
	}
	head := sectionStyle.Render(fmt.Sprintf("LOG · %s · %d entries", fileName, total))
	body := mutedStyle.Render(strings.Join(lines, "\n"))
	return panelStyle.Render(fmt.Sprintf("%s\n%s", head, body))
}

func renderRows(rows []string, selected int, empty string) string {
	if len(rows) == 0 {
		return mutedStyle.Render(empty)
	}
	out := make([]string, len(rows))
	for i, r := range rows {
		if i == selected {
			out[i] = selectedStyle.Render("▸ " + r)
		} else {
			out[i] = "  " + r
		}
	}
	return strings.Join(out, "\n")
}
