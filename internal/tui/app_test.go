package tui

import (
	"errors"
	"strings"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"golang.org/x/crypto/bcrypt"

	"github.com/kingrea/bakar/internal/billing"
	"github.com/kingrea/bakar/internal/config"
	"github.com/kingrea/bakar/internal/debts"
	"github.com/kingrea/bakar/internal/logbook"
	"github.com/kingrea/bakar/internal/money"
	"github.com/kingrea/bakar/internal/report"
	"github.com/kingrea/bakar/internal/settings"
	"github.com/kingrea/bakar/internal/till"
)

type fakeClock struct{ now time.Time }

func (c *fakeClock) Now() time.Time          { return c.now }
func (c *fakeClock) Advance(d time.Duration) { c.now = c.now.Add(d) }

func newTestApp(t *testing.T, opts ...AppOption) (*App, *fakeClock) {
	t.Helper()
	clock := &fakeClock{now: time.Date(2025, 3, 1, 20, 0, 0, 0, time.UTC)}
	st, err := settings.New("", "", "", settings.WithCost(bcrypt.MinCost))
	if err != nil {
		t.Fatal(err)
	}
	lb, err := logbook.New("", logbook.WithClock(clock.Now))
	if err != nil {
		t.Fatal(err)
	}
	tl, err := till.New(billing.DefaultSpecs(), st,
		till.WithClock(clock.Now),
		till.WithJournal(lb),
		till.WithFormatter(money.MustFormatter("en", "EGP", "ج.م")))
	if err != nil {
		t.Fatalf("new till: %v", err)
	}
	plain := WithReportRenderer(func(md string, _ int) (string, error) { return md, nil })
	return NewApp(tl, append([]AppOption{plain}, opts...)...), clock
}

func keyMsg(key string) tea.KeyMsg {
	switch key {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "tab":
		return tea.KeyMsg{Type: tea.KeyTab}
	case "right":
		return tea.KeyMsg{Type: tea.KeyRight}
	case "ctrl+c":
		return tea.KeyMsg{Type: tea.KeyCtrlC}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
}

// press feeds keys one message at a time. Multi-rune strings are typed as a
// single paste-like message.
func press(t *testing.T, app *App, keys ...string) {
	t.Helper()
	for _, k := range keys {
		model, _ := app.Update(keyMsg(k))
		next, ok := model.(*App)
		if !ok {
			t.Fatalf("unexpected model type %T", model)
		}
		app = next
	}
}

func TestTabsSwitchOnlyWithoutDialog(t *testing.T) {
	app, _ := newTestApp(t)
	press(t, app, "3")
	if app.activeTab != tabInventory {
		t.Fatalf("active tab = %d, want inventory", app.activeTab)
	}
	press(t, app, "n", "5")
	if app.activeTab != tabInventory {
		t.Fatalf("typing into a dialog must not switch tabs")
	}
	if app.dialog == nil || app.dialog.values().get(0) != "5" {
		t.Fatalf("digit should land in the name field")
	}
	press(t, app, "esc", "5")
	if app.activeTab != tabSettings {
		t.Fatalf("active tab = %d, want settings", app.activeTab)
	}
	if !strings.Contains(app.View(), "Settings & report") {
		t.Fatalf("settings view missing")
	}
}

func TestDeviceCheckoutFlow(t *testing.T) {
	app, clock := newTestApp(t)
	press(t, app, "j", "j", "j")
	d, _ := app.selectedDevice()
	if d.ID != "ps1" {
		t.Fatalf("selected %s, want ps1", d.ID)
	}
	press(t, app, "s")
	if !app.statusErr || !strings.Contains(app.statusMsg, "price") {
		t.Fatalf("start without price should fail, status %q", app.statusMsg)
	}
	press(t, app, "e", "20", "enter")
	if d, _ = app.till.Device("ps1"); d.Rate != 2000 {
		t.Fatalf("rate = %v", d.Rate)
	}
	press(t, app, "s")
	clock.Advance(time.Hour)
	app.Update(tickMsg(clock.Now()))
	if !strings.Contains(app.View(), "01:00:00") {
		t.Fatalf("timer not rendered:\n%s", app.View())
	}
	press(t, app, "p", "enter")
	if app.dialog == nil {
		t.Fatalf("checkout dialog should open")
	}
	press(t, app, "5", "tab", "10", "enter")
	if app.dialog != nil {
		t.Fatalf("dialog should close, err %q", app.dialog.err)
	}
	list := app.till.DebtsOfKind(debts.KindDevice)
	if len(list) != 1 || list[0].Amount != 500 {
		t.Fatalf("device debts = %+v", list)
	}
	if !strings.Contains(app.statusMsg, "added to debts") {
		t.Fatalf("status = %q", app.statusMsg)
	}
}

func TestUsageCyclePrefillsPreset(t *testing.T) {
	app, _ := newTestApp(t, WithRatePresets(map[billing.Usage]money.Amount{billing.UsagePS4: 1800}))
	press(t, app, "u")
	d, _ := app.till.Device("room1")
	if d.Usage != billing.UsagePS4 || d.Rate != 1800 {
		t.Fatalf("usage %q rate %v", d.Usage, d.Rate)
	}
	press(t, app, "c")
	if d, _ = app.till.Device("room1"); d.Controllers != billing.ControllersSingle {
		t.Fatalf("controllers = %q", d.Controllers)
	}
}

func TestPasscodeGuardsInventoryDelete(t *testing.T) {
	app, _ := newTestApp(t)
	press(t, app, "3", "n", "Tea", "tab", "10", "enter")
	if len(app.till.Items()) != 1 {
		t.Fatalf("item not added, status %q", app.statusMsg)
	}
	press(t, app, "d", "0000", "enter")
	if !errors.Is(app.till.Verify("0000"), settings.ErrWrongPasscode) || !app.statusErr {
		t.Fatalf("wrong passcode should be reported, status %q", app.statusMsg)
	}
	if len(app.till.Items()) != 1 {
		t.Fatalf("item deleted without the passcode")
	}
	press(t, app, "esc", "d", "1234", "enter")
	if len(app.till.Items()) != 0 {
		t.Fatalf("item should be deleted, status %q", app.statusMsg)
	}
}

func TestCafeFlowUsesFuzzySearch(t *testing.T) {
	app, _ := newTestApp(t)
	if _, err := app.till.AddItem("Nescafe", 1500); err != nil {
		t.Fatal(err)
	}
	press(t, app, "2", "n", "Karim", "enter")
	press(t, app, "a", "nes", "enter")
	c, ok := app.selectedInvoice()
	if !ok || len(c.Lines) != 1 || c.Lines[0].Name != "Nescafe" {
		t.Fatalf("invoice = %+v", c)
	}
	press(t, app, "enter", "tab", "10", "enter")
	if got := app.till.DebtsOfKind(debts.KindCafe); len(got) != 1 || got[0].Amount != 500 {
		t.Fatalf("cafe debts = %+v", got)
	}
	press(t, app, "4", "p", "tab", "5", "enter")
	if len(app.till.Debts()) != 0 || len(app.till.ClosedInvoices()) != 1 {
		t.Fatalf("paying the debt should close the invoice, status %q", app.statusMsg)
	}
}

func TestSettingsActions(t *testing.T) {
	app, _ := newTestApp(t)
	press(t, app, "5", "e")
	if !app.statusErr || app.statusMsg != report.ErrExportUnavailable.Error() {
		t.Fatalf("status = %q", app.statusMsg)
	}
	press(t, app, "c", "1234", "tab", "5678", "tab", "5678", "enter")
	if err := app.till.Verify("5678"); err != nil {
		t.Fatalf("passcode not changed: %v", err)
	}
	press(t, app, "r", "0", "enter")
	if app.statusMsg != "Drawer matches" {
		t.Fatalf("status = %q", app.statusMsg)
	}
	if !strings.Contains(app.reportView, "# BAKAR PS & CAFÉ") {
		t.Fatalf("report preview missing:\n%s", app.reportView)
	}
}

func TestConfigReloadUpdatesSettings(t *testing.T) {
	app, _ := newTestApp(t)
	cfg, err := config.NewConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg.Project.CafeName = "Night Owl"
	cfg.Project.Currency.Label = "LE"
	cfg.Project.Rates = map[string]string{"PS5": "30"}
	app.Update(ConfigReloaded(cfg))
	if app.till.Settings().CafeName != "Night Owl" {
		t.Fatalf("cafe name = %q", app.till.Settings().CafeName)
	}
	if got := app.till.Formatter().Format(100); got != "1.00 LE" {
		t.Fatalf("format = %q", got)
	}
	if app.rates[billing.UsagePS5] != 3000 {
		t.Fatalf("rates = %v", app.rates)
	}
	if !strings.Contains(app.View(), "Night Owl") {
		t.Fatalf("header should show the new name")
	}
}

func TestConfigReloadSwitchesLocale(t *testing.T) {
	app, _ := newTestApp(t)
	cfg, err := config.NewConfig(t.TempDir())
	if err != nil {
		t.Fatal(err)
	}
	cfg.Project.Currency = config.CurrencyConfig{Code: "EUR", Label: "EUR", Locale: "de"}
	app.Update(ConfigReloaded(cfg))
	if got := app.till.Formatter().Format(123456); got != "1.234,56 EUR" {
		t.Fatalf("format = %q", got)
	}
	if app.till.Settings().CurrencyLabel != "EUR" {
		t.Fatalf("label = %q", app.till.Settings().CurrencyLabel)
	}
}

func TestQuitKeys(t *testing.T) {
	app, _ := newTestApp(t)
	_, cmd := app.Update(keyMsg("q"))
	if cmd == nil {
		t.Fatalf("q should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatalf("expected quit message")
	}
}
