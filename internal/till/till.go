// Package till is the single in-memory session the UI drives. It owns every
// ledger and applies the effects that cross them: open balances become
// debts, paying a café debt settles the invoice, and guarded actions check the
// shared passcode.
package till

import (
	"errors"
	"fmt"
	"time"

	"github.com/kingrea/bakar/internal/billing"
	"github.com/kingrea/bakar/internal/cafe"
	"github.com/kingrea/bakar/internal/debts"
	"github.com/kingrea/bakar/internal/inventory"
	"github.com/kingrea/bakar/internal/logbook"
	"github.com/kingrea/bakar/internal/money"
	"github.com/kingrea/bakar/internal/report"
	"github.com/kingrea/bakar/internal/settings"
	"github.com/kingrea/bakar/internal/withdrawals"
)

// Till aggregates the day's state.
type Till struct {
	clock    billing.Clock
	settings *settings.Settings
	panel    *billing.Panel
	book     *cafe.Book
	catalog  *inventory.Catalog
	ledger   *withdrawals.Ledger
	debts    *debts.Register
	journal  *logbook.Logbook
	exporter report.Exporter
	format   *money.Formatter

	// repaid is cash taken in against device and advance debts.
	repaid money.Amount
}

// Option customizes a Till.
type Option func(*Till)

// WithClock injects the clock used by every ledger.
func WithClock(clock billing.Clock) Option {
	return func(t *Till) {
		if clock != nil {
			t.clock = clock
		}
	}
}

// WithJournal routes journal lines to lb.
func WithJournal(lb *logbook.Logbook) Option {
	return func(t *Till) { t.journal = lb }
}

// WithExporter replaces the report exporter.
func WithExporter(e report.Exporter) Option {
	return func(t *Till) {
		if e != nil {
			t.exporter = e
		}
	}
}

// WithFormatter sets how amounts are written in journal lines and reports.
func WithFormatter(f *money.Formatter) Option {
	return func(t *Till) {
		if f != nil {
			t.format = f
		}
	}
}

// New wires a till over the given devices and settings.
func New(specs []billing.Spec, st *settings.Settings, opts ...Option) (*Till, error) {
	if st == nil {
		return nil, errors.New("till: settings are required")
	}
	t := &Till{
		clock:    time.Now,
		settings: st,
		exporter: report.NopExporter{},
	}
	for _, opt := range opts {
		opt(t)
	}
	if t.format == nil {
		f, err := money.NewFormatter("", "", st.CurrencyLabel)
		if err != nil {
			return nil, fmt.Errorf("till: formatter: %w", err)
		}
		t.format = f
	}
	panel, err := billing.NewPanel(specs, t.clock)
	if err != nil {
		return nil, fmt.Errorf("till: %w", err)
	}
	now := func() time.Time { return t.clock() }
	t.panel = panel
	t.book = cafe.New(now)
	t.catalog = inventory.New(now)
	t.ledger = withdrawals.New(now)
	t.debts = debts.New(now)
	t.journal.Info("Till opened · %d devices", len(specs))
	return t, nil
}

// Now reads the till clock.
func (t *Till) Now() time.Time { return t.clock() }

// Settings exposes the settings for display.
func (t *Till) Settings() *settings.Settings { return t.settings }

// Journal exposes the journal for the log panel.
func (t *Till) Journal() *logbook.Logbook { return t.journal }

// Formatter returns the amount formatter.
func (t *Till) Formatter() *money.Formatter { return t.format }

func (t *Till) amount(a money.Amount) string { return t.format.Format(a) }

// guard verifies the passcode and journals a refusal.
func (t *Till) guard(action, code string) error {
	if err := t.settings.Verify(code); err != nil {
		t.journal.Warn("Refused %s: wrong passcode", action)
		return err
	}
	return nil
}

// fail journals a rejected action and passes the error through.
func (t *Till) fail(action string, err error) error {
	t.journal.Warn("%s failed: %v", action, err)
	return err
}

// Verify checks the shared passcode.
func (t *Till) Verify(code string) error { return t.guard("unlock", code) }

// Summary builds the daily figures.
func (t *Till) Summary(now time.Time) report.Summary {
	w := t.ledger.Summary()
	return report.Summary{
		Date:           now,
		DeviceEarnings: t.panel.Earnings(),
		PendingDevices: t.panel.Pending(now),
		CafeEarnings:   t.book.Earnings(),
		Outflows:       w.Outflows,
		Collections:    w.Collections,
		DebtRepayments: t.repaid,
		TotalDebts:     t.debts.Total(),
		DebtCount:      t.debts.Len(),
	}.Totals()
}

// Snapshot is the summary plus the lists behind it.
func (t *Till) Snapshot(now time.Time) report.Snapshot {
	return report.Snapshot{
		CafeName:       t.settings.CafeName,
		Summary:        t.Summary(now),
		Sessions:       t.panel.History(),
		OpenInvoices:   t.book.OpenInvoices(),
		ClosedInvoices: t.book.ClosedInvoices(),
		Withdrawals:    t.ledger.List(),
		Debts:          t.debts.List(),
	}
}

// ReportMarkdown renders the daily report.
func (t *Till) ReportMarkdown(now time.Time) string {
	return report.Markdown(t.Snapshot(now), t.format)
}

// Reconcile compares counted cash with the expected drawer.
func (t *Till) Reconcile(counted money.Amount) money.Amount {
	diff := report.Reconcile(t.Summary(t.clock()), counted)
	t.journal.Info("Drawer counted %s · difference %s", t.amount(counted), t.amount(diff))
	return diff
}

// ExportPDF asks the exporter for a PDF report.
func (t *Till) ExportPDF() error {
	if err := t.exporter.PDF(t.Snapshot(t.clock())); err != nil {
		return t.fail("PDF export", err)
	}
	t.journal.Info("PDF report exported")
	return nil
}

// Backup asks the exporter for a data backup.
func (t *Till) Backup() error {
	if err := t.exporter.Backup(t.Snapshot(t.clock())); err != nil {
		return t.fail("Backup", err)
	}
	t.journal.Info("Backup written")
	return nil
}

// ChangePasscode replaces the shared passcode.
func (t *Till) ChangePasscode(old, next, confirm string) error {
	if err := t.settings.ChangePasscode(old, next, confirm); err != nil {
		return t.fail("Passcode change", err)
	}
	t.journal.Info("Passcode changed")
	return nil
}

// SetCurrencyLabel changes the label shown after amounts.
func (t *Till) SetCurrencyLabel(label string) {
	t.settings.SetCurrencyLabel(label)
	t.format = t.format.WithLabel(t.settings.CurrencyLabel)
	t.journal.Info("Currency label set to %s", t.settings.CurrencyLabel)
}

// SetFormatter switches the currency, locale and label used for amounts.
func (t *Till) SetFormatter(f *money.Formatter) {
	if f == nil {
		return
	}
	t.format = f
	t.settings.SetCurrencyLabel(f.Label())
	t.journal.Info("Currency set to %s", t.settings.CurrencyLabel)
}

// SetCafeName changes the header name.
func (t *Till) SetCafeName(name string) {
	t.settings.SetCafeName(name)
	t.journal.Info("Café name set to %s", t.settings.CafeName)
}
