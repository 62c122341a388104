// Package report aggregates the day's figures for the settings tab.
package report

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/kingrea/bakar/internal/billing"
	"github.com/kingrea/bakar/internal/cafe"
	"github.com/kingrea/bakar/internal/debts"
	"github.com/kingrea/bakar/internal/money"
	"github.com/kingrea/bakar/internal/withdrawals"
)

// ErrExportUnavailable is returned by every export action.
var ErrExportUnavailable = errors.New("report: export is not available yet")

// Summary holds the daily figures.
type Summary struct {
	Date           time.Time
	DeviceEarnings money.Amount
	PendingDevices money.Amount
	CafeEarnings   money.Amount
	Outflows       money.Amount
	Collections    money.Amount
	DebtRepayments money.Amount
	ExpectedDrawer money.Amount
	TotalDebts     money.Amount
	DebtCount      int
}

// Totals fills ExpectedDrawer from the other figures.
func (s Summary) Totals() Summary {
	s.ExpectedDrawer = s.DeviceEarnings + s.CafeEarnings + s.Collections + s.DebtRepayments - s.Outflows
	return s
}

// Sales is device plus café earnings.
func (s Summary) Sales() money.Amount { return s.DeviceEarnings + s.CafeEarnings }

// Reconcile compares counted cash with the expected drawer. Positive means the
// drawer is over, negative means it is short.
func Reconcile(s Summary, counted money.Amount) money.Amount {
	return counted - s.ExpectedDrawer
}

// Snapshot is a summary plus the detail lists behind it.
type Snapshot struct {
	CafeName       string
	Summary        Summary
	Sessions       []billing.Session
	OpenInvoices   []cafe.Customer
	ClosedInvoices []cafe.Customer
	Withdrawals    []withdrawals.Entry
	Debts          []debts.Debt
}

// Markdown renders the daily report.
func Markdown(snap Snapshot, f *money.Formatter) string {
	var b strings.Builder
	s := snap.Summary
	fmt.Fprintf(&b, "# %s\n\n", snap.CafeName)
	fmt.Fprintf(&b, "Daily report for **%s**\n\n", s.Date.Format("2006-01-02"))

	b.WriteString("## Summary\n\n")
	b.WriteString("| Figure | Amount |\n|---|---:|\n")
	rows := []struct {
		label string
		value money.Amount
	}{
		{"Device earnings", s.DeviceEarnings},
		{"Café earnings", s.CafeEarnings},
		{"Collections", s.Collections},
		{"Debt repayments", s.DebtRepayments},
		{"Outflows", s.Outflows},
		{"Expected drawer", s.ExpectedDrawer},
		{"Pending devices", s.PendingDevices},
		{fmt.Sprintf("Open debts (%d)", s.DebtCount), s.TotalDebts},
	}
	for _, r := range rows {
		fmt.Fprintf(&b, "| %s | %s |\n", r.label, f.Format(r.value))
	}

	if len(snap.Sessions) > 0 {
		b.WriteString("\n## Devices\n\n")
		b.WriteString("| Device | Usage | Time | Net | Paid |\n|---|---|---|---:|---:|\n")
		for _, ses := range snap.Sessions {
			fmt.Fprintf(&b, "| %s | %s | %s | %s | %s |\n",
				ses.DeviceName, ses.Usage.Label(), billing.FormatElapsed(ses.Elapsed),
				f.Format(ses.Net), f.Format(ses.Paid))
		}
	}

	invoices := append(append([]cafe.Customer(nil), snap.ClosedInvoices...), snap.OpenInvoices...)
	if len(invoices) > 0 {
		b.WriteString("\n## Café\n\n")
		b.WriteString("| Customer | Items | Total | Paid | Remaining |\n|---|---:|---:|---:|---:|\n")
		for _, c := range invoices {
			qty := 0
			for _, l := range c.Lines {
				qty += l.Quantity
			}
			fmt.Fprintf(&b, "| %s | %d | %s | %s | %s |\n",
				escape(c.Name), qty, f.Format(c.Net()), f.Format(c.Paid), f.Format(money.Max(0, c.Remaining())))
		}
	}

	if len(snap.Withdrawals) > 0 {
		b.WriteString("\n## Withdrawals\n\n")
		b.WriteString("| Kind | Description | Amount |\n|---|---|---:|\n")
		for _, e := range snap.Withdrawals {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", e.Kind.Label(), escape(e.Description), f.Format(e.Amount))
		}
	}

	if len(snap.Debts) > 0 {
		b.WriteString("\n## Debts\n\n")
		b.WriteString("| Party | Kind | Amount |\n|---|---|---:|\n")
		for _, d := range snap.Debts {
			fmt.Fprintf(&b, "| %s | %s | %s |\n", escape(d.Party), d.Kind.Label(), f.Format(d.Amount))
		}
	}
	return b.String()
}

func escape(s string) string {
	if s == "" {
		return "-"
	}
	return strings.ReplaceAll(s, "|", `\|`)
}

// Exporter produces files from a snapshot.
type Exporter interface {
	PDF(snap Snapshot) error
	Backup(snap Snapshot) error
}

// NopExporter is the exporter shipped today. Every action fails with
// ErrExportUnavailable.
type NopExporter struct{}

func (NopExporter) PDF(Snapshot) error    { return ErrExportUnavailable }
func (NopExporter) Backup(Snapshot) error { return ErrExportUnavailable }
