package report

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/kingrea/bakar/internal/billing"
	"github.com/kingrea/bakar/internal/cafe"
	"github.com/kingrea/bakar/internal/debts"
	"github.com/kingrea/bakar/internal/money"
	"github.com/kingrea/bakar/internal/withdrawals"
)

func TestTotalsAndReconcile(t *testing.T) {
	s := Summary{DeviceEarnings: 5000, CafeEarnings: 2000, Collections: 1000, Outflows: 1500}.Totals()
	if s.ExpectedDrawer != 6500 {
		t.Fatalf("expected drawer = %v, want 65.00", s.ExpectedDrawer)
	}
	if s.Sales() != 7000 {
		t.Fatalf("sales = %v", s.Sales())
	}
	if got := Reconcile(s, 6000); got != -500 {
		t.Fatalf("reconcile short = %v", got)
	}
	if got := Reconcile(s, 6500); got != 0 {
		t.Fatalf("reconcile exact = %v", got)
	}
}

func TestDebtRepaymentsCountInDrawer(t *testing.T) {
	s := Summary{DeviceEarnings: 1500, DebtRepayments: 500}.Totals()
	if s.ExpectedDrawer != 2000 {
		t.Fatalf("expected drawer = %v, want 20.00", s.ExpectedDrawer)
	}
	if got := Reconcile(s, 2000); got != 0 {
		t.Fatalf("reconcile = %v, want 0", got)
	}
}

func TestMarkdown(t *testing.T) {
	f := money.MustFormatter("en", "EGP", "ج.م")
	snap := Snapshot{
		CafeName: "BAKAR PS & CAFÉ",
		Summary: Summary{
			Date:           time.Date(2025, 3, 1, 23, 0, 0, 0, time.UTC),
			DeviceEarnings: 3000,
		}.Totals(),
		Sessions: []billing.Session{{DeviceName: "PS 1", Usage: billing.UsagePS5, Elapsed: 90 * time.Minute,
			Quote: billing.Quote{Cost: 3000, Net: 3000, Paid: 3000}}},
		OpenInvoices: []cafe.Customer{{Name: "A|B", Lines: []cafe.Line{{Price: 1000, Quantity: 2}}}},
		Withdrawals:  []withdrawals.Entry{{Kind: withdrawals.KindExpense, Amount: 500}},
		Debts:        []debts.Debt{{Party: "Mostafa", Kind: debts.KindAdvance, Amount: 2000}},
	}
	md := Markdown(snap, f)
	for _, want := range []string{
		"# BAKAR PS & CAFÉ",
		"2025-03-01",
		"| Device earnings | 30.00 ج.م |",
		"| PS 1 | PS5 | 01:30:00 |",
		`A\|B`,
		"| Expense | - | 5.00 ج.م |",
		"| Mostafa | Advance | 20.00 ج.م |",
	} {
		if !strings.Contains(md, want) {
			t.Fatalf("markdown missing %q:\n%s", want, md)
		}
	}
}

func TestNopExporter(t *testing.T) {
	var e Exporter = NopExporter{}
	if err := e.PDF(Snapshot{}); !errors.Is(err, ErrExportUnavailable) {
		t.Fatalf("pdf err = %v", err)
	}
	if err := e.Backup(Snapshot{}); !errors.Is(err, ErrExportUnavailable) {
		t.Fatalf("backup err = %v", err)
	}
}
