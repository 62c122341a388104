package till

import (
	"fmt"

	"github.com/kingrea/bakar/internal/debts"
	"github.com/kingrea/bakar/internal/money"
)

// Debts lists open debts, oldest first.
func (t *Till) Debts() []debts.Debt { return t.debts.List() }

// DebtsOfKind lists open debts of one kind.
func (t *Till) DebtsOfKind(kind debts.Kind) []debts.Debt { return t.debts.ListKind(kind) }

// PayDebt records a payment against a debt and returns what is still owed.
// Café debts are paid through their invoice so the invoice closes with them.
// Other kinds count toward the drawer as debt repayments, capped at the
// balance; any excess is change.
func (t *Till) PayDebt(id string, amount money.Amount) (money.Amount, error) {
	d, err := t.debts.Get(id)
	if err != nil {
		return 0, t.fail("Pay debt", err)
	}
	if amount <= 0 {
		return 0, t.fail("Pay debt", debts.ErrInvalidAmount)
	}
	if d.Kind == debts.KindCafe {
		s, err := t.SettleInvoice(d.PartyID, 0, amount)
		if err != nil {
			return 0, fmt.Errorf("till: pay café debt: %w", err)
		}
		return money.Max(0, s.Remaining), nil
	}
	remaining, err := t.debts.Pay(id, amount)
	if err != nil {
		return 0, t.fail("Pay debt", err)
	}
	t.repaid += money.Min(amount, d.Amount)
	t.journal.Info("%s paid %s · owes %s", d.Party, t.amount(amount), t.amount(money.Max(0, remaining)))
	return money.Max(0, remaining), nil
}
