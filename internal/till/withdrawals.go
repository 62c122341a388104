package till

import (
	"fmt"

	"github.com/kingrea/bakar/internal/debts"
	"github.com/kingrea/bakar/internal/money"
	"github.com/kingrea/bakar/internal/withdrawals"
)

// Withdrawals lists drawer movements.
func (t *Till) Withdrawals() []withdrawals.Entry { return t.ledger.List() }

// WithdrawalSummary totals drawer movements.
func (t *Till) WithdrawalSummary() withdrawals.Summary { return t.ledger.Summary() }

// AddWithdrawal records a drawer movement. An advance also opens a debt.
func (t *Till) AddWithdrawal(kind withdrawals.Kind, amount money.Amount, description string) (withdrawals.Entry, error) {
	e, err := t.ledger.Add(kind, amount, description)
	if err != nil {
		return withdrawals.Entry{}, t.fail("Withdrawal", err)
	}
	t.journal.Info("%s %s · %s", e.Kind.Label(), t.amount(e.Amount), e.Description)
	if e.Kind == withdrawals.KindAdvance {
		party := e.Description
		if party == "" {
			party = fmt.Sprintf("Advance %s", e.ShortID())
		}
		t.debts.Upsert(e.ID, debts.KindAdvance, party, e.Amount)
		t.journal.Info("Debt opened for %s · %s", party, t.amount(e.Amount))
	}
	return e, nil
}

// DeleteWithdrawal removes an entry and any debt it opened.
func (t *Till) DeleteWithdrawal(id, passcode string) (withdrawals.Entry, error) {
	if err := t.guard("withdrawal delete", passcode); err != nil {
		return withdrawals.Entry{}, err
	}
	e, err := t.ledger.Delete(id)
	if err != nil {
		return withdrawals.Entry{}, t.fail("Delete withdrawal", err)
	}
	t.debts.RemoveParty(e.ID)
	t.journal.Info("%s of %s deleted", e.Kind.Label(), t.amount(e.Amount))
	return e, nil
}
