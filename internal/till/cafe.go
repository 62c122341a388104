package till

import (
	"github.com/kingrea/bakar/internal/cafe"
	"github.com/kingrea/bakar/internal/debts"
	"github.com/kingrea/bakar/internal/money"
)

// OpenInvoices lists open café invoices.
func (t *Till) OpenInvoices() []cafe.Customer { return t.book.OpenInvoices() }

// ClosedInvoices lists settled café invoices.
func (t *Till) ClosedInvoices() []cafe.Customer { return t.book.ClosedInvoices() }

// Invoice returns one open invoice.
func (t *Till) Invoice(id string) (cafe.Customer, error) { return t.book.Get(id) }

// OpenCustomer starts a café invoice.
func (t *Till) OpenCustomer(name string) (cafe.Customer, error) {
	c, err := t.book.Open(name)
	if err != nil {
		return cafe.Customer{}, t.fail("Open invoice", err)
	}
	t.journal.Info("Invoice opened for %s", c.Name)
	return c, nil
}

// AddToInvoice puts one unit of a catalog item on an invoice.
func (t *Till) AddToInvoice(customerID, itemID string) (cafe.Customer, error) {
	item, err := t.catalog.Get(itemID)
	if err != nil {
		return cafe.Customer{}, t.fail("Add item", err)
	}
	c, err := t.book.AddItem(customerID, item)
	if err != nil {
		return cafe.Customer{}, t.fail("Add item", err)
	}
	t.journal.Info("%s + %s (%s)", c.Name, item.Name, t.amount(item.Price))
	t.syncCafeDebt(c)
	return c, nil
}

// RemoveFromInvoice drops a line from an invoice.
func (t *Till) RemoveFromInvoice(customerID, itemID string) (cafe.Customer, error) {
	c, err := t.book.RemoveItem(customerID, itemID)
	if err != nil {
		return cafe.Customer{}, t.fail("Remove item", err)
	}
	t.journal.Info("%s − item removed · total %s", c.Name, t.amount(c.Total()))
	t.syncCafeDebt(c)
	return c, nil
}

// SettleInvoice records a discount and a payment. A remaining balance is
// kept as the customer's café debt; a closed invoice clears it.
func (t *Till) SettleInvoice(customerID string, discount, paid money.Amount) (cafe.Settlement, error) {
	s, err := t.book.Settle(customerID, discount, paid)
	if err != nil {
		return cafe.Settlement{}, t.fail("Settle", err)
	}
	if s.Closed {
		t.debts.Upsert(s.Customer.ID, debts.KindCafe, s.Customer.Name, 0)
		t.journal.Info("%s settled · paid %s · change %s", s.Customer.Name, t.amount(s.Customer.Paid), t.amount(s.Change()))
		return s, nil
	}
	t.debts.Upsert(s.Customer.ID, debts.KindCafe, s.Customer.Name, s.Remaining)
	t.journal.Info("%s paid %s · owes %s", s.Customer.Name, t.amount(paid), t.amount(s.Remaining))
	return s, nil
}

// DeleteInvoice removes an open invoice and its debts.
func (t *Till) DeleteInvoice(customerID, passcode string) (cafe.Customer, error) {
	if err := t.guard("invoice delete", passcode); err != nil {
		return cafe.Customer{}, err
	}
	c, err := t.book.Delete(customerID)
	if err != nil {
		return cafe.Customer{}, t.fail("Delete invoice", err)
	}
	t.debts.RemoveParty(c.ID)
	t.journal.Info("Invoice for %s deleted", c.Name)
	return c, nil
}

// syncCafeDebt keeps an existing café debt in line with invoice edits made
// after a partial payment.
func (t *Till) syncCafeDebt(c cafe.Customer) {
	if _, ok := t.debts.Lookup(c.ID, debts.KindCafe); ok {
		t.debts.Upsert(c.ID, debts.KindCafe, c.Name, c.Remaining())
	}
}
