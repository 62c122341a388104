// Package cafe is the café ledger: one open invoice per customer, settled in
// one or more payments. Invoices that are fully paid move to the closed list
// so the day's earnings keep them.
package cafe

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/bakar/internal/inventory"
	"github.com/kingrea/bakar/internal/money"
)

var (
	ErrNameRequired    = errors.New("cafe: customer name is required")
	ErrUnknownCustomer = errors.New("cafe: unknown customer")
	ErrUnknownLine     = errors.New("cafe: item is not on the invoice")
	ErrEmptyInvoice    = errors.New("cafe: the invoice is empty")
	ErrNegativeAmount  = errors.New("cafe: discount and payment cannot be negative")

	ErrDiscountExceedsTotal = errors.New("cafe: discount is larger than the invoice total")
	ErrRemoveBelowPaid      = errors.New("cafe: the invoice would drop below what was already paid")
)

// Line is one item on an invoice.
type Line struct {
	ItemID   string
	Name     string
	Price    money.Amount
	Quantity int
}

// Total is the unit price times the quantity.
func (l Line) Total() money.Amount { return l.Price.Times(l.Quantity) }

// Customer is an invoice.
type Customer struct {
	ID       string
	Name     string
	Lines    []Line
	Discount money.Amount
	Paid     money.Amount
	Opened   time.Time
	Closed   time.Time
}

// Total sums the invoice lines.
func (c Customer) Total() money.Amount {
	var total money.Amount
	for _, l := range c.Lines {
		total += l.Total()
	}
	return total
}

// Net is the total after discount.
func (c Customer) Net() money.Amount { return c.Total() - c.Discount }

// Remaining is what the customer still owes. Negative means change is due.
func (c Customer) Remaining() money.Amount { return c.Net() - c.Paid }

// Collected is the money kept from this invoice.
func (c Customer) Collected() money.Amount {
	return money.Max(0, money.Min(c.Paid, c.Net()))
}

// Settlement reports the outcome of one Settle call.
type Settlement struct {
	Customer  Customer
	Remaining money.Amount
	Closed    bool
}

// Change is the cash handed back on overpayment.
func (s Settlement) Change() money.Amount {
	if s.Remaining < 0 {
		return -s.Remaining
	}
	return 0
}

// Book holds open and closed invoices.
type Book struct {
	open   map[string]*Customer
	closed []Customer
	clock  func() time.Time
}

// New creates an empty book.
func New(clock func() time.Time) *Book {
	if clock == nil {
		clock = time.Now
	}
	return &Book{open: map[string]*Customer{}, clock: clock}
}

// Open starts a new invoice.
func (b *Book) Open(name string) (Customer, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return Customer{}, ErrNameRequired
	}
	c := &Customer{ID: uuid.NewString(), Name: name, Opened: b.clock()}
	b.open[c.ID] = c
	return clone(*c), nil
}

func (b *Book) lookup(id string) (*Customer, error) {
	c, ok := b.open[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownCustomer, id)
	}
	return c, nil
}

// Get returns an open invoice.
func (b *Book) Get(id string) (Customer, error) {
	c, err := b.lookup(id)
	if err != nil {
		return Customer{}, err
	}
	return clone(*c), nil
}

// AddItem puts one unit of item on the invoice. The line price follows the
// item's current price.
func (b *Book) AddItem(customerID string, item inventory.Item) (Customer, error) {
	c, err := b.lookup(customerID)
	if err != nil {
		return Customer{}, err
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == item.ID {
			c.Lines[i].Quantity++
			c.Lines[i].Price = item.Price
			c.Lines[i].Name = item.Name
			return clone(*c), nil
		}
	}
	c.Lines = append(c.Lines, Line{ItemID: item.ID, Name: item.Name, Price: item.Price, Quantity: 1})
	return clone(*c), nil
}

// RemoveItem drops a whole line. The remaining total must still cover what
// was already paid and discounted.
func (b *Book) RemoveItem(customerID, itemID string) (Customer, error) {
	c, err := b.lookup(customerID)
	if err != nil {
		return Customer{}, err
	}
	for i := range c.Lines {
		if c.Lines[i].ItemID == itemID {
			if c.Paid+c.Discount > c.Total()-c.Lines[i].Total() {
				return Customer{}, ErrRemoveBelowPaid
			}
			c.Lines = append(c.Lines[:i], c.Lines[i+1:]...)
			return clone(*c), nil
		}
	}
	return Customer{}, fmt.Errorf("%w: %s", ErrUnknownLine, itemID)
}

// Settle adds a discount and a payment to the invoice. The invoice closes
// once nothing remains.
func (b *Book) Settle(customerID string, discount, paid money.Amount) (Settlement, error) {
	c, err := b.lookup(customerID)
	if err != nil {
		return Settlement{}, err
	}
	if c.Total() <= 0 {
		return Settlement{}, ErrEmptyInvoice
	}
	if discount < 0 || paid < 0 {
		return Settlement{}, ErrNegativeAmount
	}
	if c.Discount+discount > c.Total() {
		return Settlement{}, ErrDiscountExceedsTotal
	}
	c.Discount += discount
	c.Paid += paid
	out := Settlement{Remaining: c.Remaining()}
	if out.Remaining <= 0 {
		c.Closed = b.clock()
		delete(b.open, c.ID)
		b.closed = append(b.closed, clone(*c))
		out.Closed = true
	}
	out.Customer = clone(*c)
	return out, nil
}

// Delete drops an open invoice.
func (b *Book) Delete(customerID string) (Customer, error) {
	c, err := b.lookup(customerID)
	if err != nil {
		return Customer{}, err
	}
	delete(b.open, customerID)
	return clone(*c), nil
}

// OpenInvoices lists open invoices, oldest first.
func (b *Book) OpenInvoices() []Customer {
	out := make([]Customer, 0, len(b.open))
	for _, c := range b.open {
		out = append(out, clone(*c))
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Opened.Equal(out[j].Opened) {
			return out[i].ID < out[j].ID
		}
		return out[i].Opened.Before(out[j].Opened)
	})
	return out
}

// ClosedInvoices lists settled invoices in the order they closed.
func (b *Book) ClosedInvoices() []Customer {
	out := make([]Customer, len(b.closed))
	for i, c := range b.closed {
		out[i] = clone(c)
	}
	return out
}

// Earnings sums the money collected across open and closed invoices.
func (b *Book) Earnings() money.Amount {
	var total money.Amount
	for _, c := range b.open {
		total += c.Collected()
	}
	for _, c := range b.closed {
		total += c.Collected()
	}
	return total
}

func clone(c Customer) Customer {
	c.Lines = append([]Line(nil), c.Lines...)
	return c
}
