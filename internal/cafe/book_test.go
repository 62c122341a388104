package cafe

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/kingrea/bakar/internal/inventory"
)

var (
	tea   = inventory.Item{ID: "tea", Name: "Tea", Price: 1000}
	pepsi = inventory.Item{ID: "pepsi", Name: "Pepsi", Price: 1500}
)

func TestOpenRequiresName(t *testing.T) {
	b := New(nil)
	if _, err := b.Open("   "); !errors.Is(err, ErrNameRequired) {
		t.Fatalf("err = %v", err)
	}
}

func TestAddItemMergesLines(t *testing.T) {
	b := New(nil)
	c, _ := b.Open("Karim")
	_, _ = b.AddItem(c.ID, tea)
	_, _ = b.AddItem(c.ID, pepsi)
	repriced := tea
	repriced.Price = 1200
	got, err := b.AddItem(c.ID, repriced)
	if err != nil {
		t.Fatal(err)
	}
	want := []Line{
		{ItemID: "tea", Name: "Tea", Price: 1200, Quantity: 2},
		{ItemID: "pepsi", Name: "Pepsi", Price: 1500, Quantity: 1},
	}
	if diff := cmp.Diff(want, got.Lines); diff != "" {
		t.Fatalf("lines mismatch (-want +got):\n%s", diff)
	}
	if got.Total() != 3900 {
		t.Fatalf("total = %v, want 39.00", got.Total())
	}
	got, err = b.RemoveItem(c.ID, "tea")
	if err != nil {
		t.Fatal(err)
	}
	if len(got.Lines) != 1 {
		t.Fatalf("lines after remove = %d", len(got.Lines))
	}
	if _, err := b.RemoveItem(c.ID, "tea"); !errors.Is(err, ErrUnknownLine) {
		t.Fatalf("remove missing err = %v", err)
	}
}

func TestSettlePartialThenClose(t *testing.T) {
	b := New(nil)
	c, _ := b.Open("Omar")
	if _, err := b.Settle(c.ID, 0, 0); !errors.Is(err, ErrEmptyInvoice) {
		t.Fatalf("empty settle err = %v", err)
	}
	_, _ = b.AddItem(c.ID, tea)
	_, _ = b.AddItem(c.ID, pepsi)
	if _, err := b.Settle(c.ID, -1, 0); !errors.Is(err, ErrNegativeAmount) {
		t.Fatalf("negative err = %v", err)
	}
	s, err := b.Settle(c.ID, 500, 1000)
	if err != nil {
		t.Fatal(err)
	}
	if s.Closed || s.Remaining != 1000 {
		t.Fatalf("partial settle = %+v", s)
	}
	if b.Earnings() != 1000 {
		t.Fatalf("earnings after partial = %v", b.Earnings())
	}
	s, err = b.Settle(c.ID, 0, 2000)
	if err != nil {
		t.Fatal(err)
	}
	if !s.Closed || s.Change() != 1000 {
		t.Fatalf("closing settle = %+v", s)
	}
	if s.Customer.Paid != 3000 || s.Customer.Discount != 500 {
		t.Fatalf("running figures = paid %v discount %v", s.Customer.Paid, s.Customer.Discount)
	}
	if len(b.OpenInvoices()) != 0 || len(b.ClosedInvoices()) != 1 {
		t.Fatalf("invoice should move to the closed list")
	}
	if b.Earnings() != 2000 {
		t.Fatalf("earnings = %v, want 20.00", b.Earnings())
	}
	if _, err := b.Get(c.ID); !errors.Is(err, ErrUnknownCustomer) {
		t.Fatalf("closed invoice should not be open, err = %v", err)
	}
}

func TestDelete(t *testing.T) {
	b := New(nil)
	c, _ := b.Open("Sara")
	_, _ = b.AddItem(c.ID, tea)
	if _, err := b.Delete(c.ID); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Delete(c.ID); !errors.Is(err, ErrUnknownCustomer) {
		t.Fatalf("double delete err = %v", err)
	}
}

func TestSettleRejectsOversizedDiscount(t *testing.T) {
	b := New(nil)
	c, _ := b.Open("Hany")
	_, _ = b.AddItem(c.ID, tea)
	if _, err := b.Settle(c.ID, 1500, 0); !errors.Is(err, ErrDiscountExceedsTotal) {
		t.Fatalf("err = %v, want ErrDiscountExceedsTotal", err)
	}
	if _, err := b.Settle(c.ID, 600, 0); err != nil {
		t.Fatal(err)
	}
	if _, err := b.Settle(c.ID, 500, 0); !errors.Is(err, ErrDiscountExceedsTotal) {
		t.Fatalf("accumulated discount err = %v", err)
	}
	got, _ := b.Get(c.ID)
	if got.Discount != 600 || got.Remaining() != 400 {
		t.Fatalf("rejected discount changed the invoice: %+v", got)
	}
	s, err := b.Settle(c.ID, 400, 0)
	if err != nil || !s.Closed || s.Change() != 0 {
		t.Fatalf("full discount = %+v, %v", s, err)
	}
}

func TestRemoveItemKeepsPaidAmountCovered(t *testing.T) {
	b := New(nil)
	c, _ := b.Open("Mona")
	_, _ = b.AddItem(c.ID, tea)
	_, _ = b.AddItem(c.ID, pepsi)
	if _, err := b.Settle(c.ID, 0, 1200); err != nil {
		t.Fatal(err)
	}
	if _, err := b.RemoveItem(c.ID, "tea"); err != nil {
		t.Fatalf("pepsi still covers the payment: %v", err)
	}
	if _, err := b.RemoveItem(c.ID, "pepsi"); !errors.Is(err, ErrRemoveBelowPaid) {
		t.Fatalf("err = %v, want ErrRemoveBelowPaid", err)
	}
	if got := b.Earnings(); got != 1200 {
		t.Fatalf("earnings = %v, want 12.00", got)
	}
	s, err := b.Settle(c.ID, 0, 300)
	if err != nil || !s.Closed {
		t.Fatalf("settle = %+v, %v", s, err)
	}
}
