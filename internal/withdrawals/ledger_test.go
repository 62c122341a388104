package withdrawals

import (
	"errors"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestAddValidates(t *testing.T) {
	l := New(nil)
	if _, err := l.Add("bribe", 100, ""); !errors.Is(err, ErrUnknownKind) {
		t.Fatalf("unknown kind err = %v", err)
	}
	if _, err := l.Add(KindExpense, 0, "rent"); !errors.Is(err, ErrInvalidAmount) {
		t.Fatalf("zero amount err = %v", err)
	}
	e, err := l.Add(KindExpense, 2500, "  sugar ")
	if err != nil {
		t.Fatal(err)
	}
	if e.Description != "sugar" {
		t.Fatalf("description = %q", e.Description)
	}
	if len(e.ShortID()) != 8 {
		t.Fatalf("short id = %q", e.ShortID())
	}
}

func TestSummary(t *testing.T) {
	l := New(nil)
	_, _ = l.Add(KindExpense, 2000, "gas")
	_, _ = l.Add(KindCollection, 10000, "owner top-up")
	adv, _ := l.Add(KindAdvance, 3000, "Mostafa")
	_, _ = l.Add(KindOther, 500, "")
	want := Summary{Collections: 10000, Outflows: 5500, Net: 4500}
	if diff := cmp.Diff(want, l.Summary()); diff != "" {
		t.Fatalf("summary mismatch (-want +got):\n%s", diff)
	}
	if _, err := l.Delete(adv.ID); err != nil {
		t.Fatal(err)
	}
	if got := l.Summary().Outflows; got != 2500 {
		t.Fatalf("outflows after delete = %v", got)
	}
	if _, err := l.Delete(adv.ID); !errors.Is(err, ErrUnknownEntry) {
		t.Fatalf("double delete err = %v", err)
	}
	if len(l.List()) != 3 {
		t.Fatalf("len = %d", len(l.List()))
	}
}
