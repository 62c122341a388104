// Package debts keeps the unified list of money owed to the till: café tabs
// left open, cash advances handed out from the drawer and device bills that
// were not paid in full.
package debts

import (
	"errors"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/bakar/internal/money"
)

// Kind says where a debt came from.
type Kind string

const (
	KindCafe    Kind = "cafe"
	KindAdvance Kind = "advance"
	KindDevice  Kind = "device"
)

// Label is the display name of a kind.
func (k Kind) Label() string {
	switch k {
	case KindCafe:
		return "Café"
	case KindAdvance:
		return "Advance"
	case KindDevice:
		return "Device"
	}
	return string(k)
}

var (
	ErrUnknownDebt   = errors.New("debts: unknown debt")
	ErrInvalidAmount = errors.New("debts: payment must be greater than zero")
)

// Debt is one open balance.
type Debt struct {
	ID      string
	PartyID string
	Party   string
	Kind    Kind
	Amount  money.Amount
	Opened  time.Time
	Updated time.Time
}

// Register holds the open debts. The zero value is not usable; call New.
type Register struct {
	items map[string]*Debt
	clock func() time.Time
}

// New creates an empty register.
func New(clock func() time.Time) *Register {
	if clock == nil {
		clock = time.Now
	}
	return &Register{items: map[string]*Debt{}, clock: clock}
}

// Upsert sets the balance owed by a party for one kind. A non-positive amount
// clears it. The returned debt is the zero value when cleared.
func (r *Register) Upsert(partyID string, kind Kind, party string, amount money.Amount) Debt {
	existing := r.find(partyID, kind)
	if amount <= 0 {
		if existing != nil {
			delete(r.items, existing.ID)
		}
		return Debt{}
	}
	now := r.clock()
	if existing != nil {
		existing.Amount = amount
		existing.Updated = now
		if name := strings.TrimSpace(party); name != "" {
			existing.Party = name
		}
		return *existing
	}
	d := &Debt{
		ID:      uuid.NewString(),
		PartyID: partyID,
		Party:   strings.TrimSpace(party),
		Kind:    kind,
		Amount:  amount,
		Opened:  now,
		Updated: now,
	}
	r.items[d.ID] = d
	return *d
}

func (r *Register) find(partyID string, kind Kind) *Debt {
	for _, d := range r.items {
		if d.PartyID == partyID && d.Kind == kind {
			return d
		}
	}
	return nil
}

// Get returns one debt by ID.
func (r *Register) Get(id string) (Debt, error) {
	d, ok := r.items[id]
	if !ok {
		return Debt{}, fmt.Errorf("%w: %s", ErrUnknownDebt, id)
	}
	return *d, nil
}

// Lookup returns the debt a party owes for one kind.
func (r *Register) Lookup(partyID string, kind Kind) (Debt, bool) {
	if d := r.find(partyID, kind); d != nil {
		return *d, true
	}
	return Debt{}, false
}

// Pay reduces a debt and drops it once nothing is left. It returns what is
// still owed, which is zero or negative when the debt is cleared.
func (r *Register) Pay(id string, amount money.Amount) (money.Amount, error) {
	if amount <= 0 {
		return 0, ErrInvalidAmount
	}
	d, ok := r.items[id]
	if !ok {
		return 0, fmt.Errorf("%w: %s", ErrUnknownDebt, id)
	}
	remaining := d.Amount - amount
	if remaining <= 0 {
		delete(r.items, id)
		return remaining, nil
	}
	d.Amount = remaining
	d.Updated = r.clock()
	return remaining, nil
}

// RemoveParty drops every debt owed by a party.
func (r *Register) RemoveParty(partyID string) int {
	removed := 0
	for id, d := range r.items {
		if d.PartyID == partyID {
			delete(r.items, id)
			removed++
		}
	}
	return removed
}

// List returns every debt, oldest first.
func (r *Register) List() []Debt {
	out := make([]Debt, 0, len(r.items))
	for _, d := range r.items {
		out = append(out, *d)
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Opened.Equal(out[j].Opened) {
			return out[i].ID < out[j].ID
		}
		return out[i].Opened.Before(out[j].Opened)
	})
	return out
}

// ListKind returns the debts of one kind, oldest first.
func (r *Register) ListKind(kind Kind) []Debt {
	var out []Debt
	for _, d := range r.List() {
		if d.Kind == kind {
			out = append(out, d)
		}
	}
	return out
}

// Total sums every open balance.
func (r *Register) Total() money.Amount {
	var total money.Amount
	for _, d := range r.items {
		total += d.Amount
	}
	return total
}

// Len reports how many debts are open.
func (r *Register) Len() int { return len(r.items) }
