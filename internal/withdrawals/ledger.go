// Package withdrawals records cash taken out of or paid into the drawer
// outside of device and café sales.
package withdrawals

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/bakar/internal/money"
)

// Kind classifies an entry.
type Kind string

const (
	KindExpense    Kind = "expense"
	KindCollection Kind = "collection"
	KindAdvance    Kind = "advance"
	KindOther      Kind = "other"
)

// Kinds lists the kinds in menu order.
func Kinds() []Kind {
	return []Kind{KindExpense, KindCollection, KindAdvance, KindOther}
}

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	for _, known := range Kinds() {
		if k == known {
			return true
		}
	}
	return false
}

// Label is the display name of a kind.
func (k Kind) Label() string {
	switch k {
	case KindExpense:
		return "Expense"
	case KindCollection:
		return "Collection"
	case KindAdvance:
		return "Advance"
	case KindOther:
		return "Other"
	}
	return string(k)
}

// Inflow reports whether the entry adds cash to the drawer.
func (k Kind) Inflow() bool { return k == KindCollection }

var (
	ErrUnknownKind   = errors.New("withdrawals: unknown kind")
	ErrInvalidAmount = errors.New("withdrawals: amount must be greater than zero")
	ErrUnknownEntry  = errors.New("withdrawals: unknown entry")
)

// Entry is one drawer movement.
type Entry struct {
	ID          string
	Kind        Kind
	Amount      money.Amount
	Description string
	At          time.Time
}

// ShortID is the first block of the entry ID, used in display names.
func (e Entry) ShortID() string {
	if i := strings.IndexByte(e.ID, '-'); i > 0 {
		return e.ID[:i]
	}
	return e.ID
}

// Summary totals the ledger.
type Summary struct {
	Collections money.Amount
	Outflows    money.Amount
	Net         money.Amount
}

// Ledger keeps entries in the order they were added.
type Ledger struct {
	entries []Entry
	clock   func() time.Time
}

// New creates an empty ledger.
func New(clock func() time.Time) *Ledger {
	if clock == nil {
		clock = time.Now
	}
	return &Ledger{clock: clock}
}

// Add records an entry.
func (l *Ledger) Add(kind Kind, amount money.Amount, description string) (Entry, error) {
	if !kind.Valid() {
		return Entry{}, fmt.Errorf("%w: %q", ErrUnknownKind, kind)
	}
	if amount <= 0 {
		return Entry{}, ErrInvalidAmount
	}
	e := Entry{
		ID:          uuid.NewString(),
		Kind:        kind,
		Amount:      amount,
		Description: strings.TrimSpace(description),
		At:          l.clock(),
	}
	l.entries = append(l.entries, e)
	return e, nil
}

// Get returns one entry.
func (l *Ledger) Get(id string) (Entry, error) {
	for _, e := range l.entries {
		if e.ID == id {
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
}

// Delete removes an entry and returns it.
func (l *Ledger) Delete(id string) (Entry, error) {
	for i, e := range l.entries {
		if e.ID == id {
			l.entries = append(l.entries[:i], l.entries[i+1:]...)
			return e, nil
		}
	}
	return Entry{}, fmt.Errorf("%w: %s", ErrUnknownEntry, id)
}

// List returns entries, oldest first.
func (l *Ledger) List() []Entry {
	return append([]Entry(nil), l.entries...)
}

// Summary totals collections against everything else.
func (l *Ledger) Summary() Summary {
	var s Summary
	for _, e := range l.entries {
		if e.Kind.Inflow() {
			s.Collections += e.Amount
		} else {
			s.Outflows += e.Amount
		}
	}
	s.Net = s.Collections - s.Outflows
	return s
}
