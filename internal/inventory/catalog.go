// Package inventory is the café's price list: a mapping from item name to
// unit price that the café ledger reads when items are added to an invoice.
package inventory

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/sahilm/fuzzy"

	"github.com/kingrea/bakar/internal/money"
)

var (
	ErrNameRequired  = errors.New("inventory: item name is required")
	ErrNegativePrice = errors.New("inventory: price cannot be negative")
	ErrDuplicateName = errors.New("inventory: an item with this name already exists")
	ErrUnknownItem   = errors.New("inventory: unknown item")
)

// Item is one priced entry.
type Item struct {
	ID    string
	Name  string
	Price money.Amount
	Added time.Time
}

// Catalog keeps items in insertion order.
type Catalog struct {
	order []string
	items map[string]*Item
	clock func() time.Time
}

// New creates an empty catalog.
func New(clock func() time.Time) *Catalog {
	if clock == nil {
		clock = time.Now
	}
	return &Catalog{items: map[string]*Item{}, clock: clock}
}

// Add appends an item.
func (c *Catalog) Add(name string, price money.Amount) (Item, error) {
	name, err := c.check("", name, price)
	if err != nil {
		return Item{}, err
	}
	it := &Item{ID: uuid.NewString(), Name: name, Price: price, Added: c.clock()}
	c.items[it.ID] = it
	c.order = append(c.order, it.ID)
	return *it, nil
}

// Update renames or reprices an item.
func (c *Catalog) Update(id, name string, price money.Amount) (Item, error) {
	it, ok := c.items[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	name, err := c.check(id, name, price)
	if err != nil {
		return Item{}, err
	}
	it.Name = name
	it.Price = price
	return *it, nil
}

func (c *Catalog) check(selfID, name string, price money.Amount) (string, error) {
	name = strings.TrimSpace(name)
	if name == "" {
		return "", ErrNameRequired
	}
	if price < 0 {
		return "", ErrNegativePrice
	}
	for id, it := range c.items {
		if id != selfID && strings.EqualFold(it.Name, name) {
			return "", fmt.Errorf("%w: %s", ErrDuplicateName, name)
		}
	}
	return name, nil
}

// Delete removes an item. Invoices keep their copied lines.
func (c *Catalog) Delete(id string) (Item, error) {
	it, ok := c.items[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	delete(c.items, id)
	for i, oid := range c.order {
		if oid == id {
			c.order = append(c.order[:i], c.order[i+1:]...)
			break
		}
	}
	return *it, nil
}

// Get returns one item.
func (c *Catalog) Get(id string) (Item, error) {
	it, ok := c.items[id]
	if !ok {
		return Item{}, fmt.Errorf("%w: %s", ErrUnknownItem, id)
	}
	return *it, nil
}

// List returns every item in insertion order.
func (c *Catalog) List() []Item {
	out := make([]Item, 0, len(c.order))
	for _, id := range c.order {
		out = append(out, *c.items[id])
	}
	return out
}

// Len reports the number of items.
func (c *Catalog) Len() int { return len(c.order) }

type itemSource []Item

func (s itemSource) String(i int) string { return s[i].Name }
func (s itemSource) Len() int            { return len(s) }

// Search returns items whose names fuzzily match query, best match first.
// A blank query returns the full list.
func (c *Catalog) Search(query string) []Item {
	all := c.List()
	query = strings.TrimSpace(query)
	if query == "" {
		return all
	}
	matches := fuzzy.FindFrom(query, itemSource(all))
	out := make([]Item, 0, len(matches))
	for _, m := range matches {
		out = append(out, all[m.Index])
	}
	return out
}
