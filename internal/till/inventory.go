package till

import (
	"github.com/kingrea/bakar/internal/inventory"
	"github.com/kingrea/bakar/internal/money"
)

// Items lists the catalog.
func (t *Till) Items() []inventory.Item { return t.catalog.List() }

// SearchItems fuzzy-matches item names.
func (t *Till) SearchItems(query string) []inventory.Item { return t.catalog.Search(query) }

// AddItem puts a new item on the price list.
func (t *Till) AddItem(name string, price money.Amount) (inventory.Item, error) {
	it, err := t.catalog.Add(name, price)
	if err != nil {
		return inventory.Item{}, t.fail("Add item", err)
	}
	t.journal.Info("Item %s added at %s", it.Name, t.amount(it.Price))
	return it, nil
}

// UpdateItem renames or reprices an item.
func (t *Till) UpdateItem(id, name string, price money.Amount, passcode string) (inventory.Item, error) {
	if err := t.guard("item edit", passcode); err != nil {
		return inventory.Item{}, err
	}
	it, err := t.catalog.Update(id, name, price)
	if err != nil {
		return inventory.Item{}, t.fail("Edit item", err)
	}
	t.journal.Info("Item %s now %s", it.Name, t.amount(it.Price))
	return it, nil
}

// DeleteItem removes an item from the price list.
func (t *Till) DeleteItem(id, passcode string) (inventory.Item, error) {
	if err := t.guard("item delete", passcode); err != nil {
		return inventory.Item{}, err
	}
	it, err := t.catalog.Delete(id)
	if err != nil {
		return inventory.Item{}, t.fail("Delete item", err)
	}
	t.journal.Info("Item %s deleted", it.Name)
	return it, nil
}
