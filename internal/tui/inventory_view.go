package tui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/kingrea/bakar/internal/inventory"
)

// itemEntry implements list.Item for the price list.
type itemEntry struct {
	item  inventory.Item
	price string
}

func (e itemEntry) Title() string       { return e.item.Name }
func (e itemEntry) Description() string { return e.price }
func (e itemEntry) FilterValue() string { return e.item.Name }

func (a *App) refreshItems() {
	if a.till == nil {
		return
	}
	all := a.till.Items()
	entries := make([]list.Item, len(all))
	for i, it := range all {
		entries[i] = itemEntry{item: it, price: a.money(it.Price)}
	}
	a.items.SetItems(entries)
}

func (a *App) selectedItem() (inventory.Item, bool) {
	e, ok := a.items.SelectedItem().(itemEntry)
	if !ok {
		return inventory.Item{}, false
	}
	return e.item, true
}

func (a *App) inventoryKey(key string) (bool, tea.Cmd) {
	switch key {
	case "n":
		return true, a.openDialog(a.itemForm("New item", inventory.Item{}, ""))
	case "e", "d":
	default:
		return false, nil
	}
	it, ok := a.selectedItem()
	if !ok {
		a.setError(errNothingSelected)
		return true, nil
	}
	if key == "e" {
		return true, a.guarded("Edit "+it.Name, func(code string) (string, *form, error) {
			return "", a.itemForm("Edit "+it.Name, it, code), nil
		})
	}
	return true, a.guarded("Delete "+it.Name, func(code string) (string, *form, error) {
		if _, err := a.till.DeleteItem(it.ID, code); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s deleted", it.Name), nil, nil
	})
}

// itemForm adds an item, or edits it when existing has an ID.
func (a *App) itemForm(title string, existing inventory.Item, code string) *form {
	price := ""
	if existing.ID != "" {
		price = existing.Price.String()
	}
	return newForm(title, func(v formValues) (string, *form, error) {
		amount, err := parseAmount("price", v.get(1))
		if err != nil {
			return "", nil, err
		}
		if existing.ID == "" {
			it, err := a.till.AddItem(v.get(0), amount)
			if err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("%s added at %s", it.Name, a.money(it.Price)), nil, nil
		}
		it, err := a.till.UpdateItem(existing.ID, v.get(0), amount, code)
		if err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s saved at %s", it.Name, a.money(it.Price)), nil, nil
	}).text("Name", existing.Name).text("Price", price)
}

func (a *App) renderInventory() string {
	view := a.items.View()
	if len(a.items.Items()) == 0 {
		view = mutedStyle.Render("The price list is empty · n to add an item")
	}
	hint := hintStyle.Render("n new · e edit · d delete · / search")
	return lipgloss.JoinVertical(lipgloss.Left, view, hint)
}
