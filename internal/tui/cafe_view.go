package tui

import (
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/bakar/internal/cafe"
	"github.com/kingrea/bakar/internal/money"
)

var errNoItemMatch = errors.New("no item matches that name")

func (a *App) selectedInvoice() (cafe.Customer, bool) {
	open := a.till.OpenInvoices()
	if len(open) == 0 {
		return cafe.Customer{}, false
	}
	return open[a.selected(tabCafe)], true
}

func (a *App) cafeKey(key string) (bool, tea.Cmd) {
	if key == "n" {
		return true, a.openDialog(newForm("New customer", func(v formValues) (string, *form, error) {
			c, err := a.till.OpenCustomer(v.get(0))
			if err != nil {
				return "", nil, err
			}
			a.cursor[tabCafe] = len(a.till.OpenInvoices()) - 1
			return fmt.Sprintf("Invoice opened for %s", c.Name), nil, nil
		}).text("Name", ""))
	}
	switch key {
	case "a", "x", "enter", "d":
	default:
		return false, nil
	}
	c, ok := a.selectedInvoice()
	if !ok {
		a.setError(errNothingSelected)
		return true, nil
	}
	switch key {
	case "a":
		return true, a.openDialog(a.addItemForm(c))
	case "x":
		if len(c.Lines) == 0 {
			a.setError(cafe.ErrEmptyInvoice)
			return true, nil
		}
		return true, a.openDialog(a.removeItemForm(c))
	case "enter":
		return true, a.openDialog(a.settleForm(c))
	case "d":
		return true, a.guarded("Delete invoice · "+c.Name, func(code string) (string, *form, error) {
			if _, err := a.till.DeleteInvoice(c.ID, code); err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("Invoice for %s deleted", c.Name), nil, nil
		})
	}
	return false, nil
}

func (a *App) addItemForm(c cafe.Customer) *form {
	return newForm("Add item · "+c.Name, func(v formValues) (string, *form, error) {
		matches := a.till.SearchItems(v.get(0))
		if strings.TrimSpace(v.get(0)) == "" || len(matches) == 0 {
			return "", nil, errNoItemMatch
		}
		if _, err := a.till.AddToInvoice(c.ID, matches[0].ID); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s added to %s", matches[0].Name, c.Name), nil, nil
	}).text("Item", "").withPreview(func(v formValues) string {
		if strings.TrimSpace(v.get(0)) == "" {
			return fmt.Sprintf("%d items on the price list · type to search", len(a.till.Items()))
		}
		matches := a.till.SearchItems(v.get(0))
		if len(matches) == 0 {
			return "No match"
		}
		var names []string
		for i, it := range matches {
			if i == 4 {
				break
			}
			names = append(names, fmt.Sprintf("%s (%s)", it.Name, a.money(it.Price)))
		}
		return "→ " + strings.Join(names, " · ")
	})
}

func (a *App) removeItemForm(c cafe.Customer) *form {
	choices := make([]choice, 0, len(c.Lines))
	for _, l := range c.Lines {
		choices = append(choices, choice{label: fmt.Sprintf("%s ×%d", l.Name, l.Quantity), value: l.ItemID})
	}
	return newForm("Remove item · "+c.Name, func(v formValues) (string, *form, error) {
		if _, err := a.till.RemoveFromInvoice(c.ID, v.get(0)); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("Item removed from %s", c.Name), nil, nil
	}).choose("Line", choices, 0)
}

func (a *App) settleForm(c cafe.Customer) *form {
	return newForm("Settle · "+c.Name, func(v formValues) (string, *form, error) {
		discount, err := parseAmount("discount", v.get(0))
		if err != nil {
			return "", nil, err
		}
		paid, err := parseAmount("paid", v.get(1))
		if err != nil {
			return "", nil, err
		}
		s, err := a.till.SettleInvoice(c.ID, discount, paid)
		if err != nil {
			return "", nil, err
		}
		if s.Closed {
			return fmt.Sprintf("%s settled · change %s", c.Name, a.money(s.Change())), nil, nil
		}
		return fmt.Sprintf("%s still owes %s", c.Name, a.money(s.Remaining)), nil, nil
	}).text("Discount", "").text("Paid", "").withPreview(func(v formValues) string {
		discount, err1 := parseAmount("discount", v.get(0))
		paid, err2 := parseAmount("paid", v.get(1))
		if err1 != nil || err2 != nil {
			return "Enter amounts like 25 or 25.50"
		}
		remaining := c.Total() - c.Discount - discount - c.Paid - paid
		line := fmt.Sprintf("Total %s · already paid %s · remaining %s",
			a.money(c.Total()), a.money(c.Paid), a.money(money.Max(0, remaining)))
		if remaining < 0 {
			line += " · change " + a.money(-remaining)
		}
		return line
	})
}

func (a *App) renderCafe(width int) string {
	open := a.till.OpenInvoices()
	rows := make([]string, 0, len(open))
	for _, c := range open {
		rows = append(rows, fmt.Sprintf("%-18s %3d lines  total %s  owes %s",
			c.Name, len(c.Lines), a.money(c.Total()), a.money(money.Max(0, c.Remaining()))))
	}
	sections := []string{sectionStyle.Render("Open invoices"), renderRows(rows, a.selected(tabCafe), "No open invoices · n to add a customer")}
	if c, ok := a.selectedInvoice(); ok {
		var lines []string
		for _, l := range c.Lines {
			lines = append(lines, fmt.Sprintf("  %-20s ×%-3d %s", l.Name, l.Quantity, a.money(l.Total())))
		}
		if len(lines) == 0 {
			lines = append(lines, mutedStyle.Render("  empty · a to add an item"))
		}
		sections = append(sections, "", sectionStyle.Render("Invoice · "+c.Name), strings.Join(lines, "\n"),
			mutedStyle.Render(fmt.Sprintf("  discount %s · paid %s", a.money(c.Discount), a.money(c.Paid))))
	}
	closed := a.till.ClosedInvoices()
	sections = append(sections, "", mutedStyle.Render(fmt.Sprintf("%d settled today · café earnings %s",
		len(closed), a.money(a.till.Summary(a.till.Now()).CafeEarnings))))
	sections = append(sections, hintStyle.Render("n new · a add item · x remove item · Enter settle · d delete"))
	return strings.Join(sections, "\n")
}
