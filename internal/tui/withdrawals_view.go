package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/bakar/internal/debts"
	"github.com/kingrea/bakar/internal/money"
	"github.com/kingrea/bakar/internal/withdrawals"
)

func (a *App) withdrawalsKey(key string) (bool, tea.Cmd) {
	switch key {
	case "n":
		return true, a.openDialog(a.withdrawalForm())
	case "p":
		open := a.till.Debts()
		if len(open) == 0 {
			a.setStatus("No open debts")
			return true, nil
		}
		return true, a.openDialog(a.payDebtForm(open))
	case "d":
		entries := a.till.Withdrawals()
		if len(entries) == 0 {
			a.setError(errNothingSelected)
			return true, nil
		}
		e := entries[a.selected(tabWithdrawals)]
		return true, a.guarded(fmt.Sprintf("Delete %s of %s", e.Kind.Label(), a.money(e.Amount)), func(code string) (string, *form, error) {
			if _, err := a.till.DeleteWithdrawal(e.ID, code); err != nil {
				return "", nil, err
			}
			return fmt.Sprintf("%s deleted", e.Kind.Label()), nil, nil
		})
	}
	return false, nil
}

func (a *App) withdrawalForm() *form {
	kinds := withdrawals.Kinds()
	choices := make([]choice, len(kinds))
	for i, k := range kinds {
		choices[i] = choice{label: k.Label(), value: string(k)}
	}
	return newForm("New withdrawal", func(v formValues) (string, *form, error) {
		amount, err := parseAmount("amount", v.get(1))
		if err != nil {
			return "", nil, err
		}
		e, err := a.till.AddWithdrawal(withdrawals.Kind(v.get(0)), amount, v.get(2))
		if err != nil {
			return "", nil, err
		}
		if e.Kind == withdrawals.KindAdvance {
			return fmt.Sprintf("Advance of %s recorded as a debt", a.money(e.Amount)), nil, nil
		}
		return fmt.Sprintf("%s of %s recorded", e.Kind.Label(), a.money(e.Amount)), nil, nil
	}).choose("Kind", choices, 0).text("Amount", "").text("Description", "")
}

func (a *App) payDebtForm(open []debts.Debt) *form {
	choices := make([]choice, len(open))
	for i, d := range open {
		choices[i] = choice{label: fmt.Sprintf("%s · %s · %s", d.Party, d.Kind.Label(), a.money(d.Amount)), value: d.ID}
	}
	return newForm("Pay debt", func(v formValues) (string, *form, error) {
		amount, err := parseAmount("amount", v.get(1))
		if err != nil {
			return "", nil, err
		}
		remaining, err := a.till.PayDebt(v.get(0), amount)
		if err != nil {
			return "", nil, err
		}
		if remaining == 0 {
			return "Debt cleared", nil, nil
		}
		return fmt.Sprintf("Payment recorded · %s still owed", a.money(remaining)), nil, nil
	}).choose("Debt", choices, 0).text("Amount", "")
}

func (a *App) renderWithdrawals(width int) string {
	entries := a.till.Withdrawals()
	rows := make([]string, 0, len(entries))
	for _, e := range entries {
		desc := e.Description
		if desc == "" {
			desc = "-"
		}
		rows = append(rows, fmt.Sprintf("%s  %-10s %14s  %s", e.At.Format("15:04"), e.Kind.Label(), a.money(e.Amount), desc))
	}
	sum := a.till.WithdrawalSummary()
	summary := mutedStyle.Render(fmt.Sprintf("Collections %s · outflows %s · net %s",
		a.money(sum.Collections), a.money(sum.Outflows), a.money(sum.Net)))

	open := a.till.Debts()
	debtRows := make([]string, 0, len(open))
	var total money.Amount
	for _, d := range open {
		debtRows = append(debtRows, fmt.Sprintf("  %-22s %-8s %s", d.Party, d.Kind.Label(), a.money(d.Amount)))
		total += d.Amount
	}
	debtBody := mutedStyle.Render("  No open debts")
	if len(debtRows) > 0 {
		debtBody = strings.Join(debtRows, "\n")
	}
	return strings.Join([]string{
		sectionStyle.Render("Withdrawals"),
		renderRows(rows, a.selected(tabWithdrawals), "Nothing recorded · n to add"),
		summary,
		"",
		sectionStyle.Render(fmt.Sprintf("Debts · %s", a.money(total))),
		debtBody,
		hintStyle.Render("n new · d delete · p pay debt"),
	}, "\n")
}
