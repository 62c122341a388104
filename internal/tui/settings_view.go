package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
)

func (a *App) settingsKey(key string) (bool, tea.Cmd) {
	switch key {
	case "c":
		return true, a.openDialog(newForm("Change passcode", func(v formValues) (string, *form, error) {
			if err := a.till.ChangePasscode(v.get(0), v.get(1), v.get(2)); err != nil {
				return "", nil, err
			}
			return "Passcode changed", nil, nil
		}).masked("Current").masked("New").masked("Confirm"))
	case "l":
		return true, a.openDialog(newForm("Currency label", func(v formValues) (string, *form, error) {
			a.till.SetCurrencyLabel(v.get(0))
			return "Currency label saved", nil, nil
		}).text("Label", a.till.Settings().CurrencyLabel))
	case "n":
		return true, a.openDialog(newForm("Café name", func(v formValues) (string, *form, error) {
			a.till.SetCafeName(v.get(0))
			return "Café name saved", nil, nil
		}).text("Name", a.till.Settings().CafeName))
	case "r":
		return true, a.openDialog(newForm("Count the drawer", func(v formValues) (string, *form, error) {
			counted, err := parseAmount("counted", v.get(0))
			if err != nil {
				return "", nil, err
			}
			diff := a.till.Reconcile(counted)
			switch {
			case diff > 0:
				return fmt.Sprintf("Drawer over by %s", a.money(diff)), nil, nil
			case diff < 0:
				return fmt.Sprintf("Drawer short by %s", a.money(-diff)), nil, nil
			}
			return "Drawer matches", nil, nil
		}).text("Counted", ""))
	case "e":
		if err := a.till.ExportPDF(); err != nil {
			a.setError(err)
		} else {
			a.setStatus("PDF exported")
		}
		return true, nil
	case "b":
		if err := a.till.Backup(); err != nil {
			a.setError(err)
		} else {
			a.setStatus("Backup written")
		}
		return true, nil
	case "v":
		a.refreshReport()
		a.setStatus("Report refreshed")
		return true, nil
	}
	return false, nil
}

func (a *App) refreshReport() {
	width := a.width
	if width <= 0 {
		width = 100
	}
	md := a.till.ReportMarkdown(a.till.Now())
	out, err := a.renderReport(md, width-8)
	if err != nil {
		a.logger.Sugar().Warnf("report render failed: %v", err)
		out = md
	}
	a.reportView = strings.TrimRight(out, "\n")
}

func (a *App) renderSettings(width int) string {
	st := a.till.Settings()
	s := a.till.Summary(a.till.Now())
	figures := []string{
		fmt.Sprintf("Café name        %s", st.CafeName),
		fmt.Sprintf("Currency label   %s", st.CurrencyLabel),
		"",
		fmt.Sprintf("Device earnings  %s", a.money(s.DeviceEarnings)),
		fmt.Sprintf("Café earnings    %s", a.money(s.CafeEarnings)),
		fmt.Sprintf("Collections      %s", a.money(s.Collections)),
		fmt.Sprintf("Debt repayments  %s", a.money(s.DebtRepayments)),
		fmt.Sprintf("Outflows         %s", a.money(s.Outflows)),
		okStyle.Render(fmt.Sprintf("Expected drawer  %s", a.money(s.ExpectedDrawer))),
		fmt.Sprintf("Open debts       %s (%d)", a.money(s.TotalDebts), s.DebtCount),
	}
	sections := []string{sectionStyle.Render("Settings & report"), strings.Join(figures, "\n")}
	if a.reportView != "" {
		sections = append(sections, "", a.reportView)
	}
	sections = append(sections, hintStyle.Render("c passcode · l currency label · n café name · r count drawer · v refresh report · e PDF · b backup"))
	return strings.Join(sections, "\n")
}
