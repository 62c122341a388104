package tui

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/kingrea/bakar/internal/billing"
)

func (a *App) selectedDevice() (billing.Device, bool) {
	devices := a.till.Devices()
	if len(devices) == 0 {
		return billing.Device{}, false
	}
	return devices[a.selected(tabDevices)], true
}

func (a *App) devicesKey(key string) (bool, tea.Cmd) {
	d, ok := a.selectedDevice()
	if !ok {
		return false, nil
	}
	var err error
	switch key {
	case "s":
		if err = a.till.StartDevice(d.ID); err == nil {
			a.setStatus("%s started", d.Name)
		}
	case "p":
		if err = a.till.StopDevice(d.ID); err == nil {
			a.setStatus("%s stopped · Enter to check out", d.Name)
		}
	case "r":
		if err = a.till.ResetDevice(d.ID); err == nil {
			a.setStatus("%s reset", d.Name)
		}
	case "u":
		err = a.cycleUsage(d)
	case "c":
		next := billing.ControllersSingle
		if d.Controllers == billing.ControllersSingle {
			next = billing.ControllersDouble
		}
		if err = a.till.SetControllers(d.ID, next); err == nil {
			a.setStatus("%s controllers: %s", d.Name, next.Label())
		}
	case "a":
		if err = a.till.SetAirConditioner(d.ID, !d.AirConditioner); err == nil {
			a.setStatus("%s AC toggled", d.Name)
		}
	case "e":
		return true, a.openDialog(a.priceForm(d))
	case "enter":
		if _, err = a.till.QuoteDevice(d.ID, 0, 0); err == nil {
			return true, a.openDialog(a.checkoutForm(d))
		}
	default:
		return false, nil
	}
	if err != nil {
		a.setError(err)
	}
	return true, nil
}

func (a *App) cycleUsage(d billing.Device) error {
	options := billing.UsageOptions(d.Kind)
	next := options[0]
	for i, u := range options {
		if u == d.Usage {
			next = options[(i+1)%len(options)]
			break
		}
	}
	if err := a.till.SetUsage(d.ID, next); err != nil {
		return err
	}
	if preset, ok := a.rates[next]; ok && d.Rate == 0 && preset > 0 {
		if err := a.till.SetRate(d.ID, preset); err != nil {
			return err
		}
	}
	a.setStatus("%s usage: %s", d.Name, next.Label())
	return nil
}

func (a *App) priceForm(d billing.Device) *form {
	value := ""
	if d.Rate > 0 {
		value = d.Rate.String()
	}
	return newForm(fmt.Sprintf("Hourly price · %s", d.Name), func(v formValues) (string, *form, error) {
		rate, err := parseAmount("price", v.get(0))
		if err != nil {
			return "", nil, err
		}
		if err := a.till.SetRate(d.ID, rate); err != nil {
			return "", nil, err
		}
		return fmt.Sprintf("%s price set to %s/h", d.Name, a.money(rate)), nil, nil
	}).text("Price / hour", value)
}

func (a *App) checkoutForm(d billing.Device) *form {
	return newForm(fmt.Sprintf("Check out · %s", d.Name), func(v formValues) (string, *form, error) {
		discount, err := parseAmount("discount", v.get(0))
		if err != nil {
			return "", nil, err
		}
		paid, err := parseAmount("paid", v.get(1))
		if err != nil {
			return "", nil, err
		}
		s, err := a.till.CheckoutDevice(d.ID, discount, paid)
		if err != nil {
			return "", nil, err
		}
		switch {
		case s.Remaining > 0:
			return fmt.Sprintf("%s checked out · %s added to debts", s.DeviceName, a.money(s.Remaining)), nil, nil
		case s.Change() > 0:
			return fmt.Sprintf("%s checked out · change %s", s.DeviceName, a.money(s.Change())), nil, nil
		}
		return fmt.Sprintf("%s checked out", s.DeviceName), nil, nil
	}).text("Discount", "").text("Paid", "").withPreview(func(v formValues) string {
		discount, err1 := parseAmount("discount", v.get(0))
		paid, err2 := parseAmount("paid", v.get(1))
		if err1 != nil || err2 != nil {
			return "Enter amounts like 25 or 25.50"
		}
		q, err := a.till.QuoteDevice(d.ID, discount, paid)
		if err != nil {
			return err.Error()
		}
		line := fmt.Sprintf("Cost %s · Net %s · Remaining %s", a.money(q.Cost), a.money(q.Net), a.money(max(0, q.Remaining)))
		if q.Change() > 0 {
			line += fmt.Sprintf(" · Change %s", a.money(q.Change()))
		}
		return line
	})
}

func (a *App) renderDevices(width int) string {
	now := a.till.Now()
	devices := a.till.Devices()
	rows := make([]string, 0, len(devices))
	for _, d := range devices {
		status := d.Status(now)
		var statusText string
		switch status {
		case billing.StatusRunning:
			statusText = statusRunningStyle.Render(fmt.Sprintf("%-8s", status))
		case billing.StatusStopped:
			statusText = statusStoppedStyle.Render(fmt.Sprintf("%-8s", status))
		default:
			statusText = statusIdleStyle.Render(fmt.Sprintf("%-8s", status))
		}
		var extras []string
		extras = append(extras, d.Usage.Label())
		if d.Usage.TakesControllers() {
			extras = append(extras, d.Controllers.Label())
		}
		if d.AirConditioner {
			extras = append(extras, "AC")
		}
		rows = append(rows, fmt.Sprintf("%-8s %s %-22s %14s/h  %s  %s",
			d.Name, statusText, strings.Join(extras, " · "),
			a.money(d.Rate), billing.FormatElapsed(d.Elapsed(now)), a.money(d.Cost(now))))
	}
	body := renderRows(rows, a.selected(tabDevices), "No devices configured")
	totals := mutedStyle.Render(fmt.Sprintf("Collected today %s · awaiting checkout %s",
		a.money(a.till.Summary(now).DeviceEarnings), a.money(a.till.Summary(now).PendingDevices)))
	hint := hintStyle.Render("s start · p stop · r reset · u usage · c controllers · a AC · e price · Enter check out")
	return strings.Join([]string{sectionStyle.Render("Devices"), body, "", totals, hint}, "\n")
}
