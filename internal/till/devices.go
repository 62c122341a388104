package till

import (
	"github.com/kingrea/bakar/internal/billing"
	"github.com/kingrea/bakar/internal/debts"
	"github.com/kingrea/bakar/internal/money"
)

// Devices lists device snapshots in display order.
func (t *Till) Devices() []billing.Device { return t.panel.Devices() }

// Device returns one device snapshot.
func (t *Till) Device(id string) (billing.Device, error) { return t.panel.Device(id) }

// Sessions returns the settled device sessions.
func (t *Till) Sessions() []billing.Session { return t.panel.History() }

// RunningCount reports how many timers are counting.
func (t *Till) RunningCount() int { return t.panel.RunningCount() }

// SetUsage picks the usage type of a device.
func (t *Till) SetUsage(id string, usage billing.Usage) error {
	if err := t.panel.SetUsage(id, usage); err != nil {
		return t.fail("Set usage", err)
	}
	t.journal.Info("%s usage → %s", t.deviceName(id), usage.Label())
	return nil
}

// SetControllers records the pad count of a console game.
func (t *Till) SetControllers(id string, c billing.Controllers) error {
	if err := t.panel.SetControllers(id, c); err != nil {
		return t.fail("Set controllers", err)
	}
	t.journal.Info("%s controllers → %s", t.deviceName(id), c.Label())
	return nil
}

// SetAirConditioner toggles the AC flag of a room.
func (t *Till) SetAirConditioner(id string, on bool) error {
	if err := t.panel.SetAirConditioner(id, on); err != nil {
		return t.fail("Set AC", err)
	}
	state := "off"
	if on {
		state = "on"
	}
	t.journal.Info("%s AC %s", t.deviceName(id), state)
	return nil
}

// SetRate changes the hourly price of a device.
func (t *Till) SetRate(id string, rate money.Amount) error {
	if err := t.panel.SetRate(id, rate); err != nil {
		return t.fail("Set price", err)
	}
	t.journal.Info("%s price → %s/h", t.deviceName(id), t.amount(rate))
	return nil
}

// StartDevice starts or resumes a timer.
func (t *Till) StartDevice(id string) error {
	if err := t.panel.Start(id); err != nil {
		return t.fail("Start", err)
	}
	t.journal.Info("%s started", t.deviceName(id))
	return nil
}

// StopDevice freezes a timer.
func (t *Till) StopDevice(id string) error {
	if err := t.panel.Stop(id); err != nil {
		return t.fail("Stop", err)
	}
	d, _ := t.panel.Device(id)
	now := t.clock()
	t.journal.Info("%s stopped at %s · %s", d.Name, billing.FormatElapsed(d.Elapsed(now)), t.amount(d.Cost(now)))
	return nil
}

// ResetDevice clears a stopped timer.
func (t *Till) ResetDevice(id string) error {
	if err := t.panel.Reset(id); err != nil {
		return t.fail("Reset", err)
	}
	t.journal.Info("%s reset", t.deviceName(id))
	return nil
}

// QuoteDevice previews a device bill.
func (t *Till) QuoteDevice(id string, discount, paid money.Amount) (billing.Quote, error) {
	return t.panel.Quote(id, discount, paid)
}

// CheckoutDevice settles a stopped device. An unpaid remainder opens a
// device debt named after the device and the checkout time.
func (t *Till) CheckoutDevice(id string, discount, paid money.Amount) (billing.Session, error) {
	s, err := t.panel.Checkout(id, discount, paid)
	if err != nil {
		return billing.Session{}, t.fail("Checkout", err)
	}
	t.journal.Info("%s checked out · net %s · paid %s", s.DeviceName, t.amount(s.Net), t.amount(s.Paid))
	if s.Remaining > 0 {
		party := s.DeviceName + " " + s.SettledAt.Format("15:04")
		t.debts.Upsert(s.ID, debts.KindDevice, party, s.Remaining)
		t.journal.Info("Debt opened for %s · %s", party, t.amount(s.Remaining))
	}
	return s, nil
}

func (t *Till) deviceName(id string) string {
	if d, err := t.panel.Device(id); err == nil {
		return d.Name
	}
	return id
}
