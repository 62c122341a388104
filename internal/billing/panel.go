package billing

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/kingrea/bakar/internal/money"
)

var (
	ErrUnknownDevice            = errors.New("billing: unknown device")
	ErrDuplicateDevice          = errors.New("billing: duplicate device id")
	ErrUsageNotOffered          = errors.New("billing: usage not offered on this device")
	ErrControllersNotApplicable = errors.New("billing: controllers only apply to PS4/PS5 games")
	ErrNoAirConditioner         = errors.New("billing: only rooms have air conditioning")
	ErrNegativeRate             = errors.New("billing: hourly price cannot be negative")
	ErrRateRequired             = errors.New("billing: enter the hourly price first")
	ErrAlreadyRunning           = errors.New("billing: timer already running")
	ErrNotRunning               = errors.New("billing: timer is not running")
	ErrRunning                  = errors.New("billing: stop the timer first")
	ErrNothingToBill            = errors.New("billing: nothing to bill yet")
	ErrNegativeAmount           = errors.New("billing: discount and payment cannot be negative")
	ErrDiscountExceedsCost      = errors.New("billing: discount is larger than the cost")
)

// Clock returns the current instant.
type Clock func() time.Time

// Quote is the payment breakdown for a stopped device.
type Quote struct {
	Cost      money.Amount
	Discount  money.Amount
	Net       money.Amount
	Paid      money.Amount
	Remaining money.Amount
}

// Change is what the till hands back when the customer overpays.
func (q Quote) Change() money.Amount {
	if q.Remaining < 0 {
		return -q.Remaining
	}
	return 0
}

// Session records one settled device bill.
type Session struct {
	ID             string
	DeviceID       string
	DeviceName     string
	Usage          Usage
	Controllers    Controllers
	AirConditioner bool
	Rate           money.Amount
	Elapsed        time.Duration
	Quote
	SettledAt time.Time
}

// Collected is the money that stayed in the drawer for this session.
func (s Session) Collected() money.Amount {
	return money.Max(0, money.Min(s.Paid, s.Net))
}

// Panel holds the café's fixed devices and the sessions settled today.
type Panel struct {
	order   []string
	devices map[string]*Device
	history []Session
	clock   Clock
}

// NewPanel builds a panel from device specs. A nil clock uses time.Now.
func NewPanel(specs []Spec, clock Clock) (*Panel, error) {
	if clock == nil {
		clock = time.Now
	}
	p := &Panel{devices: make(map[string]*Device, len(specs)), clock: clock}
	for _, spec := range specs {
		id := strings.TrimSpace(spec.ID)
		if id == "" {
			return nil, fmt.Errorf("billing: device id is required")
		}
		if !spec.Kind.Valid() {
			return nil, fmt.Errorf("billing: device %s: unknown kind %q", id, spec.Kind)
		}
		if _, dup := p.devices[id]; dup {
			return nil, fmt.Errorf("%w: %s", ErrDuplicateDevice, id)
		}
		name := strings.TrimSpace(spec.Name)
		if name == "" {
			name = id
		}
		p.devices[id] = &Device{ID: id, Name: name, Kind: spec.Kind}
		p.order = append(p.order, id)
	}
	return p, nil
}

// Now exposes the panel clock.
func (p *Panel) Now() time.Time { return p.clock() }

// Devices returns snapshots in display order.
func (p *Panel) Devices() []Device {
	out := make([]Device, 0, len(p.order))
	for _, id := range p.order {
		out = append(out, *p.devices[id])
	}
	return out
}

// Device returns a snapshot of one device.
func (p *Panel) Device(id string) (Device, error) {
	d, err := p.lookup(id)
	if err != nil {
		return Device{}, err
	}
	return *d, nil
}

func (p *Panel) lookup(id string) (*Device, error) {
	d, ok := p.devices[id]
	if !ok {
		return nil, fmt.Errorf("%w: %s", ErrUnknownDevice, id)
	}
	return d, nil
}

// SetUsage picks the usage type. Leaving console games clears the controllers.
func (p *Panel) SetUsage(id string, usage Usage) error {
	d, err := p.lookup(id)
	if err != nil {
		return err
	}
	if usage != UsageNone && !offers(d.Kind, usage) {
		return fmt.Errorf("%w: %s on %s", ErrUsageNotOffered, usage.Label(), d.Name)
	}
	d.Usage = usage
	if !usage.TakesControllers() {
		d.Controllers = ControllersNone
	}
	return nil
}

func offers(k Kind, usage Usage) bool {
	for _, u := range UsageOptions(k) {
		if u == usage {
			return true
		}
	}
	return false
}

// SetControllers records the pad count for a console game.
func (p *Panel) SetControllers(id string, c Controllers) error {
	d, err := p.lookup(id)
	if err != nil {
		return err
	}
	if c != ControllersNone && !d.Usage.TakesControllers() {
		return ErrControllersNotApplicable
	}
	switch c {
	case ControllersNone, ControllersSingle, ControllersDouble:
	default:
		return fmt.Errorf("billing: unknown controller setting %q", c)
	}
	d.Controllers = c
	return nil
}

// SetAirConditioner toggles the room AC flag.
func (p *Panel) SetAirConditioner(id string, on bool) error {
	d, err := p.lookup(id)
	if err != nil {
		return err
	}
	if d.Kind != KindRoom {
		return ErrNoAirConditioner
	}
	d.AirConditioner = on
	return nil
}

// SetRate changes the hourly price. Running timers pick up the new price
// for the whole elapsed time.
func (p *Panel) SetRate(id string, rate money.Amount) error {
	d, err := p.lookup(id)
	if err != nil {
		return err
	}
	if rate < 0 {
		return ErrNegativeRate
	}
	d.Rate = rate
	return nil
}

// Start begins or resumes the timer.
func (p *Panel) Start(id string) error {
	d, err := p.lookup(id)
	if err != nil {
		return err
	}
	if d.running {
		return ErrAlreadyRunning
	}
	if d.Rate <= 0 {
		return ErrRateRequired
	}
	d.running = true
	d.startedAt = p.clock()
	return nil
}

// Stop freezes the timer and makes the device billable.
func (p *Panel) Stop(id string) error {
	d, err := p.lookup(id)
	if err != nil {
		return err
	}
	if !d.running {
		return ErrNotRunning
	}
	now := p.clock()
	if span := now.Sub(d.startedAt); span > 0 {
		d.accumulated += span
	}
	d.running = false
	d.startedAt = time.Time{}
	return nil
}

// Reset clears the timer and keeps the device configuration.
func (p *Panel) Reset(id string) error {
	d, err := p.lookup(id)
	if err != nil {
		return err
	}
	if d.running {
		return ErrRunning
	}
	d.accumulated = 0
	d.startedAt = time.Time{}
	return nil
}

// Quote computes the bill without settling it.
func (p *Panel) Quote(id string, discount, paid money.Amount) (Quote, error) {
	d, err := p.lookup(id)
	if err != nil {
		return Quote{}, err
	}
	return quote(*d, discount, paid, p.clock())
}

func quote(d Device, discount, paid money.Amount, now time.Time) (Quote, error) {
	if d.running {
		return Quote{}, ErrRunning
	}
	if d.Elapsed(now) <= 0 {
		return Quote{}, ErrNothingToBill
	}
	if discount < 0 || paid < 0 {
		return Quote{}, ErrNegativeAmount
	}
	cost := d.Cost(now)
	if discount > cost {
		return Quote{}, ErrDiscountExceedsCost
	}
	net := cost - discount
	return Quote{
		Cost:      cost,
		Discount:  discount,
		Net:       net,
		Paid:      paid,
		Remaining: net - paid,
	}, nil
}

// Checkout settles a stopped device, records the session and resets the timer.
func (p *Panel) Checkout(id string, discount, paid money.Amount) (Session, error) {
	d, err := p.lookup(id)
	if err != nil {
		return Session{}, err
	}
	now := p.clock()
	q, err := quote(*d, discount, paid, now)
	if err != nil {
		return Session{}, err
	}
	session := Session{
		ID:             uuid.NewString(),
		DeviceID:       d.ID,
		DeviceName:     d.Name,
		Usage:          d.Usage,
		Controllers:    d.Controllers,
		AirConditioner: d.AirConditioner,
		Rate:           d.Rate,
		Elapsed:        d.Elapsed(now),
		Quote:          q,
		SettledAt:      now,
	}
	p.history = append(p.history, session)
	d.accumulated = 0
	d.startedAt = time.Time{}
	return session, nil
}

// History returns the sessions settled so far, oldest first.
func (p *Panel) History() []Session {
	out := make([]Session, len(p.history))
	copy(out, p.history)
	return out
}

// Earnings sums the money collected from settled sessions.
func (p *Panel) Earnings() money.Amount {
	var total money.Amount
	for _, s := range p.history {
		total += s.Collected()
	}
	return total
}

// Pending sums the cost of stopped devices that have not been checked out.
func (p *Panel) Pending(now time.Time) money.Amount {
	var total money.Amount
	for _, id := range p.order {
		d := p.devices[id]
		if d.Billable(now) {
			total += d.Cost(now)
		}
	}
	return total
}

// RunningCount reports how many timers are counting.
func (p *Panel) RunningCount() int {
	n := 0
	for _, d := range p.devices {
		if d.running {
			n++
		}
	}
	return n
}
