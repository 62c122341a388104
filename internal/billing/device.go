package billing

import (
	"fmt"
	"time"

	"github.com/kingrea/bakar/internal/money"
)

// Kind separates movie rooms from console stations.
type Kind string

const (
	KindRoom    Kind = "room"
	KindConsole Kind = "console"
)

// Valid reports whether k is a known kind.
func (k Kind) Valid() bool {
	return k == KindRoom || k == KindConsole
}

// Usage is what the customer is doing on the device.
type Usage string

const (
	UsageNone    Usage = ""
	UsagePS4     Usage = "PS4"
	UsagePS5     Usage = "PS5"
	UsageMovie   Usage = "movie"
	UsageSession Usage = "session"
)

// Label is the display name of a usage.
func (u Usage) Label() string {
	switch u {
	case UsagePS4:
		return "PS4"
	case UsagePS5:
		return "PS5"
	case UsageMovie:
		return "Movie"
	case UsageSession:
		return "Session"
	}
	return "-"
}

// TakesControllers reports whether the usage is a console game.
func (u Usage) TakesControllers() bool {
	return u == UsagePS4 || u == UsagePS5
}

// UsageOptions lists the usages a device kind offers, in menu order.
func UsageOptions(k Kind) []Usage {
	if k == KindRoom {
		return []Usage{UsagePS4, UsagePS5, UsageMovie, UsageSession}
	}
	return []Usage{UsagePS4, UsagePS5, UsageMovie}
}

// Controllers is the number of pads in play for a console game.
type Controllers string

const (
	ControllersNone   Controllers = ""
	ControllersSingle Controllers = "single"
	ControllersDouble Controllers = "double"
)

// Label is the display name of a controller setting.
func (c Controllers) Label() string {
	switch c {
	case ControllersSingle:
		return "Single"
	case ControllersDouble:
		return "Double"
	}
	return "-"
}

// Status is the timer state of a device.
type Status string

const (
	StatusIdle    Status = "idle"
	StatusRunning Status = "running"
	StatusStopped Status = "stopped"
)

// Spec declares one physical device.
type Spec struct {
	ID   string
	Name string
	Kind Kind
}

// DefaultSpecs returns the three movie rooms and three consoles the café has.
func DefaultSpecs() []Spec {
	return []Spec{
		{ID: "room1", Name: "Room 1", Kind: KindRoom},
		{ID: "room2", Name: "Room 2", Kind: KindRoom},
		{ID: "room3", Name: "Room 3", Kind: KindRoom},
		{ID: "ps1", Name: "PS 1", Kind: KindConsole},
		{ID: "ps2", Name: "PS 2", Kind: KindConsole},
		{ID: "ps3", Name: "PS 3", Kind: KindConsole},
	}
}

// Device is a snapshot of one device. The panel hands out copies; mutate
// through Panel methods.
type Device struct {
	ID             string
	Name           string
	Kind           Kind
	Usage          Usage
	Controllers    Controllers
	AirConditioner bool
	Rate           money.Amount

	running     bool
	startedAt   time.Time
	accumulated time.Duration
}

// Running reports whether the timer is counting.
func (d Device) Running() bool { return d.running }

// Elapsed returns whole seconds of use up to now.
func (d Device) Elapsed(now time.Time) time.Duration {
	total := d.accumulated
	if d.running {
		if span := now.Sub(d.startedAt); span > 0 {
			total += span
		}
	}
	return total.Truncate(time.Second)
}

// Cost is the hourly rate charged for the elapsed seconds.
func (d Device) Cost(now time.Time) money.Amount {
	seconds := int64(d.Elapsed(now) / time.Second)
	return d.Rate.Prorate(seconds, 3600)
}

// Status derives the timer state.
func (d Device) Status(now time.Time) Status {
	switch {
	case d.running:
		return StatusRunning
	case d.Elapsed(now) > 0:
		return StatusStopped
	}
	return StatusIdle
}

// Billable reports whether the device can be checked out.
func (d Device) Billable(now time.Time) bool {
	return d.Status(now) == StatusStopped
}

// FormatElapsed renders a duration as HH:MM:SS.
func FormatElapsed(d time.Duration) string {
	if d < 0 {
		d = 0
	}
	total := int64(d / time.Second)
	return fmt.Sprintf("%02d:%02d:%02d", total/3600, (total%3600)/60, total%60)
}
