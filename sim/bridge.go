// Package sim runs the firmware core against virtual hardware: an H-bridge
// with a PWM speed input and a UART.
package sim

import (
	"errors"
	"sync"

	"vnhdrive/core"
)

// ErrUnknownPin is returned for pins outside the bridge wiring
var ErrUnknownPin = errors.New("sim: pin not wired to the bridge")

// MaxEvents bounds the recorded pin history
const MaxEvents = 256

// PinEvent is one write to a bridge input
type PinEvent struct {
	Pin   core.GPIOPin
	Level bool
	InA   bool // INA level after the write
	InB   bool // INB level after the write
}

// Shorted reports whether both half-bridges were driven after the write
func (e PinEvent) Shorted() bool {
	return e.InA && e.InB
}

// Bridge models a VNH2SP30 style driver. It implements core.GPIODriver for
// INA, INB and ENA and core.PWMDriver for the speed input.
type Bridge struct {
	mu sync.Mutex

	pins       core.BridgePins
	levels     map[core.GPIOPin]bool
	configured map[core.GPIOPin]bool
	faulted    bool // ENA pulled low by the driver

	periodNS uint64
	top      uint32
	duty     core.PWMValue

	events []PinEvent
	shorts int

	// OnEvent, when set, is called for every pin write (outside the lock)
	OnEvent func(PinEvent)
}

// NewBridge creates a virtual bridge wired to pins. top is the PWM counter
// top the virtual timer reports.
func NewBridge(pins core.BridgePins, top uint32) *Bridge {
	return &Bridge{
		pins:       pins,
		levels:     make(map[core.GPIOPin]bool),
		configured: make(map[core.GPIOPin]bool),
		top:        top,
	}
}

func (b *Bridge) wired(pin core.GPIOPin) bool {
	return pin == b.pins.InA || pin == b.pins.InB || pin == b.pins.Enable
}

// ConfigureOutput implements core.GPIODriver
func (b *Bridge) ConfigureOutput(pin core.GPIOPin) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if !b.wired(pin) || pin == b.pins.Enable {
		return ErrUnknownPin
	}
	b.configured[pin] = true
	b.levels[pin] = false
	return nil
}

// ConfigureInputPullUp implements core.GPIODriver
func (b *Bridge) ConfigureInputPullUp(pin core.GPIOPin) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pin != b.pins.Enable {
		return ErrUnknownPin
	}
	b.configured[pin] = true
	return nil
}

// SetPin implements core.GPIODriver
func (b *Bridge) SetPin(pin core.GPIOPin, value bool) error {
	b.mu.Lock()
	if pin != b.pins.InA && pin != b.pins.InB {
		b.mu.Unlock()
		return ErrUnknownPin
	}

	b.levels[pin] = value
	evt := PinEvent{
		Pin:   pin,
		Level: value,
		InA:   b.levels[b.pins.InA],
		InB:   b.levels[b.pins.InB],
	}
	if evt.Shorted() {
		b.shorts++
	}
	b.events = append(b.events, evt)
	if len(b.events) > MaxEvents {
		b.events = b.events[len(b.events)-MaxEvents:]
	}
	hook := b.OnEvent
	b.mu.Unlock()

	if hook != nil {
		hook(evt)
	}
	return nil
}

// GetPin implements core.GPIODriver. ENA reads high (pull-up) unless a
// fault is injected.
func (b *Bridge) GetPin(pin core.GPIOPin) (bool, error) {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch pin {
	case b.pins.Enable:
		return !b.faulted, nil
	case b.pins.InA, b.pins.InB:
		return b.levels[pin], nil
	}
	return false, ErrUnknownPin
}

// ConfigureHardwarePWM implements core.PWMDriver
func (b *Bridge) ConfigureHardwarePWM(pin core.PWMPin, periodNS uint64) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pin != b.pins.PWM {
		return ErrUnknownPin
	}
	b.periodNS = periodNS
	return nil
}

// SetDutyCycle implements core.PWMDriver
func (b *Bridge) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	if pin != b.pins.PWM {
		return ErrUnknownPin
	}
	if uint32(value) > b.top {
		value = core.PWMValue(b.top)
	}
	b.duty = value
	return nil
}

// GetMaxValue implements core.PWMDriver
func (b *Bridge) GetMaxValue(pin core.PWMPin) uint32 {
	return b.top
}

// SetFault simulates the driver pulling ENA/DIAG low
func (b *Bridge) SetFault(faulted bool) {
	b.mu.Lock()
	b.faulted = faulted
	b.mu.Unlock()
}

// Pins returns the current (INA, INB) levels
func (b *Bridge) Pins() (inA, inB bool) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.levels[b.pins.InA], b.levels[b.pins.InB]
}

// Duty returns the compare value and the counter top
func (b *Bridge) Duty() (core.PWMValue, uint32) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.duty, b.top
}

// PeriodNS returns the configured carrier period
func (b *Bridge) PeriodNS() uint64 {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.periodNS
}

// Events returns a copy of the recorded pin writes, oldest first
func (b *Bridge) Events() []PinEvent {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]PinEvent, len(b.events))
	copy(out, b.events)
	return out
}

// Shorts returns how many pin writes left both half-bridges driven
func (b *Bridge) Shorts() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.shorts
}
