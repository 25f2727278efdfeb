//go:build arduino

package main

import (
	"errors"
	"machine"

	"vnhdrive/core"
)

var errNoPin = errors.New("pin not on the motor shield")

// shieldPins maps Arduino digital pin numbers to ATmega328P port pins
var shieldPins = map[uint32]machine.Pin{
	2: machine.D2, // PD2, INA
	4: machine.D4, // PD4, INB
	6: machine.D6, // PD6, ENA/DIAG
	9: machine.D9, // PB1, OC1A
}

func lookupPin(n uint32) (machine.Pin, error) {
	p, ok := shieldPins[n]
	if !ok {
		return machine.NoPin, errNoPin
	}
	return p, nil
}

// AVRGPIODriver implements core.GPIODriver on the shield pins
type AVRGPIODriver struct{}

// ConfigureOutput configures a pin as a digital output, driven low
func (AVRGPIODriver) ConfigureOutput(pin core.GPIOPin) error {
	p, err := lookupPin(uint32(pin))
	if err != nil {
		return err
	}
	p.Configure(machine.PinConfig{Mode: machine.PinOutput})
	p.Low()
	return nil
}

// ConfigureInputPullUp configures a pin as an input with the internal pull-up
func (AVRGPIODriver) ConfigureInputPullUp(pin core.GPIOPin) error {
	p, err := lookupPin(uint32(pin))
	if err != nil {
		return err
	}
	p.Configure(machine.PinConfig{Mode: machine.PinInputPullup})
	return nil
}

// SetPin sets the pin to high (true) or low (false)
func (AVRGPIODriver) SetPin(pin core.GPIOPin, value bool) error {
	p, err := lookupPin(uint32(pin))
	if err != nil {
		return err
	}
	p.Set(value)
	return nil
}

// GetPin reads the current pin state
func (AVRGPIODriver) GetPin(pin core.GPIOPin) (bool, error) {
	p, err := lookupPin(uint32(pin))
	if err != nil {
		return false, err
	}
	return p.Get(), nil
}

// Timer1PWMDriver implements core.PWMDriver on Timer1 (OC1A/OC1B)
type Timer1PWMDriver struct {
	channel    uint8
	configured bool
}

// ConfigureHardwarePWM sets the Timer1 period and attaches the pin
func (d *Timer1PWMDriver) ConfigureHardwarePWM(pin core.PWMPin, periodNS uint64) error {
	p, err := lookupPin(uint32(pin))
	if err != nil {
		return err
	}
	if err := machine.Timer1.Configure(machine.PWMConfig{Period: periodNS}); err != nil {
		return err
	}
	ch, err := machine.Timer1.Channel(p)
	if err != nil {
		return err
	}
	d.channel = ch
	d.configured = true
	return nil
}

// SetDutyCycle writes the compare register (OCR1A for D9)
func (d *Timer1PWMDriver) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	if !d.configured {
		return nil
	}
	machine.Timer1.Set(d.channel, uint32(value))
	return nil
}

// GetMaxValue returns the Timer1 TOP (ICR1). Configure picks the smallest
// prescaler that fits the period, so TOP varies with it; MotorPWM scales
// duty onto whatever is returned.
func (d *Timer1PWMDriver) GetMaxValue(pin core.PWMPin) uint32 {
	return machine.Timer1.Top()
}
