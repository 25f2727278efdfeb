//go:build rp2040 || rp2350

package main

import (
	"machine"

	"vnhdrive/core"
)

// pwmPeripheral is an interface for PWM hardware peripherals
// This abstracts over TinyGo's unexported *pwmGroup type
type pwmPeripheral interface {
	Configure(config machine.PWMConfig) error
	Channel(pin machine.Pin) (uint8, error)
	Top() uint32
	Set(channel uint8, value uint32)
}

// RP2040PWMDriver implements the PWMDriver interface for RP2040
// Each GPIO maps to one of 8 PWM slices with 2 channels each
type RP2040PWMDriver struct {
	// Track pin to channel mapping
	// Key: pin number, Value: PWM channel
	channels map[uint32]uint8

	// Track PWM peripherals for each slice
	// Key: slice number (0-7), Value: PWM peripheral
	peripherals map[uint8]pwmPeripheral
}

// NewRP2040PWMDriver creates a new RP2040 PWM driver
func NewRP2040PWMDriver() *RP2040PWMDriver {
	return &RP2040PWMDriver{
		channels:    make(map[uint32]uint8),
		peripherals: make(map[uint8]pwmPeripheral),
	}
}

// sliceOf maps a GPIO to its PWM slice: (N >> 1) & 0x7
func sliceOf(pin core.PWMPin) uint8 {
	return uint8((uint32(pin) >> 1) & 0x7)
}

// ConfigureHardwarePWM configures a pin for hardware PWM output
func (d *RP2040PWMDriver) ConfigureHardwarePWM(pin core.PWMPin, periodNS uint64) error {
	pinNum := uint32(pin)
	sliceNum := sliceOf(pin)

	pwm, exists := d.peripherals[sliceNum]
	if !exists {
		pwm = getPWMPeripheral(sliceNum)
		d.peripherals[sliceNum] = pwm
	}

	err := pwm.Configure(machine.PWMConfig{
		Period: periodNS,
	})
	if err != nil {
		return err
	}

	channel, err := pwm.Channel(machine.Pin(pinNum))
	if err != nil {
		return err
	}

	d.channels[pinNum] = channel
	return nil
}

// SetDutyCycle sets the compare value for a pin, in counter units
func (d *RP2040PWMDriver) SetDutyCycle(pin core.PWMPin, value core.PWMValue) error {
	channel, exists := d.channels[uint32(pin)]
	if !exists {
		// Pin not configured
		return nil
	}

	pwm, exists := d.peripherals[sliceOf(pin)]
	if !exists {
		return nil
	}

	pwm.Set(channel, uint32(value))
	return nil
}

// GetMaxValue returns the counter top of the slice driving pin
func (d *RP2040PWMDriver) GetMaxValue(pin core.PWMPin) uint32 {
	pwm, exists := d.peripherals[sliceOf(pin)]
	if !exists {
		return 0
	}
	return pwm.Top()
}

// getPWMPeripheral returns the PWM peripheral for a given slice number
// TinyGo defines PWM0-PWM7 as global variables of type *pwmGroup
func getPWMPeripheral(sliceNum uint8) pwmPeripheral {
	switch sliceNum {
	case 0:
		return machine.PWM0
	case 1:
		return machine.PWM1
	case 2:
		return machine.PWM2
	case 3:
		return machine.PWM3
	case 4:
		return machine.PWM4
	case 5:
		return machine.PWM5
	case 6:
		return machine.PWM6
	case 7:
		return machine.PWM7
	default:
		// Should never happen with proper masking
		return machine.PWM0
	}
}
