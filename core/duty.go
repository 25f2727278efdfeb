package core

import "errors"

// Duty cycle limits of the Uno shield: Timer1 counts 0.5us ticks up to
// ICR1 = 200, giving a 10kHz carrier.
const (
	DutyTop  = 200
	DutyStep = 10
)

// ErrInvalidStep is returned when a duty step is zero or exceeds the top value
var ErrInvalidStep = errors.New("duty step must be in (0, top]")

// DutyCycle is the PWM compare value, bounded to [0, Top].
// Increment and Decrement saturate; the value cannot leave the range.
type DutyCycle struct {
	value uint16
	top   uint16
	step  uint16
}

// NewDutyCycle returns a zero duty cycle with the given bounds
func NewDutyCycle(top, step uint16) (DutyCycle, error) {
	if step == 0 || step > top {
		return DutyCycle{}, ErrInvalidStep
	}
	return DutyCycle{top: top, step: step}, nil
}

// DefaultDutyCycle returns a zero duty cycle bounded by DutyTop and DutyStep
func DefaultDutyCycle() DutyCycle {
	return DutyCycle{top: DutyTop, step: DutyStep}
}

// Increment adds one step if the result stays within Top.
// Reports whether the value changed.
func (d *DutyCycle) Increment() bool {
	if d.step == 0 || d.value > d.top-d.step {
		return false
	}
	d.value += d.step
	return true
}

// Decrement removes one step if the result stays at or above zero.
// Reports whether the value changed.
func (d *DutyCycle) Decrement() bool {
	if d.step == 0 || d.value < d.step {
		return false
	}
	d.value -= d.step
	return true
}

func (d DutyCycle) Value() uint16 { return d.value }
func (d DutyCycle) Top() uint16   { return d.top }
func (d DutyCycle) Step() uint16  { return d.step }

// IsZero reports whether the output is fully off
func (d DutyCycle) IsZero() bool { return d.value == 0 }
