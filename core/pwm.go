// PWM output for the motor speed channel
package core

// PWMState is derived from the last value pushed to the channel
type PWMState uint8

const (
	PWMIdle    PWMState = iota // duty 0
	PWMRunning                 // duty in (0, top]
)

func (s PWMState) String() string {
	if s == PWMRunning {
		return "RUNNING"
	}
	return "IDLE"
}

// MotorPWM is the speed output. It owns one hardware PWM channel running at
// a fixed carrier and maps the duty range [0, top] onto the channel's
// counter range.
type MotorPWM struct {
	driver PWMDriver
	pin    PWMPin
	top    uint16 // duty cycle top
	max    uint32 // hardware counter top
	last   PWMValue
	pushed uint32 // number of pushes
}

// NewMotorPWM configures pin for hardware PWM with the carrier of cfg
func NewMotorPWM(driver PWMDriver, pin PWMPin, cfg Config) (*MotorPWM, error) {
	if err := driver.ConfigureHardwarePWM(pin, cfg.PeriodNS()); err != nil {
		return nil, err
	}

	m := &MotorPWM{
		driver: driver,
		pin:    pin,
		top:    cfg.Top,
		max:    driver.GetMaxValue(pin),
	}
	if m.top == 0 {
		m.top = DutyTop
	}

	// Start with the output off
	if err := driver.SetDutyCycle(pin, 0); err != nil {
		return nil, err
	}
	return m, nil
}

// Push writes duty to the compare register. Called every loop tick.
func (m *MotorPWM) Push(duty DutyCycle) error {
	value := m.scale(duty.Value())
	if err := m.driver.SetDutyCycle(m.pin, value); err != nil {
		return err
	}
	m.last = value
	m.pushed++
	return nil
}

// scale converts a duty value to counter units. When the hardware top
// equals the duty top the value passes through unchanged.
func (m *MotorPWM) scale(v uint16) PWMValue {
	if m.max == 0 || m.max == uint32(m.top) {
		return PWMValue(v)
	}
	// Use 32-bit math: top <= 65535 and max fits 16-bit timers
	return PWMValue((uint32(v)*m.max + uint32(m.top)/2) / uint32(m.top))
}

// State reports whether the output is currently driven
func (m *MotorPWM) State() PWMState {
	if m.last == 0 {
		return PWMIdle
	}
	return PWMRunning
}

// Value returns the last compare value written, in counter units
func (m *MotorPWM) Value() PWMValue {
	return m.last
}

// Pushes returns the number of completed pushes since configuration
func (m *MotorPWM) Pushes() uint32 {
	return m.pushed
}
