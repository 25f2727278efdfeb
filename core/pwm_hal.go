package core

// PWMPin identifies a hardware pin capable of PWM output
type PWMPin uint32

// PWMValue is a compare value in hardware counter units (0 to GetMaxValue)
type PWMValue uint32

// PWMDriver is the abstract PWM interface that core code uses.
// Platform-specific implementations handle actual hardware control.
type PWMDriver interface {
	// ConfigureHardwarePWM configures a pin for hardware PWM output with
	// the given carrier period in nanoseconds
	ConfigureHardwarePWM(pin PWMPin, periodNS uint64) error

	// SetDutyCycle sets the compare value for a pin
	// value: 0 (fully off) to GetMaxValue(pin) (fully on)
	SetDutyCycle(pin PWMPin, value PWMValue) error

	// GetMaxValue returns the counter top of the configured channel
	GetMaxValue(pin PWMPin) uint32
}

// Global singleton used by firmware entry points.
var pwmDriver PWMDriver

// SetPWMDriver is called by target-specific code to register its driver.
func SetPWMDriver(d PWMDriver) {
	pwmDriver = d
}

// MustPWM returns the configured driver or panics if missing.
func MustPWM() PWMDriver {
	if pwmDriver == nil {
		panic("PWM driver not configured")
	}
	return pwmDriver
}
