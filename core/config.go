package core

// Config holds the compile-time motor settings of a board.
type Config struct {
	Top       uint16 // PWM counter top, 100% duty
	Step      uint16 // duty change per speed command
	CarrierHz uint32 // PWM carrier frequency
}

// VNH2SP30 accepts a PWM carrier up to 10kHz
const DefaultCarrierHz = 10000

// DefaultConfig returns the Uno shield settings
func DefaultConfig() Config {
	return Config{
		Top:       DutyTop,
		Step:      DutyStep,
		CarrierHz: DefaultCarrierHz,
	}
}

// PeriodNS returns the carrier period in nanoseconds
func (c Config) PeriodNS() uint64 {
	if c.CarrierHz == 0 {
		return 1000000000 / DefaultCarrierHz
	}
	return 1000000000 / uint64(c.CarrierHz)
}

// BridgePins is the wiring of one half-bridge driver
type BridgePins struct {
	InA    GPIOPin // forward enable
	InB    GPIOPin // reverse enable
	Enable GPIOPin // ENA/DIAG, open drain, read only
	PWM    PWMPin
}
