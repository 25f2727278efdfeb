package core

// Direction selects the current path through the H-bridge. Driving both
// half-bridges high shorts the supply, so that state has no Direction.
type Direction uint8

const (
	Neutral Direction = iota // both outputs low, motor coasts
	Forward                  // INA high
	Reverse                  // INB high
)

// Pins returns the (INA, INB) output levels for d
func (d Direction) Pins() (forward, reverse bool) {
	switch d {
	case Forward:
		return true, false
	case Reverse:
		return false, true
	default:
		return false, false
	}
}

func (d Direction) String() string {
	switch d {
	case Forward:
		return "FORWARD"
	case Reverse:
		return "REVERSE"
	default:
		return "NEUTRAL"
	}
}

// Bridge drives the two direction inputs of the motor driver and samples
// its ENA/DIAG line.
type Bridge struct {
	gpio   GPIODriver
	inA    GPIOPin
	inB    GPIOPin
	enable GPIOPin
	dir    Direction
}

// NewBridge configures the direction outputs low and the diagnostic line as
// an input with pull-up (it is open drain on the VNH2SP30).
func NewBridge(gpio GPIODriver, pins BridgePins) (*Bridge, error) {
	b := &Bridge{
		gpio:   gpio,
		inA:    pins.InA,
		inB:    pins.InB,
		enable: pins.Enable,
	}

	for _, pin := range []GPIOPin{pins.InA, pins.InB} {
		if err := gpio.ConfigureOutput(pin); err != nil {
			return nil, err
		}
		if err := gpio.SetPin(pin, false); err != nil {
			return nil, err
		}
	}

	if err := gpio.ConfigureInputPullUp(pins.Enable); err != nil {
		return nil, err
	}

	return b, nil
}

// Set switches the bridge to dir. The outgoing output is always cleared
// before the incoming one is raised, with interrupts masked so the pair is
// updated as one step.
func (b *Bridge) Set(dir Direction) error {
	state := disableInterrupts()
	defer restoreInterrupts(state)

	forward, reverse := dir.Pins()

	// Lower first
	if !forward {
		if err := b.gpio.SetPin(b.inA, false); err != nil {
			return err
		}
	}
	if !reverse {
		if err := b.gpio.SetPin(b.inB, false); err != nil {
			return err
		}
	}

	// Then raise
	if forward {
		if err := b.gpio.SetPin(b.inA, true); err != nil {
			return err
		}
	}
	if reverse {
		if err := b.gpio.SetPin(b.inB, true); err != nil {
			return err
		}
	}

	b.dir = dir
	return nil
}

// Direction returns the last direction applied
func (b *Bridge) Direction() Direction {
	return b.dir
}

// Enabled samples the ENA/DIAG line. The driver pulls it low on a fault;
// the core does not act on it.
func (b *Bridge) Enabled() bool {
	v, err := b.gpio.GetPin(b.enable)
	if err != nil {
		return false
	}
	return v
}
