package core

import (
	"context"

	"vnhdrive/protocol"
)

// State is a snapshot of the motor state
type State struct {
	Duty      uint16
	Direction Direction
	PWM       PWMState
	Enabled   bool   // ENA/DIAG line, informational
	Ticks     uint32 // loop iterations since boot
}

// Dispatcher is the main control loop. It polls the mailbox once per tick,
// applies at most one command and pushes the duty value to the PWM output.
// All motor state is owned by the dispatcher.
type Dispatcher struct {
	mailbox *Mailbox
	bridge  *Bridge
	output  *MotorPWM
	console ConsoleWriter

	duty   DutyCycle
	trace  Trace
	ticks  uint32
	faults uint32
}

// NewDispatcher creates a dispatcher with duty bounds from cfg. Status
// lines go to console, which must not block.
func NewDispatcher(mb *Mailbox, bridge *Bridge, output *MotorPWM, console ConsoleWriter, cfg Config) (*Dispatcher, error) {
	duty, err := NewDutyCycle(cfg.Top, cfg.Step)
	if err != nil {
		return nil, err
	}
	if console == nil {
		console = func(string) {}
	}

	return &Dispatcher{
		mailbox: mb,
		bridge:  bridge,
		output:  output,
		console: console,
		duty:    duty,
	}, nil
}

// Boot puts the outputs in their idle state: both bridge inputs low and
// zero duty.
func (d *Dispatcher) Boot() error {
	if err := d.bridge.Set(Neutral); err != nil {
		return err
	}
	return d.output.Push(d.duty)
}

// Step runs one loop iteration and returns the command it observed
func (d *Dispatcher) Step() Command {
	cmd, _ := d.mailbox.Take()
	d.apply(cmd)

	// Refresh the compare register every tick, command or not
	if err := d.output.Push(d.duty); err != nil {
		d.fault("pwm push: " + err.Error())
	}

	d.ticks++
	return cmd
}

// Run loops until ctx is done
func (d *Dispatcher) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}
		d.Step()
	}
}

func (d *Dispatcher) apply(cmd Command) {
	switch cmd {
	case Idle:
		return
	case Left:
		d.setDirection(Forward)
	case Right:
		d.setDirection(Reverse)
	case IncreaseSpeed:
		d.duty.Increment()
	case DecreaseSpeed:
		d.duty.Decrement()
	case Stop:
		// Duty is kept so the next direction command resumes at the same speed
		d.setDirection(Neutral)
	default:
		return
	}

	d.trace.Record(cmd, d.duty.Value(), d.bridge.Direction())
	if line, ok := cmd.StatusLine(); ok {
		d.console(line + protocol.LineEnding)
	}
}

func (d *Dispatcher) setDirection(dir Direction) {
	if err := d.bridge.Set(dir); err != nil {
		d.fault("bridge: " + err.Error())
	}
}

func (d *Dispatcher) fault(msg string) {
	d.faults++
	DebugPrintln(msg)
}

// Duty returns the current duty cycle
func (d *Dispatcher) Duty() DutyCycle {
	return d.duty
}

// Direction returns the current bridge direction
func (d *Dispatcher) Direction() Direction {
	return d.bridge.Direction()
}

// State returns a snapshot of the motor state
func (d *Dispatcher) State() State {
	return State{
		Duty:      d.duty.Value(),
		Direction: d.bridge.Direction(),
		PWM:       d.output.State(),
		Enabled:   d.bridge.Enabled(),
		Ticks:     d.ticks,
	}
}

// Trace returns the transition history
func (d *Dispatcher) Trace() *Trace {
	return &d.trace
}

// Faults returns the number of HAL errors seen by the loop
func (d *Dispatcher) Faults() uint32 {
	return d.faults
}
