package sim

import (
	"context"
	"io"
	"sync"
	"sync/atomic"
	"time"

	"tinygo.org/x/drivers"

	"vnhdrive/core"
	"vnhdrive/protocol"
)

// DefaultPins is the Arduino Uno wiring of the VNH2SP30 shield
var DefaultPins = core.BridgePins{InA: 2, InB: 4, Enable: 6, PWM: 9}

// Default loop timing of the virtual board
const (
	DefaultTickInterval = time.Millisecond
	DefaultRxInterval   = 100 * time.Microsecond
)

// ConsoleQueueSize is the number of status lines the board holds for a
// slow host before dropping
const ConsoleQueueSize = 16

// Board runs the firmware core on a virtual bridge and UART
type Board struct {
	Bridge     *Bridge
	UART       *UART
	Mailbox    *core.Mailbox
	Decoder    *core.Decoder
	Dispatcher *core.Dispatcher

	TickInterval time.Duration
	RxInterval   time.Duration

	start time.Time

	console   chan string
	dropped   uint32 // atomic
	txDone    chan struct{}
	closeOnce sync.Once
}

// NewBoard builds a board with the default wiring. Console output (banner
// and status lines) is written to out. Status lines are queued and written
// by a separate goroutine, so a slow reader of out never stalls the loop.
func NewBoard(out io.Writer, cfg core.Config) (*Board, error) {
	b := &Board{
		Bridge:       NewBridge(DefaultPins, uint32(cfg.Top)),
		UART:         NewUART(out, DefaultRxBuffer),
		Mailbox:      &core.Mailbox{},
		TickInterval: DefaultTickInterval,
		RxInterval:   DefaultRxInterval,
		start:        time.Now(),
		console:      make(chan string, ConsoleQueueSize),
		txDone:       make(chan struct{}),
	}
	b.Decoder = core.NewDecoder(b.Mailbox)

	bridge, err := core.NewBridge(b.Bridge, DefaultPins)
	if err != nil {
		return nil, err
	}
	output, err := core.NewMotorPWM(b.Bridge, DefaultPins.PWM, cfg)
	if err != nil {
		return nil, err
	}
	b.Dispatcher, err = core.NewDispatcher(b.Mailbox, bridge, output, b.printAsync, cfg)
	if err != nil {
		return nil, err
	}

	go b.transmitLoop()
	return b, nil
}

// print writes s and returns once the UART has taken it
func (b *Board) print(s string) {
	_, _ = io.WriteString(b.UART, s)
}

// printAsync queues s for the transmit goroutine. When the queue is full
// the line is dropped and counted.
func (b *Board) printAsync(s string) {
	select {
	case b.console <- s:
	default:
		atomic.AddUint32(&b.dropped, 1)
	}
}

func (b *Board) transmitLoop() {
	defer close(b.txDone)
	for s := range b.console {
		b.print(s)
	}
}

// ConsoleDropped returns how many status lines were dropped on a full queue
func (b *Board) ConsoleDropped() uint32 {
	return atomic.LoadUint32(&b.dropped)
}

// Boot empties the receive ring, drives the outputs idle and sends the
// banner. The banner is written synchronously, before any command is
// accepted.
func (b *Board) Boot() error {
	b.UART.Flush()
	if err := b.Dispatcher.Boot(); err != nil {
		return err
	}
	b.print(protocol.Banner)
	return nil
}

// Close stops the transmit goroutine after it has written the queued
// lines. It must not be called while Run or Tick is active.
func (b *Board) Close() {
	b.closeOnce.Do(func() {
		close(b.console)
	})
	<-b.txDone
}

// Feed delivers bytes to the UART receive ring, as if sent by a host
func (b *Board) Feed(p []byte) int {
	return b.UART.Feed(p)
}

// Tick runs one loop iteration after draining the receive ring. Used for
// deterministic stepping; Run drains from a separate goroutine instead.
func (b *Board) Tick() core.Command {
	b.updateClock()
	b.Decoder.Drain(b.UART)
	return b.Dispatcher.Step()
}

// Run starts the receive pump and the control loop and blocks until ctx
// is done.
func (b *Board) Run(ctx context.Context) error {
	go b.receiveLoop(ctx, b.UART)

	ticker := time.NewTicker(b.TickInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-ticker.C:
			b.updateClock()
			b.Dispatcher.Step()
		}
	}
}

// receiveLoop plays the role of the UART receive interrupt
func (b *Board) receiveLoop(ctx context.Context, uart drivers.UART) {
	for {
		select {
		case <-ctx.Done():
			return
		default:
		}
		b.Decoder.Drain(uart)
		time.Sleep(b.RxInterval)
	}
}

func (b *Board) updateClock() {
	core.SetTime(uint32(time.Since(b.start) / time.Microsecond))
}

// State returns the motor state snapshot. Not safe while Run is active.
func (b *Board) State() core.State {
	return b.Dispatcher.State()
}
