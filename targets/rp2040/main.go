//go:build rp2040 || rp2350

package main

import (
	"time"

	"vnhdrive/core"
	"vnhdrive/protocol"
)

// Board wiring
var pins = core.BridgePins{
	InA:    2, // GP2
	InB:    4, // GP4
	Enable: 6, // GP6, open drain ENA/DIAG
	PWM:    9, // GP9, slice 4 channel B
}

var (
	mailbox = &core.Mailbox{}
	decoder = core.NewDecoder(mailbox)

	// Debug counters
	loopPanics uint32
)

func main() {
	if err := InitUART(); err != nil {
		halt()
	}
	core.SetConsoleWriter(consoleWrite)

	// Initialize and register GPIO and PWM drivers
	core.SetGPIODriver(NewRPGPIODriver())
	core.SetPWMDriver(NewRP2040PWMDriver())

	cfg := core.DefaultConfig()

	bridge, err := core.NewBridge(core.MustGPIO(), pins)
	if err != nil {
		halt()
	}
	output, err := core.NewMotorPWM(core.MustPWM(), pins.PWM, cfg)
	if err != nil {
		halt()
	}
	dispatcher, err := core.NewDispatcher(mailbox, bridge, output, core.ConsoleAsync, cfg)
	if err != nil {
		halt()
	}
	if err := dispatcher.Boot(); err != nil {
		halt()
	}

	// Banner goes out before any command is accepted
	core.ConsolePrint(protocol.Banner)
	core.InitAsyncConsole()

	// Start UART receive goroutine
	go uartReaderLoop()

	// Main loop
	for {
		// Recover from panics in the main loop to prevent a firmware crash
		func() {
			defer func() {
				if r := recover(); r != nil {
					loopPanics++
				}
			}()

			UpdateSystemTime()
			dispatcher.Step()
		}()

		// Yield to the receive goroutine
		time.Sleep(10 * time.Microsecond)
	}
}

// uartReaderLoop feeds received bytes to the decoder. The TinyGo runtime
// owns the UART interrupt and buffers bytes for us; this loop is the
// producer side of the mailbox.
func uartReaderLoop() {
	for {
		decoder.Drain(commandUART)
		// Yield to avoid a busy loop
		time.Sleep(100 * time.Microsecond)
	}
}

// halt parks the core with both bridge inputs untouched (they reset low)
func halt() {
	for {
		time.Sleep(time.Second)
	}
}
