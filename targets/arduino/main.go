//go:build arduino

package main

import (
	"time"

	"machine"

	"vnhdrive/core"
	"vnhdrive/protocol"
)

// Motor shield wiring, by Arduino pin number
var pins = core.BridgePins{
	InA:    2,
	InB:    4,
	Enable: 6,
	PWM:    9,
}

var (
	mailbox = &core.Mailbox{}
	decoder = core.NewDecoder(mailbox)
)

func main() {
	uart := machine.UART0
	if err := uart.Configure(machine.UARTConfig{BaudRate: protocol.BaudRate}); err != nil {
		halt()
	}
	core.SetConsoleWriter(func(s string) {
		_, _ = uart.Write([]byte(s))
	})

	core.SetGPIODriver(AVRGPIODriver{})
	core.SetPWMDriver(&Timer1PWMDriver{})

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

	core.ConsolePrint(protocol.Banner)
	core.InitAsyncConsole()

	go func() {
		for {
			decoder.Drain(uart)
			time.Sleep(200 * time.Microsecond)
		}
	}()

	start := time.Now()
	for {
		core.SetTime(uint32(time.Since(start) / time.Microsecond))
		dispatcher.Step()
		// Let the receive and console goroutines run
		time.Sleep(50 * time.Microsecond)
	}
}

func halt() {
	for {
		time.Sleep(time.Second)
	}
}
