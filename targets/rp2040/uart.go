//go:build rp2040 || rp2350

package main

import (
	"machine"

	"vnhdrive/protocol"
)

// commandUART is the serial link to the host
var commandUART = machine.UART0

// InitUART configures UART0 on GP0/GP1 for the command link
func InitUART() error {
	err := commandUART.Configure(machine.UARTConfig{
		BaudRate: protocol.BaudRate,
		TX:       machine.UART0_TX_PIN,
		RX:       machine.UART0_RX_PIN,
	})
	if err != nil {
		return err
	}
	return commandUART.SetFormat(protocol.DataBits, protocol.StopBits, machine.ParityNone)
}

// consoleWrite sends console text, byte by byte as the TX FIFO frees up
func consoleWrite(s string) {
	_, _ = commandUART.Write([]byte(s))
}
