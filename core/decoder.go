package core

import (
	"sync/atomic"

	"tinygo.org/x/drivers"
)

// Decoder turns received bytes into commands and publishes them.
type Decoder struct {
	mailbox  *Mailbox
	received uint32 // atomic
}

// NewDecoder creates a decoder publishing into mb
func NewDecoder(mb *Mailbox) *Decoder {
	return &Decoder{mailbox: mb}
}

// Receive handles one byte. It runs at interrupt priority: O(1), no
// allocation, no output. Unknown bytes publish Idle.
func (d *Decoder) Receive(b byte) {
	d.mailbox.Publish(DecodeCommand(b))
	atomic.AddUint32(&d.received, 1)
}

// Drain feeds every byte currently buffered by uart through Receive and
// returns how many were consumed. Used on targets where the runtime owns
// the UART receive interrupt and buffers bytes for us.
func (d *Decoder) Drain(uart drivers.UART) int {
	var buf [1]byte
	n := 0
	for uart.Buffered() > 0 {
		read, err := uart.Read(buf[:])
		if err != nil || read == 0 {
			break
		}
		d.Receive(buf[0])
		n++
	}
	return n
}

// Received returns the number of bytes seen since boot
func (d *Decoder) Received() uint32 {
	return atomic.LoadUint32(&d.received)
}
