package sim

import (
	"io"
	"sync"

	"vnhdrive/protocol"
)

// DefaultRxBuffer matches the receive ring of the TinyGo UART
const DefaultRxBuffer = 64

// UART is a virtual serial port. Bytes fed by the host side are buffered
// like a hardware receive ring; bytes written by the firmware go to out.
// It implements drivers.UART.
type UART struct {
	mu sync.Mutex // guards rx
	rx *protocol.FifoBuffer

	txMu sync.Mutex
	out  io.Writer
}

// NewUART creates a UART with a receive ring of size bytes
func NewUART(out io.Writer, size int) *UART {
	if size <= 1 {
		size = DefaultRxBuffer
	}
	if out == nil {
		out = io.Discard
	}
	return &UART{
		rx:  protocol.NewFifoBuffer(size),
		out: out,
	}
}

// Feed queues received bytes. Bytes beyond the ring capacity are dropped
// (overrun) and the number accepted is returned.
func (u *UART) Feed(p []byte) int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rx.Write(p)
}

// Read implements io.Reader, returning buffered bytes without blocking
func (u *UART) Read(p []byte) (int, error) {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rx.Read(p), nil
}

// Write implements io.Writer, transmitting to the host side
func (u *UART) Write(p []byte) (int, error) {
	u.txMu.Lock()
	defer u.txMu.Unlock()
	return u.out.Write(p)
}

// Buffered returns the number of received bytes not yet read
func (u *UART) Buffered() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rx.Available()
}

// Overruns returns the number of received bytes dropped on a full ring
func (u *UART) Overruns() int {
	u.mu.Lock()
	defer u.mu.Unlock()
	return u.rx.Dropped()
}

// Flush discards received bytes and clears the overrun count, as a UART
// reset does
func (u *UART) Flush() {
	u.mu.Lock()
	defer u.mu.Unlock()
	u.rx.Reset()
}
