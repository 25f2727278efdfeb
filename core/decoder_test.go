package core

import (
	"io"
	"testing"
)

// fakeUART implements drivers.UART over a byte slice
type fakeUART struct {
	rx  []byte
	tx  []byte
	err error
}

func (u *fakeUART) Read(p []byte) (int, error) {
	if u.err != nil {
		return 0, u.err
	}
	if len(u.rx) == 0 {
		return 0, io.EOF
	}
	n := copy(p, u.rx)
	u.rx = u.rx[n:]
	return n, nil
}

func (u *fakeUART) Write(p []byte) (int, error) {
	u.tx = append(u.tx, p...)
	return len(p), nil
}

func (u *fakeUART) Buffered() int {
	return len(u.rx)
}

func TestDecoderReceive(t *testing.T) {
	mb := &Mailbox{}
	dec := NewDecoder(mb)

	dec.Receive('r')
	if mb.Peek() != Right {
		t.Errorf("Expected RIGHT pending, got %v", mb.Peek())
	}

	dec.Receive('z')
	if mb.Peek() != Idle {
		t.Errorf("Unknown byte should publish IDLE, got %v", mb.Peek())
	}

	if dec.Received() != 2 {
		t.Errorf("Expected 2 bytes received, got %d", dec.Received())
	}
}

func TestDecoderDrain(t *testing.T) {
	mb := &Mailbox{}
	dec := NewDecoder(mb)
	uart := &fakeUART{rx: []byte("lp")}

	n := dec.Drain(uart)
	if n != 2 {
		t.Errorf("Expected 2 bytes drained, got %d", n)
	}
	if uart.Buffered() != 0 {
		t.Errorf("Expected UART to be empty, %d bytes left", uart.Buffered())
	}

	// Both bytes arrived before a poll: the second wins
	cmd, ok := mb.Take()
	if !ok || cmd != IncreaseSpeed {
		t.Errorf("Expected INCREASE, got %v", cmd)
	}
}

func TestDecoderDrainReadError(t *testing.T) {
	mb := &Mailbox{}
	dec := NewDecoder(mb)
	uart := &fakeUART{rx: []byte("s"), err: io.ErrUnexpectedEOF}

	if n := dec.Drain(uart); n != 0 {
		t.Errorf("Expected nothing drained on read error, got %d", n)
	}
	if _, ok := mb.Take(); ok {
		t.Error("No command should be published on read error")
	}
}
