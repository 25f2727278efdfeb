package sim

import (
	"context"
	"io"
	"sync"
	"time"

	"github.com/golang/glog"

	"vnhdrive/core"
)

// Port is an in-process serial port connected to a running virtual board.
// It satisfies io.ReadWriteCloser, so host tooling can drive the simulator
// exactly like a real device.
type Port struct {
	Board *Board

	r      *io.PipeReader
	w      *io.PipeWriter
	cancel context.CancelFunc
	done   chan struct{}
	once   sync.Once
}

// OpenPort boots a virtual board in the background and returns its port.
// A zero tick keeps DefaultTickInterval.
func OpenPort(cfg core.Config, tick time.Duration) (*Port, error) {
	r, w := io.Pipe()
	board, err := NewBoard(w, cfg)
	if err != nil {
		return nil, err
	}
	if tick > 0 {
		board.TickInterval = tick
	}

	ctx, cancel := context.WithCancel(context.Background())
	p := &Port{
		Board:  board,
		r:      r,
		w:      w,
		cancel: cancel,
		done:   make(chan struct{}),
	}

	go func() {
		defer close(p.done)
		// Boot writes the banner into the pipe, so it must not run before
		// the caller has a chance to read.
		if err := board.Boot(); err != nil {
			glog.Errorf("sim: boot failed: %v", err)
			_ = w.CloseWithError(err)
			return
		}
		_ = board.Run(ctx)
	}()
	return p, nil
}

// Read returns console output of the board
func (p *Port) Read(b []byte) (int, error) {
	return p.r.Read(b)
}

// Write delivers bytes to the board receive ring. Bytes beyond the ring
// capacity are dropped as an overrun, like a real UART.
func (p *Port) Write(b []byte) (int, error) {
	p.Board.Feed(b)
	return len(b), nil
}

// Close stops the board and ends the console stream
func (p *Port) Close() error {
	p.once.Do(func() {
		p.cancel()
		// Closing the read side unblocks any pending console write
		_ = p.r.Close()
		<-p.done
		p.Board.Close()
		_ = p.w.Close()
	})
	return nil
}
