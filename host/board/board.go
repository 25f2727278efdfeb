// Package board is the host side client of the motor driver serial link.
package board

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/golang/glog"

	"vnhdrive/core"
	"vnhdrive/host/serial"
	"vnhdrive/protocol"
)

// LineBuffer is the number of received lines queued for Lines()
const LineBuffer = 64

// ErrClosed is returned when the board connection has been closed
var ErrClosed = errors.New("board connection closed")

// Line is one line received from the board, terminator stripped
type Line struct {
	Text   string
	Status bool // one of protocol.StatusLines
}

// Board represents a connection to the motor driver
type Board struct {
	port io.ReadWriteCloser

	writeMu sync.Mutex

	mu     sync.Mutex
	banner []string
	closed bool

	lines chan Line
	done  chan struct{}
	err   error
}

// Connect opens device with the link settings and starts reading
func Connect(device string) (*Board, error) {
	return ConnectWithConfig(serial.DefaultConfig(device))
}

// ConnectWithConfig opens a board with a custom serial config
func ConnectWithConfig(cfg *serial.Config) (*Board, error) {
	port, err := serial.Open(cfg)
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port: %w", err)
	}
	return New(port), nil
}

// New wraps an already open port. The board owns port from now on.
func New(port io.ReadWriteCloser) *Board {
	b := &Board{
		port:  port,
		lines: make(chan Line, LineBuffer),
		done:  make(chan struct{}),
	}
	go b.readLoop()
	return b
}

// Send writes the key byte of cmd
func (b *Board) Send(cmd core.Command) error {
	key := cmd.Key()
	if key == 0 {
		return fmt.Errorf("cannot send %s: %w", cmd, core.ErrUnknownCommand)
	}
	return b.SendByte(key)
}

// SendByte writes raw bytes. Bytes outside the command set are ignored by
// the board, which makes this useful for probing.
func (b *Board) SendByte(data ...byte) error {
	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if closed {
		return ErrClosed
	}

	b.writeMu.Lock()
	defer b.writeMu.Unlock()
	if glog.V(2) {
		glog.Infof("board <- %q", data)
	}
	if _, err := b.port.Write(data); err != nil {
		return fmt.Errorf("failed to write to board: %w", err)
	}
	return nil
}

// Lines returns the channel of received lines. It is closed when the
// connection ends; Err then reports why.
func (b *Board) Lines() <-chan Line {
	return b.lines
}

// Banner returns the boot banner lines seen so far
func (b *Board) Banner() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	out := make([]string, len(b.banner))
	copy(out, b.banner)
	return out
}

// Expect waits for a line equal to want, discarding others
func (b *Board) Expect(ctx context.Context, want string) error {
	for {
		select {
		case <-ctx.Done():
			return fmt.Errorf("waiting for %q: %w", want, ctx.Err())
		case line, ok := <-b.lines:
			if !ok {
				if err := b.Err(); err != nil {
					return fmt.Errorf("waiting for %q: %w", want, err)
				}
				return fmt.Errorf("waiting for %q: %w", want, ErrClosed)
			}
			if line.Text == want {
				return nil
			}
		}
	}
}

// Command sends cmd and waits for its status line
func (b *Board) Command(ctx context.Context, cmd core.Command) error {
	want, ok := cmd.StatusLine()
	if !ok {
		return fmt.Errorf("cannot send %s: %w", cmd, core.ErrUnknownCommand)
	}
	if err := b.Send(cmd); err != nil {
		return err
	}
	return b.Expect(ctx, want)
}

// Done is closed when the reader stops
func (b *Board) Done() <-chan struct{} {
	return b.done
}

// Err returns the error that stopped the reader, nil on a clean EOF or Close
func (b *Board) Err() error {
	select {
	case <-b.done:
		return b.err
	default:
		return nil
	}
}

// Close closes the port and waits for the reader to stop
func (b *Board) Close() error {
	b.mu.Lock()
	if b.closed {
		b.mu.Unlock()
		return nil
	}
	b.closed = true
	b.mu.Unlock()

	err := b.port.Close()
	<-b.done
	return err
}

func (b *Board) readLoop() {
	defer close(b.done)
	defer close(b.lines)

	scanner := bufio.NewScanner(b.port)
	scanner.Split(scanLines)
	for scanner.Scan() {
		text := scanner.Text()
		if glog.V(2) {
			glog.Infof("board -> %q", text)
		}
		line := Line{Text: text, Status: protocol.IsStatusLine(text)}
		if !line.Status {
			b.mu.Lock()
			if len(b.banner) < protocol.BannerLines {
				b.banner = append(b.banner, text)
			}
			b.mu.Unlock()
		}
		select {
		case b.lines <- line:
		default:
			glog.Warningf("board line dropped, reader not keeping up: %q", text)
		}
	}

	b.mu.Lock()
	closed := b.closed
	b.mu.Unlock()
	if err := scanner.Err(); err != nil && !closed {
		b.err = err
	}
}

// scanLines splits on LF, dropping a trailing CR. Empty lines are skipped.
func scanLines(data []byte, atEOF bool) (advance int, token []byte, err error) {
	start := 0
	for {
		if atEOF && start >= len(data) {
			return len(data), nil, nil
		}
		i := bytes.IndexByte(data[start:], '\n')
		if i < 0 {
			if atEOF {
				rest := strings.TrimRight(string(data[start:]), "\r")
				if rest == "" {
					return len(data), nil, nil
				}
				return len(data), []byte(rest), nil
			}
			return start, nil, nil
		}
		token = bytes.TrimRight(data[start:start+i], "\r")
		if len(token) > 0 {
			return start + i + 1, token, nil
		}
		start += i + 1
	}
}
