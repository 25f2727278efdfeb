package serial

import (
	"fmt"
	"io"
	"time"

	"github.com/tarm/serial"

	"vnhdrive/protocol"
)

// NativePort wraps the tarm/serial implementation
type NativePort struct {
	port *serial.Port
	cfg  *Config
}

// Open opens a native serial port with 8N1 framing
func Open(cfg *Config) (Port, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config cannot be nil")
	}

	port, err := serial.OpenPort(tarmConfig(cfg))
	if err != nil {
		return nil, fmt.Errorf("failed to open serial port %s: %w", cfg.Device, err)
	}

	return &NativePort{
		port: port,
		cfg:  cfg,
	}, nil
}

func tarmConfig(cfg *Config) *serial.Config {
	baud := cfg.Baud
	if baud == 0 {
		baud = protocol.BaudRate
	}
	return &serial.Config{
		Name:        cfg.Device,
		Baud:        baud,
		ReadTimeout: time.Duration(cfg.ReadTimeout) * time.Millisecond,
		Size:        protocol.DataBits,
		Parity:      serial.ParityNone,
		StopBits:    serial.Stop1,
	}
}

// Read reads data from the serial port. An expired read timeout surfaces
// from the OS as a zero length read and is retried. A zero length read
// that returns well before the timeout means the port has hung up, and
// EOF is passed through.
func (p *NativePort) Read(b []byte) (int, error) {
	timeout := time.Duration(p.cfg.ReadTimeout) * time.Millisecond
	return readTimeout(p.port.Read, b, timeout)
}

func readTimeout(read func([]byte) (int, error), b []byte, timeout time.Duration) (int, error) {
	for {
		start := time.Now()
		n, err := read(b)
		if n == 0 && err == io.EOF && timeout > 0 && time.Since(start) >= timeout/2 {
			continue
		}
		return n, err
	}
}

// Write writes data to the serial port
func (p *NativePort) Write(b []byte) (int, error) {
	return p.port.Write(b)
}

// Close closes the serial port
func (p *NativePort) Close() error {
	if p.port != nil {
		return p.port.Close()
	}
	return nil
}

// Flush discards data received but not yet read
func (p *NativePort) Flush() error {
	return p.port.Flush()
}
