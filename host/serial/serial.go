package serial

import (
	"io"

	"vnhdrive/protocol"
)

// Port represents a serial port interface
// This abstraction allows for different implementations:
// - Native serial (using github.com/tarm/serial)
// - Mock serial (for testing)
type Port interface {
	io.ReadWriteCloser

	// Flush flushes any buffered data
	Flush() error
}

// Config holds serial port configuration
type Config struct {
	// Device path (e.g., "/dev/ttyACM0", "COM3")
	Device string

	// Baud rate (9600 for the motor driver)
	Baud int

	// Read timeout in milliseconds (0 = blocking)
	ReadTimeout int
}

// DefaultConfig returns the motor driver link settings for device
func DefaultConfig(device string) *Config {
	return &Config{
		Device:      device,
		Baud:        protocol.BaudRate,
		ReadTimeout: 100, // 100ms read timeout
	}
}
