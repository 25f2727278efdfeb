// Package protocol defines the serial command link of the motor driver
package protocol

// Version represents the firmware version
const Version = "0.1.0"

// Serial link settings: 8 data bits, no parity, 1 stop bit, 7-bit ASCII payload
const (
	BaudRate = 9600
	DataBits = 8
	StopBits = 1
)

// Command keys
const (
	KeyLeft     = 'l'
	KeyRight    = 'r'
	KeyIncrease = 'p'
	KeyDecrease = 'm'
	KeyStop     = 's'
)

// Status lines, one per accepted command
const (
	StatusLeft     = "Going Left"
	StatusRight    = "Going Right"
	StatusIncrease = "Increasing duty cycle"
	StatusDecrease = "Decreasing duty cycle"
	StatusStop     = "Stopping..."
)

// LineEnding terminates every line sent by the board
const LineEnding = "\r\n"

// Banner is printed once at boot
const Banner = "VNH2SP30 controller:" + LineEnding +
	"\t-press l to go left and r to go right" + LineEnding +
	"\t-press p to increase duty cycle and m to decrease duty cycle" + LineEnding +
	"\t-press s to stop the motor" + LineEnding

// BannerLines is the number of lines in Banner
const BannerLines = 4

// StatusLines lists every status line the board can send
var StatusLines = []string{
	StatusLeft,
	StatusRight,
	StatusIncrease,
	StatusDecrease,
	StatusStop,
}

// IsStatusLine reports whether line (without its terminator) is a status line
func IsStatusLine(line string) bool {
	for _, s := range StatusLines {
		if s == line {
			return true
		}
	}
	return false
}
