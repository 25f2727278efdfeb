package core

import (
	"errors"

	"vnhdrive/protocol"
)

// Command is one decoded serial command. The zero value is Idle.
type Command uint8

const (
	Idle Command = iota // nothing pending
	Left
	Right
	IncreaseSpeed
	DecreaseSpeed
	Stop
)

// ErrUnknownCommand is returned by ParseCommand for names outside the command set
var ErrUnknownCommand = errors.New("unknown command")

// DecodeCommand maps one received byte to a Command.
// Anything outside the command set decodes to Idle.
func DecodeCommand(b byte) Command {
	switch b {
	case protocol.KeyLeft:
		return Left
	case protocol.KeyRight:
		return Right
	case protocol.KeyIncrease:
		return IncreaseSpeed
	case protocol.KeyDecrease:
		return DecreaseSpeed
	case protocol.KeyStop:
		return Stop
	default:
		return Idle
	}
}

// Key returns the byte that decodes to c, or 0 for Idle
func (c Command) Key() byte {
	switch c {
	case Left:
		return protocol.KeyLeft
	case Right:
		return protocol.KeyRight
	case IncreaseSpeed:
		return protocol.KeyIncrease
	case DecreaseSpeed:
		return protocol.KeyDecrease
	case Stop:
		return protocol.KeyStop
	default:
		return 0
	}
}

// StatusLine returns the line reported when c is applied.
// Idle has no status line.
func (c Command) StatusLine() (string, bool) {
	switch c {
	case Left:
		return protocol.StatusLeft, true
	case Right:
		return protocol.StatusRight, true
	case IncreaseSpeed:
		return protocol.StatusIncrease, true
	case DecreaseSpeed:
		return protocol.StatusDecrease, true
	case Stop:
		return protocol.StatusStop, true
	default:
		return "", false
	}
}

func (c Command) String() string {
	switch c {
	case Idle:
		return "IDLE"
	case Left:
		return "LEFT"
	case Right:
		return "RIGHT"
	case IncreaseSpeed:
		return "INCREASE"
	case DecreaseSpeed:
		return "DECREASE"
	case Stop:
		return "STOP"
	default:
		return "UNKNOWN"
	}
}

// ParseCommand converts a command name or key letter, as typed on the host
// side, into a Command. Idle cannot be parsed.
func ParseCommand(name string) (Command, error) {
	switch name {
	case "left", "l", "LEFT":
		return Left, nil
	case "right", "r", "RIGHT":
		return Right, nil
	case "faster", "increase", "p", "INCREASE":
		return IncreaseSpeed, nil
	case "slower", "decrease", "m", "DECREASE":
		return DecreaseSpeed, nil
	case "stop", "s", "STOP":
		return Stop, nil
	}
	return Idle, ErrUnknownCommand
}
