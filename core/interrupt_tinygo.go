//go:build tinygo

package core

import "runtime/interrupt"

// disableInterrupts masks interrupts around multi-pin updates and returns
// the previous state
func disableInterrupts() interrupt.State {
	return interrupt.Disable()
}

// restoreInterrupts restores the state returned by disableInterrupts
func restoreInterrupts(state interrupt.State) {
	interrupt.Restore(state)
}
