//go:build !tinygo

package core

// interruptState stands in for runtime/interrupt.State on regular Go
type interruptState uintptr

// disableInterrupts is a no-op on regular Go (simulator and tests). The
// sections it guards are only entered from the dispatcher goroutine there.
func disableInterrupts() interruptState {
	return 0
}

func restoreInterrupts(state interruptState) {}
