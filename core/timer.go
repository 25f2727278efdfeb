package core

import "sync/atomic"

var systemTicksValue uint32

// GetTime returns the current system time in microseconds, as last
// published by the target's clock
func GetTime() uint32 {
	return atomic.LoadUint32(&systemTicksValue)
}

// SetTime sets the current system time (for testing/hardware integration)
func SetTime(ticks uint32) {
	atomic.StoreUint32(&systemTicksValue, ticks)
}
