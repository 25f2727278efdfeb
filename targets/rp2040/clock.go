//go:build rp2040 || rp2350

package main

import (
	"runtime/volatile"
	"unsafe"

	"vnhdrive/core"
)

var timerRAWL = (*volatile.Register32)(unsafe.Pointer(uintptr(timerRawLAddr)))

// GetHardwareTime reads the low 32 bits of the 1MHz system timer
func GetHardwareTime() uint32 {
	return timerRAWL.Get()
}

// UpdateSystemTime updates the core clock with hardware time
// Called once per loop tick
func UpdateSystemTime() {
	core.SetTime(GetHardwareTime())
}
