//go:build rp2350

package main

// RP2350 TIMER0, raw low word (no latching)
const timerRawLAddr = 0x400B0000 + 0x28
