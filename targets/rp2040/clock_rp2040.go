//go:build rp2040

package main

// RP2040 TIMER, raw low word (no latching)
const timerRawLAddr = 0x40054000 + 0x0C
