package core

import "sync/atomic"

// Mailbox is a single-slot, last-write-wins handoff between the receive
// interrupt (producer) and the dispatch loop (consumer).
//
// The slot is one 32-bit word accessed only through sync/atomic, so no
// torn value is observable on 8-bit AVR either: TinyGo lowers these calls
// to interrupt-masked sequences where the hardware has no native atomics.
type Mailbox struct {
	slot uint32 // atomic Command
}

// Publish stores cmd, overwriting any value the consumer has not taken.
// Safe to call from interrupt context.
func (m *Mailbox) Publish(cmd Command) {
	atomic.StoreUint32(&m.slot, uint32(cmd))
}

// Take reads and clears the slot in one exchange. It reports false when
// nothing was pending.
func (m *Mailbox) Take() (Command, bool) {
	cmd := Command(atomic.SwapUint32(&m.slot, uint32(Idle)))
	return cmd, cmd != Idle
}

// Peek returns the pending command without consuming it
func (m *Mailbox) Peek() Command {
	return Command(atomic.LoadUint32(&m.slot))
}
