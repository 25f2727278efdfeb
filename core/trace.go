package core

// TransitionEvent captures one applied command for post-mortem analysis
type TransitionEvent struct {
	Clock     uint32 // System clock when applied
	Command   Command
	Duty      uint16 // Duty value after the command
	Direction Direction
}

const (
	TraceRingSize = 32 // Keep last 32 commands
)

// Trace is a fixed ring of the most recent transitions. Recording never
// allocates or blocks.
type Trace struct {
	ring  [TraceRingSize]TransitionEvent
	head  uint8 // Next write position
	count uint8
}

// Record captures a transition in the ring buffer
func (t *Trace) Record(cmd Command, duty uint16, dir Direction) {
	idx := t.head
	t.ring[idx] = TransitionEvent{
		Clock:     GetTime(),
		Command:   cmd,
		Duty:      duty,
		Direction: dir,
	}
	t.head = (idx + 1) % TraceRingSize
	if t.count < TraceRingSize {
		t.count++
	}
}

// Events returns the recorded transitions, oldest first
func (t *Trace) Events() []TransitionEvent {
	events := make([]TransitionEvent, 0, t.count)
	start := (t.head + TraceRingSize - t.count) % TraceRingSize
	for i := uint8(0); i < t.count; i++ {
		events = append(events, t.ring[(start+i)%TraceRingSize])
	}
	return events
}

// Dump writes the ring, oldest first, one line per event
func (t *Trace) Dump(w ConsoleWriter) {
	if w == nil {
		return
	}

	w("[TRACE] === Transition Dump ===\r\n")
	for _, evt := range t.Events() {
		w("[TRACE] " + evt.Command.String() +
			" clock=" + utoa(evt.Clock) +
			" duty=" + utoa(uint32(evt.Duty)) +
			" dir=" + evt.Direction.String() + "\r\n")
	}
	w("[TRACE] === End Dump ===\r\n")
}

// Clear empties the ring
func (t *Trace) Clear() {
	for i := range t.ring {
		t.ring[i] = TransitionEvent{}
	}
	t.head = 0
	t.count = 0
}
