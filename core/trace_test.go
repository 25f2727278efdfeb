package core

import (
	"strings"
	"testing"
)

func TestTraceWrapsOldestFirst(t *testing.T) {
	var tr Trace

	for i := 0; i < TraceRingSize+5; i++ {
		SetTime(uint32(i))
		tr.Record(IncreaseSpeed, uint16(i), Forward)
	}

	events := tr.Events()
	if len(events) != TraceRingSize {
		t.Fatalf("Expected %d events, got %d", TraceRingSize, len(events))
	}
	if events[0].Duty != 5 {
		t.Errorf("Oldest event should be #5, got #%d", events[0].Duty)
	}
	if events[len(events)-1].Clock != TraceRingSize+4 {
		t.Errorf("Newest event clock %d, expected %d", events[len(events)-1].Clock, TraceRingSize+4)
	}
}

func TestTraceDump(t *testing.T) {
	var tr Trace
	SetTime(1234)
	tr.Record(Stop, 40, Neutral)

	var out []string
	tr.Dump(func(s string) { out = append(out, s) })

	if len(out) != 3 {
		t.Fatalf("Expected header, one event and footer, got %d lines", len(out))
	}
	if !strings.Contains(out[1], "STOP clock=1234 duty=40 dir=NEUTRAL") {
		t.Errorf("Unexpected event line %q", out[1])
	}

	tr.Clear()
	if len(tr.Events()) != 0 {
		t.Error("Clear should empty the trace")
	}
}
