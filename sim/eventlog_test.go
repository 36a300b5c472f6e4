package sim

import (
	"sync"
	"testing"
	"time"
)

func TestEventLog_AppendDrain_PreservesOrder(t *testing.T) {
	// GIVEN a log with three appended events
	log := NewEventLog()
	for _, detail := range []string{"first", "second", "third"} {
		ev := NewEvent("game-1", CategoryScore, map[string]float64{PayloadPoints: 2})
		ev.Detail = detail
		if err := log.Append(ev); err != nil {
			t.Fatalf("Append: unexpected error %v", err)
		}
	}

	// WHEN Drain is called
	events := log.Drain()

	// THEN events come back in append order and the log is empty
	if len(events) != 3 {
		t.Fatalf("Drain: got %d events, want 3", len(events))
	}
	want := []string{"first", "second", "third"}
	for i, ev := range events {
		if ev.Detail != want[i] {
			t.Errorf("Drain order[%d]: got %s, want %s", i, ev.Detail, want[i])
		}
	}
	if log.Len() != 0 {
		t.Errorf("Len after drain: got %d, want 0", log.Len())
	}
}

func TestEventLog_Append_RejectsMalformedEvent(t *testing.T) {
	log := NewEventLog()

	tests := []struct {
		name string
		ev   Event
	}{
		{"missing source", Event{Timestamp: time.Now(), Category: CategoryScore}},
		{"missing timestamp", Event{SourceID: "game-1", Category: CategoryScore}},
		{"unknown category", Event{Timestamp: time.Now(), SourceID: "game-1", Category: "halftime_show"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := log.Append(tt.ev)
			if err == nil {
				t.Fatal("Append accepted a malformed event")
			}
			if _, ok := err.(*ValidationError); !ok {
				t.Errorf("Append error type: got %T, want *ValidationError", err)
			}
		})
	}

	if log.Len() != 0 {
		t.Errorf("malformed events were buffered: Len = %d, want 0", log.Len())
	}
}

func TestEventLog_ConcurrentAppend_NoEventLost(t *testing.T) {
	// GIVEN 16 goroutines appending 250 events each
	log := NewEventLog()
	const goroutines = 16
	const perGoroutine = 250

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < perGoroutine; j++ {
				ev := NewEvent("game-1", CategoryScore, map[string]float64{PayloadPoints: 2})
				if err := log.Append(ev); err != nil {
					t.Errorf("concurrent Append: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	// THEN every append is visible in one drain
	if got := len(log.Drain()); got != goroutines*perGoroutine {
		t.Errorf("drained %d events, want %d", got, goroutines*perGoroutine)
	}
}

func TestEventLog_DrainDuringAppends_LosesNothing(t *testing.T) {
	// GIVEN concurrent appenders and a draining reader
	log := NewEventLog()
	const total = 2000

	var wg sync.WaitGroup
	wg.Add(1)
	go func() {
		defer wg.Done()
		for j := 0; j < total; j++ {
			_ = log.Append(NewEvent("game-1", CategoryFoul, nil))
		}
	}()

	var drained int
	for drained < total {
		drained += len(log.Drain())
	}
	wg.Wait()
	drained += len(log.Drain())

	// THEN appends and drains account for every event exactly once
	if drained != total {
		t.Errorf("accounted for %d events, want %d", drained, total)
	}
}
