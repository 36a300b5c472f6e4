package sim

import "sync"

// EventLog is a thread-safe sink for timestamped simulation events.
// Append holds the lock only long enough to validate ownership and grow the
// buffer; Drain atomically removes and returns everything buffered so far.
// No event is lost between a successful Append and a later Drain.
type EventLog struct {
	mu     sync.Mutex
	events []Event
}

// NewEventLog creates an empty event log.
func NewEventLog() *EventLog {
	return &EventLog{}
}

// Append validates and buffers one event. Safe for concurrent callers.
// A malformed event is rejected with a ValidationError.
func (l *EventLog) Append(e Event) error {
	if err := e.Validate(); err != nil {
		return err
	}
	l.mu.Lock()
	l.events = append(l.events, e)
	l.mu.Unlock()
	return nil
}

// Drain atomically removes and returns all currently buffered events, in
// append order. Used at completion boundaries to flush to the persistence
// collaborator.
func (l *EventLog) Drain() []Event {
	l.mu.Lock()
	drained := l.events
	l.events = nil
	l.mu.Unlock()
	return drained
}

// Len returns the number of currently buffered events.
func (l *EventLog) Len() int {
	l.mu.Lock()
	n := len(l.events)
	l.mu.Unlock()
	return n
}
