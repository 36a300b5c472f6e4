package sim

import "sync"

// Field names a counter on a ScoreboardEntry.
type Field string

const (
	FieldHomeScore Field = "home_score"
	FieldAwayScore Field = "away_score"
	FieldQuarter   Field = "quarter"
)

const operationFieldPrefix = "op/"

// OperationField returns the counter field for a stadium operation's running
// total.
func OperationField(op OperationType) Field {
	return Field(operationFieldPrefix + string(op))
}

// ScoreboardEntry is the mutable per-game aggregate. It is exclusively owned
// by the Scoreboard; callers only ever see copies via Snapshot.
type ScoreboardEntry struct {
	GameID          string
	HomeScore       int64
	AwayScore       int64
	Quarter         int64
	OperationTotals map[OperationType]int64
}

func (e *ScoreboardEntry) clone() ScoreboardEntry {
	cp := *e
	cp.OperationTotals = make(map[OperationType]int64, len(e.OperationTotals))
	for op, v := range e.OperationTotals {
		cp.OperationTotals[op] = v
	}
	return cp
}

// Scoreboard is the thread-safe mutable aggregate of per-game counters.
// Every mutation goes through ApplyDelta, which serializes concurrent
// callers and appends the corresponding event to the log inside the same
// critical section, so the log order of score events matches the order the
// deltas were applied.
type Scoreboard struct {
	mu      sync.Mutex
	log     *EventLog
	entries map[string]*ScoreboardEntry
}

// NewScoreboard creates a scoreboard whose deltas are mirrored into log.
func NewScoreboard(log *EventLog) *Scoreboard {
	return &Scoreboard{
		log:     log,
		entries: make(map[string]*ScoreboardEntry),
	}
}

// ApplyDelta atomically adds delta to the named counter for gameID and
// appends ev to the event log as a single combined operation. The event is
// validated before any state changes, so a rejected event leaves both the
// counter and the log untouched.
func (sb *Scoreboard) ApplyDelta(gameID string, field Field, delta int64, ev Event) error {
	if gameID == "" {
		return &ValidationError{Field: "GameID", Reason: "must not be empty"}
	}
	if err := ev.Validate(); err != nil {
		return err
	}

	sb.mu.Lock()
	defer sb.mu.Unlock()

	entry, ok := sb.entries[gameID]
	if !ok {
		entry = &ScoreboardEntry{
			GameID:          gameID,
			OperationTotals: make(map[OperationType]int64),
		}
		sb.entries[gameID] = entry
	}

	switch field {
	case FieldHomeScore:
		entry.HomeScore += delta
	case FieldAwayScore:
		entry.AwayScore += delta
	case FieldQuarter:
		entry.Quarter += delta
	default:
		op, ok := cutOperationField(field)
		if !ok {
			return &ValidationError{Field: "Field", Reason: "unknown field " + string(field)}
		}
		entry.OperationTotals[op] += delta
	}

	// Appending while holding the scoreboard lock keeps the log in the same
	// relative order as the counter updates.
	return sb.log.Append(ev)
}

// Snapshot returns a consistent point-in-time copy of the entry for gameID.
// An unknown gameID yields a zero entry.
func (sb *Scoreboard) Snapshot(gameID string) ScoreboardEntry {
	sb.mu.Lock()
	defer sb.mu.Unlock()

	entry, ok := sb.entries[gameID]
	if !ok {
		return ScoreboardEntry{GameID: gameID, OperationTotals: map[OperationType]int64{}}
	}
	return entry.clone()
}

func cutOperationField(f Field) (OperationType, bool) {
	s := string(f)
	if len(s) <= len(operationFieldPrefix) || s[:len(operationFieldPrefix)] != operationFieldPrefix {
		return "", false
	}
	return OperationType(s[len(operationFieldPrefix):]), true
}
