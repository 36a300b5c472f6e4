package sim

import "time"

// Category classifies a simulation event.
type Category string

const (
	CategoryScore           Category = "score"
	CategoryFoul            Category = "foul"
	CategorySecurityEntry   Category = "security_entry"
	CategoryConcessionSale  Category = "concession_sale"
	CategoryMerchandiseSale Category = "merchandise_sale"
	CategoryQuarterEnd      Category = "quarter_end"
	CategoryGameEnd         Category = "game_end"
)

// Well-known payload keys.
const (
	PayloadPoints   = "points"
	PayloadQuantity = "quantity"
	PayloadAmount   = "amount"
	PayloadQuarter  = "quarter"
	PayloadHome     = "home"
	PayloadAway     = "away"
	PayloadShots    = "shots"
)

var knownCategories = map[Category]struct{}{
	CategoryScore:           {},
	CategoryFoul:            {},
	CategorySecurityEntry:   {},
	CategoryConcessionSale:  {},
	CategoryMerchandiseSale: {},
	CategoryQuarterEnd:      {},
	CategoryGameEnd:         {},
}

// Event is a single timestamped occurrence during a simulation.
// Events are immutable once created and owned by the EventLog after a
// successful Append.
type Event struct {
	Timestamp time.Time
	SourceID  string             // game ID, or "<gameID>/<operation>" for stadium activity
	Category  Category
	Payload   map[string]float64 // semantic numeric fields ("points", "amount", ...)
	Detail    string             // optional free-form detail (player, product, entry lane)
}

// NewEvent creates an event stamped with the current wall-clock time.
func NewEvent(sourceID string, category Category, payload map[string]float64) Event {
	return Event{
		Timestamp: time.Now(),
		SourceID:  sourceID,
		Category:  category,
		Payload:   payload,
	}
}

// Validate rejects events missing a required field. Malformed events are
// reported to the caller at the append boundary, never silently dropped.
func (e Event) Validate() error {
	if e.SourceID == "" {
		return &ValidationError{Field: "SourceID", Reason: "must not be empty"}
	}
	if e.Timestamp.IsZero() {
		return &ValidationError{Field: "Timestamp", Reason: "must be set"}
	}
	if _, ok := knownCategories[e.Category]; !ok {
		return &ValidationError{Field: "Category", Reason: "unknown category " + string(e.Category)}
	}
	return nil
}
