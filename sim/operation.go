package sim

import (
	"math/rand"
	"sort"
	"sync/atomic"
	"time"

	"github.com/sirupsen/logrus"
)

// OperationType names a background stadium activity.
type OperationType string

const (
	OpSecurity    OperationType = "security"
	OpConcessions OperationType = "concessions"
	OpMerchandise OperationType = "merchandise"
)

// OperationState is the lifecycle of a StadiumOperation.
type OperationState int32

const (
	OperationIdle OperationState = iota
	OperationRunning
	OperationFinished
)

// Entry lanes for security screening: weight is the share of fans using the
// lane.
var securityLanes = []struct {
	Lane   string
	Weight float64
}{
	{"VIP", 0.1},
	{"Season", 0.3},
	{"Regular", 0.6},
}

var concessionPrices = map[string]float64{
	"Hot Dogs":  8.50,
	"Beverages": 6.00,
	"Popcorn":   7.50,
	"Nachos":    9.00,
	"Pizza":     10.50,
}

var merchandisePrices = map[string]float64{
	"Jersey":     120.00,
	"Cap":        35.00,
	"T-shirt":    45.00,
	"Basketball": 60.00,
	"Poster":     25.00,
}

// StadiumOperation is one independently running arena activity that
// generates randomized transactions alongside a game, updating the shared
// scoreboard and event log through the combined ApplyDelta operation.
//
// The operation polls the game-over channel between transactions and
// terminates within one polling interval of the signal. It never mutates
// another operation's counters.
type StadiumOperation struct {
	gameID string
	arena  string
	opType OperationType
	cfg    OperationConfig
	rng    *rand.Rand
	board  *Scoreboard

	state    atomic.Int32
	catalog  []string // stable iteration order for deterministic draws
	prices   map[string]float64
	quantity func(*rand.Rand) int64
}

// NewStadiumOperation creates an operation of the given type. The caller
// provides the RNG so runs are reproducible per (game, operation).
func NewStadiumOperation(gameID, arena string, opType OperationType, cfg OperationConfig, rng *rand.Rand, board *Scoreboard) *StadiumOperation {
	op := &StadiumOperation{
		gameID: gameID,
		arena:  arena,
		opType: opType,
		cfg:    cfg,
		rng:    rng,
		board:  board,
	}
	switch opType {
	case OpConcessions:
		op.catalog = sortedKeys(concessionPrices)
		op.prices = concessionPrices
		op.quantity = func(r *rand.Rand) int64 { return int64(1 + r.Intn(3)) }
	case OpMerchandise:
		op.catalog = sortedKeys(merchandisePrices)
		op.prices = merchandisePrices
		op.quantity = func(r *rand.Rand) int64 { return int64(1 + r.Intn(2)) }
	}
	return op
}

// Type returns the operation's type.
func (o *StadiumOperation) Type() OperationType { return o.opType }

// State returns the current lifecycle state.
func (o *StadiumOperation) State() OperationState {
	return OperationState(o.state.Load())
}

// Run processes transactions until the cap is reached or gameOver is closed,
// then returns the summary. Cancellation is cooperative: the channel is
// checked before every pause and transaction.
func (o *StadiumOperation) Run(gameOver <-chan struct{}) OperationSummary {
	o.state.Store(int32(OperationRunning))
	defer o.state.Store(int32(OperationFinished))

	logrus.Debugf("starting %s at %s", o.opType, o.arena)

	summary := OperationSummary{
		Type:      o.opType,
		Breakdown: make(map[string]int64),
	}

	for summary.Processed < int64(o.cfg.MaxTransactions) {
		select {
		case <-gameOver:
			return summary
		default:
		}

		if wait := o.nextInterval(); wait > 0 {
			select {
			case <-gameOver:
				return summary
			case <-time.After(wait):
			}
		}

		if err := o.transact(&summary); err != nil {
			// A rejected delta indicates a programming error in the
			// transaction, not a reason to abort the session.
			logrus.Errorf("%s operation at %s: %v", o.opType, o.arena, err)
		}
	}

	logrus.Debugf("%s completed at %s: %d processed", o.opType, o.arena, summary.Processed)
	return summary
}

func (o *StadiumOperation) nextInterval() time.Duration {
	spread := o.cfg.MaxInterval - o.cfg.MinInterval
	if spread <= 0 {
		return o.cfg.MinInterval
	}
	return o.cfg.MinInterval + time.Duration(o.rng.Int63n(int64(spread)))
}

// transact generates one synthetic transaction and applies it as a combined
// counter update plus event append.
func (o *StadiumOperation) transact(summary *OperationSummary) error {
	sourceID := o.gameID + "/" + string(o.opType)

	switch o.opType {
	case OpSecurity:
		lane := o.pickLane()
		summary.Processed++
		summary.Breakdown[lane]++
		ev := NewEvent(sourceID, CategorySecurityEntry, map[string]float64{PayloadQuantity: 1})
		ev.Detail = lane
		return o.board.ApplyDelta(o.gameID, OperationField(o.opType), 1, ev)

	case OpConcessions, OpMerchandise:
		item := o.catalog[o.rng.Intn(len(o.catalog))]
		qty := o.quantity(o.rng)
		amount := o.prices[item] * float64(qty)
		summary.Processed += qty
		summary.Breakdown[item] += qty
		summary.Revenue += amount
		category := CategoryConcessionSale
		if o.opType == OpMerchandise {
			category = CategoryMerchandiseSale
		}
		ev := NewEvent(sourceID, category, map[string]float64{
			PayloadQuantity: float64(qty),
			PayloadAmount:   amount,
		})
		ev.Detail = item
		return o.board.ApplyDelta(o.gameID, OperationField(o.opType), qty, ev)
	}
	return &ValidationError{Field: "OperationType", Reason: "unknown type " + string(o.opType)}
}

func (o *StadiumOperation) pickLane() string {
	roll := o.rng.Float64()
	acc := 0.0
	for _, lane := range securityLanes {
		acc += lane.Weight
		if roll < acc {
			return lane.Lane
		}
	}
	return securityLanes[len(securityLanes)-1].Lane
}

func sortedKeys(m map[string]float64) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
