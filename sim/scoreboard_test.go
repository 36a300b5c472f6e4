package sim

import (
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func scoreEvent(gameID string, points float64) Event {
	return NewEvent(gameID, CategoryScore, map[string]float64{PayloadPoints: points})
}

func TestScoreboard_ApplyDelta_UpdatesCounterAndLog(t *testing.T) {
	log := NewEventLog()
	board := NewScoreboard(log)

	require.NoError(t, board.ApplyDelta("game-1", FieldHomeScore, 2, scoreEvent("game-1", 2)))
	require.NoError(t, board.ApplyDelta("game-1", FieldAwayScore, 3, scoreEvent("game-1", 3)))
	require.NoError(t, board.ApplyDelta("game-1", OperationField(OpConcessions), 5,
		NewEvent("game-1/concessions", CategoryConcessionSale, map[string]float64{PayloadQuantity: 5})))

	snap := board.Snapshot("game-1")
	assert.Equal(t, int64(2), snap.HomeScore)
	assert.Equal(t, int64(3), snap.AwayScore)
	assert.Equal(t, int64(5), snap.OperationTotals[OpConcessions])
	assert.Equal(t, 3, log.Len())
}

func TestScoreboard_ApplyDelta_RejectsUnknownField(t *testing.T) {
	board := NewScoreboard(NewEventLog())

	err := board.ApplyDelta("game-1", "popcorn_machine", 1, scoreEvent("game-1", 1))

	var vErr *ValidationError
	require.ErrorAs(t, err, &vErr)
	assert.Equal(t, "Field", vErr.Field)
}

func TestScoreboard_ApplyDelta_RejectsMalformedEventBeforeMutating(t *testing.T) {
	// GIVEN an event with no category
	log := NewEventLog()
	board := NewScoreboard(log)
	bad := Event{SourceID: "game-1"}

	// WHEN the combined operation is applied
	err := board.ApplyDelta("game-1", FieldHomeScore, 2, bad)

	// THEN neither the counter nor the log changed
	require.Error(t, err)
	assert.Equal(t, int64(0), board.Snapshot("game-1").HomeScore)
	assert.Equal(t, 0, log.Len())
}

func TestScoreboard_ConcurrentApplyDelta_NoLostUpdate(t *testing.T) {
	// GIVEN 8 goroutines each applying 500 increments of 2 to the same field
	log := NewEventLog()
	board := NewScoreboard(log)
	const goroutines = 8
	const increments = 500

	var wg sync.WaitGroup
	for i := 0; i < goroutines; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < increments; j++ {
				if err := board.ApplyDelta("game-1", FieldHomeScore, 2, scoreEvent("game-1", 2)); err != nil {
					t.Errorf("ApplyDelta: %v", err)
					return
				}
			}
		}()
	}
	wg.Wait()

	// THEN the counter equals N x v regardless of scheduling
	snap := board.Snapshot("game-1")
	assert.Equal(t, int64(goroutines*increments*2), snap.HomeScore)
	// AND the log saw exactly one event per delta
	assert.Equal(t, goroutines*increments, log.Len())
}

func TestScoreboard_Snapshot_IsIsolatedCopy(t *testing.T) {
	board := NewScoreboard(NewEventLog())
	require.NoError(t, board.ApplyDelta("game-1", OperationField(OpSecurity), 7,
		NewEvent("game-1/security", CategorySecurityEntry, nil)))

	snap := board.Snapshot("game-1")
	snap.OperationTotals[OpSecurity] = 999
	snap.HomeScore = 999

	fresh := board.Snapshot("game-1")
	assert.Equal(t, int64(7), fresh.OperationTotals[OpSecurity])
	assert.Equal(t, int64(0), fresh.HomeScore)
}

func TestScoreboard_Snapshot_UnknownGameIsZero(t *testing.T) {
	board := NewScoreboard(NewEventLog())

	snap := board.Snapshot("missing")

	assert.Equal(t, "missing", snap.GameID)
	assert.Zero(t, snap.HomeScore)
	assert.NotNil(t, snap.OperationTotals)
}

func TestScoreboard_ScoreEventsMatchDeltaOrder(t *testing.T) {
	// GIVEN a sequence of score deltas applied from one goroutine
	log := NewEventLog()
	board := NewScoreboard(log)
	points := []float64{2, 3, 1, 2, 3}
	for _, p := range points {
		require.NoError(t, board.ApplyDelta("game-1", FieldHomeScore, int64(p), scoreEvent("game-1", p)))
	}

	// THEN the log holds the score events in the same relative order
	events := log.Drain()
	require.Len(t, events, len(points))
	for i, ev := range events {
		assert.Equal(t, points[i], ev.Payload[PayloadPoints], "event %d out of order", i)
	}
}
