package sim

import (
	"context"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGameSession_Run_ProducesCompleteResult(t *testing.T) {
	// GIVEN a session with the game and all three stadium operations
	game := testGame(0)
	archiver := &capturingArchiver{}
	session := NewGameSession(game, fastSessionConfig(), NewSimulationKey(42), archiver)

	// WHEN the session runs to completion
	result, err := session.Run(context.Background())
	require.NoError(t, err)

	// THEN the result merges game outcome and one summary per operation
	assert.Equal(t, game.GameID, result.GameID)
	assert.NotEqual(t, result.HomeScore, result.AwayScore)
	assert.NotEmpty(t, result.Winner)
	assert.Len(t, result.Operations, 3)
	assert.False(t, result.Failed)

	// AND every drained event was handed to the archiver
	assert.Equal(t, result.EventCount, len(archiver.allEvents()))
	assert.Positive(t, result.EventCount)
	require.Len(t, archiver.games, 1)
	assert.Equal(t, result.GameID, archiver.games[0].GameID)
}

func TestGameSession_AllEventsBelongToTheGame(t *testing.T) {
	game := testGame(1)
	archiver := &capturingArchiver{}
	session := NewGameSession(game, fastSessionConfig(), NewSimulationKey(42), archiver)

	_, err := session.Run(context.Background())
	require.NoError(t, err)

	// Game events carry the gameID, operation events gameID/opType.
	for _, ev := range archiver.allEvents() {
		assert.True(t, strings.HasPrefix(ev.SourceID, game.GameID),
			"event source %q is not scoped to game %s", ev.SourceID, game.GameID)
	}
}

func TestGameSession_OperationTotalsSurviveIntoResult(t *testing.T) {
	cfg := fastSessionConfig()
	session := NewGameSession(testGame(2), cfg, NewSimulationKey(42), nil)

	result, err := session.Run(context.Background())
	require.NoError(t, err)

	byType := make(map[OperationType]OperationSummary)
	for _, s := range result.Operations {
		byType[s.Type] = s
	}
	require.Len(t, byType, 3, "each operation reports exactly once")
	for _, opType := range cfg.Operations {
		summary, ok := byType[opType]
		require.True(t, ok, "missing summary for %s", opType)
		if !summary.Forced {
			assert.Equal(t, int64(cfg.OperationBy[opType].MaxTransactions), summary.Processed,
				"%s should reach its cap with zero intervals", opType)
		}
	}
}

func TestGameSession_ZeroGracePeriodStillReturnsValidResult(t *testing.T) {
	// A zero grace period forces stragglers immediately; the session must
	// still return a coherent, non-failed result in bounded time.
	cfg := fastSessionConfig()
	cfg.GracePeriod = 0
	session := NewGameSession(testGame(3), cfg, NewSimulationKey(42), nil)

	type reply struct {
		result GameResult
		err    error
	}
	done := make(chan reply, 1)
	go func() {
		result, err := session.Run(context.Background())
		done <- reply{result, err}
	}()

	select {
	case r := <-done:
		require.NoError(t, r.err)
		result := r.result
		assert.False(t, result.Failed)
		assert.Len(t, result.Operations, 3)
		assert.NotEmpty(t, result.Winner)
	case <-time.After(10 * time.Second):
		t.Fatal("session did not finish with zero grace period")
	}
}

func TestGameSession_PersistenceFailureIsWarningNotError(t *testing.T) {
	session := NewGameSession(testGame(4), fastSessionConfig(), NewSimulationKey(42), failingArchiver{})

	result, err := session.Run(context.Background())

	require.NoError(t, err)
	assert.False(t, result.Failed)
	require.NotEmpty(t, result.Warnings)
	assert.Contains(t, result.Warnings[0], "persistence failed")
}

func TestGameSession_DeterministicEventCount(t *testing.T) {
	// Same key, same fixture: identical event counts and scores
	run := func() GameResult {
		session := NewGameSession(testGame(5), fastSessionConfig(), NewSimulationKey(99), nil)
		result, err := session.Run(context.Background())
		require.NoError(t, err)
		return result
	}

	first := run()
	second := run()

	assert.Equal(t, first.EventCount, second.EventCount)
	assert.Equal(t, first.HomeScore, second.HomeScore)
	assert.Equal(t, first.AwayScore, second.AwayScore)
}
