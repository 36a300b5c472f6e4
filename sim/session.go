package sim

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/sirupsen/logrus"
)

// GameSession orchestrates one game: the simulator goroutine plus one
// goroutine per stadium operation, all sharing a session-local EventLog and
// Scoreboard. The session joins the simulator first (which closes the
// game-over channel), then waits for the operations with a bounded grace
// period; a straggler is forcibly treated as finished with a warning.
type GameSession struct {
	game     ScheduledGame
	cfg      SessionConfig
	key      SimulationKey
	archiver Archiver
}

// NewGameSession creates a session for one fixture.
func NewGameSession(game ScheduledGame, cfg SessionConfig, key SimulationKey, archiver Archiver) *GameSession {
	if archiver == nil {
		archiver = NopArchiver{}
	}
	return &GameSession{game: game, cfg: cfg, key: key, archiver: archiver}
}

// Run executes the session to completion and returns the merged GameResult.
// A simulator failure is returned as an error for the caller to isolate;
// stadium-operation failures never escape the session.
func (s *GameSession) Run(ctx context.Context) (GameResult, error) {
	log := NewEventLog()
	board := NewScoreboard(log)

	gameOver := make(chan struct{})
	var closeOnce sync.Once
	signalGameOver := func() { closeOnce.Do(func() { close(gameOver) }) }
	// The simulator signals game over on every exit path; this guard covers
	// a panicking simulator so operations never wait forever.
	defer signalGameOver()

	simulator := NewGameSimulator(
		s.game,
		s.cfg.Game,
		s.key.Rand(SubsystemGame(s.game.GameID)),
		s.key.Rand(SubsystemRoster(s.game.GameID)),
		board,
		log,
	)

	type simReply struct {
		outcome GameOutcome
		err     error
	}
	simDone := make(chan simReply, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				signalGameOver()
				simDone <- simReply{err: fmt.Errorf("game simulator panicked: %v", r)}
			}
		}()
		outcome, err := simulator.Run(signalGameOver)
		simDone <- simReply{outcome: outcome, err: err}
	}()

	opDone := make(chan OperationSummary, len(s.cfg.Operations))
	for _, opType := range s.cfg.Operations {
		op := NewStadiumOperation(
			s.game.GameID,
			s.game.Arena,
			opType,
			s.cfg.OperationBy[opType],
			s.key.Rand(SubsystemOperation(s.game.GameID, opType)),
			board,
		)
		go func() {
			defer func() {
				if r := recover(); r != nil {
					logrus.Errorf("%s operation panicked at %s: %v", op.Type(), s.game.Arena, r)
					opDone <- OperationSummary{Type: op.Type(), Forced: true, Breakdown: map[string]int64{}}
				}
			}()
			opDone <- op.Run(gameOver)
		}()
	}

	reply := <-simDone
	if reply.err != nil {
		return GameResult{}, reply.err
	}

	summaries, warnings := s.joinOperations(opDone)

	result := GameResult{
		GameID:     s.game.GameID,
		Home:       s.game.Home.Name,
		Away:       s.game.Away.Name,
		Arena:      s.game.Arena,
		Date:       s.game.Date,
		HomeScore:  reply.outcome.HomeScore,
		AwayScore:  reply.outcome.AwayScore,
		Winner:     reply.outcome.Winner,
		Quarters:   reply.outcome.Quarters,
		Overtimes:  reply.outcome.Overtimes,
		Operations: summaries,
		Players:    reply.outcome.Players,
		Warnings:   warnings,
	}

	// Flush the session-local log to the persistence collaborator. Storage
	// trouble is a warning on the result, never a failed game.
	events := log.Drain()
	result.EventCount = len(events)
	if err := s.archiver.SaveEvents(ctx, events); err != nil {
		logrus.Errorf("persisting events for game %s: %v", s.game.GameID, err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("event persistence failed: %v", err))
	}
	if err := s.archiver.SaveGame(ctx, result); err != nil {
		logrus.Errorf("persisting result for game %s: %v", s.game.GameID, err)
		result.Warnings = append(result.Warnings, fmt.Sprintf("result persistence failed: %v", err))
	}

	return result, nil
}

// joinOperations collects one summary per configured operation, sharing a
// single grace-period deadline. Operations that miss it are forcibly marked
// finished; the game result is unaffected because stadium counters are
// independent of the final score.
func (s *GameSession) joinOperations(opDone <-chan OperationSummary) ([]OperationSummary, []string) {
	var warnings []string
	summaries := make([]OperationSummary, 0, len(s.cfg.Operations))

	deadline := time.NewTimer(s.cfg.GracePeriod)
	defer deadline.Stop()

	received := make(map[OperationType]bool, len(s.cfg.Operations))
	for range s.cfg.Operations {
		select {
		case summary := <-opDone:
			received[summary.Type] = true
			summaries = append(summaries, summary)
		case <-deadline.C:
			for _, opType := range s.cfg.Operations {
				if !received[opType] {
					logrus.Warnf("%s operation at %s missed the %s grace period, forcing finished",
						opType, s.game.Arena, s.cfg.GracePeriod)
					warnings = append(warnings, fmt.Sprintf("operation %s forced finished after grace period", opType))
					summaries = append(summaries, OperationSummary{
						Type:      opType,
						Forced:    true,
						Breakdown: map[string]int64{},
					})
				}
			}
			return summaries, warnings
		}
	}
	return summaries, warnings
}
