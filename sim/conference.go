package sim

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/sirupsen/logrus"
)

// ConferenceRunner executes all games of one conference on a bounded worker
// pool. Excess games queue rather than spawning unboundedly. Results are
// sorted by gameID before aggregation so completion order never leaks into
// reports.
type ConferenceRunner struct {
	cfg      ConferenceConfig
	key      SimulationKey
	archiver Archiver

	// runSession is the session execution seam; tests swap it to inject
	// failures and completion-order skew.
	runSession func(ctx context.Context, game ScheduledGame) (GameResult, error)
}

// NewConferenceRunner creates a runner with the default session factory.
func NewConferenceRunner(cfg ConferenceConfig, key SimulationKey, archiver Archiver) *ConferenceRunner {
	r := &ConferenceRunner{cfg: cfg, key: key, archiver: archiver}
	r.runSession = func(ctx context.Context, game ScheduledGame) (GameResult, error) {
		return NewGameSession(game, cfg.Session, key, archiver).Run(ctx)
	}
	return r
}

// Run plays every scheduled game and returns the conference result. A game
// that fails is isolated as a failed marker; sibling games are unaffected.
func (r *ConferenceRunner) Run(ctx context.Context, sched ConferenceSchedule) ConferenceResult {
	workers := r.cfg.PoolSize()
	if workers > len(sched.Games) && len(sched.Games) > 0 {
		workers = len(sched.Games)
	}
	logrus.Infof("conference %s: %d games on %d workers", sched.ConferenceID, len(sched.Games), workers)

	jobs := make(chan ScheduledGame)
	results := make(chan GameResult)

	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for game := range jobs {
				results <- r.runOne(ctx, sched.ConferenceID, game)
			}
		}()
	}
	go func() {
		for _, game := range sched.Games {
			jobs <- game
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	games := make([]GameResult, 0, len(sched.Games))
	for res := range results {
		games = append(games, res)
	}
	sort.Slice(games, func(i, j int) bool { return games[i].GameID < games[j].GameID })

	return ConferenceResult{
		ConferenceID: sched.ConferenceID,
		Games:        games,
		Stats:        aggregateConference(games),
	}
}

// runOne executes a single session, converting any error or panic into a
// failed-game marker.
func (r *ConferenceRunner) runOne(ctx context.Context, conferenceID string, game ScheduledGame) (result GameResult) {
	defer func() {
		if rec := recover(); rec != nil {
			logrus.Errorf("game %s (%s vs %s) worker panicked: %v", game.GameID, game.Home.Name, game.Away.Name, rec)
			result = failedGame(conferenceID, game, fmt.Sprintf("worker panic: %v", rec))
		}
	}()

	res, err := r.runSession(ctx, game)
	if err != nil {
		logrus.Errorf("game %s (%s vs %s) failed: %v", game.GameID, game.Home.Name, game.Away.Name, err)
		return failedGame(conferenceID, game, err.Error())
	}
	res.Conference = conferenceID
	return res
}

func failedGame(conferenceID string, game ScheduledGame, reason string) GameResult {
	return GameResult{
		GameID:        game.GameID,
		Conference:    conferenceID,
		Home:          game.Home.Name,
		Away:          game.Away.Name,
		Arena:         game.Arena,
		Date:          game.Date,
		Failed:        true,
		FailureReason: reason,
	}
}
