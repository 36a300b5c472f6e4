package sim

import (
	"context"
	"errors"
	"sync"
	"time"
)

// fastGameConfig returns tuning that finishes a game in a few milliseconds.
func fastGameConfig() GameConfig {
	cfg := DefaultGameConfig()
	cfg.PacePerPossession = 0
	cfg.QuarterBreak = 0
	return cfg
}

// fastSessionConfig runs all operations with no pauses and small caps. The
// game keeps a tiny pace so the zero-interval operations always reach their
// caps before the game-over signal.
func fastSessionConfig() SessionConfig {
	game := fastGameConfig()
	game.PacePerPossession = 200 * time.Microsecond
	return SessionConfig{
		Game:       game,
		Operations: []OperationType{OpSecurity, OpConcessions, OpMerchandise},
		OperationBy: map[OperationType]OperationConfig{
			OpSecurity:    {MaxTransactions: 40},
			OpConcessions: {MaxTransactions: 30},
			OpMerchandise: {MaxTransactions: 20},
		},
		GracePeriod: time.Second,
	}
}

func fastSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Seed:               42,
		GamesPerConference: 4,
		Conference: ConferenceConfig{
			Workers: 2,
			Session: fastSessionConfig(),
		},
		PlayoffBestOf: 3,
	}
}

// testGame returns a deterministic fixture between two Eastern teams.
func testGame(seq int) ScheduledGame {
	east := EasternTeams()
	home := east[seq%len(east)]
	away := east[(seq+1)%len(east)]
	return ScheduledGame{
		GameID: gameUUID("test", seq, home, away),
		Home:   home,
		Away:   away,
		Arena:  home.Arena,
		Date:   DefaultSeasonStart,
	}
}

// capturingArchiver records everything it is handed, for assertions.
type capturingArchiver struct {
	mu      sync.Mutex
	events  []Event
	games   []GameResult
	reports []SimulationReport
}

func (a *capturingArchiver) SaveEvents(_ context.Context, events []Event) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.events = append(a.events, events...)
	return nil
}

func (a *capturingArchiver) SaveGame(_ context.Context, result GameResult) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.games = append(a.games, result)
	return nil
}

func (a *capturingArchiver) SaveReport(_ context.Context, report SimulationReport) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.reports = append(a.reports, report)
	return nil
}

// failingArchiver simulates a broken persistence layer.
type failingArchiver struct{}

func (failingArchiver) SaveEvents(context.Context, []Event) error {
	return errors.New("disk full")
}

func (failingArchiver) SaveGame(context.Context, GameResult) error {
	return errors.New("disk full")
}

func (failingArchiver) SaveReport(context.Context, SimulationReport) error {
	return errors.New("disk full")
}

func (a *capturingArchiver) allEvents() []Event {
	a.mu.Lock()
	defer a.mu.Unlock()
	out := make([]Event, len(a.events))
	copy(out, a.events)
	return out
}
