package sim

import (
	"runtime"
	"time"
)

// Home-court advantage defaults. These are the single source for the
// probabilistic home bias; game play never uses inline literals.
const (
	// DefaultHomeShootingBoost is added to the home team's per-shot success
	// chance (free throws get half of it).
	DefaultHomeShootingBoost = 0.03
	// DefaultHomePossessionChance is the chance the home team gets a given
	// possession.
	DefaultHomePossessionChance = 0.52
	// DefaultHomeReboundBoost shifts defensive rebound chance toward the
	// home side.
	DefaultHomeReboundBoost = 0.05
)

// GameConfig groups game-play parameters for NewGameSimulator.
type GameConfig struct {
	PossessionsMin       int           // lower bound of possessions per quarter (must be > 0)
	PossessionsMax       int           // upper bound of possessions per quarter
	HomeShootingBoost    float64       // home per-shot success bonus
	HomePossessionChance float64       // chance home team gets a possession
	HomeReboundBoost     float64       // home defensive rebound bonus
	PacePerPossession    time.Duration // real-time delay between possessions (0 in tests)
	QuarterBreak         time.Duration // real-time pause between quarters
	RosterSize           int           // players generated per team
}

// DefaultGameConfig returns the game tuning used for a full season run.
func DefaultGameConfig() GameConfig {
	return GameConfig{
		PossessionsMin:       20,
		PossessionsMax:       30,
		HomeShootingBoost:    DefaultHomeShootingBoost,
		HomePossessionChance: DefaultHomePossessionChance,
		HomeReboundBoost:     DefaultHomeReboundBoost,
		PacePerPossession:    2 * time.Millisecond,
		QuarterBreak:         5 * time.Millisecond,
		RosterSize:           10,
	}
}

// OperationConfig groups randomization bounds for one stadium operation.
type OperationConfig struct {
	MinInterval     time.Duration // shortest pause between transactions
	MaxInterval     time.Duration // longest pause between transactions
	MaxTransactions int           // hard cap; the operation finishes once reached
}

// DefaultOperationConfigs returns per-type bounds matching the arena
// behavior of a real game night: security is the fastest lane, merchandise
// the slowest.
func DefaultOperationConfigs() map[OperationType]OperationConfig {
	return map[OperationType]OperationConfig{
		OpSecurity:    {MinInterval: 5 * time.Millisecond, MaxInterval: 50 * time.Millisecond, MaxTransactions: 500},
		OpConcessions: {MinInterval: 10 * time.Millisecond, MaxInterval: 80 * time.Millisecond, MaxTransactions: 200},
		OpMerchandise: {MinInterval: 10 * time.Millisecond, MaxInterval: 100 * time.Millisecond, MaxTransactions: 100},
	}
}

// SessionConfig groups everything one GameSession needs beyond its game.
type SessionConfig struct {
	Game        GameConfig
	Operations  []OperationType                   // which stadium operations run alongside the game
	OperationBy map[OperationType]OperationConfig // per-type randomization bounds
	GracePeriod time.Duration                     // wait after game-over before forcing operations finished
}

// DefaultSessionConfig returns a session with all three stadium operations.
func DefaultSessionConfig() SessionConfig {
	return SessionConfig{
		Game:        DefaultGameConfig(),
		Operations:  []OperationType{OpSecurity, OpConcessions, OpMerchandise},
		OperationBy: DefaultOperationConfigs(),
		GracePeriod: 2 * time.Second,
	}
}

// ConferenceConfig groups worker-pool sizing for one conference's games.
type ConferenceConfig struct {
	Workers int // bounded pool size; <= 0 means runtime.GOMAXPROCS(0)
	Session SessionConfig
}

// PoolSize resolves the effective worker count.
func (c ConferenceConfig) PoolSize() int {
	if c.Workers > 0 {
		return c.Workers
	}
	return runtime.GOMAXPROCS(0)
}

// SimulationConfig is the full injected configuration surface of the engine.
type SimulationConfig struct {
	Seed               int64
	GamesPerConference int
	Conference         ConferenceConfig
	PlayoffBestOf      int // series length for playoff rounds (odd)
}

// DefaultSimulationConfig returns a small but complete season setup.
func DefaultSimulationConfig() SimulationConfig {
	return SimulationConfig{
		Seed:               42,
		GamesPerConference: 8,
		Conference: ConferenceConfig{
			Workers: runtime.GOMAXPROCS(0),
			Session: DefaultSessionConfig(),
		},
		PlayoffBestOf: 7,
	}
}

// Validate rejects configuration that cannot drive a simulation.
func (c SimulationConfig) Validate() error {
	if c.GamesPerConference <= 0 {
		return &ValidationError{Field: "GamesPerConference", Reason: "must be positive"}
	}
	g := c.Conference.Session.Game
	if g.PossessionsMin <= 0 || g.PossessionsMax < g.PossessionsMin {
		return &ValidationError{Field: "Possessions", Reason: "bounds must satisfy 0 < min <= max"}
	}
	if g.HomePossessionChance < 0 || g.HomePossessionChance > 1 {
		return &ValidationError{Field: "HomePossessionChance", Reason: "must be within [0,1]"}
	}
	if g.RosterSize <= 1 {
		return &ValidationError{Field: "RosterSize", Reason: "need at least two players per team"}
	}
	for op, oc := range c.Conference.Session.OperationBy {
		if oc.MaxInterval < oc.MinInterval {
			return &ValidationError{Field: "OperationBy." + string(op), Reason: "max interval below min"}
		}
		if oc.MaxTransactions <= 0 {
			return &ValidationError{Field: "OperationBy." + string(op), Reason: "max transactions must be positive"}
		}
	}
	if c.PlayoffBestOf != 0 && c.PlayoffBestOf%2 == 0 {
		return &ValidationError{Field: "PlayoffBestOf", Reason: "series length must be odd"}
	}
	return nil
}
