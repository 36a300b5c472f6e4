package cmd

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"

	"github.com/hoopsim/hoopsim/sim"
)

// LeagueConfig is the YAML override surface for game and stadium tuning.
// Zero values leave the corresponding default untouched.
type LeagueConfig struct {
	GamesPerConference int     `yaml:"games_per_conference"`
	Workers            int     `yaml:"workers"`
	GracePeriodMS      int     `yaml:"grace_period_ms"`
	PlayoffBestOf      int     `yaml:"playoff_best_of"`
	PossessionsMin     int     `yaml:"possessions_min"`
	PossessionsMax     int     `yaml:"possessions_max"`
	RosterSize         int     `yaml:"roster_size"`
	HomeShootingBoost  float64 `yaml:"home_shooting_boost"`
	HomePossession     float64 `yaml:"home_possession_chance"`

	Operations map[string]OperationTuning `yaml:"operations"`
}

// OperationTuning overrides one stadium operation's randomization bounds.
type OperationTuning struct {
	MinIntervalMS   int `yaml:"min_interval_ms"`
	MaxIntervalMS   int `yaml:"max_interval_ms"`
	MaxTransactions int `yaml:"max_transactions"`
}

// ApplyLeagueConfig reads the YAML file and overlays it onto cfg.
func ApplyLeagueConfig(path string, cfg *sim.SimulationConfig) error {
	data, err := os.ReadFile(path)
	if err != nil {
		return fmt.Errorf("read league config: %w", err)
	}

	var lc LeagueConfig
	if err := yaml.Unmarshal(data, &lc); err != nil {
		return fmt.Errorf("parse league config: %w", err)
	}

	if lc.GamesPerConference > 0 {
		cfg.GamesPerConference = lc.GamesPerConference
	}
	if lc.Workers > 0 {
		cfg.Conference.Workers = lc.Workers
	}
	if lc.GracePeriodMS > 0 {
		cfg.Conference.Session.GracePeriod = time.Duration(lc.GracePeriodMS) * time.Millisecond
	}
	if lc.PlayoffBestOf > 0 {
		cfg.PlayoffBestOf = lc.PlayoffBestOf
	}

	game := &cfg.Conference.Session.Game
	if lc.PossessionsMin > 0 {
		game.PossessionsMin = lc.PossessionsMin
	}
	if lc.PossessionsMax > 0 {
		game.PossessionsMax = lc.PossessionsMax
	}
	if lc.RosterSize > 0 {
		game.RosterSize = lc.RosterSize
	}
	if lc.HomeShootingBoost > 0 {
		game.HomeShootingBoost = lc.HomeShootingBoost
	}
	if lc.HomePossession > 0 {
		game.HomePossessionChance = lc.HomePossession
	}

	for name, tuning := range lc.Operations {
		opType := sim.OperationType(name)
		oc, ok := cfg.Conference.Session.OperationBy[opType]
		if !ok {
			return fmt.Errorf("league config: unknown operation %q", name)
		}
		if tuning.MinIntervalMS > 0 {
			oc.MinInterval = time.Duration(tuning.MinIntervalMS) * time.Millisecond
		}
		if tuning.MaxIntervalMS > 0 {
			oc.MaxInterval = time.Duration(tuning.MaxIntervalMS) * time.Millisecond
		}
		if tuning.MaxTransactions > 0 {
			oc.MaxTransactions = tuning.MaxTransactions
		}
		cfg.Conference.Session.OperationBy[opType] = oc
	}

	return cfg.Validate()
}
