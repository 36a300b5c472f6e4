package cmd

import (
	"context"
	"os"
	"path/filepath"
	"time"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/hoopsim/hoopsim/sim"
	"github.com/hoopsim/hoopsim/sim/report"
	"github.com/hoopsim/hoopsim/sim/store"
)

var (
	// CLI flags for the season run
	seed        int64  // Seed for all randomized behavior
	games       int    // Games per conference
	workers     int    // Bounded worker-pool size per conference
	gracePeriod time.Duration
	logLevel    string // Log verbosity level
	leagueFile  string // Optional YAML league config
	dbPath      string // SQLite database path ("" disables persistence)
	chartPath   string // PNG standings chart output ("" disables)
	playoffs    bool   // Simulate the postseason after the regular season
)

// rootCmd is the base command for the CLI
var rootCmd = &cobra.Command{
	Use:   "hoopsim",
	Short: "Concurrent NBA season and stadium-operations simulator",
}

// runCmd executes the simulation using parameters from CLI flags
var runCmd = &cobra.Command{
	Use:   "run",
	Short: "Run the season simulation",
	Run: func(cmd *cobra.Command, args []string) {
		// Set up logging
		level, err := logrus.ParseLevel(logLevel)
		if err != nil {
			logrus.Fatalf("Invalid log level: %s", logLevel)
		}
		logrus.SetLevel(level)

		cfg := sim.DefaultSimulationConfig()
		cfg.Seed = seed
		cfg.GamesPerConference = games
		cfg.Conference.Workers = workers
		cfg.Conference.Session.GracePeriod = gracePeriod

		if leagueFile != "" {
			if err := ApplyLeagueConfig(leagueFile, &cfg); err != nil {
				logrus.Fatalf("unable to read league config: %v", err)
			}
		}

		var archiver sim.Archiver = sim.NopArchiver{}
		var db *store.Store
		if dbPath != "" {
			db, err = store.Open(dbPath)
			if err != nil {
				logrus.Fatalf("unable to open database: %v", err)
			}
			defer func() { _ = db.Close() }()
			archiver = db
		}

		coordinator, err := sim.NewSimulationCoordinator(cfg, archiver)
		if err != nil {
			logrus.Fatalf("invalid configuration: %v", err)
		}

		schedules, err := sim.GenerateLeagueSchedules(cfg)
		if err != nil {
			logrus.Fatalf("unable to generate schedules: %v", err)
		}

		ctx := context.Background()
		rep, err := coordinator.Run(ctx, schedules)
		if err != nil {
			logrus.Fatalf("simulation failed: %v", err)
		}

		if err := report.Write(os.Stdout, rep); err != nil {
			logrus.Errorf("writing report: %v", err)
		}

		if playoffs {
			runner, err := sim.NewPlayoffRunner(cfg.Conference.Session, sim.NewSimulationKey(cfg.Seed), cfg.PlayoffBestOf, archiver)
			if err != nil {
				logrus.Fatalf("invalid playoff configuration: %v", err)
			}
			bracket, err := runner.Run(ctx, rep)
			if err != nil {
				logrus.Errorf("playoffs failed: %v", err)
			} else {
				if err := report.WritePlayoffs(os.Stdout, bracket); err != nil {
					logrus.Errorf("writing playoff report: %v", err)
				}
				if db != nil {
					if err := db.SavePlayoffs(ctx, bracket); err != nil {
						logrus.Errorf("persisting playoffs: %v", err)
					}
				}
			}
		}

		if chartPath != "" {
			png, err := report.StandingsChart(rep)
			if err != nil {
				logrus.Errorf("rendering standings chart: %v", err)
			} else if err := os.WriteFile(filepath.Clean(chartPath), png, 0o644); err != nil {
				logrus.Errorf("writing standings chart: %v", err)
			} else {
				logrus.Infof("standings chart written to %s", chartPath)
			}
		}

		logrus.Info("Simulation complete.")
	},
}

// Execute runs the CLI root command
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}

// init sets up CLI flags and subcommands
func init() {
	runCmd.Flags().Int64Var(&seed, "seed", 42, "Seed for schedule and game randomization")
	runCmd.Flags().IntVar(&games, "games", 8, "Games per conference")
	runCmd.Flags().IntVar(&workers, "workers", 0, "Worker-pool size per conference (0 = GOMAXPROCS)")
	runCmd.Flags().DurationVar(&gracePeriod, "grace-period", 2*time.Second, "Wait for stadium operations after game over")
	runCmd.Flags().StringVar(&logLevel, "log", "info", "Log level (trace, debug, info, warn, error, fatal, panic)")
	runCmd.Flags().StringVar(&leagueFile, "league-config", "", "YAML file overriding game and operation tuning")
	runCmd.Flags().StringVar(&dbPath, "db", "", "SQLite database path (empty disables persistence)")
	runCmd.Flags().StringVar(&chartPath, "chart", "", "Write a PNG standings chart to this path")
	runCmd.Flags().BoolVar(&playoffs, "playoffs", false, "Simulate the playoffs after the regular season")

	rootCmd.AddCommand(runCmd)
}
