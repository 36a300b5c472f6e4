package sim

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/sirupsen/logrus"
)

// SimulationCoordinator fans conference execution out to isolated execution
// units. Units share no mutable state: each builds its own runner (and, per
// session, its own EventLog and Scoreboard) and communicates only by sending
// an immutable ConferenceResult back. A crashed unit becomes a failed
// conference marker; the rest of the simulation completes with partial data.
type SimulationCoordinator struct {
	cfg      SimulationConfig
	archiver Archiver

	// runConference is the unit execution seam; tests swap it to simulate a
	// crashing unit.
	runConference func(ctx context.Context, sched ConferenceSchedule) ConferenceResult
}

// NewSimulationCoordinator validates the configuration and creates the
// top-level driver.
func NewSimulationCoordinator(cfg SimulationConfig, archiver Archiver) (*SimulationCoordinator, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	if archiver == nil {
		archiver = NopArchiver{}
	}
	c := &SimulationCoordinator{cfg: cfg, archiver: archiver}
	key := NewSimulationKey(cfg.Seed)
	c.runConference = func(ctx context.Context, sched ConferenceSchedule) ConferenceResult {
		return NewConferenceRunner(cfg.Conference, key, archiver).Run(ctx, sched)
	}
	return c, nil
}

// Run executes every conference in parallel, collects the results in any
// order, sorts them by conferenceID, and hands the finished report to the
// persistence collaborator.
func (c *SimulationCoordinator) Run(ctx context.Context, schedules []ConferenceSchedule) (SimulationReport, error) {
	if len(schedules) == 0 {
		return SimulationReport{}, &ValidationError{Field: "Schedules", Reason: "must not be empty"}
	}
	start := time.Now()
	logrus.Infof("starting simulation: %d conferences, seed %d", len(schedules), c.cfg.Seed)

	units := make(chan ConferenceResult, len(schedules))
	for _, sched := range schedules {
		go func(sched ConferenceSchedule) {
			defer func() {
				if rec := recover(); rec != nil {
					logrus.Errorf("conference %s execution unit crashed: %v", sched.ConferenceID, rec)
					units <- ConferenceResult{
						ConferenceID:  sched.ConferenceID,
						Failed:        true,
						FailureReason: fmt.Sprintf("execution unit crashed: %v", rec),
					}
				}
			}()
			units <- c.runConference(ctx, sched)
		}(sched)
	}

	conferences := make([]ConferenceResult, 0, len(schedules))
	for range schedules {
		conferences = append(conferences, <-units)
	}
	sort.Slice(conferences, func(i, j int) bool {
		return conferences[i].ConferenceID < conferences[j].ConferenceID
	})

	report := SimulationReport{
		Conferences: conferences,
		Stats:       aggregateReport(conferences),
		Duration:    time.Since(start),
		GeneratedAt: time.Now(),
	}

	if err := c.archiver.SaveReport(ctx, report); err != nil {
		logrus.Errorf("persisting simulation report: %v", err)
	}

	logrus.Infof("simulation finished in %s: %d games, %d failed conferences",
		report.Duration, report.Stats.Games, report.Stats.FailedConferences)
	return report, nil
}
