package sim

import "time"

// QuarterScore is the per-period scoring line of one game.
type QuarterScore struct {
	Label string // "Q1".."Q4", "OT1", ...
	Home  int64
	Away  int64
}

// PlayerLine accumulates one player's box-score stats for a single game.
type PlayerLine struct {
	Name       string
	Team       string
	Points     int64
	TwoPt      int64
	ThreePt    int64
	FreeThrows int64
	Rebounds   int64
	Assists    int64
	Steals     int64
	Blocks     int64
	Turnovers  int64
}

// OperationSummary reports what one stadium operation processed during a
// game.
type OperationSummary struct {
	Type      OperationType
	Processed int64            // transactions (fans, items) handled
	Revenue   float64          // dollars taken in (zero for security)
	Breakdown map[string]int64 // per-lane / per-product counts
	Forced    bool             // true if the operation missed the grace period
}

// GameResult is the immutable outcome of one completed GameSession.
// Failed results carry a reason instead of scores.
type GameResult struct {
	GameID        string
	Conference    string
	Home          string
	Away          string
	Arena         string
	Date          time.Time
	HomeScore     int64
	AwayScore     int64
	Winner        string
	Quarters      []QuarterScore
	Overtimes     int
	Operations    []OperationSummary
	Players       []PlayerLine
	EventCount    int      // events drained from the session-local log
	Warnings      []string // non-fatal issues (grace-period timeouts, persistence errors)
	Failed        bool
	FailureReason string
}

// ConferenceStats aggregates one conference's completed games.
type ConferenceStats struct {
	GamesPlayed        int
	GamesFailed        int
	TotalPoints        int64
	TotalEvents        int64
	OperationRevenue   float64
	OperationProcessed map[OperationType]int64
	Wins               map[string]int
}

// ConferenceResult is the immutable outcome of one ConferenceRunner, with
// games in deterministic gameID order regardless of completion order.
type ConferenceResult struct {
	ConferenceID  string
	Games         []GameResult
	Stats         ConferenceStats
	Failed        bool
	FailureReason string
}

// ReportStats aggregates the whole simulation for the final report.
type ReportStats struct {
	Conferences       int
	FailedConferences int
	Games             int
	FailedGames       int
	TotalPoints       int64
	TotalEvents       int64
	OperationRevenue  float64
	Wins              map[string]int
}

// SimulationReport is the final immutable value handed to the persistence
// and report collaborators. Conferences are sorted by conferenceID.
type SimulationReport struct {
	Conferences []ConferenceResult
	Stats       ReportStats
	Duration    time.Duration
	GeneratedAt time.Time
}

// FailedGames enumerates every failed game marker across all conferences,
// so reports can list them explicitly rather than omit them.
func (r SimulationReport) FailedGames() []GameResult {
	var failed []GameResult
	for _, conf := range r.Conferences {
		for _, g := range conf.Games {
			if g.Failed {
				failed = append(failed, g)
			}
		}
	}
	return failed
}

func aggregateConference(games []GameResult) ConferenceStats {
	stats := ConferenceStats{
		OperationProcessed: make(map[OperationType]int64),
		Wins:               make(map[string]int),
	}
	for _, g := range games {
		if g.Failed {
			stats.GamesFailed++
			continue
		}
		stats.GamesPlayed++
		stats.TotalPoints += g.HomeScore + g.AwayScore
		stats.TotalEvents += int64(g.EventCount)
		if g.Winner != "" {
			stats.Wins[g.Winner]++
		}
		for _, op := range g.Operations {
			stats.OperationRevenue += op.Revenue
			stats.OperationProcessed[op.Type] += op.Processed
		}
	}
	return stats
}

func aggregateReport(conferences []ConferenceResult) ReportStats {
	stats := ReportStats{Wins: make(map[string]int)}
	for _, conf := range conferences {
		stats.Conferences++
		if conf.Failed {
			stats.FailedConferences++
			continue
		}
		stats.Games += conf.Stats.GamesPlayed
		stats.FailedGames += conf.Stats.GamesFailed
		stats.TotalPoints += conf.Stats.TotalPoints
		stats.TotalEvents += conf.Stats.TotalEvents
		stats.OperationRevenue += conf.Stats.OperationRevenue
		for team, wins := range conf.Stats.Wins {
			stats.Wins[team] += wins
		}
	}
	return stats
}
