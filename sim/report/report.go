// Package report renders finished simulation reports for humans: a plain
// text season summary and a PNG standings chart. It only ever reads the
// immutable report values produced by the engine.
package report

import (
	"fmt"
	"io"
	"sort"

	"github.com/hoopsim/hoopsim/sim"
)

// Write renders the season report as plain text. Failed games and
// conferences are enumerated explicitly, never silently omitted.
func Write(w io.Writer, rep sim.SimulationReport) error {
	fmt.Fprintln(w, "===== NBA SIMULATION REPORT =====")
	fmt.Fprintf(w, "Generated: %s\n", rep.GeneratedAt.Format("2006-01-02 15:04:05"))
	fmt.Fprintf(w, "Wall clock: %s\n", rep.Duration.Round(0))
	fmt.Fprintf(w, "Conferences: %d (%d failed)\n", rep.Stats.Conferences, rep.Stats.FailedConferences)
	fmt.Fprintf(w, "Games: %d completed, %d failed\n", rep.Stats.Games, rep.Stats.FailedGames)
	fmt.Fprintf(w, "Total points scored: %d\n", rep.Stats.TotalPoints)
	fmt.Fprintf(w, "Total events logged: %d\n", rep.Stats.TotalEvents)
	fmt.Fprintf(w, "Stadium revenue: $%.2f\n", rep.Stats.OperationRevenue)

	for _, conf := range rep.Conferences {
		fmt.Fprintf(w, "\n--- Conference: %s ---\n", conf.ConferenceID)
		if conf.Failed {
			fmt.Fprintf(w, "FAILED: %s\n", conf.FailureReason)
			continue
		}
		writeStandings(w, conf)
		for _, g := range conf.Games {
			if g.Failed {
				fmt.Fprintf(w, "FAILED GAME %s (%s vs %s): %s\n", g.GameID, g.Home, g.Away, g.FailureReason)
				continue
			}
			line := fmt.Sprintf("%s %d - %d %s", g.Home, g.HomeScore, g.AwayScore, g.Away)
			if g.Overtimes > 0 {
				line += fmt.Sprintf(" (%d OT)", g.Overtimes)
			}
			fmt.Fprintf(w, "%s | winner: %s\n", line, g.Winner)
		}
	}

	if failed := rep.FailedGames(); len(failed) > 0 {
		fmt.Fprintf(w, "\n%d game(s) did not complete:\n", len(failed))
		for _, g := range failed {
			fmt.Fprintf(w, "  %s: %s\n", g.GameID, g.FailureReason)
		}
	}

	fmt.Fprintln(w, "\n=================================")
	return nil
}

func writeStandings(w io.Writer, conf sim.ConferenceResult) {
	type row struct {
		team string
		wins int
	}
	rows := make([]row, 0, len(conf.Stats.Wins))
	for team, wins := range conf.Stats.Wins {
		rows = append(rows, row{team, wins})
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].wins != rows[j].wins {
			return rows[i].wins > rows[j].wins
		}
		return rows[i].team < rows[j].team
	})
	fmt.Fprintln(w, "Standings:")
	for i, r := range rows {
		fmt.Fprintf(w, "  %2d. %-28s %d wins\n", i+1, r.team, r.wins)
	}
}

// WritePlayoffs renders the postseason bracket results.
func WritePlayoffs(w io.Writer, res sim.PlayoffResult) error {
	fmt.Fprintln(w, "===== NBA PLAYOFFS =====")
	currentRound := ""
	for _, s := range res.Series {
		if s.Round != currentRound {
			fmt.Fprintf(w, "\n%s:\n", s.Round)
			currentRound = s.Round
		}
		fmt.Fprintf(w, "  %s vs %s: %d-%d (%s wins)\n", s.TeamA, s.TeamB, s.WinsA, s.WinsB, s.Winner)
	}
	fmt.Fprintf(w, "\nNBA CHAMPION: %s\n", res.Champion)
	return nil
}

// TopScorers extracts the n highest-scoring player lines from the report,
// summed across games.
func TopScorers(rep sim.SimulationReport, n int) []sim.PlayerLine {
	totals := make(map[string]*sim.PlayerLine)
	for _, conf := range rep.Conferences {
		for _, g := range conf.Games {
			for _, p := range g.Players {
				agg, ok := totals[p.Name+"/"+p.Team]
				if !ok {
					line := sim.PlayerLine{Name: p.Name, Team: p.Team}
					agg = &line
					totals[p.Name+"/"+p.Team] = agg
				}
				agg.Points += p.Points
				agg.Rebounds += p.Rebounds
				agg.Assists += p.Assists
			}
		}
	}
	lines := make([]sim.PlayerLine, 0, len(totals))
	for _, p := range totals {
		lines = append(lines, *p)
	}
	sort.Slice(lines, func(i, j int) bool {
		if lines[i].Points != lines[j].Points {
			return lines[i].Points > lines[j].Points
		}
		return lines[i].Name < lines[j].Name
	})
	if len(lines) > n {
		lines = lines[:n]
	}
	return lines
}
