package report

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hoopsim/hoopsim/sim"
)

func sampleReport() sim.SimulationReport {
	return sim.SimulationReport{
		Conferences: []sim.ConferenceResult{
			{
				ConferenceID: sim.ConferenceEast,
				Games: []sim.GameResult{
					{
						GameID: "g1", Home: "Boston Celtics", Away: "Miami Heat",
						HomeScore: 104, AwayScore: 98, Winner: "Boston Celtics",
						Players: []sim.PlayerLine{
							{Name: "Marcus Carter", Team: "Boston Celtics", Points: 31},
							{Name: "Jalen Brooks", Team: "Miami Heat", Points: 24},
						},
					},
					{
						GameID: "g2", Home: "Chicago Bulls", Away: "Miami Heat",
						Failed: true, FailureReason: "worker panic: scoreboard caught fire",
					},
				},
				Stats: sim.ConferenceStats{
					GamesPlayed: 1,
					GamesFailed: 1,
					TotalPoints: 202,
					Wins:        map[string]int{"Boston Celtics": 1},
				},
			},
			{
				ConferenceID:  sim.ConferenceWest,
				Failed:        true,
				FailureReason: "execution unit crashed: out of memory",
			},
		},
		Stats: sim.ReportStats{
			Conferences:       2,
			FailedConferences: 1,
			Games:             1,
			FailedGames:       1,
			TotalPoints:       202,
			Wins:              map[string]int{"Boston Celtics": 1},
		},
		Duration:    3 * time.Second,
		GeneratedAt: time.Date(2026, time.April, 12, 10, 0, 0, 0, time.UTC),
	}
}

func TestWrite_IncludesScoresAndStandings(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "Boston Celtics 104 - 98 Miami Heat")
	assert.Contains(t, out, "winner: Boston Celtics")
	assert.Contains(t, out, "Standings:")
	assert.Contains(t, out, "1 wins")
	assert.Contains(t, out, "Total points scored: 202")
}

func TestWrite_EnumeratesFailuresExplicitly(t *testing.T) {
	var buf bytes.Buffer

	require.NoError(t, Write(&buf, sampleReport()))
	out := buf.String()

	assert.Contains(t, out, "FAILED GAME g2")
	assert.Contains(t, out, "worker panic: scoreboard caught fire")
	assert.Contains(t, out, "FAILED: execution unit crashed: out of memory")
	assert.Contains(t, out, "1 game(s) did not complete")
}

func TestWritePlayoffs_GroupsByRoundAndNamesChampion(t *testing.T) {
	res := sim.PlayoffResult{
		Series: []sim.SeriesResult{
			{Round: sim.RoundSemifinal, TeamA: "Boston Celtics", TeamB: "Chicago Bulls", WinsA: 2, WinsB: 1, Winner: "Boston Celtics"},
			{Round: sim.RoundSemifinal, TeamA: "Miami Heat", TeamB: "New York Knicks", WinsA: 0, WinsB: 2, Winner: "New York Knicks"},
			{Round: sim.RoundFinals, TeamA: "Boston Celtics", TeamB: "Utah Jazz", WinsA: 2, WinsB: 0, Winner: "Boston Celtics"},
		},
		Champion: "Boston Celtics",
	}
	var buf bytes.Buffer

	require.NoError(t, WritePlayoffs(&buf, res))
	out := buf.String()

	assert.Contains(t, out, sim.RoundSemifinal+":")
	assert.Contains(t, out, sim.RoundFinals+":")
	assert.Contains(t, out, "NBA CHAMPION: Boston Celtics")
	// Each round header appears once even with multiple series in it.
	assert.Equal(t, 1, strings.Count(out, sim.RoundSemifinal+":"))
}

func TestTopScorers_SumsAcrossGamesAndSorts(t *testing.T) {
	rep := sampleReport()
	rep.Conferences[0].Games = append(rep.Conferences[0].Games, sim.GameResult{
		GameID: "g3",
		Players: []sim.PlayerLine{
			{Name: "Jalen Brooks", Team: "Miami Heat", Points: 20},
		},
	})

	top := TopScorers(rep, 2)

	require.Len(t, top, 2)
	assert.Equal(t, "Jalen Brooks", top[0].Name)
	assert.Equal(t, int64(44), top[0].Points)
	assert.Equal(t, "Marcus Carter", top[1].Name)
}

func TestStandingsChart_RendersPNG(t *testing.T) {
	png, err := StandingsChart(sampleReport())
	require.NoError(t, err)

	// PNG magic bytes
	require.Greater(t, len(png), 8)
	assert.Equal(t, []byte{0x89, 'P', 'N', 'G'}, png[:4])
}

func TestStandingsChart_FailsWithNoWins(t *testing.T) {
	_, err := StandingsChart(sim.SimulationReport{})
	require.Error(t, err)
}

func TestShortTeamName(t *testing.T) {
	assert.Equal(t, "Celtics", shortTeamName("Boston Celtics"))
	assert.Equal(t, "Blazers", shortTeamName("Portland Trail Blazers"))
	assert.Equal(t, "Mononym", shortTeamName("Mononym"))
}
