package report

import (
	"bytes"
	"fmt"
	"sort"

	"github.com/wcharczuk/go-chart/v2"

	"github.com/hoopsim/hoopsim/sim"
)

const maxChartBars = 12

// StandingsChart renders a PNG bar chart of the winningest teams across the
// whole league.
func StandingsChart(rep sim.SimulationReport) ([]byte, error) {
	type row struct {
		team string
		wins int
	}
	rows := make([]row, 0, len(rep.Stats.Wins))
	for team, wins := range rep.Stats.Wins {
		rows = append(rows, row{team, wins})
	}
	if len(rows) == 0 {
		return nil, fmt.Errorf("no completed games to chart")
	}
	sort.Slice(rows, func(i, j int) bool {
		if rows[i].wins != rows[j].wins {
			return rows[i].wins > rows[j].wins
		}
		return rows[i].team < rows[j].team
	})
	if len(rows) > maxChartBars {
		rows = rows[:maxChartBars]
	}

	bars := make([]chart.Value, 0, len(rows))
	for _, r := range rows {
		bars = append(bars, chart.Value{
			Label: shortTeamName(r.team),
			Value: float64(r.wins),
		})
	}

	graph := chart.BarChart{
		Title:    "Season Wins",
		Width:    1024,
		Height:   512,
		BarWidth: 60,
		Bars:     bars,
	}

	var buf bytes.Buffer
	if err := graph.Render(chart.PNG, &buf); err != nil {
		return nil, fmt.Errorf("render standings chart: %w", err)
	}
	return buf.Bytes(), nil
}

// shortTeamName keeps bar labels readable ("Boston Celtics" -> "Celtics").
func shortTeamName(name string) string {
	for i := len(name) - 1; i >= 0; i-- {
		if name[i] == ' ' {
			return name[i+1:]
		}
	}
	return name
}
