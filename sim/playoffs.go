package sim

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/google/uuid"
	"github.com/sirupsen/logrus"
)

// Playoff round labels.
const (
	RoundSemifinal       = "Conference Semifinal"
	RoundConferenceFinal = "Conference Final"
	RoundFinals          = "NBA Finals"
)

// SeriesResult is one best-of-N playoff series.
type SeriesResult struct {
	Round  string
	Name   string // e.g. "eastern Conference Semifinal: A (1) vs B (4)"
	TeamA  string // higher seed, holds home court
	TeamB  string
	WinsA  int
	WinsB  int
	Winner string
	Games  []GameResult
}

// PlayoffResult is the immutable outcome of a full postseason bracket.
type PlayoffResult struct {
	Series       []SeriesResult
	EastChampion string
	WestChampion string
	Champion     string
}

// PlayoffRunner simulates the postseason from regular-season standings:
// the top four teams of each conference by wins, seeded 1v4 and 2v3, play
// best-of-N series through conference finals and the NBA finals. Series
// reuse the GameSession machinery; the two conference brackets run
// concurrently, games within a series run sequentially.
type PlayoffRunner struct {
	cfg      SessionConfig
	key      SimulationKey
	bestOf   int
	archiver Archiver
}

// NewPlayoffRunner creates a postseason runner. bestOf must be odd.
func NewPlayoffRunner(cfg SessionConfig, key SimulationKey, bestOf int, archiver Archiver) (*PlayoffRunner, error) {
	if bestOf <= 0 || bestOf%2 == 0 {
		return nil, &ValidationError{Field: "BestOf", Reason: "series length must be odd and positive"}
	}
	if archiver == nil {
		archiver = NopArchiver{}
	}
	return &PlayoffRunner{cfg: cfg, key: key, bestOf: bestOf, archiver: archiver}, nil
}

// Run plays the full bracket from the regular-season report.
func (p *PlayoffRunner) Run(ctx context.Context, report SimulationReport) (PlayoffResult, error) {
	result := PlayoffResult{}
	champions := make([]string, 2)
	brackets := make([][]SeriesResult, 2)
	errs := make([]error, 2)

	var wg sync.WaitGroup
	for i, conf := range report.Conferences {
		if i >= 2 {
			break
		}
		wg.Add(1)
		go func(slot int, conf ConferenceResult) {
			defer wg.Done()
			champion, series, err := p.runConferenceBracket(ctx, conf)
			champions[slot], brackets[slot], errs[slot] = champion, series, err
		}(i, conf)
	}
	wg.Wait()

	for _, err := range errs {
		if err != nil {
			return PlayoffResult{}, err
		}
	}
	if len(report.Conferences) < 2 {
		return PlayoffResult{}, &ValidationError{Field: "Conferences", Reason: "playoffs need two conferences"}
	}

	result.EastChampion, result.WestChampion = champions[0], champions[1]
	result.Series = append(result.Series, brackets[0]...)
	result.Series = append(result.Series, brackets[1]...)

	finals, err := p.runSeries(ctx, RoundFinals, RoundFinals, result.EastChampion, result.WestChampion)
	if err != nil {
		return PlayoffResult{}, err
	}
	result.Series = append(result.Series, finals)
	result.Champion = finals.Winner

	logrus.Infof("playoffs complete: %s are the champions", result.Champion)
	return result, nil
}

// runConferenceBracket seeds the top four and plays semifinals then the
// conference final, returning the conference champion.
func (p *PlayoffRunner) runConferenceBracket(ctx context.Context, conf ConferenceResult) (string, []SeriesResult, error) {
	seeds := topSeeds(conf, 4)
	if len(seeds) < 4 {
		return "", nil, &ValidationError{
			Field:  "Standings",
			Reason: fmt.Sprintf("conference %s has %d ranked teams, need 4", conf.ConferenceID, len(seeds)),
		}
	}

	var series []SeriesResult
	semi1, err := p.runSeries(ctx, RoundSemifinal, conf.ConferenceID, seeds[0], seeds[3])
	if err != nil {
		return "", nil, err
	}
	semi2, err := p.runSeries(ctx, RoundSemifinal, conf.ConferenceID, seeds[1], seeds[2])
	if err != nil {
		return "", nil, err
	}
	final, err := p.runSeries(ctx, RoundConferenceFinal, conf.ConferenceID, semi1.Winner, semi2.Winner)
	if err != nil {
		return "", nil, err
	}
	series = append(series, semi1, semi2, final)
	return final.Winner, series, nil
}

// runSeries plays games until one side reaches the series majority. Home
// court follows the 2-2-1-1-1 format for the higher seed.
func (p *PlayoffRunner) runSeries(ctx context.Context, round, bracket, teamA, teamB string) (SeriesResult, error) {
	series := SeriesResult{
		Round: round,
		Name:  fmt.Sprintf("%s %s: %s vs %s", bracket, round, teamA, teamB),
		TeamA: teamA,
		TeamB: teamB,
	}
	home, okA := TeamByName(teamA)
	away, okB := TeamByName(teamB)
	if !okA || !okB {
		return series, &ValidationError{Field: "Teams", Reason: "unknown playoff team"}
	}

	needed := p.bestOf/2 + 1
	replays := 0
	for gameNum := 1; series.WinsA < needed && series.WinsB < needed; gameNum++ {
		hostsA := gameNum == 1 || gameNum == 2 || gameNum == 5 || gameNum == 7
		host, visitor := home, away
		if !hostsA {
			host, visitor = away, home
		}

		game := ScheduledGame{
			GameID: uuid.NewSHA1(uuid.NameSpaceOID, []byte(fmt.Sprintf("playoffs/%s/%d", series.Name, gameNum))).String(),
			Home:   host,
			Away:   visitor,
			Arena:  host.Arena,
			Date:   DefaultSeasonStart.AddDate(0, 6, gameNum),
		}

		res, err := NewGameSession(game, p.cfg, p.key, p.archiver).Run(ctx)
		if err != nil {
			// A lost playoff game cannot be skipped like a regular-season
			// one; replay it rather than corrupt the series record.
			replays++
			if replays > 3 {
				return series, fmt.Errorf("series %q: too many failed games: %w", series.Name, err)
			}
			logrus.Errorf("playoff game %d of %q failed, replaying: %v", gameNum, series.Name, err)
			gameNum--
			continue
		}
		res.Conference = bracket
		series.Games = append(series.Games, res)
		if res.Winner == teamA {
			series.WinsA++
		} else {
			series.WinsB++
		}
		logrus.Infof("%s game %d: %s %d-%d %s (series %d-%d)",
			series.Name, gameNum, res.Home, res.HomeScore, res.AwayScore, res.Away, series.WinsA, series.WinsB)
	}

	series.Winner = teamA
	if series.WinsB > series.WinsA {
		series.Winner = teamB
	}
	return series, nil
}

// topSeeds ranks a conference's teams by regular-season wins, breaking ties
// alphabetically for determinism.
func topSeeds(conf ConferenceResult, n int) []string {
	type record struct {
		team string
		wins int
	}
	records := make([]record, 0, len(conf.Stats.Wins))
	for team, wins := range conf.Stats.Wins {
		records = append(records, record{team, wins})
	}
	sort.Slice(records, func(i, j int) bool {
		if records[i].wins != records[j].wins {
			return records[i].wins > records[j].wins
		}
		return records[i].team < records[j].team
	})
	if len(records) > n {
		records = records[:n]
	}
	seeds := make([]string, len(records))
	for i, r := range records {
		seeds[i] = r.team
	}
	return seeds
}
