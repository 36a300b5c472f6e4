package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/sirupsen/logrus"
)

// GamePhase is the lifecycle of a GameSimulator.
type GamePhase int32

const (
	GameNotStarted GamePhase = iota
	GameInProgress
	GameFinished
)

// Shot-type baselines. Player skill modeling is a non-goal; every player
// shoots at the league-average rate plus the home-court boost.
const (
	baseTwoPointPct   = 0.45
	baseThreePointPct = 0.35
	baseFreeThrowPct  = 0.75

	baseDefensiveReboundPct  = 0.70
	threeDefensiveReboundPct = 0.75

	assistChanceTwoPoint   = 0.60
	assistChanceThreePoint = 0.80
)

// playWeights is the possession outcome distribution.
var playWeights = []struct {
	play   string
	weight float64
}{
	{"2PT", 0.46},
	{"3PT", 0.24},
	{"FT", 0.10},
	{"TO", 0.10},
	{"STEAL", 0.05},
	{"BLOCK", 0.05},
}

// GameOutcome is the simulator's view of a finished game, before the session
// merges in stadium-operation summaries.
type GameOutcome struct {
	HomeScore int64
	AwayScore int64
	Winner    string
	Quarters  []QuarterScore
	Overtimes int
	Players   []PlayerLine
}

// GameSimulator drives quarter-by-quarter play for a single game. It owns
// its RNG and rosters; all shared state goes through the scoreboard's
// combined delta+log operation.
type GameSimulator struct {
	game  ScheduledGame
	cfg   GameConfig
	rng   *rand.Rand
	board *Scoreboard
	log   *EventLog

	phase    GamePhase
	home     []*PlayerLine
	away     []*PlayerLine
	quarters []QuarterScore

	// Running totals mirror the scoreboard so quarter diffs need no snapshot
	// arithmetic; the board remains the source of truth for the final score.
	homePts int64
	awayPts int64
}

// NewGameSimulator creates a simulator for one fixture. gameRNG drives play,
// rosterRNG generates the two rosters.
func NewGameSimulator(game ScheduledGame, cfg GameConfig, gameRNG, rosterRNG *rand.Rand, board *Scoreboard, log *EventLog) *GameSimulator {
	return &GameSimulator{
		game:  game,
		cfg:   cfg,
		rng:   gameRNG,
		board: board,
		log:   log,
		home:  generateRoster(game.Home, cfg.RosterSize, rosterRNG),
		away:  generateRoster(game.Away, cfg.RosterSize, rosterRNG),
	}
}

// Phase returns the simulator's lifecycle phase.
func (g *GameSimulator) Phase() GamePhase { return g.phase }

// Run simulates four quarters plus overtime periods until the score is
// untied, calls gameOver to signal the stadium operations, and returns the
// outcome computed from the final scoreboard snapshot.
func (g *GameSimulator) Run(gameOver func()) (GameOutcome, error) {
	g.phase = GameInProgress
	logrus.Infof("[%s vs %s] tip-off at %s", g.game.Home.Name, g.game.Away.Name, g.game.Arena)

	for quarter := 1; quarter <= 4; quarter++ {
		if err := g.simulateQuarter(fmt.Sprintf("Q%d", quarter)); err != nil {
			gameOver()
			return GameOutcome{}, err
		}
		if quarter < 4 && g.cfg.QuarterBreak > 0 {
			time.Sleep(g.cfg.QuarterBreak)
		}
	}

	// Exactly one overtime period at a time, repeated until untied.
	overtimes := 0
	for g.homePts == g.awayPts {
		overtimes++
		logrus.Infof("[%s vs %s] tied at %d, overtime %d", g.game.Home.Name, g.game.Away.Name, g.homePts, overtimes)
		if err := g.simulateQuarter(fmt.Sprintf("OT%d", overtimes)); err != nil {
			gameOver()
			return GameOutcome{}, err
		}
	}

	gameOver()
	g.phase = GameFinished

	final := g.board.Snapshot(g.game.GameID)
	winner := g.game.Home.Name
	if final.AwayScore > final.HomeScore {
		winner = g.game.Away.Name
	}

	endEv := NewEvent(g.game.GameID, CategoryGameEnd, map[string]float64{
		PayloadHome: float64(final.HomeScore),
		PayloadAway: float64(final.AwayScore),
	})
	endEv.Detail = winner
	if err := g.log.Append(endEv); err != nil {
		return GameOutcome{}, err
	}

	logrus.Infof("[%s vs %s] final %d-%d, winner %s",
		g.game.Home.Name, g.game.Away.Name, final.HomeScore, final.AwayScore, winner)

	return GameOutcome{
		HomeScore: final.HomeScore,
		AwayScore: final.AwayScore,
		Winner:    winner,
		Quarters:  g.quarters,
		Overtimes: overtimes,
		Players:   g.playerLines(),
	}, nil
}

func (g *GameSimulator) simulateQuarter(label string) error {
	startHome, startAway := g.homePts, g.awayPts

	possessions := g.cfg.PossessionsMin
	if spread := g.cfg.PossessionsMax - g.cfg.PossessionsMin; spread > 0 {
		possessions += g.rng.Intn(spread + 1)
	}

	for p := 0; p < possessions; p++ {
		if err := g.simulatePossession(); err != nil {
			return err
		}
		if g.cfg.PacePerPossession > 0 {
			time.Sleep(g.cfg.PacePerPossession)
		}
	}

	g.quarters = append(g.quarters, QuarterScore{
		Label: label,
		Home:  g.homePts - startHome,
		Away:  g.awayPts - startAway,
	})

	ev := NewEvent(g.game.GameID, CategoryQuarterEnd, map[string]float64{
		PayloadQuarter: float64(len(g.quarters)),
		PayloadHome:    float64(g.homePts),
		PayloadAway:    float64(g.awayPts),
	})
	ev.Detail = label
	if err := g.board.ApplyDelta(g.game.GameID, FieldQuarter, 1, ev); err != nil {
		return err
	}

	logrus.Debugf("[%s vs %s] %s ended %d-%d",
		g.game.Home.Name, g.game.Away.Name, label, g.homePts, g.awayPts)
	return nil
}

func (g *GameSimulator) simulatePossession() error {
	homeOffense := g.rng.Float64() < g.cfg.HomePossessionChance
	offense, defense := g.home, g.away
	if !homeOffense {
		offense, defense = g.away, g.home
	}
	shooter := offense[g.rng.Intn(len(offense))]
	defender := defense[g.rng.Intn(len(defense))]

	switch g.pickPlay() {
	case "2PT":
		return g.fieldGoal(shooter, offense, defense, homeOffense, 2)
	case "3PT":
		return g.fieldGoal(shooter, offense, defense, homeOffense, 3)
	case "FT":
		return g.freeThrows(shooter, defender, homeOffense)
	case "TO":
		shooter.Turnovers++
		logrus.Debugf("%s turns the ball over", shooter.Name)
	case "STEAL":
		defender.Steals++
		shooter.Turnovers++
		logrus.Debugf("%s steals the ball from %s", defender.Name, shooter.Name)
	case "BLOCK":
		defender.Blocks++
		logrus.Debugf("%s blocks %s's shot", defender.Name, shooter.Name)
	}
	return nil
}

func (g *GameSimulator) pickPlay() string {
	roll := g.rng.Float64()
	acc := 0.0
	for _, pw := range playWeights {
		acc += pw.weight
		if roll < acc {
			return pw.play
		}
	}
	return playWeights[len(playWeights)-1].play
}

// fieldGoal resolves a two- or three-point attempt, including assist and
// rebound attribution.
func (g *GameSimulator) fieldGoal(shooter *PlayerLine, offense, defense []*PlayerLine, homeOffense bool, points int64) error {
	pct := baseTwoPointPct
	assistChance := assistChanceTwoPoint
	defReboundPct := baseDefensiveReboundPct
	if points == 3 {
		pct = baseThreePointPct
		assistChance = assistChanceThreePoint
		defReboundPct = threeDefensiveReboundPct
	}
	if homeOffense {
		pct += g.cfg.HomeShootingBoost
	}

	if g.rng.Float64() >= pct {
		// Missed shot: rebound battle, tilted toward the home defense.
		if points == 2 {
			if homeOffense {
				defReboundPct -= g.cfg.HomeReboundBoost
			} else {
				defReboundPct += g.cfg.HomeReboundBoost
			}
		}
		rebounders := defense
		if g.rng.Float64() >= defReboundPct {
			rebounders = offense
		}
		rebounder := rebounders[g.rng.Intn(len(rebounders))]
		rebounder.Rebounds++
		logrus.Debugf("%s misses, %s rebounds", shooter.Name, rebounder.Name)
		return nil
	}

	shooter.Points += points
	if points == 3 {
		shooter.ThreePt++
	} else {
		shooter.TwoPt++
	}
	detail := shooter.Name
	if g.rng.Float64() < assistChance {
		assister := offense[g.rng.Intn(len(offense))]
		if assister != shooter {
			assister.Assists++
			detail = fmt.Sprintf("%s (assist %s)", shooter.Name, assister.Name)
		}
	}

	ev := NewEvent(g.game.GameID, CategoryScore, map[string]float64{PayloadPoints: float64(points)})
	ev.Detail = detail
	return g.applyScore(homeOffense, points, ev)
}

// freeThrows resolves a shooting foul: a foul event on the defender, then
// one to three attempts at half the home shooting boost.
func (g *GameSimulator) freeThrows(shooter, defender *PlayerLine, homeOffense bool) error {
	foul := NewEvent(g.game.GameID, CategoryFoul, map[string]float64{PayloadQuantity: 1})
	foul.Detail = defender.Name
	if err := g.log.Append(foul); err != nil {
		return err
	}

	pct := baseFreeThrowPct
	if homeOffense {
		pct += g.cfg.HomeShootingBoost / 2
	}
	shots := 1 + g.rng.Intn(3)
	var made int64
	for i := 0; i < shots; i++ {
		if g.rng.Float64() < pct {
			made++
		}
	}
	logrus.Debugf("%s makes %d of %d free throws", shooter.Name, made, shots)
	if made == 0 {
		return nil
	}

	shooter.Points += made
	shooter.FreeThrows += made
	ev := NewEvent(g.game.GameID, CategoryScore, map[string]float64{
		PayloadPoints: float64(made),
		PayloadShots:  float64(shots),
	})
	ev.Detail = shooter.Name
	return g.applyScore(homeOffense, made, ev)
}

func (g *GameSimulator) applyScore(homeOffense bool, points int64, ev Event) error {
	field := FieldAwayScore
	if homeOffense {
		field = FieldHomeScore
		g.homePts += points
	} else {
		g.awayPts += points
	}
	return g.board.ApplyDelta(g.game.GameID, field, points, ev)
}

func (g *GameSimulator) playerLines() []PlayerLine {
	lines := make([]PlayerLine, 0, len(g.home)+len(g.away))
	for _, p := range g.home {
		lines = append(lines, *p)
	}
	for _, p := range g.away {
		lines = append(lines, *p)
	}
	return lines
}
