package sim

import (
	"fmt"
	"math/rand"
	"time"

	"github.com/google/uuid"
)

// ScheduledGame is one fixture on a conference schedule.
type ScheduledGame struct {
	GameID string
	Home   Team
	Away   Team
	Arena  string
	Date   time.Time
}

// ConferenceSchedule is the fixed roster of games for one conference.
type ConferenceSchedule struct {
	ConferenceID string
	Games        []ScheduledGame
}

// gameUUID derives a stable UUIDv5 game identifier so that a fixed seed
// reproduces the exact same schedule, IDs included.
func gameUUID(conferenceID string, seq int, home, away Team) string {
	name := fmt.Sprintf("%s/%d/%s/%s", conferenceID, seq, home.Name, away.Name)
	return uuid.NewSHA1(uuid.NameSpaceOID, []byte(name)).String()
}

// GenerateSchedule builds numGames fixtures between the given teams, at the
// home team's arena, with dates advancing so no team plays twice on one day.
func GenerateSchedule(conferenceID string, teams []Team, numGames int, start time.Time, rng *rand.Rand) (ConferenceSchedule, error) {
	if len(teams) < 2 {
		return ConferenceSchedule{}, &ValidationError{Field: "Teams", Reason: "need at least two teams"}
	}
	if numGames <= 0 {
		return ConferenceSchedule{}, &ValidationError{Field: "NumGames", Reason: "must be positive"}
	}

	sched := ConferenceSchedule{ConferenceID: conferenceID}
	date := start
	busy := make(map[string]bool) // teams already playing on the current date

	for seq := 0; len(sched.Games) < numGames; {
		home := teams[rng.Intn(len(teams))]
		away := teams[rng.Intn(len(teams))]
		if home.Name == away.Name || busy[home.Name] || busy[away.Name] {
			// Day is full for these teams; advance once everyone is booked.
			if len(busy) >= len(teams)-1 {
				date = date.AddDate(0, 0, 1)
				busy = make(map[string]bool)
			}
			continue
		}
		sched.Games = append(sched.Games, ScheduledGame{
			GameID: gameUUID(conferenceID, seq, home, away),
			Home:   home,
			Away:   away,
			Arena:  home.Arena,
			Date:   date,
		})
		busy[home.Name] = true
		busy[away.Name] = true
		seq++
	}
	return sched, nil
}

// DefaultSeasonStart is the opening night used when no date is injected.
var DefaultSeasonStart = time.Date(2025, time.October, 21, 19, 0, 0, 0, time.UTC)

// GenerateLeagueSchedules builds the default two-conference league.
func GenerateLeagueSchedules(cfg SimulationConfig) ([]ConferenceSchedule, error) {
	key := NewSimulationKey(cfg.Seed)
	east, err := GenerateSchedule(ConferenceEast, EasternTeams(), cfg.GamesPerConference,
		DefaultSeasonStart, key.Rand(SubsystemSchedule+"/"+ConferenceEast))
	if err != nil {
		return nil, err
	}
	west, err := GenerateSchedule(ConferenceWest, WesternTeams(), cfg.GamesPerConference,
		DefaultSeasonStart, key.Rand(SubsystemSchedule+"/"+ConferenceWest))
	if err != nil {
		return nil, err
	}
	return []ConferenceSchedule{east, west}, nil
}
