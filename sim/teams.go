package sim

import (
	"fmt"
	"math/rand"
)

// Team is one franchise with its home arena.
type Team struct {
	Name  string
	Arena string
}

// Conference identifiers for the default league.
const (
	ConferenceEast = "eastern"
	ConferenceWest = "western"
)

// EasternTeams returns the 15 Eastern Conference franchises.
func EasternTeams() []Team {
	return []Team{
		{"Atlanta Hawks", "State Farm Arena"},
		{"Boston Celtics", "TD Garden"},
		{"Brooklyn Nets", "Barclays Center"},
		{"Charlotte Hornets", "Spectrum Center"},
		{"Chicago Bulls", "United Center"},
		{"Cleveland Cavaliers", "Rocket Mortgage FieldHouse"},
		{"Detroit Pistons", "Little Caesars Arena"},
		{"Indiana Pacers", "Gainbridge Fieldhouse"},
		{"Miami Heat", "Kaseya Center"},
		{"Milwaukee Bucks", "Fiserv Forum"},
		{"New York Knicks", "Madison Square Garden"},
		{"Orlando Magic", "Kia Center"},
		{"Philadelphia 76ers", "Wells Fargo Center"},
		{"Toronto Raptors", "Scotiabank Arena"},
		{"Washington Wizards", "Capital One Arena"},
	}
}

// WesternTeams returns the 15 Western Conference franchises.
func WesternTeams() []Team {
	return []Team{
		{"Dallas Mavericks", "American Airlines Center"},
		{"Denver Nuggets", "Ball Arena"},
		{"Golden State Warriors", "Chase Center"},
		{"Houston Rockets", "Toyota Center"},
		{"Los Angeles Clippers", "Intuit Dome"},
		{"Los Angeles Lakers", "Crypto.com Arena"},
		{"Memphis Grizzlies", "FedExForum"},
		{"Minnesota Timberwolves", "Target Center"},
		{"New Orleans Pelicans", "Smoothie King Center"},
		{"Oklahoma City Thunder", "Paycom Center"},
		{"Phoenix Suns", "Footprint Center"},
		{"Portland Trail Blazers", "Moda Center"},
		{"Sacramento Kings", "Golden 1 Center"},
		{"San Antonio Spurs", "Frost Bank Center"},
		{"Utah Jazz", "Delta Center"},
	}
}

// TeamByName looks a franchise up across both conferences.
func TeamByName(name string) (Team, bool) {
	for _, t := range EasternTeams() {
		if t.Name == name {
			return t, true
		}
	}
	for _, t := range WesternTeams() {
		if t.Name == name {
			return t, true
		}
	}
	return Team{}, false
}

// Synthetic player name pools. Rosters are generated, not modeled after real
// players (realistic statistical modeling is a non-goal).
var (
	firstNames = []string{
		"Marcus", "Jalen", "Devin", "Tyrese", "Andre", "Kevin", "Luka", "Jamal",
		"Darius", "Malik", "Trey", "Isaiah", "Cole", "Victor", "Grant", "Zion",
		"Aaron", "Desmond", "Keegan", "Jaden", "Rashad", "Elias", "Noah", "Omar",
	}
	lastNames = []string{
		"Carter", "Brooks", "Mitchell", "Holiday", "Porter", "Grant", "Walker",
		"Bridges", "Murphy", "Johnson", "Reaves", "Sharpe", "Wiggins", "Bane",
		"Maxey", "Sengun", "Turner", "Vassell", "Herro", "Barnes", "Mathurin",
		"Okoro", "Suggs", "Giddey",
	}
)

// generateRoster produces size player lines for a team. Names are drawn
// deterministically from the roster RNG; numeric suffixes keep duplicates
// apart within one roster.
func generateRoster(team Team, size int, rng *rand.Rand) []*PlayerLine {
	players := make([]*PlayerLine, 0, size)
	seen := make(map[string]int, size)
	for i := 0; i < size; i++ {
		name := fmt.Sprintf("%s %s",
			firstNames[rng.Intn(len(firstNames))],
			lastNames[rng.Intn(len(lastNames))])
		seen[name]++
		if n := seen[name]; n > 1 {
			name = fmt.Sprintf("%s %d", name, n)
		}
		players = append(players, &PlayerLine{Name: name, Team: team.Name})
	}
	return players
}
