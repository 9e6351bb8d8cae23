package loadtest

import (
	"crypto/rand"
	"math/big"
	"strings"
	"time"
)

const (
	maxJersey   = 100
	minBirthAge = 21
	birthSpan   = 20 * 365
)

var (
	syllables = []string{"ka", "ro", "mi", "te", "van", "so", "li", "dre", "zu", "ba", "nel", "tor", "ja", "quin", "ex"}
	teams     = []string{"Buccaneers", "Saints", "Cardinals", "Falcons", "Panthers", "Rams", "Bears", "Lions"}
)

// randInt returns a uniform value in [0, n) from crypto/rand.
func randInt(n int) int {
	v, _ := rand.Int(rand.Reader, big.NewInt(int64(n)))
	return int(v.Int64())
}

func randName() string {
	word := func() string {
		var b strings.Builder
		for i := 0; i < 2+randInt(2); i++ {
			b.WriteString(syllables[randInt(len(syllables))])
		}
		s := b.String()
		return strings.ToUpper(s[:1]) + s[1:]
	}
	return word() + " " + word()
}

// generateRoster creates n players with random names, jerseys, birth dates and
// a team and opponent drawn from distinct entries.
func generateRoster(n int, now time.Time) []Player {
	roster := make([]Player, n)
	for i := range roster {
		team := randInt(len(teams))
		opp := (team + 1 + randInt(len(teams)-1)) % len(teams)
		dob := now.AddDate(-minBirthAge, 0, -randInt(birthSpan))
		roster[i] = Player{
			Name:   randName(),
			Jersey: randInt(maxJersey),
			DOB:    dob.Format("2006-01-02"),
			Team:   teams[team],
			Opp:    teams[opp],
		}
	}
	return roster
}
