package scoring

import "strings"

// Rule is the tag recorded in ScoredPlayer.Hits when a check fires.
type Rule string

// Evaluated rules, in evaluation order.
const (
	JerseyDateMatch      Rule = "JERSEY_DATE_MATCH"
	PrimeRelation        Rule = "PRIME_RELATION"
	PlayerGematriaSync   Rule = "PLAYER_GEMATRIA_SYNC"
	TeamGematriaSync     Rule = "TEAM_GEMATRIA_SYNC"
	OpponentGematriaSync Rule = "OPPONENT_GEMATRIA_SYNC"
)

// Reserved weights. They are carried in the table but no check reads them yet.
const (
	MilestoneComplete Rule = "MILESTONE_COMPLETE"
	MilestonePending  Rule = "MILESTONE_PENDING"
	WeekAlignment     Rule = "WEEK_ALIGNMENT"
	TeamAlignment     Rule = "TEAM_ALIGNMENT"
	OpponentMirror    Rule = "OPPONENT_MIRROR"
)

// Weights maps a rule to the points it adds to the base score.
type Weights map[Rule]float64

// DefaultWeights returns a fresh copy of the stock weight table.
// OPPONENT_GEMATRIA_SYNC is absent on purpose: it scores with the
// TEAM_GEMATRIA_SYNC weight unless a caller sets it explicitly.
func DefaultWeights() Weights {
	return Weights{
		JerseyDateMatch:    25,
		MilestoneComplete:  20,
		MilestonePending:   12,
		PrimeRelation:      5,
		WeekAlignment:      5,
		TeamAlignment:      3,
		OpponentMirror:     3,
		PlayerGematriaSync: 10,
		TeamGematriaSync:   8,
	}
}

// DefaultMultipliers are the tiers selected by the number of jersey hits.
// Only JERSEY_DATE_MATCH counts toward the tier, so today only index 0 is
// reachable.
func DefaultMultipliers() []float64 {
	return []float64{1, 1.25, 1.5, 1.75, 2}
}

// Of returns the weight for r. The opponent rule falls back to the team
// rule's weight.
func (w Weights) Of(r Rule) float64 {
	if v, ok := w[r]; ok {
		return v
	}
	if r == OpponentGematriaSync {
		return w[TeamGematriaSync]
	}
	return 0
}

// Clone returns an independent copy.
func (w Weights) Clone() Weights {
	out := make(Weights, len(w))
	for k, v := range w {
		out[k] = v
	}
	return out
}

// ParseRule normalizes a config key such as "jersey_date_match" to a Rule.
func ParseRule(key string) Rule {
	return Rule(strings.ToUpper(strings.TrimSpace(key)))
}
