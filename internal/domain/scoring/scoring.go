// Package scoring applies the sync rule table to enriched players and ranks
// the result.
package scoring

import (
	"math"
	"math/big"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okian/syncsix/internal/domain/model"
	"github.com/okian/syncsix/internal/domain/numerology"
)

// Default scoring configuration constants.
const (
	defaultMaxScore = 98
	defaultMinScore = 20
	defaultMinHits  = 2

	// Enough fraction digits to print any float64 exactly.
	exactDigits = 1100
)

// Category and method labels.
const (
	CategoryJerseyDate    = "Jersey-Date"
	CategoryLifePath      = "Life Path"
	CategoryPrimeRelation = "Prime Relation"
	CategoryGematria      = "Gematria"

	MethodHybridSync        = "Hybrid Sync"
	MethodJerseyAlignment   = "Jersey Alignment"
	MethodLifePathResonance = "Life Path Resonance"
	MethodGematriaSync      = "Gematria Sync"
	MethodGematria          = "Gematria"
)

// dobLayouts are tried in order when reading a date of birth.
var dobLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC1123,
	time.RFC1123Z,
	"2006-01-02",
	"2006/01/02",
	"01/02/2006",
	"January 2, 2006",
	"Jan 2, 2006",
}

// Option applies a configuration option to the Scorer.
type Option func(*Scorer)

// WithWeights overlays weights on the defaults. Keys are rule names in any
// case; negative weights are ignored.
func WithWeights(weights map[string]float64) Option {
	return func(s *Scorer) {
		for key, weight := range weights {
			if weight >= 0 {
				s.weights[ParseRule(key)] = weight
			}
		}
	}
}

// WithWeightTable replaces the weight table.
func WithWeightTable(w Weights) Option {
	return func(s *Scorer) {
		if w != nil {
			s.weights = w.Clone()
		}
	}
}

// WithMultipliers sets the multiplier tiers. An empty slice is ignored.
func WithMultipliers(m []float64) Option {
	return func(s *Scorer) {
		if len(m) > 0 {
			s.multipliers = append([]float64(nil), m...)
		}
	}
}

// WithMaxScore sets the score cap.
func WithMaxScore(maxScore float64) Option {
	return func(s *Scorer) {
		if maxScore > 0 {
			s.maxScore = maxScore
		}
	}
}

// WithMinScore sets the score a player needs to survive Rank on score alone.
func WithMinScore(minScore float64) Option {
	return func(s *Scorer) {
		if minScore >= 0 {
			s.minScore = minScore
		}
	}
}

// WithMinHits sets the hit count a player needs to survive Rank on hits alone.
func WithMinHits(minHits int) Option {
	return func(s *Scorer) {
		if minHits > 0 {
			s.minHits = minHits
		}
	}
}

// Scorer evaluates the rule table. It holds only configuration and is safe
// for concurrent use once built.
type Scorer struct {
	weights     Weights
	multipliers []float64
	maxScore    float64
	minScore    float64
	minHits     int
}

// New creates a scorer with the stock weights, tiers and thresholds.
func New(opts ...Option) *Scorer {
	s := &Scorer{
		weights:     DefaultWeights(),
		multipliers: DefaultMultipliers(),
		maxScore:    defaultMaxScore,
		minScore:    defaultMinScore,
		minHits:     defaultMinHits,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Weights returns a copy of the active weight table.
func (s *Scorer) Weights() Weights { return s.weights.Clone() }

// Score runs every rule against p and dateNums and returns the scored player.
// p is not modified.
func (s *Scorer) Score(p model.EnrichedPlayer, dateNums numerology.Fingerprint) model.ScoredPlayer {
	var (
		base  float64
		count int
		hits  []string
	)
	hit := func(r Rule) {
		base += s.weights.Of(r)
		hits = append(hits, string(r))
	}

	raw := p.Raw
	jerseyMatch := dateNums.ContainsPtr(raw.Jersey)
	primeJersey := numerology.IsPrimePtr(raw.Jersey)
	playerSync := p.PlayerGematria != 0 && dateNums.Contains(p.PlayerGematria)

	if jerseyMatch {
		hit(JerseyDateMatch)
		count++
	}
	if primeJersey && dateNums.AnyPrime() {
		hit(PrimeRelation)
	}
	if playerSync {
		hit(PlayerGematriaSync)
	}
	if p.TeamGematria != 0 && dateNums.Contains(p.TeamGematria) {
		hit(TeamGematriaSync)
	}
	if p.OppGematria != 0 && dateNums.Contains(p.OppGematria) {
		hit(OpponentGematriaSync)
	}

	dobMatch := false
	if day, ok := dobDay(raw.DOB); ok {
		dobMatch = dateNums.Contains(day)
	}

	return model.ScoredPlayer{
		EnrichedPlayer: p,
		Score:          s.finalScore(base, count),
		Hits:           hits,
		MethodType:     methodType(jerseyMatch, dobMatch, playerSync),
		CategoryHit:    categoryHit(jerseyMatch, dobMatch, primeJersey),
		JerseyMatch:    jerseyMatch,
		DOBMatch:       dobMatch,
		PrimeMatch:     primeJersey,
		DateNums:       dateNums,
		TeamName:       orDefault(raw.TeamLabel(), model.Placeholder),
		OpponentName:   orDefault(raw.OpponentLabel(), model.Placeholder),
		Date:           orDefault(raw.Date, model.TBD),
		Time:           orDefault(raw.Time, model.TBD),
		Venue:          orDefault(raw.Venue, model.Placeholder),
		Position:       orDefault(raw.Position, model.Placeholder),
		DOB:            orDefault(raw.DOB, model.Placeholder),
		Result:         orDefault(raw.Result, model.TBD),
	}
}

// Multiplier returns the tier for count jersey hits.
func (s *Scorer) Multiplier(count int) float64 {
	idx := count - 1
	if idx < 0 {
		idx = 0
	}
	if last := len(s.multipliers) - 1; idx > last {
		idx = last
	}
	return s.multipliers[idx]
}

func (s *Scorer) finalScore(base float64, count int) float64 {
	score := base * s.Multiplier(count)
	if score > s.maxScore {
		score = s.maxScore
	}
	if score < 0 {
		score = 0
	}
	return roundTenth(score)
}

// roundTenth rounds the exact binary value of v to one decimal place, ties
// away from zero. NewFromFloat would round the shortest decimal form instead,
// which turns 0.15 (stored as 0.1499...) into 0.2.
func roundTenth(v float64) float64 {
	if math.IsNaN(v) {
		return 0
	}
	exact, err := decimal.NewFromString(new(big.Float).SetFloat64(v).Text('f', exactDigits))
	if err != nil {
		return decimal.NewFromFloat(v).Round(1).InexactFloat64()
	}
	return exact.Round(1).InexactFloat64()
}

func categoryHit(jerseyMatch, dobMatch, primeJersey bool) string {
	switch {
	case jerseyMatch:
		return CategoryJerseyDate
	case dobMatch:
		return CategoryLifePath
	case primeJersey:
		return CategoryPrimeRelation
	default:
		return CategoryGematria
	}
}

func methodType(jerseyMatch, dobMatch, playerSync bool) string {
	switch {
	case jerseyMatch && playerSync:
		return MethodHybridSync
	case jerseyMatch:
		return MethodJerseyAlignment
	case dobMatch:
		return MethodLifePathResonance
	case playerSync:
		return MethodGematriaSync
	default:
		return MethodGematria
	}
}

// dobDay returns the day of month of a date of birth. The placeholder and
// anything unparseable report ok=false.
func dobDay(dob string) (int, bool) {
	if dob == "" || dob == model.Placeholder {
		return 0, false
	}
	for _, layout := range dobLayouts {
		if t, err := time.Parse(layout, dob); err == nil {
			return t.Day(), true
		}
	}
	return 0, false
}

func orDefault(v, def string) string {
	if v == "" {
		return def
	}
	return v
}
