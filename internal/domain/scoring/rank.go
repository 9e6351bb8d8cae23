package scoring

import (
	"sort"

	"github.com/okian/syncsix/internal/domain/model"
)

// Keep reports whether a scored player clears the ranking gate.
func (s *Scorer) Keep(p model.ScoredPlayer) bool {
	return p.Score >= s.minScore || len(p.Hits) >= s.minHits
}

// Rank drops players that fail the gate and sorts the rest by score,
// highest first. Ties keep their input order. The input slice is not
// modified.
func (s *Scorer) Rank(players []model.ScoredPlayer) []model.ScoredPlayer {
	out := make([]model.ScoredPlayer, 0, len(players))
	for _, p := range players {
		if s.Keep(p) {
			out = append(out, p)
		}
	}
	sort.SliceStable(out, func(i, j int) bool {
		return out[i].Score > out[j].Score
	})
	return out
}
