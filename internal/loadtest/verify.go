package loadtest

import (
	"fmt"
	"math"
)

// verifyRanking checks one response: every score is in range and a multiple
// of 0.1, every player passed the rank gate, and scores never increase.
func verifyRanking(cfg *Config, ranked []rankedPlayer, sent int) []string {
	var problems []string
	if len(ranked) > sent {
		problems = append(problems, fmt.Sprintf("ranked %d players out of %d sent", len(ranked), sent))
	}
	for i, p := range ranked {
		if p.Score < 0 || p.Score > cfg.MaxScore {
			problems = append(problems, fmt.Sprintf("%s: score %.1f out of range", p.Name, p.Score))
		}
		if tenths := p.Score * 10; math.Abs(tenths-math.Round(tenths)) > 1e-6 {
			problems = append(problems, fmt.Sprintf("%s: score %v not rounded to one decimal", p.Name, p.Score))
		}
		if p.Score < cfg.MinScore && len(p.Hits) < cfg.MinHits {
			problems = append(problems, fmt.Sprintf("%s: score %.1f with %d hits should have been filtered", p.Name, p.Score, len(p.Hits)))
		}
		if i > 0 && p.Score > ranked[i-1].Score {
			problems = append(problems, fmt.Sprintf("position %d: %.1f ranked below %.1f", i, p.Score, ranked[i-1].Score))
		}
	}
	return problems
}
