package engine

import (
	"time"

	"github.com/okian/syncsix/internal/domain/model"
	"github.com/okian/syncsix/internal/domain/numerology"
)

// Enrich derives the fingerprint for date and the three name reductions.
// The player is copied, not modified.
func Enrich(p model.RawPlayer, date time.Time) model.EnrichedPlayer {
	return model.EnrichedPlayer{
		Raw:            p,
		SyncSix:        numerology.SyncSix(date),
		PlayerGematria: numerology.Gematria(p.Name),
		TeamGematria:   numerology.Gematria(p.TeamLabel()),
		OppGematria:    numerology.Gematria(p.OpponentLabel()),
	}
}
