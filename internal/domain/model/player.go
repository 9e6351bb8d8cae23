// Package model contains domain models passed between layers.
package model

import (
	"bytes"
	"encoding/json"
	"math"

	"github.com/okian/syncsix/internal/domain/numerology"
)

// Display placeholders for missing fields.
const (
	Placeholder = "—"
	TBD         = "TBD"
)

// RawPlayer is a player record as supplied by a client or the roster API.
// Only the fields below are interpreted; everything else is kept in Extra
// and written back unchanged.
type RawPlayer struct {
	Name         string
	Jersey       *int
	DOB          string
	TeamName     string
	Team         string
	OpponentName string
	Opponent     string
	Position     string
	Venue        string
	Result       string
	Time         string
	Date         string

	Extra map[string]json.RawMessage
}

// stringField returns the destination for a known string key.
func (p *RawPlayer) stringField(key string) *string {
	switch key {
	case "name":
		return &p.Name
	case "dob":
		return &p.DOB
	case "teamName":
		return &p.TeamName
	case "team":
		return &p.Team
	case "opponentName":
		return &p.OpponentName
	case "opponent":
		return &p.Opponent
	case "position":
		return &p.Position
	case "venue":
		return &p.Venue
	case "result":
		return &p.Result
	case "time":
		return &p.Time
	case "date":
		return &p.Date
	}
	return nil
}

// UnmarshalJSON decodes known fields leniently: a known key holding an empty
// string or a value of the wrong type is treated as absent and kept in Extra. When "jersey" is
// missing the roster field "number" is used instead.
func (p *RawPlayer) UnmarshalJSON(data []byte) error {
	var fields map[string]json.RawMessage
	if err := json.Unmarshal(data, &fields); err != nil {
		return err
	}

	*p = RawPlayer{Extra: make(map[string]json.RawMessage)}
	for key, raw := range fields {
		if dst := p.stringField(key); dst != nil {
			if s, ok := decodeString(raw); ok && s != "" {
				*dst = s
				continue
			}
		}
		if key == "jersey" {
			if n, ok := decodeInt(raw); ok {
				p.Jersey = &n
				continue
			}
		}
		p.Extra[key] = raw
	}

	if _, hasJersey := fields["jersey"]; !hasJersey {
		if raw, ok := fields["number"]; ok {
			if n, ok := decodeInt(raw); ok {
				p.Jersey = &n
			}
		}
	}
	return nil
}

// MarshalJSON writes Extra followed by the known fields that are set.
func (p RawPlayer) MarshalJSON() ([]byte, error) {
	return json.Marshal(p.fields())
}

func (p RawPlayer) fields() map[string]any {
	out := make(map[string]any, len(p.Extra)+12)
	for k, v := range p.Extra {
		out[k] = v
	}
	set := func(key, val string) {
		if val != "" {
			out[key] = val
		}
	}
	set("name", p.Name)
	set("dob", p.DOB)
	set("teamName", p.TeamName)
	set("team", p.Team)
	set("opponentName", p.OpponentName)
	set("opponent", p.Opponent)
	set("position", p.Position)
	set("venue", p.Venue)
	set("result", p.Result)
	set("time", p.Time)
	set("date", p.Date)
	if p.Jersey != nil {
		out["jersey"] = *p.Jersey
	}
	return out
}

// TeamLabel is teamName, falling back to team.
func (p RawPlayer) TeamLabel() string {
	return firstNonEmpty(p.TeamName, p.Team)
}

// OpponentLabel is opponentName, falling back to opponent.
func (p RawPlayer) OpponentLabel() string {
	return firstNonEmpty(p.OpponentName, p.Opponent)
}

// EnrichedPlayer is a RawPlayer with the numbers derived for one event date.
type EnrichedPlayer struct {
	Raw            RawPlayer
	SyncSix        numerology.Fingerprint
	PlayerGematria int
	TeamGematria   int
	OppGematria    int
}

// MarshalJSON flattens the raw player and the derived numbers into one object.
func (e EnrichedPlayer) MarshalJSON() ([]byte, error) {
	return json.Marshal(e.fields())
}

func (e EnrichedPlayer) fields() map[string]any {
	out := e.Raw.fields()
	out["syncSix"] = e.SyncSix.Slice()
	out["playerGematria"] = e.PlayerGematria
	out["teamGematria"] = e.TeamGematria
	out["oppGematria"] = e.OppGematria
	return out
}

// ScoredPlayer is an EnrichedPlayer with its score and classification.
type ScoredPlayer struct {
	EnrichedPlayer

	Score       float64
	Hits        []string
	MethodType  string
	CategoryHit string
	JerseyMatch bool
	DOBMatch    bool
	PrimeMatch  bool
	// EnergyPhase is reserved and always false.
	EnergyPhase bool

	// DateNums is the event fingerprint the player was scored against.
	DateNums numerology.Fingerprint

	// Normalized display fields.
	TeamName     string
	OpponentName string
	Date         string
	Time         string
	Venue        string
	Position     string
	DOB          string
	Result       string
}

// MarshalJSON writes the enriched player, the display fields, the score
// details and the named fingerprint components as one flat object.
func (s ScoredPlayer) MarshalJSON() ([]byte, error) {
	out := s.EnrichedPlayer.fields()

	out["teamName"] = s.TeamName
	out["opponentName"] = s.OpponentName
	out["date"] = s.Date
	out["time"] = s.Time
	out["venue"] = s.Venue
	out["position"] = s.Position
	out["dob"] = s.DOB
	out["result"] = s.Result

	hits := s.Hits
	if hits == nil {
		hits = []string{}
	}
	out["score"] = s.Score
	out["hits"] = hits
	out["methodType"] = s.MethodType
	out["categoryHit"] = s.CategoryHit
	out["jerseyMatch"] = s.JerseyMatch
	out["dobMatch"] = s.DOBMatch
	out["primeMatch"] = s.PrimeMatch
	out["energyPhase"] = s.EnergyPhase

	out["fullComponent"] = s.DateNums[numerology.FullComponent]
	out["partialReduction"] = s.DateNums[numerology.PartialReduction]
	out["lifePath"] = s.DateNums[numerology.LifePath]
	out["simplifiedComp"] = s.DateNums[numerology.SimplifiedComp]
	out["simplifiedRoot"] = s.DateNums[numerology.SimplifiedRoot]

	return json.Marshal(out)
}

func isNull(raw json.RawMessage) bool {
	return string(bytes.TrimSpace(raw)) == "null"
}

func decodeString(raw json.RawMessage) (string, bool) {
	if isNull(raw) {
		return "", false
	}
	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", false
	}
	return s, true
}

func decodeInt(raw json.RawMessage) (int, bool) {
	if isNull(raw) {
		return 0, false
	}
	var f float64
	if err := json.Unmarshal(raw, &f); err != nil {
		return 0, false
	}
	if f != math.Trunc(f) || math.Abs(f) > math.MaxInt32 {
		return 0, false
	}
	return int(f), true
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
