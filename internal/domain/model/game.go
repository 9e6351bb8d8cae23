package model

import (
	"encoding/json"
	"time"
)

// Envelope is the api-sports response wrapper shared by every endpoint.
type Envelope struct {
	Results  int               `json:"results"`
	Response []json.RawMessage `json:"response"`
}

// Team is one side of a game.
type Team struct {
	ID   int    `json:"id"`
	Name string `json:"name"`
}

// Game is the subset of an api-sports american-football game that the slate
// needs. Raw keeps the original item.
type Game struct {
	ID        int
	Date      string
	Time      string
	Timezone  string
	Timestamp int64
	Venue     string
	Home      Team
	Away      Team

	Raw json.RawMessage
}

type gameDoc struct {
	Game struct {
		ID   int `json:"id"`
		Date struct {
			Timezone  string `json:"timezone"`
			Date      string `json:"date"`
			Time      string `json:"time"`
			Timestamp int64  `json:"timestamp"`
		} `json:"date"`
		Venue struct {
			Name string `json:"name"`
		} `json:"venue"`
	} `json:"game"`
	Teams struct {
		Home Team `json:"home"`
		Away Team `json:"away"`
	} `json:"teams"`
}

// UnmarshalJSON decodes the fields the slate needs and keeps the raw item.
func (g *Game) UnmarshalJSON(data []byte) error {
	var doc gameDoc
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*g = Game{
		ID:        doc.Game.ID,
		Date:      doc.Game.Date.Date,
		Time:      doc.Game.Date.Time,
		Timezone:  doc.Game.Date.Timezone,
		Timestamp: doc.Game.Date.Timestamp,
		Venue:     doc.Game.Venue.Name,
		Home:      doc.Teams.Home,
		Away:      doc.Teams.Away,
		Raw:       append(json.RawMessage(nil), data...),
	}
	return nil
}

// MarshalJSON echoes the raw item.
func (g Game) MarshalJSON() ([]byte, error) {
	if len(g.Raw) == 0 {
		return []byte("{}"), nil
	}
	return g.Raw, nil
}

// Start returns the kick-off as RFC 3339 in the game's own time zone.
// The unix timestamp wins over the date string when both are present.
func (g Game) Start() string {
	loc := time.UTC
	if g.Timezone != "" {
		if l, err := time.LoadLocation(g.Timezone); err == nil {
			loc = l
		}
	}
	if g.Timestamp > 0 {
		return time.Unix(g.Timestamp, 0).In(loc).Format(time.RFC3339)
	}
	if g.Date == "" {
		return ""
	}
	if g.Time != "" {
		if t, err := time.ParseInLocation("2006-01-02 15:04", g.Date+" "+g.Time, loc); err == nil {
			return t.Format(time.RFC3339)
		}
	}
	return g.Date
}

// Event returns the engine event for this game.
func (g Game) Event() Event {
	return NewEvent(g.Start())
}

// Label copies the game context onto a roster player: team, opponent, venue,
// date and time. Fields the player already carries are kept.
func (g Game) Label(p RawPlayer, home bool) RawPlayer {
	team, opp := g.Away, g.Home
	if home {
		team, opp = g.Home, g.Away
	}
	p.TeamName = firstNonEmpty(p.TeamName, team.Name)
	p.OpponentName = firstNonEmpty(p.OpponentName, opp.Name)
	p.Venue = firstNonEmpty(p.Venue, g.Venue)
	p.Date = firstNonEmpty(p.Date, g.Date)
	p.Time = firstNonEmpty(p.Time, g.Time)
	return p
}

// SlateEntry is one game of a slate with its ranked players.
type SlateEntry struct {
	Game    Game           `json:"game"`
	Players []ScoredPlayer `json:"players"`
}
