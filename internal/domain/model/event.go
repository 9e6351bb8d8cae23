package model

import (
	"encoding/json"
)

// Event is the game record a ranking is computed for. Only its start time is
// interpreted; the raw document is kept for callers that echo it back.
type Event struct {
	// DateStart is date.start.
	DateStart string
	// GameDateStart is game.date.start.
	GameDateStart string

	Raw json.RawMessage
}

// NewEvent builds an event whose date.start is start.
func NewEvent(start string) Event {
	raw, _ := json.Marshal(map[string]any{"date": map[string]string{"start": start}})
	return Event{DateStart: start, Raw: raw}
}

// UnmarshalJSON reads date.start and game.date.start without requiring the
// rest of the document to have any particular shape.
func (e *Event) UnmarshalJSON(data []byte) error {
	var doc map[string]json.RawMessage
	if err := json.Unmarshal(data, &doc); err != nil {
		return err
	}
	*e = Event{Raw: append(json.RawMessage(nil), data...)}
	e.DateStart = lookupString(doc, "date", "start")
	if game, ok := object(doc["game"]); ok {
		e.GameDateStart = lookupString(game, "date", "start")
	}
	return nil
}

// MarshalJSON echoes the raw document.
func (e Event) MarshalJSON() ([]byte, error) {
	if len(e.Raw) == 0 {
		return []byte("{}"), nil
	}
	return e.Raw, nil
}

// Start returns the first known start timestamp, date.start before
// game.date.start. ok is false when neither is set.
func (e Event) Start() (string, bool) {
	if e.DateStart != "" {
		return e.DateStart, true
	}
	if e.GameDateStart != "" {
		return e.GameDateStart, true
	}
	return "", false
}

func object(raw json.RawMessage) (map[string]json.RawMessage, bool) {
	if len(raw) == 0 || isNull(raw) {
		return nil, false
	}
	var m map[string]json.RawMessage
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, false
	}
	return m, true
}

// lookupString walks nested objects along path and returns the string leaf.
func lookupString(doc map[string]json.RawMessage, path ...string) string {
	cur := doc
	for i, key := range path {
		raw, ok := cur[key]
		if !ok {
			return ""
		}
		if i == len(path)-1 {
			s, _ := decodeString(raw)
			return s
		}
		if cur, ok = object(raw); !ok {
			return ""
		}
	}
	return ""
}
