package model_test

import (
	"encoding/json"
	"testing"

	"github.com/okian/syncsix/internal/domain/model"
	"github.com/okian/syncsix/internal/domain/numerology"
	"github.com/smartystreets/goconvey/convey"
)

func TestRawPlayerJSON(t *testing.T) {
	convey.Convey("Given a player document", t, func() {
		convey.Convey("When it carries known and unknown fields", func() {
			doc := `{"name":"Tom Brady","jersey":12,"dob":"1977-08-03","team":"Buccaneers","college":"Michigan","stats":{"td":649}}`
			var p model.RawPlayer
			err := json.Unmarshal([]byte(doc), &p)

			convey.Convey("Then known fields are decoded and the rest is kept", func() {
				convey.So(err, convey.ShouldBeNil)
				convey.So(p.Name, convey.ShouldEqual, "Tom Brady")
				convey.So(*p.Jersey, convey.ShouldEqual, 12)
				convey.So(p.DOB, convey.ShouldEqual, "1977-08-03")
				convey.So(p.TeamLabel(), convey.ShouldEqual, "Buccaneers")
				convey.So(p.OpponentLabel(), convey.ShouldEqual, "")
				convey.So(p.Extra, convey.ShouldContainKey, "college")
				convey.So(string(p.Extra["stats"]), convey.ShouldEqual, `{"td":649}`)
			})

			convey.Convey("And it round-trips without losing pass-through fields", func() {
				out, err := json.Marshal(p)
				convey.So(err, convey.ShouldBeNil)
				var back map[string]any
				convey.So(json.Unmarshal(out, &back), convey.ShouldBeNil)
				convey.So(back["college"], convey.ShouldEqual, "Michigan")
				convey.So(back["jersey"], convey.ShouldEqual, 12.0)
				convey.So(back["stats"], convey.ShouldResemble, map[string]any{"td": float64(649)})
			})
		})

		convey.Convey("When jersey is missing but the roster number is present", func() {
			var p model.RawPlayer
			err := json.Unmarshal([]byte(`{"name":"A","number":26}`), &p)

			convey.So(err, convey.ShouldBeNil)
			convey.So(p.Jersey, convey.ShouldNotBeNil)
			convey.So(*p.Jersey, convey.ShouldEqual, 26)
			convey.So(p.Extra, convey.ShouldContainKey, "number")
		})

		convey.Convey("When jersey is not an integer", func() {
			for _, doc := range []string{`{"jersey":"12"}`, `{"jersey":12.5}`, `{"jersey":null}`, `{"jersey":null,"number":7}`} {
				var p model.RawPlayer
				convey.So(json.Unmarshal([]byte(doc), &p), convey.ShouldBeNil)
				convey.So(p.Jersey, convey.ShouldBeNil)
				convey.So(p.Extra, convey.ShouldContainKey, "jersey")
			}
		})

		convey.Convey("When a known string field has another type", func() {
			var p model.RawPlayer
			err := json.Unmarshal([]byte(`{"team":{"id":4,"name":"Bucs"},"teamName":""}`), &p)

			convey.So(err, convey.ShouldBeNil)
			convey.So(p.Team, convey.ShouldEqual, "")
			convey.So(p.TeamLabel(), convey.ShouldEqual, "")
			convey.So(p.Extra, convey.ShouldContainKey, "team")
			convey.So(p.Extra, convey.ShouldContainKey, "teamName")
		})

		convey.Convey("When the document is not an object", func() {
			var p model.RawPlayer
			convey.So(json.Unmarshal([]byte(`[1,2]`), &p), convey.ShouldNotBeNil)
		})
	})
}

func TestScoredPlayerJSON(t *testing.T) {
	convey.Convey("Given a scored player", t, func() {
		jersey := 26
		s := model.ScoredPlayer{
			EnrichedPlayer: model.EnrichedPlayer{
				Raw:            model.RawPlayer{Name: "X", Jersey: &jersey},
				SyncSix:        numerology.Fingerprint{2061, 61, 36, 2035, 2051, 26},
				PlayerGematria: 7,
			},
			Score:       25,
			MethodType:  "Jersey Alignment",
			CategoryHit: "Jersey-Date",
			JerseyMatch: true,
			DateNums:    numerology.Fingerprint{2061, 61, 36, 2035, 2051, 26},
			TeamName:    model.Placeholder,
			Result:      model.TBD,
		}

		out, err := json.Marshal(s)
		convey.So(err, convey.ShouldBeNil)

		var doc map[string]any
		convey.So(json.Unmarshal(out, &doc), convey.ShouldBeNil)

		convey.So(doc["name"], convey.ShouldEqual, "X")
		convey.So(doc["score"], convey.ShouldEqual, 25.0)
		convey.So(doc["hits"], convey.ShouldResemble, []any{})
		convey.So(doc["syncSix"], convey.ShouldResemble, []any{2061.0, 61.0, 36.0, 2035.0, 2051.0, 26.0})
		convey.So(doc["fullComponent"], convey.ShouldEqual, 2061.0)
		convey.So(doc["simplifiedRoot"], convey.ShouldEqual, 2051.0)
		convey.So(doc["teamName"], convey.ShouldEqual, "—")
		convey.So(doc["energyPhase"], convey.ShouldEqual, false)
		convey.So(doc["categoryHit"], convey.ShouldEqual, "Jersey-Date")
	})
}

func TestEventJSON(t *testing.T) {
	convey.Convey("Given event documents", t, func() {
		convey.Convey("When date.start is present", func() {
			var e model.Event
			convey.So(json.Unmarshal([]byte(`{"id":9,"date":{"start":"2025-10-26T10:00:00Z"},"game":{"date":{"start":"2024-01-01"}}}`), &e), convey.ShouldBeNil)
			start, ok := e.Start()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(start, convey.ShouldEqual, "2025-10-26T10:00:00Z")
		})

		convey.Convey("When only game.date.start is present", func() {
			var e model.Event
			convey.So(json.Unmarshal([]byte(`{"game":{"date":{"start":"2025-10-26"}}}`), &e), convey.ShouldBeNil)
			start, ok := e.Start()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(start, convey.ShouldEqual, "2025-10-26")
		})

		convey.Convey("When date has a different shape", func() {
			var e model.Event
			convey.So(json.Unmarshal([]byte(`{"date":"2025-10-26","game":{"date":{"date":"2025-10-26"}}}`), &e), convey.ShouldBeNil)
			_, ok := e.Start()
			convey.So(ok, convey.ShouldBeFalse)
		})

		convey.Convey("When the event is echoed", func() {
			doc := `{"id":9,"date":{"start":"2025-10-26"}}`
			var e model.Event
			convey.So(json.Unmarshal([]byte(doc), &e), convey.ShouldBeNil)
			out, err := json.Marshal(e)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(out), convey.ShouldEqual, doc)

			empty, err := json.Marshal(model.Event{})
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(empty), convey.ShouldEqual, "{}")
		})

		convey.Convey("When built from a start string", func() {
			start, ok := model.NewEvent("2025-10-26").Start()
			convey.So(ok, convey.ShouldBeTrue)
			convey.So(start, convey.ShouldEqual, "2025-10-26")
		})
	})
}

func TestGameJSON(t *testing.T) {
	convey.Convey("Given an api-sports game item", t, func() {
		doc := `{"game":{"id":7531,"date":{"timezone":"UTC","date":"2025-10-26","time":"17:00","timestamp":1761498000},"venue":{"name":"Raymond James Stadium"}},"teams":{"home":{"id":1,"name":"Tampa Bay Buccaneers"},"away":{"id":2,"name":"New Orleans Saints"}},"scores":{}}`
		var g model.Game
		convey.So(json.Unmarshal([]byte(doc), &g), convey.ShouldBeNil)

		convey.Convey("Then the slate fields are decoded", func() {
			convey.So(g.ID, convey.ShouldEqual, 7531)
			convey.So(g.Home.Name, convey.ShouldEqual, "Tampa Bay Buccaneers")
			convey.So(g.Away.ID, convey.ShouldEqual, 2)
			convey.So(g.Venue, convey.ShouldEqual, "Raymond James Stadium")
			convey.So(g.Start(), convey.ShouldEqual, "2025-10-26T17:00:00Z")
		})

		convey.Convey("And players are labelled from their side of the game", func() {
			home := g.Label(model.RawPlayer{Name: "A"}, true)
			away := g.Label(model.RawPlayer{Name: "B", Venue: "Elsewhere"}, false)

			convey.So(home.TeamName, convey.ShouldEqual, "Tampa Bay Buccaneers")
			convey.So(home.OpponentName, convey.ShouldEqual, "New Orleans Saints")
			convey.So(home.Date, convey.ShouldEqual, "2025-10-26")
			convey.So(away.TeamName, convey.ShouldEqual, "New Orleans Saints")
			convey.So(away.Venue, convey.ShouldEqual, "Elsewhere")
		})

		convey.Convey("And without a timestamp the date and time are combined", func() {
			g.Timestamp = 0
			convey.So(g.Start(), convey.ShouldEqual, "2025-10-26T17:00:00Z")
			g.Time = ""
			convey.So(g.Start(), convey.ShouldEqual, "2025-10-26")
		})

		convey.Convey("And it echoes the raw item", func() {
			out, err := json.Marshal(g)
			convey.So(err, convey.ShouldBeNil)
			convey.So(string(out), convey.ShouldEqual, doc)
		})
	})
}
