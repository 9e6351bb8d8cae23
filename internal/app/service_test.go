package service_test

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"
	"time"

	service "github.com/okian/syncsix/internal/app"
	"github.com/okian/syncsix/internal/domain/engine"
	"github.com/okian/syncsix/internal/domain/model"
	. "github.com/smartystreets/goconvey/convey"
)

var frozen = time.Date(2024, 2, 29, 12, 0, 0, 0, time.UTC)

type fakeUpstream struct {
	mu        sync.Mutex
	games     []model.Game
	rosters   map[int][]model.RawPlayer
	rosterErr error
	requested []int

	// hang makes RosterPlayers wait for its context; abandoned counts the
	// calls that gave up that way.
	hang      bool
	abandoned int
}

func (f *fakeUpstream) Games(context.Context, string, string, string) ([]byte, error) {
	return []byte(`{"results":0,"response":[]}`), nil
}

func (f *fakeUpstream) GamesRange(context.Context, string, string, string, string) ([]byte, error) {
	return []byte(`{"results":0,"response":[]}`), nil
}

func (f *fakeUpstream) Roster(context.Context, string, string) ([]byte, error) {
	return []byte(`{"results":0,"response":[]}`), nil
}

func (f *fakeUpstream) SlateGames(context.Context, string, string, string) ([]model.Game, error) {
	return f.games, nil
}

func (f *fakeUpstream) RosterPlayers(ctx context.Context, team int, _ string) ([]model.RawPlayer, error) {
	f.mu.Lock()
	f.requested = append(f.requested, team)
	hang := f.hang
	f.mu.Unlock()
	if hang {
		<-ctx.Done()
		f.mu.Lock()
		f.abandoned++
		f.mu.Unlock()
		return nil, ctx.Err()
	}

	f.mu.Lock()
	defer f.mu.Unlock()
	if f.rosterErr != nil {
		return nil, f.rosterErr
	}
	return f.rosters[team], nil
}

func jersey(n int) *int { return &n }

func game(id, home, away int, homeName, awayName string) model.Game {
	return model.Game{
		ID:   id,
		Date: "2025-10-26",
		Time: "17:00",
		Home: model.Team{ID: home, Name: homeName},
		Away: model.Team{ID: away, Name: awayName},
	}
}

func newUpstream() *fakeUpstream {
	return &fakeUpstream{
		games: []model.Game{
			game(1, 10, 20, "Cardinals", "Saints"),
			game(2, 30, 40, "Buccaneers", "Falcons"),
			game(1, 10, 20, "Cardinals", "Saints"),
		},
		rosters: map[int][]model.RawPlayer{
			10: {{Name: "Vita Vea", Jersey: jersey(26)}, {Name: "Nobody", Jersey: jersey(4)}},
			20: {{Name: "Nobody", Jersey: jersey(5)}},
			30: {{Name: "Mike Evans", Jersey: jersey(13)}},
		},
	}
}

func TestService_New(t *testing.T) {
	Convey("Given a new service with default options", t, func() {
		svc := service.New()

		Convey("Then it reports sensible defaults before start", func() {
			stats := svc.GetStats()
			So(stats["started"], ShouldBeFalse)
			So(stats["queueSize"], ShouldEqual, 1024)
			So(stats["cache"], ShouldEqual, "none")
			So(stats["weights"], ShouldContainKey, "JERSEY_DATE_MATCH")
		})

		Convey("Then the proxies fail without an upstream", func() {
			_, err := svc.Games(context.Background(), "1", "2025", "2025-10-26")
			So(errors.Is(err, service.ErrNoUpstream), ShouldBeTrue)
		})

		Convey("Then the slate needs a started service", func() {
			_, err := svc.Slate(context.Background(), "1", "2025", "2025-10-26")
			So(errors.Is(err, service.ErrNotStarted), ShouldBeTrue)
		})
	})
}

func TestService_Lifecycle(t *testing.T) {
	Convey("Given a service with custom options", t, func() {
		svc := service.New(
			service.WithWorkerCount(3),
			service.WithQueueSize(16),
			service.WithCacheName("memory"),
		)
		defer svc.Stop()

		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()

		Convey("When starting the service twice", func() {
			So(svc.Start(ctx), ShouldBeNil)
			So(svc.Start(ctx), ShouldBeNil)

			Convey("Then stats reflect the running pool", func() {
				stats := svc.GetStats()
				So(stats["started"], ShouldBeTrue)
				So(stats["workers"], ShouldEqual, 3)
				So(stats["queueLength"], ShouldEqual, 0)
				So(stats["cache"], ShouldEqual, "memory")
			})

			Convey("And stopping is idempotent", func() {
				svc.Stop()
				svc.Stop()
				So(svc.GetStats()["started"], ShouldBeFalse)
			})
		})
	})
}

func TestService_Rank(t *testing.T) {
	Convey("Given a service on a frozen clock", t, func() {
		svc := service.New(service.WithEngine(engine.New(engine.WithClock(engine.FixedClock(frozen)))))

		Convey("When a roster is ranked for 2025-10-26", func() {
			ranked := svc.Rank(context.Background(), []model.RawPlayer{
				{Name: "Vita Vea", Jersey: jersey(26), Team: "Cardinals"},
				{Name: "Nobody", Jersey: jersey(4)},
			}, model.NewEvent("2025-10-26"))

			So(ranked, ShouldHaveLength, 1)
			So(ranked[0].Raw.Name, ShouldEqual, "Vita Vea")
			So(ranked[0].Score, ShouldEqual, 43.0)
		})
	})
}

func TestService_Slate(t *testing.T) {
	Convey("Given a started service with a fake upstream", t, func() {
		up := newUpstream()
		svc := service.New(
			service.WithUpstream(up),
			service.WithWorkerCount(2),
			service.WithEngine(engine.New(engine.WithClock(engine.FixedClock(frozen)))),
		)
		ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		So(svc.Start(ctx), ShouldBeNil)
		defer svc.Stop()

		Convey("When the slate is built", func() {
			slate, err := svc.Slate(ctx, "1", "2025", "2025-10-26")

			Convey("Then each distinct game appears once in upstream order", func() {
				So(err, ShouldBeNil)
				So(slate, ShouldHaveLength, 2)
				So(slate[0].Game.ID, ShouldEqual, 1)
				So(slate[1].Game.ID, ShouldEqual, 2)
				So(up.requested, ShouldHaveLength, 4)
			})

			Convey("And players are labelled and ranked against the kick-off", func() {
				So(err, ShouldBeNil)
				So(slate[0].Players, ShouldHaveLength, 1)
				vea := slate[0].Players[0]
				So(vea.Raw.Name, ShouldEqual, "Vita Vea")
				So(vea.TeamName, ShouldEqual, "Cardinals")
				So(vea.OpponentName, ShouldEqual, "Saints")
				So(vea.DateNums.Day(), ShouldEqual, 26)
				So(vea.Hits, ShouldContain, "JERSEY_DATE_MATCH")

				So(slate[1].Players, ShouldHaveLength, 1)
				So(slate[1].Players[0].Raw.Name, ShouldEqual, "Mike Evans")
			})
		})

		Convey("When a roster cannot be fetched", func() {
			up.rosterErr = fmt.Errorf("status 503")
			_, err := svc.Slate(ctx, "1", "2025", "2025-10-26")

			So(err, ShouldNotBeNil)
			So(err.Error(), ShouldContainSubstring, "status 503")
		})

		Convey("When the caller gives up while rosters are in flight", func() {
			up.hang = true
			reqCtx, reqCancel := context.WithTimeout(ctx, 50*time.Millisecond)
			defer reqCancel()
			_, err := svc.Slate(reqCtx, "1", "2025", "2025-10-26")

			Convey("Then the slate fails and the workers stop fetching", func() {
				So(errors.Is(err, context.DeadlineExceeded), ShouldBeTrue)

				deadline := time.Now().Add(2 * time.Second)
				abandoned := func() int {
					up.mu.Lock()
					defer up.mu.Unlock()
					return up.abandoned
				}
				for abandoned() < 2 && time.Now().Before(deadline) {
					time.Sleep(5 * time.Millisecond)
				}
				So(abandoned(), ShouldBeGreaterThan, 0)
			})
		})

		Convey("When the date has no games", func() {
			up.games = nil
			slate, err := svc.Slate(ctx, "1", "2025", "2025-10-26")

			So(err, ShouldBeNil)
			So(slate, ShouldNotBeNil)
			So(slate, ShouldBeEmpty)
		})
	})
}
