// Package service provides the core business service that implements
// the dependencies required by the HTTP API.
package service

import (
	"context"
	"errors"
	"fmt"
	"runtime"
	"strconv"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/okian/syncsix/internal/adapters/mq/queue"
	"github.com/okian/syncsix/internal/adapters/mq/worker"
	"github.com/okian/syncsix/internal/domain/dedupe"
	"github.com/okian/syncsix/internal/domain/engine"
	"github.com/okian/syncsix/internal/domain/model"
	"github.com/okian/syncsix/pkg/logger"
	"github.com/okian/syncsix/pkg/metrics"
)

const defaultQueueSize = 1024

// Service errors.
var (
	ErrNotStarted = errors.New("service not started")
	ErrNoUpstream = errors.New("no upstream configured")
)

// Upstream is the api-sports client as seen by the service.
type Upstream interface {
	Games(ctx context.Context, league, season, date string) ([]byte, error)
	GamesRange(ctx context.Context, league, season, from, to string) ([]byte, error)
	Roster(ctx context.Context, team, season string) ([]byte, error)
	SlateGames(ctx context.Context, league, season, date string) ([]model.Game, error)
	RosterPlayers(ctx context.Context, team int, season string) ([]model.RawPlayer, error)
}

// Service implements the API dependencies for SyncSix.
type Service struct {
	mu sync.RWMutex

	// Core components
	upstream Upstream
	engine   *engine.Engine
	jobs     *queue.InMemoryQueue
	pool     *worker.Pool

	// Configuration
	workerCount int
	queueSize   int
	cacheName   string

	// State
	started bool

	logger logger.Logger
}

// Option applies a configuration option to the Service.
type Option func(*Service)

// WithUpstream sets the api-sports client.
func WithUpstream(u Upstream) Option {
	return func(s *Service) {
		s.upstream = u
	}
}

// WithEngine sets the scoring engine.
func WithEngine(e *engine.Engine) Option {
	return func(s *Service) {
		if e != nil {
			s.engine = e
		}
	}
}

// WithWorkerCount sets the number of slate workers.
func WithWorkerCount(count int) Option {
	return func(s *Service) {
		if count > 0 {
			s.workerCount = count
		}
	}
}

// WithQueueSize sets the capacity of the slate job queue.
func WithQueueSize(size int) Option {
	return func(s *Service) {
		if size > 0 {
			s.queueSize = size
		}
	}
}

// WithCacheName records the upstream cache backend for stats.
func WithCacheName(name string) Option {
	return func(s *Service) {
		s.cacheName = name
	}
}

// WithLogger sets a custom logger for the service.
func WithLogger(l logger.Logger) Option {
	return func(s *Service) {
		if l != nil {
			s.logger = l
		}
	}
}

// New constructs a new Service with default configuration.
func New(opts ...Option) *Service {
	s := &Service{
		workerCount: runtime.NumCPU(),
		queueSize:   defaultQueueSize,
		cacheName:   "none",
		logger:      logger.Nop(),
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.engine == nil {
		s.engine = engine.New(engine.WithLogger(s.logger))
	}
	s.logger = s.logger.Named("service")
	return s
}

// Start creates the job queue and starts the worker pool.
func (s *Service) Start(ctx context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.started {
		return nil
	}

	s.jobs = queue.NewInMemoryQueue(queue.WithCapacity(s.queueSize))
	s.pool = worker.NewPool(s.workerCount, s.jobs, worker.ProcessorFunc(s.Process), s.logger)
	s.pool.Start(ctx)

	s.started = true
	s.logger.Info(ctx, "syncsix service started",
		logger.Int("workers", s.workerCount),
		logger.Int("queueSize", s.queueSize),
		logger.String("cache", s.cacheName),
	)
	return nil
}

// Stop drains the worker pool.
func (s *Service) Stop() {
	s.mu.Lock()
	defer s.mu.Unlock()

	if !s.started {
		return
	}

	ctx := context.Background()
	s.logger.Info(ctx, "stopping syncsix service...")
	if err := s.pool.Shutdown(ctx); err != nil {
		s.logger.Error(ctx, "worker pool shutdown failed", logger.Error(err))
	}
	s.started = false
	s.logger.Info(ctx, "syncsix service stopped")
}

// Games proxies the games endpoint.
func (s *Service) Games(ctx context.Context, league, season, date string) ([]byte, error) {
	if s.upstream == nil {
		return nil, ErrNoUpstream
	}
	return s.upstream.Games(ctx, league, season, date)
}

// GamesRange proxies the merged multi-day games endpoint.
func (s *Service) GamesRange(ctx context.Context, league, season, from, to string) ([]byte, error) {
	if s.upstream == nil {
		return nil, ErrNoUpstream
	}
	return s.upstream.GamesRange(ctx, league, season, from, to)
}

// Roster proxies the players endpoint.
func (s *Service) Roster(ctx context.Context, team, season string) ([]byte, error) {
	if s.upstream == nil {
		return nil, ErrNoUpstream
	}
	return s.upstream.Roster(ctx, team, season)
}

// Rank scores and ranks players for one event.
func (s *Service) Rank(ctx context.Context, players []model.RawPlayer, event model.Event) []model.ScoredPlayer {
	return s.engine.Run(ctx, players, event)
}

// Slate ranks the players of every game on date. Games are fanned out over
// the worker pool, one job per distinct game id, and returned in upstream
// order. The first failed game fails the slate.
func (s *Service) Slate(ctx context.Context, league, season, date string) ([]model.SlateEntry, error) {
	s.mu.RLock()
	jobs, started := s.jobs, s.started
	s.mu.RUnlock()
	if !started {
		return nil, ErrNotStarted
	}
	if s.upstream == nil {
		return nil, ErrNoUpstream
	}

	games, err := s.upstream.SlateGames(ctx, league, season, date)
	if err != nil {
		return nil, err
	}

	seen := dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(len(games)))
	unique := games[:0:0]
	for _, g := range games {
		if seen.SeenAndRecord(ctx, strconv.Itoa(g.ID)) {
			continue
		}
		unique = append(unique, g)
	}

	reply := make(chan queue.Result, len(unique))
	for _, g := range unique {
		job := queue.Job{ID: uuid.NewString(), Game: g, Season: season, Reply: reply, Ctx: ctx}
		if err := jobs.Enqueue(ctx, job); err != nil {
			return nil, fmt.Errorf("enqueue game %d: %w", g.ID, err)
		}
	}

	players := make(map[int][]model.ScoredPlayer, len(unique))
	for range unique {
		select {
		case <-ctx.Done():
			return nil, ctx.Err()
		case res := <-reply:
			if res.Err != nil {
				return nil, fmt.Errorf("game %d: %w", res.Game.ID, res.Err)
			}
			players[res.Game.ID] = res.Players
		}
	}

	out := make([]model.SlateEntry, 0, len(unique))
	for _, g := range unique {
		out = append(out, model.SlateEntry{Game: g, Players: players[g.ID]})
	}
	return out, nil
}

// Process runs one slate job: both rosters are fetched, labelled with the
// game context and ranked against the game's kick-off.
func (s *Service) Process(ctx context.Context, j queue.Job) ([]model.ScoredPlayer, error) { //nolint:gocritic // hugeParam: matches worker.Processor
	var roster []model.RawPlayer
	for _, side := range []struct {
		team model.Team
		home bool
	}{{j.Game.Home, true}, {j.Game.Away, false}} {
		if side.team.ID == 0 {
			continue
		}
		players, err := s.upstream.RosterPlayers(ctx, side.team.ID, j.Season)
		if err != nil {
			return nil, fmt.Errorf("roster %d: %w", side.team.ID, err)
		}
		for _, p := range players {
			roster = append(roster, j.Game.Label(p, side.home))
		}
	}

	start := time.Now()
	ranked := s.engine.Run(ctx, roster, j.Game.Event())
	s.logger.Debug(ctx, "slate game ranked",
		logger.String("job", j.ID),
		logger.Int("game", j.Game.ID),
		logger.Int("players", len(roster)),
		logger.Int("ranked", len(ranked)),
		logger.Float64("durationMs", float64(time.Since(start).Microseconds())/1000),
	)
	return ranked, nil
}

// GetStats returns service statistics for monitoring.
func (s *Service) GetStats() map[string]any {
	s.mu.RLock()
	defer s.mu.RUnlock()

	weights := make(map[string]float64)
	for rule, w := range s.engine.Scorer().Weights() {
		weights[string(rule)] = w
	}

	stats := map[string]any{
		"started":     s.started,
		"workerCount": s.workerCount,
		"queueSize":   s.queueSize,
		"cache":       s.cacheName,
		"weights":     weights,
	}
	if s.started {
		queueLen := s.jobs.Len()
		stats["queueLength"] = queueLen
		stats["workers"] = s.pool.Size()

		metrics.UpdateQueueSize(queueLen)
		metrics.UpdateWorkerCount(s.pool.Size())
	}
	return stats
}
