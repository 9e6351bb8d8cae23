// Package engine runs the full pipeline for one event: resolve the date,
// enrich every player, score, rank.
package engine

import (
	"context"
	"time"

	"github.com/okian/syncsix/internal/domain/model"
	"github.com/okian/syncsix/internal/domain/numerology"
	"github.com/okian/syncsix/internal/domain/scoring"
	"github.com/okian/syncsix/pkg/logger"
	"github.com/okian/syncsix/pkg/metrics"
)

// startLayouts are tried in order when reading an event start.
var startLayouts = []string{
	time.RFC3339Nano,
	"2006-01-02T15:04:05Z0700",
	"2006-01-02T15:04Z07:00",
	"2006-01-02T15:04Z0700",
	"2006-01-02T15:04:05",
	"2006-01-02T15:04",
	time.RFC1123,
	time.RFC1123Z,
	time.RFC850,
	time.ANSIC,
	"2006-01-02 15:04:05",
	"2006-01-02 15:04",
	"2006-01-02",
}

// Option applies a configuration option to the Engine.
type Option func(*Engine)

// WithClock sets the clock used when an event has no usable start.
func WithClock(c Clock) Option {
	return func(e *Engine) {
		if c != nil {
			e.clock = c
		}
	}
}

// WithScorer sets the rule engine.
func WithScorer(s *scoring.Scorer) Option {
	return func(e *Engine) {
		if s != nil {
			e.scorer = s
		}
	}
}

// WithLogger sets a custom logger for the engine.
func WithLogger(l logger.Logger) Option {
	return func(e *Engine) {
		if l != nil {
			e.logger = l
		}
	}
}

// Engine is stateless between runs and safe for concurrent use.
type Engine struct {
	clock  Clock
	scorer *scoring.Scorer
	logger logger.Logger
}

// New creates an engine with the stock scorer and the system clock.
func New(opts ...Option) *Engine {
	e := &Engine{
		clock:  SystemClock(),
		scorer: scoring.New(),
		logger: logger.Nop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Scorer returns the rule engine in use.
func (e *Engine) Scorer() *scoring.Scorer { return e.scorer }

// ResolveDate picks the event date: date.start, then game.date.start, then
// the clock. fallback is true when the clock was used, which also covers a
// start that is present but unreadable.
func (e *Engine) ResolveDate(event model.Event) (date time.Time, fallback bool) {
	if start, ok := event.Start(); ok {
		if t, ok := parseStart(start); ok {
			return t, false
		}
	}
	return e.clock.Now(), true
}

// Run scores and ranks players for event. It never fails; an empty player
// list yields an empty, non-nil result.
func (e *Engine) Run(ctx context.Context, players []model.RawPlayer, event model.Event) []model.ScoredPlayer {
	began := time.Now()

	date, fallback := e.ResolveDate(event)
	if fallback {
		metrics.RecordClockFallback()
		e.logger.Debug(ctx, "event has no usable start, using clock",
			logger.String("date", date.Format(time.RFC3339)),
		)
	}
	dateNums := numerology.SyncSix(date)

	scored := make([]model.ScoredPlayer, 0, len(players))
	for _, p := range players {
		sp := e.scorer.Score(Enrich(p, date), dateNums)
		for _, h := range sp.Hits {
			metrics.RecordRuleHit(h)
		}
		metrics.RecordPlayerScored(sp.Score)
		scored = append(scored, sp)
	}
	ranked := e.scorer.Rank(scored)

	elapsed := time.Since(began)
	metrics.RecordPlayersRanked(len(ranked))
	metrics.RecordEngineRun(float64(elapsed.Microseconds()) / 1000)
	e.logger.Debug(ctx, "engine run complete",
		logger.String("date", date.Format("2006-01-02")),
		logger.Any("dateNums", dateNums.Slice()),
		logger.Int("players", len(players)),
		logger.Int("ranked", len(ranked)),
		logger.Bool("clockFallback", fallback),
	)
	return ranked
}

func parseStart(s string) (time.Time, bool) {
	for _, layout := range startLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			return t, true
		}
	}
	return time.Time{}, false
}
