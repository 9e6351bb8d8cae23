package cli

import (
	"context"
	"io"
	"strings"

	"github.com/okian/syncsix/internal/adapters/apisports"
	"github.com/okian/syncsix/internal/adapters/cache"
	"github.com/okian/syncsix/internal/config"
	"github.com/okian/syncsix/internal/domain/engine"
	"github.com/okian/syncsix/internal/domain/scoring"
	"github.com/okian/syncsix/pkg/logger"
)

// setup loads config and initializes the global logger on out.
func setup(ctx context.Context, opts *rootOptions, out io.Writer) (*config.Config, logger.Logger, error) {
	cfg, err := config.Load(ctx)
	if err != nil {
		return nil, nil, err
	}
	if err := logger.Init(logger.WithFormat(cfg.LogFormat), logger.WithOutput(out)); err != nil {
		return nil, nil, err
	}
	log := logger.Get()

	level := cfg.LogLevel
	if opts.verbose {
		level = "debug"
	}
	if err := logger.SetLevelString(level); err != nil {
		log.Warn(ctx, "invalid log_level; falling back to info", logger.String("log_level", level), logger.Error(err))
		_ = logger.SetLevelString("info")
	}
	return cfg, log, nil
}

func newEngine(cfg *config.Config, log logger.Logger) *engine.Engine {
	scorer := scoring.New(
		scoring.WithWeights(cfg.Weights),
		scoring.WithMultipliers(cfg.Multipliers),
		scoring.WithMaxScore(cfg.MaxScore),
		scoring.WithMinScore(cfg.MinScore),
		scoring.WithMinHits(cfg.MinHits),
	)
	return engine.New(
		engine.WithScorer(scorer),
		engine.WithLogger(log),
	)
}

func newCache(cfg *config.Config) (cache.Cache, error) {
	return cache.New(strings.ToLower(cfg.CacheBackend), cfg.CacheTTL(), cfg.RedisAddr)
}

func newClient(cfg *config.Config, store cache.Cache, log logger.Logger) *apisports.Client {
	return apisports.New(
		apisports.WithBaseURL(cfg.UpstreamBaseURL),
		apisports.WithAPIKey(cfg.APIKey),
		apisports.WithTimeout(cfg.UpstreamTimeout()),
		apisports.WithRateLimit(cfg.UpstreamRPS, cfg.UpstreamBurst),
		apisports.WithCache(store, cfg.CacheTTL()),
		apisports.WithLogger(log),
	)
}
