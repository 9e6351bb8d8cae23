// Package apisports talks to the api-sports american-football API.
package apisports

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"golang.org/x/time/rate"

	"github.com/okian/syncsix/internal/adapters/cache"
	"github.com/okian/syncsix/internal/domain/dedupe"
	"github.com/okian/syncsix/internal/domain/model"
	"github.com/okian/syncsix/pkg/logger"
	"github.com/okian/syncsix/pkg/metrics"
)

// DefaultBaseURL is the public api-sports american-football root.
const DefaultBaseURL = "https://v1.american-football.api-sports.io"

// HeaderAPIKey carries the credential on every upstream request.
const HeaderAPIKey = "x-apisports-key"

const (
	endpointGames   = "games"
	endpointPlayers = "players"

	defaultTimeout = 15 * time.Second
	maxBodyBytes   = 8 << 20
	// MaxRangeDays is the widest from/to window GamesRange accepts.
	MaxRangeDays = 2
)

// Client fetches games and rosters. Bodies are validated as JSON envelopes
// and otherwise returned unchanged.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	limiter    *rate.Limiter
	cache      cache.Cache
	cacheTTL   time.Duration
	logger     logger.Logger
}

// New creates a client with no cache and no rate limit.
func New(opts ...Option) *Client {
	c := &Client{
		httpClient: &http.Client{Timeout: defaultTimeout},
		baseURL:    DefaultBaseURL,
		limiter:    rate.NewLimiter(rate.Inf, 1),
		cache:      cache.Nop{},
		logger:     logger.Nop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Games returns the upstream games envelope for one date.
func (c *Client) Games(ctx context.Context, league, season, date string) ([]byte, error) {
	return c.get(ctx, endpointGames, url.Values{
		"league": {league},
		"season": {season},
		"date":   {date},
	})
}

// GamesRange fetches every calendar day in [from, to] and merges the
// response arrays, keeping the first copy of each game.id. results is the
// merged length. The window may span at most MaxRangeDays days.
func (c *Client) GamesRange(ctx context.Context, league, season, from, to string) ([]byte, error) {
	days, err := expandRange(from, to)
	if err != nil {
		return nil, err
	}

	pages := make([][]json.RawMessage, 0, len(days))
	for _, day := range days {
		body, err := c.Games(ctx, league, season, day)
		if err != nil {
			return nil, fmt.Errorf("games for %s: %w", day, err)
		}
		var env model.Envelope
		if err := json.Unmarshal(body, &env); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrDecode, err)
		}
		pages = append(pages, env.Response)
	}

	merged := dedupe.Merge(ctx, dedupe.NewInMemoryDeduper(dedupe.WithMaxSize(0)), gameKey, pages...)
	out, err := json.Marshal(model.Envelope{Results: len(merged), Response: merged})
	if err != nil {
		return nil, fmt.Errorf("encode merged games: %w", err)
	}
	return out, nil
}

// Roster returns the upstream players envelope for a team and season.
func (c *Client) Roster(ctx context.Context, team, season string) ([]byte, error) {
	return c.get(ctx, endpointPlayers, url.Values{
		"team":   {team},
		"season": {season},
	})
}

// SlateGames decodes the games for one date.
func (c *Client) SlateGames(ctx context.Context, league, season, date string) ([]model.Game, error) {
	body, err := c.Games(ctx, league, season, date)
	if err != nil {
		return nil, err
	}
	var env struct {
		Response []model.Game `json:"response"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: games: %v", ErrDecode, err)
	}
	return env.Response, nil
}

// RosterPlayers decodes a team's roster.
func (c *Client) RosterPlayers(ctx context.Context, team int, season string) ([]model.RawPlayer, error) {
	body, err := c.Roster(ctx, strconv.Itoa(team), season)
	if err != nil {
		return nil, err
	}
	var env struct {
		Response []model.RawPlayer `json:"response"`
	}
	if err := json.Unmarshal(body, &env); err != nil {
		return nil, fmt.Errorf("%w: players: %v", ErrDecode, err)
	}
	return env.Response, nil
}

func (c *Client) get(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	key := cache.Key(endpoint, query)
	backend := c.cache.Name()

	if body, ok, err := c.cache.Get(ctx, key); err != nil {
		c.logger.Warn(ctx, "cache read failed", logger.String("key", key), logger.Error(err))
		metrics.RecordErrorByComponent("cache", "read")
	} else if ok {
		metrics.RecordCacheHit(backend)
		return body, nil
	}
	metrics.RecordCacheMiss(backend)

	body, err := c.fetch(ctx, endpoint, query)
	if err != nil {
		return nil, err
	}

	if err := c.cache.Set(ctx, key, body, c.cacheTTL); err != nil {
		c.logger.Warn(ctx, "cache write failed", logger.String("key", key), logger.Error(err))
		metrics.RecordErrorByComponent("cache", "write")
	}
	return body, nil
}

func (c *Client) fetch(ctx context.Context, endpoint string, query url.Values) ([]byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: rate limit: %v", ErrUpstream, err)
	}

	fullURL := c.baseURL + "/" + endpoint + "?" + query.Encode()
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, fullURL, nil)
	if err != nil {
		return nil, fmt.Errorf("build request: %w", err)
	}
	req.Header.Set(HeaderAPIKey, c.apiKey)
	req.Header.Set("Accept", "application/json")

	start := time.Now()
	resp, err := c.httpClient.Do(req)
	latency := float64(time.Since(start).Milliseconds())
	if err != nil {
		metrics.RecordUpstreamRequest(endpoint, "error", latency)
		metrics.RecordErrorByComponent("apisports", "transport")
		return nil, fmt.Errorf("%w: %s: %v", ErrUpstream, endpoint, err)
	}
	defer resp.Body.Close()

	status := strconv.Itoa(resp.StatusCode)
	metrics.RecordUpstreamRequest(endpoint, status, latency)

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxBodyBytes))
	if err != nil {
		metrics.RecordErrorByComponent("apisports", "read")
		return nil, fmt.Errorf("%w: read %s body: %v", ErrUpstream, endpoint, err)
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		metrics.RecordErrorByComponent("apisports", "status")
		return nil, fmt.Errorf("%w: %s returned status %d", ErrUpstream, endpoint, resp.StatusCode)
	}

	var env model.Envelope
	if err := json.Unmarshal(body, &env); err != nil {
		metrics.RecordErrorByComponent("apisports", "decode")
		return nil, fmt.Errorf("%w: %s: %v", ErrDecode, endpoint, err)
	}

	c.logger.Debug(ctx, "upstream response",
		logger.String("endpoint", endpoint),
		logger.String("query", query.Encode()),
		logger.Int("results", env.Results),
		logger.Float64("latencyMs", latency),
	)
	return body, nil
}

// gameKey identifies a games item by game.id.
func gameKey(item json.RawMessage) (string, bool) {
	var doc struct {
		Game struct {
			ID json.Number `json:"id"`
		} `json:"game"`
	}
	if err := json.Unmarshal(item, &doc); err != nil || doc.Game.ID == "" {
		return "", false
	}
	return doc.Game.ID.String(), true
}

// expandRange lists the calendar days from..to inclusive.
func expandRange(from, to string) ([]string, error) {
	start, err := time.Parse(time.DateOnly, from)
	if err != nil {
		return nil, fmt.Errorf("%w: from %q is not YYYY-MM-DD", ErrRange, from)
	}
	end, err := time.Parse(time.DateOnly, to)
	if err != nil {
		return nil, fmt.Errorf("%w: to %q is not YYYY-MM-DD", ErrRange, to)
	}
	if end.Before(start) {
		return nil, fmt.Errorf("%w: to is before from", ErrRange)
	}

	var days []string
	for d := start; !d.After(end); d = d.AddDate(0, 0, 1) {
		if len(days) == MaxRangeDays {
			return nil, fmt.Errorf("%w: at most %d days", ErrRange, MaxRangeDays)
		}
		days = append(days, d.Format(time.DateOnly))
	}
	return days, nil
}
