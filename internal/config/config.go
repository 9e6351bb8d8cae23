// Package config defines service configuration structures and loading hooks.
//
// Conventions:
// - New() returns a Config holding every default.
// - Load layers .env, an optional YAML file and SYNCSIX_ env vars on top.
// - Errors are wrapped with ErrLoadConfig or ErrInvalidConfig.
package config

import (
	"runtime"
	"time"
)

// Config contains process configuration.
type Config struct {
	// LogLevel controls verbosity: debug, info, warn, error.
	LogLevel string `koanf:"log_level"`
	// LogFormat selects the handler: text or json.
	LogFormat string `koanf:"log_format"`

	// Addr configures the HTTP listen address, e.g. ":8080".
	Addr string `koanf:"addr"`

	// APIKey is sent to api-sports in x-apisports-key.
	APIKey string `koanf:"api_key"`
	// UpstreamBaseURL is the api-sports american-football root.
	UpstreamBaseURL   string  `koanf:"upstream_base_url"`
	UpstreamTimeoutMS int     `koanf:"upstream_timeout_ms"`
	UpstreamRPS       float64 `koanf:"upstream_rps"`
	UpstreamBurst     int     `koanf:"upstream_burst"`

	// CacheBackend is memory, redis or none.
	CacheBackend    string `koanf:"cache_backend"`
	CacheTTLSeconds int    `koanf:"cache_ttl_seconds"`
	RedisAddr       string `koanf:"redis_addr"`

	// WorkerCount sets the number of slate workers.
	WorkerCount int `koanf:"worker_count"`
	// QueueSize bounds the slate job queue.
	QueueSize int `koanf:"queue_size"`

	MinScore float64 `koanf:"min_score"`
	MinHits  int     `koanf:"min_hits"`
	MaxScore float64 `koanf:"max_score"`

	// Weights overrides rule weights by rule name. Unset rules keep their
	// default.
	Weights map[string]float64 `koanf:"weights"`
	// Multipliers is indexed by match count minus one.
	Multipliers []float64 `koanf:"multipliers"`
}

// New creates a Config with defaults.
func New() *Config {
	return &Config{
		LogLevel:          "info",
		LogFormat:         "text",
		Addr:              ":3000",
		UpstreamBaseURL:   "https://v1.american-football.api-sports.io",
		UpstreamTimeoutMS: 10_000,
		UpstreamRPS:       5,
		UpstreamBurst:     5,
		CacheBackend:      "memory",
		CacheTTLSeconds:   300,
		WorkerCount:       runtime.NumCPU(),
		QueueSize:         1024,
		MinScore:          20,
		MinHits:           2,
		MaxScore:          98,
		Multipliers:       []float64{1, 1.25, 1.5, 1.75, 2},
	}
}

// UpstreamTimeout is UpstreamTimeoutMS as a duration.
func (c *Config) UpstreamTimeout() time.Duration {
	return time.Duration(c.UpstreamTimeoutMS) * time.Millisecond
}

// CacheTTL is CacheTTLSeconds as a duration.
func (c *Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSeconds) * time.Second
}
