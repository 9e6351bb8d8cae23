// Package cache stores upstream response bodies keyed by request.
package cache

import (
	"context"
	"errors"
	"net/url"
	"time"
)

// Backend names.
const (
	BackendMemory = "memory"
	BackendRedis  = "redis"
	BackendNone   = "none"
)

const keyPrefix = "syncsix:"

// ErrUnknownBackend is returned by New for an unrecognized backend name.
var ErrUnknownBackend = errors.New("unknown cache backend")

// Cache is a byte-slice cache. A miss is (nil, false, nil).
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Name() string
}

// Key builds a stable key from an endpoint and its query. Parameter order
// does not matter.
func Key(endpoint string, params url.Values) string {
	return keyPrefix + endpoint + "?" + params.Encode()
}

// Nop never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)        { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Name() string                                             { return BackendNone }
