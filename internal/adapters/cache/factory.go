package cache

import (
	"fmt"
	"time"
)

// New builds the cache named by backend. redisAddr is only read for the
// redis backend.
func New(backend string, ttl time.Duration, redisAddr string) (Cache, error) {
	switch backend {
	case "", BackendMemory:
		return NewMemoryCache(ttl, 2*ttl), nil
	case BackendRedis:
		client, err := DialRedis(redisAddr)
		if err != nil {
			return nil, err
		}
		return NewRedisCache(client), nil
	case BackendNone:
		return Nop{}, nil
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownBackend, backend)
	}
}
