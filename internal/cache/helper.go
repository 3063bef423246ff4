package cache

import (
	"context"
	"encoding/json"
	"strings"
	"time"

	"vibella/internal/middleware"
	"vibella/internal/observability"
)

// Aside implements the cache-aside pattern. On a hit the cached JSON is
// unmarshaled into dest; on a miss (or with no Redis client) load is
// called to fill dest and the result is stored with the given TTL.
// Cache failures are non-fatal: the loader result always wins.
func Aside(ctx context.Context, key string, dest any, ttl time.Duration, load func() error) error {
	ctx, span := observability.GetTraceLayer().TraceRedisOperation(ctx, "cache_aside")
	defer span.End()

	if client != nil {
		data, err := client.Get(ctx, key).Bytes()
		if err == nil {
			if jsonErr := json.Unmarshal(data, dest); jsonErr == nil {
				middleware.CacheHits.WithLabelValues(entityFromKey(key)).Inc()
				return nil
			}
			// Corrupt entry, drop it and fall through to the loader.
			client.Del(ctx, key)
		}
		middleware.CacheMisses.WithLabelValues(entityFromKey(key)).Inc()
	}

	if err := load(); err != nil {
		return err
	}

	if client != nil {
		if data, err := json.Marshal(dest); err == nil {
			client.Set(ctx, key, data, ttl)
		}
	}
	return nil
}

func entityFromKey(key string) string {
	if i := strings.IndexByte(key, ':'); i > 0 {
		return key[:i]
	}
	return key
}
