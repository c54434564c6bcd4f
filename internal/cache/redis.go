package cache

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"github.com/redis/go-redis/v9"
)

// DefaultPrefix namespaces every key this service writes.
const DefaultPrefix = "scoracle-props:"

// Redis is a Store backed by a shared redis instance. Redis failures are
// logged and treated as cache misses so a broken cache never fails a request.
type Redis struct {
	client *redis.Client
	prefix string
	logger *slog.Logger
}

// NewRedis wraps an existing client.
func NewRedis(client *redis.Client, prefix string, logger *slog.Logger) *Redis {
	if logger == nil {
		logger = slog.Default()
	}
	return &Redis{client: client, prefix: prefix, logger: logger}
}

// DialRedis parses a redis:// URL, connects, and pings.
func DialRedis(ctx context.Context, redisURL string, logger *slog.Logger) (*Redis, error) {
	opts, err := redis.ParseURL(redisURL)
	if err != nil {
		return nil, err
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, err
	}
	return NewRedis(client, DefaultPrefix, logger), nil
}

func (r *Redis) Get(ctx context.Context, key string) ([]byte, string, bool) {
	data, err := r.client.Get(ctx, r.prefix+key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			r.logger.Warn("Redis get failed", "key", key, "error", err)
		}
		return nil, "", false
	}
	return data, ComputeETag(data), true
}

func (r *Redis) Set(ctx context.Context, key string, data []byte, ttl time.Duration) string {
	etag := ComputeETag(data)
	if ttl <= 0 {
		return etag
	}
	if err := r.client.Set(ctx, r.prefix+key, data, ttl).Err(); err != nil {
		r.logger.Warn("Redis set failed", "key", key, "error", err)
	}
	return etag
}

func (r *Redis) Stats(ctx context.Context) map[string]any {
	stats := map[string]any{
		"backend": "redis",
		"enabled": true,
		"prefix":  r.prefix,
	}
	if err := r.client.Ping(ctx).Err(); err != nil {
		stats["status"] = "unreachable"
		stats["error"] = err.Error()
		return stats
	}
	stats["status"] = "connected"
	ps := r.client.PoolStats()
	stats["hits"] = ps.Hits
	stats["misses"] = ps.Misses
	stats["total_conns"] = ps.TotalConns
	stats["idle_conns"] = ps.IdleConns
	return stats
}

func (r *Redis) Close() error {
	return r.client.Close()
}
