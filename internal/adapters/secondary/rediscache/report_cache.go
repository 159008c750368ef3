package rediscache

import (
	"context"
	"errors"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lcrommet/glpi-insight-backend/internal/core/ports"
)

// keyPrefix namespaces report entries inside a shared Redis instance.
const keyPrefix = "glpi-insight:report:"

// ErrCacheMiss is returned when no entry exists for a key.
var ErrCacheMiss = errors.New("cache miss")

// ReportCache stores rendered report payloads in Redis. It is advisory:
// callers treat every error, including a miss, as "compute it again".
type ReportCache struct {
	client *redis.Client
}

var _ ports.ReportCache = (*ReportCache)(nil)

func NewReportCache(client *redis.Client) *ReportCache {
	return &ReportCache{client: client}
}

func (c *ReportCache) Get(ctx context.Context, key string) ([]byte, error) {
	payload, err := c.client.Get(ctx, keyPrefix+key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return nil, ErrCacheMiss
		}
		return nil, err
	}
	return payload, nil
}

func (c *ReportCache) Set(ctx context.Context, key string, payload []byte, ttl time.Duration) error {
	return c.client.Set(ctx, keyPrefix+key, payload, ttl).Err()
}
