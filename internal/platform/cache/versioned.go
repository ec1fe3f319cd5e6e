package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/SscSPs/erp_lite/internal/core/ports/gateways"
	"github.com/redis/go-redis/v9"
)

// DefaultNamespace prefixes every key written by the dashboard cache.
const DefaultNamespace = "erp:dashboard"

// VersionedCache stores JSON values under keys suffixed with a namespace-wide version.
// Invalidate bumps the version, which orphans every earlier entry until its TTL expires.
type VersionedCache struct {
	client     redis.UniversalClient
	namespace  string
	versionKey string
}

// NewVersionedCache creates a cache in namespace. An empty namespace uses DefaultNamespace.
func NewVersionedCache(client redis.UniversalClient, namespace string) *VersionedCache {
	if namespace == "" {
		namespace = DefaultNamespace
	}
	return &VersionedCache{
		client:     client,
		namespace:  namespace,
		versionKey: namespace + ":version",
	}
}

var _ gateways.Cache = (*VersionedCache)(nil)

func (c *VersionedCache) version(ctx context.Context) (int64, error) {
	ver, err := c.client.Get(ctx, c.versionKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("platform/cache: read version: %w", err)
	}
	return ver, nil
}

func (c *VersionedCache) buildKey(ctx context.Context, key string) (string, error) {
	ver, err := c.version(ctx)
	if err != nil {
		return "", err
	}
	return fmt.Sprintf("%s:%s:%d", c.namespace, key, ver), nil
}

func (c *VersionedCache) Get(ctx context.Context, key string, dest any) (bool, error) {
	fullKey, err := c.buildKey(ctx, key)
	if err != nil {
		return false, err
	}
	payload, err := c.client.Get(ctx, fullKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("platform/cache: get %s: %w", key, err)
	}
	if err := json.Unmarshal(payload, dest); err != nil {
		return false, fmt.Errorf("platform/cache: decode %s: %w", key, err)
	}
	return true, nil
}

func (c *VersionedCache) Set(ctx context.Context, key string, value any, ttl time.Duration) error {
	fullKey, err := c.buildKey(ctx, key)
	if err != nil {
		return err
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("platform/cache: encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, fullKey, raw, ttl).Err(); err != nil {
		return fmt.Errorf("platform/cache: set %s: %w", key, err)
	}
	return nil
}

// Invalidate bumps the namespace version.
func (c *VersionedCache) Invalidate(ctx context.Context) error {
	if err := c.client.Incr(ctx, c.versionKey).Err(); err != nil {
		return fmt.Errorf("platform/cache: bump version: %w", err)
	}
	return nil
}
