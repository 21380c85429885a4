// Package cache keeps short-lived copies of remote answers that are costly
// to repeat: availability checks and the zone list.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	"domainpanel/internal/domain/models"
	"domainpanel/pkg/platform/sentinel"
)

const keyPrefix = "domainpanel:"

// RedisCache stores entries as JSON under TTL-bound keys.
type RedisCache struct {
	client   redis.Cmdable
	checkTTL time.Duration
	zonesTTL time.Duration
}

func NewRedisCache(client redis.Cmdable, checkTTL, zonesTTL time.Duration) *RedisCache {
	return &RedisCache{client: client, checkTTL: checkTTL, zonesTTL: zonesTTL}
}

func checkKey(fqdn string) string {
	return keyPrefix + "check:" + strings.ToLower(fqdn)
}

const zonesKey = keyPrefix + "zones"

// GetCheck returns a cached availability answer, or sentinel.ErrNotFound.
func (c *RedisCache) GetCheck(ctx context.Context, fqdn string) (*models.CheckResult, error) {
	var res models.CheckResult
	if err := c.get(ctx, checkKey(fqdn), &res); err != nil {
		return nil, err
	}
	return &res, nil
}

// SetCheck stores an availability answer for the check TTL.
func (c *RedisCache) SetCheck(ctx context.Context, res *models.CheckResult) error {
	return c.set(ctx, checkKey(res.FQDN), res, c.checkTTL)
}

// GetZones returns the cached zone list, or sentinel.ErrNotFound.
func (c *RedisCache) GetZones(ctx context.Context) ([]string, error) {
	var zones []string
	if err := c.get(ctx, zonesKey, &zones); err != nil {
		return nil, err
	}
	return zones, nil
}

// SetZones stores the zone list for the zones TTL.
func (c *RedisCache) SetZones(ctx context.Context, zones []string) error {
	return c.set(ctx, zonesKey, zones, c.zonesTTL)
}

// Invalidate drops the cached check of fqdn, after a registration or
// transfer changed its availability.
func (c *RedisCache) Invalidate(ctx context.Context, fqdn string) error {
	if err := c.client.Del(ctx, checkKey(fqdn)).Err(); err != nil {
		return fmt.Errorf("cache del: %w", err)
	}
	return nil
}

func (c *RedisCache) get(ctx context.Context, key string, v any) error {
	data, err := c.client.Get(ctx, key).Bytes()
	if err != nil {
		if errors.Is(err, redis.Nil) {
			return sentinel.ErrNotFound
		}
		return fmt.Errorf("cache get %s: %w", key, err)
	}
	if err := json.Unmarshal(data, v); err != nil {
		return fmt.Errorf("cache decode %s: %w", key, err)
	}
	return nil
}

func (c *RedisCache) set(ctx context.Context, key string, v any, ttl time.Duration) error {
	data, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("cache encode %s: %w", key, err)
	}
	if err := c.client.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("cache set %s: %w", key, err)
	}
	return nil
}
