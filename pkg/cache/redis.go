// Package cache provides the Redis-backed read-through cache used for the
// vehicle-type rate card. The rate card is read on every trip creation and
// changes rarely, so a short TTL keeps fare lookups off the database.
package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const rateCardTTL = 5 * time.Minute

// NewRedisClient creates a Redis client and verifies connectivity.
func NewRedisClient(ctx context.Context, addr, password string) (*redis.Client, error) {
	client := redis.NewClient(&redis.Options{
		Addr:         addr,
		Password:     password,
		DialTimeout:  5 * time.Second,
		ReadTimeout:  2 * time.Second,
		WriteTimeout: 2 * time.Second,
	})

	pingCtx, cancel := context.WithTimeout(ctx, 5*time.Second)
	defer cancel()

	if err := client.Ping(pingCtx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis: ping failed: %w", err)
	}
	return client, nil
}

// RateCardCache caches JSON-serialized vehicle-type records by ID.
type RateCardCache struct {
	client *redis.Client
}

func NewRateCardCache(client *redis.Client) *RateCardCache {
	return &RateCardCache{client: client}
}

func (c *RateCardCache) key(vehicleTypeID string) string {
	return "ratecard:" + vehicleTypeID
}

// Get unmarshals a cached record into dest. Returns false on miss; cache
// errors are treated as misses so Redis outages never fail a fare lookup.
func (c *RateCardCache) Get(ctx context.Context, vehicleTypeID string, dest interface{}) bool {
	if c == nil || c.client == nil {
		return false
	}
	raw, err := c.client.Get(ctx, c.key(vehicleTypeID)).Bytes()
	if err != nil {
		return false
	}
	return json.Unmarshal(raw, dest) == nil
}

// Set stores a record with the rate-card TTL. Best effort.
func (c *RateCardCache) Set(ctx context.Context, vehicleTypeID string, value interface{}) {
	if c == nil || c.client == nil {
		return
	}
	raw, err := json.Marshal(value)
	if err != nil {
		return
	}
	c.client.Set(ctx, c.key(vehicleTypeID), raw, rateCardTTL)
}

// Invalidate drops a cached record after a rate-card update.
func (c *RateCardCache) Invalidate(ctx context.Context, vehicleTypeID string) {
	if c == nil || c.client == nil {
		return
	}
	c.client.Del(ctx, c.key(vehicleTypeID))
}
