// internal/store/rubriccache.go
package store

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"recruitment-workers/internal/scoring/rubric"

	"github.com/redis/go-redis/v9"
)

// RubricCache keeps the active rubric definition in Redis so the hot
// save-response path does not hit Postgres for configuration on every job.
type RubricCache struct {
	client *redis.Client
	key    string
	ttl    time.Duration
}

func NewRubricCache(client *redis.Client, key string, ttl time.Duration) *RubricCache {
	return &RubricCache{client: client, key: key, ttl: ttl}
}

// Get returns the cached rubric and whether it was present. A miss is not an
// error.
func (c *RubricCache) Get(ctx context.Context) ([]rubric.Pillar, bool, error) {
	payload, err := c.client.Get(ctx, c.key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("rubric cache get: %w", err)
	}

	var pillars []rubric.Pillar
	if err := json.Unmarshal(payload, &pillars); err != nil {
		return nil, false, fmt.Errorf("rubric cache decode: %w", err)
	}
	return pillars, true, nil
}

func (c *RubricCache) Set(ctx context.Context, pillars []rubric.Pillar) error {
	payload, err := json.Marshal(pillars)
	if err != nil {
		return fmt.Errorf("rubric cache encode: %w", err)
	}
	if err := c.client.Set(ctx, c.key, payload, c.ttl).Err(); err != nil {
		return fmt.Errorf("rubric cache set: %w", err)
	}
	return nil
}

// Invalidate drops the cached rubric, forcing the next read to load from the
// database.
func (c *RubricCache) Invalidate(ctx context.Context) error {
	if err := c.client.Del(ctx, c.key).Err(); err != nil {
		return fmt.Errorf("rubric cache invalidate: %w", err)
	}
	return nil
}
