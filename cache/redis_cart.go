// Package cache mirrors cart sessions into Redis so a user's cart survives a
// restart of the API process.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/yeremiapane/zest-order/cart"
)

const DefaultTTL = 24 * time.Hour

type storedCart struct {
	UserID    string      `json:"user_id"`
	Lines     []cart.Line `json:"lines"`
	UpdatedAt time.Time   `json:"updated_at"`
}

// RedisCart implements cart.Mirror.
type RedisCart struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisCart(client *redis.Client, ttl time.Duration) *RedisCart {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisCart{client: client, ttl: ttl}
}

// Load returns the mirrored lines, or nil when nothing is stored.
func (r *RedisCart) Load(ctx context.Context, userID string) ([]cart.Line, error) {
	data, err := r.client.Get(ctx, cacheKey(userID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get failed: %w", err)
	}

	var stored storedCart
	if err := json.Unmarshal(data, &stored); err != nil {
		return nil, fmt.Errorf("unmarshal cart failed: %w", err)
	}
	return stored.Lines, nil
}

// Save overwrites the mirror; an empty cart removes the key.
func (r *RedisCart) Save(ctx context.Context, userID string, lines []cart.Line) error {
	if len(lines) == 0 {
		return r.Delete(ctx, userID)
	}

	data, err := json.Marshal(storedCart{UserID: userID, Lines: lines, UpdatedAt: time.Now().UTC()})
	if err != nil {
		return fmt.Errorf("marshal cart failed: %w", err)
	}
	if err := r.client.Set(ctx, cacheKey(userID), data, r.ttl).Err(); err != nil {
		return fmt.Errorf("redis set failed: %w", err)
	}
	return nil
}

func (r *RedisCart) Delete(ctx context.Context, userID string) error {
	if err := r.client.Del(ctx, cacheKey(userID)).Err(); err != nil {
		return fmt.Errorf("redis delete failed: %w", err)
	}
	return nil
}

func cacheKey(userID string) string {
	return fmt.Sprintf("cart:%s", userID)
}
