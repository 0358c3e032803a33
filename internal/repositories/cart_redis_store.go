package repositories

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"deeskinstore/internal/models"

	"github.com/redis/go-redis/v9"
)

const cartKeyPrefix = "cart:"

// RedisCartStore is a Redis-backed implementation of CartStore. Carts are
// stored as JSON under cart:<sessionID> with a sliding TTL, so abandoned
// sessions expire on their own.
type RedisCartStore struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisCartStore creates a new instance of RedisCartStore.
func NewRedisCartStore(client *redis.Client, ttl time.Duration) *RedisCartStore {
	return &RedisCartStore{
		client: client,
		ttl:    ttl,
	}
}

// Get returns the session's cart, or a fresh empty cart if none is stored.
func (s *RedisCartStore) Get(ctx context.Context, sessionID string) (*models.Cart, error) {
	data, err := s.client.Get(ctx, cartKeyPrefix+sessionID).Bytes()
	if errors.Is(err, redis.Nil) {
		return &models.Cart{SessionID: sessionID}, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to load cart for session %s: %w", sessionID, err)
	}

	var cart models.Cart
	if err := json.Unmarshal(data, &cart); err != nil {
		return nil, fmt.Errorf("failed to decode cart for session %s: %w", sessionID, err)
	}
	return &cart, nil
}

// Save stores the cart under its session ID and refreshes the TTL.
func (s *RedisCartStore) Save(ctx context.Context, cart *models.Cart) error {
	data, err := json.Marshal(cart)
	if err != nil {
		return fmt.Errorf("failed to encode cart for session %s: %w", cart.SessionID, err)
	}
	if err := s.client.Set(ctx, cartKeyPrefix+cart.SessionID, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("failed to save cart for session %s: %w", cart.SessionID, err)
	}
	return nil
}

// Delete removes the session's cart.
func (s *RedisCartStore) Delete(ctx context.Context, sessionID string) error {
	if err := s.client.Del(ctx, cartKeyPrefix+sessionID).Err(); err != nil {
		return fmt.Errorf("failed to delete cart for session %s: %w", sessionID, err)
	}
	return nil
}

// ActiveCount counts stored cart keys. Empty carts are deleted rather than
// saved, so key count equals non-empty cart count.
func (s *RedisCartStore) ActiveCount(ctx context.Context) (int64, error) {
	var count int64
	iter := s.client.Scan(ctx, 0, cartKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		count++
	}
	if err := iter.Err(); err != nil {
		return 0, fmt.Errorf("failed to scan cart keys: %w", err)
	}
	return count, nil
}
