package shortlist

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const redisKeyPrefix = "shortlist:"

// RedisSlot shares handoffs between console replicas. GETDEL makes the
// take atomic, so only one replica can consume a given handoff.
type RedisSlot struct {
	client *redis.Client
	ttl    time.Duration
}

func NewRedisSlot(client *redis.Client, ttl time.Duration) *RedisSlot {
	return &RedisSlot{client: client, ttl: ttl}
}

// Put stores the handoff's payload. The local handoff is consumed in the
// process, ownership moves to redis.
func (s *RedisSlot) Put(ctx context.Context, key string, h *Handoff) error {
	payload := Consume(h)
	data, err := json.Marshal(payload)
	if err != nil {
		return fmt.Errorf("encode shortlist: %w", err)
	}
	if err := s.client.Set(ctx, redisKeyPrefix+key, data, s.ttl).Err(); err != nil {
		return fmt.Errorf("store shortlist: %w", err)
	}
	return nil
}

func (s *RedisSlot) Take(ctx context.Context, key string) (*Handoff, error) {
	data, err := s.client.GetDel(ctx, redisKeyPrefix+key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("take shortlist: %w", err)
	}

	var payload Payload
	if err := json.Unmarshal(data, &payload); err != nil {
		return nil, fmt.Errorf("decode shortlist: %w", err)
	}
	return restore(payload), nil
}

func (s *RedisSlot) Drop(ctx context.Context, key string) error {
	return s.client.Del(ctx, redisKeyPrefix+key).Err()
}
