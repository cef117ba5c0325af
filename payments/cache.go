package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
)

const balanceCacheKey = "stripe:balance:available"

// BalanceCache stores the last balance snapshot for a short while.
// Get returns (nil, nil) on a miss.
type BalanceCache interface {
	Get(ctx context.Context) (*BalanceDTO, error)
	Set(ctx context.Context, balance *BalanceDTO) error
}

// RedisBalanceCache implements cache-aside for GET /balance.
type RedisBalanceCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewRedisBalanceCache connects to addr and pings it.
func NewRedisBalanceCache(addr string, ttl time.Duration) (*RedisBalanceCache, error) {
	client := redis.NewClient(&redis.Options{
		Addr: addr,
	})

	ctx, cancel := context.WithTimeout(context.Background(), 3*time.Second)
	defer cancel()

	if err := client.Ping(ctx).Err(); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to connect to redis: %w", err)
	}

	return &RedisBalanceCache{client: client, ttl: ttl}, nil
}

func (c *RedisBalanceCache) Close() error {
	return c.client.Close()
}

func (c *RedisBalanceCache) Get(ctx context.Context) (*BalanceDTO, error) {
	data, err := c.client.Get(ctx, balanceCacheKey).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("redis get error: %w", err)
	}

	var balance BalanceDTO
	if err := json.Unmarshal(data, &balance); err != nil {
		return nil, fmt.Errorf("failed to unmarshal balance: %w", err)
	}

	return &balance, nil
}

func (c *RedisBalanceCache) Set(ctx context.Context, balance *BalanceDTO) error {
	data, err := json.Marshal(balance)
	if err != nil {
		return fmt.Errorf("failed to marshal balance: %w", err)
	}

	if err := c.client.Set(ctx, balanceCacheKey, data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set error: %w", err)
	}

	return nil
}

var _ BalanceCache = (*RedisBalanceCache)(nil)
