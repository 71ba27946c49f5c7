package cache

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/timmy/carbonbite/internal/domain"
)

// RedisStore keeps reports as JSON strings with SET ... EX ttl.
type RedisStore struct {
	client *redis.Client
	ttl    time.Duration
	prefix string
}

// NewRedisStore connects to url (redis://host:port/db) and pings it.
func NewRedisStore(ctx context.Context, url string, ttl time.Duration, prefix string) (*RedisStore, error) {
	opts, err := redis.ParseURL(url)
	if err != nil {
		return nil, fmt.Errorf("invalid redis url: %w", err)
	}
	client := redis.NewClient(opts)
	if err := client.Ping(ctx).Err(); err != nil {
		_ = client.Close()
		return nil, fmt.Errorf("redis ping failed: %w", err)
	}
	return NewRedisStoreFromClient(client, ttl, prefix), nil
}

// NewRedisStoreFromClient wraps an existing client.
func NewRedisStoreFromClient(client *redis.Client, ttl time.Duration, prefix string) *RedisStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisStore{client: client, ttl: ttl, prefix: prefix}
}

func (s *RedisStore) Name() string { return "redis" }

func (s *RedisStore) key(k domain.DishName) string {
	return s.prefix + k.String()
}

func (s *RedisStore) Get(ctx context.Context, key domain.DishName) (*domain.DishCarbonAnalysisReport, bool) {
	data, err := s.client.Get(ctx, s.key(key)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false
	}
	if err != nil {
		logMiss(ctx, s.Name(), key, "read", err)
		return nil, false
	}

	report, err := decode(data)
	if err != nil {
		logMiss(ctx, s.Name(), key, "decode", err)
		return nil, false
	}
	return report, true
}

func (s *RedisStore) Set(ctx context.Context, key domain.DishName, report *domain.DishCarbonAnalysisReport) {
	data, err := encode(report)
	if err != nil {
		logWriteFailure(ctx, s.Name(), key, err)
		return
	}
	if err := s.client.Set(ctx, s.key(key), data, s.ttl).Err(); err != nil {
		logWriteFailure(ctx, s.Name(), key, err)
	}
}

func (s *RedisStore) Close() error {
	return s.client.Close()
}
