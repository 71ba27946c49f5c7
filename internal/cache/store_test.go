package cache

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/carbonbite/internal/config"
	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/repository"
)

func sampleReport(dish string) *domain.DishCarbonAnalysisReport {
	rating := domain.RatingB
	return &domain.DishCarbonAnalysisReport{
		Metrics: domain.DishMetrics{
			Dish:               domain.String(dish),
			CarbonPerServingKg: domain.Float(1.2),
			ImpactRating:       &rating,
		},
		Ingredients: domain.DishIngredients{
			Dish:        dish,
			Ingredients: []domain.Ingredient{{Name: "flour", WeightKg: domain.Float(0.2)}},
		},
		LCA: domain.IngredientCarbonResponse{Results: []domain.IngredientCarbonFootprint{
			{IngredientName: "flour", CarbonFootprintKgCO2e: domain.Float(0.3)},
		}},
	}
}

func TestMemoryStore(t *testing.T) {
	ctx := context.Background()
	now := time.Unix(1_700_000_000, 0)
	s := NewMemoryStore(time.Hour, 2)
	s.now = func() time.Time { return now }

	_, ok := s.Get(ctx, "pizza")
	assert.False(t, ok)

	s.Set(ctx, "pizza", sampleReport("pizza"))
	got, ok := s.Get(ctx, "pizza")
	require.True(t, ok)
	assert.Equal(t, sampleReport("pizza"), got)

	t.Run("expiry", func(t *testing.T) {
		now = now.Add(time.Hour)
		_, ok := s.Get(ctx, "pizza")
		assert.False(t, ok)
		assert.Equal(t, 0, s.Len())
	})

	t.Run("eviction", func(t *testing.T) {
		s.Set(ctx, "a", sampleReport("a"))
		s.Set(ctx, "b", sampleReport("b"))
		s.Set(ctx, "c", sampleReport("c"))
		assert.Equal(t, 2, s.Len())
		_, ok := s.Get(ctx, "a")
		assert.False(t, ok, "oldest entry evicted")
	})

	t.Run("corrupt value is a miss", func(t *testing.T) {
		s.mu.Lock()
		s.entries["bad"] = &memoryEntry{data: []byte("{not json"), expiresAt: now.Add(time.Minute)}
		s.mu.Unlock()
		_, ok := s.Get(ctx, "bad")
		assert.False(t, ok)
	})
}

func TestRedisStore(t *testing.T) {
	ctx := context.Background()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	s := NewRedisStoreFromClient(client, time.Hour, "")

	s.Set(ctx, "pizza", sampleReport("pizza"))
	assert.True(t, mr.Exists("pizza"), "dish name is the key")
	assert.Equal(t, time.Hour, mr.TTL("pizza"))

	got, ok := s.Get(ctx, "pizza")
	require.True(t, ok)
	assert.Equal(t, sampleReport("pizza"), got)

	t.Run("last write wins", func(t *testing.T) {
		second := sampleReport("pizza")
		second.Metrics.CarbonPerServingKg = domain.Float(2.0)
		s.Set(ctx, "pizza", second)
		got, ok := s.Get(ctx, "pizza")
		require.True(t, ok)
		assert.Equal(t, 2.0, *got.Metrics.CarbonPerServingKg)
	})

	t.Run("expiry", func(t *testing.T) {
		mr.FastForward(time.Hour + time.Second)
		_, ok := s.Get(ctx, "pizza")
		assert.False(t, ok)
	})

	t.Run("corrupt value is a miss", func(t *testing.T) {
		require.NoError(t, mr.Set("broken", "not json"))
		_, ok := s.Get(ctx, "broken")
		assert.False(t, ok)
	})

	t.Run("outage is a miss and writes are swallowed", func(t *testing.T) {
		mr.Close()
		_, ok := s.Get(ctx, "pizza")
		assert.False(t, ok)
		assert.NotPanics(t, func() { s.Set(ctx, "pizza", sampleReport("pizza")) })
	})
}

func TestRedisStorePrefix(t *testing.T) {
	mr := miniredis.RunT(t)
	s := NewRedisStoreFromClient(redis.NewClient(&redis.Options{Addr: mr.Addr()}), time.Minute, "dish:")

	s.Set(context.Background(), "ramen", sampleReport("ramen"))
	assert.True(t, mr.Exists("dish:ramen"))
}

func TestSQLStore(t *testing.T) {
	ctx := context.Background()
	db, err := repository.InitDB(&config.DatabaseConfig{
		Driver:      "sqlite",
		Path:        filepath.Join(t.TempDir(), "cache.db"),
		AutoMigrate: true,
	})
	require.NoError(t, err)

	now := time.Now()
	s := NewSQLStore(db, time.Hour)
	s.now = func() time.Time { return now }
	defer s.Close()

	s.Set(ctx, "dal makhani", sampleReport("dal makhani"))
	got, ok := s.Get(ctx, "dal makhani")
	require.True(t, ok)
	assert.Equal(t, "dal makhani", got.Ingredients.Dish)

	now = now.Add(2 * time.Hour)
	_, ok = s.Get(ctx, "dal makhani")
	assert.False(t, ok, "expired row is a miss")

	removed, err := s.Purge(ctx)
	require.NoError(t, err)
	assert.Equal(t, int64(1), removed)
}

func TestNewStore(t *testing.T) {
	ctx := context.Background()

	t.Run("memory", func(t *testing.T) {
		s, degraded := NewStore(ctx, config.CacheConfig{Driver: "memory", TTL: time.Minute}, config.DatabaseConfig{})
		assert.False(t, degraded)
		assert.Equal(t, "memory", s.Name())
	})

	t.Run("redis", func(t *testing.T) {
		mr := miniredis.RunT(t)
		s, degraded := NewStore(ctx, config.CacheConfig{Driver: "redis", URL: "redis://" + mr.Addr() + "/0", TTL: time.Minute}, config.DatabaseConfig{})
		assert.False(t, degraded)
		assert.Equal(t, "redis", s.Name())
		require.NoError(t, s.Close())
	})

	t.Run("unreachable redis degrades to noop", func(t *testing.T) {
		mr := miniredis.RunT(t)
		addr := mr.Addr()
		mr.Close()

		s, degraded := NewStore(ctx, config.CacheConfig{Driver: "redis", URL: "redis://" + addr + "/0", TTL: time.Minute}, config.DatabaseConfig{})
		assert.True(t, degraded)
		assert.Equal(t, "none", s.Name())

		s.Set(ctx, "pizza", sampleReport("pizza"))
		_, ok := s.Get(ctx, "pizza")
		assert.False(t, ok)
	})

	t.Run("sqlite", func(t *testing.T) {
		s, degraded := NewStore(ctx, config.CacheConfig{Driver: "sqlite", TTL: time.Minute},
			config.DatabaseConfig{Path: filepath.Join(t.TempDir(), "c.db")})
		assert.False(t, degraded)
		assert.Equal(t, "sql", s.Name())
		require.NoError(t, s.Close())
	})
}
