package cache

import (
	"context"
	"fmt"

	"github.com/timmy/carbonbite/internal/config"
	"github.com/timmy/carbonbite/internal/logger"
	"github.com/timmy/carbonbite/internal/repository"
)

// NewStore builds the backend named by cfg.Driver. When the backend cannot be
// reached the service runs uncached: the failure is logged and a NoopStore is
// returned with the second result set to true.
func NewStore(ctx context.Context, cfg config.CacheConfig, dbCfg config.DatabaseConfig) (Store, bool) {
	store, err := open(ctx, cfg, dbCfg)
	if err != nil {
		logger.With(logger.Fields{
			logger.FieldComponent: "cache",
			"driver":              cfg.Driver,
		}).Warn(ctx, "Cache unavailable, running without cache: %v", err)
		return NoopStore{}, true
	}

	logger.With(logger.Fields{
		logger.FieldComponent: "cache",
		"backend":             store.Name(),
		"ttl":                 cfg.TTL.String(),
	}).Info(ctx, "Cache store ready")
	return store, false
}

func open(ctx context.Context, cfg config.CacheConfig, dbCfg config.DatabaseConfig) (Store, error) {
	switch cfg.Driver {
	case "redis":
		s, err := NewRedisStore(ctx, cfg.URL, cfg.TTL, cfg.KeyPrefix)
		if err != nil {
			return nil, err
		}
		return s, nil
	case "postgres", "sqlite":
		dbCfg.Driver = cfg.Driver
		if cfg.Driver == "postgres" && cfg.URL != "" && dbCfg.URL == "" {
			dbCfg.URL = cfg.URL
		}
		dbCfg.AutoMigrate = true
		db, err := repository.InitDB(&dbCfg)
		if err != nil {
			return nil, err
		}
		return NewSQLStore(db, cfg.TTL), nil
	case "memory":
		return NewMemoryStore(cfg.TTL, cfg.MaxEntries), nil
	case "none", "":
		return NoopStore{}, nil
	}
	return nil, fmt.Errorf("unknown cache driver %q", cfg.Driver)
}
