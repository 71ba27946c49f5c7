package cache

import (
	"context"
	"time"

	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/repository"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// SQLStore keeps reports in the report_cache_entries table.
type SQLStore struct {
	repo *repository.ReportCacheRepository
	db   *gorm.DB
	ttl  time.Duration
	now  func() time.Time
}

// NewSQLStore wraps a migrated database handle.
func NewSQLStore(db *gorm.DB, ttl time.Duration) *SQLStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &SQLStore{
		repo: repository.NewReportCacheRepository(db),
		db:   db,
		ttl:  ttl,
		now:  time.Now,
	}
}

func (s *SQLStore) Name() string { return "sql" }

func (s *SQLStore) Get(ctx context.Context, key domain.DishName) (*domain.DishCarbonAnalysisReport, bool) {
	entry, err := s.repo.GetLive(ctx, key.String(), s.now())
	if err != nil {
		logMiss(ctx, s.Name(), key, "read", err)
		return nil, false
	}
	if entry == nil {
		return nil, false
	}

	report, err := decode(entry.Payload)
	if err != nil {
		logMiss(ctx, s.Name(), key, "decode", err)
		return nil, false
	}
	return report, true
}

func (s *SQLStore) Set(ctx context.Context, key domain.DishName, report *domain.DishCarbonAnalysisReport) {
	data, err := encode(report)
	if err != nil {
		logWriteFailure(ctx, s.Name(), key, err)
		return
	}
	err = s.repo.Upsert(ctx, &domain.ReportCacheEntry{
		Key:       key.String(),
		Payload:   datatypes.JSON(data),
		ExpiresAt: s.now().Add(s.ttl),
	})
	if err != nil {
		logWriteFailure(ctx, s.Name(), key, err)
	}
}

// Purge deletes expired rows.
func (s *SQLStore) Purge(ctx context.Context) (int64, error) {
	return s.repo.DeleteExpired(ctx, s.now())
}

func (s *SQLStore) Close() error {
	sqlDB, err := s.db.DB()
	if err != nil {
		return err
	}
	return sqlDB.Close()
}
