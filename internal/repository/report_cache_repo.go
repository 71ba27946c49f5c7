package repository

import (
	"context"
	"errors"
	"time"

	"github.com/timmy/carbonbite/internal/domain"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// ReportCacheRepository stores serialized analysis reports keyed by dish name.
type ReportCacheRepository struct {
	db *gorm.DB
}

// NewReportCacheRepository creates a new ReportCacheRepository.
func NewReportCacheRepository(db *gorm.DB) *ReportCacheRepository {
	return &ReportCacheRepository{db: db}
}

// GetLive returns the entry for key if it has not expired at now.
// Parameters:
//   - ctx: context for cancellation and deadlines.
//   - key: normalized dish name.
//   - now: reference time for expiry.
//
// Returns:
//   - *domain.ReportCacheEntry: live entry, or nil when missing or expired.
//   - error: non-nil if the lookup fails.
func (r *ReportCacheRepository) GetLive(ctx context.Context, key string, now time.Time) (*domain.ReportCacheEntry, error) {
	var entry domain.ReportCacheEntry
	err := r.db.WithContext(ctx).
		Where("cache_key = ? AND expires_at > ?", key, now).
		First(&entry).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return &entry, nil
}

// Upsert inserts entry or overwrites the existing row with the same key.
// Concurrent writers for one key resolve to the last write.
func (r *ReportCacheRepository) Upsert(ctx context.Context, entry *domain.ReportCacheEntry) error {
	return r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "cache_key"}},
			DoUpdates: clause.AssignmentColumns([]string{"payload", "expires_at", "updated_at"}),
		}).
		Create(entry).Error
}

// DeleteExpired removes rows past their expiry and returns how many were removed.
func (r *ReportCacheRepository) DeleteExpired(ctx context.Context, now time.Time) (int64, error) {
	res := r.db.WithContext(ctx).
		Where("expires_at <= ?", now).
		Delete(&domain.ReportCacheEntry{})
	return res.RowsAffected, res.Error
}

// Count returns the number of stored rows, expired or not.
func (r *ReportCacheRepository) Count(ctx context.Context) (int64, error) {
	var n int64
	err := r.db.WithContext(ctx).Model(&domain.ReportCacheEntry{}).Count(&n).Error
	return n, err
}
