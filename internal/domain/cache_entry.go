package domain

import (
	"time"

	"gorm.io/datatypes"
)

// ReportCacheEntry is a cached report row for the SQL cache backend.
type ReportCacheEntry struct {
	Key       string         `gorm:"column:cache_key;type:text;primaryKey" json:"key"`
	Payload   datatypes.JSON `gorm:"not null" json:"payload"`
	ExpiresAt time.Time      `gorm:"index:idx_report_cache_expires" json:"expires_at"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}

// TableName returns the database table name for ReportCacheEntry.
func (ReportCacheEntry) TableName() string {
	return "report_cache_entries"
}

// Expired reports whether the entry is past its TTL at now.
func (e *ReportCacheEntry) Expired(now time.Time) bool {
	return !now.Before(e.ExpiresAt)
}
