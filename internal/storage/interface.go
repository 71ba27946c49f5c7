// Package storage archives uploaded dish photos in S3-compatible object storage.
package storage

import (
	"context"
	"io"
)

// ObjectStorage is the subset of bucket operations the archive needs.
type ObjectStorage interface {
	Upload(ctx context.Context, key string, reader io.Reader, size int64, contentType string) error
	Exists(ctx context.Context, key string) (bool, error)
	// GetURL returns the public URL of key, or "" when no public URL is configured.
	GetURL(key string) string
}
