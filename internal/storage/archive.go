package storage

import (
	"bytes"
	"context"
	"path"
	"strings"

	"github.com/timmy/carbonbite/internal/config"
	"github.com/timmy/carbonbite/internal/imageinput"
	"github.com/timmy/carbonbite/internal/logger"
)

// Archive keeps a copy of every distinct uploaded photo, keyed by content hash.
// Failures are logged and never reach the caller.
type Archive struct {
	store  ObjectStorage
	prefix string
}

// NewArchive wraps store. prefix defaults to "uploads".
func NewArchive(store ObjectStorage, prefix string) *Archive {
	prefix = strings.Trim(prefix, "/")
	if prefix == "" {
		prefix = "uploads"
	}
	return &Archive{store: store, prefix: prefix}
}

// NewArchiveFromConfig returns nil when archiving is disabled.
func NewArchiveFromConfig(ctx context.Context, cfg config.StorageConfig) (*Archive, error) {
	if !cfg.Enabled {
		return nil, nil
	}
	s3s, err := NewS3Storage(ctx, cfg)
	if err != nil {
		return nil, err
	}
	return NewArchive(s3s, cfg.Prefix), nil
}

// Key returns the object key for img: <prefix>/<md5[:2]>/<md5>.<ext>.
func (a *Archive) Key(img *imageinput.Image) string {
	return path.Join(a.prefix, img.MD5[:2], img.MD5+"."+extension(img.ContentType))
}

// Save uploads img unless an object with the same hash exists and returns its
// key. On failure it returns "".
func (a *Archive) Save(ctx context.Context, img *imageinput.Image) string {
	if a == nil || img == nil || len(img.MD5) < 2 {
		return ""
	}
	key := a.Key(img)
	log := logger.With(logger.Fields{
		logger.FieldComponent: "archive",
		"key":                 key,
		logger.FieldSize:      len(img.Data),
	})

	exists, err := a.store.Exists(ctx, key)
	if err != nil {
		log.Warn(ctx, "Archive lookup failed: %v", err)
		return ""
	}
	if exists {
		log.Debug(ctx, "Image already archived")
		return key
	}

	if err := a.store.Upload(ctx, key, bytes.NewReader(img.Data), int64(len(img.Data)), img.ContentType); err != nil {
		log.Warn(ctx, "Archive upload failed: %v", err)
		return ""
	}
	log.Info(ctx, "Archived uploaded image")
	return key
}

// URL returns the public URL for key, if one is configured.
func (a *Archive) URL(key string) string {
	if a == nil || key == "" {
		return ""
	}
	return a.store.GetURL(key)
}

func extension(contentType string) string {
	switch contentType {
	case "image/png":
		return "png"
	case "image/webp":
		return "webp"
	case "image/jpeg":
		return "jpg"
	}
	return "bin"
}
