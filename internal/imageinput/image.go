// Package imageinput validates uploaded dish photos before they reach a
// reasoning provider.
package imageinput

import (
	"bytes"
	"crypto/md5"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"image"
	_ "image/jpeg"
	_ "image/png"
	"io"
	"mime"
	"strings"

	"github.com/gabriel-vasile/mimetype"
	"github.com/timmy/carbonbite/internal/config"
	_ "golang.org/x/image/webp"
)

// ErrInvalidImage is wrapped by every validation failure.
var ErrInvalidImage = errors.New("invalid image")

var (
	ErrEmpty           = fmt.Errorf("%w: empty upload", ErrInvalidImage)
	ErrTooLarge        = fmt.Errorf("%w: file too large", ErrInvalidImage)
	ErrUnsupportedType = fmt.Errorf("%w: unsupported content type", ErrInvalidImage)
	ErrUndecodable     = fmt.Errorf("%w: content is not a readable image", ErrInvalidImage)
)

// Image is a validated upload.
type Image struct {
	Data        []byte
	ContentType string
	Width       int
	Height      int
	MD5         string
}

// Base64 returns the standard base64 encoding of the image bytes.
func (i *Image) Base64() string {
	return base64.StdEncoding.EncodeToString(i.Data)
}

// Validator checks size, declared type, sniffed type and decodability.
type Validator struct {
	maxBytes int64
	allowed  map[string]bool
}

func NewValidator(cfg config.ImageConfig) *Validator {
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = config.DefaultMaxImageBytes
	}
	types := cfg.AllowedTypes
	if len(types) == 0 {
		types = config.DefaultAllowedImageTypes
	}
	allowed := make(map[string]bool, len(types))
	for _, t := range types {
		allowed[canonicalType(t)] = true
	}
	return &Validator{maxBytes: maxBytes, allowed: allowed}
}

// MaxBytes returns the upload size limit.
func (v *Validator) MaxBytes() int64 { return v.maxBytes }

// Validate checks data against the limits. declaredType is the client's
// Content-Type and may be empty.
func (v *Validator) Validate(data []byte, declaredType string) (*Image, error) {
	if len(data) == 0 {
		return nil, ErrEmpty
	}
	if int64(len(data)) > v.maxBytes {
		return nil, fmt.Errorf("%w: %d bytes exceeds %d", ErrTooLarge, len(data), v.maxBytes)
	}

	if declaredType != "" && !v.allowed[canonicalType(declaredType)] {
		return nil, fmt.Errorf("%w: declared %q", ErrUnsupportedType, declaredType)
	}

	sniffed := canonicalType(mimetype.Detect(data).String())
	if !v.allowed[sniffed] {
		return nil, fmt.Errorf("%w: detected %q", ErrUnsupportedType, sniffed)
	}

	cfg, _, err := image.DecodeConfig(bytes.NewReader(data))
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUndecodable, err)
	}

	sum := md5.Sum(data)
	return &Image{
		Data:        data,
		ContentType: sniffed,
		Width:       cfg.Width,
		Height:      cfg.Height,
		MD5:         hex.EncodeToString(sum[:]),
	}, nil
}

// ReadLimited reads r, failing with ErrTooLarge once more than max bytes arrive.
func ReadLimited(r io.Reader, max int64) ([]byte, error) {
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, fmt.Errorf("read upload: %w", err)
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w: more than %d bytes", ErrTooLarge, max)
	}
	return data, nil
}

// canonicalType strips parameters, lowercases, and maps image/jpg to image/jpeg.
func canonicalType(t string) string {
	if mt, _, err := mime.ParseMediaType(t); err == nil {
		t = mt
	}
	t = strings.ToLower(strings.TrimSpace(t))
	if t == "image/jpg" {
		return "image/jpeg"
	}
	return t
}
