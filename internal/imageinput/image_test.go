package imageinput

import (
	"bytes"
	"errors"
	"image"
	"image/color"
	"image/jpeg"
	"image/png"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/carbonbite/internal/config"
)

func pngBytes(t *testing.T, w, h int) []byte {
	t.Helper()
	img := image.NewRGBA(image.Rect(0, 0, w, h))
	img.Set(0, 0, color.RGBA{R: 200, A: 255})
	var buf bytes.Buffer
	require.NoError(t, png.Encode(&buf, img))
	return buf.Bytes()
}

func jpegBytes(t *testing.T) []byte {
	t.Helper()
	var buf bytes.Buffer
	require.NoError(t, jpeg.Encode(&buf, image.NewGray(image.Rect(0, 0, 4, 4)), nil))
	return buf.Bytes()
}

func TestValidatorAccepts(t *testing.T) {
	v := NewValidator(config.ImageConfig{})

	img, err := v.Validate(pngBytes(t, 3, 2), "image/png")
	require.NoError(t, err)
	assert.Equal(t, "image/png", img.ContentType)
	assert.Equal(t, 3, img.Width)
	assert.Equal(t, 2, img.Height)
	assert.Len(t, img.MD5, 32)
	assert.NotEmpty(t, img.Base64())

	img, err = v.Validate(jpegBytes(t), "image/jpg")
	require.NoError(t, err, "image/jpg is an accepted alias")
	assert.Equal(t, "image/jpeg", img.ContentType)

	_, err = v.Validate(pngBytes(t, 1, 1), "")
	assert.NoError(t, err, "missing declared type falls back to sniffing")
}

func TestValidatorRejects(t *testing.T) {
	v := NewValidator(config.ImageConfig{MaxBytes: 1024, AllowedTypes: config.DefaultAllowedImageTypes})

	tests := []struct {
		name     string
		data     []byte
		declared string
		want     error
	}{
		{"empty", nil, "image/png", ErrEmpty},
		{"too large", bytes.Repeat([]byte{0}, 2048), "image/png", ErrTooLarge},
		{"declared gif", pngBytes(t, 1, 1), "image/gif", ErrUnsupportedType},
		{"text posing as png", []byte("hello, this is not an image"), "image/png", ErrUnsupportedType},
		{"truncated png", pngBytes(t, 4, 4)[:20], "image/png", ErrUndecodable},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := v.Validate(tt.data, tt.declared)
			require.Error(t, err)
			assert.True(t, errors.Is(err, tt.want), "got %v", err)
			assert.True(t, errors.Is(err, ErrInvalidImage))
		})
	}
}

func TestReadLimited(t *testing.T) {
	data, err := ReadLimited(strings.NewReader("12345"), 5)
	require.NoError(t, err)
	assert.Equal(t, "12345", string(data))

	_, err = ReadLimited(strings.NewReader("123456"), 5)
	assert.ErrorIs(t, err, ErrTooLarge)
}
