package storage

import (
	"context"
	"errors"
	"io"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/carbonbite/internal/config"
	"github.com/timmy/carbonbite/internal/imageinput"
)

type memObjects struct {
	objects   map[string][]byte
	uploads   int
	existsErr error
	uploadErr error
}

func newMemObjects() *memObjects {
	return &memObjects{objects: make(map[string][]byte)}
}

func (m *memObjects) Upload(_ context.Context, key string, r io.Reader, _ int64, _ string) error {
	if m.uploadErr != nil {
		return m.uploadErr
	}
	data, err := io.ReadAll(r)
	if err != nil {
		return err
	}
	m.uploads++
	m.objects[key] = data
	return nil
}

func (m *memObjects) Exists(_ context.Context, key string) (bool, error) {
	if m.existsErr != nil {
		return false, m.existsErr
	}
	_, ok := m.objects[key]
	return ok, nil
}

func (m *memObjects) GetURL(key string) string {
	return "https://cdn.example.com/" + key
}

func testImage() *imageinput.Image {
	return &imageinput.Image{
		Data:        []byte("fake-png"),
		ContentType: "image/png",
		MD5:         "ab12cd34ef56ab12cd34ef56ab12cd34",
	}
}

func TestArchiveSaveDeduplicates(t *testing.T) {
	objs := newMemObjects()
	a := NewArchive(objs, "/photos/")
	img := testImage()

	key := a.Save(context.Background(), img)
	assert.Equal(t, "photos/ab/ab12cd34ef56ab12cd34ef56ab12cd34.png", key)
	assert.Equal(t, []byte("fake-png"), objs.objects[key])

	again := a.Save(context.Background(), img)
	assert.Equal(t, key, again)
	assert.Equal(t, 1, objs.uploads)
	assert.Equal(t, "https://cdn.example.com/"+key, a.URL(key))
}

func TestArchiveSaveSwallowsFailures(t *testing.T) {
	objs := newMemObjects()
	objs.uploadErr = errors.New("bucket gone")
	a := NewArchive(objs, "")
	assert.Empty(t, a.Save(context.Background(), testImage()))

	objs = newMemObjects()
	objs.existsErr = errors.New("timeout")
	a = NewArchive(objs, "")
	assert.Empty(t, a.Save(context.Background(), testImage()))
}

func TestNilArchive(t *testing.T) {
	var a *Archive
	assert.Empty(t, a.Save(context.Background(), testImage()))
	assert.Empty(t, a.URL("x"))
}

func TestDetectType(t *testing.T) {
	tests := []struct {
		endpoint string
		want     Type
	}{
		{"https://acct.r2.cloudflarestorage.com", TypeR2},
		{"s3.us-west-2.amazonaws.com", TypeS3},
		{"", TypeS3},
		{"localhost:9000", TypeS3Compatible},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, detectType(tt.endpoint), tt.endpoint)
	}
	assert.Equal(t, "localhost:9000", normalizeEndpoint("http://localhost:9000/bucket/x"))
}

func TestNewArchiveFromConfigDisabled(t *testing.T) {
	a, err := NewArchiveFromConfig(context.Background(), config.StorageConfig{Bucket: "b"})
	require.NoError(t, err)
	assert.Nil(t, a)
}
