package source

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFileSource(t *testing.T) {
	path := filepath.Join(t.TempDir(), "dishes.txt")
	content := "# popular dishes\npizza\n\nChicken Biryani\n  pizza  \nPIZZA\npad thai\n"
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	src := NewFile(path)
	assert.Equal(t, "file:dishes.txt", src.GetSourceID())

	n, err := src.Count()
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	items, next, err := src.FetchBatch(context.Background(), "", 2)
	require.NoError(t, err)
	assert.Equal(t, []DishItem{{Name: "pizza", Line: 2}, {Name: "Chicken Biryani", Line: 4}}, items)
	assert.Equal(t, "2", next)

	items, next, err = src.FetchBatch(context.Background(), next, 2)
	require.NoError(t, err)
	assert.Equal(t, []DishItem{{Name: "pad thai", Line: 7}}, items)
	assert.Empty(t, next)
}

func TestFileSourceMissing(t *testing.T) {
	_, _, err := NewFile(filepath.Join(t.TempDir(), "nope.txt")).FetchBatch(context.Background(), "", 10)
	assert.Error(t, err)
}

func TestStaticPaging(t *testing.T) {
	src := NewStatic("req", []string{"a", "b", "c"})

	tests := []struct {
		name     string
		cursor   string
		limit    int
		wantLen  int
		wantNext string
		wantErr  bool
	}{
		{"first page", "", 2, 2, "2", false},
		{"last page", "2", 2, 1, "", false},
		{"past end", "5", 2, 0, "", false},
		{"no limit", "", 0, 3, "", false},
		{"bad cursor", "x", 2, 0, "", true},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			items, next, err := src.FetchBatch(context.Background(), tt.cursor, tt.limit)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Len(t, items, tt.wantLen)
			assert.Equal(t, tt.wantNext, next)
		})
	}
}
