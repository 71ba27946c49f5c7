package source

import (
	"bufio"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"sync"
)

// File reads dish names from a text file, one per line. Blank lines and lines
// starting with '#' are skipped, as are repeated names.
type File struct {
	path string

	once  sync.Once
	items []DishItem
	err   error
}

func NewFile(path string) *File {
	return &File{path: path}
}

func (f *File) GetSourceID() string {
	return "file:" + filepath.Base(f.path)
}

func (f *File) FetchBatch(_ context.Context, cursor string, limit int) ([]DishItem, string, error) {
	f.once.Do(f.load)
	if f.err != nil {
		return nil, "", f.err
	}
	return page(f.items, cursor, limit)
}

// Count returns the number of distinct dish names in the file.
func (f *File) Count() (int, error) {
	f.once.Do(f.load)
	return len(f.items), f.err
}

func (f *File) load() {
	file, err := os.Open(f.path)
	if err != nil {
		f.err = fmt.Errorf("failed to open dish list: %w", err)
		return
	}
	defer file.Close()

	seen := make(map[string]bool)
	scanner := bufio.NewScanner(file)
	line := 0
	for scanner.Scan() {
		line++
		text := strings.TrimSpace(scanner.Text())
		if text == "" || strings.HasPrefix(text, "#") {
			continue
		}
		key := strings.ToLower(text)
		if seen[key] {
			continue
		}
		seen[key] = true
		f.items = append(f.items, DishItem{Name: text, Line: line})
	}
	if err := scanner.Err(); err != nil {
		f.err = fmt.Errorf("error reading dish list: %w", err)
	}
}
