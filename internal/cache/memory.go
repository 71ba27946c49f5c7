package cache

import (
	"context"
	"sync"
	"time"

	"github.com/timmy/carbonbite/internal/domain"
)

type memoryEntry struct {
	data      []byte
	expiresAt time.Time
}

// MemoryStore is an in-process store with TTL expiry and oldest-first
// eviction past maxEntries. Values are kept serialized so callers never
// share a report instance.
type MemoryStore struct {
	mu         sync.Mutex
	entries    map[domain.DishName]*memoryEntry
	order      []domain.DishName // insertion order, oldest first
	ttl        time.Duration
	maxEntries int
	now        func() time.Time
}

// NewMemoryStore creates a MemoryStore. maxEntries <= 0 means unbounded.
func NewMemoryStore(ttl time.Duration, maxEntries int) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &MemoryStore{
		entries:    make(map[domain.DishName]*memoryEntry),
		ttl:        ttl,
		maxEntries: maxEntries,
		now:        time.Now,
	}
}

func (s *MemoryStore) Name() string { return "memory" }

func (s *MemoryStore) Get(ctx context.Context, key domain.DishName) (*domain.DishCarbonAnalysisReport, bool) {
	s.mu.Lock()
	e, ok := s.entries[key]
	if ok && !s.now().Before(e.expiresAt) {
		delete(s.entries, key)
		s.removeFromOrder(key)
		ok = false
	}
	s.mu.Unlock()
	if !ok {
		return nil, false
	}

	report, err := decode(e.data)
	if err != nil {
		logMiss(ctx, s.Name(), key, "decode", err)
		return nil, false
	}
	return report, true
}

func (s *MemoryStore) Set(ctx context.Context, key domain.DishName, report *domain.DishCarbonAnalysisReport) {
	data, err := encode(report)
	if err != nil {
		logWriteFailure(ctx, s.Name(), key, err)
		return
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.entries[key]; !exists {
		for s.maxEntries > 0 && len(s.entries) >= s.maxEntries && len(s.order) > 0 {
			delete(s.entries, s.order[0])
			s.order = s.order[1:]
		}
		s.order = append(s.order, key)
	}
	s.entries[key] = &memoryEntry{data: data, expiresAt: s.now().Add(s.ttl)}
}

// Len returns the number of stored entries, including expired ones not yet evicted.
func (s *MemoryStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.entries)
}

func (s *MemoryStore) Close() error { return nil }

func (s *MemoryStore) removeFromOrder(key domain.DishName) {
	for i, k := range s.order {
		if k == key {
			s.order = append(s.order[:i], s.order[i+1:]...)
			return
		}
	}
}
