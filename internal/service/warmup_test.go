package service

import (
	"context"
	"fmt"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/timmy/carbonbite/internal/cache"
	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/source"
)

type stubAnalyzer struct {
	mu    sync.Mutex
	seen  []string
	block chan struct{}
}

func (a *stubAnalyzer) AnalyzeDish(ctx context.Context, raw string) (*Outcome, error) {
	if a.block != nil {
		<-a.block
	}
	a.mu.Lock()
	a.seen = append(a.seen, raw)
	a.mu.Unlock()

	switch name := strings.ToLower(strings.TrimSpace(raw)); {
	case name == "":
		return nil, ErrInvalidInput
	case name == "chair":
		return nil, fmt.Errorf("%w: not a dish", ErrInvalidDish)
	case name == "flaky":
		return nil, fmt.Errorf("%w: status 503", ErrInternal)
	case strings.HasPrefix(name, "cached"):
		return &Outcome{Status: OutcomeReport, Dish: domain.DishName(name), Cached: true}, nil
	default:
		return &Outcome{Status: OutcomeReport, Dish: domain.DishName(name)}, nil
	}
}

func TestWarmupRunCollectsStats(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc := NewWarmupService(analyzer, &WarmupConfig{Workers: 3, BatchSize: 2})
	src := source.NewStatic("test", []string{"pizza", "cached ramen", "chair", "", "flaky", "dal"})

	job, err := svc.Run(context.Background(), src, 0)
	require.NoError(t, err)

	assert.Equal(t, domain.JobStatusCompleted, job.Status)
	assert.Equal(t, "static:test", job.Source)
	assert.Equal(t, 6, job.Total)
	assert.Equal(t, 6, job.Processed)
	assert.Equal(t, 1, job.Cached)
	assert.Equal(t, 2, job.Invalid)
	assert.Equal(t, 1, job.Failed)
	assert.Contains(t, job.ErrorLog, "flaky")
	require.NotNil(t, job.CompletedAt)
	assert.ElementsMatch(t, []string{"pizza", "cached ramen", "chair", "", "flaky", "dal"}, analyzer.seen)

	latest := svc.Latest()
	require.NotNil(t, latest)
	assert.Equal(t, job.ID, latest.ID)
}

func TestWarmupRunRespectsLimit(t *testing.T) {
	analyzer := &stubAnalyzer{}
	svc := NewWarmupService(analyzer, &WarmupConfig{Workers: 2, BatchSize: 10})

	job, err := svc.Run(context.Background(), source.NewStatic("test", []string{"a", "b", "c", "d"}), 3)
	require.NoError(t, err)
	assert.Equal(t, 3, job.Total)
	assert.Len(t, analyzer.seen, 3)
}

func TestWarmupStartRejectsConcurrentJob(t *testing.T) {
	analyzer := &stubAnalyzer{block: make(chan struct{})}
	svc := NewWarmupService(analyzer, nil)
	src := source.NewStatic("test", []string{"pizza"})

	job, err := svc.Start(context.Background(), src, 0)
	require.NoError(t, err)
	assert.Equal(t, domain.JobStatusRunning, job.Status)

	_, err = svc.Start(context.Background(), src, 0)
	assert.ErrorIs(t, err, ErrWarmupRunning)

	close(analyzer.block)
	require.Eventually(t, func() bool {
		j, err := svc.Job(job.ID)
		return err == nil && j.Status == domain.JobStatusCompleted
	}, 2*time.Second, 10*time.Millisecond)

	_, err = svc.Job("missing")
	assert.Error(t, err)
}

func TestWarmupFillsCache(t *testing.T) {
	fake := pizzaFake()
	store := cache.NewMemoryStore(time.Hour, 0)
	analysis := NewCarbonAnalysisService(CarbonAnalysisDeps{Cache: store, Text: fake})
	svc := NewWarmupService(analysis, &WarmupConfig{Workers: 1, BatchSize: 5})

	job, err := svc.Run(context.Background(), source.NewStatic("test", []string{"Pizza", "Margherita"}), 0)
	require.NoError(t, err)
	assert.Equal(t, 2, job.Processed)
	assert.Zero(t, job.Failed)
	assert.Equal(t, 2, store.Len())

	job, err = svc.Run(context.Background(), source.NewStatic("test", []string{"pizza "}), 0)
	require.NoError(t, err)
	assert.Equal(t, 1, job.Cached)
}
