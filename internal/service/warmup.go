package service

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/timmy/carbonbite/internal/domain"
	"github.com/timmy/carbonbite/internal/logger"
	"github.com/timmy/carbonbite/internal/source"
)

// ErrWarmupRunning is returned by Start while another job is in progress.
var ErrWarmupRunning = errors.New("warm-up already running")

// DishAnalyzer is the part of CarbonAnalysisService used by warm-up runs.
type DishAnalyzer interface {
	AnalyzeDish(ctx context.Context, raw string) (*Outcome, error)
}

// WarmupConfig holds configuration for the warm-up service.
type WarmupConfig struct {
	Workers   int
	BatchSize int
}

// WarmupService pre-computes reports for a list of dishes so later requests
// are served from cache.
type WarmupService struct {
	analyzer  DishAnalyzer
	workers   int
	batchSize int

	mu      sync.Mutex
	current *domain.WarmupJob
	jobs    map[string]*domain.WarmupJob
}

// NewWarmupService creates a warm-up service.
// Parameters:
//   - analyzer: pipeline used for every dish, normally *CarbonAnalysisService.
//   - cfg: worker count and source batch size; zero values default to 4 and 10.
//
// Returns:
//   - *WarmupService: idle service.
func NewWarmupService(analyzer DishAnalyzer, cfg *WarmupConfig) *WarmupService {
	workers, batch := 4, 10
	if cfg != nil {
		if cfg.Workers > 0 {
			workers = cfg.Workers
		}
		if cfg.BatchSize > 0 {
			batch = cfg.BatchSize
		}
	}
	return &WarmupService{
		analyzer:  analyzer,
		workers:   workers,
		batchSize: batch,
		jobs:      make(map[string]*domain.WarmupJob),
	}
}

// Start launches a job in the background and returns its initial snapshot.
// The job stops when ctx is cancelled, so HTTP callers pass a context that
// is not tied to the request.
func (s *WarmupService) Start(ctx context.Context, src source.Source, limit int) (*domain.WarmupJob, error) {
	job, err := s.begin(src)
	if err != nil {
		return nil, err
	}
	snapshot := *job
	go s.run(ctx, job, src, limit)
	return &snapshot, nil
}

// Run executes a job synchronously and returns the final statistics.
func (s *WarmupService) Run(ctx context.Context, src source.Source, limit int) (*domain.WarmupJob, error) {
	job, err := s.begin(src)
	if err != nil {
		return nil, err
	}
	s.run(ctx, job, src, limit)
	return s.Job(job.ID)
}

// Job returns a snapshot of the job with id.
func (s *WarmupService) Job(id string) (*domain.WarmupJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	job, ok := s.jobs[id]
	if !ok {
		return nil, fmt.Errorf("warm-up job %s not found", id)
	}
	snapshot := *job
	return &snapshot, nil
}

// Latest returns a snapshot of the most recent job, or nil if none ran.
func (s *WarmupService) Latest() *domain.WarmupJob {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current == nil {
		return nil
	}
	snapshot := *s.current
	return &snapshot
}

func (s *WarmupService) begin(src source.Source) (*domain.WarmupJob, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.current != nil && (s.current.Status == domain.JobStatusRunning || s.current.Status == domain.JobStatusPending) {
		return nil, ErrWarmupRunning
	}
	now := time.Now()
	job := &domain.WarmupJob{
		ID:        uuid.New().String(),
		Source:    src.GetSourceID(),
		Status:    domain.JobStatusRunning,
		StartedAt: &now,
	}
	s.current = job
	s.jobs[job.ID] = job
	return job, nil
}

type warmupResult struct {
	dish   string
	cached bool
	err    error
}

func (s *WarmupService) run(ctx context.Context, job *domain.WarmupJob, src source.Source, limit int) {
	ctx = logger.WithField(ctx, logger.FieldWarmupID, job.ID)
	log := logger.With(logger.Fields{
		logger.FieldComponent: "warmup",
		"source":              job.Source,
		"limit":               limit,
		"workers":             s.workers,
	})
	log.Info(ctx, "Starting cache warm-up")

	itemsChan := make(chan source.DishItem, s.workers*2)
	resultsChan := make(chan warmupResult, s.workers*2)

	var wg sync.WaitGroup
	for i := 0; i < s.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			s.worker(ctx, itemsChan, resultsChan)
		}()
	}

	done := make(chan struct{})
	var failures []string
	go func() {
		for r := range resultsChan {
			s.mu.Lock()
			job.Processed++
			switch {
			case r.err == nil && r.cached:
				job.Cached++
			case r.err == nil:
				// computed
			case errors.Is(r.err, ErrInvalidInput), errors.Is(r.err, ErrInvalidDish):
				job.Invalid++
			default:
				job.Failed++
				if len(failures) < 20 {
					failures = append(failures, fmt.Sprintf("%s: %v", r.dish, r.err))
				}
			}
			s.mu.Unlock()
		}
		close(done)
	}()

	fetchErr := s.feed(ctx, job, src, limit, itemsChan)

	close(itemsChan)
	wg.Wait()
	close(resultsChan)
	<-done

	s.mu.Lock()
	now := time.Now()
	job.CompletedAt = &now
	job.ErrorLog = strings.Join(failures, "\n")
	job.Status = domain.JobStatusCompleted
	if fetchErr != nil {
		job.Status = domain.JobStatusFailed
		job.ErrorLog = strings.TrimSpace(fetchErr.Error() + "\n" + job.ErrorLog)
	}
	final := *job
	s.mu.Unlock()

	log.With(logger.Fields{
		"total":     final.Total,
		"processed": final.Processed,
		"cached":    final.Cached,
		"invalid":   final.Invalid,
		"failed":    final.Failed,
	}).WithDuration(now.Sub(*final.StartedAt).Milliseconds()).WithStatus(string(final.Status)).Info(ctx, "Cache warm-up finished")
}

// feed pages through src and hands items to the workers.
func (s *WarmupService) feed(ctx context.Context, job *domain.WarmupJob, src source.Source, limit int, out chan<- source.DishItem) error {
	cursor := ""
	fetched := 0
	for ctx.Err() == nil {
		batch := s.batchSize
		if limit > 0 {
			remaining := limit - fetched
			if remaining <= 0 {
				return nil
			}
			if batch > remaining {
				batch = remaining
			}
		}

		items, next, err := src.FetchBatch(ctx, cursor, batch)
		if err != nil {
			return fmt.Errorf("failed to fetch batch: %w", err)
		}
		if len(items) == 0 {
			return nil
		}

		s.mu.Lock()
		job.Total += len(items)
		s.mu.Unlock()
		fetched += len(items)

		for _, item := range items {
			select {
			case out <- item:
			case <-ctx.Done():
				return ctx.Err()
			}
		}

		if next == "" {
			return nil
		}
		cursor = next
	}
	return ctx.Err()
}

func (s *WarmupService) worker(ctx context.Context, items <-chan source.DishItem, results chan<- warmupResult) {
	for item := range items {
		if ctx.Err() != nil {
			results <- warmupResult{dish: item.Name, err: ctx.Err()}
			continue
		}
		out, err := s.analyzer.AnalyzeDish(ctx, item.Name)
		r := warmupResult{dish: item.Name, err: err}
		if err == nil && out != nil {
			r.cached = out.Cached
		}
		results <- r
	}
}
