package service

import (
	"context"
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/dawn1811/Rok-Manager/internal/domain"
	"github.com/dawn1811/Rok-Manager/internal/metrics"
)

// Runner executes one full ingestion run.
type Runner interface {
	Run(ctx context.Context, events []string) (*domain.RunSummary, error)
}

// ErrRunActive is returned when a run is requested while one is executing.
var ErrRunActive = fmt.Errorf("an ingestion run is already active")

// RunService serializes ingestion runs. The registry and snapshot stores
// assume a single writer, so overlapping runs are refused outright rather
// than queued.
type RunService struct {
	runner Runner
	events []string
	log    *zap.Logger

	mu      sync.Mutex
	stateMu sync.Mutex
	last    *domain.RunSummary
	lastErr error
}

// NewRunService creates a new run service for the configured events.
func NewRunService(runner Runner, events []string, log *zap.Logger) *RunService {
	return &RunService{
		runner: runner,
		events: events,
		log:    log,
	}
}

// Trigger executes an ingestion run, refusing to start while another run
// holds the lock. The returned summary is also kept for LastRun.
func (s *RunService) Trigger(ctx context.Context) (*domain.RunSummary, error) {
	if !s.mu.TryLock() {
		s.log.Warn("Ingestion run refused, another run is active")
		return nil, ErrRunActive
	}
	defer s.mu.Unlock()

	summary, err := s.runner.Run(ctx, s.events)
	if summary != nil {
		metrics.ObserveRun(summary)
	}

	s.stateMu.Lock()
	s.last = summary
	s.lastErr = err
	s.stateMu.Unlock()

	if err != nil {
		return summary, fmt.Errorf("ingestion run failed: %w", err)
	}
	return summary, nil
}

// LastRun returns the most recent run summary and its error, or nil if no
// run has completed yet.
func (s *RunService) LastRun() (*domain.RunSummary, error) {
	s.stateMu.Lock()
	defer s.stateMu.Unlock()
	return s.last, s.lastErr
}
