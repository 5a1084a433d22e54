package service

import (
	"context"

	"github.com/dawn1811/Rok-Manager/internal/domain"
)

// RunServicer defines the interface for triggering and inspecting
// ingestion runs
type RunServicer interface {
	Trigger(ctx context.Context) (*domain.RunSummary, error)
	LastRun() (*domain.RunSummary, error)
}
