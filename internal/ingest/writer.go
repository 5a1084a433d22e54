package ingest

import (
	"context"

	"go.uber.org/zap"

	"github.com/dawn1811/Rok-Manager/internal/domain"
	"github.com/dawn1811/Rok-Manager/internal/store"
)

// DefaultMaxBatchOps is one below the per-commit hard limit of the original
// backing store; kept as the default ceiling so batch sizes stay portable.
const DefaultMaxBatchOps = 499

// WriterConfig configures the snapshot batch writer.
type WriterConfig struct {
	MaxBatchOps int
}

// Writer accumulates snapshot upserts into size-bounded batches and commits
// each batch as a single atomic operation. It auto-flushes when the queued
// operation count reaches the ceiling; the orchestrator flushes the
// remainder at the end of every source table.
type Writer struct {
	store  store.SnapshotStore
	config WriterConfig
	log    *zap.Logger

	pending   []*domain.SnapshotRecord
	committed int
	failed    int
}

// NewWriter creates a new batch writer.
func NewWriter(st store.SnapshotStore, config WriterConfig, log *zap.Logger) *Writer {
	if config.MaxBatchOps <= 0 {
		config.MaxBatchOps = DefaultMaxBatchOps
	}
	return &Writer{
		store:   st,
		config:  config,
		log:     log,
		pending: make([]*domain.SnapshotRecord, 0, config.MaxBatchOps),
	}
}

// Stage enqueues one snapshot upsert, flushing automatically when the batch
// reaches the configured ceiling.
func (w *Writer) Stage(ctx context.Context, snapshot *domain.SnapshotRecord) {
	w.pending = append(w.pending, snapshot)
	if len(w.pending) >= w.config.MaxBatchOps {
		w.log.Info("Batch ceiling reached", zap.Int("batch_size", len(w.pending)))
		w.Flush(ctx)
	}
}

// Flush commits the current batch atomically. A failed commit is logged,
// counted, and discarded; nothing is retried or requeued, so the run can
// continue with the next batch.
func (w *Writer) Flush(ctx context.Context) {
	if len(w.pending) == 0 {
		return
	}

	batch := w.pending
	w.pending = make([]*domain.SnapshotRecord, 0, w.config.MaxBatchOps)

	if err := w.store.CommitBatch(ctx, batch); err != nil {
		w.failed++
		w.log.Error("Failed to commit snapshot batch, discarding",
			zap.Error(err),
			zap.Int("snapshot_count", len(batch)))
		return
	}

	w.committed++
	w.log.Info("Committed snapshot batch", zap.Int("snapshot_count", len(batch)))
}

// Pending returns the number of staged, uncommitted snapshots.
func (w *Writer) Pending() int { return len(w.pending) }

// Committed returns the number of successfully committed batches.
func (w *Writer) Committed() int { return w.committed }

// Failed returns the number of discarded batches.
func (w *Writer) Failed() int { return w.failed }
