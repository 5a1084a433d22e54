package ingest

import (
	"context"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/dawn1811/Rok-Manager/internal/domain"
	"github.com/dawn1811/Rok-Manager/internal/identity"
	"github.com/dawn1811/Rok-Manager/internal/source"
	"github.com/dawn1811/Rok-Manager/internal/store"
)

// RunnerConfig configures an ingestion run.
type RunnerConfig struct {
	MaxBatchOps int
}

// Runner drives one ingestion run: load registry, walk every source table
// of every event, resolve and stage each row, flush per table, save the
// registry once at the end. Processing is strictly sequential; all I/O is
// blocking. Failures are contained per row, table, or batch and counted
// into the run summary - only a failed registry save aborts with an error.
type Runner struct {
	registry  *identity.Lifecycle
	resolver  *identity.Resolver
	snapshots store.SnapshotStore
	catalog   source.Catalog
	reader    source.Reader
	config    RunnerConfig
	log       *zap.Logger

	now func() time.Time
}

// NewRunner creates a new ingestion runner.
func NewRunner(registry *identity.Lifecycle, resolver *identity.Resolver, snapshots store.SnapshotStore, catalog source.Catalog, reader source.Reader, config RunnerConfig, log *zap.Logger) *Runner {
	return &Runner{
		registry:  registry,
		resolver:  resolver,
		snapshots: snapshots,
		catalog:   catalog,
		reader:    reader,
		config:    config,
		log:       log,
		now:       time.Now,
	}
}

// Run ingests every source table of the given events and returns the run
// summary.
func (r *Runner) Run(ctx context.Context, events []string) (*domain.RunSummary, error) {
	summary := &domain.RunSummary{Started: r.now()}

	reg, degraded := r.registry.Load(ctx)
	summary.RegistryDegraded = degraded

	writer := NewWriter(r.snapshots, WriterConfig{MaxBatchOps: r.config.MaxBatchOps}, r.log)

	for _, eventID := range events {
		r.log.Info("Processing event", zap.String("event_id", eventID))

		tables, err := r.catalog.ListTables(ctx, eventID)
		if err != nil {
			summary.SourcesSkipped++
			r.log.Error("Failed to list tables for event, skipping",
				zap.String("event_id", eventID),
				zap.Error(err))
			continue
		}

		for _, ref := range tables {
			r.processTable(ctx, ref, eventID, reg, writer, summary)
		}
	}

	// Tables flush their own remainder; this catches an empty run cleanly.
	writer.Flush(ctx)

	summary.BatchesCommitted = writer.Committed()
	summary.BatchesFailed = writer.Failed()

	if err := r.registry.Save(ctx, reg); err != nil {
		summary.Finished = r.now()
		return summary, err
	}

	summary.Finished = r.now()
	r.log.Info("Ingestion run finished",
		zap.Int("tables_processed", summary.TablesProcessed),
		zap.Int("rows_ingested", summary.RowsIngested),
		zap.Int("rows_skipped", summary.RowsSkipped),
		zap.Int("batches_committed", summary.BatchesCommitted),
		zap.Int("batches_failed", summary.BatchesFailed),
		zap.Int("entities_created", summary.EntitiesCreated))
	return summary, nil
}

func (r *Runner) processTable(ctx context.Context, ref source.TableRef, eventID string, reg *domain.Registry, writer *Writer, summary *domain.RunSummary) {
	dateID, ok := ResolveDate(ref.Title)
	if !ok {
		summary.TablesSkipped++
		r.log.Warn("Could not resolve a snapshot date from table title, skipping table",
			zap.String("table", ref.ID),
			zap.String("title", ref.Title))
		return
	}

	rows, err := r.reader.ReadRows(ctx, ref)
	if err != nil {
		summary.SourcesSkipped++
		r.log.Error("Failed to read table, skipping",
			zap.String("table", ref.ID),
			zap.Error(err))
		return
	}

	for i, row := range rows {
		rawID := strings.TrimSpace(row[source.FieldID])
		rawName := strings.TrimSpace(row[source.FieldName])
		if rawID == "" || rawName == "" {
			summary.RowsSkipped++
			r.log.Warn("Row is missing identity fields, skipping",
				zap.String("table", ref.ID),
				zap.Int("row", i+1))
			continue
		}

		entityID, created, ambiguous, err := r.resolver.Resolve(rawID, rawName, eventID, reg)
		if err != nil {
			summary.RowsSkipped++
			r.log.Warn("Failed to resolve row identity, skipping",
				zap.String("table", ref.ID),
				zap.Int("row", i+1),
				zap.Error(err))
			continue
		}
		if created {
			summary.EntitiesCreated++
		}
		if ambiguous {
			summary.AmbiguousNames++
		}

		metrics, attrs := NormalizeFields(row, source.FieldID, source.FieldName)

		writer.Stage(ctx, &domain.SnapshotRecord{
			EntityID:    entityID,
			EventID:     eventID,
			DateID:      dateID,
			RawID:       rawID,
			RawName:     rawName,
			Metrics:     metrics,
			Attributes:  attrs,
			UploadedAt:  r.now(),
			SourceTable: ref.ID,
			SourceTitle: ref.Title,
		})
		summary.RowsIngested++
	}

	writer.Flush(ctx)
	summary.TablesProcessed++
}
