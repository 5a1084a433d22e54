package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/dawn1811/Rok-Manager/internal/domain"
)

var (
	rowsIngested = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_rows_ingested_total",
		Help: "Rows successfully resolved and staged for commit.",
	})
	rowsSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_rows_skipped_total",
		Help: "Rows skipped for missing or invalid identity fields.",
	})
	tablesSkipped = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_tables_skipped_total",
		Help: "Tables skipped because no snapshot date could be resolved.",
	})
	batchesCommitted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_batches_committed_total",
		Help: "Snapshot batches committed.",
	})
	batchesFailed = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_batches_failed_total",
		Help: "Snapshot batches discarded after a failed commit.",
	})
	entitiesCreated = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_entities_created_total",
		Help: "New entity profiles created by the resolver.",
	})
	ambiguousNames = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_ambiguous_names_total",
		Help: "Rows whose name matched multiple profiles and created a new entity.",
	})
	runsCompleted = promauto.NewCounter(prometheus.CounterOpts{
		Name: "ingest_runs_completed_total",
		Help: "Ingestion runs completed.",
	})
)

// ObserveRun records one completed run summary.
func ObserveRun(s *domain.RunSummary) {
	rowsIngested.Add(float64(s.RowsIngested))
	rowsSkipped.Add(float64(s.RowsSkipped))
	tablesSkipped.Add(float64(s.TablesSkipped))
	batchesCommitted.Add(float64(s.BatchesCommitted))
	batchesFailed.Add(float64(s.BatchesFailed))
	entitiesCreated.Add(float64(s.EntitiesCreated))
	ambiguousNames.Add(float64(s.AmbiguousNames))
	runsCompleted.Inc()
}
