package clickhouse

import (
	"context"
	"fmt"
	"time"

	"go.uber.org/zap"

	"github.com/dawn1811/Rok-Manager/internal/domain"
)

// SnapshotStore implements store.SnapshotStore for ClickHouse. The table
// uses ReplacingMergeTree keyed on (entity_id, event_id, date_id), so
// re-ingesting the same triple replaces the prior snapshot instead of
// duplicating it.
type SnapshotStore struct {
	client *Client
	log    *zap.Logger
}

// NewSnapshotStore creates a new ClickHouse snapshot store
func NewSnapshotStore(client *Client, log *zap.Logger) *SnapshotStore {
	return &SnapshotStore{
		client: client,
		log:    log,
	}
}

// InitSchema initializes the snapshots table with ReplacingMergeTree engine
func (s *SnapshotStore) InitSchema(ctx context.Context) error {
	query := `
	CREATE TABLE IF NOT EXISTS snapshots (
		entity_id String,
		event_id LowCardinality(String),
		date_id Date,
		raw_id String,
		raw_name String,
		metrics Map(LowCardinality(String), Float64),
		attributes Map(LowCardinality(String), String),
		uploaded_at DateTime64(3) DEFAULT now64(3),
		source_table String,
		source_title String,
		version UInt64
	) ENGINE = ReplacingMergeTree(version)
	PRIMARY KEY (entity_id, event_id, date_id)
	ORDER BY (entity_id, event_id, date_id)
	PARTITION BY toYYYYMM(date_id)
	SETTINGS index_granularity = 8192
	`

	if err := s.client.Conn().Exec(ctx, query); err != nil {
		return fmt.Errorf("failed to create snapshots table: %w", err)
	}

	s.log.Info("ClickHouse schema initialized successfully")
	return nil
}

// CommitBatch writes a batch of snapshots as one insert block
func (s *SnapshotStore) CommitBatch(ctx context.Context, snapshots []*domain.SnapshotRecord) error {
	if len(snapshots) == 0 {
		return nil
	}

	batch, err := s.client.Conn().PrepareBatch(ctx, "INSERT INTO snapshots")
	if err != nil {
		return fmt.Errorf("failed to prepare batch: %w", err)
	}

	for _, snap := range snapshots {
		if snap.Version == 0 {
			snap.Version = uint64(time.Now().UnixNano())
		}

		dateID, err := time.Parse("2006-01-02", snap.DateID)
		if err != nil {
			return fmt.Errorf("invalid snapshot date id %q: %w", snap.DateID, err)
		}

		metrics := snap.Metrics
		if metrics == nil {
			metrics = map[string]float64{}
		}
		attrs := snap.Attributes
		if attrs == nil {
			attrs = map[string]string{}
		}

		if err := batch.Append(
			snap.EntityID,
			snap.EventID,
			dateID,
			snap.RawID,
			snap.RawName,
			metrics,
			attrs,
			snap.UploadedAt,
			snap.SourceTable,
			snap.SourceTitle,
			snap.Version,
		); err != nil {
			return fmt.Errorf("failed to append snapshot to batch: %w", err)
		}
	}

	if err := batch.Send(); err != nil {
		return fmt.Errorf("failed to send batch: %w", err)
	}

	return nil
}

// Ping checks if the ClickHouse connection is alive
func (s *SnapshotStore) Ping(ctx context.Context) error {
	return s.client.Conn().Ping(ctx)
}

// Close closes the ClickHouse connection
func (s *SnapshotStore) Close() error {
	return s.client.Close()
}
