package store

import (
	"context"

	"github.com/dawn1811/Rok-Manager/internal/domain"
)

// RegistryStore persists the entity registry as one whole document under a
// fixed key. There is no merge operation: Save replaces everything, which is
// only safe because at most one ingestion run executes at a time.
type RegistryStore interface {
	// Load fetches the registry document. An absent document is a cold
	// start and returns an empty registry, not an error.
	Load(ctx context.Context) (*domain.Registry, error)

	// Save writes the whole registry, replacing any previous document.
	Save(ctx context.Context, reg *domain.Registry) error
}

// SnapshotStore persists snapshot records keyed by the
// (entityID, eventID, dateID) triple. Writes are full-document upserts.
type SnapshotStore interface {
	// CommitBatch writes a batch of snapshots as a single atomic
	// all-or-nothing operation.
	CommitBatch(ctx context.Context, snapshots []*domain.SnapshotRecord) error

	// Ping checks if the store is reachable.
	Ping(ctx context.Context) error

	// Close releases the underlying connection.
	Close() error
}
