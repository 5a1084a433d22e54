package domain

import "time"

// SnapshotRecord is the fixed-date metrics record for one entity within one
// event. The (EntityID, EventID, DateID) triple is the write key: ingesting
// the same triple again fully replaces the prior record.
type SnapshotRecord struct {
	EntityID string
	EventID  string
	DateID   string

	// Raw identity as observed in the source row, kept as an audit trail.
	RawID   string
	RawName string

	// Sparse metric fields. Absent or empty source cells are omitted
	// entirely, never stored as zero or null.
	Metrics    map[string]float64
	Attributes map[string]string

	UploadedAt  time.Time
	SourceTable string
	SourceTitle string
	Version     uint64
}
