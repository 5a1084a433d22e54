package domain

import "time"

// RunSummary aggregates the outcome of one ingestion run. Contained
// failures (skipped rows, skipped tables, failed batches) are counted here
// so the caller does not have to rely on logs.
type RunSummary struct {
	Started  time.Time `json:"started"`
	Finished time.Time `json:"finished"`

	TablesProcessed int `json:"tablesProcessed"`
	TablesSkipped   int `json:"tablesSkipped"`
	SourcesSkipped  int `json:"sourcesSkipped"`
	RowsIngested    int `json:"rowsIngested"`
	RowsSkipped     int `json:"rowsSkipped"`

	BatchesCommitted int `json:"batchesCommitted"`
	BatchesFailed    int `json:"batchesFailed"`

	EntitiesCreated int `json:"entitiesCreated"`
	AmbiguousNames  int `json:"ambiguousNames"`

	// RegistryDegraded is set when the registry could not be read and the
	// run started from an empty one. Saving such a run may lose identity
	// history, so the flag is surfaced to the caller, not just logged.
	RegistryDegraded bool `json:"registryDegraded"`
}
