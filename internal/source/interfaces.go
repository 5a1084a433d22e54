package source

import "context"

// TableRef identifies one discoverable source table.
type TableRef struct {
	ID    string
	Title string
}

// Row maps canonical field names to raw cell values.
type Row map[string]string

// Catalog lists the source tables available for an event group, in a
// stable order.
type Catalog interface {
	ListTables(ctx context.Context, eventID string) ([]TableRef, error)
}

// Reader reads all rows of one table, with headers already canonicalized.
type Reader interface {
	ReadRows(ctx context.Context, ref TableRef) ([]Row, error)
}
