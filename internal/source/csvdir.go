package source

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"go.uber.org/zap"
)

// CSVDir exposes a directory tree of CSV exports as a source catalog and
// reader: one subdirectory per event, one .csv file per table, the file
// stem as the table title, the first row as headers.
type CSVDir struct {
	root    string
	headers *HeaderMap
	log     *zap.Logger
}

// NewCSVDir creates a CSV directory source rooted at root.
func NewCSVDir(root string, headers *HeaderMap, log *zap.Logger) *CSVDir {
	return &CSVDir{root: root, headers: headers, log: log}
}

// ListTables returns the CSV tables under the event's directory in
// lexical filename order.
func (s *CSVDir) ListTables(ctx context.Context, eventID string) ([]TableRef, error) {
	dir := filepath.Join(s.root, eventID)
	entries, err := os.ReadDir(dir)
	if err != nil {
		return nil, fmt.Errorf("failed to list event directory %s: %w", dir, err)
	}

	var refs []TableRef
	for _, e := range entries {
		if e.IsDir() || !strings.EqualFold(filepath.Ext(e.Name()), ".csv") {
			continue
		}
		refs = append(refs, TableRef{
			ID:    filepath.Join(dir, e.Name()),
			Title: strings.TrimSuffix(e.Name(), filepath.Ext(e.Name())),
		})
	}
	sort.Slice(refs, func(i, j int) bool { return refs[i].ID < refs[j].ID })
	return refs, nil
}

// ReadRows reads all data rows of one CSV table, canonicalizing headers.
func (s *CSVDir) ReadRows(ctx context.Context, ref TableRef) ([]Row, error) {
	f, err := os.Open(ref.ID)
	if err != nil {
		return nil, fmt.Errorf("failed to open table %s: %w", ref.ID, err)
	}
	defer func() {
		if err := f.Close(); err != nil {
			s.log.Error("Failed to close table file", zap.String("table", ref.ID), zap.Error(err))
		}
	}()

	r := csv.NewReader(f)
	r.FieldsPerRecord = -1

	records, err := r.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("failed to read table %s: %w", ref.ID, err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	headers := make([]string, len(records[0]))
	for i, h := range records[0] {
		headers[i] = s.headers.Canonical(h)
	}

	rows := make([]Row, 0, len(records)-1)
	for _, record := range records[1:] {
		row := make(Row, len(headers))
		for i, cell := range record {
			if i >= len(headers) {
				break
			}
			row[headers[i]] = cell
		}
		rows = append(rows, row)
	}
	return rows, nil
}
