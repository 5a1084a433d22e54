package ingest

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/dawn1811/Rok-Manager/internal/domain"
	"github.com/dawn1811/Rok-Manager/internal/identity"
	"github.com/dawn1811/Rok-Manager/internal/source"
)

// fakeRegistryStore is an in-memory store.RegistryStore
type fakeRegistryStore struct {
	reg     *domain.Registry
	loadErr error
	saveErr error
	saves   int
}

func (f *fakeRegistryStore) Load(ctx context.Context) (*domain.Registry, error) {
	if f.loadErr != nil {
		return nil, f.loadErr
	}
	if f.reg == nil {
		return domain.NewRegistry(), nil
	}
	return f.reg, nil
}

func (f *fakeRegistryStore) Save(ctx context.Context, reg *domain.Registry) error {
	if f.saveErr != nil {
		return f.saveErr
	}
	f.reg = reg
	f.saves++
	return nil
}

// fakeSource serves fixed tables and rows per event
type fakeSource struct {
	tables  map[string][]source.TableRef
	rows    map[string][]source.Row
	listErr error
	readErr map[string]error
}

func (f *fakeSource) ListTables(ctx context.Context, eventID string) ([]source.TableRef, error) {
	if f.listErr != nil {
		return nil, f.listErr
	}
	return f.tables[eventID], nil
}

func (f *fakeSource) ReadRows(ctx context.Context, ref source.TableRef) ([]source.Row, error) {
	if err := f.readErr[ref.ID]; err != nil {
		return nil, err
	}
	return f.rows[ref.ID], nil
}

// countingStore records committed batches in order
type countingStore struct {
	batches [][]*domain.SnapshotRecord
}

func (c *countingStore) CommitBatch(ctx context.Context, snapshots []*domain.SnapshotRecord) error {
	batch := make([]*domain.SnapshotRecord, len(snapshots))
	copy(batch, snapshots)
	c.batches = append(c.batches, batch)
	return nil
}

func (c *countingStore) Ping(ctx context.Context) error { return nil }
func (c *countingStore) Close() error                   { return nil }

func newTestRunner(regStore *fakeRegistryStore, snapStore *countingStore, src *fakeSource) *Runner {
	log := zap.NewNop()
	return NewRunner(
		identity.NewLifecycle(regStore, log),
		identity.NewResolver(log),
		snapStore,
		src,
		src,
		RunnerConfig{MaxBatchOps: 499},
		log,
	)
}

func TestRunner_Run_GoldenScenario(t *testing.T) {
	regStore := &fakeRegistryStore{}
	snapStore := &countingStore{}
	src := &fakeSource{
		tables: map[string][]source.TableRef{
			"E1": {
				{ID: "t1", Title: "2024-03-15"},
				{ID: "t2", Title: "Overview"},
			},
		},
		rows: map[string][]source.Row{
			"t1": {
				{"id": "1001", "name": "Alice", "power": "1,000"},
				{"id": "1002", "name": "Alice", "power": "1,100"},
				{"id": "1001", "name": "Alicia", "power": "1,200"},
				{"id": "", "name": "Ghost"},
			},
		},
	}

	runner := newTestRunner(regStore, snapStore, src)
	summary, err := runner.Run(context.Background(), []string{"E1"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.TablesProcessed)
	assert.Equal(t, 1, summary.TablesSkipped, "a title with no date skips the whole table")
	assert.Equal(t, 3, summary.RowsIngested)
	assert.Equal(t, 1, summary.RowsSkipped)
	assert.Equal(t, 1, summary.EntitiesCreated, "all three rows resolve to one entity")
	assert.Equal(t, 1, summary.BatchesCommitted)
	assert.False(t, summary.RegistryDegraded)

	// Registry persisted once, holding the single merged profile.
	require.Equal(t, 1, regStore.saves)
	require.Equal(t, 1, regStore.reg.Len())
	var p *domain.EntityProfile
	regStore.reg.Each(func(e *domain.EntityProfile) bool { p = e; return false })
	assert.Equal(t, []string{"1001", "1002"}, p.KnownIDs)
	assert.Equal(t, []string{"Alice", "Alicia"}, p.KnownNames)

	// All snapshots share the entity id and carry the date from the title.
	require.Len(t, snapStore.batches, 1)
	for _, s := range snapStore.batches[0] {
		assert.Equal(t, p.EntityID, s.EntityID)
		assert.Equal(t, "E1", s.EventID)
		assert.Equal(t, "2024-03-15", s.DateID)
		assert.Equal(t, "2024-03-15", s.SourceTitle)
	}
	last := snapStore.batches[0][2]
	assert.Equal(t, "1001", last.RawID)
	assert.Equal(t, "Alicia", last.RawName)
	assert.Equal(t, 1200.0, last.Metrics["power"])
}

func TestRunner_Run_FlushesPerTable(t *testing.T) {
	regStore := &fakeRegistryStore{}
	snapStore := &countingStore{}
	src := &fakeSource{
		tables: map[string][]source.TableRef{
			"E1": {
				{ID: "t1", Title: "2024-03-14"},
				{ID: "t2", Title: "2024-03-15"},
			},
		},
		rows: map[string][]source.Row{
			"t1": {{"id": "1", "name": "A"}},
			"t2": {{"id": "1", "name": "A"}},
		},
	}

	runner := newTestRunner(regStore, snapStore, src)
	_, err := runner.Run(context.Background(), []string{"E1"})
	require.NoError(t, err)

	// One commit per table even though the ceiling was never reached.
	require.Len(t, snapStore.batches, 2)
	assert.Len(t, snapStore.batches[0], 1)
	assert.Len(t, snapStore.batches[1], 1)
}

func TestRunner_Run_SkipsUnreadableTable(t *testing.T) {
	regStore := &fakeRegistryStore{}
	snapStore := &countingStore{}
	src := &fakeSource{
		tables: map[string][]source.TableRef{
			"E1": {{ID: "t1", Title: "2024-03-15"}},
		},
		readErr: map[string]error{"t1": errors.New("source gone")},
	}

	runner := newTestRunner(regStore, snapStore, src)
	summary, err := runner.Run(context.Background(), []string{"E1"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SourcesSkipped)
	assert.Equal(t, 0, summary.TablesProcessed)
	assert.Empty(t, snapStore.batches)
}

func TestRunner_Run_SkipsEventWhenListingFails(t *testing.T) {
	regStore := &fakeRegistryStore{}
	snapStore := &countingStore{}
	src := &fakeSource{listErr: errors.New("folder unavailable")}

	runner := newTestRunner(regStore, snapStore, src)
	summary, err := runner.Run(context.Background(), []string{"E1"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.SourcesSkipped)
	assert.Equal(t, 1, regStore.saves, "the registry is still saved at run end")
}

func TestRunner_Run_SurfacesDegradedRegistry(t *testing.T) {
	regStore := &fakeRegistryStore{loadErr: errors.New("fetch failed")}
	snapStore := &countingStore{}
	src := &fakeSource{}

	runner := newTestRunner(regStore, snapStore, src)
	summary, err := runner.Run(context.Background(), nil)
	require.NoError(t, err)

	assert.True(t, summary.RegistryDegraded)
}

func TestRunner_Run_ReturnsSaveError(t *testing.T) {
	regStore := &fakeRegistryStore{saveErr: errors.New("put failed")}
	snapStore := &countingStore{}
	src := &fakeSource{}

	runner := newTestRunner(regStore, snapStore, src)
	summary, err := runner.Run(context.Background(), nil)

	assert.Error(t, err)
	require.NotNil(t, summary, "the summary is returned even when the save fails")
}

func TestRunner_Run_IdentityResolutionSpansTables(t *testing.T) {
	regStore := &fakeRegistryStore{}
	snapStore := &countingStore{}
	src := &fakeSource{
		tables: map[string][]source.TableRef{
			"E1": {{ID: "t1", Title: "2024-03-14"}},
			"E2": {{ID: "t2", Title: "2024-04-01"}},
		},
		rows: map[string][]source.Row{
			// Renamed between events, same raw id.
			"t1": {{"id": "1001", "name": "Alice"}},
			"t2": {{"id": "1001", "name": "Alicia"}},
		},
	}

	runner := newTestRunner(regStore, snapStore, src)
	summary, err := runner.Run(context.Background(), []string{"E1", "E2"})
	require.NoError(t, err)

	assert.Equal(t, 1, summary.EntitiesCreated)
	require.Equal(t, 1, regStore.reg.Len())
	var p *domain.EntityProfile
	regStore.reg.Each(func(e *domain.EntityProfile) bool { p = e; return false })
	assert.True(t, p.ActiveEvents["E1"])
	assert.True(t, p.ActiveEvents["E2"])
	assert.Equal(t, []string{"Alice", "Alicia"}, p.KnownNames)
}
