package cells

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"honeycomb/internal/hex"
	"honeycomb/internal/modules/settings"
	"honeycomb/internal/types"
)

// memStore applies the same counter semantics as the Redis store, in memory,
// so tests can assert conservation across move sequences.
type memStore struct {
	current map[types.ID]struct {
		cell     hex.CellID
		category string
	}
	members   map[string]map[types.ID]struct{} // zone:cell -> set
	supply    map[string]map[string]int        // zone:cell -> field -> count
	demand    map[string]map[string]int        // zone:cell:window -> field -> count
	refreshes int
	failMoves bool
}

func newMemStore() *memStore {
	return &memStore{
		current: make(map[types.ID]struct {
			cell     hex.CellID
			category string
		}),
		members: make(map[string]map[types.ID]struct{}),
		supply:  make(map[string]map[string]int),
		demand:  make(map[string]map[string]int),
	}
}

func (m *memStore) key(zoneID string, cell hex.CellID) string { return zoneID + ":" + string(cell) }

func (m *memStore) Current(_ context.Context, driverID types.ID) (hex.CellID, string, bool, error) {
	cur, ok := m.current[driverID]
	return cur.cell, cur.category, ok, nil
}

func (m *memStore) ApplyMove(_ context.Context, mv Move) error {
	if m.failMoves {
		return errors.New("store unavailable")
	}
	if mv.From != "" {
		k := m.key(mv.ZoneID, mv.From)
		delete(m.members[k], mv.DriverID)
		m.bump(m.supply, k, totalField, -1)
		m.bump(m.supply, k, mv.FromCategory, -1)
	}
	k := m.key(mv.ZoneID, mv.To)
	if m.members[k] == nil {
		m.members[k] = make(map[types.ID]struct{})
	}
	m.members[k][mv.DriverID] = struct{}{}
	m.bump(m.supply, k, totalField, 1)
	m.bump(m.supply, k, mv.Category, 1)
	m.current[mv.DriverID] = struct {
		cell     hex.CellID
		category string
	}{mv.To, mv.Category}
	return nil
}

func (m *memStore) Refresh(_ context.Context, _ types.ID, _ string, _ hex.CellID) error {
	m.refreshes++
	return nil
}

func (m *memStore) Remove(_ context.Context, driverID types.ID, zoneID string, cell hex.CellID, category string) error {
	k := m.key(zoneID, cell)
	delete(m.members[k], driverID)
	m.bump(m.supply, k, totalField, -1)
	m.bump(m.supply, k, category, -1)
	delete(m.current, driverID)
	return nil
}

func (m *memStore) IncrDemand(_ context.Context, zoneID string, cell hex.CellID, window int64, category string) error {
	k := m.key(zoneID, cell) + ":" + time.Unix(window, 0).UTC().Format("1504")
	m.bump(m.demand, k, totalField, 1)
	m.bump(m.demand, k, category, 1)
	return nil
}

func (m *memStore) bump(tbl map[string]map[string]int, key, field string, delta int) {
	if tbl[key] == nil {
		tbl[key] = make(map[string]int)
	}
	tbl[key][field] += delta
}

// supplyTotalAcrossCells sums the driver's contribution over every cell.
func (m *memStore) supplyTotal() int {
	total := 0
	for _, fields := range m.supply {
		total += fields[totalField]
	}
	return total
}

type stubResolver struct {
	s *settings.ZoneSettings
}

func (r stubResolver) Resolve(context.Context, string) *settings.ZoneSettings { return r.s }

func enabled() *settings.ZoneSettings {
	v := settings.Defaults()
	v.Enabled = true
	v.DispatchEnabled = true
	return &v
}

func newTrackerService(store TrackerStore, st *settings.ZoneSettings) *Service {
	return NewService(store, stubResolver{st}, zap.NewNop(), DefaultWindow)
}

func TestUpdateDriverCellDisabledZoneIsNoop(t *testing.T) {
	store := newMemStore()
	svc := newTrackerService(store, nil)
	svc.UpdateDriverCell(context.Background(), "d1", 25.03, 121.56, "z1", types.CategoryBudget)
	require.Empty(t, store.current)
	require.Empty(t, store.supply)
}

func TestUpdateDriverCellFirstPing(t *testing.T) {
	store := newMemStore()
	svc := newTrackerService(store, enabled())
	ctx := context.Background()

	svc.UpdateDriverCell(ctx, "d1", 25.03, 121.56, "z1", types.CategoryPro)

	cell := hex.Encode(25.03, 121.56, 8)
	k := store.key("z1", cell)
	require.Contains(t, store.members[k], types.ID("d1"))
	require.Equal(t, 1, store.supply[k][totalField])
	require.Equal(t, 1, store.supply[k][types.CategoryPro])
}

func TestUpdateDriverCellSameCellRefreshesOnly(t *testing.T) {
	store := newMemStore()
	svc := newTrackerService(store, enabled())
	ctx := context.Background()

	svc.UpdateDriverCell(ctx, "d1", 25.03, 121.56, "z1", types.CategoryBudget)
	before := store.supplyTotal()

	// Nudge inside the same cell.
	svc.UpdateDriverCell(ctx, "d1", 25.0301, 121.5601, "z1", types.CategoryBudget)
	require.Equal(t, before, store.supplyTotal(), "no counter churn on same-cell ping")
	require.Equal(t, 1, store.refreshes)
}

func TestUpdateDriverCellMove(t *testing.T) {
	store := newMemStore()
	svc := newTrackerService(store, enabled())
	ctx := context.Background()

	svc.UpdateDriverCell(ctx, "d1", 25.03, 121.56, "z1", types.CategoryBudget)
	cellA := hex.Encode(25.03, 121.56, 8)

	// Far enough to land in a different cell.
	svc.UpdateDriverCell(ctx, "d1", 25.13, 121.66, "z1", types.CategoryBudget)
	cellB := hex.Encode(25.13, 121.66, 8)
	require.NotEqual(t, cellA, cellB)

	kA, kB := store.key("z1", cellA), store.key("z1", cellB)
	require.NotContains(t, store.members[kA], types.ID("d1"))
	require.Contains(t, store.members[kB], types.ID("d1"))
	require.Equal(t, 0, store.supply[kA][totalField])
	require.Equal(t, 1, store.supply[kB][totalField])
}

// After any sequence of updates a driver contributes exactly 1 to exactly
// one cell's supply total, or 0 once removed.
func TestCounterConservation(t *testing.T) {
	store := newMemStore()
	svc := newTrackerService(store, enabled())
	ctx := context.Background()

	points := []struct{ lat, lng float64 }{
		{25.03, 121.56},
		{25.13, 121.66},
		{25.13, 121.66}, // same cell again
		{24.95, 121.40},
		{25.03, 121.56}, // back to the first cell
	}
	for _, p := range points {
		svc.UpdateDriverCell(ctx, "d1", p.lat, p.lng, "z1", types.CategoryVIP)
		require.Equal(t, 1, store.supplyTotal(), "driver must count once globally")
	}

	svc.RemoveDriverFromCells(ctx, "d1", "z1")
	require.Equal(t, 0, store.supplyTotal())
	for k, fields := range store.supply {
		require.GreaterOrEqual(t, fields[types.CategoryVIP], 0, "category subtotal negative for %s", k)
	}
}

func TestCategoryChangeKeepsSubtotalsConsistent(t *testing.T) {
	store := newMemStore()
	svc := newTrackerService(store, enabled())
	ctx := context.Background()

	svc.UpdateDriverCell(ctx, "d1", 25.03, 121.56, "z1", types.CategoryBudget)
	// Driver switches category while moving cells.
	svc.UpdateDriverCell(ctx, "d1", 25.13, 121.66, "z1", types.CategoryPro)

	cellA := hex.Encode(25.03, 121.56, 8)
	cellB := hex.Encode(25.13, 121.66, 8)
	require.Equal(t, 0, store.supply[store.key("z1", cellA)][types.CategoryBudget])
	require.Equal(t, 1, store.supply[store.key("z1", cellB)][types.CategoryPro])

	// total == sum of subtotals in the occupied cell
	kB := store.key("z1", cellB)
	sum := 0
	for _, cat := range types.Categories {
		sum += store.supply[kB][cat]
	}
	require.Equal(t, store.supply[kB][totalField], sum)
}

func TestUpdateDriverCellStoreFailureIsDropped(t *testing.T) {
	store := newMemStore()
	store.failMoves = true
	svc := newTrackerService(store, enabled())

	// Must not panic or surface an error; the update is simply dropped.
	svc.UpdateDriverCell(context.Background(), "d1", 25.03, 121.56, "z1", types.CategoryBudget)
	require.Empty(t, store.current)
}

func TestRemoveUntrackedDriverIsNoop(t *testing.T) {
	store := newMemStore()
	svc := newTrackerService(store, enabled())
	svc.RemoveDriverFromCells(context.Background(), "ghost", "z1")
	require.Equal(t, 0, store.supplyTotal())
}

func TestRecordDemand(t *testing.T) {
	store := newMemStore()
	svc := newTrackerService(store, enabled())
	ctx := context.Background()

	svc.RecordDemand(ctx, 25.03, 121.56, "z1", types.CategoryBudget)
	svc.RecordDemand(ctx, 25.03, 121.56, "z1", types.CategoryBudget)
	svc.RecordDemand(ctx, 25.03, 121.56, "z1", types.CategoryVIP)

	total, budget, vip := 0, 0, 0
	for _, fields := range store.demand {
		total += fields[totalField]
		budget += fields[types.CategoryBudget]
		vip += fields[types.CategoryVIP]
	}
	require.Equal(t, 3, total)
	require.Equal(t, 2, budget)
	require.Equal(t, 1, vip)
}

func TestRecordDemandDisabledIsNoop(t *testing.T) {
	store := newMemStore()
	svc := newTrackerService(store, nil)
	svc.RecordDemand(context.Background(), 25.03, 121.56, "z1", types.CategoryBudget)
	require.Empty(t, store.demand)
}

func TestWindowBucketing(t *testing.T) {
	base := time.Date(2026, 8, 28, 10, 2, 30, 0, time.UTC)
	w := Window(base, 5*time.Minute)
	require.Equal(t, int64(0), w%300)
	require.Equal(t, Window(base.Add(time.Minute), 5*time.Minute), w, "same bucket")
	require.NotEqual(t, Window(base.Add(5*time.Minute), 5*time.Minute), w, "next bucket")
}
