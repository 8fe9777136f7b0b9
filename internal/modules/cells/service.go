// README: Driver cell tracking and demand recording on top of the counter
// store; every mutation is a single atomic batch.
package cells

import (
	"context"
	"time"

	"go.uber.org/zap"

	"honeycomb/internal/hex"
	"honeycomb/internal/modules/settings"
	"honeycomb/internal/types"
)

// TrackerStore is the mutation surface the service needs; *Store is the
// Redis implementation, tests use an in-memory fake.
type TrackerStore interface {
	Current(ctx context.Context, driverID types.ID) (hex.CellID, string, bool, error)
	ApplyMove(ctx context.Context, m Move) error
	Refresh(ctx context.Context, driverID types.ID, zoneID string, cell hex.CellID) error
	Remove(ctx context.Context, driverID types.ID, zoneID string, cell hex.CellID, category string) error
	IncrDemand(ctx context.Context, zoneID string, cell hex.CellID, window int64, category string) error
}

// SettingsResolver yields the effective zone settings; nil means disabled.
type SettingsResolver interface {
	Resolve(ctx context.Context, zoneID string) *settings.ZoneSettings
}

type Service struct {
	store    TrackerStore
	settings SettingsResolver
	log      *zap.Logger
	window   time.Duration
	now      func() time.Time
}

func NewService(store TrackerStore, resolver SettingsResolver, log *zap.Logger, window time.Duration) *Service {
	if window <= 0 {
		window = DefaultWindow
	}
	return &Service{store: store, settings: resolver, log: log, window: window, now: time.Now}
}

// UpdateDriverCell tracks a driver's accepted location ping. Same-cell pings
// only refresh TTLs; a cell change removes the driver from the old cell and
// adds it to the new one in a single atomic batch. Store failures are logged
// and dropped: the dispatch-acceleration view goes stale until the next
// successful ping or TTL expiry, routing-side location tracking is a
// separate concern and unaffected.
func (s *Service) UpdateDriverCell(ctx context.Context, driverID types.ID, lat, lng float64, zoneID, category string) {
	st := s.settings.Resolve(ctx, zoneID)
	if st == nil || !st.Enabled {
		return
	}

	newCell := hex.Encode(lat, lng, st.Resolution)
	oldCell, oldCategory, tracked, err := s.store.Current(ctx, driverID)
	if err != nil {
		s.log.Warn("driver cell read failed, update dropped",
			zap.String("driver_id", string(driverID)), zap.Error(err))
		return
	}

	if tracked && oldCell == newCell {
		if err := s.store.Refresh(ctx, driverID, zoneID, newCell); err != nil {
			s.log.Warn("cell ttl refresh failed", zap.String("driver_id", string(driverID)), zap.Error(err))
		}
		return
	}

	m := Move{
		DriverID:     driverID,
		ZoneID:       zoneID,
		To:           newCell,
		Category:     category,
		FromCategory: oldCategory,
	}
	if tracked {
		m.From = oldCell
	}
	if err := s.store.ApplyMove(ctx, m); err != nil {
		s.log.Warn("driver cell move failed, update dropped",
			zap.String("driver_id", string(driverID)), zap.Error(err))
		return
	}

	s.log.Debug("driver cell updated",
		zap.String("driver_id", string(driverID)),
		zap.String("old_cell", string(oldCell)),
		zap.String("new_cell", string(newCell)),
		zap.String("zone_id", zoneID),
	)
}

// RemoveDriverFromCells untracks a driver immediately on explicit offline or
// deactivation, instead of waiting for TTL expiry, so dashboards reflect the
// real supply.
func (s *Service) RemoveDriverFromCells(ctx context.Context, driverID types.ID, zoneID string) {
	cell, category, tracked, err := s.store.Current(ctx, driverID)
	if err != nil {
		s.log.Warn("driver cell read failed on removal", zap.String("driver_id", string(driverID)), zap.Error(err))
		return
	}
	if !tracked {
		return
	}
	if err := s.store.Remove(ctx, driverID, zoneID, cell, category); err != nil {
		s.log.Warn("driver cell removal failed", zap.String("driver_id", string(driverID)), zap.Error(err))
		return
	}
	s.log.Debug("driver removed from cell",
		zap.String("driver_id", string(driverID)), zap.String("cell", string(cell)))
}

// RecordDemand counts a ride request against its origin cell in the current
// time window.
func (s *Service) RecordDemand(ctx context.Context, lat, lng float64, zoneID, category string) {
	st := s.settings.Resolve(ctx, zoneID)
	if st == nil || !st.Enabled {
		return
	}

	cell := hex.Encode(lat, lng, st.Resolution)
	window := Window(s.now(), s.window)
	if err := s.store.IncrDemand(ctx, zoneID, cell, window, category); err != nil {
		s.log.Warn("demand record failed, dropped",
			zap.String("zone_id", zoneID), zap.String("cell", string(cell)), zap.Error(err))
	}
}

// CurrentWindow exposes the active demand bucket for read-side modules.
func (s *Service) CurrentWindow() int64 {
	return Window(s.now(), s.window)
}
