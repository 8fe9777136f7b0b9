// README: Location-scoped surge multiplier lookups over live cell counters.
package pricing

import (
	"context"

	"go.uber.org/zap"

	"honeycomb/internal/hex"
	"honeycomb/internal/modules/cells"
	"honeycomb/internal/modules/settings"
)

// CellReader reads one cell's supply and windowed demand counters.
type CellReader interface {
	Counters(ctx context.Context, zoneID string, cell hex.CellID, window int64) (cells.Counters, error)
}

// SettingsResolver yields the effective zone settings; nil means disabled.
type SettingsResolver interface {
	Resolve(ctx context.Context, zoneID string) *settings.ZoneSettings
}

// WindowClock exposes the active demand bucket.
type WindowClock interface {
	CurrentWindow() int64
}

type Service struct {
	reader   CellReader
	settings SettingsResolver
	clock    WindowClock
	log      *zap.Logger
}

func NewService(reader CellReader, resolver SettingsResolver, clock WindowClock, log *zap.Logger) *Service {
	return &Service{reader: reader, settings: resolver, clock: clock, log: log}
}

// SurgeMultiplier returns the current multiplier for a quote at the given
// point. 1.0 whenever surge is disabled, settings are absent, or the store
// is unreachable; pricing never fails a quote.
func (s *Service) SurgeMultiplier(ctx context.Context, lat, lng float64, zoneID string) float64 {
	st := s.settings.Resolve(ctx, zoneID)
	if !st.SurgeActive() {
		return 1.0
	}

	cell := hex.Encode(lat, lng, st.Resolution)
	counters, err := s.reader.Counters(ctx, zoneID, cell, s.clock.CurrentWindow())
	if err != nil {
		s.log.Warn("surge counter read failed, defaulting to 1.0",
			zap.String("zone_id", zoneID), zap.String("cell", string(cell)), zap.Error(err))
		return 1.0
	}

	return Surge(Imbalance(counters.Demand, counters.Supply), st)
}
