// README: Zone heatmap, hotspot ranking, and driver cell-stats reporting.
package heatmap

import (
	"context"
	"math"
	"sort"

	"go.uber.org/zap"

	"honeycomb/internal/hex"
	"honeycomb/internal/modules/cells"
	"honeycomb/internal/modules/pricing"
	"honeycomb/internal/modules/settings"
	"honeycomb/internal/types"
)

// CellReader is the read-side surface over the counter store.
type CellReader interface {
	Counters(ctx context.Context, zoneID string, cell hex.CellID, window int64) (cells.Counters, error)
	SupplyCells(ctx context.Context, zoneID string) ([]hex.CellID, error)
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

// Heatmap returns every active cell in the zone, sorted by descending
// imbalance. Cells whose supply is below MinDriversToColorCell are skipped:
// a near-empty cell would let a viewer infer an individual driver's
// position. Nil when the heatmap feature is off for the zone.
func (s *Service) Heatmap(ctx context.Context, zoneID string) []Entry {
	st := s.settings.Resolve(ctx, zoneID)
	if !st.HeatmapActive() {
		return nil
	}
	entries := s.scanEntries(ctx, zoneID, st)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Imbalance > entries[j].Imbalance
	})
	return entries
}

// Hotspots filters the zone's cells down to genuinely pressured ones
// (imbalance above 1.5 with at least 2 requests this window) and returns
// the top limit entries with relocation incentives attached.
func (s *Service) Hotspots(ctx context.Context, zoneID string, limit int) []Hotspot {
	st := s.settings.Resolve(ctx, zoneID)
	if !st.HotspotsActive() {
		return nil
	}
	return s.hotspots(ctx, zoneID, limit, st)
}

func (s *Service) hotspots(ctx context.Context, zoneID string, limit int, st *settings.ZoneSettings) []Hotspot {
	entries := s.scanEntries(ctx, zoneID, st)
	sort.SliceStable(entries, func(i, j int) bool {
		return entries[i].Imbalance > entries[j].Imbalance
	})

	var out []Hotspot
	for _, e := range entries {
		if e.Imbalance <= hotspotImbalanceFloor || e.Demand < hotspotDemandFloor {
			continue
		}
		out = append(out, Hotspot{
			Cell:      e.Cell,
			Center:    e.Center,
			Supply:    e.Supply,
			Demand:    e.Demand,
			Imbalance: e.Imbalance,
			Incentive: pricing.Incentive(e.Imbalance, st),
		})
		if limit > 0 && len(out) == limit {
			break
		}
	}
	return out
}

// CellStats reports the cell a driver is standing in, plus guidance toward
// the nearest hotspot. Returns Enabled=false when honeycomb is off.
func (s *Service) CellStats(ctx context.Context, lat, lng float64, zoneID string) CellStats {
	st := s.settings.Resolve(ctx, zoneID)
	if st == nil || !st.Enabled {
		return CellStats{Enabled: false}
	}

	cell := hex.Encode(lat, lng, st.Resolution)
	counters, err := s.reader.Counters(ctx, zoneID, cell, s.clock.CurrentWindow())
	if err != nil {
		s.log.Warn("cell stats read failed", zap.String("zone_id", zoneID), zap.Error(err))
		return CellStats{Enabled: false}
	}

	imbalance := round2(pricing.Imbalance(counters.Demand, counters.Supply))
	hotspots := s.hotspots(ctx, zoneID, 3, st)

	return CellStats{
		Enabled:            true,
		Cell:               cell,
		Supply:             counters.Supply,
		Demand:             counters.Demand,
		Imbalance:          imbalance,
		IsHotspot:          imbalance > hotspotImbalanceFloor && counters.Demand >= hotspotDemandFloor,
		NearbyHotspots:     hotspots,
		SuggestedDirection: suggestDirection(lat, lng, hotspots),
	}
}

// scanEntries builds unsorted heatmap entries for every cell in the zone
// with live supply counters, applying the privacy floor.
func (s *Service) scanEntries(ctx context.Context, zoneID string, st *settings.ZoneSettings) []Entry {
	cellIDs, err := s.reader.SupplyCells(ctx, zoneID)
	if err != nil {
		s.log.Warn("heatmap supply scan failed", zap.String("zone_id", zoneID), zap.Error(err))
		return nil
	}

	window := s.clock.CurrentWindow()
	var entries []Entry
	for _, cell := range cellIDs {
		counters, err := s.reader.Counters(ctx, zoneID, cell, window)
		if err != nil {
			s.log.Warn("heatmap cell read failed",
				zap.String("zone_id", zoneID), zap.String("cell", string(cell)), zap.Error(err))
			continue
		}
		if counters.Supply < st.MinDriversToColorCell {
			continue
		}

		imbalance := pricing.Imbalance(counters.Demand, counters.Supply)
		lat, lng := cell.Center()
		entries = append(entries, Entry{
			Cell:             cell,
			Center:           types.Point{Lat: lat, Lng: lng},
			Supply:           counters.Supply,
			Demand:           counters.Demand,
			Imbalance:        round2(imbalance),
			Intensity:        math.Min(imbalance/5.0, 1.0),
			SurgeMultiplier:  pricing.Surge(imbalance, st),
			SupplyByCategory: counters.SupplyByCategory,
		})
	}
	return entries
}

// suggestDirection points at the nearest hotspot by great-circle distance.
// Nil when there is no hotspot; that is an answer, not an error.
func suggestDirection(lat, lng float64, hotspots []Hotspot) *Direction {
	if len(hotspots) == 0 {
		return nil
	}

	nearest := hotspots[0]
	nearestKm := haversineKm(lat, lng, nearest.Center.Lat, nearest.Center.Lng)
	for _, h := range hotspots[1:] {
		if d := haversineKm(lat, lng, h.Center.Lat, h.Center.Lng); d < nearestKm {
			nearest, nearestKm = h, d
		}
	}

	return &Direction{
		BearingDeg: math.Round(initialBearingDeg(lat, lng, nearest.Center.Lat, nearest.Center.Lng)),
		DistanceKm: math.Round(nearestKm*10) / 10,
		TargetCell: nearest.Cell,
		Incentive:  nearest.Incentive,
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}
