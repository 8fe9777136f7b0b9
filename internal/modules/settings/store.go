// README: Zone settings store backed by PostgreSQL.
package settings

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rotisserie/eris"
)

type Store struct {
	db *pgxpool.Pool
}

func NewStore(db *pgxpool.Pool) *Store {
	return &Store{db: db}
}

const settingsColumns = `
	id, COALESCE(zone_id, ''), COALESCE(city_name, ''),
	enabled, dispatch_enabled, heatmap_enabled, hotspots_enabled,
	surge_enabled, incentives_enabled,
	resolution, search_depth_k, update_interval_seconds, min_drivers_to_color_cell,
	surge_threshold, surge_cap, surge_step, incentive_threshold, max_incentive_amount,
	COALESCE(updated_by, ''), updated_at`

// GetByZone loads the zone-specific row. Returns (nil, nil) when absent.
func (s *Store) GetByZone(ctx context.Context, zoneID string) (*ZoneSettings, error) {
	row := s.db.QueryRow(ctx, `
		SELECT `+settingsColumns+`
		FROM dispatch_honeycomb_settings
		WHERE zone_id = $1`, zoneID,
	)
	return scanSettings(row, "settings: load zone row")
}

// GetGlobal loads the global fallback row (NULL zone_id). Returns (nil, nil)
// when absent.
func (s *Store) GetGlobal(ctx context.Context) (*ZoneSettings, error) {
	row := s.db.QueryRow(ctx, `
		SELECT ` + settingsColumns + `
		FROM dispatch_honeycomb_settings
		WHERE zone_id IS NULL`,
	)
	return scanSettings(row, "settings: load global row")
}

// Upsert writes a zone (or global, when ZoneID is empty) settings row. The
// caller is expected to Invalidate afterwards.
func (s *Store) Upsert(ctx context.Context, v *ZoneSettings) error {
	if v.ID == "" {
		v.ID = uuid.NewString()
	}
	v.UpdatedAt = time.Now().UTC()

	var zoneID *string
	if v.ZoneID != "" {
		zoneID = &v.ZoneID
	}
	_, err := s.db.Exec(ctx, `
		INSERT INTO dispatch_honeycomb_settings (
			id, zone_id, city_name,
			enabled, dispatch_enabled, heatmap_enabled, hotspots_enabled,
			surge_enabled, incentives_enabled,
			resolution, search_depth_k, update_interval_seconds, min_drivers_to_color_cell,
			surge_threshold, surge_cap, surge_step, incentive_threshold, max_incentive_amount,
			updated_by, updated_at
		) VALUES (
			$1, $2, $3, $4, $5, $6, $7, $8, $9, $10,
			$11, $12, $13, $14, $15, $16, $17, $18, $19, $20
		)
		ON CONFLICT (zone_id) DO UPDATE SET
			city_name = EXCLUDED.city_name,
			enabled = EXCLUDED.enabled,
			dispatch_enabled = EXCLUDED.dispatch_enabled,
			heatmap_enabled = EXCLUDED.heatmap_enabled,
			hotspots_enabled = EXCLUDED.hotspots_enabled,
			surge_enabled = EXCLUDED.surge_enabled,
			incentives_enabled = EXCLUDED.incentives_enabled,
			resolution = EXCLUDED.resolution,
			search_depth_k = EXCLUDED.search_depth_k,
			update_interval_seconds = EXCLUDED.update_interval_seconds,
			min_drivers_to_color_cell = EXCLUDED.min_drivers_to_color_cell,
			surge_threshold = EXCLUDED.surge_threshold,
			surge_cap = EXCLUDED.surge_cap,
			surge_step = EXCLUDED.surge_step,
			incentive_threshold = EXCLUDED.incentive_threshold,
			max_incentive_amount = EXCLUDED.max_incentive_amount,
			updated_by = EXCLUDED.updated_by,
			updated_at = EXCLUDED.updated_at`,
		v.ID, zoneID, v.CityName,
		v.Enabled, v.DispatchEnabled, v.HeatmapEnabled, v.HotspotsEnabled,
		v.SurgeEnabled, v.IncentivesEnabled,
		v.Resolution, v.SearchDepthK, v.UpdateIntervalSeconds, v.MinDriversToColorCell,
		v.SurgeThreshold, v.SurgeCap, v.SurgeStep, v.IncentiveThreshold, v.MaxIncentiveAmount,
		v.UpdatedBy, v.UpdatedAt,
	)
	if err != nil {
		return eris.Wrap(err, "settings: upsert row")
	}
	return nil
}

func scanSettings(row pgx.Row, wrapMsg string) (*ZoneSettings, error) {
	var v ZoneSettings
	err := row.Scan(
		&v.ID, &v.ZoneID, &v.CityName,
		&v.Enabled, &v.DispatchEnabled, &v.HeatmapEnabled, &v.HotspotsEnabled,
		&v.SurgeEnabled, &v.IncentivesEnabled,
		&v.Resolution, &v.SearchDepthK, &v.UpdateIntervalSeconds, &v.MinDriversToColorCell,
		&v.SurgeThreshold, &v.SurgeCap, &v.SurgeStep, &v.IncentiveThreshold, &v.MaxIncentiveAmount,
		&v.UpdatedBy, &v.UpdatedAt,
	)
	if errors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, eris.Wrap(err, wrapMsg)
	}
	return &v, nil
}
