// README: Per-zone honeycomb configuration record and defaults.
package settings

import "time"

// ZoneSettings configures the honeycomb engine for one zone. A row with an
// empty ZoneID is the global fallback used when a zone has no row of its own.
type ZoneSettings struct {
	ID       string `json:"id"`
	ZoneID   string `json:"zone_id"`
	CityName string `json:"city_name"`

	Enabled           bool `json:"enabled"`
	DispatchEnabled   bool `json:"dispatch_enabled"`
	HeatmapEnabled    bool `json:"heatmap_enabled"`
	HotspotsEnabled   bool `json:"hotspots_enabled"`
	SurgeEnabled      bool `json:"surge_enabled"`
	IncentivesEnabled bool `json:"incentives_enabled"`

	// Resolution is the grid fineness (7 = city, 8 = neighborhood, 9 = block).
	Resolution            int `json:"resolution"`
	SearchDepthK          int `json:"search_depth_k"`
	UpdateIntervalSeconds int `json:"update_interval_seconds"`
	MinDriversToColorCell int `json:"min_drivers_to_color_cell"`

	SurgeThreshold     float64 `json:"surge_threshold"`
	SurgeCap           float64 `json:"surge_cap"`
	SurgeStep          float64 `json:"surge_step"`
	IncentiveThreshold float64 `json:"incentive_threshold"`
	MaxIncentiveAmount float64 `json:"max_incentive_amount"`

	UpdatedBy string    `json:"updated_by,omitempty"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Defaults returns a settings record with every feature flag off and the
// recommended numeric parameters filled in.
func Defaults() ZoneSettings {
	return ZoneSettings{
		Resolution:            8,
		SearchDepthK:          1,
		UpdateIntervalSeconds: 60,
		MinDriversToColorCell: 1,
		SurgeThreshold:        1.5,
		SurgeCap:              2.0,
		SurgeStep:             0.1,
		IncentiveThreshold:    2.0,
		MaxIncentiveAmount:    50.0,
	}
}

// DispatchActive reports whether honeycomb candidate search may be used.
func (s *ZoneSettings) DispatchActive() bool {
	return s != nil && s.Enabled && s.DispatchEnabled
}

// HeatmapActive reports whether the heatmap view may be served.
func (s *ZoneSettings) HeatmapActive() bool {
	return s != nil && s.Enabled && s.HeatmapEnabled
}

// HotspotsActive reports whether driver hotspot suggestions may be served.
func (s *ZoneSettings) HotspotsActive() bool {
	return s != nil && s.Enabled && s.HotspotsEnabled
}

// SurgeActive reports whether cell-based surge pricing applies.
func (s *ZoneSettings) SurgeActive() bool {
	return s != nil && s.Enabled && s.SurgeEnabled
}

// IncentivesActive reports whether relocation incentives apply.
func (s *ZoneSettings) IncentivesActive() bool {
	return s != nil && s.Enabled && s.IncentivesEnabled
}
