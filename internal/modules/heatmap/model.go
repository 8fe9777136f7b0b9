// README: Derived heatmap, hotspot, and cell-stats view types.
package heatmap

import (
	"honeycomb/internal/hex"
	"honeycomb/internal/types"
)

// Entry is one cell's supply/demand snapshot in the zone heatmap. Derived
// on demand, never stored.
type Entry struct {
	Cell             hex.CellID     `json:"cell"`
	Center           types.Point    `json:"center"`
	Supply           int            `json:"supply"`
	Demand           int            `json:"demand"`
	Imbalance        float64        `json:"imbalance"`
	Intensity        float64        `json:"intensity"`
	SurgeMultiplier  float64        `json:"surge_multiplier"`
	SupplyByCategory map[string]int `json:"supply_breakdown"`
}

// Hotspot is a high-imbalance cell suggested to drivers, with the
// relocation incentive attached.
type Hotspot struct {
	Cell      hex.CellID  `json:"cell"`
	Center    types.Point `json:"center"`
	Supply    int         `json:"supply"`
	Demand    int         `json:"demand"`
	Imbalance float64     `json:"imbalance"`
	Incentive float64     `json:"incentive"`
}

// Direction points a driver toward the nearest hotspot.
type Direction struct {
	BearingDeg float64    `json:"bearing"`
	DistanceKm float64    `json:"distance_km"`
	TargetCell hex.CellID `json:"target_cell"`
	Incentive  float64    `json:"incentive"`
}

// CellStats is the driver-facing view of their current cell. Enabled=false
// is the whole answer for a zone without honeycomb.
type CellStats struct {
	Enabled            bool       `json:"enabled"`
	Cell               hex.CellID `json:"current_cell,omitempty"`
	Supply             int        `json:"supply"`
	Demand             int        `json:"demand"`
	Imbalance          float64    `json:"imbalance"`
	IsHotspot          bool       `json:"is_hotspot"`
	NearbyHotspots     []Hotspot  `json:"nearby_hotspots,omitempty"`
	SuggestedDirection *Direction `json:"suggested_direction,omitempty"`
}

// Hotspot qualification thresholds, shared by heatmap filtering and the
// driver's own-cell flag.
const (
	hotspotImbalanceFloor = 1.5
	hotspotDemandFloor    = 2
)
