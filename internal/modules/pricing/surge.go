// README: Imbalance-driven surge and relocation incentive formulas. Pure
// functions of (settings, supply, demand); safe to evaluate redundantly and
// in parallel for many cells.
package pricing

import (
	"math"

	"honeycomb/internal/modules/settings"
)

// Imbalance is demand over supply with supply floored at 1, so an empty
// cell with demand still registers pressure instead of dividing by zero.
func Imbalance(demand, supply int) float64 {
	if supply < 1 {
		supply = 1
	}
	return float64(demand) / float64(supply)
}

// Surge maps an imbalance score to a fare multiplier. Below the threshold
// the multiplier is 1.0; above it the multiplier climbs in discrete steps,
// one step per 0.5 of excess imbalance (floored, not rounded), capped at
// SurgeCap. A step function, deliberately not continuous.
func Surge(imbalance float64, s *settings.ZoneSettings) float64 {
	if !s.SurgeActive() {
		return 1.0
	}
	if imbalance < s.SurgeThreshold {
		return 1.0
	}
	excess := imbalance - s.SurgeThreshold
	steps := math.Floor(excess / 0.5)
	return math.Min(1.0+steps*s.SurgeStep, s.SurgeCap)
}

// Incentive maps an imbalance score to a driver relocation incentive: a
// linear ramp of 10 per unit of excess imbalance, capped at
// MaxIncentiveAmount and rounded to cents.
func Incentive(imbalance float64, s *settings.ZoneSettings) float64 {
	if !s.IncentivesActive() {
		return 0
	}
	if imbalance < s.IncentiveThreshold {
		return 0
	}
	excess := imbalance - s.IncentiveThreshold
	amount := math.Min(excess*10, s.MaxIncentiveAmount)
	return math.Round(amount*100) / 100
}
