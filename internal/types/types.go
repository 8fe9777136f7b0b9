// README: Common identifier and coordinate value types used across modules.
package types

type ID string

type Point struct {
	Lat float64
	Lng float64
}

// Vehicle categories tracked in per-cell supply/demand counters.
const (
	CategoryBudget = "budget"
	CategoryPro    = "pro"
	CategoryVIP    = "vip"
)

// Categories lists every tracked vehicle category in breakdown order.
var Categories = []string{CategoryBudget, CategoryPro, CategoryVIP}
