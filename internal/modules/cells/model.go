// README: Cell counter model, Redis key builders, and time-window bucketing.
package cells

import (
	"fmt"
	"time"

	"honeycomb/internal/hex"
	"honeycomb/internal/types"
)

// Redis key prefixes, shared with the realtime sibling service; the formats
// are part of the deployment contract and must not drift.
const (
	driverCellPrefix    = "hc:drivers:"     // SET of driver IDs per cell
	cellSupplyPrefix    = "hc:supply:"      // HASH {total, <category>...}
	cellDemandPrefix    = "hc:demand:"      // HASH per time window
	driverCurrentPrefix = "hc:driver:cell:" // HASH {cell, category}
)

const (
	// counterTTL bounds staleness of membership sets and counters; there is
	// no background reaper, expiry is delegated to the store.
	counterTTL = 10 * time.Minute
	// currentCellTTL expires a driver's tracked cell when pings stop.
	currentCellTTL = 5 * time.Minute
	// totalField is the hash field holding a cell's aggregate count.
	totalField = "total"

	// DefaultWindow is the fixed demand bucket width.
	DefaultWindow = 5 * time.Minute
)

// Counters is a snapshot of one cell's supply and current-window demand.
// Values are clamped at zero on read: a decrement racing a TTL expiry can
// leave a negative hash field behind.
type Counters struct {
	Supply           int
	Demand           int
	SupplyByCategory map[string]int
	DemandByCategory map[string]int
}

// Window returns the bucket key for t: unix seconds floored to the width.
func Window(t time.Time, width time.Duration) int64 {
	w := int64(width / time.Second)
	if w <= 0 {
		w = int64(DefaultWindow / time.Second)
	}
	return t.Unix() / w * w
}

func cellDriversKey(zoneID string, cell hex.CellID) string {
	return fmt.Sprintf("%s%s:%s", driverCellPrefix, zoneID, cell)
}

func cellSupplyKey(zoneID string, cell hex.CellID) string {
	return fmt.Sprintf("%s%s:%s", cellSupplyPrefix, zoneID, cell)
}

func cellDemandKey(zoneID string, cell hex.CellID, window int64) string {
	return fmt.Sprintf("%s%s:%s:%d", cellDemandPrefix, zoneID, cell, window)
}

func driverCurrentKey(driverID types.ID) string {
	return driverCurrentPrefix + string(driverID)
}
