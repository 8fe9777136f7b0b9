// README: k-ring neighbor expansion over the approximate hex grid.
package hex

import "math"

const kmPerDegreeLat = 111.0

// Ring returns the origin cell plus every cell within k rings, deduplicated,
// in deterministic order (origin first, then ring by ring). Ring(c, 0) is
// exactly {c}, and Ring(c, k) is a superset of Ring(c, k-1).
//
// Neighbors are approximated by stepping in 6 directions (60 degrees apart)
// at offset edge*ring*1.5 and re-encoding. At high k some directions get
// over-sampled relative to a true hex grid; the dispatch subsystem relies on
// these search-radius semantics, so the offsetting must not be "corrected"
// in isolation.
func Ring(origin CellID, k int) []CellID {
	out := []CellID{origin}
	if k <= 0 {
		return out
	}

	lat, lng := origin.Center()
	resolution := origin.Resolution()
	edgeKm := EdgeLengthKm(resolution)

	seen := map[CellID]struct{}{origin: {}}
	for ring := 1; ring <= k; ring++ {
		offsetKm := edgeKm * float64(ring) * 1.5
		for dir := 0; dir < 6; dir++ {
			angle := float64(dir) * 60 * math.Pi / 180
			offsetLat := offsetKm / kmPerDegreeLat * math.Cos(angle)
			offsetLng := offsetKm / (kmPerDegreeLat * math.Cos(lat*math.Pi/180)) * math.Sin(angle)

			neighbor := Encode(lat+offsetLat, lng+offsetLng, resolution)
			if _, dup := seen[neighbor]; !dup {
				seen[neighbor] = struct{}{}
				out = append(out, neighbor)
			}
		}
	}
	return out
}
