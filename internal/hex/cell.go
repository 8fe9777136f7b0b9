// Package hex implements the honeycomb grid codec: snapping coordinates to
// grid cells, recovering cell centers, and expanding neighbor rings.
//
// The grid is an approximate hexagonal scheme: coordinates are snapped to a
// fixed-step lat/lng lattice per resolution and neighbors are generated by
// stepping in six directions. It is not geodesically exact; cell identity is
// what matters, since every counter key downstream is derived from it.
package hex

import (
	"fmt"
	"math"
	"strconv"
	"strings"
)

// CellID identifies one grid cell. Format: r<res>_<latHex>_<lngHex>.
type CellID string

// DefaultResolution is used when a caller or a stored identifier gives none.
const DefaultResolution = 8

// Grid step in degrees per resolution. Coarser resolution, larger step.
func gridStep(resolution int) float64 {
	switch resolution {
	case 7:
		return 0.05 // ~5 km
	case 8:
		return 0.015 // ~1.5 km
	case 9:
		return 0.005 // ~500 m
	default:
		return 0.015
	}
}

// EdgeLengthKm returns the approximate hex edge length for a resolution,
// used for neighbor offsetting and for documenting effective search radius.
func EdgeLengthKm(resolution int) float64 {
	switch resolution {
	case 7:
		return 2.6
	case 8:
		return 0.98
	case 9:
		return 0.37
	default:
		return 0.98
	}
}

// Encode snaps a coordinate to its grid cell at the given resolution.
// Total and deterministic: the same input always yields the same CellID.
// Out-of-range coordinates are not validated; they still produce a
// syntactically valid (if geographically meaningless) identifier.
func Encode(lat, lng float64, resolution int) CellID {
	step := gridStep(resolution)
	gridLat := math.Round(lat/step) * step
	gridLng := math.Round(lng/step) * step

	latInt := int64((gridLat + 90) * 10000)
	lngInt := int64((gridLng + 180) * 10000)

	return CellID(fmt.Sprintf("r%d_%06x_%06x", resolution, latInt, lngInt))
}

// Center returns the approximate center of the cell. Malformed identifiers
// decode to (0, 0) rather than failing: callers use centers only for
// display and direction hints.
func (c CellID) Center() (lat, lng float64) {
	latInt, lngInt, _, ok := c.parse()
	if !ok {
		return 0, 0
	}
	return float64(latInt)/10000 - 90, float64(lngInt)/10000 - 180
}

// Resolution returns the resolution encoded in the identifier, or
// DefaultResolution when the identifier is malformed.
func (c CellID) Resolution() int {
	_, _, res, ok := c.parse()
	if !ok {
		return DefaultResolution
	}
	return res
}

func (c CellID) parse() (latInt, lngInt int64, resolution int, ok bool) {
	parts := strings.Split(string(c), "_")
	if len(parts) != 3 || len(parts[0]) < 2 || parts[0][0] != 'r' {
		return 0, 0, 0, false
	}
	res, err := strconv.Atoi(parts[0][1:])
	if err != nil {
		return 0, 0, 0, false
	}
	latV, err := strconv.ParseInt(parts[1], 16, 64)
	if err != nil {
		return 0, 0, 0, false
	}
	lngV, err := strconv.ParseInt(parts[2], 16, 64)
	if err != nil {
		return 0, 0, 0, false
	}
	return latV, lngV, res, true
}
