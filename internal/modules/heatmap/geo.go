// README: Great-circle helpers for hotspot guidance, on s2 geometry.
package heatmap

import (
	"math"

	"github.com/golang/geo/s2"
)

const earthRadiusKm = 6371.0

// haversineKm returns the great-circle distance in kilometres.
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)
	return p1.Distance(p2).Radians() * earthRadiusKm
}

// initialBearingDeg returns the initial great-circle bearing from point 1 to
// point 2, normalized to [0, 360).
func initialBearingDeg(lat1, lng1, lat2, lng2 float64) float64 {
	p1 := s2.LatLngFromDegrees(lat1, lng1)
	p2 := s2.LatLngFromDegrees(lat2, lng2)

	dLng := p2.Lng.Radians() - p1.Lng.Radians()
	y := math.Sin(dLng) * math.Cos(p2.Lat.Radians())
	x := math.Cos(p1.Lat.Radians())*math.Sin(p2.Lat.Radians()) -
		math.Sin(p1.Lat.Radians())*math.Cos(p2.Lat.Radians())*math.Cos(dLng)

	bearing := math.Atan2(y, x) * 180 / math.Pi
	return math.Mod(bearing+360, 360)
}
