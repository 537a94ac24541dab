// Package geo holds the pure geometry used everywhere else: great-circle
// distance on a spherical earth, initial bearing, and coordinate sanity
// checks. Nothing here has state or side effects.
package geo

import (
	"math"

	"github.com/paulmach/orb"
	orbgeo "github.com/paulmach/orb/geo"
)

// EarthRadiusM is the IUGG mean earth radius in meters, the sphere the
// haversine runs on. Good to ~0.5% anywhere, which is far below GPS noise.
const EarthRadiusM = 6371000.0

// DistanceMeters returns the great-circle distance in meters between two
// WGS84 coordinate pairs, by the haversine formula. Inputs are degrees.
// It is symmetric, returns 0 for identical coordinates, and propagates
// NaN rather than guessing; callers own range validation.
func DistanceMeters(lat1, lng1, lat2, lng2 float64) float64 {
	la1 := lat1 * math.Pi / 180
	la2 := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLng := (lng2 - lng1) * math.Pi / 180

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(la1)*math.Cos(la2)*math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return EarthRadiusM * c
}

// Distance is DistanceMeters on orb points.
func Distance(a, b orb.Point) float64 {
	return DistanceMeters(a.Lat(), a.Lon(), b.Lat(), b.Lon())
}

// Bearing returns the initial great-circle bearing from a to b,
// in degrees from true north.
func Bearing(a, b orb.Point) float64 {
	return orbgeo.Bearing(a, b)
}

// ValidCoords reports whether the pair is finite and in WGS84 range.
func ValidCoords(lat, lng float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lng) || math.IsInf(lng, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lng >= -180 && lng <= 180
}
