// Package geo provides the spatial operations of the ranking engine:
// great-circle distance, nearest-school and nearest-city resolution,
// tiered text matching of activities to schools, and the bucketed
// distance weights used as sort keys.
package geo

import "math"

// earthRadiusKM is the spherical Earth radius used by the haversine
// formula.
const earthRadiusKM = 6371.0

// DistanceKM returns the great-circle distance between two coordinates
// in kilometers. NaN inputs propagate NaN; validation is the caller's
// responsibility.
func DistanceKM(lat1, lng1, lat2, lng2 float64) float64 {
	dLat := toRadians(lat2 - lat1)
	dLng := toRadians(lng2 - lng1)
	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(toRadians(lat1))*math.Cos(toRadians(lat2))*
			math.Sin(dLng/2)*math.Sin(dLng/2)
	c := 2 * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
	return earthRadiusKM * c
}

func toRadians(degrees float64) float64 {
	return degrees * (math.Pi / 180)
}
