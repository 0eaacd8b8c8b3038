// SPDX-License-Identifier: MIT

package transit

import (
	"math"
	"sort"
)

const earthRadiusKm = 6371.0

// Haversine returns the great-circle distance in kilometers between two
// coordinates.
func Haversine(lat1, lon1, lat2, lon2 float64) float64 {
	rad := math.Pi / 180
	dLat := (lat2 - lat1) * rad
	dLon := (lon2 - lon1) * rad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*rad)*math.Cos(lat2*rad)*
			math.Sin(dLon/2)*math.Sin(dLon/2)
	return 2 * earthRadiusKm * math.Asin(math.Sqrt(a))
}

// StopDistance pairs a stop with its distance from a reference point.
type StopDistance struct {
	Stop     Stop
	Distance float64 // kilometers
}

// Nearest returns up to limit stops sorted by haversine distance from the
// given point. Inactive stops are skipped.
func Nearest(stops []Stop, lat, lon float64, limit int) []StopDistance {
	out := make([]StopDistance, 0, len(stops))
	for _, s := range stops {
		if !s.Active {
			continue
		}
		out = append(out, StopDistance{
			Stop:     s,
			Distance: Haversine(lat, lon, s.Latitude, s.Longitude),
		})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Distance < out[j].Distance })
	if limit > 0 && len(out) > limit {
		out = out[:limit]
	}
	return out
}
