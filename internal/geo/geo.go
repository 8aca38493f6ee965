package geo

import (
	"math"

	"ofp/internal/model"
)

// EarthRadiusKM is the sphere radius used for great-circle distances.
const EarthRadiusKM = 6371.0

// Coordinate is a resolved latitude/longitude pair.
type Coordinate struct {
	Lat float64
	Lng float64
}

// Resolve collapses raw geolocation samples into one representative
// coordinate per postal prefix: the arithmetic mean of all samples sharing
// the prefix. Prefixes with no samples are absent from the result.
func Resolve(samples []model.Geolocation) map[string]Coordinate {
	type accum struct {
		lat, lng float64
		n        int
	}
	sums := make(map[string]*accum)
	for _, s := range samples {
		a := sums[s.ZipPrefix]
		if a == nil {
			a = &accum{}
			sums[s.ZipPrefix] = a
		}
		a.lat += s.Lat
		a.lng += s.Lng
		a.n++
	}
	out := make(map[string]Coordinate, len(sums))
	for prefix, a := range sums {
		out[prefix] = Coordinate{Lat: a.lat / float64(a.n), Lng: a.lng / float64(a.n)}
	}
	return out
}

// Haversine returns the great-circle distance between two coordinates in
// kilometers.
func Haversine(a, b Coordinate) float64 {
	lat1 := a.Lat * math.Pi / 180
	lng1 := a.Lng * math.Pi / 180
	lat2 := b.Lat * math.Pi / 180
	lng2 := b.Lng * math.Pi / 180
	dlat := lat2 - lat1
	dlng := lng2 - lng1
	h := math.Sin(dlat/2)*math.Sin(dlat/2) +
		math.Cos(lat1)*math.Cos(lat2)*math.Sin(dlng/2)*math.Sin(dlng/2)
	return 2 * EarthRadiusKM * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))
}
