package geo

import "math"

const earthRadiusMeters = 6371000.0

// Point is a latitude/longitude reading, typically supplied by the client and
// possibly absent or garbage. A nil *Point means "no reading at all".
type Point struct {
	Latitude  float64 `json:"latitude"`
	Longitude float64 `json:"longitude"`
}

// Valid reports whether the point is a usable coordinate. The (0,0) pair is treated
// as unknown rather than a real position off the coast of Ghana: it is what broken
// clients send when geolocation fails.
func (p *Point) Valid() bool {
	if p == nil {
		return false
	}
	if p.Latitude == 0 && p.Longitude == 0 {
		return false
	}
	return p.Latitude >= -90 && p.Latitude <= 90 && p.Longitude >= -180 && p.Longitude <= 180
}

// DistanceMeters returns the great-circle distance between two coordinates using the
// haversine formula. ok is false when either coordinate is unusable; callers must
// never treat that case as zero distance.
func DistanceMeters(lat1, lon1, lat2, lon2 float64) (meters float64, ok bool) {
	a := Point{Latitude: lat1, Longitude: lon1}
	b := Point{Latitude: lat2, Longitude: lon2}
	if !a.Valid() || !b.Valid() {
		return 0, false
	}

	lat1Rad := lat1 * math.Pi / 180
	lat2Rad := lat2 * math.Pi / 180
	dLat := (lat2 - lat1) * math.Pi / 180
	dLon := (lon2 - lon1) * math.Pi / 180

	h := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1Rad)*math.Cos(lat2Rad)*math.Sin(dLon/2)*math.Sin(dLon/2)
	c := 2 * math.Atan2(math.Sqrt(h), math.Sqrt(1-h))

	return earthRadiusMeters * c, true
}

// DistanceBetween is DistanceMeters over two points.
func DistanceBetween(a, b *Point) (float64, bool) {
	if !a.Valid() || !b.Valid() {
		return 0, false
	}
	return DistanceMeters(a.Latitude, a.Longitude, b.Latitude, b.Longitude)
}
