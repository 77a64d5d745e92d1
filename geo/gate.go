package geo

import "github.com/hirlapp/hirl-server/models"

// Default radii. Display matches the original 30 mile discovery range.
const (
	DefaultDisplayRadiusMeters = 48280.0
	DefaultCheckInRadiusMeters = 5000.0
)

// Gate decides whether a venue is close enough to be listed and close enough to be
// checked into. The two radii are independent.
//
// Unknown-position policy: when the viewer has no usable position (or the venue has
// no usable coordinates), venues are still listed but check-in is refused. Listing is
// read-only; check-in asserts physical presence, so its guard fails closed.
type Gate struct {
	displayRadius float64
	checkInRadius float64
}

// NewGate builds a Gate, substituting defaults for non-positive radii.
func NewGate(displayMeters, checkInMeters float64) *Gate {
	if displayMeters <= 0 {
		displayMeters = DefaultDisplayRadiusMeters
	}
	if checkInMeters <= 0 {
		checkInMeters = DefaultCheckInRadiusMeters
	}
	return &Gate{displayRadius: displayMeters, checkInRadius: checkInMeters}
}

// DisplayRadius returns the configured discovery radius in meters.
func (g *Gate) DisplayRadius() float64 { return g.displayRadius }

// CheckInRadius returns the configured check-in radius in meters.
func (g *Gate) CheckInRadius() float64 { return g.checkInRadius }

// WithinDisplayRange reports whether the venue should appear in discovery for a
// viewer at pos. Unknown distance degrades to visible.
func (g *Gate) WithinDisplayRange(pos *Point, venue *models.Venue) bool {
	d, ok := g.venueDistance(pos, venue)
	if !ok {
		return true
	}
	return d <= g.displayRadius
}

// WithinCheckInRange reports whether a viewer at pos may check into the venue.
// Unknown distance refuses.
func (g *Gate) WithinCheckInRange(pos *Point, venue *models.Venue) bool {
	d, ok := g.venueDistance(pos, venue)
	if !ok {
		return false
	}
	return d <= g.checkInRadius
}

// VenueDistance returns the distance from pos to the venue when both ends are usable.
func (g *Gate) VenueDistance(pos *Point, venue *models.Venue) (float64, bool) {
	return g.venueDistance(pos, venue)
}

func (g *Gate) venueDistance(pos *Point, venue *models.Venue) (float64, bool) {
	if venue == nil || !pos.Valid() {
		return 0, false
	}
	return DistanceMeters(pos.Latitude, pos.Longitude, venue.Latitude, venue.Longitude)
}
