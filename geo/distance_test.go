package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDistanceMetersKnownPair(t *testing.T) {
	// Empire State Building to Statue of Liberty, roughly 8.2 km
	d, ok := DistanceMeters(40.7484, -73.9857, 40.6892, -74.0445)
	require.True(t, ok)
	assert.InDelta(t, 8200, d, 300)
}

func TestDistanceMetersIdenticalPoints(t *testing.T) {
	d, ok := DistanceMeters(51.5074, -0.1278, 51.5074, -0.1278)
	require.True(t, ok)
	assert.Equal(t, 0.0, d)
}

func TestDistanceMetersSymmetry(t *testing.T) {
	d1, ok1 := DistanceMeters(34.0522, -118.2437, 37.7749, -122.4194)
	d2, ok2 := DistanceMeters(37.7749, -122.4194, 34.0522, -118.2437)
	require.True(t, ok1)
	require.True(t, ok2)
	assert.InDelta(t, d1, d2, 1e-9)
}

func TestDistanceMetersUnknownPositions(t *testing.T) {
	tests := []struct {
		name                   string
		lat1, lon1, lat2, lon2 float64
	}{
		{"null island first", 0, 0, 40.7, -74.0},
		{"null island second", 40.7, -74.0, 0, 0},
		{"latitude out of range", 91, 10, 40.7, -74.0},
		{"longitude out of range", 40.7, 181, 40.7, -74.0},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, ok := DistanceMeters(tt.lat1, tt.lon1, tt.lat2, tt.lon2)
			assert.False(t, ok)
		})
	}
}

func TestPointValid(t *testing.T) {
	var nilPoint *Point
	assert.False(t, nilPoint.Valid())
	assert.False(t, (&Point{}).Valid())
	assert.False(t, (&Point{Latitude: -90.5, Longitude: 10}).Valid())
	assert.True(t, (&Point{Latitude: 40.7, Longitude: -74.0}).Valid())
}

func TestDistanceBetween(t *testing.T) {
	a := &Point{Latitude: 40.7484, Longitude: -73.9857}
	b := &Point{Latitude: 40.6892, Longitude: -74.0445}

	d, ok := DistanceBetween(a, b)
	require.True(t, ok)
	assert.Greater(t, d, 0.0)

	_, ok = DistanceBetween(nil, b)
	assert.False(t, ok)
}
