package geo

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDistanceKMSymmetry(t *testing.T) {
	pairs := []struct {
		name                   string
		lat1, lng1, lat2, lng2 float64
	}{
		{name: "UCLA to UCSD", lat1: 34.0689, lng1: -118.4452, lat2: 32.8801, lng2: -117.2340},
		{name: "Seattle to Boston", lat1: 47.6062, lng1: -122.3321, lat2: 42.3601, lng2: -71.0589},
		{name: "across equator", lat1: 10, lng1: 20, lat2: -10, lng2: -20},
	}

	for _, tt := range pairs {
		t.Run(tt.name, func(t *testing.T) {
			ab := DistanceKM(tt.lat1, tt.lng1, tt.lat2, tt.lng2)
			ba := DistanceKM(tt.lat2, tt.lng2, tt.lat1, tt.lng1)
			assert.Equal(t, ab, ba)
		})
	}
}

func TestDistanceKMReflexivity(t *testing.T) {
	assert.Zero(t, DistanceKM(34.0689, -118.4452, 34.0689, -118.4452))
	assert.Zero(t, DistanceKM(0, 0, 0, 0))
}

func TestDistanceKMKnownValues(t *testing.T) {
	// UCLA to USC is roughly 16 km.
	d := DistanceKM(34.0689, -118.4452, 34.0224, -118.2851)
	assert.Greater(t, d, 10.0)
	assert.Less(t, d, 25.0)

	// UCLA to NYU is a cross-country flight.
	d = DistanceKM(34.0689, -118.4452, 40.7295, -73.9965)
	assert.Greater(t, d, 3500.0)
	assert.Less(t, d, 4500.0)
}

func TestDistanceKMMonotonicWithSeparation(t *testing.T) {
	// Fixed origin, increasing angular separation along a meridian.
	base := 0.0
	prev := 0.0
	for _, deg := range []float64{1, 2, 5, 10, 45, 90} {
		d := DistanceKM(base, 0, deg, 0)
		assert.Greater(t, d, prev)
		prev = d
	}
}

func TestDistanceKMPropagatesNaN(t *testing.T) {
	assert.True(t, math.IsNaN(DistanceKM(math.NaN(), 0, 10, 10)))
	assert.True(t, math.IsNaN(DistanceKM(0, 0, math.NaN(), 10)))
}
