package geo

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/campuspulse/activity-rank/internal/model"
)

func floatPtr(f float64) *float64 { return &f }

func TestWeightFromKM(t *testing.T) {
	tests := []struct {
		name     string
		km       float64
		expected int
	}{
		{name: "same campus", km: 3, expected: 1},
		{name: "just under near cutoff", km: 9.9, expected: 1},
		{name: "adjacent city", km: 30, expected: 10},
		{name: "same region", km: 150, expected: 20},
		{name: "same state", km: 400, expected: 50},
		{name: "far", km: 800, expected: 108},
		{name: "very far", km: 4000, expected: 140},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, WeightFromKM(tt.km))
		})
	}
}

func TestActivityDistanceWeightGPS(t *testing.T) {
	l := newTestLocator(t)

	// Reference on the UCLA campus.
	ref := &model.ReferenceLocation{Lat: floatPtr(34.0689), Lng: floatPtr(-118.4452)}

	assert.Equal(t, 1, l.ActivityDistanceWeight("UCLA Welcome Party", ref))
	// USC is ~16 km from UCLA: adjacent-city bucket.
	assert.Equal(t, 10, l.ActivityDistanceWeight("USC Airport Pickup", ref))
	// NYU is cross-country.
	assert.Greater(t, l.ActivityDistanceWeight("NYU Career Fair", ref), 100)
}

func TestActivityDistanceWeightFallbackTiers(t *testing.T) {
	l := newTestLocator(t)

	tests := []struct {
		name     string
		title    string
		ref      *model.ReferenceLocation
		expected int
	}{
		{
			name:     "nil reference",
			title:    "UCLA Welcome Party",
			ref:      nil,
			expected: 1000,
		},
		{
			name:     "activity without school",
			title:    "Generic Meetup",
			ref:      &model.ReferenceLocation{School: "UCLA"},
			expected: 999,
		},
		{
			name:     "same school",
			title:    "UCLA Welcome Party",
			ref:      &model.ReferenceLocation{School: "UCLA"},
			expected: 1,
		},
		{
			name:     "same school via legacy alias",
			title:    "UCSD Orientation",
			ref:      &model.ReferenceLocation{School: "CU总部"},
			expected: 1,
		},
		{
			name:     "same city different school",
			title:    "USC Airport Pickup",
			ref:      &model.ReferenceLocation{City: "Los Angeles"},
			expected: 10,
		},
		{
			name:     "same state",
			title:    "UCB Hackathon",
			ref:      &model.ReferenceLocation{State: "CA"},
			expected: 30,
		},
		{
			name:     "neighboring state",
			title:    "UCB Hackathon",
			ref:      &model.ReferenceLocation{State: "NV"},
			expected: 60,
		},
		{
			name:     "other region",
			title:    "NYU Career Fair",
			ref:      &model.ReferenceLocation{State: "CA"},
			expected: 200,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, l.ActivityDistanceWeight(tt.title, tt.ref))
		})
	}
}

func TestDistanceToSchoolKM(t *testing.T) {
	l := newTestLocator(t)

	t.Run("school-to-school from title", func(t *testing.T) {
		rec := &model.ActivityRecord{Title: "USC Airport Pickup"}
		d := l.DistanceToSchoolKM(rec, "UCLA")
		assert.Greater(t, d, 10.0)
		assert.Less(t, d, 25.0)
	})

	t.Run("same school is zero", func(t *testing.T) {
		rec := &model.ActivityRecord{Title: "UCLA Welcome Party"}
		assert.Zero(t, l.DistanceToSchoolKM(rec, "UCLA"))
	})

	t.Run("city from address text", func(t *testing.T) {
		rec := &model.ActivityRecord{Title: "Night Market", AddressText: "Convention Center, San Diego"}
		d := l.DistanceToSchoolKM(rec, "UCLA")
		// LA to San Diego centroid.
		assert.Greater(t, d, 150.0)
		assert.Less(t, d, 250.0)
	})

	t.Run("unresolvable falls back to 500", func(t *testing.T) {
		rec := &model.ActivityRecord{Title: "Mystery Event", AddressText: "Somewhere"}
		assert.Equal(t, defaultDistanceKM, l.DistanceToSchoolKM(rec, "UCLA"))
	})

	t.Run("unknown reference school falls back to 500", func(t *testing.T) {
		rec := &model.ActivityRecord{Title: "UCLA Welcome Party"}
		assert.Equal(t, defaultDistanceKM, l.DistanceToSchoolKM(rec, "MIT"))
	})
}
