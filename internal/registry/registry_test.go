package registry

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadEmbeddedDefaults(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	assert.Len(t, r.Schools(), 16)
	assert.Len(t, r.Cities(), 38)
	assert.Len(t, r.States(), 31)

	ucla, ok := r.School("UCLA")
	require.True(t, ok)
	assert.Equal(t, "Los Angeles", ucla.City)
	assert.Equal(t, "CA", ucla.State)
	assert.InDelta(t, 34.0689, ucla.Lat, 1e-6)

	la, ok := r.City("Los Angeles")
	require.True(t, ok)
	assert.Equal(t, []string{"UCLA", "USC"}, la.Schools)

	ca, ok := r.State("CA")
	require.True(t, ok)
	assert.Contains(t, ca.Neighbors, "NV")
}

func TestSchoolOrderPreserved(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	// First-match-wins keyword extraction depends on this ordering:
	// campuses come before the organizational alias entries.
	schools := r.Schools()
	assert.Equal(t, "UCI", schools[0].ID)
	assert.Equal(t, "UCLA", schools[1].ID)
	assert.Equal(t, "CU总部", schools[len(schools)-1].ID)
}

func TestCanonicalID(t *testing.T) {
	tests := []struct {
		name     string
		id       string
		expected string
	}{
		{name: "plain campus id passes through", id: "UCLA", expected: "UCLA"},
		{name: "CU remaps to UCSD", id: "CU", expected: "UCSD"},
		{name: "CU headquarters remaps to UCSD", id: "CU总部", expected: "UCSD"},
		{name: "headquarters suffix stripped", id: "UCLA总部", expected: "UCLA"},
		{name: "whitespace trimmed", id: " CU ", expected: "UCSD"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, CanonicalID(tt.id))
		})
	}
}

func TestSchoolLookupFollowsAliases(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	direct, ok := r.School("UCSD")
	require.True(t, ok)

	viaAlias, ok := r.School("CU")
	require.True(t, ok)
	assert.Equal(t, direct.ID, viaAlias.ID)
}

func TestNewValidation(t *testing.T) {
	valid := School{ID: "X", Lat: 10, Lng: 20, Keywords: []string{"x"}, State: "CA", City: "Somewhere"}

	tests := []struct {
		name    string
		schools []School
		wantErr string
	}{
		{
			name:    "latitude out of range",
			schools: []School{{ID: "A", Lat: 91, Lng: 0, Keywords: []string{"a"}}},
			wantErr: "latitude",
		},
		{
			name:    "longitude out of range",
			schools: []School{{ID: "A", Lat: 0, Lng: -181, Keywords: []string{"a"}}},
			wantErr: "longitude",
		},
		{
			name:    "missing keywords",
			schools: []School{{ID: "A", Lat: 0, Lng: 0}},
			wantErr: "no keywords",
		},
		{
			name:    "duplicate ids",
			schools: []School{valid, valid},
			wantErr: "duplicate school",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := New(tt.schools, nil, nil, nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestNeighboring(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	assert.True(t, r.Neighboring("CA", "NV"))
	assert.False(t, r.Neighboring("CA", "NY"))
	assert.False(t, r.Neighboring("ZZ", "CA"))
}

func TestStateName(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "California", r.StateName("CA"))
	assert.Equal(t, "ZZ", r.StateName("ZZ"))
}

func TestCityAliases(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	assert.Contains(t, r.CityAliases("Los Angeles"), "洛杉矶")
	assert.Nil(t, r.CityAliases("Nowhere"))
}

func TestBoundsCoverRegistry(t *testing.T) {
	r, err := Load()
	require.NoError(t, err)

	b := r.Bounds()
	// Continental US spread: west coast campuses through NYU.
	assert.Less(t, b.Min(0), -122.0)
	assert.Greater(t, b.Max(0), -74.1)
	assert.Less(t, b.Min(1), 26.0)
	assert.Greater(t, b.Max(1), 47.0)
}
