package model

// LocationSource describes how a reference location was chosen.
type LocationSource string

const (
	SourceGPS        LocationSource = "gps"
	SourceManual     LocationSource = "manual"
	SourceUserSchool LocationSource = "userSchool"
)

// ReferenceLocation is the user's currently selected point of
// relevance. At most a partial record: any of the fields may be unset,
// and coordinates are only present for GPS-derived selections.
type ReferenceLocation struct {
	School string         `json:"school,omitempty"`
	City   string         `json:"city,omitempty"`
	State  string         `json:"state,omitempty"`
	Lat    *float64       `json:"lat,omitempty"`
	Lng    *float64       `json:"lng,omitempty"`
	Source LocationSource `json:"source,omitempty"`
}

// HasCoordinates reports whether the reference carries a GPS fix.
func (l *ReferenceLocation) HasCoordinates() bool {
	return l != nil && l.Lat != nil && l.Lng != nil
}

// ActivityLocation is the resolved geographic context of an activity,
// derived from its title via the school registry.
type ActivityLocation struct {
	School string  `json:"school,omitempty"`
	City   string  `json:"city,omitempty"`
	State  string  `json:"state,omitempty"`
	Lat    float64 `json:"lat"`
	Lng    float64 `json:"lng"`
}
