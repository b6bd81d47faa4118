package geo

import (
	"strings"

	"github.com/campuspulse/activity-rank/internal/model"
	"github.com/campuspulse/activity-rank/internal/registry"
)

// Proximity cutoffs: beyond these a coordinate is not considered near
// any known school or city.
const (
	nearSchoolCutoffKM = 50.0
	nearCityCutoffKM   = 100.0
)

// NearestSchool is the result of a nearest-school lookup.
type NearestSchool struct {
	School     string  `json:"school"`
	DistanceKM float64 `json:"distance_km"`
}

// NearestCity is the result of a nearest-city lookup. School is the
// city's first associated campus, if any.
type NearestCity struct {
	City       string  `json:"city"`
	State      string  `json:"state"`
	School     string  `json:"school,omitempty"`
	DistanceKM float64 `json:"distance_km"`
}

// Locator resolves coordinates and free text against the registries.
type Locator struct {
	reg *registry.Registry
}

// NewLocator creates a Locator over the given registry.
func NewLocator(reg *registry.Registry) *Locator {
	return &Locator{reg: reg}
}

// FindNearestSchool returns the registry school closest to the given
// point, or nil when the nearest one is farther than 50 km.
func (l *Locator) FindNearestSchool(lat, lng float64) *NearestSchool {
	var nearest *NearestSchool
	for _, s := range l.reg.Schools() {
		d := DistanceKM(lat, lng, s.Lat, s.Lng)
		if nearest == nil || d < nearest.DistanceKM {
			nearest = &NearestSchool{School: s.ID, DistanceKM: d}
		}
	}
	if nearest == nil || nearest.DistanceKM > nearSchoolCutoffKM {
		return nil
	}
	return nearest
}

// FindNearestCity returns the registry city closest to the given
// point, or nil when the nearest one is farther than 100 km.
func (l *Locator) FindNearestCity(lat, lng float64) *NearestCity {
	var (
		nearest *registry.City
		minDist float64
	)
	for i, c := range l.reg.Cities() {
		d := DistanceKM(lat, lng, c.Lat, c.Lng)
		if nearest == nil || d < minDist {
			nearest = &l.reg.Cities()[i]
			minDist = d
		}
	}
	if nearest == nil || minDist > nearCityCutoffKM {
		return nil
	}
	result := &NearestCity{City: nearest.Name, State: nearest.State, DistanceKM: minDist}
	if len(nearest.Schools) > 0 {
		result.School = nearest.Schools[0]
	}
	return result
}

// ExtractSchoolFromTitle scans the title against every school's
// keyword set and returns the first entry, in registry order, with a
// case-insensitive substring match. Shared keywords resolve to
// whichever entry comes first; this first-match behavior is part of
// the contract.
func (l *Locator) ExtractSchoolFromTitle(title string) (string, bool) {
	if title == "" {
		return "", false
	}
	titleLower := strings.ToLower(title)
	for _, s := range l.reg.Schools() {
		for _, kw := range s.Keywords {
			if strings.Contains(titleLower, strings.ToLower(kw)) {
				return s.ID, true
			}
		}
	}
	return "", false
}

// ActivityLocation resolves an activity title to a geographic context:
// school from the title, then the school's city, then that city's
// centroid coordinates. Returns nil when any link is missing.
func (l *Locator) ActivityLocation(title string) *model.ActivityLocation {
	schoolID, ok := l.ExtractSchoolFromTitle(title)
	if !ok {
		return nil
	}
	school, ok := l.reg.School(schoolID)
	if !ok {
		return nil
	}
	city, ok := l.reg.City(school.City)
	if !ok {
		return nil
	}
	return &model.ActivityLocation{
		School: schoolID,
		City:   city.Name,
		State:  city.State,
		Lat:    city.Lat,
		Lng:    city.Lng,
	}
}
