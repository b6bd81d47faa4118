package geo

import (
	"strings"

	"go.uber.org/zap"

	"github.com/campuspulse/activity-rank/internal/model"
	"github.com/campuspulse/activity-rank/internal/registry"
)

// Distance weight sentinels for records whose location cannot be tied
// to the reference at all. Larger sorts later; these are ordered so a
// missing reference ranks below a merely unlocatable activity.
const (
	weightNoReference      = 1000
	weightNoActivitySchool = 999
	weightUnknownSchool    = 998
)

// Non-GPS fallback weights, applied when the reference carries only
// school/city/state identity.
const (
	weightSameSchool    = 1
	weightSameCity      = 10
	weightSameState     = 30
	weightNeighborState = 60
	weightOtherRegion   = 200
)

// defaultDistanceKM is the mid-range stand-in used when an activity's
// location cannot be resolved during distance sorting. Such records
// sort after well-located ones but are never dropped.
const defaultDistanceKM = 500.0

// WeightToleranceKM is the distance difference below which two records
// are treated as equally near and sorting falls through to the next key.
const WeightToleranceKM = 5.0

// WeightFromKM buckets a raw distance into a non-linear sort weight,
// deliberately insensitive to small differences:
//
//	<10 km  -> 1   (same campus or city)
//	<50 km  -> 10  (adjacent city)
//	<200 km -> 20  (same region)
//	<500 km -> 50  (same state)
//	else    -> 100 + km/100
func WeightFromKM(km float64) int {
	switch {
	case km < 10:
		return 1
	case km < 50:
		return 10
	case km < 200:
		return 20
	case km < 500:
		return 50
	default:
		return 100 + int(km/100)
	}
}

// ActivityDistanceWeight scores how relevant an activity is to the
// reference location. Lower is closer. With a GPS fix the weight comes
// from bucketed haversine distance to the activity's school; without
// one it falls back to identity tiers (same school, city, state,
// neighboring state).
func (l *Locator) ActivityDistanceWeight(title string, ref *model.ReferenceLocation) int {
	if ref == nil {
		return weightNoReference
	}

	schoolID, ok := l.ExtractSchoolFromTitle(title)
	if !ok {
		return weightNoActivitySchool
	}
	school, ok := l.reg.School(schoolID)
	if !ok {
		return weightUnknownSchool
	}

	if ref.HasCoordinates() {
		return WeightFromKM(DistanceKM(*ref.Lat, *ref.Lng, school.Lat, school.Lng))
	}

	if ref.School != "" && registryEqualID(ref.School, schoolID) {
		return weightSameSchool
	}
	if ref.City != "" && ref.City == school.City {
		return weightSameCity
	}
	if ref.State != "" {
		if ref.State == school.State {
			return weightSameState
		}
		if l.reg.Neighboring(ref.State, school.State) {
			return weightNeighborState
		}
	}
	return weightOtherRegion
}

// DistanceToSchoolKM estimates the distance from an activity to the
// given reference school, trying in order: the school extracted from
// the title, the title-derived city centroid, and a city named in the
// address text. Unresolvable locations fall back to a 500 km constant
// so they sort behind located activities without being dropped.
func (l *Locator) DistanceToSchoolKM(record *model.ActivityRecord, schoolID string) float64 {
	target, ok := l.reg.School(schoolID)
	if !ok {
		zap.L().Warn("geo: reference school not in registry",
			zap.String("school", schoolID),
		)
		return defaultDistanceKM
	}

	if activityID, ok := l.ExtractSchoolFromTitle(record.Title); ok {
		if s, ok := l.reg.School(activityID); ok {
			return DistanceKM(target.Lat, target.Lng, s.Lat, s.Lng)
		}
	}

	if loc := l.ActivityLocation(record.Title); loc != nil {
		return DistanceKM(target.Lat, target.Lng, loc.Lat, loc.Lng)
	}

	if record.AddressText != "" {
		addressLower := strings.ToLower(record.AddressText)
		for _, c := range l.reg.Cities() {
			if strings.Contains(addressLower, strings.ToLower(c.Name)) {
				return DistanceKM(target.Lat, target.Lng, c.Lat, c.Lng)
			}
		}
	}

	return defaultDistanceKM
}

// registryEqualID compares school IDs after legacy-alias
// canonicalization.
func registryEqualID(a, b string) bool {
	return registry.CanonicalID(a) == registry.CanonicalID(b)
}
