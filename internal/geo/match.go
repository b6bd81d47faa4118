package geo

import (
	"strings"

	"github.com/campuspulse/activity-rank/internal/model"
	"github.com/campuspulse/activity-rank/internal/registry"
)

// Matcher decides whether an activity record belongs to a target
// school. The tiered heuristic is pluggable so the ranker can be
// tested against a trivial implementation.
type Matcher interface {
	Matches(record *model.ActivityRecord, schoolID string) bool
}

// TieredMatcher matches activities to schools with a fixed fallback
// chain, short-circuiting on the first success:
//
//  1. title keywords
//  2. address keywords
//  3. address contains the school's city name
//  4. address contains a localized alias of that city
//
// Legacy organizational IDs are remapped to the canonical campus
// before any tier runs.
type TieredMatcher struct {
	reg *registry.Registry
}

// NewTieredMatcher creates a TieredMatcher over the given registry.
func NewTieredMatcher(reg *registry.Registry) *TieredMatcher {
	return &TieredMatcher{reg: reg}
}

// Matches implements Matcher.
func (m *TieredMatcher) Matches(record *model.ActivityRecord, schoolID string) bool {
	if record == nil || schoolID == "" {
		return false
	}

	school, ok := m.reg.School(schoolID)
	if !ok {
		return false
	}

	// Tier 1: title keywords.
	titleLower := strings.ToLower(record.Title)
	if containsAnyKeyword(titleLower, school.Keywords) {
		return true
	}

	// Tier 2: address keywords.
	addressLower := strings.ToLower(record.AddressText)
	if containsAnyKeyword(addressLower, school.Keywords) {
		return true
	}

	// Tier 3: address mentions the school's city.
	if school.City != "" && strings.Contains(addressLower, strings.ToLower(school.City)) {
		return true
	}

	// Tier 4: address mentions a localized city alias.
	return containsAnyKeyword(addressLower, m.reg.CityAliases(school.City))
}

// containsAnyKeyword reports whether s contains any keyword,
// case-insensitively. s must already be lowercased.
func containsAnyKeyword(s string, keywords []string) bool {
	if s == "" {
		return false
	}
	for _, kw := range keywords {
		if kw != "" && strings.Contains(s, strings.ToLower(kw)) {
			return true
		}
	}
	return false
}
