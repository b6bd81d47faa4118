// Package registry holds the immutable geographic reference data the
// matcher and ranker operate on: school coordinates with match
// keywords, city centroids, and state centers with adjacency.
//
// Iteration order is part of the contract. Keyword extraction returns
// the first matching entry in registry order, and distinct entries may
// legitimately share keywords (the CU organizational alias maps to the
// UCSD campus), so registries are kept as ordered slices loaded from
// YAML, never as Go maps.
package registry

import (
	"strings"

	"github.com/rotisserie/eris"
	"github.com/twpayne/go-geom"
)

// School is a coordinate registry entry with case-insensitive match
// keywords.
type School struct {
	ID       string   `yaml:"id"`
	Lat      float64  `yaml:"lat"`
	Lng      float64  `yaml:"lng"`
	Keywords []string `yaml:"keywords"`
	State    string   `yaml:"state"`
	City     string   `yaml:"city"`
}

// City is a city centroid entry. Schools lists the registry IDs of
// campuses in that city; the first one is surfaced by nearest-city
// lookups.
type City struct {
	Name    string   `yaml:"name"`
	Lat     float64  `yaml:"lat"`
	Lng     float64  `yaml:"lng"`
	State   string   `yaml:"state"`
	Schools []string `yaml:"schools"`
}

// State is a state geographic center with its adjacency list.
type State struct {
	Code      string   `yaml:"code"`
	Name      string   `yaml:"name"`
	Lat       float64  `yaml:"lat"`
	Lng       float64  `yaml:"lng"`
	Neighbors []string `yaml:"neighbors"`
}

// legacyAliases remaps organizational identifiers to the canonical
// campus entry before matching. Documented alias table, not inferred.
var legacyAliases = map[string]string{
	"CU":   "UCSD",
	"CU总部": "UCSD",
}

// Registry is the loaded, immutable reference data set.
type Registry struct {
	schools []School
	cities  []City
	states  []State
	aliases map[string][]string // city name -> localized alias spellings

	schoolByID  map[string]int
	cityByName  map[string]int
	stateByCode map[string]int

	bounds *geom.Bounds
}

// New assembles a Registry from raw entries, validating coordinates
// and ID uniqueness. Entry order is preserved.
func New(schools []School, cities []City, states []State, cityAliases map[string][]string) (*Registry, error) {
	r := &Registry{
		schools:     schools,
		cities:      cities,
		states:      states,
		aliases:     cityAliases,
		schoolByID:  make(map[string]int, len(schools)),
		cityByName:  make(map[string]int, len(cities)),
		stateByCode: make(map[string]int, len(states)),
		bounds:      geom.NewBounds(geom.XY),
	}

	for i, s := range schools {
		if err := validateCoord(s.Lat, s.Lng); err != nil {
			return nil, eris.Wrapf(err, "registry: school %q", s.ID)
		}
		if len(s.Keywords) == 0 {
			return nil, eris.Errorf("registry: school %q has no keywords", s.ID)
		}
		if _, dup := r.schoolByID[s.ID]; dup {
			return nil, eris.Errorf("registry: duplicate school id %q", s.ID)
		}
		r.schoolByID[s.ID] = i
		r.bounds.Extend(geom.NewPointFlat(geom.XY, []float64{s.Lng, s.Lat}))
	}
	for i, c := range cities {
		if err := validateCoord(c.Lat, c.Lng); err != nil {
			return nil, eris.Wrapf(err, "registry: city %q", c.Name)
		}
		if _, dup := r.cityByName[c.Name]; dup {
			return nil, eris.Errorf("registry: duplicate city %q", c.Name)
		}
		r.cityByName[c.Name] = i
		r.bounds.Extend(geom.NewPointFlat(geom.XY, []float64{c.Lng, c.Lat}))
	}
	for i, s := range states {
		if err := validateCoord(s.Lat, s.Lng); err != nil {
			return nil, eris.Wrapf(err, "registry: state %q", s.Code)
		}
		if _, dup := r.stateByCode[s.Code]; dup {
			return nil, eris.Errorf("registry: duplicate state %q", s.Code)
		}
		r.stateByCode[s.Code] = i
	}

	return r, nil
}

func validateCoord(lat, lng float64) error {
	if lat < -90 || lat > 90 {
		return eris.Errorf("latitude %v out of range", lat)
	}
	if lng < -180 || lng > 180 {
		return eris.Errorf("longitude %v out of range", lng)
	}
	return nil
}

// Schools returns all school entries in registry order.
func (r *Registry) Schools() []School { return r.schools }

// Cities returns all city entries in registry order.
func (r *Registry) Cities() []City { return r.cities }

// States returns all state entries in registry order.
func (r *Registry) States() []State { return r.states }

// School looks up a school by its canonical or legacy-alias ID.
func (r *Registry) School(id string) (School, bool) {
	i, ok := r.schoolByID[CanonicalID(id)]
	if !ok {
		return School{}, false
	}
	return r.schools[i], true
}

// City looks up a city by name.
func (r *Registry) City(name string) (City, bool) {
	i, ok := r.cityByName[name]
	if !ok {
		return City{}, false
	}
	return r.cities[i], true
}

// State looks up a state by its two-letter code.
func (r *Registry) State(code string) (State, bool) {
	i, ok := r.stateByCode[code]
	if !ok {
		return State{}, false
	}
	return r.states[i], true
}

// StateName returns the full display name for a state code, or the
// code itself when unknown.
func (r *Registry) StateName(code string) string {
	if s, ok := r.State(code); ok {
		return s.Name
	}
	return code
}

// Neighboring reports whether two states share a border per the
// adjacency table.
func (r *Registry) Neighboring(code, other string) bool {
	s, ok := r.State(code)
	if !ok {
		return false
	}
	for _, n := range s.Neighbors {
		if n == other {
			return true
		}
	}
	return false
}

// CityAliases returns the localized alias spellings for a city, or nil.
func (r *Registry) CityAliases(city string) []string {
	return r.aliases[city]
}

// Bounds returns the bounding box covering every school and city entry.
func (r *Registry) Bounds() *geom.Bounds { return r.bounds }

// CanonicalID resolves legacy organizational identifiers to the campus
// they alias. The "总部" (headquarters) suffix is stripped first, so
// object-sourced names like "CU总部" resolve the same way as "CU".
func CanonicalID(id string) string {
	trimmed := strings.TrimSpace(id)
	if canonical, ok := legacyAliases[trimmed]; ok {
		return canonical
	}
	if stripped := strings.TrimSuffix(trimmed, "总部"); stripped != trimmed {
		if canonical, ok := legacyAliases[strings.TrimSpace(stripped)]; ok {
			return canonical
		}
		return strings.TrimSpace(stripped)
	}
	return trimmed
}
