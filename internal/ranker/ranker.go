// Package ranker composes the geo and schedule layers into the final
// partition/sort/merge ordering of activity records. The algorithm is
// deterministic and allocation-light: one ranking call never retains
// the caller's slice or reference location.
package ranker

import (
	"math"
	"sort"
	"time"

	"go.uber.org/zap"

	"github.com/campuspulse/activity-rank/internal/geo"
	"github.com/campuspulse/activity-rank/internal/model"
	"github.com/campuspulse/activity-rank/internal/registry"
	"github.com/campuspulse/activity-rank/internal/schedule"
)

// Engine ranks activity records against a reference location. It is
// stateless apart from the immutable registry it reads; a single
// Engine is safe for concurrent Rank calls.
type Engine struct {
	reg     *registry.Registry
	locator *geo.Locator
	matcher geo.Matcher
}

// Option customizes an Engine.
type Option func(*Engine)

// WithMatcher replaces the default tiered school matcher.
func WithMatcher(m geo.Matcher) Option {
	return func(e *Engine) { e.matcher = m }
}

// New creates an Engine over the given registry.
func New(reg *registry.Registry, opts ...Option) *Engine {
	e := &Engine{
		reg:     reg,
		locator: geo.NewLocator(reg),
		matcher: geo.NewTieredMatcher(reg),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Result is the outcome of one ranking call. Statuses is keyed by
// record ID and covers every input record; it is logically independent
// of the ordering.
type Result struct {
	Records  []model.ActivityRecord
	Statuses map[string]model.ActivityStatus
}

// item carries a record plus its precomputed sort keys so the
// comparators stay O(1).
type item struct {
	rec        model.ActivityRecord
	distanceKM float64
	weight     int
	homeMatch  bool
	start      time.Time
	hasStart   bool
}

// Rank orders records by temporal partition, reference-school match,
// distance, home-school affinity, and chronology, in that priority.
// Active groups sort soonest-first, ended groups most-recently-ended
// first. The ordering is stable: records tied on every key keep their
// input order. Every input record appears exactly once in the output.
func (e *Engine) Rank(records []model.ActivityRecord, userHomeSchool string, ref *model.ReferenceLocation, now time.Time) Result {
	statuses := make(map[string]model.ActivityStatus, len(records))

	var active, ended []item
	for _, rec := range records {
		rec := rec
		statuses[rec.ID] = schedule.ResolveStatus(rec.SignStatus, &rec, now)

		it := e.buildItem(rec, userHomeSchool, ref, now)
		if schedule.IsEnded(&rec, now) {
			ended = append(ended, it)
		} else {
			active = append(active, it)
		}
	}

	byReference := ref != nil && ref.School != ""

	var groups [][]item
	if byReference {
		activeMatch, activeOther := e.splitByReference(active, ref.School)
		endedMatch, endedOther := e.splitByReference(ended, ref.School)
		groups = [][]item{activeMatch, activeOther, endedMatch, endedOther}
	} else {
		groups = [][]item{active, ended}
	}

	out := make([]model.ActivityRecord, 0, len(records))
	for i, group := range groups {
		endedGroup := (byReference && i >= 2) || (!byReference && i == 1)
		e.sortGroup(group, ref, userHomeSchool != "", endedGroup)
		for _, it := range group {
			out = append(out, it.rec)
		}
	}

	zap.L().Debug("ranker: ranked records",
		zap.Int("total", len(records)),
		zap.Int("active", len(active)),
		zap.Int("ended", len(ended)),
		zap.Bool("by_reference", byReference),
	)

	return Result{Records: out, Statuses: statuses}
}

// buildItem precomputes the sort keys one record needs under the
// current reference and home school.
func (e *Engine) buildItem(rec model.ActivityRecord, userHomeSchool string, ref *model.ReferenceLocation, now time.Time) item {
	it := item{rec: rec}

	if ref != nil {
		if ref.School != "" {
			it.distanceKM = e.locator.DistanceToSchoolKM(&rec, ref.School)
		} else {
			// Covers both a GPS fix and an identity-only reference
			// (city/state tiers).
			it.weight = e.locator.ActivityDistanceWeight(rec.Title, ref)
		}
	}
	if userHomeSchool != "" {
		it.homeMatch = e.matcher.Matches(&rec, userHomeSchool)
	}
	it.start, it.hasStart = schedule.StartTime(&rec, now.Location())
	return it
}

// splitByReference partitions a temporal group into records matching
// the reference school and the rest, preserving input order.
func (e *Engine) splitByReference(group []item, schoolID string) (matching, other []item) {
	for _, it := range group {
		if e.matcher.Matches(&it.rec, schoolID) {
			matching = append(matching, it)
		} else {
			other = append(other, it)
		}
	}
	return matching, other
}

// sortGroup orders one group in place. Distance wins when the
// difference is meaningful, then home-school affinity, then
// chronology. Records without a usable start time sort last within
// their group.
func (e *Engine) sortGroup(group []item, ref *model.ReferenceLocation, useHome, endedGroup bool) {
	bySchoolDistance := ref != nil && ref.School != ""
	byWeight := ref != nil && ref.School == ""

	sort.SliceStable(group, func(i, j int) bool {
		a, b := group[i], group[j]

		if bySchoolDistance {
			if diff := a.distanceKM - b.distanceKM; math.Abs(diff) > geo.WeightToleranceKM {
				return diff < 0
			}
		} else if byWeight {
			if a.weight != b.weight {
				return a.weight < b.weight
			}
		}

		if useHome && a.homeMatch != b.homeMatch {
			return a.homeMatch
		}

		if a.hasStart != b.hasStart {
			return a.hasStart
		}
		if !a.hasStart {
			return false
		}
		if a.start.Equal(b.start) {
			return false
		}
		if endedGroup {
			return a.start.After(b.start)
		}
		return a.start.Before(b.start)
	})
}
