package ranker

import (
	"github.com/campuspulse/activity-rank/internal/model"
	"github.com/campuspulse/activity-rank/internal/timeparse"
	"github.com/campuspulse/activity-rank/internal/tzlabel"
)

// Annotated is one ranked record decorated for display: its resolved
// status, the wall-clock split of its start, and a localized timezone
// label.
type Annotated struct {
	model.ActivityRecord
	Status        model.ActivityStatus `json:"status"`
	StartDate     string               `json:"start_date,omitempty"`
	StartClock    string               `json:"start_clock,omitempty"`
	TimeZoneLabel string               `json:"time_zone_label,omitempty"`
}

// Annotate decorates a ranking result for display in the given
// language. Timestamp splits go through the shared parse cache.
func Annotate(result Result, cache *timeparse.Cache, lang string) []Annotated {
	out := make([]Annotated, 0, len(result.Records))
	for _, rec := range result.Records {
		a := Annotated{
			ActivityRecord: rec,
			Status:         result.Statuses[rec.ID],
		}
		if rec.StartRaw != "" {
			ts := cache.Parse(rec.StartRaw)
			a.StartDate = ts.Date
			a.StartClock = ts.Time
		}
		a.TimeZoneLabel = tzlabel.Label(rec.TimeZone, a.StartDate, lang)
		out = append(out, a)
	}
	return out
}
