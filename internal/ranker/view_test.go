package ranker

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/campuspulse/activity-rank/internal/model"
	"github.com/campuspulse/activity-rank/internal/timeparse"
)

func TestAnnotate(t *testing.T) {
	result := Result{
		Records: []model.ActivityRecord{
			{
				ID:       "a1",
				Title:    "UCLA Career Fair",
				StartRaw: "2024-07-20 09:30:00",
				TimeZone: "pacific",
			},
			{
				ID:    "a2",
				Title: "Untimed Mixer",
			},
		},
		Statuses: map[string]model.ActivityStatus{
			"a1": model.StatusAvailable,
			"a2": model.StatusEnded,
		},
	}

	cache := timeparse.NewCache(timeparse.DefaultMaxEntries)
	annotated := Annotate(result, cache, "en")
	require.Len(t, annotated, 2)

	assert.Equal(t, model.StatusAvailable, annotated[0].Status)
	assert.Equal(t, "2024-07-20", annotated[0].StartDate)
	assert.Equal(t, "09:30", annotated[0].StartClock)
	// July falls inside US daylight saving.
	assert.Equal(t, "PDT", annotated[0].TimeZoneLabel)

	assert.Equal(t, model.StatusEnded, annotated[1].Status)
	assert.Empty(t, annotated[1].StartDate)
	assert.Empty(t, annotated[1].StartClock)
	assert.Empty(t, annotated[1].TimeZoneLabel)

	assert.Equal(t, 1, cache.Stats().Entries)
}

func TestAnnotate_LanguageSelectsLabel(t *testing.T) {
	result := Result{
		Records: []model.ActivityRecord{
			{ID: "a1", StartRaw: "2024-01-10 18:00:00", TimeZone: "central"},
		},
		Statuses: map[string]model.ActivityStatus{"a1": model.StatusAvailable},
	}

	cache := timeparse.NewCache(timeparse.DefaultMaxEntries)

	zh := Annotate(result, cache, "zh")
	en := Annotate(result, cache, "en")

	assert.Equal(t, "美中", zh[0].TimeZoneLabel)
	assert.Equal(t, "CST", en[0].TimeZoneLabel)

	// Both passes hit the same cached parse.
	stats := cache.Stats()
	assert.Equal(t, 1, stats.Entries)
	assert.Equal(t, int64(1), stats.Hits)
}
