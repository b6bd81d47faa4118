package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"

	"github.com/campuspulse/activity-rank/internal/model"
)

var now = time.Date(2024, 8, 21, 12, 0, 0, 0, time.UTC)

func TestIsEnded(t *testing.T) {
	tests := []struct {
		name  string
		rec   model.ActivityRecord
		ended bool
	}{
		{
			name:  "date-only end on the current day counts until midnight",
			rec:   model.ActivityRecord{Title: "a", EndRaw: "2024-08-21"},
			ended: false,
		},
		{
			name:  "date-only end yesterday",
			rec:   model.ActivityRecord{Title: "b", EndRaw: "2024-08-20"},
			ended: true,
		},
		{
			name:  "full timestamp in the past",
			rec:   model.ActivityRecord{Title: "c", EndRaw: "2024-08-21 09:00:00"},
			ended: true,
		},
		{
			name:  "full timestamp in the future",
			rec:   model.ActivityRecord{Title: "d", EndRaw: "2024-08-21 18:00:00"},
			ended: false,
		},
		{
			name:  "iso timestamp",
			rec:   model.ActivityRecord{Title: "e", EndRaw: "2024-08-21T09:00:00"},
			ended: true,
		},
		{
			name:  "unparseable end stays visible",
			rec:   model.ActivityRecord{Title: "f", EndRaw: "not a date"},
			ended: false,
		},
		{
			name:  "garbled date-only shape stays visible",
			rec:   model.ActivityRecord{Title: "g", EndRaw: "2024-8x-21"},
			ended: false,
		},
		{
			name:  "no end information stays visible",
			rec:   model.ActivityRecord{Title: "h"},
			ended: false,
		},
		{
			name:  "parsed instant used when raw absent",
			rec:   model.ActivityRecord{Title: "i", EndInstant: now.Add(-time.Hour)},
			ended: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.ended, IsEnded(&tt.rec, now))
		})
	}
}

func TestIsEndedDateOnlyBoundary(t *testing.T) {
	rec := model.ActivityRecord{Title: "boundary", EndRaw: "2024-08-20"}

	justBefore := time.Date(2024, 8, 20, 23, 59, 58, 0, time.UTC)
	justAfter := time.Date(2024, 8, 21, 0, 0, 0, 0, time.UTC)

	assert.False(t, IsEnded(&rec, justBefore))
	assert.True(t, IsEnded(&rec, justAfter))
}
