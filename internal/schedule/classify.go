// Package schedule decides the temporal state of activity records:
// active versus ended relative to a reference instant, and the
// per-user registration status derived from sign codes.
package schedule

import (
	"time"

	"go.uber.org/zap"

	"github.com/campuspulse/activity-rank/internal/model"
)

// Layouts accepted for raw end timestamps, tried in order.
var endLayouts = []string{
	"2006-01-02 15:04:05",
	"2006-01-02T15:04:05Z07:00",
	"2006-01-02T15:04:05",
	"2006-01-02 15:04",
}

const dateOnlyLayout = "2006-01-02"

// IsEnded reports whether the record has concluded relative to now.
// A date-only end string counts as ending at 23:59:59 of that date, so
// the whole day stays visible until its last moment. Records whose end
// cannot be parsed are treated as not ended: the bias is toward
// keeping questionable records visible rather than hiding them.
func IsEnded(rec *model.ActivityRecord, now time.Time) bool {
	end, ok := endInstant(rec, now.Location())
	if !ok {
		return false
	}
	return end.Before(now)
}

// endInstant resolves the effective end of a record. The raw server
// string wins over the pre-parsed instant so date-only ends get their
// end-of-day extension.
func endInstant(rec *model.ActivityRecord, loc *time.Location) (time.Time, bool) {
	raw := rec.EndRaw

	if isDateOnly(raw) {
		day, err := time.ParseInLocation(dateOnlyLayout, raw, loc)
		if err != nil {
			zap.L().Warn("schedule: invalid end date",
				zap.String("title", rec.Title),
				zap.String("end", raw),
			)
			return time.Time{}, false
		}
		return day.Add(23*time.Hour + 59*time.Minute + 59*time.Second), true
	}

	if raw != "" {
		for _, layout := range endLayouts {
			if end, err := time.ParseInLocation(layout, raw, loc); err == nil {
				return end, true
			}
		}
		zap.L().Warn("schedule: unparseable end timestamp",
			zap.String("title", rec.Title),
			zap.String("end", raw),
		)
		return time.Time{}, false
	}

	if !rec.EndInstant.IsZero() {
		return rec.EndInstant, true
	}

	zap.L().Debug("schedule: record has no end time", zap.String("title", rec.Title))
	return time.Time{}, false
}

// StartTime resolves the effective start of a record for
// chronological ordering. A date-only start counts as midnight of
// that date. Returns false when no usable start exists.
func StartTime(rec *model.ActivityRecord, loc *time.Location) (time.Time, bool) {
	raw := rec.StartRaw

	if isDateOnly(raw) {
		day, err := time.ParseInLocation(dateOnlyLayout, raw, loc)
		if err != nil {
			return time.Time{}, false
		}
		return day, true
	}

	if raw != "" {
		for _, layout := range endLayouts {
			if start, err := time.ParseInLocation(layout, raw, loc); err == nil {
				return start, true
			}
		}
		zap.L().Warn("schedule: unparseable start timestamp",
			zap.String("title", rec.Title),
			zap.String("start", raw),
		)
		return time.Time{}, false
	}

	if !rec.StartInstant.IsZero() {
		return rec.StartInstant, true
	}
	return time.Time{}, false
}

// isDateOnly reports whether raw is a bare YYYY-MM-DD date with no
// clock component.
func isDateOnly(raw string) bool {
	return len(raw) == len(dateOnlyLayout) && raw[4] == '-' && raw[7] == '-'
}
