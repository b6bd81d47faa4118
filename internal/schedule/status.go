package schedule

import (
	"time"

	"github.com/campuspulse/activity-rank/internal/model"
)

// ResolveStatus maps an optional per-user sign code to the derived
// activity status. The code wins when present and recognized;
// otherwise the status falls back to the time-based active/ended
// split. Total: every input yields exactly one status.
func ResolveStatus(signStatus *int, rec *model.ActivityRecord, now time.Time) model.ActivityStatus {
	if signStatus != nil {
		switch *signStatus {
		case model.SignStatusRegistered:
			return model.StatusRegistered
		case model.SignStatusCheckedIn:
			return model.StatusCheckedIn
		}
	}
	if IsEnded(rec, now) {
		return model.StatusEnded
	}
	return model.StatusAvailable
}
