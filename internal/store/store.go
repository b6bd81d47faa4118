package store

import (
	"context"
	"time"

	"github.com/campuspulse/activity-rank/internal/model"
)

// ActivityFilter specifies criteria for listing activity records.
type ActivityFilter struct {
	TitleContains string `json:"title_contains,omitempty"`
	Limit         int    `json:"limit,omitempty"`
	Offset        int    `json:"offset,omitempty"`
}

// Store defines the persistence interface for activity snapshots. The
// ranking engine itself never touches storage; stores exist so the CLI
// and server can rank a previously imported snapshot without
// re-fetching it.
type Store interface {
	// Activities
	UpsertActivities(ctx context.Context, records []model.ActivityRecord) (int, error)
	GetActivity(ctx context.Context, id string) (*model.ActivityRecord, error)
	ListActivities(ctx context.Context, filter ActivityFilter) ([]model.ActivityRecord, error)
	SetSignStatus(ctx context.Context, activityID string, code int) error
	PruneEndedBefore(ctx context.Context, cutoff time.Time) (int, error)

	// Lifecycle
	Migrate(ctx context.Context) error
	Close() error
}
