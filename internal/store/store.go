package store

import (
	"context"
	"time"

	"github.com/nhle/nphdash/internal/model"
)

// ActivityFilter narrows RecentActivity results.
type ActivityFilter struct {
	Entity string // "section", "meta", or "" for both
	Limit  int    // 0 means DefaultActivityLimit
}

// DefaultActivityLimit caps RecentActivity when no limit is given.
const DefaultActivityLimit = 50

// Store is the local activity journal. It records what the dashboard
// sent to the backend and never holds entity state.
type Store interface {
	RecordActivity(ctx context.Context, a model.Activity) error
	RecentActivity(ctx context.Context, filter ActivityFilter) ([]model.Activity, error)
	ActivityCounts(ctx context.Context) ([]model.ActivityCount, error)
	PurgeActivityBefore(ctx context.Context, cutoff time.Time) (int64, error)
	Close() error
}
