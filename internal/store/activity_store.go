package store

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/nhle/nphdash/internal/model"
)

// activityRow mirrors the activity table; created_at is stored as Unix
// milliseconds so range deletes compare numerically.
type activityRow struct {
	ID        string `db:"id"`
	Entity    string `db:"entity"`
	EntityID  int64  `db:"entity_id"`
	Action    string `db:"action"`
	Name      string `db:"name"`
	Error     string `db:"error"`
	CreatedAt int64  `db:"created_at"`
}

func (r activityRow) toModel() model.Activity {
	return model.Activity{
		ID:        r.ID,
		Entity:    r.Entity,
		EntityID:  r.EntityID,
		Action:    r.Action,
		Name:      r.Name,
		Error:     r.Error,
		CreatedAt: time.UnixMilli(r.CreatedAt).UTC(),
	}
}

// RecordActivity appends an entry to the journal. A missing id or
// timestamp is filled in.
func (s *SQLiteStore) RecordActivity(ctx context.Context, a model.Activity) error {
	if a.ID == "" {
		a.ID = uuid.New().String()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = time.Now()
	}

	_, err := s.db.ExecContext(ctx, `
		INSERT INTO activity (id, entity, entity_id, action, name, error, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.Entity, a.EntityID, a.Action, a.Name, a.Error, a.CreatedAt.UTC().UnixMilli(),
	)
	if err != nil {
		return fmt.Errorf("recording %s %s activity: %w", a.Entity, a.Action, err)
	}
	return nil
}

// RecentActivity returns journal entries, newest first.
func (s *SQLiteStore) RecentActivity(ctx context.Context, filter ActivityFilter) ([]model.Activity, error) {
	limit := filter.Limit
	if limit <= 0 {
		limit = DefaultActivityLimit
	}

	query := "SELECT * FROM activity"
	var args []interface{}
	if filter.Entity != "" {
		query += " WHERE entity = ?"
		args = append(args, filter.Entity)
	}
	query += " ORDER BY created_at DESC, rowid DESC LIMIT ?"
	args = append(args, limit)

	var rows []activityRow
	if err := s.db.SelectContext(ctx, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("querying activity: %w", err)
	}

	out := make([]model.Activity, 0, len(rows))
	for _, r := range rows {
		out = append(out, r.toModel())
	}
	return out, nil
}

// ActivityCounts returns the number of entries per entity and action.
func (s *SQLiteStore) ActivityCounts(ctx context.Context) ([]model.ActivityCount, error) {
	var counts []model.ActivityCount
	err := s.db.SelectContext(ctx, &counts, `
		SELECT entity, action, COUNT(*) AS count
		FROM activity
		GROUP BY entity, action
		ORDER BY entity, action`)
	if err != nil {
		return nil, fmt.Errorf("counting activity: %w", err)
	}
	return counts, nil
}

// PurgeActivityBefore deletes entries older than cutoff and returns how
// many were removed.
func (s *SQLiteStore) PurgeActivityBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	result, err := s.db.ExecContext(ctx,
		"DELETE FROM activity WHERE created_at < ?", cutoff.UTC().UnixMilli())
	if err != nil {
		return 0, fmt.Errorf("purging activity: %w", err)
	}
	n, _ := result.RowsAffected()
	return n, nil
}
