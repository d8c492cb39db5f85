package store_test

import (
	"context"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/nphdash/internal/model"
	"github.com/nhle/nphdash/internal/store"
	"github.com/nhle/nphdash/internal/testutil"
)

var ctx = context.Background()

func TestMigrationsApplied(t *testing.T) {
	s := testutil.NewJournal(t)

	v, err := s.SchemaVersion()
	require.NoError(t, err)
	assert.Equal(t, 2, v)
}

func TestReopenKeepsData(t *testing.T) {
	path := filepath.Join(t.TempDir(), "activity.db")

	s, err := store.NewSQLiteStore(path)
	require.NoError(t, err)
	require.NoError(t, s.RecordActivity(ctx, model.Activity{Entity: model.EntityMeta, Action: model.ActionCreate, EntityID: 7}))
	require.NoError(t, s.Close())

	s, err = store.NewSQLiteStore(path)
	require.NoError(t, err)
	defer s.Close()

	got, err := s.RecentActivity(ctx, store.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, int64(7), got[0].EntityID)
}

func TestRecordAndRecentActivity(t *testing.T) {
	s := testutil.NewJournal(t)
	base := testutil.JournalEpoch

	testutil.SeedActivity(t, s,
		model.Activity{Entity: model.EntitySection, EntityID: 1, Action: model.ActionCreate, Name: "North"},
		model.Activity{Entity: model.EntityMeta, EntityID: 7, Action: model.ActionDelete, Name: "Budget"},
		model.Activity{Entity: model.EntityMeta, EntityID: 7, Action: model.ActionRestore, Name: "Budget", Error: "Server-side error: 500 - boom"},
	)

	got, err := s.RecentActivity(ctx, store.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, got, 3)

	assert.Equal(t, model.ActionRestore, got[0].Action)
	assert.True(t, got[0].Failed())
	assert.NotEmpty(t, got[0].ID)
	assert.True(t, got[0].CreatedAt.Equal(base.Add(2*time.Minute)))
	assert.Equal(t, "North", got[2].Name)

	metas, err := s.RecentActivity(ctx, store.ActivityFilter{Entity: model.EntityMeta, Limit: 1})
	require.NoError(t, err)
	require.Len(t, metas, 1)
	assert.Equal(t, model.ActionRestore, metas[0].Action)
}

func TestRecordActivityRejectsUnknownEntity(t *testing.T) {
	s := testutil.NewJournal(t)

	err := s.RecordActivity(ctx, model.Activity{Entity: "person", Action: model.ActionCreate})
	assert.Error(t, err)
}

func TestActivityCounts(t *testing.T) {
	s := testutil.NewJournal(t)

	testutil.SeedActivity(t, s,
		model.Activity{Entity: model.EntityMeta, Action: model.ActionDelete},
		model.Activity{Entity: model.EntityMeta, Action: model.ActionDelete},
		model.Activity{Entity: model.EntityMeta, Action: model.ActionCreate},
		model.Activity{Entity: model.EntitySection, Action: model.ActionUpdate},
	)

	counts, err := s.ActivityCounts(ctx)
	require.NoError(t, err)
	assert.Equal(t, []model.ActivityCount{
		{Entity: model.EntityMeta, Action: model.ActionCreate, Count: 1},
		{Entity: model.EntityMeta, Action: model.ActionDelete, Count: 2},
		{Entity: model.EntitySection, Action: model.ActionUpdate, Count: 1},
	}, counts)
}

func TestPurgeActivityBefore(t *testing.T) {
	s := testutil.NewJournal(t)
	now := time.Now().UTC()

	require.NoError(t, s.RecordActivity(ctx, model.Activity{Entity: model.EntityMeta, Action: model.ActionCreate, CreatedAt: now.AddDate(0, 0, -100)}))
	require.NoError(t, s.RecordActivity(ctx, model.Activity{Entity: model.EntityMeta, Action: model.ActionUpdate, CreatedAt: now.AddDate(0, 0, -10)}))
	require.NoError(t, s.RecordActivity(ctx, model.Activity{Entity: model.EntityMeta, Action: model.ActionDelete}))

	n, err := s.PurgeActivityBefore(ctx, now.AddDate(0, 0, -90))
	require.NoError(t, err)
	assert.Equal(t, int64(1), n)

	got, err := s.RecentActivity(ctx, store.ActivityFilter{})
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, model.ActionDelete, got[0].Action)
}
