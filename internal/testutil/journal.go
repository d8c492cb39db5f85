// Package testutil holds fixtures shared by package tests.
package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/require"

	"github.com/nhle/nphdash/internal/model"
	"github.com/nhle/nphdash/internal/store"
)

// JournalEpoch is the clock SeedActivity starts from.
var JournalEpoch = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

// NewJournal opens an in-memory activity journal with every migration
// applied. It is closed when the test ends.
func NewJournal(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	require.NoError(t, err, "opening journal")
	t.Cleanup(func() {
		require.NoError(t, s.Close(), "closing journal")
	})
	return s
}

// SeedActivity records entries in order. Entries without a timestamp
// are spaced one minute apart from JournalEpoch so RecentActivity
// returns them newest first.
func SeedActivity(t *testing.T, s store.Store, entries ...model.Activity) []model.Activity {
	t.Helper()

	out := make([]model.Activity, 0, len(entries))
	for i, a := range entries {
		if a.CreatedAt.IsZero() {
			a.CreatedAt = JournalEpoch.Add(time.Duration(i) * time.Minute)
		}
		require.NoError(t, s.RecordActivity(context.Background(), a), "seeding %s %s", a.Entity, a.Action)
		out = append(out, a)
	}
	return out
}
