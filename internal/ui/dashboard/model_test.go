package dashboard

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/nphdash/internal/lifecycle"
	"github.com/nhle/nphdash/internal/model"
	"github.com/nhle/nphdash/internal/testutil"
)

func TestDashboardShowsJournal(t *testing.T) {
	s := testutil.NewJournal(t)
	testutil.SeedActivity(t, s, model.Activity{
		Entity: model.EntityMeta, EntityID: 7, Action: model.ActionDelete, Name: "Budget",
	})

	counts := func() (Counts, Counts) {
		return Counts{Active: 2, Inactive: 1, Loaded: true}, Counts{}
	}
	m := New(counts, s, "http://localhost:8080", 100, 30)

	msg := m.Init()()
	m, _ = m.Update(msg)

	view := m.View()
	assert.True(t, strings.Contains(view, "Budget"))
	assert.True(t, strings.Contains(view, "meta delete: 1"))

	_, cmd := m.Update(lifecycle.ChangedMsg{Entity: model.EntityMeta})
	assert.NotNil(t, cmd, "a change reloads the journal")
}

func TestDashboardWithoutJournal(t *testing.T) {
	m := New(func() (Counts, Counts) { return Counts{}, Counts{} }, nil, "", 80, 24)

	assert.Nil(t, m.Init())
	assert.Contains(t, m.View(), "unavailable")
}
