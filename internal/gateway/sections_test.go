package gateway

import (
	"errors"
	"net/http"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/nphdash/internal/model"
)

func TestSectionsFetchAll(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/sections", http.StatusOK, `[
		{"idSection":1,"name":"North","description":"North wing","updateDate":"2024-03-01","status":"A"},
		{"idSection":2,"name":"South","description":"South wing","updateDate":null,"status":"I"}
	]`)

	sections, err := NewSections(fb.client()).FetchAll(bg)
	require.NoError(t, err)
	require.Len(t, sections, 2)

	assert.Equal(t, int64(1), sections[0].ID)
	assert.Equal(t, model.Date{Year: 2024, Month: time.March, Day: 1}, sections[0].UpdateDate)
	assert.Equal(t, model.StatusInactive, sections[1].Status)
	assert.True(t, sections[1].UpdateDate.IsZero())
}

func TestSectionsCreateForcesActive(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodPost, "/sections", http.StatusCreated,
		`{"idSection":10,"name":"North","description":"North wing","updateDate":"2024-03-01","status":"A"}`)

	draft := model.Section{
		ID:          99,
		Name:        "North",
		Description: "North wing",
		UpdateDate:  model.Date{Year: 2024, Month: time.March, Day: 1},
		Status:      model.StatusInactive,
	}
	created, err := NewSections(fb.client()).Create(bg, draft)
	require.NoError(t, err)
	assert.Equal(t, int64(10), created.ID)

	call := fb.lastCall()
	assert.Equal(t, "A", call.Body["status"])
	assert.Equal(t, "2024-03-01", call.Body["updateDate"])
	assert.Equal(t, float64(0), call.Body["idSection"])
	assert.Equal(t, "North", call.Body["name"])
}

func TestSectionsUpdateRequiresID(t *testing.T) {
	fb := newFakeBackend(t)

	_, err := NewSections(fb.client()).Update(bg, 0, model.Section{Name: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.False(t, IsGatewayError(err))
	assert.Empty(t, fb.calls(), "no request may be sent without an id")
}

func TestSectionsUpdateSendsPut(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodPut, "/sections/4", http.StatusOK, ``)

	in := model.Section{Name: "Finance", Description: "Money", Status: model.StatusInactive}
	updated, err := NewSections(fb.client()).Update(bg, 4, in)
	require.NoError(t, err)

	assert.Equal(t, int64(4), updated.ID)
	assert.Equal(t, model.StatusInactive, updated.Status)

	call := fb.lastCall()
	assert.Equal(t, http.MethodPut, call.Method)
	assert.Equal(t, "/sections/4", call.Path)
	assert.Equal(t, "I", call.Body["status"])
}

func TestSectionsFetchByIDAndDelete(t *testing.T) {
	fb := newFakeBackend(t)
	fb.on(http.MethodGet, "/sections/3", http.StatusOK, `{"idSection":3,"name":"F","description":"Finance","status":"A"}`)
	fb.on(http.MethodDelete, "/sections/3", http.StatusNoContent, ``)

	g := NewSections(fb.client())

	s, err := g.FetchByID(bg, 3)
	require.NoError(t, err)
	assert.Equal(t, "Finance", s.Description)

	require.NoError(t, g.Delete(bg, 3))
	assert.Equal(t, http.MethodDelete, fb.lastCall().Method)

	_, err = g.FetchByID(bg, 0)
	assert.True(t, errors.Is(err, ErrInvalidArgument))
	assert.True(t, errors.Is(g.Delete(bg, 0), ErrInvalidArgument))
}

func TestSectionsNotFoundIsServerError(t *testing.T) {
	fb := newFakeBackend(t)

	_, err := NewSections(fb.client()).FetchByID(bg, 42)
	assert.True(t, IsServerError(err, http.StatusNotFound))
}
