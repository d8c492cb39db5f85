package metaview

import (
	"context"
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/nphdash/internal/format"
	"github.com/nhle/nphdash/internal/keys"
	"github.com/nhle/nphdash/internal/lifecycle"
	"github.com/nhle/nphdash/internal/model"
	"github.com/nhle/nphdash/internal/ui"
)

var errSave = errors.New("backend unavailable")

type stubMetas struct {
	records  []model.Meta
	creates  []model.Meta
	writeErr error
}

func (s *stubMetas) FetchAll(context.Context) ([]model.Meta, error) {
	return append([]model.Meta(nil), s.records...), nil
}

func (s *stubMetas) Create(_ context.Context, draft model.Meta) (*model.Meta, error) {
	s.creates = append(s.creates, draft)
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	draft.ID = int64(len(s.records) + 1)
	s.records = append(s.records, draft)
	return &draft, nil
}

func (s *stubMetas) Update(_ context.Context, meta model.Meta) (*model.Meta, error) {
	if s.writeErr != nil {
		return nil, s.writeErr
	}
	return &meta, nil
}

func (s *stubMetas) UpdateStatus(_ context.Context, id int64, st model.Status) (*model.Meta, error) {
	return &model.Meta{ID: id, Status: st}, nil
}

type stubSections struct {
	records []model.Section
}

func (s *stubSections) FetchAll(context.Context) ([]model.Section, error) {
	return append([]model.Section(nil), s.records...), nil
}

// run executes cmd, expanding batches, and feeds each result to the page.
func run(m Model, cmd tea.Cmd) Model {
	queue := []tea.Cmd{cmd}
	for len(queue) > 0 {
		next := queue[0]
		queue = queue[1:]
		if next == nil {
			continue
		}
		switch msg := next().(type) {
		case tea.BatchMsg:
			queue = append(queue, msg...)
		case lifecycle.ChangedMsg, nil:
		default:
			m, _ = m.Update(msg)
		}
	}
	return m
}

func newPage(t *testing.T, gw *stubMetas, sections *stubSections) Model {
	t.Helper()
	dates, err := format.NewDateFormatter("en", "")
	require.NoError(t, err)

	modal := ui.NewModal()
	ctrl := lifecycle.NewMetaController(gw, sections, lifecycle.Options{Modal: modal, Location: time.UTC})
	m := New(ctrl, modal, keys.DefaultKeyMap(), dates, 120, 30)
	return run(m, m.Init())
}

func keyPress(s string) tea.KeyMsg {
	if s == "esc" {
		return tea.KeyMsg{Type: tea.KeyEsc}
	}
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func optionValues(opts []huh.Option[int64]) []int64 {
	out := make([]int64, 0, len(opts))
	for _, o := range opts {
		out = append(out, o.Value)
	}
	return out
}

var finance = model.Section{ID: 3, Name: "F", Description: "Finance", Status: model.StatusActive}

func TestUpdate(t *testing.T) {
	valid := lifecycle.MetaForm{
		Name: "Budget", Description: "Yearly budget", SectionID: 3,
		Objective: "Close Q1", Time: "2024-12-31",
	}

	tests := []struct {
		name  string
		gw    *stubMetas
		input lifecycle.MetaForm
		check func(t *testing.T, m Model, gw *stubMetas)
	}{
		{
			name:  "missing section rebuilds the form without a call",
			gw:    &stubMetas{},
			input: lifecycle.MetaForm{Name: "Budget", Description: "Yearly budget", Objective: "Close Q1", Time: "2024-12-31"},
			check: func(t *testing.T, m Model, gw *stubMetas) {
				assert.Empty(t, gw.creates)
				require.NotNil(t, m.form)
				assert.Equal(t, huh.StateNormal, m.form.State)
				assert.Equal(t, "sectionId is a required field", m.ctrl.FieldError("sectionId"))
			},
		},
		{
			name:  "failed save hands the form back with what was typed",
			gw:    &stubMetas{writeErr: errSave},
			input: valid,
			check: func(t *testing.T, m Model, gw *stubMetas) {
				require.Len(t, gw.creates, 1)
				require.NotNil(t, m.form)
				assert.Equal(t, huh.StateNormal, m.form.State)
				assert.True(t, m.InputActive())
				assert.Equal(t, "Close Q1", m.ctrl.Form().Objective)
				assert.Equal(t, "Finance", m.ctrl.SelectedSectionDescription())
				assert.ErrorIs(t, m.ctrl.Err(), errSave)
			},
		},
		{
			name:  "successful save closes the form",
			gw:    &stubMetas{},
			input: valid,
			check: func(t *testing.T, m Model, gw *stubMetas) {
				require.Len(t, gw.creates, 1)
				assert.Equal(t, model.StatusActive, gw.creates[0].Status)
				assert.Nil(t, m.form)
				assert.False(t, m.InputActive())
				assert.Len(t, m.ctrl.Active(), 1)
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m := newPage(t, tt.gw, &stubSections{records: []model.Section{finance}})

			m, _ = m.Update(keyPress("n"))
			require.True(t, m.InputActive())
			require.NotNil(t, m.form)

			m.ctrl.SetForm(tt.input)
			m.form.State = huh.StateCompleted
			m, cmd := m.settle(nil)
			m = run(m, cmd)

			tt.check(t, m, tt.gw)
		})
	}
}

func TestSectionOptionsFollowSectionChanges(t *testing.T) {
	sections := &stubSections{records: []model.Section{finance}}
	m := newPage(t, &stubMetas{}, sections)
	assert.Equal(t, []int64{0, 3}, optionValues(m.sectionOptions()))

	sections.records = append(sections.records,
		model.Section{ID: 4, Name: "W", Description: "West", Status: model.StatusActive},
		model.Section{ID: 5, Name: "S", Description: "South", Status: model.StatusInactive},
	)
	_, cmd := m.Update(lifecycle.ChangedMsg{Entity: model.EntitySection, Action: model.ActionCreate, ID: 4})
	m = run(m, cmd)

	assert.Equal(t, []int64{0, 3, 4}, optionValues(m.sectionOptions()))
}

func TestEditOffersInactiveCurrentSection(t *testing.T) {
	south := model.Section{ID: 5, Name: "S", Description: "South", Status: model.StatusInactive}
	gw := &stubMetas{records: []model.Meta{
		{ID: 7, Name: "Budget", Status: model.StatusActive, Section: &south},
	}}
	m := newPage(t, gw, &stubSections{records: []model.Section{finance, south}})

	m, _ = m.Update(keyPress("e"))
	require.True(t, m.InputActive())
	assert.Equal(t, []int64{0, 3, 5}, optionValues(m.sectionOptions()))

	m, _ = m.Update(keyPress("esc"))
	assert.False(t, m.InputActive())
	assert.Empty(t, gw.creates)
}
