package lifecycle

import (
	"context"
	"errors"
	"sync"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/nphdash/internal/model"
)

var errBackend = errors.New("backend unavailable")

// drain runs cmd and everything it leads to, feeding each message back
// through update the way the Bubble Tea loop would. It returns every
// message produced, in order.
func drain(update func(tea.Msg) tea.Cmd, cmd tea.Cmd) []tea.Msg {
	var out []tea.Msg
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
		default:
			out = append(out, msg)
			queue = append(queue, update(msg))
		}
	}
	return out
}

func changedMsgs(msgs []tea.Msg) []ChangedMsg {
	var out []ChangedMsg
	for _, m := range msgs {
		if c, ok := m.(ChangedMsg); ok {
			out = append(out, c)
		}
	}
	return out
}

type fakeModal struct {
	open  bool
	shows int
	hides int
}

func (m *fakeModal) Show() { m.open = true; m.shows++ }
func (m *fakeModal) Hide() { m.open = false; m.hides++ }

type fakeJournal struct {
	mu      sync.Mutex
	entries []model.Activity
	err     error
}

func (j *fakeJournal) RecordActivity(_ context.Context, a model.Activity) error {
	j.mu.Lock()
	defer j.mu.Unlock()
	j.entries = append(j.entries, a)
	return j.err
}

// fakeSections is an in-memory section backend.
type fakeSections struct {
	mu       sync.Mutex
	records  []model.Section
	nextID   int64
	calls    []string
	creates  []model.Section
	updates  []model.Section
	fetchErr error
	writeErr error
}

func (f *fakeSections) FetchAll(context.Context) ([]model.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "FetchAll")
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]model.Section(nil), f.records...), nil
}

func (f *fakeSections) Create(_ context.Context, draft model.Section) (*model.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "Create")
	f.creates = append(f.creates, draft)
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.nextID++
	draft.ID = 100 + f.nextID
	draft.Status = model.StatusActive
	f.records = append(f.records, draft)
	return &draft, nil
}

func (f *fakeSections) Update(_ context.Context, id int64, s model.Section) (*model.Section, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "Update")
	f.updates = append(f.updates, s)
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	s.ID = id
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i] = s
		}
	}
	return &s, nil
}

func (f *fakeSections) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}

// fakeMetas is an in-memory goal backend.
type fakeMetas struct {
	mu            sync.Mutex
	records       []model.Meta
	nextID        int64
	calls         []string
	creates       []model.Meta
	updates       []model.Meta
	statusUpdates map[int64]model.Status
	fetchErr      error
	writeErr      error
}

func (f *fakeMetas) FetchAll(context.Context) ([]model.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "FetchAll")
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return append([]model.Meta(nil), f.records...), nil
}

func (f *fakeMetas) Create(_ context.Context, draft model.Meta) (*model.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "Create")
	f.creates = append(f.creates, draft)
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	f.nextID++
	draft.ID = 200 + f.nextID
	draft.Status = model.StatusActive
	f.records = append(f.records, draft)
	return &draft, nil
}

func (f *fakeMetas) Update(_ context.Context, m model.Meta) (*model.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "Update")
	f.updates = append(f.updates, m)
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	for i := range f.records {
		if f.records[i].ID == m.ID {
			f.records[i] = m
		}
	}
	return &m, nil
}

func (f *fakeMetas) UpdateStatus(_ context.Context, id int64, st model.Status) (*model.Meta, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.calls = append(f.calls, "UpdateStatus")
	if f.statusUpdates == nil {
		f.statusUpdates = make(map[int64]model.Status)
	}
	f.statusUpdates[id] = st
	if f.writeErr != nil {
		return nil, f.writeErr
	}
	for i := range f.records {
		if f.records[i].ID == id {
			f.records[i].Status = st
			m := f.records[i]
			return &m, nil
		}
	}
	return &model.Meta{ID: id, Status: st}, nil
}

func (f *fakeMetas) callCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.calls)
}
