package gateway

import (
	"context"
	"fmt"

	"github.com/nhle/nphdash/internal/model"
)

const metasPath = "/metas"

// sectionRef is the reference shape the backend expects on writes.
type sectionRef struct {
	ID int64 `json:"idSection"`
}

// metaWrite is the body of POST /metas and PUT /metas/{id}.
type metaWrite struct {
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Objective   string       `json:"objective"`
	Time        model.Date   `json:"time"`
	Status      model.Status `json:"status"`
	Section     sectionRef   `json:"section"`
}

type statusWrite struct {
	Status model.Status `json:"status"`
}

func newMetaWrite(m model.Meta) metaWrite {
	return metaWrite{
		Name:        m.Name,
		Description: m.Description,
		Objective:   m.Objective,
		Time:        m.Time,
		Status:      m.Status,
		Section:     sectionRef{ID: m.SectionID()},
	}
}

// Metas is the gateway for the /metas resource.
type Metas struct {
	client *Client
}

// NewMetas creates a Meta gateway on top of c.
func NewMetas(c *Client) *Metas {
	return &Metas{client: c}
}

// FetchAll returns every goal regardless of status.
func (g *Metas) FetchAll(ctx context.Context) ([]model.Meta, error) {
	var metas []model.Meta
	if err := g.client.Get(ctx, metasPath, &metas); err != nil {
		return nil, fmt.Errorf("fetching metas: %w", err)
	}
	return metas, nil
}

// FetchByStatus returns the goals the backend reports with status.
func (g *Metas) FetchByStatus(ctx context.Context, status model.Status) ([]model.Meta, error) {
	if !status.Valid() {
		return nil, invalidArgument("unknown status %q", status)
	}
	var metas []model.Meta
	path := fmt.Sprintf("%s/status/%s", metasPath, status)
	if err := g.client.Get(ctx, path, &metas); err != nil {
		return nil, fmt.Errorf("fetching %s metas: %w", status.Label(), err)
	}
	return metas, nil
}

// Create posts a new goal. Only the writable fields are sent and the
// status is always Active.
func (g *Metas) Create(ctx context.Context, draft model.Meta) (*model.Meta, error) {
	draft.ID = 0
	draft.Status = model.StatusActive

	created := draft
	if err := g.client.Post(ctx, metasPath, newMetaWrite(draft), &created); err != nil {
		return nil, fmt.Errorf("creating meta %q: %w", draft.Name, err)
	}
	return &created, nil
}

// Update replaces the goal identified by meta.ID, status included.
func (g *Metas) Update(ctx context.Context, meta model.Meta) (*model.Meta, error) {
	if meta.ID == 0 {
		return nil, invalidArgument("meta id is required for updating")
	}

	updated := meta
	if err := g.client.Put(ctx, metaPath(meta.ID), newMetaWrite(meta), &updated); err != nil {
		return nil, fmt.Errorf("updating meta %d: %w", meta.ID, err)
	}
	return &updated, nil
}

// UpdateStatus changes only the status of a goal.
func (g *Metas) UpdateStatus(ctx context.Context, id int64, status model.Status) (*model.Meta, error) {
	if id == 0 {
		return nil, invalidArgument("meta id is required for a status change")
	}
	if !status.Valid() {
		return nil, invalidArgument("unknown status %q", status)
	}

	updated := model.Meta{ID: id, Status: status}
	path := metaPath(id) + "/status"
	if err := g.client.Put(ctx, path, statusWrite{Status: status}, &updated); err != nil {
		return nil, fmt.Errorf("changing status of meta %d: %w", id, err)
	}
	return &updated, nil
}

// Delete physically removes a goal on the backend. The dashboard
// lifecycle never calls it; soft deletes go through Update.
func (g *Metas) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return invalidArgument("meta id is required for deleting")
	}
	if err := g.client.Delete(ctx, metaPath(id)); err != nil {
		return fmt.Errorf("deleting meta %d: %w", id, err)
	}
	return nil
}

func metaPath(id int64) string {
	return fmt.Sprintf("%s/%d", metasPath, id)
}
