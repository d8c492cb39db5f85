package gateway

import (
	"context"
	"fmt"

	"github.com/nhle/nphdash/internal/model"
)

const sectionsPath = "/sections"

// Sections is the gateway for the /sections resource.
type Sections struct {
	client *Client
}

// NewSections creates a Section gateway on top of c.
func NewSections(c *Client) *Sections {
	return &Sections{client: c}
}

// FetchAll returns every section regardless of status.
func (g *Sections) FetchAll(ctx context.Context) ([]model.Section, error) {
	var sections []model.Section
	if err := g.client.Get(ctx, sectionsPath, &sections); err != nil {
		return nil, fmt.Errorf("fetching sections: %w", err)
	}
	return sections, nil
}

// FetchByID returns a single section.
func (g *Sections) FetchByID(ctx context.Context, id int64) (*model.Section, error) {
	if id == 0 {
		return nil, invalidArgument("section id is required")
	}
	var section model.Section
	if err := g.client.Get(ctx, sectionPath(id), &section); err != nil {
		return nil, fmt.Errorf("fetching section %d: %w", id, err)
	}
	return &section, nil
}

// Create posts a new section. The id is assigned by the backend and the
// status is always Active, whatever the draft carries.
func (g *Sections) Create(ctx context.Context, draft model.Section) (*model.Section, error) {
	draft.ID = 0
	draft.Status = model.StatusActive

	created := draft
	if err := g.client.Post(ctx, sectionsPath, draft, &created); err != nil {
		return nil, fmt.Errorf("creating section %q: %w", draft.Name, err)
	}
	return &created, nil
}

// Update replaces the section identified by id.
func (g *Sections) Update(ctx context.Context, id int64, section model.Section) (*model.Section, error) {
	if id == 0 {
		return nil, invalidArgument("section id is required for updating")
	}
	section.ID = id

	updated := section
	if err := g.client.Put(ctx, sectionPath(id), section, &updated); err != nil {
		return nil, fmt.Errorf("updating section %d: %w", id, err)
	}
	return &updated, nil
}

// Delete physically removes a section on the backend. The dashboard
// lifecycle never calls it; soft deletes go through Update.
func (g *Sections) Delete(ctx context.Context, id int64) error {
	if id == 0 {
		return invalidArgument("section id is required for deleting")
	}
	if err := g.client.Delete(ctx, sectionPath(id)); err != nil {
		return fmt.Errorf("deleting section %d: %w", id, err)
	}
	return nil
}

func sectionPath(id int64) string {
	return fmt.Sprintf("%s/%d", sectionsPath, id)
}
