package lifecycle

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/nphdash/internal/model"
)

// MetaGateway is the subset of the meta gateway the controller uses.
type MetaGateway interface {
	FetchAll(ctx context.Context) ([]model.Meta, error)
	Create(ctx context.Context, draft model.Meta) (*model.Meta, error)
	Update(ctx context.Context, meta model.Meta) (*model.Meta, error)
	UpdateStatus(ctx context.Context, id int64, status model.Status) (*model.Meta, error)
}

// SectionSource supplies the sections a goal can be attached to.
type SectionSource interface {
	FetchAll(ctx context.Context) ([]model.Section, error)
}

// MetaForm holds the editable fields of a goal.
type MetaForm struct {
	Name        string `form:"name" validate:"notblank"`
	Description string `form:"description" validate:"notblank"`
	SectionID   int64  `form:"sectionId" validate:"required"`
	Objective   string `form:"objective" validate:"notblank"`
	Time        string `form:"time" validate:"notblank,calendardate"`
}

var metaFields = []string{"name", "description", "sectionId", "objective", "time"}

type metasLoadedMsg struct {
	metas []model.Meta
	err   error
}

type metaSectionsLoadedMsg struct {
	sections []model.Section
	err      error
}

type metaSavedMsg struct {
	action string
	meta   *model.Meta
	err    error
}

type metaStatusMsg struct {
	action string
	id     int64
	err    error
}

// MetaController drives the goal list and form.
type MetaController struct {
	gw        MetaGateway
	sectionGW SectionSource
	modal     Modal
	journal   Journal
	logger    *slog.Logger
	loc       *time.Location
	validator *Validator

	all          []model.Meta
	partition    Partition[model.Meta]
	sections     []model.Section
	showInactive bool
	loaded       bool

	state               State
	form                *MetaForm
	editing             model.Meta
	selectedDescription string
	touched             map[string]bool
	fieldErrs           map[string]string

	pending int
	err     error
	notice  string
}

// NewMetaController creates a controller in the Viewing state.
func NewMetaController(gw MetaGateway, sections SectionSource, opts Options) *MetaController {
	opts = opts.withDefaults()
	return &MetaController{
		gw:        gw,
		sectionGW: sections,
		modal:     opts.Modal,
		journal:   opts.Journal,
		logger:    opts.Logger.With("entity", model.EntityMeta),
		loc:       opts.Location,
		validator: opts.Validator,
		form:      &MetaForm{},
		touched:   make(map[string]bool),
	}
}

// Load fetches all goals and the sections used by the form.
func (c *MetaController) Load() tea.Cmd {
	return tea.Batch(c.LoadMetas(), c.LoadSections())
}

// LoadMetas fetches the full goal collection.
func (c *MetaController) LoadMetas() tea.Cmd {
	c.pending++
	gw := c.gw
	return func() tea.Msg {
		metas, err := gw.FetchAll(context.Background())
		return metasLoadedMsg{metas: metas, err: err}
	}
}

// LoadSections refreshes the section list used for lookups.
func (c *MetaController) LoadSections() tea.Cmd {
	c.pending++
	gw := c.sectionGW
	return func() tea.Msg {
		sections, err := gw.FetchAll(context.Background())
		return metaSectionsLoadedMsg{sections: sections, err: err}
	}
}

// Update applies the outcome of a previously issued command.
func (c *MetaController) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case metasLoadedMsg:
		c.pending--
		if msg.err != nil {
			c.logger.Error("loading metas failed", "error", msg.err)
			c.err = msg.err
			return nil
		}
		c.all = msg.metas
		c.partition = Split(msg.metas)
		c.loaded = true
		c.err = nil
		return nil

	case metaSectionsLoadedMsg:
		c.pending--
		if msg.err != nil {
			c.logger.Error("loading sections for metas failed", "error", msg.err)
			c.err = msg.err
			return nil
		}
		c.sections = msg.sections
		c.err = nil
		return nil

	case ChangedMsg:
		// The section select and description lookup read this list.
		if msg.Entity == model.EntitySection {
			return c.LoadSections()
		}
		return nil

	case metaSavedMsg:
		c.pending--
		if msg.err != nil {
			c.logger.Error("saving meta failed", "action", msg.action, "error", msg.err)
			c.err = msg.err
			return nil
		}
		c.logger.Info("meta saved", "action", msg.action, "id", msg.meta.ID)
		c.err = nil
		c.notice = fmt.Sprintf("Meta %q saved", msg.meta.Name)
		c.reset()
		c.modal.Hide()
		return tea.Batch(c.LoadMetas(), changed(model.EntityMeta, msg.action, msg.meta.ID))

	case metaStatusMsg:
		c.pending--
		if msg.err != nil {
			c.logger.Error("changing meta status failed", "action", msg.action, "id", msg.id, "error", msg.err)
			c.err = msg.err
			return nil
		}
		c.logger.Info("meta status changed", "action", msg.action, "id", msg.id)
		c.err = nil
		switch msg.action {
		case model.ActionDelete:
			c.notice = "Meta moved to inactive"
		case model.ActionRestore:
			c.notice = "Meta restored"
		default:
			c.notice = fmt.Sprintf("Meta %d status updated", msg.id)
		}
		return tea.Batch(c.LoadMetas(), changed(model.EntityMeta, msg.action, msg.id))
	}
	return nil
}

// StartCreate opens an empty form.
func (c *MetaController) StartCreate() {
	c.reset()
	c.state = Creating
	c.modal.Show()
}

// StartEdit opens the form populated from m.
func (c *MetaController) StartEdit(m model.Meta) {
	c.reset()
	c.state = Editing
	c.editing = m
	*c.form = MetaForm{
		Name:        m.Name,
		Description: m.Description,
		SectionID:   m.SectionID(),
		Objective:   m.Objective,
		Time:        m.Time.String(),
	}
	c.selectedDescription = m.SectionDescription
	if c.selectedDescription == "" && m.Section != nil {
		c.selectedDescription = m.Section.Description
	}
	c.modal.Show()
}

// Cancel discards the form without contacting the backend.
func (c *MetaController) Cancel() {
	c.reset()
	c.modal.Hide()
}

func (c *MetaController) reset() {
	c.state = Viewing
	*c.form = MetaForm{}
	c.editing = model.Meta{}
	c.selectedDescription = ""
	c.touched = make(map[string]bool)
	c.fieldErrs = nil
}

// SetForm replaces the form contents and refreshes the section lookup.
func (c *MetaController) SetForm(f MetaForm) {
	*c.form = f
	c.SelectSection(f.SectionID)
}

// SelectSection points the form at section id and shows its description
// from the already loaded sections. Unknown ids clear the description.
func (c *MetaController) SelectSection(id int64) {
	c.form.SectionID = id
	c.selectedDescription = ""
	if s, ok := c.section(id); ok {
		c.selectedDescription = s.Description
	}
}

func (c *MetaController) section(id int64) (model.Section, bool) {
	for _, s := range c.sections {
		if s.ID == id {
			return s, true
		}
	}
	return model.Section{}, false
}

// SelectedSectionDescription is the description of the section picked
// in the form.
func (c *MetaController) SelectedSectionDescription() string { return c.selectedDescription }

// Submit validates the form and sends a create or update. An update
// keeps the status the goal had when it was opened.
func (c *MetaController) Submit() tea.Cmd {
	if c.state == Viewing {
		return nil
	}

	if err := c.validator.Check(c.form); err != nil {
		for _, f := range metaFields {
			c.touched[f] = true
		}
		c.fieldErrs = fieldErrors(err)
		return nil
	}
	c.fieldErrs = nil

	deadline, err := model.NormalizeDate(c.form.Time, c.loc)
	if err != nil {
		c.touched["time"] = true
		c.fieldErrs = map[string]string{"time": err.Error()}
		return nil
	}

	ref := &model.Section{ID: c.form.SectionID}
	description := c.selectedDescription
	if s, ok := c.section(c.form.SectionID); ok {
		ref = &s
		description = s.Description
	}

	meta := model.Meta{
		Name:               strings.TrimSpace(c.form.Name),
		Description:        strings.TrimSpace(c.form.Description),
		Objective:          strings.TrimSpace(c.form.Objective),
		Time:               deadline,
		Status:             model.StatusActive,
		Section:            ref,
		SectionDescription: description,
	}

	gw, j, logger := c.gw, c.journal, c.logger
	c.pending++

	if c.state == Creating {
		return func() tea.Msg {
			created, err := gw.Create(context.Background(), meta)
			var id int64
			if created != nil {
				id = created.ID
			}
			record(j, logger, activity(model.EntityMeta, model.ActionCreate, id, meta.Name, err))
			return metaSavedMsg{action: model.ActionCreate, meta: created, err: err}
		}
	}

	meta.ID = c.editing.ID
	meta.InitializationDate = c.editing.InitializationDate
	meta.Status = c.editing.Status
	return func() tea.Msg {
		updated, err := gw.Update(context.Background(), meta)
		record(j, logger, activity(model.EntityMeta, model.ActionUpdate, meta.ID, meta.Name, err))
		return metaSavedMsg{action: model.ActionUpdate, meta: updated, err: err}
	}
}

// Delete soft-deletes m by sending it back as Inactive. A goal that is
// already inactive is left alone.
func (c *MetaController) Delete(m model.Meta) tea.Cmd {
	if !m.Status.IsActive() {
		return nil
	}
	return c.setStatus(m, model.StatusInactive, model.ActionDelete)
}

// Restore sends an inactive m back as Active. Restoring an active goal
// issues no call.
func (c *MetaController) Restore(m model.Meta) tea.Cmd {
	if m.Status.IsActive() {
		return nil
	}
	return c.setStatus(m, model.StatusActive, model.ActionRestore)
}

func (c *MetaController) setStatus(m model.Meta, st model.Status, action string) tea.Cmd {
	gw, j, logger := c.gw, c.journal, c.logger
	next := m.WithStatus(st)
	c.pending++
	return func() tea.Msg {
		_, err := gw.Update(context.Background(), next)
		record(j, logger, activity(model.EntityMeta, action, next.ID, next.Name, err))
		return metaStatusMsg{action: action, id: next.ID, err: err}
	}
}

// ChangeStatus sets the status of goal id through the dedicated status
// endpoint. Unknown ids are still sent; the backend decides.
func (c *MetaController) ChangeStatus(id int64, st model.Status) tea.Cmd {
	gw, j, logger := c.gw, c.journal, c.logger
	name := ""
	if m, ok := c.partition.Find(id); ok {
		name = m.Name
	}
	c.pending++
	return func() tea.Msg {
		_, err := gw.UpdateStatus(context.Background(), id, st)
		record(j, logger, activity(model.EntityMeta, model.ActionStatus, id, name, err))
		return metaStatusMsg{action: model.ActionStatus, id: id, err: err}
	}
}

// ToggleInactive flips which partition Visible returns.
func (c *MetaController) ToggleInactive() { c.showInactive = !c.showInactive }

// ShowingInactive reports whether Visible returns the inactive list.
func (c *MetaController) ShowingInactive() bool { return c.showInactive }

func (c *MetaController) All() []model.Meta      { return c.all }
func (c *MetaController) Active() []model.Meta   { return c.partition.Active() }
func (c *MetaController) Inactive() []model.Meta { return c.partition.Inactive() }

// Visible returns the partition currently on display.
func (c *MetaController) Visible() []model.Meta {
	if c.showInactive {
		return c.partition.Inactive()
	}
	return c.partition.Active()
}

// Sections returns the sections loaded for the form.
func (c *MetaController) Sections() []model.Section { return c.sections }

func (c *MetaController) State() State    { return c.state }
func (c *MetaController) Form() *MetaForm { return c.form }

// Editing returns the goal loaded into the form, if any.
func (c *MetaController) Editing() model.Meta { return c.editing }

// Touched reports whether field should show its validation message.
func (c *MetaController) Touched(field string) bool { return c.touched[field] }

// FieldError returns the message for field once it has been touched.
func (c *MetaController) FieldError(field string) string {
	if !c.touched[field] {
		return ""
	}
	return c.fieldErrs[field]
}

// FieldErrors returns every failing field from the last submit.
func (c *MetaController) FieldErrors() map[string]string { return c.fieldErrs }

// Loaded reports whether at least one goal load has succeeded.
func (c *MetaController) Loaded() bool { return c.loaded }

// Pending reports whether a request is still outstanding.
func (c *MetaController) Pending() bool { return c.pending > 0 }

// Err returns the last gateway failure, cleared by the next success.
func (c *MetaController) Err() error { return c.err }

// Notice returns the last success message.
func (c *MetaController) Notice() string { return c.notice }
