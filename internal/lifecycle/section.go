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

// SectionGateway is the subset of the section gateway the controller uses.
type SectionGateway interface {
	FetchAll(ctx context.Context) ([]model.Section, error)
	Create(ctx context.Context, draft model.Section) (*model.Section, error)
	Update(ctx context.Context, id int64, section model.Section) (*model.Section, error)
}

// SectionForm holds the editable fields of a section.
type SectionForm struct {
	Name        string `form:"name" validate:"notblank"`
	Description string `form:"description" validate:"notblank"`
	UpdateDate  string `form:"updateDate" validate:"notblank,calendardate"`
}

var sectionFields = []string{"name", "description", "updateDate"}

type sectionsLoadedMsg struct {
	sections []model.Section
	err      error
}

type sectionSavedMsg struct {
	action  string
	section *model.Section
	err     error
}

type sectionStatusMsg struct {
	action string
	id     int64
	err    error
}

// SectionController drives the section list and form.
type SectionController struct {
	gw        SectionGateway
	modal     Modal
	journal   Journal
	logger    *slog.Logger
	loc       *time.Location
	validator *Validator

	all          []model.Section
	partition    Partition[model.Section]
	showInactive bool
	loaded       bool

	state     State
	form      *SectionForm
	editing   model.Section
	touched   map[string]bool
	fieldErrs map[string]string

	pending int
	err     error
	notice  string
}

// NewSectionController creates a controller in the Viewing state.
func NewSectionController(gw SectionGateway, opts Options) *SectionController {
	opts = opts.withDefaults()
	return &SectionController{
		gw:        gw,
		modal:     opts.Modal,
		journal:   opts.Journal,
		logger:    opts.Logger.With("entity", model.EntitySection),
		loc:       opts.Location,
		validator: opts.Validator,
		form:      &SectionForm{},
		touched:   make(map[string]bool),
	}
}

// Load fetches the full collection.
func (c *SectionController) Load() tea.Cmd {
	c.pending++
	gw := c.gw
	return func() tea.Msg {
		sections, err := gw.FetchAll(context.Background())
		return sectionsLoadedMsg{sections: sections, err: err}
	}
}

// Update applies the outcome of a previously issued command. Messages
// that do not belong to this controller are ignored.
func (c *SectionController) Update(msg tea.Msg) tea.Cmd {
	switch msg := msg.(type) {
	case sectionsLoadedMsg:
		c.pending--
		if msg.err != nil {
			c.logger.Error("loading sections failed", "error", msg.err)
			c.err = msg.err
			return nil
		}
		c.all = msg.sections
		c.partition = Split(msg.sections)
		c.loaded = true
		c.err = nil
		return nil

	case sectionSavedMsg:
		c.pending--
		if msg.err != nil {
			c.logger.Error("saving section failed", "action", msg.action, "error", msg.err)
			c.err = msg.err
			return nil
		}
		c.logger.Info("section saved", "action", msg.action, "id", msg.section.ID)
		c.err = nil
		c.notice = fmt.Sprintf("Section %q saved", msg.section.Name)
		c.reset()
		c.modal.Hide()
		return tea.Batch(c.Load(), changed(model.EntitySection, msg.action, msg.section.ID))

	case sectionStatusMsg:
		c.pending--
		if msg.err != nil {
			c.logger.Error("changing section status failed", "action", msg.action, "id", msg.id, "error", msg.err)
			c.err = msg.err
			return nil
		}
		c.logger.Info("section status changed", "action", msg.action, "id", msg.id)
		c.err = nil
		if msg.action == model.ActionDelete {
			c.notice = "Section moved to inactive"
		} else {
			c.notice = "Section restored"
		}
		return tea.Batch(c.Load(), changed(model.EntitySection, msg.action, msg.id))
	}
	return nil
}

// StartCreate opens an empty form.
func (c *SectionController) StartCreate() {
	c.reset()
	c.state = Creating
	c.modal.Show()
}

// StartEdit opens the form populated from s.
func (c *SectionController) StartEdit(s model.Section) {
	c.reset()
	c.state = Editing
	c.editing = s
	*c.form = SectionForm{
		Name:        s.Name,
		Description: s.Description,
		UpdateDate:  s.UpdateDate.String(),
	}
	c.modal.Show()
}

// Cancel discards the form without contacting the backend.
func (c *SectionController) Cancel() {
	c.reset()
	c.modal.Hide()
}

func (c *SectionController) reset() {
	c.state = Viewing
	*c.form = SectionForm{}
	c.editing = model.Section{}
	c.touched = make(map[string]bool)
	c.fieldErrs = nil
}

// SetForm replaces the form contents.
func (c *SectionController) SetForm(f SectionForm) { *c.form = f }

// Submit validates the form and sends a create or update. When the
// form is invalid every field is marked touched and no command is
// returned.
func (c *SectionController) Submit() tea.Cmd {
	if c.state == Viewing {
		return nil
	}

	if err := c.validator.Check(c.form); err != nil {
		for _, f := range sectionFields {
			c.touched[f] = true
		}
		c.fieldErrs = fieldErrors(err)
		return nil
	}
	c.fieldErrs = nil

	date, err := model.NormalizeDate(c.form.UpdateDate, c.loc)
	if err != nil {
		c.touched["updateDate"] = true
		c.fieldErrs = map[string]string{"updateDate": err.Error()}
		return nil
	}

	section := model.Section{
		Name:        strings.TrimSpace(c.form.Name),
		Description: strings.TrimSpace(c.form.Description),
		UpdateDate:  date,
		Status:      model.StatusActive,
	}

	gw, j, logger := c.gw, c.journal, c.logger
	c.pending++

	if c.state == Creating {
		return func() tea.Msg {
			created, err := gw.Create(context.Background(), section)
			var id int64
			if created != nil {
				id = created.ID
			}
			record(j, logger, activity(model.EntitySection, model.ActionCreate, id, section.Name, err))
			return sectionSavedMsg{action: model.ActionCreate, section: created, err: err}
		}
	}

	id := c.editing.ID
	section.ID = id
	section.Status = c.editing.Status
	return func() tea.Msg {
		updated, err := gw.Update(context.Background(), id, section)
		record(j, logger, activity(model.EntitySection, model.ActionUpdate, id, section.Name, err))
		return sectionSavedMsg{action: model.ActionUpdate, section: updated, err: err}
	}
}

// Delete soft-deletes s by sending it back as Inactive. A record that
// is already inactive is left alone.
func (c *SectionController) Delete(s model.Section) tea.Cmd {
	if !s.Status.IsActive() {
		return nil
	}
	return c.setStatus(s, model.StatusInactive, model.ActionDelete)
}

// Restore sends an inactive s back as Active. Restoring an active
// record issues no call.
func (c *SectionController) Restore(s model.Section) tea.Cmd {
	if s.Status.IsActive() {
		return nil
	}
	return c.setStatus(s, model.StatusActive, model.ActionRestore)
}

func (c *SectionController) setStatus(s model.Section, st model.Status, action string) tea.Cmd {
	gw, j, logger := c.gw, c.journal, c.logger
	next := s.WithStatus(st)
	c.pending++
	return func() tea.Msg {
		_, err := gw.Update(context.Background(), next.ID, next)
		record(j, logger, activity(model.EntitySection, action, next.ID, next.Name, err))
		return sectionStatusMsg{action: action, id: next.ID, err: err}
	}
}

// ToggleInactive flips which partition Visible returns.
func (c *SectionController) ToggleInactive() { c.showInactive = !c.showInactive }

// ShowingInactive reports whether Visible returns the inactive list.
func (c *SectionController) ShowingInactive() bool { return c.showInactive }

func (c *SectionController) All() []model.Section      { return c.all }
func (c *SectionController) Active() []model.Section   { return c.partition.Active() }
func (c *SectionController) Inactive() []model.Section { return c.partition.Inactive() }

// Visible returns the partition currently on display.
func (c *SectionController) Visible() []model.Section {
	if c.showInactive {
		return c.partition.Inactive()
	}
	return c.partition.Active()
}

// Find returns the loaded section with the given id.
func (c *SectionController) Find(id int64) (model.Section, bool) {
	return c.partition.Find(id)
}

func (c *SectionController) State() State       { return c.state }
func (c *SectionController) Form() *SectionForm { return c.form }

// Editing returns the record loaded into the form, if any.
func (c *SectionController) Editing() model.Section { return c.editing }

// Touched reports whether field should show its validation message.
func (c *SectionController) Touched(field string) bool { return c.touched[field] }

// FieldError returns the message for field once it has been touched.
func (c *SectionController) FieldError(field string) string {
	if !c.touched[field] {
		return ""
	}
	return c.fieldErrs[field]
}

// FieldErrors returns every failing field from the last submit.
func (c *SectionController) FieldErrors() map[string]string { return c.fieldErrs }

// Loaded reports whether at least one load has succeeded.
func (c *SectionController) Loaded() bool { return c.loaded }

// Pending reports whether a request is still outstanding.
func (c *SectionController) Pending() bool { return c.pending > 0 }

// Err returns the last gateway failure, cleared by the next success.
func (c *SectionController) Err() error { return c.err }

// Notice returns the last success message.
func (c *SectionController) Notice() string { return c.notice }
