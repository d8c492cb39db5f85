package sectionview

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/table"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/nphdash/internal/format"
	"github.com/nhle/nphdash/internal/keys"
	"github.com/nhle/nphdash/internal/lifecycle"
	"github.com/nhle/nphdash/internal/model"
	"github.com/nhle/nphdash/internal/theme"
	"github.com/nhle/nphdash/internal/ui"
)

var columns = []table.Column{
	{Title: "ID", Width: 6},
	{Title: "Name", Width: 22},
	{Title: "Description", Width: 34},
	{Title: "Updated", Width: 13},
	{Title: "Status", Width: 9},
}

// Model is the sections page: a table of the visible partition and a
// huh form shown while the controller's modal is open.
type Model struct {
	ctrl   *lifecycle.SectionController
	modal  *ui.Modal
	keys   *keys.KeyMap
	dates  *format.DateFormatter
	table  table.Model
	form   *huh.Form
	width  int
	height int
}

// New creates the sections page. modal must be the handle ctrl was
// built with.
func New(ctrl *lifecycle.SectionController, modal *ui.Modal, k *keys.KeyMap, dates *format.DateFormatter, width, height int) Model {
	return Model{
		ctrl:   ctrl,
		modal:  modal,
		keys:   k,
		dates:  dates,
		table:  ui.NewTable(columns, ui.TableHeight(height)),
		width:  width,
		height: height,
	}
}

// Init loads the sections.
func (m Model) Init() tea.Cmd {
	return m.ctrl.Load()
}

// Reload re-fetches the sections.
func (m Model) Reload() tea.Cmd {
	return m.ctrl.Load()
}

// ToggleInactive switches between the active and inactive lists.
func (m Model) ToggleInactive() Model {
	m.ctrl.ToggleInactive()
	m.table.SetCursor(0)
	m.refreshRows()
	return m
}

// InputActive reports whether the page is consuming raw keystrokes.
func (m Model) InputActive() bool {
	return m.modal.Open()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		if m.modal.Open() {
			return m.updateForm(msg)
		}
		return m.handleListKey(msg)
	}

	ctrlCmd := m.ctrl.Update(msg)
	m.refreshRows()
	m, formCmd := m.updateForm(msg)

	return m, tea.Batch(ctrlCmd, formCmd)
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return ui.BackMsg{} }

	case key.Matches(msg, m.keys.New):
		m.ctrl.StartCreate()
		m.form = m.buildForm()
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Edit):
		s, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.ctrl.StartEdit(s)
		m.form = m.buildForm()
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Delete):
		s, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.ctrl.Delete(s)

	case key.Matches(msg, m.keys.Restore):
		s, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.ctrl.Restore(s)

	case key.Matches(msg, m.keys.ToggleInactive):
		return m.ToggleInactive(), nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.ctrl.Load()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

// updateForm drives the open form. huh completes a form while handling
// its own follow-up messages, so every message is checked, not only keys.
func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	switch {
	case !m.modal.Open():
		m.form = nil
		return m, nil
	case m.form == nil:
		return m, nil
	case m.form.State != huh.StateNormal:
		if m.ctrl.Pending() {
			// Waiting for the backend.
			return m, nil
		}
		// The save failed: hand the form back with what was typed.
		m.form = m.buildForm()
		return m, m.form.Init()
	}

	if k, ok := msg.(tea.KeyMsg); ok && key.Matches(k, m.keys.Back) {
		m.ctrl.Cancel()
		m.form = nil
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	return m.settle(cmd)
}

// settle submits a completed form and closes an aborted one.
func (m Model) settle(cmd tea.Cmd) (Model, tea.Cmd) {
	switch m.form.State {
	case huh.StateCompleted:
		submit := m.ctrl.Submit()
		if submit == nil {
			// Invalid: rebuild so the user can correct the fields.
			m.form = m.buildForm()
			return m, m.form.Init()
		}
		return m, submit
	case huh.StateAborted:
		m.ctrl.Cancel()
		m.form = nil
		return m, nil
	}
	return m, cmd
}

func (m Model) buildForm() *huh.Form {
	f := m.ctrl.Form()
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Name").
				Placeholder("Section name").
				Value(&f.Name),
			huh.NewInput().
				Title("Description").
				Placeholder("What the section covers").
				Value(&f.Description),
			huh.NewInput().
				Title("Update date").
				Placeholder("YYYY-MM-DD").
				Value(&f.UpdateDate),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height)).WithShowHelp(false)
}

func (m *Model) refreshRows() {
	visible := m.ctrl.Visible()
	rows := make([]table.Row, 0, len(visible))
	for _, s := range visible {
		rows = append(rows, table.Row{
			fmt.Sprint(s.ID),
			s.Name,
			s.Description,
			m.dates.Format(s.UpdateDate),
			s.Status.Label(),
		})
	}
	m.table.SetRows(rows)
	ui.ClampCursor(&m.table, len(rows))
}

func (m Model) selected() (model.Section, bool) {
	visible := m.ctrl.Visible()
	i := m.table.Cursor()
	if i < 0 || i >= len(visible) {
		return model.Section{}, false
	}
	return visible[i], true
}

// View renders the page.
func (m Model) View() string {
	if m.modal.Open() && m.form != nil {
		return m.viewForm()
	}
	return m.viewList()
}

func (m Model) viewList() string {
	var b strings.Builder

	title := "Sections"
	if m.ctrl.ShowingInactive() {
		title += " (inactive)"
	}
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString(theme.HelpStyle.Render(fmt.Sprintf("  %d active, %d inactive",
		len(m.ctrl.Active()), len(m.ctrl.Inactive()))))
	b.WriteString("\n\n")

	if len(m.ctrl.Visible()) == 0 {
		empty := "No active sections. Press 'n' to create one."
		if m.ctrl.ShowingInactive() {
			empty = "No inactive sections."
		}
		if !m.ctrl.Loaded() {
			empty = "Loading..."
		}
		b.WriteString(theme.HelpStyle.Render(empty))
	} else {
		b.WriteString(m.table.View())
	}

	b.WriteString("\n")
	b.WriteString(statusLine(m.ctrl.Err(), m.ctrl.Notice(), m.ctrl.Pending()))

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) viewForm() string {
	var b strings.Builder

	title := "New section"
	if m.ctrl.State() == lifecycle.Editing {
		title = fmt.Sprintf("Edit section #%d", m.ctrl.Editing().ID)
	}
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.form.View())

	for _, field := range []string{"name", "description", "updateDate"} {
		if msg := m.ctrl.FieldError(field); msg != "" {
			b.WriteString("\n")
			b.WriteString(theme.ErrorStyle.Render("• " + msg))
		}
	}

	b.WriteString("\n")
	b.WriteString(statusLine(m.ctrl.Err(), "", m.ctrl.Pending()))

	return theme.PanelStyle.Width(ui.FormWidth(m.width)).Render(b.String())
}

func statusLine(err error, notice string, pending bool) string {
	switch {
	case pending:
		return theme.HelpStyle.Render("working...")
	case err != nil:
		return theme.ErrorStyle.Render("Error: " + err.Error())
	case notice != "":
		return theme.NoticeStyle.Render(notice)
	}
	return ""
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.table.SetHeight(ui.TableHeight(height))
	m.table.SetWidth(width - 4)
	if m.form != nil {
		m.form = m.form.WithWidth(ui.FormWidth(width)).WithHeight(ui.FormHeight(height))
	}
}
