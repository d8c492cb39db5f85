package metaview

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
	{Title: "Name", Width: 20},
	{Title: "Objective", Width: 24},
	{Title: "Section", Width: 18},
	{Title: "Deadline", Width: 13},
	{Title: "Started", Width: 13},
	{Title: "Status", Width: 9},
}

// Model is the metas page.
type Model struct {
	ctrl        *lifecycle.MetaController
	modal       *ui.Modal
	keys        *keys.KeyMap
	dates       *format.DateFormatter
	table       table.Model
	form        *huh.Form
	lastSection int64
	width       int
	height      int
}

// New creates the metas page. modal must be the handle ctrl was built
// with.
func New(ctrl *lifecycle.MetaController, modal *ui.Modal, k *keys.KeyMap, dates *format.DateFormatter, width, height int) Model {
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

// Init loads metas and the sections they can point at.
func (m Model) Init() tea.Cmd {
	return m.ctrl.Load()
}

// Reload re-fetches metas and sections.
func (m Model) Reload() tea.Cmd {
	return m.ctrl.Load()
}

// ChangeStatus sets one meta's status through the status endpoint.
func (m Model) ChangeStatus(id int64, st model.Status) tea.Cmd {
	return m.ctrl.ChangeStatus(id, st)
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
		return m.openForm()

	case key.Matches(msg, m.keys.Edit):
		meta, ok := m.selected()
		if !ok {
			return m, nil
		}
		m.ctrl.StartEdit(meta)
		return m.openForm()

	case key.Matches(msg, m.keys.Delete):
		meta, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.ctrl.Delete(meta)

	case key.Matches(msg, m.keys.Restore):
		meta, ok := m.selected()
		if !ok {
			return m, nil
		}
		return m, m.ctrl.Restore(meta)

	case key.Matches(msg, m.keys.ToggleInactive):
		return m.ToggleInactive(), nil

	case key.Matches(msg, m.keys.Reload):
		return m, m.ctrl.Load()
	}

	var cmd tea.Cmd
	m.table, cmd = m.table.Update(msg)
	return m, cmd
}

func (m Model) openForm() (Model, tea.Cmd) {
	m.lastSection = m.ctrl.Form().SectionID
	m.form = m.buildForm()
	return m, m.form.Init()
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

	if id := m.ctrl.Form().SectionID; id != m.lastSection {
		m.lastSection = id
		m.ctrl.SelectSection(id)
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
				Placeholder("Goal name").
				Value(&f.Name),
			huh.NewInput().
				Title("Description").
				Value(&f.Description),
			huh.NewSelect[int64]().
				Title("Section").
				Options(m.sectionOptions()...).
				Value(&f.SectionID),
			huh.NewInput().
				Title("Objective").
				Value(&f.Objective),
			huh.NewInput().
				Title("Deadline").
				Placeholder("YYYY-MM-DD").
				Value(&f.Time),
		),
	).WithWidth(ui.FormWidth(m.width)).WithHeight(ui.FormHeight(m.height)).WithShowHelp(false)
}

// sectionOptions offers the active sections, plus the one the edited
// goal already points at even if it has been deactivated since.
func (m Model) sectionOptions() []huh.Option[int64] {
	opts := []huh.Option[int64]{huh.NewOption("(choose a section)", int64(0))}
	current := m.ctrl.Form().SectionID
	for _, s := range m.ctrl.Sections() {
		if !s.Status.IsActive() && s.ID != current {
			continue
		}
		label := s.Name
		if !s.Status.IsActive() {
			label += " (inactive)"
		}
		opts = append(opts, huh.NewOption(label, s.ID))
	}
	return opts
}

func (m *Model) refreshRows() {
	visible := m.ctrl.Visible()
	rows := make([]table.Row, 0, len(visible))
	for _, meta := range visible {
		section := meta.SectionDescription
		if section == "" && meta.Section != nil {
			section = meta.Section.Name
		}
		rows = append(rows, table.Row{
			fmt.Sprint(meta.ID),
			meta.Name,
			meta.Objective,
			section,
			m.dates.Format(meta.Time),
			m.dates.Format(meta.InitializationDate),
			meta.Status.Label(),
		})
	}
	m.table.SetRows(rows)
	ui.ClampCursor(&m.table, len(rows))
}

func (m Model) selected() (model.Meta, bool) {
	visible := m.ctrl.Visible()
	i := m.table.Cursor()
	if i < 0 || i >= len(visible) {
		return model.Meta{}, false
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

	title := "Metas"
	if m.ctrl.ShowingInactive() {
		title += " (inactive)"
	}
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString(theme.HelpStyle.Render(fmt.Sprintf("  %d active, %d inactive",
		len(m.ctrl.Active()), len(m.ctrl.Inactive()))))
	b.WriteString("\n\n")

	if len(m.ctrl.Visible()) == 0 {
		empty := "No active metas. Press 'n' to create one."
		if m.ctrl.ShowingInactive() {
			empty = "No inactive metas."
		}
		if !m.ctrl.Loaded() {
			empty = "Loading..."
		}
		b.WriteString(theme.HelpStyle.Render(empty))
	} else {
		b.WriteString(m.table.View())
	}

	b.WriteString("\n")
	switch {
	case m.ctrl.Pending():
		b.WriteString(theme.HelpStyle.Render("working..."))
	case m.ctrl.Err() != nil:
		b.WriteString(theme.ErrorStyle.Render("Error: " + m.ctrl.Err().Error()))
	case m.ctrl.Notice() != "":
		b.WriteString(theme.NoticeStyle.Render(m.ctrl.Notice()))
	}

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func (m Model) viewForm() string {
	var b strings.Builder

	title := "New meta"
	if m.ctrl.State() == lifecycle.Editing {
		title = fmt.Sprintf("Edit meta #%d", m.ctrl.Editing().ID)
	}
	b.WriteString(theme.TitleStyle.Render(title))
	b.WriteString("\n\n")
	b.WriteString(m.form.View())

	if desc := m.ctrl.SelectedSectionDescription(); desc != "" {
		b.WriteString("\n")
		b.WriteString(theme.HelpStyle.Render("Section: " + desc))
	}

	for _, field := range []string{"name", "description", "sectionId", "objective", "time"} {
		if msg := m.ctrl.FieldError(field); msg != "" {
			b.WriteString("\n")
			b.WriteString(theme.ErrorStyle.Render("• " + msg))
		}
	}

	if m.ctrl.Pending() {
		b.WriteString("\n")
		b.WriteString(theme.HelpStyle.Render("working..."))
	} else if err := m.ctrl.Err(); err != nil {
		b.WriteString("\n")
		b.WriteString(theme.ErrorStyle.Render("Error: " + err.Error()))
	}

	return theme.PanelStyle.Width(ui.FormWidth(m.width)).Render(b.String())
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
