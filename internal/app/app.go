package app

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/nphdash/internal/format"
	"github.com/nhle/nphdash/internal/gateway"
	"github.com/nhle/nphdash/internal/keys"
	"github.com/nhle/nphdash/internal/lifecycle"
	"github.com/nhle/nphdash/internal/store"
	"github.com/nhle/nphdash/internal/ui"
	"github.com/nhle/nphdash/internal/ui/command"
	"github.com/nhle/nphdash/internal/ui/dashboard"
	helpview "github.com/nhle/nphdash/internal/ui/help"
	"github.com/nhle/nphdash/internal/ui/metaview"
	"github.com/nhle/nphdash/internal/ui/sectionview"
)

// Page is the view currently filling the content area.
type Page int

const (
	PageHome Page = iota
	PageSections
	PageMetas
	PageHelp
	PageCommand
)

func (p Page) String() string {
	switch p {
	case PageSections:
		return "sections"
	case PageMetas:
		return "metas"
	case PageHelp:
		return "help"
	case PageCommand:
		return "command"
	default:
		return "home"
	}
}

// Deps are the collaborators the root model is wired with.
type Deps struct {
	Sections *gateway.Sections
	Metas    *gateway.Metas

	// Journal records mutations; nil disables the activity panel.
	Journal store.Store

	Dates    *format.DateFormatter
	Logger   *slog.Logger
	Location *time.Location
	BaseURL  string
}

// Model is the root Bubble Tea model that routes between pages.
type Model struct {
	page         Page
	previousPage Page
	layout       ui.Layout
	keys         *keys.KeyMap
	logger       *slog.Logger

	sectionCtrl *lifecycle.SectionController
	metaCtrl    *lifecycle.MetaController

	home        dashboard.Model
	sections    sectionview.Model
	metas       metaview.Model
	helpView    helpview.Model
	commandView command.Model

	ready bool
}

// New creates the root model.
func New(d Deps) Model {
	k := keys.DefaultKeyMap()
	logger := d.Logger
	if logger == nil {
		logger = slog.New(slog.DiscardHandler)
	}

	var journal lifecycle.Journal
	if d.Journal != nil {
		journal = d.Journal
	}

	validator := lifecycle.NewValidator()
	sectionModal := ui.NewModal()
	metaModal := ui.NewModal()

	sectionCtrl := lifecycle.NewSectionController(d.Sections, lifecycle.Options{
		Modal:     sectionModal,
		Journal:   journal,
		Logger:    logger,
		Location:  d.Location,
		Validator: validator,
	})
	metaCtrl := lifecycle.NewMetaController(d.Metas, d.Sections, lifecycle.Options{
		Modal:     metaModal,
		Journal:   journal,
		Logger:    logger,
		Location:  d.Location,
		Validator: validator,
	})

	counts := func() (dashboard.Counts, dashboard.Counts) {
		return dashboard.Counts{
				Active:   len(sectionCtrl.Active()),
				Inactive: len(sectionCtrl.Inactive()),
				Loaded:   sectionCtrl.Loaded(),
			}, dashboard.Counts{
				Active:   len(metaCtrl.Active()),
				Inactive: len(metaCtrl.Inactive()),
				Loaded:   metaCtrl.Loaded(),
			}
	}

	return Model{
		page:        PageHome,
		keys:        k,
		logger:      logger,
		sectionCtrl: sectionCtrl,
		metaCtrl:    metaCtrl,
		home:        dashboard.New(counts, d.Journal, d.BaseURL, 80, 24),
		sections:    sectionview.New(sectionCtrl, sectionModal, k, d.Dates, 80, 24),
		metas:       metaview.New(metaCtrl, metaModal, k, d.Dates, 80, 24),
		helpView:    helpview.New(k, 80, 24),
		commandView: command.New(80, 24),
	}
}

// Init loads both entities and the activity journal.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.sections.Init(),
		m.metas.Init(),
		m.home.Init(),
	)
}

// Update handles messages and dispatches to the pages.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.home.SetSize(w, h)
		m.sections.SetSize(w, h)
		m.metas.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.commandView.SetSize(w, h)
		return m.broadcast(msg)

	case ui.BackMsg:
		m.switchTo(PageHome)
		return m, nil

	case command.CommandMsg:
		m.page = m.previousPage
		return m, m.executeCommand(command.Command(msg))

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	return m.broadcast(msg)
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "ctrl+c" {
		return m, tea.Quit
	}

	// Pages with a focused input get every other key.
	if m.inputActive() {
		if m.page == PageCommand && key.Matches(msg, m.keys.Back) {
			m.page = m.previousPage
			return m, nil
		}
		return m.updateActivePage(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit

	case key.Matches(msg, m.keys.Help):
		if m.page == PageHelp {
			m.page = m.previousPage
			return m, nil
		}
		m.previousPage = m.page
		m.page = PageHelp
		return m, nil

	case key.Matches(msg, m.keys.Command):
		m.previousPage = m.page
		m.page = PageCommand
		return m, m.commandView.Focus()

	case key.Matches(msg, m.keys.Home):
		m.switchTo(PageHome)
		return m, nil

	case key.Matches(msg, m.keys.Sections):
		m.switchTo(PageSections)
		return m, nil

	case key.Matches(msg, m.keys.Metas):
		m.switchTo(PageMetas)
		return m, nil

	case key.Matches(msg, m.keys.Back) && m.page == PageHelp:
		m.page = m.previousPage
		return m, nil
	}

	return m.updateActivePage(msg)
}

func (m *Model) switchTo(p Page) {
	if m.page != p {
		m.logger.Debug("switching page", "from", m.page, "to", p)
	}
	m.previousPage = m.page
	m.page = p
}

func (m Model) inputActive() bool {
	switch m.page {
	case PageCommand:
		return true
	case PageSections:
		return m.sections.InputActive()
	case PageMetas:
		return m.metas.InputActive()
	}
	return false
}

// broadcast hands a non-key message to every page. Command results
// must reach their controller whichever page is showing.
func (m Model) broadcast(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd
	var cmd tea.Cmd

	m.sections, cmd = m.sections.Update(msg)
	cmds = append(cmds, cmd)
	m.metas, cmd = m.metas.Update(msg)
	cmds = append(cmds, cmd)
	m.home, cmd = m.home.Update(msg)
	cmds = append(cmds, cmd)

	if m.page == PageCommand {
		m.commandView, cmd = m.commandView.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

// updateActivePage dispatches a key to the page on screen.
func (m Model) updateActivePage(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.page {
	case PageHome:
		m.home, cmd = m.home.Update(msg)
	case PageSections:
		m.sections, cmd = m.sections.Update(msg)
	case PageMetas:
		m.metas, cmd = m.metas.Update(msg)
	case PageHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case PageCommand:
		m.commandView, cmd = m.commandView.Update(msg)
	}

	return m, cmd
}

// executeCommand runs a parsed palette command.
func (m *Model) executeCommand(c command.Command) tea.Cmd {
	m.logger.Info("palette command", "command", c.Name, "page", m.page)

	switch c.Name {
	case command.Home:
		m.switchTo(PageHome)
	case command.Sections:
		m.switchTo(PageSections)
	case command.Metas:
		m.switchTo(PageMetas)
	case command.Quit:
		return tea.Quit
	case command.Reload:
		switch m.page {
		case PageSections:
			return m.sections.Reload()
		case PageMetas:
			return m.metas.Reload()
		default:
			return tea.Batch(m.sections.Reload(), m.metas.Reload(), m.home.Init())
		}
	case command.Inactive:
		switch m.page {
		case PageSections:
			m.sections = m.sections.ToggleInactive()
		case PageMetas:
			m.metas = m.metas.ToggleInactive()
		}
	case command.MetaStatus:
		m.switchTo(PageMetas)
		return m.metas.ChangeStatus(c.ID, c.Status)
	}
	return nil
}

// View renders the full terminal UI using the layout manager.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	header := m.layout.RenderHeader("nphdash", m.tabs(), m.status())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, m.renderContent(), statusBar)
}

func (m Model) tabs() []ui.Tab {
	return []ui.Tab{
		{Key: "1", Label: "home", Active: m.page == PageHome},
		{Key: "2", Label: "sections", Active: m.page == PageSections},
		{Key: "3", Label: "metas", Active: m.page == PageMetas},
	}
}

// status summarises outstanding requests and failures for the header.
func (m Model) status() string {
	switch {
	case m.sectionCtrl.Pending() || m.metaCtrl.Pending():
		return "loading..."
	case m.sectionCtrl.Err() != nil || m.metaCtrl.Err() != nil:
		return "backend error"
	}
	return fmt.Sprintf("%d sections · %d metas", len(m.sectionCtrl.All()), len(m.metaCtrl.All()))
}

// renderContent returns the rendered string for the current page.
func (m Model) renderContent() string {
	switch m.page {
	case PageSections:
		return m.sections.View()
	case PageMetas:
		return m.metas.View()
	case PageHelp:
		return m.helpView.View()
	case PageCommand:
		return m.commandView.View()
	default:
		return m.home.View()
	}
}

// keyHints returns keyboard shortcut hints for the status bar.
func (m Model) keyHints() string {
	switch m.page {
	case PageHelp:
		return "? close help | esc back"
	case PageCommand:
		return "enter execute | tab complete | esc back"
	case PageSections, PageMetas:
		if m.inputActive() {
			return "enter next/submit | shift+tab previous | esc cancel"
		}
		return "n new | e edit | d deactivate | r restore | i inactive | R reload | esc back"
	default:
		return "1 home | 2 sections | 3 metas | : command | ? help | q quit"
	}
}
