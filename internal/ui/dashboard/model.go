package dashboard

import (
	"context"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/nphdash/internal/lifecycle"
	"github.com/nhle/nphdash/internal/model"
	"github.com/nhle/nphdash/internal/store"
	"github.com/nhle/nphdash/internal/theme"
)

const recentLimit = 10

// Counts is the active/inactive split of one entity.
type Counts struct {
	Active   int
	Inactive int
	Loaded   bool
}

// Source supplies the counts shown on the dashboard.
type Source func() (sections, metas Counts)

type activityLoadedMsg struct {
	recent []model.Activity
	totals []model.ActivityCount
	err    error
}

// Model is the home page: record counts from the last loads and the
// tail of the local activity journal.
type Model struct {
	counts  Source
	journal store.Store
	baseURL string
	recent  []model.Activity
	totals  []model.ActivityCount
	err     error
	width   int
	height  int
}

// New creates the dashboard. journal may be nil when the activity
// database could not be opened.
func New(counts Source, journal store.Store, baseURL string, width, height int) Model {
	return Model{
		counts:  counts,
		journal: journal,
		baseURL: baseURL,
		width:   width,
		height:  height,
	}
}

// Init loads the journal.
func (m Model) Init() tea.Cmd {
	return m.loadActivity()
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case activityLoadedMsg:
		if msg.err != nil {
			m.err = msg.err
			return m, nil
		}
		m.err = nil
		m.recent = msg.recent
		m.totals = msg.totals
		return m, nil

	case lifecycle.ChangedMsg:
		return m, m.loadActivity()
	}
	return m, nil
}

func (m Model) loadActivity() tea.Cmd {
	j := m.journal
	if j == nil {
		return nil
	}
	return func() tea.Msg {
		ctx := context.Background()
		recent, err := j.RecentActivity(ctx, store.ActivityFilter{Limit: recentLimit})
		if err != nil {
			return activityLoadedMsg{err: err}
		}
		totals, err := j.ActivityCounts(ctx)
		if err != nil {
			return activityLoadedMsg{err: err}
		}
		return activityLoadedMsg{recent: recent, totals: totals}
	}
}

// View renders the dashboard.
func (m Model) View() string {
	sections, metas := m.counts()

	cards := lipgloss.JoinHorizontal(lipgloss.Top,
		card("Sections", sections),
		"  ",
		card("Metas", metas),
	)

	var b strings.Builder
	b.WriteString(theme.TitleStyle.Render("Dashboard"))
	b.WriteString(theme.HelpStyle.Render("  " + m.baseURL))
	b.WriteString("\n\n")
	b.WriteString(cards)
	b.WriteString("\n\n")
	b.WriteString(theme.TitleStyle.Render("Recent activity"))
	b.WriteString("\n")
	b.WriteString(m.viewActivity())

	return lipgloss.NewStyle().Padding(1, 2).Render(b.String())
}

func card(title string, c Counts) string {
	body := "loading..."
	if c.Loaded {
		body = fmt.Sprintf("%s %d\n%s %d",
			theme.StatusStyle(model.StatusActive).Render("active  "), c.Active,
			theme.StatusStyle(model.StatusInactive).Render("inactive"), c.Inactive)
	}
	return theme.PanelStyle.Width(26).Render(theme.TitleStyle.Render(title) + "\n\n" + body)
}

func (m Model) viewActivity() string {
	if m.journal == nil {
		return theme.HelpStyle.Render("activity journal unavailable")
	}
	if m.err != nil {
		return theme.ErrorStyle.Render("Error: " + m.err.Error())
	}
	if len(m.recent) == 0 {
		return theme.HelpStyle.Render("nothing yet")
	}

	var b strings.Builder
	for _, a := range m.recent {
		line := fmt.Sprintf("%s  %-7s %-8s #%d %s",
			a.CreatedAt.In(time.Local).Format("02 Jan 15:04"),
			a.Entity, a.Action, a.EntityID, a.Name)
		if a.Failed() {
			line += "  (" + a.Error + ")"
		}
		b.WriteString(theme.ActionStyle(a.Action, a.Failed()).Render(line))
		b.WriteString("\n")
	}

	if len(m.totals) > 0 {
		parts := make([]string, 0, len(m.totals))
		for _, t := range m.totals {
			parts = append(parts, fmt.Sprintf("%s %s: %d", t.Entity, t.Action, t.Count))
		}
		b.WriteString("\n")
		b.WriteString(theme.HelpStyle.Render(strings.Join(parts, " · ")))
	}
	return b.String()
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}
