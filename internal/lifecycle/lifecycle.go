// Package lifecycle holds the per-entity controllers that load records,
// split them by status and drive the create, edit, soft-delete and
// restore flows. Controllers are driven by the Bubble Tea event loop:
// every gateway call runs inside a tea.Cmd and its outcome comes back
// through Update, which is the only place state changes.
package lifecycle

import (
	"context"
	"log/slog"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/nphdash/internal/model"
)

// State is the position of a controller in its form lifecycle.
type State int

const (
	Viewing State = iota
	Creating
	Editing
)

func (s State) String() string {
	switch s {
	case Creating:
		return "creating"
	case Editing:
		return "editing"
	default:
		return "viewing"
	}
}

// Modal is the handle a controller uses to open and close its form.
type Modal interface {
	Show()
	Hide()
}

// NopModal ignores Show and Hide.
type NopModal struct{}

func (NopModal) Show() {}
func (NopModal) Hide() {}

// Journal receives the outcome of every mutation.
type Journal interface {
	RecordActivity(ctx context.Context, a model.Activity) error
}

// ChangedMsg is emitted after a successful mutation so other views can
// refresh whatever they derive from the entity.
type ChangedMsg struct {
	Entity string
	Action string
	ID     int64
}

// Options configures a controller. Every field is optional.
type Options struct {
	Modal     Modal
	Journal   Journal
	Logger    *slog.Logger
	Location  *time.Location
	Validator *Validator
}

func (o Options) withDefaults() Options {
	if o.Modal == nil {
		o.Modal = NopModal{}
	}
	if o.Logger == nil {
		o.Logger = slog.New(slog.DiscardHandler)
	}
	if o.Location == nil {
		o.Location = time.Local
	}
	if o.Validator == nil {
		o.Validator = NewValidator()
	}
	return o
}

// record writes a to the journal when one is configured. It runs inside
// a tea.Cmd, so failures are logged rather than returned.
func record(j Journal, logger *slog.Logger, a model.Activity) {
	if j == nil {
		return
	}
	if err := j.RecordActivity(context.Background(), a); err != nil {
		logger.Warn("recording activity failed",
			"entity", a.Entity, "action", a.Action, "id", a.EntityID, "error", err)
	}
}

func activity(entity, action string, id int64, name string, err error) model.Activity {
	a := model.Activity{Entity: entity, Action: action, EntityID: id, Name: name}
	if err != nil {
		a.Error = err.Error()
	}
	return a
}

func changed(entity, action string, id int64) tea.Cmd {
	return func() tea.Msg {
		return ChangedMsg{Entity: entity, Action: action, ID: id}
	}
}
