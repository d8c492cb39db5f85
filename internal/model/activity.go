package model

import "time"

// Entity names recorded in the activity journal.
const (
	EntitySection = "section"
	EntityMeta    = "meta"
)

// Lifecycle actions recorded in the activity journal.
const (
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionRestore = "restore"
	ActionStatus  = "status"
)

// Activity is a local journal entry describing one mutation sent to
// the backend and its outcome.
type Activity struct {
	ID        string    `json:"id" db:"id"`
	Entity    string    `json:"entity" db:"entity"`
	EntityID  int64     `json:"entity_id" db:"entity_id"`
	Action    string    `json:"action" db:"action"`
	Name      string    `json:"name" db:"name"`
	Error     string    `json:"error,omitempty" db:"error"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}

// Failed reports whether the backend rejected the mutation.
func (a Activity) Failed() bool { return a.Error != "" }

// ActivityCount is an aggregate of journal entries per entity and action.
type ActivityCount struct {
	Entity string `db:"entity"`
	Action string `db:"action"`
	Count  int    `db:"count"`
}
