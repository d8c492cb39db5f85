package model

// Meta is a goal owned by exactly one Section.
type Meta struct {
	ID int64 `json:"idMeta"`

	// InitializationDate is assigned by the backend and never sent back.
	InitializationDate Date `json:"initializationDate"`

	Name        string `json:"name"`
	Description string `json:"description"`
	Objective   string `json:"objective"`

	// Time is the deadline of the goal.
	Time   Date   `json:"time"`
	Status Status `json:"status"`

	Section *Section `json:"section,omitempty"`

	// SectionDescription is a display copy of Section.Description
	// taken when the goal was last submitted.
	SectionDescription string `json:"sectionDescription,omitempty"`
}

func (m Meta) GetID() int64      { return m.ID }
func (m Meta) GetName() string   { return m.Name }
func (m Meta) GetStatus() Status { return m.Status }

// SectionID returns the id of the referenced section, or 0 if none.
func (m Meta) SectionID() int64 {
	if m.Section == nil {
		return 0
	}
	return m.Section.ID
}

// WithStatus returns a copy of m carrying the given status.
func (m Meta) WithStatus(st Status) Meta {
	m.Status = st
	return m
}
