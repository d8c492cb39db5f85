package model

// Section is an organisational unit that goals are attached to.
type Section struct {
	ID          int64  `json:"idSection"`
	Name        string `json:"name"`
	Description string `json:"description"`
	UpdateDate  Date   `json:"updateDate"`
	Status      Status `json:"status"`
}

func (s Section) GetID() int64      { return s.ID }
func (s Section) GetName() string   { return s.Name }
func (s Section) GetStatus() Status { return s.Status }

// WithStatus returns a copy of s carrying the given status.
func (s Section) WithStatus(st Status) Section {
	s.Status = st
	return s
}
