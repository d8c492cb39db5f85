package model

import "fmt"

// Status is the soft-delete flag carried by every managed record.
// The backend uses single-letter codes on the wire.
type Status string

const (
	StatusActive   Status = "A"
	StatusInactive Status = "I"
)

// IsActive reports whether the record is visible in the active view.
func (s Status) IsActive() bool { return s == StatusActive }

// Valid reports whether s is one of the two known codes.
func (s Status) Valid() bool {
	return s == StatusActive || s == StatusInactive
}

// Label returns the human-readable name of the status.
func (s Status) Label() string {
	switch s {
	case StatusActive:
		return "Active"
	case StatusInactive:
		return "Inactive"
	default:
		return "Unknown"
	}
}

// ParseStatus converts a wire or user-supplied code into a Status.
func ParseStatus(s string) (Status, error) {
	switch Status(s) {
	case StatusActive, "a":
		return StatusActive, nil
	case StatusInactive, "i":
		return StatusInactive, nil
	}
	return "", fmt.Errorf("unknown status %q (want A or I)", s)
}

// Record is implemented by every entity managed through the
// soft-delete lifecycle.
type Record interface {
	GetID() int64
	GetName() string
	GetStatus() Status
}
