package services

import "errors"

var (
	ErrClientNotFound   = errors.New("client not found")
	ErrLocationNotFound = errors.New("location not found")
	ErrGroupNotFound    = errors.New("group not found")

	// ErrDuplicateDNI is returned when a write would violate the global
	// uniqueness of a client's normalized DNI.
	ErrDuplicateDNI = errors.New("a client with this DNI already exists")
)

// ReferentialError reports that a desired association set contains ids that
// do not reference existing rows. Set names the offending input field.
type ReferentialError struct {
	Set string
}

func (e *ReferentialError) Error() string {
	return "unknown ids in " + e.Set
}
