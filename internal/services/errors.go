package services

import "errors"

var (
	// ErrPermission is returned when a role precondition fails. The
	// operation aborts with no partial state change.
	ErrPermission = errors.New("services: permission denied")

	// ErrInvalidTransition is returned for a pipeline stage move that
	// the transition table does not define.
	ErrInvalidTransition = errors.New("services: invalid stage transition")
)
