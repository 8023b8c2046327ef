package booking

import "errors"

var (
	// ErrInvalidTransition covers both an illegal edge and a role that is
	// not authorized for an otherwise legal edge.
	ErrInvalidTransition = errors.New("invalid booking status transition")

	ErrBookingNotFound = errors.New("booking not found")
	ErrRequestNotFound = errors.New("booking request not found")
)
