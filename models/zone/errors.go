package zone

import "errors"

var (
	ErrZoneNotFound = errors.New("zone not found")

	// ErrZoneUnavailable marks a per-zone business failure inside a batch;
	// it never fails the batch as a whole.
	ErrZoneUnavailable = errors.New("zone is not available for booking")
)
