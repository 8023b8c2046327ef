package workflow

import "errors"

// Validation failures are surfaced verbatim to the caller as 400s.
var (
	ErrEmptyZoneList    = errors.New("zone list must not be empty")
	ErrBrandRequired    = errors.New("brand reference is required")
	ErrSupplierRequired = errors.New("supplier reference is required for category manager bookings")
)

// IsValidation reports whether err is a request validation failure.
func IsValidation(err error) bool {
	return errors.Is(err, ErrEmptyZoneList) ||
		errors.Is(err, ErrBrandRequired) ||
		errors.Is(err, ErrSupplierRequired)
}
