package actor

import "errors"

// ErrForbidden marks an operation attempted by a role that is not allowed
// to perform it. Surfaced as 403, never retried.
var ErrForbidden = errors.New("role is not permitted to perform this operation")
