package booking

import (
	"fmt"

	"github.com/volamoks/new-spots-sub000/models/actor"
)

// BookingStatus is the approval state of a single booking.
type BookingStatus string

const (
	BookingStatusPendingKM   BookingStatus = "PENDING_KM"
	BookingStatusKMApproved  BookingStatus = "KM_APPROVED"
	BookingStatusKMRejected  BookingStatus = "KM_REJECTED"
	BookingStatusDMPApproved BookingStatus = "DMP_APPROVED"
	BookingStatusDMPRejected BookingStatus = "DMP_REJECTED"
)

func (bs BookingStatus) String() string {
	return string(bs)
}

func (bs BookingStatus) IsValid() bool {
	switch bs {
	case BookingStatusPendingKM, BookingStatusKMApproved, BookingStatusKMRejected,
		BookingStatusDMPApproved, BookingStatusDMPRejected:
		return true
	default:
		return false
	}
}

// IsTerminal returns true if no further transition is allowed.
func (bs BookingStatus) IsTerminal() bool {
	return bs == BookingStatusKMRejected || bs == BookingStatusDMPApproved || bs == BookingStatusDMPRejected
}

// IsRejected returns true for either rejection state.
func (bs BookingStatus) IsRejected() bool {
	return bs == BookingStatusKMRejected || bs == BookingStatusDMPRejected
}

// OccupiesZone returns true if a booking in this status keeps its zone
// BOOKED. Rejected bookings release their claim on the zone.
func (bs BookingStatus) OccupiesZone() bool {
	switch bs {
	case BookingStatusPendingKM, BookingStatusKMApproved, BookingStatusDMPApproved:
		return true
	default:
		return false
	}
}

// GetAllBookingStatuses returns all valid booking statuses
func GetAllBookingStatuses() []BookingStatus {
	return []BookingStatus{
		BookingStatusPendingKM,
		BookingStatusKMApproved,
		BookingStatusKMRejected,
		BookingStatusDMPApproved,
		BookingStatusDMPRejected,
	}
}

// transitions maps every allowed edge of the approval state machine to the
// single role authorized to take it. Absence means InvalidTransition.
var transitions = map[BookingStatus]map[BookingStatus]actor.Role{
	BookingStatusPendingKM: {
		BookingStatusKMApproved: actor.RoleCategoryManager,
		BookingStatusKMRejected: actor.RoleCategoryManager,
	},
	BookingStatusKMApproved: {
		BookingStatusDMPApproved: actor.RoleDepartmentManager,
		BookingStatusDMPRejected: actor.RoleDepartmentManager,
	},
}

// ValidateTransition checks one edge of the state machine against the
// acting role. It returns nil only for a legal edge taken by its owner.
func ValidateTransition(from, to BookingStatus, role actor.Role) error {
	if !to.IsValid() {
		return fmt.Errorf("%w: unknown target status %q", ErrInvalidTransition, to)
	}
	edges, ok := transitions[from]
	if !ok {
		return fmt.Errorf("%w: status %s is terminal", ErrInvalidTransition, from)
	}
	required, ok := edges[to]
	if !ok {
		return fmt.Errorf("%w: %s -> %s is not an allowed edge", ErrInvalidTransition, from, to)
	}
	if role != required {
		return fmt.Errorf("%w: role %s may not perform %s -> %s", ErrInvalidTransition, role, from, to)
	}
	return nil
}

// InitialStatusFor returns the status a freshly created booking starts in.
// A category manager's own request already carries category sign-off.
func InitialStatusFor(role actor.Role) BookingStatus {
	if role == actor.RoleCategoryManager {
		return BookingStatusKMApproved
	}
	return BookingStatusPendingKM
}

// RequestStatus is the persisted (legacy) request status.
type RequestStatus string

const (
	RequestStatusNew    RequestStatus = "NEW"
	RequestStatusClosed RequestStatus = "CLOSED"
)

// RequestDisplayStatus is the derived aggregate status of a request. It is
// computed from child bookings on every read and never persisted.
type RequestDisplayStatus string

const (
	RequestDisplayEmpty       RequestDisplayStatus = "REQUEST_EMPTY"
	RequestDisplayNew         RequestDisplayStatus = "REQUEST_NEW"
	RequestDisplayProcessedKM RequestDisplayStatus = "REQUEST_PROCESSED_KM"
	RequestDisplayClosed      RequestDisplayStatus = "REQUEST_CLOSED"
	RequestDisplayUnknown     RequestDisplayStatus = "REQUEST_UNKNOWN"
)

// DeriveRequestStatus computes the aggregate status of a request from its
// children. Combinations outside the state machine collapse to
// REQUEST_UNKNOWN rather than failing.
func DeriveRequestStatus(statuses []BookingStatus) RequestDisplayStatus {
	if len(statuses) == 0 {
		return RequestDisplayEmpty
	}

	allClosed := true
	allProcessedKM := true
	for _, s := range statuses {
		if s == BookingStatusPendingKM {
			return RequestDisplayNew
		}
		if s != BookingStatusKMRejected && s != BookingStatusDMPApproved && s != BookingStatusDMPRejected {
			allClosed = false
		}
		if s != BookingStatusKMApproved && s != BookingStatusKMRejected {
			allProcessedKM = false
		}
	}

	if allClosed {
		return RequestDisplayClosed
	}
	if allProcessedKM {
		return RequestDisplayProcessedKM
	}
	return RequestDisplayUnknown
}
