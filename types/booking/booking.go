package booking

import (
	bookingModel "github.com/volamoks/new-spots-sub000/models/booking"
)

// BookingCreateRequest is the body of POST /bookings.
type BookingCreateRequest struct {
	ZoneIDs     []string `json:"zoneIds"`
	BrandID     string   `json:"brandId"`
	SupplierINN string   `json:"supplierInn,omitempty"`
}

// TransitionRequest is the body of PATCH /bookings/:id.
type TransitionRequest struct {
	Status string `json:"status"`
	Role   string `json:"role"`
}

// BookingRequestResponse is a booking request with its derived status
// attached. The persisted status is still serialized for compatibility, the
// display status is what clients should act on.
type BookingRequestResponse struct {
	bookingModel.BookingRequest
	DisplayStatus bookingModel.RequestDisplayStatus `json:"display_status"`
}

// NewBookingRequestResponse derives the display status at serialization
// time so no stale value can leak out of a cache.
func NewBookingRequestResponse(r bookingModel.BookingRequest) BookingRequestResponse {
	return BookingRequestResponse{
		BookingRequest: r,
		DisplayStatus:  r.DisplayStatus(),
	}
}

// CreateResult is the payload returned by POST /bookings. Bookings may be
// shorter than the submitted zone list when zones were skipped.
type CreateResult struct {
	Request  BookingRequestResponse `json:"request"`
	Bookings []bookingModel.Booking `json:"bookings"`
	Skipped  []SkippedZone          `json:"skipped,omitempty"`
}

// SkippedZone reports a zone that was excluded from the batch and why.
type SkippedZone struct {
	ZoneID string `json:"zoneId"`
	Reason string `json:"reason"`
}

// PagedBookingRequests is one page of role-filtered booking requests plus
// the total count read in the same transaction.
type PagedBookingRequests struct {
	Items    []BookingRequestResponse `json:"items"`
	Total    int64                    `json:"total"`
	Page     int                      `json:"page"`
	PageSize int                      `json:"page_size"`
}
