package booking

import (
	"time"

	"github.com/volamoks/new-spots-sub000/models/zone"
)

// BookingRequest is one atomic batch of bookings created together by an
// actor. Its persisted status is legacy; the authoritative value for any
// workflow or display decision is DisplayStatus, derived on every read.
type BookingRequest struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	RequestorID string  `gorm:"type:varchar(255);not null;index" json:"requestor_id"`
	SupplierINN *string `gorm:"type:varchar(20);index" json:"supplier_inn,omitempty"`
	Category    *string `gorm:"type:varchar(255);index" json:"category,omitempty"`
	BrandID     string  `gorm:"type:varchar(255);not null" json:"brand_id"`

	Status RequestStatus `gorm:"type:varchar(20);not null;default:NEW" json:"status"`

	Bookings []Booking `gorm:"foreignKey:RequestID" json:"bookings"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the BookingRequest model
func (BookingRequest) TableName() string {
	return "booking_requests"
}

// DisplayStatus recomputes the aggregate status from the loaded children.
// Callers must have the Bookings association populated.
func (r *BookingRequest) DisplayStatus() RequestDisplayStatus {
	statuses := make([]BookingStatus, 0, len(r.Bookings))
	for _, b := range r.Bookings {
		statuses = append(statuses, b.Status)
	}
	return DeriveRequestStatus(statuses)
}

// Booking is one zone's reservation inside a booking request. Only the
// status mutates after creation.
type Booking struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	RequestID uint            `gorm:"not null;index" json:"request_id"`
	Request   *BookingRequest `gorm:"foreignKey:RequestID" json:"-"`

	ZoneID uint      `gorm:"not null;index" json:"zone_id"`
	Zone   zone.Zone `gorm:"foreignKey:ZoneID" json:"zone"`

	BrandID *string `gorm:"type:varchar(255)" json:"brand_id,omitempty"`

	Status BookingStatus `gorm:"type:varchar(20);not null;index" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Booking model
func (Booking) TableName() string {
	return "bookings"
}
