package booking

import (
	"time"

	"github.com/volamoks/new-spots-sub000/models/actor"
)

// BookingStatusEvent records one status change of a booking: which edge was
// taken, by whom and in which role.
type BookingStatusEvent struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	BookingID uint     `gorm:"not null;index" json:"booking_id"`
	Booking   *Booking `gorm:"foreignKey:BookingID" json:"-"`

	FromStatus *BookingStatus `gorm:"type:varchar(20)" json:"from_status,omitempty"`
	ToStatus   BookingStatus  `gorm:"type:varchar(20);not null" json:"to_status"`

	ActorID   string     `gorm:"type:varchar(255);not null" json:"actor_id"`
	ActorRole actor.Role `gorm:"type:varchar(30);not null" json:"actor_role"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the BookingStatusEvent model
func (BookingStatusEvent) TableName() string {
	return "booking_status_events"
}
