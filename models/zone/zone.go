package zone

import "time"

// Zone represents one physical retail display location that can be booked.
type Zone struct {
	ID uint `gorm:"primaryKey;autoIncrement" json:"id"`

	// External identifier used by suppliers and the import pipeline.
	UniqueIdentifier string `gorm:"type:varchar(255);not null;unique" json:"unique_identifier"`

	City      string `gorm:"type:varchar(255);not null" json:"city"`
	Market    string `gorm:"type:varchar(255)" json:"market"`
	Macrozone string `gorm:"type:varchar(255);not null" json:"macrozone"`
	Equipment string `gorm:"type:varchar(255)" json:"equipment"`

	// Stamped by the workflow when the zone is booked, cleared on release.
	Supplier *string `gorm:"type:varchar(255)" json:"supplier,omitempty"`
	Brand    *string `gorm:"type:varchar(255)" json:"brand,omitempty"`
	Category *string `gorm:"type:varchar(255)" json:"category,omitempty"`

	Status ZoneStatus `gorm:"type:varchar(20);not null;default:AVAILABLE" json:"status"`

	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// TableName sets the table name for the Zone model
func (Zone) TableName() string {
	return "zones"
}
