package log

import (
	"time"
)

// AuditLog represents one recorded workflow action: a booking request
// creation, a status transition, an admin zone override or an import run.
type AuditLog struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	Action    string    `gorm:"type:varchar(50);not null;index" json:"action"`
	Entity    string    `gorm:"type:varchar(50);not null" json:"entity"`
	EntityID  string    `gorm:"type:varchar(255);not null;index" json:"entity_id"`
	ActorID   string    `gorm:"type:varchar(255);not null" json:"actor_id"`
	ActorRole string    `gorm:"type:varchar(30)" json:"actor_role"`
	Detail    string    `gorm:"type:text" json:"detail"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
}

// TableName sets the table name for the AuditLog model
func (AuditLog) TableName() string {
	return "audit_logs"
}
