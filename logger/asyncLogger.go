package logger

import (
	"log"

	log_model "github.com/volamoks/new-spots-sub000/models/log"
	"github.com/volamoks/new-spots-sub000/types"

	"gorm.io/gorm"
)

// AsyncLogger persists audit entries for workflow actions outside the
// business transaction, so an audit write can never roll back a booking.
type AsyncLogger struct {
	db      *gorm.DB
	channel chan types.AuditEntry
}

func NewAsyncLogger(db *gorm.DB) *AsyncLogger {
	return &AsyncLogger{
		db:      db,
		channel: make(chan types.AuditEntry, 100), // Buffered channel to hold audit entries
	}
}

func (logger *AsyncLogger) ProcessLog() {
	log.Println("Starting asynchronous audit logger...")

	for entry := range logger.channel {
		dbLog := log_model.AuditLog{
			Action:    entry.Action,
			Entity:    entry.Entity,
			EntityID:  entry.EntityID,
			ActorID:   entry.ActorID,
			ActorRole: entry.ActorRole,
			Detail:    entry.Detail,
			CreatedAt: entry.CreatedAt,
		}

		if err := logger.db.Create(&dbLog).Error; err != nil {
			log.Printf("Failed to insert audit entry: %v", err)
		}
	}
}

// Log pushes an audit entry into the channel
func (logger *AsyncLogger) Log(entry types.AuditEntry) {
	logger.channel <- entry
}
