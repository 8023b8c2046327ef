package types

import "time"

// AuditEntry is pushed onto the async logger channel after a workflow
// action and persisted outside the business transaction.
type AuditEntry struct {
	Action    string
	Entity    string
	EntityID  string
	ActorID   string
	ActorRole string
	Detail    string
	CreatedAt time.Time
}
