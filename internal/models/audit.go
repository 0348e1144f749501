package models

import "time"

// Audit actions and resource types.
const (
	AuditCreate = "create"
	AuditUpdate = "update"
	AuditDelete = "delete"

	ResourcePlace   = "place"
	ResourceBooking = "booking"
	ResourceUser    = "user"
)

// AuditEntry represents one audit log row.
type AuditEntry struct {
	ID           int       `json:"id"`
	UserID       int       `json:"user_id"`
	Action       string    `json:"action"`
	ResourceType string    `json:"resource_type"`
	ResourceID   int       `json:"resource_id"`
	Details      string    `json:"details,omitempty"`
	CreatedAt    time.Time `json:"created_at"`
}
