package entity

import "time"

// AuditEntry records an auth event. UserID is the hex ObjectID or empty.
type AuditEntry struct {
	UserID    string
	Email     string
	Action    string
	IP        string
	UserAgent string
	Metadata  map[string]any
	CreatedAt time.Time
}
