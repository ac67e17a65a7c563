package models

import "time"

// AuditEntry is one row in the activity log viewer. Entries are
// append-only on the server; the console only lists and exports them.
type AuditEntry struct {
	ID        string    `json:"id"`
	Actor     string    `json:"actor"`
	Action    string    `json:"action"`
	Entity    string    `json:"entity"`
	Detail    string    `json:"detail"`
	CreatedAt time.Time `json:"createdAt"`
}
