package domain

import "time"

// History actions. ActionCreated is always the first entry of a report.
const (
	ActionCreated    = "created"
	ActionAssigned   = "assigned"
	ActionInProgress = "in_progress"
	ActionResolved   = "resolved"
	ActionUnresolved = "unresolved"
)

// HistoryEntry is an immutable audit record of one lifecycle change.
// Entries are append-only and ordered by timestamp ascending.
type HistoryEntry struct {
	ID            string
	Status        ReportStatus
	Action        string
	Comment       string
	UpdatedBy     string
	UpdatedByName string
	Timestamp     time.Time
}
