package events

import (
	"time"

	"github.com/Geraldo-Morris/tvriapp/internal/domain"
)

// EventType enumerates supported event identifiers.
type EventType string

const (
	EventReportCreated       EventType = "report_created"
	EventReportAssigned      EventType = "report_assigned"
	EventReportStatusChanged EventType = "report_status_changed"
)

// Actor encapsulates actor metadata for an event.
type Actor struct {
	UserID string      `json:"user_id"`
	Role   domain.Role `json:"role"`
}

// Event represents a domain event emitted by services.
type Event struct {
	ID        string      `json:"id"`
	Type      EventType   `json:"type"`
	ReportID  string      `json:"report_id"`
	Actor     Actor       `json:"actor"`
	Timestamp time.Time   `json:"timestamp"`
	Payload   interface{} `json:"payload"`
}

// ReportCreatedPayload payload.
type ReportCreatedPayload struct {
	Title    string                `json:"title"`
	Category domain.ReportCategory `json:"category"`
	Location domain.Location       `json:"location"`
}

// ReportAssignedPayload payload.
type ReportAssignedPayload struct {
	TechnicianID   string `json:"technician_id"`
	TechnicianName string `json:"technician_name"`
}

// ReportStatusChangedPayload payload.
type ReportStatusChangedPayload struct {
	OldStatus domain.ReportStatus `json:"old_status"`
	NewStatus domain.ReportStatus `json:"new_status"`
	Comment   string              `json:"comment,omitempty"`
}
