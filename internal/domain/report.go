package domain

import "time"

// ReportStatus enumerates lifecycle states for facility reports.
type ReportStatus string

const (
	ReportStatusPending    ReportStatus = "pending"
	ReportStatusAssigned   ReportStatus = "assigned"
	ReportStatusInProgress ReportStatus = "in_progress"
	ReportStatusResolved   ReportStatus = "resolved"
	ReportStatusUnresolved ReportStatus = "unresolved"
)

// ReportCategory enumerates the kinds of facility issues.
type ReportCategory string

const (
	CategoryHardware ReportCategory = "hardware"
	CategorySoftware ReportCategory = "software"
)

// Location identifies where in the building the issue was observed.
type Location struct {
	Floor string
	Room  string
}

// Report is the aggregate for a reported facility issue.
type Report struct {
	ID             string
	Title          string
	Description    string
	Category       ReportCategory
	Location       Location
	ReportedBy     string
	ReporterName   string
	Status         ReportStatus
	AssignedTo     *string
	TechnicianName *string
	Version        int64
	CreatedAt      time.Time
	UpdatedAt      time.Time
	AssignedAt     *time.Time
	ResolvedAt     *time.Time
	UnresolvedAt   *time.Time
	History        []HistoryEntry
}

// HasAssignee reports whether the report currently carries an assignee.
func (r *Report) HasAssignee() bool {
	return r.AssignedTo != nil && *r.AssignedTo != ""
}

// ValidStatus reports whether s is one of the known lifecycle states.
func ValidStatus(s ReportStatus) bool {
	switch s {
	case ReportStatusPending, ReportStatusAssigned, ReportStatusInProgress,
		ReportStatusResolved, ReportStatusUnresolved:
		return true
	}
	return false
}

// ValidCategory reports whether c is a known report category.
func ValidCategory(c ReportCategory) bool {
	return c == CategoryHardware || c == CategorySoftware
}
