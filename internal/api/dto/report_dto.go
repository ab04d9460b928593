package dto

import (
	"time"

	"github.com/Geraldo-Morris/tvriapp/internal/domain"
)

// CreateReportRequest payload.
type CreateReportRequest struct {
	Title       string                `json:"title"`
	Description string                `json:"description"`
	Category    domain.ReportCategory `json:"category"`
	Floor       string                `json:"floor"`
	Room        string                `json:"room"`
}

// TransitionRequest payload for status changes.
type TransitionRequest struct {
	Status       domain.ReportStatus `json:"status"`
	TechnicianID string              `json:"technician_id,omitempty"`
	Comment      string              `json:"comment,omitempty"`
	Version      int64               `json:"version"`
}

// ReportSummary response.
type ReportSummary struct {
	ID             string                `json:"id"`
	Title          string                `json:"title"`
	Category       domain.ReportCategory `json:"category"`
	Floor          string                `json:"floor"`
	Room           string                `json:"room"`
	ReporterName   string                `json:"reporter_name"`
	Status         domain.ReportStatus   `json:"status"`
	TechnicianName *string               `json:"technician_name,omitempty"`
	Version        int64                 `json:"version"`
	CreatedAt      time.Time             `json:"created_at"`
	UpdatedAt      time.Time             `json:"updated_at"`
}

// ReportDetailResponse provides full report info.
type ReportDetailResponse struct {
	ID             string                 `json:"id"`
	Title          string                 `json:"title"`
	Description    string                 `json:"description"`
	Category       domain.ReportCategory  `json:"category"`
	Floor          string                 `json:"floor"`
	Room           string                 `json:"room"`
	ReportedBy     string                 `json:"reported_by"`
	ReporterName   string                 `json:"reporter_name"`
	Status         domain.ReportStatus    `json:"status"`
	AssignedTo     *string                `json:"assigned_to,omitempty"`
	TechnicianName *string                `json:"technician_name,omitempty"`
	Version        int64                  `json:"version"`
	CreatedAt      time.Time              `json:"created_at"`
	UpdatedAt      time.Time              `json:"updated_at"`
	AssignedAt     *time.Time             `json:"assigned_at,omitempty"`
	ResolvedAt     *time.Time             `json:"resolved_at,omitempty"`
	UnresolvedAt   *time.Time             `json:"unresolved_at,omitempty"`
	History        []HistoryEntryResponse `json:"history"`
}

// HistoryEntryResponse represents one audit record.
type HistoryEntryResponse struct {
	Status        domain.ReportStatus `json:"status"`
	Action        string              `json:"action"`
	Comment       string              `json:"comment"`
	UpdatedBy     string              `json:"updated_by"`
	UpdatedByName string              `json:"updated_by_name"`
	Timestamp     time.Time           `json:"timestamp"`
}

// TechnicianResponse backs the assignment picker.
type TechnicianResponse struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
}
