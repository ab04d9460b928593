// Package lifecycle owns the report state machine: which statuses exist,
// which transitions are legal, who may request them, and what audit entry
// each one appends. It is pure computation; persistence belongs to the
// caller.
package lifecycle

import (
	"fmt"
	"strings"
	"time"

	"github.com/Geraldo-Morris/tvriapp/internal/domain"
	apperrors "github.com/Geraldo-Morris/tvriapp/pkg/util"
)

// Request describes one transition attempt against a report.
type Request struct {
	ActorID   string
	ActorName string
	ActorRole domain.Role
	Target    domain.ReportStatus

	// TechnicianID/TechnicianName are required when Target is assigned.
	TechnicianID   string
	TechnicianName string

	// Comment is required for resolved/unresolved, optional otherwise.
	Comment string

	// Now is the operation time; the zero value means time.Now().
	Now time.Time
}

// CreateInput describes the creation of a new report by an employee.
type CreateInput struct {
	ActorID     string
	ActorName   string
	ActorRole   domain.Role
	Title       string
	Description string
	Category    domain.ReportCategory
	Location    domain.Location
	Now         time.Time
}

type edge struct {
	from domain.ReportStatus
	to   domain.ReportStatus
}

type rule struct {
	roles map[domain.Role]bool
	// assigneeOnly means a technician actor must be the current assignee.
	assigneeOnly    bool
	needsComment    bool
	needsTechnician bool
	action          string
}

// transitions is the single authorization table for the whole service.
// Role checks happen here and nowhere else.
var transitions = map[edge]rule{
	{domain.ReportStatusPending, domain.ReportStatusAssigned}: {
		roles:           map[domain.Role]bool{domain.RoleOperator: true},
		needsTechnician: true,
		action:          domain.ActionAssigned,
	},
	{domain.ReportStatusAssigned, domain.ReportStatusInProgress}: {
		roles:        map[domain.Role]bool{domain.RoleTechnician: true},
		assigneeOnly: true,
		action:       domain.ActionInProgress,
	},
	{domain.ReportStatusUnresolved, domain.ReportStatusInProgress}: {
		roles:        map[domain.Role]bool{domain.RoleTechnician: true},
		assigneeOnly: true,
		action:       domain.ActionInProgress,
	},
	{domain.ReportStatusInProgress, domain.ReportStatusResolved}: {
		roles:        map[domain.Role]bool{domain.RoleTechnician: true, domain.RoleOperator: true},
		assigneeOnly: true,
		needsComment: true,
		action:       domain.ActionResolved,
	},
	{domain.ReportStatusInProgress, domain.ReportStatusUnresolved}: {
		roles:        map[domain.Role]bool{domain.RoleTechnician: true, domain.RoleOperator: true},
		assigneeOnly: true,
		needsComment: true,
		action:       domain.ActionUnresolved,
	},
	{domain.ReportStatusUnresolved, domain.ReportStatusAssigned}: {
		roles:           map[domain.Role]bool{domain.RoleOperator: true},
		needsTechnician: true,
		action:          domain.ActionAssigned,
	},
}

// NewReport builds a pending report with its seeded history entry. Only
// employees create reports; the first history action is always "created".
func NewReport(input CreateInput) (domain.Report, error) {
	if input.ActorRole != domain.RoleEmployee {
		return domain.Report{}, apperrors.NewForbidden("only employees can create reports")
	}
	title := strings.TrimSpace(input.Title)
	if title == "" {
		return domain.Report{}, apperrors.NewMissingInput("title")
	}
	description := strings.TrimSpace(input.Description)
	if description == "" {
		return domain.Report{}, apperrors.NewMissingInput("description")
	}
	if !domain.ValidCategory(input.Category) {
		return domain.Report{}, apperrors.NewValidationError("unknown category", map[string]any{"category": input.Category})
	}
	if strings.TrimSpace(input.Location.Floor) == "" {
		return domain.Report{}, apperrors.NewMissingInput("location.floor")
	}
	if strings.TrimSpace(input.Location.Room) == "" {
		return domain.Report{}, apperrors.NewMissingInput("location.room")
	}

	now := input.Now
	if now.IsZero() {
		now = time.Now()
	}

	return domain.Report{
		Title:        title,
		Description:  description,
		Category:     input.Category,
		Location: domain.Location{
			Floor: strings.TrimSpace(input.Location.Floor),
			Room:  strings.TrimSpace(input.Location.Room),
		},
		ReportedBy:   input.ActorID,
		ReporterName: input.ActorName,
		Status:       domain.ReportStatusPending,
		Version:      1,
		CreatedAt:    now,
		UpdatedAt:    now,
		History: []domain.HistoryEntry{{
			Status:        domain.ReportStatusPending,
			Action:        domain.ActionCreated,
			Comment:       "Report created",
			UpdatedBy:     input.ActorID,
			UpdatedByName: input.ActorName,
			Timestamp:     now,
		}},
	}, nil
}

// Apply validates the transition request against the report's current state
// and the actor's role, and returns the resulting report value. The input
// report is never mutated; on any failure the returned report is zero.
func Apply(report domain.Report, req Request) (domain.Report, error) {
	r, ok := transitions[edge{report.Status, req.Target}]
	if !ok {
		return domain.Report{}, apperrors.NewInvalidTransition(string(report.Status), string(req.Target))
	}
	if !r.roles[req.ActorRole] {
		return domain.Report{}, apperrors.NewForbidden(
			fmt.Sprintf("role %s may not set status %s", req.ActorRole, req.Target))
	}
	if r.assigneeOnly && req.ActorRole == domain.RoleTechnician {
		if !report.HasAssignee() || *report.AssignedTo != req.ActorID {
			return domain.Report{}, apperrors.NewForbidden("only the assigned technician may update this report")
		}
	}
	comment := strings.TrimSpace(req.Comment)
	if r.needsComment && comment == "" {
		return domain.Report{}, apperrors.NewMissingInput("comment")
	}
	if r.needsTechnician && strings.TrimSpace(req.TechnicianID) == "" {
		return domain.Report{}, apperrors.NewMissingInput("technician_id")
	}

	now := req.Now
	if now.IsZero() {
		now = time.Now()
	}

	next := report
	next.Status = req.Target
	next.Version = report.Version + 1
	next.UpdatedAt = now

	switch req.Target {
	case domain.ReportStatusAssigned:
		technicianID := strings.TrimSpace(req.TechnicianID)
		next.AssignedTo = &technicianID
		name := req.TechnicianName
		next.TechnicianName = &name
		next.AssignedAt = &now
		if comment == "" {
			comment = "Assigned to technician: " + req.TechnicianName
		}
	case domain.ReportStatusResolved:
		next.ResolvedAt = &now
	case domain.ReportStatusUnresolved:
		next.UnresolvedAt = &now
	}
	if comment == "" {
		comment = "Status updated to " + string(req.Target)
	}

	entry := domain.HistoryEntry{
		Status:        req.Target,
		Action:        r.action,
		Comment:       comment,
		UpdatedBy:     req.ActorID,
		UpdatedByName: req.ActorName,
		Timestamp:     now,
	}
	next.History = make([]domain.HistoryEntry, 0, len(report.History)+1)
	next.History = append(next.History, report.History...)
	next.History = append(next.History, entry)

	return next, nil
}

// CanTransition reports whether the edge exists for the given role, without
// applying it. Used by read paths to surface available actions.
func CanTransition(from, to domain.ReportStatus, role domain.Role) bool {
	r, ok := transitions[edge{from, to}]
	return ok && r.roles[role]
}

// AvailableTargets returns the statuses the given role may request from the
// current status, ignoring assignee identity checks.
func AvailableTargets(from domain.ReportStatus, role domain.Role) []domain.ReportStatus {
	var targets []domain.ReportStatus
	for e, r := range transitions {
		if e.from == from && r.roles[role] {
			targets = append(targets, e.to)
		}
	}
	return targets
}
