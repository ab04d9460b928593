package service

import (
	"context"
	"errors"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"

	"github.com/Geraldo-Morris/tvriapp/internal/cache"
	"github.com/Geraldo-Morris/tvriapp/internal/domain"
	"github.com/Geraldo-Morris/tvriapp/internal/events"
	"github.com/Geraldo-Morris/tvriapp/internal/lifecycle"
	"github.com/Geraldo-Morris/tvriapp/internal/repository"
	apperrors "github.com/Geraldo-Morris/tvriapp/pkg/util"
)

// ReportService coordinates report workflows: it reads current state,
// delegates every rule to the lifecycle engine, and persists the result
// with a conditional write. It never re-implements transition rules.
type ReportService struct {
	reports    repository.ReportRepository
	users      repository.UserRepository
	dispatcher events.Dispatcher
	statsCache *cache.StatsCache
}

// ReportDependencies bundles collaborators for the report service.
type ReportDependencies struct {
	ReportRepo repository.ReportRepository
	UserRepo   repository.UserRepository
	Dispatcher events.Dispatcher
	StatsCache *cache.StatsCache
}

// CreateReportInput describes report creation payload.
type CreateReportInput struct {
	Title       string
	Description string
	Category    domain.ReportCategory
	Location    domain.Location
}

// TransitionInput describes a status change request. Version is the value
// the caller read; the write is conditional on it so concurrent updates
// surface as a Conflict instead of silently losing history.
type TransitionInput struct {
	Target       domain.ReportStatus
	TechnicianID string
	Comment      string
	Version      int64
}

// NewReportService constructs the service.
func NewReportService(deps ReportDependencies) *ReportService {
	return &ReportService{
		reports:    deps.ReportRepo,
		users:      deps.UserRepo,
		dispatcher: deps.Dispatcher,
		statsCache: deps.StatsCache,
	}
}

// CreateReport creates a pending report for an employee.
func (s *ReportService) CreateReport(ctx context.Context, actor *domain.User, input CreateReportInput) (*domain.Report, error) {
	report, err := lifecycle.NewReport(lifecycle.CreateInput{
		ActorID:     actor.ID,
		ActorName:   actor.Name,
		ActorRole:   actor.Role,
		Title:       input.Title,
		Description: input.Description,
		Category:    input.Category,
		Location:    input.Location,
	})
	if err != nil {
		return nil, err
	}

	if err := s.reports.Create(ctx, &report); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.statsCache.Invalidate(ctx)
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportCreated,
		ReportID: report.ID,
		Actor:    events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.ReportCreatedPayload{
			Title:    report.Title,
			Category: report.Category,
			Location: report.Location,
		},
	})
	return &report, nil
}

// Transition applies one lifecycle transition and persists it. The write is
// conditional on the version the caller read; on Conflict the caller must
// re-fetch and retry. Writes are never retried here to keep the history
// free of duplicate entries.
func (s *ReportService) Transition(ctx context.Context, actor *domain.User, reportID string, input TransitionInput) (*domain.Report, error) {
	current, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if input.Version != 0 && input.Version != current.Version {
		return nil, apperrors.NewConflict("report was modified since it was read",
			map[string]any{"expected_version": input.Version, "current_version": current.Version})
	}

	req := lifecycle.Request{
		ActorID:   actor.ID,
		ActorName: actor.Name,
		ActorRole: actor.Role,
		Target:    input.Target,
		Comment:   input.Comment,
	}
	if input.Target == domain.ReportStatusAssigned {
		technician, err := s.resolveTechnician(ctx, input.TechnicianID)
		if err != nil {
			return nil, err
		}
		if technician != nil {
			req.TechnicianID = technician.ID
			req.TechnicianName = technician.Name
		}
	}

	next, err := lifecycle.Apply(*current, req)
	if err != nil {
		return nil, err
	}

	newEntries := next.History[len(current.History):]
	if err := s.reports.Update(ctx, &next, current.Version, newEntries); err != nil {
		return nil, apperrors.MapError(err)
	}
	s.statsCache.Invalidate(ctx)
	s.publishTransitionEvent(ctx, actor, current.Status, &next, input.Comment)
	return &next, nil
}

// GetReport fetches a report, enforcing the viewer's visibility.
func (s *ReportService) GetReport(ctx context.Context, actor *domain.User, reportID string) (*domain.Report, error) {
	report, err := s.reports.GetByID(ctx, reportID)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	if !canView(actor, report) {
		return nil, apperrors.NewForbidden("access denied")
	}
	return report, nil
}

// ListReports returns the reports visible to the actor, per role.
func (s *ReportService) ListReports(ctx context.Context, actor *domain.User) ([]domain.Report, error) {
	reports, err := s.reports.List(ctx, repository.ScopeFor(actor))
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return reports, nil
}

// GetHistory returns the audit trail of a visible report.
func (s *ReportService) GetHistory(ctx context.Context, actor *domain.User, reportID string) ([]domain.HistoryEntry, error) {
	report, err := s.GetReport(ctx, actor, reportID)
	if err != nil {
		return nil, err
	}
	return report.History, nil
}

// ListTechnicians backs the operator's assignment picker.
func (s *ReportService) ListTechnicians(ctx context.Context) ([]domain.User, error) {
	technicians, err := s.users.ListByRole(ctx, domain.RoleTechnician)
	if err != nil {
		return nil, apperrors.MapError(err)
	}
	return technicians, nil
}

func (s *ReportService) resolveTechnician(ctx context.Context, technicianID string) (*domain.User, error) {
	if technicianID == "" {
		// the engine reports the missing input
		return nil, nil
	}
	technician, err := s.users.GetByID(ctx, technicianID)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, apperrors.NewNotFound("technician", map[string]any{"technician_id": technicianID})
		}
		return nil, apperrors.MapError(err)
	}
	if technician.Role != domain.RoleTechnician {
		return nil, apperrors.NewValidationError("assignee must be a technician",
			map[string]any{"user_id": technicianID, "role": technician.Role})
	}
	return technician, nil
}

func canView(actor *domain.User, report *domain.Report) bool {
	switch actor.Role {
	case domain.RoleOperator:
		return true
	case domain.RoleTechnician:
		return report.HasAssignee() && *report.AssignedTo == actor.ID
	default:
		return report.ReportedBy == actor.ID
	}
}

func (s *ReportService) publishTransitionEvent(ctx context.Context, actor *domain.User, oldStatus domain.ReportStatus, report *domain.Report, comment string) {
	if report.Status == domain.ReportStatusAssigned {
		payload := events.ReportAssignedPayload{}
		if report.AssignedTo != nil {
			payload.TechnicianID = *report.AssignedTo
		}
		if report.TechnicianName != nil {
			payload.TechnicianName = *report.TechnicianName
		}
		s.publishEvent(ctx, events.Event{
			Type:     events.EventReportAssigned,
			ReportID: report.ID,
			Actor:    events.Actor{UserID: actor.ID, Role: actor.Role},
			Payload:  payload,
		})
		return
	}
	s.publishEvent(ctx, events.Event{
		Type:     events.EventReportStatusChanged,
		ReportID: report.ID,
		Actor:    events.Actor{UserID: actor.ID, Role: actor.Role},
		Payload: events.ReportStatusChangedPayload{
			OldStatus: oldStatus,
			NewStatus: report.Status,
			Comment:   comment,
		},
	})
}

func (s *ReportService) publishEvent(ctx context.Context, event events.Event) {
	if s.dispatcher == nil {
		return
	}
	if event.ID == "" {
		event.ID = uuid.NewString()
	}
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now()
	}
	_ = s.dispatcher.Publish(ctx, event)
}
