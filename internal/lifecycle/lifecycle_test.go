package lifecycle

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Geraldo-Morris/tvriapp/internal/domain"
	apperrors "github.com/Geraldo-Morris/tvriapp/pkg/util"
)

func newCreateInput() CreateInput {
	return CreateInput{
		ActorID:     "emp-1",
		ActorName:   "Dina",
		ActorRole:   domain.RoleEmployee,
		Title:       "Projector broken",
		Description: "The projector in the meeting room does not turn on",
		Category:    domain.CategoryHardware,
		Location:    domain.Location{Floor: "3", Room: "301"},
	}
}

func pendingReport(t *testing.T) domain.Report {
	t.Helper()
	report, err := NewReport(newCreateInput())
	require.NoError(t, err)
	report.ID = "rep-1"
	return report
}

func TestNewReportSeedsHistory(t *testing.T) {
	report, err := NewReport(newCreateInput())
	require.NoError(t, err)

	assert.Equal(t, domain.ReportStatusPending, report.Status)
	assert.Equal(t, int64(1), report.Version)
	assert.False(t, report.HasAssignee())
	require.Len(t, report.History, 1)
	assert.Equal(t, domain.ActionCreated, report.History[0].Action)
	assert.Equal(t, "emp-1", report.History[0].UpdatedBy)
}

func TestNewReportRejectsNonEmployee(t *testing.T) {
	for _, role := range []domain.Role{domain.RoleOperator, domain.RoleTechnician} {
		input := newCreateInput()
		input.ActorRole = role
		_, err := NewReport(input)
		require.Error(t, err)
		assert.True(t, apperrors.IsCode(err, "FORBIDDEN"), "role %s", role)
	}
}

func TestNewReportRequiredFields(t *testing.T) {
	cases := []struct {
		name   string
		mutate func(*CreateInput)
	}{
		{"title", func(in *CreateInput) { in.Title = "  " }},
		{"description", func(in *CreateInput) { in.Description = "" }},
		{"floor", func(in *CreateInput) { in.Location.Floor = "" }},
		{"room", func(in *CreateInput) { in.Location.Room = " " }},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			input := newCreateInput()
			tc.mutate(&input)
			_, err := NewReport(input)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "MISSING_INPUT"))
		})
	}
}

func TestNewReportRejectsUnknownCategory(t *testing.T) {
	input := newCreateInput()
	input.Category = "furniture"
	_, err := NewReport(input)
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "VALIDATION_FAILED"))
}

func TestAssignSetsAssigneeAndTimestamp(t *testing.T) {
	report := pendingReport(t)
	now := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	next, err := Apply(report, Request{
		ActorID:        "op-1",
		ActorName:      "Rudi",
		ActorRole:      domain.RoleOperator,
		Target:         domain.ReportStatusAssigned,
		TechnicianID:   "tech-1",
		TechnicianName: "Budi",
		Now:            now,
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReportStatusAssigned, next.Status)
	require.NotNil(t, next.AssignedTo)
	assert.Equal(t, "tech-1", *next.AssignedTo)
	require.NotNil(t, next.AssignedAt)
	assert.Equal(t, now, *next.AssignedAt)
	assert.Equal(t, report.Version+1, next.Version)
	require.Len(t, next.History, 2)
	assert.Equal(t, domain.ActionAssigned, next.History[1].Action)
	assert.Equal(t, "Assigned to technician: Budi", next.History[1].Comment)
}

func TestAssignByEmployeeForbidden(t *testing.T) {
	report := pendingReport(t)
	_, err := Apply(report, Request{
		ActorID:      "emp-1",
		ActorRole:    domain.RoleEmployee,
		Target:       domain.ReportStatusAssigned,
		TechnicianID: "tech-1",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))
}

func TestAssignWithoutTechnicianMissingInput(t *testing.T) {
	report := pendingReport(t)
	_, err := Apply(report, Request{
		ActorID:   "op-1",
		ActorRole: domain.RoleOperator,
		Target:    domain.ReportStatusAssigned,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "MISSING_INPUT"))
}

func TestPendingToResolvedInvalid(t *testing.T) {
	report := pendingReport(t)
	_, err := Apply(report, Request{
		ActorID:   "op-1",
		ActorRole: domain.RoleOperator,
		Target:    domain.ReportStatusResolved,
		Comment:   "done",
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
}

func TestResolveWithoutCommentMissingInput(t *testing.T) {
	report := inProgressReport(t, "tech-1")
	for _, actor := range []Request{
		{ActorID: "tech-1", ActorRole: domain.RoleTechnician},
		{ActorID: "op-1", ActorRole: domain.RoleOperator},
	} {
		for _, target := range []domain.ReportStatus{domain.ReportStatusResolved, domain.ReportStatusUnresolved} {
			req := actor
			req.Target = target
			req.Comment = "   "
			_, err := Apply(report, req)
			require.Error(t, err)
			assert.True(t, apperrors.IsCode(err, "MISSING_INPUT"), "%s -> %s", actor.ActorRole, target)
		}
	}
}

func TestInProgressRequiresCurrentAssignee(t *testing.T) {
	report := assignedReport(t, "tech-1")

	_, err := Apply(report, Request{
		ActorID:   "tech-2",
		ActorRole: domain.RoleTechnician,
		Target:    domain.ReportStatusInProgress,
	})
	require.Error(t, err)
	assert.True(t, apperrors.IsCode(err, "FORBIDDEN"))

	next, err := Apply(report, Request{
		ActorID:   "tech-1",
		ActorRole: domain.RoleTechnician,
		Target:    domain.ReportStatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusInProgress, next.Status)
}

func TestOperatorMayResolveWithoutBeingAssignee(t *testing.T) {
	report := inProgressReport(t, "tech-1")
	next, err := Apply(report, Request{
		ActorID:   "op-1",
		ActorRole: domain.RoleOperator,
		Target:    domain.ReportStatusResolved,
		Comment:   "verified on site",
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusResolved, next.Status)
	require.NotNil(t, next.ResolvedAt)
}

func TestUnresolvedCanBeReassigned(t *testing.T) {
	report := unresolvedReport(t, "tech-1")

	next, err := Apply(report, Request{
		ActorID:        "op-1",
		ActorRole:      domain.RoleOperator,
		Target:         domain.ReportStatusAssigned,
		TechnicianID:   "tech-2",
		TechnicianName: "Sari",
	})
	require.NoError(t, err)
	require.NotNil(t, next.AssignedTo)
	assert.Equal(t, "tech-2", *next.AssignedTo)

	// the new technician can then pick the work back up
	again, err := Apply(next, Request{
		ActorID:   "tech-2",
		ActorRole: domain.RoleTechnician,
		Target:    domain.ReportStatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, domain.ReportStatusInProgress, again.Status)
}

func TestResolvedIsTerminal(t *testing.T) {
	report := resolvedReport(t, "tech-1")
	for _, target := range []domain.ReportStatus{
		domain.ReportStatusPending, domain.ReportStatusAssigned,
		domain.ReportStatusInProgress, domain.ReportStatusUnresolved,
	} {
		_, err := Apply(report, Request{
			ActorID:      "op-1",
			ActorRole:    domain.RoleOperator,
			Target:       target,
			TechnicianID: "tech-2",
			Comment:      "retry",
		})
		require.Error(t, err, "target %s", target)
		assert.True(t, apperrors.IsCode(err, "INVALID_TRANSITION"))
	}
}

func TestHappyPathHistoryOrder(t *testing.T) {
	report := pendingReport(t)

	assigned, err := Apply(report, Request{
		ActorID: "op-1", ActorRole: domain.RoleOperator,
		Target: domain.ReportStatusAssigned, TechnicianID: "T1", TechnicianName: "Budi",
	})
	require.NoError(t, err)

	started, err := Apply(assigned, Request{
		ActorID: "T1", ActorRole: domain.RoleTechnician,
		Target: domain.ReportStatusInProgress,
	})
	require.NoError(t, err)

	resolved, err := Apply(started, Request{
		ActorID: "T1", ActorRole: domain.RoleTechnician,
		Target: domain.ReportStatusResolved, Comment: "fixed",
	})
	require.NoError(t, err)

	assert.Equal(t, domain.ReportStatusResolved, resolved.Status)
	require.NotNil(t, resolved.AssignedTo)
	assert.Equal(t, "T1", *resolved.AssignedTo)
	require.NotNil(t, resolved.ResolvedAt)

	require.Len(t, resolved.History, 4)
	actions := []string{}
	for _, entry := range resolved.History {
		actions = append(actions, entry.Action)
	}
	assert.Equal(t, []string{
		domain.ActionCreated, domain.ActionAssigned,
		domain.ActionInProgress, domain.ActionResolved,
	}, actions)
	assert.Equal(t, "fixed", resolved.History[3].Comment)
}

func TestHistoryNeverShrinks(t *testing.T) {
	report := pendingReport(t)
	prev := len(report.History)

	steps := []Request{
		{ActorID: "op-1", ActorRole: domain.RoleOperator, Target: domain.ReportStatusAssigned, TechnicianID: "T1", TechnicianName: "Budi"},
		{ActorID: "T1", ActorRole: domain.RoleTechnician, Target: domain.ReportStatusInProgress},
		{ActorID: "T1", ActorRole: domain.RoleTechnician, Target: domain.ReportStatusUnresolved, Comment: "needs spare part"},
		{ActorID: "op-1", ActorRole: domain.RoleOperator, Target: domain.ReportStatusAssigned, TechnicianID: "T2", TechnicianName: "Sari"},
		{ActorID: "T2", ActorRole: domain.RoleTechnician, Target: domain.ReportStatusInProgress},
		{ActorID: "T2", ActorRole: domain.RoleTechnician, Target: domain.ReportStatusResolved, Comment: "replaced part"},
	}
	current := report
	for i, step := range steps {
		next, err := Apply(current, step)
		require.NoError(t, err, "step %d", i)
		require.GreaterOrEqual(t, len(next.History), prev)
		prev = len(next.History)
		current = next
	}
	assert.Len(t, current.History, 7)
}

func TestApplyDoesNotMutateInput(t *testing.T) {
	report := pendingReport(t)
	originalHistory := len(report.History)
	originalStatus := report.Status

	next, err := Apply(report, Request{
		ActorID: "op-1", ActorRole: domain.RoleOperator,
		Target: domain.ReportStatusAssigned, TechnicianID: "T1", TechnicianName: "Budi",
	})
	require.NoError(t, err)

	assert.Equal(t, originalStatus, report.Status)
	assert.Len(t, report.History, originalHistory)
	assert.Nil(t, report.AssignedTo)
	assert.NotEqual(t, report.Version, next.Version)

	// failed transitions return the zero value and leave the input alone
	_, err = Apply(report, Request{ActorID: "emp-1", ActorRole: domain.RoleEmployee, Target: domain.ReportStatusAssigned, TechnicianID: "T1"})
	require.Error(t, err)
	assert.Equal(t, originalStatus, report.Status)
}

func TestDefaultCommentGenerated(t *testing.T) {
	report := assignedReport(t, "tech-1")
	next, err := Apply(report, Request{
		ActorID:   "tech-1",
		ActorRole: domain.RoleTechnician,
		Target:    domain.ReportStatusInProgress,
	})
	require.NoError(t, err)
	assert.Equal(t, "Status updated to in_progress", next.History[len(next.History)-1].Comment)
}

func TestAvailableTargets(t *testing.T) {
	targets := AvailableTargets(domain.ReportStatusInProgress, domain.RoleTechnician)
	assert.ElementsMatch(t, []domain.ReportStatus{
		domain.ReportStatusResolved, domain.ReportStatusUnresolved,
	}, targets)

	assert.Empty(t, AvailableTargets(domain.ReportStatusPending, domain.RoleEmployee))
	assert.True(t, CanTransition(domain.ReportStatusUnresolved, domain.ReportStatusAssigned, domain.RoleOperator))
	assert.False(t, CanTransition(domain.ReportStatusResolved, domain.ReportStatusAssigned, domain.RoleOperator))
}

func assignedReport(t *testing.T, technicianID string) domain.Report {
	t.Helper()
	report, err := Apply(pendingReport(t), Request{
		ActorID: "op-1", ActorRole: domain.RoleOperator,
		Target: domain.ReportStatusAssigned, TechnicianID: technicianID, TechnicianName: "Budi",
	})
	require.NoError(t, err)
	return report
}

func inProgressReport(t *testing.T, technicianID string) domain.Report {
	t.Helper()
	report, err := Apply(assignedReport(t, technicianID), Request{
		ActorID: technicianID, ActorRole: domain.RoleTechnician,
		Target: domain.ReportStatusInProgress,
	})
	require.NoError(t, err)
	return report
}

func resolvedReport(t *testing.T, technicianID string) domain.Report {
	t.Helper()
	report, err := Apply(inProgressReport(t, technicianID), Request{
		ActorID: technicianID, ActorRole: domain.RoleTechnician,
		Target: domain.ReportStatusResolved, Comment: "fixed",
	})
	require.NoError(t, err)
	return report
}

func unresolvedReport(t *testing.T, technicianID string) domain.Report {
	t.Helper()
	report, err := Apply(inProgressReport(t, technicianID), Request{
		ActorID: technicianID, ActorRole: domain.RoleTechnician,
		Target: domain.ReportStatusUnresolved, Comment: "could not reproduce",
	})
	require.NoError(t, err)
	return report
}
