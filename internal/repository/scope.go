package repository

import (
	"github.com/Geraldo-Morris/tvriapp/internal/domain"
	apperrors "github.com/Geraldo-Morris/tvriapp/pkg/util"
)

// ScopeKind selects which reports a query may return.
type ScopeKind string

const (
	ScopeAll        ScopeKind = "all"
	ScopeByReporter ScopeKind = "by_reporter"
	ScopeByAssignee ScopeKind = "by_assignee"
)

// ReportScope is the visibility filter attached to every report query.
// Access control lives at the query boundary: the repository refuses an
// unrestricted scope unless the requester is an operator.
type ReportScope struct {
	Kind          ScopeKind
	UserID        string
	RequesterRole domain.Role
}

// ScopeFor derives the scope a user is entitled to: operators see all
// reports, technicians only those assigned to them, employees only their
// own.
func ScopeFor(user *domain.User) ReportScope {
	switch user.Role {
	case domain.RoleOperator:
		return ReportScope{Kind: ScopeAll, RequesterRole: user.Role}
	case domain.RoleTechnician:
		return ReportScope{Kind: ScopeByAssignee, UserID: user.ID, RequesterRole: user.Role}
	default:
		return ReportScope{Kind: ScopeByReporter, UserID: user.ID, RequesterRole: user.Role}
	}
}

// Validate rejects scopes a requester is not entitled to.
func (s ReportScope) Validate() error {
	switch s.Kind {
	case ScopeAll:
		if s.RequesterRole != domain.RoleOperator {
			return apperrors.NewForbidden("only operators may list all reports")
		}
	case ScopeByReporter, ScopeByAssignee:
		if s.UserID == "" {
			return apperrors.NewValidationError("scope requires a user id", nil)
		}
	default:
		return apperrors.NewValidationError("unknown scope", map[string]any{"kind": s.Kind})
	}
	return nil
}
