package domain

import "time"

// Role enumerates the three user roles. Roles are fixed at registration;
// there is no self-service role change.
type Role string

const (
	RoleEmployee   Role = "employee"
	RoleOperator   Role = "operator"
	RoleTechnician Role = "technician"
)

// ValidRole reports whether r is a known role.
func ValidRole(r Role) bool {
	return r == RoleEmployee || r == RoleOperator || r == RoleTechnician
}

// User is the domain model for an authenticated account.
type User struct {
	ID           string
	Name         string
	Email        string
	PasswordHash string
	Role         Role
	CreatedAt    time.Time
	UpdatedAt    time.Time
}
