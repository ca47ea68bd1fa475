package domain

import "time"

// Role represents a user's role in the system.
type Role string

const (
	RoleRider      Role = "RIDER"
	RoleDriver     Role = "DRIVER"
	RoleAdmin      Role = "ADMIN"
	RoleSuperAdmin Role = "SUPER_ADMIN"
)

// IsValid reports whether the role is one of the known roles.
func (r Role) IsValid() bool {
	switch r {
	case RoleRider, RoleDriver, RoleAdmin, RoleSuperAdmin:
		return true
	}
	return false
}

// IsAdmin reports whether the role carries administrative privileges.
func (r Role) IsAdmin() bool {
	return r == RoleAdmin || r == RoleSuperAdmin
}

// AccountStatus represents a user's account standing.
type AccountStatus string

const (
	AccountActive   AccountStatus = "ACTIVE"
	AccountInactive AccountStatus = "INACTIVE"
	AccountBlocked  AccountStatus = "BLOCKED"
)

// ApprovalStatus represents a driver's onboarding state.
type ApprovalStatus string

const (
	ApprovalPending   ApprovalStatus = "PENDING"
	ApprovalApproved  ApprovalStatus = "APPROVED"
	ApprovalSuspended ApprovalStatus = "SUSPENDED"
)

// User represents a rider, driver, or admin. The lifecycle engine treats
// these records as read-only facts; credential handling lives upstream.
type User struct {
	ID             string
	Name           string
	Phone          string
	Role           Role
	AccountStatus  AccountStatus
	IsDeleted      bool
	ApprovalStatus ApprovalStatus // drivers only
	IsOnline       bool           // drivers only
	CreatedAt      time.Time
}

// CanDrive reports whether the user is eligible to take rides.
func (u *User) CanDrive() bool {
	return u.Role == RoleDriver &&
		u.AccountStatus == AccountActive &&
		!u.IsDeleted &&
		u.ApprovalStatus == ApprovalApproved &&
		u.IsOnline
}

// Actor is the authenticated identity performing an operation, resolved
// by the upstream auth layer and trusted by the engine.
type Actor struct {
	ID   string
	Role Role
}
