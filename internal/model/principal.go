package model

import "github.com/google/uuid"

type UserRole string

const (
	UserRoleAdmin   UserRole = "ADMIN"
	UserRoleAnalyst UserRole = "ANALYST"
	UserRoleViewer  UserRole = "VIEWER"
)

// Principal is the caller identity extracted from the access token.
type Principal struct {
	UserID uuid.UUID
	Role   UserRole
}

func (p Principal) CanRead() bool {
	switch p.Role {
	case UserRoleAdmin, UserRoleAnalyst, UserRoleViewer:
		return true
	default:
		return false
	}
}

func (p Principal) CanExport() bool {
	return p.Role == UserRoleAdmin || p.Role == UserRoleAnalyst
}
