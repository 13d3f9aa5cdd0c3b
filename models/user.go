package models

import (
	"gorm.io/gorm"
)

// Global roles. A user's global role governs cross-team operations
// (user management, team creation); authority inside a team comes from
// the TeamMember record, never from this field.
const (
	RoleAdmin  = "admin"
	RoleMember = "member"
)

// User represents an account in the system
type User struct {
	gorm.Model

	Username string `gorm:"uniqueIndex;not null" json:"username"`
	Email    string `gorm:"uniqueIndex;not null" json:"email"`
	Password string `gorm:"not null" json:"-"` // bcrypt hash, never serialized
	FullName string `json:"fullName"`
	Avatar   string `json:"avatar"`
	Role     string `gorm:"default:'member'" json:"role"` // admin, member
	UserType string `gorm:"default:'standard'" json:"userType"`
}

// IsAdmin reports whether the user holds the global admin role.
func (u *User) IsAdmin() bool {
	return u.Role == RoleAdmin
}
