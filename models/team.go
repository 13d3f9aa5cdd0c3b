package models

import (
	"gorm.io/gorm"
)

// Team represents a collaboration team
type Team struct {
	gorm.Model

	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	CreatedBy   uint   `gorm:"not null;index" json:"createdBy"`

	// Relations
	Members []TeamMember `gorm:"foreignKey:TeamID" json:"members,omitempty"`
}

// TeamMember binds a user to a team with a team-scoped role. Authority over
// team-scoped resources (projects, tasks, comments, files, messages) is
// derived from this record at request time, not from User.Role.
type TeamMember struct {
	gorm.Model

	TeamID uint   `gorm:"not null;index" json:"teamId"`
	UserID uint   `gorm:"not null;index" json:"userId"`
	Role   string `gorm:"default:'member'" json:"role"` // admin, member

	// Relations
	User *User `json:"user,omitempty"`
}
