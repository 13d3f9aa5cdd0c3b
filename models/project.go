package models

import (
	"gorm.io/gorm"
)

// Project belongs to exactly one team; TeamID is immutable after creation.
type Project struct {
	gorm.Model

	TeamID      uint   `gorm:"not null;index" json:"teamId"`
	Name        string `gorm:"not null" json:"name"`
	Description string `json:"description"`
	Status      string `gorm:"default:'active'" json:"status"`
	StartDate   *Date  `json:"startDate,omitempty"`
	DueDate     *Date  `json:"dueDate,omitempty"`
}

// Task belongs to exactly one project. Its authorization chain is
// Task -> Project -> Team -> TeamMember.
type Task struct {
	gorm.Model

	ProjectID   uint   `gorm:"not null;index" json:"projectId"`
	Title       string `gorm:"not null" json:"title"`
	Description string `json:"description"`
	Status      string `gorm:"default:'todo'" json:"status"`
	Order       int    `gorm:"column:task_order;default:0" json:"order"` // kanban rank within status
	Priority    string `gorm:"default:'medium'" json:"priority"`
	AssigneeID  *uint  `gorm:"index" json:"assigneeId,omitempty"`
	StartDate   *Date  `json:"startDate,omitempty"`
	DueDate     *Date  `json:"dueDate,omitempty"`
}

// Comment on a task. UserID is the author, fixed from the session at
// creation and never client-supplied.
type Comment struct {
	gorm.Model

	TaskID uint   `gorm:"not null;index" json:"taskId"`
	UserID uint   `gorm:"not null;index" json:"userId"`
	Body   string `gorm:"type:text;not null" json:"body"`

	// Relations
	User *User `json:"user,omitempty"`
}

// File holds upload metadata only; content storage lives elsewhere.
// UploadedBy is fixed from the session at creation.
type File struct {
	gorm.Model

	ProjectID  uint   `gorm:"not null;index" json:"projectId"`
	TaskID     *uint  `gorm:"index" json:"taskId,omitempty"`
	UploadedBy uint   `gorm:"not null;index" json:"uploadedBy"`
	Name       string `gorm:"not null" json:"name"`
	Size       int64  `json:"size"`
	URL        string `json:"url"`
}

// Message is team chat; chat is team-scoped, not project-scoped.
// UserID is the author, fixed from the session at creation.
type Message struct {
	gorm.Model

	TeamID uint   `gorm:"not null;index" json:"teamId"`
	UserID uint   `gorm:"not null;index" json:"userId"`
	Body   string `gorm:"type:text;not null" json:"body"`

	// Relations
	User *User `json:"user,omitempty"`
}
