package store

import (
	"context"
	"errors"

	"teamhub/models"
)

// ErrNotFound is returned by every lookup and delete whose target row does
// not exist, including deletes of already-deleted rows.
var ErrNotFound = errors.New("record not found")

// Store is the narrow CRUD surface the handlers and the authorization core
// consume. Two implementations exist: a GORM/Postgres one for production and
// an in-memory one with identical semantics for tests and local development.
type Store interface {
	// Users
	CreateUser(ctx context.Context, u *models.User) error
	UserByID(ctx context.Context, id uint) (*models.User, error)
	UserByUsername(ctx context.Context, username string) (*models.User, error)
	Users(ctx context.Context) ([]models.User, error)
	SaveUser(ctx context.Context, u *models.User) error
	DeleteUser(ctx context.Context, id uint) error

	// Teams
	CreateTeam(ctx context.Context, t *models.Team) error
	TeamByID(ctx context.Context, id uint) (*models.Team, error)
	TeamsForUser(ctx context.Context, userID uint) ([]models.Team, error)
	SaveTeam(ctx context.Context, t *models.Team) error
	DeleteTeam(ctx context.Context, id uint) error

	// Team members
	AddMember(ctx context.Context, m *models.TeamMember) error
	Members(ctx context.Context, teamID uint) ([]models.TeamMember, error)
	Member(ctx context.Context, teamID, userID uint) (*models.TeamMember, error)
	RemoveMember(ctx context.Context, teamID, userID uint) error

	// Projects
	CreateProject(ctx context.Context, p *models.Project) error
	ProjectByID(ctx context.Context, id uint) (*models.Project, error)
	ProjectsByTeam(ctx context.Context, teamID uint) ([]models.Project, error)
	SaveProject(ctx context.Context, p *models.Project) error
	DeleteProject(ctx context.Context, id uint) error

	// Tasks
	CreateTask(ctx context.Context, t *models.Task) error
	TaskByID(ctx context.Context, id uint) (*models.Task, error)
	TasksByProject(ctx context.Context, projectID uint) ([]models.Task, error)
	TasksByAssignee(ctx context.Context, userID uint) ([]models.Task, error)
	SaveTask(ctx context.Context, t *models.Task) error
	DeleteTask(ctx context.Context, id uint) error

	// Comments
	CreateComment(ctx context.Context, c *models.Comment) error
	CommentByID(ctx context.Context, id uint) (*models.Comment, error)
	CommentsByTask(ctx context.Context, taskID uint) ([]models.Comment, error)
	DeleteComment(ctx context.Context, id uint) error

	// Files
	CreateFile(ctx context.Context, f *models.File) error
	FileByID(ctx context.Context, id uint) (*models.File, error)
	FilesByProject(ctx context.Context, projectID uint) ([]models.File, error)
	FilesByTask(ctx context.Context, taskID uint) ([]models.File, error)
	DeleteFile(ctx context.Context, id uint) error

	// Messages
	CreateMessage(ctx context.Context, m *models.Message) error
	MessageByID(ctx context.Context, id uint) (*models.Message, error)
	MessagesByTeam(ctx context.Context, teamID uint) ([]models.Message, error)
	DeleteMessage(ctx context.Context, id uint) error

	// Transact runs fn against a store view inside one transaction, so a
	// membership check and the mutation it guards commit or fail together.
	Transact(ctx context.Context, fn func(Store) error) error
}
