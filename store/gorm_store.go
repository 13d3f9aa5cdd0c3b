package store

import (
	"context"
	"errors"

	"gorm.io/gorm"

	"teamhub/models"
)

// GormStore backs Store with a relational database through GORM.
type GormStore struct {
	db *gorm.DB
}

func NewGormStore(db *gorm.DB) *GormStore {
	return &GormStore{db: db}
}

// Migrate creates or updates the schema for all entities.
func (s *GormStore) Migrate() error {
	return s.db.AutoMigrate(
		&models.User{},
		&models.Team{},
		&models.TeamMember{},
		&models.Project{},
		&models.Task{},
		&models.Comment{},
		&models.File{},
		&models.Message{},
	)
}

func wrapErr(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return ErrNotFound
	}
	return err
}

// deleteByID removes one row and reports ErrNotFound when nothing matched,
// so deleting an already-deleted resource surfaces as 404, not 500.
func (s *GormStore) deleteByID(ctx context.Context, model interface{}, id uint) error {
	res := s.db.WithContext(ctx).Delete(model, id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Users

func (s *GormStore) CreateUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Create(u).Error
}

func (s *GormStore) UserByID(ctx context.Context, id uint) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &u, nil
}

func (s *GormStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).Where("username = ?", username).First(&u).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &u, nil
}

func (s *GormStore) Users(ctx context.Context) ([]models.User, error) {
	var users []models.User
	if err := s.db.WithContext(ctx).Order("id").Find(&users).Error; err != nil {
		return nil, err
	}
	return users, nil
}

func (s *GormStore) SaveUser(ctx context.Context, u *models.User) error {
	return s.db.WithContext(ctx).Save(u).Error
}

func (s *GormStore) DeleteUser(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.User{}, id)
}

// Teams

func (s *GormStore) CreateTeam(ctx context.Context, t *models.Team) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *GormStore) TeamByID(ctx context.Context, id uint) (*models.Team, error) {
	var t models.Team
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &t, nil
}

func (s *GormStore) TeamsForUser(ctx context.Context, userID uint) ([]models.Team, error) {
	var teams []models.Team
	err := s.db.WithContext(ctx).
		Joins("JOIN team_members ON team_members.team_id = teams.id").
		Where("team_members.user_id = ? AND team_members.deleted_at IS NULL", userID).
		Order("teams.id").
		Find(&teams).Error
	if err != nil {
		return nil, err
	}
	return teams, nil
}

func (s *GormStore) SaveTeam(ctx context.Context, t *models.Team) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *GormStore) DeleteTeam(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Team{}, id)
}

// Team members

func (s *GormStore) AddMember(ctx context.Context, m *models.TeamMember) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *GormStore) Members(ctx context.Context, teamID uint) ([]models.TeamMember, error) {
	var members []models.TeamMember
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("team_id = ?", teamID).
		Order("id").
		Find(&members).Error
	if err != nil {
		return nil, err
	}
	return members, nil
}

func (s *GormStore) Member(ctx context.Context, teamID, userID uint) (*models.TeamMember, error) {
	var m models.TeamMember
	err := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		First(&m).Error
	if err != nil {
		return nil, wrapErr(err)
	}
	return &m, nil
}

func (s *GormStore) RemoveMember(ctx context.Context, teamID, userID uint) error {
	res := s.db.WithContext(ctx).
		Where("team_id = ? AND user_id = ?", teamID, userID).
		Delete(&models.TeamMember{})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// Projects

func (s *GormStore) CreateProject(ctx context.Context, p *models.Project) error {
	return s.db.WithContext(ctx).Create(p).Error
}

func (s *GormStore) ProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	var p models.Project
	if err := s.db.WithContext(ctx).First(&p, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &p, nil
}

func (s *GormStore) ProjectsByTeam(ctx context.Context, teamID uint) ([]models.Project, error) {
	var projects []models.Project
	if err := s.db.WithContext(ctx).Where("team_id = ?", teamID).Order("id").Find(&projects).Error; err != nil {
		return nil, err
	}
	return projects, nil
}

func (s *GormStore) SaveProject(ctx context.Context, p *models.Project) error {
	return s.db.WithContext(ctx).Save(p).Error
}

func (s *GormStore) DeleteProject(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Project{}, id)
}

// Tasks

func (s *GormStore) CreateTask(ctx context.Context, t *models.Task) error {
	return s.db.WithContext(ctx).Create(t).Error
}

func (s *GormStore) TaskByID(ctx context.Context, id uint) (*models.Task, error) {
	var t models.Task
	if err := s.db.WithContext(ctx).First(&t, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &t, nil
}

func (s *GormStore) TasksByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("project_id = ?", projectID).
		Order("task_order, id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *GormStore) TasksByAssignee(ctx context.Context, userID uint) ([]models.Task, error) {
	var tasks []models.Task
	err := s.db.WithContext(ctx).
		Where("assignee_id = ?", userID).
		Order("task_order, id").
		Find(&tasks).Error
	if err != nil {
		return nil, err
	}
	return tasks, nil
}

func (s *GormStore) SaveTask(ctx context.Context, t *models.Task) error {
	return s.db.WithContext(ctx).Save(t).Error
}

func (s *GormStore) DeleteTask(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Task{}, id)
}

// Comments

func (s *GormStore) CreateComment(ctx context.Context, c *models.Comment) error {
	return s.db.WithContext(ctx).Create(c).Error
}

func (s *GormStore) CommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	var c models.Comment
	if err := s.db.WithContext(ctx).First(&c, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &c, nil
}

func (s *GormStore) CommentsByTask(ctx context.Context, taskID uint) ([]models.Comment, error) {
	var comments []models.Comment
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("task_id = ?", taskID).
		Order("id").
		Find(&comments).Error
	if err != nil {
		return nil, err
	}
	return comments, nil
}

func (s *GormStore) DeleteComment(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Comment{}, id)
}

// Files

func (s *GormStore) CreateFile(ctx context.Context, f *models.File) error {
	return s.db.WithContext(ctx).Create(f).Error
}

func (s *GormStore) FileByID(ctx context.Context, id uint) (*models.File, error) {
	var f models.File
	if err := s.db.WithContext(ctx).First(&f, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &f, nil
}

func (s *GormStore) FilesByProject(ctx context.Context, projectID uint) ([]models.File, error) {
	var files []models.File
	if err := s.db.WithContext(ctx).Where("project_id = ?", projectID).Order("id").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (s *GormStore) FilesByTask(ctx context.Context, taskID uint) ([]models.File, error) {
	var files []models.File
	if err := s.db.WithContext(ctx).Where("task_id = ?", taskID).Order("id").Find(&files).Error; err != nil {
		return nil, err
	}
	return files, nil
}

func (s *GormStore) DeleteFile(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.File{}, id)
}

// Messages

func (s *GormStore) CreateMessage(ctx context.Context, m *models.Message) error {
	return s.db.WithContext(ctx).Create(m).Error
}

func (s *GormStore) MessageByID(ctx context.Context, id uint) (*models.Message, error) {
	var m models.Message
	if err := s.db.WithContext(ctx).First(&m, id).Error; err != nil {
		return nil, wrapErr(err)
	}
	return &m, nil
}

func (s *GormStore) MessagesByTeam(ctx context.Context, teamID uint) ([]models.Message, error) {
	var messages []models.Message
	err := s.db.WithContext(ctx).
		Preload("User").
		Where("team_id = ?", teamID).
		Order("id").
		Find(&messages).Error
	if err != nil {
		return nil, err
	}
	return messages, nil
}

func (s *GormStore) DeleteMessage(ctx context.Context, id uint) error {
	return s.deleteByID(ctx, &models.Message{}, id)
}

// Transact

func (s *GormStore) Transact(ctx context.Context, fn func(Store) error) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		return fn(&GormStore{db: tx})
	})
}
