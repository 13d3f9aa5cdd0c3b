package store

import (
	"context"
	"sort"
	"sync"

	"teamhub/models"
)

// MemoryStore is an in-memory Store used by tests and local development.
// Semantics match GormStore: lookups and deletes of absent rows return
// ErrNotFound, list results are ordered by id.
type MemoryStore struct {
	mu sync.RWMutex
	tx sync.Mutex

	nextID   uint
	users    map[uint]models.User
	teams    map[uint]models.Team
	members  map[uint]models.TeamMember
	projects map[uint]models.Project
	tasks    map[uint]models.Task
	comments map[uint]models.Comment
	files    map[uint]models.File
	messages map[uint]models.Message
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		nextID:   1,
		users:    make(map[uint]models.User),
		teams:    make(map[uint]models.Team),
		members:  make(map[uint]models.TeamMember),
		projects: make(map[uint]models.Project),
		tasks:    make(map[uint]models.Task),
		comments: make(map[uint]models.Comment),
		files:    make(map[uint]models.File),
		messages: make(map[uint]models.Message),
	}
}

func (s *MemoryStore) allocID() uint {
	id := s.nextID
	s.nextID++
	return id
}

// Users

func (s *MemoryStore) CreateUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.allocID()
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) UserByID(ctx context.Context, id uint) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &u, nil
}

func (s *MemoryStore) UserByUsername(ctx context.Context, username string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, u := range s.users {
		if u.Username == username {
			u := u
			return &u, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) Users(ctx context.Context) ([]models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]models.User, 0, len(s.users))
	for _, u := range s.users {
		out = append(out, u)
	}
	sortByID(out, func(u models.User) uint { return u.ID })
	return out, nil
}

func (s *MemoryStore) SaveUser(ctx context.Context, u *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[u.ID]; !ok {
		return ErrNotFound
	}
	s.users[u.ID] = *u
	return nil
}

func (s *MemoryStore) DeleteUser(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.users[id]; !ok {
		return ErrNotFound
	}
	delete(s.users, id)
	return nil
}

// Teams

func (s *MemoryStore) CreateTeam(ctx context.Context, t *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.allocID()
	s.teams[t.ID] = *t
	return nil
}

func (s *MemoryStore) TeamByID(ctx context.Context, id uint) (*models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.teams[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) TeamsForUser(ctx context.Context, userID uint) ([]models.Team, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Team
	for _, m := range s.members {
		if m.UserID == userID {
			if t, ok := s.teams[m.TeamID]; ok {
				out = append(out, t)
			}
		}
	}
	sortByID(out, func(t models.Team) uint { return t.ID })
	return out, nil
}

func (s *MemoryStore) SaveTeam(ctx context.Context, t *models.Team) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[t.ID]; !ok {
		return ErrNotFound
	}
	s.teams[t.ID] = *t
	return nil
}

func (s *MemoryStore) DeleteTeam(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.teams[id]; !ok {
		return ErrNotFound
	}
	delete(s.teams, id)
	return nil
}

// Team members

func (s *MemoryStore) AddMember(ctx context.Context, m *models.TeamMember) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.allocID()
	s.members[m.ID] = *m
	return nil
}

func (s *MemoryStore) Members(ctx context.Context, teamID uint) ([]models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.TeamMember
	for _, m := range s.members {
		if m.TeamID == teamID {
			if u, ok := s.users[m.UserID]; ok {
				u := u
				m.User = &u
			}
			out = append(out, m)
		}
	}
	sortByID(out, func(m models.TeamMember) uint { return m.ID })
	return out, nil
}

func (s *MemoryStore) Member(ctx context.Context, teamID, userID uint) (*models.TeamMember, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, m := range s.members {
		if m.TeamID == teamID && m.UserID == userID {
			m := m
			return &m, nil
		}
	}
	return nil, ErrNotFound
}

func (s *MemoryStore) RemoveMember(ctx context.Context, teamID, userID uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	for id, m := range s.members {
		if m.TeamID == teamID && m.UserID == userID {
			delete(s.members, id)
			return nil
		}
	}
	return ErrNotFound
}

// Projects

func (s *MemoryStore) CreateProject(ctx context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	p.ID = s.allocID()
	s.projects[p.ID] = *p
	return nil
}

func (s *MemoryStore) ProjectByID(ctx context.Context, id uint) (*models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	p, ok := s.projects[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &p, nil
}

func (s *MemoryStore) ProjectsByTeam(ctx context.Context, teamID uint) ([]models.Project, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Project
	for _, p := range s.projects {
		if p.TeamID == teamID {
			out = append(out, p)
		}
	}
	sortByID(out, func(p models.Project) uint { return p.ID })
	return out, nil
}

func (s *MemoryStore) SaveProject(ctx context.Context, p *models.Project) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[p.ID]; !ok {
		return ErrNotFound
	}
	s.projects[p.ID] = *p
	return nil
}

func (s *MemoryStore) DeleteProject(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.projects[id]; !ok {
		return ErrNotFound
	}
	delete(s.projects, id)
	return nil
}

// Tasks

func (s *MemoryStore) CreateTask(ctx context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	t.ID = s.allocID()
	s.tasks[t.ID] = *t
	return nil
}

func (s *MemoryStore) TaskByID(ctx context.Context, id uint) (*models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	t, ok := s.tasks[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &t, nil
}

func (s *MemoryStore) TasksByProject(ctx context.Context, projectID uint) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.ProjectID == projectID {
			out = append(out, t)
		}
	}
	sortTasks(out)
	return out, nil
}

func (s *MemoryStore) TasksByAssignee(ctx context.Context, userID uint) ([]models.Task, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Task
	for _, t := range s.tasks {
		if t.AssigneeID != nil && *t.AssigneeID == userID {
			out = append(out, t)
		}
	}
	sortTasks(out)
	return out, nil
}

func (s *MemoryStore) SaveTask(ctx context.Context, t *models.Task) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[t.ID]; !ok {
		return ErrNotFound
	}
	s.tasks[t.ID] = *t
	return nil
}

func (s *MemoryStore) DeleteTask(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tasks[id]; !ok {
		return ErrNotFound
	}
	delete(s.tasks, id)
	return nil
}

// Comments

func (s *MemoryStore) CreateComment(ctx context.Context, c *models.Comment) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	c.ID = s.allocID()
	s.comments[c.ID] = *c
	return nil
}

func (s *MemoryStore) CommentByID(ctx context.Context, id uint) (*models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	c, ok := s.comments[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &c, nil
}

func (s *MemoryStore) CommentsByTask(ctx context.Context, taskID uint) ([]models.Comment, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Comment
	for _, c := range s.comments {
		if c.TaskID == taskID {
			if u, ok := s.users[c.UserID]; ok {
				u := u
				c.User = &u
			}
			out = append(out, c)
		}
	}
	sortByID(out, func(c models.Comment) uint { return c.ID })
	return out, nil
}

func (s *MemoryStore) DeleteComment(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.comments[id]; !ok {
		return ErrNotFound
	}
	delete(s.comments, id)
	return nil
}

// Files

func (s *MemoryStore) CreateFile(ctx context.Context, f *models.File) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	f.ID = s.allocID()
	s.files[f.ID] = *f
	return nil
}

func (s *MemoryStore) FileByID(ctx context.Context, id uint) (*models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	f, ok := s.files[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &f, nil
}

func (s *MemoryStore) FilesByProject(ctx context.Context, projectID uint) ([]models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.File
	for _, f := range s.files {
		if f.ProjectID == projectID {
			out = append(out, f)
		}
	}
	sortByID(out, func(f models.File) uint { return f.ID })
	return out, nil
}

func (s *MemoryStore) FilesByTask(ctx context.Context, taskID uint) ([]models.File, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.File
	for _, f := range s.files {
		if f.TaskID != nil && *f.TaskID == taskID {
			out = append(out, f)
		}
	}
	sortByID(out, func(f models.File) uint { return f.ID })
	return out, nil
}

func (s *MemoryStore) DeleteFile(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.files[id]; !ok {
		return ErrNotFound
	}
	delete(s.files, id)
	return nil
}

// Messages

func (s *MemoryStore) CreateMessage(ctx context.Context, m *models.Message) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.allocID()
	s.messages[m.ID] = *m
	return nil
}

func (s *MemoryStore) MessageByID(ctx context.Context, id uint) (*models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	m, ok := s.messages[id]
	if !ok {
		return nil, ErrNotFound
	}
	return &m, nil
}

func (s *MemoryStore) MessagesByTeam(ctx context.Context, teamID uint) ([]models.Message, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	var out []models.Message
	for _, m := range s.messages {
		if m.TeamID == teamID {
			if u, ok := s.users[m.UserID]; ok {
				u := u
				m.User = &u
			}
			out = append(out, m)
		}
	}
	sortByID(out, func(m models.Message) uint { return m.ID })
	return out, nil
}

func (s *MemoryStore) DeleteMessage(ctx context.Context, id uint) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.messages[id]; !ok {
		return ErrNotFound
	}
	delete(s.messages, id)
	return nil
}

// Transact serializes concurrent transactions against the in-memory data.
// Mutations inside fn apply immediately; there is no rollback, which is
// sufficient for the tests and local use this implementation serves.
func (s *MemoryStore) Transact(ctx context.Context, fn func(Store) error) error {
	s.tx.Lock()
	defer s.tx.Unlock()
	return fn(s)
}

func sortByID[T any](items []T, id func(T) uint) {
	sort.Slice(items, func(i, j int) bool { return id(items[i]) < id(items[j]) })
}

func sortTasks(tasks []models.Task) {
	sort.Slice(tasks, func(i, j int) bool {
		if tasks[i].Order != tasks[j].Order {
			return tasks[i].Order < tasks[j].Order
		}
		return tasks[i].ID < tasks[j].ID
	})
}
