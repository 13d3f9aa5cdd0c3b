package session

import (
	"context"
	"sync"
	"time"
)

type memorySession struct {
	userID    uint
	expiresAt time.Time
}

// MemoryManager keeps sessions in process memory. Used when Redis is
// disabled and throughout the tests. Expired entries are dropped lazily
// on lookup.
type MemoryManager struct {
	mu       sync.Mutex
	sessions map[string]memorySession
	now      func() time.Time
}

func NewMemoryManager() *MemoryManager {
	return &MemoryManager{
		sessions: make(map[string]memorySession),
		now:      time.Now,
	}
}

func (m *MemoryManager) Create(ctx context.Context, userID uint) (string, error) {
	token, err := newToken()
	if err != nil {
		return "", err
	}
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[token] = memorySession{userID: userID, expiresAt: m.now().Add(TTL)}
	return token, nil
}

func (m *MemoryManager) UserID(ctx context.Context, token string) (uint, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	sess, ok := m.sessions[token]
	if !ok {
		return 0, ErrNotFound
	}
	if m.now().After(sess.expiresAt) {
		delete(m.sessions, token)
		return 0, ErrNotFound
	}
	return sess.userID, nil
}

func (m *MemoryManager) Destroy(ctx context.Context, token string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, token)
	return nil
}
