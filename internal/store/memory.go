package store

import (
	"context"
	"sync"

	"dashboard/internal/models"
)

// MemoryStore keeps users in process memory. Everything is lost on restart.
type MemoryStore struct {
	mu      sync.RWMutex
	byID    map[string]*models.User
	byEmail map[string]string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[string]*models.User),
		byEmail: make(map[string]string),
	}
}

func (s *MemoryStore) FindByEmail(ctx context.Context, email string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byEmail[NormalizeEmail(email)]
	if !ok {
		return nil, ErrNotFound
	}
	return s.byID[id].Clone(), nil
}

func (s *MemoryStore) FindByID(ctx context.Context, id string) (*models.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	u, ok := s.byID[id]
	if !ok {
		return nil, ErrNotFound
	}
	return u.Clone(), nil
}

func (s *MemoryStore) Insert(ctx context.Context, user *models.User) error {
	key := NormalizeEmail(user.Email)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byEmail[key]; exists {
		return ErrDuplicateEmail
	}
	s.byID[user.ID] = user.Clone()
	s.byEmail[key] = user.ID
	return nil
}

func (s *MemoryStore) Update(ctx context.Context, user *models.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	cur, ok := s.byID[user.ID]
	if !ok {
		return ErrNotFound
	}
	oldKey, newKey := NormalizeEmail(cur.Email), NormalizeEmail(user.Email)
	if oldKey != newKey {
		if _, taken := s.byEmail[newKey]; taken {
			return ErrDuplicateEmail
		}
		delete(s.byEmail, oldKey)
		s.byEmail[newKey] = user.ID
	}
	s.byID[user.ID] = user.Clone()
	return nil
}

// SetActive flips the isActive flag. There is no HTTP route for it.
func (s *MemoryStore) SetActive(id string, active bool) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	u, ok := s.byID[id]
	if !ok {
		return ErrNotFound
	}
	u.IsActive = active
	return nil
}

// Len reports the number of stored users.
func (s *MemoryStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.byID)
}
