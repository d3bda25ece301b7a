package memory

import (
	"context"
	"sync"

	"account-api/internal/domain"
	"account-api/internal/store"
)

// Store keeps the account collection in process memory. State is lost
// on restart.
type Store struct {
	mu    sync.RWMutex
	users []domain.User
}

func New() *Store {
	return &Store{}
}

func (s *Store) Load(ctx context.Context) ([]domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	out := make([]domain.User, len(s.users))
	copy(out, s.users)
	return out, nil
}

func (s *Store) Save(ctx context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.users = make([]domain.User, len(users))
	copy(s.users, users)
	return nil
}

var _ store.Store = (*Store)(nil)
