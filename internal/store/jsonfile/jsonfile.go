package jsonfile

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"sync"

	"account-api/internal/domain"
	"account-api/internal/store"
)

// Store persists the account collection as a JSON document on disk. A
// missing file reads as an empty collection so the first Save creates
// it.
type Store struct {
	path string
	mu   sync.Mutex
}

func New(path string) *Store {
	return &Store{path: path}
}

func (s *Store) Load(ctx context.Context) ([]domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := os.ReadFile(s.path)
	if err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			return nil, nil
		}
		return nil, fmt.Errorf("read %s: %w", s.path, err)
	}

	users, err := store.DecodeUsers(b)
	if err != nil {
		return nil, fmt.Errorf("load %s: %w", s.path, err)
	}
	return users, nil
}

func (s *Store) Save(ctx context.Context, users []domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	b, err := store.EncodeUsers(users)
	if err != nil {
		return err
	}

	if err := os.MkdirAll(filepath.Dir(s.path), 0o755); err != nil {
		return fmt.Errorf("create store dir: %w", err)
	}
	if err := os.WriteFile(s.path, b, 0o600); err != nil {
		return fmt.Errorf("write %s: %w", s.path, err)
	}
	return nil
}

var _ store.Store = (*Store)(nil)
