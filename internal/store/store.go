package store

import (
	"context"

	"account-api/internal/domain"
)

// Store persists the full account collection. Load returns every stored
// record and Save replaces the collection wholesale. Implementations
// are safe for concurrent use on their own; callers that need a
// consistent load-modify-save sequence serialize it themselves.
type Store interface {
	Load(ctx context.Context) ([]domain.User, error)
	Save(ctx context.Context, users []domain.User) error
}
