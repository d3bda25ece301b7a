package service

import (
	"context"
	"errors"
	"fmt"

	"golang.org/x/crypto/bcrypt"

	"account-api/internal/domain"
	"account-api/internal/store"
)

// ErrAuthenticationFailed indicates that Basic credentials match no stored account.
var ErrAuthenticationFailed = errors.New("authentication failed")

// AuthGate resolves per-request Basic credentials against the account
// store. It never writes.
type AuthGate interface {
	Authenticate(ctx context.Context, userID, password string) (*domain.User, error)
}

type authGate struct {
	users store.Store
}

func NewAuthGate(users store.Store) AuthGate {
	return &authGate{users: users}
}

func (g *authGate) Authenticate(ctx context.Context, userID, password string) (*domain.User, error) {
	if userID == "" || password == "" {
		return nil, ErrAuthenticationFailed
	}

	users, err := g.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}

	// Exact, case-sensitive user_id match; no trimming anywhere.
	for i := range users {
		if users[i].UserID != userID {
			continue
		}
		if bcrypt.CompareHashAndPassword([]byte(users[i].PasswordHash), []byte(password)) != nil {
			return nil, ErrAuthenticationFailed
		}
		return sanitizeUser(users[i]), nil
	}
	return nil, ErrAuthenticationFailed
}
