package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"golang.org/x/crypto/bcrypt"

	"account-api/internal/domain"
	"account-api/internal/store"
)

var (
	// ErrPermissionDenied is returned when a caller targets an account other than their own.
	ErrPermissionDenied = errors.New("no permission for update")
	// ErrUserNotFound is returned when the target account does not exist.
	ErrUserNotFound = errors.New("user not found")
)

// Credentials carries the Basic auth pair attached to a request.
type Credentials struct {
	UserID   string
	Password string
}

// AccountService implements the account lifecycle: signup, profile
// fetch, profile update, close. Every store access runs under a
// service-level lock so each load-modify-save sequence is serialized,
// including the authentication read of mutating operations.
type AccountService interface {
	SignUp(ctx context.Context, userID, password string) (*domain.User, error)
	GetProfile(ctx context.Context, creds Credentials, targetID string) (*domain.User, error)
	UpdateProfile(ctx context.Context, creds Credentials, targetID string, patch domain.ProfilePatch) (*domain.User, error)
	CloseAccount(ctx context.Context, creds Credentials) error
}

type accountService struct {
	users store.Store
	gate  AuthGate
	mu    sync.RWMutex
}

func NewAccountService(users store.Store, gate AuthGate) AccountService {
	return &accountService{users: users, gate: gate}
}

func (s *accountService) SignUp(ctx context.Context, userID, password string) (*domain.User, error) {
	if err := domain.ValidateNewAccount(userID, password); err != nil {
		return nil, err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	if findUser(users, userID) >= 0 {
		return nil, &domain.ValidationError{Cause: domain.CauseDuplicateUserID}
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	user := domain.NewUser(userID, string(hash))
	if err := s.users.Save(ctx, append(users, user)); err != nil {
		return nil, fmt.Errorf("save users: %w", err)
	}
	return sanitizeUser(user), nil
}

func (s *accountService) GetProfile(ctx context.Context, creds Credentials, targetID string) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	if _, err := s.gate.Authenticate(ctx, creds.UserID, creds.Password); err != nil {
		return nil, err
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	idx := findUser(users, targetID)
	if idx < 0 {
		return nil, ErrUserNotFound
	}
	return sanitizeUser(users[idx]), nil
}

func (s *accountService) UpdateProfile(ctx context.Context, creds Credentials, targetID string, patch domain.ProfilePatch) (*domain.User, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.gate.Authenticate(ctx, creds.UserID, creds.Password)
	if err != nil {
		return nil, err
	}
	if caller.UserID != targetID {
		return nil, ErrPermissionDenied
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return nil, fmt.Errorf("load users: %w", err)
	}
	idx := findUser(users, targetID)
	if idx < 0 {
		return nil, ErrUserNotFound
	}

	if err := patch.Validate(); err != nil {
		return nil, err
	}

	users[idx].ApplyPatch(patch)
	if err := s.users.Save(ctx, users); err != nil {
		return nil, fmt.Errorf("save users: %w", err)
	}
	return sanitizeUser(users[idx]), nil
}

func (s *accountService) CloseAccount(ctx context.Context, creds Credentials) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	caller, err := s.gate.Authenticate(ctx, creds.UserID, creds.Password)
	if err != nil {
		return err
	}

	users, err := s.users.Load(ctx)
	if err != nil {
		return fmt.Errorf("load users: %w", err)
	}
	kept := make([]domain.User, 0, len(users))
	for _, u := range users {
		if u.UserID != caller.UserID {
			kept = append(kept, u)
		}
	}
	if err := s.users.Save(ctx, kept); err != nil {
		return fmt.Errorf("save users: %w", err)
	}
	return nil
}

func findUser(users []domain.User, userID string) int {
	for i := range users {
		if users[i].UserID == userID {
			return i
		}
	}
	return -1
}

func sanitizeUser(u domain.User) *domain.User {
	u.PasswordHash = ""
	return &u
}
