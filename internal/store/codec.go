package store

import (
	"encoding/json"
	"fmt"

	"account-api/internal/domain"
)

// record is the persisted shape shared by the file and object backends.
type record struct {
	UserID       string `json:"user_id"`
	PasswordHash string `json:"password_hash"`
	Nickname     string `json:"nickname"`
	Comment      string `json:"comment"`
}

// EncodeUsers renders the collection as a JSON document.
func EncodeUsers(users []domain.User) ([]byte, error) {
	records := make([]record, len(users))
	for i, u := range users {
		records[i] = record{
			UserID:       u.UserID,
			PasswordHash: u.PasswordHash,
			Nickname:     u.Nickname,
			Comment:      u.Comment,
		}
	}

	b, err := json.MarshalIndent(records, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("encode users: %w", err)
	}
	return append(b, '\n'), nil
}

// DecodeUsers parses a JSON document produced by EncodeUsers and runs
// Conform on the result.
func DecodeUsers(b []byte) ([]domain.User, error) {
	var records []record
	if err := json.Unmarshal(b, &records); err != nil {
		return nil, fmt.Errorf("decode users: %w", err)
	}

	users := make([]domain.User, len(records))
	for i, r := range records {
		users[i] = domain.User{
			UserID:       r.UserID,
			PasswordHash: r.PasswordHash,
			Nickname:     r.Nickname,
			Comment:      r.Comment,
		}
	}
	return Conform(users)
}

// Conform re-establishes record invariants on externally loaded data:
// an empty nickname falls back to the user_id. Records without a
// user_id, or sharing one, are corrupt and rejected outright.
func Conform(users []domain.User) ([]domain.User, error) {
	seen := make(map[string]struct{}, len(users))
	for i := range users {
		if users[i].UserID == "" {
			return nil, fmt.Errorf("user record %d: missing user_id", i)
		}
		if _, ok := seen[users[i].UserID]; ok {
			return nil, fmt.Errorf("duplicate user_id %q", users[i].UserID)
		}
		seen[users[i].UserID] = struct{}{}

		if users[i].Nickname == "" {
			users[i].Nickname = users[i].UserID
		}
	}
	return users, nil
}
