package domain

import (
	"regexp"
	"unicode/utf8"
)

// Field limits for account attributes, measured in runes.
const (
	UserIDMinLen   = 6
	UserIDMaxLen   = 20
	PasswordMinLen = 8
	PasswordMaxLen = 20
	NicknameMaxLen = 30
	CommentMaxLen  = 100
)

var (
	userIDPattern   = regexp.MustCompile(`^[A-Za-z0-9]+$`)
	passwordPattern = regexp.MustCompile(`^[\x21-\x7E]+$`)
)

// User is a stored account record. PasswordHash holds a bcrypt hash of
// the signup password; the raw password is never persisted.
type User struct {
	UserID       string
	PasswordHash string
	Nickname     string
	Comment      string
}

// NewUser builds an account with default profile values: the nickname
// starts out as the user_id and the comment empty.
func NewUser(userID, passwordHash string) User {
	return User{
		UserID:       userID,
		PasswordHash: passwordHash,
		Nickname:     userID,
		Comment:      "",
	}
}

// ValidateNewAccount checks signup credentials in contract order:
// presence, then length, then character pattern. The password is
// validated raw, before hashing.
func ValidateNewAccount(userID, password string) error {
	if userID == "" || password == "" {
		return &ValidationError{Cause: CauseCredentialsRequired}
	}
	if n := utf8.RuneCountInString(userID); n < UserIDMinLen || n > UserIDMaxLen {
		return &ValidationError{Cause: CauseIncorrectLength}
	}
	if n := utf8.RuneCountInString(password); n < PasswordMinLen || n > PasswordMaxLen {
		return &ValidationError{Cause: CauseIncorrectLength}
	}
	if !userIDPattern.MatchString(userID) || !passwordPattern.MatchString(password) {
		return &ValidationError{Cause: CauseIncorrectPattern}
	}
	return nil
}

// ProfilePatch carries the fields of an update request. A nil field was
// absent from the body, which is distinct from a present empty string.
// UserID and Password are captured only to reject them.
type ProfilePatch struct {
	Nickname *string
	Comment  *string
	UserID   *string
	Password *string
}

// Validate checks a patch in contract order: immutable fields first,
// then the empty patch, then field limits. A present-but-empty UserID
// or Password does not count as an immutable write.
func (p ProfilePatch) Validate() error {
	if truthy(p.UserID) || truthy(p.Password) {
		return &ValidationError{Cause: CauseImmutableField}
	}
	if p.Nickname == nil && p.Comment == nil {
		return &ValidationError{Cause: CauseNothingToUpdate}
	}
	if p.Nickname != nil && utf8.RuneCountInString(*p.Nickname) > NicknameMaxLen {
		return &ValidationError{Cause: CauseFieldTooLong}
	}
	if p.Comment != nil && utf8.RuneCountInString(*p.Comment) > CommentMaxLen {
		return &ValidationError{Cause: CauseFieldTooLong}
	}
	return nil
}

// ApplyPatch writes a validated patch onto the user. A present empty
// string resets the field to its default, an absent field is left
// untouched.
func (u *User) ApplyPatch(p ProfilePatch) {
	if p.Nickname != nil {
		if *p.Nickname == "" {
			u.Nickname = u.UserID
		} else {
			u.Nickname = *p.Nickname
		}
	}
	if p.Comment != nil {
		u.Comment = *p.Comment
	}
}

func truthy(s *string) bool {
	return s != nil && *s != ""
}
