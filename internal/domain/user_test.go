package domain

import (
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(s string) *string { return &s }

func TestValidateNewAccount(t *testing.T) {
	tests := []struct {
		name      string
		userID    string
		password  string
		wantCause string
	}{
		{name: "minimum lengths", userID: "abc123", password: "pass1234"},
		{name: "maximum lengths", userID: strings.Repeat("a", 20), password: strings.Repeat("p", 20)},
		{name: "punctuation allowed in password", userID: "TaroYamada", password: "PASSwd4TY!"},
		{name: "missing user_id", userID: "", password: "pass1234", wantCause: CauseCredentialsRequired},
		{name: "missing password", userID: "abc123", password: "", wantCause: CauseCredentialsRequired},
		{name: "missing both", userID: "", password: "", wantCause: CauseCredentialsRequired},
		{name: "user_id too short", userID: "abc12", password: "pass1234", wantCause: CauseIncorrectLength},
		{name: "user_id too long", userID: strings.Repeat("a", 21), password: "pass1234", wantCause: CauseIncorrectLength},
		{name: "password too short", userID: "abc123", password: "pass123", wantCause: CauseIncorrectLength},
		{name: "password too long", userID: "abc123", password: strings.Repeat("p", 21), wantCause: CauseIncorrectLength},
		{name: "user_id with hyphen", userID: "abc-123", password: "pass1234", wantCause: CauseIncorrectPattern},
		{name: "user_id with multibyte runes", userID: "たろうたろう", password: "pass1234", wantCause: CauseIncorrectPattern},
		{name: "password with space", userID: "abc123", password: "pass 1234", wantCause: CauseIncorrectPattern},
		{name: "password with control char", userID: "abc123", password: "pass\t1234", wantCause: CauseIncorrectPattern},
		{name: "length checked before pattern", userID: "a-b", password: "pass1234", wantCause: CauseIncorrectLength},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := ValidateNewAccount(tt.userID, tt.password)
			if tt.wantCause == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantCause, verr.Cause)
		})
	}
}

func TestProfilePatchValidate(t *testing.T) {
	tests := []struct {
		name      string
		patch     ProfilePatch
		wantCause string
	}{
		{name: "nickname only", patch: ProfilePatch{Nickname: strPtr("Taro")}},
		{name: "comment only", patch: ProfilePatch{Comment: strPtr("hello")}},
		{name: "empty strings are valid resets", patch: ProfilePatch{Nickname: strPtr(""), Comment: strPtr("")}},
		{name: "nickname at limit", patch: ProfilePatch{Nickname: strPtr(strings.Repeat("ん", NicknameMaxLen))}},
		{name: "comment at limit", patch: ProfilePatch{Comment: strPtr(strings.Repeat("c", CommentMaxLen))}},
		{name: "user_id present", patch: ProfilePatch{UserID: strPtr("NewName123"), Nickname: strPtr("Taro")}, wantCause: CauseImmutableField},
		{name: "password present", patch: ProfilePatch{Password: strPtr("newpass123"), Comment: strPtr("x")}, wantCause: CauseImmutableField},
		{name: "immutable outranks missing fields", patch: ProfilePatch{UserID: strPtr("other12345")}, wantCause: CauseImmutableField},
		{name: "immutable outranks length", patch: ProfilePatch{Password: strPtr("p2345678"), Nickname: strPtr(strings.Repeat("n", NicknameMaxLen+1))}, wantCause: CauseImmutableField},
		{name: "empty user_id is not a write", patch: ProfilePatch{UserID: strPtr(""), Nickname: strPtr("Taro")}},
		{name: "nothing to update", patch: ProfilePatch{}, wantCause: CauseNothingToUpdate},
		{name: "empty user_id alone still lacks fields", patch: ProfilePatch{UserID: strPtr("")}, wantCause: CauseNothingToUpdate},
		{name: "nickname too long", patch: ProfilePatch{Nickname: strPtr(strings.Repeat("n", NicknameMaxLen+1))}, wantCause: CauseFieldTooLong},
		{name: "comment too long", patch: ProfilePatch{Comment: strPtr(strings.Repeat("ち", CommentMaxLen+1))}, wantCause: CauseFieldTooLong},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.patch.Validate()
			if tt.wantCause == "" {
				assert.NoError(t, err)
				return
			}
			var verr *ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Equal(t, tt.wantCause, verr.Cause)
		})
	}
}

func TestApplyPatch(t *testing.T) {
	base := User{UserID: "TaroYamada", PasswordHash: "hash", Nickname: "たろー", Comment: "僕は元気です"}

	t.Run("absent fields stay untouched", func(t *testing.T) {
		u := base
		u.ApplyPatch(ProfilePatch{Comment: strPtr("hello")})
		assert.Equal(t, "たろー", u.Nickname)
		assert.Equal(t, "hello", u.Comment)
	})

	t.Run("empty nickname resets to user_id", func(t *testing.T) {
		u := base
		u.ApplyPatch(ProfilePatch{Nickname: strPtr("")})
		assert.Equal(t, "TaroYamada", u.Nickname)
		assert.Equal(t, "僕は元気です", u.Comment)
	})

	t.Run("empty comment clears it", func(t *testing.T) {
		u := base
		u.ApplyPatch(ProfilePatch{Comment: strPtr("")})
		assert.Equal(t, "たろー", u.Nickname)
		assert.Empty(t, u.Comment)
	})

	t.Run("both fields replaced", func(t *testing.T) {
		u := base
		u.ApplyPatch(ProfilePatch{Nickname: strPtr("Taro"), Comment: strPtr("hi")})
		assert.Equal(t, "Taro", u.Nickname)
		assert.Equal(t, "hi", u.Comment)
	})

	t.Run("password hash and user_id never move", func(t *testing.T) {
		u := base
		u.ApplyPatch(ProfilePatch{Nickname: strPtr("Taro"), Comment: strPtr("hi")})
		assert.Equal(t, "TaroYamada", u.UserID)
		assert.Equal(t, "hash", u.PasswordHash)
	})
}

func TestNewUserDefaults(t *testing.T) {
	u := NewUser("TaroYamada", "hash")
	assert.Equal(t, "TaroYamada", u.UserID)
	assert.Equal(t, "TaroYamada", u.Nickname)
	assert.Empty(t, u.Comment)
	assert.Equal(t, "hash", u.PasswordHash)
}
