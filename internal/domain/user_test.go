package domain

import (
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewUser(t *testing.T) {
	t.Parallel()

	t.Run("creates valid user", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("ada@example.com", "correct horse battery staple")
		require.NoError(t, err)

		assert.NotEqual(t, uuid.Nil, user.ID)
		assert.Equal(t, "ada@example.com", user.Email)
		assert.Equal(t, "correct horse battery staple", user.Password)
		assert.Empty(t, user.HashedPassword)
		assert.False(t, user.CreatedAt.IsZero())
	})

	t.Run("normalizes email", func(t *testing.T) {
		t.Parallel()
		user, err := NewUser("  Ada@Example.COM ", "correct horse battery staple")
		require.NoError(t, err)
		assert.Equal(t, "ada@example.com", user.Email)
	})

	t.Run("rejects empty email", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("", "correct horse battery staple")
		require.ErrorIs(t, err, ErrEmptyEmail)
	})

	t.Run("rejects malformed email", func(t *testing.T) {
		t.Parallel()
		for _, email := range []string{"no-at-sign", "@nodomain.com", "user@", "user@nodot", "a@b@c.com"} {
			_, err := NewUser(email, "correct horse battery staple")
			assert.ErrorIs(t, err, ErrInvalidEmail, "email %q", email)
		}
	})

	t.Run("rejects short password", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("ada@example.com", "elevenchars")
		require.ErrorIs(t, err, ErrPasswordTooShort)
	})

	t.Run("rejects over-long password", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("ada@example.com", strings.Repeat("p", 73))
		require.ErrorIs(t, err, ErrPasswordTooLong)
	})

	t.Run("rejects empty password", func(t *testing.T) {
		t.Parallel()
		_, err := NewUser("ada@example.com", "")
		require.ErrorIs(t, err, ErrEmptyPassword)
	})
}

func TestUserValidate(t *testing.T) {
	t.Parallel()

	t.Run("stored user with only a hash is valid", func(t *testing.T) {
		t.Parallel()
		user := &User{
			ID:             uuid.New(),
			Email:          "ada@example.com",
			HashedPassword: "$2a$10$abcdefghijklmnopqrstuv",
		}
		require.NoError(t, user.Validate())
	})

	t.Run("rejects missing both password and hash", func(t *testing.T) {
		t.Parallel()
		user := &User{
			ID:    uuid.New(),
			Email: "ada@example.com",
		}
		require.ErrorIs(t, user.Validate(), ErrEmptyPassword)
	})

	t.Run("rejects nil ID", func(t *testing.T) {
		t.Parallel()
		user := &User{
			Email:          "ada@example.com",
			HashedPassword: "hash",
		}
		require.ErrorIs(t, user.Validate(), ErrEmptyUserID)
	})
}
