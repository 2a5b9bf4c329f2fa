package auth

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"
)

func TestBcryptHasher(t *testing.T) {
	t.Parallel()

	// MinCost keeps these tests fast; production uses the configured cost.
	hasher := NewBcryptHasher(bcrypt.MinCost)
	verifier := NewBcryptVerifier()

	t.Run("hash and compare round trip", func(t *testing.T) {
		t.Parallel()
		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		require.NotEmpty(t, hash)
		assert.NotEqual(t, "correct horse battery staple", hash)

		require.NoError(t, verifier.Compare(hash, "correct horse battery staple"))
	})

	t.Run("compare rejects wrong password", func(t *testing.T) {
		t.Parallel()
		hash, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)

		assert.Error(t, verifier.Compare(hash, "incorrect horse"))
	})

	t.Run("same password hashes differently", func(t *testing.T) {
		t.Parallel()
		hash1, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)
		hash2, err := hasher.Hash("correct horse battery staple")
		require.NoError(t, err)

		assert.NotEqual(t, hash1, hash2)
	})

	t.Run("invalid cost falls back to default", func(t *testing.T) {
		t.Parallel()
		h := NewBcryptHasher(0)
		require.NotNil(t, h)

		hash, err := h.Hash("correct horse battery staple")
		require.NoError(t, err)

		cost, err := bcrypt.Cost([]byte(hash))
		require.NoError(t, err)
		assert.Equal(t, bcrypt.DefaultCost, cost)
	})
}
