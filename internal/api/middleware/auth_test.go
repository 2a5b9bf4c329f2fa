package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/smarttasker/api/internal/service/auth"
)

const testSecret = "test-secret-that-is-long-enough-for-testing"

func TestAuthenticate(t *testing.T) {
	t.Parallel()

	jwtService := auth.NewTestJWTService(testSecret, 15*time.Minute, time.Hour, nil)
	mw := NewAuthMiddleware(jwtService)
	userID := uuid.New()

	// next records whether it ran and which user it saw.
	var sawUserID uuid.UUID
	var called bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
		sawUserID, _ = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	do := func(t *testing.T, authHeader string) *httptest.ResponseRecorder {
		t.Helper()
		called = false
		sawUserID = uuid.Nil

		req := httptest.NewRequest(http.MethodGet, "/tasks", nil)
		if authHeader != "" {
			req.Header.Set("Authorization", authHeader)
		}
		rec := httptest.NewRecorder()
		mw.Authenticate(next).ServeHTTP(rec, req)
		return rec
	}

	t.Run("valid bearer token passes through", func(t *testing.T) {
		token, err := jwtService.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		rec := do(t, "Bearer "+token)
		assert.Equal(t, http.StatusOK, rec.Code)
		assert.True(t, called)
		assert.Equal(t, userID, sawUserID)
	})

	t.Run("missing header rejected", func(t *testing.T) {
		rec := do(t, "")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("wrong scheme rejected", func(t *testing.T) {
		token, err := jwtService.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		rec := do(t, "Basic "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("garbage token rejected", func(t *testing.T) {
		rec := do(t, "Bearer garbage")
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("expired token rejected", func(t *testing.T) {
		past := time.Now().Add(-2 * time.Hour)
		expiredSvc := auth.NewTestJWTService(testSecret, 15*time.Minute, time.Hour, func() time.Time {
			return past
		})
		token, err := expiredSvc.GenerateToken(context.Background(), userID)
		require.NoError(t, err)

		rec := do(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})

	t.Run("refresh token rejected on protected routes", func(t *testing.T) {
		token, err := jwtService.GenerateRefreshToken(context.Background(), userID)
		require.NoError(t, err)

		rec := do(t, "Bearer "+token)
		assert.Equal(t, http.StatusUnauthorized, rec.Code)
		assert.False(t, called)
	})
}
