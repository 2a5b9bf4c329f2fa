package auth

import (
	"time"
)

// testJWTSecret is long enough to satisfy the minimum key length check.
const testJWTSecret = "test-secret-that-is-long-enough-for-testing"

// NewTestJWTService creates a JWT service with an injectable clock for
// predictable expiry behavior in tests.
func NewTestJWTService(
	secret string,
	accessLifetime time.Duration,
	refreshLifetime time.Duration,
	timeFunc func() time.Time,
) JWTService {
	if timeFunc == nil {
		timeFunc = time.Now
	}
	return &hmacJWTService{
		signingKey:           []byte(secret),
		tokenLifetime:        accessLifetime,
		refreshTokenLifetime: refreshLifetime,
		timeFunc:             timeFunc,
		clockSkew:            0,
	}
}
