package auth

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/config"
)

const testSigningKey = "test-signing-key-with-at-least-32-bytes"

// newTestJWTService builds a service with a controllable clock.
func newTestJWTService(now *time.Time) *hmacJWTService {
	return &hmacJWTService{
		signingKey:           []byte(testSigningKey),
		tokenLifetime:        15 * time.Minute,
		refreshTokenLifetime: 7 * 24 * time.Hour,
		timeFunc:             func() time.Time { return *now },
		clockSkew:            2 * time.Minute,
	}
}

func TestNewJWTService(t *testing.T) {
	t.Run("rejects short secret", func(t *testing.T) {
		_, err := NewJWTService(config.AuthConfig{
			JWTSecret:                   "too-short",
			TokenLifetimeMinutes:        15,
			RefreshTokenLifetimeMinutes: 10080,
		})
		assert.Error(t, err)
	})

	t.Run("accepts valid config", func(t *testing.T) {
		svc, err := NewJWTService(config.AuthConfig{
			JWTSecret:                   testSigningKey,
			TokenLifetimeMinutes:        15,
			RefreshTokenLifetimeMinutes: 10080,
		})
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestJWTService_AccessTokenRoundTrip(t *testing.T) {
	now := time.Now()
	svc := newTestJWTService(&now)
	userID := uuid.New()

	token, err := svc.GenerateToken(context.Background(), userID)
	require.NoError(t, err)
	require.NotEmpty(t, token)

	claims, err := svc.ValidateToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "access", claims.TokenType)
	assert.Equal(t, userID.String(), claims.Subject)
	assert.NotEmpty(t, claims.ID)
	assert.WithinDuration(t, now.Add(15*time.Minute), claims.ExpiresAt, time.Second)
}

func TestJWTService_RefreshTokenRoundTrip(t *testing.T) {
	now := time.Now()
	svc := newTestJWTService(&now)
	userID := uuid.New()

	token, err := svc.GenerateRefreshToken(context.Background(), userID)
	require.NoError(t, err)

	claims, err := svc.ValidateRefreshToken(context.Background(), token)
	require.NoError(t, err)
	assert.Equal(t, userID, claims.UserID)
	assert.Equal(t, "refresh", claims.TokenType)
}

func TestJWTService_ExpiredAccessToken(t *testing.T) {
	now := time.Now()
	svc := newTestJWTService(&now)

	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	// Advance past the lifetime plus the clock skew allowance.
	now = now.Add(15*time.Minute + 3*time.Minute)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredToken)
}

func TestJWTService_ExpiredRefreshToken(t *testing.T) {
	now := time.Now()
	svc := newTestJWTService(&now)

	token, err := svc.GenerateRefreshToken(context.Background(), uuid.New())
	require.NoError(t, err)

	now = now.Add(7*24*time.Hour + 3*time.Minute)

	_, err = svc.ValidateRefreshToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrExpiredRefreshToken)
}

func TestJWTService_ClockSkewTolerated(t *testing.T) {
	now := time.Now()
	svc := newTestJWTService(&now)

	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	// One minute past expiry is still within the two minute skew window.
	now = now.Add(16 * time.Minute)

	_, err = svc.ValidateToken(context.Background(), token)
	assert.NoError(t, err)
}

func TestJWTService_WrongTokenType(t *testing.T) {
	now := time.Now()
	svc := newTestJWTService(&now)
	ctx := context.Background()

	accessToken, err := svc.GenerateToken(ctx, uuid.New())
	require.NoError(t, err)
	refreshToken, err := svc.GenerateRefreshToken(ctx, uuid.New())
	require.NoError(t, err)

	_, err = svc.ValidateRefreshToken(ctx, accessToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)

	_, err = svc.ValidateToken(ctx, refreshToken)
	assert.ErrorIs(t, err, ErrWrongTokenType)
}

func TestJWTService_MalformedToken(t *testing.T) {
	now := time.Now()
	svc := newTestJWTService(&now)

	_, err := svc.ValidateToken(context.Background(), "not.a.jwt")
	assert.ErrorIs(t, err, ErrInvalidToken)

	_, err = svc.ValidateRefreshToken(context.Background(), "")
	assert.ErrorIs(t, err, ErrInvalidRefreshToken)
}

func TestJWTService_TamperedSignature(t *testing.T) {
	now := time.Now()
	svc := newTestJWTService(&now)

	token, err := svc.GenerateToken(context.Background(), uuid.New())
	require.NoError(t, err)

	other := newTestJWTService(&now)
	other.signingKey = []byte("a-completely-different-32-byte-key!!")

	_, err = other.ValidateToken(context.Background(), token)
	assert.ErrorIs(t, err, ErrInvalidToken)
}
