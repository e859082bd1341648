package middleware

import (
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/mocks"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/service/auth"
)

func TestAuthenticate_SetsUserID(t *testing.T) {
	userID := uuid.New()
	jwtService := &mocks.MockJWTService{
		Claims: &auth.Claims{UserID: userID, TokenType: "access"},
	}
	middleware := NewAuthMiddleware(jwtService)

	var gotUserID uuid.UUID
	var found bool
	next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotUserID, found = GetUserID(r)
		w.WriteHeader(http.StatusOK)
	})

	req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
	req.Header.Set("Authorization", "Bearer valid-token")
	rec := httptest.NewRecorder()

	middleware.Authenticate(next).ServeHTTP(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)
	assert.True(t, found)
	assert.Equal(t, userID, gotUserID)
}

func TestAuthenticate_Rejections(t *testing.T) {
	tests := []struct {
		name       string
		header     string
		serviceErr error
		wantBody   string
	}{
		{"missing header", "", nil, "Authorization header required"},
		{"not bearer", "Basic abc123", nil, "Invalid authorization format"},
		{"malformed header", "Bearer", nil, "Invalid authorization format"},
		{"expired token", "Bearer stale", auth.ErrExpiredToken, "Token expired"},
		{"invalid token", "Bearer junk", auth.ErrInvalidToken, "Invalid token"},
		{"refresh token used as access", "Bearer refresh", auth.ErrWrongTokenType, "Invalid token"},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			jwtService := &mocks.MockJWTService{Err: tc.serviceErr}
			middleware := NewAuthMiddleware(jwtService)

			nextCalled := false
			next := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				nextCalled = true
			})

			req := httptest.NewRequest(http.MethodGet, "/api/flashcards", nil)
			if tc.header != "" {
				req.Header.Set("Authorization", tc.header)
			}
			rec := httptest.NewRecorder()

			middleware.Authenticate(next).ServeHTTP(rec, req)

			assert.Equal(t, http.StatusUnauthorized, rec.Code)
			assert.Contains(t, rec.Body.String(), tc.wantBody)
			assert.False(t, nextCalled)
		})
	}
}
