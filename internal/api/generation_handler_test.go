package api

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/api/shared"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/domain"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/generation"
	"github.com/MarekKrzyszczyk/10xdevs-project/internal/mocks"
)

// newGenerationRequest builds an authenticated POST /api/generations request.
func newGenerationRequest(t *testing.T, userID uuid.UUID, body any) *http.Request {
	t.Helper()

	var buf bytes.Buffer
	switch b := body.(type) {
	case string:
		buf.WriteString(b)
	default:
		require.NoError(t, json.NewEncoder(&buf).Encode(body))
	}

	req := httptest.NewRequest(http.MethodPost, "/api/generations", &buf)
	if userID != uuid.Nil {
		ctx := context.WithValue(req.Context(), shared.UserIDContextKey, userID)
		req = req.WithContext(ctx)
	}
	return req
}

func decodeErrorResponse(t *testing.T, rec *httptest.ResponseRecorder) shared.ErrorResponse {
	t.Helper()
	var resp shared.ErrorResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	return resp
}

func TestGenerationHandler_RejectsShortTextWithoutCallingGenerator(t *testing.T) {
	generator := &mocks.MockGenerator{}
	logStore := &mocks.MockGenerationLogStore{}
	handler := NewGenerationHandler(generator, logStore, nil)

	req := newGenerationRequest(t, uuid.New(), GenerateRequest{
		Text: strings.Repeat("a", 999),
	})
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "Validation failed", resp.Error)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "text", resp.Details[0].Field)
	assert.Contains(t, resp.Details[0].Message, "at least 1000")

	assert.Equal(t, 0, generator.CallCount(), "generator must not run for invalid input")
	assert.Empty(t, logStore.Entries())
}

func TestGenerationHandler_RejectsLongText(t *testing.T) {
	generator := &mocks.MockGenerator{}
	handler := NewGenerationHandler(generator, &mocks.MockGenerationLogStore{}, nil)

	req := newGenerationRequest(t, uuid.New(), GenerateRequest{
		Text: strings.Repeat("a", 10001),
	})
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	require.Len(t, resp.Details, 1)
	assert.Equal(t, "text", resp.Details[0].Field)
	assert.Contains(t, resp.Details[0].Message, "at most 10000")
	assert.Equal(t, 0, generator.CallCount())
}

func TestGenerationHandler_BoundaryLengthsReachGenerator(t *testing.T) {
	for _, length := range []int{1000, 10000} {
		generator := &mocks.MockGenerator{
			Result: &generation.Result{
				Suggestions: []generation.Suggestion{{Front: "Q", Back: "A"}},
				ModelUsed:   "openai/gpt-4o-mini",
				TokensUsed:  42,
			},
		}
		handler := NewGenerationHandler(generator, &mocks.MockGenerationLogStore{}, nil)

		req := newGenerationRequest(t, uuid.New(), GenerateRequest{
			Text: strings.Repeat("a", length),
		})
		rec := httptest.NewRecorder()

		handler.Generate(rec, req)

		assert.Equal(t, http.StatusOK, rec.Code, "length %d must be accepted", length)
		assert.Equal(t, 1, generator.CallCount())
	}
}

func TestGenerationHandler_TrimsBeforeLengthCheck(t *testing.T) {
	// 999 payload characters plus surrounding whitespace: still too short.
	generator := &mocks.MockGenerator{}
	handler := NewGenerationHandler(generator, &mocks.MockGenerationLogStore{}, nil)

	req := newGenerationRequest(t, uuid.New(), GenerateRequest{
		Text: "   " + strings.Repeat("a", 999) + "\n\n",
	})
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Equal(t, 0, generator.CallCount())
}

func TestGenerationHandler_Success(t *testing.T) {
	userID := uuid.New()
	generator := &mocks.MockGenerator{
		Result: &generation.Result{
			Suggestions: []generation.Suggestion{
				{Front: "Capital of France?", Back: "Paris"},
				{Front: "Capital of Spain?", Back: "Madrid"},
			},
			ModelUsed:  "openai/gpt-4o-mini",
			TokensUsed: 1234,
		},
	}
	logStore := &mocks.MockGenerationLogStore{}
	handler := NewGenerationHandler(generator, logStore, nil)

	req := newGenerationRequest(t, userID, GenerateRequest{
		Text: strings.Repeat("a", 2000),
	})
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	require.Equal(t, http.StatusOK, rec.Code)

	var resp GenerateResponse
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &resp))
	assert.NotEqual(t, uuid.Nil, resp.GenerationID)
	require.Len(t, resp.Suggestions, 2)
	assert.Equal(t, "Capital of France?", resp.Suggestions[0].Front)
	assert.Equal(t, "openai/gpt-4o-mini", resp.ModelUsed)
	assert.Equal(t, 1234, resp.TokensUsed)

	// The trimmed text reached the generator along with the caller identity.
	require.Equal(t, 1, generator.CallCount())
	assert.Equal(t, userID, generator.GenerateCalls.Requests[0].UserID)
	assert.Len(t, generator.GenerateCalls.Requests[0].Text, 2000)

	entries := logStore.Entries()
	require.Len(t, entries, 1)
	assert.Equal(t, domain.GenerationStatusSucceeded, entries[0].Status)
	assert.Equal(t, 2, entries[0].SuggestionCount)
	assert.Equal(t, 1234, entries[0].TokensUsed)
	assert.Equal(t, "openai/gpt-4o-mini", entries[0].Model)
	assert.Equal(t, 2000, entries[0].InputLength)
}

func TestGenerationHandler_ErrorMapping(t *testing.T) {
	tests := []struct {
		name          string
		err           error
		wantStatus    int
		wantError     string
		wantRetry     int
		wantErrorCode string
	}{
		{
			name:          "timeout maps to 502",
			err:           generation.ErrTimeout,
			wantStatus:    http.StatusBadGateway,
			wantError:     "Upstream timeout",
			wantErrorCode: "timeout",
		},
		{
			name:          "gateway maps to 502",
			err:           generation.ErrGateway,
			wantStatus:    http.StatusBadGateway,
			wantError:     "Upstream error",
			wantErrorCode: "gateway",
		},
		{
			name:          "unavailable maps to 503 with retry hint",
			err:           generation.ErrServiceUnavailable,
			wantStatus:    http.StatusServiceUnavailable,
			wantError:     "Service unavailable",
			wantRetry:     60,
			wantErrorCode: "unavailable",
		},
		{
			name:          "no suggestions maps to 500",
			err:           generation.ErrNoSuggestions,
			wantStatus:    http.StatusInternalServerError,
			wantError:     "No suggestions generated",
			wantErrorCode: "no_suggestions",
		},
		{
			name:          "unknown error maps to 500",
			err:           errors.New("unexpected"),
			wantStatus:    http.StatusInternalServerError,
			wantError:     "Internal server error",
			wantErrorCode: "unknown",
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			generator := &mocks.MockGenerator{Err: tc.err}
			logStore := &mocks.MockGenerationLogStore{}
			handler := NewGenerationHandler(generator, logStore, nil)

			req := newGenerationRequest(t, uuid.New(), GenerateRequest{
				Text: strings.Repeat("a", 1500),
			})
			rec := httptest.NewRecorder()

			handler.Generate(rec, req)

			assert.Equal(t, tc.wantStatus, rec.Code)
			resp := decodeErrorResponse(t, rec)
			assert.Equal(t, tc.wantError, resp.Error)
			assert.Equal(t, tc.wantRetry, resp.RetryAfter)
			if tc.wantRetry > 0 {
				assert.Equal(t, "60", rec.Header().Get("Retry-After"))
			}

			entries := logStore.Entries()
			require.Len(t, entries, 1)
			assert.Equal(t, domain.GenerationStatusFailed, entries[0].Status)
			assert.Equal(t, tc.wantErrorCode, entries[0].ErrorCode)
		})
	}
}

func TestGenerationHandler_LogFailureDoesNotFailRequest(t *testing.T) {
	generator := &mocks.MockGenerator{
		Result: &generation.Result{
			Suggestions: []generation.Suggestion{{Front: "Q", Back: "A"}},
			ModelUsed:   "openai/gpt-4o-mini",
			TokensUsed:  10,
		},
	}
	logStore := &mocks.MockGenerationLogStore{Err: errors.New("database down")}
	handler := NewGenerationHandler(generator, logStore, nil)

	req := newGenerationRequest(t, uuid.New(), GenerateRequest{
		Text: strings.Repeat("a", 1500),
	})
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusOK, rec.Code)
}

func TestGenerationHandler_RequiresAuthentication(t *testing.T) {
	generator := &mocks.MockGenerator{}
	handler := NewGenerationHandler(generator, &mocks.MockGenerationLogStore{}, nil)

	req := newGenerationRequest(t, uuid.Nil, GenerateRequest{
		Text: strings.Repeat("a", 1500),
	})
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusUnauthorized, rec.Code)
	assert.Equal(t, 0, generator.CallCount())
}

func TestGenerationHandler_RejectsMalformedBody(t *testing.T) {
	generator := &mocks.MockGenerator{}
	handler := NewGenerationHandler(generator, &mocks.MockGenerationLogStore{}, nil)

	req := newGenerationRequest(t, uuid.New(), "{not json")
	rec := httptest.NewRecorder()

	handler.Generate(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	resp := decodeErrorResponse(t, rec)
	assert.Equal(t, "Validation failed", resp.Error)
	assert.Equal(t, 0, generator.CallCount())
}
