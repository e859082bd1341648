package api

import (
	"time"

	"github.com/google/uuid"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/domain"
)

// Common request/response structures

// RegisterRequest defines the payload for the user registration endpoint.
type RegisterRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=12,max=72"`
}

// LoginRequest defines the payload for the user login endpoint.
type LoginRequest struct {
	Email    string `json:"email"    validate:"required,email"`
	Password string `json:"password" validate:"required,min=1"`
}

// AuthResponse defines the successful response for authentication endpoints.
type AuthResponse struct {
	// UserID is the unique identifier for the authenticated user
	UserID uuid.UUID `json:"user_id"`

	// AccessToken is the JWT token used for API authorization
	AccessToken string `json:"access_token"`

	// RefreshToken is the JWT token used to obtain new access tokens
	RefreshToken string `json:"refresh_token,omitempty"`
}

// RefreshTokenRequest defines the payload for the token refresh endpoint.
type RefreshTokenRequest struct {
	// RefreshToken is the JWT refresh token to be used to obtain a new token pair
	RefreshToken string `json:"refresh_token" validate:"required"`
}

// GenerateRequest defines the payload for the suggestion generation endpoint.
// Text bounds are enforced on the trimmed value in the handler, not by
// struct tags, so the response can name the specific bound violated.
type GenerateRequest struct {
	Text  string `json:"text"`
	Model string `json:"model,omitempty"`
}

// SuggestionResponse is a single generated flashcard candidate.
type SuggestionResponse struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// GenerateResponse defines the successful response for the generation endpoint.
type GenerateResponse struct {
	GenerationID uuid.UUID            `json:"generation_id"`
	Suggestions  []SuggestionResponse `json:"suggestions"`
	ModelUsed    string               `json:"model_used"`
	TokensUsed   int                  `json:"tokens_used"`
}

// CreateFlashcardItem is a single card in a bulk-create request.
type CreateFlashcardItem struct {
	Front string `json:"front"`
	Back  string `json:"back"`

	// Source defaults to "manual" when omitted.
	Source string `json:"source,omitempty" validate:"omitempty,oneof=manual ai-full ai-edited"`

	// GenerationID links an accepted AI suggestion to its generation request.
	GenerationID *uuid.UUID `json:"generation_id,omitempty"`
}

// CreateFlashcardsRequest defines the payload for bulk flashcard creation.
type CreateFlashcardsRequest struct {
	Flashcards []CreateFlashcardItem `json:"flashcards" validate:"required,min=1,max=100"`
}

// UpdateFlashcardRequest defines the payload for editing a flashcard.
type UpdateFlashcardRequest struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// FlashcardResponse represents a single flashcard in API responses.
type FlashcardResponse struct {
	ID           uuid.UUID  `json:"id"`
	Front        string     `json:"front"`
	Back         string     `json:"back"`
	Source       string     `json:"source"`
	GenerationID *uuid.UUID `json:"generation_id,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// FlashcardListResponse defines the paginated flashcard list response.
type FlashcardListResponse struct {
	Flashcards []FlashcardResponse `json:"flashcards"`
	Page       int                 `json:"page"`
	PageSize   int                 `json:"page_size"`
	Total      int                 `json:"total"`
}

// flashcardToResponse converts a domain flashcard to its API representation.
func flashcardToResponse(card *domain.Flashcard) FlashcardResponse {
	return FlashcardResponse{
		ID:           card.ID,
		Front:        card.Front,
		Back:         card.Back,
		Source:       string(card.Source),
		GenerationID: card.GenerationID,
		CreatedAt:    card.CreatedAt,
		UpdatedAt:    card.UpdatedAt,
	}
}
