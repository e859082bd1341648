package generation

import (
	"context"

	"github.com/google/uuid"
)

// Request describes one generation invocation. The text has already been
// length-checked at the request boundary; the user ID is carried for
// observability only and plays no part in authorization here.
type Request struct {
	// Text is the source material to generate flashcards from.
	Text string

	// Model optionally names the upstream model. When empty, the
	// generator's configured default is used.
	Model string

	// UserID identifies the caller for structured logging.
	UserID uuid.UUID
}

// Suggestion is a single validated flashcard candidate proposed by the
// model. Both fields are non-empty, trimmed, and at most MaxFieldLength
// characters. Suggestions are never persisted by the generator; they
// become flashcards only if the user accepts them.
type Suggestion struct {
	Front string `json:"front"`
	Back  string `json:"back"`
}

// Result is the outcome of a successful generation call.
type Result struct {
	// Suggestions preserves the upstream emission order, minus dropped
	// invalid entries and duplicates. Always non-empty on success.
	Suggestions []Suggestion

	// ModelUsed echoes the resolved model identifier.
	ModelUsed string

	// TokensUsed is a character-count based approximation of combined
	// prompt and completion size. It is an estimate, not a billing-grade
	// figure.
	TokensUsed int
}

// Generator defines the interface for generating flashcard suggestions from
// text. This interface is the boundary between the application core and
// external AI/LLM services, following the hexagonal architecture pattern.
//
// Implementations return exactly one of the package error categories on
// failure: ErrTimeout, ErrGateway, ErrServiceUnavailable, ErrNoSuggestions.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Result, error)
}
