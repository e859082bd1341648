package domain

import (
	"errors"
	"time"

	"github.com/google/uuid"
)

// GenerationStatus represents the outcome of one generation request.
type GenerationStatus string

// Possible generation status values.
const (
	GenerationStatusSucceeded GenerationStatus = "succeeded"
	GenerationStatusFailed    GenerationStatus = "failed"
)

// GenerationLog validation errors
var (
	ErrEmptyGenerationID     = errors.New("generation ID cannot be empty")
	ErrEmptyGenerationUserID = errors.New("generation user ID cannot be empty")
	ErrEmptyGenerationModel  = errors.New("generation model cannot be empty")
	ErrInvalidGenerationStatus = errors.New(
		"invalid generation status")
)

// GenerationLog records one AI generation request for observability.
// It stores only metadata about the request: the submitted text itself is
// never persisted or logged.
type GenerationLog struct {
	ID              uuid.UUID        `json:"id"`
	UserID          uuid.UUID        `json:"user_id"`
	Model           string           `json:"model"`
	InputLength     int              `json:"input_length"`
	SuggestionCount int              `json:"suggestion_count"`
	TokensUsed      int              `json:"tokens_used"`
	Status          GenerationStatus `json:"status"`

	// ErrorCode carries the failure category for failed generations
	// ("timeout", "gateway", ...). Empty on success.
	ErrorCode string `json:"error_code,omitempty"`

	CreatedAt time.Time `json:"created_at"`
}

// NewGenerationLog creates a generation log entry for the given user and model.
// Returns an error if validation fails.
func NewGenerationLog(userID uuid.UUID, model string, inputLength int) (*GenerationLog, error) {
	entry := &GenerationLog{
		ID:          uuid.New(),
		UserID:      userID,
		Model:       model,
		InputLength: inputLength,
		Status:      GenerationStatusFailed, // flipped on success
		CreatedAt:   time.Now().UTC(),
	}

	if err := entry.Validate(); err != nil {
		return nil, err
	}

	return entry, nil
}

// Validate checks if the GenerationLog has valid data.
func (g *GenerationLog) Validate() error {
	if g.ID == uuid.Nil {
		return ErrEmptyGenerationID
	}

	if g.UserID == uuid.Nil {
		return ErrEmptyGenerationUserID
	}

	if g.Model == "" {
		return ErrEmptyGenerationModel
	}

	switch g.Status {
	case GenerationStatusSucceeded, GenerationStatusFailed:
	default:
		return ErrInvalidGenerationStatus
	}

	return nil
}

// MarkSucceeded records a successful outcome with its result metadata.
func (g *GenerationLog) MarkSucceeded(suggestionCount, tokensUsed int) {
	g.Status = GenerationStatusSucceeded
	g.SuggestionCount = suggestionCount
	g.TokensUsed = tokensUsed
	g.ErrorCode = ""
}

// MarkFailed records a failed outcome with its error category.
func (g *GenerationLog) MarkFailed(errorCode string) {
	g.Status = GenerationStatusFailed
	g.SuggestionCount = 0
	g.ErrorCode = errorCode
}
