package domain

import (
	"errors"
	"strings"
	"time"
	"unicode/utf8"

	"github.com/google/uuid"
)

// FlashcardSource records how a flashcard entered the collection.
type FlashcardSource string

// Possible flashcard source values.
const (
	// SourceManual marks a card the user wrote by hand.
	SourceManual FlashcardSource = "manual"

	// SourceAIFull marks an AI suggestion accepted verbatim.
	SourceAIFull FlashcardSource = "ai-full"

	// SourceAIEdited marks an AI suggestion the user modified before or
	// after accepting it.
	SourceAIEdited FlashcardSource = "ai-edited"
)

// Field length bound shared by flashcards and generation suggestions,
// measured in characters to match the VARCHAR(1000) columns.
const MaxFieldLength = 1000

// Flashcard validation errors
var (
	ErrFlashcardIDEmpty     = errors.New("flashcard ID cannot be empty")
	ErrFlashcardUserIDEmpty = errors.New("flashcard user ID cannot be empty")
	ErrFlashcardFrontEmpty  = errors.New("flashcard front cannot be empty")
	ErrFlashcardBackEmpty   = errors.New("flashcard back cannot be empty")
	ErrFlashcardFrontTooLong = errors.New(
		"flashcard front exceeds maximum length")
	ErrFlashcardBackTooLong = errors.New(
		"flashcard back exceeds maximum length")
	ErrInvalidFlashcardSource = errors.New("invalid flashcard source")
)

// Flashcard represents a single front/back card in a user's collection.
// Front and back are stored trimmed.
type Flashcard struct {
	ID     uuid.UUID       `json:"id"`
	UserID uuid.UUID       `json:"user_id"`
	Front  string          `json:"front"`
	Back   string          `json:"back"`
	Source FlashcardSource `json:"source"`

	// GenerationID links an accepted AI suggestion back to the generation
	// request that produced it. Nil for manually created cards.
	GenerationID *uuid.UUID `json:"generation_id,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// NewFlashcard creates a new Flashcard with the given owner and content.
// Front and back are trimmed before validation.
// Returns an error if validation fails.
func NewFlashcard(
	userID uuid.UUID,
	front, back string,
	source FlashcardSource,
	generationID *uuid.UUID,
) (*Flashcard, error) {
	card := &Flashcard{
		ID:           uuid.New(),
		UserID:       userID,
		Front:        strings.TrimSpace(front),
		Back:         strings.TrimSpace(back),
		Source:       source,
		GenerationID: generationID,
		CreatedAt:    time.Now().UTC(),
		UpdatedAt:    time.Now().UTC(),
	}

	if err := card.Validate(); err != nil {
		return nil, err
	}

	return card, nil
}

// Validate checks if the Flashcard has valid data.
// Returns an error if any field fails validation.
func (f *Flashcard) Validate() error {
	if f.ID == uuid.Nil {
		return ErrFlashcardIDEmpty
	}

	if f.UserID == uuid.Nil {
		return ErrFlashcardUserIDEmpty
	}

	if f.Front == "" {
		return ErrFlashcardFrontEmpty
	}
	if utf8.RuneCountInString(f.Front) > MaxFieldLength {
		return ErrFlashcardFrontTooLong
	}

	if f.Back == "" {
		return ErrFlashcardBackEmpty
	}
	if utf8.RuneCountInString(f.Back) > MaxFieldLength {
		return ErrFlashcardBackTooLong
	}

	if !isValidFlashcardSource(f.Source) {
		return ErrInvalidFlashcardSource
	}

	return nil
}

// UpdateContent replaces the card's front and back and bumps the UpdatedAt
// timestamp. An AI-accepted card edited by its owner becomes "ai-edited".
// Returns an error if the new content is invalid; the card is unchanged
// on failure.
func (f *Flashcard) UpdateContent(front, back string) error {
	origFront, origBack, origSource := f.Front, f.Back, f.Source

	f.Front = strings.TrimSpace(front)
	f.Back = strings.TrimSpace(back)
	if f.Source == SourceAIFull {
		f.Source = SourceAIEdited
	}

	if err := f.Validate(); err != nil {
		f.Front, f.Back, f.Source = origFront, origBack, origSource
		return err
	}

	f.UpdatedAt = time.Now().UTC()
	return nil
}

// isValidFlashcardSource checks if the given source is a valid FlashcardSource.
func isValidFlashcardSource(source FlashcardSource) bool {
	switch source {
	case SourceManual, SourceAIFull, SourceAIEdited:
		return true
	default:
		return false
	}
}
