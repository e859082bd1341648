package store

import (
	"context"
	"database/sql"

	"github.com/google/uuid"

	"github.com/MarekKrzyszczyk/10xdevs-project/internal/domain"
)

// FlashcardPage is one page of a user's collection together with the total
// number of cards the user owns. The total comes from the same query as the
// rows (window count), not a second round trip.
type FlashcardPage struct {
	Flashcards []*domain.Flashcard
	Total      int
}

// FlashcardStore defines the interface for flashcard data persistence.
// Every operation is scoped to an owning user: a card belonging to another
// user behaves exactly like a card that does not exist.
type FlashcardStore interface {
	// CreateMultiple saves multiple flashcards atomically. Run it inside a
	// transaction via WithTx and RunInTransaction; outside one, partial
	// inserts are possible on failure.
	// Returns validation errors if any card data is invalid.
	CreateMultiple(ctx context.Context, cards []*domain.Flashcard) error

	// GetByID retrieves a flashcard owned by userID.
	// Returns ErrFlashcardNotFound if it does not exist or belongs to
	// someone else.
	GetByID(ctx context.Context, userID, id uuid.UUID) (*domain.Flashcard, error)

	// List returns one page of the user's collection, newest first.
	List(ctx context.Context, userID uuid.UUID, limit, offset int) (*FlashcardPage, error)

	// Update persists new front/back content (and the source transition)
	// for a card owned by userID.
	// Returns ErrFlashcardNotFound if it does not exist or belongs to
	// someone else.
	Update(ctx context.Context, card *domain.Flashcard) error

	// Delete removes a flashcard owned by userID.
	// Returns ErrFlashcardNotFound if it does not exist or belongs to
	// someone else. This operation is permanent.
	Delete(ctx context.Context, userID, id uuid.UUID) error

	// WithTx returns a new FlashcardStore instance that uses the provided
	// transaction. The transaction is created and managed by the caller.
	WithTx(tx *sql.Tx) FlashcardStore
}

// GenerationLogStore defines the interface for persisting generation
// request metadata.
type GenerationLogStore interface {
	// Create saves a generation log entry.
	// Returns validation errors if the entry is invalid.
	Create(ctx context.Context, entry *domain.GenerationLog) error
}
